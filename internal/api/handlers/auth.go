package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dom/movie-catalog/internal/api/middleware"
	"github.com/dom/movie-catalog/internal/service"
	"github.com/dom/movie-catalog/internal/validator"
	"github.com/dom/movie-catalog/internal/web"
)

const (
	msgUsernameTaken      = "Username already taken"
	msgRegisterFailed     = "Error registering user"
	msgInvalidCredentials = "Invalid username or password"
	msgLoginFailed        = "Error logging in"
)

type AuthHandler struct {
	authService   *service.AuthService
	renderer      *web.Renderer
	secureCookies bool
	logger        *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, renderer *web.Renderer, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		renderer:      renderer,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "register", web.Page{
		Title: "Register",
		Data:  web.CredentialsData{},
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return web.NewHTTPError(http.StatusBadRequest, "Invalid form submission", err)
	}

	form := validator.RegisterForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	if errs := validator.Check(form); errs != nil {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form.Username, errs...)
		return nil
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			h.renderRegister(w, r, http.StatusConflict, form.Username, msgUsernameTaken)
			return nil
		}
		h.logger.ErrorContext(r.Context(), "failed to register user", "username", form.Username, "error", err)
		h.renderRegister(w, r, http.StatusInternalServerError, form.Username, msgRegisterFailed)
		return nil
	}

	middleware.SetSessionCookie(w, result.Token, result.Session.ExpiresAt, h.secureCookies)
	h.logger.InfoContext(r.Context(), "user registered", "user_id", result.User.ID, "username", result.User.Username)
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "login", web.Page{
		Title: "Log in",
		Data:  web.CredentialsData{},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return web.NewHTTPError(http.StatusBadRequest, "Invalid form submission", err)
	}

	form := validator.LoginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	if errs := validator.Check(form); errs != nil {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form.Username, errs...)
		return nil
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.renderLogin(w, r, http.StatusUnauthorized, form.Username, msgInvalidCredentials)
			return nil
		}
		h.logger.ErrorContext(r.Context(), "failed to log in", "username", form.Username, "error", err)
		h.renderLogin(w, r, http.StatusInternalServerError, form.Username, msgLoginFailed)
		return nil
	}

	middleware.SetSessionCookie(w, result.Token, result.Session.ExpiresAt, h.secureCookies)
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// Logout always ends on the home page, with or without a session to destroy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.SessionToken(r)); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to destroy session", "error", err)
	}

	middleware.ClearSessionCookie(w, h.secureCookies)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, username string, errs ...string) {
	h.renderer.Render(w, r, status, "register", web.Page{
		Title:  "Register",
		Errors: errs,
		Data:   web.CredentialsData{Username: username},
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, username string, errs ...string) {
	h.renderer.Render(w, r, status, "login", web.Page{
		Title:  "Log in",
		Errors: errs,
		Data:   web.CredentialsData{Username: username},
	})
}
