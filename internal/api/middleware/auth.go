package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/service"
)

type contextKey string

const (
	SessionUserKey contextKey = "sessionUser"
	MovieKey       contextKey = "movie"
)

const SessionCookieName = "movie_session"

// SessionResolver turns a session token into a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// LoadSession attaches the session user to the request context when the
// request carries a valid session cookie. Requests without one continue
// anonymously.
func LoadSession(sessions SessionResolver, secure bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrInvalidToken):
					ClearSessionCookie(w, secure)
				default:
					logger.ErrorContext(r.Context(), "failed to load session", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			SetSessionCookie(w, token, session.ExpiresAt, secure)
			ctx := WithSessionUser(r.Context(), session.User())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth sends anonymous requests to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionUser(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithSessionUser(ctx context.Context, user *domain.SessionUser) context.Context {
	return context.WithValue(ctx, SessionUserKey, user)
}

func GetSessionUser(ctx context.Context) (*domain.SessionUser, bool) {
	user, ok := ctx.Value(SessionUserKey).(*domain.SessionUser)
	return user, ok && user != nil
}

func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func SetSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
