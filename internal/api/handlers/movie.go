package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dom/movie-catalog/internal/api/middleware"
	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/service"
	"github.com/dom/movie-catalog/internal/validator"
	"github.com/dom/movie-catalog/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	msgLoadMoviesFailed = "Failed to load movies"
	msgSaveFailed       = "Error saving movie"
	msgUpdateFailed     = "Error updating movie"
	msgDeleteFailed     = "Error deleting movie"
	msgFetchFailed      = "Error fetching movie"
	msgMovieNotFound    = "Movie not found"
)

type MovieHandler struct {
	movieService *service.MovieService
	renderer     *web.Renderer
	logger       *slog.Logger
}

func NewMovieHandler(movieService *service.MovieService, renderer *web.Renderer, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{
		movieService: movieService,
		renderer:     renderer,
		logger:       logger,
	}
}

// List renders the home page. A failed fetch still renders the page, with an
// empty list and a note.
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	page := web.Page{Title: "Movies"}

	movies, err := h.movieService.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list movies", "error", err)
		page.Errors = []string{msgLoadMoviesFailed}
		movies = nil
	}
	page.Data = web.IndexData{Movies: movies}

	h.renderer.Render(w, r, http.StatusOK, "index", page)
}

func (h *MovieHandler) ShowAdd(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "movies/add", web.Page{
		Title: "Add movie",
		Data:  web.MovieFormData{},
	})
}

func (h *MovieHandler) Add(w http.ResponseWriter, r *http.Request) error {
	user, _ := middleware.GetSessionUser(r.Context())

	form, err := parseMovieForm(r)
	if err != nil {
		return err
	}
	if errs := validator.Check(form); errs != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "movies/add", formData("", form), errs...)
		return nil
	}

	movie, err := h.movieService.Create(r.Context(), user, service.MovieInput(form.Fields()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to create movie", "user_id", user.ID, "error", err)
		h.renderForm(w, r, http.StatusInternalServerError, "movies/add", formData("", form), msgSaveFailed)
		return nil
	}

	h.logger.InfoContext(r.Context(), "movie created", "movie_id", movie.ID, "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

func (h *MovieHandler) View(w http.ResponseWriter, r *http.Request) error {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return web.NewHTTPError(http.StatusNotFound, msgMovieNotFound, nil)
	}

	movie, err := h.movieService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			return web.NewHTTPError(http.StatusNotFound, msgMovieNotFound, nil)
		}
		return web.NewHTTPError(http.StatusInternalServerError, msgFetchFailed, err)
	}

	data := web.DetailsData{Movie: movie}
	if user, ok := middleware.GetSessionUser(r.Context()); ok {
		data.IsOwner = movie.IsOwnedBy(user.ID)
	}

	h.renderer.Render(w, r, http.StatusOK, "movies/details", web.Page{
		Title: movie.Name,
		Data:  data,
	})
	return nil
}

// ShowEdit renders the movie loaded by RequireOwnership.
func (h *MovieHandler) ShowEdit(w http.ResponseWriter, r *http.Request) error {
	movie, ok := middleware.GetMovie(r.Context())
	if !ok {
		return web.NewHTTPError(http.StatusNotFound, msgMovieNotFound, nil)
	}

	h.renderForm(w, r, http.StatusOK, "movies/edit", web.MovieFormFromMovie(movie))
	return nil
}

func (h *MovieHandler) Edit(w http.ResponseWriter, r *http.Request) error {
	user, _ := middleware.GetSessionUser(r.Context())
	movie, ok := middleware.GetMovie(r.Context())
	if !ok {
		return web.NewHTTPError(http.StatusNotFound, msgMovieNotFound, nil)
	}

	form, err := parseMovieForm(r)
	if err != nil {
		return err
	}
	if errs := validator.Check(form); errs != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "movies/edit", formData(movie.ID.String(), form), errs...)
		return nil
	}

	_, err = h.movieService.Update(r.Context(), movie.ID, user, service.MovieInput(form.Fields()))
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			return web.NewHTTPError(http.StatusNotFound, msgMovieNotFound, nil)
		}
		h.logger.ErrorContext(r.Context(), "failed to update movie", "movie_id", movie.ID, "error", err)
		h.renderForm(w, r, http.StatusInternalServerError, "movies/edit", formData(movie.ID.String(), form), msgUpdateFailed)
		return nil
	}

	http.Redirect(w, r, "/movies/"+movie.ID.String(), http.StatusFound)
	return nil
}

func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	user, _ := middleware.GetSessionUser(r.Context())
	movie, ok := middleware.GetMovie(r.Context())
	if !ok {
		return web.NewHTTPError(http.StatusNotFound, msgMovieNotFound, nil)
	}

	if err := h.movieService.Delete(r.Context(), movie.ID, user); err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			return web.NewHTTPError(http.StatusNotFound, msgMovieNotFound, nil)
		}
		return web.NewHTTPError(http.StatusInternalServerError, msgDeleteFailed, err)
	}

	h.logger.InfoContext(r.Context(), "movie deleted", "movie_id", movie.ID, "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

func (h *MovieHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, name string, data web.MovieFormData, errs ...string) {
	title := "Add movie"
	if name == "movies/edit" {
		title = "Edit movie"
	}
	h.renderer.Render(w, r, status, name, web.Page{
		Title:  title,
		Errors: errs,
		Data:   data,
	})
}

func parseMovieForm(r *http.Request) (validator.MovieForm, error) {
	if err := r.ParseForm(); err != nil {
		return validator.MovieForm{}, web.NewHTTPError(http.StatusBadRequest, "Invalid form submission", err)
	}
	return validator.MovieForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Year:        r.PostFormValue("year"),
		Genres:      r.PostFormValue("genres"),
		Rating:      r.PostFormValue("rating"),
	}, nil
}

// formData redisplays submitted values, with genres already split.
func formData(id string, form validator.MovieForm) web.MovieFormData {
	return web.MovieFormData{
		ID:          id,
		Name:        form.Name,
		Description: form.Description,
		Year:        form.Year,
		Genres:      domain.SplitGenres(form.Genres),
		Rating:      form.Rating,
	}
}
