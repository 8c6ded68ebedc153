package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/service"
	"github.com/dom/movie-catalog/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type MovieGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
}

// RequireOwnership loads the movie named by the {id} route parameter and lets
// the request through only if the session user owns it. Mount it after
// RequireAuth.
func RequireOwnership(movies MovieGetter, renderer *web.Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetSessionUser(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				renderer.Error(w, r, web.NewHTTPError(http.StatusNotFound, "Movie not found", nil))
				return
			}

			movie, err := movies.Get(r.Context(), id)
			if err != nil {
				if errors.Is(err, service.ErrMovieNotFound) {
					renderer.Error(w, r, web.NewHTTPError(http.StatusNotFound, "Movie not found", nil))
					return
				}
				renderer.Error(w, r, web.NewHTTPError(http.StatusInternalServerError, "Error fetching movie", err))
				return
			}

			if !movie.IsOwnedBy(user.ID) {
				renderer.Error(w, r, web.NewHTTPError(http.StatusForbidden, "Forbidden", nil))
				return
			}

			ctx := context.WithValue(r.Context(), MovieKey, movie)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetMovie(ctx context.Context) (*domain.Movie, bool) {
	movie, ok := ctx.Value(MovieKey).(*domain.Movie)
	return movie, ok
}
