package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dom/movie-catalog/internal/api/middleware"
	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/service"
	"github.com/dom/movie-catalog/internal/testutil"
	"github.com/dom/movie-catalog/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	sessions map[string]*domain.Session
	err      error
}

func (s *stubResolver) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	session, ok := s.sessions[token]
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

type stubMovies struct {
	movies map[uuid.UUID]*domain.Movie
	err    error
}

func (s *stubMovies) Get(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	if s.err != nil {
		return nil, s.err
	}
	movie, ok := s.movies[id]
	if !ok {
		return nil, service.ErrMovieNotFound
	}
	return movie, nil
}

func newRenderer(t *testing.T) *web.Renderer {
	t.Helper()
	renderer, err := web.NewRenderer(middleware.GetSessionUser, false, testutil.DiscardLogger())
	require.NoError(t, err)
	return renderer
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetSessionUser(r.Context()); ok {
		w.Write([]byte(user.Username))
		return
	}
	w.Write([]byte("anonymous"))
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}
	return req
}

func TestLoadSession(t *testing.T) {
	userID := uuid.New()
	resolver := &stubResolver{sessions: map[string]*domain.Session{
		"good": {ID: uuid.New(), UserID: userID, Username: "alice", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	handler := middleware.LoadSession(resolver, false, testutil.DiscardLogger())(http.HandlerFunc(whoAmI))

	t.Run("valid session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithToken("good"))

		assert.Equal(t, "alice", rec.Body.String())
		cookie := rec.Result().Cookies()
		require.Len(t, cookie, 1)
		assert.Equal(t, "good", cookie[0].Value)
		assert.True(t, cookie[0].HttpOnly)
	})

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithToken(""))

		assert.Equal(t, "anonymous", rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("unknown session clears cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithToken("stale"))

		assert.Equal(t, "anonymous", rec.Body.String())
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})
}

func TestLoadSession_StoreErrorContinuesAnonymously(t *testing.T) {
	resolver := &stubResolver{err: errors.New("connection refused")}
	handler := middleware.LoadSession(resolver, false, testutil.DiscardLogger())(http.HandlerFunc(whoAmI))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithToken("anything"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies(), "cookie kept when the store is unavailable")
}

func TestRequireAuth(t *testing.T) {
	handler := middleware.RequireAuth(http.HandlerFunc(whoAmI))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies/add", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/movies/add", nil)
	req = req.WithContext(middleware.WithSessionUser(req.Context(), &domain.SessionUser{ID: uuid.New(), Username: "bob"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", rec.Body.String())
}

func TestRequireOwnership(t *testing.T) {
	owner := &domain.SessionUser{ID: uuid.New(), Username: "owner"}
	other := &domain.SessionUser{ID: uuid.New(), Username: "other"}
	movie := &domain.Movie{ID: uuid.New(), Name: "Owned", UserID: owner.ID}

	tests := []struct {
		name         string
		movies       *stubMovies
		user         *domain.SessionUser
		path         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "owner passes through",
			movies:       &stubMovies{movies: map[uuid.UUID]*domain.Movie{movie.ID: movie}},
			user:         owner,
			path:         "/movies/" + movie.ID.String() + "/edit",
			expectedCode: http.StatusOK,
			expectedBody: "Owned",
		},
		{
			name:         "other user is forbidden",
			movies:       &stubMovies{movies: map[uuid.UUID]*domain.Movie{movie.ID: movie}},
			user:         other,
			path:         "/movies/" + movie.ID.String() + "/edit",
			expectedCode: http.StatusForbidden,
			expectedBody: "Forbidden",
		},
		{
			name:         "missing movie",
			movies:       &stubMovies{},
			user:         owner,
			path:         "/movies/" + uuid.NewString() + "/edit",
			expectedCode: http.StatusNotFound,
			expectedBody: "Movie not found",
		},
		{
			name:         "malformed id",
			movies:       &stubMovies{},
			user:         owner,
			path:         "/movies/42/edit",
			expectedCode: http.StatusNotFound,
			expectedBody: "Movie not found",
		},
		{
			name:         "lookup failure",
			movies:       &stubMovies{err: errors.New("db down")},
			user:         owner,
			path:         "/movies/" + movie.ID.String() + "/edit",
			expectedCode: http.StatusInternalServerError,
			expectedBody: "Error fetching movie",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.With(middleware.RequireOwnership(tt.movies, newRenderer(t))).Get("/movies/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
				m, ok := middleware.GetMovie(r.Context())
				require.True(t, ok)
				w.Write([]byte(m.Name))
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req = req.WithContext(middleware.WithSessionUser(req.Context(), tt.user))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func TestRecoverer(t *testing.T) {
	handler := middleware.Recoverer(newRenderer(t), testutil.DiscardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
	assert.Contains(t, rec.Body.String(), "panic: boom")
}

func TestRequestLogger(t *testing.T) {
	var buf strings.Builder
	logger := testutil.NewBufferLogger(&buf)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Get("/movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies/abc", nil))

	out := buf.String()
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "route=/movies/{id}")
	assert.Contains(t, out, "path=/movies/abc")
}
