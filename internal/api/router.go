package api

import (
	"log/slog"
	"net/http"

	"github.com/dom/movie-catalog/internal/api/handlers"
	"github.com/dom/movie-catalog/internal/api/middleware"
	"github.com/dom/movie-catalog/internal/config"
	"github.com/dom/movie-catalog/internal/service"
	"github.com/dom/movie-catalog/internal/web"
	"github.com/dom/movie-catalog/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	renderer, err := web.NewRenderer(middleware.GetSessionUser, cfg.IsProduction(), logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recoverer(renderer, logger))
	r.Use(middleware.LoadSession(services.Session, cfg.IsProduction(), logger))

	r.NotFound(renderer.NotFound)
	r.MethodNotAllowed(renderer.MethodNotAllowed)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, renderer, cfg.IsProduction(), logger)
	movieHandler := handlers.NewMovieHandler(services.Movie, renderer, logger)
	wsHandler := handlers.NewWebSocketHandler(hub, logger)

	r.Get("/", movieHandler.List)

	// Auth routes
	r.Get("/register", authHandler.ShowRegister)
	r.Post("/register", renderer.Handle(authHandler.Register))
	r.Get("/login", authHandler.ShowLogin)
	r.Post("/login", renderer.Handle(authHandler.Login))
	r.Post("/logout", authHandler.Logout)

	// Movie routes
	r.Route("/movies", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/add", movieHandler.ShowAdd)
		r.With(middleware.RequireAuth).Post("/add", renderer.Handle(movieHandler.Add))
		r.Get("/{id}", renderer.Handle(movieHandler.View))

		// Owner-only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireOwnership(services.Movie, renderer))
			r.Get("/{id}/edit", renderer.Handle(movieHandler.ShowEdit))
			r.Post("/{id}/edit", renderer.Handle(movieHandler.Edit))
			r.Post("/{id}/delete", renderer.Handle(movieHandler.Delete))
		})
	})

	// Catalog feed
	r.Get("/ws", wsHandler.Handle)

	return otelhttp.NewHandler(r, "movie-catalog"), nil
}
