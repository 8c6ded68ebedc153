package service

import (
	"github.com/dom/movie-catalog/internal/config"
	"github.com/dom/movie-catalog/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Session *SessionService
	Movie   *MovieService
	User    *UserService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, notifier CatalogNotifier) *Services {
	sessions := NewSessionService(repos.Session, cfg.SessionSecret, cfg.SessionIdleTimeout)
	return &Services{
		Auth:    NewAuthService(repos.User, sessions),
		Session: sessions,
		Movie:   NewMovieService(repos.Movie, notifier),
		User:    NewUserService(repos.User, repos.Movie, repos.Session),
	}
}
