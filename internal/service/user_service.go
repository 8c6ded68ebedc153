package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/repository"
)

var ErrUserNotFound = domain.ErrUserNotFound

// UserService backs the administrative user commands.
type UserService struct {
	userRepo    repository.UserRepository
	movieRepo   repository.MovieRepository
	sessionRepo repository.SessionRepository
}

func NewUserService(userRepo repository.UserRepository, movieRepo repository.MovieRepository, sessionRepo repository.SessionRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		movieRepo:   movieRepo,
		sessionRepo: sessionRepo,
	}
}

type UserSummary struct {
	Username   string
	MovieCount int64
	CreatedAt  time.Time
}

func (s *UserService) List(ctx context.Context) ([]UserSummary, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		count, err := s.movieRepo.CountByUserID(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count movies for %s: %w", u.Username, err)
		}
		summaries = append(summaries, UserSummary{
			Username:   u.Username,
			MovieCount: count,
			CreatedAt:  u.CreatedAt,
		})
	}
	return summaries, nil
}

// Delete removes the named user, every movie they own, and their sessions.
// It returns how many movies were removed with them.
func (s *UserService) Delete(ctx context.Context, username string) (int64, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	count, err := s.movieRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		return 0, err
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}

	// The session store may live outside the database transaction (Redis).
	if err := s.sessionRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return count, fmt.Errorf("user deleted but sessions remain: %w", err)
	}

	return count, nil
}
