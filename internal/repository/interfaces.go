package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	// Create returns ErrDuplicate if the username is already in use.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Delete removes the user together with their movies and sessions.
	Delete(ctx context.Context, id uuid.UUID) error
}

type MovieRepository interface {
	Create(ctx context.Context, movie *domain.Movie) error
	// GetByID loads the movie with its owner.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
	// ListWithOwners returns every movie with its owner, newest first.
	ListWithOwners(ctx context.Context) ([]*domain.Movie, error)
	// UpdateOwned writes the mutable fields of movie, matching on both id and
	// owner. ErrNotFound is returned when no row matches.
	UpdateOwned(ctx context.Context, movie *domain.Movie) error
	// DeleteOwned removes the movie if it belongs to ownerID. ErrNotFound is
	// returned when no row matches.
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Touch(ctx context.Context, id uuid.UUID, expiresAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Repositories struct {
	User    UserRepository
	Movie   MovieRepository
	Session SessionRepository
}
