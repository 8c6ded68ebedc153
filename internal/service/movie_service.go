package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/repository"
	"github.com/google/uuid"
)

var ErrMovieNotFound = domain.ErrMovieNotFound

// CatalogNotifier is told about every successful catalog mutation.
type CatalogNotifier interface {
	MovieCreated(movie *domain.Movie)
	MovieUpdated(movie *domain.Movie)
	MovieDeleted(id uuid.UUID)
}

type noopNotifier struct{}

func (noopNotifier) MovieCreated(*domain.Movie) {}
func (noopNotifier) MovieUpdated(*domain.Movie) {}
func (noopNotifier) MovieDeleted(uuid.UUID)     {}

type MovieService struct {
	movieRepo repository.MovieRepository
	notifier  CatalogNotifier
}

func NewMovieService(movieRepo repository.MovieRepository, notifier CatalogNotifier) *MovieService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &MovieService{
		movieRepo: movieRepo,
		notifier:  notifier,
	}
}

type MovieInput struct {
	Name        string
	Description string
	Year        int
	Genres      []string
	Rating      float64
}

func (in MovieInput) validate() error {
	if math.IsNaN(in.Rating) || in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return domain.ErrInvalidRating
	}
	if len(in.Genres) == 0 {
		return domain.ErrNoGenres
	}
	return nil
}

func (s *MovieService) List(ctx context.Context) ([]*domain.Movie, error) {
	return s.movieRepo.ListWithOwners(ctx)
}

func (s *MovieService) Get(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	movie, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) Create(ctx context.Context, owner *domain.SessionUser, input MovieInput) (*domain.Movie, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	movie := &domain.Movie{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Year:        input.Year,
		Genres:      input.Genres,
		Rating:      input.Rating,
		UserID:      owner.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.movieRepo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	movie.User = &domain.User{ID: owner.ID, Username: owner.Username}
	s.notifier.MovieCreated(movie)
	return movie, nil
}

// Update overwrites the mutable fields of a movie owned by owner. Owner and
// id never change.
func (s *MovieService) Update(ctx context.Context, id uuid.UUID, owner *domain.SessionUser, input MovieInput) (*domain.Movie, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	movie := &domain.Movie{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Year:        input.Year,
		Genres:      input.Genres,
		Rating:      input.Rating,
		UserID:      owner.ID,
	}

	if err := s.movieRepo.UpdateOwned(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	movie.User = &domain.User{ID: owner.ID, Username: owner.Username}
	s.notifier.MovieUpdated(movie)
	return movie, nil
}

func (s *MovieService) Delete(ctx context.Context, id uuid.UUID, owner *domain.SessionUser) error {
	if err := s.movieRepo.DeleteOwned(ctx, id, owner.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMovieNotFound
		}
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	s.notifier.MovieDeleted(id)
	return nil
}
