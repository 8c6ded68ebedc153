package postgres

import (
	"context"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *movieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) Create(ctx context.Context, movie *domain.Movie) (err error) {
	ctx, span := startSpan(ctx, "MovieRepository.Create")
	defer func() { endSpan(span, err) }()

	// Omit the relation so a partially loaded owner is never upserted.
	return translateError(r.db.WithContext(ctx).Omit("User").Create(movie).Error)
}

func (r *movieRepository) GetByID(ctx context.Context, id uuid.UUID) (_ *domain.Movie, err error) {
	ctx, span := startSpan(ctx, "MovieRepository.GetByID")
	defer func() { endSpan(span, err) }()

	var movie domain.Movie
	if err := r.db.WithContext(ctx).Preload("User").First(&movie, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &movie, nil
}

func (r *movieRepository) ListWithOwners(ctx context.Context) (_ []*domain.Movie, err error) {
	ctx, span := startSpan(ctx, "MovieRepository.ListWithOwners")
	defer func() { endSpan(span, err) }()

	var movies []*domain.Movie
	err = r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&movies).Error
	if err != nil {
		return nil, translateError(err)
	}
	return movies, nil
}

func (r *movieRepository) UpdateOwned(ctx context.Context, movie *domain.Movie) (err error) {
	ctx, span := startSpan(ctx, "MovieRepository.UpdateOwned")
	defer func() { endSpan(span, err) }()

	res := r.db.WithContext(ctx).
		Model(&domain.Movie{}).
		Where("id = ? AND user_id = ?", movie.ID, movie.UserID).
		Updates(map[string]interface{}{
			"name":        movie.Name,
			"description": movie.Description,
			"year":        movie.Year,
			"genres":      movie.Genres,
			"rating":      movie.Rating,
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *movieRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "MovieRepository.DeleteOwned")
	defer func() { endSpan(span, err) }()

	res := r.db.WithContext(ctx).Delete(&domain.Movie{}, "id = ? AND user_id = ?", id, ownerID)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *movieRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (_ int64, err error) {
	ctx, span := startSpan(ctx, "MovieRepository.CountByUserID")
	defer func() { endSpan(span, err) }()

	var count int64
	err = r.db.WithContext(ctx).Model(&domain.Movie{}).Where("user_id = ?", userID).Count(&count).Error
	return count, translateError(err)
}
