package postgres

import (
	"context"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (err error) {
	ctx, span := startSpan(ctx, "UserRepository.Create")
	defer func() { endSpan(span, err) }()

	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "UserRepository.GetByID")
	defer func() { endSpan(span, err) }()

	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "UserRepository.GetByUsername")
	defer func() { endSpan(span, err) }()

	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) (_ []*domain.User, err error) {
	ctx, span := startSpan(ctx, "UserRepository.List")
	defer func() { endSpan(span, err) }()

	var users []*domain.User
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&users).Error; err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "UserRepository.Delete")
	defer func() { endSpan(span, err) }()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.Movie{}).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Session{}).Error; err != nil {
			return translateError(err)
		}
		res := tx.Delete(&domain.User{}, "id = ?", id)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}
