package postgres

import (
	"context"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) (err error) {
	ctx, span := startSpan(ctx, "SessionRepository.Create")
	defer func() { endSpan(span, err) }()

	return translateError(r.db.WithContext(ctx).Create(session).Error)
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (_ *domain.Session, err error) {
	ctx, span := startSpan(ctx, "SessionRepository.GetByID")
	defer func() { endSpan(span, err) }()

	var session domain.Session
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

func (r *sessionRepository) Touch(ctx context.Context, id uuid.UUID, expiresAt time.Time) (err error) {
	ctx, span := startSpan(ctx, "SessionRepository.Touch")
	defer func() { endSpan(span, err) }()

	err = r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", id).
		Update("expires_at", expiresAt).Error
	return translateError(err)
}

func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "SessionRepository.Delete")
	defer func() { endSpan(span, err) }()

	return translateError(r.db.WithContext(ctx).Delete(&domain.Session{}, "id = ?", id).Error)
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "SessionRepository.DeleteByUserID")
	defer func() { endSpan(span, err) }()

	return translateError(r.db.WithContext(ctx).Delete(&domain.Session{}, "user_id = ?", userID).Error)
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, span := startSpan(ctx, "SessionRepository.DeleteExpired")
	defer func() { endSpan(span, err) }()

	res := r.db.WithContext(ctx).Delete(&domain.Session{}, "expires_at <= ?", now)
	return res.RowsAffected, translateError(res.Error)
}
