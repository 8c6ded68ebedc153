package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/repository"
	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository.redis")

type sessionRepository struct {
	rdb *goredis.Client
}

// NewSessionRepository stores sessions as JSON values whose key TTL tracks
// the session expiry, plus a per-user set of session ids.
func NewSessionRepository(rdb *goredis.Client) *sessionRepository {
	return &sessionRepository{rdb: rdb}
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("session:%s", id)
}

func userSessionsKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_sessions:%s", userID)
}

func ttlUntil(t time.Time) time.Duration {
	ttl := time.Until(t)
	if ttl < time.Millisecond {
		return time.Millisecond
	}
	return ttl
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Create")
	defer span.End()

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), data, ttlUntil(session.ExpiresAt))
		pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID.String())
		return nil
	})
	if err != nil {
		return err
	}
	return r.pruneUserSessions(ctx, session.UserID)
}

// pruneUserSessions drops ids from the user's set whose session keys have
// expired.
func (r *sessionRepository) pruneUserSessions(ctx context.Context, userID uuid.UUID) error {
	setKey := userSessionsKey(userID)
	ids, err := r.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}

	var dead []interface{}
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			dead = append(dead, raw)
			continue
		}
		n, err := r.rdb.Exists(ctx, sessionKey(id)).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			dead = append(dead, raw)
		}
	}

	if len(dead) == 0 {
		return nil
	}
	return r.rdb.SRem(ctx, setKey, dead...).Err()
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.GetByID")
	defer span.End()

	data, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	return &session, nil
}

func (r *sessionRepository) Touch(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Touch")
	defer span.End()

	session, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	session.ExpiresAt = expiresAt

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	// SetXX so a concurrently destroyed session is not resurrected.
	return r.rdb.SetXX(ctx, sessionKey(id), data, ttlUntil(expiresAt)).Err()
}

func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Delete")
	defer span.End()

	session, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(id))
		pipe.SRem(ctx, userSessionsKey(session.UserID), id.String())
		return nil
	})
	return err
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.DeleteByUserID")
	defer span.End()

	ids, err := r.rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userSessionsKey(userID))
	return r.rdb.Del(ctx, keys...).Err()
}

// DeleteExpired is a no-op: Redis evicts sessions through key TTLs.
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
