package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/dom/movie-catalog/internal/repository"
	"github.com/dom/movie-catalog/internal/repository/redis"
	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newTestClient(t *testing.T) *goredis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcRedis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := redis.NewClient(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSessionRepository(t *testing.T) {
	client := newTestClient(t)
	repo := redis.NewSessionRepository(client)
	ctx := context.Background()

	now := time.Now().UTC()
	userID := uuid.New()
	first := &domain.Session{ID: uuid.New(), UserID: userID, Username: "alice", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	second := &domain.Session{ID: uuid.New(), UserID: userID, Username: "alice", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	other := &domain.Session{ID: uuid.New(), UserID: uuid.New(), Username: "bob", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	for _, s := range []*domain.Session{first, second, other} {
		require.NoError(t, repo.Create(ctx, s))
	}

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, userID, got.UserID)

	ttl, err := client.TTL(ctx, "session:"+first.ID.String()).Result()
	require.NoError(t, err)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

	extended := now.Add(2 * time.Hour)
	require.NoError(t, repo.Touch(ctx, first.ID, extended))
	got, err = repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.Equal(extended))

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	members, err := client.SMembers(ctx, "user_sessions:"+userID.String()).Result()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{second.ID.String()}, members)
	require.NoError(t, repo.Delete(ctx, first.ID))

	// Touching a destroyed session must not bring it back.
	require.NoError(t, repo.Touch(ctx, first.ID, extended))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.DeleteByUserID(ctx, userID))
	_, err = repo.GetByID(ctx, second.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByID(ctx, other.ID)
	assert.NoError(t, err)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSessionRepository_ExpiresWithTTL(t *testing.T) {
	client := newTestClient(t)
	repo := redis.NewSessionRepository(client)
	ctx := context.Background()

	now := time.Now()
	session := &domain.Session{ID: uuid.New(), UserID: uuid.New(), Username: "alice", ExpiresAt: now.Add(time.Second), CreatedAt: now}
	require.NoError(t, repo.Create(ctx, session))

	assert.Eventually(t, func() bool {
		_, err := repo.GetByID(ctx, session.ID)
		return err == repository.ErrNotFound
	}, 5*time.Second, 100*time.Millisecond)
}

func TestSessionRepository_PrunesExpiredIDs(t *testing.T) {
	client := newTestClient(t)
	repo := redis.NewSessionRepository(client)
	ctx := context.Background()

	userID := uuid.New()
	now := time.Now()
	shortLived := &domain.Session{ID: uuid.New(), UserID: userID, Username: "alice", ExpiresAt: now.Add(time.Second), CreatedAt: now}
	require.NoError(t, repo.Create(ctx, shortLived))

	require.Eventually(t, func() bool {
		_, err := repo.GetByID(ctx, shortLived.ID)
		return err == repository.ErrNotFound
	}, 5*time.Second, 100*time.Millisecond)

	next := &domain.Session{ID: uuid.New(), UserID: userID, Username: "alice", ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, next))

	members, err := client.SMembers(ctx, "user_sessions:"+userID.String()).Result()
	require.NoError(t, err)
	assert.Equal(t, []string{next.ID.String()}, members)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := redis.NewClient(context.Background(), "not a url")
	assert.Error(t, err)
}
