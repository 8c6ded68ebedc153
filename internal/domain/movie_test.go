package domain_test

import (
	"testing"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSplitGenres(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"Action, Drama", []string{"Action", "Drama"}},
		{"Sci-Fi", []string{"Sci-Fi"}},
		{" Action ,, Drama , ", []string{"Action", "Drama"}},
		{"", []string{}},
		{" , ,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.SplitGenres(tt.raw))
		})
	}
}

func TestJoinGenres(t *testing.T) {
	assert.Equal(t, "Action, Drama", domain.JoinGenres([]string{"Action", "Drama"}))
	assert.Equal(t, "", domain.JoinGenres(nil))

	genres := []string{"Crime", "Thriller"}
	assert.Equal(t, genres, domain.SplitGenres(domain.JoinGenres(genres)))
}

func TestMovie_IsOwnedBy(t *testing.T) {
	owner := uuid.New()
	movie := &domain.Movie{UserID: owner}

	assert.True(t, movie.IsOwnedBy(owner))
	assert.True(t, movie.IsOwnedBy(uuid.MustParse(owner.String())))
	assert.False(t, movie.IsOwnedBy(uuid.New()))
	assert.False(t, movie.IsOwnedBy(uuid.Nil))
}

func TestMovie_OwnerName(t *testing.T) {
	assert.Equal(t, "", (&domain.Movie{}).OwnerName())
	assert.Equal(t, "alice", (&domain.Movie{User: &domain.User{Username: "alice"}}).OwnerName())
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	s := &domain.Session{ExpiresAt: now}

	assert.True(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Second)))
	assert.False(t, s.Expired(now.Add(-time.Second)))
	assert.Equal(t, "bob", (&domain.Session{Username: "bob"}).User().Username)
}
