package testutil

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithUsername(name string) *UserBuilder {
	b.username = name
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	// MinCost keeps the suite fast; production hashing uses the default cost.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndLogin creates the user and returns a client holding a session for
// it.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, *http.Client) {
	t.Helper()

	user, password := b.Build(t, ts.DB)
	client := ts.NewClient(t)
	Login(t, ts, client, user.Username, password)
	return user, client
}

// Login posts the login form and fails the test unless a session was
// established.
func Login(t *testing.T, ts *TestServer, client *http.Client, username, password string) {
	t.Helper()

	resp := PostForm(t, client, ts.URL("/login"), url.Values{
		"username": {username},
		"password": {password},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("login as %s failed with status %d: %s", username, resp.StatusCode, resp.Body)
	}
	if ts.SessionCookie(t, client) == nil {
		t.Fatalf("login as %s did not set a session cookie", username)
	}
}

// MovieBuilder creates test movies with a builder pattern
type MovieBuilder struct {
	name        string
	description string
	year        int
	genres      []string
	rating      float64
	createdAt   time.Time
}

func NewMovieBuilder() *MovieBuilder {
	return &MovieBuilder{
		name:        fmt.Sprintf("Movie %s", uuid.New().String()[:8]),
		description: "A test movie",
		year:        2000,
		genres:      []string{"Drama"},
		rating:      7,
		createdAt:   time.Now(),
	}
}

func (b *MovieBuilder) WithName(name string) *MovieBuilder {
	b.name = name
	return b
}

func (b *MovieBuilder) WithYear(year int) *MovieBuilder {
	b.year = year
	return b
}

func (b *MovieBuilder) WithGenres(genres ...string) *MovieBuilder {
	b.genres = genres
	return b
}

func (b *MovieBuilder) WithRating(rating float64) *MovieBuilder {
	b.rating = rating
	return b
}

func (b *MovieBuilder) WithCreatedAt(createdAt time.Time) *MovieBuilder {
	b.createdAt = createdAt
	return b
}

// Build inserts the movie owned by owner.
func (b *MovieBuilder) Build(t *testing.T, db *gorm.DB, owner *domain.User) *domain.Movie {
	t.Helper()

	movie := &domain.Movie{
		ID:          uuid.New(),
		Name:        b.name,
		Description: b.description,
		Year:        b.year,
		Genres:      b.genres,
		Rating:      b.rating,
		UserID:      owner.ID,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.createdAt,
	}

	if err := db.Omit("User").Create(movie).Error; err != nil {
		t.Fatalf("failed to create movie: %v", err)
	}

	movie.User = owner
	return movie
}

// MovieCount returns how many movies are stored.
func MovieCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&domain.Movie{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count movies: %v", err)
	}
	return count
}

// GetMovie reloads a movie straight from the database.
func GetMovie(t *testing.T, db *gorm.DB, id uuid.UUID) (*domain.Movie, bool) {
	t.Helper()

	var movie domain.Movie
	err := db.First(&movie, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false
	}
	if err != nil {
		t.Fatalf("failed to load movie: %v", err)
	}
	return &movie, true
}
