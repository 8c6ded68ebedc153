package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MinRating = 0
	MaxRating = 10
)

type Movie struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primary_key"`
	Name        string                      `json:"name" gorm:"not null"`
	Description string                      `json:"description" gorm:"not null"`
	Year        int                         `json:"year" gorm:"not null"`
	Genres      datatypes.JSONSlice[string] `json:"genres" gorm:"not null"`
	Rating      float64                     `json:"rating" gorm:"not null"`
	UserID      uuid.UUID                   `json:"userId" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time                   `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time                   `json:"updatedAt"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// OwnerName returns the owning user's name when the relation was loaded.
func (m *Movie) OwnerName() string {
	if m.User == nil {
		return ""
	}
	return m.User.Username
}

// IsOwnedBy compares owner ids in their canonical string form.
func (m *Movie) IsOwnedBy(userID uuid.UUID) bool {
	return m.UserID.String() == userID.String()
}

// SplitGenres turns "Action, Drama" into ["Action", "Drama"]. Empty segments
// are dropped.
func SplitGenres(raw string) []string {
	parts := strings.Split(raw, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

func JoinGenres(genres []string) string {
	return strings.Join(genres, ", ")
}
