package web

import "github.com/dom/movie-catalog/internal/domain"

type IndexData struct {
	Movies []*domain.Movie
}

// CredentialsData redisplays the username on the login and register forms.
// The password is never echoed back.
type CredentialsData struct {
	Username string
}

// MovieFormData holds the values shown in the add and edit forms. ID is set
// only when editing.
type MovieFormData struct {
	ID          string
	Name        string
	Description string
	Year        string
	Genres      []string
	Rating      string
}

func MovieFormFromMovie(movie *domain.Movie) MovieFormData {
	return MovieFormData{
		ID:          movie.ID.String(),
		Name:        movie.Name,
		Description: movie.Description,
		Year:        itoa(movie.Year),
		Genres:      movie.Genres,
		Rating:      FormatRating(movie.Rating),
	}
}

type DetailsData struct {
	Movie   *domain.Movie
	IsOwner bool
}
