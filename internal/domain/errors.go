package domain

import "errors"

// Movie errors
var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrInvalidRating = errors.New("rating must be between 0 and 10")
	ErrNoGenres      = errors.New("at least one genre is required")
)

// User errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)
