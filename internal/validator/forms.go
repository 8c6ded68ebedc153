package validator

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/go-playground/validator/v10"
)

// RegisterForm is the submitted registration form.
type RegisterForm struct {
	Username string `validate:"required" msg:"Username is required"`
	Password string `validate:"min=4" msg:"Password must be at least 4 characters"`
}

// LoginForm is the submitted login form.
type LoginForm struct {
	Username string `validate:"required" msg:"Username is required"`
	Password string `validate:"required" msg:"Password is required"`
}

// MovieForm holds the raw strings of the add and edit movie forms.
type MovieForm struct {
	Name        string `validate:"required" msg:"Name is required"`
	Description string `validate:"required" msg:"Description is required"`
	Year        string `validate:"required,year" msg:"Valid year is required"`
	Genres      string `validate:"required,genres" msg:"At least one genre is required"`
	Rating      string `validate:"required,rating" msg:"Rating must be between 0 and 10"`
}

// MovieFields are the typed values of a valid MovieForm.
type MovieFields struct {
	Name        string
	Description string
	Year        int
	Genres      []string
	Rating      float64
}

// Fields converts a form that passed Check.
func (f MovieForm) Fields() MovieFields {
	year, _ := strconv.Atoi(strings.TrimSpace(f.Year))
	rating, _ := ParseRating(f.Rating)
	return MovieFields{
		Name:        f.Name,
		Description: f.Description,
		Year:        year,
		Genres:      domain.SplitGenres(f.Genres),
		Rating:      rating,
	}
}

// Check validates form and returns one message per failing field, in field
// order. A nil slice means the form is valid.
func Check(form any) []string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, message(form, fe))
	}
	return messages
}

func message(form any, fe validator.FieldError) string {
	if msg := fieldTag(form, fe.StructField(), "msg"); msg != "" {
		return msg
	}
	return fe.Error()
}
