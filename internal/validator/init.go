package validator

import (
	"math"
	"strconv"
	"strings"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	mustRegister("year", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil
	})
	mustRegister("rating", func(fl validator.FieldLevel) bool {
		_, ok := ParseRating(fl.Field().String())
		return ok
	})
	mustRegister("genres", func(fl validator.FieldLevel) bool {
		return len(domain.SplitGenres(fl.Field().String())) > 0
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// ParseRating accepts any finite number in [0, 10].
func ParseRating(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < domain.MinRating || v > domain.MaxRating {
		return 0, false
	}
	return v, true
}
