// Package validation checks chore input before it reaches the store and
// reports problems per field so a caller can re-render with inline markers.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hamaluik/chordle/internal/interval"
)

var validate = validator.New()

// ChoreInput is the raw user input for creating or updating a chore.
type ChoreInput struct {
	Name     string `json:"name" validate:"required,min=1,max=160"`
	Interval string `json:"interval" validate:"required"`
}

// FieldErrors maps a field name to a short machine-usable error tag.
type FieldErrors map[string]string

// Check validates the input. It returns nil when the input is acceptable.
func Check(input ChoreInput) FieldErrors {
	errs := FieldErrors{}

	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			switch fieldErr.Field() {
			case "Name":
				errs["name"] = fieldErr.Tag()
			case "Interval":
				errs["interval"] = fieldErr.Tag()
			}
		}
	}

	if _, ok := errs["interval"]; !ok {
		iv, err := interval.Parse(input.Interval)
		switch {
		case err != nil:
			errs["interval"] = "invalid"
		case iv.IsZero():
			errs["interval"] = "zero"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
