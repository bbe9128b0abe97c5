package httputil

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sukraa/prescription-ai-backend/pkg/errors"
)

var validate = validator.New()

// Validate validates a struct using go-playground/validator
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		fields := make([]string, 0, len(validationErrors))

		for _, e := range validationErrors {
			fields = append(fields, e.Field()+" "+formatValidationError(e))
		}

		return errors.BadRequest("validation failed: " + strings.Join(fields, "; "))
	}
	return nil
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
