package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldViolation is one entry of a 422 response body.
type FieldViolation struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ProcessValidationErrors maps validator errors to per-field violations, keeping
// the validator's field order. Non-validator errors collapse into a single body-level entry.
func ProcessValidationErrors(err error) []FieldViolation {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldViolation{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		}}
	}

	out := make([]FieldViolation, 0, len(validationErrors))
	for _, ve := range validationErrors {
		out = append(out, FieldViolation{
			Loc:  []string{"body", ve.Field()},
			Msg:  ValidationMessage(ve),
			Type: ve.Tag(),
		})
	}
	return out
}

// ValidationMessage renders a human readable message for a single failed rule.
func ValidationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "len":
		return fmt.Sprintf("%s must be %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "alphanum":
		return field + " must be alphanumeric"
	case "alnum_hyphen":
		return field + " must be alphanumeric or contain hyphens"
	case "numeric_str":
		return field + " must be numeric"
	case "client_name":
		return field + " must contain only letters, numbers, spaces and dots"
	case "ddmmyyyy":
		return field + " must be in the format DDMMAAAA"
	case "hhmmss":
		return field + " must be in the format HHMMSS"
	case "maxdigits":
		return fmt.Sprintf("%s must be less than %s numbers", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}
