package shared

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FormErrors maps form field names to a message shown next to the field.
type FormErrors map[string]string

// Has reports whether field has an error.
func (f FormErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// ValidationErrors converts validator output into per-field messages keyed by struct field name.
// Errors that are not validation errors land under "general".
func ValidationErrors(err error) FormErrors {
	out := FormErrors{}
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["general"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		if _, exists := out[fe.Field()]; exists {
			continue
		}
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Please enter a valid email address"
	case "url":
		return "Please enter a valid URL"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "oneof":
		return "Please choose one of the listed options"
	case "datetime":
		return "Please enter a valid value"
	default:
		return "Invalid value"
	}
}

// InvalidForm reports per-field failures detected below the handler.
type InvalidForm struct {
	Errors FormErrors
}

func (e *InvalidForm) Error() string {
	return fmt.Sprintf("invalid form: %d field(s)", len(e.Errors))
}

// NewInvalidForm wraps a single field failure.
func NewInvalidForm(field, message string) *InvalidForm {
	return &InvalidForm{Errors: FormErrors{field: message}}
}

// FormErrorsFrom extracts field messages from err, including validator output.
func FormErrorsFrom(err error) FormErrors {
	var inv *InvalidForm
	if errors.As(err, &inv) {
		return inv.Errors
	}
	return ValidationErrors(err)
}
