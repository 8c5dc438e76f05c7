// Package validation checks request structs against their `validate` tags
// and reports failures as per-field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single failed rule, keyed by the field's JSON name
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error collects every field that failed validation
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewError builds a validation error for a single field
func NewError(field, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}

// Validator wraps a configured go-playground validator. Safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their JSON names
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s, returning *Error when any rule fails
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	name := fe.StructField()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "alphanumunicode":
		return name + " must contains only letters or digits"
	case "uuid":
		return name + " must be a UUID"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed the %q rule", name, fe.Tag())
	}
}
