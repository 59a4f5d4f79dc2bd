package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/recipebook/recipebook-go/internal/patch"
	"github.com/recipebook/recipebook-go/internal/store"
)

var (
	ErrInvalidID          = errors.New("id must not be empty")
	ErrIDMismatch         = errors.New("id in the path does not match the request body")
	ErrBodyRequired       = errors.New("request body is required")
	ErrNameTaken          = errors.New("name already exists")
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrRegistrationFailed = errors.New("error while registering")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
)

// ValidationError carries one message per rejected field or patch operation.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the validate tags on v and converts failures into a
// *ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return &ValidationError{Messages: messages}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

// applyPatch runs a JSON Patch document against dto, translating patch
// failures into service errors.
func applyPatch[T any](doc []byte, dto *T) error {
	err := patch.Apply(doc, dto)
	if err == nil {
		return nil
	}

	var perr *patch.ValidationError
	switch {
	case errors.Is(err, patch.ErrEmptyPatch):
		return ErrBodyRequired
	case errors.As(err, &perr):
		return &ValidationError{Messages: perr.Messages}
	default:
		return err
	}
}

// notFound maps a store miss onto ErrNotFound for the named resource.
func notFound(err error, resource string, id fmt.Stringer) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", resource, id, ErrNotFound)
	}
	return err
}
