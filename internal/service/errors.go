package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/storefront/internal/store"
)

var (
	ErrValidation        = errors.New("validation")   // 400
	ErrUnauthorized      = errors.New("unauthorized") // 401
	ErrNotFound          = store.ErrNotFound          // 404
	ErrConflict          = store.ErrConflict          // 409
	ErrInsufficientStock = store.ErrInsufficientStock // 409
	ErrAdminExists       = store.ErrAdminExists       // 400
	ErrAdminMissing      = errors.New("admin account is not set up yet")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is an ErrValidation that knows which fields failed.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return "validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Details: []FieldError{{Field: field, Message: fmt.Sprintf(format, args...)}}}
}
