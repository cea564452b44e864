package errs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")

	ErrValidation      = errors.New("validation failed")
	ErrNetworkOrServer = errors.New("network or server error")
)

// FieldErrors maps a field name to the message of the rule it violated.
type FieldErrors map[string]string

func (fe FieldErrors) Fields() []string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, k := range e.Fields.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// APIError is a failure reported by, or while reaching, the remote backend.
// Status is zero when no response was received.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrNetworkOrServer
}

func StatusMessage(status int) string {
	return fmt.Sprintf("HTTP error! status: %d", status)
}

type ValidationErrorResponse struct {
	Message string      `json:"message"`
	Errors  FieldErrors `json:"errors"`
}
