package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrAuth            = errors.New("authorization failed")
	ErrNetwork         = errors.New("network error")
	ErrValidation      = errors.New("validation failed")
	ErrWrite           = errors.New("write rejected")
	ErrRead            = errors.New("read rejected")
	ErrNoSession       = fmt.Errorf("%w: no active session", ErrAuth)
	ErrSessionNotFound = errors.New("session not found")
	ErrSecretNotFound  = errors.New("secret not found")
	ErrUnsupported     = errors.New("operation not supported for resource")
	ErrNotConfirmed    = errors.New("operation not confirmed")
	ErrDraftClosed     = errors.New("no open draft")
	ErrDuplicateID     = errors.New("duplicate id in collection")
)

// AuthError reports rejected credentials or an expired/missing bearer token.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("authorization failed: %s", e.Message)
	}
	return fmt.Sprintf("authorization failed (status %d): %s", e.Status, e.Message)
}

func (e *AuthError) Unwrap() error { return ErrAuth }

type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

// ValidationError maps field names to the rule they failed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// WriteError is a server rejection of a create/update/delete/toggle.
type WriteError struct {
	Op      string
	Status  int
	Message string
}

func (e *WriteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

func (e *WriteError) Unwrap() error { return ErrWrite }

func (e *WriteError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// ReadError is a non-success, non-auth answer to a collection read.
type ReadError struct {
	Op      string
	Status  int
	Message string
}

func (e *ReadError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

func (e *ReadError) Unwrap() error { return ErrRead }
