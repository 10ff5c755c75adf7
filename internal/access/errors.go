package access

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced by this package and by the repositories
// matches exactly one of them through errors.Is.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrNotFound        = errors.New("resource not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("resource conflict")
	ErrLimitReached    = errors.New("plan limit reached")
)

// Error carries a client-safe message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func Unauthenticated(msg string) error { return &Error{Kind: ErrUnauthenticated, Message: msg} }
func Forbidden(msg string) error       { return &Error{Kind: ErrForbidden, Message: msg} }
func NotFound(msg string) error        { return &Error{Kind: ErrNotFound, Message: msg} }
func Validation(msg string) error      { return &Error{Kind: ErrValidation, Message: msg} }
func Conflict(msg string) error        { return &Error{Kind: ErrConflict, Message: msg} }

// Sentinels with fixed messages.
var (
	ErrInactiveAccount = &Error{Kind: ErrForbidden, Message: "Account is inactive"}
	ErrTenantInactive  = &Error{Kind: ErrForbidden, Message: "Tenant is not active"}
	ErrCrossTenant     = &Error{Kind: ErrForbidden, Message: "Access to this tenant is not allowed"}
)

// ResourceKind names a quota-limited resource.
type ResourceKind string

const (
	ResourceUser    ResourceKind = "user"
	ResourceProject ResourceKind = "project"
)

// LimitReachedError reports a creation rejected by the tenant's plan.
type LimitReachedError struct {
	Kind    ResourceKind
	Current int64
	Limit   int64
}

func (e *LimitReachedError) Error() string {
	label := "Resource"
	switch e.Kind {
	case ResourceUser:
		label = "User"
	case ResourceProject:
		label = "Project"
	}
	return fmt.Sprintf("%s limit reached (%d/%d). Upgrade your plan to add more", label, e.Current, e.Limit)
}

func (e *LimitReachedError) Unwrap() error { return ErrLimitReached }

// Message returns the client-facing text of err when it belongs to the
// taxonomy, and ok=false for anything that must be reported as internal.
func Message(err error) (msg string, ok bool) {
	var accessErr *Error
	if errors.As(err, &accessErr) {
		return accessErr.Message, true
	}
	var limitErr *LimitReachedError
	if errors.As(err, &limitErr) {
		return limitErr.Error(), true
	}
	for _, kind := range []error{ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrValidation, ErrConflict} {
		if errors.Is(err, kind) {
			return kind.Error(), true
		}
	}
	return "", false
}
