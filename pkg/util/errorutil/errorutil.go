package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error condition independently of transport.
type Kind string

const (
	KindValidationFailed Kind = "VALIDATION_FAILED"
	KindUnauthenticated  Kind = "UNAUTHENTICATED"
	KindForbidden        Kind = "FORBIDDEN"
	KindNotFound         Kind = "NOT_FOUND"
	KindConflict         Kind = "CONFLICT"
	KindInternal         Kind = "INTERNAL_ERROR"
)

// Body field names used by the two route families.
const (
	FieldError   = "error"
	FieldMessage = "message"
)

// Fixed external messages.
const (
	MsgResourceNotFound = "Resource not found"
	MsgConflict         = "A resource with this unique identifier already exists"
	MsgDatabaseError    = "Database error occurred"
	MsgUnexpected       = "An unexpected error occurred"
	MsgUnauthenticated  = "Unauthorized"
	MsgForbidden        = "Forbidden - You do not have permission to perform this action"
	msgInternalFallback = "internal server error"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind    Kind
	Message string

	// Field is the response body key carrying Message. Empty means FieldError.
	Field string

	// StoreCode is the raw code reported by the persistence layer, if any.
	StoreCode string

	// Status overrides the status derived from Kind for transport statuses the
	// taxonomy does not model, such as 413 or 415. Zero means no override.
	Status int

	Err error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// InMessageField returns a copy of the error rendered under the "message" key.
func (e *DomainError) InMessageField() *DomainError {
	cp := *e
	cp.Field = FieldMessage
	return &cp
}

// WithStatus returns a copy of the error rendered with the given status.
func (e *DomainError) WithStatus(status int) *DomainError {
	cp := *e
	cp.Status = status
	return &cp
}

// NewDomainError constructs a DomainError.
func NewDomainError(kind Kind, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

func NewValidationError(message string) *DomainError {
	return NewDomainError(KindValidationFailed, message)
}

func NewUnauthorized(message string) *DomainError {
	return NewDomainError(KindUnauthenticated, message)
}

func NewForbidden(message string) *DomainError {
	return NewDomainError(KindForbidden, message)
}

func NewNotFound(resource string) *DomainError {
	if resource == "" {
		return NewDomainError(KindNotFound, MsgResourceNotFound)
	}
	return NewDomainError(KindNotFound, fmt.Sprintf("%s not found", resource))
}

func NewConflict(message string) *DomainError {
	if message == "" {
		message = MsgConflict
	}
	return NewDomainError(KindConflict, message)
}

func NewInternalError(err error) *DomainError {
	msg := msgInternalFallback
	if err != nil {
		msg = err.Error()
	}
	return &DomainError{Kind: KindInternal, Message: msg, Err: err}
}

// IsKind reports whether err resolves to the given kind.
func IsKind(err error, kind Kind) bool {
	de := ToDomainError(err)
	return de != nil && de.Kind == kind
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fault *StoreFault
	if errors.As(err, &fault) {
		return fault.toDomainError()
	}
	return NewInternalError(err)
}

// StatusFor returns the HTTP status for an error kind.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Render maps any error to its status code and external body. It is the only place
// that decides how much internal detail reaches the caller.
func Render(err error, hardened bool) (int, map[string]any) {
	de := ToDomainError(err)
	if de == nil {
		de = NewInternalError(nil)
	}

	msg := de.Message
	switch de.Kind {
	case KindValidationFailed:
	case KindUnauthenticated:
		if msg == "" {
			msg = MsgUnauthenticated
		}
	case KindForbidden:
		if msg == "" {
			msg = MsgForbidden
		}
	case KindNotFound:
		if msg == "" {
			msg = MsgResourceNotFound
		}
	case KindConflict:
		if msg == "" {
			msg = MsgConflict
		}
	default:
		if hardened || msg == "" {
			msg = MsgUnexpected
		}
	}

	field := de.Field
	if field == "" {
		field = FieldError
	}
	status := StatusFor(de.Kind)
	if de.Status != 0 {
		status = de.Status
	}
	return status, map[string]any{"success": false, field: msg}
}
