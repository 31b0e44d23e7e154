package apperrors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies an application error. Handlers map kinds to HTTP statuses.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConstraint
	KindDuplicateMapping
	KindAuthentication
	KindForbidden
	KindNotFound
)

// Error codes returned in the response body
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeDuplicateMapping    = "DUPLICATE_MAPPING"
	CodeAuthentication      = "AUTHENTICATION_FAILED"
	CodeForbidden           = "INSUFFICIENT_PERMISSIONS"
	CodeResourceNotFound    = "RESOURCE_NOT_FOUND"
	CodeInternal            = "INTERNAL_ERROR"
)

// NonFieldErrors is the details key used for errors that do not belong to one field.
const NonFieldErrors = "non_field_errors"

// Error is the error type returned by services and repositories for every
// failure a client can act on.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(e.Message)
	for i, k := range keys {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Fields[k])
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports malformed, missing or out-of-range fields.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Field is a validation error for a single field.
func Field(field, message string) *Error {
	return Validation("Validation failed", map[string]string{field: message})
}

// Constraint reports a uniqueness breach on field.
func Constraint(field, message string) *Error {
	return &Error{Kind: KindConstraint, Message: "Constraint violation", Fields: map[string]string{field: message}}
}

// DuplicateMapping reports that a patient is already assigned to a doctor.
func DuplicateMapping() *Error {
	return &Error{
		Kind:    KindDuplicateMapping,
		Message: "Duplicate mapping",
		Fields:  map[string]string{NonFieldErrors: "This patient is already assigned to this doctor"},
	}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound reports a missing resource, or one the caller may not see.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Status returns the HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConstraint, KindDuplicateMapping:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return CodeValidationError
	case KindConstraint:
		return CodeConstraintViolation
	case KindDuplicateMapping:
		return CodeDuplicateMapping
	case KindAuthentication:
		return CodeAuthentication
	case KindForbidden:
		return CodeForbidden
	case KindNotFound:
		return CodeResourceNotFound
	default:
		return CodeInternal
	}
}
