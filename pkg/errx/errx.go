package errx

import (
	"fmt"
	"net/http"
)

// Type classifies an error for logging and HTTP mapping.
type Type string

const (
	TypeValidation     Type = "VALIDATION"
	TypeNotFound       Type = "NOT_FOUND"
	TypeConflict       Type = "CONFLICT"
	TypeBusiness       Type = "BUSINESS"
	TypeAuthentication Type = "AUTHENTICATION"
	TypeAuthorization  Type = "AUTHORIZATION"
	TypeInternal       Type = "INTERNAL"
	TypeExternal       Type = "EXTERNAL"
)

// Code identifies a registered error condition within a registry.
type Code string

type definition struct {
	code       Code
	errType    Type
	httpStatus int
	message    string
}

// Registry holds the error definitions of one domain. Codes are namespaced
// by the registry prefix, e.g. "CANDIDATE.NOT_FOUND".
type Registry struct {
	prefix string
	defs   map[Code]definition
}

// NewRegistry creates a registry for a domain prefix.
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		defs:   make(map[Code]definition),
	}
}

// Register adds an error definition and returns its code.
func (r *Registry) Register(code string, t Type, httpStatus int, message string) Code {
	c := Code(r.prefix + "." + code)
	r.defs[c] = definition{
		code:       c,
		errType:    t,
		httpStatus: httpStatus,
		message:    message,
	}
	return c
}

// New creates an error instance for a registered code.
func (r *Registry) New(code Code) *Error {
	def, ok := r.defs[code]
	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			HTTPStatus: http.StatusInternalServerError,
			Message:    "unregistered error code",
		}
	}
	return &Error{
		Code:       def.code,
		Type:       def.errType,
		HTTPStatus: def.httpStatus,
		Message:    def.message,
	}
}

// Error is the error value used across the API. It carries an HTTP status
// so the global handler can map it without type switches per domain.
type Error struct {
	Code       Code                   `json:"code"`
	Type       Type                   `json:"type"`
	HTTPStatus int                    `json:"-"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// WithDetail attaches a key/value pair and returns the error for chaining.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithMessage overrides the registered default message.
func (e *Error) WithMessage(msg string) *Error {
	e.Message = msg
	return e
}

// WithCause records the underlying error without exposing it in responses.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// IsType reports whether the error is an *Error of the given type.
func IsType(err error, t Type) bool {
	e, ok := err.(*Error)
	return ok && e.Type == t
}

// Wrap converts an arbitrary error into an *Error of the given type.
// Already-typed errors pass through unchanged so HTTP mapping is preserved.
func Wrap(err error, message string, t Type) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	status := http.StatusInternalServerError
	if t == TypeExternal {
		status = http.StatusBadGateway
	}
	return &Error{
		Code:       Code(string(t) + ".WRAPPED"),
		Type:       t,
		HTTPStatus: status,
		Message:    message,
		cause:      err,
	}
}

// ToHTTPResponse returns the JSON body for an error response.
func (e *Error) ToHTTPResponse() map[string]interface{} {
	resp := map[string]interface{}{
		"code":    e.Code,
		"type":    e.Type,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		resp["details"] = e.Details
	}
	return resp
}
