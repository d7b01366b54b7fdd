package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for different failure classes
type ErrorType string

const (
	// Precondition failures raised before any store call
	ErrorTypeConnectionClosed  ErrorType = "CONNECTION_CLOSED"
	ErrorTypeMissingCollection ErrorType = "MISSING_COLLECTION"
	ErrorTypeNotImplemented    ErrorType = "NOT_IMPLEMENTED"

	// Request-level failures raised by the gateway
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeAuthentication ErrorType = "AUTHENTICATION_ERROR"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
)

// Sentinel errors matched by AppError.Is
var (
	ErrConnectionClosed  = errors.New("connection to database was previously killed")
	ErrMissingCollection = errors.New("no collection provided")
	ErrNotImplemented    = errors.New("not implemented")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
)

var sentinelByType = map[ErrorType]error{
	ErrorTypeConnectionClosed:  ErrConnectionClosed,
	ErrorTypeMissingCollection: ErrMissingCollection,
	ErrorTypeNotImplemented:    ErrNotImplemented,
	ErrorTypeValidation:        ErrInvalidInput,
	ErrorTypeAuthentication:    ErrUnauthorized,
}

// AppError is a failure raised by mog itself, as opposed to one returned by the store.
type AppError struct {
	Type     ErrorType              `json:"type"`
	Message  string                 `json:"message"`
	HTTPCode int                    `json:"-"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Cause    error                  `json:"-"`
}

// Error appends the cause, when there is one, to the message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes Cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for this error's type.
func (e *AppError) Is(target error) bool {
	if s, ok := sentinelByType[e.Type]; ok && s == target {
		return true
	}
	if t, ok := target.(*AppError); ok {
		return t.Type == e.Type
	}
	return false
}

// NewAppError builds an AppError with an empty detail map.
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCause records the error that triggered e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets one key of the details map.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewConnectionClosedError is returned for any operation attempted after Kill.
func NewConnectionClosedError() *AppError {
	return NewAppError(ErrorTypeConnectionClosed,
		"connection to database was previously killed, new operations can no longer be performed",
		http.StatusServiceUnavailable)
}

// NewMissingCollectionError names the verb that could not resolve a target collection.
func NewMissingCollectionError(verb string) *AppError {
	return NewAppError(ErrorTypeMissingCollection,
		fmt.Sprintf("can't perform %s operation, no collection provided as local option through the options parameter or as a global default through the configuration", verb),
		http.StatusBadRequest).WithDetail("verb", verb)
}

// NewNotImplementedError is returned for verbs disabled in this deployment.
func NewNotImplementedError(verb string) *AppError {
	return NewAppError(ErrorTypeNotImplemented,
		fmt.Sprintf("%s operation is not implemented in this deployment", verb),
		http.StatusNotImplemented).WithDetail("verb", verb)
}

// NewValidationError reports a malformed payload or request body.
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest)
}

// NewAuthenticationError reports a missing or rejected bearer token.
func NewAuthenticationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthentication, message, http.StatusUnauthorized)
}

// NewInternalError reports a failure inside mog itself.
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// AsAppError returns the AppError in err's chain, if any.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsConnectionClosed reports whether err came from a killed connection.
func IsConnectionClosed(err error) bool {
	return errors.Is(err, ErrConnectionClosed)
}

// IsMissingCollection reports whether no collection could be resolved.
func IsMissingCollection(err error) bool {
	return errors.Is(err, ErrMissingCollection)
}

// IsNotImplemented reports whether err names a disabled verb.
func IsNotImplemented(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}

// IsPrecondition reports whether err was raised by the gate before any store call.
func IsPrecondition(err error) bool {
	return IsConnectionClosed(err) || IsMissingCollection(err) || IsNotImplemented(err)
}

// IsValidation reports whether err rejected its input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
