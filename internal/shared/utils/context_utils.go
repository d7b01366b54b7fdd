package utils

import (
	"context"
	"errors"

	"mog/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
	ErrSubjectNotFound    = errors.New("subject not found in context")
	ErrSubjectNotString   = errors.New("subject in context is not a string")
)

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.RequestIDKey, ErrRequestIDNotFound, ErrRequestIDNotString)
}

// GetSubjectFromContext retrieves the authenticated subject from the context.
func GetSubjectFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.SubjectKey, ErrSubjectNotFound, ErrSubjectNotString)
}

func stringValue(ctx context.Context, key interface{}, notFound, notString error) (string, error) {
	val := ctx.Value(key)
	if val == nil {
		return "", notFound
	}
	s, ok := val.(string)
	if !ok {
		return "", notString
	}
	return s, nil
}

// Context builder functions

// WithRequestID adds the request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithSubject adds the authenticated subject to the context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextkeys.SubjectKey, subject)
}

// WithOperation adds the verb and collection of an operation to the context.
func WithOperation(ctx context.Context, verb, collection string) context.Context {
	ctx = context.WithValue(ctx, contextkeys.OperationKey, verb)
	return context.WithValue(ctx, contextkeys.CollectionKey, collection)
}

// GetRequestIDOrDefault returns the request ID or def when absent.
func GetRequestIDOrDefault(ctx context.Context, def string) string {
	if id, err := GetRequestIDFromContext(ctx); err == nil && id != "" {
		return id
	}
	return def
}
