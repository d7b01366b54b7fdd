// Package mog is a thin gateway in front of a MongoDB database. Every
// operation passes a preflight gate that checks the connection is still
// open, resolves the target collection, optionally logs the operation and
// produces a createdAt/updatedAt/authority attachment before the store is
// called.
package mog

import (
	"context"

	internalmog "mog/internal/mog"
	"mog/internal/mog/config"
	"mog/internal/mog/domain/model"
	"mog/internal/mog/usecase"
	apperrors "mog/internal/shared/errors"
	"mog/internal/shared/logger"
)

type (
	Config     = config.Config
	Connection = usecase.Connection
	Cursor     = usecase.DocumentCursor
	State      = usecase.State
	Option     = usecase.Option
	Preflight  = usecase.Preflight

	Operation  = model.Operation
	Verb       = model.Verb
	Payload    = model.Payload
	Document   = model.Document
	Attachment = model.Attachment

	GetOptions    = model.GetOptions
	ListOptions   = model.ListOptions
	CursorOptions = model.CursorOptions
	InsertOptions = model.InsertOptions
	UpdateOptions = model.UpdateOptions
	DeleteOptions = model.DeleteOptions
	CountOptions  = model.CountOptions

	InsertResult = model.InsertResult
	UpdateResult = model.UpdateResult

	Sink  = logger.Sink
	Level = logger.Level
)

const (
	StateOpen   = usecase.StateOpen
	StateKilled = usecase.StateKilled
)

var (
	ErrConnectionClosed  = apperrors.ErrConnectionClosed
	ErrMissingCollection = apperrors.ErrMissingCollection
	ErrNotImplemented    = apperrors.ErrNotImplemented
	ErrCursorNotStarted  = usecase.ErrCursorNotStarted
)

// New opens a Connection to cfg.URL and selects cfg.Database.
func New(ctx context.Context, cfg Config, opts ...Option) (*Connection, error) {
	return internalmog.Open(ctx, cfg, opts...)
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() Config { return config.DefaultConfig() }

// LoadConfig reads a Config from MOG_* environment variables.
func LoadConfig() (*Config, error) { return config.LoadConfig() }

// One wraps a single document.
func One(doc Document) Payload { return model.One(doc) }

// Many wraps a batch of documents.
func Many(docs ...Document) Payload { return model.Many(docs...) }

// GetAs is Connection.Get decoding into T.
func GetAs[T any](ctx context.Context, c *Connection, query interface{}, opts GetOptions) (*T, error) {
	return usecase.GetAs[T](ctx, c, query, opts)
}

// ListAs is Connection.List decoding into []T.
func ListAs[T any](ctx context.Context, c *Connection, query interface{}, opts ListOptions) ([]T, error) {
	return usecase.ListAs[T](ctx, c, query, opts)
}

// WithSink sends operation log lines to sink instead of discarding them.
func WithSink(sink Sink) Option { return usecase.WithSink(sink) }

// IsConnectionClosed reports whether err was raised because the connection was killed.
func IsConnectionClosed(err error) bool { return apperrors.IsConnectionClosed(err) }

// IsMissingCollection reports whether err was raised because no collection could be resolved.
func IsMissingCollection(err error) bool { return apperrors.IsMissingCollection(err) }

// IsNotImplemented reports whether err was raised for a disabled verb.
func IsNotImplemented(err error) bool { return apperrors.IsNotImplemented(err) }
