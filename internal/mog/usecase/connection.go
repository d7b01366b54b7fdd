package usecase

import (
	"context"
	"errors"
	"time"

	"mog/internal/mog/config"
	"mog/internal/mog/domain/model"
	"mog/internal/mog/domain/repository"
	apperrors "mog/internal/shared/errors"
	"mog/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
)

// Connection is the gateway in front of one store database.
//
// Verbs may be called concurrently. Each verb runs the gate once and then
// issues its store call; there is no lock between the two, so a Kill that
// races an in-flight verb does not abort it. Only verbs that reach the gate
// after Kill has started are rejected.
type Connection struct {
	client    repository.Client
	db        repository.Database
	lifecycle *Lifecycle
	gate      *Gate
}

type connectionOptions struct {
	sink     logger.Sink
	now      func() time.Time
	hostname func() (string, error)
}

// Option customises a Connection.
type Option func(*connectionOptions)

// WithSink sets the destination of operation log lines.
func WithSink(sink logger.Sink) Option {
	return func(o *connectionOptions) { o.sink = sink }
}

// WithClock replaces the clock used for attachments.
func WithClock(now func() time.Time) Option {
	return func(o *connectionOptions) { o.now = now }
}

// WithHostname replaces the host name lookup used for attachments.
func WithHostname(hostname func() (string, error)) Option {
	return func(o *connectionOptions) { o.hostname = hostname }
}

// NewConnection opens a Connection over client using cfg.
func NewConnection(client repository.Client, cfg config.Config, opts ...Option) (*Connection, error) {
	if client == nil {
		return nil, errors.New("store client is required")
	}
	if cfg.Database == "" {
		return nil, errors.New("database name is required")
	}

	o := connectionOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	attachments := NewAttachmentBuilder(cfg.AutoTouch)
	if o.now != nil {
		attachments.Now = o.now
	}
	if o.hostname != nil {
		attachments.Hostname = o.hostname
	}

	lifecycle := NewLifecycle(client)
	return &Connection{
		client:    client,
		db:        client.Database(cfg.Database, optional(cfg.DatabaseOptions)...),
		lifecycle: lifecycle,
		gate: NewGate(lifecycle, GateConfig{
			DefaultCollection: cfg.DefaultCollection,
			DisabledVerbs:     cfg.DisabledVerbs,
			OperationLogging:  cfg.OperationLogging,
			Sink:              o.sink,
			Attachments:       attachments,
		}),
	}, nil
}

// State returns the lifecycle state.
func (c *Connection) State() State {
	return c.lifecycle.State()
}

// DatabaseName returns the name of the selected database.
func (c *Connection) DatabaseName() string {
	return c.db.Name()
}

// Ping checks that the store is reachable. It does not pass through the gate
// but still refuses a killed connection.
func (c *Connection) Ping(ctx context.Context) error {
	if c.State() == StateKilled {
		return apperrors.NewConnectionClosedError()
	}
	return c.client.Ping(ctx)
}

// Kill marks the connection killed, then closes the store client. Any verb
// called afterwards fails with ConnectionClosed, even while the close is still
// in progress. With force set the client is closed without waiting for
// in-flight operations, which then fail with driver errors.
func (c *Connection) Kill(ctx context.Context, force bool) error {
	return c.lifecycle.Kill(ctx, force)
}

// Preflight runs the gate for op without dispatching anything.
func (c *Connection) Preflight(op model.Operation) (Preflight, error) {
	return c.gate.Check(op)
}

// collection runs the gate and returns the handle the verb should use.
func (c *Connection) collection(op model.Operation) (repository.Collection, Preflight, error) {
	pf, err := c.gate.Check(op)
	if err != nil {
		return nil, Preflight{}, err
	}
	return c.db.Collection(pf.Collection), pf, nil
}

// optional turns a possibly nil driver option into a variadic argument list.
func optional[T any](opt *T) []*T {
	if opt == nil {
		return nil
	}
	return []*T{opt}
}

// filterOf treats a nil query as match-all.
func filterOf(query interface{}) interface{} {
	if query == nil {
		return bson.D{}
	}
	return query
}
