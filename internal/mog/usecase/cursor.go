package usecase

import (
	"context"
	"errors"

	"mog/internal/mog/domain/repository"
	apperrors "mog/internal/shared/errors"

	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrCursorNotStarted is returned by Decode before the first Next.
var ErrCursorNotStarted = errors.New("cursor has not been advanced")

// DocumentCursor is a lazy, rewindable sequence over matching documents.
// It is not safe for concurrent use.
type DocumentCursor struct {
	state  StateReader
	coll   repository.Collection
	filter interface{}
	opts   []*options.FindOptions

	cur repository.Cursor
	err error
}

func newDocumentCursor(state StateReader, coll repository.Collection, filter interface{}, opts []*options.FindOptions) *DocumentCursor {
	return &DocumentCursor{
		state:  state,
		coll:   coll,
		filter: filter,
		opts:   opts,
	}
}

// Collection returns the name of the collection being iterated.
func (c *DocumentCursor) Collection() string {
	return c.coll.Name()
}

func (c *DocumentCursor) open(ctx context.Context) bool {
	if c.cur != nil {
		return true
	}
	if c.err != nil {
		return false
	}
	if c.state.State() == StateKilled {
		c.err = apperrors.NewConnectionClosedError()
		return false
	}
	cur, err := c.coll.Find(ctx, c.filter, c.opts...)
	if err != nil {
		c.err = err
		return false
	}
	c.cur = cur
	return true
}

// Next advances to the next document, querying the store on first use.
func (c *DocumentCursor) Next(ctx context.Context) bool {
	if !c.open(ctx) {
		return false
	}
	return c.cur.Next(ctx)
}

// Decode decodes the current document into val.
func (c *DocumentCursor) Decode(val interface{}) error {
	if c.cur == nil {
		return ErrCursorNotStarted
	}
	return c.cur.Decode(val)
}

// All decodes every remaining document into results and closes the underlying cursor.
func (c *DocumentCursor) All(ctx context.Context, results interface{}) error {
	if !c.open(ctx) {
		return c.err
	}
	return c.cur.All(ctx, results)
}

// Err returns the first error met while opening or iterating.
func (c *DocumentCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	if c.cur != nil {
		return c.cur.Err()
	}
	return nil
}

// Close releases the server-side cursor, if one was opened.
func (c *DocumentCursor) Close(ctx context.Context) error {
	if c.cur == nil {
		return nil
	}
	err := c.cur.Close(ctx)
	c.cur = nil
	return err
}

// Rewind closes the current cursor so that the next Next restarts from the first document.
func (c *DocumentCursor) Rewind(ctx context.Context) error {
	err := c.Close(ctx)
	c.err = nil
	return err
}
