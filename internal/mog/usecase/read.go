package usecase

import (
	"context"
	"errors"

	"mog/internal/mog/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Get returns the first document matching query, or nil when nothing matches.
func (c *Connection) Get(ctx context.Context, query interface{}, opts model.GetOptions) (bson.M, error) {
	var doc bson.M
	found, err := c.getInto(ctx, query, opts, &doc)
	if err != nil || !found {
		return nil, err
	}
	return doc, nil
}

// GetAs is Get decoding into T.
func GetAs[T any](ctx context.Context, c *Connection, query interface{}, opts model.GetOptions) (*T, error) {
	var doc T
	found, err := c.getInto(ctx, query, opts, &doc)
	if err != nil || !found {
		return nil, err
	}
	return &doc, nil
}

func (c *Connection) getInto(ctx context.Context, query interface{}, opts model.GetOptions, dst interface{}) (bool, error) {
	coll, _, err := c.collection(model.Operation{Verb: model.VerbGet, Query: query, Options: opts})
	if err != nil {
		return false, err
	}

	res := coll.FindOne(ctx, filterOf(query), optional(opts.Find)...)
	if err := res.Decode(dst); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns every document matching query.
func (c *Connection) List(ctx context.Context, query interface{}, opts model.ListOptions) ([]bson.M, error) {
	docs := make([]bson.M, 0)
	if err := c.listInto(ctx, query, opts, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListAs is List decoding into []T.
func ListAs[T any](ctx context.Context, c *Connection, query interface{}, opts model.ListOptions) ([]T, error) {
	docs := make([]T, 0)
	if err := c.listInto(ctx, query, opts, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Connection) listInto(ctx context.Context, query interface{}, opts model.ListOptions, dst interface{}) error {
	coll, _, err := c.collection(model.Operation{Verb: model.VerbList, Query: query, Options: opts})
	if err != nil {
		return err
	}

	cur, err := coll.Find(ctx, filterOf(query), optional(opts.Find)...)
	if err != nil {
		return err
	}
	return cur.All(ctx, dst)
}

// Cursor returns a lazy cursor over documents matching query. The store is
// queried on the first call to Next or All.
func (c *Connection) Cursor(ctx context.Context, query interface{}, opts model.CursorOptions) (*DocumentCursor, error) {
	coll, _, err := c.collection(model.Operation{Verb: model.VerbCursor, Query: query, Options: opts})
	if err != nil {
		return nil, err
	}
	return newDocumentCursor(c.lifecycle, coll, filterOf(query), optional(opts.Find)), nil
}
