package http

import (
	"context"

	"mog/internal/mog/domain/model"
	"mog/internal/mog/usecase"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Cursor is the part of a document cursor the handler streams from.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

// Gateway is the set of connection verbs exposed over HTTP.
type Gateway interface {
	State() usecase.State
	Ping(ctx context.Context) error
	Get(ctx context.Context, query interface{}, opts model.GetOptions) (bson.M, error)
	List(ctx context.Context, query interface{}, opts model.ListOptions) ([]bson.M, error)
	Cursor(ctx context.Context, query interface{}, opts model.CursorOptions) (Cursor, error)
	Insert(ctx context.Context, payload model.Payload, opts model.InsertOptions) (model.InsertResult, error)
	Update(ctx context.Context, query interface{}, payload model.Payload, opts model.UpdateOptions) (model.UpdateResult, error)
	Delete(ctx context.Context, query interface{}, opts model.DeleteOptions) (*mongo.DeleteResult, error)
	Count(ctx context.Context, query interface{}, opts model.CountOptions) (int64, error)
}

type connectionGateway struct {
	*usecase.Connection
}

// NewConnectionGateway exposes conn as a Gateway.
func NewConnectionGateway(conn *usecase.Connection) Gateway {
	return connectionGateway{Connection: conn}
}

func (g connectionGateway) Cursor(ctx context.Context, query interface{}, opts model.CursorOptions) (Cursor, error) {
	cur, err := g.Connection.Cursor(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	return cur, nil
}
