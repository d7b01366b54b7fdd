package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client is the store client handle a Connection owns.
type Client interface {
	// Database returns a handle to the named database.
	Database(name string, opts ...*options.DatabaseOptions) Database
	// Ping verifies the server is reachable.
	Ping(ctx context.Context) error
	// Disconnect closes the client. With force set, in-flight operations are severed.
	Disconnect(ctx context.Context, force bool) error
}

// Database hands out collection handles.
type Database interface {
	Name() string
	Collection(name string) Collection
}

// Collection is the narrow set of store primitives the dispatcher issues.
type Collection interface {
	Name() string
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error)
}

// SingleResult is the outcome of FindOne.
type SingleResult interface {
	Decode(v interface{}) error
	Err() error
}

// Cursor iterates over a server-side result set.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	All(ctx context.Context, results interface{}) error
	Close(ctx context.Context) error
	Err() error
}
