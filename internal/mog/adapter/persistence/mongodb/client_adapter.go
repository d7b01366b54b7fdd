package mongodb

import (
	"context"
	"fmt"

	"mog/internal/mog/config"
	"mog/internal/mog/domain/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoClientAdapter makes *mongo.Client satisfy repository.Client.
type MongoClientAdapter struct {
	client *mongo.Client
}

// NewMongoClientAdapter wraps an already connected client.
func NewMongoClientAdapter(client *mongo.Client) *MongoClientAdapter {
	return &MongoClientAdapter{client: client}
}

// Connect builds a driver client from cfg. The driver connects lazily, so this
// does not wait for a server; call Ping to verify reachability.
func Connect(ctx context.Context, cfg config.Config) (*MongoClientAdapter, error) {
	base := options.Client().
		ApplyURI(cfg.URL).
		SetAppName(cfg.ResolvedAppName())

	// cfg.ClientOptions first so the URL and app name win on conflict.
	client, err := mongo.Connect(ctx, cfg.ClientOptions, base)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	return NewMongoClientAdapter(client), nil
}

// Client exposes the underlying driver client.
func (m *MongoClientAdapter) Client() *mongo.Client { return m.client }

func (m *MongoClientAdapter) Database(name string, opts ...*options.DatabaseOptions) repository.Database {
	return NewMongoDatabaseAdapter(m.client.Database(name, opts...))
}

func (m *MongoClientAdapter) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Disconnect closes the client. A forced disconnect hands the driver an
// already-cancelled context so pools close checked-out connections immediately.
func (m *MongoClientAdapter) Disconnect(ctx context.Context, force bool) error {
	if force {
		forced, cancel := context.WithCancel(ctx)
		cancel()
		ctx = forced
	}
	return m.client.Disconnect(ctx)
}
