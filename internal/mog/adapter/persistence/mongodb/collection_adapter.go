package mongodb

import (
	"context"

	"mog/internal/mog/domain/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollectionAdapter makes *mongo.Collection satisfy repository.Collection.
type MongoCollectionAdapter struct {
	col *mongo.Collection
}

// NewMongoCollectionAdapter wraps col.
func NewMongoCollectionAdapter(col *mongo.Collection) *MongoCollectionAdapter {
	return &MongoCollectionAdapter{col: col}
}

func (m *MongoCollectionAdapter) Name() string { return m.col.Name() }

func (m *MongoCollectionAdapter) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) repository.SingleResult {
	return m.col.FindOne(ctx, filter, opts...)
}

func (m *MongoCollectionAdapter) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (repository.Cursor, error) {
	cur, err := m.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (m *MongoCollectionAdapter) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return m.col.InsertOne(ctx, document, opts...)
}

func (m *MongoCollectionAdapter) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	return m.col.InsertMany(ctx, documents, opts...)
}

func (m *MongoCollectionAdapter) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return m.col.UpdateOne(ctx, filter, update, opts...)
}

func (m *MongoCollectionAdapter) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return m.col.UpdateMany(ctx, filter, update, opts...)
}

func (m *MongoCollectionAdapter) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return m.col.DeleteOne(ctx, filter, opts...)
}

func (m *MongoCollectionAdapter) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return m.col.DeleteMany(ctx, filter, opts...)
}

func (m *MongoCollectionAdapter) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return m.col.CountDocuments(ctx, filter, opts...)
}

func (m *MongoCollectionAdapter) EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error) {
	return m.col.EstimatedDocumentCount(ctx, opts...)
}

// MongoDatabaseAdapter makes *mongo.Database satisfy repository.Database.
type MongoDatabaseAdapter struct {
	db *mongo.Database
}

// NewMongoDatabaseAdapter wraps db.
func NewMongoDatabaseAdapter(db *mongo.Database) *MongoDatabaseAdapter {
	return &MongoDatabaseAdapter{db: db}
}

func (m *MongoDatabaseAdapter) Name() string { return m.db.Name() }

func (m *MongoDatabaseAdapter) Collection(name string) repository.Collection {
	return NewMongoCollectionAdapter(m.db.Collection(name))
}
