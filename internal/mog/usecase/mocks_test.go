package usecase

import (
	"context"

	"mog/internal/mog/domain/repository"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MockClient is a strict spy for repository.Client.
type MockClient struct {
	mock.Mock
	db repository.Database
}

func (m *MockClient) Database(name string, opts ...*options.DatabaseOptions) repository.Database {
	return m.db
}

func (m *MockClient) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockClient) Disconnect(ctx context.Context, force bool) error {
	return m.Called(ctx, force).Error(0)
}

// MockDatabase hands out one MockCollection per name.
type MockDatabase struct {
	name        string
	collections map[string]*MockCollection
}

func newMockDatabase(name string) *MockDatabase {
	return &MockDatabase{name: name, collections: make(map[string]*MockCollection)}
}

func (m *MockDatabase) Name() string { return m.name }

func (m *MockDatabase) Collection(name string) repository.Collection {
	return m.coll(name)
}

func (m *MockDatabase) coll(name string) *MockCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &MockCollection{name: name}
		m.collections[name] = c
	}
	return c
}

// MockCollection is a strict spy: any call without an expectation fails the test.
type MockCollection struct {
	mock.Mock
	name string
}

func (m *MockCollection) Name() string { return m.name }

func (m *MockCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) repository.SingleResult {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).(repository.SingleResult)
}

func (m *MockCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (repository.Cursor, error) {
	args := m.Called(ctx, filter, opts)
	cur, _ := args.Get(0).(repository.Cursor)
	return cur, args.Error(1)
}

func (m *MockCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	args := m.Called(ctx, document, opts)
	res, _ := args.Get(0).(*mongo.InsertOneResult)
	return res, args.Error(1)
}

func (m *MockCollection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	args := m.Called(ctx, documents, opts)
	res, _ := args.Get(0).(*mongo.InsertManyResult)
	return res, args.Error(1)
}

func (m *MockCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, filter, update, opts)
	res, _ := args.Get(0).(*mongo.UpdateResult)
	return res, args.Error(1)
}

func (m *MockCollection) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, filter, update, opts)
	res, _ := args.Get(0).(*mongo.UpdateResult)
	return res, args.Error(1)
}

func (m *MockCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	args := m.Called(ctx, filter, opts)
	res, _ := args.Get(0).(*mongo.DeleteResult)
	return res, args.Error(1)
}

func (m *MockCollection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	args := m.Called(ctx, filter, opts)
	res, _ := args.Get(0).(*mongo.DeleteResult)
	return res, args.Error(1)
}

func (m *MockCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	args := m.Called(ctx, filter, opts)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollection) EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}

// stubSingleResult returns a fixed decode error.
type stubSingleResult struct {
	err error
}

func (s stubSingleResult) Decode(interface{}) error { return s.err }
func (s stubSingleResult) Err() error               { return s.err }

// fixedState is a StateReader for gate tests.
type fixedState State

func (f fixedState) State() State { return State(f) }
