package http_test

import (
	"context"
	"errors"

	moghttp "mog/internal/mog/adapter/http"
	"mog/internal/mog/domain/model"
	"mog/internal/mog/usecase"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) State() usecase.State {
	return m.Called().Get(0).(usecase.State)
}

func (m *mockGateway) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockGateway) Get(ctx context.Context, query interface{}, opts model.GetOptions) (bson.M, error) {
	args := m.Called(ctx, query, opts)
	doc, _ := args.Get(0).(bson.M)
	return doc, args.Error(1)
}

func (m *mockGateway) List(ctx context.Context, query interface{}, opts model.ListOptions) ([]bson.M, error) {
	args := m.Called(ctx, query, opts)
	docs, _ := args.Get(0).([]bson.M)
	return docs, args.Error(1)
}

func (m *mockGateway) Cursor(ctx context.Context, query interface{}, opts model.CursorOptions) (moghttp.Cursor, error) {
	args := m.Called(ctx, query, opts)
	cur, _ := args.Get(0).(moghttp.Cursor)
	return cur, args.Error(1)
}

func (m *mockGateway) Insert(ctx context.Context, payload model.Payload, opts model.InsertOptions) (model.InsertResult, error) {
	args := m.Called(ctx, payload, opts)
	return args.Get(0).(model.InsertResult), args.Error(1)
}

func (m *mockGateway) Update(ctx context.Context, query interface{}, payload model.Payload, opts model.UpdateOptions) (model.UpdateResult, error) {
	args := m.Called(ctx, query, payload, opts)
	return args.Get(0).(model.UpdateResult), args.Error(1)
}

func (m *mockGateway) Delete(ctx context.Context, query interface{}, opts model.DeleteOptions) (*mongo.DeleteResult, error) {
	args := m.Called(ctx, query, opts)
	res, _ := args.Get(0).(*mongo.DeleteResult)
	return res, args.Error(1)
}

func (m *mockGateway) Count(ctx context.Context, query interface{}, opts model.CountOptions) (int64, error) {
	args := m.Called(ctx, query, opts)
	return args.Get(0).(int64), args.Error(1)
}

// sliceCursor replays docs; openErr makes the first Next fail.
type sliceCursor struct {
	docs    []bson.M
	pos     int
	openErr error
	closed  bool
}

func (s *sliceCursor) Next(ctx context.Context) bool {
	if s.openErr != nil || s.pos >= len(s.docs) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceCursor) Decode(val interface{}) error {
	if s.pos == 0 {
		return errors.New("no current document")
	}
	raw, err := bson.Marshal(s.docs[s.pos-1])
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, val)
}

func (s *sliceCursor) Err() error { return s.openErr }

func (s *sliceCursor) Close(ctx context.Context) error {
	s.closed = true
	return nil
}
