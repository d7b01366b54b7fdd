package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKey_String(t *testing.T) {
	key := contextKey("testKey")
	assert.Equal(t, "mog context key testKey", key.String())
}

func TestContextKeys_Usage(t *testing.T) {
	ctx := context.Background()
	ctx = context.WithValue(ctx, RequestIDKey, "req-456")
	ctx = context.WithValue(ctx, SubjectKey, "svc-reporting")
	ctx = context.WithValue(ctx, OperationKey, "insert")
	ctx = context.WithValue(ctx, CollectionKey, "users")

	assert.Equal(t, "req-456", ctx.Value(RequestIDKey))
	assert.Equal(t, "svc-reporting", ctx.Value(SubjectKey))
	assert.Equal(t, "insert", ctx.Value(OperationKey))
	assert.Equal(t, "users", ctx.Value(CollectionKey))
}
