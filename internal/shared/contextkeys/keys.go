package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "mog context key " + string(c)
}

const (
	// RequestIDKey carries the gateway request id.
	RequestIDKey = contextKey("requestID")
	// SubjectKey carries the authenticated token subject.
	SubjectKey = contextKey("subject")
	// OperationKey carries the verb being dispatched.
	OperationKey = contextKey("operation")
	// CollectionKey carries the collection an operation targets.
	CollectionKey = contextKey("collection")
)
