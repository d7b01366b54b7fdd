package model

import "go.mongodb.org/mongo-driver/mongo/options"

// OperationOptions holds the options every verb accepts.
type OperationOptions struct {
	// Collection overrides the connection's default collection for one call.
	Collection string `json:"collection,omitempty"`
}

// CollectionOverride implements Options.
func (o OperationOptions) CollectionOverride() string { return o.Collection }

// GetOptions configures Get.
type GetOptions struct {
	OperationOptions
	Find *options.FindOneOptions `json:"find,omitempty"`
}

// ListOptions configures List.
type ListOptions struct {
	OperationOptions
	Find *options.FindOptions `json:"find,omitempty"`
}

// CursorOptions configures Cursor.
type CursorOptions struct {
	OperationOptions
	Find *options.FindOptions `json:"find,omitempty"`
}

// InsertOptions configures Insert.
type InsertOptions struct {
	OperationOptions
	// Touch merges the gate's attachment into every inserted document.
	Touch      bool                       `json:"touch,omitempty"`
	InsertOne  *options.InsertOneOptions  `json:"insertOne,omitempty"`
	InsertMany *options.InsertManyOptions `json:"insertMany,omitempty"`
}

// UpdateOptions configures Update.
type UpdateOptions struct {
	OperationOptions
	// Upsert inserts a new document when nothing matches.
	Upsert bool `json:"upsert,omitempty"`
	// Touch sets updatedAt/authority on every update, and createdAt on upsert inserts.
	Touch bool `json:"touch,omitempty"`
}

// DeleteOptions configures Delete.
type DeleteOptions struct {
	OperationOptions
	// Many allows deletion of more than one document.
	Many bool `json:"many,omitempty"`
}

// CountOptions configures Count.
type CountOptions struct {
	OperationOptions
	// Fast runs an estimated count that ignores the query.
	Fast      bool                                   `json:"fast,omitempty"`
	Count     *options.CountOptions                  `json:"count,omitempty"`
	Estimated *options.EstimatedDocumentCountOptions `json:"estimated,omitempty"`
}
