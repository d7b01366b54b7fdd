package model

import "go.mongodb.org/mongo-driver/mongo"

// InsertResult is the store's insert result in either its one or its many shape.
type InsertResult struct {
	One        *mongo.InsertOneResult
	Many       *mongo.InsertManyResult
	Attachment *Attachment
}

// IsMany reports whether the bulk path produced this result.
func (r InsertResult) IsMany() bool { return r.Many != nil }

// InsertedCount returns the number of documents the store reported inserted.
func (r InsertResult) InsertedCount() int {
	switch {
	case r.Many != nil:
		return len(r.Many.InsertedIDs)
	case r.One != nil:
		return 1
	default:
		return 0
	}
}

// InsertedIDs returns the generated identifiers in insertion order.
func (r InsertResult) InsertedIDs() []interface{} {
	switch {
	case r.Many != nil:
		return r.Many.InsertedIDs
	case r.One != nil:
		return []interface{}{r.One.InsertedID}
	default:
		return nil
	}
}

// UpdateResult is the store's update result plus the shape that produced it.
type UpdateResult struct {
	*mongo.UpdateResult
	Many       bool
	Attachment *Attachment
}
