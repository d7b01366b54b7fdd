package model

import "time"

// Attachment is the timestamp/authority overlay the gate produces when auto-touch is on.
type Attachment struct {
	// CreatedAt is when the document was first created.
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	// UpdatedAt is when the document was last modified.
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
	// Authority is the host name of the machine that performed the operation.
	Authority string `bson:"authority,omitempty" json:"authority,omitempty"`
}
