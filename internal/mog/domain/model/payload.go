package model

// Document is a single store document.
type Document = interface{}

// Payload is the document argument of a write verb: either One or Many.
type Payload interface {
	// Len reports how many documents the payload carries.
	Len() int
	isPayload()
}

// OnePayload carries a single document.
type OnePayload struct {
	Document Document
}

// ManyPayload carries a sequence of documents.
type ManyPayload struct {
	Documents []Document
}

// One wraps a single document.
func One(doc Document) OnePayload { return OnePayload{Document: doc} }

// Many wraps a sequence of documents.
func Many(docs ...Document) ManyPayload { return ManyPayload{Documents: docs} }

// Len returns 1.
func (OnePayload) Len() int { return 1 }

// Len returns the number of documents.
func (p ManyPayload) Len() int { return len(p.Documents) }

func (OnePayload) isPayload()  {}
func (ManyPayload) isPayload() {}
