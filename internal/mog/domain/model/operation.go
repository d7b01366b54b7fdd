package model

import "strings"

// Verb names one of the operations a Connection dispatches.
type Verb string

const (
	VerbGet    Verb = "get"
	VerbList   Verb = "list"
	VerbCursor Verb = "cursor"
	VerbInsert Verb = "insert"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
	VerbCount  Verb = "count"
)

// Verbs lists every dispatchable verb.
var Verbs = []Verb{VerbGet, VerbList, VerbCursor, VerbInsert, VerbUpdate, VerbDelete, VerbCount}

// ParseVerb returns the Verb named by s, case-insensitively.
func ParseVerb(s string) (Verb, bool) {
	v := Verb(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Verbs {
		if v == known {
			return v, true
		}
	}
	return "", false
}

// String returns the lower-case verb name.
func (v Verb) String() string { return string(v) }

// Operation describes one verb invocation for the preflight gate.
// It lives only for the duration of the check.
type Operation struct {
	Verb    Verb
	Query   interface{}
	Payload Payload
	Options Options
}

// Options is implemented by every per-call option type.
type Options interface {
	// CollectionOverride returns the per-call collection, or "".
	CollectionOverride() string
}
