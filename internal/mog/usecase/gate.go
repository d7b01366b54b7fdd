package usecase

import (
	"encoding/json"
	"strings"

	"mog/internal/mog/domain/model"
	apperrors "mog/internal/shared/errors"
	"mog/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	// renderLimit caps how much of a query or document ends up in a log line.
	renderLimit  = 15
	unrenderable = "<unrenderable>"
)

// Preflight is what the gate hands back to a dispatcher that may proceed.
type Preflight struct {
	Collection string
	Attachment *model.Attachment
}

// Gate runs the preflight check before every verb.
type Gate struct {
	lifecycle         StateReader
	defaultCollection string
	disabled          map[model.Verb]struct{}
	logging           bool
	sink              logger.Sink
	attachments       *AttachmentBuilder
}

// GateConfig configures a Gate.
type GateConfig struct {
	DefaultCollection string
	DisabledVerbs     []string
	OperationLogging  bool
	Sink              logger.Sink
	Attachments       *AttachmentBuilder
}

// NewGate creates a gate that reads lifecycle state from lifecycle.
func NewGate(lifecycle StateReader, cfg GateConfig) *Gate {
	disabled := make(map[model.Verb]struct{}, len(cfg.DisabledVerbs))
	for _, name := range cfg.DisabledVerbs {
		if v, ok := model.ParseVerb(name); ok {
			disabled[v] = struct{}{}
		}
	}
	sink := cfg.Sink
	if sink == nil {
		sink = logger.NopSink{}
	}
	return &Gate{
		lifecycle:         lifecycle,
		defaultCollection: cfg.DefaultCollection,
		disabled:          disabled,
		logging:           cfg.OperationLogging,
		sink:              sink,
		attachments:       cfg.Attachments,
	}
}

// Admit runs the first two gate steps: a disabled verb fails with
// NotImplemented, then a killed connection fails with ConnectionClosed.
// Writes call it before validating their payload.
func (g *Gate) Admit(verb model.Verb) error {
	if _, off := g.disabled[verb]; off {
		return apperrors.NewNotImplementedError(verb.String())
	}
	if g.lifecycle.State() == StateKilled {
		return apperrors.NewConnectionClosedError()
	}
	return nil
}

// Check validates op and returns the resolved collection and the attachment.
// On error nothing has been logged and no attachment was built.
func (g *Gate) Check(op model.Operation) (Preflight, error) {
	if err := g.Admit(op.Verb); err != nil {
		return Preflight{}, err
	}

	collection, err := ResolveCollection(op.Verb, op.Options, g.defaultCollection)
	if err != nil {
		return Preflight{}, err
	}

	if g.logging {
		g.logOperation(op, collection)
	}

	return Preflight{
		Collection: collection,
		Attachment: g.attachments.Build(),
	}, nil
}

// logOperation never lets a rendering or sink fault escape.
func (g *Gate) logOperation(op model.Operation, collection string) {
	defer func() { _ = recover() }()
	g.sink.Log(logger.LevelDebug, FormatOperation(op, collection))
}

// FormatOperation renders the one-line trace for op.
func FormatOperation(op model.Operation, collection string) string {
	var b strings.Builder
	b.WriteString("MOG ")
	b.WriteString(strings.ToUpper(op.Verb.String()))
	b.WriteString(" → ")
	b.WriteString(collection)
	if op.Query != nil {
		b.WriteString(", Q: ")
		b.WriteString(truncate(renderDocument(op.Query)))
		b.WriteString("...")
	}
	if op.Payload != nil {
		b.WriteString(", DOC: ")
		b.WriteString(truncate(renderDocument(op.Payload)))
		b.WriteString("...")
	}
	if op.Options != nil {
		b.WriteString(", OPT: ")
		b.WriteString(renderOptions(op.Options))
	}
	return b.String()
}

// renderDocument prefers relaxed Extended JSON so ObjectIDs and dates read naturally.
func renderDocument(v interface{}) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = unrenderable
		}
	}()

	switch p := v.(type) {
	case model.OnePayload:
		v = p.Document
	case model.ManyPayload:
		parts := make([]string, len(p.Documents))
		for i, d := range p.Documents {
			parts[i] = renderDocument(d)
		}
		return "[" + strings.Join(parts, ",") + "]"
	}

	if b, err := bson.MarshalExtJSON(v, false, false); err == nil {
		return string(b)
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return unrenderable
}

// renderOptions uses the json tags of the option types.
func renderOptions(v interface{}) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = unrenderable
		}
	}()

	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return unrenderable
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= renderLimit {
		return s
	}
	return string(r[:renderLimit])
}
