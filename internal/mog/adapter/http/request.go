package http

import (
	"bytes"
	"encoding/json"

	"mog/internal/mog/domain/model"
	apperrors "mog/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// operationRequest is the body of POST /v1/:verb. Query, document and the
// sort/projection options are relaxed Extended JSON.
type operationRequest struct {
	Collection string            `json:"collection"`
	Query      json.RawMessage   `json:"query"`
	Document   json.RawMessage   `json:"document"`
	Documents  []json.RawMessage `json:"documents"`
	Options    requestOptions    `json:"options"`
}

type requestOptions struct {
	Many       bool            `json:"many"`
	Fast       bool            `json:"fast"`
	Upsert     bool            `json:"upsert"`
	Touch      bool            `json:"touch"`
	Limit      *int64          `json:"limit"`
	Skip       *int64          `json:"skip"`
	Sort       json.RawMessage `json:"sort"`
	Projection json.RawMessage `json:"projection"`
}

// decodeExtJSON returns nil for an absent or null value.
func decodeExtJSON(field string, raw json.RawMessage) (bson.D, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var d bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &d); err != nil {
		return nil, apperrors.NewValidationError(field+" is not a valid Extended JSON document").
			WithDetail("field", field).
			WithCause(err)
	}
	return d, nil
}

// query returns nil when no query was sent, so the dispatcher matches everything.
func (r *operationRequest) query() (interface{}, error) {
	d, err := decodeExtJSON("query", r.Query)
	if err != nil || d == nil {
		return nil, err
	}
	return d, nil
}

// payload prefers documents over document; the shape decides the store call.
func (r *operationRequest) payload() (model.Payload, error) {
	if len(r.Documents) > 0 {
		docs := make([]model.Document, 0, len(r.Documents))
		for _, raw := range r.Documents {
			d, err := decodeExtJSON("documents", raw)
			if err != nil {
				return nil, err
			}
			if d == nil {
				return nil, apperrors.NewValidationError("documents must not contain null")
			}
			docs = append(docs, d)
		}
		return model.Many(docs...), nil
	}
	d, err := decodeExtJSON("document", r.Document)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return model.One(d), nil
}

func (r *operationRequest) base() model.OperationOptions {
	return model.OperationOptions{Collection: r.Collection}
}

func (r *operationRequest) findOptions() (*options.FindOptions, error) {
	sort, err := decodeExtJSON("sort", r.Options.Sort)
	if err != nil {
		return nil, err
	}
	projection, err := decodeExtJSON("projection", r.Options.Projection)
	if err != nil {
		return nil, err
	}
	if sort == nil && projection == nil && r.Options.Limit == nil && r.Options.Skip == nil {
		return nil, nil
	}

	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	if projection != nil {
		opts.SetProjection(projection)
	}
	if r.Options.Limit != nil {
		opts.SetLimit(*r.Options.Limit)
	}
	if r.Options.Skip != nil {
		opts.SetSkip(*r.Options.Skip)
	}
	return opts, nil
}

func (r *operationRequest) findOneOptions() (*options.FindOneOptions, error) {
	sort, err := decodeExtJSON("sort", r.Options.Sort)
	if err != nil {
		return nil, err
	}
	projection, err := decodeExtJSON("projection", r.Options.Projection)
	if err != nil {
		return nil, err
	}
	if sort == nil && projection == nil && r.Options.Skip == nil {
		return nil, nil
	}

	opts := options.FindOne()
	if sort != nil {
		opts.SetSort(sort)
	}
	if projection != nil {
		opts.SetProjection(projection)
	}
	if r.Options.Skip != nil {
		opts.SetSkip(*r.Options.Skip)
	}
	return opts, nil
}
