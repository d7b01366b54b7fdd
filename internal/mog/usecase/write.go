package usecase

import (
	"context"
	"fmt"

	"mog/internal/mog/domain/model"
	apperrors "mog/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Insert writes one document or a batch of documents, depending on the payload shape.
func (c *Connection) Insert(ctx context.Context, payload model.Payload, opts model.InsertOptions) (model.InsertResult, error) {
	if err := c.gate.Admit(model.VerbInsert); err != nil {
		return model.InsertResult{}, err
	}
	if err := validatePayload(model.VerbInsert, payload); err != nil {
		return model.InsertResult{}, err
	}

	coll, pf, err := c.collection(model.Operation{Verb: model.VerbInsert, Payload: payload, Options: opts})
	if err != nil {
		return model.InsertResult{}, err
	}
	touch := opts.Touch && pf.Attachment != nil

	switch p := payload.(type) {
	case model.OnePayload:
		doc := p.Document
		if touch {
			if doc, err = touchInsert(doc, pf.Attachment); err != nil {
				return model.InsertResult{}, err
			}
		}
		res, err := coll.InsertOne(ctx, doc, optional(opts.InsertOne)...)
		if err != nil {
			return model.InsertResult{}, err
		}
		return model.InsertResult{One: res, Attachment: pf.Attachment}, nil

	case model.ManyPayload:
		docs := p.Documents
		if touch {
			docs = make([]interface{}, len(p.Documents))
			for i, d := range p.Documents {
				if docs[i], err = touchInsert(d, pf.Attachment); err != nil {
					return model.InsertResult{}, err
				}
			}
		}
		res, err := coll.InsertMany(ctx, docs, optional(opts.InsertMany)...)
		if err != nil {
			return model.InsertResult{}, err
		}
		return model.InsertResult{Many: res, Attachment: pf.Attachment}, nil
	}
	panic("unreachable: payload validated above")
}

// Update merges the payload into matching documents with $set. A single
// document updates the first match; a sequence is applied as a pipeline of
// $set stages to every match. Both shapes store the payload values as given.
func (c *Connection) Update(ctx context.Context, query interface{}, payload model.Payload, opts model.UpdateOptions) (model.UpdateResult, error) {
	if err := c.gate.Admit(model.VerbUpdate); err != nil {
		return model.UpdateResult{}, err
	}
	if err := validatePayload(model.VerbUpdate, payload); err != nil {
		return model.UpdateResult{}, err
	}

	coll, pf, err := c.collection(model.Operation{Verb: model.VerbUpdate, Query: query, Payload: payload, Options: opts})
	if err != nil {
		return model.UpdateResult{}, err
	}
	var att *model.Attachment
	if opts.Touch {
		att = pf.Attachment
	}
	updateOpts := options.Update().SetUpsert(opts.Upsert)

	switch p := payload.(type) {
	case model.OnePayload:
		update, err := mergeUpdate(p.Document, att)
		if err != nil {
			return model.UpdateResult{}, err
		}
		res, err := coll.UpdateOne(ctx, filterOf(query), update, updateOpts)
		if err != nil {
			return model.UpdateResult{}, err
		}
		return model.UpdateResult{UpdateResult: res, Attachment: pf.Attachment}, nil

	case model.ManyPayload:
		pipeline, err := mergePipeline(p.Documents, att)
		if err != nil {
			return model.UpdateResult{}, err
		}
		res, err := coll.UpdateMany(ctx, filterOf(query), pipeline, updateOpts)
		if err != nil {
			return model.UpdateResult{}, err
		}
		return model.UpdateResult{UpdateResult: res, Many: true, Attachment: pf.Attachment}, nil
	}
	panic("unreachable: payload validated above")
}

// Delete removes the first matching document, or every match when Many is set.
func (c *Connection) Delete(ctx context.Context, query interface{}, opts model.DeleteOptions) (*mongo.DeleteResult, error) {
	coll, _, err := c.collection(model.Operation{Verb: model.VerbDelete, Query: query, Options: opts})
	if err != nil {
		return nil, err
	}
	if opts.Many {
		return coll.DeleteMany(ctx, filterOf(query))
	}
	return coll.DeleteOne(ctx, filterOf(query))
}

// Count returns the number of documents matching query. With Fast set it
// returns the collection's estimated total and ignores query.
func (c *Connection) Count(ctx context.Context, query interface{}, opts model.CountOptions) (int64, error) {
	coll, _, err := c.collection(model.Operation{Verb: model.VerbCount, Query: query, Options: opts})
	if err != nil {
		return 0, err
	}
	if opts.Fast {
		return coll.EstimatedDocumentCount(ctx, optional(opts.Estimated)...)
	}
	return coll.CountDocuments(ctx, filterOf(query), optional(opts.Count)...)
}

func validatePayload(verb model.Verb, payload model.Payload) error {
	switch p := payload.(type) {
	case model.OnePayload:
		if p.Document == nil {
			return apperrors.NewValidationError(fmt.Sprintf("%s requires a document", verb)).WithDetail("verb", verb.String())
		}
		return nil
	case model.ManyPayload:
		if len(p.Documents) == 0 {
			return apperrors.NewValidationError(fmt.Sprintf("%s requires at least one document", verb)).WithDetail("verb", verb.String())
		}
		return nil
	default:
		return apperrors.NewValidationError(fmt.Sprintf("%s requires a payload", verb)).WithDetail("verb", verb.String())
	}
}

// toD converts any marshalable document into an ordered bson.D.
func toD(doc interface{}) (bson.D, error) {
	if d, ok := doc.(bson.D); ok {
		return append(bson.D(nil), d...), nil
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d, nil
}

// setField replaces key in d, or appends it.
func setField(d bson.D, key string, value interface{}) bson.D {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = value
			return d
		}
	}
	return append(d, bson.E{Key: key, Value: value})
}

func touchInsert(doc interface{}, att *model.Attachment) (bson.D, error) {
	d, err := toD(doc)
	if err != nil {
		return nil, err
	}
	d = setField(d, "createdAt", att.CreatedAt)
	d = setField(d, "updatedAt", att.UpdatedAt)
	if att.Authority != "" {
		d = setField(d, "authority", att.Authority)
	}
	return d, nil
}

// mergeUpdate builds {$set: doc}; with an attachment it also stamps updatedAt
// and authority, and createdAt on upsert inserts.
func mergeUpdate(doc interface{}, att *model.Attachment) (interface{}, error) {
	if att == nil {
		return bson.D{{Key: "$set", Value: doc}}, nil
	}
	set, err := toD(doc)
	if err != nil {
		return nil, err
	}
	set = setField(set, "updatedAt", att.UpdatedAt)
	if att.Authority != "" {
		set = setField(set, "authority", att.Authority)
	}
	update := bson.D{{Key: "$set", Value: set}}
	if _, ok := fieldOf(set, "createdAt"); !ok {
		update = append(update, bson.E{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: att.CreatedAt}}})
	}
	return update, nil
}

// mergePipeline turns every document into a $set stage. Stage values are
// aggregation expressions, so each top-level value is wrapped in $literal:
// "$x" strings stay strings and subdocuments replace rather than merge, as
// with the $set operator.
func mergePipeline(docs []interface{}, att *model.Attachment) (mongo.Pipeline, error) {
	pipeline := make(mongo.Pipeline, 0, len(docs)+1)
	for _, doc := range docs {
		d, err := toD(doc)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, bson.D{{Key: "$set", Value: literalFields(d)}})
	}
	if att != nil {
		stamp := bson.D{
			{Key: "updatedAt", Value: att.UpdatedAt},
			{Key: "createdAt", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$createdAt", att.CreatedAt}}}},
		}
		if att.Authority != "" {
			stamp = append(stamp, bson.E{Key: "authority", Value: literal(att.Authority)})
		}
		pipeline = append(pipeline, bson.D{{Key: "$set", Value: stamp}})
	}
	return pipeline, nil
}

func literal(v interface{}) bson.D {
	return bson.D{{Key: "$literal", Value: v}}
}

func literalFields(d bson.D) bson.D {
	out := make(bson.D, len(d))
	for i, e := range d {
		out[i] = bson.E{Key: e.Key, Value: literal(e.Value)}
	}
	return out
}

func fieldOf(d bson.D, key string) (interface{}, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}
