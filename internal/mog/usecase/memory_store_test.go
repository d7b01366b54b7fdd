package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"mog/internal/mog/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// memoryClient is an in-memory store good enough for equality filters and $set updates.
type memoryClient struct {
	mu          sync.Mutex
	dbs         map[string]*memoryDatabase
	disconnects int
	forced      bool
}

func newMemoryClient() *memoryClient {
	return &memoryClient{dbs: make(map[string]*memoryDatabase)}
}

func (c *memoryClient) Database(name string, opts ...*options.DatabaseOptions) repository.Database {
	c.mu.Lock()
	defer c.mu.Unlock()
	db, ok := c.dbs[name]
	if !ok {
		db = &memoryDatabase{name: name, collections: make(map[string]*memoryCollection)}
		c.dbs[name] = db
	}
	return db
}

func (c *memoryClient) Ping(ctx context.Context) error { return nil }

func (c *memoryClient) Disconnect(ctx context.Context, force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnects++
	c.forced = force
	return nil
}

type memoryDatabase struct {
	mu          sync.Mutex
	name        string
	collections map[string]*memoryCollection
}

func (d *memoryDatabase) Name() string { return d.name }

func (d *memoryDatabase) Collection(name string) repository.Collection {
	return d.coll(name)
}

func (d *memoryDatabase) coll(name string) *memoryCollection {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.collections[name]
	if !ok {
		c = &memoryCollection{name: name, calls: make(map[string]int)}
		d.collections[name] = c
	}
	return c
}

type memoryCollection struct {
	mu    sync.Mutex
	name  string
	docs  []bson.M
	calls map[string]int
}

func (c *memoryCollection) Name() string { return c.name }

func (c *memoryCollection) callCount(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

func (c *memoryCollection) record(method string) {
	c.calls[method]++
}

func (c *memoryCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) repository.SingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("FindOne")
	for _, d := range c.docs {
		if matches(d, filter) {
			return memorySingleResult{doc: d}
		}
	}
	return memorySingleResult{err: mongo.ErrNoDocuments}
}

func (c *memoryCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (repository.Cursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Find")
	var out []bson.M
	for _, d := range c.docs {
		if matches(d, filter) {
			out = append(out, d)
		}
	}
	return &memoryCursor{docs: out, pos: -1}, nil
}

func (c *memoryCollection) insert(doc interface{}) (interface{}, error) {
	m, err := toM(doc)
	if err != nil {
		return nil, err
	}
	if _, ok := m["_id"]; !ok {
		m["_id"] = primitive.NewObjectID()
	}
	c.docs = append(c.docs, m)
	return m["_id"], nil
}

func (c *memoryCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("InsertOne")
	id, err := c.insert(document)
	if err != nil {
		return nil, err
	}
	return &mongo.InsertOneResult{InsertedID: id}, nil
}

func (c *memoryCollection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("InsertMany")
	res := &mongo.InsertManyResult{}
	for _, d := range documents {
		id, err := c.insert(d)
		if err != nil {
			return nil, err
		}
		res.InsertedIDs = append(res.InsertedIDs, id)
	}
	return res, nil
}

func (c *memoryCollection) update(filter, update interface{}, many bool, opts []*options.UpdateOptions) (*mongo.UpdateResult, error) {
	res := &mongo.UpdateResult{}
	for _, d := range c.docs {
		if !matches(d, filter) {
			continue
		}
		res.MatchedCount++
		res.ModifiedCount++
		if err := applyUpdate(d, update, false); err != nil {
			return nil, err
		}
		if !many {
			return res, nil
		}
	}
	if res.MatchedCount == 0 && len(opts) > 0 && opts[0].Upsert != nil && *opts[0].Upsert {
		doc, err := toM(filter)
		if err != nil {
			return nil, err
		}
		if err := applyUpdate(doc, update, true); err != nil {
			return nil, err
		}
		id, _ := c.insert(doc)
		res.UpsertedCount = 1
		res.UpsertedID = id
	}
	return res, nil
}

func (c *memoryCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("UpdateOne")
	return c.update(filter, update, false, opts)
}

func (c *memoryCollection) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("UpdateMany")
	return c.update(filter, update, true, opts)
}

func (c *memoryCollection) remove(filter interface{}, many bool) *mongo.DeleteResult {
	res := &mongo.DeleteResult{}
	kept := c.docs[:0]
	for _, d := range c.docs {
		if matches(d, filter) && (many || res.DeletedCount == 0) {
			res.DeletedCount++
			continue
		}
		kept = append(kept, d)
	}
	c.docs = kept
	return res
}

func (c *memoryCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("DeleteOne")
	return c.remove(filter, false), nil
}

func (c *memoryCollection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("DeleteMany")
	return c.remove(filter, true), nil
}

func (c *memoryCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("CountDocuments")
	var n int64
	for _, d := range c.docs {
		if matches(d, filter) {
			n++
		}
	}
	return n, nil
}

func (c *memoryCollection) EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("EstimatedDocumentCount")
	return int64(len(c.docs)), nil
}

type memorySingleResult struct {
	doc bson.M
	err error
}

func (r memorySingleResult) Decode(v interface{}) error {
	if r.err != nil {
		return r.err
	}
	raw, err := bson.Marshal(r.doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, v)
}

func (r memorySingleResult) Err() error { return r.err }

type memoryCursor struct {
	docs   []bson.M
	pos    int
	closed bool
}

func (c *memoryCursor) Next(ctx context.Context) bool {
	if c.closed || c.pos+1 >= len(c.docs) {
		return false
	}
	c.pos++
	return true
}

func (c *memoryCursor) Decode(val interface{}) error {
	if c.pos < 0 || c.pos >= len(c.docs) {
		return errors.New("no current document")
	}
	return memorySingleResult{doc: c.docs[c.pos]}.Decode(val)
}

func (c *memoryCursor) All(ctx context.Context, results interface{}) error {
	defer c.Close(ctx)
	rest := c.docs[c.pos+1:]
	if rest == nil {
		rest = []bson.M{}
	}
	raw, err := bson.Marshal(bson.D{{Key: "items", Value: rest}})
	if err != nil {
		return err
	}
	return bson.Raw(raw).Lookup("items").Unmarshal(results)
}

func (c *memoryCursor) Close(ctx context.Context) error {
	c.closed = true
	return nil
}

func (c *memoryCursor) Err() error { return nil }

func toM(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// matches supports equality filters only.
func matches(doc bson.M, filter interface{}) bool {
	f, err := toM(filter)
	if err != nil {
		return false
	}
	for k, want := range f {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

// applyUpdate handles {$set, $setOnInsert} documents and pipelines of $set stages.
func applyUpdate(doc bson.M, update interface{}, inserting bool) error {
	if pipeline, ok := update.(mongo.Pipeline); ok {
		for _, stage := range pipeline {
			if err := applyStage(doc, stage); err != nil {
				return err
			}
		}
		return nil
	}
	u, err := toM(update)
	if err != nil {
		return err
	}
	if set, ok := u["$set"].(bson.M); ok {
		for k, v := range set {
			doc[k] = v
		}
	}
	if inserting {
		if soi, ok := u["$setOnInsert"].(bson.M); ok {
			for k, v := range soi {
				doc[k] = v
			}
		}
	}
	return nil
}

// applyStage evaluates a $set pipeline stage the way the server does: "$x"
// strings are field paths, embedded documents merge into the existing
// subdocument, and only $literal and $ifNull are understood.
func applyStage(doc bson.M, stage interface{}) error {
	s, err := toM(stage)
	if err != nil {
		return err
	}
	set, ok := s["$set"].(bson.M)
	if !ok || len(s) != 1 {
		return errors.New("memory store: only $set stages are supported")
	}
	for k, expr := range set {
		v, present, err := evalExpr(doc, doc[k], expr)
		if err != nil {
			return err
		}
		if present {
			doc[k] = v
		} else {
			delete(doc, k)
		}
	}
	return nil
}

func evalExpr(doc bson.M, current, expr interface{}) (interface{}, bool, error) {
	switch e := expr.(type) {
	case string:
		if strings.HasPrefix(e, "$") {
			v, ok := doc[strings.TrimPrefix(e, "$")]
			return v, ok, nil
		}
		return e, true, nil
	case bson.M:
		if lit, ok := e["$literal"]; ok && len(e) == 1 {
			return lit, true, nil
		}
		if args, ok := e["$ifNull"].(bson.A); ok && len(e) == 1 && len(args) == 2 {
			first, present, err := evalExpr(doc, nil, args[0])
			if err != nil {
				return nil, false, err
			}
			if present && first != nil {
				return first, true, nil
			}
			return evalExpr(doc, nil, args[1])
		}
		merged := bson.M{}
		if sub, ok := current.(bson.M); ok {
			for k, v := range sub {
				merged[k] = v
			}
		}
		for k, sub := range e {
			if strings.HasPrefix(k, "$") {
				return nil, false, fmt.Errorf("memory store: unsupported expression %s", k)
			}
			v, present, err := evalExpr(doc, merged[k], sub)
			if err != nil {
				return nil, false, err
			}
			if present {
				merged[k] = v
			} else {
				delete(merged, k)
			}
		}
		return merged, true, nil
	default:
		return e, true, nil
	}
}
