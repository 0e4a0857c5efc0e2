// Package testutil holds in-memory doubles for handler and service tests.
package testutil

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/arzan03/scholarship-server/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemCollection is an in-memory store.Collection supporting equality filters
// (dotted paths included) and $set updates. Documents keep insertion order.
type MemCollection struct {
	mu   sync.Mutex
	docs []bson.M
	// Err, when set, is returned by every operation.
	Err error
	// Reads counts FindOne and Find calls.
	Reads int
}

var _ store.Collection = (*MemCollection)(nil)

// NewMemCollection returns a collection seeded with docs. Seeds without an
// _id get one.
func NewMemCollection(docs ...bson.M) *MemCollection {
	m := &MemCollection{}
	for _, d := range docs {
		_, _ = m.InsertOne(context.Background(), d)
	}
	m.Reads = 0
	return m
}

// NewMemStore returns a store.Store whose five collections are empty MemCollections.
func NewMemStore() *store.Store {
	return &store.Store{
		Users:        NewMemCollection(),
		Listings:     NewMemCollection(),
		Applications: NewMemCollection(),
		Payments:     NewMemCollection(),
		Reviews:      NewMemCollection(),
	}
}

// Docs returns a copy of every stored document.
func (m *MemCollection) Docs() []bson.M {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]bson.M, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, clone(d))
	}
	return out
}

func (m *MemCollection) Find(_ context.Context, filter bson.M) ([]bson.M, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	if m.Err != nil {
		return nil, m.Err
	}
	out := []bson.M{}
	for _, d := range m.docs {
		if matches(d, filter) {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (m *MemCollection) FindOne(_ context.Context, filter bson.M) (bson.M, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	if m.Err != nil {
		return nil, m.Err
	}
	if i := m.index(filter); i >= 0 {
		return clone(m.docs[i]), nil
	}
	return nil, nil
}

func (m *MemCollection) InsertOne(_ context.Context, doc any) (*store.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	d := clone(toM(doc))
	if _, ok := d["_id"]; !ok {
		d["_id"] = primitive.NewObjectID()
	}
	m.docs = append(m.docs, d)
	return &store.InsertResult{Acknowledged: true, InsertedID: d["_id"]}, nil
}

func (m *MemCollection) UpdateOne(_ context.Context, filter, update bson.M, upsert bool) (*store.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	set, _ := update["$set"].(bson.M)

	if i := m.index(filter); i >= 0 {
		modified := int64(0)
		for k, v := range set {
			if !reflect.DeepEqual(m.docs[i][k], v) {
				m.docs[i][k] = v
				modified = 1
			}
		}
		return &store.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
	}

	if !upsert {
		return &store.UpdateResult{Acknowledged: true}, nil
	}
	d := bson.M{"_id": primitive.NewObjectID()}
	for k, v := range filter {
		if !strings.Contains(k, ".") {
			d[k] = v
		}
	}
	for k, v := range set {
		d[k] = v
	}
	m.docs = append(m.docs, d)
	return &store.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: d["_id"]}, nil
}

func (m *MemCollection) DeleteOne(_ context.Context, filter bson.M) (*store.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	i := m.index(filter)
	if i < 0 {
		return &store.DeleteResult{Acknowledged: true}, nil
	}
	m.docs = append(m.docs[:i], m.docs[i+1:]...)
	return &store.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (m *MemCollection) Ping(context.Context) error {
	return m.Err
}

func (m *MemCollection) index(filter bson.M) int {
	for i, d := range m.docs {
		if matches(d, filter) {
			return i
		}
	}
	return -1
}

func matches(doc, filter bson.M) bool {
	for path, want := range filter {
		got, ok := lookup(doc, path)
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func lookup(doc bson.M, path string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case bson.M:
		return m, true
	case map[string]any:
		return m, true
	}
	return nil, false
}

func toM(doc any) bson.M {
	if m, ok := asMap(doc); ok {
		return m
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		panic(err)
	}
	return m
}

func clone(d bson.M) bson.M {
	out := make(bson.M, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
