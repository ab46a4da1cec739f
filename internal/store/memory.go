package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by tests and local development. It
// mirrors the driver semantics that matter to callers: full-replace Set,
// merge Update that fails on missing documents, all-or-nothing batches, and
// subscription snapshots delivered on every change.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	listeners   map[int]*memoryListener
	nextListen  int
}

type memoryListener struct {
	collection string
	query      Query
	onChange   func([]Record)
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
		listeners:   make(map[int]*memoryListener),
	}
}

// Get retrieves a document by key.
func (s *MemoryStore) Get(ctx context.Context, collection, key string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDocument(doc), nil
}

// Set fully replaces a document, creating it if absent.
func (s *MemoryStore) Set(ctx context.Context, collection, key string, data Document) error {
	s.mu.Lock()
	s.setLocked(collection, key, data)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

// Update merges fields into an existing document.
func (s *MemoryStore) Update(ctx context.Context, collection, key string, data Document) error {
	s.mu.Lock()
	if _, ok := s.collections[collection][key]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.updateLocked(collection, key, data)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

// Delete removes a document. Deleting a missing document is not an error,
// matching the production driver.
func (s *MemoryStore) Delete(ctx context.Context, collection, key string) error {
	s.mu.Lock()
	delete(s.collections[collection], key)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

// Query returns the records matching q, filtered, ordered, and limited.
func (s *MemoryStore) Query(ctx context.Context, collection string, q Query) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryLocked(collection, q)
}

func (s *MemoryStore) queryLocked(collection string, q Query) ([]Record, error) {
	var records []Record
	for key, doc := range s.collections[collection] {
		match := true
		for _, f := range q.Filters {
			ok, err := matchFilter(doc[f.Field], f)
			if err != nil {
				return nil, err
			}
			if !ok {
				match = false
				break
			}
		}
		if match {
			records = append(records, Record{Key: key, Data: cloneDocument(doc)})
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		for _, o := range q.Orders {
			cmp := compareValues(records[i].Data[o.Field], records[j].Data[o.Field])
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return records[i].Key < records[j].Key
	})

	if q.Limit > 0 && len(records) > q.Limit {
		records = records[:q.Limit]
	}
	return records, nil
}

// Batch returns a write batch against this store.
func (s *MemoryStore) Batch() Batch {
	return &memoryBatch{store: s}
}

// Subscribe registers a realtime listener for the query result set. The
// current snapshot is delivered immediately, then again after every mutation
// of the collection.
func (s *MemoryStore) Subscribe(ctx context.Context, collection string, q Query, onChange func([]Record)) (Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextListen
	s.nextListen++
	s.listeners[id] = &memoryListener{collection: collection, query: q, onChange: onChange}
	records, err := s.queryLocked(collection, q)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	onChange(records)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}, nil
}

// Ping is always healthy for the in-memory driver.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// Close is a no-op for the in-memory driver.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) setLocked(collection, key string, data Document) {
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]Document)
		s.collections[collection] = docs
	}
	docs[key] = cloneDocument(data)
}

func (s *MemoryStore) updateLocked(collection, key string, data Document) {
	doc := s.collections[collection][key]
	for field, value := range data {
		doc[field] = cloneValue(value)
	}
}

func (s *MemoryStore) notify(collection string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.listeners {
		if l.collection != collection {
			continue
		}
		records, err := s.queryLocked(collection, l.query)
		if err != nil {
			continue
		}
		go l.onChange(records)
	}
}

type batchOp struct {
	kind       string // "set", "update", "delete"
	collection string
	key        string
	data       Document
}

type memoryBatch struct {
	store *MemoryStore
	ops   []batchOp
}

func (b *memoryBatch) Set(collection, key string, data Document) {
	b.ops = append(b.ops, batchOp{kind: "set", collection: collection, key: key, data: cloneDocument(data)})
}

func (b *memoryBatch) Update(collection, key string, data Document) {
	b.ops = append(b.ops, batchOp{kind: "update", collection: collection, key: key, data: cloneDocument(data)})
}

func (b *memoryBatch) Delete(collection, key string) {
	b.ops = append(b.ops, batchOp{kind: "delete", collection: collection, key: key})
}

// Commit applies all queued operations atomically. The whole batch is
// validated before any write lands, so a failing operation leaves the store
// untouched.
func (b *memoryBatch) Commit(ctx context.Context) error {
	b.store.mu.Lock()

	created := make(map[string]bool)
	for _, op := range b.ops {
		ref := op.collection + "/" + op.key
		switch op.kind {
		case "set":
			created[ref] = true
		case "update":
			if _, ok := b.store.collections[op.collection][op.key]; !ok && !created[ref] {
				b.store.mu.Unlock()
				return fmt.Errorf("batch update %s: %w", ref, ErrNotFound)
			}
		case "delete":
			delete(created, ref)
		}
	}

	touched := make(map[string]bool)
	for _, op := range b.ops {
		touched[op.collection] = true
		switch op.kind {
		case "set":
			b.store.setLocked(op.collection, op.key, op.data)
		case "update":
			if _, ok := b.store.collections[op.collection][op.key]; ok {
				b.store.updateLocked(op.collection, op.key, op.data)
			} else {
				b.store.setLocked(op.collection, op.key, op.data)
			}
		case "delete":
			delete(b.store.collections[op.collection], op.key)
		}
	}
	b.store.mu.Unlock()

	for collection := range touched {
		b.store.notify(collection)
	}
	b.ops = nil
	return nil
}

func cloneDocument(doc Document) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Document:
		return cloneDocument(val)
	case map[string]any:
		return map[string]any(cloneDocument(Document(val)))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func matchFilter(value any, f Filter) (bool, error) {
	cmp := compareValues(value, f.Value)
	switch f.Op {
	case "==":
		return cmp == 0, nil
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	case ">=":
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("unsupported filter operator %q", f.Op)
	}
}

// compareValues orders two field values of the same logical type. Numeric
// values compare across int/int64/float64 since drivers differ in what they
// hand back.
func compareValues(a, b any) int {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			default:
				return 0
			}
		}
	case nil:
		if b == nil {
			return 0
		}
		return -1
	}
	if b == nil {
		return 1
	}
	return 0
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
