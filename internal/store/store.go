package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get, and by Update/Delete on a missing document.
var ErrNotFound = errors.New("document not found")

// Document is the field map of a single stored document.
type Document map[string]any

// Record pairs a document with its key, as returned by queries.
type Record struct {
	Key  string
	Data Document
}

// Filter is an equality or range predicate on an indexed field.
// Supported operators: "==", "<", "<=", ">", ">=".
type Filter struct {
	Field string
	Op    string
	Value any
}

// Order sorts query results by one field.
type Order struct {
	Field string
	Desc  bool
}

// Query selects documents from a collection. Filters are combined with AND;
// Orders apply in sequence; Limit of 0 means unlimited.
type Query struct {
	Filters []Filter
	Orders  []Order
	Limit   int
}

// Batch queues writes that commit atomically: either every queued operation is
// applied, or none is.
type Batch interface {
	Set(collection, key string, data Document)
	Update(collection, key string, data Document)
	Delete(collection, key string)
	Commit(ctx context.Context) error
}

// Unsubscribe stops the realtime delivery started by Subscribe.
type Unsubscribe func()

// Store is the document-store contract both core components are written
// against. Set is a full replace; Update is a partial merge and fails with
// ErrNotFound on a missing document.
type Store interface {
	Get(ctx context.Context, collection, key string) (Document, error)
	Set(ctx context.Context, collection, key string, data Document) error
	Update(ctx context.Context, collection, key string, data Document) error
	Delete(ctx context.Context, collection, key string) error
	Query(ctx context.Context, collection string, q Query) ([]Record, error)
	Batch() Batch
	Subscribe(ctx context.Context, collection string, q Query, onChange func([]Record)) (Unsubscribe, error)
	Ping(ctx context.Context) error
	Close() error
}

// Compile-time driver checks.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FirestoreStore)(nil)
)

// Open constructs a store for the configured driver. The memory driver is
// meant for tests and local development.
func Open(ctx context.Context, driver, projectID, credentialsFile string) (Store, error) {
	switch driver {
	case "memory":
		return NewMemoryStore(), nil
	case "firestore", "":
		return NewFirestoreStore(ctx, projectID, credentialsFile)
	default:
		return nil, errors.New("unknown store driver: " + driver)
	}
}
