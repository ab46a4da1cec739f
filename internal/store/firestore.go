package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the production Store driver. Batches map to Firestore
// write batches, which the service applies atomically, and Subscribe maps to
// query snapshot listeners.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to Firestore for the given project. With an
// empty credentialsFile, application default credentials are used (this also
// covers the emulator via FIRESTORE_EMULATOR_HOST).
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project ID is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Get retrieves a document by key.
func (s *FirestoreStore) Get(ctx context.Context, collection, key string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, key, err)
	}
	return Document(snap.Data()), nil
}

// Set fully replaces a document, creating it if absent.
func (s *FirestoreStore) Set(ctx context.Context, collection, key string, data Document) error {
	if _, err := s.client.Collection(collection).Doc(key).Set(ctx, map[string]any(data)); err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, key, err)
	}
	return nil
}

// Update merges fields into an existing document.
func (s *FirestoreStore) Update(ctx context.Context, collection, key string, data Document) error {
	_, err := s.client.Collection(collection).Doc(key).Update(ctx, fieldUpdates(data))
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, key, err)
	}
	return nil
}

// Delete removes a document. Firestore deletes are idempotent; a missing
// document is not an error.
func (s *FirestoreStore) Delete(ctx context.Context, collection, key string) error {
	if _, err := s.client.Collection(collection).Doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, key, err)
	}
	return nil
}

// Query returns the records matching q.
func (s *FirestoreStore) Query(ctx context.Context, collection string, q Query) ([]Record, error) {
	iter := s.buildQuery(collection, q).Documents(ctx)
	defer iter.Stop()

	var records []Record
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", collection, err)
		}
		records = append(records, Record{Key: snap.Ref.ID, Data: Document(snap.Data())})
	}
	return records, nil
}

func (s *FirestoreStore) buildQuery(collection string, q Query) firestore.Query {
	query := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, f.Op, f.Value)
	}
	for _, o := range q.Orders {
		dir := firestore.Asc
		if o.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(o.Field, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return query
}

// Batch returns a write batch; Commit applies it as one atomic Firestore
// commit.
func (s *FirestoreStore) Batch() Batch {
	return &firestoreBatch{store: s}
}

// Subscribe streams query snapshots to onChange until the context is
// cancelled or Unsubscribe is called.
func (s *FirestoreStore) Subscribe(ctx context.Context, collection string, q Query, onChange func([]Record)) (Unsubscribe, error) {
	subCtx, cancel := context.WithCancel(ctx)
	snaps := s.buildQuery(collection, q).Snapshots(subCtx)

	go func() {
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				return
			}
			var records []Record
			docs := snap.Documents
			for {
				doc, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					return
				}
				records = append(records, Record{Key: doc.Ref.ID, Data: Document(doc.Data())})
			}
			onChange(records)
		}
	}()

	return Unsubscribe(cancel), nil
}

// Ping verifies the service is reachable with a cheap point read.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, err := s.client.Collection("healthz").Doc("ping").Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("firestore ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

type firestoreBatch struct {
	store *FirestoreStore
	ops   []func(b *firestore.WriteBatch)
}

func (b *firestoreBatch) Set(collection, key string, data Document) {
	ref := b.store.client.Collection(collection).Doc(key)
	b.ops = append(b.ops, func(wb *firestore.WriteBatch) {
		wb.Set(ref, map[string]any(data))
	})
}

func (b *firestoreBatch) Update(collection, key string, data Document) {
	ref := b.store.client.Collection(collection).Doc(key)
	updates := fieldUpdates(data)
	b.ops = append(b.ops, func(wb *firestore.WriteBatch) {
		wb.Update(ref, updates)
	})
}

func (b *firestoreBatch) Delete(collection, key string) {
	ref := b.store.client.Collection(collection).Doc(key)
	b.ops = append(b.ops, func(wb *firestore.WriteBatch) {
		wb.Delete(ref)
	})
}

func (b *firestoreBatch) Commit(ctx context.Context) error {
	wb := b.store.client.Batch()
	for _, op := range b.ops {
		op(wb)
	}
	if _, err := wb.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	b.ops = nil
	return nil
}

func fieldUpdates(data Document) []firestore.Update {
	updates := make([]firestore.Update, 0, len(data))
	for field, value := range data {
		updates = append(updates, firestore.Update{Path: field, Value: value})
	}
	return updates
}
