package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-study/kotoba-api/internal/apperrors"
	"github.com/kotoba-study/kotoba-api/internal/models"
	"github.com/kotoba-study/kotoba-api/internal/store"
)

// TermRepository handles term document operations.
type TermRepository struct {
	store store.Store
}

// NewTermRepository creates a new term repository.
func NewTermRepository(s store.Store) *TermRepository {
	return &TermRepository{store: s}
}

// Create writes a new term document.
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	now := time.Now()
	term.CreatedAt = now
	term.UpdatedAt = now
	if err := r.store.Set(ctx, TermsCollection, term.ID.String(), termToDoc(term)); err != nil {
		return apperrors.Store("create term", err)
	}
	return nil
}

// Get retrieves a term by id.
func (r *TermRepository) Get(ctx context.Context, id uuid.UUID) (*models.Term, error) {
	doc, err := r.store.Get(ctx, TermsCollection, id.String())
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("term", id.String())
	}
	if err != nil {
		return nil, apperrors.Store("get term", err)
	}
	return termFromDoc(id, doc), nil
}

// Save fully replaces an existing term document.
func (r *TermRepository) Save(ctx context.Context, term *models.Term) error {
	term.UpdatedAt = time.Now()
	if err := r.store.Set(ctx, TermsCollection, term.ID.String(), termToDoc(term)); err != nil {
		return apperrors.Store("save term", err)
	}
	return nil
}

// Delete removes a term.
func (r *TermRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.store.Delete(ctx, TermsCollection, id.String()); err != nil {
		return apperrors.Store("delete term", err)
	}
	return nil
}

// ListByCategory returns the terms filed directly under one category, newest
// first.
func (r *TermRepository) ListByCategory(ctx context.Context, categoryKey string) ([]*models.Term, error) {
	records, err := r.store.Query(ctx, TermsCollection, store.Query{
		Filters: []store.Filter{{Field: "category_key", Op: "==", Value: categoryKey}},
		Orders:  []store.Order{{Field: "created_at", Desc: true}},
	})
	if err != nil {
		return nil, apperrors.Store("list terms", err)
	}

	terms := make([]*models.Term, 0, len(records))
	for _, rec := range records {
		id, err := uuid.Parse(rec.Key)
		if err != nil {
			continue
		}
		terms = append(terms, termFromDoc(id, rec.Data))
	}
	return terms, nil
}

func termToDoc(t *models.Term) store.Document {
	return store.Document{
		"term":         t.Text,
		"meaning":      t.Meaning,
		"example":      t.Example,
		"category_key": t.CategoryKey,
		"is_favorite":  t.IsFavorite,
		"image_url":    t.ImageURL,
		"created_at":   t.CreatedAt,
		"updated_at":   t.UpdatedAt,
	}
}

func termFromDoc(id uuid.UUID, doc store.Document) *models.Term {
	return &models.Term{
		ID:          id,
		Text:        docString(doc, "term"),
		Meaning:     docString(doc, "meaning"),
		Example:     docString(doc, "example"),
		CategoryKey: docString(doc, "category_key"),
		IsFavorite:  docBool(doc, "is_favorite"),
		ImageURL:    docString(doc, "image_url"),
		CreatedAt:   docTime(doc, "created_at"),
		UpdatedAt:   docTime(doc, "updated_at"),
	}
}
