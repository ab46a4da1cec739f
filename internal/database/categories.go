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

// CategoryRepository handles category document operations.
type CategoryRepository struct {
	store store.Store
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(s store.Store) *CategoryRepository {
	return &CategoryRepository{store: s}
}

// Create writes a new category document.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	if err := r.store.Set(ctx, CategoriesCollection, category.Key, categoryToDoc(category)); err != nil {
		return apperrors.Store("create category", err)
	}
	return nil
}

// Get retrieves a category by key.
func (r *CategoryRepository) Get(ctx context.Context, key string) (*models.Category, error) {
	doc, err := r.store.Get(ctx, CategoriesCollection, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("category", key)
	}
	if err != nil {
		return nil, apperrors.Store("get category", err)
	}
	return categoryFromDoc(key, doc), nil
}

// List returns every category ordered by display order. Callers traverse the
// hierarchy over this snapshot rather than issuing per-node reads.
func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	records, err := r.store.Query(ctx, CategoriesCollection, store.Query{
		Orders: []store.Order{{Field: "display_order"}},
	})
	if err != nil {
		return nil, apperrors.Store("list categories", err)
	}

	categories := make([]*models.Category, 0, len(records))
	for _, rec := range records {
		categories = append(categories, categoryFromDoc(rec.Key, rec.Data))
	}
	return categories, nil
}

// Save fully replaces an existing category document.
func (r *CategoryRepository) Save(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now()
	if err := r.store.Set(ctx, CategoriesCollection, category.Key, categoryToDoc(category)); err != nil {
		return apperrors.Store("save category", err)
	}
	return nil
}

// SetFavoriteBatch applies the favorite flag to every key in one atomic batch
// commit and returns the number of records written. A failed commit applies
// none of them.
func (r *CategoryRepository) SetFavoriteBatch(ctx context.Context, keys []string, favorite bool) (int, error) {
	now := time.Now()
	batch := r.store.Batch()
	for _, key := range keys {
		batch.Update(CategoriesCollection, key, store.Document{
			"is_favorite": favorite,
			"updated_at":  now,
		})
	}
	if err := batch.Commit(ctx); err != nil {
		return 0, apperrors.Store("toggle favorite batch", err)
	}
	return len(keys), nil
}

// DeleteCascade removes a category subtree and the terms filed under it in
// one atomic batch.
func (r *CategoryRepository) DeleteCascade(ctx context.Context, categoryKeys []string, termIDs []uuid.UUID) error {
	batch := r.store.Batch()
	for _, key := range categoryKeys {
		batch.Delete(CategoriesCollection, key)
	}
	for _, id := range termIDs {
		batch.Delete(TermsCollection, id.String())
	}
	if err := batch.Commit(ctx); err != nil {
		return apperrors.Store("cascade delete", err)
	}
	return nil
}

func categoryToDoc(c *models.Category) store.Document {
	doc := store.Document{
		"name":          c.Name,
		"icon":          c.Icon,
		"color":         c.Color,
		"is_favorite":   c.IsFavorite,
		"display_order": c.DisplayOrder,
		"created_at":    c.CreatedAt,
		"updated_at":    c.UpdatedAt,
	}
	if c.ParentKey != nil && *c.ParentKey != "" {
		doc["parent_key"] = *c.ParentKey
	}
	return doc
}

func categoryFromDoc(key string, doc store.Document) *models.Category {
	c := &models.Category{
		Key:          key,
		Name:         docString(doc, "name"),
		Icon:         docString(doc, "icon"),
		Color:        docString(doc, "color"),
		IsFavorite:   docBool(doc, "is_favorite"),
		DisplayOrder: docInt(doc, "display_order"),
		CreatedAt:    docTime(doc, "created_at"),
		UpdatedAt:    docTime(doc, "updated_at"),
	}
	if parent := docString(doc, "parent_key"); parent != "" {
		c.ParentKey = &parent
	}
	return c
}
