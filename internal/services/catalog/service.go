// Package catalog owns the category hierarchy and the terms filed under it:
// creation with derived keys, favorite propagation over the descendant
// closure, cycle-refusing moves, breadcrumb paths, and cascade deletes.
package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/kotoba-study/kotoba-api/internal/apperrors"
	"github.com/kotoba-study/kotoba-api/internal/database"
	"github.com/kotoba-study/kotoba-api/internal/models"
	"github.com/kotoba-study/kotoba-api/internal/tree"
	"go.uber.org/zap"
)

// Service implements the category tree manager and term management.
type Service struct {
	categories database.CategoryRepositoryInterface
	terms      database.TermRepositoryInterface
	logger     *zap.Logger
}

// NewService creates a catalog service.
func NewService(categories database.CategoryRepositoryInterface, terms database.TermRepositoryInterface, logger *zap.Logger) *Service {
	return &Service{categories: categories, terms: terms, logger: logger}
}

// CreateCategoryInput is the input for CreateCategory.
type CreateCategoryInput struct {
	Name         string
	Icon         string
	Color        string
	ParentKey    *string
	DisplayOrder int
}

// CreateCategory validates the name, derives the category key from it, and
// refuses key collisions and missing parents before writing.
func (s *Service) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Validationf("name", "must not be blank")
	}

	key := DeriveKey(name)
	if key == "" {
		return nil, apperrors.Validationf("name", "no usable characters for a category key")
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.Contains(key) {
		return nil, apperrors.Conflictf("category", key, "a category with this name already exists")
	}

	if in.ParentKey != nil && *in.ParentKey != "" {
		if !snapshot.Contains(*in.ParentKey) {
			return nil, apperrors.NotFound("category", *in.ParentKey)
		}
	} else {
		in.ParentKey = nil
	}

	category := &models.Category{
		Key:          key,
		Name:         name,
		Icon:         in.Icon,
		Color:        in.Color,
		ParentKey:    in.ParentKey,
		DisplayOrder: in.DisplayOrder,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category_created",
		zap.String("key", key),
		zap.Bool("root", category.IsRoot()),
	)
	return category, nil
}

// UpdateCategoryInput carries the optional field updates for a category. The
// key stays stable across renames.
type UpdateCategoryInput struct {
	Name         *string
	Icon         *string
	Color        *string
	DisplayOrder *int
}

// UpdateCategory applies rename/recolor/re-icon/reorder edits. A rename is
// refused when the new name derives the key of another existing category.
func (s *Service) UpdateCategory(ctx context.Context, key string, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categories.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.Validationf("name", "must not be blank")
		}
		derived := DeriveKey(name)
		if derived != key {
			snapshot, err := s.snapshot(ctx)
			if err != nil {
				return nil, err
			}
			if snapshot.Contains(derived) {
				return nil, apperrors.Conflictf("category", derived, "a category with this name already exists")
			}
		}
		category.Name = name
	}
	if in.Icon != nil {
		category.Icon = *in.Icon
	}
	if in.Color != nil {
		category.Color = *in.Color
	}
	if in.DisplayOrder != nil {
		category.DisplayOrder = *in.DisplayOrder
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// MoveCategory reparents a category. A move that would make the category its
// own ancestor is refused before any write; nil newParentKey moves it to the
// root.
func (s *Service) MoveCategory(ctx context.Context, key string, newParentKey *string) (*models.Category, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	category, ok := snapshot[key]
	if !ok {
		return nil, apperrors.NotFound("category", key)
	}

	if newParentKey != nil && *newParentKey != "" {
		if !snapshot.Contains(*newParentKey) {
			return nil, apperrors.NotFound("category", *newParentKey)
		}
		if tree.WouldCreateCycle(snapshot, key, *newParentKey) {
			return nil, apperrors.Conflictf("category", key, "move would make the category its own ancestor")
		}
		category.ParentKey = newParentKey
	} else {
		category.ParentKey = nil
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category_moved", zap.String("key", key))
	return category, nil
}

// ToggleFavorite sets the favorite flag on the category and every descendant
// in one atomic batch and returns the number of categories written. The
// propagated value is a snapshot: later independent edits to a descendant's
// flag are allowed and never re-synced.
func (s *Service) ToggleFavorite(ctx context.Context, key string, favorite bool) (int, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	if !snapshot.Contains(key) {
		return 0, apperrors.NotFound("category", key)
	}

	keys := append([]string{key}, tree.Descendants(snapshot, key)...)
	count, err := s.categories.SetFavoriteBatch(ctx, keys, favorite)
	if err != nil {
		return 0, err
	}

	s.logger.Info("category_favorite_toggled",
		zap.String("key", key),
		zap.Bool("favorite", favorite),
		zap.Int("updated", count),
	)
	return count, nil
}

// CascadeResult reports what a category delete removed.
type CascadeResult struct {
	CategoriesDeleted int `json:"categories_deleted"`
	TermsDeleted      int `json:"terms_deleted"`
}

// DeleteCategory removes the category, its whole descendant subtree, and the
// terms filed under every removed category, in one atomic batch.
func (s *Service) DeleteCategory(ctx context.Context, key string) (*CascadeResult, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !snapshot.Contains(key) {
		return nil, apperrors.NotFound("category", key)
	}

	keys := append([]string{key}, tree.Descendants(snapshot, key)...)

	var termIDs []uuid.UUID
	for _, categoryKey := range keys {
		terms, err := s.terms.ListByCategory(ctx, categoryKey)
		if err != nil {
			return nil, err
		}
		for _, term := range terms {
			termIDs = append(termIDs, term.ID)
		}
	}

	if err := s.categories.DeleteCascade(ctx, keys, termIDs); err != nil {
		return nil, err
	}

	s.logger.Info("category_deleted",
		zap.String("key", key),
		zap.Int("categories", len(keys)),
		zap.Int("terms", len(termIDs)),
	)
	return &CascadeResult{CategoriesDeleted: len(keys), TermsDeleted: len(termIDs)}, nil
}

// GetCategory returns one category.
func (s *Service) GetCategory(ctx context.Context, key string) (*models.Category, error) {
	return s.categories.Get(ctx, key)
}

// ListCategories returns all categories in display order.
func (s *Service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categories.List(ctx)
}

// Descendants returns the categories below key in traversal order.
func (s *Service) Descendants(ctx context.Context, key string) ([]*models.Category, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !snapshot.Contains(key) {
		return nil, apperrors.NotFound("category", key)
	}

	keys := tree.Descendants(snapshot, key)
	descendants := make([]*models.Category, 0, len(keys))
	for _, k := range keys {
		descendants = append(descendants, snapshot[k])
	}
	return descendants, nil
}

// Path returns the ancestor chain from root to the category, plus the
// breadcrumb string built from it.
func (s *Service) Path(ctx context.Context, key string) ([]*models.Category, string, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, "", err
	}
	if !snapshot.Contains(key) {
		return nil, "", apperrors.NotFound("category", key)
	}

	path := tree.Path(snapshot, key)
	names := make([]string, 0, len(path))
	for _, c := range path {
		names = append(names, c.Name)
	}
	return path, strings.Join(names, " / "), nil
}

// snapshot fetches a fresh immutable view of all categories for traversal.
func (s *Service) snapshot(ctx context.Context) (tree.Snapshot, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return tree.BuildSnapshot(categories), nil
}
