package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/kotoba-study/kotoba-api/internal/apperrors"
	"github.com/kotoba-study/kotoba-api/internal/models"
	"github.com/kotoba-study/kotoba-api/internal/tree"
	"go.uber.org/zap"
)

// CreateTermInput is the input for CreateTerm.
type CreateTermInput struct {
	Text        string
	Meaning     string
	Example     string
	CategoryKey string
	IsFavorite  bool
	ImageURL    string
}

// CreateTerm validates the term and its category reference, then writes it.
func (s *Service) CreateTerm(ctx context.Context, in CreateTermInput) (*models.Term, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, apperrors.Validationf("term", "must not be blank")
	}
	meaning := strings.TrimSpace(in.Meaning)
	if meaning == "" {
		return nil, apperrors.Validationf("meaning", "must not be blank")
	}
	if _, err := s.categories.Get(ctx, in.CategoryKey); err != nil {
		return nil, err
	}

	term := &models.Term{
		ID:          uuid.New(),
		Text:        text,
		Meaning:     meaning,
		Example:     strings.TrimSpace(in.Example),
		CategoryKey: in.CategoryKey,
		IsFavorite:  in.IsFavorite,
		ImageURL:    in.ImageURL,
	}
	if err := s.terms.Create(ctx, term); err != nil {
		return nil, err
	}

	s.logger.Info("term_created",
		zap.String("id", term.ID.String()),
		zap.String("category", term.CategoryKey),
	)
	return term, nil
}

// UpdateTermInput carries the optional field updates for a term.
type UpdateTermInput struct {
	Text        *string
	Meaning     *string
	Example     *string
	CategoryKey *string
	IsFavorite  *bool
	ImageURL    *string
}

// UpdateTerm applies field edits, checking a changed category reference.
func (s *Service) UpdateTerm(ctx context.Context, id uuid.UUID, in UpdateTermInput) (*models.Term, error) {
	term, err := s.terms.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return nil, apperrors.Validationf("term", "must not be blank")
		}
		term.Text = text
	}
	if in.Meaning != nil {
		meaning := strings.TrimSpace(*in.Meaning)
		if meaning == "" {
			return nil, apperrors.Validationf("meaning", "must not be blank")
		}
		term.Meaning = meaning
	}
	if in.Example != nil {
		term.Example = strings.TrimSpace(*in.Example)
	}
	if in.CategoryKey != nil && *in.CategoryKey != term.CategoryKey {
		if _, err := s.categories.Get(ctx, *in.CategoryKey); err != nil {
			return nil, err
		}
		term.CategoryKey = *in.CategoryKey
	}
	if in.IsFavorite != nil {
		term.IsFavorite = *in.IsFavorite
	}
	if in.ImageURL != nil {
		term.ImageURL = *in.ImageURL
	}

	if err := s.terms.Save(ctx, term); err != nil {
		return nil, err
	}
	return term, nil
}

// GetTerm returns one term.
func (s *Service) GetTerm(ctx context.Context, id uuid.UUID) (*models.Term, error) {
	return s.terms.Get(ctx, id)
}

// DeleteTerm removes one term.
func (s *Service) DeleteTerm(ctx context.Context, id uuid.UUID) error {
	if _, err := s.terms.Get(ctx, id); err != nil {
		return err
	}
	if err := s.terms.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("term_deleted", zap.String("id", id.String()))
	return nil
}

// ListTermsInput selects terms for listing or review.
type ListTermsInput struct {
	CategoryKey        string
	IncludeDescendants bool
	FavoritesOnly      bool
}

// ListTerms returns the terms under a category, optionally including the
// whole descendant subtree and filtering to favorites.
func (s *Service) ListTerms(ctx context.Context, in ListTermsInput) ([]*models.Term, error) {
	keys := []string{in.CategoryKey}
	if in.IncludeDescendants {
		snapshot, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if !snapshot.Contains(in.CategoryKey) {
			return nil, apperrors.NotFound("category", in.CategoryKey)
		}
		keys = append(keys, tree.Descendants(snapshot, in.CategoryKey)...)
	} else if _, err := s.categories.Get(ctx, in.CategoryKey); err != nil {
		return nil, err
	}

	var terms []*models.Term
	for _, key := range keys {
		batch, err := s.terms.ListByCategory(ctx, key)
		if err != nil {
			return nil, err
		}
		for _, term := range batch {
			if in.FavoritesOnly && !term.IsFavorite {
				continue
			}
			terms = append(terms, term)
		}
	}
	return terms, nil
}
