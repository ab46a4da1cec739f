// Package review deals flashcard review sessions from the category tree and
// feeds graded answers into the activity log.
package review

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-study/kotoba-api/internal/apperrors"
	"github.com/kotoba-study/kotoba-api/internal/models"
	"github.com/kotoba-study/kotoba-api/internal/services/activity"
	"github.com/kotoba-study/kotoba-api/internal/services/catalog"
	"go.uber.org/zap"
)

// DefaultSessionSize caps a session when the caller does not ask for a limit.
const DefaultSessionSize = 20

// Service deals review sessions. Sessions are stateless: the server hands out
// cards and each graded answer is logged independently.
type Service struct {
	catalog  *catalog.Service
	activity *activity.Service
	logger   *zap.Logger
	rng      *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithRand overrides the shuffle source. Used by tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// NewService creates a review service.
func NewService(catalogSvc *catalog.Service, activitySvc *activity.Service, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		catalog:  catalogSvc,
		activity: activitySvc,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Card is one flashcard dealt into a session.
type Card struct {
	TermID  uuid.UUID `json:"term_id"`
	Term    string    `json:"term"`
	Meaning string    `json:"meaning"`
	Example string    `json:"example,omitempty"`
}

// Session is a dealt review session.
type Session struct {
	ID          uuid.UUID `json:"id"`
	CategoryKey string    `json:"category_key"`
	Cards       []Card    `json:"cards"`
}

// StartInput selects the terms for a session.
type StartInput struct {
	CategoryKey        string
	IncludeDescendants bool
	FavoritesOnly      bool
	Limit              int
}

// Start deals a shuffled session of up to Limit cards from the category
// (optionally the whole subtree).
func (s *Service) Start(ctx context.Context, in StartInput) (*Session, error) {
	if in.Limit <= 0 {
		in.Limit = DefaultSessionSize
	}

	terms, err := s.catalog.ListTerms(ctx, catalog.ListTermsInput{
		CategoryKey:        in.CategoryKey,
		IncludeDescendants: in.IncludeDescendants,
		FavoritesOnly:      in.FavoritesOnly,
	})
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, apperrors.Validationf("category_key", "no terms available for review")
	}

	s.rng.Shuffle(len(terms), func(i, j int) {
		terms[i], terms[j] = terms[j], terms[i]
	})
	if len(terms) > in.Limit {
		terms = terms[:in.Limit]
	}

	cards := make([]Card, 0, len(terms))
	for _, term := range terms {
		cards = append(cards, Card{
			TermID:  term.ID,
			Term:    term.Text,
			Meaning: term.Meaning,
			Example: term.Example,
		})
	}

	session := &Session{
		ID:          uuid.New(),
		CategoryKey: in.CategoryKey,
		Cards:       cards,
	}
	s.logger.Info("review_session_started",
		zap.String("session_id", session.ID.String()),
		zap.String("category", in.CategoryKey),
		zap.Int("cards", len(cards)),
	)
	return session, nil
}

// SubmitInput grades one card.
type SubmitInput struct {
	TermID  uuid.UUID
	Correct bool
}

// Submit records a graded answer as a review activity log against the term's
// category. A PartialFailure from the aggregator passes through with the log.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.ActivityLog, error) {
	term, err := s.catalog.GetTerm(ctx, in.TermID)
	if err != nil {
		return nil, err
	}

	return s.activity.LogActivity(ctx, activity.LogInput{
		Type:        models.ActivityReview,
		CategoryKey: term.CategoryKey,
		Review: &models.ReviewPayload{
			TermID:  term.ID,
			Correct: in.Correct,
		},
	})
}
