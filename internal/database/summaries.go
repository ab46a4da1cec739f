package database

import (
	"context"
	"errors"
	"time"

	"github.com/kotoba-study/kotoba-api/internal/apperrors"
	"github.com/kotoba-study/kotoba-api/internal/models"
	"github.com/kotoba-study/kotoba-api/internal/store"
)

// DailySummaryRepository handles the derived per-day rollup documents, keyed
// by calendar date.
type DailySummaryRepository struct {
	store store.Store
}

// NewDailySummaryRepository creates a new daily summary repository.
func NewDailySummaryRepository(s store.Store) *DailySummaryRepository {
	return &DailySummaryRepository{store: s}
}

// Get retrieves the summary for one date. Absent means no activity was ever
// recorded for that date.
func (r *DailySummaryRepository) Get(ctx context.Context, date string) (*models.DailySummary, error) {
	doc, err := r.store.Get(ctx, DailySummariesCollection, date)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("daily summary", date)
	}
	if err != nil {
		return nil, apperrors.Store("get daily summary", err)
	}
	return summaryFromDoc(date, doc), nil
}

// Set writes the summary back as a full replace. This is the read-modify-write
// half of the aggregation cycle; see the aggregator for the concurrency
// contract.
func (r *DailySummaryRepository) Set(ctx context.Context, summary *models.DailySummary) error {
	summary.UpdatedAt = time.Now()
	if err := r.store.Set(ctx, DailySummariesCollection, summary.Date, summaryToDoc(summary)); err != nil {
		return apperrors.Store("set daily summary", err)
	}
	return nil
}

// List returns every stored summary ordered by date.
func (r *DailySummaryRepository) List(ctx context.Context) ([]*models.DailySummary, error) {
	records, err := r.store.Query(ctx, DailySummariesCollection, store.Query{
		Orders: []store.Order{{Field: "date"}},
	})
	if err != nil {
		return nil, apperrors.Store("list daily summaries", err)
	}

	summaries := make([]*models.DailySummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, summaryFromDoc(rec.Key, rec.Data))
	}
	return summaries, nil
}

// Delete removes the summary for one date. Only the rebuild command uses this,
// to drop summaries whose dates no longer appear in the log.
func (r *DailySummaryRepository) Delete(ctx context.Context, date string) error {
	if err := r.store.Delete(ctx, DailySummariesCollection, date); err != nil {
		return apperrors.Store("delete daily summary", err)
	}
	return nil
}

func summaryToDoc(s *models.DailySummary) store.Document {
	byCategory := make(map[string]any, len(s.ByCategory))
	for key, entry := range s.ByCategory {
		byCategory[key] = map[string]any{
			"study_time":      entry.StudyTime,
			"terms_added":     entry.TermsAdded,
			"terms_reviewed":  entry.TermsReviewed,
			"correct_count":   entry.CorrectCount,
			"incorrect_count": entry.IncorrectCount,
		}
	}
	return store.Document{
		"date":             s.Date,
		"total_study_time": s.TotalStudyTime,
		"terms_added":      s.TermsAdded,
		"terms_reviewed":   s.TermsReviewed,
		"correct_count":    s.CorrectCount,
		"incorrect_count":  s.IncorrectCount,
		"correct_rate":     s.CorrectRate,
		"by_category":      byCategory,
		"updated_at":       s.UpdatedAt,
	}
}

func summaryFromDoc(date string, doc store.Document) *models.DailySummary {
	s := &models.DailySummary{
		Date:           date,
		TotalStudyTime: docInt(doc, "total_study_time"),
		TermsAdded:     docInt(doc, "terms_added"),
		TermsReviewed:  docInt(doc, "terms_reviewed"),
		CorrectCount:   docInt(doc, "correct_count"),
		IncorrectCount: docInt(doc, "incorrect_count"),
		CorrectRate:    docInt(doc, "correct_rate"),
		ByCategory:     make(map[string]*models.CategoryActivity),
		UpdatedAt:      docTime(doc, "updated_at"),
	}
	if byCategory, ok := docSub(doc, "by_category"); ok {
		for key := range byCategory {
			entry, ok := docSub(byCategory, key)
			if !ok {
				continue
			}
			s.ByCategory[key] = &models.CategoryActivity{
				StudyTime:      docInt(entry, "study_time"),
				TermsAdded:     docInt(entry, "terms_added"),
				TermsReviewed:  docInt(entry, "terms_reviewed"),
				CorrectCount:   docInt(entry, "correct_count"),
				IncorrectCount: docInt(entry, "incorrect_count"),
			}
		}
	}
	return s
}
