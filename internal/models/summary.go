package models

import (
	"math"
	"time"
)

// CategoryActivity is the per-category slice of a daily summary.
type CategoryActivity struct {
	StudyTime      int `json:"study_time"`
	TermsAdded     int `json:"terms_added"`
	TermsReviewed  int `json:"terms_reviewed"`
	CorrectCount   int `json:"correct_count"`
	IncorrectCount int `json:"incorrect_count"`
}

// DailySummary is the derived per-day rollup of the activity log, one record
// per calendar date. It is rebuildable from the log (see the admin rebuild
// command); the overall totals always equal the sums over ByCategory, and
// CorrectRate is computed from the day-level correct/incorrect pool.
type DailySummary struct {
	Date           string                       `json:"date"`
	TotalStudyTime int                          `json:"total_study_time"`
	TermsAdded     int                          `json:"terms_added"`
	TermsReviewed  int                          `json:"terms_reviewed"`
	CorrectCount   int                          `json:"correct_count"`
	IncorrectCount int                          `json:"incorrect_count"`
	CorrectRate    int                          `json:"correct_rate"`
	ByCategory     map[string]*CategoryActivity `json:"by_category"`
	UpdatedAt      time.Time                    `json:"updated_at"`
}

// NewDailySummary returns a zeroed summary for the given date.
func NewDailySummary(date string) *DailySummary {
	return &DailySummary{
		Date:       date,
		ByCategory: make(map[string]*CategoryActivity),
	}
}

// Category returns the per-category entry, creating a zeroed one if absent.
func (s *DailySummary) Category(key string) *CategoryActivity {
	if s.ByCategory == nil {
		s.ByCategory = make(map[string]*CategoryActivity)
	}
	entry, ok := s.ByCategory[key]
	if !ok {
		entry = &CategoryActivity{}
		s.ByCategory[key] = entry
	}
	return entry
}

// Apply folds one activity log into the summary. The overall correct rate is
// recomputed from the day-level pool after every review.
func (s *DailySummary) Apply(log *ActivityLog) {
	entry := s.Category(log.CategoryKey)

	switch log.Type {
	case ActivityAddTerm:
		entry.TermsAdded++
		s.TermsAdded++
	case ActivityStudy:
		if log.Study != nil {
			entry.StudyTime += log.Study.DurationMinutes
			s.TotalStudyTime += log.Study.DurationMinutes
		}
	case ActivityReview:
		entry.TermsReviewed++
		s.TermsReviewed++
		if log.Review != nil && log.Review.Correct {
			entry.CorrectCount++
			s.CorrectCount++
		} else {
			entry.IncorrectCount++
			s.IncorrectCount++
		}
		s.CorrectRate = correctRate(s.CorrectCount, s.IncorrectCount)
	}
}

// correctRate returns round(100 * correct / (correct + incorrect)), or 0 when
// nothing has been reviewed.
func correctRate(correct, incorrect int) int {
	total := correct + incorrect
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
