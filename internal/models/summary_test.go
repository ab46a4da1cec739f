package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDateKey(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 11, 2, 23, 59, 59, 0, time.UTC)
	if got := DateKey(at); got != "2025-11-02" {
		t.Errorf("DateKey = %q, want 2025-11-02", got)
	}
}

func TestApplyAddTerm(t *testing.T) {
	t.Parallel()

	s := NewDailySummary("2025-11-02")
	s.Apply(&ActivityLog{Type: ActivityAddTerm, CategoryKey: "vocab"})
	s.Apply(&ActivityLog{Type: ActivityAddTerm, CategoryKey: "vocab"})
	s.Apply(&ActivityLog{Type: ActivityAddTerm, CategoryKey: "grammar"})

	if s.TermsAdded != 3 {
		t.Errorf("TermsAdded = %d, want 3", s.TermsAdded)
	}
	if s.ByCategory["vocab"].TermsAdded != 2 || s.ByCategory["grammar"].TermsAdded != 1 {
		t.Errorf("per-category slices = %+v", s.ByCategory)
	}
	if s.CorrectRate != 0 {
		t.Errorf("CorrectRate = %d before any review, want 0", s.CorrectRate)
	}
}

func TestApplyStudy(t *testing.T) {
	t.Parallel()

	s := NewDailySummary("2025-11-02")
	s.Apply(&ActivityLog{Type: ActivityStudy, CategoryKey: "vocab", Study: &StudyPayload{DurationMinutes: 30}})
	s.Apply(&ActivityLog{Type: ActivityStudy, CategoryKey: "vocab", Study: &StudyPayload{DurationMinutes: 15}})

	if s.TotalStudyTime != 45 {
		t.Errorf("TotalStudyTime = %d, want 45", s.TotalStudyTime)
	}
	if s.ByCategory["vocab"].StudyTime != 45 {
		t.Errorf("vocab StudyTime = %d, want 45", s.ByCategory["vocab"].StudyTime)
	}
}

func TestApplyReviewRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		results  []bool
		wantRate int
	}{
		{name: "all correct", results: []bool{true, true}, wantRate: 100},
		{name: "all incorrect", results: []bool{false}, wantRate: 0},
		{name: "three of four", results: []bool{true, true, true, false}, wantRate: 75},
		{name: "one of three rounds", results: []bool{true, false, false}, wantRate: 33},
		{name: "two of three rounds up", results: []bool{true, true, false}, wantRate: 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewDailySummary("2025-11-02")
			for _, correct := range tt.results {
				s.Apply(&ActivityLog{
					Type:        ActivityReview,
					CategoryKey: "vocab",
					Review:      &ReviewPayload{TermID: uuid.New(), Correct: correct},
				})
			}
			if s.CorrectRate != tt.wantRate {
				t.Errorf("CorrectRate = %d, want %d", s.CorrectRate, tt.wantRate)
			}
			if s.TermsReviewed != len(tt.results) {
				t.Errorf("TermsReviewed = %d, want %d", s.TermsReviewed, len(tt.results))
			}
		})
	}
}

func TestApplyReviewDayLevelPool(t *testing.T) {
	t.Parallel()

	// The rate pools across categories: 1/1 in one category and 0/1 in
	// another is 50%, not an average of the per-category rates.
	s := NewDailySummary("2025-11-02")
	s.Apply(&ActivityLog{Type: ActivityReview, CategoryKey: "a", Review: &ReviewPayload{Correct: true}})
	s.Apply(&ActivityLog{Type: ActivityReview, CategoryKey: "b", Review: &ReviewPayload{Correct: false}})

	if s.CorrectRate != 50 {
		t.Errorf("CorrectRate = %d, want 50", s.CorrectRate)
	}
	if s.ByCategory["a"].CorrectCount != 1 || s.ByCategory["b"].IncorrectCount != 1 {
		t.Errorf("per-category pools = %+v", s.ByCategory)
	}
}
