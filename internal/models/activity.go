package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType identifies the kind of a tracked study event
type ActivityType string

const (
	ActivityAddTerm ActivityType = "add_term"
	ActivityStudy   ActivityType = "study"
	ActivityReview  ActivityType = "review"
)

// DateLayout is the calendar-date key format used by activity logs and
// daily summaries.
const DateLayout = "2006-01-02"

// DateKey derives the calendar-date key for a timestamp.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// StudyPayload carries the extra data of a "study" event.
type StudyPayload struct {
	DurationMinutes int `json:"duration_minutes"`
}

// ReviewPayload carries the extra data of a "review" event.
type ReviewPayload struct {
	TermID  uuid.UUID `json:"term_id"`
	Correct bool      `json:"correct"`
}

// ActivityLog is an append-only study event. Exactly one payload pointer is
// set, matching Type: Study for "study", Review for "review", neither for
// "add_term". Logs are never updated or deleted by normal operation.
type ActivityLog struct {
	ID          uuid.UUID      `json:"id"`
	Type        ActivityType   `json:"type"`
	CategoryKey string         `json:"category_key"`
	Date        string         `json:"date"`
	LoggedAt    time.Time      `json:"logged_at"`
	Study       *StudyPayload  `json:"study,omitempty"`
	Review      *ReviewPayload `json:"review,omitempty"`
}
