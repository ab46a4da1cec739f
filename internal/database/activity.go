package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/kotoba-study/kotoba-api/internal/apperrors"
	"github.com/kotoba-study/kotoba-api/internal/models"
	"github.com/kotoba-study/kotoba-api/internal/store"
)

// ActivityLogRepository handles the append-only activity log. There are no
// update or delete operations on purpose.
type ActivityLogRepository struct {
	store store.Store
}

// NewActivityLogRepository creates a new activity log repository.
func NewActivityLogRepository(s store.Store) *ActivityLogRepository {
	return &ActivityLogRepository{store: s}
}

// Create appends one activity log record.
func (r *ActivityLogRepository) Create(ctx context.Context, log *models.ActivityLog) error {
	if err := r.store.Set(ctx, ActivityLogsCollection, log.ID.String(), activityToDoc(log)); err != nil {
		return apperrors.Store("create activity log", err)
	}
	return nil
}

// ListByDate returns all logs for one calendar date, most recent first.
func (r *ActivityLogRepository) ListByDate(ctx context.Context, date string) ([]*models.ActivityLog, error) {
	return r.list(ctx, store.Query{
		Filters: []store.Filter{{Field: "date", Op: "==", Value: date}},
		Orders:  []store.Order{{Field: "logged_at", Desc: true}},
	})
}

// ListByDateRange returns all logs in the inclusive date range, newest date
// first, most recent timestamp first within a date.
func (r *ActivityLogRepository) ListByDateRange(ctx context.Context, startDate, endDate string) ([]*models.ActivityLog, error) {
	return r.list(ctx, store.Query{
		Filters: []store.Filter{
			{Field: "date", Op: ">=", Value: startDate},
			{Field: "date", Op: "<=", Value: endDate},
		},
		Orders: []store.Order{
			{Field: "date", Desc: true},
			{Field: "logged_at", Desc: true},
		},
	})
}

// ListAll returns the whole log in event order. Used by the summary rebuild.
func (r *ActivityLogRepository) ListAll(ctx context.Context) ([]*models.ActivityLog, error) {
	return r.list(ctx, store.Query{
		Orders: []store.Order{{Field: "logged_at"}},
	})
}

func (r *ActivityLogRepository) list(ctx context.Context, q store.Query) ([]*models.ActivityLog, error) {
	records, err := r.store.Query(ctx, ActivityLogsCollection, q)
	if err != nil {
		return nil, apperrors.Store("list activity logs", err)
	}

	logs := make([]*models.ActivityLog, 0, len(records))
	for _, rec := range records {
		id, err := uuid.Parse(rec.Key)
		if err != nil {
			continue
		}
		logs = append(logs, activityFromDoc(id, rec.Data))
	}
	return logs, nil
}

func activityToDoc(l *models.ActivityLog) store.Document {
	doc := store.Document{
		"type":         string(l.Type),
		"category_key": l.CategoryKey,
		"date":         l.Date,
		"logged_at":    l.LoggedAt,
	}
	if l.Study != nil {
		doc["study"] = map[string]any{
			"duration_minutes": l.Study.DurationMinutes,
		}
	}
	if l.Review != nil {
		doc["review"] = map[string]any{
			"term_id": l.Review.TermID.String(),
			"correct": l.Review.Correct,
		}
	}
	return doc
}

func activityFromDoc(id uuid.UUID, doc store.Document) *models.ActivityLog {
	log := &models.ActivityLog{
		ID:          id,
		Type:        models.ActivityType(docString(doc, "type")),
		CategoryKey: docString(doc, "category_key"),
		Date:        docString(doc, "date"),
		LoggedAt:    docTime(doc, "logged_at"),
	}
	if sub, ok := docSub(doc, "study"); ok {
		log.Study = &models.StudyPayload{
			DurationMinutes: docInt(sub, "duration_minutes"),
		}
	}
	if sub, ok := docSub(doc, "review"); ok {
		termID, _ := uuid.Parse(docString(sub, "term_id"))
		log.Review = &models.ReviewPayload{
			TermID:  termID,
			Correct: docBool(sub, "correct"),
		}
	}
	return log
}
