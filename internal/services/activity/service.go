// Package activity owns the append-only activity log and the per-day summary
// rollups derived from it.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-study/kotoba-api/internal/apperrors"
	"github.com/kotoba-study/kotoba-api/internal/database"
	"github.com/kotoba-study/kotoba-api/internal/models"
	"go.uber.org/zap"
)

// Service implements the activity aggregator.
//
// Concurrency contract: the summary update is a read-modify-write full
// replace with no transaction or optimistic check. Two logActivity calls
// racing on the same date can both read the same prior summary and each write
// back only their own delta, losing the other's. This matches the product's
// single-client usage; the admin rebuild command recomputes summaries from
// the log when it happens.
type Service struct {
	logs      database.ActivityLogRepositoryInterface
	summaries database.DailySummaryRepositoryInterface
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an activity service.
func NewService(logs database.ActivityLogRepositoryInterface, summaries database.DailySummaryRepositoryInterface, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		logs:      logs,
		summaries: summaries,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LogInput is the input for LogActivity. Exactly one payload pointer must be
// set, matching Type; add_term takes neither.
type LogInput struct {
	Type        models.ActivityType
	CategoryKey string
	Study       *models.StudyPayload
	Review      *models.ReviewPayload
}

// LogActivity appends one activity log and then folds it into the daily
// summary for its date. The two writes are not atomically linked: when the
// log write succeeds but the summary update fails, the log is returned
// together with a PartialFailure so the caller can warn that statistics are
// stale.
func (s *Service) LogActivity(ctx context.Context, in LogInput) (*models.ActivityLog, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	log := &models.ActivityLog{
		ID:          uuid.New(),
		Type:        in.Type,
		CategoryKey: in.CategoryKey,
		Date:        models.DateKey(now),
		LoggedAt:    now,
		Study:       in.Study,
		Review:      in.Review,
	}

	if err := s.logs.Create(ctx, log); err != nil {
		return nil, err
	}

	if err := s.updateDailySummary(ctx, log); err != nil {
		s.logger.Warn("daily_summary_update_failed",
			zap.String("log_id", log.ID.String()),
			zap.String("date", log.Date),
			zap.Error(err),
		)
		return log, apperrors.Partial("activity log write", err)
	}

	s.logger.Info("activity_logged",
		zap.String("id", log.ID.String()),
		zap.String("type", string(log.Type)),
		zap.String("category", log.CategoryKey),
		zap.String("date", log.Date),
	)
	return log, nil
}

// updateDailySummary reads the summary for the log's date (initializing a
// zeroed one on first activity), applies the event delta, and writes the
// result back as a full replace.
func (s *Service) updateDailySummary(ctx context.Context, log *models.ActivityLog) error {
	summary, err := s.summaries.Get(ctx, log.Date)
	if apperrors.IsNotFound(err) {
		summary = models.NewDailySummary(log.Date)
	} else if err != nil {
		return err
	}

	summary.Apply(log)
	return s.summaries.Set(ctx, summary)
}

// FetchLogs returns all logs in the inclusive date range, newest date first,
// most recent timestamp first within a date.
func (s *Service) FetchLogs(ctx context.Context, startDate, endDate string) ([]*models.ActivityLog, error) {
	if err := validateDate("start_date", startDate); err != nil {
		return nil, err
	}
	if err := validateDate("end_date", endDate); err != nil {
		return nil, err
	}
	if endDate < startDate {
		return nil, apperrors.Validationf("end_date", "must not be before start_date")
	}
	return s.logs.ListByDateRange(ctx, startDate, endDate)
}

// FetchLogsByDate returns the logs for one date, most recent first.
func (s *Service) FetchLogsByDate(ctx context.Context, date string) ([]*models.ActivityLog, error) {
	if err := validateDate("date", date); err != nil {
		return nil, err
	}
	return s.logs.ListByDate(ctx, date)
}

// FetchDailySummary returns the summary for one date, or NotFoundError when
// no activity was ever recorded for it.
func (s *Service) FetchDailySummary(ctx context.Context, date string) (*models.DailySummary, error) {
	if err := validateDate("date", date); err != nil {
		return nil, err
	}
	return s.summaries.Get(ctx, date)
}

// RebuildSummaries recomputes every daily summary from the full activity log
// and deletes summaries for dates that no longer appear in it. This is the
// recovery path for the accepted lost-update race. Returns the number of
// dates written.
func (s *Service) RebuildSummaries(ctx context.Context) (int, error) {
	logs, err := s.logs.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	rebuilt := make(map[string]*models.DailySummary)
	for _, log := range logs {
		summary, ok := rebuilt[log.Date]
		if !ok {
			summary = models.NewDailySummary(log.Date)
			rebuilt[log.Date] = summary
		}
		summary.Apply(log)
	}

	existing, err := s.summaries.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, stale := range existing {
		if _, ok := rebuilt[stale.Date]; !ok {
			if err := s.summaries.Delete(ctx, stale.Date); err != nil {
				return 0, err
			}
		}
	}

	for _, summary := range rebuilt {
		if err := s.summaries.Set(ctx, summary); err != nil {
			return 0, err
		}
	}

	s.logger.Info("daily_summaries_rebuilt", zap.Int("dates", len(rebuilt)))
	return len(rebuilt), nil
}

func validateInput(in LogInput) error {
	switch in.Type {
	case models.ActivityAddTerm, models.ActivityStudy, models.ActivityReview:
	default:
		return apperrors.Validationf("type", "unknown activity type %q", string(in.Type))
	}

	if in.CategoryKey == "" {
		return apperrors.Validationf("category_key", "must not be blank")
	}

	switch in.Type {
	case models.ActivityAddTerm:
		if in.Study != nil || in.Review != nil {
			return apperrors.Validationf("payload", "add_term takes no payload")
		}
	case models.ActivityStudy:
		if in.Study == nil || in.Review != nil {
			return apperrors.Validationf("payload", "study requires a study payload")
		}
		if in.Study.DurationMinutes <= 0 {
			return apperrors.Validationf("duration_minutes", "must be positive")
		}
	case models.ActivityReview:
		if in.Review == nil || in.Study != nil {
			return apperrors.Validationf("payload", "review requires a review payload")
		}
	}
	return nil
}

func validateDate(field, value string) error {
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return apperrors.Validationf(field, "must be a %s date", models.DateLayout)
	}
	return nil
}
