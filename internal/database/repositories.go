package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/kotoba-study/kotoba-api/internal/models"
	"github.com/kotoba-study/kotoba-api/internal/store"
)

// CategoryRepositoryInterface defines the category repository operations.
// The interfaces exist so services can be tested against fakes.
type CategoryRepositoryInterface interface {
	Create(ctx context.Context, category *models.Category) error
	Get(ctx context.Context, key string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Save(ctx context.Context, category *models.Category) error
	SetFavoriteBatch(ctx context.Context, keys []string, favorite bool) (int, error)
	DeleteCascade(ctx context.Context, categoryKeys []string, termIDs []uuid.UUID) error
}

// TermRepositoryInterface defines the term repository operations.
type TermRepositoryInterface interface {
	Create(ctx context.Context, term *models.Term) error
	Get(ctx context.Context, id uuid.UUID) (*models.Term, error)
	Save(ctx context.Context, term *models.Term) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCategory(ctx context.Context, categoryKey string) ([]*models.Term, error)
}

// ActivityLogRepositoryInterface defines the append-only activity log
// operations. Logs are never updated or deleted.
type ActivityLogRepositoryInterface interface {
	Create(ctx context.Context, log *models.ActivityLog) error
	ListByDate(ctx context.Context, date string) ([]*models.ActivityLog, error)
	ListByDateRange(ctx context.Context, startDate, endDate string) ([]*models.ActivityLog, error)
	ListAll(ctx context.Context) ([]*models.ActivityLog, error)
}

// DailySummaryRepositoryInterface defines the daily summary operations.
type DailySummaryRepositoryInterface interface {
	Get(ctx context.Context, date string) (*models.DailySummary, error)
	Set(ctx context.Context, summary *models.DailySummary) error
	List(ctx context.Context) ([]*models.DailySummary, error)
	Delete(ctx context.Context, date string) error
}

// Ensure concrete types implement the interfaces
var (
	_ CategoryRepositoryInterface     = (*CategoryRepository)(nil)
	_ TermRepositoryInterface         = (*TermRepository)(nil)
	_ ActivityLogRepositoryInterface  = (*ActivityLogRepository)(nil)
	_ DailySummaryRepositoryInterface = (*DailySummaryRepository)(nil)
)

// Collection names shared by the repositories and the admin CLI.
const (
	CategoriesCollection     = "categories"
	TermsCollection          = "terms"
	ActivityLogsCollection   = "activity_logs"
	DailySummariesCollection = "daily_summaries"
)

// Repositories bundles the four repositories over one store connection.
type Repositories struct {
	Categories *CategoryRepository
	Terms      *TermRepository
	Logs       *ActivityLogRepository
	Summaries  *DailySummaryRepository
}

// NewRepositories wires all repositories against the given store.
func NewRepositories(s store.Store) *Repositories {
	return &Repositories{
		Categories: NewCategoryRepository(s),
		Terms:      NewTermRepository(s),
		Logs:       NewActivityLogRepository(s),
		Summaries:  NewDailySummaryRepository(s),
	}
}
