package ports

import (
	"context"

	"github.com/prepinter/prepinter/internal/core/domain"
)

// ActivityRepository persists analytics events.
type ActivityRepository interface {
	Insert(ctx context.Context, e *domain.ActivityEvent) error
	// ListByUser returns the most recent events first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.ActivityEvent, error)
	CountByType(ctx context.Context) (map[domain.ActivityType]int64, error)
}

// ActivityPublisher hands activity events to asynchronous processing.
// Publish never blocks the caller on persistence.
type ActivityPublisher interface {
	Publish(e domain.ActivityEvent)
}

// AnalyticsService records activity and computes performance views.
type AnalyticsService interface {
	Record(ctx context.Context, e domain.ActivityEvent) error
	Summary(ctx context.Context, userID string) (*domain.PerformanceSummary, error)
	Activity(ctx context.Context, userID string, limit int) ([]*domain.ActivityEvent, error)
	Overview(ctx context.Context) (map[domain.ActivityType]int64, error)
}
