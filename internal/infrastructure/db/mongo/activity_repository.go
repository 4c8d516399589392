package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prepinter/prepinter/internal/core/domain"
)

const collectionActivity = "activity_events"

// ActivityRepository persists the append-only analytics stream.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

type activityDoc struct {
	UserID      string            `bson:"user_id"`
	Type        string            `bson:"type"`
	ResourceID  string            `bson:"resource_id,omitempty"`
	Metadata    map[string]string `bson:"metadata,omitempty"`
	OccurredAt  time.Time         `bson:"occurred_at"`
	ProcessedAt time.Time         `bson:"processed_at"`
}

func (r *ActivityRepository) Insert(ctx context.Context, e *domain.ActivityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, activityDoc{
		UserID:      e.UserID,
		Type:        string(e.Type),
		ResourceID:  e.ResourceID,
		Metadata:    e.Metadata,
		OccurredAt:  e.OccurredAt.UTC(),
		ProcessedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListByUser returns the most recent events of userID first.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.ActivityEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	var docs []activityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	out := make([]*domain.ActivityEvent, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.ActivityEvent{
			UserID:     d.UserID,
			Type:       domain.ActivityType(d.Type),
			ResourceID: d.ResourceID,
			Metadata:   d.Metadata,
			OccurredAt: d.OccurredAt.UTC(),
		})
	}
	return out, nil
}

// CountByType aggregates event counts across all users.
func (r *ActivityRepository) CountByType(ctx context.Context) (map[domain.ActivityType]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$type"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count activity: %w", err)
	}
	var rows []struct {
		Type  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("count activity: %w", err)
	}

	out := make(map[domain.ActivityType]int64, len(rows))
	for _, row := range rows {
		out[domain.ActivityType(row.Type)] = row.Count
	}
	return out, nil
}

func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	})
	return err
}
