package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/ports"
)

const collectionInterviews = "interviews"

// InterviewRepository implements ports.InterviewRepository using MongoDB.
type InterviewRepository struct {
	col *mongo.Collection
}

func NewInterviewRepository(db *mongo.Database) *InterviewRepository {
	return &InterviewRepository{col: db.Collection(collectionInterviews)}
}

type interviewDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Title       string             `bson:"title"`
	JobRole     string             `bson:"job_role"`
	Type        string             `bson:"type"`
	Difficulty  string             `bson:"difficulty"`
	Questions   []domain.Question  `bson:"questions"`
	Status      string             `bson:"status"`
	Notes       string             `bson:"notes,omitempty"`
	Score       *float64           `bson:"score,omitempty"`
	Feedback    string             `bson:"feedback,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
	StartedAt   *time.Time         `bson:"started_at,omitempty"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty"`
}

func newInterviewDoc(iv *domain.Interview) interviewDoc {
	return interviewDoc{
		UserID:      iv.UserID,
		Title:       iv.Title,
		JobRole:     iv.JobRole,
		Type:        iv.Type,
		Difficulty:  iv.Difficulty,
		Questions:   iv.Questions,
		Status:      string(iv.Status),
		Notes:       iv.Notes,
		Score:       iv.Score,
		Feedback:    iv.Feedback,
		CreatedAt:   iv.CreatedAt.UTC(),
		UpdatedAt:   iv.UpdatedAt.UTC(),
		StartedAt:   iv.StartedAt,
		CompletedAt: iv.CompletedAt,
	}
}

func (d *interviewDoc) toDomain() *domain.Interview {
	questions := d.Questions
	if questions == nil {
		questions = []domain.Question{}
	}
	return &domain.Interview{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		JobRole:     d.JobRole,
		Type:        d.Type,
		Difficulty:  d.Difficulty,
		Questions:   questions,
		Status:      domain.InterviewStatus(d.Status),
		Notes:       d.Notes,
		Score:       d.Score,
		Feedback:    d.Feedback,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
		StartedAt:   d.StartedAt,
		CompletedAt: d.CompletedAt,
	}
}

func (r *InterviewRepository) Create(ctx context.Context, iv *domain.Interview) (*domain.Interview, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newInterviewDoc(iv)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert interview: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *InterviewRepository) FindByID(ctx context.Context, id string) (*domain.Interview, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc interviewDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err, domain.ErrInterviewNotFound)
	}
	return doc.toDomain(), nil
}

// List returns interviews matching filter, newest first.
func (r *InterviewRepository) List(ctx context.Context, f ports.ListInterviewsFilter) ([]*domain.Interview, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": f.UserID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	var docs []interviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}

	out := make([]*domain.Interview, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *InterviewRepository) Update(ctx context.Context, iv *domain.Interview) error {
	oid, err := objectID(iv.ID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newInterviewDoc(iv)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update interview: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInterviewNotFound
	}
	return nil
}

func (r *InterviewRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete interview: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrInterviewNotFound
	}
	return nil
}

// EnsureIndexes creates the per-user listing index.
func (r *InterviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
	})
	return err
}
