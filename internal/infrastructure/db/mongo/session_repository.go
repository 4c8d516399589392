package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/prepinter/prepinter/internal/core/domain"
)

const collectionSessions = "interview_sessions"

// SessionRepository stores interview sessions. Session IDs are UUIDs
// generated by the service, so they are used as _id directly.
type SessionRepository struct {
	col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{col: db.Collection(collectionSessions)}
}

type sessionDoc struct {
	ID          string          `bson:"_id"`
	InterviewID string          `bson:"interview_id"`
	UserID      string          `bson:"user_id"`
	Status      string          `bson:"status"`
	Answers     []domain.Answer `bson:"answers"`
	StartedAt   time.Time       `bson:"started_at"`
	EndedAt     *time.Time      `bson:"ended_at,omitempty"`
}

func newSessionDoc(s *domain.InterviewSession) sessionDoc {
	return sessionDoc{
		ID:          s.ID,
		InterviewID: s.InterviewID,
		UserID:      s.UserID,
		Status:      string(s.Status),
		Answers:     s.Answers,
		StartedAt:   s.StartedAt.UTC(),
		EndedAt:     s.EndedAt,
	}
}

func (d *sessionDoc) toDomain() *domain.InterviewSession {
	answers := d.Answers
	if answers == nil {
		answers = []domain.Answer{}
	}
	return &domain.InterviewSession{
		ID:          d.ID,
		InterviewID: d.InterviewID,
		UserID:      d.UserID,
		Status:      domain.SessionStatus(d.Status),
		Answers:     answers,
		StartedAt:   d.StartedAt.UTC(),
		EndedAt:     d.EndedAt,
	}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.InterviewSession) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, newSessionDoc(s)); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*domain.InterviewSession, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc sessionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, notFound(err, domain.ErrSessionNotFound)
	}
	return doc.toDomain(), nil
}

func (r *SessionRepository) Update(ctx context.Context, s *domain.InterviewSession) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.ID}, newSessionDoc(s))
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "interview_id", Value: 1}},
	})
	return err
}
