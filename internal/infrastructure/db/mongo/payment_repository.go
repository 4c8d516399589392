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
)

const collectionPayments = "payments"

// PaymentRepository implements ports.PaymentRepository using MongoDB.
type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

type paymentDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         string             `bson:"user_id"`
	PlanCode       string             `bson:"plan_code"`
	AmountCents    int64              `bson:"amount_cents"`
	Currency       string             `bson:"currency"`
	Status         string             `bson:"status"`
	Reference      string             `bson:"reference"`
	IdempotencyKey string             `bson:"idempotency_key,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	PaidAt         *time.Time         `bson:"paid_at,omitempty"`
}

func (d *paymentDoc) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:             d.ID.Hex(),
		UserID:         d.UserID,
		PlanCode:       d.PlanCode,
		AmountCents:    d.AmountCents,
		Currency:       d.Currency,
		Status:         domain.PaymentStatus(d.Status),
		Reference:      d.Reference,
		IdempotencyKey: d.IdempotencyKey,
		CreatedAt:      d.CreatedAt.UTC(),
		PaidAt:         d.PaidAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := paymentDoc{
		UserID:         p.UserID,
		PlanCode:       p.PlanCode,
		AmountCents:    p.AmountCents,
		Currency:       p.Currency,
		Status:         string(p.Status),
		Reference:      p.Reference,
		IdempotencyKey: p.IdempotencyKey,
		CreatedAt:      p.CreatedAt.UTC(),
		PaidAt:         p.PaidAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc paymentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err, domain.ErrPaymentNotFound)
	}
	return doc.toDomain(), nil
}

// ListByUser returns a user's payments, newest first.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	var docs []paymentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	out := make([]*domain.Payment, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// UpdateStatus moves a payment to status. Only pending payments can change,
// so a concurrent verification cannot apply twice.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, paidAt *time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"status": string(status)}
	if paidAt != nil {
		set["paid_at"] = paidAt.UTC()
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(domain.PaymentPending)},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update payment: %w (payment is no longer pending)", domain.ErrInvalidTransition)
	}
	return nil
}

func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}
