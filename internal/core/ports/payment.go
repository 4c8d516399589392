package ports

import (
	"context"
	"time"

	"github.com/prepinter/prepinter/internal/core/domain"
)

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Payment, error)
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, paidAt *time.Time) error
}

// IdempotencyStore remembers the outcome of requests that carried an
// Idempotency-Key.
type IdempotencyStore interface {
	// Reserve claims key within scope. It returns the value remembered by an
	// earlier request, or reserved=true when this request is the first.
	Reserve(ctx context.Context, scope, key string) (existing string, reserved bool, err error)
	// Remember stores value as the outcome of key within scope.
	Remember(ctx context.Context, scope, key, value string) error
	// Release drops a reservation that did not complete.
	Release(ctx context.Context, scope, key string) error
}

// CreatePaymentInput carries the fields of a new plan purchase.
type CreatePaymentInput struct {
	UserID         string
	PlanCode       string
	IdempotencyKey string
}

// PaymentResult is returned when a payment is created.
type PaymentResult struct {
	Payment *domain.Payment
	// AlreadyExisted is true when the Idempotency-Key matched an earlier payment.
	AlreadyExisted bool
}

// PaymentService covers plan purchases.
type PaymentService interface {
	Create(ctx context.Context, in CreatePaymentInput) (*PaymentResult, error)
	Verify(ctx context.Context, who *domain.Identity, paymentID, reference string) (*domain.Payment, error)
	Get(ctx context.Context, who *domain.Identity, paymentID string) (*domain.Payment, error)
	List(ctx context.Context, who *domain.Identity) ([]*domain.Payment, error)
}
