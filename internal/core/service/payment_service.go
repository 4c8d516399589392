package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prepinter/prepinter/internal/api/metrics"
	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/ports"
)

const idempotencyScope = "payments"

type PaymentService struct {
	payments    ports.PaymentRepository
	users       ports.UserRepository
	idempotency ports.IdempotencyStore
	activity    ports.ActivityPublisher
	logger      zerolog.Logger
}

func NewPaymentService(
	payments ports.PaymentRepository,
	users ports.UserRepository,
	idempotency ports.IdempotencyStore,
	activity ports.ActivityPublisher,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		payments:    payments,
		users:       users,
		idempotency: idempotency,
		activity:    activity,
		logger:      logger,
	}
}

// Create opens a pending payment for a plan. If an idempotency key is
// provided and already seen for this user, the earlier payment is returned
// without side effects.
func (s *PaymentService) Create(ctx context.Context, in ports.CreatePaymentInput) (*ports.PaymentResult, error) {
	offer, ok := domain.Plans[in.PlanCode]
	if !ok {
		return nil, domain.FieldError("plan", "plan must be one of: pro_monthly pro_yearly")
	}

	scope := idempotencyScope + ":" + in.UserID
	if in.IdempotencyKey != "" && s.idempotency != nil {
		existingID, reserved, err := s.idempotency.Reserve(ctx, scope, in.IdempotencyKey)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency check failed, processing anyway")
		case !reserved && existingID != "":
			existing, err := s.payments.FindByID(ctx, existingID)
			if err != nil {
				return nil, fmt.Errorf("idempotent replay of %s: %w", existingID, err)
			}
			if existing.UserID != in.UserID {
				return nil, domain.ErrForbidden
			}
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("payment_id", existing.ID).Msg("idempotent replay")
			return &ports.PaymentResult{Payment: existing, AlreadyExisted: true}, nil
		case !reserved:
			return nil, domain.ErrRequestInProgress
		}
	}

	created, err := s.payments.Create(ctx, &domain.Payment{
		UserID:         in.UserID,
		PlanCode:       offer.Code,
		AmountCents:    offer.AmountCents,
		Currency:       offer.Currency,
		Status:         domain.PaymentPending,
		Reference:      uuid.NewString(),
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		if in.IdempotencyKey != "" && s.idempotency != nil {
			if relErr := s.idempotency.Release(ctx, scope, in.IdempotencyKey); relErr != nil {
				s.logger.Warn().Err(relErr).Msg("failed to release idempotency key")
			}
		}
		s.logger.Error().Err(err).Msg("failed to create payment")
		return nil, fmt.Errorf("create payment: %w", err)
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, scope, in.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("payment_id", created.ID).Msg("failed to store idempotency key")
		}
	}

	metrics.PaymentsTotal.WithLabelValues(string(domain.PaymentPending)).Inc()
	s.logger.Info().Str("payment_id", created.ID).Str("user_id", in.UserID).Str("plan", offer.Code).Msg("payment created")
	return &ports.PaymentResult{Payment: created}, nil
}

// Verify confirms a pending payment when reference matches, then upgrades
// the user's plan.
func (s *PaymentService) Verify(ctx context.Context, who *domain.Identity, paymentID, reference string) (*domain.Payment, error) {
	p, err := s.owned(ctx, who, paymentID)
	if err != nil {
		return nil, err
	}
	if reference == "" {
		return nil, domain.FieldError("reference", "reference is required")
	}
	if p.Reference != reference {
		// The payment stays pending so the owner can retry.
		return nil, domain.FieldError("reference", "reference does not match payment")
	}

	offer := domain.Plans[p.PlanCode]
	if p.Status == domain.PaymentSucceeded {
		// SetPlan is idempotent; repeating it repairs an upgrade that failed
		// after the status change.
		if err := s.users.SetPlan(ctx, p.UserID, offer.Plan); err != nil {
			return nil, fmt.Errorf("verify payment: upgrade plan: %w", err)
		}
		return p, nil
	}
	if !p.Status.CanTransitionTo(domain.PaymentSucceeded) {
		return nil, fmt.Errorf("verify payment: %w (payment is %s)", domain.ErrInvalidTransition, p.Status)
	}

	now := time.Now().UTC()
	if err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentSucceeded, &now); err != nil {
		return nil, fmt.Errorf("verify payment: %w", err)
	}
	p.Status = domain.PaymentSucceeded
	p.PaidAt = &now

	if err := s.users.SetPlan(ctx, p.UserID, offer.Plan); err != nil {
		return nil, fmt.Errorf("verify payment: upgrade plan: %w", err)
	}

	metrics.PaymentsTotal.WithLabelValues(string(domain.PaymentSucceeded)).Inc()
	if s.activity != nil {
		s.activity.Publish(domain.ActivityEvent{
			UserID:     p.UserID,
			Type:       domain.ActivityPaymentSucceeded,
			ResourceID: p.ID,
			Metadata:   map[string]string{"plan": p.PlanCode},
			OccurredAt: now,
		})
	}
	s.logger.Info().Str("payment_id", p.ID).Str("user_id", p.UserID).Msg("payment verified")
	return p, nil
}

func (s *PaymentService) Get(ctx context.Context, who *domain.Identity, paymentID string) (*domain.Payment, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !who.CanAccess(p.UserID) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (s *PaymentService) List(ctx context.Context, who *domain.Identity) ([]*domain.Payment, error) {
	return s.payments.ListByUser(ctx, who.UserID)
}

func (s *PaymentService) owned(ctx context.Context, who *domain.Identity, paymentID string) (*domain.Payment, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	if p.UserID != who.UserID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}
