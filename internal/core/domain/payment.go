package domain

import "time"

// PaymentStatus represents the state of a plan purchase.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentSucceeded, PaymentFailed},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PlanOffer is a purchasable plan.
type PlanOffer struct {
	Code        string
	Plan        Plan
	AmountCents int64
	Currency    string
	PeriodDays  int
}

// Plans is the catalog of purchasable plans keyed by code.
var Plans = map[string]PlanOffer{
	"pro_monthly": {Code: "pro_monthly", Plan: PlanPro, AmountCents: 999, Currency: "USD", PeriodDays: 30},
	"pro_yearly":  {Code: "pro_yearly", Plan: PlanPro, AmountCents: 9900, Currency: "USD", PeriodDays: 365},
}

// Payment records a plan purchase by a user.
type Payment struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	PlanCode       string        `json:"plan_code"`
	AmountCents    int64         `json:"amount_cents"`
	Currency       string        `json:"currency"`
	Status         PaymentStatus `json:"status"`
	Reference      string        `json:"reference"`
	IdempotencyKey string        `json:"-"`
	CreatedAt      time.Time     `json:"created_at"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`
}
