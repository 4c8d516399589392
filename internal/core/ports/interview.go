package ports

import (
	"context"

	"github.com/prepinter/prepinter/internal/core/domain"
)

// ListInterviewsFilter narrows a user's interview list.
type ListInterviewsFilter struct {
	UserID string
	Status string // optional
	Type   string // optional
}

// InterviewRepository defines persistence operations for interviews.
type InterviewRepository interface {
	Create(ctx context.Context, iv *domain.Interview) (*domain.Interview, error)
	FindByID(ctx context.Context, id string) (*domain.Interview, error)
	// List returns matching interviews, newest first.
	List(ctx context.Context, filter ListInterviewsFilter) ([]*domain.Interview, error)
	Update(ctx context.Context, iv *domain.Interview) error
	Delete(ctx context.Context, id string) error
}

// CreateInterviewInput carries the fields of a new interview. When Questions
// is empty, QuestionCount questions are drawn from the question bank.
type CreateInterviewInput struct {
	Title         string
	JobRole       string
	Type          string
	Difficulty    string
	Questions     []domain.Question
	QuestionCount int
}

// UpdateInterviewInput carries optional changes; nil fields are untouched.
type UpdateInterviewInput struct {
	Title    *string
	Notes    *string
	Status   *string
	Score    *float64
	Feedback *string
}

// InterviewService defines use-case operations for interviews. Every
// operation is performed on behalf of the given identity.
type InterviewService interface {
	Create(ctx context.Context, who *domain.Identity, in CreateInterviewInput) (*domain.Interview, error)
	Start(ctx context.Context, who *domain.Identity, in CreateInterviewInput) (*domain.Interview, error)
	List(ctx context.Context, who *domain.Identity, status, interviewType string) ([]*domain.Interview, error)
	Get(ctx context.Context, who *domain.Identity, id string) (*domain.Interview, error)
	Update(ctx context.Context, who *domain.Identity, id string, in UpdateInterviewInput) (*domain.Interview, error)
	Delete(ctx context.Context, who *domain.Identity, id string) error
}
