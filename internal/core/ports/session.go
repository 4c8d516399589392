package ports

import (
	"context"

	"github.com/prepinter/prepinter/internal/core/domain"
)

// SessionRepository defines persistence operations for interview sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.InterviewSession) error
	FindByID(ctx context.Context, id string) (*domain.InterviewSession, error)
	Update(ctx context.Context, s *domain.InterviewSession) error
}

// AnswerInput is a candidate's answer to one question.
type AnswerInput struct {
	QuestionIndex   int
	Text            string
	DurationSeconds int
}

// EndSessionInput carries the optional outcome reported when a session ends.
type EndSessionInput struct {
	Score    *float64
	Feedback string
}

// SessionService drives a live interview.
type SessionService interface {
	Start(ctx context.Context, who *domain.Identity, interviewID string) (*domain.InterviewSession, error)
	Get(ctx context.Context, who *domain.Identity, sessionID string) (*domain.InterviewSession, error)
	SubmitAnswer(ctx context.Context, who *domain.Identity, sessionID string, in AnswerInput) (*domain.InterviewSession, error)
	End(ctx context.Context, who *domain.Identity, sessionID string, in EndSessionInput) (*domain.InterviewSession, error)
}
