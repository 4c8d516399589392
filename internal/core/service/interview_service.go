package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepinter/prepinter/internal/api/metrics"
	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/ports"
)

const maxQuestions = 20

type interviewService struct {
	repo     ports.InterviewRepository
	activity ports.ActivityPublisher
	log      zerolog.Logger
	now      func() time.Time
}

// NewInterviewService returns an InterviewService implementation.
func NewInterviewService(repo ports.InterviewRepository, activity ports.ActivityPublisher, log zerolog.Logger) ports.InterviewService {
	return &interviewService{repo: repo, activity: activity, log: log, now: time.Now}
}

func (s *interviewService) Create(ctx context.Context, who *domain.Identity, in ports.CreateInterviewInput) (*domain.Interview, error) {
	iv, err := s.build(who, in, domain.InterviewScheduled)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, iv)
	if err != nil {
		return nil, fmt.Errorf("create interview: %w", err)
	}

	metrics.InterviewsCreatedTotal.WithLabelValues(created.Type, string(created.Status)).Inc()
	s.publish(who.UserID, domain.ActivityInterviewCreated, created)
	s.log.Info().Str("interview_id", created.ID).Str("user_id", who.UserID).Msg("interview created")
	return created, nil
}

// Start creates an interview that is already under way.
func (s *interviewService) Start(ctx context.Context, who *domain.Identity, in ports.CreateInterviewInput) (*domain.Interview, error) {
	iv, err := s.build(who, in, domain.InterviewInProgress)
	if err != nil {
		return nil, err
	}
	started := iv.CreatedAt
	iv.StartedAt = &started

	created, err := s.repo.Create(ctx, iv)
	if err != nil {
		return nil, fmt.Errorf("start interview: %w", err)
	}

	metrics.InterviewsCreatedTotal.WithLabelValues(created.Type, string(created.Status)).Inc()
	s.publish(who.UserID, domain.ActivityInterviewStarted, created)
	s.log.Info().Str("interview_id", created.ID).Str("user_id", who.UserID).Msg("interview started")
	return created, nil
}

func (s *interviewService) List(ctx context.Context, who *domain.Identity, status, interviewType string) ([]*domain.Interview, error) {
	return s.repo.List(ctx, ports.ListInterviewsFilter{
		UserID: who.UserID,
		Status: status,
		Type:   interviewType,
	})
}

func (s *interviewService) Get(ctx context.Context, who *domain.Identity, id string) (*domain.Interview, error) {
	iv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !who.CanAccess(iv.UserID) {
		return nil, domain.ErrForbidden
	}
	return iv, nil
}

func (s *interviewService) Update(ctx context.Context, who *domain.Identity, id string, in ports.UpdateInterviewInput) (*domain.Interview, error) {
	iv, err := s.Get(ctx, who, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.FieldError("title", "title cannot be empty")
		}
		iv.Title = title
	}
	if in.Notes != nil {
		iv.Notes = *in.Notes
	}
	if in.Feedback != nil {
		iv.Feedback = *in.Feedback
	}
	if in.Score != nil {
		if err := checkScore(*in.Score); err != nil {
			return nil, err
		}
		score := *in.Score
		iv.Score = &score
	}

	completed := false
	if in.Status != nil && domain.InterviewStatus(*in.Status) != iv.Status {
		next := domain.InterviewStatus(*in.Status)
		if !iv.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("update interview: %w (from %s to %s)", domain.ErrInvalidTransition, iv.Status, next)
		}
		applyTransition(iv, next, now)
		completed = next == domain.InterviewCompleted
	}
	iv.UpdatedAt = now

	if err := s.repo.Update(ctx, iv); err != nil {
		return nil, fmt.Errorf("update interview: %w", err)
	}
	if completed {
		s.publish(iv.UserID, domain.ActivityInterviewCompleted, iv)
	}
	return iv, nil
}

func (s *interviewService) Delete(ctx context.Context, who *domain.Identity, id string) error {
	if _, err := s.Get(ctx, who, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete interview: %w", err)
	}
	s.log.Info().Str("interview_id", id).Str("user_id", who.UserID).Msg("interview deleted")
	return nil
}

func (s *interviewService) build(who *domain.Identity, in ports.CreateInterviewInput, status domain.InterviewStatus) (*domain.Interview, error) {
	fields := map[string]string{}
	jobRole := strings.TrimSpace(in.JobRole)
	if jobRole == "" {
		fields["job_role"] = "job_role is required"
	}
	interviewType := defaultString(in.Type, domain.TypeMixed)
	switch interviewType {
	case domain.TypeTechnical, domain.TypeBehavioral, domain.TypeMixed:
	default:
		fields["type"] = "type must be one of: technical behavioral mixed"
	}
	difficulty := defaultString(in.Difficulty, domain.DifficultyMedium)
	switch difficulty {
	case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
	default:
		fields["difficulty"] = "difficulty must be one of: easy medium hard"
	}
	if in.QuestionCount > maxQuestions || len(in.Questions) > maxQuestions {
		fields["questions"] = fmt.Sprintf("at most %d questions are allowed", maxQuestions)
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Message: "validation failed", Fields: fields}
	}

	questions := in.Questions
	if len(questions) == 0 {
		questions = domain.PickQuestions(interviewType, in.QuestionCount)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = jobRole + " mock interview"
	}

	now := s.now().UTC()
	return &domain.Interview{
		UserID:     who.UserID,
		Title:      title,
		JobRole:    jobRole,
		Type:       interviewType,
		Difficulty: difficulty,
		Questions:  questions,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *interviewService) publish(userID string, t domain.ActivityType, iv *domain.Interview) {
	if s.activity == nil {
		return
	}
	meta := map[string]string{"type": iv.Type, "difficulty": iv.Difficulty}
	if iv.Score != nil {
		meta["score"] = fmt.Sprintf("%.1f", *iv.Score)
	}
	s.activity.Publish(domain.ActivityEvent{
		UserID:     userID,
		Type:       t,
		ResourceID: iv.ID,
		Metadata:   meta,
		OccurredAt: s.now().UTC(),
	})
}

func applyTransition(iv *domain.Interview, next domain.InterviewStatus, at time.Time) {
	iv.Status = next
	switch next {
	case domain.InterviewInProgress:
		if iv.StartedAt == nil {
			iv.StartedAt = &at
		}
	case domain.InterviewCompleted:
		iv.CompletedAt = &at
	}
}

func checkScore(score float64) error {
	if score < 0 || score > 100 {
		return domain.FieldError("score", "score must be between 0 and 100")
	}
	return nil
}

func defaultString(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
