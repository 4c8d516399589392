package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/ports"
)

type sessionService struct {
	sessions   ports.SessionRepository
	interviews ports.InterviewRepository
	activity   ports.ActivityPublisher
	log        zerolog.Logger
	now        func() time.Time
}

// NewSessionService returns a SessionService implementation.
func NewSessionService(
	sessions ports.SessionRepository,
	interviews ports.InterviewRepository,
	activity ports.ActivityPublisher,
	log zerolog.Logger,
) ports.SessionService {
	return &sessionService{
		sessions:   sessions,
		interviews: interviews,
		activity:   activity,
		log:        log,
		now:        time.Now,
	}
}

// Start opens a session for interviewID, moving a scheduled interview to
// in_progress.
func (s *sessionService) Start(ctx context.Context, who *domain.Identity, interviewID string) (*domain.InterviewSession, error) {
	iv, err := s.interviews.FindByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.UserID != who.UserID {
		return nil, domain.ErrForbidden
	}

	now := s.now().UTC()
	switch iv.Status {
	case domain.InterviewInProgress:
	case domain.InterviewScheduled:
		applyTransition(iv, domain.InterviewInProgress, now)
		iv.UpdatedAt = now
		if err := s.interviews.Update(ctx, iv); err != nil {
			return nil, fmt.Errorf("start session: %w", err)
		}
	default:
		return nil, fmt.Errorf("start session: %w (interview is %s)", domain.ErrInvalidTransition, iv.Status)
	}

	sess := &domain.InterviewSession{
		ID:          uuid.NewString(),
		InterviewID: iv.ID,
		UserID:      who.UserID,
		Status:      domain.SessionActive,
		Answers:     []domain.Answer{},
		StartedAt:   now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	s.log.Info().Str("session_id", sess.ID).Str("interview_id", iv.ID).Msg("interview session started")
	return sess, nil
}

func (s *sessionService) Get(ctx context.Context, who *domain.Identity, sessionID string) (*domain.InterviewSession, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !who.CanAccess(sess.UserID) {
		return nil, domain.ErrForbidden
	}
	return sess, nil
}

func (s *sessionService) SubmitAnswer(ctx context.Context, who *domain.Identity, sessionID string, in ports.AnswerInput) (*domain.InterviewSession, error) {
	sess, err := s.owned(ctx, who, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != domain.SessionActive {
		return nil, fmt.Errorf("submit answer: %w (session is %s)", domain.ErrInvalidTransition, sess.Status)
	}

	iv, err := s.interviews.FindByID(ctx, sess.InterviewID)
	if err != nil {
		return nil, err
	}
	if in.QuestionIndex < 0 || in.QuestionIndex >= len(iv.Questions) {
		return nil, domain.FieldError("question_index", fmt.Sprintf("question_index must be between 0 and %d", len(iv.Questions)-1))
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, domain.FieldError("answer", "answer is required")
	}
	if in.DurationSeconds < 0 {
		return nil, domain.FieldError("duration_seconds", "duration_seconds cannot be negative")
	}

	sess.RecordAnswer(domain.Answer{
		QuestionIndex:   in.QuestionIndex,
		Text:            in.Text,
		DurationSeconds: in.DurationSeconds,
		AnsweredAt:      s.now().UTC(),
	})
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("submit answer: %w", err)
	}
	return sess, nil
}

// End completes the session and its interview.
func (s *sessionService) End(ctx context.Context, who *domain.Identity, sessionID string, in ports.EndSessionInput) (*domain.InterviewSession, error) {
	sess, err := s.owned(ctx, who, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != domain.SessionActive {
		return nil, fmt.Errorf("end session: %w (session is %s)", domain.ErrInvalidTransition, sess.Status)
	}
	if in.Score != nil {
		if err := checkScore(*in.Score); err != nil {
			return nil, err
		}
	}

	iv, err := s.interviews.FindByID(ctx, sess.InterviewID)
	if err != nil {
		return nil, err
	}
	// An interview already completed by an earlier attempt only needs its
	// session closed; anything else must be able to complete.
	completing := iv.Status != domain.InterviewCompleted
	if completing && !iv.Status.CanTransitionTo(domain.InterviewCompleted) {
		return nil, fmt.Errorf("end session: %w (interview is %s)", domain.ErrInvalidTransition, iv.Status)
	}

	now := s.now().UTC()
	if completing {
		applyTransition(iv, domain.InterviewCompleted, now)
		if in.Score != nil {
			score := *in.Score
			iv.Score = &score
		}
		if in.Feedback != "" {
			iv.Feedback = in.Feedback
		}
		iv.UpdatedAt = now
		if err := s.interviews.Update(ctx, iv); err != nil {
			return nil, fmt.Errorf("end session: complete interview: %w", err)
		}
		s.publishCompleted(sess, iv, now)
	}

	sess.Status = domain.SessionCompleted
	sess.EndedAt = &now
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("end session: %w", err)
	}

	s.log.Info().Str("session_id", sess.ID).Int("answers", len(sess.Answers)).Msg("interview session ended")
	return sess, nil
}

func (s *sessionService) publishCompleted(sess *domain.InterviewSession, iv *domain.Interview, at time.Time) {
	if s.activity == nil {
		return
	}
	meta := map[string]string{
		"type":       iv.Type,
		"difficulty": iv.Difficulty,
		"answers":    fmt.Sprintf("%d", len(sess.Answers)),
	}
	if iv.Score != nil {
		meta["score"] = fmt.Sprintf("%.1f", *iv.Score)
	}
	s.activity.Publish(domain.ActivityEvent{
		UserID:     sess.UserID,
		Type:       domain.ActivityInterviewCompleted,
		ResourceID: iv.ID,
		Metadata:   meta,
		OccurredAt: at,
	})
}

func (s *sessionService) owned(ctx context.Context, who *domain.Identity, sessionID string) (*domain.InterviewSession, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != who.UserID {
		return nil, domain.ErrForbidden
	}
	return sess, nil
}
