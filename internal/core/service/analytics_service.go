package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/ports"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
	recentScoreCount     = 5
)

type analyticsService struct {
	activity   ports.ActivityRepository
	interviews ports.InterviewRepository
	log        zerolog.Logger
}

// NewAnalyticsService returns an AnalyticsService implementation.
func NewAnalyticsService(activity ports.ActivityRepository, interviews ports.InterviewRepository, log zerolog.Logger) ports.AnalyticsService {
	return &analyticsService{activity: activity, interviews: interviews, log: log}
}

func (s *analyticsService) Record(ctx context.Context, e domain.ActivityEvent) error {
	if e.UserID == "" || e.Type == "" {
		return fmt.Errorf("record activity: %w", domain.NewValidationError("activity event needs a user and a type"))
	}
	if err := s.activity.Insert(ctx, &e); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	s.log.Debug().Str("user_id", e.UserID).Str("type", string(e.Type)).Msg("activity recorded")
	return nil
}

// Summary aggregates every interview of userID.
func (s *analyticsService) Summary(ctx context.Context, userID string) (*domain.PerformanceSummary, error) {
	interviews, err := s.interviews.List(ctx, ports.ListInterviewsFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	sum := &domain.PerformanceSummary{
		TotalInterviews: len(interviews),
		ByType:          map[string]int{},
		ByDifficulty:    map[string]int{},
		RecentScores:    []float64{},
	}

	var completed []*domain.Interview
	for _, iv := range interviews {
		sum.ByType[iv.Type]++
		sum.ByDifficulty[iv.Difficulty]++
		if iv.Status == domain.InterviewCompleted {
			completed = append(completed, iv)
		}
	}
	sum.CompletedInterviews = len(completed)

	sort.SliceStable(completed, func(i, j int) bool {
		return completedAt(completed[i]).After(completedAt(completed[j]))
	})

	var total float64
	scored := 0
	for _, iv := range completed {
		if iv.Score == nil {
			continue
		}
		score := *iv.Score
		total += score
		scored++
		if score > sum.BestScore {
			sum.BestScore = score
		}
		if len(sum.RecentScores) < recentScoreCount {
			sum.RecentScores = append(sum.RecentScores, score)
		}
	}
	if scored > 0 {
		sum.AverageScore = total / float64(scored)
	}
	return sum, nil
}

func (s *analyticsService) Activity(ctx context.Context, userID string, limit int) ([]*domain.ActivityEvent, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.activity.ListByUser(ctx, userID, limit)
}

func (s *analyticsService) Overview(ctx context.Context) (map[domain.ActivityType]int64, error) {
	return s.activity.CountByType(ctx)
}

func completedAt(iv *domain.Interview) time.Time {
	if iv.CompletedAt != nil {
		return *iv.CompletedAt
	}
	return iv.UpdatedAt
}
