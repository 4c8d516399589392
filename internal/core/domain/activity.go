package domain

import "time"

// ActivityType names something a user did that analytics keeps track of.
type ActivityType string

const (
	ActivityInterviewCreated   ActivityType = "interview_created"
	ActivityInterviewStarted   ActivityType = "interview_started"
	ActivityInterviewCompleted ActivityType = "interview_completed"
	ActivityPaymentSucceeded   ActivityType = "payment_succeeded"
)

// ActivityEvent is an append-only analytics record.
type ActivityEvent struct {
	UserID     string            `json:"user_id"`
	Type       ActivityType      `json:"type"`
	ResourceID string            `json:"resource_id,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// PerformanceSummary aggregates a user's interview history.
type PerformanceSummary struct {
	TotalInterviews     int            `json:"total_interviews"`
	CompletedInterviews int            `json:"completed_interviews"`
	AverageScore        float64        `json:"average_score"`
	BestScore           float64        `json:"best_score"`
	ByType              map[string]int `json:"by_type"`
	ByDifficulty        map[string]int `json:"by_difficulty"`
	RecentScores        []float64      `json:"recent_scores"`
}
