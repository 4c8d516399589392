package domain

import "time"

// InterviewStatus represents the lifecycle state of a mock interview.
type InterviewStatus string

const (
	InterviewScheduled  InterviewStatus = "scheduled"
	InterviewInProgress InterviewStatus = "in_progress"
	InterviewCompleted  InterviewStatus = "completed"
	InterviewCancelled  InterviewStatus = "cancelled"
)

var interviewTransitions = map[InterviewStatus][]InterviewStatus{
	InterviewScheduled:  {InterviewInProgress, InterviewCancelled},
	InterviewInProgress: {InterviewCompleted, InterviewCancelled},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s InterviewStatus) CanTransitionTo(next InterviewStatus) bool {
	for _, allowed := range interviewTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const (
	TypeTechnical  = "technical"
	TypeBehavioral = "behavioral"
	TypeMixed      = "mixed"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question is a single prompt asked during an interview.
type Question struct {
	Text     string `json:"text" bson:"text"`
	Category string `json:"category" bson:"category"`
}

// Interview is the aggregate root for a mock interview.
type Interview struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	JobRole     string          `json:"job_role"`
	Type        string          `json:"type"`
	Difficulty  string          `json:"difficulty"`
	Questions   []Question      `json:"questions"`
	Status      InterviewStatus `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	Score       *float64        `json:"score,omitempty"`
	Feedback    string          `json:"feedback,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}
