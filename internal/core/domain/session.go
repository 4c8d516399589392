package domain

import "time"

// SessionStatus represents the state of a live interview session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// Answer is the candidate's response to one question of the interview.
type Answer struct {
	QuestionIndex   int       `json:"question_index" bson:"question_index"`
	Text            string    `json:"text" bson:"text"`
	DurationSeconds int       `json:"duration_seconds" bson:"duration_seconds"`
	AnsweredAt      time.Time `json:"answered_at" bson:"answered_at"`
}

// InterviewSession tracks a candidate working through an interview.
type InterviewSession struct {
	ID          string        `json:"id"`
	InterviewID string        `json:"interview_id"`
	UserID      string        `json:"user_id"`
	Status      SessionStatus `json:"status"`
	Answers     []Answer      `json:"answers"`
	StartedAt   time.Time     `json:"started_at"`
	EndedAt     *time.Time    `json:"ended_at,omitempty"`
}

// RecordAnswer stores a, replacing any earlier answer to the same question.
func (s *InterviewSession) RecordAnswer(a Answer) {
	for i := range s.Answers {
		if s.Answers[i].QuestionIndex == a.QuestionIndex {
			s.Answers[i] = a
			return
		}
	}
	s.Answers = append(s.Answers, a)
}
