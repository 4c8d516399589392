package handler

import "github.com/prepinter/prepinter/internal/core/domain"

// messageResponse is the shape of simple informational replies and of every
// error written by the error handler.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Users ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Avatar   string `json:"avatar"   validate:"omitempty,url"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user"`
}

// --- Interviews ---

type questionRequest struct {
	Text     string `json:"text"     validate:"required"`
	Category string `json:"category"`
}

type createInterviewRequest struct {
	Title         string            `json:"title"`
	JobRole       string            `json:"job_role"       validate:"required"`
	Type          string            `json:"type"           validate:"omitempty,oneof=technical behavioral mixed"`
	Difficulty    string            `json:"difficulty"     validate:"omitempty,oneof=easy medium hard"`
	Questions     []questionRequest `json:"questions"      validate:"max=20,dive"`
	QuestionCount int               `json:"question_count" validate:"gte=0,lte=20"`
}

type updateInterviewRequest struct {
	Title    *string  `json:"title"`
	Notes    *string  `json:"notes"`
	Status   *string  `json:"status"   validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Score    *float64 `json:"score"    validate:"omitempty,gte=0,lte=100"`
	Feedback *string  `json:"feedback"`
}

// --- Sessions ---

type startSessionRequest struct {
	InterviewID string `json:"interview_id" validate:"required"`
}

type answerRequest struct {
	QuestionIndex   int    `json:"question_index"   validate:"gte=0"`
	Answer          string `json:"answer"           validate:"required"`
	DurationSeconds int    `json:"duration_seconds" validate:"gte=0"`
}

type endSessionRequest struct {
	Score    *float64 `json:"score"    validate:"omitempty,gte=0,lte=100"`
	Feedback string   `json:"feedback"`
}

// --- Payments ---

type createPaymentRequest struct {
	Plan string `json:"plan" validate:"required,oneof=pro_monthly pro_yearly"`
}

type verifyPaymentRequest struct {
	Reference string `json:"reference" validate:"required"`
}

// --- Analytics ---

type overviewResponse struct {
	Counts map[domain.ActivityType]int64 `json:"counts"`
}
