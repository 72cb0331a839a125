package dto

type CreateInterviewDTO struct {
	Position        string `json:"position" binding:"required,max=100"`
	Description     string `json:"description" binding:"required,min=10"`
	ExperienceYears int    `json:"experience_years" binding:"min=0"`
	TechStack       string `json:"tech_stack" binding:"required"`
	UserID          string `json:"user_id" binding:"required"`
}

// StartSessionDTO starts an attempt. Baseline descriptors come from the
// client's capture step; monitoring is disabled when the client reports the
// detection model failed to load.
type StartSessionDTO struct {
	UserID             string      `json:"user_id" binding:"required"`
	BaselineFaces      [][]float64 `json:"baseline_faces"`
	MonitoringDisabled bool        `json:"monitoring_disabled"`
}

// TranscriptFragmentDTO is one partial or final speech-to-text result for the
// question at QuestionIndex. Fragments for a stale index are discarded.
type TranscriptFragmentDTO struct {
	QuestionIndex int    `json:"question_index"`
	Text          string `json:"text" binding:"required"`
	Final         bool   `json:"final"`
}

// PresenceSampleDTO carries the face descriptors observed in one monitor
// sample, tagged with the question index being sampled for.
type PresenceSampleDTO struct {
	QuestionIndex int         `json:"question_index"`
	Faces         [][]float64 `json:"faces"`
}

type MentorChatDTO struct {
	Message string `json:"message" binding:"required"`
}

type SchedulePhoneInterviewDTO struct {
	UserID      string `json:"user_id" binding:"required"`
	UserName    string `json:"user_name"`
	UserPhone   string `json:"user_phone" binding:"required"`
	ScheduledAt string `json:"scheduled_at" binding:"required"` // RFC 3339 UTC instant
	DurationMin int    `json:"duration_min"`
}

type PhoneTokenDTO struct {
	UserID   string `json:"user_id" binding:"required"`
	UserName string `json:"user_name"`
}

type InitiateCallDTO struct {
	UserID      string `json:"user_id" binding:"required"`
	UserName    string `json:"user_name"`
	InterviewID string `json:"interview_id"`
}

type CreateOrderDTO struct {
	Amount   int64  `json:"amount" binding:"required,gt=0"` // major units
	Currency string `json:"currency"`
}

type VerifyPaymentDTO struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}
