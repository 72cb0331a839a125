package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type QuestionResponseDTO struct {
	QuestionID     string `json:"question_id"`
	Text           string `json:"text"`
	Type           string `json:"type"`
	Difficulty     string `json:"difficulty"`
	ExpectedAnswer string `json:"expected_answer"`
	TimeLimitSec   int    `json:"time_limit_sec"`
	OrderInSet     int    `json:"order_in_set"`
}

type InterviewResponseDTO struct {
	ID              uint                  `json:"id"`
	Position        string                `json:"position"`
	Description     string                `json:"description"`
	ExperienceYears int                   `json:"experience_years"`
	TechStack       string                `json:"tech_stack"`
	UserID          string                `json:"user_id"`
	Questions       []QuestionResponseDTO `json:"questions"`
	TotalQuestions  int                   `json:"total_questions"`
	TotalTimeSec    int                   `json:"total_time_sec"`
	ExperienceLevel int                   `json:"experience_level"`
	CreatedAt       time.Time             `json:"created_at"`
}

type InterviewSummaryDTO struct {
	ID             uint      `json:"id"`
	Position       string    `json:"position"`
	TechStack      string    `json:"tech_stack"`
	TotalQuestions int       `json:"total_questions"`
	TotalTimeSec   int       `json:"total_time_sec"`
	CreatedAt      time.Time `json:"created_at"`
}

// SessionStateDTO is a snapshot of a live session.
type SessionStateDTO struct {
	SessionID        string `json:"session_id"`
	InterviewID      uint   `json:"interview_id"`
	State            string `json:"state"` // "running", "complete", "terminated"
	QuestionIndex    int    `json:"question_index"`
	TimeRemainingSec int    `json:"time_remaining_sec"`
	ViolationCount   int    `json:"violation_count"`
	AnswerCount      int    `json:"answer_count"`
	TranscriptLength int    `json:"transcript_length"`
}

type FeedbackResponseDTO struct {
	Score                int      `json:"score"`
	Strengths            []string `json:"strengths"`
	Weaknesses           []string `json:"weaknesses"`
	Recommendations      []string `json:"recommendations"`
	CommunicationQuality string   `json:"communication_quality"`
}

type SessionResultDTO struct {
	SessionID      string               `json:"session_id"`
	InterviewID    uint                 `json:"interview_id"`
	Status         string               `json:"status"`
	ViolationCount int                  `json:"violation_count"`
	AnswerCount    int                  `json:"answer_count"`
	StartedAt      time.Time            `json:"started_at"`
	CompletedAt    time.Time            `json:"completed_at"`
	Feedback       *FeedbackResponseDTO `json:"feedback,omitempty"`
}

type PerformanceDTO struct {
	TotalSessions   int     `json:"total_sessions"`
	AverageScore    float64 `json:"average_score"`
	BestScore       float64 `json:"best_score"`
	ImprovementRate float64 `json:"improvement_rate"`
}

type ScheduleResponseDTO struct {
	EventID     string    `json:"event_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
}

type PhoneTokenResponseDTO struct {
	Token     string    `json:"token"`
	Identity  string    `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CallResponseDTO struct {
	CallSID        string `json:"call_sid"`
	Status         string `json:"status"`
	ClientIdentity string `json:"client_identity"`
}

type MentorChatResponseDTO struct {
	Reply string `json:"reply"`
}

// PhoneFeedbackDTO is the rubric output for a completed phone interview,
// keyed by the provider's call id rather than a session record.
type PhoneFeedbackDTO struct {
	CallSID              string    `json:"call_sid"`
	Score                int       `json:"score"`
	Strengths            []string  `json:"strengths"`
	Weaknesses           []string  `json:"weaknesses"`
	Recommendations      []string  `json:"recommendations"`
	CommunicationQuality string    `json:"communication_quality"`
	GeneratedAt          time.Time `json:"generated_at"`
}

type OrderResponseDTO struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type VerifyPaymentResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
