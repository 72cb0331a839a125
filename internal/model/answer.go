package model

import (
	"time"

	"gorm.io/gorm"
)

// UserAnswer is one recorded response. Answers are written individually as the
// session progresses, not batched with the session record.
type UserAnswer struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	InterviewID  uint           `json:"interview_id" gorm:"not null;index"`
	SessionID    string         `json:"session_id" gorm:"index"`
	QuestionID   string         `json:"question_id" gorm:"not null;index"`
	QuestionText string         `json:"question_text" gorm:"type:text"`
	UserAnswer   string         `json:"user_answer" gorm:"type:text;not null"`
	TimeTakenSec int            `json:"time_taken_sec" gorm:"not null"`
	TimedOut     bool           `json:"timed_out"`
	UserID       string         `json:"user_id" gorm:"not null;index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
