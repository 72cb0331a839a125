package model

import (
	"time"

	"gorm.io/gorm"
)

// Question types as returned by the generator.
const (
	QuestionTypeTech = "TECH"
	QuestionTypeDSA  = "DSA"
	QuestionTypeHR   = "HR"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Question struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	InterviewID    uint           `json:"interview_id" gorm:"not null;index"`
	QuestionID     string         `json:"question_id" gorm:"not null;index"` // generator-assigned id, e.g. "Q1"
	Text           string         `json:"text" gorm:"type:text;not null"`
	Type           string         `json:"type" gorm:"not null"` // "TECH", "DSA", "HR"
	Difficulty     string         `json:"difficulty" gorm:"not null"`
	ExpectedAnswer string         `json:"expected_answer" gorm:"type:text"`
	TimeLimitSec   int            `json:"time_limit_sec" gorm:"not null"`
	OrderInSet     int            `json:"order_in_set" gorm:"not null"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
