package model

import (
	"time"

	"gorm.io/gorm"
)

type Interview struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Position        string         `json:"position" gorm:"not null"`
	Description     string         `json:"description" gorm:"type:text;not null"`
	ExperienceYears int            `json:"experience_years" gorm:"not null"`
	TechStack       string         `json:"tech_stack" gorm:"not null"`
	UserID          string         `json:"user_id" gorm:"not null;index"`
	Questions       []Question     `json:"questions,omitempty" gorm:"foreignKey:InterviewID;constraint:OnDelete:CASCADE"`
	TotalQuestions  int            `json:"total_questions" gorm:"not null"`
	TotalTimeSec    int            `json:"total_time_sec" gorm:"not null"`
	ExperienceLevel int            `json:"experience_level" gorm:"not null"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
