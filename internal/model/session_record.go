package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	SessionStatusCompleted  = "completed"
	SessionStatusTerminated = "terminated"
)

// Communication quality labels the feedback rubric may assign.
const (
	CommQualityExcellent        = "Excellent"
	CommQualityGood             = "Good"
	CommQualityFair             = "Fair"
	CommQualityNeedsImprovement = "Needs Improvement"
)

// StringList is stored as a JSON array in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// SessionRecord is the persisted outcome of one interview attempt. The live
// session itself is in-memory only (internal/session); a record is written
// when the session completes or is terminated by the presence monitor.
type SessionRecord struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	SessionID      string         `json:"session_id" gorm:"not null;uniqueIndex"`
	InterviewID    uint           `json:"interview_id" gorm:"not null;index"`
	UserID         string         `json:"user_id" gorm:"not null;index"`
	Status         string         `json:"status" gorm:"not null"` // "completed", "terminated"
	ViolationCount int            `json:"violation_count"`
	AnswerCount    int            `json:"answer_count"`
	StartedAt      time.Time      `json:"started_at"`
	CompletedAt    time.Time      `json:"completed_at"`
	Feedback       *Feedback      `json:"feedback,omitempty" gorm:"foreignKey:SessionRecordID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Feedback is 1:1 with a completed SessionRecord and immutable once written.
type Feedback struct {
	ID                   uint           `gorm:"primarykey" json:"id"`
	SessionRecordID      uint           `json:"session_record_id" gorm:"not null;uniqueIndex"`
	Score                int            `json:"score" gorm:"not null"` // 0-100
	Strengths            StringList     `json:"strengths" gorm:"type:text"`
	Weaknesses           StringList     `json:"weaknesses" gorm:"type:text"`
	Recommendations      StringList     `json:"recommendations" gorm:"type:text"`
	CommunicationQuality string         `json:"communication_quality" gorm:"not null"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}
