package repository

import (
	"github.com/hireready/hireready/internal/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(record *model.SessionRecord) error
	FindBySessionID(sessionID string) (*model.SessionRecord, error)
	FindAllByUserOrdered(userID string) ([]model.SessionRecord, error)
	SaveFeedback(feedback *model.Feedback) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(record *model.SessionRecord) error {
	return r.db.Create(record).Error
}

func (r *sessionRepository) FindBySessionID(sessionID string) (*model.SessionRecord, error) {
	var record model.SessionRecord
	err := r.db.Preload("Feedback").Where("session_id = ?", sessionID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindAllByUserOrdered returns a user's session records oldest first, the
// ordering the improvement-trend statistic depends on.
func (r *sessionRepository) FindAllByUserOrdered(userID string) ([]model.SessionRecord, error) {
	var records []model.SessionRecord
	err := r.db.Preload("Feedback").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *sessionRepository) SaveFeedback(feedback *model.Feedback) error {
	return r.db.Create(feedback).Error
}
