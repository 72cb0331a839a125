package repository

import (
	"github.com/hireready/hireready/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	Create(answer *model.UserAnswer) error
	FindBySessionID(sessionID string) ([]model.UserAnswer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(answer *model.UserAnswer) error {
	return r.db.Create(answer).Error
}

func (r *answerRepository) FindBySessionID(sessionID string) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&answers).Error
	return answers, err
}
