package repository

import (
	"github.com/hireready/hireready/internal/model"
	"gorm.io/gorm"
)

type InterviewRepository interface {
	Create(interview *model.Interview) error
	FindByIDWithQuestions(id uint) (*model.Interview, error)
	FindAllByUser(userID string) ([]model.Interview, error)
	Delete(id uint) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *model.Interview) error {
	// GORM writes the interview and its generated questions as one create,
	// matching the one-document semantics of interview creation.
	return r.db.Create(interview).Error
}

func (r *interviewRepository) FindByIDWithQuestions(id uint) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_in_set ASC")
	}).First(&interview, id).Error
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) FindAllByUser(userID string) ([]model.Interview, error) {
	var interviews []model.Interview
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&interviews).Error
	return interviews, err
}

func (r *interviewRepository) Delete(id uint) error {
	return r.db.Delete(&model.Interview{}, id).Error
}
