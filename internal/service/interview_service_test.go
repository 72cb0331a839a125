package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hireready/hireready/internal/dto"
	"github.com/hireready/hireready/internal/model"
)

type fakeInterviewRepo struct {
	created   []*model.Interview
	byID      map[uint]*model.Interview
	deletedID uint
}

func (f *fakeInterviewRepo) Create(interview *model.Interview) error {
	interview.ID = uint(len(f.created) + 1)
	f.created = append(f.created, interview)
	return nil
}

func (f *fakeInterviewRepo) FindByIDWithQuestions(id uint) (*model.Interview, error) {
	if iv, ok := f.byID[id]; ok {
		return iv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInterviewRepo) FindAllByUser(string) ([]model.Interview, error) {
	out := make([]model.Interview, 0, len(f.created))
	for _, iv := range f.created {
		out = append(out, *iv)
	}
	return out, nil
}

func (f *fakeInterviewRepo) Delete(id uint) error {
	f.deletedID = id
	return nil
}

func createReq() dto.CreateInterviewDTO {
	return dto.CreateInterviewDTO{
		Position:        "Backend Engineer",
		Description:     "Builds and operates Go services.",
		ExperienceYears: 2,
		TechStack:       "Go, Postgres",
		UserID:          "u1",
	}
}

func TestCreateInterviewNormalizesQuestions(t *testing.T) {
	repo := &fakeInterviewRepo{}
	llm := &fakeLLM{questions: []GeneratedQuestion{
		{ID: "Q1", Question: "Explain indexes.", Type: model.QuestionTypeTech, Difficulty: model.DifficultyMedium, TimeLimitSec: 240},
		// Missing id, difficulty and time limit: all filled in.
		{Question: "Reverse a linked list.", Type: model.QuestionTypeDSA},
		{Question: "Tell me about a conflict.", Type: model.QuestionTypeHR, TimeLimitSec: 0},
	}}

	svc := NewInterviewService(repo, llm)
	resp, err := svc.CreateInterview(context.Background(), "u1", createReq())
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	questions := repo.created[0].Questions
	require.Len(t, questions, 3)

	assert.Equal(t, "Q1", questions[0].QuestionID)
	assert.Equal(t, 240, questions[0].TimeLimitSec)

	assert.NotEmpty(t, questions[1].QuestionID)
	assert.Equal(t, model.DifficultyMedium, questions[1].Difficulty, "derived from 2 years of experience")
	assert.Equal(t, 300+DSAExtraTimeSec, questions[1].TimeLimitSec)

	assert.Equal(t, HRTimeLimitSec, questions[2].TimeLimitSec)

	assert.Equal(t, 240+420+120, resp.TotalTimeSec)
	assert.Equal(t, 3, resp.TotalQuestions)
	for i, q := range resp.Questions {
		assert.Equal(t, i, q.OrderInSet)
	}
}

func TestCreateInterviewMalformedGenerationCreatesNothing(t *testing.T) {
	repo := &fakeInterviewRepo{}
	llm := &fakeLLM{err: ErrMalformedGeneration}

	svc := NewInterviewService(repo, llm)
	_, err := svc.CreateInterview(context.Background(), "u1", createReq())
	assert.ErrorIs(t, err, ErrMalformedGeneration)
	assert.Empty(t, repo.created)
}

func TestDeleteInterviewMissingKeepsNotFound(t *testing.T) {
	repo := &fakeInterviewRepo{}
	svc := NewInterviewService(repo, &fakeLLM{})

	err := svc.DeleteInterview(42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, repo.deletedID)
}

func TestListInterviews(t *testing.T) {
	repo := &fakeInterviewRepo{}
	llm := &fakeLLM{questions: []GeneratedQuestion{{ID: "Q1", Question: "x", Type: model.QuestionTypeTech}}}
	svc := NewInterviewService(repo, llm)

	_, err := svc.CreateInterview(context.Background(), "u1", createReq())
	require.NoError(t, err)

	list, err := svc.ListInterviews("u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Backend Engineer", list[0].Position)
}
