package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/internal/dto"
	"github.com/hireready/hireready/internal/model"
	"github.com/hireready/hireready/internal/repository"
)

type InterviewService interface {
	CreateInterview(ctx context.Context, userID string, req dto.CreateInterviewDTO) (*dto.InterviewResponseDTO, error)
	GetInterview(id uint) (*dto.InterviewResponseDTO, error)
	ListInterviews(userID string) ([]dto.InterviewSummaryDTO, error)
	DeleteInterview(id uint) error
}

type interviewService struct {
	interviewRepo repository.InterviewRepository
	llm           GeminiLLMService
}

func NewInterviewService(interviewRepo repository.InterviewRepository, llm GeminiLLMService) InterviewService {
	return &interviewService{interviewRepo: interviewRepo, llm: llm}
}

// CreateInterview generates the question set and persists the interview with
// its questions as a single write. A malformed generation leaves nothing
// behind; the caller resubmits.
func (s *interviewService) CreateInterview(ctx context.Context, userID string, req dto.CreateInterviewDTO) (*dto.InterviewResponseDTO, error) {
	generated, err := s.llm.GenerateQuestions(ctx, GenerationRequest{
		Position:        req.Position,
		Description:     req.Description,
		ExperienceYears: req.ExperienceYears,
		TechStack:       req.TechStack,
	})
	if err != nil {
		log.Error().Err(err).Str("position", req.Position).Msg("CreateInterview: question generation failed")
		return nil, err
	}

	difficulty := DifficultyForExperience(req.ExperienceYears)
	questions := make([]model.Question, 0, len(generated))
	totalTime := 0
	for i, q := range generated {
		question := model.Question{
			QuestionID:     q.ID,
			Text:           q.Question,
			Type:           q.Type,
			Difficulty:     q.Difficulty,
			ExpectedAnswer: q.ExpectedAnswer,
			TimeLimitSec:   q.TimeLimitSec,
			OrderInSet:     i,
		}
		if question.QuestionID == "" {
			question.QuestionID = "q_" + uuid.NewString()
		}
		if question.Difficulty == "" {
			question.Difficulty = difficulty
		}
		if question.TimeLimitSec <= 0 {
			question.TimeLimitSec = TimeLimitFor(question.Type, question.Difficulty)
		}
		totalTime += question.TimeLimitSec
		questions = append(questions, question)
	}

	interview := model.Interview{
		Position:        req.Position,
		Description:     req.Description,
		ExperienceYears: req.ExperienceYears,
		TechStack:       req.TechStack,
		UserID:          userID,
		Questions:       questions,
		TotalQuestions:  len(questions),
		TotalTimeSec:    totalTime,
		ExperienceLevel: req.ExperienceYears,
	}

	if err := s.interviewRepo.Create(&interview); err != nil {
		log.Error().Err(err).Msg("CreateInterview: failed to persist interview")
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	log.Info().Uint("interviewID", interview.ID).Int("questions", len(questions)).Msg("Interview created")
	return s.toResponseDTO(&interview)
}

func (s *interviewService) GetInterview(id uint) (*dto.InterviewResponseDTO, error) {
	interview, err := s.interviewRepo.FindByIDWithQuestions(id)
	if err != nil {
		log.Warn().Err(err).Uint("interviewID", id).Msg("GetInterview: not found")
		return nil, fmt.Errorf("interview not found with ID %d: %w", id, err)
	}
	return s.toResponseDTO(interview)
}

func (s *interviewService) ListInterviews(userID string) ([]dto.InterviewSummaryDTO, error) {
	interviews, err := s.interviewRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching interviews: %w", err)
	}

	dtos := make([]dto.InterviewSummaryDTO, 0, len(interviews))
	for _, iv := range interviews {
		var summary dto.InterviewSummaryDTO
		if err := copier.Copy(&summary, &iv); err != nil {
			log.Error().Err(err).Uint("interviewID", iv.ID).Msg("ListInterviews: copy failed")
			continue
		}
		dtos = append(dtos, summary)
	}
	return dtos, nil
}

func (s *interviewService) DeleteInterview(id uint) error {
	if _, err := s.interviewRepo.FindByIDWithQuestions(id); err != nil {
		return fmt.Errorf("interview not found with ID %d: %w", id, err)
	}
	return s.interviewRepo.Delete(id)
}

func (s *interviewService) toResponseDTO(interview *model.Interview) (*dto.InterviewResponseDTO, error) {
	var resp dto.InterviewResponseDTO
	if err := copier.Copy(&resp, interview); err != nil {
		return nil, fmt.Errorf("error preparing interview response: %w", err)
	}
	return &resp, nil
}
