package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/internal/dto"
	"github.com/hireready/hireready/internal/model"
	"github.com/hireready/hireready/internal/repository"
)

// Transcript speakers.
const (
	SpeakerInterviewer = "interviewer"
	SpeakerCandidate   = "candidate"
)

type FeedbackService interface {
	// GenerateForSession builds the transcript from the session's recorded
	// answers, runs the evaluation rubric and persists the result. Returns
	// ErrFeedbackExists if feedback was already generated.
	GenerateForSession(ctx context.Context, sessionID string) (*dto.FeedbackResponseDTO, error)
	GetSessionResult(sessionID string) (*dto.SessionResultDTO, error)
}

type feedbackService struct {
	sessionRepo   repository.SessionRepository
	answerRepo    repository.AnswerRepository
	interviewRepo repository.InterviewRepository
	llm           GeminiLLMService
}

func NewFeedbackService(sessionRepo repository.SessionRepository, answerRepo repository.AnswerRepository, interviewRepo repository.InterviewRepository, llm GeminiLLMService) FeedbackService {
	return &feedbackService{
		sessionRepo:   sessionRepo,
		answerRepo:    answerRepo,
		interviewRepo: interviewRepo,
		llm:           llm,
	}
}

func (s *feedbackService) GenerateForSession(ctx context.Context, sessionID string) (*dto.FeedbackResponseDTO, error) {
	record, err := s.sessionRepo.FindBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if record.Feedback != nil {
		return nil, ErrFeedbackExists
	}

	answers, err := s.answerRepo.FindBySessionID(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.llm.GenerateFeedback(ctx, BuildTranscript(answers))
	if err != nil {
		// The session record stays as-is; feedback can be retried.
		log.Error().Err(err).Str("sessionID", sessionID).Msg("Feedback generation failed")
		return nil, err
	}

	feedback := &model.Feedback{
		SessionRecordID:      record.ID,
		Score:                result.Score,
		Strengths:            model.StringList(result.Strengths),
		Weaknesses:           model.StringList(result.Weaknesses),
		Recommendations:      model.StringList(result.Recommendations),
		CommunicationQuality: result.CommunicationQuality,
	}
	if err := s.sessionRepo.SaveFeedback(feedback); err != nil {
		return nil, err
	}

	log.Info().Str("sessionID", sessionID).Int("score", result.Score).Msg("Feedback generated")
	return toFeedbackDTO(feedback), nil
}

func (s *feedbackService) GetSessionResult(sessionID string) (*dto.SessionResultDTO, error) {
	record, err := s.sessionRepo.FindBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	result := &dto.SessionResultDTO{
		SessionID:      record.SessionID,
		InterviewID:    record.InterviewID,
		Status:         record.Status,
		ViolationCount: record.ViolationCount,
		AnswerCount:    record.AnswerCount,
		StartedAt:      record.StartedAt,
		CompletedAt:    record.CompletedAt,
	}
	if record.Feedback != nil {
		result.Feedback = toFeedbackDTO(record.Feedback)
	}
	return result, nil
}

// BuildTranscript interleaves each question the candidate answered with the
// answer itself, in question order. Questions without a recorded answer do
// not appear; terminated sessions are evaluated on whatever answers exist.
func BuildTranscript(answers []model.UserAnswer) []TranscriptEntry {
	transcript := make([]TranscriptEntry, 0, len(answers)*2)
	for _, a := range answers {
		transcript = append(transcript, TranscriptEntry{
			Speaker: SpeakerInterviewer,
			Text:    a.QuestionText,
		})
		answerText := a.UserAnswer
		if answerText == "" {
			answerText = "(no answer given)"
		}
		transcript = append(transcript, TranscriptEntry{
			Speaker: SpeakerCandidate,
			Text:    answerText,
		})
	}
	return transcript
}

func toFeedbackDTO(f *model.Feedback) *dto.FeedbackResponseDTO {
	return &dto.FeedbackResponseDTO{
		Score:                f.Score,
		Strengths:            f.Strengths,
		Weaknesses:           f.Weaknesses,
		Recommendations:      f.Recommendations,
		CommunicationQuality: f.CommunicationQuality,
	}
}
