package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/internal/dto"
	"github.com/hireready/hireready/internal/telephony"
)

// PhoneFeedbackService scores completed phone interviews. Unlike session
// feedback there is no database record behind a call; the result lives in the
// call store, keyed by the provider's call id.
type PhoneFeedbackService interface {
	// GenerateForCall runs the evaluation rubric over a call transcript and
	// stores the result under the call id.
	GenerateForCall(ctx context.Context, session *telephony.CallSession) (*dto.PhoneFeedbackDTO, error)
	GetCallFeedback(ctx context.Context, callSID string) (*dto.PhoneFeedbackDTO, error)
	// CallCompleted satisfies telephony.CompletionSink.
	CallCompleted(session *telephony.CallSession)
}

type phoneFeedbackService struct {
	store telephony.CallStore
	llm   GeminiLLMService
}

func NewPhoneFeedbackService(store telephony.CallStore, llm GeminiLLMService) PhoneFeedbackService {
	return &phoneFeedbackService{store: store, llm: llm}
}

// CallCompleted satisfies telephony.CompletionSink. Generation runs off the
// webhook path so the provider gets its TwiML response immediately.
func (s *phoneFeedbackService) CallCompleted(session *telephony.CallSession) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.GenerateForCall(ctx, session); err != nil {
			log.Error().Err(err).Str("callSID", session.CallSID).Msg("Phone feedback generation failed")
		}
	}()
}

func (s *phoneFeedbackService) GenerateForCall(ctx context.Context, session *telephony.CallSession) (*dto.PhoneFeedbackDTO, error) {
	transcript := callTranscript(session.Transcript)
	if len(transcript) == 0 {
		return nil, fmt.Errorf("call %s has no transcript", session.CallSID)
	}

	result, err := s.llm.GenerateFeedback(ctx, transcript)
	if err != nil {
		return nil, err
	}

	feedback := &telephony.CallFeedback{
		CallSID:              session.CallSID,
		Phone:                session.Phone,
		Score:                result.Score,
		Strengths:            result.Strengths,
		Weaknesses:           result.Weaknesses,
		Recommendations:      result.Recommendations,
		CommunicationQuality: result.CommunicationQuality,
		GeneratedAt:          time.Now(),
	}
	if err := s.store.SaveFeedback(ctx, feedback); err != nil {
		return nil, err
	}

	log.Info().Str("callSID", session.CallSID).Int("score", result.Score).Msg("Phone feedback generated")
	return toPhoneFeedbackDTO(feedback), nil
}

func (s *phoneFeedbackService) GetCallFeedback(ctx context.Context, callSID string) (*dto.PhoneFeedbackDTO, error) {
	feedback, err := s.store.FindFeedback(ctx, callSID)
	if err != nil {
		return nil, err
	}
	return toPhoneFeedbackDTO(feedback), nil
}

// callTranscript maps call turns onto rubric transcript entries. Empty
// utterances (failed speech recognition) are kept as an explicit marker so
// the rubric sees the gap.
func callTranscript(turns []telephony.CallTurn) []TranscriptEntry {
	entries := make([]TranscriptEntry, 0, len(turns))
	for _, turn := range turns {
		speaker := SpeakerCandidate
		if turn.Speaker == "ai" {
			speaker = SpeakerInterviewer
		}
		text := turn.Text
		if speaker == SpeakerCandidate && strings.TrimSpace(text) == "" {
			text = "(no answer given)"
		}
		entries = append(entries, TranscriptEntry{Speaker: speaker, Text: text})
	}
	return entries
}

func toPhoneFeedbackDTO(feedback *telephony.CallFeedback) *dto.PhoneFeedbackDTO {
	return &dto.PhoneFeedbackDTO{
		CallSID:              feedback.CallSID,
		Score:                feedback.Score,
		Strengths:            feedback.Strengths,
		Weaknesses:           feedback.Weaknesses,
		Recommendations:      feedback.Recommendations,
		CommunicationQuality: feedback.CommunicationQuality,
		GeneratedAt:          feedback.GeneratedAt,
	}
}
