package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireready/hireready/internal/model"
)

type fakeAnswerRepo struct {
	answers []model.UserAnswer
}

func (f *fakeAnswerRepo) Create(answer *model.UserAnswer) error {
	f.answers = append(f.answers, *answer)
	return nil
}

func (f *fakeAnswerRepo) FindBySessionID(string) ([]model.UserAnswer, error) {
	return f.answers, nil
}

type fakeLLM struct {
	questions  []GeneratedQuestion
	feedback   *FeedbackResult
	reply      string
	err        error
	transcript []TranscriptEntry
}

func (f *fakeLLM) GenerateQuestions(context.Context, GenerationRequest) ([]GeneratedQuestion, error) {
	return f.questions, f.err
}

func (f *fakeLLM) GenerateFeedback(_ context.Context, transcript []TranscriptEntry) (*FeedbackResult, error) {
	f.transcript = transcript
	return f.feedback, f.err
}

func (f *fakeLLM) MentorReply(context.Context, string) (string, error) {
	return f.reply, f.err
}

func validFeedback() *FeedbackResult {
	return &FeedbackResult{
		Score:                72,
		Strengths:            []string{"clear", "structured", "calm"},
		Weaknesses:           []string{"depth", "examples", "pacing"},
		Recommendations:      []string{"practice", "read", "mock"},
		CommunicationQuality: model.CommQualityGood,
	}
}

func TestBuildTranscriptInterleaves(t *testing.T) {
	answers := []model.UserAnswer{
		{QuestionText: "What is a goroutine?", UserAnswer: "A lightweight thread managed by the runtime."},
		{QuestionText: "Explain channels.", UserAnswer: ""},
	}
	transcript := BuildTranscript(answers)
	require.Len(t, transcript, 4)
	assert.Equal(t, SpeakerInterviewer, transcript[0].Speaker)
	assert.Equal(t, "What is a goroutine?", transcript[0].Text)
	assert.Equal(t, SpeakerCandidate, transcript[1].Speaker)
	assert.Equal(t, SpeakerInterviewer, transcript[2].Speaker)
	assert.Equal(t, "(no answer given)", transcript[3].Text)
}

func TestGenerateForSessionPersistsFeedback(t *testing.T) {
	record := &model.SessionRecord{ID: 9, SessionID: "s1", Status: model.SessionStatusCompleted}
	sessions := &fakeSessionRepo{bySessID: map[string]*model.SessionRecord{"s1": record}}
	answers := &fakeAnswerRepo{answers: []model.UserAnswer{{QuestionText: "Q", UserAnswer: "A"}}}
	llm := &fakeLLM{feedback: validFeedback()}

	svc := NewFeedbackService(sessions, answers, nil, llm)
	result, err := svc.GenerateForSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 72, result.Score)

	require.Len(t, sessions.saved, 1)
	assert.Equal(t, uint(9), sessions.saved[0].SessionRecordID)
	assert.Equal(t, model.CommQualityGood, sessions.saved[0].CommunicationQuality)
	assert.Len(t, llm.transcript, 2)
}

func TestGenerateForSessionAlreadyExists(t *testing.T) {
	record := &model.SessionRecord{ID: 9, SessionID: "s1", Feedback: &model.Feedback{Score: 50}}
	sessions := &fakeSessionRepo{bySessID: map[string]*model.SessionRecord{"s1": record}}

	svc := NewFeedbackService(sessions, &fakeAnswerRepo{}, nil, &fakeLLM{})
	_, err := svc.GenerateForSession(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrFeedbackExists)
	assert.Empty(t, sessions.saved)
}

func TestGenerateForSessionLLMFailureLeavesRecordRetryable(t *testing.T) {
	record := &model.SessionRecord{ID: 9, SessionID: "s1"}
	sessions := &fakeSessionRepo{bySessID: map[string]*model.SessionRecord{"s1": record}}
	llm := &fakeLLM{err: ErrMalformedFeedback}

	svc := NewFeedbackService(sessions, &fakeAnswerRepo{}, nil, llm)
	_, err := svc.GenerateForSession(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrMalformedFeedback)
	assert.Empty(t, sessions.saved)

	// A retry after the provider recovers succeeds.
	llm.err = nil
	llm.feedback = validFeedback()
	result, err := svc.GenerateForSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 72, result.Score)
}

func TestGetSessionResultIncludesFeedback(t *testing.T) {
	record := &model.SessionRecord{
		SessionID:      "s1",
		InterviewID:    4,
		Status:         model.SessionStatusTerminated,
		ViolationCount: 3,
		AnswerCount:    2,
		Feedback:       &model.Feedback{Score: 61, CommunicationQuality: model.CommQualityFair},
	}
	sessions := &fakeSessionRepo{bySessID: map[string]*model.SessionRecord{"s1": record}}

	svc := NewFeedbackService(sessions, &fakeAnswerRepo{}, nil, &fakeLLM{})
	result, err := svc.GetSessionResult("s1")
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusTerminated, result.Status)
	assert.Equal(t, 3, result.ViolationCount)
	require.NotNil(t, result.Feedback)
	assert.Equal(t, 61, result.Feedback.Score)
}

func TestValidateFeedbackResult(t *testing.T) {
	result := validFeedback()
	require.NoError(t, ValidateFeedbackResult(result))

	bad := *result
	bad.Score = 101
	assert.Error(t, ValidateFeedbackResult(&bad))

	bad = *result
	bad.Strengths = []string{"only", "two"}
	assert.Error(t, ValidateFeedbackResult(&bad))

	bad = *result
	bad.CommunicationQuality = "Superb"
	assert.Error(t, ValidateFeedbackResult(&bad))
}
