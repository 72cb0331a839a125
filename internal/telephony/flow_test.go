package telephony

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCallStore(t *testing.T) CallStore {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCallStore(client)
}

func TestHandleVoiceStartsSession(t *testing.T) {
	store := setupCallStore(t)
	flow := NewFlow(store, nil)
	ctx := context.Background()

	response := flow.HandleVoice(ctx, "CA1", "client:interviewee_u1")
	assert.Contains(t, response, "Welcome to your HireReady phone interview")
	assert.Contains(t, response, phoneQuestions[0])
	assert.Contains(t, response, "<Gather")

	session, err := store.Find(ctx, "CA1")
	require.NoError(t, err)
	assert.Equal(t, 0, session.QuestionCount)
	require.Len(t, session.Transcript, 1)
	assert.Equal(t, "ai", session.Transcript[0].Speaker)
}

func TestHandleVoiceRepeatedCallbackReprompts(t *testing.T) {
	store := setupCallStore(t)
	flow := NewFlow(store, nil)
	ctx := context.Background()

	flow.HandleVoice(ctx, "CA1", "client:interviewee_u1")
	response := flow.HandleVoice(ctx, "CA1", "client:interviewee_u1")
	assert.Contains(t, response, "continue with your answer")
	assert.NotContains(t, response, greeting)
}

func TestHandleAnswerProgressesThroughQuestions(t *testing.T) {
	store := setupCallStore(t)
	flow := NewFlow(store, nil)
	ctx := context.Background()

	flow.HandleVoice(ctx, "CA1", "client:interviewee_u1")

	var response string
	for i := 0; i < phoneQuestionLimit; i++ {
		response = flow.HandleAnswer(ctx, AnswerInput{
			CallSID:      "CA1",
			SpeechResult: fmt.Sprintf("answer number %d", i+1),
			Confidence:   "0.91",
		})
		if i < phoneQuestionLimit-1 {
			assert.Contains(t, response, phoneQuestions[i+1])
			assert.Contains(t, response, "<Gather")
		}
	}

	// Final answer ends the call.
	assert.Contains(t, response, "Thank you for completing the mock interview")
	assert.Contains(t, response, "<Hangup/>")
	assert.False(t, strings.Contains(response, "<Gather"))

	_, err := store.Find(ctx, "CA1")
	assert.ErrorIs(t, err, ErrCallSessionNotFound)
}

type recordingSink struct {
	completed []*CallSession
}

func (r *recordingSink) CallCompleted(session *CallSession) {
	r.completed = append(r.completed, session)
}

func TestCompletedCallHandsTranscriptToSink(t *testing.T) {
	store := setupCallStore(t)
	sink := &recordingSink{}
	flow := NewFlow(store, sink)
	ctx := context.Background()

	flow.HandleVoice(ctx, "CA1", "client:interviewee_u1")
	for i := 0; i < phoneQuestionLimit; i++ {
		flow.HandleAnswer(ctx, AnswerInput{
			CallSID:      "CA1",
			SpeechResult: fmt.Sprintf("answer number %d", i+1),
			Confidence:   "0.9",
		})
	}

	require.Len(t, sink.completed, 1)
	session := sink.completed[0]
	assert.Equal(t, "CA1", session.CallSID)
	// Every question and every answer, including the final one.
	assert.Len(t, session.Transcript, 2*phoneQuestionLimit)
	last := session.Transcript[len(session.Transcript)-1]
	assert.Equal(t, "user", last.Speaker)
	assert.Equal(t, fmt.Sprintf("answer number %d", phoneQuestionLimit), last.Text)
}

func TestHandleAnswerRecordsConfidence(t *testing.T) {
	store := setupCallStore(t)
	flow := NewFlow(store, nil)
	ctx := context.Background()

	flow.HandleVoice(ctx, "CA1", "client:interviewee_u1")
	flow.HandleAnswer(ctx, AnswerInput{CallSID: "CA1", SpeechResult: "I am a Go developer.", Confidence: "0.87"})

	session, err := store.Find(ctx, "CA1")
	require.NoError(t, err)
	// ai question, user answer, next ai question.
	require.Len(t, session.Transcript, 3)
	assert.Equal(t, "user", session.Transcript[1].Speaker)
	assert.Equal(t, "I am a Go developer.", session.Transcript[1].Text)
	assert.InDelta(t, 0.87, session.Transcript[1].Confidence, 0.001)
}

func TestHandleAnswerUnknownCall(t *testing.T) {
	flow := NewFlow(setupCallStore(t), nil)
	response := flow.HandleAnswer(context.Background(), AnswerInput{CallSID: "CA-missing", SpeechResult: "hello"})
	assert.Contains(t, response, "Session expired")
	assert.Contains(t, response, "<Hangup/>")
}

func TestHandleStatusCompletedCleansUp(t *testing.T) {
	store := setupCallStore(t)
	flow := NewFlow(store, nil)
	ctx := context.Background()

	flow.HandleVoice(ctx, "CA1", "client:interviewee_u1")
	flow.HandleStatus(ctx, "CA1", "completed", "310")

	_, err := store.Find(ctx, "CA1")
	assert.ErrorIs(t, err, ErrCallSessionNotFound)
}
