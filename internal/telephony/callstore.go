package telephony

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCallSessionNotFound  = errors.New("call session not found")
	ErrCallFeedbackNotFound = errors.New("call feedback not found")
)

const (
	callSessionTTL  = time.Hour
	callFeedbackTTL = 24 * time.Hour
)

// CallTurn is one utterance in a phone interview, either side.
type CallTurn struct {
	Speaker    string    `json:"speaker"` // "ai" or "user"
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence,omitempty"`
	At         time.Time `json:"at"`
}

// CallSession is the state of one live phone interview, keyed by call id.
type CallSession struct {
	CallSID       string     `json:"call_sid"`
	Phone         string     `json:"phone"`
	Transcript    []CallTurn `json:"transcript"`
	QuestionCount int        `json:"question_count"`
	StartedAt     time.Time  `json:"started_at"`
}

// CallFeedback is the scored evaluation of a completed phone interview. It
// outlives the call session so the caller can fetch it after hanging up.
type CallFeedback struct {
	CallSID              string    `json:"call_sid"`
	Phone                string    `json:"phone"`
	Score                int       `json:"score"`
	Strengths            []string  `json:"strengths"`
	Weaknesses           []string  `json:"weaknesses"`
	Recommendations      []string  `json:"recommendations"`
	CommunicationQuality string    `json:"communication_quality"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// CallStore persists call sessions between webhook invocations, and the
// feedback produced once a call finishes. The webhook flow is stateless per
// request; everything it knows lives here.
type CallStore interface {
	Save(ctx context.Context, session *CallSession) error
	Find(ctx context.Context, callSID string) (*CallSession, error)
	Delete(ctx context.Context, callSID string) error
	SaveFeedback(ctx context.Context, feedback *CallFeedback) error
	FindFeedback(ctx context.Context, callSID string) (*CallFeedback, error)
}

type redisCallStore struct {
	client *redis.Client
}

func NewRedisCallStore(client *redis.Client) CallStore {
	return &redisCallStore{client: client}
}

func callKey(callSID string) string {
	return "phone:call:" + callSID
}

func (s *redisCallStore) Save(ctx context.Context, session *CallSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode call session: %w", err)
	}
	return s.client.Set(ctx, callKey(session.CallSID), payload, callSessionTTL).Err()
}

func (s *redisCallStore) Find(ctx context.Context, callSID string) (*CallSession, error) {
	payload, err := s.client.Get(ctx, callKey(callSID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCallSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session CallSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode call session: %w", err)
	}
	return &session, nil
}

func (s *redisCallStore) Delete(ctx context.Context, callSID string) error {
	return s.client.Del(ctx, callKey(callSID)).Err()
}

func feedbackKey(callSID string) string {
	return "phone:feedback:" + callSID
}

func (s *redisCallStore) SaveFeedback(ctx context.Context, feedback *CallFeedback) error {
	payload, err := json.Marshal(feedback)
	if err != nil {
		return fmt.Errorf("failed to encode call feedback: %w", err)
	}
	return s.client.Set(ctx, feedbackKey(feedback.CallSID), payload, callFeedbackTTL).Err()
}

func (s *redisCallStore) FindFeedback(ctx context.Context, callSID string) (*CallFeedback, error) {
	payload, err := s.client.Get(ctx, feedbackKey(callSID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCallFeedbackNotFound
	}
	if err != nil {
		return nil, err
	}
	var feedback CallFeedback
	if err := json.Unmarshal(payload, &feedback); err != nil {
		return nil, fmt.Errorf("failed to decode call feedback: %w", err)
	}
	return &feedback, nil
}
