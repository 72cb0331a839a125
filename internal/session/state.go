// Package session hosts the runtime for one interview attempt: an explicit
// state machine driven by a countdown tick, presence-monitor samples and
// speech-transcript delivery. Transitions return the effects to perform
// (persist an answer, invoke feedback, cancel timers) instead of performing
// them, so the machine itself needs no timers, no storage and no locks to
// test.
package session

import (
	"errors"
	"strings"
	"time"
)

// MinAnswerLength is the minimum trimmed transcript length an explicit
// submit will accept. Timeouts bypass the gate and record whatever exists.
const MinAnswerLength = 30

var (
	ErrSessionNotRunning = errors.New("session is not running")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionActive     = errors.New("user already has an active session")
	ErrAnswerTooShort    = errors.New("answer must be at least 30 characters")
)

// Phase is the coarse state of a session.
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseComplete
)

func (p Phase) String() string {
	if p == PhaseComplete {
		return "complete"
	}
	return "running"
}

type EffectKind int

const (
	// EffectPersistAnswer writes the attached answer immediately.
	EffectPersistAnswer EffectKind = iota
	// EffectInvokeFeedback requests feedback generation for whatever answers
	// exist; emitted exactly once, on completion or termination.
	EffectInvokeFeedback
	// EffectCancelTimers tears down the tick and sample timers.
	EffectCancelTimers
)

type Effect struct {
	Kind   EffectKind
	Answer *PendingAnswer
}

// PendingAnswer is an accepted response waiting to be persisted.
type PendingAnswer struct {
	QuestionIndex int
	QuestionID    string
	QuestionText  string
	Text          string
	TimeTakenSec  int
	TimedOut      bool
}

// Question is the slice of an interview question the session needs.
type Question struct {
	ID           string
	Text         string
	TimeLimitSec int
}

// Machine is the per-session state machine. All methods must be called from a
// single goroutine; the Runner serializes access.
type Machine struct {
	sessionID   string
	interviewID uint
	userID      string
	questions   []Question

	phase         Phase
	index         int
	remaining     int
	questionStart time.Time
	startedAt     time.Time
	terminated    bool

	fragments []string
	answers   []PendingAnswer
}

func NewMachine(sessionID string, interviewID uint, userID string, questions []Question, now time.Time) *Machine {
	m := &Machine{
		sessionID:   sessionID,
		interviewID: interviewID,
		userID:      userID,
		questions:   questions,
		phase:       PhaseRunning,
		startedAt:   now,
	}
	m.enterQuestion(0, now)
	return m
}

func (m *Machine) enterQuestion(index int, now time.Time) {
	m.index = index
	m.remaining = m.questions[index].TimeLimitSec
	m.questionStart = now
	m.fragments = nil
}

// Tick advances the one-second countdown. Reaching zero forces the same
// transition as a manual advance: the current transcript, however short, is
// accepted as-is.
func (m *Machine) Tick(now time.Time) []Effect {
	if m.phase != PhaseRunning {
		return nil
	}
	m.remaining--
	if m.remaining > 0 {
		return nil
	}
	m.remaining = 0
	return m.acceptAndAdvance(now, true)
}

// AppendFragment adds a speech-to-text result for the question at index.
// Results that arrive after that question has advanced are discarded rather
// than applied to the new question's transcript.
func (m *Machine) AppendFragment(index int, text string) {
	if m.phase != PhaseRunning || index != m.index {
		return
	}
	m.fragments = append(m.fragments, text)
}

// Submit records the current transcript as the answer for the active
// question, enforcing the minimum length, then advances (or completes on the
// last question).
func (m *Machine) Submit(now time.Time) ([]Effect, error) {
	if m.phase != PhaseRunning {
		return nil, ErrSessionNotRunning
	}
	if len(strings.TrimSpace(m.transcriptText())) < MinAnswerLength {
		return nil, ErrAnswerTooShort
	}
	return m.acceptAndAdvance(now, false), nil
}

// Advance moves to the next question, accepting whatever transcript exists
// without the length gate. On the last question advancing means finalizing.
func (m *Machine) Advance(now time.Time) ([]Effect, error) {
	if m.phase != PhaseRunning {
		return nil, ErrSessionNotRunning
	}
	return m.acceptAndAdvance(now, false), nil
}

func (m *Machine) acceptAndAdvance(now time.Time, timedOut bool) []Effect {
	q := m.questions[m.index]
	answer := PendingAnswer{
		QuestionIndex: m.index,
		QuestionID:    q.ID,
		QuestionText:  q.Text,
		Text:          strings.TrimSpace(m.transcriptText()),
		TimeTakenSec:  int(now.Sub(m.questionStart) / time.Second),
		TimedOut:      timedOut,
	}
	m.answers = append(m.answers, answer)

	effects := []Effect{{Kind: EffectPersistAnswer, Answer: &answer}}

	if m.index >= len(m.questions)-1 {
		m.phase = PhaseComplete
		m.fragments = nil
		return append(effects,
			Effect{Kind: EffectCancelTimers},
			Effect{Kind: EffectInvokeFeedback},
		)
	}

	m.enterQuestion(m.index+1, now)
	return effects
}

// ForceTerminate ends the session because the violation limit was reached.
// The in-progress transcript is discarded; feedback runs on the answers that
// already exist.
func (m *Machine) ForceTerminate(now time.Time) []Effect {
	if m.phase != PhaseRunning {
		return nil
	}
	m.phase = PhaseComplete
	m.terminated = true
	m.fragments = nil
	return []Effect{
		{Kind: EffectCancelTimers},
		{Kind: EffectInvokeFeedback},
	}
}

// End finishes the session early at the user's request, keeping recorded
// answers and requesting feedback on them.
func (m *Machine) End(now time.Time) []Effect {
	if m.phase != PhaseRunning {
		return nil
	}
	m.phase = PhaseComplete
	m.fragments = nil
	return []Effect{
		{Kind: EffectCancelTimers},
		{Kind: EffectInvokeFeedback},
	}
}

func (m *Machine) transcriptText() string {
	return strings.Join(m.fragments, " ")
}

type Snapshot struct {
	SessionID        string
	InterviewID      uint
	UserID           string
	Phase            Phase
	Terminated       bool
	QuestionIndex    int
	TimeRemainingSec int
	TranscriptLength int
	AnswerCount      int
	StartedAt        time.Time
}

func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		SessionID:        m.sessionID,
		InterviewID:      m.interviewID,
		UserID:           m.userID,
		Phase:            m.phase,
		Terminated:       m.terminated,
		QuestionIndex:    m.index,
		TimeRemainingSec: m.remaining,
		TranscriptLength: len(m.transcriptText()),
		AnswerCount:      len(m.answers),
		StartedAt:        m.startedAt,
	}
}

func (m *Machine) Answers() []PendingAnswer { return m.answers }
