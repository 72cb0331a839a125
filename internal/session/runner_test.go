package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireready/hireready/internal/proctor"
)

type recordingSink struct {
	mu       sync.Mutex
	answers  []PendingAnswer
	finished chan Snapshot
	viols    int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{finished: make(chan Snapshot, 1)}
}

func (s *recordingSink) PersistAnswer(_ Snapshot, answer PendingAnswer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, answer)
}

func (s *recordingSink) SessionFinished(snap Snapshot, violations int) {
	s.mu.Lock()
	s.viols = violations
	s.mu.Unlock()
	s.finished <- snap
}

func (s *recordingSink) answerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

type fixedDetector struct {
	faces []proctor.Face
}

func (d fixedDetector) Detect(context.Context) ([]proctor.Face, error) {
	return d.faces, nil
}

func baseline() []float64 {
	d := make([]float64, 128)
	return d
}

func intruders() []proctor.Face {
	return []proctor.Face{{Descriptor: baseline()}, {Descriptor: baseline()}}
}

func fastOpts() Options {
	return Options{TickInterval: 2 * time.Millisecond, SampleInterval: 2 * time.Millisecond}
}

func waitFinished(t *testing.T, sink *recordingSink) Snapshot {
	t.Helper()
	select {
	case snap := <-sink.finished:
		return snap
	case <-time.After(5 * time.Second):
		t.Fatal("session never finished")
		return Snapshot{}
	}
}

func TestRunnerCompletesWhenAllTimersExpire(t *testing.T) {
	now := time.Now()
	machine := NewMachine("s1", 1, "u1", []Question{
		{ID: "Q1", Text: "a", TimeLimitSec: 2},
		{ID: "Q2", Text: "b", TimeLimitSec: 2},
		{ID: "Q3", Text: "c", TimeLimitSec: 2},
	}, now)
	sink := newRecordingSink()
	monitor := proctor.NewDisabledMonitor()

	runner := NewRunner(machine, monitor, nil, sink, fastOpts(), nil)
	runner.Start()

	snap := waitFinished(t, sink)
	assert.Equal(t, PhaseComplete, snap.Phase)
	assert.False(t, snap.Terminated)
	assert.Equal(t, 3, sink.answerCount())
	assert.Equal(t, 0, sink.viols)
}

func TestRunnerTerminatesOnViolationLimit(t *testing.T) {
	now := time.Now()
	machine := NewMachine("s1", 1, "u1", []Question{
		{ID: "Q1", Text: "a", TimeLimitSec: 3600},
	}, now)
	sink := newRecordingSink()
	monitor := proctor.NewMonitor(proctor.Policy{DistanceThreshold: 0.6, ViolationLimit: 3}, baseline())

	runner := NewRunner(machine, monitor, fixedDetector{faces: intruders()}, sink, fastOpts(), nil)
	runner.Start()

	snap := waitFinished(t, sink)
	assert.Equal(t, PhaseComplete, snap.Phase)
	assert.True(t, snap.Terminated)
	assert.Equal(t, 0, sink.answerCount())
	assert.GreaterOrEqual(t, sink.viols, 3)
}

func TestTerminationPrecedenceOverAdvance(t *testing.T) {
	// The violation limit is reached in the same evaluation cycle in which
	// the question timer would expire: the session must terminate, not
	// advance to the next question.
	now := time.Now()
	machine := NewMachine("s1", 1, "u1", []Question{
		{ID: "Q1", Text: "a", TimeLimitSec: 1},
		{ID: "Q2", Text: "b", TimeLimitSec: 60},
	}, now)
	sink := newRecordingSink()
	monitor := proctor.NewMonitor(proctor.Policy{DistanceThreshold: 0.6, ViolationLimit: 3}, baseline())
	for i := 0; i < 3; i++ {
		monitor.Sample(intruders())
	}
	require.True(t, monitor.LimitReached())

	runner := NewRunner(machine, monitor, nil, sink, fastOpts(), nil)
	runner.handleTick(now.Add(time.Second))

	snap := waitFinished(t, sink)
	assert.True(t, snap.Terminated)
	assert.Equal(t, 0, snap.QuestionIndex, "must not advance to Running(next)")
	assert.Equal(t, 0, sink.answerCount())
}

func TestRunnerSubmitFlow(t *testing.T) {
	now := time.Now()
	machine := NewMachine("s1", 7, "u1", []Question{
		{ID: "Q1", Text: "a", TimeLimitSec: 3600},
		{ID: "Q2", Text: "b", TimeLimitSec: 3600},
	}, now)
	sink := newRecordingSink()
	runner := NewRunner(machine, proctor.NewDisabledMonitor(), nil, sink, fastOpts(), nil)
	runner.Start()

	require.NoError(t, runner.PushFragment(0, "this answer is comfortably longer than thirty characters"))
	require.NoError(t, runner.Submit())
	assert.Equal(t, 1, sink.answerCount())

	require.NoError(t, runner.PushFragment(1, "and a second answer that is also long enough to pass the gate"))
	require.NoError(t, runner.Submit())

	snap := waitFinished(t, sink)
	assert.Equal(t, PhaseComplete, snap.Phase)
	assert.Equal(t, 2, sink.answerCount())
}

func TestRunnerStaleSampleDiscarded(t *testing.T) {
	now := time.Now()
	machine := NewMachine("s1", 7, "u1", []Question{
		{ID: "Q1", Text: "a", TimeLimitSec: 3600},
		{ID: "Q2", Text: "b", TimeLimitSec: 3600},
	}, now)
	sink := newRecordingSink()
	monitor := proctor.NewMonitor(proctor.Policy{DistanceThreshold: 0.6, ViolationLimit: 3}, baseline())
	runner := NewRunner(machine, monitor, nil, sink, fastOpts(), nil)
	runner.Start()

	require.NoError(t, runner.PushFragment(0, "this answer is comfortably longer than thirty characters"))
	require.NoError(t, runner.Advance())

	// A detection result sampled for question 0 lands after the advance.
	require.NoError(t, runner.PushSample(0, intruders()))

	snap, violations, err := runner.State()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.QuestionIndex)
	assert.Equal(t, 0, violations)

	require.NoError(t, runner.End())
	waitFinished(t, sink)
}

func TestRunnerRejectsAfterFinish(t *testing.T) {
	now := time.Now()
	machine := NewMachine("s1", 7, "u1", []Question{
		{ID: "Q1", Text: "a", TimeLimitSec: 3600},
	}, now)
	sink := newRecordingSink()
	runner := NewRunner(machine, proctor.NewDisabledMonitor(), nil, sink, fastOpts(), nil)
	runner.Start()

	require.NoError(t, runner.End())
	waitFinished(t, sink)

	assert.ErrorIs(t, runner.Submit(), ErrSessionNotRunning)
	assert.ErrorIs(t, runner.PushFragment(0, "late"), ErrSessionNotRunning)
}

func TestManagerSingleActiveSessionPerUser(t *testing.T) {
	mgr := NewManager()
	now := time.Now()
	sink := newRecordingSink()

	m1 := NewMachine("s1", 1, "u1", []Question{{ID: "Q1", Text: "a", TimeLimitSec: 3600}}, now)
	r1, err := mgr.Start(m1, proctor.NewDisabledMonitor(), nil, sink, fastOpts())
	require.NoError(t, err)

	m2 := NewMachine("s2", 1, "u1", []Question{{ID: "Q1", Text: "a", TimeLimitSec: 3600}}, now)
	_, err = mgr.Start(m2, proctor.NewDisabledMonitor(), nil, sink, fastOpts())
	assert.ErrorIs(t, err, ErrSessionActive)

	got, err := mgr.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, r1, got)

	// Finishing the first session frees the user for another attempt.
	require.NoError(t, r1.End())
	waitFinished(t, sink)

	// The runner removes itself synchronously inside apply, so a fresh start
	// succeeds once the finished signal has been observed.
	m3 := NewMachine("s3", 1, "u1", []Question{{ID: "Q1", Text: "a", TimeLimitSec: 3600}}, now)
	r3, err := mgr.Start(m3, proctor.NewDisabledMonitor(), nil, sink, fastOpts())
	require.NoError(t, err)
	require.NoError(t, r3.End())
	waitFinished(t, sink)

	_, err = mgr.Get("s2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
