package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/internal/proctor"
)

// Detector asynchronously samples the candidate's video feed. Detection is
// remote or device-bound I/O; results may land after the question they were
// sampled for has advanced, so every result carries the index it sampled.
type Detector interface {
	Detect(ctx context.Context) ([]proctor.Face, error)
}

// Sink receives the machine's side effects. Answers are persisted
// immediately, not batched; SessionFinished fires exactly once.
type Sink interface {
	PersistAnswer(snap Snapshot, answer PendingAnswer)
	SessionFinished(snap Snapshot, violations int)
}

// Options tune the periodic work. Zero values fall back to the production
// cadence of a 1s tick and a 3s presence sample.
type Options struct {
	TickInterval   time.Duration
	SampleInterval time.Duration
}

type request struct {
	fn    func(now time.Time) error
	reply chan error
}

type sampleResult struct {
	index int
	faces []proctor.Face
}

// Runner drives one Machine: a single goroutine selects over the countdown
// tick, presence samples and API requests, so every mutation of session state
// is serialized without locks.
type Runner struct {
	machine  *Machine
	monitor  *proctor.Monitor
	detector Detector
	sink     Sink
	opts     Options

	reqs    chan request
	samples chan sampleResult
	done    chan struct{}
	onDone  func(snap Snapshot)
}

func NewRunner(machine *Machine, monitor *proctor.Monitor, detector Detector, sink Sink, opts Options, onDone func(Snapshot)) *Runner {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = 3 * time.Second
	}
	return &Runner{
		machine:  machine,
		monitor:  monitor,
		detector: detector,
		sink:     sink,
		opts:     opts,
		reqs:     make(chan request),
		samples:  make(chan sampleResult, 4),
		done:     make(chan struct{}),
		onDone:   onDone,
	}
}

func (r *Runner) Start() {
	go r.loop()
}

func (r *Runner) loop() {
	ticker := time.NewTicker(r.opts.TickInterval)
	defer ticker.Stop()
	sampler := time.NewTicker(r.opts.SampleInterval)
	defer sampler.Stop()

	for {
		select {
		case <-r.done:
			return

		case now := <-ticker.C:
			r.handleTick(now)

		case <-sampler.C:
			if r.detector == nil || !r.monitor.Enabled() {
				continue
			}
			snap := r.machine.Snapshot()
			if snap.Phase != PhaseRunning {
				continue
			}
			go r.detect(snap.QuestionIndex)

		case s := <-r.samples:
			r.applySample(s)

		case req := <-r.reqs:
			req.reply <- req.fn(time.Now())
		}
	}
}

// handleTick runs one evaluation cycle. Termination takes precedence over
// advance: a violation limit reached in the same cycle as a timer expiry
// terminates the session instead of moving to the next question.
func (r *Runner) handleTick(now time.Time) {
	if r.monitor.LimitReached() {
		r.apply(r.machine.ForceTerminate(now), now)
		return
	}
	r.apply(r.machine.Tick(now), now)
}

func (r *Runner) detect(index int) {
	faces, err := r.detector.Detect(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("Presence detection failed")
		return
	}
	select {
	case r.samples <- sampleResult{index: index, faces: faces}:
	case <-r.done:
	}
}

func (r *Runner) applySample(s sampleResult) {
	snap := r.machine.Snapshot()
	if snap.Phase != PhaseRunning || s.index != snap.QuestionIndex {
		// Late result for a question that has already advanced.
		return
	}
	if r.monitor.Sample(s.faces) && r.monitor.LimitReached() {
		now := time.Now()
		r.apply(r.machine.ForceTerminate(now), now)
	}
}

func (r *Runner) apply(effects []Effect, now time.Time) {
	finished := false
	feedback := false
	for _, e := range effects {
		switch e.Kind {
		case EffectPersistAnswer:
			r.sink.PersistAnswer(r.machine.Snapshot(), *e.Answer)
		case EffectInvokeFeedback:
			feedback = true
		case EffectCancelTimers:
			finished = true
		}
	}
	if finished {
		// Release the session slot before kicking off feedback so the user
		// can start a new session while feedback is being generated.
		close(r.done)
		if r.onDone != nil {
			r.onDone(r.machine.Snapshot())
		}
	}
	if feedback {
		r.sink.SessionFinished(r.machine.Snapshot(), r.monitor.Violations())
	}
}

func (r *Runner) do(fn func(now time.Time) error) error {
	req := request{fn: fn, reply: make(chan error, 1)}
	select {
	case r.reqs <- req:
		return <-req.reply
	case <-r.done:
		return ErrSessionNotRunning
	}
}

// PushFragment delivers a speech-to-text result for the question at index.
func (r *Runner) PushFragment(index int, text string) error {
	return r.do(func(time.Time) error {
		r.machine.AppendFragment(index, text)
		return nil
	})
}

// PushSample delivers a client-side presence sample for the question at
// index. Stale indexes are discarded, matching detector-driven sampling.
func (r *Runner) PushSample(index int, faces []proctor.Face) error {
	return r.do(func(time.Time) error {
		r.applySample(sampleResult{index: index, faces: faces})
		return nil
	})
}

func (r *Runner) Submit() error {
	return r.do(func(now time.Time) error {
		effects, err := r.machine.Submit(now)
		if err != nil {
			return err
		}
		r.apply(effects, now)
		return nil
	})
}

func (r *Runner) Advance() error {
	return r.do(func(now time.Time) error {
		effects, err := r.machine.Advance(now)
		if err != nil {
			return err
		}
		r.apply(effects, now)
		return nil
	})
}

func (r *Runner) End() error {
	return r.do(func(now time.Time) error {
		r.apply(r.machine.End(now), now)
		return nil
	})
}

// State returns a snapshot of the live session.
func (r *Runner) State() (Snapshot, int, error) {
	var snap Snapshot
	var violations int
	err := r.do(func(time.Time) error {
		snap = r.machine.Snapshot()
		violations = r.monitor.Violations()
		return nil
	})
	return snap, violations, err
}
