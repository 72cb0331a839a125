// Package proctor implements face-presence monitoring for active interview
// sessions: a baseline descriptor captured before the session starts, and
// periodic samples checked against it. Detection itself runs elsewhere (on
// client devices or a detection service); this package only applies policy to
// the descriptors it is handed.
package proctor

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNoFace and ErrMultipleFaces are retryable baseline-capture failures.
	ErrNoFace        = errors.New("no face detected")
	ErrMultipleFaces = errors.New("more than one face detected")
	// ErrCameraTimeout means the camera never became ready within the bound.
	ErrCameraTimeout = errors.New("camera not ready")
)

// Face is one detected face with its normalized embedding descriptor.
type Face struct {
	Descriptor []float64
}

// Policy is deployment configuration, not hard-coded law: the distance above
// which a single face counts as a different person, and the violation count
// that forces termination.
type Policy struct {
	DistanceThreshold float64
	ViolationLimit    int
}

// DefaultPolicy matches the values the product shipped with.
var DefaultPolicy = Policy{DistanceThreshold: 0.6, ViolationLimit: 3}

// Source delivers detection frames during baseline capture.
type Source interface {
	// Frame returns the faces visible right now. ready is false while the
	// camera is still warming up.
	Frame(ctx context.Context) (faces []Face, ready bool, err error)
}

const readyPollInterval = 100 * time.Millisecond

// CaptureBaseline waits for the source to become ready (bounded by wait) and
// samples it once. Exactly one face must be visible.
func CaptureBaseline(ctx context.Context, src Source, wait time.Duration) ([]float64, error) {
	deadline := time.Now().Add(wait)
	for {
		faces, ready, err := src.Frame(ctx)
		if err != nil {
			return nil, err
		}
		if ready {
			return BaselineFromFaces(faces)
		}
		if time.Now().After(deadline) {
			return nil, ErrCameraTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(readyPollInterval):
		}
	}
}

// BaselineFromFaces validates a single capture result.
func BaselineFromFaces(faces []Face) ([]float64, error) {
	switch len(faces) {
	case 0:
		return nil, ErrNoFace
	case 1:
		return faces[0].Descriptor, nil
	default:
		return nil, ErrMultipleFaces
	}
}

// Monitor counts presence violations over one session. Violations accumulate
// for the session's lifetime and are never reset.
type Monitor struct {
	policy     Policy
	baseline   []float64
	violations int
	enabled    bool
}

func NewMonitor(policy Policy, baseline []float64) *Monitor {
	if policy.ViolationLimit <= 0 {
		policy.ViolationLimit = DefaultPolicy.ViolationLimit
	}
	if policy.DistanceThreshold <= 0 {
		policy.DistanceThreshold = DefaultPolicy.DistanceThreshold
	}
	return &Monitor{policy: policy, baseline: baseline, enabled: baseline != nil}
}

// NewDisabledMonitor is the fail-open path for sessions whose detection model
// could not be loaded: the interview proceeds unmonitored.
func NewDisabledMonitor() *Monitor {
	log.Warn().Msg("Presence monitoring disabled for session")
	return &Monitor{policy: DefaultPolicy, enabled: false}
}

func (m *Monitor) Enabled() bool { return m.enabled }

// Sample applies one detection result. More than one face is a violation; a
// single face farther than the threshold from the baseline is a violation.
// Returns true when this sample incremented the counter.
func (m *Monitor) Sample(faces []Face) bool {
	if !m.enabled {
		return false
	}
	switch {
	case len(faces) > 1:
		m.violations++
		log.Warn().Int("faces", len(faces)).Int("violations", m.violations).Msg("Presence violation: multiple faces")
		return true
	case len(faces) == 1:
		d := euclideanDistance(m.baseline, faces[0].Descriptor)
		if d > m.policy.DistanceThreshold {
			m.violations++
			log.Warn().Float64("distance", d).Int("violations", m.violations).Msg("Presence violation: different person")
			return true
		}
	}
	return false
}

func (m *Monitor) Violations() int { return m.violations }

func (m *Monitor) LimitReached() bool {
	return m.enabled && m.violations >= m.policy.ViolationLimit
}

func euclideanDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
