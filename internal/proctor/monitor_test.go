package proctor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptor(v float64) []float64 {
	d := make([]float64, 128)
	for i := range d {
		d[i] = v
	}
	return d
}

func TestBaselineFromFaces(t *testing.T) {
	_, err := BaselineFromFaces(nil)
	assert.True(t, errors.Is(err, ErrNoFace))

	base, err := BaselineFromFaces([]Face{{Descriptor: descriptor(0.1)}})
	require.NoError(t, err)
	assert.Equal(t, descriptor(0.1), base)

	_, err = BaselineFromFaces([]Face{{Descriptor: descriptor(0.1)}, {Descriptor: descriptor(0.2)}})
	assert.True(t, errors.Is(err, ErrMultipleFaces))
}

type staticSource struct {
	faces []Face
	ready bool
}

func (s staticSource) Frame(context.Context) ([]Face, bool, error) {
	return s.faces, s.ready, nil
}

func TestCaptureBaselineTimeout(t *testing.T) {
	src := staticSource{ready: false}
	_, err := CaptureBaseline(context.Background(), src, 150*time.Millisecond)
	assert.True(t, errors.Is(err, ErrCameraTimeout))
}

func TestCaptureBaselineReady(t *testing.T) {
	src := staticSource{ready: true, faces: []Face{{Descriptor: descriptor(0.5)}}}
	base, err := CaptureBaseline(context.Background(), src, time.Second)
	require.NoError(t, err)
	assert.Equal(t, descriptor(0.5), base)
}

func TestSampleMultipleFaces(t *testing.T) {
	m := NewMonitor(DefaultPolicy, descriptor(0.1))
	violated := m.Sample([]Face{{Descriptor: descriptor(0.1)}, {Descriptor: descriptor(0.9)}})
	assert.True(t, violated)
	assert.Equal(t, 1, m.Violations())
}

func TestSampleDifferentPerson(t *testing.T) {
	m := NewMonitor(DefaultPolicy, descriptor(0.0))

	// Same person: small distance, no violation.
	assert.False(t, m.Sample([]Face{{Descriptor: descriptor(0.01)}}))
	assert.Equal(t, 0, m.Violations())

	// Different person: distance well over the threshold.
	assert.True(t, m.Sample([]Face{{Descriptor: descriptor(1.0)}}))
	assert.Equal(t, 1, m.Violations())
}

func TestSampleZeroFacesNoViolation(t *testing.T) {
	m := NewMonitor(DefaultPolicy, descriptor(0.0))
	assert.False(t, m.Sample(nil))
	assert.Equal(t, 0, m.Violations())
}

func TestViolationsAccumulateToLimit(t *testing.T) {
	m := NewMonitor(Policy{DistanceThreshold: 0.6, ViolationLimit: 3}, descriptor(0.0))
	intruders := []Face{{Descriptor: descriptor(0.0)}, {Descriptor: descriptor(0.0)}}

	m.Sample(intruders)
	m.Sample(intruders)
	assert.False(t, m.LimitReached())
	m.Sample(intruders)
	assert.True(t, m.LimitReached())

	// Counter keeps going, never resets.
	m.Sample(intruders)
	assert.Equal(t, 4, m.Violations())
}

func TestDisabledMonitorFailsOpen(t *testing.T) {
	m := NewDisabledMonitor()
	intruders := []Face{{Descriptor: descriptor(0.0)}, {Descriptor: descriptor(0.0)}}
	for i := 0; i < 10; i++ {
		assert.False(t, m.Sample(intruders))
	}
	assert.False(t, m.LimitReached())
	assert.False(t, m.Enabled())
}
