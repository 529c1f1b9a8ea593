// Package param turns control-thread parameter changes into per-sample
// ramps the audio thread can advance without locks, and hosts the
// lock-free per-track target manager that feeds it.
package param

import "math"

const (
	// DefaultSmoothingMs is the smoothing time used when a track hasn't
	// been configured explicitly.
	DefaultSmoothingMs = 1.5
	// MinSmoothingMs and MaxSmoothingMs bound SetSmoothingTime.
	MinSmoothingMs = 0.5
	MaxSmoothingMs = 10.0
	// epsilon is the convergence threshold below which a smoother snaps
	// to its target and stops ramping.
	epsilon = 1e-6
)

// Smoother ramps a single scalar value toward a target over a configured
// time constant, avoiding the zipper noise an instant jump would cause.
// It is audio-thread-only state: the struct carries no synchronization
// of its own, by protocol only one goroutine ever calls its methods for
// a given instance (enforced by Manager, not by a lock).
type Smoother struct {
	current float64
	target  float64

	sr   float64
	coeff float64

	smoothingMs float64
	smoothing   bool
}

// NewSmoother builds a Smoother at the given sample rate with the
// default smoothing time and initial value.
func NewSmoother(sr, initial float64) *Smoother {
	s := &Smoother{current: initial, target: initial, smoothingMs: DefaultSmoothingMs}
	s.SetSampleRate(sr)
	return s
}

// SetSampleRate recomputes the smoothing coefficient for a new sample
// rate, preserving the current value and target.
func (s *Smoother) SetSampleRate(sr float64) {
	if sr <= 0 {
		return
	}
	s.sr = sr
	s.recompute()
}

// SetSmoothingTime sets the ramp time constant in milliseconds, clamped
// to [MinSmoothingMs, MaxSmoothingMs].
func (s *Smoother) SetSmoothingTime(ms float64) {
	if ms < MinSmoothingMs {
		ms = MinSmoothingMs
	}
	if ms > MaxSmoothingMs {
		ms = MaxSmoothingMs
	}
	s.smoothingMs = ms
	s.recompute()
}

func (s *Smoother) recompute() {
	if s.sr <= 0 {
		return
	}
	tau := s.smoothingMs / 1000
	s.coeff = 1 - math.Exp(-1/(tau*s.sr))
}

// SetTarget sets a new destination value; if it differs from the current
// value the smoother begins ramping.
func (s *Smoother) SetTarget(target float64) {
	s.target = target
	s.smoothing = s.current != target
}

// SetImmediate snaps both current value and target to v, canceling any
// ramp in progress.
func (s *Smoother) SetImmediate(v float64) {
	s.current = v
	s.target = v
	s.smoothing = false
}

// Current returns the smoother's present value without advancing it.
func (s *Smoother) Current() float64 { return s.current }

// Next advances the smoother by one sample and returns the new value.
func (s *Smoother) Next() float64 {
	if !s.smoothing {
		return s.current
	}
	s.current += s.coeff * (s.target - s.current)
	if math.Abs(s.current-s.target) < epsilon {
		s.current = s.target
		s.smoothing = false
	}
	return s.current
}

// ProcessBlock fills out with successive smoothed values. When not
// currently smoothing this is a fast constant-fill path; otherwise it
// falls back to one Next() call per sample.
func (s *Smoother) ProcessBlock(out []float64) {
	if !s.smoothing {
		v := s.current
		for i := range out {
			out[i] = v
		}
		return
	}
	for i := range out {
		out[i] = s.Next()
	}
}

// IsSmoothing reports whether the smoother is still ramping toward its
// target.
func (s *Smoother) IsSmoothing() bool { return s.smoothing }
