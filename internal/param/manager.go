package param

import (
	"math"
	"sync/atomic"
)

// MaxTracks bounds the manager's fixed-size slot array; track ids wrap
// into it via TrackIndex.
const MaxTracks = 256

// TrackIndex maps a track id to its slot in the fixed-size array.
func TrackIndex(id int) int {
	idx := id % MaxTracks
	if idx < 0 {
		idx += MaxTracks
	}
	return idx
}

// slot holds one track's lock-free target state. Volume and pan are
// stored as float64 bit patterns in atomic uint64s rather than
// atomic.Value so a reader never allocates or sees a torn value.
//
// Write order from the control thread is value first, active flag last,
// both releasing; the audio thread loads active first, then the values,
// both acquiring — so once active is observed true, the values it reads
// are always at least as fresh as the write that set it.
type slot struct {
	volumeBits atomic.Uint64
	panBits    atomic.Uint64
	active     atomic.Bool
}

// trackSmoothers is the audio-thread-only per-track ramp state. The
// manager's contract is that only the audio thread ever calls methods
// that touch it — enforced by usage discipline, not a lock, matching the
// original's "interior mutability by protocol" note.
type trackSmoothers struct {
	volume *Smoother
	pan    *Smoother
}

// Manager is the lock-free bridge between a control thread setting
// per-track volume/pan targets and an audio thread advancing smoothed
// values sample by sample.
type Manager struct {
	sr    float64
	slots [MaxTracks]slot
	smoothers [MaxTracks]*trackSmoothers
}

// NewManager builds a Manager at the given sample rate with every slot
// inactive.
func NewManager(sr float64) *Manager {
	m := &Manager{sr: sr}
	for i := range m.smoothers {
		m.smoothers[i] = &trackSmoothers{
			volume: NewSmoother(sr, 1.0),
			pan:    NewSmoother(sr, 0.0),
		}
	}
	return m
}

// SetSampleRate propagates a sample-rate change to every track's
// smoothers. Must be called from the audio thread.
func (m *Manager) SetSampleRate(sr float64) {
	m.sr = sr
	for _, s := range m.smoothers {
		s.volume.SetSampleRate(sr)
		s.pan.SetSampleRate(sr)
	}
}

// SetTarget is called from the control thread to publish new volume/pan
// targets for a track and mark its slot active.
func (m *Manager) SetTarget(trackID int, volume, pan float64) {
	s := &m.slots[TrackIndex(trackID)]
	s.volumeBits.Store(math.Float64bits(volume))
	s.panBits.Store(math.Float64bits(pan))
	s.active.Store(true)
}

// Deactivate is called from the control thread to mark a track's slot
// inactive; subsequent reads return defaults until SetTarget reactivates
// it.
func (m *Manager) Deactivate(trackID int) {
	m.slots[TrackIndex(trackID)].active.Store(false)
}

// TrackValues is the pair of smoothed values a single Advance call
// produces for a track.
type TrackValues struct {
	Volume float64
	Pan    float64
}

// Advance is called from the audio thread once per sample. An inactive
// slot returns defaults (volume=1.0, pan=0.0) without touching smoother
// state at all. An active slot reads the published targets, feeds them
// into its private smoothers, advances one sample, and returns the
// result.
func (m *Manager) Advance(trackID int) TrackValues {
	idx := TrackIndex(trackID)
	s := &m.slots[idx]

	if !s.active.Load() {
		return TrackValues{Volume: 1.0, Pan: 0.0}
	}

	volume := math.Float64frombits(s.volumeBits.Load())
	pan := math.Float64frombits(s.panBits.Load())

	sm := m.smoothers[idx]
	sm.volume.SetTarget(volume)
	sm.pan.SetTarget(pan)

	return TrackValues{Volume: sm.volume.Next(), Pan: sm.pan.Next()}
}

// AdvanceBlock is the block-rate counterpart of Advance, filling volOut
// and panOut (which must be the same length) via each smoother's
// fast-path-aware ProcessBlock.
func (m *Manager) AdvanceBlock(trackID int, volOut, panOut []float64) {
	idx := TrackIndex(trackID)
	s := &m.slots[idx]

	if !s.active.Load() {
		for i := range volOut {
			volOut[i] = 1.0
		}
		for i := range panOut {
			panOut[i] = 0.0
		}
		return
	}

	volume := math.Float64frombits(s.volumeBits.Load())
	pan := math.Float64frombits(s.panBits.Load())

	sm := m.smoothers[idx]
	sm.volume.SetTarget(volume)
	sm.pan.SetTarget(pan)

	sm.volume.ProcessBlock(volOut)
	sm.pan.ProcessBlock(panOut)
}

// SetSmoothingTime configures the ramp time for one track's volume and
// pan smoothers, in milliseconds.
func (m *Manager) SetSmoothingTime(trackID int, ms float64) {
	sm := m.smoothers[TrackIndex(trackID)]
	sm.volume.SetSmoothingTime(ms)
	sm.pan.SetSmoothingTime(ms)
}

// IsActive reports whether a track's slot currently holds a published
// target.
func (m *Manager) IsActive(trackID int) bool {
	return m.slots[TrackIndex(trackID)].active.Load()
}
