package dualpath

import "sync/atomic"

// Stats holds the dual-path engine's running counters as atomics so the
// audio/guard threads can update them without a lock and a control
// thread can poll a consistent snapshot at any time.
type Stats struct {
	guardBlocksProcessed atomic.Int64
	fallbackBlocks       atomic.Int64
	queueDepth           atomic.Int64
	underruns            atomic.Int64

	// emaProcessingTimeNs is stored as an int64 nanosecond count; there is
	// no lock-free float64 EMA in the standard library, so the fixed-point
	// representation avoids a torn read without falling back to a mutex.
	emaProcessingTimeNs atomic.Int64
}

// Snapshot is a plain value struct safe to copy and display, returned by
// Stats.Snapshot() for UI polling per spec.md §6 Observability.
type Snapshot struct {
	GuardBlocksProcessed int64
	FallbackBlocks       int64
	QueueDepth           int64
	Underruns            int64
	EMAProcessingTimeNs  int64
}

// Snapshot returns a consistent-enough point-in-time copy of the
// counters; individual fields may be read at slightly different instants
// under concurrent updates, which is acceptable for a polling UI.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		GuardBlocksProcessed: s.guardBlocksProcessed.Load(),
		FallbackBlocks:       s.fallbackBlocks.Load(),
		QueueDepth:           s.queueDepth.Load(),
		Underruns:            s.underruns.Load(),
		EMAProcessingTimeNs:  s.emaProcessingTimeNs.Load(),
	}
}

const emaAlphaPercent = 10 // 10% new sample weight, matching a light-smoothing EMA

func (s *Stats) recordProcessingTime(ns int64) {
	prev := s.emaProcessingTimeNs.Load()
	if prev == 0 {
		s.emaProcessingTimeNs.Store(ns)
		return
	}
	next := prev + (ns-prev)*emaAlphaPercent/100
	s.emaProcessingTimeNs.Store(next)
}

func (s *Stats) recordGuardBlock()    { s.guardBlocksProcessed.Add(1) }
func (s *Stats) recordFallbackBlock() { s.fallbackBlocks.Add(1) }
func (s *Stats) recordUnderrun()      { s.underruns.Add(1) }
func (s *Stats) setQueueDepth(n int)  { s.queueDepth.Store(int64(n)) }
