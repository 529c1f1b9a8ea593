// Package dualpath implements the three-mode (RealTime/Guard/Hybrid)
// engine that lets a heavy DSP processor run ahead of the audio
// callback on a separate goroutine without ever blocking it, grounded on
// the teacher's coprocessor worker lifecycle (stop func + done channel,
// select-with-timeout shutdown join).
package dualpath

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Mode tags which scheduling strategy the engine runs.
type Mode int

const (
	// RealTime invokes the fallback processor directly on the live
	// buffer, single-threaded, zero added latency.
	RealTime Mode = iota
	// Guard pushes every input block through a lookahead ring to a guard
	// worker goroutine and outputs whichever processed block is ready
	// (or silence during the initial fill), adding lookaheadBlocks *
	// blockSize samples of latency.
	Guard
	// Hybrid attempts the guard path but falls back inline whenever no
	// processed block is ready yet, so output is never late.
	Hybrid
)

// Processor is the heavy or lightweight DSP stage the engine schedules;
// implementations must not retain inL/inR/outL/outR past the call.
type Processor interface {
	ProcessBlock(inL, inR []float64, outL, outR []float64)
}

// block is the unit of work moved through the guard channels: an owned
// pair of stereo buffers, unavoidably heap-allocated since ownership
// transfers between goroutines via channel send.
type block struct {
	inL, inR   []float64
	outL, outR []float64
}

// Engine schedules a heavy Processor across RealTime/Guard/Hybrid modes.
type Engine struct {
	mode      Mode
	blockSize int

	fallback Processor
	heavy    Processor

	lookaheadBlocks int

	// lookaheadRing holds up to lookaheadBlocks pushed-but-not-yet-sent
	// blocks; a new push only evicts and sends the oldest once the ring
	// is full, so the guard worker never sees a block until it has sat
	// in the ring for lookaheadBlocks*blockSize samples of wall-clock
	// input, matching Latency().
	lookaheadRing []block
	ringPos       int
	ringFill      int

	inputCh  chan block
	outputCh chan block

	stopOnce sync.Once
	stopFlag chan struct{}
	done     chan struct{}

	// realtimeBuf{L,R} is the reusable output buffer for both RealTime
	// mode and Hybrid's inline fallback, guarded by a short-lived mutex
	// rather than reallocated per block. silence{L,R} is a preallocated
	// zero buffer Guard mode returns during its initial fill instead of
	// allocating one every underrun.
	mu           sync.Mutex
	realtimeBufL []float64
	realtimeBufR []float64
	silenceL     []float64
	silenceR     []float64

	Stats Stats

	seq       uint64
	samplePos int64
}

// Resettable is implemented by processors that can clear their internal
// state back to silence; Reset calls it on the fallback processor when
// present, matching the dsp.Processor contract's Reset() method.
type Resettable interface {
	Reset()
}

// NewEngine builds an Engine in the given mode. lookaheadBlocks only
// matters for Guard/Hybrid; queueDepth bounds the guard channels.
func NewEngine(mode Mode, blockSize, lookaheadBlocks, queueDepth int, fallback, heavy Processor) *Engine {
	if lookaheadBlocks < 1 {
		lookaheadBlocks = 1
	}
	if queueDepth < 1 {
		queueDepth = 1
	}
	e := &Engine{
		mode:            mode,
		blockSize:       blockSize,
		fallback:        fallback,
		heavy:           heavy,
		lookaheadBlocks: lookaheadBlocks,
		lookaheadRing:   make([]block, lookaheadBlocks),
		inputCh:         make(chan block, queueDepth),
		outputCh:        make(chan block, queueDepth),
		stopFlag:        make(chan struct{}),
		done:            make(chan struct{}),
		realtimeBufL:    make([]float64, blockSize),
		realtimeBufR:    make([]float64, blockSize),
		silenceL:        make([]float64, blockSize),
		silenceR:        make([]float64, blockSize),
	}
	if mode != RealTime {
		go e.runGuard()
	} else {
		close(e.done)
	}
	return e
}

// Latency returns the samples of latency this engine's current mode
// introduces.
func (e *Engine) Latency() int {
	if e.mode == RealTime {
		return 0
	}
	return e.lookaheadBlocks * e.blockSize
}

// runGuard is the guard worker: it runs until stopFlag closes, each
// iteration receiving with a timeout so it reliably observes shutdown,
// processing, and try-sending the result back (warning, via an
// underrun-style counter, on queue-full).
func (e *Engine) runGuard() {
	defer close(e.done)
	for {
		select {
		case <-e.stopFlag:
			return
		case in := <-e.inputCh:
			start := time.Now()
			e.heavy.ProcessBlock(in.inL, in.inR, in.outL, in.outR)
			e.Stats.recordProcessingTime(time.Since(start).Nanoseconds())
			e.Stats.recordGuardBlock()

			select {
			case e.outputCh <- in:
			default:
				e.Stats.recordUnderrun()
				log.Warn("guard output queue full, dropping processed block")
			}
		case <-time.After(50 * time.Millisecond):
			// Wake periodically so shutdown is observed even with no
			// input arriving.
		}
	}
}

// Stop flips the shutdown flag and joins the guard goroutine, waiting up
// to 2 seconds before giving up.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopFlag)
	})
	select {
	case <-e.done:
	case <-time.After(2 * time.Second):
	}
}

// Reset clears the lookahead pipeline back to a cold-start state: it
// stops and rejoins the guard goroutine (if any), drains both bounded
// channels, resets the fallback processor when it exposes Reset(), and
// rewinds the sequence/sample-position counters used to timestamp
// blocks flowing through the engine.
func (e *Engine) Reset() {
	if e.mode != RealTime {
		e.Stop()
	}

	e.mu.Lock()
	for i := range e.realtimeBufL {
		e.realtimeBufL[i] = 0
	}
	for i := range e.realtimeBufR {
		e.realtimeBufR[i] = 0
	}
	e.mu.Unlock()

drainInput:
	for {
		select {
		case <-e.inputCh:
		default:
			break drainInput
		}
	}
drainOutput:
	for {
		select {
		case <-e.outputCh:
		default:
			break drainOutput
		}
	}

	if r, ok := e.fallback.(Resettable); ok {
		r.Reset()
	}
	if r, ok := e.heavy.(Resettable); ok {
		r.Reset()
	}

	e.seq = 0
	e.samplePos = 0

	for i := range e.lookaheadRing {
		e.lookaheadRing[i] = block{}
	}
	e.ringPos = 0
	e.ringFill = 0

	if e.mode != RealTime {
		e.stopOnce = sync.Once{}
		e.stopFlag = make(chan struct{})
		e.done = make(chan struct{})
		go e.runGuard()
	}
}

// Process runs one block through the engine according to its mode. It
// never blocks the caller.
func (e *Engine) Process(inL, inR []float64) (outL, outR []float64) {
	e.seq++
	e.samplePos += int64(len(inL))
	switch e.mode {
	case RealTime:
		return e.processRealTime(inL, inR)
	case Guard:
		return e.processGuard(inL, inR)
	case Hybrid:
		return e.processHybrid(inL, inR)
	default:
		return e.processRealTime(inL, inR)
	}
}

func (e *Engine) processRealTime(inL, inR []float64) ([]float64, []float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fallback.ProcessBlock(inL, inR, e.realtimeBufL, e.realtimeBufR)
	e.Stats.recordFallbackBlock()
	return e.realtimeBufL, e.realtimeBufR
}

func (e *Engine) processGuard(inL, inR []float64) ([]float64, []float64) {
	e.pushLookahead(inL, inR)

	select {
	case out := <-e.outputCh:
		e.Stats.setQueueDepth(len(e.inputCh))
		return out.outL, out.outR
	default:
		e.Stats.recordUnderrun()
		n := len(inL)
		if n > len(e.silenceL) {
			n = len(e.silenceL)
		}
		return e.silenceL[:n], e.silenceR[:n]
	}
}

func (e *Engine) processHybrid(inL, inR []float64) ([]float64, []float64) {
	e.pushLookahead(inL, inR)

	select {
	case out := <-e.outputCh:
		e.Stats.setQueueDepth(len(e.inputCh))
		return out.outL, out.outR
	default:
		return e.processRealTime(inL, inR)
	}
}

// pushLookahead pushes the newest input block into the circular
// lookahead buffer. While the ring is still filling (the first
// lookaheadBlocks calls after construction/Reset), the new block is only
// buffered, not sent to the guard worker, which is why Guard/Hybrid mode
// outputs silence for exactly lookaheadBlocks*blockSize samples before
// any processed block can arrive. Once full, each push evicts the oldest
// buffered block and hands it to the guard worker's input channel.
func (e *Engine) pushLookahead(inL, inR []float64) {
	b := block{
		inL:  append([]float64(nil), inL...),
		inR:  append([]float64(nil), inR...),
		outL: make([]float64, len(inL)),
		outR: make([]float64, len(inR)),
	}

	if e.ringFill < len(e.lookaheadRing) {
		e.lookaheadRing[e.ringPos] = b
		e.ringPos = (e.ringPos + 1) % len(e.lookaheadRing)
		e.ringFill++
		return
	}

	oldest := e.lookaheadRing[e.ringPos]
	e.lookaheadRing[e.ringPos] = b
	e.ringPos = (e.ringPos + 1) % len(e.lookaheadRing)

	select {
	case e.inputCh <- oldest:
	default:
		e.Stats.recordUnderrun()
	}
}
