package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPoolStartsFullyAvailable(t *testing.T) {
	p := New(8, 64)
	require.Equal(t, 8, p.Available())
	require.Equal(t, 8, p.Size())
}

func TestAcquireDecrementsAvailability(t *testing.T) {
	p := New(4, 16)
	idx, ok := p.Acquire()
	require.True(t, ok)
	require.GreaterOrEqual(t, idx, 0)
	require.Equal(t, 3, p.Available())
}

func TestAcquireExhaustionReturnsFalseNotPanic(t *testing.T) {
	p := New(2, 16)
	_, ok1 := p.Acquire()
	_, ok2 := p.Acquire()
	_, ok3 := p.Acquire()
	require.True(t, ok1)
	require.True(t, ok2)
	require.False(t, ok3)
	require.Equal(t, 0, p.Available())
}

func TestReleaseRestoresAvailability(t *testing.T) {
	p := New(2, 16)
	idx, _ := p.Acquire()
	p.Release(idx)
	require.Equal(t, 2, p.Available())
}

func TestAcquiredBlockIsDistinctPerIndex(t *testing.T) {
	p := New(2, 4)
	i1, _ := p.Acquire()
	i2, _ := p.Acquire()
	require.NotEqual(t, i1, i2)

	b1 := p.Block(i1)
	b1.Left[0] = 42
	b2 := p.Block(i2)
	require.NotEqual(t, float64(42), b2.Left[0])
}

func TestAcquireResetsStaleBlockState(t *testing.T) {
	p := New(2, 4)
	idx, _ := p.Acquire()
	blk := p.Block(idx)
	blk.Left[0] = 1
	blk.ValidSamples = 4
	blk.Seq = 7
	blk.SamplePos = 1000
	p.Release(idx)

	idx2, _ := p.Acquire()
	blk2 := p.Block(idx2)
	require.Zero(t, blk2.ValidSamples)
	require.Zero(t, blk2.Seq)
	require.Zero(t, blk2.SamplePos)
	require.Zero(t, blk2.Left[0])
}

func TestStackTopStaysWithinBounds(t *testing.T) {
	p := New(16, 8)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if idx, ok := p.Acquire(); ok {
					p.Release(idx)
				}
			}
		}()
	}
	wg.Wait()
	require.GreaterOrEqual(t, p.Available(), 0)
	require.LessOrEqual(t, p.Available(), p.Size())
}

func TestConcurrentAcquireNeverDoubleHandsOutSameIndex(t *testing.T) {
	p := New(4, 8)
	seen := make(chan int, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx, ok := p.Acquire()
			require.True(t, ok)
			seen <- idx
		}()
	}
	wg.Wait()
	close(seen)

	indices := make(map[int]bool)
	for idx := range seen {
		require.False(t, indices[idx], "index %d handed out twice", idx)
		indices[idx] = true
	}
	require.Len(t, indices, 4)
}
