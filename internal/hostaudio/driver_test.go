package hostaudio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeDriver exercises the Driver contract and baseDriver's shared state
// without depending on a real output backend or its build tag.
type fakeDriver struct {
	baseDriver
	running bool
	last    PullFunc
}

func (f *fakeDriver) Start(pull PullFunc) error {
	f.last = pull
	f.running = true
	return nil
}

func (f *fakeDriver) Stop() error {
	f.running = false
	return nil
}

func (f *fakeDriver) Process(pull PullFunc) ([]float64, []float64) {
	return pull(f.blockSize)
}

func TestBaseDriverIgnoresNonPositiveConfig(t *testing.T) {
	var d fakeDriver
	d.SetBlockSize(256)
	d.SetSampleRate(48000)
	require.Equal(t, 256, d.blockSize)
	require.Equal(t, 48000, d.sampleRate)

	d.SetBlockSize(0)
	d.SetSampleRate(-1)
	require.Equal(t, 256, d.blockSize, "non-positive block size is ignored")
	require.Equal(t, 48000, d.sampleRate, "non-positive sample rate is ignored")
}

func TestProcessPullsExactlyBlockSizeFrames(t *testing.T) {
	var d fakeDriver
	d.SetBlockSize(128)

	var requested int
	pull := func(n int) ([]float64, []float64) {
		requested = n
		return make([]float64, n), make([]float64, n)
	}

	outL, outR := d.Process(pull)
	require.Equal(t, 128, requested)
	require.Len(t, outL, 128)
	require.Len(t, outR, 128)
}

func TestStartStoresPullAndMarksRunning(t *testing.T) {
	var d fakeDriver
	called := false
	require.NoError(t, d.Start(func(n int) ([]float64, []float64) {
		called = true
		return nil, nil
	}))
	require.True(t, d.running)

	d.last(64)
	require.True(t, called)

	require.NoError(t, d.Stop())
	require.False(t, d.running)
}
