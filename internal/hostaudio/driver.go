// Package hostaudio provides the swappable audio output backends the
// engine's dual-path output feeds into, grounded on the teacher's
// build-tag-selected OtoPlayer/ALSA/headless backends, generalized from
// mono ring-buffer playback to stereo float64 pull callbacks.
package hostaudio

// PullFunc is called by a Driver's realtime callback to obtain the next
// block of output samples. Implementations must not block: the engine
// side of this call is internal/dualpath.Engine.Process, which never
// blocks either.
type PullFunc func(blockSize int) (outL, outR []float64)

// Driver is the contract every audio output backend satisfies.
type Driver interface {
	// SetBlockSize configures the number of samples requested from
	// PullFunc per callback.
	SetBlockSize(n int)
	// SetSampleRate configures the device sample rate; implementations
	// may need to reopen the device if already started.
	SetSampleRate(sr int)
	// Start begins pulling blocks from pull and writing them to the
	// output device until Stop is called.
	Start(pull PullFunc) error
	// Stop halts playback and releases the device.
	Stop() error
	// Process runs one block synchronously through pull without opening
	// a real device; used by the headless driver and by tests.
	Process(pull PullFunc) (outL, outR []float64)
}

// baseDriver holds the block size/sample rate state common to every
// backend, kept as plain fields with no synchronisation.
type baseDriver struct {
	blockSize  int
	sampleRate int
}

func (b *baseDriver) SetBlockSize(n int) {
	if n > 0 {
		b.blockSize = n
	}
}

func (b *baseDriver) SetSampleRate(sr int) {
	if sr > 0 {
		b.sampleRate = sr
	}
}
