//go:build portaudio

package hostaudio

import (
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// PortAudioDriver plays stereo float32 blocks through gordonklaus/
// portaudio, an alternative to OtoDriver for hosts that want PortAudio's
// device selection and lower-latency ASIO/WASAPI/CoreAudio paths rather
// than oto's cross-platform abstraction. Structured the same way as
// OtoDriver: atomic PullFunc swap for the callback, mutex only around
// stream open/close.
type PortAudioDriver struct {
	baseDriver

	stream *portaudio.Stream
	pull   atomic.Pointer[PullFunc]

	mu      sync.Mutex
	started bool
}

// NewPortAudioDriver initializes the PortAudio library. Callers must
// call Stop (which also terminates the library) when done.
func NewPortAudioDriver(sampleRate, blockSize int) (*PortAudioDriver, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	d := &PortAudioDriver{}
	d.sampleRate = sampleRate
	d.blockSize = blockSize
	return d, nil
}

// NewDriver builds this build's default Driver implementation (here, a
// PortAudioDriver, selected by the "portaudio" build tag).
func NewDriver(sampleRate, blockSize int) (Driver, error) {
	return NewPortAudioDriver(sampleRate, blockSize)
}

func (d *PortAudioDriver) callback(out [][]float32) {
	pullPtr := d.pull.Load()
	frames := len(out[0])
	if pullPtr == nil {
		for ch := range out {
			for i := range out[ch] {
				out[ch][i] = 0
			}
		}
		return
	}
	pull := *pullPtr
	outL, outR := pull(frames)
	for i := 0; i < frames; i++ {
		var l, r float64
		if i < len(outL) {
			l = outL[i]
		}
		if i < len(outR) {
			r = outR[i]
		}
		out[0][i] = float32(l)
		if len(out) > 1 {
			out[1][i] = float32(r)
		}
	}
}

func (d *PortAudioDriver) Start(pull PullFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pull.Store(&pull)
	if d.stream == nil {
		stream, err := portaudio.OpenDefaultStream(0, 2, float64(d.sampleRate), d.blockSize, d.callback)
		if err != nil {
			return err
		}
		d.stream = stream
	}
	if !d.started {
		if err := d.stream.Start(); err != nil {
			return err
		}
		d.started = true
	}
	return nil
}

func (d *PortAudioDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started && d.stream != nil {
		if err := d.stream.Stop(); err != nil {
			return err
		}
		d.started = false
	}
	if d.stream != nil {
		_ = d.stream.Close()
		d.stream = nil
	}
	return portaudio.Terminate()
}

// Process bypasses the device, pulling one block directly for testing.
func (d *PortAudioDriver) Process(pull PullFunc) ([]float64, []float64) {
	return pull(d.blockSize)
}
