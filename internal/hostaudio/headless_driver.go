//go:build headless

package hostaudio

// HeadlessDriver never opens a real device; Start just remembers the
// pull func so tests and offline rendering can drive it synchronously
// through Process. Grounded on the teacher's headless audio backend: a
// same-shaped no-op stand-in selected by the same build tag convention.
type HeadlessDriver struct {
	baseDriver

	pull    PullFunc
	started bool
}

func NewHeadlessDriver(sampleRate int) (*HeadlessDriver, error) {
	d := &HeadlessDriver{}
	d.sampleRate = sampleRate
	d.blockSize = 512
	return d, nil
}

// NewDriver builds this build's default Driver implementation (here, a
// HeadlessDriver, selected by the "headless" build tag) — used by tests
// and CI environments with no real audio device.
func NewDriver(sampleRate, blockSize int) (Driver, error) {
	d, err := NewHeadlessDriver(sampleRate)
	if err != nil {
		return nil, err
	}
	d.SetBlockSize(blockSize)
	return d, nil
}

func (d *HeadlessDriver) Start(pull PullFunc) error {
	d.pull = pull
	d.started = true
	return nil
}

func (d *HeadlessDriver) Stop() error {
	d.started = false
	return nil
}

func (d *HeadlessDriver) Process(pull PullFunc) ([]float64, []float64) {
	return pull(d.blockSize)
}
