package dsp

import "math"

// PanLaw selects the gain curve Pan uses to distribute a mono signal
// across the stereo field.
type PanLaw int

const (
	// PanLinear splits gain linearly; center is -6.02dB per channel.
	PanLinear PanLaw = iota
	// PanConstantPower keeps perceived loudness constant across the field
	// using sin/cos curves; center is -3.01dB per channel.
	PanConstantPower
	// PanCompromise blends linear and constant-power, a common DAW default.
	PanCompromise
	// PanNoCenterAttenuation holds unity gain at center on both channels.
	PanNoCenterAttenuation
)

// Pan distributes a mono sample to a stereo pair given position in
// [-1, 1] (-1 full left, 0 center, 1 full right) under the given law.
type Pan struct {
	Law      PanLaw
	Position float64
}

func NewPan(law PanLaw) *Pan { return &Pan{Law: law} }

func (p *Pan) Reset()                  {}
func (p *Pan) SetSampleRate(sr float64) {}
func (p *Pan) Latency() int            { return 0 }

// Gains returns the left/right gain coefficients for the current position.
func (p *Pan) Gains() (l, r float64) {
	pos := p.Position
	switch p.Law {
	case PanLinear:
		l = (1 - pos) / 2
		r = (1 + pos) / 2
	case PanConstantPower:
		theta := (pos + 1) * math.Pi / 4
		l = math.Cos(theta)
		r = math.Sin(theta)
	case PanCompromise:
		theta := (pos + 1) * math.Pi / 4
		lLin := (1 - pos) / 2
		rLin := (1 + pos) / 2
		lCp := math.Cos(theta)
		rCp := math.Sin(theta)
		l = (lLin + lCp) / 2
		r = (rLin + rCp) / 2
	case PanNoCenterAttenuation:
		if pos <= 0 {
			l = 1
			r = 1 + pos
		} else {
			l = 1 - pos
			r = 1
		}
	default:
		l, r = 0.5, 0.5
	}
	return l, r
}

// ProcessSample pans a mono sample into a stereo pair.
func (p *Pan) ProcessSample(x float64) (l, r float64) {
	gl, gr := p.Gains()
	return x * gl, x * gr
}

// Balance attenuates one of an already-stereo signal's channels toward the
// other, leaving the opposite channel at unity (unlike Pan, which
// redistributes a mono source).
type Balance struct {
	Position float64 // -1 full left, 0 center, 1 full right
}

func (b *Balance) Reset()                  {}
func (b *Balance) SetSampleRate(sr float64) {}
func (b *Balance) Latency() int            { return 0 }

func (b *Balance) ProcessStereoSample(l, r float64) (float64, float64) {
	pos := b.Position
	if pos <= 0 {
		return l, r * (1 + pos)
	}
	return l * (1 - pos), r
}

// Width controls stereo width via mid-side scaling: 0 collapses to mono,
// 1 is unchanged, 2 doubles the side signal.
type Width struct {
	Amount float64 // 0..2
}

func (w *Width) Reset()                  {}
func (w *Width) SetSampleRate(sr float64) {}
func (w *Width) Latency() int            { return 0 }

func (w *Width) ProcessStereoSample(l, r float64) (float64, float64) {
	mid := (l + r) / 2
	side := (l - r) / 2 * w.Amount
	return mid + side, mid - side
}

// EncodeMidSide converts a left/right pair to mid/side.
func EncodeMidSide(l, r float64) (mid, side float64) {
	return (l + r) / 2, (l - r) / 2
}

// DecodeMidSide converts a mid/side pair back to left/right.
func DecodeMidSide(mid, side float64) (l, r float64) {
	return mid + side, mid - side
}

// MidSide is a gain processor operating directly in the mid/side domain,
// applying independent gain to each before decoding back to left/right.
type MidSide struct {
	MidGain, SideGain float64
}

func NewMidSide() *MidSide { return &MidSide{MidGain: 1, SideGain: 1} }

func (m *MidSide) Reset()                  {}
func (m *MidSide) SetSampleRate(sr float64) {}
func (m *MidSide) Latency() int            { return 0 }

func (m *MidSide) ProcessStereoSample(l, r float64) (float64, float64) {
	mid, side := EncodeMidSide(l, r)
	mid *= m.MidGain
	side *= m.SideGain
	return DecodeMidSide(mid, side)
}

// Rotation applies a 2D rotation matrix to the stereo field, a continuous
// generalization between straight stereo (angle 0) and swapped channels
// with the new left polarity-inverted (angle pi/2: out = (-R, L)).
type Rotation struct {
	AngleRadians float64
}

func (rt *Rotation) Reset()                  {}
func (rt *Rotation) SetSampleRate(sr float64) {}
func (rt *Rotation) Latency() int            { return 0 }

func (rt *Rotation) ProcessStereoSample(l, r float64) (float64, float64) {
	c, s := math.Cos(rt.AngleRadians), math.Sin(rt.AngleRadians)
	return l*c - r*s, l*s + r*c
}

// CorrelationMeter tracks the running phase correlation of a stereo
// signal via exponentially-weighted moving sums, decaying over roughly
// 300ms.
type CorrelationMeter struct {
	decay           float64
	sumLR, sumLL, sumRR float64
}

// NewCorrelationMeter builds a meter whose exponential window has a time
// constant of 300ms at the given sample rate.
func NewCorrelationMeter(sr float64) *CorrelationMeter {
	c := &CorrelationMeter{}
	c.SetSampleRate(sr)
	return c
}

func (c *CorrelationMeter) Reset() {
	c.sumLR, c.sumLL, c.sumRR = 0, 0, 0
}

func (c *CorrelationMeter) SetSampleRate(sr float64) {
	if sr <= 0 {
		return
	}
	c.decay = math.Exp(-1.0 / (0.3 * sr))
}

func (c *CorrelationMeter) Latency() int { return 0 }

// Update feeds one stereo sample pair into the running correlation
// estimate.
func (c *CorrelationMeter) Update(l, r float64) {
	d := c.decay
	c.sumLR = d*c.sumLR + (1-d)*l*r
	c.sumLL = d*c.sumLL + (1-d)*l*l
	c.sumRR = d*c.sumRR + (1-d)*r*r
}

// Correlation returns the current estimate in [-1, 1]: 1 is mono/in-phase,
// 0 is decorrelated, -1 is fully out-of-phase.
func (c *CorrelationMeter) Correlation() float64 {
	denom := math.Sqrt(c.sumLL * c.sumRR)
	if denom < 1e-12 {
		return 1
	}
	return c.sumLR / denom
}

// Imager aggregates the stereo-imaging stages into a single chain, each
// stage independently bypassable so a channel can enable, say, only Width
// without Rotation.
type Imager struct {
	Width            *Width
	WidthEnabled     bool
	Rotation         *Rotation
	RotationEnabled  bool
	MidSide          *MidSide
	MidSideEnabled   bool
	Balance          *Balance
	BalanceEnabled   bool
	Meter            *CorrelationMeter
}

// NewImager builds an Imager with all stages present but disabled.
func NewImager(sr float64) *Imager {
	return &Imager{
		Width:    &Width{Amount: 1},
		Rotation: &Rotation{},
		MidSide:  NewMidSide(),
		Balance:  &Balance{},
		Meter:    NewCorrelationMeter(sr),
	}
}

func (im *Imager) Reset() {
	im.Width.Reset()
	im.Rotation.Reset()
	im.MidSide.Reset()
	im.Balance.Reset()
	im.Meter.Reset()
}

func (im *Imager) SetSampleRate(sr float64) {
	im.Meter.SetSampleRate(sr)
}

func (im *Imager) Latency() int { return 0 }

// ProcessStereoSample runs the enabled stages in order: width, rotation,
// mid-side, balance, then updates the correlation meter on the result.
func (im *Imager) ProcessStereoSample(l, r float64) (float64, float64) {
	if im.WidthEnabled {
		l, r = im.Width.ProcessStereoSample(l, r)
	}
	if im.RotationEnabled {
		l, r = im.Rotation.ProcessStereoSample(l, r)
	}
	if im.MidSideEnabled {
		l, r = im.MidSide.ProcessStereoSample(l, r)
	}
	if im.BalanceEnabled {
		l, r = im.Balance.ProcessStereoSample(l, r)
	}
	im.Meter.Update(l, r)
	return l, r
}

var (
	_ Processor             = (*Pan)(nil)
	_ Processor             = (*Balance)(nil)
	_ Processor             = (*Width)(nil)
	_ Processor             = (*MidSide)(nil)
	_ Processor             = (*Rotation)(nil)
	_ Processor             = (*CorrelationMeter)(nil)
	_ Processor             = (*Imager)(nil)
	_ StereoSampleProcessor = (*Balance)(nil)
	_ StereoSampleProcessor = (*Width)(nil)
	_ StereoSampleProcessor = (*MidSide)(nil)
	_ StereoSampleProcessor = (*Rotation)(nil)
	_ StereoSampleProcessor = (*Imager)(nil)
)
