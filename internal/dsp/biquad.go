package dsp

import "math"

// FilterType selects which RBJ cookbook formula Coefficients.Design uses.
type FilterType int

const (
	LowPass FilterType = iota
	HighPass
	BandPass
	Notch
	Peaking
	LowShelf
	HighShelf
	AllPass
)

// Coefficients holds a single second-order section's transfer function
// coefficients. a0 is normalized to 1 and not stored.
//
// Sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Design computes RBJ Audio EQ Cookbook coefficients for the given filter
// type, center/cutoff frequency, Q, and gain (dB, only meaningful for
// Peaking/LowShelf/HighShelf). sr must be positive.
func Design(kind FilterType, freq, q, gainDB, sr float64) Coefficients {
	if q <= 0 {
		q = 0.707
	}
	w0 := 2 * math.Pi * freq / sr
	cosW0, sinW0 := math.Cos(w0), math.Sin(w0)
	alpha := sinW0 / (2 * q)
	A := math.Pow(10, gainDB/40)

	var b0, b1, b2, a0, a1, a2 float64

	switch kind {
	case LowPass:
		b0 = (1 - cosW0) / 2
		b1 = 1 - cosW0
		b2 = (1 - cosW0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case HighPass:
		b0 = (1 + cosW0) / 2
		b1 = -(1 + cosW0)
		b2 = (1 + cosW0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case BandPass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case Notch:
		b0 = 1
		b1 = -2 * cosW0
		b2 = 1
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case AllPass:
		b0 = 1 - alpha
		b1 = -2 * cosW0
		b2 = 1 + alpha
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case Peaking:
		b0 = 1 + alpha*A
		b1 = -2 * cosW0
		b2 = 1 - alpha*A
		a0 = 1 + alpha/A
		a1 = -2 * cosW0
		a2 = 1 - alpha/A
	case LowShelf:
		sqrtA := math.Sqrt(A)
		beta := 2 * sqrtA * alpha
		b0 = A * ((A + 1) - (A-1)*cosW0 + beta)
		b1 = 2 * A * ((A - 1) - (A+1)*cosW0)
		b2 = A * ((A + 1) - (A-1)*cosW0 - beta)
		a0 = (A + 1) + (A-1)*cosW0 + beta
		a1 = -2 * ((A - 1) + (A+1)*cosW0)
		a2 = (A + 1) + (A-1)*cosW0 - beta
	case HighShelf:
		sqrtA := math.Sqrt(A)
		beta := 2 * sqrtA * alpha
		b0 = A * ((A + 1) + (A-1)*cosW0 + beta)
		b1 = -2 * A * ((A - 1) + (A+1)*cosW0)
		b2 = A * ((A + 1) + (A-1)*cosW0 - beta)
		a0 = (A + 1) - (A-1)*cosW0 + beta
		a1 = 2 * ((A - 1) - (A+1)*cosW0)
		a2 = (A + 1) - (A-1)*cosW0 - beta
	default:
		b0, a0 = 1, 1
	}

	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// Biquad is a single second-order IIR section processed in Direct Form II
// Transposed, driven sample by sample or in blocks; ProcessBlock runs the
// same serial per-sample recurrence as ProcessSample.
type Biquad struct {
	Coefficients

	d0, d1 float64

	kind           FilterType
	freq, q, gainD float64
	sr             float64
}

// NewBiquad builds a Biquad already designed for kind/freq/q/gainDB at sr.
func NewBiquad(kind FilterType, freq, q, gainDB, sr float64) *Biquad {
	b := &Biquad{kind: kind, freq: freq, q: q, gainD: gainDB, sr: sr}
	b.redesign()
	return b
}

func (b *Biquad) redesign() {
	if b.sr <= 0 {
		return
	}
	b.Coefficients = Design(b.kind, b.freq, b.q, b.gainD, b.sr)
}

// Reconfigure updates the filter's design parameters in place, preserving
// the delay-line state (no click on continuous parameter automation).
func (b *Biquad) Reconfigure(kind FilterType, freq, q, gainDB float64) {
	b.kind, b.freq, b.q, b.gainD = kind, freq, q, gainDB
	b.redesign()
}

func (b *Biquad) Reset() {
	b.d0, b.d1 = 0, 0
}

func (b *Biquad) SetSampleRate(sr float64) {
	b.sr = sr
	b.redesign()
}

func (b *Biquad) Latency() int { return 0 }

// ProcessSample filters one input sample and returns the output.
func (b *Biquad) ProcessSample(x float64) float64 {
	y := b.B0*x + b.d0
	b.d0 = b.B1*x - b.A1*y + b.d1
	b.d1 = b.B2*x - b.A2*y
	return y
}

// ProcessBlock filters a block of samples in place.
func (b *Biquad) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = b.ProcessSample(x)
	}
}

var (
	_ Processor       = (*Biquad)(nil)
	_ SampleProcessor = (*Biquad)(nil)
	_ BlockProcessor  = (*Biquad)(nil)
)
