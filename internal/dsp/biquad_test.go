package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLowPassAttenuatesAboveCutoff(t *testing.T) {
	sr := 48000.0
	b := NewBiquad(LowPass, 1000, 0.707, 0, sr)

	rms := func(freq float64) float64 {
		b.Reset()
		var sum float64
		n := 4096
		for i := 0; i < n; i++ {
			x := math.Sin(2 * math.Pi * freq * float64(i) / sr)
			y := b.ProcessSample(x)
			if i > n/2 { // skip filter settling
				sum += y * y
			}
		}
		return math.Sqrt(sum / float64(n/2))
	}

	low := rms(100)
	high := rms(10000)
	require.Greater(t, low, high)
}

func TestHighPassBlocksDC(t *testing.T) {
	b := NewBiquad(HighPass, 200, 0.707, 0, 48000)
	var y float64
	for i := 0; i < 2000; i++ {
		y = b.ProcessSample(1.0)
	}
	require.InDelta(t, 0, y, 1e-3)
}

func TestNotchRejectsCenterFrequency(t *testing.T) {
	sr := 48000.0
	freq := 1000.0
	b := NewBiquad(Notch, freq, 4.0, 0, sr)

	var sum float64
	n := 8192
	for i := 0; i < n; i++ {
		x := math.Sin(2 * math.Pi * freq * float64(i) / sr)
		y := b.ProcessSample(x)
		if i > n/2 {
			sum += y * y
		}
	}
	rms := math.Sqrt(sum / float64(n/2))
	require.Less(t, rms, 0.05)
}

func TestPeakingBoostIncreasesEnergyAtCenter(t *testing.T) {
	sr := 48000.0
	freq := 1000.0
	unity := NewBiquad(Peaking, freq, 1.0, 0, sr)
	boosted := NewBiquad(Peaking, freq, 1.0, 12, sr)

	measure := func(b *Biquad) float64 {
		var sum float64
		n := 4096
		for i := 0; i < n; i++ {
			x := math.Sin(2 * math.Pi * freq * float64(i) / sr)
			y := b.ProcessSample(x)
			if i > n/2 {
				sum += y * y
			}
		}
		return sum
	}

	require.Greater(t, measure(boosted), measure(unity))
}

func TestReconfigurePreservesState(t *testing.T) {
	b := NewBiquad(LowPass, 1000, 0.707, 0, 48000)
	b.ProcessSample(1.0)
	d0Before := b.d0

	b.Reconfigure(LowPass, 2000, 0.707, 0)
	require.Equal(t, d0Before, b.d0)
	require.NotEqual(t, Design(LowPass, 1000, 0.707, 0, 48000).B0, b.B0)
}

func TestResetClearsState(t *testing.T) {
	b := NewBiquad(LowPass, 1000, 0.707, 0, 48000)
	b.ProcessSample(1.0)
	b.Reset()
	require.Zero(t, b.d0)
	require.Zero(t, b.d1)
}

func TestLatencyIsZero(t *testing.T) {
	b := NewBiquad(LowPass, 1000, 0.707, 0, 48000)
	require.Zero(t, b.Latency())
}

func TestProcessBlockMatchesProcessSample(t *testing.T) {
	sr := 48000.0
	a := NewBiquad(LowPass, 800, 1.2, 0, sr)
	b := NewBiquad(LowPass, 800, 1.2, 0, sr)

	in := make([]float64, 256)
	for i := range in {
		in[i] = math.Sin(float64(i) * 0.1)
	}

	block := make([]float64, len(in))
	copy(block, in)
	b.ProcessBlock(block)

	for i, x := range in {
		want := a.ProcessSample(x)
		require.InDelta(t, want, block[i], 1e-12)
	}
}
