package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComplexFFTRoundTrip(t *testing.T) {
	n := 8
	re := make([]float64, n)
	im := make([]float64, n)
	for i := range re {
		re[i] = math.Sin(float64(i))
	}
	orig := append([]float64(nil), re...)

	complexFFT(re, im, false)
	complexFFT(re, im, true)
	for i := range re {
		re[i] /= float64(n)
		im[i] /= float64(n)
	}

	for i := range orig {
		require.InDelta(t, orig[i], re[i], 1e-9)
		require.InDelta(t, 0, im[i], 1e-9)
	}
}

func TestNextPow2(t *testing.T) {
	require.Equal(t, 1, nextPow2(1))
	require.Equal(t, 8, nextPow2(5))
	require.Equal(t, 16, nextPow2(16))
}

func TestMonoConvolverIdentityIRIsPassthrough(t *testing.T) {
	m := newMonoConvolver(64)
	ir := make([]float64, 1)
	ir[0] = 1.0
	m.loadIR(ir)

	var out float64
	for i := 0; i < 10; i++ {
		out = m.processSample(float64(i))
	}
	require.InDelta(t, 9, out, 1e-9)
}

func TestMonoConvolverLongIRAddsLatencyEqualToBlockSize(t *testing.T) {
	m := newMonoConvolver(32)
	ir := make([]float64, 100)
	ir[0] = 1
	m.loadIR(ir)
	require.Equal(t, 32, m.latency())
}

func TestMonoConvolverShortIRHasZeroLatency(t *testing.T) {
	m := newMonoConvolver(32)
	ir := make([]float64, 10)
	ir[0] = 1
	m.loadIR(ir)
	require.Zero(t, m.latency())
}

func TestMonoConvolverFFTPartitionLandsExactlyOneBlockLate(t *testing.T) {
	m := newMonoConvolver(8)
	ir := make([]float64, 9)
	ir[8] = 1 // direct partition (ir[0:8]) is all zero; the single FFT
	// partition (ir[8:]) is a unit impulse at its own offset 0, so its
	// contribution should appear exactly blockSize samples after the
	// input impulse that excites it.
	m.loadIR(ir)

	in := make([]float64, 16)
	in[0] = 1
	out := make([]float64, 16)
	for i, x := range in {
		out[i] = m.processSample(x)
	}

	for i, v := range out {
		if i == 8 {
			require.InDelta(t, 1.0, v, 1e-9)
		} else {
			require.InDeltaf(t, 0.0, v, 1e-9, "sample %d should be silent, got %v", i, v)
		}
	}
}

func TestMonoConvolverNonUniformIdentityIRIsPassthrough(t *testing.T) {
	m := newMonoConvolverWithScheme(64, PartitionNonUniform)
	ir := make([]float64, 1)
	ir[0] = 1.0
	m.loadIR(ir)

	var out float64
	for i := 0; i < 10; i++ {
		out = m.processSample(float64(i))
	}
	require.InDelta(t, 9, out, 1e-9)
}

func TestMonoConvolverNonUniformGroupsDoubleInBlocks(t *testing.T) {
	m := newMonoConvolverWithScheme(8, PartitionNonUniform)
	// Direct partition covers ir[0:8]; the tail spans 8*(1+1+2+2) = 48
	// samples, so groups should be sized [8, 8, 16, 16] in samples.
	ir := make([]float64, 8+48)
	m.loadIR(ir)

	require.Len(t, m.groups, 4)
	require.Equal(t, 8, m.groups[0].size)
	require.Equal(t, 8, m.groups[1].size)
	require.Equal(t, 16, m.groups[2].size)
	require.Equal(t, 16, m.groups[3].size)
	require.Equal(t, 0, m.groups[0].offset)
	require.Equal(t, 8, m.groups[1].offset)
	require.Equal(t, 16, m.groups[2].offset)
	require.Equal(t, 32, m.groups[3].offset)
}

func TestMonoConvolverNonUniformFirstGroupLandsExactlyOneBlockLate(t *testing.T) {
	m := newMonoConvolverWithScheme(8, PartitionNonUniform)
	ir := make([]float64, 9)
	ir[8] = 1 // direct partition (ir[0:8]) is all zero; the unit impulse
	// sits at offset 0 of the first (size-8) non-uniform group.
	m.loadIR(ir)

	in := make([]float64, 16)
	in[0] = 1
	out := make([]float64, 16)
	for i, x := range in {
		out[i] = m.processSample(x)
	}

	for i, v := range out {
		if i == 8 {
			require.InDelta(t, 1.0, v, 1e-9)
		} else {
			require.InDeltaf(t, 0.0, v, 1e-9, "sample %d should be silent, got %v", i, v)
		}
	}
}

func TestMonoConvolverNonUniformLaterGroupIsDelayedByItsIROffset(t *testing.T) {
	m := newMonoConvolverWithScheme(8, PartitionNonUniform)
	// Group 0: offset 0, size 8 (all zero). Group 1: offset 8, size 8,
	// with a unit impulse at its own offset 0 -> absolute IR offset 8+8=16
	// (direct partition 8 + group offset 8 + in-group index 0).
	ir := make([]float64, 8+16)
	ir[8+8] = 1
	m.loadIR(ir)

	in := make([]float64, 32)
	in[0] = 1
	out := make([]float64, 32)
	for i, x := range in {
		out[i] = m.processSample(x)
	}

	require.InDelta(t, 1.0, out[16], 1e-9)
	for i, v := range out {
		if i != 16 {
			require.InDeltaf(t, 0.0, v, 1e-9, "sample %d should be silent, got %v", i, v)
		}
	}
}

func TestConvolutionReverbNonUniformSchemeMatchesUniformOutput(t *testing.T) {
	ir := []float64{0, 0.6, 0, 0.3, 0.1, 0, 0, 0, 0.2, 0, 0, 0.05, 0, 0, 0, 0, 0.15}

	uniform := NewConvolutionReverb(48000, 4)
	uniform.SetMix(0, 1)
	uniform.LoadIR(IRMonoToStereo, ir)

	nonUniform := NewConvolutionReverb(48000, 4)
	nonUniform.SetPartitionScheme(PartitionNonUniform)
	nonUniform.SetMix(0, 1)
	nonUniform.LoadIR(IRMonoToStereo, ir)

	for i := 0; i < 64; i++ {
		x := 0.0
		if i == 0 {
			x = 1
		}
		lu, _ := uniform.ProcessStereoSample(x, x)
		ln, _ := nonUniform.ProcessStereoSample(x, x)
		require.InDeltaf(t, lu, ln, 1e-6, "sample %d: uniform=%v nonUniform=%v", i, lu, ln)
	}
}

func TestConvolutionReverbDryPassesThroughWithoutIR(t *testing.T) {
	c := NewConvolutionReverb(48000, 64)
	c.SetMix(1, 0)
	l, r := c.ProcessStereoSample(0.3, -0.2)
	require.InDelta(t, 0.3, l, 1e-12)
	require.InDelta(t, -0.2, r, 1e-12)
}

func TestConvolutionReverbMonoToStereoUsesSharedIR(t *testing.T) {
	c := NewConvolutionReverb(48000, 16)
	c.SetMix(0, 1)
	c.LoadIR(IRMonoToStereo, []float64{1})

	l, r := c.ProcessStereoSample(1, 1)
	require.InDelta(t, l, r, 1e-9)
}

func TestConvolutionReverbStereoMatrixKeepsChannelsIndependent(t *testing.T) {
	c := NewConvolutionReverb(48000, 16)
	c.SetMix(0, 1)
	c.LoadIR(IRStereoMatrix, []float64{1}, []float64{0})

	l, r := c.ProcessStereoSample(1, 1)
	require.NotZero(t, l)
	require.Zero(t, r)
}

func TestConvolutionReverbPredelayClampsToCapacity(t *testing.T) {
	c := NewConvolutionReverb(48000, 16)
	c.SetPredelay(10000) // far beyond 500ms cap
	require.LessOrEqual(t, c.predelaySamples, len(c.predelayBuf)-1)
}

func TestConvolutionReverbResetClearsState(t *testing.T) {
	c := NewConvolutionReverb(48000, 16)
	c.SetMix(0, 1)
	c.LoadIR(IRMonoToStereo, []float64{1, 0.5, 0.25})
	for i := 0; i < 50; i++ {
		c.ProcessStereoSample(1, 1)
	}
	c.Reset()
	l, r := c.ProcessStereoSample(0, 0)
	require.Zero(t, l)
	require.Zero(t, r)
}
