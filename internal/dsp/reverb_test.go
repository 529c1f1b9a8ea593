package dsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReverbDryOnlyPassesSignalThrough(t *testing.T) {
	r := NewAlgorithmicReverb(48000)
	r.SetMix(1, 0)
	l, rr := r.ProcessStereoSample(0.5, -0.5)
	require.InDelta(t, 0.5, l, 1e-12)
	require.InDelta(t, -0.5, rr, 1e-12)
}

func TestReverbProducesTailAfterImpulse(t *testing.T) {
	r := NewAlgorithmicReverb(48000)
	r.SetMix(0, 1)
	r.SetRoomParams(0.8, 0.3)

	r.ProcessStereoSample(1, 1)
	var energy float64
	for i := 0; i < 2000; i++ {
		l, rr := r.ProcessStereoSample(0, 0)
		energy += l*l + rr*rr
	}
	require.Greater(t, energy, 0.0)
}

func TestReverbPresetsMapToDistinctParams(t *testing.T) {
	r := NewAlgorithmicReverb(48000)
	r.SetPreset(ReverbHall)
	require.Equal(t, 0.8, r.roomSize)
	require.Equal(t, 0.3, r.damping)

	r.SetPreset(ReverbSpring)
	require.Equal(t, 0.3, r.roomSize)
	require.Equal(t, 0.7, r.damping)
}

func TestReverbPredelayDelaysOnsetOfTail(t *testing.T) {
	r := NewAlgorithmicReverb(48000)
	r.SetMix(0, 1)
	r.SetPredelay(10) // 10ms == 480 samples at 48kHz

	r.ProcessStereoSample(1, 1)

	var firstNonzero = -1
	for i := 0; i < 3000; i++ {
		l, rr := r.ProcessStereoSample(0, 0)
		if l != 0 || rr != 0 {
			firstNonzero = i
			break
		}
	}
	require.GreaterOrEqual(t, firstNonzero, 400)
}

func TestReverbResetSilencesTail(t *testing.T) {
	r := NewAlgorithmicReverb(48000)
	r.SetMix(0, 1)
	r.ProcessStereoSample(1, 1)
	for i := 0; i < 100; i++ {
		r.ProcessStereoSample(0, 0)
	}
	r.Reset()
	l, rr := r.ProcessStereoSample(0, 0)
	require.Zero(t, l)
	require.Zero(t, rr)
}

func TestReverbLatencyReflectsPredelay(t *testing.T) {
	r := NewAlgorithmicReverb(48000)
	r.SetPredelay(5)
	require.Equal(t, int(0.005*48000), r.Latency())
}

func TestReverbSampleRateRescalesCombLengths(t *testing.T) {
	r := NewAlgorithmicReverb(44100)
	lenAt44100 := len(r.combsL[0].buf)
	r.SetSampleRate(88200)
	lenAt88200 := len(r.combsL[0].buf)
	require.Equal(t, lenAt44100*2, lenAt88200)
}

func TestReverbZeroWidthCollapsesLRTankToSameSignal(t *testing.T) {
	r := NewAlgorithmicReverb(48000)
	r.SetMix(0, 1)
	r.SetRoomParams(0.8, 0.3)
	r.SetWidth(0)

	r.ProcessStereoSample(1, 1)
	for i := 0; i < 2000; i++ {
		l, rr := r.ProcessStereoSample(0, 0)
		require.InDelta(t, l, rr, 1e-9)
	}
}

func TestReverbFullWidthKeepsLRIndependent(t *testing.T) {
	r := NewAlgorithmicReverb(48000)
	r.SetMix(0, 1)
	r.SetRoomParams(0.8, 0.3)
	r.SetWidth(1)

	r.ProcessStereoSample(1, 1)
	var diverged bool
	for i := 0; i < 2000; i++ {
		l, rr := r.ProcessStereoSample(0, 0)
		if l != rr {
			diverged = true
		}
	}
	require.True(t, diverged)
}
