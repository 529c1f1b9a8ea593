package dsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHaasDelayClampsToRange(t *testing.T) {
	h := NewHaas(48000)
	h.SetDelay(0.01)
	require.Equal(t, 0.1, h.delayMs)

	h.SetDelay(100)
	require.Equal(t, 30.0, h.delayMs)
}

func TestHaasFeedbackClamps(t *testing.T) {
	h := NewHaas(48000)
	h.SetFeedback(-1)
	require.Equal(t, 0.0, h.feedback)

	h.SetFeedback(5)
	require.Equal(t, 0.7, h.feedback)
}

func TestHaasLeavesUndelayedChannelUnchanged(t *testing.T) {
	h := NewHaas(48000)
	h.SetDelay(10)
	h.SetMix(1, 1)
	l, _ := h.ProcessStereoSample(0.42, 0.1)
	require.InDelta(t, 0.42, l, 1e-12)
}

func TestHaasDelayedChannelIsSilentBeforeDelayElapses(t *testing.T) {
	h := NewHaas(48000)
	h.SetDelay(10) // 480 samples
	h.SetMix(0, 1)

	_, r := h.ProcessStereoSample(0, 1)
	require.Zero(t, r)
}

func TestHaasPhaseInvertNegatesDelayedOutput(t *testing.T) {
	sr := 48000.0
	a := NewHaas(sr)
	a.SetDelay(5)
	a.SetMix(0, 1)

	b := NewHaas(sr)
	b.SetDelay(5)
	b.SetMix(0, 1)
	b.SetInvertPhase(true)

	var lastA, lastB float64
	for i := 0; i < 500; i++ {
		_, lastA = a.ProcessStereoSample(0, 1)
		_, lastB = b.ProcessStereoSample(0, 1)
	}
	require.InDelta(t, -lastA, lastB, 1e-9)
}

func TestHaasResetClearsBuffer(t *testing.T) {
	h := NewHaas(48000)
	h.SetDelay(5)
	h.SetMix(0, 1)
	for i := 0; i < 500; i++ {
		h.ProcessStereoSample(0, 1)
	}
	h.Reset()
	_, r := h.ProcessStereoSample(0, 0)
	require.Zero(t, r)
}
