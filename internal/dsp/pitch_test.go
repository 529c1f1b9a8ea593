package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func sineFrame(freq, sr float64, n int) []float64 {
	f := make([]float64, n)
	for i := range f {
		f[i] = math.Sin(2 * math.Pi * freq * float64(i) / sr)
	}
	return f
}

func TestYinDetectsKnownFrequency(t *testing.T) {
	sr := 44100.0
	y := NewYinDetector(sr)
	frame := sineFrame(220, sr, 2048)

	res := y.Analyze(frame)
	require.True(t, res.Voiced)
	require.InDelta(t, 220, res.FrequencyHz, 5)
}

func TestYinSilenceIsUnvoiced(t *testing.T) {
	y := NewYinDetector(44100)
	frame := make([]float64, 2048)
	res := y.Analyze(frame)
	require.False(t, res.Voiced)
}

func TestFrequencyToMIDIA4Is69(t *testing.T) {
	require.InDelta(t, 69, FrequencyToMIDI(440), 1e-9)
}

func TestFrequencyToMIDIOctaveUpIsPlus12(t *testing.T) {
	require.InDelta(t, 81, FrequencyToMIDI(880), 1e-9)
}

func TestAnalyzeSegmentsGroupsStablePitch(t *testing.T) {
	sr := 44100.0
	y := NewYinDetector(sr)
	frameSize := 1024

	var signal []float64
	for i := 0; i < 20; i++ {
		signal = append(signal, sineFrame(440, sr, frameSize)...)
	}

	segments := AnalyzeSegments(y, signal, frameSize)
	require.Len(t, segments, 1)
	require.InDelta(t, 69, segments[0].AveragePitch, 1)
}

func TestAnalyzeSegmentsSplitsOnLargeJump(t *testing.T) {
	sr := 44100.0
	y := NewYinDetector(sr)
	frameSize := 1024

	var signal []float64
	for i := 0; i < 10; i++ {
		signal = append(signal, sineFrame(220, sr, frameSize)...)
	}
	for i := 0; i < 10; i++ {
		signal = append(signal, sineFrame(880, sr, frameSize)...)
	}

	segments := AnalyzeSegments(y, signal, frameSize)
	require.GreaterOrEqual(t, len(segments), 2)
}
