package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPanConstantPowerCenterIsMinus3dB(t *testing.T) {
	p := NewPan(PanConstantPower)
	p.Position = 0
	l, r := p.Gains()
	require.InDelta(t, l, r, 1e-12)
	require.InDelta(t, math.Sqrt(2)/2, l, 1e-9)
}

func TestPanLinearExtremes(t *testing.T) {
	p := NewPan(PanLinear)
	p.Position = -1
	l, r := p.Gains()
	require.InDelta(t, 1, l, 1e-12)
	require.InDelta(t, 0, r, 1e-12)

	p.Position = 1
	l, r = p.Gains()
	require.InDelta(t, 0, l, 1e-12)
	require.InDelta(t, 1, r, 1e-12)
}

func TestPanNoCenterAttenuationHoldsUnityAtCenter(t *testing.T) {
	p := NewPan(PanNoCenterAttenuation)
	p.Position = 0
	l, r := p.Gains()
	require.InDelta(t, 1, l, 1e-12)
	require.InDelta(t, 1, r, 1e-12)
}

func TestBalanceLeavesOppositeChannelAtUnity(t *testing.T) {
	b := &Balance{Position: -0.5}
	l, r := b.ProcessStereoSample(1.0, 1.0)
	require.InDelta(t, 1.0, l, 1e-12)
	require.InDelta(t, 0.5, r, 1e-12)
}

func TestWidthZeroCollapsesToMono(t *testing.T) {
	w := &Width{Amount: 0}
	l, r := w.ProcessStereoSample(1.0, -1.0)
	require.InDelta(t, 0, l, 1e-12)
	require.InDelta(t, 0, r, 1e-12)
}

func TestWidthOneIsIdentity(t *testing.T) {
	w := &Width{Amount: 1}
	l, r := w.ProcessStereoSample(0.6, -0.2)
	require.InDelta(t, 0.6, l, 1e-12)
	require.InDelta(t, -0.2, r, 1e-12)
}

func TestMidSideRoundTrip(t *testing.T) {
	mid, side := EncodeMidSide(0.8, 0.2)
	l, r := DecodeMidSide(mid, side)
	require.InDelta(t, 0.8, l, 1e-12)
	require.InDelta(t, 0.2, r, 1e-12)
}

func TestRotationByHalfPiSwapsChannels(t *testing.T) {
	rt := &Rotation{AngleRadians: math.Pi / 2}
	l, r := rt.ProcessStereoSample(1.0, 0.0)
	require.InDelta(t, 0, l, 1e-9)
	require.InDelta(t, 1, r, 1e-9)
}

func TestCorrelationMeterMonoSignalApproachesOne(t *testing.T) {
	m := NewCorrelationMeter(48000)
	for i := 0; i < 20000; i++ {
		x := math.Sin(float64(i) * 0.05)
		m.Update(x, x)
	}
	require.InDelta(t, 1.0, m.Correlation(), 0.01)
}

func TestCorrelationMeterOutOfPhaseApproachesNegativeOne(t *testing.T) {
	m := NewCorrelationMeter(48000)
	for i := 0; i < 20000; i++ {
		x := math.Sin(float64(i) * 0.05)
		m.Update(x, -x)
	}
	require.InDelta(t, -1.0, m.Correlation(), 0.01)
}

func TestImagerBypassedStagesAreIdentity(t *testing.T) {
	im := NewImager(48000)
	l, r := im.ProcessStereoSample(0.3, -0.3)
	require.InDelta(t, 0.3, l, 1e-12)
	require.InDelta(t, -0.3, r, 1e-12)
}

func TestImagerWidthStageAppliesWhenEnabled(t *testing.T) {
	im := NewImager(48000)
	im.WidthEnabled = true
	im.Width.Amount = 0
	l, r := im.ProcessStereoSample(1.0, -1.0)
	require.InDelta(t, 0, l, 1e-12)
	require.InDelta(t, 0, r, 1e-12)
}
