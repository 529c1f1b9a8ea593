package dsp

// Haas delays one channel of a stereo pair by 0.1-30ms, linearly
// interpolated, to shift perceived source width without a comb-filtered
// mid collapse. An optional one-pole low-pass darkens the delayed leg and
// feedback recirculates a fraction of it.
type Haas struct {
	sr float64

	buf []float64
	pos int

	delayMs     float64
	feedback    float64
	invertPhase bool
	dry, wet    float64

	lowpassEnabled bool
	lowpassCoeff   float64
	lowpassState   float64

	delayRight bool
}

// NewHaas builds a Haas delay for the given sample rate with unity dry
// and zero wet until configured.
func NewHaas(sr float64) *Haas {
	h := &Haas{dry: 1, wet: 0, delayRight: true}
	h.SetSampleRate(sr)
	return h
}

func (h *Haas) SetSampleRate(sr float64) {
	if sr <= 0 {
		return
	}
	h.sr = sr
	maxSamples := int(0.03*sr) + 2 // 30ms ceiling plus interpolation headroom
	h.buf = make([]float64, maxSamples)
	h.pos = 0
}

func (h *Haas) Reset() {
	for i := range h.buf {
		h.buf[i] = 0
	}
	h.pos = 0
	h.lowpassState = 0
}

// SetDelay sets the delay time in milliseconds, clamped to [0.1, 30].
func (h *Haas) SetDelay(ms float64) {
	if ms < 0.1 {
		ms = 0.1
	}
	if ms > 30 {
		ms = 30
	}
	h.delayMs = ms
}

// SetFeedback sets the feedback coefficient, clamped to [0, 0.7].
func (h *Haas) SetFeedback(fb float64) {
	if fb < 0 {
		fb = 0
	}
	if fb > 0.7 {
		fb = 0.7
	}
	h.feedback = fb
}

// SetInvertPhase flips the polarity of the delayed channel before mixing.
func (h *Haas) SetInvertPhase(invert bool) { h.invertPhase = invert }

// SetDelayedChannel selects whether the right (true, default) or left
// (false) channel carries the delay.
func (h *Haas) SetDelayedChannel(right bool) { h.delayRight = right }

// SetLowpass enables or disables a one-pole low-pass on the delayed leg,
// with cutoff expressed as a [0,1) smoothing coefficient (0 disables
// filtering even when enabled is true).
func (h *Haas) SetLowpass(enabled bool, coeff float64) {
	h.lowpassEnabled = enabled
	h.lowpassCoeff = coeff
}

// SetMix sets the linear dry and wet levels applied to the delayed leg.
func (h *Haas) SetMix(dry, wet float64) {
	h.dry, h.wet = dry, wet
}

func (h *Haas) Latency() int { return 0 } // delay is a stereo-image effect, not a pipeline latency

func (h *Haas) delayedSample(x float64) float64 {
	delaySamples := h.delayMs / 1000 * h.sr
	n := len(h.buf)

	readPosF := float64(h.pos) - delaySamples
	for readPosF < 0 {
		readPosF += float64(n)
	}
	i0 := int(readPosF)
	frac := readPosF - float64(i0)
	i1 := (i0 + 1) % n
	i0 %= n

	delayed := h.buf[i0]*(1-frac) + h.buf[i1]*frac

	if h.lowpassEnabled && h.lowpassCoeff > 0 {
		h.lowpassState += h.lowpassCoeff * (delayed - h.lowpassState)
		delayed = h.lowpassState
	}

	h.buf[h.pos] = x + delayed*h.feedback
	h.pos++
	if h.pos >= n {
		h.pos = 0
	}

	if h.invertPhase {
		delayed = -delayed
	}
	return delayed
}

// ProcessStereoSample applies the Haas delay to the configured channel and
// mixes dry/wet, passing the other channel through unchanged.
func (h *Haas) ProcessStereoSample(l, r float64) (float64, float64) {
	if h.delayRight {
		delayed := h.delayedSample(r)
		return l, r*h.dry + delayed*h.wet
	}
	delayed := h.delayedSample(l)
	return l*h.dry + delayed*h.wet, r
}

var (
	_ Processor             = (*Haas)(nil)
	_ StereoSampleProcessor = (*Haas)(nil)
)
