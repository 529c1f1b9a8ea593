package dsp

// comb and allpass tuning tables, in samples at 44.1kHz, ported from
// rf-dsp/src/reverb.rs. Scaled by sr/44100 for other sample rates.
var combTuningsL = [8]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
var allpassTuningsL = [4]int{556, 441, 341, 225}

// stereoSpread is added, in samples at 44.1kHz, to the right channel's
// delay lengths so the two channels decorrelate.
const stereoSpread = 23

const baseSampleRate = 44100.0

// comb is a single feedback comb filter with one-pole damping in the
// feedback path, the building block of the Freeverb-style tank.
type comb struct {
	buf      []float64
	pos      int
	feedback float64
	damp1    float64
	damp2    float64
	filterState float64
}

func newComb(length int) *comb {
	if length < 1 {
		length = 1
	}
	return &comb{buf: make([]float64, length)}
}

func (c *comb) process(x float64) float64 {
	out := c.buf[c.pos]
	c.filterState = out*c.damp2 + c.filterState*c.damp1
	c.buf[c.pos] = x + c.filterState*c.feedback
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (c *comb) reset() {
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.filterState = 0
	c.pos = 0
}

// allpass is a Schroeder allpass filter with fixed feedback/feedforward
// coefficient.
type allpass struct {
	buf      []float64
	pos      int
	feedback float64
}

func newAllpass(length int) *allpass {
	if length < 1 {
		length = 1
	}
	return &allpass{buf: make([]float64, length), feedback: 0.5}
}

func (a *allpass) process(x float64) float64 {
	bufOut := a.buf[a.pos]
	out := -x + bufOut
	a.buf[a.pos] = x + bufOut*a.feedback
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

func (a *allpass) reset() {
	for i := range a.buf {
		a.buf[i] = 0
	}
	a.pos = 0
}

// ReverbType names a tuning preset mapping to (roomSize, damping), carried
// over from the original's user-facing preset list.
type ReverbType int

const (
	ReverbRoom ReverbType = iota
	ReverbHall
	ReverbPlate
	ReverbChamber
	ReverbSpring
)

var reverbPresets = map[ReverbType][2]float64{
	ReverbRoom:    {0.4, 0.5},
	ReverbHall:    {0.8, 0.3},
	ReverbPlate:   {0.6, 0.1},
	ReverbChamber: {0.5, 0.4},
	ReverbSpring:  {0.3, 0.7},
}

// AlgorithmicReverb is an 8-comb/4-allpass Freeverb-style tank run once per
// stereo channel, with independent predelay.
type AlgorithmicReverb struct {
	sr float64

	combsL, combsR       [8]*comb
	allpassL, allpassR   [4]*allpass

	roomSize, damping float64
	width             float64
	wet, dry          float64

	predelayBuf        []float64
	predelayPos        int
	predelaySamples    int
}

// NewAlgorithmicReverb builds a reverb tuned for the given sample rate with
// unity dry and zero wet until configured.
func NewAlgorithmicReverb(sr float64) *AlgorithmicReverb {
	r := &AlgorithmicReverb{dry: 1, wet: 0, width: 1}
	r.predelayBuf = make([]float64, 1) // resized by SetSampleRate
	r.SetSampleRate(sr)
	r.SetRoomParams(0.5, 0.5)
	return r
}

func (r *AlgorithmicReverb) scale() float64 {
	if r.sr <= 0 {
		return 1
	}
	return r.sr / baseSampleRate
}

func (r *AlgorithmicReverb) SetSampleRate(sr float64) {
	if sr <= 0 {
		return
	}
	r.sr = sr
	scale := r.scale()
	for i := 0; i < 8; i++ {
		r.combsL[i] = newComb(int(float64(combTuningsL[i]) * scale))
		r.combsR[i] = newComb(int(float64(combTuningsL[i]+stereoSpread) * scale))
	}
	for i := 0; i < 4; i++ {
		r.allpassL[i] = newAllpass(int(float64(allpassTuningsL[i]) * scale))
		r.allpassR[i] = newAllpass(int(float64(allpassTuningsL[i]+stereoSpread) * scale))
	}
	maxPredelay := int(0.2 * sr) // 200ms ceiling
	if maxPredelay < 1 {
		maxPredelay = 1
	}
	r.predelayBuf = make([]float64, maxPredelay)
	r.predelayPos = 0
	r.applyRoomParams()
}

func (r *AlgorithmicReverb) Latency() int { return r.predelaySamples }

// SetRoomParams sets roomSize and damping in [0,1], each driving comb
// feedback (0.28 + roomSize*0.7) and the one-pole damping coefficient
// directly.
func (r *AlgorithmicReverb) SetRoomParams(roomSize, damping float64) {
	r.roomSize, r.damping = roomSize, damping
	r.applyRoomParams()
}

// SetPreset configures roomSize/damping from a named preset.
func (r *AlgorithmicReverb) SetPreset(t ReverbType) {
	if p, ok := reverbPresets[t]; ok {
		r.SetRoomParams(p[0], p[1])
	}
}

func (r *AlgorithmicReverb) applyRoomParams() {
	feedback := 0.28 + r.roomSize*0.7
	damp1 := r.damping
	damp2 := 1 - damp1
	for i := 0; i < 8; i++ {
		r.combsL[i].feedback = feedback
		r.combsL[i].damp1 = damp1
		r.combsL[i].damp2 = damp2
		r.combsR[i].feedback = feedback
		r.combsR[i].damp1 = damp1
		r.combsR[i].damp2 = damp2
	}
}

// SetPredelay sets predelay time in milliseconds, clamped to the buffer
// capacity (200ms).
func (r *AlgorithmicReverb) SetPredelay(ms float64) {
	n := int(ms / 1000 * r.sr)
	if n < 0 {
		n = 0
	}
	if n > len(r.predelayBuf)-1 {
		n = len(r.predelayBuf) - 1
	}
	r.predelaySamples = n
}

// SetWidth blends the allpass tank's L/R outputs before the dry/wet mix:
// width 1 keeps the tank fully stereo, width 0 collapses it to the same
// signal on both channels, clamped to [0,1].
func (r *AlgorithmicReverb) SetWidth(width float64) {
	if width < 0 {
		width = 0
	}
	if width > 1 {
		width = 1
	}
	r.width = width
}

// SetMix sets the linear dry and wet levels.
func (r *AlgorithmicReverb) SetMix(dry, wet float64) {
	r.dry, r.wet = dry, wet
}

func (r *AlgorithmicReverb) Reset() {
	for i := 0; i < 8; i++ {
		r.combsL[i].reset()
		r.combsR[i].reset()
	}
	for i := 0; i < 4; i++ {
		r.allpassL[i].reset()
		r.allpassR[i].reset()
	}
	for i := range r.predelayBuf {
		r.predelayBuf[i] = 0
	}
	r.predelayPos = 0
}

func (r *AlgorithmicReverb) tank(x float64, combs [8]*comb, aps [4]*allpass) float64 {
	var out float64
	for _, c := range combs {
		out += c.process(x)
	}
	for _, a := range aps {
		out = a.process(out)
	}
	return out
}

func (r *AlgorithmicReverb) predelayed(x float64) float64 {
	if r.predelaySamples == 0 || len(r.predelayBuf) == 0 {
		return x
	}
	readPos := r.predelayPos - r.predelaySamples
	for readPos < 0 {
		readPos += len(r.predelayBuf)
	}
	delayed := r.predelayBuf[readPos]
	r.predelayBuf[r.predelayPos] = x
	r.predelayPos++
	if r.predelayPos >= len(r.predelayBuf) {
		r.predelayPos = 0
	}
	return delayed
}

// ProcessStereoSample runs the predelay and tank and mixes with dry/wet.
func (r *AlgorithmicReverb) ProcessStereoSample(l, r2 float64) (float64, float64) {
	mono := (l + r2) / 2
	delayed := r.predelayed(mono)

	apOutL := r.tank(delayed, r.combsL, r.allpassL)
	apOutR := r.tank(delayed, r.combsR, r.allpassR)

	wet1 := r.width/2 + 0.5
	wet2 := (1 - r.width) / 2
	wetL := apOutL*wet1 + apOutR*wet2
	wetR := apOutR*wet1 + apOutL*wet2

	return l*r.dry + wetL*r.wet, r2*r.dry + wetR*r.wet
}

var (
	_ Processor             = (*AlgorithmicReverb)(nil)
	_ StereoSampleProcessor = (*AlgorithmicReverb)(nil)
)
