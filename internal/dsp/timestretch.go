package dsp

// TimeStretchStage is the plug point a future time-stretching or
// pitch-shifting algorithm fills in. It reports latency like any other
// Processor so the routing graph's plugin delay compensation can account
// for it, but ships here with only a transparent passthrough body: the
// stretching algorithm itself is an out-of-scope collaborator, the same
// role a thin bridge over an external engine plays in the original.
type TimeStretchStage struct {
	ratio    float64
	pitchSt  float64
	latency  int
	bypassed bool
}

// NewTimeStretchStage returns a stage at unity ratio/pitch and zero
// latency, ready for a concrete algorithm to be wired in later.
func NewTimeStretchStage() *TimeStretchStage {
	return &TimeStretchStage{ratio: 1, pitchSt: 0}
}

func (t *TimeStretchStage) Reset()                  {}
func (t *TimeStretchStage) SetSampleRate(sr float64) {}
func (t *TimeStretchStage) Latency() int            { return t.latency }

// SetRatio sets the playback-time ratio (1.0 = unchanged, 2.0 = twice as
// long / half speed).
func (t *TimeStretchStage) SetRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	t.ratio = ratio
}

// SetPitchShiftSemitones sets an independent pitch offset in semitones.
func (t *TimeStretchStage) SetPitchShiftSemitones(semitones float64) {
	t.pitchSt = semitones
}

// SetReportedLatency lets a host-provided algorithm declare the latency
// it introduces so PDC still sees an accurate figure even though no
// algorithm runs here.
func (t *TimeStretchStage) SetReportedLatency(samples int) {
	t.latency = samples
}

func (t *TimeStretchStage) SetBypassed(bypassed bool) { t.bypassed = bypassed }

// ProcessBlock is a transparent passthrough: it exists so the stage
// satisfies BlockProcessor and can sit in a chain today, producing
// correct (if unstretched) audio until a real algorithm replaces it.
func (t *TimeStretchStage) ProcessBlock(buf []float64) {}

var (
	_ Processor      = (*TimeStretchStage)(nil)
	_ BlockProcessor = (*TimeStretchStage)(nil)
)
