package dsp

import "math"

// YinThresholdDefault is the CMNDF absolute threshold below which the
// first local minimum is accepted as the fundamental period, the value
// recommended in the original YIN paper and carried over unchanged.
const YinThresholdDefault = 0.15

// PitchResult is one frame's pitch estimate.
type PitchResult struct {
	FrequencyHz float64
	MIDI        float64 // fractional MIDI note number
	Cents       float64 // offset from the nearest semitone
	Confidence  float64 // 1 - cmndf[tau], higher is more reliable
	Voiced      bool
}

// YinDetector estimates the fundamental frequency of a frame of audio
// using the YIN algorithm: difference function, cumulative mean
// normalization, absolute-threshold search for the first minimum, then
// parabolic interpolation for sub-sample precision.
type YinDetector struct {
	sr        float64
	threshold float64

	diff  []float64
	cmndf []float64
}

func NewYinDetector(sr float64) *YinDetector {
	return &YinDetector{sr: sr, threshold: YinThresholdDefault}
}

func (y *YinDetector) Reset()                  {}
func (y *YinDetector) SetSampleRate(sr float64) { y.sr = sr }
func (y *YinDetector) Latency() int            { return 0 }

// SetThreshold overrides the CMNDF acceptance threshold.
func (y *YinDetector) SetThreshold(t float64) { y.threshold = t }

// Analyze estimates the pitch of one frame. The lag search is bounded by
// half the frame length.
func (y *YinDetector) Analyze(frame []float64) PitchResult {
	maxLag := len(frame) / 2
	if maxLag < 2 {
		return PitchResult{}
	}

	if cap(y.diff) < maxLag {
		y.diff = make([]float64, maxLag)
		y.cmndf = make([]float64, maxLag)
	}
	diff := y.diff[:maxLag]
	cmndf := y.cmndf[:maxLag]

	diff[0] = 0
	for tau := 1; tau < maxLag; tau++ {
		var sum float64
		for i := 0; i < maxLag; i++ {
			d := frame[i] - frame[i+tau]
			sum += d * d
		}
		diff[tau] = sum
	}

	cmndf[0] = 1
	runningSum := 0.0
	for tau := 1; tau < maxLag; tau++ {
		runningSum += diff[tau]
		if runningSum == 0 {
			cmndf[tau] = 1
		} else {
			cmndf[tau] = diff[tau] * float64(tau) / runningSum
		}
	}

	tau := -1
	for t := 2; t < maxLag; t++ {
		if cmndf[t] < y.threshold {
			for t+1 < maxLag && cmndf[t+1] < cmndf[t] {
				t++
			}
			tau = t
			break
		}
	}
	if tau < 0 {
		return PitchResult{}
	}

	refinedTau := parabolicInterpolate(cmndf, tau, maxLag)
	freq := y.sr / refinedTau
	midi := FrequencyToMIDI(freq)
	cents := (midi - math.Round(midi)) * 100

	return PitchResult{
		FrequencyHz: freq,
		MIDI:        midi,
		Cents:       cents,
		Confidence:  1 - cmndf[tau],
		Voiced:      true,
	}
}

// parabolicInterpolate refines an integer lag estimate using its two
// neighbors in cmndf, clamped to the valid index range.
func parabolicInterpolate(cmndf []float64, tau, maxLag int) float64 {
	if tau <= 0 || tau >= maxLag-1 {
		return float64(tau)
	}
	s0, s1, s2 := cmndf[tau-1], cmndf[tau], cmndf[tau+1]
	denom := 2*s1 - s2 - s0
	if denom == 0 {
		return float64(tau)
	}
	shift := 0.5 * (s0 - s2) / denom
	return float64(tau) + shift
}

// FrequencyToMIDI converts a frequency in Hz to a fractional MIDI note
// number (A4 = 69 = 440Hz).
func FrequencyToMIDI(freq float64) float64 {
	if freq <= 0 {
		return 0
	}
	return 69 + 12*math.Log2(freq/440)
}

// Vibrato describes an estimated vibrato on a pitch segment.
type Vibrato struct {
	RateHz     float64
	DepthCents float64
}

// PitchSegment groups contiguous voiced frames whose pitch stays within
// two semitones of the segment's running average.
type PitchSegment struct {
	AveragePitch float64
	Contour      []float64 // per-frame MIDI pitch across the segment
	Confidence   float64   // mean confidence across the segment's frames
	Vibrato      Vibrato
}

// AnalyzeSegments runs the detector across consecutive, non-overlapping
// frames of signal and groups voiced results into PitchSegments, splitting
// a new segment whenever pitch drifts more than two semitones from the
// segment's running average.
func AnalyzeSegments(y *YinDetector, signal []float64, frameSize int) []PitchSegment {
	var segments []PitchSegment
	var cur *PitchSegment
	var curSum float64
	var curCount int

	flush := func() {
		if cur != nil && curCount > 0 {
			cur.AveragePitch = curSum / float64(curCount)
			cur.Confidence /= float64(curCount)
			cur.Vibrato = estimateVibrato(cur.Contour, y.sr/float64(frameSize))
			segments = append(segments, *cur)
		}
		cur = nil
		curSum = 0
		curCount = 0
	}

	for i := 0; i+frameSize <= len(signal); i += frameSize {
		res := y.Analyze(signal[i : i+frameSize])
		if !res.Voiced {
			flush()
			continue
		}
		if cur == nil {
			cur = &PitchSegment{}
		} else {
			avg := curSum / float64(curCount)
			if math.Abs(res.MIDI-avg) > 2 {
				flush()
				cur = &PitchSegment{}
			}
		}
		cur.Contour = append(cur.Contour, res.MIDI)
		cur.Confidence += res.Confidence
		curSum += res.MIDI
		curCount++
	}
	flush()

	return segments
}

// estimateVibrato measures rate from the contour's zero-crossing rate
// around its mean and depth from peak deviation, at frameRate frames per
// second.
func estimateVibrato(contour []float64, frameRate float64) Vibrato {
	if len(contour) < 4 {
		return Vibrato{}
	}
	var mean float64
	for _, v := range contour {
		mean += v
	}
	mean /= float64(len(contour))

	var crossings int
	var maxDev float64
	prevAbove := contour[0] >= mean
	for _, v := range contour {
		above := v >= mean
		if above != prevAbove {
			crossings++
			prevAbove = above
		}
		if d := math.Abs(v - mean); d > maxDev {
			maxDev = d
		}
	}

	durationSec := float64(len(contour)) / frameRate
	if durationSec <= 0 {
		return Vibrato{}
	}
	rateHz := float64(crossings) / 2 / durationSec
	return Vibrato{RateHz: rateHz, DepthCents: maxDev * 100}
}

var _ Processor = (*YinDetector)(nil)
