package plugin

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/Bojan20/reelforge-standalone-sub003/internal/dsp"
)

// InternalStereoProcessor is the subset of dsp's Processor contract an
// Internal adapter needs: stereo sample processing plus the shared
// Reset/SetSampleRate/Latency lifecycle every dsp primitive implements.
type InternalStereoProcessor interface {
	dsp.Processor
	dsp.StereoSampleProcessor
}

// Internal adapts one of this module's own DSP processors (biquad,
// reverb, spatial imaging, Haas delay, ...) to the Plugin contract, so
// the routing graph can host it through the same interface it would use
// for an out-of-process VST3/AU/CLAP instance. Grounded on
// justyntemme-vst3go's componentImpl, which performs the same role in
// the opposite direction (wrapping a Processor to satisfy VST3's C ABI).
type Internal struct {
	name   string
	proc   InternalStereoProcessor
	params Parameters

	active bool
}

// NewInternal wraps proc as a Plugin under the given display name, using
// params as its parameter model (pass &NoParameters{} if the processor
// exposes none).
func NewInternal(name string, proc InternalStereoProcessor, params Parameters) *Internal {
	if params == nil {
		params = &NoParameters{}
	}
	return &Internal{name: name, proc: proc, params: params}
}

func (p *Internal) Init(sampleRate float64, maxBlock int) error {
	p.proc.SetSampleRate(sampleRate)
	p.proc.Reset()
	return nil
}

func (p *Internal) Activate() error {
	p.active = true
	return nil
}

func (p *Internal) Deactivate() error {
	p.active = false
	p.proc.Reset()
	return nil
}

// Process runs the wrapped stereo processor sample by sample over
// audioIn[0]/audioIn[1] into audioOut[0]/audioOut[1]. MIDI is ignored:
// internal DSP processors in this module are audio-only.
func (p *Internal) Process(audioIn, audioOut [][]float64, midiIn []MIDIEvent, midiOut *[]MIDIEvent, ctx ProcessContext) {
	if !p.active || len(audioIn) < 2 || len(audioOut) < 2 {
		return
	}
	inL, inR := audioIn[0], audioIn[1]
	outL, outR := audioOut[0], audioOut[1]
	n := len(inL)
	for i := 0; i < n; i++ {
		outL[i], outR[i] = p.proc.ProcessStereoSample(inL[i], inR[i])
	}
}

func (p *Internal) Latency() int     { return p.proc.Latency() }
func (p *Internal) TailSamples() int { return 0 }

// SaveState/LoadState are no-ops for internal processors that carry no
// state beyond what their host (the routing graph's channel insert
// configuration) already persists.
func (p *Internal) SaveState(w io.Writer) error { return nil }
func (p *Internal) LoadState(r io.Reader) error { return nil }

func (p *Internal) Parameters() Parameters { return p.params }

// NoParameters is a Parameters implementation for processors with no
// exposed automatable parameters.
type NoParameters struct{}

func (NoParameters) Get(id ParameterID) (float64, bool)           { return 0, false }
func (NoParameters) Set(id ParameterID, value float64) bool       { return false }
func (NoParameters) Normalized(id ParameterID) (float64, bool)    { return 0, false }
func (NoParameters) SetNormalized(id ParameterID, v float64) bool { return false }
func (NoParameters) IDs() []ParameterID                           { return nil }

// MapParameters is a simple min/max-ranged parameter model backed by a
// plain map, suitable for wrapping a handful of named knobs on an
// internal processor (e.g. a biquad's frequency/Q/gain).
type MapParameters struct {
	values map[ParameterID]float64
	ranges map[ParameterID][2]float64
}

// NewMapParameters builds a parameter model from id -> [min,max] ranges,
// with every parameter starting at its range midpoint.
func NewMapParameters(ranges map[ParameterID][2]float64) *MapParameters {
	values := make(map[ParameterID]float64, len(ranges))
	for id, r := range ranges {
		values[id] = (r[0] + r[1]) / 2
	}
	return &MapParameters{values: values, ranges: ranges}
}

func (m *MapParameters) Get(id ParameterID) (float64, bool) {
	v, ok := m.values[id]
	return v, ok
}

func (m *MapParameters) Set(id ParameterID, value float64) bool {
	r, ok := m.ranges[id]
	if !ok {
		return false
	}
	if value < r[0] {
		value = r[0]
	}
	if value > r[1] {
		value = r[1]
	}
	m.values[id] = value
	return true
}

func (m *MapParameters) Normalized(id ParameterID) (float64, bool) {
	v, ok := m.values[id]
	if !ok {
		return 0, false
	}
	r := m.ranges[id]
	if r[1] == r[0] {
		return 0, true
	}
	return (v - r[0]) / (r[1] - r[0]), true
}

func (m *MapParameters) SetNormalized(id ParameterID, normalized float64) bool {
	r, ok := m.ranges[id]
	if !ok {
		return false
	}
	normalized = math.Max(0, math.Min(1, normalized))
	return m.Set(id, r[0]+normalized*(r[1]-r[0]))
}

func (m *MapParameters) IDs() []ParameterID {
	ids := make([]ParameterID, 0, len(m.ranges))
	for id := range m.ranges {
		ids = append(ids, id)
	}
	return ids
}

// encodeFloat64s/decodeFloat64s are small helpers a future concrete
// SaveState implementation can use to serialize a parameter snapshot;
// kept here rather than in MapParameters.SaveState since NoParameters
// and MapParameters don't themselves implement Plugin.
func encodeFloat64s(w io.Writer, values []float64) error {
	buf := make([]byte, 8)
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func decodeFloat64s(r io.Reader, n int) ([]float64, error) {
	out := make([]float64, n)
	buf := make([]byte, 8)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
	}
	return out, nil
}
