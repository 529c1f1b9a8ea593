// Package plugin defines the contract the routing graph and PDC
// registry use to host an effect or instrument, whether backed by a
// real plugin ABI or one of this module's own internal DSP processors.
package plugin

import "io"

// MIDIEvent is a single timestamped MIDI message delivered alongside a
// block of audio.
type MIDIEvent struct {
	OffsetSamples int
	Data          []byte
}

// ProcessContext carries the per-block metadata a plugin needs beyond
// raw samples: sample rate, block size, tempo, transport position and
// play state, mirroring what a VST3/AU/CLAP host would supply.
type ProcessContext struct {
	SampleRate      float64
	BlockSize       int
	TempoBPM        float64
	PlayheadSamples int64
	IsPlaying       bool
}

// ParameterID identifies one plugin parameter; the value space is
// whatever the plugin defines, with Normalized giving a host-neutral
// [0,1] view of the same parameter for generic automation UIs.
type ParameterID int

// Parameters is the parameter model a plugin exposes: id -> value and
// id -> normalized.
type Parameters interface {
	Get(id ParameterID) (value float64, ok bool)
	Set(id ParameterID, value float64) bool
	Normalized(id ParameterID) (normalized float64, ok bool)
	SetNormalized(id ParameterID, normalized float64) bool
	IDs() []ParameterID
}

// Plugin is the contract every hosted processor satisfies, whether an
// internal DSP chain or an adapter over an external plugin ABI.
type Plugin interface {
	// Init prepares the plugin for a given sample rate and maximum block
	// size, called once at load time and again on a sample-rate change.
	Init(sampleRate float64, maxBlock int) error

	// Activate/Deactivate bracket a period of active processing,
	// allowing the plugin to allocate/release resources without
	// reinitializing.
	Activate() error
	Deactivate() error

	// Process runs one block; midiOut may be nil if the plugin does not
	// emit MIDI.
	Process(audioIn [][]float64, audioOut [][]float64, midiIn []MIDIEvent, midiOut *[]MIDIEvent, ctx ProcessContext)

	// Latency reports the plugin's self-introduced delay in samples,
	// read by the host at load time and on notified changes, then stored
	// via the PDC registry.
	Latency() int

	// TailSamples reports how long the plugin continues producing
	// audible output after its input goes silent (e.g. a reverb tail).
	TailSamples() int

	// SaveState/LoadState (de)serialize the plugin's full parameter and
	// internal state for session persistence.
	SaveState(w io.Writer) error
	LoadState(r io.Reader) error

	// Parameters exposes the plugin's parameter model.
	Parameters() Parameters
}
