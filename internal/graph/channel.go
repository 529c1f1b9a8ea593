package graph

import (
	"math"
	"sync/atomic"
)

// ChannelKind distinguishes the semantic role a channel plays in the
// mix; kinds carry no hard-wired processing behaviour of their own; a
// Bus is processed exactly like an Audio channel.
type ChannelKind int

const (
	Audio ChannelKind = iota
	Bus
	AuxKind
	VCA
	MasterKind
)

func (k ChannelKind) String() string {
	switch k {
	case Audio:
		return "Audio"
	case Bus:
		return "Bus"
	case AuxKind:
		return "Aux"
	case VCA:
		return "VCA"
	case MasterKind:
		return "Master"
	default:
		return "Unknown"
	}
}

// DefaultColor is a supplemental convenience so a demo UI or log line can
// color-code channels by kind without its own lookup table.
func (k ChannelKind) DefaultColor() string {
	switch k {
	case Audio:
		return "#4A90D9"
	case Bus:
		return "#7ED321"
	case AuxKind:
		return "#F5A623"
	case VCA:
		return "#BD10E0"
	case MasterKind:
		return "#D0021B"
	default:
		return "#9B9B9B"
	}
}

// Prefix is the short label a generated channel name uses, e.g. "Bus 1".
func (k ChannelKind) Prefix() string {
	switch k {
	case Audio:
		return "Track"
	case Bus:
		return "Bus"
	case AuxKind:
		return "Aux"
	case VCA:
		return "VCA"
	case MasterKind:
		return "Master"
	default:
		return "Channel"
	}
}

// TapPoint names where in a channel's chain a send takes its copy.
type TapPoint int

const (
	PreFader TapPoint = iota
	PostFader
	PostPan
)

// DestinationKind distinguishes an output destination's target type.
type DestinationKind int

const (
	DestNone DestinationKind = iota
	DestChannel
	DestHardware
)

// OutputDestination is a tagged union over "no destination", "another
// channel", or "a hardware output index", modeled as a single struct
// since Go has no native sum type.
type OutputDestination struct {
	Kind           DestinationKind
	ChannelID      int
	HardwareOutput int
}

// Send is an extra, gain-scaled copy of a channel's signal routed to
// another channel at a chosen tap point.
type Send struct {
	DestinationID int
	Gain          float64 // linear
	Tap           TapPoint
	Enabled       bool
}

const (
	maxFaderDB = 12.0
	minFaderDB = -60.0
)

// Channel is one node in the routing graph: a fader/pan stage, a set of
// lock-free transport flags, an output destination, and zero or more
// sends. Mute/solo/armed are atomics because the control thread toggles
// them without taking the graph's reader/writer lock.
type Channel struct {
	ID   int
	Name string
	Kind ChannelKind

	FaderDB float64
	Pan     float64 // -1..1

	muted      atomic.Bool
	soloed     atomic.Bool
	armed      atomic.Bool
	monitoring atomic.Bool

	Output OutputDestination
	Sends  []Send

	ProcessingOrder int

	InputL, InputR   []float64
	OutputL, OutputR []float64 // post-pan: the PostPan tap point

	// PreFaderL/R and PostFaderL/R hold the other two tap points a send
	// can read from: the channel's summed input before fader/pan, and
	// the same signal after fader gain but still before pan is applied.
	PreFaderL, PreFaderR   []float64
	PostFaderL, PostFaderR []float64

	// externalL/externalR hold a pending block of host-supplied input
	// (e.g. a live input or hardware capture feeding this channel),
	// copied into InputL/InputR by ClearInputs each block instead of
	// zeroing them, so a leaf channel with no upstream edge can still
	// carry audio into the graph. nil means "no external source";
	// internal channels fed purely by other channels' outputs/sends
	// never set this and are cleared to silence as usual.
	externalL, externalR []float64
}

// NewChannel builds a channel with unity fader, centered pan, and
// buffers sized for blockSize samples.
func NewChannel(id int, name string, kind ChannelKind, blockSize int) *Channel {
	c := &Channel{ID: id, Name: name, Kind: kind}
	c.Resize(blockSize)
	return c
}

// Resize resizes input and output buffers together, as required whenever
// the host changes its block size.
func (c *Channel) Resize(blockSize int) {
	c.InputL = make([]float64, blockSize)
	c.InputR = make([]float64, blockSize)
	c.OutputL = make([]float64, blockSize)
	c.OutputR = make([]float64, blockSize)
	c.PreFaderL = make([]float64, blockSize)
	c.PreFaderR = make([]float64, blockSize)
	c.PostFaderL = make([]float64, blockSize)
	c.PostFaderR = make([]float64, blockSize)
	c.externalL, c.externalR = nil, nil
}

// ClearInputs resets the input buffers to this block's starting state:
// a copy of any pending external input (SetExternalInput), or silence
// if none was supplied. Called once per block before the topological
// walk sums upstream channels'/sends' contributions into them.
func (c *Channel) ClearInputs() {
	if c.externalL != nil {
		copy(c.InputL, c.externalL)
		copy(c.InputR, c.externalR)
		return
	}
	for i := range c.InputL {
		c.InputL[i] = 0
		c.InputR[i] = 0
	}
}

// SetExternalInput publishes this block's host-supplied samples for a
// leaf channel with no upstream edge (e.g. a live input or hardware
// capture). The slices are copied, not retained, so the caller's buffer
// remains its own to reuse next block. Pass nil to clear a previously
// set external source and revert to silence.
func (c *Channel) SetExternalInput(inL, inR []float64) {
	if inL == nil {
		c.externalL, c.externalR = nil, nil
		return
	}
	if c.externalL == nil || len(c.externalL) != len(inL) {
		c.externalL = make([]float64, len(inL))
		c.externalR = make([]float64, len(inR))
	}
	copy(c.externalL, inL)
	copy(c.externalR, inR)
}

func (c *Channel) Muted() bool    { return c.muted.Load() }
func (c *Channel) SetMuted(v bool) { c.muted.Store(v) }
func (c *Channel) ToggleMuted()    { c.muted.Store(!c.muted.Load()) }

func (c *Channel) Soloed() bool    { return c.soloed.Load() }
func (c *Channel) SetSoloed(v bool) { c.soloed.Store(v) }
func (c *Channel) ToggleSoloed()    { c.soloed.Store(!c.soloed.Load()) }

func (c *Channel) Armed() bool    { return c.armed.Load() }
func (c *Channel) SetArmed(v bool) { c.armed.Store(v) }

func (c *Channel) Monitoring() bool    { return c.monitoring.Load() }
func (c *Channel) SetMonitoring(v bool) { c.monitoring.Store(v) }

// FaderGain converts FaderDB to a linear gain, floored to zero below
// -60dB and capped at 10^(12/20) per the graph's quantified invariant.
func (c *Channel) FaderGain() float64 {
	db := c.FaderDB
	if db <= minFaderDB {
		return 0
	}
	if db > maxFaderDB {
		db = maxFaderDB
	}
	return math.Pow(10, db/20)
}

// PanGains returns constant-power left/right gains for the channel's
// current pan position, scaled by gain.
func PanGains(pan, gain float64) (left, right float64) {
	angle := (pan + 1) * math.Pi / 4
	return gain * math.Cos(angle), gain * math.Sin(angle)
}

// process writes Channel.OutputL/OutputR from InputL/InputR, applying
// fader gain and constant-power pan, then zeroing the result if muted or
// silenced by another channel's solo. It also fills PreFaderL/R and
// PostFaderL/R so sends tapping earlier in the chain see the same
// mute/solo gating as the final output.
func (c *Channel) process(globalSoloActive bool) {
	silent := c.Muted() || (globalSoloActive && !c.Soloed())

	gain := c.FaderGain()
	panL, panR := PanGains(c.Pan, gain)

	for i := range c.InputL {
		if silent {
			c.PreFaderL[i], c.PreFaderR[i] = 0, 0
			c.PostFaderL[i], c.PostFaderR[i] = 0, 0
			c.OutputL[i], c.OutputR[i] = 0, 0
			continue
		}
		c.PreFaderL[i] = c.InputL[i]
		c.PreFaderR[i] = c.InputR[i]
		c.PostFaderL[i] = gain * c.InputL[i]
		c.PostFaderR[i] = gain * c.InputR[i]
		c.OutputL[i] = panL * c.InputL[i]
		c.OutputR[i] = panR * c.InputR[i]
	}
}

// TapBuffers returns the left/right buffers a send at the given tap
// point should read from: the raw input sum (PreFader), the input after
// fader gain but before pan (PostFader), or the final panned output
// (PostPan).
func (c *Channel) TapBuffers(tap TapPoint) (l, r []float64) {
	switch tap {
	case PreFader:
		return c.PreFaderL, c.PreFaderR
	case PostFader:
		return c.PostFaderL, c.PostFaderR
	default:
		return c.OutputL, c.OutputR
	}
}
