package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTopologicalOrderingDrumsBeforeMaster(t *testing.T) {
	g := NewRoutingGraph(64)
	drums := g.AddChannel("Drums", Bus)
	kick := g.AddChannel("Kick", Audio)
	snare := g.AddChannel("Snare", Audio)

	require.NoError(t, g.SetOutput(kick, drums))
	require.NoError(t, g.SetOutput(snare, drums))
	require.NoError(t, g.SetOutput(drums, MasterID))

	g.Process()

	require.Less(t, g.Channel(kick).ProcessingOrder, g.Channel(drums).ProcessingOrder)
	require.Less(t, g.Channel(drums).ProcessingOrder, g.Channel(MasterID).ProcessingOrder)
	require.Less(t, g.Channel(snare).ProcessingOrder, g.Channel(drums).ProcessingOrder)
}

func TestCycleRejectionLeavesGraphUnchanged(t *testing.T) {
	g := NewRoutingGraph(64)
	a := g.AddChannel("A", Bus)
	b := g.AddChannel("B", Bus)

	require.NoError(t, g.SetOutput(a, b))

	err := g.SetOutput(b, a)
	require.Error(t, err)
	var cycleErr *WouldCreateCycle
	require.ErrorAs(t, err, &cycleErr)
	require.Equal(t, b, cycleErr.From)
	require.Equal(t, a, cycleErr.To)

	require.Equal(t, DestChannel, g.Channel(b).Output.Kind)
	require.Equal(t, MasterID, g.Channel(b).Output.ChannelID)
}

func TestSelfReferenceRejected(t *testing.T) {
	g := NewRoutingGraph(64)
	x := g.AddChannel("X", Bus)

	err := g.SetOutput(x, x)
	require.Error(t, err)
	var selfErr SelfReference
	require.ErrorAs(t, err, &selfErr)
}

func TestPanConstantPowerAtCenter(t *testing.T) {
	left, right := PanGains(0, 1.0)
	require.InDelta(t, left, right, 0.01)
	require.InDelta(t, 1.0, math.Sqrt(left*left+right*right), 1e-9)
}

func TestFaderGainFloorBelowMinus60dB(t *testing.T) {
	c := NewChannel(1, "c", Audio, 64)
	c.FaderDB = -60.5
	require.Zero(t, c.FaderGain())
}

func TestFaderGainCapsAtPlus12dB(t *testing.T) {
	c := NewChannel(1, "c", Audio, 64)
	c.FaderDB = 24
	require.InDelta(t, math.Pow(10, 12.0/20), c.FaderGain(), 1e-9)
}

func TestDeleteChannelRehomesOutputsToMaster(t *testing.T) {
	g := NewRoutingGraph(64)
	bus := g.AddChannel("Bus", Bus)
	track := g.AddChannel("Track", Audio)
	require.NoError(t, g.SetOutput(track, bus))

	require.NoError(t, g.DeleteChannel(bus))

	require.Equal(t, DestChannel, g.Channel(track).Output.Kind)
	require.Equal(t, MasterID, g.Channel(track).Output.ChannelID)
}

func TestDeleteChannelDropsSendsTargetingIt(t *testing.T) {
	g := NewRoutingGraph(64)
	reverb := g.AddChannel("Reverb", AuxKind)
	track := g.AddChannel("Track", Audio)
	require.NoError(t, g.AddSend(track, reverb, 0.5, PreFader))
	require.Len(t, g.Channel(track).Sends, 1)

	require.NoError(t, g.DeleteChannel(reverb))
	require.Len(t, g.Channel(track).Sends, 0)
}

func TestMasterChannelCannotBeDeleted(t *testing.T) {
	g := NewRoutingGraph(64)
	err := g.DeleteChannel(MasterID)
	require.Error(t, err)
}

func TestProcessSumsTrackIntoMaster(t *testing.T) {
	g := NewRoutingGraph(4)
	track := g.AddChannel("Track", Audio)
	c := g.Channel(track)
	c.Pan = 0
	c.FaderDB = 0

	in := []float64{1, 1, 1, 1}
	require.NoError(t, g.SetChannelInput(track, in, in))

	// Track has no upstream edge, so SetChannelInput's published block
	// must survive ClearInputs() (which otherwise zeroes every channel's
	// inputs at the top of Process) and flow through fader/pan and the
	// track's default Master output. The track's centre pan gives 1/sqrt2
	// per side and the master's own centre pan applies it again: 0.5.
	ml, mr := g.Process()
	require.Len(t, ml, 4)
	require.Len(t, mr, 4)
	for i := range ml {
		require.InDelta(t, 0.5, ml[i], 1e-9)
		require.InDelta(t, 0.5, mr[i], 1e-9)
	}

	// A second block with no new SetChannelInput call replays the same
	// published external input rather than going silent.
	ml2, _ := g.Process()
	require.InDelta(t, 0.5, ml2[0], 1e-9)

	require.NoError(t, g.SetChannelInput(track, nil, nil))
	ml3, _ := g.Process()
	require.Equal(t, 0.0, ml3[0])
}

func TestSendTapPointsReadDistinctStagesOfTheChain(t *testing.T) {
	g := NewRoutingGraph(4)
	track := g.AddChannel("Track", Audio)
	preAux := g.AddChannel("PreAux", AuxKind)
	postFaderAux := g.AddChannel("PostFaderAux", AuxKind)
	postPanAux := g.AddChannel("PostPanAux", AuxKind)

	c := g.Channel(track)
	c.Pan = 0
	c.FaderDB = -6 // gain != 1 so pre/post-fader sends read different levels

	require.NoError(t, g.AddSend(track, preAux, 1.0, PreFader))
	require.NoError(t, g.AddSend(track, postFaderAux, 1.0, PostFader))
	require.NoError(t, g.AddSend(track, postPanAux, 1.0, PostPan))

	in := []float64{1, 1, 1, 1}
	require.NoError(t, g.SetChannelInput(track, in, in))
	g.Process()

	gain := c.FaderGain()
	require.InDelta(t, 1.0, g.Channel(preAux).InputL[0], 1e-9)
	require.InDelta(t, gain, g.Channel(postFaderAux).InputL[0], 1e-9)
	require.InDelta(t, gain/math.Sqrt2, g.Channel(postPanAux).InputL[0], 1e-9)
}

func TestResizeResizesAllChannelBuffersTogether(t *testing.T) {
	g := NewRoutingGraph(64)
	track := g.AddChannel("Track", Audio)
	g.Resize(128)

	require.Len(t, g.Channel(track).InputL, 128)
	require.Len(t, g.Channel(track).OutputR, 128)
	require.Len(t, g.Channel(MasterID).InputL, 128)
}

func TestChannelKindHelpers(t *testing.T) {
	require.Equal(t, "Bus", Bus.Prefix())
	require.NotEmpty(t, Bus.DefaultColor())
	require.Equal(t, "Master", MasterKind.String())
}
