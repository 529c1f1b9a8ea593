// Command enginedemo wires the routing graph, dual-path engine, PDC
// registry, parameter manager, and command/undo model into a small
// audible demonstration: a Kick and a Snare track summed through a
// Drums bus into Master, with a Hybrid-mode reverb send, played through
// a real host audio driver. It mirrors the teacher's convention of a
// thin single-purpose cmd binary wrapping the library rather than
// growing its own application logic.
package main

import (
	"flag"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Bojan20/reelforge-standalone-sub003/internal/command"
	"github.com/Bojan20/reelforge-standalone-sub003/internal/dsp"
	"github.com/Bojan20/reelforge-standalone-sub003/internal/dualpath"
	"github.com/Bojan20/reelforge-standalone-sub003/internal/graph"
	"github.com/Bojan20/reelforge-standalone-sub003/internal/hostaudio"
	"github.com/Bojan20/reelforge-standalone-sub003/internal/param"
	"github.com/Bojan20/reelforge-standalone-sub003/internal/pdc"
	"github.com/Bojan20/reelforge-standalone-sub003/internal/plugin"
	"github.com/Bojan20/reelforge-standalone-sub003/internal/simd"
)

func main() {
	blockSize := flag.Int("block", 256, "audio block size in samples")
	sampleRate := flag.Int("rate", 48000, "sample rate in Hz")
	roomSize := flag.Float64("room", 0.5, "reverb room size, 0..1")
	seconds := flag.Float64("seconds", 3.0, "how long to play before exiting")
	flag.Parse()

	sr := float64(*sampleRate)

	simd.FlushDenormalsToZero()
	kernels := simd.Dispatch()
	log.Info("simd dispatch ready", "level", kernels.Level.String())

	g := graph.NewRoutingGraph(*blockSize)
	drums := g.AddChannel("Drums", graph.Bus)
	kick := g.AddChannel("Kick", graph.Audio)
	snare := g.AddChannel("Snare", graph.Audio)
	if err := g.SetOutput(kick, drums); err != nil {
		log.Fatal("routing kick failed", "err", err)
	}
	if err := g.SetOutput(snare, drums); err != nil {
		log.Fatal("routing snare failed", "err", err)
	}
	if err := g.SetOutput(drums, graph.MasterID); err != nil {
		log.Fatal("routing drums failed", "err", err)
	}
	if err := g.AddSend(drums, graph.MasterID, 0.3, graph.PostFader); err != nil {
		log.Fatal("adding reverb send failed", "err", err)
	}
	g.Channel(kick).Pan = -0.2
	g.Channel(snare).Pan = 0.2

	params := param.NewManager(sr)
	params.SetTarget(kick, 1.0, -0.2)
	params.SetTarget(snare, 0.8, 0.2)

	registry := pdc.NewRegistry()

	reverb := dsp.NewAlgorithmicReverb(sr)
	reverb.SetRoomParams(*roomSize, 0.5)
	reverb.SetMix(0.7, 0.3)
	reverbPlugin := plugin.NewInternal("Reverb", reverb, nil)
	if err := reverbPlugin.Init(sr, *blockSize); err != nil {
		log.Fatal("reverb init failed", "err", err)
	}
	if err := reverbPlugin.Activate(); err != nil {
		log.Fatal("reverb activate failed", "err", err)
	}
	registry.RegisterPlugin("reverb-1", pdc.FormatInternal, int64(reverb.Latency()))

	heavy := pluginProcessor{reverbPlugin}
	fallback := passthroughProcessor{}
	engine := dualpath.NewEngine(dualpath.Hybrid, *blockSize, 2, 4, fallback, heavy)
	defer engine.Stop()

	project := command.NewProject()
	mgr := command.NewManager(100)
	var kickTrack *command.Track
	mgr.Apply(command.NewAddTrackCommand(project, &command.Track{Name: "Kick", VolumeDB: 0, Pan: -0.2}, nil))
	project.WithRead(func(p *command.Project) {
		kickTrack = p.Tracks[0]
	})
	mgr.Apply(command.NewSetTrackVolumeCommand(project, 0, -3))
	log.Info("project state", "track", kickTrack.Name, "volume_db", kickTrack.VolumeDB, "undo_depth", mgr.UndoDepth())

	driver, err := hostaudio.NewDriver(*sampleRate, *blockSize)
	if err != nil {
		log.Fatal("opening audio driver failed", "err", err)
	}

	kickPhase, snarePhase := 0.0, 0.0
	pull := func(n int) (outL, outR []float64) {
		kickIn := make([]float64, n)
		snareIn := make([]float64, n)
		for i := 0; i < n; i++ {
			kickIn[i] = 0.6 * math.Sin(2*math.Pi*kickPhase)
			snareIn[i] = 0.3 * math.Sin(2*math.Pi*snarePhase)
			kickPhase += 60.0 / sr
			snarePhase += 220.0 / sr
		}
		_ = g.SetChannelInput(kick, kickIn, kickIn)
		_ = g.SetChannelInput(snare, snareIn, snareIn)

		masterL, masterR := g.Process()
		return engine.Process(masterL, masterR)
	}

	if err := driver.Start(pull); err != nil {
		log.Fatal("starting audio driver failed", "err", err)
	}
	defer driver.Stop()

	log.Info("playing", "duration_s", *seconds, "block", *blockSize, "rate", *sampleRate)
	time.Sleep(time.Duration(*seconds * float64(time.Second)))

	stats := engine.Stats.Snapshot()
	log.Info("dual-path stats", "guard_blocks", stats.GuardBlocksProcessed,
		"fallback_blocks", stats.FallbackBlocks, "underruns", stats.Underruns)
	log.Info("pdc stats", "entries", registry.Stats().Total)

	os.Exit(0)
}

// pluginProcessor adapts a plugin.Plugin to dualpath.Processor so the
// reverb can run as the engine's "heavy" guard-thread stage.
type pluginProcessor struct {
	p plugin.Plugin
}

func (h pluginProcessor) ProcessBlock(inL, inR, outL, outR []float64) {
	h.p.Process([][]float64{inL, inR}, [][]float64{outL, outR}, nil, nil, plugin.ProcessContext{})
}

// passthroughProcessor is the engine's zero-latency RealTime/Hybrid
// fallback: it copies input straight to output so the first block (and
// any block where the guard thread has nothing ready) is never silent.
type passthroughProcessor struct{}

func (passthroughProcessor) ProcessBlock(inL, inR, outL, outR []float64) {
	copy(outL, inL)
	copy(outR, inR)
}
