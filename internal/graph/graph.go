// Package graph implements the routing graph: a directed acyclic graph
// of channels scheduled each block by Kahn's topological sort, with
// constant-power panning and dB-to-linear fader gain applied at process
// time.
package graph

import (
	"sync"

	"github.com/charmbracelet/log"
)

// MasterID is the fixed id of the process-wide master channel, created
// at graph construction and destroyed only at teardown.
const MasterID = 0

// RoutingGraph owns every channel and the edges between them (each
// channel's own Output + Sends fields are the edge set; there are no
// back-pointers). Mutation takes the write lock; the audio thread holds
// the read lock for the duration of one block's processing.
type RoutingGraph struct {
	mu sync.RWMutex

	channels  map[int]*Channel
	nextID    int
	blockSize int

	dirty bool
	order []int // cached topological order of channel ids
}

// NewRoutingGraph builds a graph with only the master channel present.
func NewRoutingGraph(blockSize int) *RoutingGraph {
	g := &RoutingGraph{
		channels:  make(map[int]*Channel),
		nextID:    MasterID + 1,
		blockSize: blockSize,
		dirty:     true,
	}
	g.channels[MasterID] = NewChannel(MasterID, "Master", MasterKind, blockSize)
	return g
}

// AddChannel creates a new channel of the given kind and name, returning
// its id.
func (g *RoutingGraph) AddChannel(name string, kind ChannelKind) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextID
	g.nextID++
	c := NewChannel(id, name, kind, g.blockSize)
	c.Output = OutputDestination{Kind: DestChannel, ChannelID: MasterID}
	g.channels[id] = c
	g.dirty = true
	log.Debug("channel added", "id", id, "name", name, "kind", kind.String())
	return id
}

// DeleteChannel removes a channel, re-homing any output that pointed at
// it to Master and dropping any send that targeted it. The master
// channel cannot be deleted.
func (g *RoutingGraph) DeleteChannel(id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id == MasterID {
		return &InvalidConnection{From: id, To: id, Reason: "master channel cannot be deleted"}
	}
	if _, ok := g.channels[id]; !ok {
		return ChannelNotFound(id)
	}

	delete(g.channels, id)
	for _, c := range g.channels {
		if c.Output.Kind == DestChannel && c.Output.ChannelID == id {
			c.Output = OutputDestination{Kind: DestChannel, ChannelID: MasterID}
		}
		kept := c.Sends[:0]
		for _, s := range c.Sends {
			if s.DestinationID != id {
				kept = append(kept, s)
			}
		}
		c.Sends = kept
	}
	g.dirty = true
	log.Debug("channel removed", "id", id)
	return nil
}

// Channel returns the channel with the given id, or nil if not found.
// Callers that mutate fields directly (fader, pan) on the returned
// pointer are responsible for holding the graph's write lock themselves
// if doing so concurrently with Process; toggling the atomic mute/solo/
// armed flags needs no lock.
func (g *RoutingGraph) Channel(id int) *Channel {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.channels[id]
}

// SetChannelInput publishes this block's host-supplied samples for a
// leaf channel (a live input, hardware capture, or a track's decoded
// audio), read under the graph's read lock since it only touches the
// target channel's own external-input buffer, never the edge set.
func (g *RoutingGraph) SetChannelInput(id int, inL, inR []float64) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.channels[id]
	if !ok {
		return ChannelNotFound(id)
	}
	c.SetExternalInput(inL, inR)
	return nil
}

// edgesFrom returns every id that id has an edge to: its output
// destination (if a channel) plus every enabled send's destination.
func (g *RoutingGraph) edgesFrom(id int) []int {
	c, ok := g.channels[id]
	if !ok {
		return nil
	}
	var out []int
	if c.Output.Kind == DestChannel {
		out = append(out, c.Output.ChannelID)
	}
	for _, s := range c.Sends {
		if s.Enabled {
			out = append(out, s.DestinationID)
		}
	}
	return out
}

// wouldCreateCycle runs a depth-first search from "to" over output+send
// edges; if "from" is reachable, adding from->to would create a cycle.
// Caller must hold at least the read lock.
func (g *RoutingGraph) wouldCreateCycle(from, to int) bool {
	visited := make(map[int]bool)
	var dfs func(node int) bool
	dfs = func(node int) bool {
		if node == from {
			return true
		}
		if visited[node] {
			return false
		}
		visited[node] = true
		for _, next := range g.edgesFrom(node) {
			if dfs(next) {
				return true
			}
		}
		return false
	}
	return dfs(to)
}

// SetOutput validates and sets a channel's output destination to another
// channel, rejecting self-references and edges that would create a
// cycle.
func (g *RoutingGraph) SetOutput(from, to int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.channels[from]; !ok {
		return ChannelNotFound(from)
	}
	if _, ok := g.channels[to]; !ok {
		return ChannelNotFound(to)
	}
	if from == to {
		return SelfReference(from)
	}
	if g.wouldCreateCycle(from, to) {
		log.Debug("cycle rejected", "from", from, "to", to)
		return &WouldCreateCycle{From: from, To: to}
	}

	g.channels[from].Output = OutputDestination{Kind: DestChannel, ChannelID: to}
	g.dirty = true
	return nil
}

// SetHardwareOutput routes a channel directly to a numbered hardware
// output instead of another channel.
func (g *RoutingGraph) SetHardwareOutput(from, hwIndex int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.channels[from]
	if !ok {
		return ChannelNotFound(from)
	}
	c.Output = OutputDestination{Kind: DestHardware, HardwareOutput: hwIndex}
	g.dirty = true
	return nil
}

// AddSend validates and appends a send from "from" to "to" at the given
// linear gain and tap point.
func (g *RoutingGraph) AddSend(from, to int, gain float64, tap TapPoint) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.channels[from]; !ok {
		return ChannelNotFound(from)
	}
	if _, ok := g.channels[to]; !ok {
		return ChannelNotFound(to)
	}
	if from == to {
		return SelfReference(from)
	}
	if g.wouldCreateCycle(from, to) {
		log.Debug("cycle rejected", "from", from, "to", to)
		return &WouldCreateCycle{From: from, To: to}
	}

	g.channels[from].Sends = append(g.channels[from].Sends, Send{
		DestinationID: to,
		Gain:          gain,
		Tap:           tap,
		Enabled:       true,
	})
	g.dirty = true
	return nil
}

// RemoveSend deletes the send at index idx from channel id's send list.
func (g *RoutingGraph) RemoveSend(id, idx int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.channels[id]
	if !ok {
		return ChannelNotFound(id)
	}
	if idx < 0 || idx >= len(c.Sends) {
		return &InvalidConnection{From: id, To: id, Reason: "send index out of range"}
	}
	c.Sends = append(c.Sends[:idx], c.Sends[idx+1:]...)
	g.dirty = true
	return nil
}

// Resize resizes every channel's buffers to the new block size together.
func (g *RoutingGraph) Resize(blockSize int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.blockSize = blockSize
	for _, c := range g.channels {
		c.Resize(blockSize)
	}
}

// updateProcessingOrder recomputes the topological order with Kahn's
// algorithm: in-degree counts output+send edges together, so a send can
// never schedule a child after its parent. Caller must hold the write
// lock.
func (g *RoutingGraph) updateProcessingOrder() {
	inDegree := make(map[int]int, len(g.channels))
	for id := range g.channels {
		inDegree[id] = 0
	}
	for id := range g.channels {
		for _, to := range g.edgesFrom(id) {
			inDegree[to]++
		}
	}

	var queue []int
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]int, 0, len(g.channels))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		for _, to := range g.edgesFrom(node) {
			inDegree[to]--
			if inDegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	for idx, id := range order {
		g.channels[id].ProcessingOrder = idx
	}
	g.order = order
	g.dirty = false
}

// Process runs one block: refresh the order if dirty, clear every
// channel's inputs, then walk the topological order summing each
// channel's output into its destination's inputs (and each enabled
// send's contribution into its destination). Returns the master
// channel's stereo output for this block.
func (g *RoutingGraph) Process() (masterL, masterR []float64) {
	g.mu.Lock()
	if g.dirty {
		g.updateProcessingOrder()
	}
	order := g.order
	g.mu.Unlock()

	g.mu.RLock()
	defer g.mu.RUnlock()

	globalSoloActive := false
	for _, c := range g.channels {
		if c.Soloed() {
			globalSoloActive = true
			break
		}
	}

	for _, c := range g.channels {
		c.ClearInputs()
	}

	for _, id := range order {
		c := g.channels[id]
		c.process(globalSoloActive)

		if c.Output.Kind == DestChannel {
			if dest := g.channels[c.Output.ChannelID]; dest != nil {
				for i := range c.OutputL {
					dest.InputL[i] += c.OutputL[i]
					dest.InputR[i] += c.OutputR[i]
				}
			}
		}

		for _, s := range c.Sends {
			if !s.Enabled {
				continue
			}
			dest := g.channels[s.DestinationID]
			if dest == nil {
				continue
			}
			srcL, srcR := c.TapBuffers(s.Tap)
			for i := range srcL {
				dest.InputL[i] += srcL[i] * s.Gain
				dest.InputR[i] += srcR[i] * s.Gain
			}
		}
	}

	master := g.channels[MasterID]
	return master.OutputL, master.OutputR
}
