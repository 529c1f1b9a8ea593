// Package command implements the undoable command model that sits above
// the routing graph: track/clip/mixer/automation/project edits, each
// reversible and some mergeable when adjacent (e.g. a fader drag emits
// many SetTrackVolume commands that collapse into one undo step).
package command

import (
	"sync"
	"time"
)

// Region is one audio clip placed on a track, in samples.
type Region struct {
	ID           string
	Position     int64
	Length       int64
	SourceOffset int64
}

// AutomationPoint is one knot of an automation lane.
type AutomationPoint struct {
	Position int64
	Value    float64
}

// AutomationLane is a named parameter's automation curve.
type AutomationLane struct {
	Points []AutomationPoint
}

// Track is one timeline track's persisted state; it mirrors the shape of
// internal/graph.Channel fields that matter for a session file rather
// than embedding a *graph.Channel directly, so command application never
// needs the audio-thread routing lock.
type Track struct {
	Name       string
	VolumeDB   float64
	Pan        float64
	Mute       bool
	Solo       bool
	Armed      bool
	Regions    []Region
	Automation map[string]*AutomationLane
}

// LoopRegion is the project's loop/cycle range.
type LoopRegion struct {
	Enabled bool
	Start   int64
	End     int64
}

// Project is the full document commands operate on: track list, tempo,
// loop region, and a last-modified stamp bumped by every command.
type Project struct {
	mu sync.RWMutex

	Tracks     []*Track
	Tempo      float64
	Loop       LoopRegion
	ModifiedAt time.Time
}

// NewProject returns an empty project at the default 120 BPM tempo.
func NewProject() *Project {
	return &Project{Tempo: 120.0}
}

// touch bumps ModifiedAt; callers must already hold the write lock.
func (p *Project) touch() {
	p.ModifiedAt = time.Now()
}

// WithWrite runs fn under the project's write lock, then stamps
// ModifiedAt. Every command's Execute/Undo goes through this so "touch"
// can never be forgotten.
func (p *Project) WithWrite(fn func(*Project)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p)
	p.touch()
}

// WithRead runs fn under the project's read lock; used by command
// constructors that need to capture "old" values before executing.
func (p *Project) WithRead(fn func(*Project)) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	fn(p)
}
