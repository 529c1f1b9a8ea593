// Package pdc implements the plugin-delay-compensation registry: a
// single source of truth for every plugin instance's introduced
// latency, so the mixer can align parallel signal paths that pass
// through processors with different delays.
package pdc

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Format names the plugin ABI a PDC entry's latency was queried from.
type Format int

const (
	FormatInternal Format = iota
	FormatVST3
	FormatAU
	FormatCLAP
)

func (f Format) String() string {
	switch f {
	case FormatInternal:
		return "Internal"
	case FormatVST3:
		return "VST3"
	case FormatAU:
		return "AU"
	case FormatCLAP:
		return "CLAP"
	default:
		return "Unknown"
	}
}

// unsetOverride is the manual-override sentinel meaning "no override
// configured"; effective latency then falls back to ReportedLatency.
const unsetOverride = -1

// SourceTag names where an Entry's current latency value came from,
// independent of the plugin's ABI Format.
type SourceTag int

const (
	SourceUnknown SourceTag = iota
	SourcePluginReported
	SourceManualOverride
	SourceEstimated
)

func (s SourceTag) String() string {
	switch s {
	case SourcePluginReported:
		return "PluginReported"
	case SourceManualOverride:
		return "ManualOverride"
	case SourceEstimated:
		return "Estimated"
	default:
		return "Unknown"
	}
}

// Entry is one plugin instance's latency bookkeeping.
type Entry struct {
	PluginID        string
	Format          Format
	ReportedLatency int64
	ManualOverride  int64 // -1 = unset
	Source          SourceTag
	LastUpdated     time.Time
	IsDynamic       bool
}

// EffectiveLatency returns the override when set, else the reported
// latency.
func (e Entry) EffectiveLatency() int64 {
	if e.ManualOverride >= 0 {
		return e.ManualOverride
	}
	return e.ReportedLatency
}

// Stats is a point-in-time snapshot of registry-wide counters, exposed
// for UI/observability polling.
type Stats struct {
	Total          int
	WithOverride   int
	WithDynamic    int
	QueriesTotal   int64
	QueriesSucceeded int64
}

// Registry is the process-wide PDC entry map, guarded by a mutex since
// it's mutated from both the plugin-scan/control thread and read by the
// mixer's scheduling pass.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	queriesTotal     atomic.Int64
	queriesSucceeded atomic.Int64
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// RegisterPlugin adds or replaces the entry for id with a freshly
// reported latency and no manual override.
func (r *Registry) RegisterPlugin(id string, format Format, reportedLatency int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &Entry{
		PluginID:        id,
		Format:          format,
		ReportedLatency: reportedLatency,
		ManualOverride:  unsetOverride,
		Source:          SourcePluginReported,
		LastUpdated:     time.Now(),
	}
	log.Debug("plugin registered", "id", id, "format", format.String(), "reported_latency", reportedLatency)
}

// SetManualOverride sets (or clears, with samples < 0) a manual latency
// override for a known plugin id. Returns false with no effect if the id
// is unknown, per spec.md §7's "unknown plugin id returns no effect"
// error handling.
func (r *Registry) SetManualOverride(id string, samples int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	if samples < 0 {
		e.ManualOverride = unsetOverride
		e.Source = SourcePluginReported
	} else {
		e.ManualOverride = samples
		e.Source = SourceManualOverride
	}
	e.LastUpdated = time.Now()
	return true
}

// UpdateReportedLatency updates a plugin's reported latency, marking the
// entry dynamic if the value actually changed. Returns false with no
// effect if the id is unknown.
func (r *Registry) UpdateReportedLatency(id string, samples int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	if e.ReportedLatency != samples {
		e.IsDynamic = true
		log.Debug("plugin latency changed", "id", id, "previous", e.ReportedLatency, "reported", samples)
	}
	e.ReportedLatency = samples
	if e.ManualOverride < 0 {
		e.Source = SourcePluginReported
	}
	e.LastUpdated = time.Now()
	return true
}

// GetEffectiveLatency returns the effective latency for id and whether
// the id was known.
func (r *Registry) GetEffectiveLatency(id string) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return 0, false
	}
	return e.EffectiveLatency(), true
}

// GetAllEntries returns a snapshot copy of every registered entry.
func (r *Registry) GetAllEntries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	return out
}

// Stats returns a point-in-time snapshot of registry-wide counters.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{
		Total:            len(r.entries),
		QueriesTotal:     r.queriesTotal.Load(),
		QueriesSucceeded: r.queriesSucceeded.Load(),
	}
	for _, e := range r.entries {
		if e.ManualOverride >= 0 {
			s.WithOverride++
		}
		if e.IsDynamic {
			s.WithDynamic++
		}
	}
	return s
}

// recordQuery tallies one query attempt against the registry's running
// statistics, incrementing the success counter only if succeeded.
func (r *Registry) recordQuery(succeeded bool) {
	r.queriesTotal.Add(1)
	if succeeded {
		r.queriesSucceeded.Add(1)
	}
}
