package pdc

// LatencyQuery is the result of asking a plugin handle for its reported
// latency: a uniform shape across every format's detection adapter.
type LatencyQuery struct {
	Samples int64
	Success bool
}

// PluginHandle is an opaque reference a host-side plugin scanner hands
// to a format-specific query function. Real VST3/AU/CLAP SDK calls are
// outside this core's scope (plugin-ABI exclusion); this models only the
// query contract those adapters expose to the registry.
type PluginHandle interface {
	// ReportedLatencySamples returns the plugin's self-reported latency
	// and whether the query succeeded.
	ReportedLatencySamples() (int64, bool)
}

// QueryPluginLatency dispatches to the format-specific query function
// and records the attempt against the registry's query statistics.
// Internal format always reports 0 and counts as a successful query, a
// failed query (for any format) returns 0 without advancing the success
// counter, and an unknown format also returns 0 without success.
func (r *Registry) QueryPluginLatency(handle PluginHandle, format Format) int64 {
	var result LatencyQuery
	switch format {
	case FormatInternal:
		result = queryInternalLatency(handle)
	case FormatVST3:
		result = queryVST3Latency(handle)
	case FormatAU:
		result = queryAULatency(handle)
	case FormatCLAP:
		result = queryCLAPLatency(handle)
	default:
		result = LatencyQuery{}
	}
	r.recordQuery(result.Success)
	if !result.Success {
		return 0
	}
	return result.Samples
}

// queryInternalLatency always succeeds with zero latency: internal
// processors (this module's own dsp.Processor implementations) report
// their latency directly via Processor.Latency, never through a plugin
// handle query.
func queryInternalLatency(handle PluginHandle) LatencyQuery {
	return LatencyQuery{Samples: 0, Success: true}
}

func queryVST3Latency(handle PluginHandle) LatencyQuery {
	if handle == nil {
		return LatencyQuery{}
	}
	samples, ok := handle.ReportedLatencySamples()
	if !ok {
		return LatencyQuery{}
	}
	return LatencyQuery{Samples: samples, Success: true}
}

func queryAULatency(handle PluginHandle) LatencyQuery {
	if handle == nil {
		return LatencyQuery{}
	}
	samples, ok := handle.ReportedLatencySamples()
	if !ok {
		return LatencyQuery{}
	}
	return LatencyQuery{Samples: samples, Success: true}
}

func queryCLAPLatency(handle PluginHandle) LatencyQuery {
	if handle == nil {
		return LatencyQuery{}
	}
	samples, ok := handle.ReportedLatencySamples()
	if !ok {
		return LatencyQuery{}
	}
	return LatencyQuery{Samples: samples, Success: true}
}
