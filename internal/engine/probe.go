package engine

import (
	"log/slog"

	"github.com/modgrid/modgrid/internal/builder"
)

// Probe observes one module's computed output for one tick. A nil probe
// costs a single branch per module; probes themselves are debug-only
// instrumentation and unsuitable for real-time deadlines.
type Probe func(n *builder.Node, tick uint64, value float64)

// LogProbe emits every computed value through the given logger at debug
// level. Intended for short offline renders while diagnosing a layout.
func LogProbe(logger *slog.Logger) Probe {
	return func(n *builder.Node, tick uint64, value float64) {
		logger.Debug("module computed",
			"id", n.ID, "name", n.Module.Name(), "tick", tick, "value", value)
	}
}

// MultiProbe fans one observation out to several probes.
func MultiProbe(probes ...Probe) Probe {
	return func(n *builder.Node, tick uint64, value float64) {
		for _, p := range probes {
			p(n, tick, value)
		}
	}
}
