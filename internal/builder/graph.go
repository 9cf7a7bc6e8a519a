package builder

import "github.com/modgrid/modgrid/internal/synth"

// Graph is the validated execution plan the builder hands to the engine.
// Its topology is frozen; only module parameter and phase state mutate
// during evaluation. Module cross-references are indices into the Nodes
// arena, never pointers between nodes.
type Graph struct {
	// Nodes is the module arena in layout order.
	Nodes []*Node
	// Order holds arena indices in topological order: every node appears
	// after all nodes its primary inputs and auxiliary links depend on.
	Order []int
	// Aux is the auxiliary-routing table, applied before the compute pass
	// of every tick, in the order the layout declared the links.
	Aux []AuxRoute
	// Sink is the arena index of the module whose output reaches the
	// audio backend.
	Sink int
	// SampleRate is the rate the graph was built for, in Hz.
	SampleRate float64
}

// Node is one instantiated module with its resolved input wiring.
type Node struct {
	// ID is the layout id, kept for diagnostics.
	ID int
	// Type is the layout type name.
	Type string
	// Module is the live instance.
	Module synth.Module
	// Inputs holds the arena indices feeding the module, in slot order.
	Inputs []int
}

// AuxRoute is one resolved auxiliary link: each tick, the previous-tick
// output of the Source node overwrites Param on the Target node.
type AuxRoute struct {
	Source int
	Target int
	Param  string

	// Translate rescales the source value from [-1,1] into [Min,Max]
	// before it is applied. Untranslated routes pass the value through.
	Translate bool
	Min, Max  float64
}

// Apply maps a raw source output to the value written to the parameter.
func (r *AuxRoute) Apply(v float64) float64 {
	if !r.Translate {
		return v
	}
	return (v+1)/2*(r.Max-r.Min) + r.Min
}

// MaxInputs returns the widest fan-in of any node, letting the engine size
// its input scratch buffer once, before the real-time loop starts.
func (g *Graph) MaxInputs() int {
	max := 0
	for _, n := range g.Nodes {
		if len(n.Inputs) > max {
			max = len(n.Inputs)
		}
	}
	return max
}
