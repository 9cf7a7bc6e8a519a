// Package builder resolves a layout model into a validated, topologically
// ordered execution graph. It is pure apart from registry lookups: it
// performs no I/O and returns either a complete graph or the first
// validation error, never a partial result.
package builder

import (
	"context"
	"fmt"

	"github.com/modgrid/modgrid/internal/config"
	"github.com/modgrid/modgrid/internal/ctxlog"
	"github.com/modgrid/modgrid/internal/dag"
	"github.com/modgrid/modgrid/internal/registry"
)

// Build turns a layout model into an execution graph. Validation order is
// deterministic: id and sink checks, then reference checks, then module
// construction, then cycle detection.
func Build(ctx context.Context, model *config.Model, reg *registry.Registry, sampleRate float64) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting graph construction.", "modules", len(model.Layout), "sample_rate", sampleRate)

	if sampleRate <= 0 {
		return nil, fmt.Errorf("non-positive sample rate %v", sampleRate)
	}
	if len(model.Layout) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrMissingSink)
	}

	// First pass: id uniqueness and the single-sink rule.
	index := make(map[int]int, len(model.Layout))
	sink := -1
	for i, spec := range model.Layout {
		if prev, dup := index[spec.ID]; dup {
			return nil, fmt.Errorf("%w: %d (entries %d and %d)", ErrDuplicateID, spec.ID, prev, i)
		}
		index[spec.ID] = i
		if spec.OSOut {
			if sink >= 0 {
				return nil, fmt.Errorf("%w: modules %d and %d", ErrMultipleSinks, model.Layout[sink].ID, spec.ID)
			}
			sink = i
		}
	}
	if sink < 0 {
		return nil, ErrMissingSink
	}
	logger.Debug("Build: id and sink checks passed.", "sink_id", model.Layout[sink].ID)

	// Second pass: every input-from and from-id must resolve.
	for _, spec := range model.Layout {
		for _, from := range spec.InputFrom {
			if _, ok := index[from]; !ok {
				return nil, fmt.Errorf("%w: module %d input-from %d", ErrDanglingReference, spec.ID, from)
			}
		}
		for _, aux := range spec.Auxiliaries {
			if _, ok := index[aux.FromID]; !ok {
				return nil, fmt.Errorf("%w: module %d auxiliary from-id %d", ErrDanglingReference, spec.ID, aux.FromID)
			}
		}
	}
	logger.Debug("Build: reference checks passed.")

	// Third pass: construct instances and check their contracts against
	// the wiring.
	nodes := make([]*Node, len(model.Layout))
	for i, spec := range model.Layout {
		mod, err := reg.Construct(spec.Type, spec.Config, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", spec.ID, err)
		}
		if got, wired := mod.InputCount(), len(spec.InputFrom); got != wired {
			return nil, fmt.Errorf("%w: module %d (%s) declares %d inputs but %d are wired",
				registry.ErrInvalidConfig, spec.ID, spec.Type, got, wired)
		}
		seen := make(map[string]bool, len(spec.Auxiliaries))
		for _, aux := range spec.Auxiliaries {
			if seen[aux.LinkedWith] {
				return nil, fmt.Errorf("%w: module %d: parameter %q modulated by more than one auxiliary",
					registry.ErrInvalidConfig, spec.ID, aux.LinkedWith)
			}
			seen[aux.LinkedWith] = true
			if _, err := mod.Parameter(aux.LinkedWith); err != nil {
				return nil, fmt.Errorf("module %d auxiliary: %w", spec.ID, err)
			}
		}
		nodes[i] = &Node{ID: spec.ID, Type: spec.Type, Module: mod}
	}
	logger.Debug("Build: module construction passed.")

	// Fourth pass: dependency edges and the topological order. Primary
	// wiring and auxiliary links both mean "compute the source first".
	deps := dag.New()
	for _, spec := range model.Layout {
		deps.AddNode(spec.ID)
	}
	for _, spec := range model.Layout {
		for _, from := range spec.InputFrom {
			if err := deps.AddEdge(from, spec.ID); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCyclicGraph, err)
			}
		}
		for _, aux := range spec.Auxiliaries {
			if err := deps.AddEdge(aux.FromID, spec.ID); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCyclicGraph, err)
			}
		}
	}
	idOrder, err := deps.TopoSort()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCyclicGraph, err)
	}
	logger.Debug("Build: cycle detection passed.")

	// Emit the graph: resolved input indices, topological order over arena
	// indices, and the routing table in layout declaration order.
	for i, spec := range model.Layout {
		if len(spec.InputFrom) > 0 {
			nodes[i].Inputs = make([]int, len(spec.InputFrom))
			for slot, from := range spec.InputFrom {
				nodes[i].Inputs[slot] = index[from]
			}
		}
	}
	order := make([]int, len(idOrder))
	for i, id := range idOrder {
		order[i] = index[id]
	}
	var aux []AuxRoute
	for i, spec := range model.Layout {
		for _, link := range spec.Auxiliaries {
			route := AuxRoute{
				Source:    index[link.FromID],
				Target:    i,
				Param:     link.LinkedWith,
				Translate: link.Translated(),
			}
			route.Min, route.Max = link.Range()
			aux = append(aux, route)
		}
	}

	logger.Info("Build: graph construction successful.",
		"modules", len(nodes), "aux_routes", len(aux), "sink_id", nodes[sink].ID)
	return &Graph{
		Nodes:      nodes,
		Order:      order,
		Aux:        aux,
		Sink:       sink,
		SampleRate: sampleRate,
	}, nil
}
