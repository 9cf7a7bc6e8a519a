// Package passthrough provides a one-input module that emits its input
// unchanged. It is useful as a tap point for auxiliary links and as a
// neutral element when testing graph wiring.
package passthrough

import (
	"github.com/modgrid/modgrid/internal/config"
	"github.com/modgrid/modgrid/internal/registry"
	"github.com/modgrid/modgrid/internal/synth"
)

// TypeName is the layout type string this package registers.
const TypeName = "pass_through"

// Module registers the pass_through constructor.
type Module struct{}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(TypeName, New)
}

// PassThrough forwards its single input.
type PassThrough struct {
	*synth.ParamSet
	name string
}

// New constructs a pass_through from layout configuration. The only
// recognized config key is name.
func New(cfg config.Params, _ float64) (synth.Module, error) {
	return &PassThrough{
		ParamSet: synth.NewParamSet(),
		name:     cfg.StringOr("name", TypeName),
	}, nil
}

// Name implements synth.Module.
func (p *PassThrough) Name() string { return p.name }

// InputCount implements synth.Module.
func (p *PassThrough) InputCount() int { return 1 }

// Compute implements synth.Module.
func (p *PassThrough) Compute(inputs []float64) float64 {
	return inputs[0]
}
