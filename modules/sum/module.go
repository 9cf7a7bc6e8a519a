// Package sum provides the built-in mixing module.
//
// A sum with input-amount up to 3 reads per-input gains in-1..in-3 from its
// own configuration and exposes them as modulatable parameters. Above 3
// inputs the in-k keys are ignored and every input contributes unweighted;
// upstream modules are expected to pre-scale their outputs. Both variants
// apply out-gain to the result. The bifurcation mirrors the wiring model of
// the layout format and is intentionally not generalized.
package sum

import (
	"fmt"

	"github.com/modgrid/modgrid/internal/config"
	"github.com/modgrid/modgrid/internal/registry"
	"github.com/modgrid/modgrid/internal/synth"
)

// TypeName is the layout type string this package registers.
const TypeName = "sum"

// gainedInputLimit is the largest fan-in for which per-input gain
// parameters exist.
const gainedInputLimit = 3

const (
	minGain = 0.0
	maxGain = 10.0
	defGain = 1.0
)

// Module registers the sum constructor.
type Module struct{}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(TypeName, New)
}

// Sum mixes its wired inputs into one output sample per tick.
type Sum struct {
	*synth.ParamSet

	name    string
	inCount int
	outGain *synth.Parameter
	// inGains holds one gain per input slot; nil above gainedInputLimit.
	inGains []*synth.Parameter
}

// New constructs a sum from layout configuration. Recognized config keys:
// name, input-amount, out-gain, and in-1..in-3 when input-amount <= 3.
func New(cfg config.Params, _ float64) (synth.Module, error) {
	amount := cfg.FloatOr("input-amount", 2)
	inCount := int(amount)
	if float64(inCount) != amount || inCount <= 0 {
		return nil, fmt.Errorf("input-amount %v is not a positive integer", amount)
	}

	outGain, err := synth.NewParameter("out-gain", minGain, maxGain, cfg.FloatOr("out-gain", defGain))
	if err != nil {
		return nil, err
	}

	params := []*synth.Parameter{outGain}
	var inGains []*synth.Parameter
	if inCount <= gainedInputLimit {
		inGains = make([]*synth.Parameter, inCount)
		for i := range inGains {
			key := fmt.Sprintf("in-%d", i+1)
			gain, err := synth.NewParameter(key, minGain, maxGain, cfg.FloatOr(key, defGain))
			if err != nil {
				return nil, err
			}
			inGains[i] = gain
			params = append(params, gain)
		}
	}

	return &Sum{
		ParamSet: synth.NewParamSet(params...),
		name:     cfg.StringOr("name", fmt.Sprintf("%s-%d", TypeName, inCount)),
		inCount:  inCount,
		outGain:  outGain,
		inGains:  inGains,
	}, nil
}

// Name implements synth.Module.
func (s *Sum) Name() string { return s.name }

// InputCount implements synth.Module.
func (s *Sum) InputCount() int { return s.inCount }

// Compute mixes the wired inputs.
func (s *Sum) Compute(inputs []float64) float64 {
	var acc float64
	if s.inGains != nil {
		for i, in := range inputs {
			acc += in * s.inGains[i].Value()
		}
	} else {
		for _, in := range inputs {
			acc += in
		}
	}
	return acc * s.outGain.Value()
}
