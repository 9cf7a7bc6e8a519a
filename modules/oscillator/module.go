// Package oscillator provides the built-in signal generator module. An
// oscillator has no inputs; it advances a phase accumulator once per tick
// and shapes it with a pluggable waveform.
package oscillator

import (
	"fmt"
	"math"

	"github.com/modgrid/modgrid/internal/config"
	"github.com/modgrid/modgrid/internal/registry"
	"github.com/modgrid/modgrid/internal/synth"
)

// TypeName is the layout type string this package registers.
const TypeName = "oscillator"

// Parameter ranges. Frequency spans the audible band plus LFO territory;
// amplitude beyond 1.0 would clip at the OS boundary.
const (
	minFrequency = 0.0
	maxFrequency = 22000.0
	defFrequency = 440.0
	defAmplitude = 1.0
)

// Module registers the oscillator constructor.
type Module struct{}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(TypeName, New)
}

// Oscillator generates one sample per tick from its phase accumulator.
type Oscillator struct {
	*synth.ParamSet

	name       string
	wave       synth.Waveform
	sampleRate float64

	frequency *synth.Parameter
	amplitude *synth.Parameter

	// phase is the accumulator in [0,1), advanced by frequency/sampleRate
	// after every computed sample.
	phase float64
}

// New constructs an oscillator from layout configuration. Recognized config
// keys: name, frequency, amplitude, phase, wave, pulse-width.
func New(cfg config.Params, sampleRate float64) (synth.Module, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("non-positive sample rate %v", sampleRate)
	}

	frequency, err := synth.NewParameter("frequency", minFrequency, maxFrequency, cfg.FloatOr("frequency", defFrequency))
	if err != nil {
		return nil, err
	}
	amplitude, err := synth.NewParameter("amplitude", 0, 1, cfg.FloatOr("amplitude", defAmplitude))
	if err != nil {
		return nil, err
	}

	phase := cfg.FloatOr("phase", 0)
	if phase < 0 || phase >= 1 {
		return nil, fmt.Errorf("initial phase %v outside [0, 1)", phase)
	}

	wave, err := synth.WaveformByName(cfg.StringOr("wave", "sine"), cfg.FloatOr("pulse-width", 0.5))
	if err != nil {
		return nil, err
	}

	return &Oscillator{
		ParamSet:   synth.NewParamSet(frequency, amplitude),
		name:       cfg.StringOr("name", TypeName),
		wave:       wave,
		sampleRate: sampleRate,
		frequency:  frequency,
		amplitude:  amplitude,
		phase:      phase,
	}, nil
}

// Name implements synth.Module.
func (o *Oscillator) Name() string { return o.name }

// InputCount implements synth.Module. Oscillators are pure generators.
func (o *Oscillator) InputCount() int { return 0 }

// Compute emits amplitude * waveform(phase) and advances the accumulator.
func (o *Oscillator) Compute(_ []float64) float64 {
	out := o.amplitude.Value() * o.wave(o.phase)
	o.phase += o.frequency.Value() / o.sampleRate
	o.phase -= math.Floor(o.phase)
	return out
}
