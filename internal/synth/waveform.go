package synth

import (
	"fmt"
	"math"
)

// Waveform maps a normalized phase in [0,1) to a sample in [-1,1]. The
// oscillator advances its phase accumulator once per tick and delegates the
// shape of the output to the selected waveform.
type Waveform func(phase float64) float64

// Sine is the default oscillator shape.
func Sine(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

// Saw rises linearly from -1 to 1 over one cycle.
func Saw(phase float64) float64 {
	return 2*phase - 1
}

// Square spends half the cycle at +1 and half at -1.
func Square(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

// Triangle rises from 0 to 1, falls through 0 to -1, and returns to 0.
func Triangle(phase float64) float64 {
	switch {
	case phase < 0.25:
		return 4 * phase
	case phase < 0.75:
		return 2 - 4*phase
	default:
		return 4*phase - 4
	}
}

// Pulse is a square wave with an adjustable duty cycle. width must lie in
// (0,1); this is a fixed shape, not pulse-width modulation.
func Pulse(width float64) Waveform {
	return func(phase float64) float64 {
		if phase < width {
			return 1
		}
		return -1
	}
}

// WaveformByName resolves a layout's wave name to a strategy. pulseWidth is
// only consulted for "pulse".
func WaveformByName(name string, pulseWidth float64) (Waveform, error) {
	switch name {
	case "", "sine":
		return Sine, nil
	case "saw":
		return Saw, nil
	case "square":
		return Square, nil
	case "triangle":
		return Triangle, nil
	case "pulse":
		if pulseWidth <= 0 || pulseWidth >= 1 {
			return nil, fmt.Errorf("pulse width %v outside (0, 1)", pulseWidth)
		}
		return Pulse(pulseWidth), nil
	}
	return nil, fmt.Errorf("unknown waveform %q", name)
}
