// Package synth defines the capability contract every signal-processing
// module fulfills, plus the parameter and waveform primitives the built-in
// modules are made of.
package synth

import "errors"

var (
	// ErrParameterNotFound reports a get/set against a parameter name the
	// module does not declare.
	ErrParameterNotFound = errors.New("parameter not found")
	// ErrInvalidValue reports a set with a value outside the parameter's
	// declared range.
	ErrInvalidValue = errors.New("invalid parameter value")
)

// Module is one signal-processing unit of a graph. A module produces exactly
// one output value per evaluation tick from its wired inputs, its current
// parameter values, and its internal state.
//
// Compute is on the real-time hot path: implementations must not block,
// allocate, or perform I/O. The inputs slice is owned by the engine and only
// valid for the duration of the call.
type Module interface {
	// Name returns the display name of the instance, for diagnostics only.
	Name() string

	// Parameter returns the current value of the named parameter.
	Parameter(name string) (float64, error)

	// SetParameter overwrites the named parameter. Values outside the
	// parameter's range are rejected with ErrInvalidValue and the previous
	// value is kept.
	SetParameter(name string, value float64) error

	// InputCount is the number of primary inputs the module consumes per
	// tick. Zero for pure generators. The builder rejects layouts that wire
	// a different number.
	InputCount() int

	// Compute produces the module's output for the current tick. inputs
	// holds the already-computed current-tick outputs of the wired upstream
	// modules, in input-slot order; len(inputs) == InputCount().
	Compute(inputs []float64) float64
}
