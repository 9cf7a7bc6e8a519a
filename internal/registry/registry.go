// Package registry maps module-type names to constructors. Built-in module
// packages under modules/ register themselves here at application startup;
// the builder instantiates layout entries through Construct.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/modgrid/modgrid/internal/config"
	"github.com/modgrid/modgrid/internal/synth"
)

var (
	// ErrUnknownModuleType reports a layout entry whose type name has no
	// registered constructor.
	ErrUnknownModuleType = errors.New("unknown module type")
	// ErrInvalidConfig reports a constructor that rejected its configuration:
	// required parameters missing, values out of range, bad waveform names.
	ErrInvalidConfig = errors.New("invalid module config")
)

// Constructor builds one module instance from its layout configuration.
// sampleRate is the engine-wide rate in Hz; modules with time-dependent
// state (oscillator phase) derive their per-tick increments from it.
type Constructor func(cfg config.Params, sampleRate float64) (synth.Module, error)

// Module is the interface each built-in module package implements to be
// registered with an application instance.
type Module interface {
	Register(r *Registry)
}

// Registry holds the constructors for a single application instance.
type Registry struct {
	constructors map[string]Constructor
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// RegisterType registers a constructor under a type name. Registering the
// same name twice is a programmer error and panics.
func (r *Registry) RegisterType(name string, ctor Constructor) {
	if _, exists := r.constructors[name]; exists {
		panic(fmt.Sprintf("module type %q already registered", name))
	}
	slog.Debug("Registering module type.", "type", name)
	r.constructors[name] = ctor
}

// Construct builds a module instance of the named type. It has no side
// effects beyond allocating the instance.
func (r *Registry) Construct(name string, cfg config.Params, sampleRate float64) (synth.Module, error) {
	ctor, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModuleType, name)
	}
	mod, err := ctor(cfg, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: type %q: %v", ErrInvalidConfig, name, err)
	}
	return mod, nil
}

// Types lists the registered type names in stable order, for diagnostics.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
