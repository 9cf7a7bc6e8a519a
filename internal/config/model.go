// Package config defines the format-agnostic layout model. Loaders
// (yamlcfg, hclcfg) translate their source format into this model; the
// builder consumes it without knowing which loader produced it.
package config

// Version is the layout format version this build understands. Loaders
// reject documents tagged with any other version.
const Version = 1

// Model is the unified representation of a parsed layout document.
type Model struct {
	Version int
	Layout  []*ModuleSpec
}

// ModuleSpec describes one module entry of a layout: its identity, its
// type, its static configuration, its primary input wiring, and the
// auxiliary links that modulate it.
type ModuleSpec struct {
	// ID is the layout-unique integer address of the module.
	ID int
	// Type selects a registered constructor, e.g. "oscillator" or "sum".
	Type string
	// OSOut marks the sink module whose output reaches the audio backend.
	// Exactly one spec per layout carries it.
	OSOut bool
	// InputFrom lists the ids whose current-tick outputs feed this module,
	// in input-slot order. Empty for pure generators.
	InputFrom []int
	// Config holds the module-type-specific parameter values.
	Config Params
	// Auxiliaries declares modulation links targeting this module.
	Auxiliaries []*AuxiliaryLink
}

// AuxiliaryLink routes the output of module FromID onto the parameter
// LinkedWith of the declaring module, one tick delayed.
type AuxiliaryLink struct {
	FromID     int
	LinkedWith string

	// Max and Min, when set, rescale the source output from [-1,1] into
	// [Min,Max] before it is applied. A link with neither set applies the
	// source value untranslated. If only one bound is given the other
	// defaults to 1.0 (max) or 0.0 (min).
	Max *float64
	Min *float64
}

// Translated reports whether the link carries a rescaling range.
func (a *AuxiliaryLink) Translated() bool {
	return a.Max != nil || a.Min != nil
}

// Range returns the effective translation bounds.
func (a *AuxiliaryLink) Range() (min, max float64) {
	min, max = 0.0, 1.0
	if a.Min != nil {
		min = *a.Min
	}
	if a.Max != nil {
		max = *a.Max
	}
	return min, max
}
