// Package hclcfg loads layouts written in HCL into the agnostic config
// model, as an alternative to the YAML format. A document is a `version`
// attribute plus repeated `module` blocks:
//
//	version = 1
//
//	module {
//	  id     = 1
//	  type   = "oscillator"
//	  os_out = true
//	  config {
//	    frequency = 440
//	  }
//	  aux {
//	    from_id     = 2
//	    linked_with = "frequency"
//	  }
//	}
package hclcfg

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/modgrid/modgrid/internal/config"
	"github.com/modgrid/modgrid/internal/ctxlog"
)

// ErrUnsupportedVersion reports a document tagged with a format version
// this build does not understand.
var ErrUnsupportedVersion = errors.New("unsupported layout version")

// Loader implements config.Loader for HCL documents.
type Loader struct{}

// NewLoader creates the HCL loader.
func NewLoader() *Loader { return &Loader{} }

type document struct {
	Version int           `hcl:"version"`
	Modules []moduleBlock `hcl:"module,block"`
}

type moduleBlock struct {
	ID        int          `hcl:"id"`
	Type      string       `hcl:"type"`
	OSOut     bool         `hcl:"os_out,optional"`
	InputFrom []int        `hcl:"input_from,optional"`
	Config    *configBlock `hcl:"config,block"`
	Aux       []auxBlock   `hcl:"aux,block"`
}

// configBlock defers its attributes so arbitrary, module-type-specific
// keys decode without a fixed schema.
type configBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type auxBlock struct {
	FromID     int      `hcl:"from_id"`
	LinkedWith string   `hcl:"linked_with"`
	Max        *float64 `hcl:"max,optional"`
	Min        *float64 `hcl:"min,optional"`
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading HCL layout.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse layout %s: %w", path, diags)
	}

	var doc document
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("decode layout %s: %w", path, diags)
	}

	if doc.Version != config.Version {
		return nil, fmt.Errorf("%w: %d (this build understands %d)", ErrUnsupportedVersion, doc.Version, config.Version)
	}

	model := &config.Model{Version: doc.Version}
	for i := range doc.Modules {
		spec, err := translate(&doc.Modules[i])
		if err != nil {
			return nil, fmt.Errorf("module block %d: %w", i, err)
		}
		model.Layout = append(model.Layout, spec)
	}

	logger.Debug("HCL layout loaded.", "modules", len(model.Layout))
	return model, nil
}

func translate(b *moduleBlock) (*config.ModuleSpec, error) {
	if b.Type == "" {
		return nil, fmt.Errorf("module %d: missing type", b.ID)
	}

	params, err := extractParams(b.Config)
	if err != nil {
		return nil, fmt.Errorf("module %d: %w", b.ID, err)
	}

	spec := &config.ModuleSpec{
		ID:        b.ID,
		Type:      b.Type,
		OSOut:     b.OSOut,
		InputFrom: b.InputFrom,
		Config:    params,
	}
	for _, aux := range b.Aux {
		if aux.LinkedWith == "" {
			return nil, fmt.Errorf("module %d: aux block missing linked_with", b.ID)
		}
		spec.Auxiliaries = append(spec.Auxiliaries, &config.AuxiliaryLink{
			FromID:     aux.FromID,
			LinkedWith: aux.LinkedWith,
			Max:        aux.Max,
			Min:        aux.Min,
		})
	}
	return spec, nil
}

// extractParams evaluates every attribute of the config block into the
// model's float64/string value set.
func extractParams(block *configBlock) (config.Params, error) {
	if block == nil {
		return config.Params{}, nil
	}
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("config block: %w", diags)
	}
	params := make(config.Params, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("config key %q: %w", name, diags)
		}
		switch {
		case val.Type() == cty.Number:
			f, _ := val.AsBigFloat().Float64()
			params[name] = f
		case val.Type() == cty.String:
			params[name] = val.AsString()
		default:
			return nil, fmt.Errorf("config key %q: unsupported value type %s", name, val.Type().FriendlyName())
		}
	}
	return params, nil
}
