// Package yamlcfg loads the YAML layout format into the agnostic config
// model. The document shape is a `version` tag and a `layout` list of
// `module` entries; see the layouts directory for examples.
package yamlcfg

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/modgrid/modgrid/internal/config"
	"github.com/modgrid/modgrid/internal/ctxlog"
)

// ErrUnsupportedVersion reports a document tagged with a format version
// this build does not understand.
var ErrUnsupportedVersion = errors.New("unsupported layout version")

// Loader implements config.Loader for YAML documents.
type Loader struct{}

// NewLoader creates the YAML loader.
func NewLoader() *Loader { return &Loader{} }

type document struct {
	Version int           `yaml:"version"`
	Layout  []moduleEntry `yaml:"layout"`
}

type moduleEntry struct {
	Module moduleSpec `yaml:"module"`
}

type moduleSpec struct {
	ID          *int           `yaml:"id"`
	Type        string         `yaml:"type"`
	OSOut       bool           `yaml:"os-out"`
	InputFrom   idList         `yaml:"input-from"`
	Config      map[string]any `yaml:"config"`
	Auxiliaries []auxEntry     `yaml:"auxiliaries"`
}

type auxEntry struct {
	Aux auxSpec `yaml:"aux"`
}

type auxSpec struct {
	FromID     *int     `yaml:"from-id"`
	LinkedWith string   `yaml:"linked-with"`
	Max        *float64 `yaml:"max"`
	Min        *float64 `yaml:"min"`
}

// idList accepts a single id or a sequence of ids, so a one-input module
// can write `input-from: 3` without list syntax.
type idList []int

func (l *idList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var id int
		if err := node.Decode(&id); err != nil {
			return fmt.Errorf("input-from: %w", err)
		}
		*l = idList{id}
		return nil
	case yaml.SequenceNode:
		var ids []int
		if err := node.Decode(&ids); err != nil {
			return fmt.Errorf("input-from: %w", err)
		}
		*l = idList(ids)
		return nil
	}
	return fmt.Errorf("input-from: expected id or list of ids, got %s", node.Tag)
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading YAML layout.", "path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", path, err)
	}

	if doc.Version != config.Version {
		return nil, fmt.Errorf("%w: %d (this build understands %d)", ErrUnsupportedVersion, doc.Version, config.Version)
	}

	model := &config.Model{Version: doc.Version}
	for i, entry := range doc.Layout {
		spec, err := translate(&entry.Module)
		if err != nil {
			return nil, fmt.Errorf("layout entry %d: %w", i, err)
		}
		model.Layout = append(model.Layout, spec)
	}

	logger.Debug("YAML layout loaded.", "modules", len(model.Layout))
	return model, nil
}

func translate(m *moduleSpec) (*config.ModuleSpec, error) {
	if m.ID == nil {
		return nil, errors.New("missing module id")
	}
	if m.Type == "" {
		return nil, fmt.Errorf("module %d: missing type", *m.ID)
	}

	params, err := normalizeParams(m.Config)
	if err != nil {
		return nil, fmt.Errorf("module %d: %w", *m.ID, err)
	}

	spec := &config.ModuleSpec{
		ID:        *m.ID,
		Type:      m.Type,
		OSOut:     m.OSOut,
		InputFrom: m.InputFrom,
		Config:    params,
	}
	for _, entry := range m.Auxiliaries {
		aux := entry.Aux
		if aux.FromID == nil {
			return nil, fmt.Errorf("module %d: auxiliary missing from-id", *m.ID)
		}
		if aux.LinkedWith == "" {
			return nil, fmt.Errorf("module %d: auxiliary missing linked-with", *m.ID)
		}
		spec.Auxiliaries = append(spec.Auxiliaries, &config.AuxiliaryLink{
			FromID:     *aux.FromID,
			LinkedWith: aux.LinkedWith,
			Max:        aux.Max,
			Min:        aux.Min,
		})
	}
	return spec, nil
}

// normalizeParams coerces YAML scalar types to the model's float64/string
// value set; integers in the document become float64.
func normalizeParams(raw map[string]any) (config.Params, error) {
	if len(raw) == 0 {
		return config.Params{}, nil
	}
	params := make(config.Params, len(raw))
	for key, v := range raw {
		switch val := v.(type) {
		case int:
			params[key] = float64(val)
		case float64:
			params[key] = val
		case string:
			params[key] = val
		default:
			return nil, fmt.Errorf("config key %q: unsupported value type %T", key, v)
		}
	}
	return params, nil
}
