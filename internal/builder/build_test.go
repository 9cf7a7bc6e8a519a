package builder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modgrid/modgrid/internal/builder"
	"github.com/modgrid/modgrid/internal/config"
	"github.com/modgrid/modgrid/internal/registry"
	"github.com/modgrid/modgrid/internal/synth"
	"github.com/modgrid/modgrid/modules/oscillator"
	"github.com/modgrid/modgrid/modules/passthrough"
	"github.com/modgrid/modgrid/modules/sum"
)

const sampleRate = 44100.0

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	for _, mod := range []registry.Module{
		&oscillator.Module{}, &sum.Module{}, &passthrough.Module{},
	} {
		mod.Register(r)
	}
	return r
}

func osc(id int, cfg config.Params) *config.ModuleSpec {
	return &config.ModuleSpec{ID: id, Type: oscillator.TypeName, Config: cfg}
}

func model(specs ...*config.ModuleSpec) *config.Model {
	return &config.Model{Version: config.Version, Layout: specs}
}

func TestBuildTopology(t *testing.T) {
	ctx := context.Background()

	t.Run("single oscillator sink", func(t *testing.T) {
		m := model(&config.ModuleSpec{
			ID: 1, Type: oscillator.TypeName, OSOut: true, Config: config.Params{},
		})
		g, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.NoError(t, err)
		assert.Len(t, g.Nodes, 1)
		assert.Equal(t, []int{0}, g.Order)
		assert.Equal(t, 0, g.Sink)
		assert.Equal(t, sampleRate, g.SampleRate)
	})

	t.Run("orders inputs before consumers", func(t *testing.T) {
		m := model(
			&config.ModuleSpec{
				ID: 3, Type: sum.TypeName, OSOut: true,
				InputFrom: []int{1, 2},
				Config:    config.Params{},
			},
			osc(2, config.Params{"frequency": 220.0}),
			osc(1, config.Params{"frequency": 440.0}),
		)
		g, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.NoError(t, err)

		// Arena indices: sum=0, osc2=1, osc1=2. Topological order is
		// id-ascending among ready nodes: 1, 2, 3.
		assert.Equal(t, []int{2, 1, 0}, g.Order)
		assert.Equal(t, []int{2, 1}, g.Nodes[0].Inputs)
		assert.Equal(t, 0, g.Sink)
	})

	t.Run("auxiliary links order their source first", func(t *testing.T) {
		min, max := 100.0, 880.0
		m := model(
			&config.ModuleSpec{
				ID: 1, Type: oscillator.TypeName, OSOut: true,
				Config: config.Params{},
				Auxiliaries: []*config.AuxiliaryLink{
					{FromID: 2, LinkedWith: "frequency", Min: &min, Max: &max},
				},
			},
			osc(2, config.Params{"frequency": 0.5}),
		)
		g, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.NoError(t, err)

		require.Len(t, g.Aux, 1)
		route := g.Aux[0]
		assert.Equal(t, 1, route.Source)
		assert.Equal(t, 0, route.Target)
		assert.Equal(t, "frequency", route.Param)
		assert.True(t, route.Translate)
		// LFO source computes before its modulation target.
		assert.Equal(t, []int{1, 0}, g.Order)
	})

	t.Run("identical models build identical orders", func(t *testing.T) {
		build := func() []int {
			m := model(
				&config.ModuleSpec{
					ID: 9, Type: sum.TypeName, OSOut: true,
					InputFrom: []int{4, 7}, Config: config.Params{},
				},
				osc(7, config.Params{}),
				osc(4, config.Params{}),
			)
			g, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
			require.NoError(t, err)
			return g.Order
		}
		first := build()
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, build())
		}
	})
}

func TestBuildValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate id", func(t *testing.T) {
		m := model(
			osc(1, config.Params{}),
			&config.ModuleSpec{ID: 1, Type: oscillator.TypeName, OSOut: true, Config: config.Params{}},
		)
		_, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.ErrorIs(t, err, builder.ErrDuplicateID)
	})

	t.Run("missing sink", func(t *testing.T) {
		_, err := builder.Build(ctx, model(osc(1, config.Params{})), testRegistry(t), sampleRate)
		require.ErrorIs(t, err, builder.ErrMissingSink)
	})

	t.Run("empty layout", func(t *testing.T) {
		_, err := builder.Build(ctx, model(), testRegistry(t), sampleRate)
		require.ErrorIs(t, err, builder.ErrMissingSink)
	})

	t.Run("multiple sinks", func(t *testing.T) {
		m := model(
			&config.ModuleSpec{ID: 1, Type: oscillator.TypeName, OSOut: true, Config: config.Params{}},
			&config.ModuleSpec{ID: 2, Type: oscillator.TypeName, OSOut: true, Config: config.Params{}},
		)
		_, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.ErrorIs(t, err, builder.ErrMultipleSinks)
	})

	t.Run("dangling input reference", func(t *testing.T) {
		m := model(&config.ModuleSpec{
			ID: 1, Type: passthrough.TypeName, OSOut: true,
			InputFrom: []int{42}, Config: config.Params{},
		})
		_, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.ErrorIs(t, err, builder.ErrDanglingReference)
		assert.Contains(t, err.Error(), "42")
	})

	t.Run("dangling auxiliary reference", func(t *testing.T) {
		m := model(&config.ModuleSpec{
			ID: 1, Type: oscillator.TypeName, OSOut: true,
			Config:      config.Params{},
			Auxiliaries: []*config.AuxiliaryLink{{FromID: 42, LinkedWith: "frequency"}},
		})
		_, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.ErrorIs(t, err, builder.ErrDanglingReference)
	})

	t.Run("unknown module type", func(t *testing.T) {
		m := model(&config.ModuleSpec{ID: 1, Type: "reverb", OSOut: true, Config: config.Params{}})
		_, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.ErrorIs(t, err, registry.ErrUnknownModuleType)
	})

	t.Run("constructor rejection surfaces as invalid config", func(t *testing.T) {
		m := model(&config.ModuleSpec{
			ID: 1, Type: oscillator.TypeName, OSOut: true,
			Config: config.Params{"frequency": -1.0},
		})
		_, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.ErrorIs(t, err, registry.ErrInvalidConfig)
	})

	t.Run("input count mismatch", func(t *testing.T) {
		// A sum declaring 2 inputs but wired with 1.
		m := model(
			osc(1, config.Params{}),
			&config.ModuleSpec{
				ID: 2, Type: sum.TypeName, OSOut: true,
				InputFrom: []int{1}, Config: config.Params{},
			},
		)
		_, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.ErrorIs(t, err, registry.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "declares 2 inputs but 1 are wired")
	})

	t.Run("auxiliary targeting an unknown parameter", func(t *testing.T) {
		m := model(
			&config.ModuleSpec{
				ID: 1, Type: oscillator.TypeName, OSOut: true,
				Config:      config.Params{},
				Auxiliaries: []*config.AuxiliaryLink{{FromID: 2, LinkedWith: "resonance"}},
			},
			osc(2, config.Params{}),
		)
		_, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.ErrorIs(t, err, synth.ErrParameterNotFound)
	})

	t.Run("parameter modulated by two auxiliaries", func(t *testing.T) {
		m := model(
			&config.ModuleSpec{
				ID: 1, Type: oscillator.TypeName, OSOut: true,
				Config: config.Params{},
				Auxiliaries: []*config.AuxiliaryLink{
					{FromID: 2, LinkedWith: "frequency"},
					{FromID: 3, LinkedWith: "frequency"},
				},
			},
			osc(2, config.Params{}),
			osc(3, config.Params{}),
		)
		_, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.ErrorIs(t, err, registry.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "more than one auxiliary")
	})

	t.Run("cycle through primary inputs", func(t *testing.T) {
		m := model(
			&config.ModuleSpec{
				ID: 1, Type: passthrough.TypeName, OSOut: true,
				InputFrom: []int{2}, Config: config.Params{},
			},
			&config.ModuleSpec{
				ID: 2, Type: passthrough.TypeName,
				InputFrom: []int{1}, Config: config.Params{},
			},
		)
		_, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.ErrorIs(t, err, builder.ErrCyclicGraph)
	})

	t.Run("self-referential auxiliary is cyclic", func(t *testing.T) {
		m := model(&config.ModuleSpec{
			ID: 1, Type: oscillator.TypeName, OSOut: true,
			Config:      config.Params{},
			Auxiliaries: []*config.AuxiliaryLink{{FromID: 1, LinkedWith: "frequency"}},
		})
		_, err := builder.Build(ctx, m, testRegistry(t), sampleRate)
		require.ErrorIs(t, err, builder.ErrCyclicGraph)
	})

	t.Run("non-positive sample rate", func(t *testing.T) {
		m := model(&config.ModuleSpec{ID: 1, Type: oscillator.TypeName, OSOut: true, Config: config.Params{}})
		_, err := builder.Build(ctx, m, testRegistry(t), 0)
		require.Error(t, err)
	})
}

func TestAuxRouteApply(t *testing.T) {
	t.Run("untranslated routes pass through", func(t *testing.T) {
		route := builder.AuxRoute{}
		assert.Equal(t, 0.7, route.Apply(0.7))
		assert.Equal(t, -0.3, route.Apply(-0.3))
	})

	t.Run("translation maps [-1,1] onto [min,max]", func(t *testing.T) {
		route := builder.AuxRoute{Translate: true, Min: 100, Max: 900}
		assert.Equal(t, 100.0, route.Apply(-1))
		assert.Equal(t, 500.0, route.Apply(0))
		assert.Equal(t, 900.0, route.Apply(1))
	})
}
