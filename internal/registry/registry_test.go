package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modgrid/modgrid/internal/config"
	"github.com/modgrid/modgrid/internal/synth"
)

type stubModule struct {
	*synth.ParamSet
	name string
}

func (m *stubModule) Name() string                { return m.name }
func (m *stubModule) InputCount() int             { return 0 }
func (m *stubModule) Compute(_ []float64) float64 { return 0 }

func stubCtor(cfg config.Params, _ float64) (synth.Module, error) {
	return &stubModule{ParamSet: synth.NewParamSet(), name: cfg.StringOr("name", "stub")}, nil
}

func TestRegistry(t *testing.T) {
	t.Run("constructs a registered type", func(t *testing.T) {
		r := New()
		r.RegisterType("stub", stubCtor)

		mod, err := r.Construct("stub", config.Params{"name": "probe"}, 44100)
		require.NoError(t, err)
		assert.Equal(t, "probe", mod.Name())
	})

	t.Run("unknown type is a sentinel error", func(t *testing.T) {
		r := New()
		_, err := r.Construct("reverb", config.Params{}, 44100)
		require.ErrorIs(t, err, ErrUnknownModuleType)
		assert.Contains(t, err.Error(), "reverb")
	})

	t.Run("constructor failures wrap ErrInvalidConfig", func(t *testing.T) {
		r := New()
		r.RegisterType("broken", func(config.Params, float64) (synth.Module, error) {
			return nil, errors.New("bad frequency")
		})

		_, err := r.Construct("broken", config.Params{}, 44100)
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "bad frequency")
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		r := New()
		r.RegisterType("stub", stubCtor)
		assert.Panics(t, func() { r.RegisterType("stub", stubCtor) })
	})

	t.Run("Types lists names in stable order", func(t *testing.T) {
		r := New()
		r.RegisterType("zeta", stubCtor)
		r.RegisterType("alpha", stubCtor)
		assert.Equal(t, []string{"alpha", "zeta"}, r.Types())
	})
}
