package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestAuxiliaryLinkRange(t *testing.T) {
	t.Run("bare link is untranslated", func(t *testing.T) {
		link := &AuxiliaryLink{FromID: 1, LinkedWith: "frequency"}
		assert.False(t, link.Translated())
	})

	t.Run("either bound makes the link translated", func(t *testing.T) {
		assert.True(t, (&AuxiliaryLink{Max: floatPtr(2)}).Translated())
		assert.True(t, (&AuxiliaryLink{Min: floatPtr(-2)}).Translated())
	})

	t.Run("missing bounds default to [0,1]", func(t *testing.T) {
		min, max := (&AuxiliaryLink{Max: floatPtr(880)}).Range()
		assert.Equal(t, 0.0, min)
		assert.Equal(t, 880.0, max)

		min, max = (&AuxiliaryLink{Min: floatPtr(-1)}).Range()
		assert.Equal(t, -1.0, min)
		assert.Equal(t, 1.0, max)
	})
}

func TestParams(t *testing.T) {
	p := Params{"frequency": 440.0, "count": 3, "wave": "saw"}

	t.Run("Float reads numbers of either Go type", func(t *testing.T) {
		v, ok := p.Float("frequency")
		assert.True(t, ok)
		assert.Equal(t, 440.0, v)

		v, ok = p.Float("count")
		assert.True(t, ok)
		assert.Equal(t, 3.0, v)
	})

	t.Run("Float rejects strings and absent keys", func(t *testing.T) {
		_, ok := p.Float("wave")
		assert.False(t, ok)
		_, ok = p.Float("missing")
		assert.False(t, ok)
	})

	t.Run("defaults apply only when absent", func(t *testing.T) {
		assert.Equal(t, 440.0, p.FloatOr("frequency", 220))
		assert.Equal(t, 220.0, p.FloatOr("missing", 220))
		assert.Equal(t, "saw", p.StringOr("wave", "sine"))
		assert.Equal(t, "sine", p.StringOr("missing", "sine"))
	})

	t.Run("Has is type-agnostic", func(t *testing.T) {
		assert.True(t, p.Has("wave"))
		assert.False(t, p.Has("missing"))
	})
}
