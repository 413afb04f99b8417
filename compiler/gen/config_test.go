package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureEnabled(t *testing.T) {
	t.Run("defaults apply when not configured", func(t *testing.T) {
		c := &Config{}
		for _, f := range AllFeatures {
			enabled, err := c.FeatureEnabled(f.Name)
			require.NoError(t, err)
			assert.Equal(t, f.Default, enabled, f.Name)
		}
	})

	t.Run("disabled wins over default", func(t *testing.T) {
		c := &Config{Disabled: []string{FeatureMapper.Name}}
		enabled, err := c.FeatureEnabled(FeatureMapper.Name)
		require.NoError(t, err)
		assert.False(t, enabled)
		assert.True(t, c.HasFeature(FeatureSeq.Name))
	})

	t.Run("unknown feature", func(t *testing.T) {
		c := &Config{}
		_, err := c.FeatureEnabled("privacy")
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.False(t, c.HasFeature("privacy"))
	})
}

func TestSourceAtLeast(t *testing.T) {
	tests := []struct {
		level    string
		expected bool
	}{
		{"", true},
		{"1.21", false},
		{"1.22.5", false},
		{"1.23", true},
		{"1.23.0", true},
		{"1.24.11", true},
		{"2.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			c := &Config{SourceLevel: tt.level}
			assert.Equal(t, tt.expected, c.SourceAtLeast("1.23"))
		})
	}
}

func TestGenerateFunc(t *testing.T) {
	var order []string
	hook := func(name string) Hook {
		return func(next Generator) Generator {
			return GenerateFunc(func(g *Graph) error {
				order = append(order, name)
				return next.Generate(g)
			})
		}
	}
	var gen Generator = GenerateFunc(func(*Graph) error {
		order = append(order, "base")
		return nil
	})
	hooks := []Hook{hook("first"), hook("second")}
	for i := len(hooks) - 1; i >= 0; i-- {
		gen = hooks[i](gen)
	}
	require.NoError(t, gen.Generate(&Graph{}))
	assert.Equal(t, []string{"first", "second", "base"}, order)
}
