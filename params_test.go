package queryval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/queryval"
)

func validatedParams(t *testing.T) *queryval.Params {
	t.Helper()

	p, err := queryval.ValidateMap(
		map[string]string{"num": "42", "name": "gopher", "rate": "0.5"},
		map[string]queryval.Converter{"num": queryval.Int, "name": nil, "rate": queryval.Float64},
	).Validate()
	require.NoError(t, err)
	return p
}

func TestParams_Access(t *testing.T) {
	t.Parallel()

	t.Run("Get returns stored values", func(t *testing.T) {
		t.Parallel()

		p := validatedParams(t)
		v, err := p.Get("num")
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("Get on unknown name fails with not-found", func(t *testing.T) {
		t.Parallel()

		p := validatedParams(t)
		_, err := p.Get("unknown")
		require.Error(t, err)
		assert.ErrorIs(t, err, queryval.ErrParamNotFound)
	})

	t.Run("Lookup reports membership", func(t *testing.T) {
		t.Parallel()

		p := validatedParams(t)
		v, ok := p.Lookup("name")
		assert.True(t, ok)
		assert.Equal(t, "gopher", v)

		_, ok = p.Lookup("unknown")
		assert.False(t, ok)
	})

	t.Run("MustGet panics on unknown name", func(t *testing.T) {
		t.Parallel()

		p := validatedParams(t)
		assert.NotPanics(t, func() { p.MustGet("num") })
		assert.Panics(t, func() { p.MustGet("unknown") })
	})

	t.Run("Has and Len", func(t *testing.T) {
		t.Parallel()

		p := validatedParams(t)
		assert.True(t, p.Has("rate"))
		assert.False(t, p.Has("unknown"))
		assert.Equal(t, 3, p.Len())
	})
}

func TestParams_TypedAccessors(t *testing.T) {
	t.Parallel()

	t.Run("return converted values", func(t *testing.T) {
		t.Parallel()

		p := validatedParams(t)

		num, err := p.Int("num")
		require.NoError(t, err)
		assert.Equal(t, 42, num)

		rate, err := p.Float64("rate")
		require.NoError(t, err)
		assert.Equal(t, 0.5, rate)

		name, err := p.String("name")
		require.NoError(t, err)
		assert.Equal(t, "gopher", name)
	})

	t.Run("type mismatch is a distinct error", func(t *testing.T) {
		t.Parallel()

		p := validatedParams(t)
		_, err := p.Int("name")
		require.Error(t, err)
		assert.ErrorIs(t, err, queryval.ErrTypeMismatch)
		assert.NotErrorIs(t, err, queryval.ErrParamNotFound)
	})

	t.Run("absent name is not-found, not mismatch", func(t *testing.T) {
		t.Parallel()

		p := validatedParams(t)
		_, err := p.Int("unknown")
		assert.ErrorIs(t, err, queryval.ErrParamNotFound)
	})
}

func TestParams_Iteration(t *testing.T) {
	t.Parallel()

	t.Run("All yields pairs in finalization order", func(t *testing.T) {
		t.Parallel()

		p, err := queryval.ValidateMap(
			map[string]string{"b": "2", "a": "1", "zz": "raw"},
			map[string]queryval.Converter{"a": queryval.Int, "b": queryval.Int},
		).Validate()
		require.NoError(t, err)

		var keys []string
		values := map[string]any{}
		for k, v := range p.All() {
			keys = append(keys, k)
			values[k] = v
		}

		// Declared names first (sorted), pass-through names after.
		assert.Equal(t, []string{"a", "b", "zz"}, keys)
		assert.Equal(t, map[string]any{"a": 1, "b": 2, "zz": "raw"}, values)
		assert.Equal(t, keys, p.Keys())
	})

	t.Run("Keys returns a copy", func(t *testing.T) {
		t.Parallel()

		p := validatedParams(t)
		keys := p.Keys()
		keys[0] = "mutated"
		assert.NotEqual(t, keys, p.Keys())
	})
}
