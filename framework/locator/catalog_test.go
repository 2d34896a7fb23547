package locator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofrasa/service-locator/framework/locator"
)

func newCtor(v any) locator.Constructor {
	return func() (any, error) { return v, nil }
}

func TestCatalog_ProvideAndLookup(t *testing.T) {
	t.Parallel()

	cat := locator.NewCatalog()
	ret := cat.Provide(locator.Type{Name: "a", New: newCtor(1)})
	require.Same(t, cat, ret)

	got, ok := cat.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)

	_, ok = cat.Lookup("b")
	assert.False(t, ok)
}

func TestCatalog_ProvideReplaces(t *testing.T) {
	t.Parallel()

	cat := locator.NewCatalog().
		Provide(locator.Type{Name: "a", New: newCtor("old")}).
		Provide(locator.Type{Name: "a", New: newCtor("new")})

	got, _ := cat.Lookup("a")
	v, err := got.New()
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestCatalog_Names(t *testing.T) {
	t.Parallel()

	cat := locator.NewCatalog().Provide(
		locator.Type{Name: "zeta"},
		locator.Type{Name: "alpha"},
	)
	assert.Equal(t, []string{"alpha", "zeta"}, cat.Names())
}

func TestCatalog_Capabilities(t *testing.T) {
	t.Parallel()

	// animal ← mammal ← dog, with dog also declaring "pet";
	// "pet" extends "companion", "walker" extends "mover" and "companion".
	cat := locator.NewCatalog().
		Provide(
			locator.Type{Name: "animal", Capabilities: []locator.Capability{"mover"}},
			locator.Type{Name: "mammal", Capabilities: []locator.Capability{"walker"}, Extends: []string{"animal"}},
			locator.Type{Name: "dog", Capabilities: []locator.Capability{"pet"}, Extends: []string{"mammal"}},
		).
		DeclareCapability("pet", "companion").
		DeclareCapability("walker", "mover", "companion")

	tests := []struct {
		name string
		want []locator.Capability
	}{
		{"animal", []locator.Capability{"mover"}},
		{"mammal", []locator.Capability{"walker", "mover", "companion"}},
		{"dog", []locator.Capability{"pet", "walker", "mover", "companion"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cat.Capabilities(tt.name))
		})
	}
}

func TestCatalog_CapabilitiesHandlesCycles(t *testing.T) {
	t.Parallel()

	cat := locator.NewCatalog().
		Provide(
			locator.Type{Name: "a", Capabilities: []locator.Capability{"x"}, Extends: []string{"b"}},
			locator.Type{Name: "b", Capabilities: []locator.Capability{"y"}, Extends: []string{"a"}},
		).
		DeclareCapability("x", "y").
		DeclareCapability("y", "x")

	assert.Equal(t, []locator.Capability{"x", "y"}, cat.Capabilities("a"))
}

func TestCatalog_CapabilitiesSkipsUnknownAncestors(t *testing.T) {
	t.Parallel()

	cat := locator.NewCatalog().Provide(
		locator.Type{Name: "orphan", Capabilities: []locator.Capability{"c"}, Extends: []string{"missing"}},
	)
	assert.Equal(t, []locator.Capability{"c"}, cat.Capabilities("orphan"))
	assert.Nil(t, cat.Capabilities("missing"))
}

func TestCatalog_GenerationMovesOnChange(t *testing.T) {
	t.Parallel()

	cat := locator.NewCatalog()
	g0 := cat.Generation()

	cat.Provide(locator.Type{Name: "x", New: newCtor(1)})
	g1 := cat.Generation()
	assert.Greater(t, g1, g0)

	cat.DeclareCapability("a", "b")
	g2 := cat.Generation()
	assert.Greater(t, g2, g1)

	_, _ = cat.Lookup("x")
	_ = cat.Capabilities("x")
	_ = cat.Names()
	assert.Equal(t, g2, cat.Generation(), "reads do not move the generation")
}
