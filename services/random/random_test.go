package random_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofrasa/service-locator/services/random"
)

func TestNewSeeded_Deterministic(t *testing.T) {
	t.Parallel()

	a := random.NewSeeded(42)
	b := random.NewSeeded(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestFloat64_InRange(t *testing.T) {
	t.Parallel()

	r := random.New()
	for i := 0; i < 100; i++ {
		f := r.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}

func TestFactory_NewInstanceIsFresh(t *testing.T) {
	t.Parallel()

	first, err := random.Factory{}.NewInstance()
	require.NoError(t, err)
	second, err := random.Factory{}.NewInstance()
	require.NoError(t, err)

	require.IsType(t, &random.Random{}, first)
	assert.NotSame(t, first, second)
}

func TestTypes_Descriptors(t *testing.T) {
	t.Parallel()

	types := random.Types()
	require.Len(t, types, 2)

	assert.Equal(t, random.TypeName, types[0].Name)
	assert.Contains(t, types[0].Capabilities, random.CapabilitySource)

	v, err := types[1].New()
	require.NoError(t, err)
	assert.IsType(t, random.Factory{}, v)
}
