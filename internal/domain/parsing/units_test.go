package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrF(v float64) *float64 { return &v }
func ptrS(v string) *string   { return &v }

func TestUnitConverterCanonical(t *testing.T) {
	c := NewUnitConverter()

	cases := map[string]string{
		"cups":        "cup",
		"Tablespoons": "tbsp",
		"tsp.":        "tsp",
		"ounces":      "oz",
		"lbs":         "lb",
		"cloves":      "clove",
		"g":           "g",
	}
	for raw, want := range cases {
		got, ok := c.Canonical(raw)
		require.True(t, ok, "token %q", raw)
		assert.Equal(t, want, got, "token %q", raw)
	}

	_, ok := c.Canonical("handful")
	assert.False(t, ok)
	_, ok = c.Canonical("")
	assert.False(t, ok)
}

func TestUnitConverterClass(t *testing.T) {
	c := NewUnitConverter()

	assert.Equal(t, ClassWeight, c.Class("kg"))
	assert.Equal(t, ClassVolume, c.Class("cup"))
	assert.Equal(t, ClassCountable, c.Class("clove"))
	assert.Equal(t, ClassUnknown, c.Class("handful"))
}

func TestUnitConverterToGrams(t *testing.T) {
	c := NewUnitConverter()

	t.Run("WeightUnits_ConvertDirectly", func(t *testing.T) {
		got := c.ToGrams(ptrF(2), ptrS("lb"), "beef")
		require.NotNil(t, got)
		assert.InDelta(t, 907.18, *got, 0.1)
	})

	t.Run("VolumeUnits_UseFoodDensity", func(t *testing.T) {
		got := c.ToGrams(ptrF(1), ptrS("cup"), "flour")
		require.NotNil(t, got)
		// 236.59 ml at 0.59 g/ml
		assert.InDelta(t, 139.6, *got, 139.6*0.05)
	})

	t.Run("UnknownFood_FallsBackToWaterDensity", func(t *testing.T) {
		got := c.ToGrams(ptrF(1), ptrS("cup"), "dragonfruit nectar")
		require.NotNil(t, got)
		assert.InDelta(t, 236.59, *got, 0.1)
	})

	t.Run("SubstringDensity_MatchesEitherDirection", func(t *testing.T) {
		exact := c.ToGrams(ptrF(1), ptrS("cup"), "sugar")
		longer := c.ToGrams(ptrF(1), ptrS("cup"), "granulated sugar cane")
		require.NotNil(t, exact)
		require.NotNil(t, longer)
		assert.InDelta(t, *exact, *longer, 0.001)
	})

	t.Run("CountableUnits_ReturnNil", func(t *testing.T) {
		assert.Nil(t, c.ToGrams(ptrF(3), ptrS("clove"), "garlic"))
		assert.Nil(t, c.ToGrams(ptrF(2), ptrS("each"), "banana"))
	})

	t.Run("UnknownUnit_ReturnsNil", func(t *testing.T) {
		assert.Nil(t, c.ToGrams(ptrF(1), ptrS("handful"), "spinach"))
	})

	t.Run("MissingAmountOrUnit_ReturnsNil", func(t *testing.T) {
		assert.Nil(t, c.ToGrams(nil, ptrS("cup"), "milk"))
		assert.Nil(t, c.ToGrams(ptrF(1), nil, "milk"))
	})
}

func TestUnitConverterDensity(t *testing.T) {
	c := NewUnitConverter()

	assert.InDelta(t, 0.59, c.Density("flour"), 0.001)
	assert.InDelta(t, 0.92, c.Density("extra virgin olive oil"), 0.001)
	assert.InDelta(t, 1.0, c.Density(""), 0.001)
	assert.InDelta(t, 1.0, c.Density("mystery paste"), 0.001)
}

func TestUnitConverterDensity_MultipleSubstringMatchesAreStable(t *testing.T) {
	c := NewUnitConverter()

	// "cream cheese" contains both the "cream" and "cheese" table
	// entries; the longer entry decides and repeated lookups agree
	first := c.Density("cream cheese")
	assert.InDelta(t, 1.13, first, 0.001)
	for i := 0; i < 200; i++ {
		assert.InDelta(t, first, c.Density("cream cheese"), 0.001)
	}
}
