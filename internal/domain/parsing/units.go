package parsing

import (
	"sort"
	"strings"
)

// UnitClass partitions the unit vocabulary
type UnitClass string

const (
	ClassWeight    UnitClass = "weight"
	ClassVolume    UnitClass = "volume"
	ClassCountable UnitClass = "countable"
	ClassUnknown   UnitClass = "unknown"
)

// volumeML maps canonical volume units to milliliters
var volumeML = map[string]float64{
	"tsp":    4.93,
	"tbsp":   14.79,
	"cup":    236.59,
	"fl oz":  29.57,
	"ml":     1.0,
	"l":      1000.0,
	"pint":   473.18,
	"quart":  946.35,
	"gallon": 3785.41,
}

// weightG maps canonical weight units to grams
var weightG = map[string]float64{
	"g":  1.0,
	"kg": 1000.0,
	"mg": 0.001,
	"oz": 28.35,
	"lb": 453.59,
}

// countableUnits are counted in whole items; mass per item is unknown
// without external data, so they never convert to grams
var countableUnits = map[string]struct{}{
	"count": {}, "piece": {}, "slice": {}, "clove": {}, "egg": {},
	"can": {}, "package": {}, "pkg": {}, "bunch": {}, "sprig": {},
	"stalk": {}, "ear": {}, "cube": {}, "strip": {}, "chunk": {},
	"drop": {}, "pinch": {}, "dash": {}, "sheet": {}, "jar": {},
	"stick": {}, "recipe": {}, "each": {}, "lemon": {},
}

// unitAliases maps spelled-out and abbreviated forms to canonical units
var unitAliases = map[string]string{
	"teaspoon": "tsp", "teaspoons": "tsp", "tsp.": "tsp",
	"tablespoon": "tbsp", "tablespoons": "tbsp", "tbsp.": "tbsp",
	"cups":         "cup",
	"fluid ounce":  "fl oz",
	"fluid ounces": "fl oz",
	"milliliter":   "ml", "milliliters": "ml",
	"liter": "l", "liters": "l", "litre": "l", "litres": "l",
	"pints": "pint", "quarts": "quart", "gallons": "gallon",
	"gram": "g", "grams": "g",
	"kilogram": "kg", "kilograms": "kg",
	"milligram": "mg", "milligrams": "mg",
	"ounce": "oz", "ounces": "oz", "oz.": "oz",
	"pound": "lb", "pounds": "lb", "lb.": "lb", "lbs": "lb",
}

// foodDensities maps food names to g/ml for volume conversion.
// Looked up exact first, then by substring in either direction.
var foodDensities = map[string]float64{
	// Oils and fats
	"olive oil": 0.92, "vegetable oil": 0.92, "canola oil": 0.92,
	"butter": 0.91, "margarine": 0.91, "coconut oil": 0.92,

	// Dairy
	"milk": 1.03, "whole milk": 1.03, "skim milk": 1.03,
	"cream": 1.01, "heavy cream": 0.99, "half and half": 1.02,
	"yogurt": 1.03, "greek yogurt": 1.04, "sour cream": 1.01,
	"cheese": 1.13, "cheddar cheese": 1.13, "mozzarella": 1.13,

	// Sweeteners
	"sugar": 0.85, "brown sugar": 0.72, "powdered sugar": 0.56,
	"honey": 1.42, "maple syrup": 1.33, "corn syrup": 1.36,

	// Flours and grains
	"flour": 0.59, "all-purpose flour": 0.59, "bread flour": 0.59,
	"whole wheat flour": 0.59, "oatmeal": 0.35, "oat": 0.35,

	// Nuts and seeds
	"almond": 0.48, "walnut": 0.48, "pecan": 0.48, "peanut": 0.48,
	"sunflower seed": 0.48, "pumpkin seed": 0.48, "chia seed": 0.48,

	// Liquids
	"water": 1.0, "broth": 1.0, "stock": 1.0, "juice": 1.04,
	"vinegar": 1.01, "soy sauce": 1.18, "worcestershire sauce": 1.18,
}

// waterDensity is the default when the food is unknown or unnamed
const waterDensity = 1.0

// densityNames holds the density table keys in sorted order so
// substring lookups do not depend on map iteration order
var densityNames = func() []string {
	names := make([]string, 0, len(foodDensities))
	for name := range foodDensities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// UnitConverter converts (amount, unit, food name) triples to estimated
// gram weights using static multiplier and density tables. It is pure
// and deterministic.
type UnitConverter struct{}

// NewUnitConverter creates a unit converter
func NewUnitConverter() *UnitConverter {
	return &UnitConverter{}
}

// Canonical resolves a raw token to a canonical unit name. It accepts
// exact vocabulary members, known aliases and naive depluralized forms.
// The second return value is false when the token is not a unit.
func (c *UnitConverter) Canonical(token string) (string, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return "", false
	}
	if alias, ok := unitAliases[token]; ok {
		return alias, true
	}
	if c.Class(token) != ClassUnknown {
		return token, true
	}
	// Naive depluralization: "cloves" -> "clove"
	if strings.HasSuffix(token, "s") {
		singular := strings.TrimSuffix(token, "s")
		if alias, ok := unitAliases[singular]; ok {
			return alias, true
		}
		if c.Class(singular) != ClassUnknown {
			return singular, true
		}
	}
	return "", false
}

// Class reports which partition of the vocabulary a canonical unit
// belongs to
func (c *UnitConverter) Class(unit string) UnitClass {
	if _, ok := weightG[unit]; ok {
		return ClassWeight
	}
	if _, ok := volumeML[unit]; ok {
		return ClassVolume
	}
	if _, ok := countableUnits[unit]; ok {
		return ClassCountable
	}
	return ClassUnknown
}

// IsKnown reports whether a token resolves to a vocabulary unit
func (c *UnitConverter) IsKnown(token string) bool {
	_, ok := c.Canonical(token)
	return ok
}

// Density returns the g/ml density for a food name, trying an exact
// lookup first and then substring containment in either direction.
// When several table entries match, the longest one wins so the most
// specific entry decides. Unknown foods and empty names fall back to
// water.
func (c *UnitConverter) Density(foodName string) float64 {
	foodName = strings.ToLower(strings.TrimSpace(foodName))
	if foodName == "" {
		return waterDensity
	}
	if d, ok := foodDensities[foodName]; ok {
		return d
	}
	best := ""
	for _, known := range densityNames {
		if !strings.Contains(foodName, known) && !strings.Contains(known, foodName) {
			continue
		}
		if len(known) > len(best) {
			best = known
		}
	}
	if best != "" {
		return foodDensities[best]
	}
	return waterDensity
}

// ToGrams converts an amount of a unit of a food to grams. Weight units
// convert directly; volume units go through milliliters and the food's
// density; countable and unrecognized units return nil.
func (c *UnitConverter) ToGrams(amount *float64, unit *string, foodName string) *float64 {
	if amount == nil || unit == nil {
		return nil
	}
	canonical, ok := c.Canonical(*unit)
	if !ok {
		return nil
	}
	switch c.Class(canonical) {
	case ClassWeight:
		grams := *amount * weightG[canonical]
		return &grams
	case ClassVolume:
		grams := *amount * volumeML[canonical] * c.Density(foodName)
		return &grams
	default:
		return nil
	}
}

// volumeFactor returns the milliliter multiplier for a canonical volume
// unit, and weightFactor the gram multiplier for a weight unit. Both
// report false for units outside their partition.
func volumeFactor(unit string) (float64, bool) {
	f, ok := volumeML[unit]
	return f, ok
}

func weightFactor(unit string) (float64, bool) {
	f, ok := weightG[unit]
	return f, ok
}
