package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ParserTestSuite provides a test suite for raw ingredient line parsing
type ParserTestSuite struct {
	suite.Suite
	parser *Parser
}

func (s *ParserTestSuite) SetupSuite() {
	s.parser = NewParser(NewNormalizer(), NewUnitConverter())
}

func (s *ParserTestSuite) TestParse() {
	s.Run("MixedNumberWithUnit_ShouldParseAllFields", func() {
		result := s.parser.Parse("1 1/2 cups chopped onion")

		require.NotNil(s.T(), result.Amount)
		assert.InDelta(s.T(), 1.5, *result.Amount, 0.0001)
		require.NotNil(s.T(), result.Unit)
		assert.Equal(s.T(), "cup", *result.Unit)
		assert.Equal(s.T(), "onion", result.NormalizedName)
		require.NotNil(s.T(), result.EstimatedGrams)
		assert.InDelta(s.T(), 354.89, *result.EstimatedGrams, 1.0)
	})

	s.Run("CountableUnit_ShouldNotConvertToGrams", func() {
		result := s.parser.Parse("3 cloves garlic")

		require.NotNil(s.T(), result.Amount)
		assert.InDelta(s.T(), 3.0, *result.Amount, 0.0001)
		require.NotNil(s.T(), result.Unit)
		assert.Equal(s.T(), "clove", *result.Unit)
		assert.Equal(s.T(), "garlic", result.NormalizedName)
		assert.Nil(s.T(), result.EstimatedGrams)
	})

	s.Run("CompoundAmount_ShouldSumIntoFirstUnit", func() {
		result := s.parser.Parse("1/4 cup plus 2 tbsp sugar")

		require.NotNil(s.T(), result.Amount)
		assert.InDelta(s.T(), 0.375, *result.Amount, 0.001)
		require.NotNil(s.T(), result.Unit)
		assert.Equal(s.T(), "cup", *result.Unit)
		assert.Equal(s.T(), "sugar", result.NormalizedName)
	})

	s.Run("CompoundAmountWithPlusSign_ShouldSum", func() {
		result := s.parser.Parse("1 cup + 1 cup water")

		require.NotNil(s.T(), result.Amount)
		assert.InDelta(s.T(), 2.0, *result.Amount, 0.0001)
		require.NotNil(s.T(), result.Unit)
		assert.Equal(s.T(), "cup", *result.Unit)
	})

	s.Run("CrossClassCompound_ShouldIgnoreUnconvertibleSegment", func() {
		result := s.parser.Parse("1 cup plus 2 cloves garlic")

		require.NotNil(s.T(), result.Amount)
		assert.InDelta(s.T(), 1.0, *result.Amount, 0.0001)
	})

	s.Run("JuiceOf_ShouldBecomeLemonJuice", func() {
		result := s.parser.Parse("Juice of 1 lemon")

		require.NotNil(s.T(), result.Amount)
		assert.InDelta(s.T(), 1.0, *result.Amount, 0.0001)
		require.NotNil(s.T(), result.Unit)
		assert.Equal(s.T(), "lemon", *result.Unit)
		assert.Equal(s.T(), "lemon juice", result.NormalizedName)
		assert.Nil(s.T(), result.EstimatedGrams)
	})

	s.Run("ZeroDenominator_ShouldLeaveAmountUnset", func() {
		result := s.parser.Parse("1/0 cup broth")

		assert.Nil(s.T(), result.Amount)
	})

	s.Run("CountedFoodWithoutUnit_ShouldGetEachUnit", func() {
		result := s.parser.Parse("2 bananas")

		require.NotNil(s.T(), result.Amount)
		assert.InDelta(s.T(), 2.0, *result.Amount, 0.0001)
		require.NotNil(s.T(), result.Unit)
		assert.Equal(s.T(), "each", *result.Unit)
		assert.Equal(s.T(), "banana", result.NormalizedName)
		assert.Nil(s.T(), result.EstimatedGrams)
	})

	s.Run("UncountedFoodWithoutUnit_ShouldKeepNilUnit", func() {
		result := s.parser.Parse("2 chicken breasts")

		require.NotNil(s.T(), result.Amount)
		assert.Nil(s.T(), result.Unit)
		assert.Equal(s.T(), "chicken breast", result.NormalizedName)
	})

	s.Run("PackageSize_ShouldSupplyFallbackGrams", func() {
		result := s.parser.Parse("1 (16 oz) package pasta")

		require.NotNil(s.T(), result.EstimatedGrams)
		assert.InDelta(s.T(), 453.6, *result.EstimatedGrams, 1.0)
	})

	s.Run("UnitAliases_ShouldCanonicalize", func() {
		for raw, want := range map[string]string{
			"2 tablespoons olive oil": "tbsp",
			"1 teaspoon salt":         "tsp",
			"2 pounds beef":           "lb",
			"100 grams butter":        "g",
		} {
			result := s.parser.Parse(raw)
			require.NotNil(s.T(), result.Unit, "input %q", raw)
			assert.Equal(s.T(), want, *result.Unit, "input %q", raw)
		}
	})

	s.Run("EmptyLine_ShouldYieldAllNil", func() {
		result := s.parser.Parse("   ")

		assert.Nil(s.T(), result.Amount)
		assert.Nil(s.T(), result.Unit)
		assert.Equal(s.T(), "", result.NormalizedName)
		assert.Nil(s.T(), result.EstimatedGrams)
	})

	s.Run("DecimalAmount_ShouldParse", func() {
		result := s.parser.Parse("0.5 cup milk")

		require.NotNil(s.T(), result.Amount)
		assert.InDelta(s.T(), 0.5, *result.Amount, 0.0001)
	})

	s.Run("AndMixedNumber_ShouldParse", func() {
		result := s.parser.Parse("1 and 1/2 cups flour")

		require.NotNil(s.T(), result.Amount)
		assert.InDelta(s.T(), 1.5, *result.Amount, 0.0001)
	})
}

func TestParserTestSuite(t *testing.T) {
	suite.Run(t, new(ParserTestSuite))
}
