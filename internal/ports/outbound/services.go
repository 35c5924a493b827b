package outbound

import (
	"context"

	"github.com/pantrylab/forage/internal/domain/nutrition"
)

// ScrapedRecipe is the raw material pulled from a recipe page
type ScrapedRecipe struct {
	Title           string
	IngredientLines []string
	Instructions    []string
}

// RecipeSource fetches recipe data from an external page
type RecipeSource interface {
	Fetch(ctx context.Context, url string) (*ScrapedRecipe, error)
}

// NutritionProvider looks up nutrition facts for a food name in an
// external database
type NutritionProvider interface {
	// Lookup returns nil without error when the provider has no data
	// for the query
	Lookup(ctx context.Context, query string) (*nutrition.Record, error)
}

// GenerativeParse is the model's reading of a raw ingredient line.
// Scores are in [0,100].
type GenerativeParse struct {
	Food           string
	Amount         *float64
	Unit           *string
	NormalizedName string
	FoodScore      float64
	UnitScore      float64
}

// IsNull reports whether the parse carries no usable food name. Null
// parses are cached so a quota-blocked or failed line is not retried
// every run.
func (p *GenerativeParse) IsNull() bool {
	return p == nil || p.Food == ""
}

// GenerativeClient asks a language model to interpret ingredient lines
// and estimate nutrition facts
type GenerativeClient interface {
	// Parse interprets a raw line the rule parser scored poorly.
	// currentName is the rule parser's best guess, given as context.
	Parse(ctx context.Context, rawText, currentName string) (*GenerativeParse, error)

	// EstimateNutrition guesses per-100g nutrition facts for a food
	// name absent from every other source
	EstimateNutrition(ctx context.Context, foodName string) (*nutrition.Nutrients, error)
}
