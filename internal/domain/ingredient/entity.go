// Package ingredient contains the ingredient domain model: one parsed
// recipe line and the audit trail of every enrichment decision made
// about it.
package ingredient

import (
	"time"

	"github.com/google/uuid"
)

// Fallback tier identifiers recorded in ReviewLogEntry.FallbackTiers.
// They name which stages of the enrichment chain fired for an
// ingredient, in order.
const (
	TierCatalog        = "catalog"
	TierLLMCache       = "llm_cache"
	TierLLMParse       = "llm_parse"
	TierQuotaBlocked   = "quota_blocked"
	TierProviderLookup = "provider_lookup"
	TierLLMEstimate    = "llm_estimate"
	TierUnmatched      = "unmatched"
)

// Ingredient is one raw recipe line plus everything the pipeline has
// derived from it. Rows are created at ingestion, mutated in place by
// every enrichment run and never deleted.
type Ingredient struct {
	ID       uint
	RecipeID uint

	// RawText is the ingredient line exactly as scraped
	RawText string

	// Parsed fields; nil when parsing could not determine them
	Amount         *float64
	Unit           *string
	NormalizedName string
	EstimatedGrams *float64

	// Confidence scores, all in [0,100]
	FoodMatchScore float64
	UnitMatchScore float64
	FuzzScore      float64

	MatchType          string
	MatchedNutritionID *uint
}

// IsLinked reports whether the ingredient references a nutrition record
func (i *Ingredient) IsLinked() bool {
	return i.MatchedNutritionID != nil
}

// IsParsed reports whether the ingredient has been through the parser
func (i *Ingredient) IsParsed() bool {
	return i.NormalizedName != ""
}

// ReviewLogEntry is an append-only record of one enrichment decision
type ReviewLogEntry struct {
	ID            uint
	CorrelationID uuid.UUID
	IngredientID  uint
	RawText       string

	Amount         *float64
	Unit           *string
	NormalizedName string
	EstimatedGrams *float64

	FoodMatchScore float64
	UnitMatchScore float64

	// FallbackTiers lists which enrichment tiers fired, in order
	FallbackTiers []string

	CreatedAt time.Time
}
