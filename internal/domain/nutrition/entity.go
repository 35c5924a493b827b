// Package nutrition contains the nutrition catalog domain model.
// Records are keyed by normalized food name and hold per-serving
// macro and micronutrient values.
package nutrition

// MatchType records the provenance of a nutrition link
type MatchType string

const (
	MatchExact       MatchType = "exact"
	MatchFuzzy       MatchType = "fuzzy"
	MatchManual      MatchType = "manual"
	MatchLLMEstimate MatchType = "llm_estimate"
)

// Nutrients holds per-serving macro and micronutrient values
type Nutrients struct {
	Calories     float64
	Fat          float64
	SaturatedFat float64
	Cholesterol  float64
	Sodium       float64
	Carbs        float64
	Fiber        float64
	Sugars       float64
	Protein      float64
	Potassium    float64
}

// Record is one entry of the nutrition catalog.
// NormalizedName is globally unique; records are never auto-deleted.
type Record struct {
	ID                 uint
	RawName            string
	NormalizedName     string
	ServingQty         float64
	ServingUnit        string
	ServingWeightGrams float64
	Nutrients          Nutrients
	MatchType          MatchType

	// Approved is nil while the record awaits human review,
	// then true or false once reviewed.
	Approved *bool
}

// ApprovalStatus returns pending, approved or rejected
func (r *Record) ApprovalStatus() string {
	if r.Approved == nil {
		return "pending"
	}
	if *r.Approved {
		return "approved"
	}
	return "rejected"
}

// IsPending reports whether the record still awaits review
func (r *Record) IsPending() bool {
	return r.Approved == nil
}
