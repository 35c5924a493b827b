// Package gorm provides GORM model definitions for the application
package gorm

import (
	"time"

	"github.com/google/uuid"
)

// RecipeModel represents the GORM model for ingested recipes
type RecipeModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Title     string `gorm:"type:varchar(255);not null;index"`
	Version   string `gorm:"type:varchar(50)"`
	SourceURL string `gorm:"column:source_url;type:text;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Ingredients []IngredientModel `gorm:"foreignKey:RecipeID"`
}

// TableName returns the table name for recipes
func (RecipeModel) TableName() string {
	return "recipes"
}

// IngredientModel represents the GORM model for ingredient rows. One
// row per raw recipe line; parsed fields stay NULL until enrichment.
type IngredientModel struct {
	ID       uint `gorm:"primaryKey;autoIncrement"`
	RecipeID uint `gorm:"column:recipe_id;not null;index"`

	RawFoodText    string   `gorm:"column:raw_food_text;type:text;not null"`
	Amount         *float64 `gorm:"column:amount"`
	Unit           *string  `gorm:"column:unit;type:varchar(50)"`
	NormalizedName string   `gorm:"column:normalized_name;type:varchar(255);index"`
	EstimatedGrams *float64 `gorm:"column:estimated_grams"`

	FoodMatchScore float64 `gorm:"column:food_match_score;default:0"`
	UnitMatchScore float64 `gorm:"column:unit_match_score;default:0"`
	FuzzScore      float64 `gorm:"column:fuzz_score;default:0"`

	MatchType          string `gorm:"column:match_type;type:varchar(50)"`
	MatchedNutritionID *uint  `gorm:"column:matched_nutrition_id;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for ingredients
func (IngredientModel) TableName() string {
	return "ingredients"
}

// NutritionRecordModel represents the GORM model for the nutrition
// catalog. NormalizedName carries the uniqueness invariant.
type NutritionRecordModel struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	RawName        string `gorm:"column:raw_name;type:varchar(255)"`
	NormalizedName string `gorm:"column:normalized_name;type:varchar(255);uniqueIndex;not null"`

	ServingQty         float64 `gorm:"column:serving_qty"`
	ServingUnit        string  `gorm:"column:serving_unit;type:varchar(50)"`
	ServingWeightGrams float64 `gorm:"column:serving_weight_grams"`

	Calories     float64 `gorm:"column:calories"`
	Fat          float64 `gorm:"column:fat"`
	SaturatedFat float64 `gorm:"column:saturated_fat"`
	Cholesterol  float64 `gorm:"column:cholesterol"`
	Sodium       float64 `gorm:"column:sodium"`
	Carbs        float64 `gorm:"column:carbs"`
	Fiber        float64 `gorm:"column:fiber"`
	Sugars       float64 `gorm:"column:sugars"`
	Protein      float64 `gorm:"column:protein"`
	Potassium    float64 `gorm:"column:potassium"`

	MatchType string `gorm:"column:match_type;type:varchar(50)"`

	// Approved is NULL while the record awaits manual review
	Approved *bool `gorm:"column:approved"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for nutrition records
func (NutritionRecordModel) TableName() string {
	return "nutrition_records"
}

// ReviewLogModel represents the GORM model for the append-only
// enrichment audit trail
type ReviewLogModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	CorrelationID uuid.UUID `gorm:"column:correlation_id;type:char(36);index"`
	IngredientID  uint      `gorm:"column:ingredient_id;not null;index"`
	RawFoodText   string    `gorm:"column:raw_food_text;type:text"`

	Amount         *float64 `gorm:"column:amount"`
	Unit           *string  `gorm:"column:unit;type:varchar(50)"`
	NormalizedName string   `gorm:"column:normalized_name;type:varchar(255)"`
	EstimatedGrams *float64 `gorm:"column:estimated_grams"`

	FoodMatchScore float64 `gorm:"column:food_match_score"`
	UnitMatchScore float64 `gorm:"column:unit_match_score"`

	// FallbackTiers is a comma-joined list of tier identifiers
	FallbackTiers string `gorm:"column:fallback_tiers;type:text"`

	CreatedAt time.Time
}

// TableName returns the table name for the review log
func (ReviewLogModel) TableName() string {
	return "review_log"
}

// LLMUsageModel represents the GORM model for daily generative call
// counters, keyed by UTC day
type LLMUsageModel struct {
	Day   string `gorm:"column:day;type:varchar(10);primaryKey"`
	Calls int    `gorm:"column:calls;not null;default:0"`
}

// TableName returns the table name for usage counters
func (LLMUsageModel) TableName() string {
	return "llm_usage"
}
