package gorm

import (
	"strings"

	"github.com/pantrylab/forage/internal/domain/ingredient"
	"github.com/pantrylab/forage/internal/domain/nutrition"
	"github.com/pantrylab/forage/internal/domain/recipe"
)

func toRecipeDomain(m *RecipeModel) *recipe.Recipe {
	return &recipe.Recipe{
		ID:        m.ID,
		Title:     m.Title,
		Version:   m.Version,
		SourceURL: m.SourceURL,
	}
}

func toRecipeModel(r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:        r.ID,
		Title:     r.Title,
		Version:   r.Version,
		SourceURL: r.SourceURL,
	}
}

func toIngredientDomain(m *IngredientModel) *ingredient.Ingredient {
	return &ingredient.Ingredient{
		ID:                 m.ID,
		RecipeID:           m.RecipeID,
		RawText:            m.RawFoodText,
		Amount:             m.Amount,
		Unit:               m.Unit,
		NormalizedName:     m.NormalizedName,
		EstimatedGrams:     m.EstimatedGrams,
		FoodMatchScore:     m.FoodMatchScore,
		UnitMatchScore:     m.UnitMatchScore,
		FuzzScore:          m.FuzzScore,
		MatchType:          m.MatchType,
		MatchedNutritionID: m.MatchedNutritionID,
	}
}

func toIngredientModel(i *ingredient.Ingredient) *IngredientModel {
	return &IngredientModel{
		ID:                 i.ID,
		RecipeID:           i.RecipeID,
		RawFoodText:        i.RawText,
		Amount:             i.Amount,
		Unit:               i.Unit,
		NormalizedName:     i.NormalizedName,
		EstimatedGrams:     i.EstimatedGrams,
		FoodMatchScore:     i.FoodMatchScore,
		UnitMatchScore:     i.UnitMatchScore,
		FuzzScore:          i.FuzzScore,
		MatchType:          i.MatchType,
		MatchedNutritionID: i.MatchedNutritionID,
	}
}

func toNutritionDomain(m *NutritionRecordModel) *nutrition.Record {
	return &nutrition.Record{
		ID:                 m.ID,
		RawName:            m.RawName,
		NormalizedName:     m.NormalizedName,
		ServingQty:         m.ServingQty,
		ServingUnit:        m.ServingUnit,
		ServingWeightGrams: m.ServingWeightGrams,
		Nutrients: nutrition.Nutrients{
			Calories:     m.Calories,
			Fat:          m.Fat,
			SaturatedFat: m.SaturatedFat,
			Cholesterol:  m.Cholesterol,
			Sodium:       m.Sodium,
			Carbs:        m.Carbs,
			Fiber:        m.Fiber,
			Sugars:       m.Sugars,
			Protein:      m.Protein,
			Potassium:    m.Potassium,
		},
		MatchType: nutrition.MatchType(m.MatchType),
		Approved:  m.Approved,
	}
}

func toNutritionModel(r *nutrition.Record) *NutritionRecordModel {
	return &NutritionRecordModel{
		ID:                 r.ID,
		RawName:            r.RawName,
		NormalizedName:     r.NormalizedName,
		ServingQty:         r.ServingQty,
		ServingUnit:        r.ServingUnit,
		ServingWeightGrams: r.ServingWeightGrams,
		Calories:           r.Nutrients.Calories,
		Fat:                r.Nutrients.Fat,
		SaturatedFat:       r.Nutrients.SaturatedFat,
		Cholesterol:        r.Nutrients.Cholesterol,
		Sodium:             r.Nutrients.Sodium,
		Carbs:              r.Nutrients.Carbs,
		Fiber:              r.Nutrients.Fiber,
		Sugars:             r.Nutrients.Sugars,
		Protein:            r.Nutrients.Protein,
		Potassium:          r.Nutrients.Potassium,
		MatchType:          string(r.MatchType),
		Approved:           r.Approved,
	}
}

func toReviewLogDomain(m *ReviewLogModel) *ingredient.ReviewLogEntry {
	var tiers []string
	if m.FallbackTiers != "" {
		tiers = strings.Split(m.FallbackTiers, ",")
	}
	return &ingredient.ReviewLogEntry{
		ID:             m.ID,
		CorrelationID:  m.CorrelationID,
		IngredientID:   m.IngredientID,
		RawText:        m.RawFoodText,
		Amount:         m.Amount,
		Unit:           m.Unit,
		NormalizedName: m.NormalizedName,
		EstimatedGrams: m.EstimatedGrams,
		FoodMatchScore: m.FoodMatchScore,
		UnitMatchScore: m.UnitMatchScore,
		FallbackTiers:  tiers,
		CreatedAt:      m.CreatedAt,
	}
}

func toReviewLogModel(e *ingredient.ReviewLogEntry) *ReviewLogModel {
	return &ReviewLogModel{
		ID:             e.ID,
		CorrelationID:  e.CorrelationID,
		IngredientID:   e.IngredientID,
		RawFoodText:    e.RawText,
		Amount:         e.Amount,
		Unit:           e.Unit,
		NormalizedName: e.NormalizedName,
		EstimatedGrams: e.EstimatedGrams,
		FoodMatchScore: e.FoodMatchScore,
		UnitMatchScore: e.UnitMatchScore,
		FallbackTiers:  strings.Join(e.FallbackTiers, ","),
		CreatedAt:      e.CreatedAt,
	}
}
