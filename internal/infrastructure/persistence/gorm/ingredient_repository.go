package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pantrylab/forage/internal/domain/ingredient"
	"github.com/pantrylab/forage/internal/ports/outbound"
	apperrors "github.com/pantrylab/forage/pkg/errors"
)

// IngredientRepository implements outbound.IngredientRepository using
// GORM
type IngredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new GORM ingredient repository
func NewIngredientRepository(db *gorm.DB) outbound.IngredientRepository {
	return &IngredientRepository{db: db}
}

// FindUnparsed returns rows that have never been through the parser
func (r *IngredientRepository) FindUnparsed(ctx context.Context) ([]*ingredient.Ingredient, error) {
	return r.query(ctx, r.db.Where("normalized_name IS NULL OR normalized_name = ''"))
}

// FindUnparsedOrUnlinked returns the forced working set
func (r *IngredientRepository) FindUnparsedOrUnlinked(ctx context.Context) ([]*ingredient.Ingredient, error) {
	return r.query(ctx, r.db.Where(
		"normalized_name IS NULL OR normalized_name = '' OR matched_nutrition_id IS NULL"))
}

// FindUnlinked returns parsed rows without a nutrition link
func (r *IngredientRepository) FindUnlinked(ctx context.Context) ([]*ingredient.Ingredient, error) {
	return r.query(ctx, r.db.Where(
		"normalized_name IS NOT NULL AND normalized_name != '' AND matched_nutrition_id IS NULL"))
}

func (r *IngredientRepository) query(ctx context.Context, scope *gorm.DB) ([]*ingredient.Ingredient, error) {
	var models []IngredientModel
	if err := scope.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.NewDatabaseError("query ingredients", err)
	}
	out := make([]*ingredient.Ingredient, 0, len(models))
	for i := range models {
		out = append(out, toIngredientDomain(&models[i]))
	}
	return out, nil
}

// FindByID loads one ingredient
func (r *IngredientRepository) FindByID(ctx context.Context, id uint) (*ingredient.Ingredient, error) {
	var model IngredientModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("ingredient")
		}
		return nil, apperrors.NewDatabaseError("find ingredient", err)
	}
	return toIngredientDomain(&model), nil
}

// Update persists the parsed and matching columns of the row. The
// explicit Select writes cleared fields back to NULL while leaving
// recipe_id, raw_food_text and created_at as ingested.
func (r *IngredientRepository) Update(ctx context.Context, ing *ingredient.Ingredient) error {
	model := toIngredientModel(ing)
	err := r.db.WithContext(ctx).
		Model(&IngredientModel{ID: ing.ID}).
		Select("amount", "unit", "normalized_name", "estimated_grams",
			"food_match_score", "unit_match_score", "fuzz_score",
			"match_type", "matched_nutrition_id", "updated_at").
		Updates(model).Error
	if err != nil {
		return apperrors.NewDatabaseError("update ingredient", err)
	}
	return nil
}
