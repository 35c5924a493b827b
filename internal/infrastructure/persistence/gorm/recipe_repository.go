package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pantrylab/forage/internal/domain/recipe"
	"github.com/pantrylab/forage/internal/ports/outbound"
	apperrors "github.com/pantrylab/forage/pkg/errors"
)

// RecipeRepository implements outbound.RecipeRepository using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new GORM recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create stores the recipe and one ingredient row per raw line in a
// single transaction
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe, rawLines []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := toRecipeModel(rec)
		if err := tx.Create(model).Error; err != nil {
			return apperrors.NewDatabaseError("create recipe", err)
		}
		rec.ID = model.ID

		for _, line := range rawLines {
			row := &IngredientModel{
				RecipeID:    model.ID,
				RawFoodText: line,
			}
			if err := tx.Create(row).Error; err != nil {
				return apperrors.NewDatabaseError("create ingredient", err)
			}
		}
		return nil
	})
}

// FindByID loads one recipe
func (r *RecipeRepository) FindByID(ctx context.Context, id uint) (*recipe.Recipe, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("recipe")
		}
		return nil, apperrors.NewDatabaseError("find recipe", err)
	}
	return toRecipeDomain(&model), nil
}

// FindBySourceURL loads the recipe ingested from a URL, if any
func (r *RecipeRepository) FindBySourceURL(ctx context.Context, url string) (*recipe.Recipe, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).Where("source_url = ?", url).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("recipe")
		}
		return nil, apperrors.NewDatabaseError("find recipe by url", err)
	}
	return toRecipeDomain(&model), nil
}
