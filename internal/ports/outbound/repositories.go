// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"

	"github.com/pantrylab/forage/internal/domain/ingredient"
	"github.com/pantrylab/forage/internal/domain/nutrition"
	"github.com/pantrylab/forage/internal/domain/recipe"
)

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	// Create stores a recipe and one ingredient row per raw line
	Create(ctx context.Context, rec *recipe.Recipe, rawLines []string) error
	FindByID(ctx context.Context, id uint) (*recipe.Recipe, error)
	FindBySourceURL(ctx context.Context, url string) (*recipe.Recipe, error)
}

// IngredientRepository defines the interface for ingredient persistence
type IngredientRepository interface {
	// FindUnparsed returns ingredients that have never been through
	// the parser
	FindUnparsed(ctx context.Context) ([]*ingredient.Ingredient, error)

	// FindUnparsedOrUnlinked is the forced working set: everything
	// unparsed plus everything parsed but without a nutrition link
	FindUnparsedOrUnlinked(ctx context.Context) ([]*ingredient.Ingredient, error)

	// FindUnlinked returns parsed ingredients without a nutrition link
	FindUnlinked(ctx context.Context) ([]*ingredient.Ingredient, error)

	FindByID(ctx context.Context, id uint) (*ingredient.Ingredient, error)
	Update(ctx context.Context, ing *ingredient.Ingredient) error
}

// NutritionRepository defines the interface for the nutrition catalog
type NutritionRepository interface {
	FindByNormalizedName(ctx context.Context, name string) (*nutrition.Record, error)

	// Create fails with a persistence conflict when the normalized
	// name already exists
	Create(ctx context.Context, rec *nutrition.Record) error

	// CreateOrGet stores the record, or returns the existing row when
	// the normalized name is already taken
	CreateOrGet(ctx context.Context, rec *nutrition.Record) (*nutrition.Record, error)

	// DistinctNormalizedNames returns every catalog name once
	DistinctNormalizedNames(ctx context.Context) ([]string, error)

	// FindPending returns records awaiting manual approval
	FindPending(ctx context.Context) ([]*nutrition.Record, error)

	SetApproval(ctx context.Context, id uint, approved bool) error
}

// ReviewLogRepository defines the interface for the append-only
// enrichment audit trail
type ReviewLogRepository interface {
	Append(ctx context.Context, entry *ingredient.ReviewLogEntry) error

	// Recent returns the newest entries first, at most limit of them
	Recent(ctx context.Context, limit int) ([]*ingredient.ReviewLogEntry, error)
}

// UsageStore tracks generative API calls against the daily quota
type UsageStore interface {
	// CallsToday returns the number of calls recorded for the current
	// UTC day
	CallsToday(ctx context.Context) (int, error)
	Increment(ctx context.Context) error
}
