// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
package inbound

import (
	"context"

	"github.com/pantrylab/forage/internal/domain/ingredient"
	"github.com/pantrylab/forage/internal/domain/nutrition"
	"github.com/pantrylab/forage/internal/domain/recipe"
)

// EnrichmentService drives the ingredient interpretation pipeline
type EnrichmentService interface {
	// IngestRecipe scrapes a recipe page, stores it and runs the full
	// pipeline over its ingredients
	IngestRecipe(ctx context.Context, url string) (*recipe.Recipe, error)

	// RunEnrichment parses and enriches the working set and returns
	// how many ingredients were processed. With force, already parsed
	// but unlinked rows are reprocessed too.
	RunEnrichment(ctx context.Context, force bool) (int, error)

	// RunMatching links parsed ingredients to catalog records by exact
	// and fuzzy name matching, returning how many got linked
	RunMatching(ctx context.Context) (int, error)

	// UnmatchedReport lists ingredients that remain without a
	// nutrition link after enrichment and matching
	UnmatchedReport(ctx context.Context) ([]*ingredient.Ingredient, error)

	// GetReviewLog returns the newest audit entries, newest first
	GetReviewLog(ctx context.Context, limit int) ([]*ingredient.ReviewLogEntry, error)

	// PendingRecords lists catalog records awaiting manual approval
	PendingRecords(ctx context.Context) ([]*nutrition.Record, error)

	// SetApproval resolves a pending catalog record
	SetApproval(ctx context.Context, id uint, approved bool) error
}
