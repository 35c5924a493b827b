// Package recipe contains the recipe aggregate. Recipes are thin
// containers here: the interesting state lives on their ingredients.
package recipe

// Recipe is an ingested recipe and its source reference
type Recipe struct {
	ID        uint
	Title     string
	Version   string
	SourceURL string
}
