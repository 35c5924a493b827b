// Package scrape fetches recipe pages and extracts their schema.org
// Recipe data from embedded JSON-LD blocks
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/pantrylab/forage/internal/ports/outbound"
	apperrors "github.com/pantrylab/forage/pkg/errors"
)

var scriptRe = regexp.MustCompile(
	`(?is)<script[^>]+type\s*=\s*["']application/ld\+json["'][^>]*>(.*?)</script>`)

// Scraper implements the RecipeSource port by reading schema.org
// JSON-LD from recipe pages
type Scraper struct {
	client *resty.Client
	logger *zap.Logger
}

// NewScraper creates a recipe page scraper
func NewScraper(logger *zap.Logger) outbound.RecipeSource {
	client := resty.New().
		SetTimeout(20 * time.Second).
		SetHeader("User-Agent", "forage/1.0 (+https://github.com/pantrylab/forage)")
	return &Scraper{client: client, logger: logger}
}

// Fetch downloads a page and extracts the first Recipe object found in
// its JSON-LD blocks
func (s *Scraper) Fetch(ctx context.Context, url string) (*outbound.ScrapedRecipe, error) {
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, apperrors.NewExternalProviderError("scraper", err)
	}
	if resp.IsError() {
		return nil, apperrors.NewExternalProviderError("scraper",
			fmt.Errorf("unexpected status %d for %s", resp.StatusCode(), url))
	}

	blocks := scriptRe.FindAllStringSubmatch(resp.String(), -1)
	for _, block := range blocks {
		if recipe := findRecipe(block[1]); recipe != nil {
			s.logger.Info("recipe extracted",
				zap.String("url", url),
				zap.String("title", recipe.Title),
				zap.Int("ingredient_lines", len(recipe.IngredientLines)))
			return recipe, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound,
		fmt.Sprintf("no recipe data found at %s", url))
}

// findRecipe walks one JSON-LD document. The document may be a Recipe
// object, an array of objects, or a container with an @graph array.
func findRecipe(raw string) *outbound.ScrapedRecipe {
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil
	}
	return walk(doc)
}

func walk(node interface{}) *outbound.ScrapedRecipe {
	switch v := node.(type) {
	case []interface{}:
		for _, item := range v {
			if recipe := walk(item); recipe != nil {
				return recipe
			}
		}
	case map[string]interface{}:
		if isRecipeType(v["@type"]) {
			return buildRecipe(v)
		}
		if graph, ok := v["@graph"]; ok {
			return walk(graph)
		}
	}
	return nil
}

func isRecipeType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return strings.EqualFold(v, "Recipe")
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.EqualFold(s, "Recipe") {
				return true
			}
		}
	}
	return false
}

func buildRecipe(obj map[string]interface{}) *outbound.ScrapedRecipe {
	recipe := &outbound.ScrapedRecipe{
		Title:           stringField(obj["name"]),
		IngredientLines: stringList(obj["recipeIngredient"]),
		Instructions:    instructionList(obj["recipeInstructions"]),
	}
	if len(recipe.IngredientLines) == 0 {
		return nil
	}
	return recipe
}

func stringField(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// instructionList accepts the three shapes recipeInstructions takes in
// the wild: a single string, a list of strings, or HowToStep objects
func instructionList(v interface{}) []string {
	switch steps := v.(type) {
	case string:
		return []string{strings.TrimSpace(steps)}
	case []interface{}:
		out := make([]string, 0, len(steps))
		for _, step := range steps {
			switch sv := step.(type) {
			case string:
				out = append(out, strings.TrimSpace(sv))
			case map[string]interface{}:
				if text := stringField(sv["text"]); text != "" {
					out = append(out, text)
				}
			}
		}
		return out
	}
	return nil
}
