// Package enrichment implements the ingredient interpretation
// pipeline: rule based parsing, tiered fallback through the external
// nutrition provider and the generative model, and catalog matching.
package enrichment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pantrylab/forage/internal/domain/ingredient"
	"github.com/pantrylab/forage/internal/domain/matching"
	"github.com/pantrylab/forage/internal/domain/nutrition"
	"github.com/pantrylab/forage/internal/domain/parsing"
	"github.com/pantrylab/forage/internal/domain/recipe"
	"github.com/pantrylab/forage/internal/infrastructure/cache"
	"github.com/pantrylab/forage/internal/ports/inbound"
	"github.com/pantrylab/forage/internal/ports/outbound"
	apperrors "github.com/pantrylab/forage/pkg/errors"
)

// Coarse confidence scores assigned by the rule parser. Names already
// in the catalog and recognized units score full marks; everything
// else scores low enough to stay above zero but below the escalation
// threshold.
const (
	scoreKnownFood   = 100.0
	scoreUnknownFood = 60.0
	scoreKnownUnit   = 100.0
	scoreMissingUnit = 50.0
)

// Service implements inbound.EnrichmentService
type Service struct {
	parser    *parsing.Parser
	converter *parsing.UnitConverter
	matcher   *matching.Matcher

	recipes     outbound.RecipeRepository
	ingredients outbound.IngredientRepository
	nutritions  outbound.NutritionRepository
	reviewLog   outbound.ReviewLogRepository

	source   outbound.RecipeSource
	provider outbound.NutritionProvider
	fallback *generativeFallback

	scoreThreshold float64
	logger         *zap.Logger
}

// NewService wires the enrichment pipeline. source, provider and
// generative client may be nil; the corresponding tiers are skipped.
func NewService(
	recipes outbound.RecipeRepository,
	ingredients outbound.IngredientRepository,
	nutritions outbound.NutritionRepository,
	reviewLog outbound.ReviewLogRepository,
	usage outbound.UsageStore,
	source outbound.RecipeSource,
	provider outbound.NutritionProvider,
	generative outbound.GenerativeClient,
	parseCache *cache.ParseCache,
	scoreThreshold float64,
	fuzzThreshold int,
	dailyQuota int,
	logger *zap.Logger,
) inbound.EnrichmentService {
	return &Service{
		parser:         parsing.NewParser(parsing.NewNormalizer(), parsing.NewUnitConverter()),
		converter:      parsing.NewUnitConverter(),
		matcher:        matching.NewMatcher(fuzzThreshold),
		recipes:        recipes,
		ingredients:    ingredients,
		nutritions:     nutritions,
		reviewLog:      reviewLog,
		source:         source,
		provider:       provider,
		fallback:       newGenerativeFallback(generative, parseCache, usage, dailyQuota, logger),
		scoreThreshold: scoreThreshold,
		logger:         logger.Named("enrichment"),
	}
}

// IngestRecipe scrapes a recipe page, stores it and runs the full
// pipeline over its ingredients. Re-ingesting a URL returns the
// existing recipe untouched.
func (s *Service) IngestRecipe(ctx context.Context, url string) (*recipe.Recipe, error) {
	existing, err := s.recipes.FindBySourceURL(ctx, url)
	if err == nil {
		s.logger.Info("recipe already ingested",
			zap.String("url", url),
			zap.Uint("recipe_id", existing.ID))
		return existing, nil
	}
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		return nil, err
	}

	if s.source == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "no recipe source configured")
	}
	scraped, err := s.source.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	rec := &recipe.Recipe{
		Title:     scraped.Title,
		Version:   "1",
		SourceURL: url,
	}
	if err := s.recipes.Create(ctx, rec, scraped.IngredientLines); err != nil {
		return nil, err
	}
	s.logger.Info("recipe ingested",
		zap.Uint("recipe_id", rec.ID),
		zap.String("title", rec.Title),
		zap.Int("ingredients", len(scraped.IngredientLines)))

	if _, err := s.RunEnrichment(ctx, true); err != nil {
		return rec, err
	}
	if _, err := s.RunMatching(ctx); err != nil {
		return rec, err
	}
	return rec, nil
}

// RunEnrichment parses and enriches the working set. Row failures are
// logged and skipped so one bad line cannot stall the batch.
func (s *Service) RunEnrichment(ctx context.Context, force bool) (int, error) {
	var rows []*ingredient.Ingredient
	var err error
	if force {
		rows, err = s.ingredients.FindUnparsedOrUnlinked(ctx)
	} else {
		rows, err = s.ingredients.FindUnparsed(ctx)
	}
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	catalog, err := s.catalogSet(ctx)
	if err != nil {
		return 0, err
	}

	correlationID := uuid.New()
	processed := 0
	for _, row := range rows {
		if err := s.enrichOne(ctx, row, catalog, correlationID); err != nil {
			s.logger.Error("ingredient enrichment failed",
				zap.Uint("ingredient_id", row.ID),
				zap.String("raw_text", row.RawText),
				zap.Error(err))
			continue
		}
		processed++
	}

	s.logger.Info("enrichment run finished",
		zap.String("correlation_id", correlationID.String()),
		zap.Bool("force", force),
		zap.Int("working_set", len(rows)),
		zap.Int("processed", processed))
	return processed, nil
}

// enrichOne runs one ingredient through parsing, fallback and
// nutrition resolution, then persists the row and its audit entry
func (s *Service) enrichOne(ctx context.Context, row *ingredient.Ingredient, catalog map[string]struct{}, correlationID uuid.UUID) error {
	tiers := s.interpret(ctx, row, catalog)
	tiers = append(tiers, s.resolveNutrition(ctx, row, catalog)...)

	if err := s.ingredients.Update(ctx, row); err != nil {
		return err
	}

	entry := &ingredient.ReviewLogEntry{
		CorrelationID:  correlationID,
		IngredientID:   row.ID,
		RawText:        row.RawText,
		Amount:         row.Amount,
		Unit:           row.Unit,
		NormalizedName: row.NormalizedName,
		EstimatedGrams: row.EstimatedGrams,
		FoodMatchScore: row.FoodMatchScore,
		UnitMatchScore: row.UnitMatchScore,
		FallbackTiers:  tiers,
	}
	if err := s.reviewLog.Append(ctx, entry); err != nil {
		// The row is already updated; a lost audit entry is logged
		// but does not fail the ingredient
		s.logger.Error("review log append failed",
			zap.Uint("ingredient_id", row.ID),
			zap.Error(err))
	}
	return nil
}

// interpret fills the parsed fields and confidence scores, escalating
// to the generative parser when the rule parser is unsure
func (s *Service) interpret(ctx context.Context, row *ingredient.Ingredient, catalog map[string]struct{}) []string {
	result := s.parser.Parse(row.RawText)
	row.Amount = result.Amount
	row.Unit = result.Unit
	row.NormalizedName = result.NormalizedName
	row.EstimatedGrams = result.EstimatedGrams

	if row.Amount == nil && strings.ContainsAny(row.RawText, "0123456789") {
		// Malformed numeric tokens leave the amount unset and the
		// row continues through the pipeline
		s.logger.Debug("amount not parsed",
			zap.String("raw_text", row.RawText),
			zap.Error(apperrors.New(apperrors.CodeParseAmbiguity, "numeric token is malformed")))
	}

	row.FoodMatchScore = scoreUnknownFood
	if row.NormalizedName == "" {
		row.FoodMatchScore = 0
	} else if _, ok := catalog[row.NormalizedName]; ok {
		row.FoodMatchScore = scoreKnownFood
	}
	row.UnitMatchScore = scoreMissingUnit
	if row.Unit != nil && s.converter.IsKnown(*row.Unit) {
		row.UnitMatchScore = scoreKnownUnit
	}

	if row.FoodMatchScore >= s.scoreThreshold && row.UnitMatchScore >= s.scoreThreshold {
		return nil
	}
	if strings.TrimSpace(row.RawText) == "" {
		return nil
	}

	parse, tiers := s.fallback.parse(ctx, row.RawText, row.NormalizedName)
	if parse.IsNull() {
		return tiers
	}

	if parse.NormalizedName != "" {
		row.NormalizedName = parse.NormalizedName
	} else {
		row.NormalizedName = parse.Food
	}
	if parse.Amount != nil {
		row.Amount = parse.Amount
	}
	if parse.Unit != nil {
		row.Unit = parse.Unit
		if !s.converter.IsKnown(*parse.Unit) {
			// Gram conversion is skipped for units outside the
			// vocabulary
			s.logger.Warn("model returned unrecognized unit",
				zap.String("raw_text", row.RawText),
				zap.Error(apperrors.NewUnknownUnitError(*parse.Unit)))
		}
	}
	row.FoodMatchScore = parse.FoodScore
	row.UnitMatchScore = parse.UnitScore
	row.EstimatedGrams = s.converter.ToGrams(row.Amount, row.Unit, row.NormalizedName)
	return tiers
}

// resolveNutrition links the row to a catalog record, creating one
// from the provider or the model when the catalog has nothing
func (s *Service) resolveNutrition(ctx context.Context, row *ingredient.Ingredient, catalog map[string]struct{}) []string {
	if row.NormalizedName == "" {
		row.MatchType = ""
		row.MatchedNutritionID = nil
		return []string{ingredient.TierUnmatched}
	}

	record, err := s.nutritions.FindByNormalizedName(ctx, row.NormalizedName)
	if err == nil {
		s.link(row, record, 100)
		return []string{ingredient.TierCatalog}
	}
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		s.logger.Error("catalog lookup failed",
			zap.String("name", row.NormalizedName), zap.Error(err))
		return []string{ingredient.TierUnmatched}
	}

	if s.provider != nil {
		if tiers, ok := s.resolveFromProvider(ctx, row, catalog); ok {
			return tiers
		}
	}

	nutrients, tiers := s.fallback.estimate(ctx, row.NormalizedName)
	if nutrients != nil {
		record := &nutrition.Record{
			RawName:            row.NormalizedName,
			NormalizedName:     row.NormalizedName,
			ServingQty:         100,
			ServingUnit:        "g",
			ServingWeightGrams: 100,
			Nutrients:          *nutrients,
			MatchType:          nutrition.MatchLLMEstimate,
			// Approved stays nil until someone reviews the guess
		}
		stored, err := s.nutritions.CreateOrGet(ctx, record)
		if err != nil {
			s.logger.Error("catalog insert failed",
				zap.String("name", row.NormalizedName), zap.Error(err))
			return append(tiers, ingredient.TierUnmatched)
		}
		catalog[stored.NormalizedName] = struct{}{}
		s.link(row, stored, row.FuzzScore)
		row.MatchType = string(nutrition.MatchLLMEstimate)
		return tiers
	}

	s.logger.Warn("ingredient left unmatched",
		zap.Uint("ingredient_id", row.ID),
		zap.Error(apperrors.NewNoMatchFoundError(row.NormalizedName)))
	row.MatchType = ""
	row.MatchedNutritionID = nil
	return append(tiers, ingredient.TierUnmatched)
}

func (s *Service) resolveFromProvider(ctx context.Context, row *ingredient.Ingredient, catalog map[string]struct{}) ([]string, bool) {
	record, err := s.provider.Lookup(ctx, row.NormalizedName)
	if err != nil {
		s.logger.Warn("provider lookup failed",
			zap.String("name", row.NormalizedName), zap.Error(err))
		return nil, false
	}
	if record == nil {
		return nil, false
	}

	approved := true
	record.NormalizedName = row.NormalizedName
	record.MatchType = nutrition.MatchExact
	record.Approved = &approved

	stored, err := s.nutritions.CreateOrGet(ctx, record)
	if err != nil {
		s.logger.Error("catalog insert failed",
			zap.String("name", row.NormalizedName), zap.Error(err))
		return nil, false
	}
	catalog[stored.NormalizedName] = struct{}{}
	s.link(row, stored, 100)
	return []string{ingredient.TierProviderLookup}, true
}

func (s *Service) link(row *ingredient.Ingredient, record *nutrition.Record, fuzzScore float64) {
	row.MatchedNutritionID = &record.ID
	row.MatchType = string(record.MatchType)
	row.FuzzScore = fuzzScore
}

// RunMatching links parsed but unlinked rows to existing catalog
// records by exact and fuzzy name matching
func (s *Service) RunMatching(ctx context.Context) (int, error) {
	rows, err := s.ingredients.FindUnlinked(ctx)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	names, err := s.nutritions.DistinctNormalizedNames(ctx)
	if err != nil {
		return 0, err
	}

	linked := 0
	for _, row := range rows {
		match := s.matcher.Match(row.NormalizedName, names)

		var name string
		var fuzzScore float64
		var matchType nutrition.MatchType
		switch {
		case match.Exact != "":
			name, fuzzScore, matchType = match.Exact, 100, nutrition.MatchExact
		case match.NextBest != "":
			name, matchType = match.NextBest, nutrition.MatchFuzzy
			fuzzScore = float64(match.Similar[0].Score)
		default:
			continue
		}

		record, err := s.nutritions.FindByNormalizedName(ctx, name)
		if err != nil {
			s.logger.Error("catalog lookup failed",
				zap.String("name", name), zap.Error(err))
			continue
		}

		row.MatchedNutritionID = &record.ID
		row.MatchType = string(matchType)
		row.FuzzScore = fuzzScore
		if err := s.ingredients.Update(ctx, row); err != nil {
			s.logger.Error("ingredient update failed",
				zap.Uint("ingredient_id", row.ID), zap.Error(err))
			continue
		}
		linked++
	}

	s.logger.Info("matching run finished",
		zap.Int("unlinked", len(rows)),
		zap.Int("linked", linked))
	return linked, nil
}

// UnmatchedReport lists rows that remain without a nutrition link
func (s *Service) UnmatchedReport(ctx context.Context) ([]*ingredient.Ingredient, error) {
	return s.ingredients.FindUnparsedOrUnlinked(ctx)
}

// GetReviewLog returns the newest audit entries, newest first
func (s *Service) GetReviewLog(ctx context.Context, limit int) ([]*ingredient.ReviewLogEntry, error) {
	return s.reviewLog.Recent(ctx, limit)
}

// PendingRecords lists catalog records awaiting manual approval
func (s *Service) PendingRecords(ctx context.Context) ([]*nutrition.Record, error) {
	return s.nutritions.FindPending(ctx)
}

// SetApproval resolves a pending catalog record
func (s *Service) SetApproval(ctx context.Context, id uint, approved bool) error {
	return s.nutritions.SetApproval(ctx, id, approved)
}

func (s *Service) catalogSet(ctx context.Context) (map[string]struct{}, error) {
	names, err := s.nutritions.DistinctNormalizedNames(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set, nil
}
