package enrichment

import (
	"context"

	"go.uber.org/zap"

	"github.com/pantrylab/forage/internal/domain/ingredient"
	"github.com/pantrylab/forage/internal/domain/nutrition"
	"github.com/pantrylab/forage/internal/infrastructure/cache"
	"github.com/pantrylab/forage/internal/ports/outbound"
	apperrors "github.com/pantrylab/forage/pkg/errors"
)

// generativeFallback wraps the model client with the parse cache and
// the daily quota. All of its methods degrade to null results instead
// of failing the pipeline.
type generativeFallback struct {
	client outbound.GenerativeClient
	cache  *cache.ParseCache
	usage  outbound.UsageStore
	quota  int
	logger *zap.Logger
}

func newGenerativeFallback(
	client outbound.GenerativeClient,
	parseCache *cache.ParseCache,
	usage outbound.UsageStore,
	quota int,
	logger *zap.Logger,
) *generativeFallback {
	if client == nil {
		return nil
	}
	return &generativeFallback{
		client: client,
		cache:  parseCache,
		usage:  usage,
		quota:  quota,
		logger: logger,
	}
}

// parse interprets a raw line through the model, consulting the cache
// first and the quota before any live call. The returned tier list
// records which stages fired.
func (g *generativeFallback) parse(ctx context.Context, rawText, currentName string) (*outbound.GenerativeParse, []string) {
	if g == nil {
		return nil, nil
	}

	if cached, ok := g.cache.Get(rawText); ok {
		return cached, []string{ingredient.TierLLMCache}
	}

	if !g.allow(ctx) {
		g.logger.Warn("generative parse blocked",
			zap.String("raw_text", rawText),
			zap.Error(apperrors.NewQuotaExceededError(g.quota)))
		// Cache the refusal so the line is not retried every run
		// while the quota stays exhausted
		null := &outbound.GenerativeParse{}
		g.cache.Set(rawText, null)
		return null, []string{ingredient.TierQuotaBlocked}
	}

	parse, err := g.client.Parse(ctx, rawText, currentName)
	g.count(ctx)
	if err != nil {
		g.logger.Warn("generative parse failed",
			zap.String("raw_text", rawText),
			zap.Error(err))
		parse = &outbound.GenerativeParse{}
	}
	if parse == nil {
		parse = &outbound.GenerativeParse{}
	}

	g.cache.Set(rawText, parse)
	return parse, []string{ingredient.TierLLMParse}
}

// estimate asks the model for per-100g nutrition facts, under the same
// quota as parsing
func (g *generativeFallback) estimate(ctx context.Context, foodName string) (*nutrition.Nutrients, []string) {
	if g == nil {
		return nil, nil
	}

	if !g.allow(ctx) {
		g.logger.Warn("generative estimate blocked",
			zap.String("food", foodName),
			zap.Error(apperrors.NewQuotaExceededError(g.quota)))
		return nil, []string{ingredient.TierQuotaBlocked}
	}

	nutrients, err := g.client.EstimateNutrition(ctx, foodName)
	g.count(ctx)
	if err != nil {
		g.logger.Warn("generative estimate failed",
			zap.String("food", foodName),
			zap.Error(err))
		return nil, []string{ingredient.TierLLMEstimate}
	}
	return nutrients, []string{ingredient.TierLLMEstimate}
}

// allow reports whether the daily quota has room for one more call.
// Counter read failures block the call rather than risk overrun.
func (g *generativeFallback) allow(ctx context.Context) bool {
	calls, err := g.usage.CallsToday(ctx)
	if err != nil {
		g.logger.Error("usage counter unavailable", zap.Error(err))
		return false
	}
	return calls < g.quota
}

func (g *generativeFallback) count(ctx context.Context) {
	if err := g.usage.Increment(ctx); err != nil {
		g.logger.Error("usage counter increment failed", zap.Error(err))
	}
}
