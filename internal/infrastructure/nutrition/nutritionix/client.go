// Package nutritionix implements the external nutrition provider port
// against the Nutritionix natural language endpoint
package nutritionix

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/pantrylab/forage/internal/domain/nutrition"
	"github.com/pantrylab/forage/internal/infrastructure/config"
	"github.com/pantrylab/forage/internal/ports/outbound"
	apperrors "github.com/pantrylab/forage/pkg/errors"
)

// Client calls the Nutritionix v2 natural nutrients endpoint
type Client struct {
	client *resty.Client
	logger *zap.Logger
}

// NewClient creates a Nutritionix client. Returns nil when credentials
// are absent so the caller can skip the provider tier.
func NewClient(cfg config.NutritionixConfig, logger *zap.Logger) outbound.NutritionProvider {
	if cfg.AppID == "" || cfg.APIKey == "" {
		return nil
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("x-app-id", cfg.AppID).
		SetHeader("x-app-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Client{client: client, logger: logger}
}

type naturalRequest struct {
	Query string `json:"query"`
}

type naturalResponse struct {
	Foods []foodPayload `json:"foods"`
}

type foodPayload struct {
	FoodName           string  `json:"food_name"`
	ServingQty         float64 `json:"serving_qty"`
	ServingUnit        string  `json:"serving_unit"`
	ServingWeightGrams float64 `json:"serving_weight_grams"`
	Calories           float64 `json:"nf_calories"`
	TotalFat           float64 `json:"nf_total_fat"`
	SaturatedFat       float64 `json:"nf_saturated_fat"`
	Cholesterol        float64 `json:"nf_cholesterol"`
	Sodium             float64 `json:"nf_sodium"`
	TotalCarbohydrate  float64 `json:"nf_total_carbohydrate"`
	DietaryFiber       float64 `json:"nf_dietary_fiber"`
	Sugars             float64 `json:"nf_sugars"`
	Protein            float64 `json:"nf_protein"`
	Potassium          float64 `json:"nf_potassium"`
}

// Lookup queries the natural language endpoint for a food name. A
// missing food returns nil without error; transport and server
// failures come back as external provider errors.
func (c *Client) Lookup(ctx context.Context, query string) (*nutrition.Record, error) {
	var payload naturalResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(naturalRequest{Query: query}).
		SetResult(&payload).
		Post("/v2/natural/nutrients")
	if err != nil {
		return nil, apperrors.NewExternalProviderError("nutritionix", err)
	}

	// Nutritionix answers 404 when it cannot interpret the query
	if resp.StatusCode() == 404 {
		c.logger.Debug("nutritionix has no data for query", zap.String("query", query))
		return nil, nil
	}
	if resp.IsError() {
		return nil, apperrors.NewExternalProviderError("nutritionix",
			fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}
	if len(payload.Foods) == 0 {
		return nil, nil
	}

	food := payload.Foods[0]
	c.logger.Debug("nutritionix lookup succeeded",
		zap.String("query", query),
		zap.String("food_name", food.FoodName),
		zap.Float64("serving_weight_grams", food.ServingWeightGrams),
	)

	return &nutrition.Record{
		RawName:            food.FoodName,
		ServingQty:         food.ServingQty,
		ServingUnit:        food.ServingUnit,
		ServingWeightGrams: food.ServingWeightGrams,
		Nutrients: nutrition.Nutrients{
			Calories:     food.Calories,
			Fat:          food.TotalFat,
			SaturatedFat: food.SaturatedFat,
			Cholesterol:  food.Cholesterol,
			Sodium:       food.Sodium,
			Carbs:        food.TotalCarbohydrate,
			Fiber:        food.DietaryFiber,
			Sugars:       food.Sugars,
			Protein:      food.Protein,
			Potassium:    food.Potassium,
		},
	}, nil
}
