// Package together provides the generative parsing and estimation
// client against an OpenAI-compatible chat completions API
package together

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pantrylab/forage/internal/domain/nutrition"
	"github.com/pantrylab/forage/internal/infrastructure/config"
	"github.com/pantrylab/forage/internal/ports/outbound"
	apperrors "github.com/pantrylab/forage/pkg/errors"
)

// Client implements the GenerativeClient interface against the Together
// chat completions endpoint
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	logger      *zap.Logger
}

// NewClient creates a new Together client. Returns nil when no API key
// is configured so the caller can skip the generative tiers.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	if cfg.APIKey == "" {
		return nil
	}

	logger.Info("generative client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.String("model", cfg.Model),
		zap.Duration("timeout", cfg.Timeout))

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{Timeout: cfg.Timeout},
		logger:      logger.Named("together-client"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type parsePayload struct {
	Food           string   `json:"food"`
	Amount         *float64 `json:"amount"`
	Unit           *string  `json:"unit"`
	NormalizedName string   `json:"normalized_name"`
	FoodScore      float64  `json:"food_match_score"`
	UnitScore      float64  `json:"unit_match_score"`
}

const parseSystemPrompt = `You are an expert at reading recipe ingredient lines.

CRITICAL: Respond with ONLY a valid JSON object in this exact format:
{
  "food": "core food name",
  "amount": 1.5,
  "unit": "cup",
  "normalized_name": "lowercase singular food name without descriptors",
  "food_match_score": 0.95,
  "unit_match_score": 0.9
}

Rules:
- "food" is the core ingredient, without amounts, units or preparation words
- "amount" and "unit" may be null when the line has none
- scores are your confidence between 0 and 1
- if the line is not a food ingredient, set "food" to an empty string`

// Parse asks the model to interpret a raw ingredient line. currentName
// is the rule parser's best guess and gives the model context.
func (c *Client) Parse(ctx context.Context, rawText, currentName string) (*outbound.GenerativeParse, error) {
	userPrompt := fmt.Sprintf("Ingredient line: %q", rawText)
	if currentName != "" {
		userPrompt += fmt.Sprintf("\nA rule based parser guessed the food is %q.", currentName)
	}

	content, err := c.chatCompletion(ctx, parseSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var payload parsePayload
	if err := json.Unmarshal(extractJSONObject(content), &payload); err != nil {
		c.logger.Warn("unparseable model response",
			zap.String("raw_text", rawText),
			zap.Error(err))
		return nil, apperrors.NewExternalProviderError("together",
			fmt.Errorf("malformed model response: %w", err))
	}

	return &outbound.GenerativeParse{
		Food:           strings.TrimSpace(payload.Food),
		Amount:         payload.Amount,
		Unit:           payload.Unit,
		NormalizedName: strings.ToLower(strings.TrimSpace(payload.NormalizedName)),
		FoodScore:      scaleScore(payload.FoodScore),
		UnitScore:      scaleScore(payload.UnitScore),
	}, nil
}

const estimateSystemPrompt = `You are a nutrition database.

CRITICAL: Respond with ONLY a valid JSON object in this exact format:
{
  "calories": 52.0,
  "fat": 0.2,
  "saturated_fat": 0.0,
  "cholesterol": 0.0,
  "sodium": 1.0,
  "carbs": 14.0,
  "fiber": 2.4,
  "sugars": 10.0,
  "protein": 0.3,
  "potassium": 107.0
}

All values are per 100 grams of the food. Use your best estimate.`

type estimatePayload struct {
	Calories     float64 `json:"calories"`
	Fat          float64 `json:"fat"`
	SaturatedFat float64 `json:"saturated_fat"`
	Cholesterol  float64 `json:"cholesterol"`
	Sodium       float64 `json:"sodium"`
	Carbs        float64 `json:"carbs"`
	Fiber        float64 `json:"fiber"`
	Sugars       float64 `json:"sugars"`
	Protein      float64 `json:"protein"`
	Potassium    float64 `json:"potassium"`
}

// EstimateNutrition asks the model for per-100g nutrition facts
func (c *Client) EstimateNutrition(ctx context.Context, foodName string) (*nutrition.Nutrients, error) {
	content, err := c.chatCompletion(ctx, estimateSystemPrompt,
		fmt.Sprintf("Food: %q", foodName))
	if err != nil {
		return nil, err
	}

	var payload estimatePayload
	if err := json.Unmarshal(extractJSONObject(content), &payload); err != nil {
		return nil, apperrors.NewExternalProviderError("together",
			fmt.Errorf("malformed model response: %w", err))
	}

	return &nutrition.Nutrients{
		Calories:     payload.Calories,
		Fat:          payload.Fat,
		SaturatedFat: payload.SaturatedFat,
		Cholesterol:  payload.Cholesterol,
		Sodium:       payload.Sodium,
		Carbs:        payload.Carbs,
		Fiber:        payload.Fiber,
		Sugars:       payload.Sugars,
		Protein:      payload.Protein,
		Potassium:    payload.Potassium,
	}, nil
}

func (c *Client) chatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.NewExternalProviderError("together", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewExternalProviderError("together", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewExternalProviderError("together",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(respBody, 200)))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", apperrors.NewExternalProviderError("together", err)
	}
	if len(chat.Choices) == 0 {
		return "", apperrors.NewExternalProviderError("together",
			fmt.Errorf("empty choices in response"))
	}
	return chat.Choices[0].Message.Content, nil
}

// extractJSONObject cuts the first balanced-looking JSON object out of
// model output that may carry prose around it
func extractJSONObject(content string) []byte {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return []byte(content)
	}
	return []byte(content[start : end+1])
}

// scaleScore accepts confidences given either in [0,1] or [0,100] and
// clamps the result to [0,100]
func scaleScore(score float64) float64 {
	if score <= 1.0 {
		score *= 100
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
