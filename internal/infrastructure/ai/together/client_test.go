package together

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pantrylab/forage/internal/infrastructure/config"
	apperrors "github.com/pantrylab/forage/pkg/errors"
)

func testClient(t *testing.T, content string, status int) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	return NewClient(config.AIConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "test-model",
		Temperature: 0.3,
		MaxTokens:   300,
		Timeout:     5 * time.Second,
	}, zap.NewNop())
}

func TestParse_ReadsModelJSON(t *testing.T) {
	content := `Here is the parse you asked for:
{"food":"onion","amount":1.5,"unit":"cup","normalized_name":"onion","food_match_score":0.95,"unit_match_score":0.9}`
	client := testClient(t, content, http.StatusOK)

	parse, err := client.Parse(context.Background(), "1 1/2 cups chopped onion", "onion")
	require.NoError(t, err)
	assert.Equal(t, "onion", parse.Food)
	require.NotNil(t, parse.Amount)
	assert.InDelta(t, 1.5, *parse.Amount, 0.0001)
	require.NotNil(t, parse.Unit)
	assert.Equal(t, "cup", *parse.Unit)
	assert.InDelta(t, 95.0, parse.FoodScore, 0.001)
	assert.InDelta(t, 90.0, parse.UnitScore, 0.001)
	assert.False(t, parse.IsNull())
}

func TestParse_PercentScoresAreClamped(t *testing.T) {
	content := `{"food":"garlic","normalized_name":"garlic","food_match_score":120,"unit_match_score":85}`
	client := testClient(t, content, http.StatusOK)

	parse, err := client.Parse(context.Background(), "3 cloves garlic", "garlic")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, parse.FoodScore, 0.001)
	assert.InDelta(t, 85.0, parse.UnitScore, 0.001)
}

func TestParse_NonFoodLineIsNullParse(t *testing.T) {
	content := `{"food":"","normalized_name":"","food_match_score":0,"unit_match_score":0}`
	client := testClient(t, content, http.StatusOK)

	parse, err := client.Parse(context.Background(), "see note below", "")
	require.NoError(t, err)
	assert.True(t, parse.IsNull())
}

func TestParse_ProseOnlyResponseFails(t *testing.T) {
	client := testClient(t, "I cannot help with that.", http.StatusOK)

	_, err := client.Parse(context.Background(), "1 cup sugar", "sugar")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeExternalProviderFailure))
}

func TestParse_ServerErrorIsProviderFailure(t *testing.T) {
	client := testClient(t, "", http.StatusTooManyRequests)

	_, err := client.Parse(context.Background(), "1 cup sugar", "sugar")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeExternalProviderFailure))
}

func TestEstimateNutrition_ReadsModelJSON(t *testing.T) {
	content := `{"calories":52,"fat":0.2,"saturated_fat":0,"cholesterol":0,"sodium":1,"carbs":14,"fiber":2.4,"sugars":10,"protein":0.3,"potassium":107}`
	client := testClient(t, content, http.StatusOK)

	nutrients, err := client.EstimateNutrition(context.Background(), "apple")
	require.NoError(t, err)
	assert.InDelta(t, 52.0, nutrients.Calories, 0.001)
	assert.InDelta(t, 14.0, nutrients.Carbs, 0.001)
	assert.InDelta(t, 107.0, nutrients.Potassium, 0.001)
}

func TestNewClient_MissingKeyDisablesClient(t *testing.T) {
	assert.Nil(t, NewClient(config.AIConfig{}, zap.NewNop()))
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"prose before {\"a\":1} prose after", `{"a":1}`},
		{"no json at all", "no json at all"},
	}
	for i, tc := range cases {
		assert.Equal(t, tc.want, string(extractJSONObject(tc.in)), fmt.Sprintf("case %d", i))
	}
}
