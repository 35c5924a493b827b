package nutritionix

import (
	"context"
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

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider := NewClient(config.NutritionixConfig{
		AppID:   "test-app",
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	return provider.(*Client)
}

func TestLookup_MapsFoodPayload(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/natural/nutrients", r.URL.Path)
		assert.Equal(t, "test-app", r.Header.Get("x-app-id"))
		assert.Equal(t, "test-key", r.Header.Get("x-app-key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods":[{
			"food_name":"banana",
			"serving_qty":1,
			"serving_unit":"medium",
			"serving_weight_grams":118,
			"nf_calories":105,
			"nf_total_fat":0.4,
			"nf_total_carbohydrate":27,
			"nf_protein":1.3,
			"nf_potassium":422
		}]}`))
	})

	record, err := client.Lookup(context.Background(), "banana")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "banana", record.RawName)
	assert.Equal(t, 118.0, record.ServingWeightGrams)
	assert.Equal(t, 105.0, record.Nutrients.Calories)
	assert.Equal(t, 422.0, record.Nutrients.Potassium)
}

func TestLookup_UnknownFoodReturnsNil(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	record, err := client.Lookup(context.Background(), "unobtainium")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestLookup_EmptyFoodsReturnsNil(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods":[]}`))
	})

	record, err := client.Lookup(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestLookup_ServerErrorIsProviderFailure(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Lookup(context.Background(), "banana")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeExternalProviderFailure))
}

func TestNewClient_MissingCredentialsDisablesProvider(t *testing.T) {
	provider := NewClient(config.NutritionixConfig{}, zap.NewNop())
	assert.Nil(t, provider)
}
