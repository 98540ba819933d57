package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridpulse/energy-optimizer/internal/provider"
	"github.com/gridpulse/energy-optimizer/internal/windows"
	"github.com/gridpulse/energy-optimizer/pkg/config"
	"github.com/gridpulse/energy-optimizer/pkg/models"
)

func windowTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	scorer, err := windows.NewScorer(windows.DefaultWeights(), windows.DefaultReferences())
	require.NoError(t, err)

	mock := provider.NewMockProvider(provider.MockProviderConfig{
		Regions: []string{"NSW1"},
		Seed:    7,
	})
	factory := func(region string) (provider.ForecastProvider, provider.WeatherProvider) {
		return mock, mock
	}

	handler := NewWindowHandler(scorer, factory, config.EngineConfig{
		TopN:           5,
		BottomN:        3,
		SustainedSlots: 4,
		ForecastSlots:  24,
	})

	router := gin.New()
	router.GET("/regions/:region/windows", handler.GetWindows)
	router.GET("/regions/:region/windows/sustained", handler.GetSustained)
	return router
}

func TestGetWindows(t *testing.T) {
	router := windowTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/regions/NSW1/windows", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Region string                `json:"region"`
		Best   []models.ScoredWindow `json:"best"`
		Worst  []models.ScoredWindow `json:"worst"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "NSW1", resp.Region)
	assert.Len(t, resp.Best, 5)
	assert.Len(t, resp.Worst, 3)
	for i := 1; i < len(resp.Best); i++ {
		assert.GreaterOrEqual(t, resp.Best[i-1].Score, resp.Best[i].Score)
	}
}

func TestGetWindowsCountOverrides(t *testing.T) {
	router := windowTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/regions/NSW1/windows?top=2&bottom=1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Best  []models.ScoredWindow `json:"best"`
		Worst []models.ScoredWindow `json:"worst"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Best, 2)
	assert.Len(t, resp.Worst, 1)
}

func TestGetWindowsUnknownRegion(t *testing.T) {
	router := windowTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/regions/QLD1/windows", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetWindowsInvalidRegion(t *testing.T) {
	router := windowTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/regions/bad-region/windows", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSustained(t *testing.T) {
	router := windowTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/regions/NSW1/windows/sustained?slots=4", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SustainedWindow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Slots)
	assert.GreaterOrEqual(t, resp.Score, 0.0)
	assert.LessOrEqual(t, resp.Score, 100.0)
}

func TestGetSustainedBlockTooLong(t *testing.T) {
	router := windowTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/regions/NSW1/windows/sustained?slots=48", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWindowsWeightOverrides(t *testing.T) {
	router := windowTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/regions/NSW1/windows?w_renewable=1&w_carbon=0&w_price=0&w_secondary=0", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Best []models.ScoredWindow `json:"best"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Best)

	// With all weight on renewables, the composite equals the renewable
	// percentage of the winning slot.
	best := resp.Best[0]
	assert.InDelta(t, best.Slot.RenewablePct, best.Score, 1e-6)
}

func TestGetWindowsWeightOverridesRejected(t *testing.T) {
	router := windowTestRouter(t)

	tests := []struct {
		name  string
		query string
	}{
		{"partial set", "?w_renewable=0.5"},
		{"bad sum", "?w_renewable=0.5&w_carbon=0.5&w_price=0.5&w_secondary=0.5"},
		{"negative", "?w_renewable=-0.5&w_carbon=0.5&w_price=0.5&w_secondary=0.5"},
		{"not a number", "?w_renewable=x&w_carbon=0&w_price=0&w_secondary=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/regions/NSW1/windows"+tt.query, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
