package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"food-compare/internal/core/ai"
	"food-compare/internal/core/catalog"
	"food-compare/internal/core/food"
	"food-compare/internal/infrastructure/config"
	"food-compare/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Version: "test"},
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			MaxBodyBytes:   1 << 20,
			AllowedOrigins: []string{"*"},
		},
		RateLimit:        config.RateLimitConfig{Enabled: true, Requests: 100, Window: time.Minute},
		InvalidFoodLimit: config.InvalidFoodLimitConfig{Attempts: 3, Window: time.Hour},
		DedupWindow:      time.Second,
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := catalog.NewMemoryStore(common.FoodRecord{
		Name:   "banana (raw)",
		Macros: common.FoodMacros{Calories: 89, Protein: 1.1, Carbs: 23},
		Source: common.SourceUSDA,
	})
	router, err := SetupRouter(testConfig(), Dependencies{
		Catalog:  store,
		Resolver: food.NewResolver(store, nil, nil, time.Second),
		Comparer: ai.NewComparer(nil),
	})
	require.NoError(t, err)
	return router
}

func TestSetupRouterRequiresDependencies(t *testing.T) {
	_, err := SetupRouter(testConfig(), Dependencies{})
	assert.Error(t, err)
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/ready", "", http.StatusOK},
		{http.MethodGet, "/live", "", http.StatusOK},
		{http.MethodPost, "/api/v1/food", `{"foodName":"banana"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/food", `{"foodName":"rambutan"}`, http.StatusNotFound},
		{http.MethodPost, "/api/v1/food/suggestions", `{"foodName":"banana"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/compare", `{"foods":[{"name":"a"},{"name":"b"}]}`, http.StatusOK},
		{http.MethodPost, "/api/v1/admin/init-db", "", http.StatusOK},
		{http.MethodDelete, "/api/v1/admin/foods?source=ai", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouterRejectsDuplicatePost(t *testing.T) {
	router := newTestRouter(t)

	send := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/food", strings.NewReader(`{"foodName":"banana"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestCorsConfig(t *testing.T) {
	all := corsConfig([]string{"*"})
	assert.True(t, all.AllowAllOrigins)
	assert.False(t, all.AllowCredentials)

	none := corsConfig(nil)
	assert.True(t, none.AllowAllOrigins)

	some := corsConfig([]string{"https://food.example.com"})
	assert.False(t, some.AllowAllOrigins)
	assert.True(t, some.AllowCredentials)
	assert.Equal(t, []string{"https://food.example.com"}, some.AllowOrigins)
}
