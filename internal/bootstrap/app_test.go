package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship-ats/internal/jobs"
	"internship-ats/internal/llm"
	"internship-ats/internal/resumes"
	"internship-ats/internal/shared/config"
	localstore "internship-ats/internal/shared/storage/object/local"
)

func devConfig() config.Config {
	return config.Config{
		Env:                 "dev",
		MaxUploadBytes:      1 << 20,
		ResumeCollection:    "intern",
		ObjectStoreType:     "none",
		LLMProvider:         "gemini",
		PromptVersion:       "ats_v1",
		SearchProvider:      "google",
		SearchResultLimit:   5,
		ModelRatePerMinute:  10,
		SearchRatePerMinute: 20,
	}
}

func TestBuildDevDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app, err := Build(context.Background(), devConfig())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.DB)
	assert.Nil(t, app.Store)
	assert.Nil(t, app.Redis)
	assert.IsType(t, &resumes.MemoryRepo{}, app.ResumesRepo)
	assert.IsType(t, llm.PlaceholderClient{}, app.LLM)
	assert.IsType(t, &jobs.Google{}, app.Searcher.Provider)
	assert.Equal(t, 5, app.Searcher.DefaultLimit)

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestBuildWithoutCredentialsReportsModelUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(context.Background(), devConfig())
	require.NoError(t, err)
	defer app.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations", strings.NewReader(`{"resumeText":"cv","jobDescription":"jd"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, resp.Body.String(), "model_unavailable")
}

func TestBuildLocalStoreAndDuckDuckGoWithCache(t *testing.T) {
	cfg := devConfig()
	cfg.ObjectStoreType = "local"
	cfg.LocalStoreDir = t.TempDir()
	cfg.SearchProvider = "duckduckgo"
	cfg.RedisURL = "redis://localhost:6379/0"

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &localstore.Store{}, app.Store)
	assert.NotNil(t, app.Redis)
	assert.IsType(t, &jobs.CachedProvider{}, app.Searcher.Provider)
}

func TestBuildRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "search provider", mutate: func(c *config.Config) { c.SearchProvider = "altavista" }},
		{name: "redis url", mutate: func(c *config.Config) { c.RedisURL = "not a url" }},
		{name: "production without database", mutate: func(c *config.Config) { c.Env = "production" }},
		{name: "llm provider", mutate: func(c *config.Config) { c.LLMProvider = "other"; c.GeminiAPIKey = "k" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := devConfig()
			tt.mutate(&cfg)
			_, err := Build(context.Background(), cfg)
			assert.Error(t, err)
		})
	}
}

func TestBuildSearcher(t *testing.T) {
	cfg := devConfig()
	cfg.SearchProvider = "ddg"

	searcher, rdb, err := BuildSearcher(cfg)
	require.NoError(t, err)
	assert.Nil(t, rdb)
	assert.IsType(t, &jobs.DuckDuckGo{}, searcher.Provider)
	assert.Equal(t, 5, searcher.DefaultLimit)

	cfg.RedisURL = "redis://localhost:6379/1"
	searcher, rdb, err = BuildSearcher(cfg)
	require.NoError(t, err)
	require.NotNil(t, rdb)
	defer rdb.Close()
	assert.IsType(t, &jobs.CachedProvider{}, searcher.Provider)

	cfg.SearchProvider = "bing"
	_, _, err = BuildSearcher(cfg)
	assert.ErrorContains(t, err, "unknown SEARCH_PROVIDER")
}
