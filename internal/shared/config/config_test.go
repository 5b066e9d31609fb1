package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"ENV", "SEARCH_RESULT_LIMIT", "LLM_PROVIDER", "OBJECT_STORE", "RESUME_COLLECTION", "SEARCH_FETCH_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 10, cfg.SearchResultLimit)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "none", cfg.ObjectStoreType)
	assert.Equal(t, "resumes", cfg.ResumeCollection)
	assert.Equal(t, 5*time.Second, cfg.SearchFetchTimeout)
	assert.Equal(t, "ats_v1", cfg.PromptVersion)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("SEARCH_RESULT_LIMIT", "5")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RESUME_COLLECTION", "intern")
	t.Setenv("SEARCH_FETCH_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 5, cfg.SearchResultLimit)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.Equal(t, "intern", cfg.ResumeCollection)
	assert.Equal(t, 2*time.Second, cfg.SearchFetchTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigin)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEARCH_RESULT_LIMIT", "-3")
	t.Setenv("LLM_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 10, cfg.SearchResultLimit)
	assert.Equal(t, 120*time.Second, cfg.LLMTimeout)
}

func TestLogFieldsOmitCredentials(t *testing.T) {
	cfg := Config{LLMProvider: "gemini", GeminiAPIKey: "secret-value"}

	fields := cfg.LogFields()

	assert.Equal(t, true, fields["llm_api_key_set"])
	for key, val := range fields {
		if s, ok := val.(string); ok {
			assert.NotContains(t, s, "secret-value", "field %s leaks credential", key)
		}
	}
}
