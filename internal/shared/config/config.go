package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	MaxUploadBytes  int64

	DatabaseURL      string
	ResumeCollection string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	LLMProvider   string
	LLMModel      string
	LLMBaseURL    string
	LLMTimeout    time.Duration
	GeminiAPIKey  string
	OpenAIAPIKey  string
	PromptVersion string

	SearchProvider         string
	SearchResultLimit      int
	SearchFetchTimeout     time.Duration
	SearchFetchConcurrency int
	SearchUserAgent        string
	RedisURL               string
	SearchCacheTTL         time.Duration

	ModelRatePerMinute  float64
	SearchRatePerMinute float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(existing(".env", "cmd/.env")...)

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),

		DatabaseURL:      dbURL,
		ResumeCollection: getEnv("RESUME_COLLECTION", "resumes"),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "none")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		LLMProvider:   normalizeProvider(getEnv("LLM_PROVIDER", "gemini")),
		LLMModel:      getEnv("LLM_MODEL", ""),
		LLMBaseURL:    getEnv("LLM_BASE_URL", ""),
		LLMTimeout:    getEnvDuration("LLM_TIMEOUT", 120*time.Second),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		PromptVersion: getEnv("PROMPT_VERSION", "ats_v1"),

		SearchProvider:         strings.ToLower(strings.TrimSpace(getEnv("SEARCH_PROVIDER", "google"))),
		SearchResultLimit:      getEnvInt("SEARCH_RESULT_LIMIT", 10),
		SearchFetchTimeout:     getEnvDuration("SEARCH_FETCH_TIMEOUT", 5*time.Second),
		SearchFetchConcurrency: getEnvInt("SEARCH_FETCH_CONCURRENCY", 4),
		SearchUserAgent:        getEnv("SEARCH_USER_AGENT", "Mozilla/5.0 (compatible; internship-ats/1.0)"),
		RedisURL:               getEnv("REDIS_URL", ""),
		SearchCacheTTL:         getEnvDuration("SEARCH_CACHE_TTL", time.Hour),

		ModelRatePerMinute:  float64(getEnvInt("RATE_LIMIT_MODEL_PER_MIN", 10)),
		SearchRatePerMinute: float64(getEnvInt("RATE_LIMIT_SEARCH_PER_MIN", 20)),
	}
}

// LogFields describes the configuration for startup logs. Credentials are
// reported only as present or absent.
func (c Config) LogFields() map[string]any {
	return map[string]any{
		"env":               c.Env,
		"port":              c.Port,
		"database":          c.DatabaseURL != "",
		"resume_collection": c.ResumeCollection,
		"object_store":      c.ObjectStoreType,
		"llm_provider":      c.LLMProvider,
		"llm_model":         c.LLMModel,
		"llm_api_key_set":   c.apiKeyFor(c.LLMProvider) != "",
		"prompt_version":    c.PromptVersion,
		"search_provider":   c.SearchProvider,
		"search_limit":      c.SearchResultLimit,
		"search_cache":      c.RedisURL != "",
	}
}

// APIKey returns the credential for the configured model provider.
func (c Config) APIKey() string {
	return c.apiKeyFor(c.LLMProvider)
}

func (c Config) apiKeyFor(provider string) string {
	switch provider {
	case "openai":
		return c.OpenAIAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return ""
	}
}

func existing(paths ...string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{os.DevNull}
	}
	return out
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid positive int %q; using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid duration %q; using %s", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "local":
		return "local"
	default:
		return "none"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "gemini", "google":
		return "gemini"
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}
