package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"internship-ats/internal/analyses"
	"internship-ats/internal/jobs"
	"internship-ats/internal/llm"
	"internship-ats/internal/llm/gemini"
	"internship-ats/internal/llm/openai"
	"internship-ats/internal/resumes"
	"internship-ats/internal/services/health"
	"internship-ats/internal/shared/config"
	"internship-ats/internal/shared/server"
	"internship-ats/internal/shared/server/middleware"
	"internship-ats/internal/shared/storage/db"
	"internship-ats/internal/shared/storage/object"
	localstore "internship-ats/internal/shared/storage/object/local"
	s3store "internship-ats/internal/shared/storage/object/s3"
	"internship-ats/internal/shared/telemetry"
)

const searchHTTPTimeout = 15 * time.Second

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Redis           *redis.Client
	Store           object.ObjectStore
	LLM             llm.Client
	ResumesRepo     resumes.Repo
	AnalysesService *analyses.Service
	Searcher        *jobs.Searcher
	AnalysisHandler *analyses.Handler
	JobsHandler     *jobs.Handler
	Health          *health.Service
}

// Build connects storage, constructs clients and services, and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, DB: sqlDB}

	if app.Store, err = buildStore(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if app.LLM, err = BuildLLM(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if err := buildSearch(app); err != nil {
		app.Close()
		return nil, err
	}

	if sqlDB != nil {
		app.ResumesRepo = &resumes.PGRepo{DB: sqlDB}
	} else {
		app.ResumesRepo = resumes.NewMemoryRepo()
	}

	app.AnalysesService = &analyses.Service{
		LLM:           app.LLM,
		Repo:          app.ResumesRepo,
		Store:         app.Store,
		Collection:    cfg.ResumeCollection,
		PromptVersion: cfg.PromptVersion,
	}
	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService, cfg.MaxUploadBytes)
	app.JobsHandler = jobs.NewHandler(app.Searcher)
	app.Health = buildHealth(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: app.AnalysisHandler,
		JobsHandler:     app.JobsHandler,
		Health:          app.Health,
		RateLimiter:     middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close releases pooled connections.
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, nil
	}
}

// BuildLLM returns the model client for the configured provider. Without
// credentials it returns a placeholder whose calls fail with
// llm.ErrNotConfigured.
func BuildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider != "openai" && cfg.LLMProvider != "gemini" {
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
	if cfg.APIKey() == "" {
		telemetry.Warn("bootstrap.llm.placeholder", map[string]any{"provider": cfg.LLMProvider})
		return llm.PlaceholderClient{}, nil
	}
	if cfg.LLMProvider == "openai" {
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMBaseURL, cfg.LLMTimeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMBaseURL, cfg.LLMTimeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func buildSearch(app *App) error {
	searcher, rdb, err := BuildSearcher(app.Config)
	if err != nil {
		return err
	}
	app.Searcher = searcher
	app.Redis = rdb
	return nil
}

// BuildSearcher returns the listing searcher for the configured provider,
// wrapped in the Redis URL cache when REDIS_URL is set. The returned Redis
// client is nil without a cache and must be closed by the caller otherwise.
func BuildSearcher(cfg config.Config) (*jobs.Searcher, *redis.Client, error) {
	client := &http.Client{Timeout: searchHTTPTimeout}

	var provider jobs.Provider
	switch cfg.SearchProvider {
	case "", "google":
		provider = &jobs.Google{Client: client, UserAgent: cfg.SearchUserAgent}
	case "duckduckgo", "ddg":
		provider = &jobs.DuckDuckGo{Client: client, UserAgent: cfg.SearchUserAgent}
	default:
		return nil, nil, fmt.Errorf("unknown SEARCH_PROVIDER %q", cfg.SearchProvider)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
		provider = jobs.NewRedisCachedProvider(provider, rdb, cfg.SearchCacheTTL)
	}

	searcher := &jobs.Searcher{
		Provider:     provider,
		Client:       client,
		UserAgent:    cfg.SearchUserAgent,
		DefaultLimit: cfg.SearchResultLimit,
		FetchTimeout: cfg.SearchFetchTimeout,
		Concurrency:  cfg.SearchFetchConcurrency,
	}
	return searcher, rdb, nil
}

func buildHealth(app *App) *health.Service {
	hs := health.NewService()
	if app.DB != nil {
		sqlDB := app.DB
		hs.Register("postgres", func(ctx context.Context) error {
			return db.CheckSchema(ctx, sqlDB)
		})
	}
	if app.Redis != nil {
		rdb := app.Redis
		hs.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	return hs
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
