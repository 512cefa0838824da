package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/config"
	"github.com/jonathan/cv-enhancer/internal/fetch"
	"github.com/jonathan/cv-enhancer/internal/llm"
	"github.com/jonathan/cv-enhancer/internal/logger"
	"github.com/jonathan/cv-enhancer/internal/storage"
)

// loadApp reads the configuration and installs the global logger.
func loadApp() (*config.Config, *zap.Logger, error) {
	return load(logger.New)
}

// loadTool is loadApp for commands that print their result; logs go to stderr.
func loadTool() (*config.Config, *zap.Logger, error) {
	return load(logger.NewStderr)
}

func load(newLogger func(json, debug bool) (*zap.Logger, error)) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := newLogger(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(log)
	return cfg, log, nil
}

// newLLMClient returns nil when no model credential is configured; every model-backed feature
// then uses its fallback.
func newLLMClient(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (llm.Client, error) {
	if !cfg.Enabled() {
		log.Info("no model credential configured, model-backed features use their fallbacks")
		return nil, nil
	}

	llmConfig := llm.ConfigFor(strings.ToLower(cfg.Provider))
	if cfg.Model != "" {
		llmConfig = llmConfig.WithAllModels(cfg.Model)
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey())
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}
	log.Info("model client ready",
		logger.ModelFields(string(llmConfig.Provider), client.GetModel(llm.TierStandard))...)
	return client, nil
}

// newFileStore opens the configured upload storage.
func newFileStore(ctx context.Context, cfg config.StorageConfig) (storage.FileStore, error) {
	switch cfg.Backend {
	case config.StorageS3:
		return storage.NewS3StoreFromEnv(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return storage.NewLocalStore(cfg.UploadDir)
	}
}

// newJobExtractor builds the job page extractor. A Redis cache is used when one is configured
// and reachable; the returned function releases it.
func newJobExtractor(ctx context.Context, cfg *config.Config, log *zap.Logger) (*fetch.JobExtractor, func()) {
	extractorConfig := fetch.JobExtractorConfig{
		CacheTTL: cfg.Fetch.CacheTTL,
		Logger:   log,
	}
	cleanup := func() {}

	if cfg.RedisURL != "" {
		cache, err := fetch.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, job extraction runs uncached", zap.Error(err))
		} else {
			extractorConfig.Cache = cache
			cleanup = func() {
				if err := cache.Close(); err != nil {
					log.Warn("failed to close redis cache", zap.Error(err))
				}
			}
		}
	}
	if cfg.Fetch.UseBrowser {
		extractorConfig.Renderer = fetch.NewChromeRenderer(0, log)
	}
	return fetch.NewJobExtractor(extractorConfig), cleanup
}
