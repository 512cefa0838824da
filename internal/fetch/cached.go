package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/logger"
)

// CacheKeyPrefix namespaces cached job descriptions.
const CacheKeyPrefix = "cvenh:job:"

// DefaultCacheTTL is how long an extracted job description stays cached.
const DefaultCacheTTL = 24 * time.Hour

// Cache stores extracted job descriptions by key.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis instance at redisURL and pings it.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// Get implements Cache
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	return value, true, nil
}

// Set implements Cache
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// JobExtractorConfig holds configuration for the job extractor.
type JobExtractorConfig struct {
	Options  *Options
	Cache    Cache         // optional
	CacheTTL time.Duration // zero uses DefaultCacheTTL
	Renderer Renderer      // optional; used when static text is too short
	MaxChars int           // zero uses MaxJobDescriptionLength
	Logger   *zap.Logger
}

// JobExtractor turns a job posting URL into a plain-text job description.
type JobExtractor struct {
	options  *Options
	cache    Cache
	cacheTTL time.Duration
	renderer Renderer
	maxChars int
	log      *zap.Logger
}

// NewJobExtractor creates an extractor, filling unset config values with defaults.
func NewJobExtractor(config JobExtractorConfig) *JobExtractor {
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.MaxChars <= 0 {
		config.MaxChars = MaxJobDescriptionLength
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &JobExtractor{
		options:  config.Options,
		cache:    config.Cache,
		cacheTTL: config.CacheTTL,
		renderer: config.Renderer,
		maxChars: config.MaxChars,
		log:      config.Logger,
	}
}

// CacheKey returns the cache key for a URL.
func CacheKey(urlStr string) string {
	sum := sha256.Sum256([]byte(urlStr))
	return CacheKeyPrefix + hex.EncodeToString(sum[:16])
}

// Extract returns the job description text found at urlStr, truncated to the configured length.
// Cache failures are logged and otherwise ignored.
func (e *JobExtractor) Extract(ctx context.Context, urlStr string) (string, error) {
	if err := ValidateURL(urlStr); err != nil {
		return "", err
	}
	key := CacheKey(urlStr)
	log := e.log.With(zap.String("url", urlStr))

	if e.cache != nil {
		cached, ok, err := e.cache.Get(ctx, key)
		if err != nil {
			log.Warn("job cache read failed", zap.Error(err))
		} else if ok {
			log.Debug("job description served from cache")
			return cached, nil
		}
	}

	platform := DetectPlatform(urlStr)
	text := ""

	result, fetchErr := URL(ctx, urlStr, e.options)
	if fetchErr == nil {
		text, fetchErr = ExtractMainText(result.HTML, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	}

	if e.renderer != nil && ShouldUseBrowser(text) {
		log.Debug("static text too short, rendering in browser", zap.Int("chars", len(text)))
		html, err := e.renderer.Render(ctx, urlStr)
		if err != nil {
			log.Warn("browser rendering failed", zap.Error(err))
		} else if rendered, err := ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...); err == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	if text == "" {
		if fetchErr != nil {
			return "", fetchErr
		}
		return "", &Error{URL: urlStr, Message: "no job description found"}
	}

	text = TruncateText(text, e.maxChars)
	if e.cache != nil {
		if err := e.cache.Set(ctx, key, text, e.cacheTTL); err != nil {
			log.Warn("job cache write failed", zap.Error(err))
		}
	}
	log.Info("extracted job description",
		zap.String("platform", string(platform)),
		zap.String("preview", logger.Truncate(text, 80)))
	return text, nil
}
