// Package config loads the service configuration from an optional file and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config is the complete service configuration.
type Config struct {
	Port        int    `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database_url"`
	RedisURL    string `mapstructure:"redis_url"`

	Log       LogConfig       `mapstructure:"log"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Export    ExportConfig    `mapstructure:"export"`
}

// LogConfig selects the log format and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// LLMConfig selects the language model provider. An empty key for the chosen provider disables
// every model-backed feature.
type LLMConfig struct {
	Provider     string        `mapstructure:"provider"`
	GroqAPIKey   string        `mapstructure:"groq_api_key"`
	OpenAIAPIKey string        `mapstructure:"openai_api_key"`
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// APIKey returns the credential of the selected provider.
func (c LLMConfig) APIKey() string {
	switch strings.ToLower(c.Provider) {
	case "gemini":
		return c.GeminiAPIKey
	case "openai":
		return c.OpenAIAPIKey
	default:
		return c.GroqAPIKey
	}
}

// Enabled reports whether a model credential is configured.
func (c LLMConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey()) != ""
}

// StorageConfig selects where uploaded files live.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`
	UploadDir string `mapstructure:"upload_dir"`
	S3Bucket  string `mapstructure:"s3_bucket"`
	S3Region  string `mapstructure:"s3_region"`
	S3Prefix  string `mapstructure:"s3_prefix"`
}

// AuthConfig holds token and password hashing settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
	PasswordPepper     string `mapstructure:"password_pepper"`
}

// RateLimitConfig holds the global request limits.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       string        `mapstructure:"whitelist"`
	Blacklist       string        `mapstructure:"blacklist"`
}

// FetchConfig tunes job page extraction.
type FetchConfig struct {
	UseBrowser bool          `mapstructure:"use_browser"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

// ExportConfig locates the LaTeX toolchain.
type ExportConfig struct {
	LatexBinary string        `mapstructure:"latex_binary"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// envBindings maps configuration keys to environment variables.
var envBindings = map[string]string{
	"port":                        "PORT",
	"database_url":                "DATABASE_URL",
	"redis_url":                   "REDIS_URL",
	"log.json":                    "LOG_JSON",
	"log.debug":                   "LOG_DEBUG",
	"llm.provider":                "LLM_PROVIDER",
	"llm.groq_api_key":            "GROQ_API_KEY",
	"llm.openai_api_key":          "OPENAI_API_KEY",
	"llm.gemini_api_key":          "GEMINI_API_KEY",
	"llm.model":                   "LLM_MODEL",
	"llm.timeout":                 "LLM_TIMEOUT",
	"storage.backend":             "STORAGE_BACKEND",
	"storage.upload_dir":          "UPLOAD_DIR",
	"storage.s3_bucket":           "S3_BUCKET",
	"storage.s3_region":           "S3_REGION",
	"storage.s3_prefix":           "S3_PREFIX",
	"auth.jwt_secret":             "JWT_SECRET",
	"auth.jwt_expiration_hours":   "JWT_EXPIRATION_HOURS",
	"auth.bcrypt_cost":            "BCRYPT_COST",
	"auth.password_pepper":        "PASSWORD_PEPPER",
	"rate_limit.enabled":          "RATE_LIMIT_ENABLED",
	"rate_limit.default_limit":    "RATE_LIMIT_DEFAULT_LIMIT",
	"rate_limit.default_window":   "RATE_LIMIT_DEFAULT_WINDOW",
	"rate_limit.cleanup_interval": "RATE_LIMIT_CLEANUP_INTERVAL",
	"rate_limit.whitelist":        "RATE_LIMIT_WHITELIST",
	"rate_limit.blacklist":        "RATE_LIMIT_BLACKLIST",
	"fetch.use_browser":           "FETCH_USE_BROWSER",
	"fetch.cache_ttl":             "FETCH_CACHE_TTL",
	"export.latex_binary":         "LATEX_BINARY",
	"export.timeout":              "EXPORT_TIMEOUT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8000)
	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.timeout", 25*time.Second)
	v.SetDefault("storage.backend", StorageLocal)
	v.SetDefault("storage.upload_dir", "uploads")
	v.SetDefault("auth.jwt_expiration_hours", 24)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("fetch.cache_ttl", 24*time.Hour)
	v.SetDefault("export.latex_binary", "pdflatex")
	v.SetDefault("export.timeout", 30*time.Second)
}

// Load reads the configuration. path may be empty; values from the environment override the
// file, and defaults fill the rest.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port out of range: %d", c.Port)
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "groq", "openai", "gemini":
	default:
		return fmt.Errorf("config error: unsupported llm provider: %s", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config error: llm timeout must be positive")
	}

	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("config error: upload_dir is required for local storage")
		}
	case StorageS3:
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("config error: s3_bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("config error: unsupported storage backend: %s", c.Storage.Backend)
	}

	if c.RateLimit.Enabled && c.RateLimit.DefaultLimit < 1 {
		return fmt.Errorf("config error: rate_limit.default_limit must be at least 1")
	}
	return nil
}

// JWT derives the token configuration.
func (c *Config) JWT() (*JWTConfig, error) {
	return NewJWTConfig(c.Auth.JWTSecret, c.Auth.JWTExpirationHours)
}

// Password derives the password hashing configuration.
func (c *Config) Password() (*PasswordConfig, error) {
	return NewPasswordConfig(c.Auth.BcryptCost, c.Auth.PasswordPepper)
}
