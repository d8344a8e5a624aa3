package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	FAQ      FAQConfig      `yaml:"faq"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Auth     AuthConfig     `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// FAQConfig controls the question answering pipeline.
type FAQConfig struct {
	SimilarityThreshold float64        `yaml:"similarityThreshold"`
	EmbeddingDimension  int            `yaml:"embeddingDimension"`
	Normalization       string         `yaml:"normalization"`
	FallbackAnswer      string         `yaml:"fallbackAnswer"`
	CacheTTL            time.Duration  `yaml:"cacheTtl"`
	TopUnanswered       int            `yaml:"topUnanswered"`
	Redis               RedisConfig    `yaml:"redis"`
	Postgres            PostgresConfig `yaml:"postgres"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// EmbedderConfig contains embeddings API settings. When the API key is
// empty the service falls back to the deterministic embedder.
type EmbedderConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl"`
	Model   string `yaml:"model"`
}

// CatalogConfig controls dataset bulk loading.
type CatalogConfig struct {
	Dataset DatasetConfig `yaml:"dataset"`
}

// DatasetConfig selects where LoadDataset reads files from.
type DatasetConfig struct {
	Source    string `yaml:"source"` // "local" or "s3"
	LocalDir  string `yaml:"localDir"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// AuthConfig contains curator login settings.
type AuthConfig struct {
	JWTSecret           string        `yaml:"jwtSecret"`
	AccessTTL           time.Duration `yaml:"accessTtl"`
	CuratorUsername     string        `yaml:"curatorUsername"`
	CuratorPasswordHash string        `yaml:"curatorPasswordHash"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("FAQ_SIMILARITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.SimilarityThreshold = parsed
		}
	}
	if v := os.Getenv("FAQ_EMBEDDING_DIMENSION"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.EmbeddingDimension = parsed
		}
	}
	if v := os.Getenv("FAQ_NORMALIZATION"); v != "" {
		cfg.FAQ.Normalization = v
	}
	if v := os.Getenv("FAQ_FALLBACK_ANSWER"); v != "" {
		cfg.FAQ.FallbackAnswer = v
	}
	if v := os.Getenv("FAQ_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.FAQ.CacheTTL = parsed
		}
	}
	if v := os.Getenv("FAQ_TOP_UNANSWERED"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.TopUnanswered = parsed
		}
	}
	if v := os.Getenv("FAQ_REDIS_ENABLED"); v != "" {
		cfg.FAQ.Redis.Enabled = isTruthy(v)
	}
	if v := os.Getenv("FAQ_REDIS_ADDR"); v != "" {
		cfg.FAQ.Redis.Addr = v
	}
	if v := os.Getenv("FAQ_POSTGRES_DSN"); v != "" {
		cfg.FAQ.Postgres.DSN = v
	}
	if v := os.Getenv("FAQ_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("FAQ_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("EMBEDDER_API_KEY"); v != "" {
		cfg.Embedder.APIKey = v
	}
	if v := os.Getenv("EMBEDDER_BASE_URL"); v != "" {
		cfg.Embedder.BaseURL = v
	}
	if v := os.Getenv("EMBEDDER_MODEL"); v != "" {
		cfg.Embedder.Model = v
	}
	if v := os.Getenv("DATASET_SOURCE"); v != "" {
		cfg.Catalog.Dataset.Source = v
	}
	if v := os.Getenv("DATASET_LOCAL_DIR"); v != "" {
		cfg.Catalog.Dataset.LocalDir = v
	}
	if v := os.Getenv("DATASET_S3_ENDPOINT"); v != "" {
		cfg.Catalog.Dataset.Endpoint = v
	}
	if v := os.Getenv("DATASET_S3_ACCESS_KEY"); v != "" {
		cfg.Catalog.Dataset.AccessKey = v
	}
	if v := os.Getenv("DATASET_S3_SECRET_KEY"); v != "" {
		cfg.Catalog.Dataset.SecretKey = v
	}
	if v := os.Getenv("DATASET_S3_BUCKET"); v != "" {
		cfg.Catalog.Dataset.Bucket = v
	}
	if v := os.Getenv("DATASET_S3_REGION"); v != "" {
		cfg.Catalog.Dataset.Region = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("AUTH_ACCESS_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.AccessTTL = parsed
		}
	}
	if v := os.Getenv("AUTH_CURATOR_USERNAME"); v != "" {
		cfg.Auth.CuratorUsername = v
	}
	if v := os.Getenv("AUTH_CURATOR_PASSWORD_HASH"); v != "" {
		cfg.Auth.CuratorPasswordHash = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		FAQ: FAQConfig{
			SimilarityThreshold: 0.85,
			EmbeddingDimension:  384,
			Normalization:       "basic",
			FallbackAnswer:      "Sorry, I do not know the answer to that yet. A volunteer will review your question.",
			CacheTTL:            6 * time.Hour,
			TopUnanswered:       10,
			Redis: RedisConfig{
				Enabled: false,
				Addr:    "",
			},
			Postgres: PostgresConfig{
				DSN:      "",
				MaxConns: 4,
				MinConns: 0,
			},
		},
		Embedder: EmbedderConfig{
			Model: "text-embedding-3-small",
		},
		Catalog: CatalogConfig{
			Dataset: DatasetConfig{
				Source:   "local",
				LocalDir: "datasets",
			},
		},
		Auth: AuthConfig{
			AccessTTL:       12 * time.Hour,
			CuratorUsername: "curator",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.FAQ.SimilarityThreshold < 0 || c.FAQ.SimilarityThreshold > 1 {
		return errors.New("faq.similarityThreshold must be within [0, 1]")
	}
	if c.FAQ.EmbeddingDimension <= 0 {
		return errors.New("faq.embeddingDimension must be positive")
	}
	if c.FAQ.FallbackAnswer == "" {
		return errors.New("faq.fallbackAnswer cannot be empty")
	}
	if c.FAQ.CacheTTL < 0 {
		return errors.New("faq.cacheTtl cannot be negative")
	}
	if c.FAQ.TopUnanswered < 0 {
		return errors.New("faq.topUnanswered cannot be negative")
	}
	if c.FAQ.Redis.Enabled && strings.TrimSpace(c.FAQ.Redis.Addr) == "" {
		return errors.New("faq.redis.addr cannot be empty when redis cache is enabled")
	}
	if strings.TrimSpace(c.Embedder.APIKey) != "" && strings.TrimSpace(c.Embedder.Model) == "" {
		return errors.New("embedder.model cannot be empty when an api key is set")
	}
	switch c.Catalog.Dataset.Source {
	case "local":
	case "s3":
		if strings.TrimSpace(c.Catalog.Dataset.Endpoint) == "" {
			return errors.New("catalog.dataset.endpoint cannot be empty for the s3 source")
		}
		if strings.TrimSpace(c.Catalog.Dataset.Bucket) == "" {
			return errors.New("catalog.dataset.bucket cannot be empty for the s3 source")
		}
	default:
		return fmt.Errorf("catalog.dataset.source must be local or s3, got %q", c.Catalog.Dataset.Source)
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwtSecret cannot be empty")
	}
	if strings.TrimSpace(c.Auth.CuratorUsername) == "" {
		return errors.New("auth.curatorUsername cannot be empty")
	}
	if strings.TrimSpace(c.Auth.CuratorPasswordHash) == "" {
		return errors.New("auth.curatorPasswordHash cannot be empty")
	}
	if c.Auth.AccessTTL <= 0 {
		return errors.New("auth.accessTtl must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
