package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Redis     RedisConfig     `yaml:"redis" mapstructure:"redis"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port             int `yaml:"port" mapstructure:"port"`
	ReadTimeoutSecs  int `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	WriteTimeoutSecs int `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// AnthropicConfig holds Anthropic API settings for prompt parsing.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// GoogleConfig holds Google Custom Search and Places credentials.
type GoogleConfig struct {
	SearchKey     string `yaml:"search_key" mapstructure:"search_key"`
	SearchCX      string `yaml:"search_cx" mapstructure:"search_cx"`
	MapsKey       string `yaml:"maps_key" mapstructure:"maps_key"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
	PlacesBaseURL string `yaml:"places_base_url" mapstructure:"places_base_url"`
}

// JinaConfig holds Jina AI Reader and Search settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// SearchConfig configures company search.
type SearchConfig struct {
	RateLimit         float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries           int     `yaml:"retries" mapstructure:"retries"`
	DefaultMaxResults int     `yaml:"default_max_results" mapstructure:"default_max_results"`
}

// CrawlConfig configures website crawling.
type CrawlConfig struct {
	MaxPages      int      `yaml:"max_pages" mapstructure:"max_pages"`
	MaxConcurrent int      `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	TimeoutSecs   int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	CacheTTLSecs  int      `yaml:"cache_ttl_secs" mapstructure:"cache_ttl_secs"`
	ExcludePaths  []string `yaml:"exclude_paths" mapstructure:"exclude_paths"`
}

// RedisConfig configures the crawl cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// ScoringConfig configures the lead scoring engine. MaxConcurrency 0 uses
// GOMAXPROCS.
type ScoringConfig struct {
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8001)
	v.SetDefault("server.read_timeout_secs", 30)
	v.SetDefault("server.write_timeout_secs", 120)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.temperature", 0.3)
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("google.search_key", "")
	v.SetDefault("google.search_cx", "")
	v.SetDefault("google.maps_key", "")
	v.SetDefault("google.search_base_url", "https://www.googleapis.com/customsearch/v1")
	v.SetDefault("google.places_base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("jina.key", "")
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("search.rate_limit", 5.0)
	v.SetDefault("search.timeout_secs", 30)
	v.SetDefault("search.retries", 3)
	v.SetDefault("search.default_max_results", 50)
	v.SetDefault("crawl.max_pages", 10)
	v.SetDefault("crawl.max_concurrent", 5)
	v.SetDefault("crawl.timeout_secs", 30)
	v.SetDefault("crawl.cache_ttl_secs", 3600)
	v.SetDefault("crawl.exclude_paths", []string{"/blog/*", "/news/*", "/press/*"})
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("scoring.max_concurrency", 0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Modes: serve, parse,
// search, crawl, score.
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Crawl.MaxConcurrent < 1 || c.Crawl.MaxConcurrent > 50 {
		errs = append(errs, "crawl.max_concurrent must be between 1 and 50")
	}
	if c.Scoring.MaxConcurrency < 0 {
		errs = append(errs, "scoring.max_concurrency must be >= 0")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server.port must be > 0 and <= 65535, got %d", c.Server.Port))
		}
	case "parse", "score":
	case "search":
		if c.Search.RateLimit <= 0 {
			errs = append(errs, "search.rate_limit must be > 0")
		}
	case "crawl":
		if c.Crawl.MaxPages < 1 || c.Crawl.MaxPages > 50 {
			errs = append(errs, "crawl.max_pages must be between 1 and 50")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
