package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/newthinker/elite/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Providers  ProvidersConfig  `mapstructure:"providers"`
	Resilience ResilienceConfig `mapstructure:"resilience"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Narrator   NarratorConfig   `mapstructure:"narrator"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Scan       ScanConfig       `mapstructure:"scan"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	APIKey       string        `mapstructure:"api_key"`
}

// ProvidersConfig selects the market data sources.
type ProvidersConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Yahoo   YahooConfig   `mapstructure:"yahoo"`
	Crypto  CryptoConfig  `mapstructure:"crypto"`
}

type YahooConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
}

// CryptoConfig lists crypto providers in fallback order.
type CryptoConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Providers       []string `mapstructure:"providers"`
	DefaultQuote    string   `mapstructure:"default_quote"`
	CoinGeckoAPIKey string   `mapstructure:"coingecko_api_key"`
}

// ResilienceConfig configures the per-provider rate limiter and circuit breaker.
type ResilienceConfig struct {
	RatePerSecond      float64       `mapstructure:"rate_per_second"`
	Burst              int           `mapstructure:"burst"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
}

type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// NarratorConfig holds settings for the optional prose summary.
type NarratorConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	MaxTokens int  `mapstructure:"max_tokens"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ScanConfig holds the hot-instrument universes and fan-out limit.
type ScanConfig struct {
	Concurrency int      `mapstructure:"concurrency"`
	Equities    []string `mapstructure:"equities"`
	Cryptos     []string `mapstructure:"cryptos"`
}

// Load reads configuration from file, layered over Defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.SetEnvPrefix("ELITE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// DefaultEquities is the default hot-scan equity universe.
var DefaultEquities = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX", "AMD",
	"INTC", "BABA", "TSM", "V", "JPM", "WMT", "MA", "PG", "DIS",
}

// DefaultCryptos is the default hot-scan crypto universe.
var DefaultCryptos = []string{
	"BTC", "ETH", "BNB", "SOL", "ADA", "XRP", "DOT", "DOGE", "AVAX", "LINK",
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Providers: ProvidersConfig{
			Timeout: 10 * time.Second,
			Yahoo: YahooConfig{
				Enabled: true,
			},
			Crypto: CryptoConfig{
				Enabled:      true,
				Providers:    []string{"okx", "coingecko", "binance"},
				DefaultQuote: "USDT",
			},
		},
		Resilience: ResilienceConfig{
			RatePerSecond:      5,
			Burst:              10,
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Cache: CacheConfig{
			Addr: "localhost:6379",
			TTL:  5 * time.Minute,
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "./data/archive",
		},
		Narrator: NarratorConfig{
			MaxTokens: 512,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Scan: ScanConfig{
			Concurrency: 8,
			Equities:    append([]string(nil), DefaultEquities...),
			Cryptos:     append([]string(nil), DefaultCryptos...),
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	for _, name := range c.Providers.Crypto.Providers {
		switch name {
		case "okx", "coingecko", "binance":
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown crypto provider %q", name))
		}
	}

	if c.Resilience.RatePerSecond < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("rate_per_second cannot be negative, got %f", c.Resilience.RatePerSecond))
	}
	if c.Resilience.RatePerSecond > 0 && c.Resilience.Burst < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("burst must be at least 1 when rate limiting, got %d", c.Resilience.Burst))
	}

	if c.Cache.Enabled {
		if c.Cache.Addr == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("cache addr required when cache is enabled"))
		}
		if c.Cache.TTL <= 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL))
		}
	}

	if c.Archive.Enabled {
		switch c.Archive.Type {
		case "localfs":
			if c.Archive.Path == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive path required for localfs"))
			}
		case "s3":
			if c.Archive.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive s3 bucket required for s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("archive type must be localfs or s3, got %q", c.Archive.Type))
		}
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.LLM.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
		}
	}
	if c.Narrator.Enabled && c.LLM.Provider == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("narrator requires an llm provider"))
	}

	if c.Scan.Concurrency < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("scan concurrency must be at least 1, got %d", c.Scan.Concurrency))
	}

	return nil
}
