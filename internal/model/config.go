package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete termtrack configuration.
// Precedence: CLI flags > TERMTRACK_* env vars > config file > defaults.
type Config struct {
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Corpus      CorpusConfig      `yaml:"corpus" mapstructure:"corpus"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
}

// LLMConfig selects and configures the hosted model provider
type LLMConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // mistral, openai, ollama
	Model    string `yaml:"model" mapstructure:"model"`

	// APIKey is never written to config files; it comes from the provider's
	// environment variable (MISTRAL_API_KEY, OPENAI_API_KEY) or a flag.
	APIKey string `yaml:"-" mapstructure:"-"`

	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Proxy settings for providers that build their own transport
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// AnalysisConfig carries defaults applied to analysis requests
type AnalysisConfig struct {
	DefaultDomain  string   `yaml:"default_domain" mapstructure:"default_domain"`
	DefaultPeriods []string `yaml:"default_periods" mapstructure:"default_periods"`
	Bilingual      bool     `yaml:"bilingual" mapstructure:"bilingual"` // request Traditional Chinese fields
}

// CorpusConfig controls corpus input fetching for neologism detection
type CorpusConfig struct {
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls the layered analysis cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// StoreConfig controls the analysis history archive
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// ConcurrencyConfig bounds batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig paces outbound requests per host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls report output
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// ServerConfig configures the serve command
type ServerConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	LogLevel string `yaml:"log_level" mapstructure:"log_level"` // debug, info, warn, error
	LogJSON  bool   `yaml:"log_json" mapstructure:"log_json"`
}

// DefaultPeriods are the analysis periods used when the caller supplies none.
var DefaultPeriods = []string{
	"Pre-1900", "1900-1950", "1950-1980", "1980-2000",
	"2000-2010", "2010-2020", "2020-Present",
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	base := defaultBaseDir()

	return &Config{
		LLM: LLMConfig{
			Provider:  "mistral",
			Model:     "mistral-medium-latest",
			Timeout:   60,
			MaxTokens: 4000,
		},
		Analysis: AnalysisConfig{
			DefaultDomain:  "general",
			DefaultPeriods: append([]string(nil), DefaultPeriods...),
			Bilingual:      true,
		},
		Corpus: CorpusConfig{
			UserAgent:     "termtrack/0.3 (+https://github.com/digimarketingai/Terminology-Evolution-Tracker)",
			Timeout:       30 * time.Second,
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(base, "cache"),
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    filepath.Join(base, "history.db"),
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Server: ServerConfig{
			Addr:     ":7860",
			LogLevel: "info",
		},
	}
}

// defaultBaseDir is ~/.termtrack, falling back to the working directory
func defaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".termtrack"
	}
	return filepath.Join(home, ".termtrack")
}
