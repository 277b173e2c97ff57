package model

import "time"

// Config is the complete crosscheck configuration
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Trust        TrustConfig        `yaml:"trust" mapstructure:"trust"`
	Verification VerificationConfig `yaml:"verification" mapstructure:"verification"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// LLMConfig selects and configures the comparator backend
type LLMConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"` // heuristic, openai, anthropic, gemini, ollama
	Model      string `yaml:"model,omitempty" mapstructure:"model"`
	APIKey     string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// TrustDefaultKey is the entry of TrustConfig.Domains used for unknown domains
const TrustDefaultKey = "default"

// TrustConfig maps source domains to trust ranks. Higher ranks are more trusted.
type TrustConfig struct {
	Domains map[string]int `yaml:"domains" mapstructure:"domains"`
}

// VerificationConfig tunes the verification engine
type VerificationConfig struct {
	MaxSourceChars   int     `yaml:"max_source_chars" mapstructure:"max_source_chars"`
	Concurrency      int     `yaml:"concurrency" mapstructure:"concurrency"`
	OverlapThreshold float64 `yaml:"overlap_threshold" mapstructure:"overlap_threshold"`
	MinWordLength    int     `yaml:"min_word_length" mapstructure:"min_word_length"`
	AutoResolve      bool    `yaml:"auto_resolve" mapstructure:"auto_resolve"`
	FilterClaims     bool    `yaml:"filter_claims" mapstructure:"filter_claims"`
}

// CacheConfig configures comparator response caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitingConfig bounds comparator request rate per endpoint. Endpoints
// overrides the rate for individual hosts or provider names.
type RateLimitingConfig struct {
	RequestsPerSecond float64            `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int                `yaml:"burst_size" mapstructure:"burst_size"`
	Endpoints         map[string]float64 `yaml:"endpoints,omitempty" mapstructure:"endpoints"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "heuristic",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Trust: TrustConfig{
			Domains: DefaultTrustDomains(),
		},
		Verification: VerificationConfig{
			MaxSourceChars:   4000,
			Concurrency:      4,
			OverlapThreshold: 0.6,
			MinWordLength:    4,
			AutoResolve:      true,
			FilterClaims:     true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".crosscheck-cache",
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

// DefaultTrustDomains returns the built-in domain trust table
func DefaultTrustDomains() map[string]int {
	return map[string]int{
		TrustDefaultKey:    5,
		"amazon.com":       8,
		"bestbuy.com":      8,
		"homedepot.com":    8,
		"lowes.com":        7,
		"target.com":       7,
		"walmart.com":      7,
		"rei.com":          7,
		"bhphotovideo.com": 8,
		"newegg.com":       6,
		"wikipedia.org":    6,
		"ebay.com":         4,
		"etsy.com":         4,
		"aliexpress.com":   3,
		"temu.com":         2,
	}
}
