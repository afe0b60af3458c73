// Package config loads NovaNews settings from defaults, an optional .env file,
// an optional YAML file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Model settings
	GeminiAPIKey       string
	GeminiModel        string
	SummaryTemperature float32
	SummaryMaxChars    int // input is clipped to this many characters before the model call
	SummaryCacheSize   int

	// Feed settings
	FeedBaseURL  string
	FeedLanguage string // hl
	FeedCountry  string // gl
	FeedCEID     string // ceid
	FeedTimeout  time.Duration

	// Image settings
	ImageTimeout   time.Duration
	ImageCacheSize int
	UserAgent      string

	// Presentation settings
	MaxKeywordLength int
	MaxArticles      int
	DefaultArticles  int
	Theme            string // "light" or "dark"
	HTTPAddr         string

	// App settings
	Debug     bool
	LogFormat string
}

// FileConfig is the YAML overlay read from NOVANEWS_CONFIG.
//
//	feed:
//	  base_url: https://news.google.com/rss/search
//	  language: en-IN
//	  country: IN
//	  ceid: IN:en
//	limits:
//	  max_articles: 10
type FileConfig struct {
	Feed struct {
		BaseURL  string `yaml:"base_url"`
		Language string `yaml:"language"`
		Country  string `yaml:"country"`
		CEID     string `yaml:"ceid"`
	} `yaml:"feed"`
	Limits struct {
		MaxKeywordLength int `yaml:"max_keyword_length"`
		MaxArticles      int `yaml:"max_articles"`
		DefaultArticles  int `yaml:"default_articles"`
	} `yaml:"limits"`
	Summary struct {
		Model       string   `yaml:"model"`
		Temperature *float32 `yaml:"temperature"`
		MaxChars    int      `yaml:"max_chars"`
		CacheSize   int      `yaml:"cache_size"`
	} `yaml:"summary"`
	Theme string `yaml:"theme"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		GeminiModel:        "gemini-1.5-flash",
		SummaryTemperature: 0.3,
		SummaryMaxChars:    3000,
		SummaryCacheSize:   100,
		FeedBaseURL:        "https://news.google.com/rss/search",
		FeedLanguage:       "en-IN",
		FeedCountry:        "IN",
		FeedCEID:           "IN:en",
		FeedTimeout:        15 * time.Second,
		ImageTimeout:       5 * time.Second,
		ImageCacheSize:     256,
		UserAgent:          "Mozilla/5.0",
		MaxKeywordLength:   50,
		MaxArticles:        10,
		DefaultArticles:    3,
		Theme:              "light",
		HTTPAddr:           ":8080",
		LogFormat:          "text",
	}
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("NOVANEWS_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	return cfg, cfg.Validate()
}

// LoadFile overlays non-zero values from a YAML file onto c.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	var fc FileConfig
	if err := yaml.NewDecoder(f).Decode(&fc); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	setString(&c.FeedBaseURL, fc.Feed.BaseURL)
	setString(&c.FeedLanguage, fc.Feed.Language)
	setString(&c.FeedCountry, fc.Feed.Country)
	setString(&c.FeedCEID, fc.Feed.CEID)
	setString(&c.GeminiModel, fc.Summary.Model)
	setString(&c.Theme, fc.Theme)
	setPositive(&c.MaxKeywordLength, fc.Limits.MaxKeywordLength)
	setPositive(&c.MaxArticles, fc.Limits.MaxArticles)
	setPositive(&c.DefaultArticles, fc.Limits.DefaultArticles)
	setPositive(&c.SummaryMaxChars, fc.Summary.MaxChars)
	setPositive(&c.SummaryCacheSize, fc.Summary.CacheSize)
	if fc.Summary.Temperature != nil {
		c.SummaryTemperature = *fc.Summary.Temperature
	}
	return nil
}

func (c *Config) applyEnv() {
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.GeminiModel = getEnvOrDefault("GEMINI_MODEL", c.GeminiModel)
	c.FeedBaseURL = getEnvOrDefault("FEED_BASE_URL", c.FeedBaseURL)
	c.FeedLanguage = getEnvOrDefault("FEED_LANGUAGE", c.FeedLanguage)
	c.FeedCountry = getEnvOrDefault("FEED_COUNTRY", c.FeedCountry)
	c.FeedCEID = getEnvOrDefault("FEED_CEID", c.FeedCEID)
	c.UserAgent = getEnvOrDefault("USER_AGENT", c.UserAgent)
	c.Theme = getEnvOrDefault("THEME", c.Theme)
	c.HTTPAddr = getEnvOrDefault("HTTP_ADDR", c.HTTPAddr)
	c.LogFormat = getEnvOrDefault("LOG_FORMAT", c.LogFormat)

	c.SummaryMaxChars = getEnvIntOrDefault("SUMMARY_MAX_CHARS", c.SummaryMaxChars)
	c.SummaryCacheSize = getEnvIntOrDefault("SUMMARY_CACHE_SIZE", c.SummaryCacheSize)
	c.ImageCacheSize = getEnvIntOrDefault("IMAGE_CACHE_SIZE", c.ImageCacheSize)
	c.MaxKeywordLength = getEnvIntOrDefault("MAX_KEYWORD_LENGTH", c.MaxKeywordLength)
	c.MaxArticles = getEnvIntOrDefault("MAX_ARTICLES", c.MaxArticles)
	c.DefaultArticles = getEnvIntOrDefault("DEFAULT_ARTICLES", c.DefaultArticles)

	c.FeedTimeout = getEnvDurationOrDefault("FEED_TIMEOUT", c.FeedTimeout)
	c.ImageTimeout = getEnvDurationOrDefault("IMAGE_TIMEOUT", c.ImageTimeout)

	if v := os.Getenv("SUMMARY_TEMPERATURE"); v != "" {
		if val, err := strconv.ParseFloat(v, 32); err == nil {
			c.SummaryTemperature = float32(val)
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		c.Debug = true
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func (c *Config) Validate() error {
	if c.FeedBaseURL == "" {
		return errors.New("FEED_BASE_URL is required")
	}
	if c.SummaryTemperature < 0 || c.SummaryTemperature > 2 {
		return fmt.Errorf("SUMMARY_TEMPERATURE must be within [0, 2], got %v", c.SummaryTemperature)
	}
	if c.DefaultArticles > c.MaxArticles {
		return fmt.Errorf("DEFAULT_ARTICLES (%d) exceeds MAX_ARTICLES (%d)", c.DefaultArticles, c.MaxArticles)
	}
	if c.Theme != "light" && c.Theme != "dark" {
		return errors.New("THEME must be 'light' or 'dark'")
	}
	return nil
}
