package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Market struct {
		HistoryPeriod string `yaml:"history_period"`
		TrailingBars  int    `yaml:"trailing_bars"`
	} `yaml:"market"`
	Search struct {
		NumResults   int `yaml:"num_results"`
		LookbackDays int `yaml:"lookback_days"`
		MaxExcerpt   int `yaml:"max_excerpt"`
	} `yaml:"search"`
	LLM struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`

	// Credentials are overlaid from the environment at load time so that
	// nothing downstream reads ambient process state.
	ExaAPIKey    string `yaml:"-"`
	GeminiAPIKey string `yaml:"-"`
}

func (c *Config) Validate() error {
	if c.Market.HistoryPeriod == "" {
		return errors.New("market.history_period cannot be empty")
	}
	if c.Market.TrailingBars <= 0 {
		return fmt.Errorf("market.trailing_bars must be positive, got %d", c.Market.TrailingBars)
	}
	if c.Search.NumResults <= 0 {
		return fmt.Errorf("search.num_results must be positive, got %d", c.Search.NumResults)
	}
	if c.Search.LookbackDays <= 0 {
		return fmt.Errorf("search.lookback_days must be positive, got %d", c.Search.LookbackDays)
	}
	if c.Search.MaxExcerpt <= 0 {
		return fmt.Errorf("search.max_excerpt must be positive, got %d", c.Search.MaxExcerpt)
	}
	if c.LLM.Provider != "" && c.LLM.Provider != "GEMINI" && c.LLM.Provider != "NOOP" {
		return fmt.Errorf("llm.provider must be 'GEMINI' or 'NOOP', got '%s'", c.LLM.Provider)
	}
	return nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

func applyDefaults(c *Config) {
	if c.Market.HistoryPeriod == "" {
		c.Market.HistoryPeriod = "6mo"
	}
	if c.Market.TrailingBars == 0 {
		c.Market.TrailingBars = 14
	}
	if c.Search.NumResults == 0 {
		c.Search.NumResults = 5
	}
	if c.Search.LookbackDays == 0 {
		c.Search.LookbackDays = 7
	}
	if c.Search.MaxExcerpt == 0 {
		c.Search.MaxExcerpt = 1000
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-2.5-flash"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2048
	}
}

// LoadConfig reads the yaml config at path and overlays credentials from the
// environment. A missing file is not an error: defaults apply, so the tool
// runs without any config.yaml.
func LoadConfig(path string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	c.ExaAPIKey = os.Getenv("EXA_API_KEY")
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
