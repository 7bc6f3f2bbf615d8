package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScraperConfig holds the browser settings used by the page fetcher.
type ScraperConfig struct {
	Headless       bool   `yaml:"headless"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	BrowserBin     string `yaml:"browser_bin"` // empty means let rod find or download one
	WindowWidth    int    `yaml:"window_width"`
	WindowHeight   int    `yaml:"window_height"`
}

// Timeout returns the per-request page load budget.
func (s ScraperConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// AmazonConfig holds settings specific to Amazon product pages.
type AmazonConfig struct {
	ReadySelector string `yaml:"ready_selector"`
}

// HistoryConfig holds the location of the price history CSV.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// WindowConfig holds the desktop window settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Config is the complete structure for the config.yml file.
type Config struct {
	Scraper ScraperConfig `yaml:"scraper"`
	Amazon  AmazonConfig  `yaml:"amazon"`
	History HistoryConfig `yaml:"history"`
	Window  WindowConfig  `yaml:"window"`
}

// Default returns the configuration used when no config.yml is present.
func Default() *Config {
	return &Config{
		Scraper: ScraperConfig{
			Headless:       true,
			TimeoutSeconds: 20,
			WindowWidth:    1200,
			WindowHeight:   900,
		},
		Amazon: AmazonConfig{
			ReadySelector: "#productTitle",
		},
		History: HistoryConfig{
			Path: "data/price_history.csv",
		},
		Window: WindowConfig{
			Title:  "Amazon Price Tracker",
			Width:  760,
			Height: 620,
		},
	}
}

// LoadConfig reads the YAML file at filepath on top of the defaults.
// ${VAR} references are expanded from the environment before parsing.
// A missing file is not an error; the defaults are returned.
func LoadConfig(filepath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("Config file %s not found, using defaults", filepath)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.Scraper.TimeoutSeconds < 5 || c.Scraper.TimeoutSeconds > 120 {
		return fmt.Errorf("scraper.timeout_seconds must be between 5 and 120, got %d", c.Scraper.TimeoutSeconds)
	}
	if c.Scraper.WindowWidth < 1 || c.Scraper.WindowHeight < 1 {
		return errors.New("scraper.window_width and scraper.window_height must be >= 1")
	}
	if c.Amazon.ReadySelector == "" {
		return errors.New("amazon.ready_selector is required")
	}
	if c.History.Path == "" {
		return errors.New("history.path is required")
	}
	if c.Window.Width < 1 || c.Window.Height < 1 {
		return errors.New("window.width and window.height must be >= 1")
	}
	return nil
}
