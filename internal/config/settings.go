package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// DefaultAPIBase is the public MGnify API root.
const DefaultAPIBase = "https://www.ebi.ac.uk/metagenomics/api/v1"

// Settings holds all configuration options.
type Settings struct {
	// API settings
	APIBase        string `json:"api_base"`
	UserAgent      string `json:"user_agent"`
	HTTPTimeoutSec int    `json:"http_timeout_sec"`

	// Enumerator settings
	PageSize           int `json:"page_size"`
	PageDelayMillis    int `json:"page_delay_ms"`
	MaxConcurrentPages int `json:"max_concurrent_pages"`

	// Fetcher settings
	MaxConcurrentAnalyses int `json:"max_concurrent_analyses"`

	// Output settings
	OutputRoot string `json:"output_root"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		APIBase:        DefaultAPIBase,
		UserAgent:      "mgnify-downloader",
		HTTPTimeoutSec: 60,

		PageSize:           1000,
		PageDelayMillis:    750,
		MaxConcurrentPages: 3,

		MaxConcurrentAnalyses: 3,

		OutputRoot: ".",
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// HTTPTimeout returns the configured request timeout.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSec) * time.Second
}

// PageDelay returns the pause applied after every page fetch.
func (s *Settings) PageDelay() time.Duration {
	return time.Duration(s.PageDelayMillis) * time.Millisecond
}
