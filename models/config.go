package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Limits bounds how many items each content class fetches per platform.
type Limits struct {
	Trending int `yaml:"trending"`
	Personal int `yaml:"personal"`
	Video    int `yaml:"video"`
	News     int `yaml:"news"`
	Search   int `yaml:"search"`
}

// Assistant configures the query-generation model.
type Assistant struct {
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Cookies configures the plaintext cookie-file fallback.
type Cookies struct {
	// ExtraPaths are additional directories scanned for plaintext
	// <platform>_cookies.json files, after the default search path.
	ExtraPaths []string `yaml:"extra_paths"`
}

// Search configures the context-search pipeline.
type Search struct {
	// EnrichAbstracts fetches a result page to fill in a missing
	// abstract. Off by default: it doubles the request volume.
	EnrichAbstracts bool `yaml:"enrich_abstracts"`
}

// History configures the run-history database.
type History struct {
	Path string `yaml:"path"`
}

// Dashboard configures the chart server.
type Dashboard struct {
	Port int `yaml:"port"`
}

// Config holds runtime configuration loaded from config.yaml. Every field has
// a usable default so the file is optional.
type Config struct {
	Limits    Limits    `yaml:"limits"`
	Assistant Assistant `yaml:"assistant"`
	Cookies   Cookies   `yaml:"cookies"`
	Search    Search    `yaml:"search"`
	History   History   `yaml:"history"`
	Dashboard Dashboard `yaml:"dashboard"`
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Limits: Limits{
			Trending: 10,
			Personal: 10,
			Video:    10,
			News:     10,
			Search:   5,
		},
		Assistant: Assistant{
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 10,
		},
		History:   History{Path: "feedscope.db"},
		Dashboard: Dashboard{Port: 8080},
	}
}

// LoadConfig reads a yaml config file, layering it over the defaults.
// A missing file is not an error; a malformed one is.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Assistant.TimeoutSeconds <= 0 {
		config.Assistant.TimeoutSeconds = 10
	}
	return config, nil
}
