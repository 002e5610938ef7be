package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mkrantz/tessella/pkg/theme"
	"github.com/natefinch/atomic"
)

// ServerConfig holds the configuration for the HTTP servers and the theme
// being previewed.
type ServerConfig struct {
	ServerAddr   string `json:"server_addr"`
	ApiAddr      string `json:"api_addr"`
	LogLevel     string `json:"log_level"`
	ThemeDir     string `json:"theme_dir"`
	DatabasePath string `json:"database_path"`
	SiteDataPath string `json:"site_data_path"`

	// ApiToken guards the management API. An empty token leaves the API
	// open, which is the expected mode on a local dev machine.
	ApiToken string `json:"api_token"`

	// Routes maps request paths to theme-root-relative template paths.
	Routes map[string]string `json:"routes"`

	// NotFoundTemplate is rendered with a 404 status for any request that
	// matches neither a route nor a theme asset.
	NotFoundTemplate string `json:"not_found_template"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server *ServerConfig `json:"server_config"`
	Engine *theme.Config `json:"engine_config"`
}

// DefaultServerConfig creates a server configuration with default values.
// The default route table mirrors the stock theme's page set.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ServerAddr:   ":8080",
		ApiAddr:      ":8081",
		LogLevel:     "info",
		ThemeDir:     "./themes/rustpress-enterprise",
		DatabasePath: "./tessella.db?_journal_mode=WAL&_busy_timeout=5000",
		SiteDataPath: "./site.yaml",
		ApiToken:     "",
		Routes: map[string]string{
			"/":                    "templates/front-page.html",
			"/home":                "templates/front-page.html",
			"/features":            "templates/features.html",
			"/pricing":             "templates/pricing.html",
			"/about":               "templates/about.html",
			"/docs":                "templates/docs.html",
			"/download":            "templates/download.html",
			"/themes":              "templates/themes.html",
			"/plugins":             "templates/plugins.html",
			"/ide":                 "templates/ide.html",
			"/roadmap":             "templates/roadmap.html",
			"/checkout":            "templates/checkout.html",
			"/thank-you":           "templates/thank-you.html",
			"/404":                 "templates/404.html",
			"/admin":               "templates/admin-preview.html",
			"/dashboard":           "templates/admin-preview.html",
			"/dashboard/profile":   "templates/admin-preview.html",
			"/dashboard/themes":    "templates/admin-preview.html",
			"/dashboard/posts/new": "templates/admin-preview.html",
		},
		NotFoundTemplate: "templates/404.html",
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		Server: DefaultServerConfig(),
		Engine: theme.DefaultConfig(),
	}

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Log a warning instead of failing, as the server can still run with defaults.
				fmt.Printf("warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig writes the configuration back to disk atomically.
func SaveConfig(path string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// defaultSiteData is the mock data written on first run so the stock theme
// renders out of the box.
const defaultSiteData = `# Mock site data for theme previews. Nested keys are flattened into
# dotted placeholders, e.g. {{ site.name }}.
site:
  name: RustPress
  tagline: Modern CMS Built with Rust
  url: http://localhost:8080
  year: "2026"
  stripe_public_key: pk_test_demo
  description: The modern, blazingly fast CMS built with Rust
page:
  title: RustPress
  description: Modern CMS Built with Rust
`

// loadSiteData reads the YAML site data file, creating it with defaults when
// it doesn't exist yet.
func loadSiteData(path string) (theme.Context, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err = atomic.WriteFile(path, bytes.NewReader([]byte(defaultSiteData))); err != nil {
			return nil, fmt.Errorf("failed to write default site data file: %w", err)
		}
	}
	return theme.LoadSiteData(path)
}
