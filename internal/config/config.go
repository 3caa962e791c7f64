package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Export formats
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// TokenEnv overrides the token stored in the config file
const TokenEnv = "NOTION_TOKEN"

// Config represents the notionmd configuration
type Config struct {
	Token      string        `json:"token"`
	BaseURL    string        `json:"base_url"`
	APIVersion string        `json:"api_version"`
	OutputDir  string        `json:"output_dir"`
	LogFile    string        `json:"log_file"`
	Interval   time.Duration `json:"-"` // Custom JSON handling below
	Timeout    time.Duration `json:"-"`
	Pages      []string      `json:"pages,omitempty"`
	Format     string        `json:"format,omitempty"`
	Indent     int           `json:"indent"`
	Links      bool          `json:"links"`
}

// rawConfig is the on-disk form, with durations as strings
type rawConfig struct {
	Token      string   `json:"token,omitempty"`
	BaseURL    string   `json:"base_url"`
	APIVersion string   `json:"api_version"`
	OutputDir  string   `json:"output_dir"`
	LogFile    string   `json:"log_file"`
	Interval   string   `json:"interval"`
	Timeout    string   `json:"timeout,omitempty"`
	Pages      []string `json:"pages,omitempty"`
	Format     string   `json:"format,omitempty"`
	Indent     *int     `json:"indent,omitempty"`
	Links      *bool    `json:"links,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		BaseURL:    "https://api.notion.com/v1",
		APIVersion: "2022-06-28",
		OutputDir:  filepath.Join(home, "Documents", "notion-export"),
		LogFile:    "/tmp/notionmd.log",
		Interval:   5 * time.Minute,
		Timeout:    30 * time.Second,
		Pages:      []string{},
		Format:     FormatMarkdown,
		Indent:     4,
		Links:      true,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(xdg.ConfigHome, "notionmd", "config.json")
	}
	return filepath.Join(home, ".config", "notionmd", "config.json")
}

// StateFilePath returns the path to the state file
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, "notionmd", "state.json")
}

// Load reads configuration from the config directory. A missing file yields
// the defaults. The token environment variable wins over the file.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	if token := os.Getenv(TokenEnv); token != "" {
		cfg.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

func load() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Token = raw.Token
	if raw.BaseURL != "" {
		cfg.BaseURL = raw.BaseURL
	}
	if raw.APIVersion != "" {
		cfg.APIVersion = raw.APIVersion
	}
	if raw.OutputDir != "" {
		cfg.OutputDir = raw.OutputDir
	}
	if raw.LogFile != "" {
		cfg.LogFile = raw.LogFile
	}
	if raw.Format != "" {
		cfg.Format = raw.Format
	}
	if raw.Pages != nil {
		cfg.Pages = raw.Pages
	}
	if raw.Indent != nil {
		cfg.Indent = *raw.Indent
	}
	if raw.Links != nil {
		cfg.Links = *raw.Links
	}

	if raw.Interval != "" {
		cfg.Interval, err = time.ParseDuration(raw.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
		}
	}
	if raw.Timeout != "" {
		cfg.Timeout, err = time.ParseDuration(raw.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format '%s': %w", raw.Timeout, err)
		}
	}

	return cfg, nil
}

// Save writes configuration to the config directory
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	indent, links := c.Indent, c.Links
	raw := rawConfig{
		Token:      c.Token,
		BaseURL:    c.BaseURL,
		APIVersion: c.APIVersion,
		OutputDir:  c.OutputDir,
		LogFile:    c.LogFile,
		Interval:   c.Interval.String(),
		Timeout:    c.Timeout.String(),
		Pages:      c.Pages,
		Format:     c.Format,
		Indent:     &indent,
		Links:      &links,
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold the API token
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url cannot be empty")
	}
	if c.APIVersion == "" {
		return fmt.Errorf("api_version cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Indent < 0 {
		return fmt.Errorf("indent cannot be negative")
	}

	validFormats := map[string]bool{
		FormatMarkdown: true,
		FormatHTML:     true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format '%s': must be one of: markdown, html", c.Format)
	}

	return nil
}

// RequireToken reports an error when no API token is configured
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return fmt.Errorf("no API token: set %s or add \"token\" to %s", TokenEnv, ConfigPath())
	}
	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.OutputDir, err = expandPath(c.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to expand output_dir: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
