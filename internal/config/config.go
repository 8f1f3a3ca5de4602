// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the agent configuration that can be loaded from a JSON
// file. All fields are optional; missing values are filled from environment
// variables and then from defaults.
type Config struct {
	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for the run ledger
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DisablePDF  bool   `json:"disable_pdf,omitempty"`  // Skip headless PDF printing, emit HTML only

	// Storage
	ProfilesDir   string `json:"profiles_dir,omitempty"`    // Directory of applicant profile JSON files
	OutputsDir    string `json:"outputs_dir,omitempty"`     // Directory for rendered documents
	DefaultUserID string `json:"default_user_id,omitempty"` // Profile used when routing falls through

	// Gmail
	GmailCredentials string `json:"gmail_credentials,omitempty"` // OAuth client credentials file
	GmailToken       string `json:"gmail_token,omitempty"`       // Cached OAuth token file

	// Server
	Port int `json:"port,omitempty"` // HTTP listen port
}

// Environment variable names recognized by FromEnv.
const (
	EnvAPIKey           = "GEMINI_API_KEY"
	EnvDatabaseURL      = "DATABASE_URL"
	EnvProfilesDir      = "HR_AGENT_PROFILES_DIR"
	EnvOutputsDir       = "HR_AGENT_OUTPUTS_DIR"
	EnvDefaultUser      = "HR_AGENT_DEFAULT_USER"
	EnvGmailCredentials = "GMAIL_CREDENTIALS_FILE"
	EnvGmailToken       = "GMAIL_TOKEN_FILE"
	EnvPort             = "PORT"
)

// Defaults applied after file and environment merging.
const (
	DefaultProfilesDir      = "profiles"
	DefaultOutputsDir       = "outputs"
	DefaultUserID           = "default_user"
	DefaultGmailCredentials = "credentials.json"
	DefaultGmailToken       = "token.json"
	DefaultPort             = 8080
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() *Config {
	port := 0
	if v := os.Getenv(EnvPort); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	return &Config{
		APIKey:           os.Getenv(EnvAPIKey),
		DatabaseURL:      os.Getenv(EnvDatabaseURL),
		ProfilesDir:      os.Getenv(EnvProfilesDir),
		OutputsDir:       os.Getenv(EnvOutputsDir),
		DefaultUserID:    os.Getenv(EnvDefaultUser),
		GmailCredentials: os.Getenv(EnvGmailCredentials),
		GmailToken:       os.Getenv(EnvGmailToken),
		Port:             port,
	}
}

// Merge returns a new Config with empty fields filled from fallback.
// File values win over environment values, which win over defaults.
func (c *Config) Merge(fallback *Config) *Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = fallback.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = fallback.DatabaseURL
	}
	if result.ProfilesDir == "" {
		result.ProfilesDir = fallback.ProfilesDir
	}
	if result.OutputsDir == "" {
		result.OutputsDir = fallback.OutputsDir
	}
	if result.DefaultUserID == "" {
		result.DefaultUserID = fallback.DefaultUserID
	}
	if result.GmailCredentials == "" {
		result.GmailCredentials = fallback.GmailCredentials
	}
	if result.GmailToken == "" {
		result.GmailToken = fallback.GmailToken
	}
	if result.Port == 0 {
		result.Port = fallback.Port
	}

	// Bool fields: cannot distinguish unset from false, so the file
	// value always wins and CLI flags override later.
	result.Verbose = c.Verbose || fallback.Verbose
	result.DisablePDF = c.DisablePDF || fallback.DisablePDF

	return &result
}

// ApplyDefaults fills any still-empty fields with the built-in defaults.
func (c *Config) ApplyDefaults() {
	if c.ProfilesDir == "" {
		c.ProfilesDir = DefaultProfilesDir
	}
	if c.OutputsDir == "" {
		c.OutputsDir = DefaultOutputsDir
	}
	if c.DefaultUserID == "" {
		c.DefaultUserID = DefaultUserID
	}
	if c.GmailCredentials == "" {
		c.GmailCredentials = DefaultGmailCredentials
	}
	if c.GmailToken == "" {
		c.GmailToken = DefaultGmailToken
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
}

// Resolve loads the optional config file, overlays environment values and
// defaults, and validates the result. An empty path skips file loading.
func Resolve(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg = cfg.Merge(FromEnv())
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.DefaultUserID == "" {
		return fmt.Errorf("config error: 'default_user_id' must not be empty")
	}
	return nil
}
