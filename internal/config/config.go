package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed templates/config.tmpl
var configTemplateText string

// TokenEnv overrides server.token when set.
const TokenEnv = "SQWATCH_TOKEN"

// Config represents the workspace configuration stored in .sqwatch/config.toml.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Polling  PollingConfig  `toml:"polling"`
	Features FeaturesConfig `toml:"features"`
	History  HistoryConfig  `toml:"history"`
}

// ServerConfig describes the analysis server to talk to.
type ServerConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`

	// TimeoutSeconds bounds each HTTP request. Defaults to 30 seconds.
	TimeoutSeconds *int `toml:"timeout_seconds"`
}

// GetToken returns the API token, preferring the SQWATCH_TOKEN environment variable.
func (s *ServerConfig) GetToken() string {
	if tok := os.Getenv(TokenEnv); tok != "" {
		return tok
	}
	return s.Token
}

// GetTimeout returns the per-request timeout.
// Defaults to 30 seconds when not specified.
func (s *ServerConfig) GetTimeout() time.Duration {
	if s.TimeoutSeconds != nil && *s.TimeoutSeconds > 0 {
		return time.Duration(*s.TimeoutSeconds) * time.Second
	}
	return 30 * time.Second
}

// PollingConfig contains background task polling timing.
type PollingConfig struct {
	// IntervalMS is the delay between two task status polls.
	// Defaults to 3000ms when not specified.
	IntervalMS *int `toml:"interval_ms"`

	// BranchStaleSeconds is how long a fetched branch list stays fresh.
	// Defaults to 30 seconds when not specified.
	BranchStaleSeconds *int `toml:"branch_stale_seconds"`
}

// GetInterval returns the task status polling interval.
func (p *PollingConfig) GetInterval() time.Duration {
	if p.IntervalMS != nil && *p.IntervalMS > 0 {
		return time.Duration(*p.IntervalMS) * time.Millisecond
	}
	return 3000 * time.Millisecond
}

// GetBranchStaleTime returns how long cached branch data is considered fresh.
func (p *PollingConfig) GetBranchStaleTime() time.Duration {
	if p.BranchStaleSeconds != nil && *p.BranchStaleSeconds >= 0 {
		return time.Duration(*p.BranchStaleSeconds) * time.Second
	}
	return 30 * time.Second
}

// FeaturesConfig mirrors server-side features the client adapts to.
type FeaturesConfig struct {
	// BranchSupport enables branch and pull request scoping.
	// Defaults to true when not specified.
	BranchSupport *bool `toml:"branch_support"`
}

// HasBranchSupport returns true unless branch support is explicitly disabled.
func (f *FeaturesConfig) HasBranchSupport() bool {
	if f.BranchSupport == nil {
		return true
	}
	return *f.BranchSupport
}

// HistoryConfig controls the local recently-viewed list.
type HistoryConfig struct {
	// MaxRecent caps the recently viewed list. Defaults to 20.
	MaxRecent *int `toml:"max_recent"`
}

// GetMaxRecent returns the recently viewed cap.
func (h *HistoryConfig) GetMaxRecent() int {
	if h.MaxRecent != nil && *h.MaxRecent > 0 {
		return *h.MaxRecent
	}
	return 20
}

// Validate checks the fields that have no usable default.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url is required")
	}
	if !strings.HasPrefix(c.Server.URL, "http://") && !strings.HasPrefix(c.Server.URL, "https://") {
		return fmt.Errorf("server.url must start with http:// or https://, got %q", c.Server.URL)
	}
	return nil
}

// LoadConfig reads and parses a config.toml file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// SaveDocumentedConfig writes the config with inline comments describing every option.
func (c *Config) SaveDocumentedConfig(path string) error {
	return os.WriteFile(path, []byte(c.GenerateDocumentedConfig()), 0600)
}

type configTemplateData struct {
	ServerURL string
	Token     string
}

// tomlString quotes s as a TOML basic string.
func tomlString(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}

var configTemplate = template.Must(template.New("config").Funcs(template.FuncMap{
	"tomlString": tomlString,
}).Parse(configTemplateText))

// GenerateDocumentedConfig renders config.toml with the server section filled in
// and every optional section commented out.
func (c *Config) GenerateDocumentedConfig() string {
	data := configTemplateData{
		ServerURL: c.Server.URL,
		Token:     c.Server.Token,
	}

	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, data); err != nil {
		return fmt.Sprintf("[server]\nurl = %s\n", tomlString(c.Server.URL))
	}
	return buf.String()
}
