package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
)

func TestGeneratedConfigIsValidTOML(t *testing.T) {
	cfg := &Config{Server: ServerConfig{URL: "https://sonar.example.com", Token: "squ_abc"}}
	content := cfg.GenerateDocumentedConfig()

	var parsed map[string]interface{}
	_, err := toml.Decode(content, &parsed)
	require.NoError(t, err, "Generated config is not valid TOML:\n%s", content)

	server := parsed["server"].(map[string]interface{})
	require.Equal(t, "https://sonar.example.com", server["url"])
	require.Equal(t, "squ_abc", server["token"])
}

func TestGeneratedConfigRoundTrip(t *testing.T) {
	original := &Config{Server: ServerConfig{URL: "http://localhost:9000"}}

	var loaded Config
	_, err := toml.Decode(original.GenerateDocumentedConfig(), &loaded)
	require.NoError(t, err)

	require.Equal(t, original.Server.URL, loaded.Server.URL)
	require.Empty(t, loaded.Server.Token)
	// Commented-out options leave defaults in place.
	require.Equal(t, 3000*time.Millisecond, loaded.Polling.GetInterval())
	require.True(t, loaded.Features.HasBranchSupport())
}

func TestGeneratedConfigWithSpecialCharacters(t *testing.T) {
	cfg := &Config{Server: ServerConfig{URL: "https://host/path with \"quotes\"", Token: "a\\b\tc"}}

	var loaded Config
	_, err := toml.Decode(cfg.GenerateDocumentedConfig(), &loaded)
	require.NoError(t, err)
	require.Equal(t, cfg.Server.URL, loaded.Server.URL)
	require.Equal(t, cfg.Server.Token, loaded.Server.Token)
}

func TestDefaults(t *testing.T) {
	var cfg Config

	require.Equal(t, 30*time.Second, cfg.Server.GetTimeout())
	require.Equal(t, 3*time.Second, cfg.Polling.GetInterval())
	require.Equal(t, 30*time.Second, cfg.Polling.GetBranchStaleTime())
	require.True(t, cfg.Features.HasBranchSupport())
	require.Equal(t, 20, cfg.History.GetMaxRecent())
}

func TestExplicitValues(t *testing.T) {
	content := `
[server]
url = "https://sonar.example.com"
timeout_seconds = 5

[polling]
interval_ms = 250
branch_stale_seconds = 0

[features]
branch_support = false

[history]
max_recent = 3
`
	var cfg Config
	_, err := toml.Decode(content, &cfg)
	require.NoError(t, err)

	require.Equal(t, 5*time.Second, cfg.Server.GetTimeout())
	require.Equal(t, 250*time.Millisecond, cfg.Polling.GetInterval())
	require.Equal(t, time.Duration(0), cfg.Polling.GetBranchStaleTime())
	require.False(t, cfg.Features.HasBranchSupport())
	require.Equal(t, 3, cfg.History.GetMaxRecent())
}

func TestGetTokenPrefersEnvironment(t *testing.T) {
	s := ServerConfig{Token: "from-file"}
	require.Equal(t, "from-file", s.GetToken())

	t.Setenv(TokenEnv, "from-env")
	require.Equal(t, "from-env", s.GetToken())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https", url: "https://sonar.example.com"},
		{name: "http", url: "http://localhost:9000"},
		{name: "empty", url: "", wantErr: true},
		{name: "no scheme", url: "sonar.example.com", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{URL: tt.url}}
			if tt.wantErr {
				require.Error(t, cfg.Validate())
			} else {
				require.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestCreateAndFind(t *testing.T) {
	root := t.TempDir()
	_, err := Create(root, &Config{Server: ServerConfig{URL: "http://localhost:9000"}})
	require.NoError(t, err)

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	ws, err := Find(nested)
	require.NoError(t, err)
	require.Equal(t, root, ws.Root)
	require.Equal(t, "http://localhost:9000", ws.Config.Server.URL)
	require.Equal(t, filepath.Join(root, StateDir, HistoryDB), ws.HistoryPath())
}

func TestCreateTwiceFails(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{Server: ServerConfig{URL: "http://localhost:9000"}}
	_, err := Create(root, cfg)
	require.NoError(t, err)

	_, err = Create(root, cfg)
	require.Error(t, err)
}

func TestFindWithoutWorkspace(t *testing.T) {
	_, err := Find(t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "sqwatch init")
}
