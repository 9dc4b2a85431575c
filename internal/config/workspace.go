package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/newhook/sqwatch/internal/logging"
)

const (
	// StateDir is the directory holding config, history and logs.
	StateDir = logging.StateDir
	// ConfigFile is the name of the config file inside StateDir.
	ConfigFile = "config.toml"
	// HistoryDB is the name of the local history database inside StateDir.
	HistoryDB = "history.db"
)

// Workspace is a directory containing a .sqwatch/config.toml.
type Workspace struct {
	Root   string
	Config *Config
}

// ConfigPath returns the path of the workspace config file.
func (w *Workspace) ConfigPath() string {
	return filepath.Join(w.Root, StateDir, ConfigFile)
}

// HistoryPath returns the path of the local history database.
func (w *Workspace) HistoryPath() string {
	return filepath.Join(w.Root, StateDir, HistoryDB)
}

// Reload re-reads the config file.
func (w *Workspace) Reload() error {
	cfg, err := LoadConfig(w.ConfigPath())
	if err != nil {
		return err
	}
	w.Config = cfg
	return nil
}

// Find locates a workspace starting at dir, or the current directory when dir is empty,
// walking up until a .sqwatch/config.toml is found.
func Find(dir string) (*Workspace, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, StateDir, ConfigFile)); err == nil {
			return load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no workspace found (no %s directory); run 'sqwatch init'", StateDir)
		}
		dir = parent
	}
}

func load(root string) (*Workspace, error) {
	ws := &Workspace{Root: root}
	if err := ws.Reload(); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", ws.ConfigPath(), err)
	}
	if err := ws.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", ws.ConfigPath(), err)
	}

	if err := logging.Init(root); err != nil {
		logging.Warn("failed to initialize logging", "error", err)
	}
	return ws, nil
}

// Create writes a documented config in dir/.sqwatch and returns the workspace.
func Create(dir string, cfg *Config) (*Workspace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	stateDir := filepath.Join(abs, StateDir)
	if _, err := os.Stat(filepath.Join(stateDir, ConfigFile)); err == nil {
		return nil, fmt.Errorf("workspace already exists at %s", abs)
	}
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", stateDir, err)
	}

	ws := &Workspace{Root: abs, Config: cfg}
	if err := cfg.SaveDocumentedConfig(ws.ConfigPath()); err != nil {
		return nil, fmt.Errorf("failed to write config: %w", err)
	}
	return ws, nil
}
