// Package config loads noxdb's CLI configuration from a JSONC file,
// following the same defaults-then-global-then-project-then-CLI
// precedence the rest of the example corpus's config layers use.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

// Config holds noxdb CLI configuration options.
type Config struct {
	DatabaseDir string `json:"database_dir"`
	PageSize    uint64 `json:"page_size,omitempty"`
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".noxdb.json"

// Default returns the default configuration: a relative "./data"
// directory and no page-size override (use the OS page size).
func Default() Config {
	return Config{DatabaseDir: "./data"}
}

// globalConfigPath returns $XDG_CONFIG_HOME/noxdb/config.json if set, or
// ~/.config/noxdb/config.json otherwise. env is checked before
// os.Getenv so tests can inject it without mutating the process
// environment.
func globalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "noxdb", "config.json")
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "noxdb", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "noxdb", "config.json")
}

// Load resolves configuration with the following precedence, highest
// last: defaults, global config, project config (.noxdb.json in
// workDir), explicit configPath (if non-empty), CLI overrides.
func Load(workDir, configPath string, cliOverrides Config, env []string) (Config, error) {
	cfg := Default()

	if path := globalConfigPath(env); path != "" {
		fileCfg, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}
		if loaded {
			cfg = merge(cfg, fileCfg)
		}
	}

	projectPath := filepath.Join(workDir, ConfigFileName)
	mustExist := false
	if configPath != "" {
		projectPath = configPath
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}
		mustExist = true
	}

	fileCfg, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}
	if loaded {
		cfg = merge(cfg, fileCfg)
	}

	if cliOverrides.DatabaseDir != "" {
		cfg.DatabaseDir = cliOverrides.DatabaseDir
	}
	if cliOverrides.PageSize != 0 {
		cfg.PageSize = cliOverrides.PageSize
	}

	return cfg, nil
}

func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}
		return Config{}, false, fmt.Errorf("read config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("invalid JSONC in %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("invalid config in %s: %w", path, err)
	}

	return cfg, true, nil
}

func merge(base, overlay Config) Config {
	if overlay.DatabaseDir != "" {
		base.DatabaseDir = overlay.DatabaseDir
	}
	if overlay.PageSize != 0 {
		base.PageSize = overlay.PageSize
	}
	return base
}
