package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validatePaths(&cfg); err != nil {
		return nil, err
	}
	if err := validateAnalysis(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.ProjectRoot) == "" {
		cfg.Paths.ProjectRoot = "."
	}
	if strings.TrimSpace(cfg.Paths.StateDir) == "" {
		cfg.Paths.StateDir = "data/state"
	}
	if strings.TrimSpace(cfg.Paths.DatabaseDir) == "" {
		cfg.Paths.DatabaseDir = "data/database"
	}

	if cfg.Analysis.MaxPasses == 0 {
		cfg.Analysis.MaxPasses = 5
	}
	if strings.TrimSpace(cfg.Analysis.ProjectKey) == "" {
		cfg.Analysis.ProjectKey = "default"
	}

	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{
			"migrations", "venv", ".venv", "node_modules", "__pycache__",
		}
	}
	if len(cfg.Exclude.Files) == 0 {
		cfg.Exclude.Files = []string{"test_*.py", "*_test.py", "conftest.py"}
	}

	if cfg.DB.Enabled && strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = filepath.Join(cfg.Paths.DatabaseDir, "modelcheck.db")
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescansPerSecond == 0 {
		cfg.Watch.RescansPerSecond = 1
	}
	if cfg.Watch.Burst == 0 {
		cfg.Watch.Burst = 2
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d", cfg.Version)
	}
	return nil
}

func validatePaths(cfg *Config) error {
	if cfg.Fixture.Path != "" {
		// Fixture mode needs no project root on disk.
		return nil
	}
	info, err := os.Stat(cfg.Paths.ProjectRoot)
	if err != nil {
		return fmt.Errorf("project_root %q: %w", cfg.Paths.ProjectRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project_root %q is not a directory", cfg.Paths.ProjectRoot)
	}
	return nil
}

func validateAnalysis(cfg *Config) error {
	if cfg.Analysis.MaxPasses < 1 || cfg.Analysis.MaxPasses > 100 {
		return fmt.Errorf("analysis.max_passes must be in [1, 100], got %d", cfg.Analysis.MaxPasses)
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.RescansPerSecond < 0 {
		return fmt.Errorf("watch.rescans_per_second must not be negative")
	}
	return nil
}
