package config

import "time"

// Config is the full TOML-backed tool configuration.
type Config struct {
	Version       int           `toml:"version"`
	Paths         Paths         `toml:"paths"`
	Analysis      Analysis      `toml:"analysis"`
	Exclude       Exclude       `toml:"exclude"`
	DB            Database      `toml:"db"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
	Fixture       Fixture       `toml:"fixture"`
}

type Paths struct {
	// ProjectRoot is the Django project to analyze.
	ProjectRoot string `toml:"project_root"`
	StateDir    string `toml:"state_dir"`
	DatabaseDir string `toml:"database_dir"`
}

type Analysis struct {
	// MaxPasses bounds the fixed-point iteration; the last pass is the
	// final iteration on which deferrals are dropped.
	MaxPasses int `toml:"max_passes"`
	// ProjectKey namespaces persisted runs.
	ProjectKey string `toml:"project_key"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Database struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// RescansPerSecond rate-limits how often file churn may trigger a
	// full re-analysis; Burst allows short bursts above the rate.
	RescansPerSecond float64 `toml:"rescans_per_second"`
	Burst            int     `toml:"burst"`
}

type Observability struct {
	// MetricsAddr serves prometheus metrics when non-empty.
	MetricsAddr string `toml:"metrics_addr"`
	// OTLPEndpoint enables trace export when non-empty (host:port).
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type Fixture struct {
	// Path points at a TOML model-set fixture used instead of source
	// introspection; mainly for offline runs and tests.
	Path string `toml:"path"`
}
