// Package config defines service configuration structures and loading hooks.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory registration queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of admission workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxQueryResults caps the result count of a candidate query when the
	// request does not set its own limit.
	MaxQueryResults int `koanf:"max_query_results"`

	// OrgWeight and ConsumerWeight blend the two goodwill components when a
	// market update does not carry explicit weights. They should sum to 1.
	OrgWeight      float64 `koanf:"org_weight"`
	ConsumerWeight float64 `koanf:"consumer_weight"`

	// ConsumerBacklashFloor substitutes for a zero backlash term so the
	// consumer goodwill product is never wiped out by a single zero.
	ConsumerBacklashFloor float64 `koanf:"consumer_backlash_floor"`

	// MomentumLookback sets how many snapshots back momentum compares
	// against. Minimum 2: a lookback of 1 would compare the latest
	// snapshot against itself.
	MomentumLookback int `koanf:"momentum_lookback"`

	// SnapshotIntervalMS controls how often the candidate repository
	// publishes aggregate snapshots.
	SnapshotIntervalMS int `koanf:"snapshot_interval_ms"`

	// ConfidenceHighMins and ConfidenceModerateMins bound forecast
	// confidence by market-data freshness.
	ConfidenceHighMins     int `koanf:"confidence_high_mins"`
	ConfidenceModerateMins int `koanf:"confidence_moderate_mins"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		QueueSize:              100_000,
		WorkerCount:            runtime.NumCPU() * 4,
		MaxQueryResults:        100,
		OrgWeight:              0.6,
		ConsumerWeight:         0.4,
		ConsumerBacklashFloor:  0.001,
		MomentumLookback:       2,
		SnapshotIntervalMS:     1000,
		ConfidenceHighMins:     15,
		ConfidenceModerateMins: 60,
	}
}
