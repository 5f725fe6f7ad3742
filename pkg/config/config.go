// Package config holds the tunables for the tablet map core, loaded from
// YAML with the same struct-tag-plus-Default() shape the teacher's root
// config package uses.
package config

import (
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the root configuration for a tablet map Envelope.
type Config struct {
	Logger      LoggerConfig      `yaml:"logger" validate:"required"`
	Store       StoreConfig       `yaml:"store" validate:"required"`
	Scan        ScanConfig        `yaml:"scan" validate:"required"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

// LoggerConfig controls the ambient structured logger, kept in the same
// shape as the teacher's root LoggerConfig.
type LoggerConfig struct {
	Level string `yaml:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// StoreConfig sizes the Ordered Store's container and the bulk-write
// pacing that bounds writer-induced reader stalls.
type StoreConfig struct {
	// BTreeDegree is the branching factor of the underlying B-tree.
	BTreeDegree int `yaml:"btree_degree" validate:"required,min=2"`
	// BulkBatchUpdates is the number of column updates (summed via
	// Mutation.Size) processed per exclusive-lock acquisition in
	// Envelope.MutateBatch.
	BulkBatchUpdates int `yaml:"bulk_batch_updates" validate:"required,min=1"`
}

// ScanConfig sizes the Batched Iterator's read-ahead buffer and the Range
// Scan Adaptor's interrupt-polling stride.
type ScanConfig struct {
	// MaxBatchEntries is the read-ahead ring buffer's saturation size.
	MaxBatchEntries int `yaml:"max_batch_entries" validate:"required,min=1"`
	// ReadAheadBytes caps cumulative key+value bytes pulled per refill.
	ReadAheadBytes int `yaml:"read_ahead_bytes" validate:"required,min=1"`
	// InterruptCheckStride is how many Advance calls elapse between
	// interrupt-flag polls.
	InterruptCheckStride int `yaml:"interrupt_check_stride" validate:"required,min=1"`
}

// DiagnosticsConfig controls the leak-detector logging cadence.
type DiagnosticsConfig struct {
	LogIntervalSeconds int `yaml:"log_interval_seconds"`
}

// Default returns the tunables named as constants in the specification:
// MAX_BATCH=16, READ_AHEAD_BYTES=4096, INTERRUPT_CHECK_STRIDE=100, and a
// bulk-mutate pacing window of ~10 column updates per lock acquisition.
func Default() Config {
	return Config{
		Logger: LoggerConfig{
			Level: "INFO",
			JSON:  false,
		},
		Store: StoreConfig{
			BTreeDegree:      32,
			BulkBatchUpdates: 10,
		},
		Scan: ScanConfig{
			MaxBatchEntries:      16,
			ReadAheadBytes:       4096,
			InterruptCheckStride: 100,
		},
		Diagnostics: DiagnosticsConfig{
			LogIntervalSeconds: 60,
		},
	}
}

// Load reads path and unmarshals it as YAML into a Config. If path does
// not exist, it returns Default() rather than an error, mirroring the
// teacher's initConfig. Mirrors the teacher's cmd/init.go: the tunables
// (MAX_BATCH, READ_AHEAD_BYTES, ...) belong to the core, but the
// server/test process that embeds it still needs a way to load them from
// a file without this package knowing anything about CLI flags or flag
// parsing.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("config file not found, using default config", "path", path)
			return Default(), nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
