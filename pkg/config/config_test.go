package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesSpecifiedTunables(t *testing.T) {
	cfg := Default()

	if cfg.Scan.MaxBatchEntries != 16 {
		t.Errorf("MaxBatchEntries = %d, want 16", cfg.Scan.MaxBatchEntries)
	}
	if cfg.Scan.ReadAheadBytes != 4096 {
		t.Errorf("ReadAheadBytes = %d, want 4096", cfg.Scan.ReadAheadBytes)
	}
	if cfg.Scan.InterruptCheckStride != 100 {
		t.Errorf("InterruptCheckStride = %d, want 100", cfg.Scan.InterruptCheckStride)
	}
	if cfg.Store.BulkBatchUpdates != 10 {
		t.Errorf("BulkBatchUpdates = %d, want 10", cfg.Store.BulkBatchUpdates)
	}
	if cfg.Store.BTreeDegree < 2 {
		t.Errorf("BTreeDegree = %d, want >= 2", cfg.Store.BTreeDegree)
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := Default()
	if cfg.Logger.Level != "INFO" {
		t.Errorf("Logger.Level = %q, want INFO", cfg.Logger.Level)
	}
	if cfg.Logger.JSON {
		t.Error("expected default logger JSON to be false")
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load(missing) = %+v, want Default()", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
logger:
  level: DEBUG
  json: true
store:
  btree_degree: 64
  bulk_batch_updates: 5
scan:
  max_batch_entries: 32
  read_ahead_bytes: 8192
  interrupt_check_stride: 50
diagnostics:
  log_interval_seconds: 30
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logger.Level != "DEBUG" || !cfg.Logger.JSON {
		t.Errorf("Logger = %+v, want DEBUG/json", cfg.Logger)
	}
	if cfg.Store.BTreeDegree != 64 || cfg.Store.BulkBatchUpdates != 5 {
		t.Errorf("Store = %+v, want {64 5}", cfg.Store)
	}
	if cfg.Scan.MaxBatchEntries != 32 || cfg.Scan.ReadAheadBytes != 8192 || cfg.Scan.InterruptCheckStride != 50 {
		t.Errorf("Scan = %+v, want {32 8192 50}", cfg.Scan)
	}
	if cfg.Diagnostics.LogIntervalSeconds != 30 {
		t.Errorf("Diagnostics.LogIntervalSeconds = %d, want 30", cfg.Diagnostics.LogIntervalSeconds)
	}
}
