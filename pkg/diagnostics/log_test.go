package diagnostics

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"lsmdb/pkg/config"
	"lsmdb/pkg/memmap"
)

func TestLogNowWarnsOnLiveEnvelopes(t *testing.T) {
	env := memmap.New(config.Default(), nil)
	defer env.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogNow(logger)

	if !strings.Contains(buf.String(), "level=WARN") {
		t.Fatalf("expected a warning log line with a live envelope, got: %s", buf.String())
	}
}

func TestLogOnIntervalStopsCleanly(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := LogOnInterval(ctx, logger, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	stop()

	if !strings.Contains(buf.String(), "tablet map allocation diagnostic") {
		t.Fatalf("expected at least one logged snapshot, got: %s", buf.String())
	}
}
