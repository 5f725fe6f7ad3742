package diagnostics

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// LogOnInterval starts a background goroutine that logs the process-wide
// Snapshot every interval, until ctx is cancelled or the returned stop
// function is called. It is the closest Go analogue to NativeMap's JVM
// shutdown hook: Go has no destructor or shutdown-hook mechanism as
// strong as the JVM's, so periodic plus explicit-call logging replaces
// it rather than relying on a finalizer.
func LogOnInterval(ctx context.Context, logger *slog.Logger, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s := Report()
				logger.Info("tablet map allocation diagnostic",
					"live_envelopes", s.LiveEnvelopes,
					"ever_allocated", s.EverAllocated,
				)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

// LogNow logs a single Snapshot immediately, for explicit teardown call
// sites that want the final count logged without waiting for a tick.
func LogNow(logger *slog.Logger) {
	s := Report()
	if s.LiveEnvelopes > 0 {
		logger.Warn("un-closed tablet maps at teardown",
			"live_envelopes", s.LiveEnvelopes,
			"ever_allocated", s.EverAllocated,
		)
		return
	}
	logger.Debug("tablet map allocation diagnostic",
		"live_envelopes", s.LiveEnvelopes,
		"ever_allocated", s.EverAllocated,
	)
}
