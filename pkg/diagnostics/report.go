// Package diagnostics exposes the leak-detector and allocation counters
// the core is required to surface on process teardown (spec.md §6), both
// as a loggable snapshot and — optionally — over a small HTTP endpoint.
package diagnostics

import "lsmdb/pkg/memmap"

// Snapshot is a point-in-time read of the process-wide Envelope
// registry: the analogue of NativeMap's shutdown hook, which logs "there
// are N allocated native maps" plus the cumulative allocation count.
type Snapshot struct {
	LiveEnvelopes int    `json:"live_envelopes"`
	EverAllocated uint64 `json:"ever_allocated"`
}

// Report reads the current process-wide registry.
func Report() Snapshot {
	return Snapshot{
		LiveEnvelopes: memmap.LiveEnvelopeCount(),
		EverAllocated: memmap.EverAllocatedCount(),
	}
}

// EnvelopeSnapshot additionally reports the open-iterator count for one
// specific Envelope.
type EnvelopeSnapshot struct {
	Snapshot
	OpenIterators int `json:"open_iterators"`
}

// ReportEnvelope reads the process-wide registry plus the given
// Envelope's open-iterator diagnostic.
func ReportEnvelope(env *memmap.Envelope) EnvelopeSnapshot {
	return EnvelopeSnapshot{
		Snapshot:      Report(),
		OpenIterators: env.OpenIteratorCount(),
	}
}
