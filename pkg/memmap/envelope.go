package memmap

import (
	"sync"
	"sync/atomic"

	"lsmdb/pkg/cell"
	"lsmdb/pkg/clock"
	"lsmdb/pkg/config"
	"lsmdb/pkg/dberrors"
	"lsmdb/pkg/metrics"
)

// Envelope owns one Ordered Store, its reader/writer lock, its
// modification counter, and its Live/Closed lifecycle state. It is the
// Concurrency Envelope of spec.md §4.6: put/mutate/close take the
// exclusive lock, get/size/memoryUsed/iterator-construction take the
// shared lock.
type Envelope struct {
	id  uint64
	cfg config.Config
	met metrics.Collector

	mu       sync.RWMutex
	store    *orderedStore
	modCount clock.AtomicClock
	closed   atomic.Bool

	iters *iteratorRegistry
}

// New constructs an empty, Live Envelope and registers it in the
// process-wide allocation registry.
func New(cfg config.Config, met metrics.Collector) *Envelope {
	if met == nil {
		met = metrics.Noop{}
	}
	e := &Envelope{
		id:    registerEnvelope(),
		cfg:   cfg,
		met:   met,
		store: newOrderedStore(cfg.Store.BTreeDegree),
		iters: newIteratorRegistry(),
	}
	e.met.SetGauge("memmap_live_envelopes", nil, float64(LiveEnvelopeCount()))
	return e
}

// ID returns the allocation identity assigned to this Envelope.
func (e *Envelope) ID() uint64 { return e.id }

// Config returns the tunables this Envelope was constructed with.
func (e *Envelope) Config() config.Config { return e.cfg }

func (e *Envelope) checkOpen() error {
	if e.closed.Load() {
		return dberrors.ErrClosed
	}
	return nil
}

// Put inserts a single fully-formed (Key, Value) pair directly, bypassing
// Mutation bookkeeping. This is the single-key write path NativeMap.put
// exposes alongside mutate/mutate(list): used by callers — e.g. a
// write-ahead-log replayer — that already have an exact Key (including
// its MutationCount) and don't need per-row atomic multi-column updates.
func (e *Envelope) Put(key cell.Key, value cell.Value) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkOpen(); err != nil {
		return err
	}
	e.modCount.Next()
	e.store.apply(key, value)
	e.met.IncCounter("memmap_puts", nil, 1)
	return nil
}

// Mutate applies one Mutation atomically: every column update becomes
// visible at a single modification-counter increment, so no reader ever
// observes some but not all of its updates.
func (e *Envelope) Mutate(m cell.Mutation, mutationCount uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkOpen(); err != nil {
		return err
	}
	e.modCount.Next()
	applyMutation(e.store, m, mutationCount)
	e.met.IncCounter("memmap_mutations", nil, 1)
	e.met.ObserveHistogram("memmap_mutation_size", nil, float64(m.Size()))
	return nil
}

// MutateBatch applies a list of Mutations, assigning each one the next
// mutation_count starting at startCount. To bound lock-hold time, the
// exclusive lock is released and reacquired roughly every
// cfg.Store.BulkBatchUpdates column updates (summed across the
// Mutations processed since the last acquisition); each reacquisition is
// one externally-visible write event.
func (e *Envelope) MutateBatch(muts []cell.Mutation, startCount uint32) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	threshold := e.cfg.Store.BulkBatchUpdates
	if threshold <= 0 {
		threshold = 10
	}

	mutationCount := startCount
	i := 0
	for i < len(muts) {
		if err := func() error {
			e.mu.Lock()
			defer e.mu.Unlock()
			if err := e.checkOpen(); err != nil {
				return err
			}
			e.modCount.Next()

			count := 0
			for i < len(muts) && count < threshold {
				applyMutation(e.store, muts[i], mutationCount)
				mutationCount++
				count += muts[i].Size()
				i++
			}
			return nil
		}(); err != nil {
			return err
		}
	}
	e.met.IncCounter("memmap_bulk_mutations", nil, float64(len(muts)))
	return nil
}

// applyMutation implements the single-update fast path and the
// multi-update path of spec.md §4.2: a Mutation with one column update
// is applied as one (Key, Value) pair; a Mutation with N updates is
// applied as N entries, all sharing the Mutation's row bytes by
// reference and the same caller-supplied mutationCount.
func applyMutation(s *orderedStore, m cell.Mutation, mutationCount uint32) {
	row := m.Row
	for _, u := range m.Updates {
		key := cell.Key{
			Row:              row,
			ColumnFamily:     u.ColumnFamily,
			ColumnQualifier:  u.ColumnQualifier,
			ColumnVisibility: u.ColumnVisibility,
			Timestamp:        u.Timestamp,
			Deleted:          u.Deleted,
			MutationCount:    mutationCount,
		}
		s.apply(key, u.Value)
	}
}

// Get performs an exact lookup.
func (e *Envelope) Get(key cell.Key) (cell.Value, bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.checkOpen(); err != nil {
		return nil, false, err
	}
	v, ok := e.store.get(key)
	e.met.IncCounter("memmap_gets", nil, 1)
	return v, ok, nil
}

// Size returns the number of entries in the Ordered Store.
func (e *Envelope) Size() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.checkOpen(); err != nil {
		return 0, err
	}
	return e.store.size(), nil
}

// MemoryUsed approximates resident bytes of the Ordered Store.
func (e *Envelope) MemoryUsed() (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.checkOpen(); err != nil {
		return 0, err
	}
	return e.store.memoryUsed(), nil
}

// ModCount returns the current modification counter value. Per spec.md
// §5 it is "observed only under a lock" — callers that need a consistent
// read alongside a cursor position call this while already holding
// RLock/Lock via WithRLock/WithLock.
func (e *Envelope) ModCount() uint64 {
	return e.modCount.Val()
}

// WithRLock runs fn with the shared lock held, for callers (pkg/rawiter,
// pkg/batchiter) that must take a consistent (cursor position, mod
// counter) snapshot or perform a batch of reads under one acquisition.
func (e *Envelope) WithRLock(fn func() error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.checkOpen(); err != nil {
		return err
	}
	return fn()
}

// AscendFrom walks entries in store order starting at pivot, skipping an
// entry exactly equal to pivot when skipPivot is true. Must be called
// with the shared lock held (i.e. from within WithRLock).
func (e *Envelope) AscendFrom(pivot cell.Key, skipPivot bool, visit func(cell.Entry) bool) {
	e.store.ascendFrom(pivot, skipPivot, visit)
}

// First returns the smallest entry in the store, if any. Must be called
// with the shared lock held.
func (e *Envelope) First() (cell.Entry, bool) {
	return e.store.first()
}

// OpenIterator registers a new iterator handle against this Envelope's
// diagnostic registry and returns its id.
func (e *Envelope) OpenIterator() uint64 {
	return e.iters.open_()
}

// CloseIterator removes an iterator handle from the diagnostic registry.
func (e *Envelope) CloseIterator(id uint64) {
	e.iters.close_(id)
}

// OpenIteratorCount reports how many iterator handles are currently
// registered as open against this Envelope.
func (e *Envelope) OpenIteratorCount() int {
	return e.iters.count()
}

// Close transitions the Envelope to Closed. Every subsequent operation
// except Close itself fails with dberrors.ErrClosed. Close is idempotent.
func (e *Envelope) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed.Swap(true) {
		return nil
	}
	unregisterEnvelope(e.id)
	e.met.SetGauge("memmap_live_envelopes", nil, float64(LiveEnvelopeCount()))
	return nil
}
