// Package batchiter implements the Batched Iterator: a read-ahead
// wrapper over pkg/rawiter that amortizes shared-lock acquisition over
// many entries, trading write latency for scan throughput.
package batchiter

import (
	"lsmdb/pkg/cell"
	"lsmdb/pkg/config"
	"lsmdb/pkg/dberrors"
	"lsmdb/pkg/memmap"
	"lsmdb/pkg/rawiter"
)

// Iterator is a forward-only, read-ahead cursor. It owns its current Raw
// Iterator exclusively and replaces it transparently on
// concurrent-modification recovery; callers never see
// dberrors.ErrConcurrentModification. Mirrors NativeMap.ConcurrentIterator.
type Iterator struct {
	env *memmap.Envelope
	cfg config.ScanConfig

	raw *rawiter.Iterator

	buf   []cell.Entry
	index int
	end   int
}

// New constructs a Batched Iterator positioned at the first entry with
// key >= start.
func New(env *memmap.Envelope, cfg config.ScanConfig, start cell.Key) *Iterator {
	it := &Iterator{
		env: env,
		cfg: cfg,
		buf: make([]cell.Entry, 1),
	}
	_ = env.WithRLock(func() error {
		it.raw = rawiter.New(env, start)
		it.fillLocked()
		return nil
	})
	return it
}

// fillLocked refills the read-ahead buffer. Must be called with the
// Envelope's shared lock held. Doubles the buffer up to
// cfg.MaxBatchEntries on every call until saturated, and stops early
// once cumulative key+value bytes exceed cfg.ReadAheadBytes — the same
// adaptive policy as NativeMap.ConcurrentIterator.fill().
func (it *Iterator) fillLocked() {
	it.index = 0
	it.end = 0

	if len(it.buf) < it.cfg.MaxBatchEntries {
		next := len(it.buf) * 2
		if next > it.cfg.MaxBatchEntries {
			next = it.cfg.MaxBatchEntries
		}
		it.buf = make([]cell.Entry, next)
	}

	amountRead := 0
	for it.raw.HasNext() && it.end < len(it.buf) {
		e, err := it.raw.Advance()
		if err != nil {
			// HasNext just reported true; Advance cannot fail here.
			break
		}
		it.buf[it.end] = e
		it.end++
		amountRead += e.Key.Size() + e.Value.Size()
		if amountRead > it.cfg.ReadAheadBytes {
			break
		}
	}
}

// refill acquires the shared lock, runs the Raw Iterator's pre-check,
// and either fills normally or recovers from a concurrent modification:
// closes the stale Raw Iterator, reopens one at the last returned key,
// fills again, and — if the new buffer's first entry duplicates the last
// returned key — skips it (refilling once more if that empties the
// buffer), preserving the no-duplicate, no-skip scan property.
func (it *Iterator) refill() {
	_ = it.env.WithRLock(func() error {
		if err := it.raw.PreCheck(); err != nil {
			lastKey, have := it.raw.LastReturned()
			it.raw.Close()
			if have {
				it.raw = rawiter.New(it.env, lastKey)
			} else {
				it.raw = rawiter.New(it.env, cell.Key{})
			}
			it.fillLocked()
			if have && it.end > 0 && it.buf[0].Key.Equal(lastKey) {
				it.index++
				if it.index == it.end {
					it.fillLocked()
				}
			}
			return nil
		}

		it.fillLocked()
		return nil
	})
}

// HasNext reports whether another entry is available without blocking.
func (it *Iterator) HasNext() bool {
	return it.index < it.end
}

// Advance returns the next entry, refilling (and recovering from
// concurrent modification, transparently) when the buffer is exhausted.
func (it *Iterator) Advance() (cell.Entry, error) {
	if it.index == it.end {
		return cell.Entry{}, dberrors.ErrExhausted
	}

	ret := it.buf[it.index]
	it.index++

	if it.index == it.end {
		it.refill()
	}

	return ret, nil
}

// Close releases the current Raw Iterator.
func (it *Iterator) Close() {
	if it.raw != nil {
		it.raw.Close()
	}
}
