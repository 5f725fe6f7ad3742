// Package rawiter implements the Raw Iterator: a forward cursor over an
// Envelope's Ordered Store, positioned at a starting Key, carrying the
// modification-counter snapshot that detects writer interleaving.
package rawiter

import (
	"lsmdb/pkg/cell"
	"lsmdb/pkg/dberrors"
	"lsmdb/pkg/memmap"
)

// Iterator is a look-ahead-by-one cursor, mirroring NativeMap.NMIterator:
// construction seeks and buffers the first entry; Advance returns the
// buffered entry and immediately seeks the next one, so HasNext is
// always current without a second round trip through the store.
//
// New, PreCheck and Advance must be called with the owning Envelope's
// shared lock held by the caller (typically pkg/batchiter, via
// Envelope.WithRLock); Close does not need it.
type Iterator struct {
	env      *memmap.Envelope
	id       uint64
	expected uint64

	pending    cell.Entry
	hasNext    bool
	lastRow    []byte
	lastReturn cell.Key
	haveReturn bool
	closed     bool
}

// New constructs a Raw Iterator positioned at the first entry with key
// >= start. If the store is empty or start is past its last entry, the
// iterator is constructed empty (HasNext() == false). Must be called
// with the shared lock held.
func New(env *memmap.Envelope, start cell.Key) *Iterator {
	it := &Iterator{
		env:      env,
		id:       env.OpenIterator(),
		expected: env.ModCount(),
	}
	it.seekTo(start, false)
	return it
}

func (it *Iterator) seekTo(pivot cell.Key, skipPivot bool) {
	it.hasNext = false
	it.env.AscendFrom(pivot, skipPivot, func(e cell.Entry) bool {
		it.pending = e
		it.hasNext = true
		return false
	})
}

// PreCheck compares the snapshot modification counter against the
// Envelope's current one. It is the only place a stale iterator is
// detected — Advance itself never checks, so one batch of Advance calls
// made under a single shared-lock acquisition is immune to a writer
// racing in mid-batch. Must be called with the shared lock held.
func (it *Iterator) PreCheck() error {
	if it.env.ModCount() != it.expected {
		return dberrors.ErrConcurrentModification
	}
	return nil
}

// HasNext reports whether a buffered entry is available.
func (it *Iterator) HasNext() bool {
	return it.hasNext
}

// Advance returns the current entry and moves the cursor one position
// forward. Must be called with the shared lock held; callers must check
// HasNext first — calling Advance with nothing buffered is a programmer
// error (dberrors.ErrExhausted).
//
// Row compression: if the next entry's row is byte-identical to the
// previously-returned entry's row, the returned Key reuses the previous
// row buffer rather than holding a second copy of the same bytes.
func (it *Iterator) Advance() (cell.Entry, error) {
	if !it.hasNext {
		return cell.Entry{}, dberrors.ErrExhausted
	}

	ret := it.pending
	if it.lastRow != nil && ret.Key.SameRow(cell.Key{Row: it.lastRow}) {
		ret.Key.Row = it.lastRow
	}
	it.lastRow = ret.Key.Row
	it.lastReturn = ret.Key
	it.haveReturn = true

	it.seekTo(ret.Key, true)
	return ret, nil
}

// LastReturned reports the last Key returned by Advance, used by the
// Batched Iterator to reopen a Raw Iterator at the correct position
// after a concurrent-modification recovery.
func (it *Iterator) LastReturned() (cell.Key, bool) {
	return it.lastReturn, it.haveReturn
}

// Close releases the iterator's diagnostic registration. Safe to call
// more than once; safe to never call explicitly, but then the Envelope's
// open-iterator diagnostic will keep reporting it as leaked.
func (it *Iterator) Close() {
	if it.closed {
		return
	}
	it.closed = true
	it.env.CloseIterator(it.id)
}
