// Package memmap implements the Ordered Store and the Concurrency
// Envelope that owns it: the concurrent sorted map at the core of a
// tablet's write buffer.
package memmap

import (
	"github.com/google/btree"

	"lsmdb/pkg/cell"
)

// orderedStore is a sorted mapping from cell.Key to cell.Value backed by
// a B-tree. It is not internally synchronized — every access must happen
// under the owning Envelope's lock, exactly as spec.md requires ("any
// balanced ordered container ... ; the implementation must guarantee
// cursor_from followed by forward traversal visits entries in order").
type orderedStore struct {
	tree       *btree.BTree
	bytesTotal int
}

func newOrderedStore(degree int) *orderedStore {
	return &orderedStore{tree: btree.New(degree)}
}

// apply inserts or overwrites a (key, value) pair.
func (s *orderedStore) apply(key cell.Key, value cell.Value) {
	entry := cell.Entry{Key: key, Value: value}
	old := s.tree.ReplaceOrInsert(entry)
	s.bytesTotal += entry.Size()
	if old != nil {
		s.bytesTotal -= old.(cell.Entry).Size()
	}
}

// get performs an exact lookup.
func (s *orderedStore) get(key cell.Key) (cell.Value, bool) {
	item := s.tree.Get(cell.Entry{Key: key})
	if item == nil {
		return nil, false
	}
	return item.(cell.Entry).Value, true
}

// size returns the number of entries.
func (s *orderedStore) size() int {
	return s.tree.Len()
}

// memoryUsed approximates resident bytes of all keys and values plus a
// fixed per-entry structural overhead, matching the source's
// memoryUsedNM being an approximation rather than an exact accounting.
func (s *orderedStore) memoryUsed() int64 {
	const perEntryOverhead = 48 // approximate btree node/pointer overhead
	return int64(s.bytesTotal + s.tree.Len()*perEntryOverhead)
}

// ascendFrom walks entries in store order starting at pivot. If
// skipPivot is true, an entry exactly equal to pivot (if present) is
// skipped — used by the Raw Iterator to step from "the last entry
// returned" to "the next one" without re-visiting it. Walking stops as
// soon as visit returns false.
func (s *orderedStore) ascendFrom(pivot cell.Key, skipPivot bool, visit func(cell.Entry) bool) {
	s.tree.AscendGreaterOrEqual(cell.Entry{Key: pivot}, func(item btree.Item) bool {
		e := item.(cell.Entry)
		if skipPivot && e.Key.Equal(pivot) {
			return true
		}
		return visit(e)
	})
}

// first returns the smallest entry in the store, if any.
func (s *orderedStore) first() (cell.Entry, bool) {
	item := s.tree.Min()
	if item == nil {
		return cell.Entry{}, false
	}
	return item.(cell.Entry), true
}
