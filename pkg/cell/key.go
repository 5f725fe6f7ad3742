// Package cell defines the key, value, and mutation types stored in a
// tablet's in-memory write buffer.
package cell

import "bytes"

// Key is an ordered, multi-attribute identifier for a single cell version.
//
// Comparison is lexicographic on Row, ColumnFamily, ColumnQualifier and
// ColumnVisibility, then numeric on Timestamp — except Timestamp sorts
// descending, so the newest version of a cell is visited first by a
// forward scan. Deleted and MutationCount never participate in ordering
// of distinct user keys; MutationCount only breaks ties between entries
// that are otherwise identical, preserving the order in which a single
// write batch applied them.
type Key struct {
	Row              []byte
	ColumnFamily     []byte
	ColumnQualifier  []byte
	ColumnVisibility []byte
	Timestamp        int64
	Deleted          bool
	MutationCount    uint32
}

// Compare returns <0, 0, or >0 as k sorts before, equal to, or after other.
func (k Key) Compare(other Key) int {
	if c := bytes.Compare(k.Row, other.Row); c != 0 {
		return c
	}
	if c := bytes.Compare(k.ColumnFamily, other.ColumnFamily); c != 0 {
		return c
	}
	if c := bytes.Compare(k.ColumnQualifier, other.ColumnQualifier); c != 0 {
		return c
	}
	if c := bytes.Compare(k.ColumnVisibility, other.ColumnVisibility); c != 0 {
		return c
	}
	// Descending timestamp: the later timestamp sorts first.
	if k.Timestamp != other.Timestamp {
		if k.Timestamp > other.Timestamp {
			return -1
		}
		return 1
	}
	if k.MutationCount != other.MutationCount {
		if k.MutationCount < other.MutationCount {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether k sorts strictly before other. It mirrors
// Item.Less from the teacher's memtable package, applied to the full
// seven-field tuple instead of a single byte slice.
func (k Key) Less(other Key) bool {
	return k.Compare(other) < 0
}

// Equal reports whether k and other are identical on all seven fields.
func (k Key) Equal(other Key) bool {
	return k.Timestamp == other.Timestamp &&
		k.Deleted == other.Deleted &&
		k.MutationCount == other.MutationCount &&
		bytes.Equal(k.Row, other.Row) &&
		bytes.Equal(k.ColumnFamily, other.ColumnFamily) &&
		bytes.Equal(k.ColumnQualifier, other.ColumnQualifier) &&
		bytes.Equal(k.ColumnVisibility, other.ColumnVisibility)
}

// SameRow reports whether k and other share byte-equal row bytes. Used by
// the Raw Iterator to decide whether it can reuse the previous row buffer
// instead of holding a second copy of the same bytes.
func (k Key) SameRow(other Key) bool {
	return bytes.Equal(k.Row, other.Row)
}

// Size approximates the resident bytes of k, used for memory accounting
// and for the Batched Iterator's read-ahead byte cap.
func (k Key) Size() int {
	const fixedOverhead = 8 /* timestamp */ + 4 /* mutation count */ + 1 /* deleted */
	return len(k.Row) + len(k.ColumnFamily) + len(k.ColumnQualifier) + len(k.ColumnVisibility) + fixedOverhead
}
