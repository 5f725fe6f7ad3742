package cell

import "github.com/google/btree"

// Entry pairs a Key and a Value as one node of the Ordered Store's
// B-tree. It implements btree.Item so the tree can order and search on
// Key.Compare alone.
type Entry struct {
	Key   Key
	Value Value
}

var _ btree.Item = Entry{}

// Less implements btree.Item.
func (e Entry) Less(than btree.Item) bool {
	return e.Key.Less(than.(Entry).Key)
}

// Size approximates the resident bytes of the entry.
func (e Entry) Size() int {
	return e.Key.Size() + e.Value.Size()
}
