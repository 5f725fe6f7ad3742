package cell

// ColumnUpdate is one column write within a Mutation: a new version of
// (ColumnFamily, ColumnQualifier, ColumnVisibility) at Timestamp, either
// an ordinary value write or a tombstone when Deleted is set.
type ColumnUpdate struct {
	ColumnFamily     []byte
	ColumnQualifier  []byte
	ColumnVisibility []byte
	Timestamp        int64
	Deleted          bool
	Value            Value
}

// Mutation is a row plus an ordered list of column updates applied
// atomically to that row: no reader observes some but not all of a
// Mutation's updates. Generalizes the teacher's batch.WriteBatch
// (Put/Delete/Count) into an ordered, per-row update list.
type Mutation struct {
	Row     []byte
	Updates []ColumnUpdate
}

// Size returns the number of column updates, used by bulk-apply pacing
// to decide when ~10 updates' worth of work has been done under one
// exclusive-lock acquisition.
func (m Mutation) Size() int {
	return len(m.Updates)
}

// Put appends an ordinary column update to the mutation.
func (m *Mutation) Put(cf, cq, cv []byte, ts int64, value Value) {
	m.Updates = append(m.Updates, ColumnUpdate{
		ColumnFamily:     cf,
		ColumnQualifier:  cq,
		ColumnVisibility: cv,
		Timestamp:        ts,
		Value:            value,
	})
}

// PutDelete appends a tombstone column update to the mutation.
func (m *Mutation) PutDelete(cf, cq, cv []byte, ts int64) {
	m.Updates = append(m.Updates, ColumnUpdate{
		ColumnFamily:     cf,
		ColumnQualifier:  cq,
		ColumnVisibility: cv,
		Timestamp:        ts,
		Deleted:          true,
	})
}
