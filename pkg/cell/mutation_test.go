package cell

import "testing"

func TestMutationPutAppendsOrdinaryUpdate(t *testing.T) {
	var m Mutation
	m.Row = []byte("row1")
	m.Put([]byte("cf"), []byte("cq"), []byte("cv"), 100, Value("v1"))

	if m.Size() != 1 {
		t.Fatalf("expected 1 update, got %d", m.Size())
	}
	u := m.Updates[0]
	if u.Deleted {
		t.Fatal("expected ordinary Put to not be a tombstone")
	}
	if string(u.Value) != "v1" {
		t.Fatalf("expected value v1, got %s", u.Value)
	}
	if u.Timestamp != 100 {
		t.Fatalf("expected timestamp 100, got %d", u.Timestamp)
	}
}

func TestMutationPutDeleteAppendsTombstone(t *testing.T) {
	var m Mutation
	m.Row = []byte("row1")
	m.PutDelete([]byte("cf"), []byte("cq"), []byte("cv"), 100)

	if m.Size() != 1 {
		t.Fatalf("expected 1 update, got %d", m.Size())
	}
	if !m.Updates[0].Deleted {
		t.Fatal("expected PutDelete to mark the update deleted")
	}
	if m.Updates[0].Value != nil {
		t.Fatalf("expected a tombstone to carry no value, got %v", m.Updates[0].Value)
	}
}

func TestMutationSizeCountsAllUpdates(t *testing.T) {
	var m Mutation
	m.Row = []byte("row1")
	for i := 0; i < 5; i++ {
		m.Put([]byte("cf"), []byte("cq"), []byte("cv"), int64(i), Value("v"))
	}
	if m.Size() != 5 {
		t.Fatalf("expected 5 updates, got %d", m.Size())
	}
}

func TestEntryLessDelegatesToKey(t *testing.T) {
	lo := Entry{Key: Key{Row: []byte("a")}}
	hi := Entry{Key: Key{Row: []byte("b")}}
	if !lo.Less(hi) {
		t.Fatal("expected Entry.Less to follow Key ordering")
	}
	if hi.Less(lo) {
		t.Fatal("expected hi.Less(lo) to be false")
	}
}
