package batchiter

import (
	"fmt"
	"testing"

	fuzz "github.com/google/gofuzz"

	"lsmdb/pkg/cell"
	"lsmdb/pkg/config"
	"lsmdb/pkg/memmap"
)

// TestPropertyNoDuplicateNoSkipUnderWriterChurn cycles the read-ahead
// buffer size through 1..4 and fuzzes a set of writer-inserted rows
// sorting strictly after everything already in the store, then
// interleaves those inserts with an in-progress scan. It checks part of
// invariant 5: no key is emitted twice, and the output begins with every
// pre-scan row in order.
func TestPropertyNoDuplicateNoSkipUnderWriterChurn(t *testing.T) {
	f := fuzz.NewWithSeed(4)

	for trial := 0; trial < 20; trial++ {
		bufSize := 1 + trial%4 // exercise buffer sizes 1..4
		preCount := 5 + trial%6
		writerCount := 1 + trial%5

		env := memmap.New(config.Default(), nil)

		preRows := make([]string, preCount)
		for i := range preRows {
			preRows[i] = fmt.Sprintf("pre-%04d", i)
			if err := env.Put(cell.Key{Row: []byte(preRows[i])}, cell.Value("v")); err != nil {
				t.Fatalf("trial %d: seed Put failed: %v", trial, err)
			}
		}

		var extraSeed uint32
		f.Fuzz(&extraSeed)
		writerRows := make([]string, writerCount)
		for i := range writerRows {
			// "zz-" sorts strictly after every "pre-" row.
			writerRows[i] = fmt.Sprintf("zz-%d-%04d", extraSeed, i)
		}

		cfg := config.ScanConfig{MaxBatchEntries: bufSize, ReadAheadBytes: 4096, InterruptCheckStride: 100}
		it := New(env, cfg, cell.Key{})

		var got []string
		writerDone := false
		for it.HasNext() {
			e, err := it.Advance()
			if err != nil {
				t.Fatalf("trial %d: Advance failed: %v", trial, err)
			}
			got = append(got, string(e.Key.Row))

			if !writerDone {
				for _, r := range writerRows {
					if err := env.Put(cell.Key{Row: []byte(r)}, cell.Value("v")); err != nil {
						t.Fatalf("trial %d: writer Put failed: %v", trial, err)
					}
				}
				writerDone = true
			}
		}
		it.Close()
		env.Close()

		seen := map[string]bool{}
		for _, r := range got {
			if seen[r] {
				t.Fatalf("trial %d: row %q emitted twice: %v", trial, r, got)
			}
			seen[r] = true
		}

		for i, r := range preRows {
			if i >= len(got) || got[i] != r {
				t.Fatalf("trial %d: pre-scan prefix not preserved: got %v, want prefix %v", trial, got, preRows)
			}
		}
	}
}
