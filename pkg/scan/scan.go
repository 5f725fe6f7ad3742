// Package scan implements the Range Scan Adaptor: the range-bounded,
// interruptible, seekable scan interface consumed by a merging reader
// above the tablet map core.
package scan

import (
	"math"
	"sync/atomic"

	"lsmdb/pkg/batchiter"
	"lsmdb/pkg/cell"
	"lsmdb/pkg/config"
	"lsmdb/pkg/dberrors"
	"lsmdb/pkg/memmap"
)

// Range bounds a scan. A nil Start means "from the first key in the
// store"; a nil End means "to the last key". StartInclusive/EndInclusive
// control whether the respective bound itself is included.
type Range struct {
	Start          *cell.Key
	End            *cell.Key
	StartInclusive bool
	EndInclusive   bool
}

func (r Range) beforeStart(k cell.Key) bool {
	if r.Start == nil {
		return false
	}
	c := k.Compare(*r.Start)
	if r.StartInclusive {
		return c < 0
	}
	return c <= 0
}

func (r Range) afterEnd(k cell.Key) bool {
	if r.End == nil {
		return false
	}
	c := k.Compare(*r.End)
	if r.EndInclusive {
		return c > 0
	}
	return c >= 0
}

// Adaptor presents seek/top/advance/deep-copy/interrupt semantics over an
// Envelope, layered on top of a Batched Iterator. Mirrors
// NativeMap.NMSKVIter.
type Adaptor struct {
	env *memmap.Envelope
	cfg config.ScanConfig

	iter   *batchiter.Iterator
	entry  cell.Entry
	hasTop bool

	rng Range

	interruptFlag  *atomic.Bool
	interruptCount int
}

// NewAdaptor constructs an Adaptor with no initial range positioned — a
// caller must Seek before HasTop is meaningful. Mirrors the no-arg
// NativeMap.skvIterator() constructor.
func NewAdaptor(env *memmap.Envelope) *Adaptor {
	return &Adaptor{env: env, cfg: env.Config().Scan}
}

// DeepCopy produces an independent scan over the same Envelope, sharing
// the same interrupt flag.
func (a *Adaptor) DeepCopy() *Adaptor {
	return &Adaptor{
		env:           a.env,
		cfg:           a.cfg,
		interruptFlag: a.interruptFlag,
	}
}

// SetInterruptFlag attaches (or replaces) the shared interrupt signal.
func (a *Adaptor) SetInterruptFlag(flag *atomic.Bool) {
	a.interruptFlag = flag
}

func (a *Adaptor) interrupted() bool {
	return a.interruptFlag != nil && a.interruptFlag.Load()
}

// Init exists only for interface compatibility with a layered
// SortedKeyValueIterator-style stack; this core is always a leaf source.
func (a *Adaptor) Init() error {
	return dberrors.ErrUnsupported
}

// Seek (re)positions the scan. columnFamilyFilter is accepted only when
// empty and inclusive is false — a non-empty filter is rejected, since
// column-family filtering is performed by a merging layer above this
// core, not here.
func (a *Adaptor) Seek(rng Range, columnFamilyFilter [][]byte, inclusive bool) error {
	if len(columnFamilyFilter) != 0 || inclusive {
		return dberrors.ErrInvalidArgument
	}
	if a.interrupted() {
		return dberrors.ErrInterrupted
	}

	if a.iter != nil {
		a.iter.Close()
	}
	a.rng = rng

	// Empty byte fields with the largest timestamp is the smallest key.
	start := cell.Key{Timestamp: math.MaxInt64}
	if rng.Start != nil {
		start = *rng.Start
	}
	a.iter = batchiter.New(a.env, a.cfg, start)

	a.advanceRaw()
	for a.hasTop && a.rng.beforeStart(a.entry.Key) {
		if err := a.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// advanceRaw pulls the next entry from the Batched Iterator and applies
// the end-of-range check, without interrupt polling. Seek uses it for the
// first entry after polling once up front; Seek's skip past entries
// before the range start goes through Advance and is polled on the stride.
func (a *Adaptor) advanceRaw() {
	if a.iter.HasNext() {
		e, err := a.iter.Advance()
		if err != nil {
			a.hasTop = false
			return
		}
		a.entry = e
		a.hasTop = !a.rng.afterEnd(e.Key)
	} else {
		a.hasTop = false
	}
}

// HasTop reports whether the scan currently has a valid entry.
func (a *Adaptor) HasTop() bool {
	return a.hasTop
}

// TopKey returns the current entry's Key. Calling it without HasTop is a
// programmer error.
func (a *Adaptor) TopKey() cell.Key {
	return a.entry.Key
}

// TopValue returns the current entry's Value. Calling it without HasTop
// is a programmer error.
func (a *Adaptor) TopValue() cell.Value {
	return a.entry.Value
}

// Advance moves to the next entry within the range, clearing HasTop on
// end-of-range or end-of-store. Every INTERRUPT_CHECK_STRIDE-th call
// (starting with the first) polls the interrupt flag; checking on every
// call was demonstrably too expensive on hot paths.
func (a *Adaptor) Advance() error {
	if !a.hasTop {
		return dberrors.ErrExhausted
	}

	stride := a.cfg.InterruptCheckStride
	if stride <= 0 {
		stride = 1
	}
	if a.interruptCount%stride == 0 && a.interrupted() {
		a.interruptCount++
		return dberrors.ErrInterrupted
	}
	a.interruptCount++

	a.advanceRaw()
	return nil
}
