// Package dberrors defines the sentinel error kinds shared across the
// tablet map core. Callers compare with errors.Is; KindOf is a convenience
// accessor for code that wants to switch on the kind rather than the
// exact sentinel.
package dberrors

import "errors"

// Kind classifies why an operation failed.
type Kind int

const (
	KindNone Kind = iota
	KindClosed
	KindNotFound
	KindExhausted
	KindConcurrentModification
	KindInterrupted
	KindUnsupported
	KindInvalidArgument
	KindInternalConsistency
)

var (
	// ErrClosed is returned by any operation on a store or envelope after
	// Close. Fatal for the caller; not retried.
	ErrClosed = errors.New("tabletmap: closed")

	// ErrNotFound is not normally surfaced as an error: Get returns a
	// (Value, false) pair. It exists for APIs that need an error return,
	// e.g. a strict lookup helper.
	ErrNotFound = errors.New("tabletmap: not found")

	// ErrExhausted is raised by Advance on an iterator that has no more
	// entries. Programmer error: callers must check HasNext/HasTop first.
	ErrExhausted = errors.New("tabletmap: iterator exhausted")

	// ErrConcurrentModification signals that a Raw Iterator's snapshot
	// modification counter disagrees with the Envelope's current one.
	// Callers of pkg/rawiter may see this; pkg/batchiter catches it
	// internally and recovers, so it never reaches pkg/scan callers.
	ErrConcurrentModification = errors.New("tabletmap: concurrent modification")

	// ErrInterrupted is returned when a scan's interrupt flag was found
	// set during Seek or Advance. Surfaced verbatim to the caller; the
	// scan is abandoned.
	ErrInterrupted = errors.New("tabletmap: interrupted")

	// ErrUnsupported marks calls that exist only for interface
	// compatibility: Adaptor.Init, and any attempt to mutate through an
	// iterator.
	ErrUnsupported = errors.New("tabletmap: unsupported")

	// ErrInvalidArgument marks a malformed range or a non-empty column
	// family filter passed to Seek.
	ErrInvalidArgument = errors.New("tabletmap: invalid argument")

	// ErrInternalConsistency marks a bug in the core itself — e.g. a
	// duplicate allocation identity in the envelope registry. Fatal; the
	// caller should not attempt to continue.
	ErrInternalConsistency = errors.New("tabletmap: internal consistency violation")
)

var kinds = map[error]Kind{
	ErrClosed:                  KindClosed,
	ErrNotFound:                KindNotFound,
	ErrExhausted:               KindExhausted,
	ErrConcurrentModification:  KindConcurrentModification,
	ErrInterrupted:             KindInterrupted,
	ErrUnsupported:             KindUnsupported,
	ErrInvalidArgument:         KindInvalidArgument,
	ErrInternalConsistency:     KindInternalConsistency,
}

// KindOf returns the Kind that classifies err, or KindNone if err does not
// match one of this package's sentinels.
func KindOf(err error) Kind {
	for sentinel, k := range kinds {
		if errors.Is(err, sentinel) {
			return k
		}
	}
	return KindNone
}
