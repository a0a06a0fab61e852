package ringbuffer

import (
	"fmt"

	"github.com/JoergWarthemann/ringbuffer/errors"
)

// Buffer represents a fixed-capacity circular buffer for one producer and one
// consumer goroutine. The buffer is parameterized by element type T.
//
// A Buffer is a singly-owned resource: share the one instance between the two
// goroutines, never copy it.
type Buffer[T any] interface {
	// Insert stores one element, overwriting the oldest element when the
	// buffer is full. Producer-only. Panics if the capacity is zero.
	Insert(sample T)

	// InsertBlock stores the elements of block in order, cropping to the most
	// recent Capacity() elements when the block is longer than the buffer.
	// The source is left intact. Producer-only. No-op for an empty block or a
	// zero-capacity buffer.
	InsertBlock(block []T)

	// InsertBlockOwned behaves like InsertBlock but takes ownership of the
	// consumed source elements: every source slot that was stored is zeroed
	// afterwards, releasing its references. Producer-only.
	InsertBlockOwned(block []T)

	// Copy returns the element inserted samplesBack insertions before the
	// most recent one. Copy(0) is the newest element; indices wrap with
	// period Capacity(). Returns the zero value when the buffer is empty.
	// As a consumption signal this publishes the read position even though
	// no element is removed. Consumer-only. Panics if samplesBack is
	// negative.
	Copy(samplesBack int) T

	// CopyBlock copies the oldest-to-newest run of up to len(dst) most
	// recently available elements into dst and returns the number produced,
	// min(len(dst), Size()). The buffer contents are unchanged.
	// Consumer-only.
	CopyBlock(dst []T) int

	// MoveBlock behaves like CopyBlock but transfers ownership: every
	// moved-from slot in the buffer is zeroed. Positions the move does not
	// reach keep their values. Size() is unaffected. Consumer-only.
	MoveBlock(dst []T) int

	// Reset discards every live element and zeroes all positions.
	// Producer-only; a concurrent consumer observes the buffer as empty only
	// after it truly is.
	Reset()

	// ResetCapacity discards every live element and reallocates storage with
	// the given capacity. NOT safe concurrently with any other call; callers
	// must guarantee exclusive access. Panics on a negative capacity.
	ResetCapacity(newCapacity int)

	// Capacity returns the maximum number of live elements. Safe from either
	// goroutine; the value may be stale by the time the caller acts on it.
	Capacity() int

	// Size returns the current number of live elements. Safe from either
	// goroutine; the value may be stale by the time the caller acts on it.
	Size() int

	// IsEmpty reports whether the buffer currently holds no elements.
	IsEmpty() bool

	// IsFull reports whether the buffer is at capacity.
	IsFull() bool

	// Stats returns buffer statistics (always available for observability).
	Stats() *Statistics
}

// OverwriteCallback is called with each live element displaced by an insert.
// It runs on the producer goroutine; keep it cheap.
type OverwriteCallback[T any] func(displaced T)

// New creates a single-producer/single-consumer buffer with the specified
// capacity and options. A capacity of zero yields a buffer with no usable
// slots (inserting panics); a negative capacity is rejected with a
// classified error. Stats are always collected; Prometheus metrics are
// optional via WithMetrics. Returns an error if metric registration fails.
func New[T any](capacity int, options ...Option[T]) (Buffer[T], error) {
	if capacity < 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %d", errors.ErrInvalidCapacity, capacity),
			"Buffer", "New", "capacity validation")
	}

	opts := applyOptions(options...)
	buf, err := newSPSCBuffer(capacity, opts)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
