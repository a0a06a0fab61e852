package ringbuffer

import (
	"sync/atomic"

	"github.com/JoergWarthemann/ringbuffer/errors"
)

// cacheLinePad separates the position counters so the producer and consumer
// sides do not invalidate each other's cache lines (false sharing).
const cacheLinePad = 64

// spscBuffer is the lock-free circular buffer behind the Buffer interface.
//
// The producer is the sole writer of writePos and the sole grower of size;
// the consumer is the sole writer of readPos. Every cross-goroutine handoff
// is a store on one side paired with a load on the other, so neither side
// ever observes a half-finished operation. There are no locks and no
// compare-and-swap loops anywhere in the protocol.
type spscBuffer[T any] struct {
	// slots is the storage array. A slot holding the zero value outside the
	// live range is vacant; zeroing a slot is how an element is destroyed.
	// The slice header itself only changes inside ResetCapacity, which
	// requires exclusive access.
	slots []T

	readPos  atomic.Uint64
	_        [cacheLinePad - 8]byte
	writePos atomic.Uint64
	_        [cacheLinePad - 8]byte
	size     atomic.Uint64
	_        [cacheLinePad - 8]byte
	capacity atomic.Uint64
	_        [cacheLinePad - 8]byte

	stats   *Statistics  // always initialized
	metrics *ringMetrics // optional Prometheus export
	opts    *bufferOptions[T]
}

// newSPSCBuffer creates a buffer instance and registers its metrics when
// requested. Returns an error if metrics registration fails.
func newSPSCBuffer[T any](capacity int, opts *bufferOptions[T]) (*spscBuffer[T], error) {
	var metrics *ringMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newRingMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "buffer", "newSPSCBuffer", "metrics registration")
		}
	}

	b := &spscBuffer[T]{
		slots:   make([]T, capacity),
		stats:   NewStatistics(),
		metrics: metrics,
		opts:    opts,
	}
	b.capacity.Store(uint64(capacity))

	if metrics != nil {
		metrics.setCapacity(capacity)
	}

	return b, nil
}

// Insert stores one element at the write position, displacing the oldest
// element when the buffer is full.
func (b *spscBuffer[T]) Insert(sample T) {
	capacity := b.capacity.Load()
	if capacity == 0 {
		panic("ringbuffer: Insert into zero-capacity buffer")
	}

	size := b.size.Load()
	writePos := b.writePos.Load()
	// Pairs with the consumer's readPos publication in the extract paths.
	_ = b.readPos.Load()

	if size == capacity {
		b.displace(writePos, writePos+1)
	} else {
		size++
	}

	b.slots[writePos] = sample
	writePos = (writePos + 1) % capacity

	// Publishing size and writePos makes the new element visible to the
	// consumer; the slot assignment above happens-before these stores.
	b.size.Store(size)
	b.writePos.Store(writePos)

	b.stats.Insert(1)
	b.stats.UpdateSize(int64(size))
	if b.metrics != nil {
		b.metrics.recordInserts(1, int(size), int(capacity))
	}
}

// InsertBlock stores the elements of block in order, leaving block intact.
func (b *spscBuffer[T]) InsertBlock(block []T) {
	b.insertBlock(block, false)
}

// InsertBlockOwned stores the elements of block in order and zeroes the
// consumed source slots afterwards.
func (b *spscBuffer[T]) InsertBlockOwned(block []T) {
	b.insertBlock(block, true)
}

func (b *spscBuffer[T]) insertBlock(block []T, owned bool) {
	capacity := b.capacity.Load()
	size := b.size.Load()
	writePos := b.writePos.Load()
	// Pairs with the consumer's readPos publication in the extract paths.
	_ = b.readPos.Load()

	length := uint64(len(block))
	if length == 0 || capacity == 0 {
		return
	}

	adjusted := length
	if length > capacity {
		// Crop to the most recent capacity elements; the older ones are
		// discarded without ever being written.
		adjusted = capacity
		b.stats.Crop(int64(length - adjusted))
		if b.metrics != nil {
			b.metrics.recordCrops(int(length - adjusted))
		}
	}
	src := block[length-adjusted:]

	if writePos+adjusted > capacity {
		// The block crosses the physical end of storage: split into the run
		// up to the end and the remainder starting at slot 0.
		head := capacity - writePos
		size = b.placeRun(src[:head], writePos, capacity, size, owned)
		size = b.placeRun(src[head:], 0, capacity, size, owned)
		writePos = adjusted - head
	} else {
		size = b.placeRun(src, writePos, capacity, size, owned)
		writePos += adjusted
	}

	if writePos > capacity-1 {
		writePos = 0
	}

	b.size.Store(size)
	b.writePos.Store(writePos)

	b.stats.Insert(int64(adjusted))
	b.stats.UpdateSize(int64(size))
	if b.metrics != nil {
		b.metrics.recordInserts(int(adjusted), int(size), int(capacity))
	}
}

// placeRun writes one contiguous sub-run of a block insert. Slots that hold
// live elements are displaced first; the copy/move choice of the whole call
// is threaded through owned. Returns the updated size.
func (b *spscBuffer[T]) placeRun(src []T, dstStart, capacity, size uint64, owned bool) uint64 {
	n := uint64(len(src))
	if n == 0 {
		return size
	}

	if size == capacity {
		b.displace(dstStart, dstStart+n)
	}

	copy(b.slots[dstStart:dstStart+n], src)
	if owned {
		var zero T
		for i := range src {
			src[i] = zero
		}
	}

	if size < capacity {
		size = min(capacity, size+n)
	}
	return size
}

// displace records the live elements in [from, to) as overwritten and hands
// them to the overwrite callback before their slots are reused. Runs on the
// producer goroutine, which owns these slots until the next publication.
func (b *spscBuffer[T]) displace(from, to uint64) {
	n := int64(to - from)
	b.stats.Overwrite(n)
	if b.metrics != nil {
		b.metrics.recordOverwrites(int(n))
	}
	if b.opts.overwriteCallback != nil {
		for i := from; i < to; i++ {
			b.opts.overwriteCallback(b.slots[i])
		}
	}
}

// Copy returns the element inserted samplesBack insertions ago.
func (b *spscBuffer[T]) Copy(samplesBack int) T {
	if samplesBack < 0 {
		panic("ringbuffer: negative reverse index")
	}

	capacity := b.capacity.Load()
	// These loads pair with the producer's publication in the insert paths.
	size := b.size.Load()
	writePos := b.writePos.Load()

	var zero T
	if size == 0 {
		return zero
	}

	// Reverse indices wrap with period capacity; the newest element lives at
	// writePos-1. The +capacity keeps the arithmetic non-negative.
	element := b.slots[(writePos+capacity-1-uint64(samplesBack)%capacity)%capacity]

	// Consumption signal: pairs with the producer's readPos load.
	b.readPos.Store(writePos)

	b.stats.SingleRead()
	if b.metrics != nil {
		b.metrics.recordSingleRead()
	}

	return element
}

// CopyBlock copies up to len(dst) elements into dst, oldest first.
func (b *spscBuffer[T]) CopyBlock(dst []T) int {
	return b.extractBlock(dst, false)
}

// MoveBlock moves up to len(dst) elements into dst, oldest first, zeroing
// the moved-from slots.
func (b *spscBuffer[T]) MoveBlock(dst []T) int {
	return b.extractBlock(dst, true)
}

func (b *spscBuffer[T]) extractBlock(dst []T, move bool) int {
	capacity := b.capacity.Load()
	// These loads pair with the producer's publication in the insert paths.
	size := b.size.Load()
	writePos := b.writePos.Load()

	// We cannot give back more than we have.
	n := uint64(len(dst))
	if n > size {
		n = size
	}

	if n > 0 {
		// Start of the oldest-first run holding the n newest elements.
		// Wraparound is taken modulo the fixed capacity; while the buffer is
		// still filling writePos equals size, so this agrees with the
		// live-count arithmetic on every reachable state.
		start := (writePos + capacity - n) % capacity
		run := n
		if capacity-start < n {
			run = capacity - start
		}

		b.extractRun(dst[:run], start, move)
		if remaining := n - run; remaining > 0 {
			b.extractRun(dst[run:n], (start+run)%capacity, move)
		}
	}

	// Consumption signal: pairs with the producer's readPos load.
	b.readPos.Store(writePos)

	b.stats.BlockRead(int64(n))
	if move {
		b.stats.Move(int64(n))
	}
	if b.metrics != nil {
		b.metrics.recordBlockRead(int(n))
	}

	return int(n)
}

// extractRun copies one contiguous sub-run into dst and, for moves, zeroes
// the source slots afterwards.
func (b *spscBuffer[T]) extractRun(dst []T, start uint64, move bool) {
	end := start + uint64(len(dst))
	copy(dst, b.slots[start:end])
	if move {
		var zero T
		for i := start; i < end; i++ {
			b.slots[i] = zero
		}
	}
}

// Reset destroys every live element and zeroes all positions. No-op when the
// buffer is already empty.
func (b *spscBuffer[T]) Reset() {
	capacity := b.capacity.Load()
	writePos := b.writePos.Load()
	size := b.size.Load()

	if size == 0 {
		return
	}

	var zero T

	// The live range ends at writePos-1 and may wrap past the physical end
	// of storage; destroy it in up to two sub-ranges.
	oldest := (writePos + capacity - size) % capacity
	end := oldest + size
	if end > capacity {
		end = capacity
	}
	for i := oldest; i < end; i++ {
		b.slots[i] = zero
	}
	if oldest+size > capacity {
		for i := uint64(0); i < oldest+size-capacity; i++ {
			b.slots[i] = zero
		}
	}

	// The consumer observes an empty buffer only after every slot is vacant.
	b.writePos.Store(0)
	b.readPos.Store(0)
	b.size.Store(0)

	b.stats.RecordReset()
	b.stats.UpdateSize(0)
	if b.metrics != nil {
		b.metrics.updateSize(0, int(capacity))
	}
}

// ResetCapacity destroys every live element, reallocates storage with the
// new capacity and zeroes all positions. The capacity is not part of the
// lock-free protocol: callers must guarantee exclusive access.
func (b *spscBuffer[T]) ResetCapacity(newCapacity int) {
	if newCapacity < 0 {
		panic("ringbuffer: negative capacity")
	}

	b.Reset()

	b.capacity.Store(uint64(newCapacity))
	b.slots = make([]T, newCapacity)

	if b.metrics != nil {
		b.metrics.setCapacity(newCapacity)
	}
}

// Capacity returns the maximum number of live elements. The load is not
// synchronized with any operation; the value may be stale.
func (b *spscBuffer[T]) Capacity() int {
	return int(b.capacity.Load())
}

// Size returns the current number of live elements. The load is not
// synchronized with any operation; the value may be stale.
func (b *spscBuffer[T]) Size() int {
	return int(b.size.Load())
}

// IsEmpty reports whether the buffer currently holds no elements.
func (b *spscBuffer[T]) IsEmpty() bool {
	return b.size.Load() == 0
}

// IsFull reports whether the buffer is at capacity.
func (b *spscBuffer[T]) IsFull() bool {
	capacity := b.capacity.Load()
	return capacity > 0 && b.size.Load() == capacity
}

// Stats returns buffer statistics (always available for observability).
func (b *spscBuffer[T]) Stats() *Statistics {
	return b.stats
}
