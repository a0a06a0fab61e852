// Package ringbuffer provides a fixed-capacity, lock-free circular buffer for
// exactly one producer goroutine and one consumer goroutine, with always-on
// statistics and optional Prometheus metrics integration.
//
// # Overview
//
// The buffer owns a contiguous block of slots sized to a run-time capacity.
// The producer inserts elements, overwriting the oldest once the buffer is
// full; the consumer reads single elements by reverse index or drains ordered
// blocks into caller-provided storage. Neither side ever blocks: every call
// completes after work bounded by the number of elements it touches, and all
// cross-goroutine synchronization happens on four cache-line-separated atomic
// counters.
//
// # Quick Start
//
// Basic buffer creation:
//
//	buf, err := ringbuffer.New[float64](1024)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Producer goroutine
//	buf.Insert(sample)
//	buf.InsertBlock(samples)
//
//	// Consumer goroutine
//	latest := buf.Copy(0)
//	out := make([]float64, 256)
//	n := buf.CopyBlock(out)
//
// With Prometheus metrics:
//
//	registry := metric.NewMetricsRegistry()
//	buf, err := ringbuffer.New[[]byte](4096,
//		ringbuffer.WithMetrics[[]byte](registry, "audio_input"),
//	)
//
// # Concurrency Contract
//
// The buffer is safe for exactly one concurrent producer and one concurrent
// consumer:
//
//   - Producer-only calls: Insert, InsertBlock, InsertBlockOwned, Reset.
//   - Consumer-only calls: Copy, CopyBlock, MoveBlock.
//   - Either side, any time: Capacity, Size, IsEmpty, IsFull, Stats.
//   - Exclusive access required: ResetCapacity.
//
// Two producers racing on the write position corrupt the live range; this is
// not a supported configuration and is not detected at run time. Extending
// the protocol to multiple writers or readers requires a redesign around
// compare-and-swap retry loops, not wider use of this type.
//
// The producer publishes the size and write position after constructing new
// elements; the consumer publishes its read position after extracting. Each
// publication pairs with the load on the opposite side, so the consumer never
// observes a partially-written element. Go's atomic operations are
// sequentially consistent, which subsumes the acquire/release pairs the
// protocol needs. The protocol does not stop the producer from lapping a slow
// consumer; bounding reads against producer progress is the caller's
// responsibility under sustained throughput.
//
// # Copy vs. Move
//
// Block operations come in pairs. The copy variants (InsertBlock, CopyBlock)
// leave the source intact. The ownership-transfer variants (InsertBlockOwned,
// MoveBlock) zero the consumed source slots after the transfer, releasing any
// references they held to the garbage collector. A zeroed slot is a vacant
// slot; element types whose zero value is meaningful as "absent" (pointers,
// slices, uuid.UUID) compose naturally with the move variants.
//
// # Overwrite Semantics
//
// There is exactly one overflow policy: overwrite the oldest element. A
// single insert displaces at most one element; a block insert longer than the
// capacity is cropped to its most recent capacity elements and the rest are
// never written. Displaced elements can be observed through
// WithOverwriteCallback, which runs on the producer goroutine.
//
// # Observability
//
// Statistics are always collected and never take a lock: every counter is
// either written by a single side or monotonically incremented atomically.
// Prometheus export is optional via WithMetrics and registers counters for
// inserts, overwrites, crops and reads plus size/utilization gauges, labeled
// with the component prefix.
//
// # Error Handling
//
// Recoverable failures (invalid construction arguments, metric registration
// conflicts) are returned as classified errors from New. Contract violations
// (inserting into a zero-capacity buffer, negative reverse index, negative
// capacity passed to ResetCapacity) panic immediately rather than corrupt
// the live range.
//
// # Testing
//
// The package is exercised with race detection:
//
//	go test -race ./...
//
// Property-based tests cover the retention and ordering invariants;
// benchmarks cover capacity scaling and the producer/consumer pairing.
package ringbuffer
