package ringbuffer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// isContiguousRun reports whether needle appears as a contiguous run in
// haystack. An empty needle trivially matches.
func isContiguousRun(haystack, needle []uint64) bool {
	if len(needle) == 0 {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// A producer goroutine inserts blocks of a monotonically numbered source
// while a consumer goroutine copies blocks out. Any block the consumer
// observes must be a contiguous run of the source: torn reads would show up
// as runs that never occurred. The pacing keeps a full producer lap far
// slower than any read window, which is the regime the protocol supports.
func TestProducerConsumerBlocks(t *testing.T) {
	const (
		sourceSize = 128
		blockSize  = 8
		laps       = sourceSize / blockSize
	)

	source := make([]uint64, sourceSize)
	for i := range source {
		source[i] = uint64(i + 1)
	}

	buf, err := New[uint64](20)
	require.NoError(t, err)

	consumed := make([][]uint64, 0, laps)

	var group errgroup.Group
	group.Go(func() error {
		for lap := 0; lap < laps; lap++ {
			buf.InsertBlock(source[lap*blockSize : (lap+1)*blockSize])
			time.Sleep(2 * time.Millisecond)
		}
		return nil
	})
	group.Go(func() error {
		for lap := 0; lap < laps; lap++ {
			dst := make([]uint64, blockSize)
			n := buf.CopyBlock(dst)
			if n > 0 {
				consumed = append(consumed, dst[:n])
			}
			time.Sleep(4 * time.Millisecond)
		}
		return nil
	})
	require.NoError(t, group.Wait())

	require.NotEmpty(t, consumed, "consumer should observe at least one block")
	for i, block := range consumed {
		assert.True(t, isContiguousRun(source, block),
			"consumed block %d is not a contiguous run of the source: %v", i, block)
	}
}

// Single-element traffic under the same contract: every value the consumer
// reads was inserted by the producer, and the newest-visible value never
// goes backwards.
func TestProducerConsumerSingles(t *testing.T) {
	const total = 256

	buf, err := New[uint64](64)
	require.NoError(t, err)

	var group errgroup.Group
	group.Go(func() error {
		for i := uint64(1); i <= total; i++ {
			buf.Insert(i)
			time.Sleep(50 * time.Microsecond)
		}
		return nil
	})
	group.Go(func() error {
		var last uint64
		for {
			if buf.IsEmpty() {
				time.Sleep(100 * time.Microsecond)
				continue
			}
			v := buf.Copy(0)
			if v > total {
				return fmt.Errorf("read value %d beyond produced range", v)
			}
			if v < last {
				return fmt.Errorf("newest value went backwards: %d after %d", v, last)
			}
			last = v
			if v == total {
				return nil
			}
			time.Sleep(100 * time.Microsecond)
		}
	})
	require.NoError(t, group.Wait())
}

// The statistics counters are written from both sides; snapshots taken
// concurrently must stay consistent.
func TestStatsUnderConcurrentTraffic(t *testing.T) {
	buf, err := New[int](32)
	require.NoError(t, err)

	var group errgroup.Group
	group.Go(func() error {
		for i := 0; i < 500; i++ {
			buf.Insert(i)
			time.Sleep(20 * time.Microsecond)
		}
		return nil
	})
	group.Go(func() error {
		dst := make([]int, 8)
		for i := 0; i < 100; i++ {
			buf.CopyBlock(dst)
			buf.Stats().Summary()
			time.Sleep(50 * time.Microsecond)
		}
		return nil
	})
	require.NoError(t, group.Wait())

	stats := buf.Stats()
	assert.Equal(t, int64(500), stats.Inserts())
	assert.Equal(t, int64(500-32), stats.Overwrites())
	assert.LessOrEqual(t, stats.MaxSize(), int64(32))
}
