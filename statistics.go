package ringbuffer

import (
	"sync/atomic"
	"time"
)

// Statistics tracks buffer activity. Recording never takes a lock: every
// field is either incremented atomically or written by a single goroutine
// (size tracking belongs to the producer), so the buffer's wait-free
// contract extends to its observability.
type Statistics struct {
	inserts     atomic.Int64
	overwrites  atomic.Int64
	crops       atomic.Int64
	singleReads atomic.Int64
	blockReads  atomic.Int64
	moves       atomic.Int64
	resets      atomic.Int64

	// Written by the producer only.
	currentSize atomic.Int64
	maxSize     atomic.Int64

	// Unix nanoseconds; reset by Reset().
	startTime atomic.Int64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	s := &Statistics{}
	s.startTime.Store(time.Now().UnixNano())
	return s
}

// Insert records n inserted elements.
func (s *Statistics) Insert(n int64) {
	s.inserts.Add(n)
}

// Overwrite records n live elements displaced by inserts.
func (s *Statistics) Overwrite(n int64) {
	s.overwrites.Add(n)
}

// Crop records n elements discarded from an oversized block insert.
func (s *Statistics) Crop(n int64) {
	s.crops.Add(n)
}

// SingleRead records one reverse-indexed read.
func (s *Statistics) SingleRead() {
	s.singleReads.Add(1)
}

// BlockRead records n elements produced by a block extraction.
func (s *Statistics) BlockRead(n int64) {
	s.blockReads.Add(n)
}

// Move records n elements transferred out by a move extraction.
func (s *Statistics) Move(n int64) {
	s.moves.Add(n)
}

// RecordReset records a buffer reset.
func (s *Statistics) RecordReset() {
	s.resets.Add(1)
}

// UpdateSize updates the current buffer size. Producer-only.
func (s *Statistics) UpdateSize(size int64) {
	s.currentSize.Store(size)
	if size > s.maxSize.Load() {
		s.maxSize.Store(size)
	}
}

// Inserts returns the total number of inserted elements.
func (s *Statistics) Inserts() int64 {
	return s.inserts.Load()
}

// Overwrites returns the total number of displaced elements.
func (s *Statistics) Overwrites() int64 {
	return s.overwrites.Load()
}

// Crops returns the total number of elements discarded from oversized blocks.
func (s *Statistics) Crops() int64 {
	return s.crops.Load()
}

// SingleReads returns the total number of reverse-indexed reads.
func (s *Statistics) SingleReads() int64 {
	return s.singleReads.Load()
}

// BlockReads returns the total number of elements produced by block
// extractions.
func (s *Statistics) BlockReads() int64 {
	return s.blockReads.Load()
}

// Moves returns the total number of elements transferred out by move
// extractions.
func (s *Statistics) Moves() int64 {
	return s.moves.Load()
}

// Resets returns the total number of buffer resets.
func (s *Statistics) Resets() int64 {
	return s.resets.Load()
}

// CurrentSize returns the last size published by the producer.
func (s *Statistics) CurrentSize() int64 {
	return s.currentSize.Load()
}

// MaxSize returns the maximum number of elements the buffer has held.
func (s *Statistics) MaxSize() int64 {
	return s.maxSize.Load()
}

// InsertThroughput returns the average number of inserted elements per
// second since start.
func (s *Statistics) InsertThroughput() float64 {
	elapsed := s.Uptime()
	if elapsed == 0 {
		return 0.0
	}
	return float64(s.Inserts()) / elapsed.Seconds()
}

// ReadThroughput returns the average number of extracted elements per second
// since start, counting single and block reads.
func (s *Statistics) ReadThroughput() float64 {
	elapsed := s.Uptime()
	if elapsed == 0 {
		return 0.0
	}
	return float64(s.SingleReads()+s.BlockReads()) / elapsed.Seconds()
}

// OverwriteRate returns the fraction of inserts that displaced a live
// element (0.0 to 1.0).
func (s *Statistics) OverwriteRate() float64 {
	inserts := s.Inserts()
	if inserts == 0 {
		return 0.0
	}
	return float64(s.Overwrites()) / float64(inserts)
}

// Utilization returns the current fill level relative to capacity
// (0.0 to 1.0).
func (s *Statistics) Utilization(capacity int64) float64 {
	if capacity == 0 {
		return 0.0
	}
	return float64(s.CurrentSize()) / float64(capacity)
}

// Uptime returns how long the buffer has been collecting statistics.
func (s *Statistics) Uptime() time.Duration {
	return time.Since(time.Unix(0, s.startTime.Load()))
}

// Reset resets all statistics to zero.
func (s *Statistics) Reset() {
	s.inserts.Store(0)
	s.overwrites.Store(0)
	s.crops.Store(0)
	s.singleReads.Store(0)
	s.blockReads.Store(0)
	s.moves.Store(0)
	s.resets.Store(0)
	s.currentSize.Store(0)
	s.maxSize.Store(0)
	s.startTime.Store(time.Now().UnixNano())
}

// StatsSummary is a point-in-time snapshot of all statistics.
type StatsSummary struct {
	Inserts           int64         `json:"inserts"`
	Overwrites        int64         `json:"overwrites"`
	Crops             int64         `json:"crops"`
	SingleReads       int64         `json:"single_reads"`
	BlockReads        int64         `json:"block_reads"`
	Moves             int64         `json:"moves"`
	Resets            int64         `json:"resets"`
	CurrentSize       int64         `json:"current_size"`
	MaxSize           int64         `json:"max_size"`
	InsertThroughput  float64       `json:"insert_throughput"`
	ReadThroughput    float64       `json:"read_throughput"`
	OverwriteRate     float64       `json:"overwrite_rate"`
	Uptime            time.Duration `json:"uptime"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Inserts:          s.Inserts(),
		Overwrites:       s.Overwrites(),
		Crops:            s.Crops(),
		SingleReads:      s.SingleReads(),
		BlockReads:       s.BlockReads(),
		Moves:            s.Moves(),
		Resets:           s.Resets(),
		CurrentSize:      s.CurrentSize(),
		MaxSize:          s.MaxSize(),
		InsertThroughput: s.InsertThroughput(),
		ReadThroughput:   s.ReadThroughput(),
		OverwriteRate:    s.OverwriteRate(),
		Uptime:           s.Uptime(),
	}
}
