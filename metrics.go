package ringbuffer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/JoergWarthemann/ringbuffer/metric"
)

// ringMetrics holds Prometheus metrics for buffer operations.
type ringMetrics struct {
	// Counter metrics - incremented directly on the hot path
	inserts     prometheus.Counter
	overwrites  prometheus.Counter
	crops       prometheus.Counter
	singleReads prometheus.Counter
	blockReads  prometheus.Counter

	// Gauge metrics - updated on operations
	size        prometheus.Gauge
	capacity    prometheus.Gauge
	utilization prometheus.Gauge
}

// newRingMetrics creates and registers buffer metrics with the provided
// registry.
func newRingMetrics(registry *metric.MetricsRegistry, prefix string) (*ringMetrics, error) {
	m := &ringMetrics{
		inserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringbuffer",
			Subsystem:   "spsc",
			Name:        "inserts_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of elements inserted",
		}),
		overwrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringbuffer",
			Subsystem:   "spsc",
			Name:        "overwrites_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of live elements displaced by inserts",
		}),
		crops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringbuffer",
			Subsystem:   "spsc",
			Name:        "crops_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of elements discarded from oversized block inserts",
		}),
		singleReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringbuffer",
			Subsystem:   "spsc",
			Name:        "single_reads_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of reverse-indexed single reads",
		}),
		blockReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringbuffer",
			Subsystem:   "spsc",
			Name:        "block_reads_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of elements produced by block extractions",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "ringbuffer",
			Subsystem:   "spsc",
			Name:        "size",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Current number of live elements",
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "ringbuffer",
			Subsystem:   "spsc",
			Name:        "capacity",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Maximum number of live elements",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "ringbuffer",
			Subsystem:   "spsc",
			Name:        "utilization",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Buffer fill level as a fraction of capacity (0.0 to 1.0)",
		}),
	}

	// Register all metrics with the registry
	if err := registry.RegisterCounter(prefix, "spsc_inserts", m.inserts); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "spsc_overwrites", m.overwrites); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "spsc_crops", m.crops); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "spsc_single_reads", m.singleReads); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "spsc_block_reads", m.blockReads); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "spsc_size", m.size); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "spsc_capacity", m.capacity); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "spsc_utilization", m.utilization); err != nil {
		return nil, err
	}

	return m, nil
}

// recordInserts adds inserted elements and updates size/utilization.
func (m *ringMetrics) recordInserts(n, size, capacity int) {
	m.inserts.Add(float64(n))
	m.updateSize(size, capacity)
}

// recordOverwrites adds displaced elements.
func (m *ringMetrics) recordOverwrites(n int) {
	m.overwrites.Add(float64(n))
}

// recordCrops adds elements discarded from an oversized block.
func (m *ringMetrics) recordCrops(n int) {
	m.crops.Add(float64(n))
}

// recordSingleRead increments the single-read counter.
func (m *ringMetrics) recordSingleRead() {
	m.singleReads.Inc()
}

// recordBlockRead adds elements produced by a block extraction.
func (m *ringMetrics) recordBlockRead(n int) {
	m.blockReads.Add(float64(n))
}

// updateSize sets the current size and utilization.
func (m *ringMetrics) updateSize(size, capacity int) {
	m.size.Set(float64(size))
	if capacity > 0 {
		m.utilization.Set(float64(size) / float64(capacity))
	} else {
		m.utilization.Set(0)
	}
}

// setCapacity sets the capacity gauge after construction or reinitialize.
func (m *ringMetrics) setCapacity(capacity int) {
	m.capacity.Set(float64(capacity))
}
