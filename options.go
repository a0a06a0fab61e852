package ringbuffer

import (
	"github.com/JoergWarthemann/ringbuffer/metric"
)

// Option configures buffer behavior using the functional options pattern.
type Option[T any] func(*bufferOptions[T])

// bufferOptions holds internal configuration for buffer instances.
// Stats are ALWAYS collected - they are not optional.
// Metrics are optional and exposed via WithMetrics().
type bufferOptions[T any] struct {
	overwriteCallback OverwriteCallback[T]

	// metricsReg is optional - if provided, buffer stats are also exposed as
	// Prometheus metrics
	metricsReg *metric.MetricsRegistry

	// metricsPrefix is used as the component label for Prometheus metrics
	metricsPrefix string
}

// WithMetrics enables Prometheus metrics export for buffer statistics.
// If registry is nil or prefix is empty, this option is ignored.
func WithMetrics[T any](registry *metric.MetricsRegistry, prefix string) Option[T] {
	return func(opts *bufferOptions[T]) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// WithOverwriteCallback sets a callback invoked with each live element
// displaced by an insert. The callback runs on the producer goroutine.
func WithOverwriteCallback[T any](callback OverwriteCallback[T]) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.overwriteCallback = callback
	}
}

// applyOptions applies functional options to create final buffer
// configuration. This is an internal helper used by New.
func applyOptions[T any](options ...Option[T]) *bufferOptions[T] {
	opts := &bufferOptions[T]{}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
