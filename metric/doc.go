// Package metric manages Prometheus metric registration and exposition for
// the ringbuffer library.
//
// # Overview
//
// MetricsRegistry wraps a prometheus.Registry with name-keyed duplicate
// detection and classified errors, so a buffer component cannot silently
// shadow another component's metrics. Go runtime and process collectors are
// registered at construction.
//
// # Quick Start
//
//	registry := metric.NewMetricsRegistry()
//
//	buf, err := ringbuffer.New[float64](1024,
//		ringbuffer.WithMetrics[float64](registry, "audio_input"),
//	)
//
// Expose the metrics over HTTP:
//
//	server := metric.NewServer(9090, "/metrics", registry)
//	go server.Start()
//	defer server.Stop()
//
// # Registration Keys
//
// Metrics are keyed by "component.metric" pairs. Registering the same pair
// twice returns a classified Invalid error; Prometheus-level conflicts for
// distinct keys are surfaced the same way. All other registration failures
// are Fatal.
package metric
