// Package main implements a small demonstration binary for the ringbuffer
// library. It runs one producer and one consumer goroutine against a shared
// buffer, exposes Prometheus metrics over HTTP and prints a statistics
// summary on shutdown.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	ringbuffer "github.com/JoergWarthemann/ringbuffer"
	"github.com/JoergWarthemann/ringbuffer/metric"
)

func main() {
	if err := run(); err != nil {
		slog.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	capacity := flag.Int("capacity", 1024, "buffer capacity in elements")
	blockSize := flag.Int("block-size", 64, "producer/consumer block size")
	port := flag.Int("metrics-port", 9090, "Prometheus metrics port")
	interval := flag.Duration("interval", 10*time.Millisecond, "producer tick interval")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	registry := metric.NewMetricsRegistry()
	buf, err := ringbuffer.New[uint64](*capacity,
		ringbuffer.WithMetrics[uint64](registry, "demo"),
	)
	if err != nil {
		return err
	}

	server := metric.NewServer(*port, "/metrics", registry)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	defer func() { _ = server.Stop() }()
	logger.Info("metrics available", "address", server.Address())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Producer: numbered blocks at a fixed interval.
	go func() {
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()

		next := uint64(1)
		block := make([]uint64, *blockSize)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for i := range block {
					block[i] = next
					next++
				}
				buf.InsertBlock(block)
			}
		}
	}()

	// Consumer: periodic block reads, half the producer rate.
	go func() {
		ticker := time.NewTicker(2 * *interval)
		defer ticker.Stop()

		dst := make([]uint64, *blockSize)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				buf.CopyBlock(dst)
			}
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	summary, err := json.MarshalIndent(buf.Stats().Summary(), "", "  ")
	if err != nil {
		return err
	}
	_, _ = os.Stdout.Write(append(summary, '\n'))
	return nil
}
