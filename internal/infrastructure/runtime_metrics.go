package infrastructure

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeStats is a point-in-time view of the process
type RuntimeStats struct {
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	SysMB         float64 `json:"sys_mb"`
	GCCount       uint32  `json:"gc_count"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// RuntimeCollector samples Go runtime statistics and publishes them as gauges
type RuntimeCollector struct {
	startTime time.Time
	interval  time.Duration

	goroutines metric.Int64Gauge
	heapAlloc  metric.Int64Gauge
	uptime     metric.Float64Gauge

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRuntimeCollector creates a collector. A nil meter yields a collector that
// only serves snapshots.
func NewRuntimeCollector(meter metric.Meter, interval time.Duration) (*RuntimeCollector, error) {
	rc := &RuntimeCollector{
		startTime: time.Now(),
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
	if meter == nil {
		return rc, nil
	}

	var err error
	if rc.goroutines, err = meter.Int64Gauge("runtime_goroutines",
		metric.WithDescription("Number of live goroutines")); err != nil {
		return nil, err
	}
	if rc.heapAlloc, err = meter.Int64Gauge("runtime_heap_alloc_bytes",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if rc.uptime, err = meter.Float64Gauge("process_uptime_seconds",
		metric.WithDescription("Seconds since the process started"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return rc, nil
}

// Snapshot reads current runtime statistics and records them
func (rc *RuntimeCollector) Snapshot(ctx context.Context) RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := RuntimeStats{
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(mem.HeapAlloc) / (1 << 20),
		SysMB:         float64(mem.Sys) / (1 << 20),
		GCCount:       mem.NumGC,
		UptimeSeconds: time.Since(rc.startTime).Seconds(),
	}

	if rc.goroutines != nil {
		rc.goroutines.Record(ctx, int64(stats.Goroutines))
		rc.heapAlloc.Record(ctx, int64(mem.HeapAlloc))
		rc.uptime.Record(ctx, stats.UptimeSeconds)
	}
	return stats
}

// Start samples on every interval until ctx is done or Stop is called
func (rc *RuntimeCollector) Start(ctx context.Context) {
	if rc.interval <= 0 {
		return
	}
	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	rc.Snapshot(ctx)
	for {
		select {
		case <-ticker.C:
			rc.Snapshot(ctx)
		case <-rc.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop ends a running Start loop
func (rc *RuntimeCollector) Stop() {
	rc.stopOnce.Do(func() { close(rc.stopCh) })
}
