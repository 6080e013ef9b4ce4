package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeCollectorSnapshot(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	rc, err := NewRuntimeCollector(providers.Meter, time.Minute)
	require.NoError(t, err)

	stats := rc.Snapshot(context.Background())
	assert.Greater(t, stats.Goroutines, 0)
	assert.Greater(t, stats.SysMB, 0.0)
	assert.GreaterOrEqual(t, stats.UptimeSeconds, 0.0)
}

func TestRuntimeCollectorWithoutMeter(t *testing.T) {
	rc, err := NewRuntimeCollector(nil, 0)
	require.NoError(t, err)

	assert.NotPanics(t, func() { rc.Snapshot(context.Background()) })

	// zero interval returns immediately
	done := make(chan struct{})
	go func() {
		rc.Start(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return")
	}
}

func TestRuntimeCollectorStop(t *testing.T) {
	rc, err := NewRuntimeCollector(nil, 10*time.Millisecond)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		rc.Start(context.Background())
		close(done)
	}()

	rc.Stop()
	rc.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}
