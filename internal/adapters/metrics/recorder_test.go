package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
)

func TestRecorder_ObserveRun(t *testing.T) {
	rec := NewRecorder(nil)
	rec.ObserveRun(domain.TierJIT, ports.OutcomeSuccess, 250*time.Millisecond)
	rec.ObserveRun(domain.TierJIT, ports.OutcomeSuccess, 150*time.Millisecond)
	rec.ObserveRun(domain.TierOptimized, ports.OutcomeSuccess, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(rec.runs.WithLabelValues("jit", ports.OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(rec.runs.WithLabelValues("optimized", ports.OutcomeSuccess)), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(rec.runLatency, "hotspot_run_duration_seconds"))
}

func TestRecorder_ObserveStore(t *testing.T) {
	rec := NewRecorder(nil)
	rec.ObserveStore(ports.StoreOperationPut, ports.StoreResultOK)
	rec.ObserveStore(ports.StoreOperationPut, ports.StoreResultError)
	rec.ObserveStore("", "")

	assert.InDelta(t, 1, testutil.ToFloat64(rec.storeOps.WithLabelValues("put", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(rec.storeOps.WithLabelValues("put", "error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(rec.storeOps.WithLabelValues("unknown", "unknown")), 0)
}

func TestRecorder_Snapshot(t *testing.T) {
	rec := NewRecorder(nil)
	rec.ObserveRun(domain.TierJIT, ports.OutcomeSuccess, time.Second)
	rec.ObserveRun(domain.TierJIT, ports.OutcomeSuccess, time.Second)
	rec.ObserveRun(domain.TierOptimized, ports.OutcomeSuccess, 0)
	rec.ObserveRun(domain.TierOptimized, ports.OutcomeSuccess, 0)
	rec.ObserveRun(domain.TierJIT, ports.OutcomeCompileError, time.Second)
	rec.ObserveRun(domain.TierJIT, ports.OutcomeNotFound, 0)
	rec.ObserveStore(ports.StoreOperationPut, ports.StoreResultError)

	snap, err := rec.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Executed: 2, Optimized: 2, Failed: 2, StoreErrors: 1}, snap)
	assert.Equal(t, 6, snap.Total())
}

func TestRecorder_WriteText(t *testing.T) {
	rec := NewRecorder(nil)
	rec.ObserveRun(domain.TierOptimized, ports.OutcomeSuccess, 0)

	var buf bytes.Buffer
	require.NoError(t, rec.WriteText(&buf))
	assert.Contains(t, buf.String(), `hotspot_runs_total{outcome="success",tier="optimized"} 1`)
	assert.Contains(t, buf.String(), "# TYPE hotspot_run_duration_seconds histogram")
}

func TestRecorder_Nil(t *testing.T) {
	var rec *Recorder
	rec.ObserveRun(domain.TierJIT, ports.OutcomeSuccess, 0)
	rec.ObserveStore(ports.StoreOperationLoad, ports.StoreResultOK)

	snap, err := rec.Snapshot()
	require.NoError(t, err)
	assert.Zero(t, snap.Total())
}
