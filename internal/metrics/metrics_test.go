package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gathered returns the single sample value of every family in reg.
func gathered(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]float64, len(families))
	for _, f := range families {
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[f.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[f.GetName()] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[f.GetName()] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestSchedulerCollectorsRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewScheduler(reg)

	m.Enqueued.Inc()
	m.Enqueued.Inc()
	m.Rejected.Inc()
	m.Ready.Set(3)
	m.ObserveGeneration(2 * time.Millisecond)

	got := gathered(t, reg)
	assert.Equal(t, 2.0, got["voxelcore_meshing_jobs_enqueued_total"])
	assert.Equal(t, 1.0, got["voxelcore_meshing_jobs_rejected_total"])
	assert.Equal(t, 1.0, got["voxelcore_meshing_jobs_generated_total"])
	assert.Equal(t, 3.0, got["voxelcore_meshing_jobs_ready"])
	assert.Equal(t, 1.0, got["voxelcore_meshing_generation_seconds"])
	assert.Contains(t, got, "voxelcore_meshing_lane_failures_total")
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewScheduler(reg)
	assert.Panics(t, func() { NewScheduler(reg) })

	// unregistered collectors are independent
	assert.NotPanics(t, func() { NewScheduler(nil) })
}

func TestTerrainCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTerrain(reg)
	m.ChunksPainted.Inc()
	m.PaintSeconds.Observe(0.01)

	got := gathered(t, reg)
	assert.Equal(t, 1.0, got["voxelcore_terrain_chunks_painted_total"])
	assert.Equal(t, 0.0, got["voxelcore_terrain_chunks_empty_total"])
	assert.Equal(t, 1.0, got["voxelcore_terrain_paint_seconds"])
}
