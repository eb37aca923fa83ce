package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voxelcore/internal/logging"
)

// Scheduler holds the collectors of the mesh generation scheduler.
type Scheduler struct {
	Enqueued          prometheus.Counter
	Rejected          prometheus.Counter
	Generated         prometheus.Counter
	Uploaded          prometheus.Counter
	LaneFailures      prometheus.Counter
	Ready             prometheus.Gauge
	GenerationSeconds prometheus.Histogram
}

// NewScheduler creates the scheduler collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewScheduler(reg prometheus.Registerer) *Scheduler {
	m := &Scheduler{
		Enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelcore",
			Subsystem: "meshing",
			Name:      "jobs_enqueued_total",
			Help:      "Mesh jobs claimed and sent to a lane.",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelcore",
			Subsystem: "meshing",
			Name:      "jobs_rejected_total",
			Help:      "Mesh job requests refused because the lane ring was full.",
		}),
		Generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelcore",
			Subsystem: "meshing",
			Name:      "jobs_generated_total",
			Help:      "Mesh jobs whose geometry was generated.",
		}),
		Uploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelcore",
			Subsystem: "meshing",
			Name:      "jobs_uploaded_total",
			Help:      "Mesh jobs handed to the presenter.",
		}),
		LaneFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelcore",
			Subsystem: "meshing",
			Name:      "lane_failures_total",
			Help:      "Lanes stopped by a recovered panic.",
		}),
		Ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxelcore",
			Subsystem: "meshing",
			Name:      "jobs_ready",
			Help:      "Generated mesh jobs waiting for upload.",
		}),
		GenerationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxelcore",
			Subsystem: "meshing",
			Name:      "generation_seconds",
			Help:      "Time spent generating one chunk mesh.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Enqueued, m.Rejected, m.Generated, m.Uploaded, m.LaneFailures, m.Ready, m.GenerationSeconds)
	}
	return m
}

// ObserveGeneration records one generated job.
func (m *Scheduler) ObserveGeneration(d time.Duration) {
	m.Generated.Inc()
	m.GenerationSeconds.Observe(d.Seconds())
}

// Terrain holds the collectors of the terrain painter.
type Terrain struct {
	ChunksPainted prometheus.Counter
	EmptyChunks   prometheus.Counter
	PaintSeconds  prometheus.Histogram
}

// NewTerrain creates the terrain collectors and registers them on reg.
func NewTerrain(reg prometheus.Registerer) *Terrain {
	m := &Terrain{
		ChunksPainted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelcore",
			Subsystem: "terrain",
			Name:      "chunks_painted_total",
			Help:      "Chunks filled by the terrain painter.",
		}),
		EmptyChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxelcore",
			Subsystem: "terrain",
			Name:      "chunks_empty_total",
			Help:      "Painted chunks that ended without content.",
		}),
		PaintSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxelcore",
			Subsystem: "terrain",
			Name:      "paint_seconds",
			Help:      "Time spent painting one chunk.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ChunksPainted, m.EmptyChunks, m.PaintSeconds)
	}
	return m
}

// StartHTTP serves g on addr under /metrics. The call does not block; the
// returned server can be shut down by the caller.
func StartHTTP(addr string, g prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logging.Info("metrics available at %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("metrics server: %v", err)
		}
	}()
	return srv
}
