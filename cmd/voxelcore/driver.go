package main

import (
	"context"
	"sync"
	"time"

	"voxelcore/internal/config"
	"voxelcore/internal/logging"
	"voxelcore/internal/meshing"
	"voxelcore/internal/profiling"
	"voxelcore/internal/terrain"
	"voxelcore/internal/world"
)

const (
	frameInterval = 16 * time.Millisecond
	// detailsPerFrame bounds the trees and plants placed per frame.
	detailsPerFrame = 256
)

// driver runs the headless frame loop: stream terrain around the origin,
// place deferred details, enqueue mesh jobs and upload finished meshes.
type driver struct {
	store     *world.ChunkStore
	streamer  *world.ChunkStreamer
	scheduler *meshing.Scheduler
	details   *terrain.DetailQueue
	inline    bool

	frames  int
	profile bool

	presenter *statsPresenter
	visible   []world.ChunkWithCoord
	frame     int
}

func newDriver(store *world.ChunkStore, streamer *world.ChunkStreamer, scheduler *meshing.Scheduler, details *terrain.DetailQueue, inline bool) *driver {
	return &driver{
		store:     store,
		streamer:  streamer,
		scheduler: scheduler,
		details:   details,
		inline:    inline,
		presenter: newStatsPresenter(store),
	}
}

func (d *driver) run(ctx context.Context) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	lastReport := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		d.tick(ctx)
		d.frame++

		if time.Since(lastReport) >= time.Second {
			d.logStats()
			if d.profile {
				logging.Info("frame: %s", profiling.TopN(5))
			}
			lastReport = time.Now()
		}
		if d.frames > 0 && d.frame >= d.frames {
			return
		}
	}
}

func (d *driver) tick(ctx context.Context) {
	profiling.ResetFrame()
	radius := config.GetChunkLoadRadius()

	d.streamer.StreamChunksAroundAsync(0, 0, radius)

	func() {
		defer profiling.Track("terrain.PlaceDetails")()
		d.details.Drain(detailsPerFrame, func(r terrain.DetailRequest) {
			terrain.PlaceDetail(d.store, r)
		})
	}()

	d.enqueue(radius)
	d.mesh(ctx)
}

// mesh generates queued jobs when running inline and uploads finished ones.
// Both share the upload budget of the frame.
func (d *driver) mesh(ctx context.Context) {
	budget, cancel := context.WithTimeout(ctx, config.GetUploadBudget())
	defer cancel()
	if d.inline {
		func() {
			defer profiling.Track("meshing.GenerateInline")()
			d.scheduler.GenerateInline(budget)
		}()
	}
	func() {
		defer profiling.Track("meshing.UploadReady")()
		d.scheduler.UploadReady(budget, d.presenter)
	}()
}

// enqueue requests meshes for populated chunks that are new or changed. A
// chunk meshed for the first time also flags neighbors whose faces were
// built against a sentinel in its place.
func (d *driver) enqueue(radius int) {
	defer profiling.Track("meshing.Enqueue")()
	d.visible = d.store.AppendChunksInRadiusXZ(0, 0, radius, d.visible[:0])
	for _, cc := range d.visible {
		c := cc.Chunk
		if !c.IsPopulated || d.presenter.inFlight(c) {
			continue
		}
		if c.RenderState != world.RenderPending && !c.NeedsRebuild {
			continue
		}
		if c.RenderState == world.RenderPending {
			d.store.RefreshInconclusive(c)
		}
		d.presenter.track(c)
		if !d.scheduler.CreateChunkMeshJob(c) {
			d.presenter.untrack(c)
			// this lane is full; others may still have room
			continue
		}
		c.NeedsRebuild = false
	}
}

func (d *driver) logStats() {
	s := d.presenter.snapshot()
	logging.Info("chunks=%d pending=%d meshes=%d empty=%d triangles=%d colliders=%d details_dropped=%d",
		d.store.Len(), d.scheduler.Pending(), s.meshes, s.cleared, s.triangles, s.colliders, d.details.Dropped())
}

type presenterStats struct {
	meshes, cleared, colliders, triangles int
}

// statsPresenter stands in for a renderer: it counts what it receives
// and tracks which chunks have a job in flight. An uploaded chunk whose
// missing neighbors have arrived meanwhile is flagged for a rebuild.
type statsPresenter struct {
	store   *world.ChunkStore
	mu      sync.Mutex
	stats   presenterStats
	pending map[*world.Chunk]struct{}
}

func newStatsPresenter(store *world.ChunkStore) *statsPresenter {
	return &statsPresenter{store: store, pending: make(map[*world.Chunk]struct{})}
}

func (p *statsPresenter) uploaded(c *world.Chunk) {
	delete(p.pending, c)
	if p.store.HasArrivedNeighbors(c) {
		c.NeedsRebuild = true
	}
}

func (p *statsPresenter) track(c *world.Chunk) {
	p.mu.Lock()
	p.pending[c] = struct{}{}
	p.mu.Unlock()
}

func (p *statsPresenter) untrack(c *world.Chunk) {
	p.mu.Lock()
	delete(p.pending, c)
	p.mu.Unlock()
}

func (p *statsPresenter) inFlight(c *world.Chunk) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.pending[c]
	return ok
}

func (p *statsPresenter) snapshot() presenterStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *statsPresenter) ApplyGeometry(c *world.Chunk, job *meshing.MeshJob) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.meshes++
	p.stats.triangles += job.Buffers.TriangleCount()
	p.uploaded(c)
}

func (p *statsPresenter) ApplyCollider(_ *world.Chunk, collider, _ *meshing.PlainMesh) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if collider.TriangleCount() > 0 {
		p.stats.colliders++
	}
}

func (p *statsPresenter) ClearGeometry(c *world.Chunk) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.cleared++
	p.uploaded(c)
}
