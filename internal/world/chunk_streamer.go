package world

import (
	"runtime"
	"sync"

	"voxelcore/internal/profiling"
)

// Populator fills freshly acquired chunks with terrain.
type Populator interface {
	// PaintChunk writes voxels into c and reports whether any has content.
	PaintChunk(c *Chunk) bool
	// SurfaceY returns the highest surface voxel Y (water or ground) of a world column.
	SurfaceY(worldX, worldZ int) int
}

// ChunkStreamer manages asynchronous chunk population.
type ChunkStreamer struct {
	jobs       chan ChunkCoord
	pending    map[ChunkCoord]struct{}
	pendingMu  sync.Mutex
	maxPending int
	wg         sync.WaitGroup

	maxJobsPerCall int
	minChunkY      int

	// Cached column tops per (chunkX, chunkZ) -> maxChunkY
	heightCache   map[[2]int]int
	heightCacheMu sync.RWMutex

	// Dependencies
	store *ChunkStore
	gen   Populator
}

// NewChunkStreamer creates a new chunk streamer. minChunkY is the lowest
// chunk layer requested for every column.
func NewChunkStreamer(store *ChunkStore, gen Populator, minChunkY int) *ChunkStreamer {
	cs := &ChunkStreamer{
		jobs:           make(chan ChunkCoord, 4096),
		pending:        make(map[ChunkCoord]struct{}),
		maxJobsPerCall: 2048,
		maxPending:     16384,
		minChunkY:      minChunkY,
		heightCache:    make(map[[2]int]int),
		store:          store,
		gen:            gen,
	}

	workers := max(runtime.NumCPU()-1, 1)
	for i := 0; i < workers; i++ {
		cs.wg.Add(1)
		go cs.worker()
	}

	return cs
}

// Close stops the background generation workers and waits for them.
func (cs *ChunkStreamer) Close() {
	close(cs.jobs)
	cs.wg.Wait()
}

func (cs *ChunkStreamer) worker() {
	defer cs.wg.Done()
	for coord := range cs.jobs {
		cs.generateChunkSync(coord)
		cs.pendingMu.Lock()
		delete(cs.pending, coord)
		cs.pendingMu.Unlock()
	}
}

// generateChunkSync populates and installs a chunk if missing.
func (cs *ChunkStreamer) generateChunkSync(coord ChunkCoord) {
	if cs.store.HasChunk(coord) {
		return
	}

	chunk := cs.store.Acquire(coord)
	cs.gen.PaintChunk(chunk)
	chunk.IsPopulated = true

	if !cs.store.AddChunk(coord, chunk) {
		cs.store.Recycle(chunk)
	}
}

// Pending returns the number of queued or running population jobs.
func (cs *ChunkStreamer) Pending() int {
	cs.pendingMu.Lock()
	defer cs.pendingMu.Unlock()
	return len(cs.pending)
}

// StreamChunksAroundSync populates chunks synchronously.
func (cs *ChunkStreamer) StreamChunksAroundSync(cx, cz, radius int) {
	defer profiling.Track("world.StreamChunksAroundSync")()
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			chunkX := cx + dx
			chunkZ := cz + dz
			maxChunkY := cs.columnTop(chunkX, chunkZ)
			for cy := cs.minChunkY; cy <= maxChunkY; cy++ {
				cs.generateChunkSync(ChunkCoord{X: chunkX, Y: cy, Z: chunkZ})
			}
		}
	}
}

// StreamChunksAroundAsync queues chunks for async population in rings
// around (cx, cz).
func (cs *ChunkStreamer) StreamChunksAroundAsync(cx, cz, radius int) {
	defer profiling.Track("world.StreamChunksAroundAsync")()

	jobsPushed := 0

	for r := 0; r <= radius; r++ {
		if jobsPushed >= cs.maxJobsPerCall {
			break
		}

		if r == 0 {
			jobsPushed += cs.enqueueColumn(cx, cz)
			continue
		}

		x0 := cx - r
		x1 := cx + r
		z0 := cz - r
		z1 := cz + r

		for xk := x0; xk <= x1; xk++ {
			jobsPushed += cs.enqueueColumn(xk, z0)
			if jobsPushed >= cs.maxJobsPerCall {
				return
			}
		}
		for zk := z0 + 1; zk <= z1-1; zk++ {
			jobsPushed += cs.enqueueColumn(x1, zk)
			if jobsPushed >= cs.maxJobsPerCall {
				return
			}
		}
		for xk := x1; xk >= x0; xk-- {
			jobsPushed += cs.enqueueColumn(xk, z1)
			if jobsPushed >= cs.maxJobsPerCall {
				return
			}
		}
		for zk := z1 - 1; zk >= z0+1; zk-- {
			jobsPushed += cs.enqueueColumn(x0, zk)
			if jobsPushed >= cs.maxJobsPerCall {
				return
			}
		}
	}
}

// columnTop returns the highest chunk Y needed for a column, cached.
func (cs *ChunkStreamer) columnTop(chunkX, chunkZ int) int {
	key := [2]int{chunkX, chunkZ}
	cs.heightCacheMu.RLock()
	cached, ok := cs.heightCache[key]
	cs.heightCacheMu.RUnlock()
	if ok {
		return cached
	}
	worldX := chunkX*ChunkSize + ChunkSize/2
	worldZ := chunkZ*ChunkSize + ChunkSize/2
	top := max(floorDiv(cs.gen.SurfaceY(worldX, worldZ), ChunkSize), cs.minChunkY)
	cs.heightCacheMu.Lock()
	cs.heightCache[key] = top
	cs.heightCacheMu.Unlock()
	return top
}

// enqueueColumn enqueues all needed Y-chunks for a column.
func (cs *ChunkStreamer) enqueueColumn(chunkX, chunkZ int) int {
	// check pending cap
	cs.pendingMu.Lock()
	if cs.maxPending > 0 && len(cs.pending) >= cs.maxPending {
		cs.pendingMu.Unlock()
		return 0
	}
	cs.pendingMu.Unlock()

	maxChunkY := cs.columnTop(chunkX, chunkZ)
	enq := 0
	for cy := cs.minChunkY; cy <= maxChunkY; cy++ {
		if cs.requestChunkLimited(ChunkCoord{X: chunkX, Y: cy, Z: chunkZ}) {
			enq++
		}
	}
	return enq
}

// requestChunkLimited respects pending cap and returns true if enqueued.
func (cs *ChunkStreamer) requestChunkLimited(coord ChunkCoord) bool {
	// already present?
	if cs.store.HasChunk(coord) {
		return false
	}

	// pending check + cap
	cs.pendingMu.Lock()
	if _, ok := cs.pending[coord]; ok {
		cs.pendingMu.Unlock()
		return false
	}
	if cs.maxPending > 0 && len(cs.pending) >= cs.maxPending {
		cs.pendingMu.Unlock()
		return false
	}
	cs.pending[coord] = struct{}{}
	cs.pendingMu.Unlock()

	select {
	case cs.jobs <- coord:
		return true
	default:
		// queue full: rollback
		cs.pendingMu.Lock()
		delete(cs.pending, coord)
		cs.pendingMu.Unlock()
		return false
	}
}

// EvictFarChunks releases chunks outside the given radius around (cx, cz).
func (cs *ChunkStreamer) EvictFarChunks(cx, cz, radius int) int {
	// Delegate physical removal to Store
	removed := cs.store.EvictFarChunks(cx, cz, radius)

	// Prune height cache entries outside radius
	cs.heightCacheMu.Lock()
	for key := range cs.heightCache {
		dx := key[0] - cx
		dz := key[1] - cz
		if dx*dx+dz*dz > radius*radius {
			delete(cs.heightCache, key)
		}
	}
	cs.heightCacheMu.Unlock()

	return removed
}
