package terrain

import (
	"sync/atomic"

	"voxelcore/internal/world"
)

// DetailRequest asks for a tree or a vegetation voxel to be placed after
// the chunk that requested it has been painted. Exactly one of Tree and
// Vegetation is set.
type DetailRequest struct {
	Chunk      world.ChunkCoord
	VoxelIndex int
	Tree       *TreeDefinition
	Vegetation *world.VoxelDefinition
}

// DetailSink receives deferred detail requests from the painter. It is
// called from the population workers.
type DetailSink interface {
	RequestDetail(req DetailRequest)
}

// DetailQueue is a bounded DetailSink. Requests arriving while the queue
// is full are dropped and counted.
type DetailQueue struct {
	ch      chan DetailRequest
	dropped atomic.Int64
}

func NewDetailQueue(capacity int) *DetailQueue {
	return &DetailQueue{ch: make(chan DetailRequest, max(capacity, 1))}
}

// RequestDetail implements DetailSink.
func (q *DetailQueue) RequestDetail(req DetailRequest) {
	select {
	case q.ch <- req:
	default:
		q.dropped.Add(1)
	}
}

// Len returns the number of queued requests.
func (q *DetailQueue) Len() int {
	return len(q.ch)
}

// Dropped returns how many requests were lost to a full queue.
func (q *DetailQueue) Dropped() int64 {
	return q.dropped.Load()
}

// Drain hands at most limit queued requests to fn without blocking. A
// limit <= 0 drains everything queued.
func (q *DetailQueue) Drain(limit int, fn func(DetailRequest)) int {
	n := 0
	for limit <= 0 || n < limit {
		select {
		case req := <-q.ch:
			fn(req)
			n++
		default:
			return n
		}
	}
	return n
}

// PlaceDetail writes a request into the store. Tree voxels only fill
// empty cells; vegetation needs an empty cell above solid ground. It
// returns how many voxels were written.
func PlaceDetail(store *world.ChunkStore, req DetailRequest) int {
	x, y, z := world.VoxelCoords(req.VoxelIndex)
	wx := req.Chunk.X*world.ChunkSize + x
	wy := req.Chunk.Y*world.ChunkSize + y
	wz := req.Chunk.Z*world.ChunkSize + z

	switch {
	case req.Tree != nil:
		placed := 0
		for _, tv := range req.Tree.Voxels {
			px, py, pz := wx+tv.Offset[0], wy+1+tv.Offset[1], wz+tv.Offset[2]
			if store.Get(px, py, pz).HasContent {
				continue
			}
			if store.GetChunkFromVoxelCoords(px, py, pz, false) == nil {
				continue
			}
			store.Set(px, py, pz, tv.Voxel, tv.Voxel.Tint)
			placed++
		}
		return placed
	case req.Vegetation != nil:
		if store.Get(wx, wy, wz).HasContent || !store.Get(wx, wy-1, wz).HasContent {
			return 0
		}
		if store.GetChunkFromVoxelCoords(wx, wy, wz, false) == nil {
			return 0
		}
		store.Set(wx, wy, wz, req.Vegetation, req.Vegetation.Tint)
		return 1
	}
	return 0
}
