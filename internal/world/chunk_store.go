package world

import (
	"sync"

	"voxelcore/internal/profiling"
)

// ChunkWithCoord pairs a chunk with its coordinate.
type ChunkWithCoord struct {
	Chunk *Chunk
	Coord ChunkCoord
}

// ChunkStore maps chunk coordinates to handles in a chunk arena. Released
// chunks go back to a free list and keep their pool index.
type ChunkStore struct {
	// Map of chunks indexed by their coordinates
	chunks   map[ChunkCoord]*Chunk
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/remove

	arena []*Chunk
	free  []*Chunk
	// light used to clear reused chunks
	reuseLight uint8

	// Per-column index for fast XZ radius queries: (chunkX,chunkZ) -> coords in column
	colIndex map[[2]int]map[int]*Chunk
}

// NewChunkStore creates a new chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks:     make(map[ChunkCoord]*Chunk),
		colIndex:   make(map[[2]int]map[int]*Chunk),
		reuseLight: FullLight,
	}
}

// allocLocked returns a chunk from the free list or grows the arena.
func (cs *ChunkStore) allocLocked(coord ChunkCoord) *Chunk {
	var c *Chunk
	if n := len(cs.free); n > 0 {
		c = cs.free[n-1]
		cs.free = cs.free[:n-1]
		c.Coord = coord
	} else {
		c = NewChunk(coord.X, coord.Y, coord.Z)
		c.PoolIndex = len(cs.arena)
		cs.arena = append(cs.arena, c)
	}
	return c
}

func (cs *ChunkStore) insertLocked(coord ChunkCoord, c *Chunk) {
	cs.chunks[coord] = c
	cs.modCount++
	// maintain column index
	key := [2]int{coord.X, coord.Z}
	col := cs.colIndex[key]
	if col == nil {
		col = make(map[int]*Chunk)
		cs.colIndex[key] = col
	}
	col[coord.Y] = c
}

func (cs *ChunkStore) removeLocked(coord ChunkCoord) *Chunk {
	c, ok := cs.chunks[coord]
	if !ok {
		return nil
	}
	delete(cs.chunks, coord)
	cs.modCount++
	key := [2]int{coord.X, coord.Z}
	if col, ok := cs.colIndex[key]; ok {
		delete(col, coord.Y)
		if len(col) == 0 {
			delete(cs.colIndex, key)
		}
	}
	return c
}

// GetChunk returns the chunk at the specified chunk coordinates.
// If the chunk doesn't exist and create is true, it will be created (but NOT populated).
func (cs *ChunkStore) GetChunk(coord ChunkCoord, create bool) *Chunk {
	cs.mu.RLock()
	chunk, exists := cs.chunks[coord]
	cs.mu.RUnlock()
	if !exists && create {
		cs.mu.Lock()
		// Double-check locking: another goroutine might have created it while we were waiting for the lock
		if existing, ok := cs.chunks[coord]; ok {
			cs.mu.Unlock()
			return existing
		}
		chunk = cs.allocLocked(coord)
		cs.insertLocked(coord, chunk)
		cs.mu.Unlock()
	}
	return chunk
}

// Neighbor returns the loaded chunk offset from coord, or nil.
func (cs *ChunkStore) Neighbor(coord ChunkCoord, dx, dy, dz int) *Chunk {
	return cs.GetChunk(coord.Add(dx, dy, dz), false)
}

// IsReady reports whether the chunk exists and its voxels can be used by
// a neighbor's meshing pass.
func (cs *ChunkStore) IsReady(coord ChunkCoord) bool {
	c := cs.GetChunk(coord, false)
	return c != nil && (c.IsPopulated || c.IsRendered())
}

// GetChunkFromVoxelCoords returns the chunk containing the voxel at the specified world coordinates.
func (cs *ChunkStore) GetChunkFromVoxelCoords(x, y, z int, create bool) *Chunk {
	return cs.GetChunk(ChunkCoord{
		X: floorDiv(x, ChunkSize),
		Y: floorDiv(y, ChunkSize),
		Z: floorDiv(z, ChunkSize),
	}, create)
}

// Get returns the voxel at the specified world coordinates.
func (cs *ChunkStore) Get(x, y, z int) Voxel {
	chunk := cs.GetChunkFromVoxelCoords(x, y, z, false)
	if chunk == nil {
		return Empty
	}
	return chunk.Get(mod(x, ChunkSize), mod(y, ChunkSize), mod(z, ChunkSize))
}

// Set places a voxel definition at the specified world coordinates.
func (cs *ChunkStore) Set(x, y, z int, def *VoxelDefinition, tint [3]uint8) {
	chunk := cs.GetChunkFromVoxelCoords(x, y, z, true)

	// Convert world coordinates to local chunk coordinates
	localX := mod(x, ChunkSize)
	localY := mod(y, ChunkSize)
	localZ := mod(z, ChunkSize)

	chunk.Set(localX, localY, localZ, def, tint)
	chunk.IsPopulated = true

	// Mark neighbor chunks for rebuild if we touched a border voxel
	if localX == 0 {
		cs.markRebuild(x-1, y, z)
	} else if localX == ChunkSize-1 {
		cs.markRebuild(x+1, y, z)
	}
	if localY == 0 {
		cs.markRebuild(x, y-1, z)
	} else if localY == ChunkSize-1 {
		cs.markRebuild(x, y+1, z)
	}
	if localZ == 0 {
		cs.markRebuild(x, y, z-1)
	} else if localZ == ChunkSize-1 {
		cs.markRebuild(x, y, z+1)
	}
}

func (cs *ChunkStore) markRebuild(x, y, z int) {
	if nb := cs.GetChunkFromVoxelCoords(x, y, z, false); nb != nil {
		nb.NeedsRebuild = true
	}
}

// GetAllChunks returns a slice of all chunks in the world with their coordinates.
func (cs *ChunkStore) GetAllChunks() []ChunkWithCoord {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	chunks := make([]ChunkWithCoord, 0, len(cs.chunks))
	for coord, chunk := range cs.chunks {
		chunks = append(chunks, ChunkWithCoord{Chunk: chunk, Coord: coord})
	}
	return chunks
}

// AppendChunksInRadiusXZ appends all loaded chunks within a radius (in chunks)
// around a center chunk coordinate (cx, cz) into dst and returns the resulting slice.
func (cs *ChunkStore) AppendChunksInRadiusXZ(cx, cz, radius int, dst []ChunkWithCoord) []ChunkWithCoord {
	defer profiling.Track("world.AppendChunksInRadiusXZ")()
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if dx*dx+dz*dz > radius*radius {
				continue
			}
			xk := cx + dx
			zk := cz + dz
			for y, ch := range cs.colIndex[[2]int{xk, zk}] {
				dst = append(dst, ChunkWithCoord{Chunk: ch, Coord: ChunkCoord{X: xk, Y: y, Z: zk}})
			}
		}
	}
	return dst
}

// GetModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) GetModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// Release removes the chunk at coord and returns it to the arena.
func (cs *ChunkStore) Release(coord ChunkCoord) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	c := cs.removeLocked(coord)
	if c == nil {
		return false
	}
	c.PrepareForReuse(cs.reuseLight)
	cs.free = append(cs.free, c)
	return true
}

// EvictFarChunks releases chunks outside the given radius.
// Returns number of removed chunks.
func (cs *ChunkStore) EvictFarChunks(cx, cz, radius int) int {
	defer profiling.Track("world.EvictFarChunks")()
	removed := 0
	cs.mu.Lock()
	for coord := range cs.chunks {
		dx := coord.X - cx
		dz := coord.Z - cz
		if dx*dx+dz*dz > radius*radius {
			c := cs.removeLocked(coord)
			c.PrepareForReuse(cs.reuseLight)
			cs.free = append(cs.free, c)
			removed++
		}
	}
	cs.mu.Unlock()
	return removed
}

// HasChunk checks if a chunk exists without creating it (lite wrapper around RLock).
func (cs *ChunkStore) HasChunk(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, exists := cs.chunks[coord]
	cs.mu.RUnlock()
	return exists
}

// Acquire hands out an arena chunk for coord without making it visible.
// Pair it with AddChunk once the chunk is populated.
func (cs *ChunkStore) Acquire(coord ChunkCoord) *Chunk {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.allocLocked(coord)
}

// AddChunk adds a pre-generated chunk to the store. Chunks that did not
// come from Acquire join the arena so they get a pool index. Returns false
// if the coordinate is already taken.
func (cs *ChunkStore) AddChunk(coord ChunkCoord, chunk *Chunk) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.chunks[coord]; ok {
		return false
	}
	chunk.Coord = coord
	if chunk.PoolIndex < 0 || chunk.PoolIndex >= len(cs.arena) || cs.arena[chunk.PoolIndex] != chunk {
		chunk.PoolIndex = len(cs.arena)
		cs.arena = append(cs.arena, chunk)
	}
	cs.insertLocked(coord, chunk)
	return true
}

// Recycle returns a chunk obtained from Acquire that was never added.
func (cs *ChunkStore) Recycle(chunk *Chunk) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	chunk.PrepareForReuse(cs.reuseLight)
	cs.free = append(cs.free, chunk)
}

// Len returns the number of loaded chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
