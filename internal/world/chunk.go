package world

const (
	// Chunk dimensions
	ChunkSize   = 16
	ChunkArea   = ChunkSize * ChunkSize
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// RenderState tracks a chunk through the meshing pipeline. It only moves
// forward until the chunk is reused.
type RenderState uint8

const (
	RenderPending RenderState = iota
	RenderingRequested
	RenderingComplete
)

// Inconclusive neighbour bits. A bit is set when the face was meshed
// against a sentinel because the neighbor chunk was not available.
const (
	InconclusiveTop     = 1
	InconclusiveBottom  = 2
	InconclusiveLeft    = 4
	InconclusiveRight   = 8
	InconclusiveBack    = 16
	InconclusiveForward = 32
	// InconclusiveSelf asks neighbors to re-mesh once this chunk renders.
	InconclusiveSelf = 128
)

// ChunkCoord is the integer position of a chunk in chunk units.
type ChunkCoord struct {
	X, Y, Z int
}

// Add returns the coordinate offset by (dx, dy, dz).
func (c ChunkCoord) Add(dx, dy, dz int) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// Chunk is a 16x16x16 block of voxels. Neighbors are reached through the
// ChunkStore by coordinate.
type Chunk struct {
	Coord  ChunkCoord
	Voxels [ChunkVolume]Voxel

	RenderState            RenderState
	InconclusiveNeighbours uint8
	VoxelSignature         int
	// PoolIndex is the arena slot of the chunk; it selects the meshing lane.
	PoolIndex int

	IsAboveSurface bool
	IsPopulated    bool
	AllowTrees     bool
	Modified       bool
	NeedsRebuild   bool
}

// NewChunk creates a new chunk at the specified chunk coordinates
func NewChunk(x, y, z int) *Chunk {
	return &Chunk{
		Coord:          ChunkCoord{X: x, Y: y, Z: z},
		AllowTrees:     true,
		VoxelSignature: -1,
	}
}

// VoxelIndex converts local coordinates to a flat voxel index.
func VoxelIndex(x, y, z int) int {
	return y*ChunkArea + z*ChunkSize + x
}

// VoxelCoords converts a flat voxel index back to local coordinates.
func VoxelCoords(index int) (x, y, z int) {
	return index & 15, index >> 8, (index >> 4) & 15
}

func inBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize && z >= 0 && z < ChunkSize
}

// Get returns the voxel at the specified local coordinates
func (c *Chunk) Get(x, y, z int) Voxel {
	if !inBounds(x, y, z) {
		return Empty
	}
	return c.Voxels[VoxelIndex(x, y, z)]
}

// Set places a definition at the specified local coordinates
func (c *Chunk) Set(x, y, z int, def *VoxelDefinition, tint [3]uint8) {
	if !inBounds(x, y, z) {
		return
	}
	c.Voxels[VoxelIndex(x, y, z)].Set(def, tint)
	c.Modified = true
	c.NeedsRebuild = true
}

// ClearVoxel empties the voxel at the specified local coordinates
func (c *Chunk) ClearVoxel(x, y, z int, light uint8) {
	if !inBounds(x, y, z) {
		return
	}
	idx := VoxelIndex(x, y, z)
	if !c.Voxels[idx].HasContent {
		return
	}
	c.Voxels[idx].Clear(light)
	c.Modified = true
	c.NeedsRebuild = true
}

// IsEmpty reports whether no voxel in the chunk has content.
func (c *Chunk) IsEmpty() bool {
	for i := range c.Voxels {
		if c.Voxels[i].HasContent {
			return false
		}
	}
	return true
}

// IsRendered reports whether the chunk finished its first meshing pass.
func (c *Chunk) IsRendered() bool {
	return c.RenderState == RenderingComplete
}

// AdvanceRenderState moves the state forward; going back is ignored.
func (c *Chunk) AdvanceRenderState(s RenderState) {
	if s > c.RenderState {
		c.RenderState = s
	}
}

// MarkAsInconclusive flags that neighbors meshed before this chunk existed
// may need a refresh.
func (c *Chunk) MarkAsInconclusive() {
	c.InconclusiveNeighbours |= InconclusiveSelf
}

// ClearLightmap sets the light of every voxel.
func (c *Chunk) ClearLightmap(light uint8) {
	for i := range c.Voxels {
		c.Voxels[i].Light = clamp15(int(light))
	}
}

// PrepareForReuse clears chunk state before it goes back to the arena.
func (c *Chunk) PrepareForReuse(light uint8) {
	c.IsAboveSurface = false
	c.IsPopulated = false
	c.Modified = false
	c.NeedsRebuild = false
	c.AllowTrees = true
	c.RenderState = RenderPending
	c.InconclusiveNeighbours = 0
	c.VoxelSignature = -1
	for i := range c.Voxels {
		c.Voxels[i].Clear(light)
	}
}
