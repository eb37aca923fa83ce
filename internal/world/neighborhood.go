package world

// PaddedSize is the edge of a chunk plus a one voxel border on each side.
const PaddedSize = ChunkSize + 2

const (
	paddedArea   = PaddedSize * PaddedSize
	paddedVolume = PaddedSize * PaddedSize * PaddedSize

	// CenterSlot is the slot of the chunk being meshed.
	CenterSlot = 13
)

type paddedCell struct {
	slot  uint8
	local uint16
}

// paddedTable maps a padded coordinate to the 3x3x3 slot holding it and the
// voxel index inside that slot's chunk.
var paddedTable [paddedVolume]paddedCell

// faceSlots lists the six face-adjacent slots with their inconclusive bit.
var faceSlots = [...]struct {
	slot int
	bit  uint8
}{
	{4, InconclusiveBottom},
	{10, InconclusiveBack},
	{12, InconclusiveLeft},
	{14, InconclusiveRight},
	{16, InconclusiveForward},
	{22, InconclusiveTop},
}

var (
	undergroundSentinel  [ChunkVolume]Voxel
	aboveTerrainSentinel [ChunkVolume]Voxel
)

func init() {
	slotOffset := func(p int) int {
		switch p {
		case 0:
			return 0
		case PaddedSize - 1:
			return 2
		default:
			return 1
		}
	}
	for py := 0; py < PaddedSize; py++ {
		for pz := 0; pz < PaddedSize; pz++ {
			for px := 0; px < PaddedSize; px++ {
				slot := slotOffset(py)*9 + slotOffset(pz)*3 + slotOffset(px)
				local := VoxelIndex((px+15)%ChunkSize, (py+15)%ChunkSize, (pz+15)%ChunkSize)
				paddedTable[PaddedIndex(px, py, pz)] = paddedCell{slot: uint8(slot), local: uint16(local)}
			}
		}
	}

	for i := range undergroundSentinel {
		undergroundSentinel[i] = Voxel{HasContent: true, Opaque: FullOpaque}
		aboveTerrainSentinel[i] = Voxel{Light: FullLight}
	}
}

// PaddedIndex returns the flat index of a padded coordinate in 0..17.
func PaddedIndex(px, py, pz int) int {
	return py*paddedArea + pz*PaddedSize + px
}

// PaddedCell returns the slot and local voxel index of a padded coordinate.
func PaddedCell(px, py, pz int) (slot, local int) {
	c := paddedTable[PaddedIndex(px, py, pz)]
	return int(c.slot), int(c.local)
}

// Neighborhood is the 3x3x3 block of voxel arrays around a chunk. Slots
// whose chunk is missing point at a shared read-only sentinel array.
// A Neighborhood is scratch owned by one meshing goroutine.
type Neighborhood struct {
	Slots [27]*[ChunkVolume]Voxel
}

// Resolve fills the slots for c from store. Missing or unpopulated face
// neighbors set the matching bit in c.InconclusiveNeighbours; the face
// bits are recomputed on every call. Resolve never blocks on population.
func (n *Neighborhood) Resolve(store *ChunkStore, c *Chunk) {
	sentinel := &undergroundSentinel
	if c.IsAboveSurface {
		sentinel = &aboveTerrainSentinel
	}

	for sy := 0; sy < 3; sy++ {
		for sz := 0; sz < 3; sz++ {
			for sx := 0; sx < 3; sx++ {
				slot := sy*9 + sz*3 + sx
				if slot == CenterSlot {
					n.Slots[slot] = &c.Voxels
					continue
				}
				nb := store.Neighbor(c.Coord, sx-1, sy-1, sz-1)
				if nb != nil && (nb.IsPopulated || nb.IsRendered()) {
					n.Slots[slot] = &nb.Voxels
				} else {
					n.Slots[slot] = sentinel
				}
			}
		}
	}

	mask := c.InconclusiveNeighbours & InconclusiveSelf
	for _, fs := range faceSlots {
		if n.Slots[fs.slot] == sentinel {
			mask |= fs.bit
		}
	}
	c.InconclusiveNeighbours = mask
}

// faceNeighbors pairs each face bit with the offset of the neighbor it
// refers to and the bit that neighbor uses for the shared face.
var faceNeighbors = [...]struct {
	bit, opposite uint8
	dx, dy, dz    int
}{
	{InconclusiveTop, InconclusiveBottom, 0, 1, 0},
	{InconclusiveBottom, InconclusiveTop, 0, -1, 0},
	{InconclusiveLeft, InconclusiveRight, -1, 0, 0},
	{InconclusiveRight, InconclusiveLeft, 1, 0, 0},
	{InconclusiveBack, InconclusiveForward, 0, 0, -1},
	{InconclusiveForward, InconclusiveBack, 0, 0, 1},
}

// RefreshInconclusive flags the face neighbors of c that were meshed
// against a sentinel in place of c. It returns the number of chunks
// flagged for a rebuild.
func (cs *ChunkStore) RefreshInconclusive(c *Chunk) int {
	n := 0
	for _, f := range faceNeighbors {
		nb := cs.Neighbor(c.Coord, f.dx, f.dy, f.dz)
		if nb != nil && nb.InconclusiveNeighbours&f.opposite != 0 {
			nb.NeedsRebuild = true
			n++
		}
	}
	return n
}

// HasArrivedNeighbors reports whether a face of c was meshed against a
// sentinel although the neighbor behind it is ready now.
func (cs *ChunkStore) HasArrivedNeighbors(c *Chunk) bool {
	for _, f := range faceNeighbors {
		if c.InconclusiveNeighbours&f.bit != 0 && cs.IsReady(c.Coord.Add(f.dx, f.dy, f.dz)) {
			return true
		}
	}
	return false
}

// At returns the voxel at a padded coordinate. The center chunk occupies
// padded 1..16 on every axis.
func (n *Neighborhood) At(px, py, pz int) *Voxel {
	cell := paddedTable[PaddedIndex(px, py, pz)]
	return &n.Slots[cell.slot][cell.local]
}

// IsSentinel reports whether slot was filled with a sentinel array.
func (n *Neighborhood) IsSentinel(slot int) bool {
	s := n.Slots[slot]
	return s == &undergroundSentinel || s == &aboveTerrainSentinel
}
