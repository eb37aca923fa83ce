package meshing

import (
	"voxelcore/internal/world"
)

// Definitions resolves palette indices. Unknown indices must resolve to a
// default definition, never nil.
type Definitions interface {
	Get(index uint16) *world.VoxelDefinition
}

// Options toggles the optional outputs of a mesh pass.
type Options struct {
	SmoothLighting bool
	Colliders      bool
	NavMesh        bool
	Tinting        bool
	// PointMode emits greedy rectangles as single points.
	PointMode bool
}

// colliderOpaque is the occlusion above which a voxel blocks movement in
// the non smooth path.
const colliderOpaque = 5

// hiddenOpaqueSum is the neighbor occlusion total of a fully enclosed voxel.
const hiddenOpaqueSum = world.FaceCount * world.FullOpaque

// Mesher turns one chunk into render, collider and navmesh geometry. A
// Mesher is scratch for a single goroutine; the scheduler keeps one per
// lane.
type Mesher struct {
	store *world.ChunkStore
	defs  Definitions
	opts  Options

	nb       world.Neighborhood
	opaque   LitGreedyMesher
	cutout   LitGreedyMesher
	clouds   LitGreedyMesher
	collider GreedyMesher
	navmesh  GreedyMesher

	// per job
	job            *MeshJob
	buf            *MeshBuffers
	ox, oy, oz     int
	neighbors      [world.FaceCount]*world.Voxel
	neighborOpaque int
}

// NewMesher creates a mesher reading chunks from store.
func NewMesher(store *world.ChunkStore, defs Definitions, opts Options) *Mesher {
	return &Mesher{store: store, defs: defs, opts: opts}
}

// Options returns the options the mesher was created with.
func (m *Mesher) Options() Options { return m.opts }

func (m *Mesher) worldPos(x, y, z int) (int, int, int) {
	return m.ox + x, m.oy + y, m.oz + z
}

// Generate meshes job.Chunk into the job's buffers. The chunk's voxel
// signature is updated when the collider geometry changed.
func (m *Mesher) Generate(job *MeshJob) {
	job.reset()
	c := job.Chunk
	m.job = job
	m.buf = &job.Buffers
	m.ox, m.oy, m.oz = c.Coord.X*world.ChunkSize, c.Coord.Y*world.ChunkSize, c.Coord.Z*world.ChunkSize
	m.nb.Resolve(m.store, c)

	signature := 1
	idx := 0
	for y := 0; y < world.ChunkSize; y++ {
		for z := 0; z < world.ChunkSize; z++ {
			for x := 0; x < world.ChunkSize; x, idx = x+1, idx+1 {
				v := &c.Voxels[idx]
				if !v.HasContent {
					continue
				}
				m.loadNeighbors(x+1, y+1, z+1)
				if m.neighborOpaque == hiddenOpaqueSum {
					continue
				}
				job.TotalVoxels++
				signature += idx
				m.addVoxel(m.defs.Get(v.TypeIndex), v, idx, x, y, z)
			}
		}
	}

	if m.opts.PointMode {
		m.opaque.FlushPoints(m.buf, world.MaterialOpaque, m.opts.Tinting)
		m.cutout.FlushPoints(m.buf, world.MaterialCutout, m.opts.Tinting)
		m.clouds.FlushPoints(m.buf, world.MaterialOpaqueNoAO, m.opts.Tinting)
	} else {
		m.opaque.FlushToMesh(m.buf, world.MaterialOpaque, m.opts.Tinting)
		m.cutout.FlushToMesh(m.buf, world.MaterialCutout, m.opts.Tinting)
		m.clouds.FlushToMesh(m.buf, world.MaterialOpaqueNoAO, m.opts.Tinting)
	}

	job.NeedsColliderRebuild = signature != c.VoxelSignature
	if job.NeedsColliderRebuild {
		m.collider.FlushToMesh(&job.Collider)
		m.navmesh.FlushToMesh(&job.NavMesh)
		c.VoxelSignature = signature
	} else {
		m.collider.Clear()
		m.navmesh.Clear()
	}
	job.buckets = m.buf.UsedBuckets(job.buckets[:0])
	job.SubMeshCount = len(job.buckets)
	m.job, m.buf = nil, nil
}

func (m *Mesher) loadNeighbors(px, py, pz int) {
	sum := 0
	for f := world.FaceDirection(0); f < world.FaceCount; f++ {
		dx, dy, dz := f.Offset()
		n := m.nb.At(px+dx, py+dy, pz+dz)
		m.neighbors[f] = n
		sum += int(n.Opaque)
	}
	m.neighborOpaque = sum
}

func (m *Mesher) addVoxel(def *world.VoxelDefinition, v *world.Voxel, idx, x, y, z int) {
	switch def.RenderType {
	case world.RenderOpaque, world.RenderOpaque6Tex, world.RenderCutout:
		m.addSolid(def, v, x, y, z)
	case world.RenderCutoutCross:
		m.addCross(def, v, x, y, z)
	case world.RenderOpaqueNoAO:
		for f := world.FaceDirection(0); f < world.FaceCount; f++ {
			n := m.neighbors[f]
			if n.Opaque < world.FullOpaque && n.TypeIndex != v.TypeIndex {
				m.clouds.AddVoxelFace(f, x, y, z, def.Textures[f], 1, v.Tint)
			}
		}
	case world.RenderTransp6Tex:
		for f := world.FaceDirection(0); f < world.FaceCount; f++ {
			n := m.neighbors[f]
			if n.Opaque != world.FullOpaque && n.TypeIndex != v.TypeIndex {
				m.addTransparentFace(def, v, f, x, y, z)
				m.addCollision(def, f, x, y, z)
			}
		}
	case world.RenderWater:
		m.addWater(def, v, x, y, z)
	case world.RenderEmpty:
		for f := world.FaceDirection(0); f < world.FaceCount; f++ {
			if m.neighbors[f].Opaque < world.FullOpaque {
				m.addCollision(def, f, x, y, z)
			}
		}
	case world.RenderCustom:
		m.recordCustom(def, v, idx, x, y, z)
	}
}

// addSolid emits the visible faces of an opaque or cutout voxel.
func (m *Mesher) addSolid(def *world.VoxelDefinition, v *world.Voxel, x, y, z int) {
	cutout := def.RenderType == world.RenderCutout
	bucket := def.RenderType.MaterialBucket()
	jitter := float32(1)
	if cutout && m.opts.SmoothLighting {
		wx, wy, wz := m.worldPos(x, y, z)
		jitter = cutoutJitter(1, world.Random(wx, wy, wz), def.ColorVariation)
	}
	color := tintColor(v.Tint, m.opts.Tinting)
	rot := v.Rotation()

	for f := world.FaceDirection(0); f < world.FaceCount; f++ {
		n := m.neighbors[f]
		if n.Opaque >= world.FullOpaque {
			continue
		}
		tex := def.Texture(f, rot)
		switch {
		case m.opts.SmoothLighting:
			m.addAOFace(f, x, y, z, bucket, tex, jitter, color)
		case cutout:
			m.cutout.AddVoxelFace(f, x, y, z, tex, float32(n.Light)/world.FullLight, v.Tint)
		default:
			m.opaque.AddVoxelFace(f, x, y, z, tex, float32(n.Light)/world.FullLight, v.Tint)
		}
		if v.Opaque > colliderOpaque {
			m.addCollision(def, f, x, y, z)
		}
	}
}

// addCollision adds a face to the collider and, for navigable voxels other
// than bottom faces, to the navmesh.
func (m *Mesher) addCollision(def *world.VoxelDefinition, f world.FaceDirection, x, y, z int) {
	if m.opts.Colliders {
		m.collider.AddVoxelFace(f, x, y, z)
	}
	if m.opts.NavMesh && def.Navigable && f != world.FaceBottom {
		m.navmesh.AddVoxelFace(f, x, y, z)
	}
}
