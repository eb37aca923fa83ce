package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/world"
)

// MeshBuffers is the flat render geometry of one chunk. Vertices are shared
// by all material buckets; each bucket has its own index list.
type MeshBuffers struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	// UV0 is (u, v, texture, w). The meaning of w depends on the render type.
	UV0     []mgl32.Vec4
	Colors  [][4]uint8
	Indices [world.MaxMaterialsPerChunk][]int32
}

// Reset empties the buffers keeping their capacity.
func (b *MeshBuffers) Reset() {
	b.Positions = b.Positions[:0]
	b.Normals = b.Normals[:0]
	b.UV0 = b.UV0[:0]
	b.Colors = b.Colors[:0]
	for i := range b.Indices {
		b.Indices[i] = b.Indices[i][:0]
	}
}

// VertexCount returns the number of vertices.
func (b *MeshBuffers) VertexCount() int {
	return len(b.Positions)
}

// TriangleCount returns the number of triangles over all buckets.
func (b *MeshBuffers) TriangleCount() int {
	n := 0
	for i := range b.Indices {
		n += len(b.Indices[i])
	}
	return n / 3
}

// UsedBuckets appends the indices of the non-empty buckets to dst.
func (b *MeshBuffers) UsedBuckets(dst []int) []int {
	for i := range b.Indices {
		if len(b.Indices[i]) > 0 {
			dst = append(dst, i)
		}
	}
	return dst
}

func (b *MeshBuffers) addVertex(pos, normal mgl32.Vec3, uv mgl32.Vec4, color [4]uint8) {
	b.Positions = append(b.Positions, pos)
	b.Normals = append(b.Normals, normal)
	b.UV0 = append(b.UV0, uv)
	b.Colors = append(b.Colors, color)
}

// Index patterns for a quad whose vertices are bottom-left, top-left,
// bottom-right, top-right.
var (
	quadIndices        = [6]int32{0, 1, 2, 3, 2, 1}
	quadIndicesFlipped = [6]int32{0, 1, 3, 3, 2, 0}
	quadIndicesBack    = [6]int32{0, 2, 1, 3, 1, 2}
)

func (b *MeshBuffers) addIndices(bucket int, base int32, pattern *[6]int32) {
	idx := b.Indices[bucket]
	for _, p := range pattern {
		idx = append(idx, base+p)
	}
	b.Indices[bucket] = idx
}

// PlainMesh is position only geometry used for colliders and navmesh.
type PlainMesh struct {
	Positions []mgl32.Vec3
	Indices   []int32
}

// Reset empties the mesh keeping its capacity.
func (m *PlainMesh) Reset() {
	m.Positions = m.Positions[:0]
	m.Indices = m.Indices[:0]
}

// TriangleCount returns the number of triangles.
func (m *PlainMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *PlainMesh) addQuad(v [4]mgl32.Vec3) {
	base := int32(len(m.Positions))
	m.Positions = append(m.Positions, v[0], v[1], v[2], v[3])
	for _, p := range quadIndices {
		m.Indices = append(m.Indices, base+p)
	}
}
