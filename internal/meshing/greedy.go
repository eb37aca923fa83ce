package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/world"
)

// greedyBinCount is one bin per (direction, slice).
const greedyBinCount = world.FaceCount * world.ChunkSize

// faceSignature decides which faces may merge.
type faceSignature struct {
	texture int32
	light   float32
	tint    [3]uint8
}

type greedyCell struct {
	set bool
	sig faceSignature
}

type greedyBin struct {
	cells [world.ChunkArea]greedyCell
	count int
}

// greedyRect is one merged rectangle of a bin.
type greedyRect struct {
	face         world.FaceDirection
	slice        int
	u0, v0, w, h int
	sig          faceSignature
}

// greedyBins collects faces per (direction, slice) and merges them into
// maximal rectangles on flush.
type greedyBins struct {
	bins [greedyBinCount]greedyBin
	used []int
}

func (g *greedyBins) add(face world.FaceDirection, u, v, slice int, sig faceSignature) {
	bi := int(face)*world.ChunkSize + slice
	b := &g.bins[bi]
	c := &b.cells[v*world.ChunkSize+u]
	if !c.set {
		c.set = true
		if b.count == 0 {
			g.used = append(g.used, bi)
		}
		b.count++
	}
	c.sig = sig
}

// pending returns the number of faces added since the last flush.
func (g *greedyBins) pending() int {
	n := 0
	for _, bi := range g.used {
		n += g.bins[bi].count
	}
	return n
}

// clear drops all pending faces.
func (g *greedyBins) clear() {
	for _, bi := range g.used {
		b := &g.bins[bi]
		for i := range b.cells {
			b.cells[i].set = false
		}
		b.count = 0
	}
	g.used = g.used[:0]
}

// flush merges every used bin and calls emit once per rectangle. Cells are
// consumed as they are merged so the bins end empty.
func (g *greedyBins) flush(emit func(r greedyRect)) {
	const n = world.ChunkSize
	for _, bi := range g.used {
		b := &g.bins[bi]
		face := world.FaceDirection(bi / n)
		slice := bi % n
		for v := 0; v < n && b.count > 0; v++ {
			for u := 0; u < n; u++ {
				cell := b.cells[v*n+u]
				if !cell.set {
					continue
				}
				// compute width
				w := 1
				for u+w < n {
					next := b.cells[v*n+u+w]
					if !next.set || next.sig != cell.sig {
						break
					}
					w++
				}
				// compute height
				h := 1
			grow:
				for v+h < n {
					row := (v + h) * n
					for k := u; k < u+w; k++ {
						c := b.cells[row+k]
						if !c.set || c.sig != cell.sig {
							break grow
						}
					}
					h++
				}
				// consume
				for vv := v; vv < v+h; vv++ {
					for uu := u; uu < u+w; uu++ {
						b.cells[vv*n+uu].set = false
					}
				}
				b.count -= w * h
				emit(greedyRect{face: face, slice: slice, u0: u, v0: v, w: w, h: h, sig: cell.sig})
			}
		}
	}
	g.used = g.used[:0]
}

// GreedyMesher merges untextured faces for collider and navmesh geometry.
type GreedyMesher struct {
	greedyBins
}

// AddQuad adds one face. u, v and slice follow the frame of face.
func (g *GreedyMesher) AddQuad(face world.FaceDirection, u, v, slice int) {
	g.add(face, u, v, slice, faceSignature{})
}

// AddVoxelFace adds the face of the voxel at chunk-local (x, y, z).
func (g *GreedyMesher) AddVoxelFace(face world.FaceDirection, x, y, z int) {
	u, v, s := toUVS(face, x, y, z)
	g.AddQuad(face, u, v, s)
}

// Pending returns the number of faces waiting for FlushToMesh.
func (g *GreedyMesher) Pending() int { return g.pending() }

// Clear drops the pending faces.
func (g *GreedyMesher) Clear() { g.clear() }

// FlushToMesh merges the pending faces into m.
func (g *GreedyMesher) FlushToMesh(m *PlainMesh) {
	g.flush(func(r greedyRect) {
		m.addQuad(rectQuad(r.face, r.u0, r.v0, r.w, r.h, r.slice))
	})
}

// LitGreedyMesher merges faces that share texture, light and tint.
type LitGreedyMesher struct {
	greedyBins
}

// AddQuad adds one face. u, v and slice follow the frame of face.
func (g *LitGreedyMesher) AddQuad(face world.FaceDirection, u, v, slice int, texture int, light float32, tint [3]uint8) {
	g.add(face, u, v, slice, faceSignature{texture: int32(texture), light: light, tint: tint})
}

// AddVoxelFace adds the face of the voxel at chunk-local (x, y, z).
func (g *LitGreedyMesher) AddVoxelFace(face world.FaceDirection, x, y, z int, texture int, light float32, tint [3]uint8) {
	u, v, s := toUVS(face, x, y, z)
	g.AddQuad(face, u, v, s, texture, light, tint)
}

// Pending returns the number of faces waiting for a flush.
func (g *LitGreedyMesher) Pending() int { return g.pending() }

// Clear drops the pending faces.
func (g *LitGreedyMesher) Clear() { g.clear() }

// FlushToMesh merges the pending faces into bucket of buf. UVs tile the
// texture once per voxel.
func (g *LitGreedyMesher) FlushToMesh(buf *MeshBuffers, bucket int, tinting bool) {
	g.flush(func(r greedyRect) {
		q := rectQuad(r.face, r.u0, r.v0, r.w, r.h, r.slice)
		normal := r.face.Normal()
		color := tintColor(r.sig.tint, tinting)
		base := int32(len(buf.Positions))
		for i := 0; i < 4; i++ {
			uv := mgl32.Vec4{cornerUV[i][0] * float32(r.w), cornerUV[i][1] * float32(r.h), float32(r.sig.texture), r.sig.light}
			buf.addVertex(q[i], normal, uv, color)
		}
		buf.addIndices(bucket, base, &quadIndices)
	})
}

// FlushPoints emits one vertex per rectangle for expansion on the GPU. The
// normal channel carries (width, height, face).
func (g *LitGreedyMesher) FlushPoints(buf *MeshBuffers, bucket int, tinting bool) {
	g.flush(func(r greedyRect) {
		f := &faceFrames[r.face]
		pos := f.point(float32(r.u0), float32(r.v0), float32(r.slice)+f.plane)
		size := mgl32.Vec3{float32(r.w), float32(r.h), float32(r.face)}
		uv := mgl32.Vec4{0, 0, float32(r.sig.texture), r.sig.light}
		buf.Indices[bucket] = append(buf.Indices[bucket], int32(len(buf.Positions)))
		buf.addVertex(pos, size, uv, tintColor(r.sig.tint, tinting))
	})
}

func tintColor(tint [3]uint8, tinting bool) [4]uint8 {
	if !tinting {
		return [4]uint8{255, 255, 255, 255}
	}
	return [4]uint8{tint[0], tint[1], tint[2], 255}
}
