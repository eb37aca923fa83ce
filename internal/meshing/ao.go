package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/world"
)

// VertexLight returns the light of a face corner from the light of the
// voxel in front of the face (own), the two edge neighbors and the
// diagonal corner neighbor, all in 0..15. When both edge neighbors are
// dark the corner is not sampled.
func VertexLight(own, side1, side2, corner uint8) float32 {
	if side1|side2 == 0 {
		return float32(own) / 15
	}
	return float32(int(own)+int(side1)+int(side2)+int(corner)) / 60
}

// aoIndexPattern picks the diagonal that splits the quad so that the
// brighter corners share an edge.
func aoIndexPattern(w *[4]float32) *[6]int32 {
	if w[0]+w[3] > w[1]+w[2] {
		return &quadIndicesFlipped
	}
	return &quadIndices
}

// cutoutJitter scales a light value by the color variation of a voxel.
func cutoutJitter(light float32, rnd float32, variation float32) float32 {
	return light * (1 + (rnd-0.45)*variation)
}

// addAOFace appends one voxel face lit per corner. px, py, pz is the padded
// coordinate of the voxel.
func (m *Mesher) addAOFace(face world.FaceDirection, x, y, z int, bucket, texture int, jitter float32, color [4]uint8) {
	px, py, pz := x+1, y+1, z+1
	dx, dy, dz := face.Offset()
	own := m.nb.At(px+dx, py+dy, pz+dz).Light

	var w [4]float32
	for i, s := range &faceAOSamples[face] {
		s1 := m.nb.At(px+s[0][0], py+s[0][1], pz+s[0][2]).Light
		s2 := m.nb.At(px+s[1][0], py+s[1][1], pz+s[1][2]).Light
		c := m.nb.At(px+s[2][0], py+s[2][1], pz+s[2][2]).Light
		w[i] = VertexLight(own, s1, s2, c) * jitter
	}

	buf := m.buf
	q := voxelQuad(face, x, y, z)
	normal := face.Normal()
	base := int32(len(buf.Positions))
	for i := 0; i < 4; i++ {
		buf.addVertex(q[i], normal, mgl32.Vec4{cornerUV[i][0], cornerUV[i][1], float32(texture), w[i]}, color)
	}
	buf.addIndices(bucket, base, aoIndexPattern(&w))
}
