package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/world"
)

// Every face is addressed in its own (u, v, slice) frame:
//
//	Back/Forward  u=x v=y slice=z
//	Left/Right    u=z v=y slice=x
//	Top/Bottom    u=x v=z slice=y
//
// Quad vertices are ordered bottom-left, top-left, bottom-right, top-right
// as seen from outside the voxel.

type faceFrame struct {
	// unit axes of u, v and slice
	u, v, n [3]int
	// plane is 1 when the face lies on the far side of its slice
	plane float32
	// flipU is set for faces whose left edge is at high u
	flipU bool
}

var faceFrames = [world.FaceCount]faceFrame{
	world.FaceTop:     {u: [3]int{1, 0, 0}, v: [3]int{0, 0, 1}, n: [3]int{0, 1, 0}, plane: 1},
	world.FaceBottom:  {u: [3]int{1, 0, 0}, v: [3]int{0, 0, 1}, n: [3]int{0, 1, 0}, plane: 0, flipU: true},
	world.FaceLeft:    {u: [3]int{0, 0, 1}, v: [3]int{0, 1, 0}, n: [3]int{1, 0, 0}, plane: 0, flipU: true},
	world.FaceRight:   {u: [3]int{0, 0, 1}, v: [3]int{0, 1, 0}, n: [3]int{1, 0, 0}, plane: 1},
	world.FaceForward: {u: [3]int{1, 0, 0}, v: [3]int{0, 1, 0}, n: [3]int{0, 0, 1}, plane: 1, flipU: true},
	world.FaceBack:    {u: [3]int{1, 0, 0}, v: [3]int{0, 1, 0}, n: [3]int{0, 0, 1}, plane: 0},
}

// cornerSigns gives, per quad vertex, whether it sits at the high u and
// high v edge.
var cornerSigns = [2][4][2]bool{
	{{false, false}, {false, true}, {true, false}, {true, true}},
	{{true, false}, {true, true}, {false, false}, {false, true}},
}

func (f *faceFrame) corners() *[4][2]bool {
	if f.flipU {
		return &cornerSigns[1]
	}
	return &cornerSigns[0]
}

// toUVS maps chunk-local voxel coordinates to the frame of face.
func toUVS(face world.FaceDirection, x, y, z int) (u, v, s int) {
	switch face {
	case world.FaceLeft, world.FaceRight:
		return z, y, x
	case world.FaceTop, world.FaceBottom:
		return x, z, y
	default:
		return x, y, z
	}
}

func (f *faceFrame) point(u, v, s float32) mgl32.Vec3 {
	var p mgl32.Vec3
	for i := 0; i < 3; i++ {
		p[i] = float32(f.u[i])*u + float32(f.v[i])*v + float32(f.n[i])*s
	}
	return p
}

// rectQuad returns the four corners of a w x h rectangle starting at
// (u0, v0) on the given slice, in chunk-local units.
func rectQuad(face world.FaceDirection, u0, v0, w, h, slice int) [4]mgl32.Vec3 {
	f := &faceFrames[face]
	s := float32(slice) + f.plane
	var q [4]mgl32.Vec3
	for i, c := range f.corners() {
		u := float32(u0)
		if c[0] {
			u += float32(w)
		}
		v := float32(v0)
		if c[1] {
			v += float32(h)
		}
		q[i] = f.point(u, v, s)
	}
	return q
}

// voxelQuad returns the corners of one face of the voxel at (x, y, z).
func voxelQuad(face world.FaceDirection, x, y, z int) [4]mgl32.Vec3 {
	u, v, s := toUVS(face, x, y, z)
	return rectQuad(face, u, v, 1, 1, s)
}

// cornerUV is the texture coordinate of each quad vertex.
var cornerUV = [4][2]float32{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

// aoSamples returns, for each vertex of face, the padded-space offsets of
// the two edge neighbors and the corner neighbor in the plane in front of
// the face.
func aoSamples(face world.FaceDirection) (s [4][3][3]int) {
	f := &faceFrames[face]
	dx, dy, dz := face.Offset()
	n := [3]int{dx, dy, dz}
	for i, c := range f.corners() {
		su, sv := -1, -1
		if c[0] {
			su = 1
		}
		if c[1] {
			sv = 1
		}
		for k := 0; k < 3; k++ {
			s[i][0][k] = n[k] + su*f.u[k]
			s[i][1][k] = n[k] + sv*f.v[k]
			s[i][2][k] = n[k] + su*f.u[k] + sv*f.v[k]
		}
	}
	return s
}

var faceAOSamples [world.FaceCount][4][3][3]int

func init() {
	for f := world.FaceDirection(0); f < world.FaceCount; f++ {
		faceAOSamples[f] = aoSamples(f)
	}
}
