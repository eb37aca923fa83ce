package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/world"
)

// Water vertices pack their shader data into UV0.w:
//
//	bits 0-7    foam (sides back/forward/left/right, corners bl/fl/fr/br)
//	bits 8-9    flow along z
//	bits 10-11  flow along x
//	bits 13-16  light
const (
	waterNoFlow     = 1 << 8
	waterLightShift = 13

	foamBack    = 1
	foamForward = 2
	foamLeft    = 4
	foamRight   = 8
	foamBL      = 16
	foamFL      = 32
	foamFR      = 64
	foamBR      = 128
)

// WaterCorners holds the surface height of each top corner in 0..15.
type WaterCorners struct {
	BL, FL, FR, BR int
}

// waterColumn is the water state around one voxel. Indices follow
// (dx+1) + (dz+1)*3 on the voxel's own layer (level) and the layer above
// (top).
type waterColumn struct {
	level [9]int
	top   [9]int
}

func columnIndex(dx, dz int) int { return (dx + 1) + (dz+1)*3 }

func (m *Mesher) readWaterColumn(px, py, pz int) (c waterColumn) {
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			i := columnIndex(dx, dz)
			c.level[i] = m.nb.At(px+dx, py, pz+dz).WaterLevel()
			c.top[i] = m.nb.At(px+dx, py+1, pz+dz).WaterLevel()
		}
	}
	return c
}

// cornerHeight is 15 when water stands on top of any of the three columns
// touching the corner, otherwise the highest level around it.
func (c *waterColumn) cornerHeight(dx, dz int) int {
	own := c.level[columnIndex(0, 0)]
	e1, e2, d := columnIndex(dx, 0), columnIndex(0, dz), columnIndex(dx, dz)
	if c.top[e1]*c.level[e1]+c.top[d]*c.level[d]+c.top[e2]*c.level[e2] > 0 {
		return world.MaxWaterLevel
	}
	return max(own, c.level[d], c.level[e1], c.level[e2])
}

// corners returns the corner heights of the column. Water directly above
// fills every corner.
func (c *waterColumn) corners() WaterCorners {
	if c.top[columnIndex(0, 0)] > 0 {
		return WaterCorners{BL: 15, FL: 15, FR: 15, BR: 15}
	}
	return WaterCorners{
		BL: c.cornerHeight(-1, -1),
		FL: c.cornerHeight(-1, 1),
		FR: c.cornerHeight(1, 1),
		BR: c.cornerHeight(1, -1),
	}
}

// flowBits encodes the surface slope. A column with water on top does not
// flow.
func flowBits(wc WaterCorners, covered bool) int {
	if covered {
		return waterNoFlow
	}
	flow := 0
	switch fx := wc.FR + wc.BR - wc.FL - wc.BL; {
	case fx < 0:
		flow += 2 << 10
	case fx == 0:
		flow += 1 << 10
	}
	switch fz := wc.FL + wc.FR - wc.BL - wc.BR; {
	case fz > 0:
		flow += 2 << 8
	case fz == 0:
		flow += 1 << 8
	}
	return flow
}

// waterSide describes one of the four vertical faces of a water voxel.
type waterSide struct {
	face   world.FaceDirection
	dx, dz int
	foam   int
}

var waterSides = [4]waterSide{
	{world.FaceBack, 0, -1, foamBack},
	{world.FaceForward, 0, 1, foamForward},
	{world.FaceLeft, -1, 0, foamLeft},
	{world.FaceRight, 1, 0, foamRight},
}

// sideHeights returns the top heights of the two upper vertices (v1, v3)
// of a side face.
func (wc WaterCorners) sideHeights(face world.FaceDirection) (int, int) {
	switch face {
	case world.FaceBack:
		return wc.BL, wc.BR
	case world.FaceForward:
		return wc.FR, wc.FL
	case world.FaceLeft:
		return wc.FL, wc.BL
	default:
		return wc.BR, wc.FR
	}
}

// addWater emits the surface, side curtains and bottom of the water voxel
// at chunk-local (x, y, z).
func (m *Mesher) addWater(def *world.VoxelDefinition, v *world.Voxel, x, y, z int) {
	px, py, pz := x+1, y+1, z+1
	col := m.readWaterColumn(px, py, pz)
	wc := col.corners()
	covered := col.top[columnIndex(0, 0)] > 0
	own := col.level[columnIndex(0, 0)]
	light := int(v.Light) << waterLightShift
	color := tintColor(v.Tint, m.opts.Tinting)

	foam := 0
	for _, s := range waterSides {
		n := m.nb.At(px+s.dx, py, pz+s.dz)
		tex := def.Textures[s.face]
		hi1, hi2 := wc.sideHeights(s.face)
		switch {
		case !n.HasContent:
			m.addWaterQuad(s.face, x, y, z, [4]int{0, hi1, 0, hi2}, tex, light+waterNoFlow, color, false)
		case n.WaterLevel() == 0:
			foam |= s.foam
		case m.nb.At(px+s.dx, py+1, pz+s.dz).WaterLevel() == 0:
			// curtain down to a shallower neighbor
			lo := n.WaterLevel()
			if lo < hi1 || lo < hi2 {
				m.addWaterQuad(s.face, x, y, z, [4]int{lo, max(hi1, lo), lo, max(hi2, lo)}, tex, light+waterNoFlow, color, false)
			}
		}
	}

	above := m.nb.At(px, py+1, pz)
	if !above.HasContent || (own < world.MaxWaterLevel && !covered) {
		if def.ShowFoam {
			foam |= m.cornerFoam(px, py, pz, &col)
		} else {
			foam = 0
		}
		w := light + foam + flowBits(wc, covered)
		tex := def.Textures[world.FaceTop]
		h := [4]int{wc.BL, wc.FL, wc.BR, wc.FR}
		m.addWaterQuad(world.FaceTop, x, y, z, h, tex, w, color, false)
		m.addWaterQuad(world.FaceTop, x, y, z, h, tex, w, color, true)
	}

	if !m.nb.At(px, py-1, pz).HasContent {
		m.addWaterQuad(world.FaceBottom, x, y, z, [4]int{}, def.Textures[world.FaceBottom], light+waterNoFlow, color, false)
	}
}

// cornerFoam marks corners whose diagonal neighbor is solid and holds no
// water.
func (m *Mesher) cornerFoam(px, py, pz int, col *waterColumn) int {
	foam := 0
	corners := [4]struct{ dx, dz, bit int }{
		{-1, -1, foamBL},
		{-1, 1, foamFL},
		{1, 1, foamFR},
		{1, -1, foamBR},
	}
	for _, c := range corners {
		if col.level[columnIndex(c.dx, c.dz)] == 0 && m.nb.At(px+c.dx, py, pz+c.dz).HasContent {
			foam |= c.bit
		}
	}
	return foam
}

// addWaterQuad emits one water quad. heights are per vertex in 0..15 above
// the voxel bottom. back emits the reverse side of the quad.
func (m *Mesher) addWaterQuad(face world.FaceDirection, x, y, z int, heights [4]int, texture, w int, color [4]uint8, back bool) {
	buf := m.buf
	q := voxelQuad(face, x, y, z)
	normal := face.Normal()
	pattern := &quadIndices
	if back {
		normal = normal.Mul(-1)
		pattern = &quadIndicesBack
	}
	base := int32(len(buf.Positions))
	for i := 0; i < 4; i++ {
		q[i][1] = float32(y) + float32(heights[i])/world.MaxWaterLevel
		buf.addVertex(q[i], normal, mgl32.Vec4{cornerUV[i][0], cornerUV[i][1], float32(texture), float32(w)}, color)
	}
	buf.addIndices(world.MaterialWater, base, pattern)
}
