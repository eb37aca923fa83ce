package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/world"
)

// windFlag marks vegetation vertices the shader sways.
const windFlag = 1 << 16

// crossQuads are the two diagonal planes of a vegetation voxel relative to
// its center.
var crossQuads = [2][4]mgl32.Vec3{
	{{-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}},
	{{-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}},
}

// addCross emits the two crossed quads of a CutoutCross voxel. The quads
// are displaced and tinted by stable per-position random values.
func (m *Mesher) addCross(def *world.VoxelDefinition, v *world.Voxel, x, y, z int) {
	wx, wy, wz := m.worldPos(x, y, z)
	r := world.Random(wx, wy, wz)
	r2 := world.Random(wz, wy, wx)

	light := cutoutJitter(float32(v.Light)/world.FullLight, r, def.ColorVariation)
	tex := def.Textures[world.FaceForward]
	if def.WindAnimation {
		tex |= windFlag
	}

	center := mgl32.Vec3{
		float32(x) + 0.5 + r*0.5 - 0.25,
		float32(y) + 0.5 - r2*0.1,
		float32(z) + 0.5 + r2*0.5 - 0.25,
	}
	color := tintColor(v.Tint, m.opts.Tinting)
	buf := m.buf
	for _, quad := range &crossQuads {
		base := int32(len(buf.Positions))
		for i, p := range quad {
			buf.addVertex(center.Add(p), mgl32.Vec3{}, mgl32.Vec4{cornerUV[i][0], cornerUV[i][1], float32(tex), light}, color)
		}
		buf.addIndices(world.MaterialCutoutCross, base, &quadIndices)
	}
}

// addTransparentFace emits one face of a Transp6Tex voxel. UV0.x carries
// the vertex number and UV0.y the alpha of the definition.
func (m *Mesher) addTransparentFace(def *world.VoxelDefinition, v *world.Voxel, face world.FaceDirection, x, y, z int) {
	buf := m.buf
	q := voxelQuad(face, x, y, z)
	normal := face.Normal()
	tex := float32(def.Texture(face, v.Rotation()))
	light := float32(v.Light) / world.FullLight
	color := tintColor(v.Tint, m.opts.Tinting)
	base := int32(len(buf.Positions))
	for i := 0; i < 4; i++ {
		buf.addVertex(q[i], normal, mgl32.Vec4{float32(i), def.Alpha, tex, light}, color)
	}
	buf.addIndices(world.MaterialTransparent, base, &quadIndicesFlipped)
}
