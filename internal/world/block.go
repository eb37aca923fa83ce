package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FaceDirection identifies a face of a voxel. The order is also the greedy
// mesher bin order.
type FaceDirection int

const (
	FaceTop FaceDirection = iota
	FaceBottom
	FaceLeft
	FaceRight
	FaceForward
	FaceBack
)

// FaceCount is the number of voxel faces
const FaceCount = 6

var faceNormals = [FaceCount]mgl32.Vec3{
	FaceTop:     {0, 1, 0},
	FaceBottom:  {0, -1, 0},
	FaceLeft:    {-1, 0, 0},
	FaceRight:   {1, 0, 0},
	FaceForward: {0, 0, 1},
	FaceBack:    {0, 0, -1},
}

// Normal returns the outward unit normal of the face.
func (f FaceDirection) Normal() mgl32.Vec3 {
	return faceNormals[f]
}

// Offset returns the integer step towards the neighbor across the face.
func (f FaceDirection) Offset() (dx, dy, dz int) {
	n := faceNormals[f]
	return int(n[0]), int(n[1]), int(n[2])
}

func (f FaceDirection) String() string {
	switch f {
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceForward:
		return "forward"
	case FaceBack:
		return "back"
	default:
		return "unknown"
	}
}

// RenderType selects how the mesher emits a voxel.
type RenderType uint8

const (
	RenderOpaque RenderType = iota
	RenderOpaque6Tex
	RenderCutout
	RenderCutoutCross // vegetation
	RenderOpaqueNoAO  // clouds
	RenderTransp6Tex
	RenderWater
	RenderEmpty // collider only
	RenderCustom
)

// Material bucket indices. Each bucket becomes one index buffer.
const (
	MaterialOpaque      = 0
	MaterialCutoutCross = 1
	MaterialCutout      = 2
	MaterialWater       = 3
	MaterialTransparent = 4
	MaterialOpaqueNoAO  = 5

	MaxMaterialsPerChunk = 16
)

// MaterialBucket returns the index buffer a render type writes to.
func (rt RenderType) MaterialBucket() int {
	switch rt {
	case RenderCutout:
		return MaterialCutout
	case RenderCutoutCross:
		return MaterialCutoutCross
	case RenderWater:
		return MaterialWater
	case RenderTransp6Tex:
		return MaterialTransparent
	case RenderOpaqueNoAO:
		return MaterialOpaqueNoAO
	default:
		return MaterialOpaque
	}
}

// DefaultOpaque is the occlusion value a render type gets when a
// definition leaves Opaque unset.
func (rt RenderType) DefaultOpaque() uint8 {
	switch rt {
	case RenderOpaque, RenderOpaque6Tex, RenderOpaqueNoAO, RenderCutout, RenderCustom:
		return FullOpaque
	case RenderWater, RenderTransp6Tex:
		return 2
	default:
		return 0
	}
}

// VoxelDefinition is one palette entry.
type VoxelDefinition struct {
	Name       string
	Index      uint16
	RenderType RenderType
	// Textures is indexed by FaceDirection.
	Textures       [FaceCount]int
	Opaque         uint8
	Tint           [3]uint8
	Navigable      bool
	ShowFoam       bool
	WindAnimation  bool
	ColorVariation float32
	Alpha          float32
	Model          string
}

// WithTextures sets the top, side and bottom textures and returns the definition.
func (d *VoxelDefinition) WithTextures(top, side, bottom int) *VoxelDefinition {
	d.Textures[FaceTop] = top
	d.Textures[FaceBottom] = bottom
	d.Textures[FaceLeft] = side
	d.Textures[FaceRight] = side
	d.Textures[FaceForward] = side
	d.Textures[FaceBack] = side
	return d
}

// Texture returns the texture for a face taking a 2-bit rotation into
// account. Rotation only affects the four side faces.
func (d *VoxelDefinition) Texture(face FaceDirection, rotation uint8) int {
	if rotation == 0 || face == FaceTop || face == FaceBottom {
		return d.Textures[face]
	}
	sides := [4]FaceDirection{FaceBack, FaceRight, FaceForward, FaceLeft}
	for i, s := range sides {
		if s == face {
			return d.Textures[sides[(i+int(rotation))&3]]
		}
	}
	return d.Textures[face]
}
