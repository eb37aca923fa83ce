package world

const (
	// FullOpaque is the maximum occlusion value of a voxel.
	FullOpaque = 15
	// FullLight is the maximum light value of a voxel.
	FullLight = 15
	// MaxWaterLevel is the height of a full water column.
	MaxWaterLevel = 15
)

// Voxel is the packed per-cell state of a chunk.
type Voxel struct {
	TypeIndex  uint16
	Light      uint8
	Opaque     uint8
	HasContent bool
	Tint       [3]uint8
	// flags holds the water level in the low nibble and the texture
	// rotation in bits 4-5.
	flags uint8
}

// Empty is a voxel with no content and no light.
var Empty = Voxel{}

func clamp15(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 15 {
		return 15
	}
	return uint8(v)
}

func (v *Voxel) SetLight(light int) {
	v.Light = clamp15(light)
}

func (v *Voxel) SetOpaque(opaque int) {
	v.Opaque = clamp15(opaque)
}

// WaterLevel returns the fluid column height in 0..15.
func (v Voxel) WaterLevel() int {
	return int(v.flags & 0x0F)
}

func (v *Voxel) SetWaterLevel(level int) {
	v.flags = (v.flags &^ 0x0F) | clamp15(level)
}

// Rotation returns the 2-bit texture rotation.
func (v Voxel) Rotation() uint8 {
	return (v.flags >> 4) & 0x03
}

func (v *Voxel) SetRotation(rotation int) {
	v.flags = (v.flags &^ 0x30) | uint8(rotation&0x03)<<4
}

// Set fills the voxel from a palette definition. Water definitions start
// as a full column.
func (v *Voxel) Set(def *VoxelDefinition, tint [3]uint8) {
	light := v.Light
	*v = Voxel{
		TypeIndex:  def.Index,
		HasContent: true,
		Opaque:     def.Opaque,
		Light:      light,
		Tint:       tint,
	}
	if def.RenderType == RenderWater {
		v.SetWaterLevel(MaxWaterLevel)
	}
}

// SetFast writes a voxel without keeping the previous light. Used by the
// terrain painter.
func (v *Voxel) SetFast(def *VoxelDefinition, light, opaque uint8, tint [3]uint8) {
	v.TypeIndex = def.Index
	v.HasContent = true
	v.Light = clamp15(int(light))
	v.Opaque = clamp15(int(opaque))
	v.Tint = tint
	v.flags = 0
	if def.RenderType == RenderWater {
		v.SetWaterLevel(MaxWaterLevel)
	}
}

// Clear empties the voxel leaving the given light.
func (v *Voxel) Clear(light uint8) {
	*v = Voxel{Light: clamp15(int(light))}
}
