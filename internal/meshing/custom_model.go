package meshing

import (
	"voxelcore/internal/world"
)

// CustomVoxel is a voxel rendered by a model outside the chunk mesh. The
// presenter instantiates Model at Position.
type CustomVoxel struct {
	Definition *world.VoxelDefinition
	VoxelIndex int
	// Position is chunk-local.
	Position [3]int
	Rotation uint8
	Light    uint8
	Tint     [3]uint8
}

// recordCustom appends a Custom voxel to the job.
func (m *Mesher) recordCustom(def *world.VoxelDefinition, v *world.Voxel, idx, x, y, z int) {
	m.job.Custom = append(m.job.Custom, CustomVoxel{
		Definition: def,
		VoxelIndex: idx,
		Position:   [3]int{x, y, z},
		Rotation:   v.Rotation(),
		Light:      v.Light,
		Tint:       v.Tint,
	})
}
