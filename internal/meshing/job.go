package meshing

import (
	"sync/atomic"

	"voxelcore/internal/world"
)

// JobState is the life cycle of a pool slot.
type JobState int32

const (
	JobIdle JobState = iota
	JobClaimed
	JobGenerating
	JobReady
)

func (s JobState) String() string {
	switch s {
	case JobIdle:
		return "idle"
	case JobClaimed:
		return "claimed"
	case JobGenerating:
		return "generating"
	case JobReady:
		return "ready"
	default:
		return "unknown"
	}
}

// MeshJob is one slot of a lane ring. It belongs to its lane from claim to
// upload; buffers are reused across jobs.
type MeshJob struct {
	Chunk *world.Chunk

	Buffers  MeshBuffers
	Collider PlainMesh
	NavMesh  PlainMesh
	Custom   []CustomVoxel

	TotalVoxels          int
	NeedsColliderRebuild bool
	SubMeshCount         int

	state   atomic.Int32
	buckets []int
}

// State returns the current slot state.
func (j *MeshJob) State() JobState { return JobState(j.state.Load()) }

func (j *MeshJob) setState(s JobState) { j.state.Store(int32(s)) }

// Buckets returns the material buckets holding indices after generation.
func (j *MeshJob) Buckets() []int { return j.buckets }

func (j *MeshJob) reset() {
	j.Buffers.Reset()
	j.Collider.Reset()
	j.NavMesh.Reset()
	j.Custom = j.Custom[:0]
	j.TotalVoxels = 0
	j.NeedsColliderRebuild = false
	j.SubMeshCount = 0
	j.buckets = j.buckets[:0]
}
