package meshing

import (
	"voxelcore/internal/world"
)

// Presenter receives finished geometry on the goroutine that calls
// UploadReady. Buffers are only valid for the duration of the call.
type Presenter interface {
	// ApplyGeometry replaces the render mesh of chunk with the buckets of
	// job. The bucket list has job.SubMeshCount entries.
	ApplyGeometry(chunk *world.Chunk, job *MeshJob)
	ApplyCollider(chunk *world.Chunk, collider, navmesh *PlainMesh)
	ClearGeometry(chunk *world.Chunk)
}

// NopPresenter discards everything.
type NopPresenter struct{}

func (NopPresenter) ApplyGeometry(*world.Chunk, *MeshJob)               {}
func (NopPresenter) ApplyCollider(*world.Chunk, *PlainMesh, *PlainMesh) {}
func (NopPresenter) ClearGeometry(*world.Chunk)                         {}

// upload hands one ready job to p and releases the slot.
func (s *Scheduler) upload(job *MeshJob, p Presenter) {
	c := job.Chunk
	if job.NeedsColliderRebuild {
		p.ApplyCollider(c, &job.Collider, &job.NavMesh)
	}

	if job.TotalVoxels == 0 {
		p.ClearGeometry(c)
		c.AdvanceRenderState(world.RenderingComplete)
	} else {
		first := !c.IsRendered()
		p.ApplyGeometry(c, job)
		c.AdvanceRenderState(world.RenderingComplete)
		if first && s.opts.OnChunkAfterFirstRender != nil {
			s.opts.OnChunkAfterFirstRender(c)
		}
		if s.opts.OnChunkRender != nil {
			s.opts.OnChunkRender(c)
		}
	}

	job.Chunk = nil
	job.setState(JobIdle)
	s.metrics.Uploaded.Inc()
	s.metrics.Ready.Dec()
}
