package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelcore/internal/config"
	"voxelcore/internal/meshing"
	"voxelcore/internal/registry"
	"voxelcore/internal/terrain"
	"voxelcore/internal/world"
)

func newTestDriver(t *testing.T) (*driver, *registry.Defaults) {
	t.Helper()
	palette := registry.NewPalette()
	defaults := registry.RegisterDefaults(palette)
	store := world.NewChunkStore()
	s := meshing.NewScheduler(store, palette, meshing.Options{}, meshing.SchedulerOptions{Workers: 1, PoolSize: 8})
	t.Cleanup(func() { s.Stop() })

	budget := config.GetUploadBudget()
	config.SetUploadBudget(time.Second)
	t.Cleanup(func() { config.SetUploadBudget(budget) })

	return newDriver(store, nil, s, terrain.NewDetailQueue(16), true), defaults
}

func stoneChunk(d *driver, def *world.VoxelDefinition, coord world.ChunkCoord) *world.Chunk {
	c := d.store.GetChunk(coord, true)
	c.Set(8, 8, 8, def, [3]uint8{})
	c.IsPopulated = true
	return c
}

func (d *driver) step() {
	d.enqueue(2)
	d.mesh(context.Background())
}

func TestDriverRemeshesWhenNeighborArrives(t *testing.T) {
	d, defs := newTestDriver(t)
	a := stoneChunk(d, defs.Stone, world.ChunkCoord{})

	d.step()
	require.True(t, a.IsRendered())
	require.NotZero(t, a.InconclusiveNeighbours&world.InconclusiveRight)
	assert.Equal(t, 1, d.presenter.snapshot().meshes)

	// nothing changed, nothing is meshed again
	d.step()
	assert.Equal(t, 1, d.presenter.snapshot().meshes)

	stoneChunk(d, defs.Stone, world.ChunkCoord{X: 1})
	d.step()
	d.step()
	assert.Equal(t, 3, d.presenter.snapshot().meshes, "a is meshed again next to b")
	assert.Zero(t, a.InconclusiveNeighbours&world.InconclusiveRight)

	d.step()
	assert.Equal(t, 3, d.presenter.snapshot().meshes)
	assert.Zero(t, d.scheduler.Pending())
}

func TestDriverRemeshesWhenNeighborArrivesDuringGeneration(t *testing.T) {
	d, defs := newTestDriver(t)
	a := stoneChunk(d, defs.Stone, world.ChunkCoord{})

	d.enqueue(2)
	require.Equal(t, 1, d.scheduler.GenerateInline(context.Background()))

	// b fills in after a was generated but before its upload
	b := d.store.GetChunk(world.ChunkCoord{Z: 1}, true)
	b.IsPopulated = true
	d.mesh(context.Background())
	require.True(t, a.IsRendered())
	assert.True(t, a.NeedsRebuild)

	d.step()
	assert.Zero(t, a.InconclusiveNeighbours&world.InconclusiveForward)
}

func TestDriverInlineGenerationHonorsBudget(t *testing.T) {
	d, defs := newTestDriver(t)
	stoneChunk(d, defs.Stone, world.ChunkCoord{})
	stoneChunk(d, defs.Stone, world.ChunkCoord{X: 1})

	d.enqueue(2)
	require.Equal(t, 2, d.scheduler.Pending())

	config.SetUploadBudget(0)
	d.mesh(context.Background())
	assert.Equal(t, 2, d.scheduler.Pending(), "an expired budget generates nothing")
	assert.Zero(t, d.presenter.snapshot().meshes)

	config.SetUploadBudget(time.Second)
	d.mesh(context.Background())
	assert.Zero(t, d.scheduler.Pending())
	assert.Equal(t, 2, d.presenter.snapshot().meshes)
}
