package terrain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelcore/internal/world"
)

func TestDetailQueueDropsWhenFull(t *testing.T) {
	q := NewDetailQueue(2)
	for i := 0; i < 5; i++ {
		q.RequestDetail(DetailRequest{VoxelIndex: i})
	}
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, int64(3), q.Dropped())

	var got []int
	assert.Equal(t, 1, q.Drain(1, func(r DetailRequest) { got = append(got, r.VoxelIndex) }))
	assert.Equal(t, 1, q.Drain(0, func(r DetailRequest) { got = append(got, r.VoxelIndex) }))
	assert.Equal(t, []int{0, 1}, got)
	assert.Zero(t, q.Drain(0, func(DetailRequest) {}))
}

func TestDetailQueueConcurrentProducers(t *testing.T) {
	q := NewDetailQueue(1000)
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				q.RequestDetail(DetailRequest{VoxelIndex: i})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, q.Len())
	assert.Zero(t, q.Dropped())
}

func TestPlaceVegetation(t *testing.T) {
	d := testDefaults(t)
	store := world.NewChunkStore()
	below := store.GetChunk(world.ChunkCoord{}, true)
	below.Set(3, 15, 4, d.Grass, d.Grass.Tint)
	store.GetChunk(world.ChunkCoord{Y: 1}, true)

	req := DetailRequest{Chunk: world.ChunkCoord{Y: 1}, VoxelIndex: world.VoxelIndex(3, 0, 4), Vegetation: d.TallGrass}
	assert.Equal(t, 1, PlaceDetail(store, req))
	assert.Equal(t, d.TallGrass.Index, store.Get(3, 16, 4).TypeIndex)
	assert.Zero(t, PlaceDetail(store, req), "cell already taken")

	floating := DetailRequest{Chunk: world.ChunkCoord{Y: 1}, VoxelIndex: world.VoxelIndex(8, 0, 8), Vegetation: d.TallGrass}
	assert.Zero(t, PlaceDetail(store, floating))

	missing := DetailRequest{Chunk: world.ChunkCoord{Y: 5}, VoxelIndex: 0, Vegetation: d.TallGrass}
	assert.Zero(t, PlaceDetail(store, missing))
	assert.False(t, store.HasChunk(world.ChunkCoord{Y: 5}))
}

func TestPlaceTreeSkipsOccupiedAndMissing(t *testing.T) {
	d := testDefaults(t)
	store := world.NewChunkStore()
	c := store.GetChunk(world.ChunkCoord{}, true)
	c.Set(8, 2, 8, d.Grass, d.Grass.Tint)
	c.Set(8, 5, 8, d.Stone, [3]uint8{})

	tree := OakTree(d)
	placed := PlaceDetail(store, DetailRequest{VoxelIndex: world.VoxelIndex(8, 2, 8), Tree: tree})
	// the stone blocks one trunk voxel; the crown top reaches y=9
	require.Equal(t, len(tree.Voxels)-1, placed)
	assert.Equal(t, d.Stone.Index, store.Get(8, 5, 8).TypeIndex)
	assert.Equal(t, d.Log.Index, store.Get(8, 3, 8).TypeIndex)
	assert.Equal(t, d.Leaves.Index, store.Get(8, 9, 8).TypeIndex)
	assert.Equal(t, d.Leaves.Index, store.Get(6, 6, 7).TypeIndex)
}
