package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStone = &VoxelDefinition{Name: "stone", Index: 1, RenderType: RenderOpaque, Opaque: FullOpaque}
var testWater = &VoxelDefinition{Name: "water", Index: 2, RenderType: RenderWater, Opaque: 2}

func TestVoxelSettersClamp(t *testing.T) {
	var v Voxel
	v.SetLight(40)
	v.SetOpaque(-3)
	v.SetWaterLevel(99)
	v.SetRotation(7)

	assert.Equal(t, uint8(15), v.Light)
	assert.Equal(t, uint8(0), v.Opaque)
	assert.Equal(t, 15, v.WaterLevel())
	assert.Equal(t, uint8(3), v.Rotation())

	v.SetWaterLevel(4)
	assert.Equal(t, uint8(3), v.Rotation(), "water level must not touch rotation bits")
	assert.Equal(t, 4, v.WaterLevel())
}

func TestVoxelSetKeepsLight(t *testing.T) {
	v := Voxel{Light: 9}
	v.Set(testWater, [3]uint8{1, 2, 3})
	assert.True(t, v.HasContent)
	assert.Equal(t, uint8(9), v.Light)
	assert.Equal(t, MaxWaterLevel, v.WaterLevel())
	assert.Equal(t, [3]uint8{1, 2, 3}, v.Tint)

	v.Clear(12)
	assert.False(t, v.HasContent)
	assert.Equal(t, uint8(12), v.Light)
	assert.Equal(t, 0, v.WaterLevel())
}

func TestVoxelIndexRoundTrip(t *testing.T) {
	for _, tc := range []struct{ x, y, z int }{{0, 0, 0}, {15, 15, 15}, {3, 9, 12}, {15, 0, 1}} {
		idx := VoxelIndex(tc.x, tc.y, tc.z)
		assert.Equal(t, tc.y*256+tc.z*16+tc.x, idx)
		x, y, z := VoxelCoords(idx)
		assert.Equal(t, [3]int{tc.x, tc.y, tc.z}, [3]int{x, y, z})
	}
}

func TestRenderStateOnlyMovesForward(t *testing.T) {
	c := NewChunk(0, 0, 0)
	c.AdvanceRenderState(RenderingComplete)
	c.AdvanceRenderState(RenderingRequested)
	assert.True(t, c.IsRendered())

	c.MarkAsInconclusive()
	c.PrepareForReuse(FullLight)
	assert.Equal(t, RenderPending, c.RenderState)
	assert.Zero(t, c.InconclusiveNeighbours)
	assert.Equal(t, -1, c.VoxelSignature)
}

func TestStoreSetAcrossChunks(t *testing.T) {
	s := NewChunkStore()
	s.Set(-1, 0, 0, testStone, [3]uint8{})
	s.Set(16, 31, -17, testStone, [3]uint8{})

	assert.True(t, s.Get(-1, 0, 0).HasContent)
	assert.True(t, s.Get(16, 31, -17).HasContent)
	assert.False(t, s.Get(0, 0, 0).HasContent)

	require.True(t, s.HasChunk(ChunkCoord{X: -1, Y: 0, Z: 0}))
	require.True(t, s.HasChunk(ChunkCoord{X: 1, Y: 1, Z: -2}))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.IsReady(ChunkCoord{X: -1}))
}

func TestStoreSetMarksNeighborRebuild(t *testing.T) {
	s := NewChunkStore()
	right := s.GetChunk(ChunkCoord{X: 1}, true)
	s.Set(15, 4, 4, testStone, [3]uint8{})
	assert.True(t, right.NeedsRebuild)
}

func TestStoreReleaseReusesArenaSlot(t *testing.T) {
	s := NewChunkStore()
	a := s.GetChunk(ChunkCoord{X: 0}, true)
	b := s.GetChunk(ChunkCoord{X: 1}, true)
	assert.Equal(t, 0, a.PoolIndex)
	assert.Equal(t, 1, b.PoolIndex)

	a.Set(1, 1, 1, testStone, [3]uint8{})
	a.AdvanceRenderState(RenderingComplete)
	mods := s.GetModCount()

	require.True(t, s.Release(ChunkCoord{X: 0}))
	assert.False(t, s.Release(ChunkCoord{X: 0}))
	assert.Greater(t, s.GetModCount(), mods)

	c := s.GetChunk(ChunkCoord{X: 5}, true)
	assert.Same(t, a, c)
	assert.Equal(t, 0, c.PoolIndex)
	assert.Equal(t, ChunkCoord{X: 5}, c.Coord)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, RenderPending, c.RenderState)
}

func TestStoreAddChunkJoinsArena(t *testing.T) {
	s := NewChunkStore()
	s.GetChunk(ChunkCoord{}, true)

	foreign := NewChunk(9, 9, 9)
	require.True(t, s.AddChunk(ChunkCoord{X: 2}, foreign))
	assert.Equal(t, 1, foreign.PoolIndex)
	assert.Equal(t, ChunkCoord{X: 2}, foreign.Coord)
	assert.False(t, s.AddChunk(ChunkCoord{X: 2}, NewChunk(0, 0, 0)))

	acquired := s.Acquire(ChunkCoord{X: 3})
	assert.False(t, s.HasChunk(ChunkCoord{X: 3}))
	require.True(t, s.AddChunk(ChunkCoord{X: 3}, acquired))
	assert.Equal(t, 2, acquired.PoolIndex)
}

func TestStoreRadiusAndEviction(t *testing.T) {
	s := NewChunkStore()
	for x := -4; x <= 4; x++ {
		for y := 0; y < 2; y++ {
			s.GetChunk(ChunkCoord{X: x, Y: y}, true)
		}
	}

	got := s.AppendChunksInRadiusXZ(0, 0, 1, nil)
	assert.Len(t, got, 6)

	removed := s.EvictFarChunks(0, 0, 2)
	assert.Equal(t, 8, removed)
	assert.Equal(t, 10, s.Len())
}

func TestFloorDivAndMod(t *testing.T) {
	tests := []struct{ a, q, m int }{
		{0, 0, 0}, {15, 0, 15}, {16, 1, 0}, {-1, -1, 15}, {-16, -1, 0}, {-17, -2, 15},
	}
	for _, tc := range tests {
		if q := floorDiv(tc.a, ChunkSize); q != tc.q {
			t.Errorf("floorDiv(%d) = %d, want %d", tc.a, q, tc.q)
		}
		if m := mod(tc.a, ChunkSize); m != tc.m {
			t.Errorf("mod(%d) = %d, want %d", tc.a, m, tc.m)
		}
	}
}

func TestTextureRotation(t *testing.T) {
	d := &VoxelDefinition{Textures: [FaceCount]int{FaceTop: 1, FaceBottom: 2, FaceLeft: 3, FaceRight: 4, FaceForward: 5, FaceBack: 6}}
	assert.Equal(t, 6, d.Texture(FaceBack, 0))
	assert.Equal(t, 4, d.Texture(FaceBack, 1))
	assert.Equal(t, 5, d.Texture(FaceBack, 2))
	assert.Equal(t, 1, d.Texture(FaceTop, 3))
}
