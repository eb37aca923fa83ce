package meshing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelcore/internal/world"
)

func TestWaterCornerBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 2000; trial++ {
		var col waterColumn
		for i := range col.level {
			col.level[i] = rng.Intn(16)
			if rng.Intn(4) == 0 {
				col.top[i] = rng.Intn(16)
			}
		}
		own := col.level[columnIndex(0, 0)]
		wc := col.corners()
		corners := []struct{ h, dx, dz int }{
			{wc.BL, -1, -1}, {wc.FL, -1, 1}, {wc.FR, 1, 1}, {wc.BR, 1, -1},
		}
		for _, c := range corners {
			require.GreaterOrEqual(t, c.h, own, "trial %d", trial)
			require.GreaterOrEqual(t, c.h, col.level[columnIndex(c.dx, 0)], "trial %d edge x", trial)
			require.GreaterOrEqual(t, c.h, col.level[columnIndex(0, c.dz)], "trial %d edge z", trial)
			require.GreaterOrEqual(t, c.h, col.level[columnIndex(c.dx, c.dz)], "trial %d diagonal", trial)
			require.LessOrEqual(t, c.h, world.MaxWaterLevel, "trial %d", trial)
		}
	}
}

func TestWaterCoveredColumnIsFull(t *testing.T) {
	var col waterColumn
	col.level[columnIndex(0, 0)] = 3
	col.top[columnIndex(0, 0)] = 15
	assert.Equal(t, WaterCorners{15, 15, 15, 15}, col.corners())
	assert.Equal(t, waterNoFlow, flowBits(col.corners(), true))
}

func TestWaterCornerFromNeighborWithWaterOnTop(t *testing.T) {
	var col waterColumn
	col.level[columnIndex(0, 0)] = 4
	col.level[columnIndex(1, 0)] = 10
	col.top[columnIndex(1, 0)] = 15

	wc := col.corners()
	assert.Equal(t, 15, wc.FR)
	assert.Equal(t, 15, wc.BR)
	assert.Equal(t, 4, wc.BL)
	assert.Equal(t, 4, wc.FL)
}

func TestWaterFlowBits(t *testing.T) {
	tests := []struct {
		name string
		wc   WaterCorners
		want int
	}{
		{"flat", WaterCorners{8, 8, 8, 8}, 1<<10 + 1<<8},
		{"down towards +x", WaterCorners{BL: 10, FL: 10, FR: 4, BR: 4}, 2<<10 + 1<<8},
		{"down towards -x", WaterCorners{BL: 4, FL: 4, FR: 10, BR: 10}, 1 << 8},
		{"down towards -z", WaterCorners{BL: 4, FL: 10, FR: 10, BR: 4}, 1<<10 + 2<<8},
		{"down towards +z", WaterCorners{BL: 10, FL: 4, FR: 4, BR: 10}, 1 << 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flowBits(tt.wc, false))
		})
	}
}

func TestSingleWaterVoxel(t *testing.T) {
	store := world.NewChunkStore()
	p, d := newTestPalette(t)
	c := isolatedChunk(store)
	c.Set(5, 5, 5, d.Water, [3]uint8{})

	job := generate(NewMesher(store, p, allOptions()), c)
	idx := job.Buffers.Indices[world.MaterialWater]
	// four sides, the surface twice and the bottom
	assert.Len(t, idx, 7*6)
	for _, pos := range job.Buffers.Positions {
		assert.GreaterOrEqual(t, pos[1], float32(5))
		assert.LessOrEqual(t, pos[1], float32(6))
	}
	light := 15 << waterLightShift
	for _, uv := range job.Buffers.UV0 {
		assert.GreaterOrEqual(t, int(uv[3]), light)
	}
	assert.Zero(t, job.Collider.TriangleCount())
}

func TestShallowWaterSurfaceHeight(t *testing.T) {
	store := world.NewChunkStore()
	p, d := newTestPalette(t)
	c := isolatedChunk(store)
	c.Set(5, 5, 5, d.Water, [3]uint8{})
	c.Voxels[world.VoxelIndex(5, 5, 5)].SetWaterLevel(6)

	job := generate(NewMesher(store, p, allOptions()), c)
	var tops int
	for i, n := range job.Buffers.Normals {
		if n == world.FaceTop.Normal() {
			assert.InDelta(t, 5+6.0/15, job.Buffers.Positions[i][1], 1e-6)
			tops++
		}
	}
	assert.Equal(t, 4, tops)
}

func TestWaterFoamAgainstShore(t *testing.T) {
	store := world.NewChunkStore()
	p, d := newTestPalette(t)
	c := isolatedChunk(store)
	c.Set(5, 5, 5, d.Water, [3]uint8{})
	c.Set(4, 5, 5, d.Sand, [3]uint8{})

	job := generate(NewMesher(store, p, allOptions()), c)
	var surface []int
	for i, n := range job.Buffers.Normals {
		if n == world.FaceTop.Normal() && job.Buffers.Positions[i][1] == 6 {
			surface = append(surface, int(job.Buffers.UV0[i][3]))
		}
	}
	require.NotEmpty(t, surface)
	for _, w := range surface {
		assert.NotZero(t, w&foamLeft)
	}
	// the left side is hidden by the sand
	assert.Len(t, job.Buffers.Indices[world.MaterialWater], 6*6)
}

func TestWaterCurtainTowardsShallowerNeighbor(t *testing.T) {
	store := world.NewChunkStore()
	p, d := newTestPalette(t)
	c := isolatedChunk(store)
	c.Set(5, 5, 5, d.Water, [3]uint8{})
	c.Set(6, 5, 5, d.Water, [3]uint8{})
	c.Voxels[world.VoxelIndex(6, 5, 5)].SetWaterLevel(4)

	job := generate(NewMesher(store, p, allOptions()), c)
	var curtain int
	for i, n := range job.Buffers.Normals {
		pos := job.Buffers.Positions[i]
		if n == world.FaceRight.Normal() && pos[0] == 6 {
			assert.GreaterOrEqual(t, pos[1], float32(5+4.0/15)-1e-6)
			curtain++
		}
	}
	assert.Equal(t, 4, curtain)
}

// surfaceFoam returns the UV0.w of the upward facing water vertices at
// height top.
func surfaceFoam(t *testing.T, job *MeshJob, top float32) []int {
	t.Helper()
	seen := make(map[int32]bool)
	var surface []int
	for _, i := range job.Buffers.Indices[world.MaterialWater] {
		if seen[i] {
			continue
		}
		seen[i] = true
		if job.Buffers.Normals[i] == world.FaceTop.Normal() && job.Buffers.Positions[i][1] == top {
			surface = append(surface, int(job.Buffers.UV0[i][3]))
		}
	}
	require.NotEmpty(t, surface)
	return surface
}

func TestWaterCornerFoamAgainstDiagonalShore(t *testing.T) {
	store := world.NewChunkStore()
	p, d := newTestPalette(t)
	require.True(t, d.Water.ShowFoam)
	c := isolatedChunk(store)
	c.Set(5, 5, 5, d.Water, [3]uint8{})
	c.Set(4, 5, 4, d.Sand, [3]uint8{})

	job := generate(NewMesher(store, p, allOptions()), c)
	for _, w := range surfaceFoam(t, job, 6) {
		assert.NotZero(t, w&foamBL, "diagonal sand sets the back-left corner")
		assert.Zero(t, w&(foamFL|foamFR|foamBR))
		assert.Zero(t, w&(foamBack|foamForward|foamLeft|foamRight))
	}
}

func TestWaterCornerFoamSkipsDiagonalWater(t *testing.T) {
	store := world.NewChunkStore()
	p, d := newTestPalette(t)
	c := isolatedChunk(store)
	c.Set(5, 5, 5, d.Water, [3]uint8{})
	c.Set(6, 5, 6, d.Water, [3]uint8{})

	job := generate(NewMesher(store, p, allOptions()), c)
	for _, w := range surfaceFoam(t, job, 6) {
		assert.Zero(t, w&(foamBL|foamFL|foamFR|foamBR))
	}
}
