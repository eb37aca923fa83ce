package terrain

import (
	"fmt"
	"math"
	"time"

	"github.com/ojrac/opensimplex-go"

	"voxelcore/internal/config"
	"voxelcore/internal/metrics"
	"voxelcore/internal/profiling"
	"voxelcore/internal/registry"
	"voxelcore/internal/world"
)

const (
	rowStride = world.ChunkArea
	// heightMapCacheColumns bounds the number of cached chunk columns.
	heightMapCacheColumns = 4096
)

// PainterOptions configures a Painter. Water is required; Shore and
// Bedrock are optional.
type PainterOptions struct {
	MaxHeight float64
	MinHeight float64
	Seed      int64
	OreScale  float64
	// NoiseSize is the period, in voxels, that OreScale refers to.
	NoiseSize int

	Water   *world.VoxelDefinition
	Shore   *world.VoxelDefinition
	Bedrock *world.VoxelDefinition

	Trees      bool
	Vegetation bool
	Ores       bool

	Detail  DetailSink
	Metrics *metrics.Terrain
}

// Painter fills chunks from a terrain program. It implements
// world.Populator and is safe for use by concurrent population workers.
type Painter struct {
	eval   *Evaluator
	biomes *BiomeSet
	opts   PainterOptions

	waterLevel int
	minY       int
	ore        opensimplex.Noise32
	oreFreq    float32
	cache      *heightMapCache
}

var _ world.Populator = (*Painter)(nil)

// NewPainter creates a painter. eval must already be initialized.
func NewPainter(eval *Evaluator, biomes *BiomeSet, opts PainterOptions) (*Painter, error) {
	if eval == nil {
		return nil, fmt.Errorf("terrain painter: nil evaluator")
	}
	if opts.Water == nil {
		return nil, fmt.Errorf("terrain painter: water voxel required")
	}
	if opts.MaxHeight <= 0 {
		return nil, fmt.Errorf("terrain painter: max height %v must be positive", opts.MaxHeight)
	}
	if biomes == nil {
		biomes = &BiomeSet{}
	}
	p := &Painter{
		eval:       eval,
		biomes:     biomes,
		opts:       opts,
		waterLevel: -1,
		minY:       int(math.Floor(opts.MinHeight)),
		ore:        opensimplex.New32(opts.Seed),
		cache:      newHeightMapCache(heightMapCacheColumns),
	}
	if wl := int(math.Floor(eval.params.SeaLevel * opts.MaxHeight)); wl > 0 {
		p.waterLevel = wl
	}
	if opts.NoiseSize > 0 {
		p.oreFreq = float32(opts.OreScale / float64(opts.NoiseSize))
	}
	return p, nil
}

// New builds the default terrain stack from cfg: Perlin height and
// moisture tables, the default program, the default biomes and a painter.
func New(cfg config.TerrainConfig, d *registry.Defaults, detail DetailSink, m *metrics.Terrain) (*Painter, error) {
	size := cfg.NoiseTextureSize
	tables := DefaultTables(size, cfg.Seed)
	steps := DefaultProgram(tables)

	eval := NewEvaluator(steps, tables["moisture"], ParamsFromConfig(cfg))
	eval.Init()

	return NewPainter(eval, DefaultBiomes(d), PainterOptions{
		MaxHeight:  cfg.MaxHeight,
		MinHeight:  cfg.MinHeight,
		Seed:       cfg.Seed,
		OreScale:   cfg.OreScale,
		NoiseSize:  size,
		Water:      d.Water,
		Shore:      d.Sand,
		Bedrock:    d.Bedrock,
		Trees:      true,
		Vegetation: true,
		Ores:       true,
		Detail:     detail,
		Metrics:    m,
	})
}

// WaterLevel returns the voxel Y of the sea surface, or -1 without sea.
func (p *Painter) WaterLevel() int {
	return p.waterLevel
}

// HeightMap returns the evaluated columns of the chunk column (cx, cz).
func (p *Painter) HeightMap(cx, cz int) *ColumnHeightMap {
	if hm, ok := p.cache.get(cx, cz); ok {
		return hm
	}
	hm := new(ColumnHeightMap)
	for i := range hm {
		wx := cx*world.ChunkSize + i&0xF
		wz := cz*world.ChunkSize + i>>4
		alt, moist := p.eval.HeightAndMoisture(float64(wx), float64(wz))
		hm[i] = HeightMapInfo{
			Altitude:    float32(alt),
			Moisture:    float32(moist),
			GroundLevel: int(math.Floor(alt * p.opts.MaxHeight)),
			Biome:       p.biomes.Select(alt, moist),
		}
	}
	return p.cache.put(cx, cz, hm)
}

// SurfaceY implements world.Populator.
func (p *Painter) SurfaceY(worldX, worldZ int) int {
	hm := p.HeightMap(floorDiv(worldX, world.ChunkSize), floorDiv(worldZ, world.ChunkSize))
	i := mod(worldZ, world.ChunkSize)*world.ChunkSize + mod(worldX, world.ChunkSize)
	return max(p.waterLevel, hm[i].GroundLevel)
}

// PaintChunk implements world.Populator. It fills c top down: water from
// the surface to the ground, the biome top voxel, then ore or dirt.
func (p *Painter) PaintChunk(c *world.Chunk) bool {
	defer profiling.Track("terrain.PaintChunk")()
	start := time.Now()

	hasContent := p.paint(c)

	if m := p.opts.Metrics; m != nil {
		m.ChunksPainted.Inc()
		if !hasContent {
			m.EmptyChunks.Inc()
		}
		m.PaintSeconds.Observe(time.Since(start).Seconds())
	}
	return hasContent
}

func (p *Painter) paint(c *world.Chunk) bool {
	bottom := c.Coord.Y * world.ChunkSize
	if bottom+world.ChunkSize < p.minY {
		c.IsAboveSurface = false
		return false
	}
	placeBedrock := p.opts.Bedrock != nil && bottom < p.minY

	hm := p.HeightMap(c.Coord.X, c.Coord.Z)
	voxels := &c.Voxels
	hasContent := false
	aboveSurface := false

	for col := 0; col < world.ChunkArea; col++ {
		ground := hm[col].GroundLevel
		surface := max(p.waterLevel, ground)
		if surface < bottom {
			aboveSurface = true
			continue
		}
		biome := hm[col].Biome
		if biome == nil {
			biome = p.biomes.Default
			if biome == nil {
				continue
			}
		}

		y := min(surface-bottom, world.ChunkSize-1)
		wx := c.Coord.X*world.ChunkSize + col&0xF
		wy := bottom + y
		wz := c.Coord.Z*world.ChunkSize + col>>4
		idx := y*rowStride + col

		if wy > ground {
			if wy == surface {
				aboveSurface = true
			}
			water := p.opts.Water
			for wy > ground && idx >= 0 {
				voxels[idx].SetFast(water, world.FullLight, water.Opaque, water.Tint)
				idx -= rowStride
				wy--
			}
		} else if wy == ground {
			aboveSurface = true
			if !voxels[idx].HasContent {
				if p.opts.Shore != nil && wy == p.waterLevel {
					setVoxel(&voxels[idx], p.opts.Shore)
				} else {
					setVoxel(&voxels[idx], biome.Top)
					if wy > p.waterLevel {
						p.decorate(c, biome, idx, wx, wy, wz)
					}
				}
			}
			idx -= rowStride
			wy--
		}

		// fill down
		useOre := p.opts.Ores && len(biome.Ores) > 0
		for ; idx >= 0; idx -= rowStride {
			if !voxels[idx].HasContent {
				def := biome.Dirt
				if useOre {
					if ore := biome.ore(ground-wy, p.oreNoise(wx, wy, wz)); ore != nil {
						def = ore
					}
				}
				setVoxel(&voxels[idx], def)
			}
			wy--
		}
		if placeBedrock {
			setVoxel(&voxels[col], p.opts.Bedrock)
		}
		hasContent = true
	}

	c.IsAboveSurface = aboveSurface
	return hasContent
}

// decorate rolls trees and vegetation for a ground voxel at idx.
func (p *Painter) decorate(c *world.Chunk, biome *Biome, idx, wx, wy, wz int) {
	rn := float64(world.Random(wx, wy, wz))
	switch {
	case p.opts.Trees && c.AllowTrees && biome.TreeDensity > 0 && rn < biome.TreeDensity && len(biome.Trees) > 0:
		if p.opts.Detail != nil {
			p.opts.Detail.RequestDetail(DetailRequest{
				Chunk:      c.Coord,
				VoxelIndex: idx,
				Tree:       biome.pickTree(rn / biome.TreeDensity),
			})
		}
	case p.opts.Vegetation && biome.VegetationDensity > 0 && rn < biome.VegetationDensity && len(biome.Vegetation) > 0:
		veg := biome.pickVegetation(rn / biome.VegetationDensity)
		if idx >= (world.ChunkSize-1)*rowStride {
			// top row: the vegetation belongs to the chunk above
			if p.opts.Detail != nil {
				p.opts.Detail.RequestDetail(DetailRequest{
					Chunk:      c.Coord.Add(0, 1, 0),
					VoxelIndex: idx - (world.ChunkSize-1)*rowStride,
					Vegetation: veg,
				})
			}
		} else {
			setVoxel(&c.Voxels[idx+rowStride], veg)
		}
	}
}

// oreNoise samples the 3D ore field in 0..1.
func (p *Painter) oreNoise(wx, wy, wz int) float64 {
	f := p.oreFreq
	v := p.ore.Eval3(float32(wx)*f, float32(wy)*f, float32(wz)*f)
	return float64((v + 1) / 2)
}

func setVoxel(v *world.Voxel, def *world.VoxelDefinition) {
	v.SetFast(def, world.FullLight, def.Opaque, def.Tint)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
