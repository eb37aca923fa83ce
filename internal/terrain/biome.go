package terrain

import (
	"voxelcore/internal/registry"
	"voxelcore/internal/world"
)

// TreeVoxel is one voxel of a tree model relative to the root position.
type TreeVoxel struct {
	Offset [3]int
	Voxel  *world.VoxelDefinition
}

// TreeDefinition is a small voxel model planted on the ground.
type TreeDefinition struct {
	Name   string
	Voxels []TreeVoxel
}

// BiomeZone is a rectangle in (elevation, moisture) space, both in 0..1.
type BiomeZone struct {
	ElevationMin, ElevationMax float64
	MoistureMin, MoistureMax   float64
}

func (z BiomeZone) contains(elevation, moisture float64) bool {
	return elevation >= z.ElevationMin && elevation <= z.ElevationMax &&
		moisture >= z.MoistureMin && moisture <= z.MoistureMax
}

type BiomeTree struct {
	Tree        *TreeDefinition
	Probability float64
}

type BiomeVegetation struct {
	Voxel       *world.VoxelDefinition
	Probability float64
}

// BiomeOre places Ore where the ore noise falls in the probability band
// and the voxel is between DepthMin and DepthMax below the ground.
type BiomeOre struct {
	Ore                            *world.VoxelDefinition
	ProbabilityMin, ProbabilityMax float64
	DepthMin, DepthMax             int
}

// Biome defines the surface, fill and decoration of a terrain type.
type Biome struct {
	Name              string
	Top               *world.VoxelDefinition
	Dirt              *world.VoxelDefinition
	TreeDensity       float64
	Trees             []BiomeTree
	VegetationDensity float64
	Vegetation        []BiomeVegetation
	Zones             []BiomeZone
	Ores              []BiomeOre
}

// pickTree maps r in [0,1) over the cumulative tree probabilities.
func (b *Biome) pickTree(r float64) *TreeDefinition {
	if len(b.Trees) == 0 {
		return nil
	}
	acc := 0.0
	for _, t := range b.Trees {
		acc += t.Probability
		if r < acc {
			return t.Tree
		}
	}
	return b.Trees[len(b.Trees)-1].Tree
}

func (b *Biome) pickVegetation(r float64) *world.VoxelDefinition {
	if len(b.Vegetation) == 0 {
		return nil
	}
	acc := 0.0
	for _, v := range b.Vegetation {
		acc += v.Probability
		if r < acc {
			return v.Voxel
		}
	}
	return b.Vegetation[len(b.Vegetation)-1].Voxel
}

// ore returns the ore placed at depth for noise value n, or nil.
func (b *Biome) ore(depth int, n float64) *world.VoxelDefinition {
	for _, o := range b.Ores {
		if o.DepthMin <= depth && o.DepthMax >= depth && o.ProbabilityMin <= n && o.ProbabilityMax >= n {
			return o.Ore
		}
	}
	return nil
}

// BiomeSet selects biomes by elevation and moisture.
type BiomeSet struct {
	Biomes  []*Biome
	Default *Biome
}

// Select returns the first biome with a zone containing the point, or the
// default biome.
func (s *BiomeSet) Select(elevation, moisture float64) *Biome {
	for _, b := range s.Biomes {
		for _, z := range b.Zones {
			if z.contains(elevation, moisture) {
				return b
			}
		}
	}
	return s.Default
}

// OakTree returns a five voxel trunk with a leaf crown.
func OakTree(d *registry.Defaults) *TreeDefinition {
	t := &TreeDefinition{Name: "oak"}
	for y := 0; y < 5; y++ {
		t.Voxels = append(t.Voxels, TreeVoxel{Offset: [3]int{0, y, 0}, Voxel: d.Log})
	}
	for y := 3; y <= 6; y++ {
		r := 2
		if y >= 5 {
			r = 1
		}
		for z := -r; z <= r; z++ {
			for x := -r; x <= r; x++ {
				if x == 0 && z == 0 && y < 5 {
					continue
				}
				// clip the crown corners
				if r == 2 && (x == -r || x == r) && (z == -r || z == r) {
					continue
				}
				t.Voxels = append(t.Voxels, TreeVoxel{Offset: [3]int{x, y, z}, Voxel: d.Leaves})
			}
		}
	}
	return t
}

// DefaultBiomes returns the built-in biome table over the standard voxel
// set. Elevation is the evaluator altitude; the sea bed falls to Ocean.
func DefaultBiomes(d *registry.Defaults) *BiomeSet {
	oak := OakTree(d)
	ores := []BiomeOre{
		{Ore: d.CoalOre, ProbabilityMin: 0.7, ProbabilityMax: 1, DepthMin: 3, DepthMax: 64},
		{Ore: d.IronOre, ProbabilityMin: 0, ProbabilityMax: 0.12, DepthMin: 12, DepthMax: 256},
	}

	ocean := &Biome{
		Name:  "Ocean",
		Top:   d.Sand,
		Dirt:  d.Sand,
		Zones: []BiomeZone{{ElevationMin: 0, ElevationMax: 0.25, MoistureMin: 0, MoistureMax: 1}},
		Ores:  ores,
	}
	plains := &Biome{
		Name:              "Plains",
		Top:               d.Grass,
		Dirt:              d.Dirt,
		TreeDensity:       0.002,
		Trees:             []BiomeTree{{Tree: oak, Probability: 1}},
		VegetationDensity: 0.08,
		Vegetation: []BiomeVegetation{
			{Voxel: d.TallGrass, Probability: 0.85},
			{Voxel: d.Flower, Probability: 0.15},
		},
		Zones: []BiomeZone{{ElevationMin: 0.25, ElevationMax: 0.45, MoistureMin: 0, MoistureMax: 0.5}},
		Ores:  ores,
	}
	forest := &Biome{
		Name:              "Forest",
		Top:               d.Grass,
		Dirt:              d.Dirt,
		TreeDensity:       0.02,
		Trees:             []BiomeTree{{Tree: oak, Probability: 1}},
		VegetationDensity: 0.05,
		Vegetation:        []BiomeVegetation{{Voxel: d.TallGrass, Probability: 1}},
		Zones:             []BiomeZone{{ElevationMin: 0.25, ElevationMax: 0.55, MoistureMin: 0.5, MoistureMax: 1}},
		Ores:              ores,
	}
	hills := &Biome{
		Name:              "Extreme Hills",
		Top:               d.Grass,
		Dirt:              d.Stone,
		TreeDensity:       0.005,
		Trees:             []BiomeTree{{Tree: oak, Probability: 1}},
		VegetationDensity: 0.02,
		Vegetation:        []BiomeVegetation{{Voxel: d.TallGrass, Probability: 1}},
		Zones:             []BiomeZone{{ElevationMin: 0.45, ElevationMax: 0.7, MoistureMin: 0, MoistureMax: 1}},
		Ores:              ores,
	}
	mountains := &Biome{
		Name:  "Mountains",
		Top:   d.Snow,
		Dirt:  d.Stone,
		Zones: []BiomeZone{{ElevationMin: 0.7, ElevationMax: 1, MoistureMin: 0, MoistureMax: 1}},
		Ores:  ores,
	}

	return &BiomeSet{
		Biomes:  []*Biome{ocean, plains, forest, hills, mountains},
		Default: plains,
	}
}
