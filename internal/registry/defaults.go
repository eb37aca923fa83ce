package registry

import "voxelcore/internal/world"

// Defaults holds the standard voxel set used by the default biomes and the
// headless driver.
type Defaults struct {
	Bedrock   *world.VoxelDefinition
	Stone     *world.VoxelDefinition
	Dirt      *world.VoxelDefinition
	Grass     *world.VoxelDefinition
	Sand      *world.VoxelDefinition
	Snow      *world.VoxelDefinition
	Water     *world.VoxelDefinition
	Log       *world.VoxelDefinition
	Leaves    *world.VoxelDefinition
	TallGrass *world.VoxelDefinition
	Flower    *world.VoxelDefinition
	Glass     *world.VoxelDefinition
	Cloud     *world.VoxelDefinition
	CoalOre   *world.VoxelDefinition
	IronOre   *world.VoxelDefinition
	Barrier   *world.VoxelDefinition
	Torch     *world.VoxelDefinition
}

// RegisterDefaults registers the standard voxel set on p and makes dirt
// the fallback definition.
func RegisterDefaults(p *Palette) *Defaults {
	d := &Defaults{}

	d.Bedrock = p.MustRegister(p.NewDefinition("bedrock", world.RenderOpaque, "bedrock.png", "bedrock.png", "bedrock.png"))
	d.Stone = p.MustRegister(p.NewDefinition("stone", world.RenderOpaque, "stone.png", "stone.png", "stone.png"))
	d.Dirt = p.MustRegister(p.NewDefinition("dirt", world.RenderOpaque, "dirt.png", "dirt.png", "dirt.png"))
	d.Dirt.Navigable = true

	d.Grass = p.NewDefinition("grass", world.RenderOpaque6Tex, "grass_top.png", "grass_side.png", "dirt.png")
	d.Grass.Tint = [3]uint8{125, 255, 92}
	d.Grass.Navigable = true
	p.MustRegister(d.Grass)

	d.Sand = p.MustRegister(p.NewDefinition("sand", world.RenderOpaque, "sand.png", "sand.png", "sand.png"))
	d.Sand.Navigable = true
	d.Snow = p.MustRegister(p.NewDefinition("snow", world.RenderOpaque, "snow.png", "snow_side.png", "dirt.png"))
	d.Snow.Navigable = true

	d.Water = p.NewDefinition("water", world.RenderWater, "water_still.png", "water_flow.png", "water_still.png")
	d.Water.ShowFoam = true
	d.Water.Alpha = 0.8
	p.MustRegister(d.Water)

	d.Log = p.MustRegister(p.NewDefinition("log", world.RenderOpaque6Tex, "log_top.png", "log_side.png", "log_top.png"))

	d.Leaves = p.NewDefinition("leaves", world.RenderCutout, "leaves.png", "leaves.png", "leaves.png")
	d.Leaves.Tint = [3]uint8{72, 181, 24}
	d.Leaves.ColorVariation = 0.2
	p.MustRegister(d.Leaves)

	d.TallGrass = p.NewDefinition("tall_grass", world.RenderCutoutCross, "tallgrass.png", "tallgrass.png", "tallgrass.png")
	d.TallGrass.WindAnimation = true
	d.TallGrass.ColorVariation = 0.3
	p.MustRegister(d.TallGrass)

	d.Flower = p.NewDefinition("flower", world.RenderCutoutCross, "flower_rose.png", "flower_rose.png", "flower_rose.png")
	d.Flower.WindAnimation = true
	p.MustRegister(d.Flower)

	d.Glass = p.NewDefinition("glass", world.RenderTransp6Tex, "glass.png", "glass.png", "glass.png")
	d.Glass.Alpha = 0.5
	d.Glass.Navigable = true
	p.MustRegister(d.Glass)

	d.Cloud = p.MustRegister(p.NewDefinition("cloud", world.RenderOpaqueNoAO, "cloud.png", "cloud.png", "cloud.png"))

	d.CoalOre = p.MustRegister(p.NewDefinition("coal_ore", world.RenderOpaque, "coal_ore.png", "coal_ore.png", "coal_ore.png"))
	d.IronOre = p.MustRegister(p.NewDefinition("iron_ore", world.RenderOpaque, "iron_ore.png", "iron_ore.png", "iron_ore.png"))

	// invisible wall, collider only
	d.Barrier = p.MustRegister(&world.VoxelDefinition{Name: "barrier", RenderType: world.RenderEmpty, Navigable: true})

	d.Torch = p.NewDefinition("torch", world.RenderCustom, "torch.png", "torch.png", "torch.png")
	d.Torch.Model = "torch"
	p.MustRegister(d.Torch)

	if err := p.SetDefault(d.Dirt.Name); err != nil {
		panic(err)
	}
	return d
}
