package terrain

// DefaultTables generates the noise tables used by DefaultProgram, keyed
// by the names a YAML program refers to.
func DefaultTables(size int, seed int64) map[string]*NoiseTable {
	size = max(size, 2)
	return map[string]*NoiseTable{
		"height":   GeneratePerlinTable(size, seed, 4),
		"ridge":    GenerateValueNoiseTable(size, seed+1, 8, 3),
		"moisture": GeneratePerlinTable(size, seed+2, 3),
	}
}

// DefaultProgram is rolling terrain with ridged highlands. Beaches are
// vetoed where the ridge noise is strong.
func DefaultProgram(tables map[string]*NoiseTable) []Step {
	return []Step{
		{Op: OpSampleHeightMap, Enabled: true, Noise: tables["height"], NoiseName: "height", Frequency: 0.25, NoiseMin: 0.1, NoiseMax: 0.7},
		{Op: OpSampleRidgeNoise, Enabled: true, Noise: tables["ridge"], NoiseName: "ridge", Frequency: 0.5, NoiseMin: 0, NoiseMax: 1},
		{Op: OpBlendAdditive, Enabled: true, Input0: 0, Input1: 1, Weight0: 0.8, Weight1: 0.2},
		{Op: OpFlattenOrRaise, Enabled: true, Threshold: 0.45, ThresholdParam: 1.8},
		{Op: OpBeachMask, Enabled: true, Input0: 1, Threshold: 0.85},
		{Op: OpClamp, Enabled: true, Min: 0, Max: 1},
	}
}
