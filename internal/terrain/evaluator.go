package terrain

import (
	"math"

	"voxelcore/internal/config"
	"voxelcore/internal/logging"
	"voxelcore/internal/world"
)

// NoTerrainAltitude is returned for programs without steps so every chunk
// counts as above the terrain.
const NoTerrainAltitude = -9999

// seaFloorOffset keeps flattened sea beds just under the aligned sea level.
const seaFloorOffset = 0.0001

// Params are the scalar settings of an Evaluator.
type Params struct {
	MaxHeight          float64
	SeaLevel           float64
	BeachWidth         float64
	SeaDepthMultiplier float64
	MoistureScale      float64
}

// ParamsFromConfig extracts the evaluator settings of cfg.
func ParamsFromConfig(cfg config.TerrainConfig) Params {
	return Params{
		MaxHeight:          cfg.MaxHeight,
		SeaLevel:           cfg.SeaLevel,
		BeachWidth:         cfg.BeachWidth,
		SeaDepthMultiplier: cfg.SeaDepthMultiplier,
		MoistureScale:      cfg.MoistureScale,
	}
}

// Evaluator runs a terrain program for world columns. After Init it is
// safe for concurrent use.
type Evaluator struct {
	steps    []Step
	moisture *NoiseTable
	params   Params

	seaAligned   float64
	beachAligned float64
}

// NewEvaluator creates an evaluator over steps. The slice is owned by the
// evaluator from now on. moisture may be nil.
func NewEvaluator(steps []Step, moisture *NoiseTable, params Params) *Evaluator {
	return &Evaluator{steps: steps, moisture: moisture, params: params}
}

// Init validates the program and precomputes the sea levels. Input
// references outside the program are redirected to step 0; Init returns
// how many were.
func (e *Evaluator) Init() int {
	if e.params.MaxHeight > 0 {
		sea := math.Floor(e.params.SeaLevel * e.params.MaxHeight)
		e.seaAligned = sea / e.params.MaxHeight
		e.beachAligned = (sea + 1) / e.params.MaxHeight
	}

	clamped := 0
	n := len(e.steps)
	for k := range e.steps {
		s := &e.steps[k]
		if s.Input0 < 0 || s.Input0 >= n {
			s.Input0 = 0
			clamped++
		}
		if s.Input1 < 0 || s.Input1 >= n {
			s.Input1 = 0
			clamped++
		}
		if s.Enabled && (s.Op == OpSampleHeightMap || s.Op == OpSampleRidgeNoise) && s.Noise == nil {
			logging.Warn("terrain step %d (%v) has no noise table and samples 0", k, s.Op)
		}
	}
	if clamped > 0 {
		logging.Warn("terrain program: %d step input references out of range, using step 0", clamped)
	}
	return clamped
}

// Steps returns the program.
func (e *Evaluator) Steps() []Step {
	return e.steps
}

// SeaLevelAligned returns the sea level snapped to a whole voxel, in 0..1.
func (e *Evaluator) SeaLevelAligned() float64 {
	return e.seaAligned
}

// HeightAndMoisture returns the altitude and moisture of a world column,
// both relative to MaxHeight.
func (e *Evaluator) HeightAndMoisture(x, z float64) (altitude, moisture float64) {
	if e.moisture != nil {
		moisture = e.moisture.Bilinear(x*e.params.MoistureScale, z*e.params.MoistureScale)
	}
	if len(e.steps) == 0 {
		return NoTerrainAltitude, moisture
	}

	var scratch [32]float64
	values := scratch[:0]
	if len(e.steps) > len(scratch) {
		values = make([]float64, 0, len(e.steps))
	}
	values = values[:len(e.steps)]

	altitude, allowBeach := e.run(x, z, values)
	return e.shapeCoast(altitude, allowBeach), moisture
}

// run evaluates every step in order and returns the last value.
func (e *Evaluator) run(x, z float64, values []float64) (float64, bool) {
	allowBeach := true
	value := 0.0
	for k := range e.steps {
		s := &e.steps[k]
		if s.Enabled {
			in0 := values[s.Input0]
			switch s.Op {
			case OpSampleHeightMap, OpSampleRidgeNoise:
				v := 0.0
				if s.Noise != nil {
					if s.Op == OpSampleRidgeNoise {
						v = s.Noise.Ridge(x*s.Frequency, z*s.Frequency)
					} else {
						v = s.Noise.Bilinear(x*s.Frequency, z*s.Frequency)
					}
				}
				value = v*(s.NoiseMax-s.NoiseMin) + s.NoiseMin
			case OpConstant:
				value = s.Param
			case OpCopy:
				value = in0
			case OpRandom:
				value = float64(world.Random(int(math.Floor(x)), 0, int(math.Floor(z))))
			case OpInvert:
				value = 1 - value
			case OpShift:
				value += s.Param
			case OpBeachMask:
				if in0 > s.Threshold {
					allowBeach = false
				}
			case OpAddAndMultiply:
				value = (value + s.Param) * s.Param2
			case OpMultiplyAndAdd:
				value = value*s.Param + s.Param2
			case OpExponential:
				value = math.Pow(max(value, 0), s.Param)
			case OpThreshold:
				if in0 >= s.Threshold {
					value = in0 + s.ThresholdShift
				} else {
					value = s.ThresholdParam
				}
			case OpFlattenOrRaise:
				if value >= s.Threshold {
					value = (value-s.Threshold)*s.ThresholdParam + s.Threshold
				}
			case OpBlendAdditive:
				value = in0*s.Weight0 + values[s.Input1]*s.Weight1
			case OpBlendMultiply:
				value = in0 * values[s.Input1]
			case OpClamp:
				value = max(s.Min, min(s.Max, value))
			case OpSelect:
				if in0 < s.Min || in0 > s.Max {
					value = s.ThresholdParam
				} else {
					value = in0
				}
			case OpFill:
				if in0 >= s.Min && in0 <= s.Max {
					value = s.ThresholdParam
				}
			case OpTest:
				if in0 >= s.Min && in0 <= s.Max {
					value = 1
				} else {
					value = 0
				}
			}
		}
		values[k] = value
	}
	return value, allowBeach
}

// shapeCoast removes thin beaches and deepens the sea bed.
func (e *Evaluator) shapeCoast(altitude float64, allowBeach bool) float64 {
	if altitude >= e.seaAligned && altitude < e.beachAligned {
		depth := e.beachAligned - altitude
		if depth > e.params.BeachWidth || !allowBeach {
			altitude = e.seaAligned - seaFloorOffset
		}
	}
	if altitude < e.seaAligned {
		depth := e.seaAligned - altitude
		altitude = e.seaAligned - seaFloorOffset - depth*e.params.SeaDepthMultiplier
	}
	return altitude
}
