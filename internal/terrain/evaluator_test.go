package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(v float64) Step {
	return Step{Op: OpConstant, Enabled: true, Param: v}
}

func TestConstantProgramAtSeaLevelZero(t *testing.T) {
	e := NewEvaluator([]Step{constant(5)}, nil, Params{MaxHeight: 256, SeaLevel: 0, BeachWidth: 0.001, SeaDepthMultiplier: 0.4})
	require.Zero(t, e.Init())

	alt, moist := e.HeightAndMoisture(10, -3)
	assert.Equal(t, 5.0, alt)
	assert.Zero(t, moist)
}

func TestEmptyProgramHasNoTerrain(t *testing.T) {
	e := NewEvaluator(nil, nil, Params{MaxHeight: 256, SeaLevel: 0.25})
	e.Init()
	alt, _ := e.HeightAndMoisture(0, 0)
	assert.Equal(t, float64(NoTerrainAltitude), alt)
}

func TestInitClampsInputReferences(t *testing.T) {
	steps := []Step{
		constant(0.7),
		{Op: OpCopy, Enabled: true, Input0: -1, Input1: 2},
		{Op: OpBlendAdditive, Enabled: true, Input0: 1, Input1: 9, Weight0: 1, Weight1: 1},
	}
	e := NewEvaluator(steps, nil, Params{MaxHeight: 256})
	assert.Equal(t, 2, e.Init())
	assert.Equal(t, 0, e.Steps()[1].Input0)
	assert.Equal(t, 2, e.Steps()[1].Input1, "in range references are kept")
	assert.Equal(t, 0, e.Steps()[2].Input1)

	// copy of step 0, then 0.7 + 0.7
	alt, _ := e.HeightAndMoisture(0, 0)
	assert.InDelta(t, 1.4, alt, 1e-9)
	assert.Zero(t, e.Init(), "second init finds nothing to clamp")
}

func TestStepOperations(t *testing.T) {
	flat := &NoiseTable{Size: 2, Values: []float32{0.25, 0.25, 0.25, 0.25}}
	tests := []struct {
		name  string
		steps []Step
		want  float64
	}{
		{"sample", []Step{{Op: OpSampleHeightMap, Enabled: true, Noise: flat, Frequency: 1, NoiseMin: 1, NoiseMax: 3}}, 1.5},
		{"ridge", []Step{{Op: OpSampleRidgeNoise, Enabled: true, Noise: flat, Frequency: 1, NoiseMin: 0, NoiseMax: 1}}, 0.5},
		{"copy", []Step{constant(0.3), constant(0.9), {Op: OpCopy, Enabled: true, Input0: 0}}, 0.3},
		{"invert", []Step{constant(0.3), {Op: OpInvert, Enabled: true}}, 0.7},
		{"shift", []Step{constant(0.3), {Op: OpShift, Enabled: true, Param: 0.2}}, 0.5},
		{"beach mask keeps value", []Step{constant(0.3), {Op: OpBeachMask, Enabled: true, Threshold: 0.1}}, 0.3},
		{"add and multiply", []Step{constant(1), {Op: OpAddAndMultiply, Enabled: true, Param: 1, Param2: 3}}, 6},
		{"multiply and add", []Step{constant(2), {Op: OpMultiplyAndAdd, Enabled: true, Param: 3, Param2: 1}}, 7},
		{"exponential", []Step{constant(3), {Op: OpExponential, Enabled: true, Param: 2}}, 9},
		{"exponential of negative", []Step{constant(-3), {Op: OpExponential, Enabled: true, Param: 2}}, 0},
		{"threshold above", []Step{constant(0.6), {Op: OpThreshold, Enabled: true, Threshold: 0.5, ThresholdShift: 0.1, ThresholdParam: -1}}, 0.7},
		{"threshold below", []Step{constant(0.4), {Op: OpThreshold, Enabled: true, Threshold: 0.5, ThresholdShift: 0.1, ThresholdParam: -1}}, -1},
		{"flatten", []Step{constant(0.8), {Op: OpFlattenOrRaise, Enabled: true, Threshold: 0.6, ThresholdParam: 0.5}}, 0.7},
		{"flatten below threshold", []Step{constant(0.4), {Op: OpFlattenOrRaise, Enabled: true, Threshold: 0.6, ThresholdParam: 0.5}}, 0.4},
		{"blend additive", []Step{constant(1), constant(2), {Op: OpBlendAdditive, Enabled: true, Input0: 0, Input1: 1, Weight0: 0.5, Weight1: 0.25}}, 1},
		{"blend multiply", []Step{constant(3), constant(2), {Op: OpBlendMultiply, Enabled: true, Input0: 0, Input1: 1}}, 6},
		{"clamp", []Step{constant(3), {Op: OpClamp, Enabled: true, Min: 0, Max: 1}}, 1},
		{"select inside", []Step{constant(0.5), {Op: OpSelect, Enabled: true, Min: 0, Max: 1, ThresholdParam: 9}}, 0.5},
		{"select outside", []Step{constant(1.5), {Op: OpSelect, Enabled: true, Min: 0, Max: 1, ThresholdParam: 9}}, 9},
		{"fill inside", []Step{constant(0.5), {Op: OpFill, Enabled: true, Min: 0, Max: 1, ThresholdParam: 9}}, 9},
		{"fill outside keeps value", []Step{constant(1.5), {Op: OpFill, Enabled: true, Min: 0, Max: 1, ThresholdParam: 9}}, 1.5},
		{"test inside", []Step{constant(0.5), {Op: OpTest, Enabled: true, Min: 0, Max: 1}}, 1},
		{"test outside", []Step{constant(-1), {Op: OpTest, Enabled: true, Min: 0, Max: 1}}, 0},
		{"disabled carries value", []Step{constant(0.3), {Op: OpConstant, Param: 7}}, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(tt.steps, nil, Params{MaxHeight: 256})
			require.Zero(t, e.Init())
			got, _ := e.run(0, 0, make([]float64, len(tt.steps)))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRandomStepIsStable(t *testing.T) {
	e := NewEvaluator([]Step{{Op: OpRandom, Enabled: true}}, nil, Params{MaxHeight: 256})
	e.Init()
	a, _ := e.run(12.7, -4.2, make([]float64, 1))
	b, _ := e.run(12.1, -4.9, make([]float64, 1))
	assert.Equal(t, a, b, "same voxel column")
	assert.GreaterOrEqual(t, a, 0.0)
	assert.Less(t, a, 1.0)
}

func TestCoastShaping(t *testing.T) {
	params := Params{MaxHeight: 100, SeaLevel: 0.305, BeachWidth: 0.001, SeaDepthMultiplier: 0.4}
	eval := func(steps ...Step) float64 {
		e := NewEvaluator(steps, nil, params)
		e.Init()
		alt, _ := e.HeightAndMoisture(0, 0)
		return alt
	}

	sea := NewEvaluator(nil, nil, params)
	sea.Init()
	assert.InDelta(t, 0.30, sea.SeaLevelAligned(), 1e-9)
	seaBed := 0.3 - 0.0001 - 0.0001*0.4

	// wide beach band flattens to the sea bed
	assert.InDelta(t, seaBed, eval(constant(0.305)), 1e-9)
	// thin beach stays
	assert.InDelta(t, 0.3095, eval(constant(0.3095)), 1e-9)
	// unless vetoed
	assert.InDelta(t, seaBed, eval(constant(0.3095), Step{Op: OpBeachMask, Enabled: true, Input0: 0, Threshold: 0.1}), 1e-9)
	// sea bed depth is scaled
	assert.InDelta(t, 0.3-0.0001-0.1*0.4, eval(constant(0.2)), 1e-9)
	// land is untouched
	assert.InDelta(t, 0.5, eval(constant(0.5)), 1e-9)
}

func TestMoistureSamplesScaledTable(t *testing.T) {
	m := &NoiseTable{Size: 2, Values: []float32{0, 1, 0, 1}}
	e := NewEvaluator([]Step{constant(1)}, m, Params{MaxHeight: 256, MoistureScale: 0.5})
	e.Init()
	_, moist := e.HeightAndMoisture(1, 0)
	assert.InDelta(t, 0.5, moist, 1e-6)
}

func TestLongProgramsUseHeapScratch(t *testing.T) {
	steps := []Step{constant(0)}
	for i := 0; i < 40; i++ {
		steps = append(steps, Step{Op: OpShift, Enabled: true, Param: 0.5})
	}
	e := NewEvaluator(steps, nil, Params{MaxHeight: 256})
	e.Init()
	alt, _ := e.HeightAndMoisture(0, 0)
	assert.InDelta(t, 20, alt, 1e-9)
}

func BenchmarkHeightAndMoisture(b *testing.B) {
	tables := DefaultTables(64, 1)
	e := NewEvaluator(DefaultProgram(tables), tables["moisture"], Params{MaxHeight: 256, SeaLevel: 0.25, BeachWidth: 0.001, SeaDepthMultiplier: 0.4, MoistureScale: 0.2})
	e.Init()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e.HeightAndMoisture(float64(i&1023), float64(i>>10&1023))
	}
}
