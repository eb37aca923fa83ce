package terrain

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Op is the operation of a terrain step. The numeric values match the
// authored terrain programs.
type Op int

const (
	OpSampleHeightMap  Op = 0
	OpSampleRidgeNoise Op = 1
	OpConstant         Op = 100
	OpCopy             Op = 101
	OpRandom           Op = 102
	OpInvert           Op = 103
	OpShift            Op = 104
	OpBeachMask        Op = 105
	OpAddAndMultiply   Op = 200
	OpMultiplyAndAdd   Op = 201
	OpExponential      Op = 202
	OpThreshold        Op = 203
	OpFlattenOrRaise   Op = 204
	OpBlendAdditive    Op = 300
	OpBlendMultiply    Op = 301
	OpClamp            Op = 302
	OpSelect           Op = 303
	OpFill             Op = 304
	OpTest             Op = 305
)

var opNames = map[Op]string{
	OpSampleHeightMap:  "sample_height_map",
	OpSampleRidgeNoise: "sample_ridge_noise",
	OpConstant:         "constant",
	OpCopy:             "copy",
	OpRandom:           "random",
	OpInvert:           "invert",
	OpShift:            "shift",
	OpBeachMask:        "beach_mask",
	OpAddAndMultiply:   "add_and_multiply",
	OpMultiplyAndAdd:   "multiply_and_add",
	OpExponential:      "exponential",
	OpThreshold:        "threshold",
	OpFlattenOrRaise:   "flatten_or_raise",
	OpBlendAdditive:    "blend_additive",
	OpBlendMultiply:    "blend_multiply",
	OpClamp:            "clamp",
	OpSelect:           "select",
	OpFill:             "fill",
	OpTest:             "test",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Inputs returns how many step references the operation reads.
func (o Op) Inputs() int {
	switch o {
	case OpCopy, OpBeachMask, OpThreshold, OpSelect, OpFill, OpTest:
		return 1
	case OpBlendAdditive, OpBlendMultiply:
		return 2
	default:
		return 0
	}
}

// ParseOp accepts an operation name or its numeric tag.
func ParseOp(s string) (Op, error) {
	for op, name := range opNames {
		if name == s {
			return op, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unknown terrain op %q", s)
	}
	if _, ok := opNames[Op(n)]; !ok {
		return 0, fmt.Errorf("unknown terrain op %d", n)
	}
	return Op(n), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *Op) UnmarshalYAML(node *yaml.Node) error {
	op, err := ParseOp(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*o = op
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (o Op) MarshalYAML() (any, error) {
	return o.String(), nil
}

// Step is one instruction of a terrain program. Steps read the outputs of
// earlier steps through Input0 and Input1.
type Step struct {
	Op      Op   `yaml:"op"`
	Enabled bool `yaml:"enabled"`

	// Noise is the table read by the sample operations; NoiseName selects
	// it from the generator's table set when loading a program.
	Noise     *NoiseTable `yaml:"-"`
	NoiseName string      `yaml:"noise,omitempty"`
	Frequency float64     `yaml:"frequency,omitempty"`
	NoiseMin  float64     `yaml:"noise_min,omitempty"`
	NoiseMax  float64     `yaml:"noise_max,omitempty"`

	Input0 int `yaml:"input0,omitempty"`
	Input1 int `yaml:"input1,omitempty"`

	Threshold      float64 `yaml:"threshold,omitempty"`
	ThresholdShift float64 `yaml:"threshold_shift,omitempty"`
	ThresholdParam float64 `yaml:"threshold_param,omitempty"`

	Param  float64 `yaml:"param,omitempty"`
	Param2 float64 `yaml:"param2,omitempty"`

	Weight0 float64 `yaml:"weight0,omitempty"`
	Weight1 float64 `yaml:"weight1,omitempty"`

	Min float64 `yaml:"min,omitempty"`
	Max float64 `yaml:"max,omitempty"`
}

// Program is the YAML form of a terrain program.
type Program struct {
	Steps []Step `yaml:"steps"`
}

// ParseProgram decodes a YAML terrain program and binds the sample steps
// to the named tables.
func ParseProgram(data []byte, tables map[string]*NoiseTable) ([]Step, error) {
	var p Program
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse terrain program: %w", err)
	}
	for i := range p.Steps {
		s := &p.Steps[i]
		if s.Op != OpSampleHeightMap && s.Op != OpSampleRidgeNoise {
			continue
		}
		t, ok := tables[s.NoiseName]
		if !ok {
			return nil, fmt.Errorf("terrain step %d: unknown noise table %q", i, s.NoiseName)
		}
		s.Noise = t
	}
	return p.Steps, nil
}
