package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable Load falls back to.
const EnvConfigPath = "VOXELCORE_CONFIG"

// Config is the root of the YAML configuration.
type Config struct {
	LogLevel    string        `yaml:"log_level"`
	MetricsAddr string        `yaml:"metrics_addr"`
	Meshing     MeshingConfig `yaml:"meshing"`
	Terrain     TerrainConfig `yaml:"terrain"`
	World       WorldConfig   `yaml:"world"`
}

// MeshingConfig configures the mesher and the generation scheduler.
type MeshingConfig struct {
	// Workers is the number of lanes; 0 means logical cores - 1.
	Workers int `yaml:"workers"`
	// PoolSize is the total number of job slots shared by the lanes.
	PoolSize         int      `yaml:"pool_size"`
	Threaded         bool     `yaml:"threaded"`
	SmoothLighting   bool     `yaml:"smooth_lighting"`
	Colliders        bool     `yaml:"colliders"`
	NavMesh          bool     `yaml:"navmesh"`
	Tinting          bool     `yaml:"tinting"`
	PointMode        bool     `yaml:"point_mode"`
	UploadBudget     Duration `yaml:"upload_budget"`
	StopPollAttempts int      `yaml:"stop_poll_attempts"`
	StopPollInterval Duration `yaml:"stop_poll_interval"`
}

// TerrainConfig configures the terrain evaluator and painter.
type TerrainConfig struct {
	Seed               int64   `yaml:"seed"`
	MaxHeight          float64 `yaml:"max_height"`
	MinHeight          float64 `yaml:"min_height"`
	SeaLevel           float64 `yaml:"sea_level"`
	BeachWidth         float64 `yaml:"beach_width"`
	SeaDepthMultiplier float64 `yaml:"sea_depth_multiplier"`
	MoistureScale      float64 `yaml:"moisture_scale"`
	OreScale           float64 `yaml:"ore_scale"`
	NoiseTextureSize   int     `yaml:"noise_texture_size"`
}

// WorldConfig configures chunk streaming.
type WorldConfig struct {
	RenderDistance int `yaml:"render_distance"`
}

// Duration decodes YAML strings such as "4ms" into a time.Duration.
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Meshing: MeshingConfig{
			PoolSize:         128,
			Threaded:         true,
			SmoothLighting:   true,
			Colliders:        true,
			NavMesh:          true,
			Tinting:          true,
			UploadBudget:     Duration{4 * time.Millisecond},
			StopPollAttempts: 100,
			StopPollInterval: Duration{10 * time.Millisecond},
		},
		Terrain: TerrainConfig{
			Seed:               1,
			MaxHeight:          256,
			MinHeight:          -32,
			SeaLevel:           0.25,
			BeachWidth:         0.001,
			SeaDepthMultiplier: 0.4,
			MoistureScale:      0.2,
			OreScale:           4,
			NoiseTextureSize:   256,
		},
		World: WorldConfig{
			RenderDistance: 8,
		},
	}
}

// Load reads a YAML file over the defaults. If path is empty it tries the
// VOXELCORE_CONFIG environment variable and returns the defaults when that
// is empty too.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate returns the first violated rule.
func (c *Config) Validate() error {
	m := c.Meshing
	switch {
	case m.Workers < 0:
		return errors.New("meshing.workers must not be negative")
	case m.PoolSize <= 0:
		return errors.New("meshing.pool_size must be positive")
	case m.Workers > 0 && m.PoolSize < m.Workers:
		return fmt.Errorf("meshing.pool_size %d is smaller than meshing.workers %d", m.PoolSize, m.Workers)
	case m.UploadBudget.Duration < 0:
		return errors.New("meshing.upload_budget must not be negative")
	case m.StopPollAttempts <= 0:
		return errors.New("meshing.stop_poll_attempts must be positive")
	case m.StopPollInterval.Duration <= 0:
		return errors.New("meshing.stop_poll_interval must be positive")
	}

	t := c.Terrain
	switch {
	case t.MaxHeight <= t.MinHeight:
		return fmt.Errorf("terrain.max_height %v must be above terrain.min_height %v", t.MaxHeight, t.MinHeight)
	case t.SeaLevel < 0 || t.SeaLevel > 1:
		return fmt.Errorf("terrain.sea_level %v must be in [0,1]", t.SeaLevel)
	case t.BeachWidth < 0:
		return errors.New("terrain.beach_width must not be negative")
	case t.MoistureScale <= 0:
		return errors.New("terrain.moisture_scale must be positive")
	case t.OreScale <= 0:
		return errors.New("terrain.ore_scale must be positive")
	case t.NoiseTextureSize < 2:
		return errors.New("terrain.noise_texture_size must be at least 2")
	}

	if c.World.RenderDistance < 1 {
		return errors.New("world.render_distance must be at least 1")
	}
	return nil
}
