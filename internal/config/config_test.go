package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voxelcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadEmptyPathUsesEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := writeConfig(t, "meshing:\n  workers: 3\n")
	t.Setenv(EnvConfigPath, path)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Meshing.Workers)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
meshing:
  pool_size: 64
  smooth_lighting: false
  upload_budget: 2ms
  stop_poll_interval: 1ms
terrain:
  seed: 42
  sea_level: 0.3
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 64, cfg.Meshing.PoolSize)
	assert.False(t, cfg.Meshing.SmoothLighting)
	assert.True(t, cfg.Meshing.Colliders)
	assert.Equal(t, 2*time.Millisecond, cfg.Meshing.UploadBudget.Duration)
	assert.Equal(t, time.Millisecond, cfg.Meshing.StopPollInterval.Duration)
	assert.Equal(t, 100, cfg.Meshing.StopPollAttempts)
	assert.Equal(t, int64(42), cfg.Terrain.Seed)
	assert.Equal(t, 0.3, cfg.Terrain.SeaLevel)
	assert.Equal(t, 0.4, cfg.Terrain.SeaDepthMultiplier)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "meshing:\n  upload_budget: soon\n"))
	assert.ErrorContains(t, err, "soon")

	_, err = Load(writeConfig(t, "meshing:\n  pool_size: 0\n"))
	assert.ErrorContains(t, err, "pool_size")
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"negative workers", func(c *Config) { c.Meshing.Workers = -1 }, "workers"},
		{"pool smaller than lanes", func(c *Config) { c.Meshing.Workers = 8; c.Meshing.PoolSize = 4 }, "pool_size"},
		{"no stop polls", func(c *Config) { c.Meshing.StopPollAttempts = 0 }, "stop_poll_attempts"},
		{"inverted heights", func(c *Config) { c.Terrain.MinHeight = 300 }, "max_height"},
		{"sea level range", func(c *Config) { c.Terrain.SeaLevel = 1.5 }, "sea_level"},
		{"ore scale", func(c *Config) { c.Terrain.OreScale = 0 }, "ore_scale"},
		{"tiny texture", func(c *Config) { c.Terrain.NoiseTextureSize = 1 }, "noise_texture_size"},
		{"render distance", func(c *Config) { c.World.RenderDistance = 0 }, "render_distance"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(c)
			assert.ErrorContains(t, c.Validate(), tc.want)
		})
	}
}

func TestRuntimeSettingsClamp(t *testing.T) {
	defer Apply(Default())

	SetRenderDistance(500)
	assert.Equal(t, 50, GetRenderDistance())
	assert.Equal(t, 100, GetChunkEvictRadius())

	SetUploadBudget(-time.Second)
	assert.Zero(t, GetUploadBudget())

	cfg := Default()
	cfg.Meshing.UploadBudget.Duration = 7 * time.Millisecond
	Apply(cfg)
	assert.Equal(t, 7*time.Millisecond, GetUploadBudget())
}
