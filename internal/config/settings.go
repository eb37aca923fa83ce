package config

import (
	"sync"
	"time"
)

// RuntimeSettings holds values the driver may change while running
type RuntimeSettings struct {
	mu             sync.RWMutex
	renderDistance int // in chunks
	uploadBudget   time.Duration
}

var globalSettings = &RuntimeSettings{
	renderDistance: 8,
	uploadBudget:   4 * time.Millisecond,
}

// Apply copies the runtime part of cfg into the global settings.
func Apply(cfg *Config) {
	SetRenderDistance(cfg.World.RenderDistance)
	SetUploadBudget(cfg.Meshing.UploadBudget.Duration)
}

// GetRenderDistance returns the current render distance in chunks
func GetRenderDistance() int {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	return globalSettings.renderDistance
}

// SetRenderDistance sets the render distance in chunks
func SetRenderDistance(distance int) {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()

	// Clamp to reasonable values
	distance = max(distance, 1)
	distance = min(distance, 50)

	globalSettings.renderDistance = distance
}

// GetChunkLoadRadius returns radius for chunk loading
func GetChunkLoadRadius() int {
	return GetRenderDistance()
}

// GetChunkEvictRadius returns radius for chunk eviction (larger than load radius)
func GetChunkEvictRadius() int {
	return GetRenderDistance() * 2
}

// GetUploadBudget returns the time per frame the presenter may spend
// uploading finished meshes.
func GetUploadBudget() time.Duration {
	globalSettings.mu.RLock()
	defer globalSettings.mu.RUnlock()
	return globalSettings.uploadBudget
}

// SetUploadBudget sets the per frame upload budget. Negative values are
// stored as zero.
func SetUploadBudget(d time.Duration) {
	globalSettings.mu.Lock()
	defer globalSettings.mu.Unlock()
	globalSettings.uploadBudget = max(d, 0)
}
