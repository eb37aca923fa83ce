package world

import "sync/atomic"

var randomSeed atomic.Int64

// SetRandomSeed changes the seed of Random. Meshes and terrain generated
// with the same seed are identical.
func SetRandomSeed(seed int64) {
	randomSeed.Store(seed)
}

func hash3(x, y, z int64, seed int64) uint64 {
	// SplitMix64 style integer hash for 3D coordinates
	// Use separate golden ratio variants per axis for better distribution
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(z)*0x6C62272E07BB0142 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

// Random returns a stable pseudo random value in [0,1) for a world voxel
// position.
func Random(x, y, z int) float32 {
	return RandomSeeded(x, y, z, randomSeed.Load())
}

// RandomSeeded is Random with an explicit seed.
func RandomSeeded(x, y, z int, seed int64) float32 {
	h := hash3(int64(x), int64(y), int64(z), seed)
	// 24 bits keep the result exactly representable and below 1
	return float32(h>>40) / (1 << 24)
}
