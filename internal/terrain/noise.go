package terrain

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
	"golang.org/x/image/draw"
)

// NoiseTable is a square, tiling grid of noise values in 0..1.
type NoiseTable struct {
	Size   int
	Values []float32
}

// NewNoiseTable wraps values as a size x size table.
func NewNoiseTable(size int, values []float32) (*NoiseTable, error) {
	if size < 2 {
		return nil, fmt.Errorf("noise table: size %d too small", size)
	}
	if len(values) != size*size {
		return nil, fmt.Errorf("noise table: %d values for size %d", len(values), size)
	}
	return &NoiseTable{Size: size, Values: values}, nil
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// At returns the value at integer coordinates, wrapping around the edges.
func (t *NoiseTable) At(x, z int) float64 {
	return float64(t.Values[wrap(z, t.Size)*t.Size+wrap(x, t.Size)])
}

// Bilinear samples the table at fractional coordinates.
func (t *NoiseTable) Bilinear(x, z float64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	fx := x - x0
	fz := z - z0
	ix, iz := int(x0), int(z0)

	v00 := t.At(ix, iz)
	v10 := t.At(ix+1, iz)
	v01 := t.At(ix, iz+1)
	v11 := t.At(ix+1, iz+1)
	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fz)
}

// Ridge samples the table folded around 0.5 so that mid values become
// sharp crests.
func (t *NoiseTable) Ridge(x, z float64) float64 {
	return 1 - math.Abs(2*t.Bilinear(x, z)-1)
}

// NoiseFromImage resamples the luminance of img into a size x size table.
func NoiseFromImage(img image.Image, size int) (*NoiseTable, error) {
	if img == nil {
		return nil, fmt.Errorf("noise from image: nil image")
	}
	if size < 2 {
		return nil, fmt.Errorf("noise from image: size %d too small", size)
	}
	gray := image.NewGray(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)

	values := make([]float32, size*size)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			values[z*size+x] = float32(gray.GrayAt(x, z).Y) / 255
		}
	}
	return NewNoiseTable(size, values)
}

// Image renders the table as a grayscale image.
func (t *NoiseTable) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, t.Size, t.Size))
	for z := 0; z < t.Size; z++ {
		for x := 0; x < t.Size; x++ {
			v := math.Round(float64(t.Values[z*t.Size+x]) * 255)
			img.SetGray(x, z, color.Gray{Y: uint8(max(0, min(255, v)))})
		}
	}
	return img
}

// GeneratePerlinTable fills a table with Perlin noise. scale is the number
// of noise units across the table. The table tiles without a seam.
func GeneratePerlinTable(size int, seed int64, scale float64) *NoiseTable {
	p := perlin.NewPerlin(2, 2, 3, seed)
	return tiledTable(size, scale, func(u, v float64) float64 {
		return (p.Noise2D(u, v) + 1) / 2
	})
}

// GenerateValueNoiseTable fills a table with octave value noise. The table
// tiles without a seam.
func GenerateValueNoiseTable(size int, seed int64, scale float64, octaves int) *NoiseTable {
	return tiledTable(size, scale, func(u, v float64) float64 {
		return octaveNoise2D(u, v, seed, octaves, 0.5, 2)
	})
}

// tiledTable samples f over [0, scale)² and cross-fades each sample with
// its copies one period away so the last column and row run into the
// first.
func tiledTable(size int, scale float64, f func(u, v float64) float64) *NoiseTable {
	values := make([]float32, size*size)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			fx := float64(x) / float64(size)
			fz := float64(z) / float64(size)
			u, v := fx*scale, fz*scale
			n := f(u, v)*(1-fx)*(1-fz) +
				f(u-scale, v)*fx*(1-fz) +
				f(u, v-scale)*(1-fx)*fz +
				f(u-scale, v-scale)*fx*fz
			values[z*size+x] = float32(clamp01(n))
		}
	}
	return &NoiseTable{Size: size, Values: values}
}

// Simple deterministic 2D value noise with multiple octaves.

// fade function is used for smoothing (Spline)
func fade(t float64) float64 {
	// Smoothstep-like fade function 6t^5 - 15t^4 + 10t^3
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

func hash2(x int64, z int64, seed int64) uint64 {
	// SplitMix64 style integer hash, stable across runs for same inputs
	v := uint64(x) + (uint64(z) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func latticeValue(x int64, z int64, seed int64) float64 {
	h := hash2(x, z, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x float64, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)

	fx := fade(x - x0)
	fz := fade(z - z0)

	v00 := latticeValue(int64(x0), int64(z0), seed)
	v10 := latticeValue(int64(x0)+1, int64(z0), seed)
	v01 := latticeValue(int64(x0), int64(z0)+1, seed)
	v11 := latticeValue(int64(x0)+1, int64(z0)+1, seed)

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fz) // [0,1]
}

func octaveNoise2D(x float64, z float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := range octaves {
		v := valueNoise2D(x*frequency, z*frequency, seed+int64(i*131))
		sum += v * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm // [0,1]
}
