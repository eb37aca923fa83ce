package world

import (
	"testing"
)

func BenchmarkResolveNeighborhood(b *testing.B) {
	s := NewChunkStore()
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				s.GetChunk(ChunkCoord{X: x, Y: y, Z: z}, true).IsPopulated = true
			}
		}
	}
	c := s.GetChunk(ChunkCoord{}, false)
	var n Neighborhood

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n.Resolve(s, c)
	}
}

// Benchmark streaming around a fixed point with a flat populator
func BenchmarkStreamAround(b *testing.B) {
	s := NewChunkStore()
	cs := NewChunkStreamer(s, flatPopulator{height: 20}, 0)
	defer cs.Close()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cs.StreamChunksAroundSync(i%3, (i/3)%3, 4)
		cs.EvictFarChunks(0, 0, 6)
	}
}
