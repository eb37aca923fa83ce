package terrain

import "sync"

// HeightMapInfo is the evaluated state of one world column.
type HeightMapInfo struct {
	Altitude    float32
	Moisture    float32
	GroundLevel int
	Biome       *Biome
}

// ColumnHeightMap holds the 16x16 columns of a chunk column, indexed
// z*16+x like the bottom voxel row of a chunk.
type ColumnHeightMap [256]HeightMapInfo

// heightMapCache keeps evaluated chunk columns. When it grows past limit
// it starts over.
type heightMapCache struct {
	mu      sync.RWMutex
	columns map[[2]int]*ColumnHeightMap
	limit   int
}

func newHeightMapCache(limit int) *heightMapCache {
	return &heightMapCache{columns: make(map[[2]int]*ColumnHeightMap), limit: max(limit, 1)}
}

func (c *heightMapCache) get(cx, cz int) (*ColumnHeightMap, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hm, ok := c.columns[[2]int{cx, cz}]
	return hm, ok
}

// put stores hm unless another worker got there first and returns the
// stored entry.
func (c *heightMapCache) put(cx, cz int, hm *ColumnHeightMap) *ColumnHeightMap {
	key := [2]int{cx, cz}
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.columns[key]; ok {
		return cur
	}
	if len(c.columns) >= c.limit {
		clear(c.columns)
	}
	c.columns[key] = hm
	return hm
}

func (c *heightMapCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.columns)
}
