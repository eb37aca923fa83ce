package registry

import (
	"fmt"
	"sync"

	"voxelcore/internal/logging"
	"voxelcore/internal/world"
)

// MaxDefinitions is the number of indices a palette can hand out.
const MaxDefinitions = 1 << 16

// Palette holds the voxel definitions of a world and the texture names
// they reference. Index 0 is always the empty voxel.
type Palette struct {
	mu           sync.RWMutex
	defs         []*world.VoxelDefinition
	names        map[string]uint16
	textureNames []string
	textureMap   map[string]int
	defaultIndex uint16
}

// NewPalette creates a palette holding only the empty voxel. Texture index
// 0 is reserved as the fallback texture.
func NewPalette() *Palette {
	p := &Palette{
		names:      make(map[string]uint16),
		textureMap: make(map[string]int),
	}
	empty := &world.VoxelDefinition{Name: "empty", RenderType: world.RenderEmpty}
	p.defs = append(p.defs, empty)
	p.names[empty.Name] = 0
	p.registerTexture("missing")
	return p
}

// Register assigns the next index to def. An Opaque of zero on a render
// type that normally occludes is replaced by the type default.
func (p *Palette) Register(def *world.VoxelDefinition) (*world.VoxelDefinition, error) {
	if def == nil || def.Name == "" {
		return nil, fmt.Errorf("register voxel: definition needs a name")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.names[def.Name]; ok {
		return nil, fmt.Errorf("register voxel %q: already registered", def.Name)
	}
	if len(p.defs) >= MaxDefinitions {
		return nil, fmt.Errorf("register voxel %q: palette full", def.Name)
	}
	if def.Opaque == 0 {
		def.Opaque = def.RenderType.DefaultOpaque()
	}
	def.Index = uint16(len(p.defs))
	p.defs = append(p.defs, def)
	p.names[def.Name] = def.Index
	return def, nil
}

// MustRegister is Register for static tables; it panics on error.
func (p *Palette) MustRegister(def *world.VoxelDefinition) *world.VoxelDefinition {
	d, err := p.Register(def)
	if err != nil {
		panic(err)
	}
	return d
}

// SetDefault selects the definition returned for unknown indices.
func (p *Palette) SetDefault(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx, ok := p.names[name]
	if !ok {
		return fmt.Errorf("default voxel %q: not registered", name)
	}
	p.defaultIndex = idx
	return nil
}

// Default returns the fallback definition.
func (p *Palette) Default() *world.VoxelDefinition {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.defs[p.defaultIndex]
}

// Get returns the definition at index, or the default definition when the
// index is out of range.
func (p *Palette) Get(index uint16) *world.VoxelDefinition {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if int(index) >= len(p.defs) || p.defs[index] == nil {
		return p.defs[p.defaultIndex]
	}
	return p.defs[index]
}

// Lookup returns a definition by name.
func (p *Palette) Lookup(name string) (*world.VoxelDefinition, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	idx, ok := p.names[name]
	if !ok {
		return nil, false
	}
	return p.defs[idx], true
}

// MustLookup returns a definition by name or the default one, logging a
// warning when the name is unknown.
func (p *Palette) MustLookup(name string) *world.VoxelDefinition {
	if d, ok := p.Lookup(name); ok {
		return d
	}
	logging.Warn("palette: unknown voxel %q, using default", name)
	return p.Default()
}

// Len returns the number of definitions, the empty voxel included.
func (p *Palette) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.defs)
}

// Texture returns the index of a texture name, registering it if needed.
// The empty name maps to the fallback texture 0.
func (p *Palette) Texture(name string) int {
	if name == "" {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registerTexture(name)
}

func (p *Palette) registerTexture(name string) int {
	if idx, ok := p.textureMap[name]; ok {
		return idx
	}
	idx := len(p.textureNames)
	p.textureNames = append(p.textureNames, name)
	p.textureMap[name] = idx
	return idx
}

// TextureNames returns the registered texture names in index order.
func (p *Palette) TextureNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.textureNames...)
}

// NewDefinition builds a definition using named top, side and bottom
// textures.
func (p *Palette) NewDefinition(name string, rt world.RenderType, top, side, bottom string) *world.VoxelDefinition {
	d := &world.VoxelDefinition{Name: name, RenderType: rt, Alpha: 1}
	return d.WithTextures(p.Texture(top), p.Texture(side), p.Texture(bottom))
}
