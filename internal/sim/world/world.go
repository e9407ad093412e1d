package world

import (
	"fmt"
	"math/rand"

	"terravox/internal/sim/catalogs"
)

// Config carries everything the store needs at construction. There is no
// package-level state: every test builds its own World.
type Config struct {
	Seed      int64
	DayTicks  int
	Height    int
	SeaLevel  int
	BoundaryR int

	// Per-tick chance of the memoryless uniform weather re-pick.
	WeatherChangeChance float64
}

// World is the single authoritative structure for blocks, the player
// inventory, and the environment clock. All mutation happens within one
// synchronous call on the simulation goroutine.
type World struct {
	cfg  Config
	cats *catalogs.Catalogs

	chunks *ChunkStore

	inventory map[string]int
	selected  string

	clock   float64 // time of day in [0,1)
	weather Weather

	rng *rand.Rand
}

func New(cfg Config, cats *catalogs.Catalogs) (*World, error) {
	if cfg.DayTicks <= 0 {
		return nil, fmt.Errorf("world: DayTicks must be positive")
	}
	if cats == nil {
		return nil, fmt.Errorf("world: nil catalogs")
	}
	gen, err := genFromCatalog(cfg, cats)
	if err != nil {
		return nil, err
	}
	return &World{
		cfg:       cfg,
		cats:      cats,
		chunks:    NewChunkStore(gen),
		inventory: map[string]int{},
		weather:   WeatherClear,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// genFromCatalog resolves the core palette ids the generator writes. Every
// name must exist in blocks.json.
func genFromCatalog(cfg Config, cats *catalogs.Catalogs) (WorldGen, error) {
	g := WorldGen{
		Seed:            cfg.Seed,
		Height:          cfg.Height,
		SeaLevel:        cfg.SeaLevel,
		BoundaryR:       cfg.BoundaryR,
		BiomeRegionSize: 64,
	}
	want := map[string]*uint16{
		"AIR":      &g.Air,
		"GRASS":    &g.Grass,
		"DIRT":     &g.Dirt,
		"STONE":    &g.Stone,
		"SAND":     &g.Sand,
		"GRAVEL":   &g.Gravel,
		"WATER":    &g.Water,
		"LOG":      &g.Log,
		"LEAVES":   &g.Leaves,
		"COAL_ORE": &g.CoalOre,
		"IRON_ORE": &g.IronOre,
	}
	for name, dst := range want {
		id, ok := cats.Blocks.Index[name]
		if !ok {
			return g, fmt.Errorf("world: blocks.json missing %s", name)
		}
		*dst = id
	}
	return g, nil
}

// SetRand swaps the random source; tests inject a fixed seed.
func (w *World) SetRand(r *rand.Rand) {
	if r != nil {
		w.rng = r
	}
}

func (w *World) Catalogs() *catalogs.Catalogs { return w.cats }
func (w *World) Chunks() *ChunkStore          { return w.chunks }

// BlockAt reads a block by name. Absent coordinates read as AIR.
func (w *World) BlockAt(pos Vec3i) string {
	return w.blockName(w.chunks.GetBlock(pos))
}

func (w *World) blockName(id uint16) string {
	if int(id) >= len(w.cats.Blocks.Palette) {
		return "AIR"
	}
	return w.cats.Blocks.Palette[id]
}

func (w *World) SolidAt(pos Vec3i) bool {
	return w.cats.Blocks.Defs[w.BlockAt(pos)].Solid
}

func (w *World) LiquidAt(pos Vec3i) bool {
	return w.cats.Blocks.Defs[w.BlockAt(pos)].Liquid
}

func (w *World) Height() int { return w.chunks.gen.Height }
