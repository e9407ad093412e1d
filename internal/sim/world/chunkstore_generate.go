package world

// generateChunk fills a chunk column by column: stone body with ore pockets,
// a dirt cap, a biome-flavored surface, water in basins below sea level, and
// the occasional tree in forests. A column that produces nothing useful is
// left as air; partial generation is tolerated, never fatal.
func (s *ChunkStore) generateChunk(ch *Chunk) {
	g := s.gen
	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			wx := ch.CX*ChunkSize + x
			wz := ch.CZ*ChunkSize + z

			biome := biomeAt(g.Seed, wx, wz, g.BiomeRegionSize)
			h := g.surfaceHeight(wx, wz)

			for y := 0; y < h; y++ {
				b := g.Stone
				switch {
				case y >= h-1:
					// Surface block.
					switch {
					case h <= g.SeaLevel:
						b = g.Gravel
					case biome == "DESERT":
						b = g.Sand
					default:
						b = g.Grass
					}
				case y >= h-4:
					if biome == "DESERT" {
						b = g.Sand
					} else {
						b = g.Dirt
					}
				default:
					// Ore pockets, rare iron under common coal.
					switch {
					case hash3(g.Seed+101, wx, y, wz)%1000 < 6:
						b = g.IronOre
					case hash3(g.Seed+102, wx, y, wz)%1000 < 14:
						b = g.CoalOre
					}
				}
				ch.Set(x, y, z, b)
			}

			// Basins flood up to sea level.
			for y := h; y <= g.SeaLevel && y < g.Height; y++ {
				ch.Set(x, y, z, g.Water)
			}

			// Forest trees: sparse, deterministic per column, never at the
			// water line.
			if biome == "FOREST" && h > g.SeaLevel+1 && hash2(g.Seed+303, wx, wz)%1000 < 18 {
				trunk := 3 + int(hash2(g.Seed+304, wx, wz)%3)
				top := h + trunk
				if top >= g.Height-1 {
					top = g.Height - 2
				}
				for y := h; y < top; y++ {
					ch.Set(x, y, z, g.Log)
				}
				if top < g.Height {
					ch.Set(x, top, z, g.Leaves)
				}
			}
		}
	}
}
