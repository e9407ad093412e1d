package world

import "terravox/internal/sim/world/logic/mathx"

func floorDiv(a, b int) int {
	return mathx.FloorDiv(a, b)
}

func mod(a, b int) int {
	return mathx.Mod(a, b)
}

func hash2(seed int64, x, z int) uint64 {
	return mathx.Hash2(seed, x, z)
}

func hash3(seed int64, x, y, z int) uint64 {
	return mathx.Hash3(seed, x, y, z)
}

func biomeFrom(noise uint64) string {
	// 3-way split.
	switch noise % 3 {
	case 0:
		return "PLAINS"
	case 1:
		return "FOREST"
	default:
		return "DESERT"
	}
}

func biomeAt(seed int64, x, z, regionSize int) string {
	if regionSize <= 0 {
		regionSize = 1
	}
	rx := floorDiv(x, regionSize)
	rz := floorDiv(z, regionSize)
	return biomeFrom(hash2(seed, rx, rz))
}

// surfaceHeight is the terrain height at a column: the Y of the first air
// block above ground. Deterministic in (seed, x, z).
func (g WorldGen) surfaceHeight(x, z int) int {
	base := g.BaseHeight
	if base <= 0 {
		base = 18
	}
	span := g.HeightRange
	if span <= 0 {
		span = 14
	}
	cell := g.HeightNoiseCell
	if cell <= 0 {
		cell = 24
	}
	h := base + int(mathx.FractalNoise2(g.Seed, x, z, cell)*float64(span))
	if h < 1 {
		h = 1
	}
	if h > g.Height-8 {
		h = g.Height - 8
	}
	return h
}
