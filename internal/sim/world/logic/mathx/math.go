package mathx

func FloorDiv(a, b int) int {
	// b > 0
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

func Mod(a, b int) int {
	// b > 0
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func Hash2(seed int64, x, z int) uint64 {
	ux := uint64(uint32(int32(x)))
	uz := uint64(uint32(int32(z)))
	v := uint64(seed) ^ (ux * 0x9e3779b97f4a7c15) ^ (uz * 0xbf58476d1ce4e5b9)
	return mix64(v)
}

func Hash3(seed int64, x, y, z int) uint64 {
	ux := uint64(uint32(int32(x)))
	uy := uint64(uint32(int32(y)))
	uz := uint64(uint32(int32(z)))
	v := uint64(seed) ^ (ux * 0x9e3779b97f4a7c15) ^ (uy * 0xc2b2ae3d27d4eb4f) ^ (uz * 0xbf58476d1ce4e5b9)
	return mix64(v)
}

// unit converts a lattice hash to [0,1).
func unit(h uint64) float64 {
	return float64(h>>11) / float64(1<<53)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

// ValueNoise2 is bilinear value noise over an integer lattice with the given
// cell size, deterministic in (seed, x, z). Output is in [0,1).
func ValueNoise2(seed int64, x, z int, cell int) float64 {
	if cell <= 0 {
		cell = 1
	}
	gx := FloorDiv(x, cell)
	gz := FloorDiv(z, cell)
	fx := float64(Mod(x, cell)) / float64(cell)
	fz := float64(Mod(z, cell)) / float64(cell)

	v00 := unit(Hash2(seed, gx, gz))
	v10 := unit(Hash2(seed, gx+1, gz))
	v01 := unit(Hash2(seed, gx, gz+1))
	v11 := unit(Hash2(seed, gx+1, gz+1))

	tx := smooth(fx)
	tz := smooth(fz)
	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), tz)
}

// FractalNoise2 blends two octaves of ValueNoise2. Output stays in [0,1).
func FractalNoise2(seed int64, x, z int, cell int) float64 {
	a := ValueNoise2(seed, x, z, cell)
	b := ValueNoise2(seed+0x5eed, x, z, cell/4+1)
	return Clamp01(a*0.7 + b*0.3)
}
