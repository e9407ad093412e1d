package world

import "math"

// Vec3i is a block coordinate. Used as a map/composite key everywhere;
// never encode coordinates as strings.
type Vec3i struct{ X, Y, Z int }

// Vec3 is a continuous position (creatures move off-grid).
type Vec3 struct{ X, Y, Z float64 }

func (v Vec3) DistXZ(o Vec3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return math.Hypot(dx, dz)
}

// Block returns the block coordinate containing v.
func (v Vec3) Block() Vec3i {
	return Vec3i{
		X: int(math.Floor(v.X)),
		Y: int(math.Floor(v.Y)),
		Z: int(math.Floor(v.Z)),
	}
}
