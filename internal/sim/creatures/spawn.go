package creatures

import (
	"fmt"

	"terravox/internal/sim/world"
)

// SpawnCreatures populates freshly loaded chunks: a small uniform count of
// passive creatures per chunk, plus (with a fixed independent probability) a
// smaller pack of hostiles. Returns the creatures created by this call,
// keyed by ID.
func (e *Engine) SpawnCreatures(chunkKeys []world.ChunkKey) map[string]*Creature {
	spawned := map[string]*Creature{}
	for _, k := range chunkKeys {
		n := e.sp.PassiveMin + e.rng.Intn(e.sp.PassiveMax-e.sp.PassiveMin+1)
		for i := 0; i < n; i++ {
			if c := e.spawnOne(k, e.cats.Creatures.Passive, true); c != nil {
				spawned[c.ID] = c
			}
		}
		if e.rng.Float64() < e.sp.HostileChance {
			m := e.sp.HostileMin + e.rng.Intn(e.sp.HostileMax-e.sp.HostileMin+1)
			for i := 0; i < m; i++ {
				if c := e.spawnOne(k, e.cats.Creatures.Hostile, false); c != nil {
					spawned[c.ID] = c
				}
			}
		}
	}
	return spawned
}

// spawnOne makes a single spawn attempt in the chunk: pick a type uniformly
// from the pool, sample a column, scan for a standable surface, retry once
// at a different column, then give up. A failed attempt creates nothing and
// is not an error.
func (e *Engine) spawnOne(k world.ChunkKey, pool []string, rejectWater bool) *Creature {
	if len(pool) == 0 {
		return nil
	}
	typ := pool[e.rng.Intn(len(pool))]

	pos, ok := e.sampleColumn(k, rejectWater)
	if !ok {
		pos, ok = e.sampleColumn(k, rejectWater)
	}
	if !ok {
		return nil
	}

	c := e.newCreature(typ, pos)
	e.joinFlock(c)
	return c
}

// sampleColumn picks a random column in the chunk and scans downward from
// the altitude bound for the first air block sitting on support (solid, or
// liquid for swimmers). Passive land creatures reject water surfaces.
func (e *Engine) sampleColumn(k world.ChunkKey, rejectWater bool) (world.Vec3, bool) {
	x := k.CX*world.ChunkSize + e.rng.Intn(world.ChunkSize)
	z := k.CZ*world.ChunkSize + e.rng.Intn(world.ChunkSize)

	top := e.sp.AltitudeBound
	if top >= e.w.Height() {
		top = e.w.Height() - 1
	}
	for y := top; y >= 1; y-- {
		here := world.Vec3i{X: x, Y: y, Z: z}
		below := world.Vec3i{X: x, Y: y - 1, Z: z}
		if e.w.SolidAt(here) || e.w.LiquidAt(here) {
			continue
		}
		if e.w.SolidAt(below) {
			return world.Vec3{X: float64(x) + 0.5, Y: float64(y), Z: float64(z) + 0.5}, true
		}
		if e.w.LiquidAt(below) {
			if rejectWater {
				return world.Vec3{}, false
			}
			return world.Vec3{X: float64(x) + 0.5, Y: float64(y), Z: float64(z) + 0.5}, true
		}
	}
	return world.Vec3{}, false
}

// joinFlock assigns flocking-eligible creatures to one of a small fixed
// number of per-type flock slots, bounding flock size, and rolls an
// independent chance of leadership.
func (e *Engine) joinFlock(c *Creature) {
	d := e.def(c.Type)
	if !d.Flocking {
		return
	}
	slots := d.FlockSlots
	if slots <= 0 {
		slots = 3
	}
	fid := fmt.Sprintf("%s-%d", c.Type, e.rng.Intn(slots))
	f := e.flocks[fid]
	if f == nil {
		f = &Flock{ID: fid, Type: c.Type}
		e.flocks[fid] = f
	}
	f.Members = append(f.Members, c.ID)
	c.FlockID = fid

	if f.LeaderID == "" && e.rng.Float64() < d.LeaderChance {
		f.LeaderID = c.ID
		c.Leader = true
	}
}
