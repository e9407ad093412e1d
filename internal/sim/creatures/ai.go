package creatures

import (
	"math"
	"sort"

	"terravox/internal/sim/world"
)

// UpdateCreatures advances every live creature at most once per minimum
// update interval. Iteration follows spawn order so a run is reproducible
// under a fixed seed.
func (e *Engine) UpdateCreatures() {
	e.tick++
	// Copy: fleeing/dying creatures may edit the order slice mid-loop.
	ids := append([]string(nil), e.order...)
	for _, id := range ids {
		c, ok := e.creatures[id]
		if !ok {
			continue
		}
		if e.tick < c.nextTick {
			continue
		}
		c.nextTick = e.tick + uint64(e.ai.UpdateIntervalTicks)
		e.updateOne(c)
	}
}

func (e *Engine) updateOne(c *Creature) {
	d := e.def(c.Type)

	// Needs drift slowly; grazing and sleeping pay them back.
	switch c.State {
	case StateGrazing:
		c.Hunger -= 5
	case StateSleeping:
		c.Tiredness -= 5
	default:
		c.Hunger++
		c.Tiredness++
	}
	c.Hunger = clampNeed(c.Hunger)
	c.Tiredness = clampNeed(c.Tiredness)

	// Occasional re-roll of the action state. Combat sub-states come from
	// external events only, so the roll never leaves a fight.
	if !inCombat(c.State) && e.rng.Float64() < e.ai.StateRerollChance {
		c.State = e.rollState(c.Hostility)
		if c.State == StateWandering {
			e.pickWanderTarget(c)
		} else {
			c.target = nil
		}
		// Pressing needs override the roll when the creature is settling down.
		if c.State == StateIdle {
			switch {
			case c.Hunger >= 80:
				c.State = StateGrazing
			case c.Tiredness >= 90:
				c.State = StateSleeping
			}
		}
	}

	// Herd cohesion: stragglers fall in behind their leader.
	if c.FlockID != "" && !c.Leader && !inCombat(c.State) {
		if f := e.flocks[c.FlockID]; f != nil && f.LeaderID != "" {
			if leader := e.creatures[f.LeaderID]; leader != nil {
				if c.Pos.DistXZ(leader.Pos) > d.SenseRadius {
					c.State = StateFollowing
					t := leader.Pos
					c.target = &t
					c.Yaw = math.Atan2(t.Z-c.Pos.Z, t.X-c.Pos.X)
				}
			}
		}
	}

	switch c.State {
	case StateWandering, StateFollowing:
		e.stepToward(c, d.Speed)
	case StateFleeing:
		if c.target == nil {
			e.pickWanderTarget(c)
		}
		e.stepToward(c, d.Speed*1.5)
	case StateGrazing:
		if c.Hunger <= 10 {
			c.State = StateIdle
		}
	case StateSleeping:
		if c.Tiredness <= 10 {
			c.State = StateIdle
		}
	}

	e.rollMood(c, d.MoodMatrix)
}

func inCombat(s State) bool {
	return s == StateAttacking || s == StateHunting || s == StateDefending
}

func clampNeed(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// rollState draws the new action state conditioned on hostility: hostile
// creatures wander 70/30, neutral 80/20, passive mostly sit at 30/70.
func (e *Engine) rollState(h Hostility) State {
	var wanderP float64
	switch h {
	case Hostile:
		wanderP = 0.7
	case Neutral:
		wanderP = 0.8
	default:
		wanderP = 0.3
	}
	if e.rng.Float64() < wanderP {
		return StateWandering
	}
	return StateIdle
}

// pickWanderTarget selects a point 2-7 units out at a random heading and
// turns the creature to face it.
func (e *Engine) pickWanderTarget(c *Creature) {
	heading := e.rng.Float64() * 2 * math.Pi
	dist := e.ai.WanderRadiusMin + e.rng.Float64()*(e.ai.WanderRadiusMax-e.ai.WanderRadiusMin)
	t := world.Vec3{
		X: c.Pos.X + math.Cos(heading)*dist,
		Y: c.Pos.Y,
		Z: c.Pos.Z + math.Sin(heading)*dist,
	}
	c.target = &t
	c.Yaw = heading
}

// stepToward moves the creature at a fixed speed and re-resolves the ground
// under the new column. A step that finds no support within the scan window
// is rolled back: creatures do not walk off into open air.
func (e *Engine) stepToward(c *Creature, speed float64) {
	if c.target == nil {
		c.State = StateIdle
		return
	}
	t := *c.target
	dx := t.X - c.Pos.X
	dz := t.Z - c.Pos.Z
	dist := math.Hypot(dx, dz)
	if dist <= e.ai.ArriveEpsilon {
		if c.State == StateWandering {
			c.Memories.rememberLocation(c.Pos)
		}
		c.State = StateIdle
		c.target = nil
		return
	}
	step := speed
	if step > dist {
		step = dist
	}
	nx := c.Pos.X + dx/dist*step
	nz := c.Pos.Z + dz/dist*step

	ny, ok := e.groundSnap(nx, nz, int(math.Floor(c.Pos.Y)))
	if !ok {
		// No ground under the step; hold position and let the next re-roll
		// pick a new direction.
		c.target = nil
		c.State = StateIdle
		return
	}
	c.Pos = world.Vec3{X: nx, Y: ny, Z: nz}
}

// groundSnap scans downward from fromY for the first solid block and snaps
// one unit above it.
func (e *Engine) groundSnap(x, z float64, fromY int) (float64, bool) {
	bx := int(math.Floor(x))
	bz := int(math.Floor(z))
	bottom := fromY - e.ai.GroundScanWindow
	if bottom < 0 {
		bottom = 0
	}
	for y := fromY; y >= bottom; y-- {
		if e.w.SolidAt(world.Vec3i{X: bx, Y: y, Z: bz}) {
			return float64(y + 1), true
		}
	}
	return 0, false
}

// rollMood advances the mood via the per-type transition matrix: one uniform
// roll walked over the current mood's row (row order is sorted for
// determinism).
func (e *Engine) rollMood(c *Creature, matrix map[string]map[string]float64) {
	row, ok := matrix[string(c.Mood)]
	if !ok || len(row) == 0 {
		return
	}
	tos := make([]string, 0, len(row))
	for to := range row {
		tos = append(tos, to)
	}
	sort.Strings(tos)

	r := e.rng.Float64()
	for _, to := range tos {
		p := row[to]
		if r < p {
			c.Mood = Mood(to)
			return
		}
		r -= p
	}
}
