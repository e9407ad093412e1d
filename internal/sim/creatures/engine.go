// Package creatures populates loaded regions with autonomous creatures and
// advances their behavioral state machines every simulation tick.
package creatures

import (
	"fmt"
	"math/rand"
	"sort"

	"terravox/internal/sim/catalogs"
	"terravox/internal/sim/tuning"
	"terravox/internal/sim/world"
)

// Engine owns the creature dictionary and the flock registry. It reads the
// world's block map for ground collision and never mutates it.
type Engine struct {
	w    *world.World
	cats *catalogs.Catalogs
	ai   tuning.AITuning
	sp   tuning.SpawnTuning
	rng  *rand.Rand

	tick      uint64
	creatures map[string]*Creature
	order     []string // spawn order, the deterministic iteration order
	flocks    map[string]*Flock

	nextNum int

	// Optional death hook for audit/telemetry. Called after the creature is
	// removed, with the rolled loot.
	OnDeath func(c Creature, loot []catalogs.BlockCount)
}

func NewEngine(w *world.World, ai tuning.AITuning, sp tuning.SpawnTuning, seed int64) *Engine {
	return &Engine{
		w:         w,
		cats:      w.Catalogs(),
		ai:        ai,
		sp:        sp,
		rng:       rand.New(rand.NewSource(seed)),
		creatures: map[string]*Creature{},
		flocks:    map[string]*Flock{},
	}
}

// SetRand swaps the random source; tests inject a fixed seed.
func (e *Engine) SetRand(r *rand.Rand) {
	if r != nil {
		e.rng = r
	}
}

func (e *Engine) Creature(id string) *Creature { return e.creatures[id] }

func (e *Engine) Count() int { return len(e.creatures) }

// Creatures returns the live dictionary in spawn order.
func (e *Engine) Creatures() []*Creature {
	out := make([]*Creature, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.creatures[id])
	}
	return out
}

func (e *Engine) Flock(id string) *Flock { return e.flocks[id] }

func (e *Engine) FlockIDs() []string {
	ids := make([]string, 0, len(e.flocks))
	for id := range e.flocks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// def resolves the per-type property table, falling back to the documented
// default (modest health, calm mood, passive) for unknown types.
func (e *Engine) def(typ string) catalogs.CreatureDef {
	if d, ok := e.cats.Creatures.Defs[typ]; ok {
		return d
	}
	return catalogs.DefaultCreature(typ)
}

func (e *Engine) newCreature(typ string, pos world.Vec3) *Creature {
	d := e.def(typ)
	e.nextNum++
	c := &Creature{
		ID:        fmt.Sprintf("C%d", e.nextNum),
		Type:      typ,
		Pos:       pos,
		Health:    d.MaxHealth,
		MaxHealth: d.MaxHealth,
		State:     StateIdle,
		Hostility: Hostility(d.Hostility),
		Mood:      Mood(d.BaseMood),
	}
	if c.Mood == "" {
		c.Mood = MoodCalm
	}
	e.creatures[c.ID] = c
	e.order = append(e.order, c.ID)
	return c
}

func (e *Engine) remove(id string) {
	c, ok := e.creatures[id]
	if !ok {
		return
	}
	if c.FlockID != "" {
		if f := e.flocks[c.FlockID]; f != nil {
			f.remove(id)
			if len(f.Members) == 0 {
				delete(e.flocks, c.FlockID)
			}
		}
	}
	delete(e.creatures, id)
	for i, oid := range e.order {
		if oid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// ApplyDamage is the combat collaborator's entry point. Health never leaves
// [0, MaxHealth]. At zero the creature dies: it is removed, its loot table
// is rolled, and the loot is returned to the caller.
func (e *Engine) ApplyDamage(id string, dmg int, attacker string) (loot []catalogs.BlockCount, died bool) {
	c, ok := e.creatures[id]
	if !ok || dmg <= 0 {
		return nil, false
	}
	c.Health -= dmg
	if c.Health < 0 {
		c.Health = 0
	}
	if attacker != "" {
		c.Memories.rememberThreat(attacker)
	}

	switch c.Hostility {
	case Hostile:
		c.Mood = MoodAggressive
		c.State = StateAttacking
	case Neutral:
		c.Mood = MoodAlert
		c.State = StateDefending
	default:
		c.Mood = MoodAfraid
		c.State = StateFleeing
	}
	c.target = nil

	if c.Health > 0 {
		return nil, false
	}

	dead := *c
	e.remove(id)
	loot = e.CreatureLoot(dead.Type)
	if e.OnDeath != nil {
		e.OnDeath(dead, loot)
	}
	return loot, true
}

// SetState lets external collaborators drive combat sub-states (hunting,
// attacking); the per-tick roll never enters them on its own.
func (e *Engine) SetState(id string, s State) {
	if c, ok := e.creatures[id]; ok {
		c.State = s
		if s != StateWandering && s != StateFollowing {
			c.target = nil
		}
	}
}
