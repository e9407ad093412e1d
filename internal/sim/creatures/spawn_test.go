package creatures

import (
	"math/rand"
	"strings"
	"testing"

	"terravox/internal/sim/world"
)

func TestSpawnCreatures_StandOnGround(t *testing.T) {
	w := testWorld(t)
	flatten(w, 0, 0, 15, 15)
	e := testEngine(t, w, 42)

	spawned := e.SpawnCreatures([]world.ChunkKey{{CX: 0, CZ: 0}})
	if len(spawned) == 0 {
		t.Fatal("nothing spawned on a flat chunk")
	}
	for id, c := range spawned {
		if c.Pos.Y != 11 {
			t.Fatalf("%s %s floats at y=%v", id, c.Type, c.Pos.Y)
		}
		if c.Pos.X < 0 || c.Pos.X >= 16 || c.Pos.Z < 0 || c.Pos.Z >= 16 {
			t.Fatalf("%s spawned outside its chunk: %+v", id, c.Pos)
		}
		feet := c.Pos.Block()
		if w.SolidAt(feet) {
			t.Fatalf("%s spawned inside a block", id)
		}
		if !w.SolidAt(world.Vec3i{X: feet.X, Y: feet.Y - 1, Z: feet.Z}) {
			t.Fatalf("%s has no support", id)
		}
		if c.Health != c.MaxHealth || c.State != StateIdle {
			t.Fatalf("%s spawned in a bad state: %+v", id, c)
		}
		if e.Creature(id) != c {
			t.Fatalf("%s not registered", id)
		}
	}
}

func TestSpawnCreatures_EmptyChunkAbandons(t *testing.T) {
	w := testWorld(t)
	e := testEngine(t, w, 42)

	// Nothing materialized under (5,5): every column scan finds only air, so
	// both attempts of every spawn give up.
	spawned := e.SpawnCreatures([]world.ChunkKey{{CX: 5, CZ: 5}})
	if len(spawned) != 0 {
		t.Fatalf("spawned %d creatures in a void chunk", len(spawned))
	}
	if e.Count() != 0 {
		t.Fatalf("engine holds %d creatures", e.Count())
	}
}

func TestSpawnCreatures_PassivesRejectWater(t *testing.T) {
	w := testWorld(t)
	water := w.Catalogs().Blocks.Index["WATER"]
	for z := 0; z < 16; z++ {
		for x := 16; x < 32; x++ {
			w.Chunks().SetBlock(world.Vec3i{X: x, Y: 10, Z: z}, water)
		}
	}
	e := testEngine(t, w, 42)

	// Run the spawner repeatedly: over an all-water chunk only hostiles may
	// ever appear, walking on the surface.
	for i := 0; i < 20; i++ {
		e.SpawnCreatures([]world.ChunkKey{{CX: 1, CZ: 0}})
	}
	if e.Count() == 0 {
		t.Fatal("no hostiles spawned over water across 20 rounds")
	}
	for _, c := range e.Creatures() {
		if c.Hostility == Passive {
			t.Fatalf("passive %s spawned on water at %+v", c.Type, c.Pos)
		}
	}
}

func TestSpawnOne_RetriesExactlyOnce(t *testing.T) {
	w := testWorld(t)
	e := testEngine(t, w, 42)
	e.SetRand(rand.New(rand.NewSource(9)))

	// A failed attempt in a void chunk samples exactly two columns: the type
	// pick plus two (x,z) pairs. A control source replaying that exact draw
	// sequence must stay in lockstep with the engine's.
	control := rand.New(rand.NewSource(9))
	pool := e.cats.Creatures.Passive

	if c := e.spawnOne(world.ChunkKey{CX: 9, CZ: 9}, pool, true); c != nil {
		t.Fatalf("spawned %s in a void chunk", c.Type)
	}
	control.Intn(len(pool))
	for i := 0; i < 4; i++ {
		control.Intn(world.ChunkSize)
	}
	if e.rng.Int63() != control.Int63() {
		t.Fatal("failed spawn did not consume exactly one retry's worth of draws")
	}
}

func TestJoinFlock_SlotsAndLeadership(t *testing.T) {
	w := testWorld(t)
	e := testEngine(t, w, 42)

	for i := 0; i < 200; i++ {
		c := e.newCreature("SHEEP", world.Vec3{X: 0.5, Y: 11, Z: 0.5})
		e.joinFlock(c)
	}

	ids := e.FlockIDs()
	if len(ids) == 0 || len(ids) > 3 {
		t.Fatalf("sheep flocks %v, want 1..3 slots", ids)
	}
	members := 0
	leaders := 0
	for _, fid := range ids {
		if !strings.HasPrefix(fid, "SHEEP-") {
			t.Fatalf("bad flock id %s", fid)
		}
		f := e.Flock(fid)
		members += len(f.Members)
		if f.LeaderID != "" {
			leaders++
			if lc := e.Creature(f.LeaderID); lc == nil || !lc.Leader || lc.FlockID != fid {
				t.Fatalf("flock %s leader %s inconsistent", fid, f.LeaderID)
			}
		}
	}
	if members != 200 {
		t.Fatalf("flocks hold %d members, want 200", members)
	}
	if leaders == 0 {
		t.Fatal("no flock elected a leader across 200 joins")
	}
}

func TestJoinFlock_NonFlockingSkipped(t *testing.T) {
	w := testWorld(t)
	e := testEngine(t, w, 42)

	c := e.newCreature("BOAR", world.Vec3{})
	e.joinFlock(c)
	if c.FlockID != "" || len(e.FlockIDs()) != 0 {
		t.Fatalf("non-flocking type joined a flock: %q", c.FlockID)
	}
}

func TestRemove_CleansFlock(t *testing.T) {
	w := testWorld(t)
	e := testEngine(t, w, 42)

	var members []*Creature
	// Chickens have two slots; fill until one flock has at least two members.
	for i := 0; i < 10; i++ {
		c := e.newCreature("CHICKEN", world.Vec3{})
		e.joinFlock(c)
		members = append(members, c)
	}
	fid := members[0].FlockID
	f := e.Flock(fid)
	if f == nil || len(f.Members) == 0 {
		t.Fatalf("no flock for %s", fid)
	}

	// Kill every member of that flock; the registry entry must disappear
	// with the last one.
	for _, c := range members {
		if c.FlockID == fid {
			e.ApplyDamage(c.ID, 100, "")
		}
	}
	if e.Flock(fid) != nil {
		t.Fatalf("empty flock %s still registered", fid)
	}
}
