package world

import "testing"

func testGen(seed int64) WorldGen {
	return WorldGen{
		Seed:            seed,
		Height:          64,
		SeaLevel:        20,
		BiomeRegionSize: 64,
		Air:             0,
		Grass:           1,
		Dirt:            2,
		Stone:           3,
		Sand:            4,
		Gravel:          5,
		Water:           6,
		Log:             7,
		Leaves:          8,
		CoalOre:         9,
		IronOre:         10,
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := NewChunkStore(testGen(1337))
	b := NewChunkStore(testGen(1337))
	if a.Generate(3, -2).Digest() != b.Generate(3, -2).Digest() {
		t.Fatal("same seed produced different chunks")
	}

	c := NewChunkStore(testGen(1338))
	if a.Generate(3, -2).Digest() == c.Generate(3, -2).Digest() {
		t.Fatal("different seeds produced identical chunks")
	}
}

func TestGenerate_TerrainShape(t *testing.T) {
	s := NewChunkStore(testGen(1337))
	ch := s.Generate(0, 0)

	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			if ch.Get(x, 0, z) == 0 {
				t.Fatalf("column (%d,%d) has air at bedrock", x, z)
			}
			if ch.Get(x, s.gen.Height-1, z) != 0 {
				t.Fatalf("column (%d,%d) reaches the world ceiling", x, z)
			}
		}
	}
	if ch.NonAir() == 0 {
		t.Fatal("generated chunk is empty")
	}
}

func TestApply_Idempotent(t *testing.T) {
	s := NewChunkStore(testGen(1))
	edited := newChunk(0, 0, s.gen.Height)
	edited.Set(5, 30, 5, s.gen.Stone)
	if !s.Apply(edited) {
		t.Fatal("first apply rejected")
	}

	// A generated chunk arriving after an edit must not clobber it.
	if s.Apply(s.Generate(0, 0)) {
		t.Fatal("second apply for the same key was accepted")
	}
	if got := s.GetBlock(Vec3i{X: 5, Y: 30, Z: 5}); got != s.gen.Stone {
		t.Fatalf("edit lost: block = %d", got)
	}
}

func TestGetBlock_AbsentReadsAir(t *testing.T) {
	s := NewChunkStore(testGen(1))
	if got := s.GetBlock(Vec3i{X: 100, Y: 10, Z: 100}); got != s.gen.Air {
		t.Fatalf("absent chunk read %d, want air", got)
	}
	if len(s.LoadedChunkKeys()) != 0 {
		t.Fatal("read materialized a chunk")
	}
}

func TestGetBlock_OutOfRangeY(t *testing.T) {
	s := NewChunkStore(testGen(1))
	s.Apply(s.Generate(0, 0))
	if s.GetBlock(Vec3i{X: 0, Y: -1, Z: 0}) != s.gen.Air {
		t.Fatal("negative Y must read air")
	}
	if s.GetBlock(Vec3i{X: 0, Y: s.gen.Height, Z: 0}) != s.gen.Air {
		t.Fatal("Y at height must read air")
	}
}

func TestSetBlock_MaterializesEmptyChunk(t *testing.T) {
	s := NewChunkStore(testGen(1))
	pos := Vec3i{X: -17, Y: 40, Z: 3}
	s.SetBlock(pos, s.gen.Log)
	if got := s.GetBlock(pos); got != s.gen.Log {
		t.Fatalf("block = %d, want %d", got, s.gen.Log)
	}
	keys := s.LoadedChunkKeys()
	if len(keys) != 1 || keys[0] != (ChunkKey{CX: -2, CZ: 0}) {
		t.Fatalf("unexpected materialized keys %v", keys)
	}
	// Everything else in the materialized chunk stays air.
	if s.TotalBlocks() != 1 {
		t.Fatalf("TotalBlocks = %d, want 1", s.TotalBlocks())
	}
}

func TestSetBlock_BoundaryClamp(t *testing.T) {
	g := testGen(1)
	g.BoundaryR = 32
	s := NewChunkStore(g)
	s.SetBlock(Vec3i{X: 33, Y: 10, Z: 0}, g.Stone)
	if len(s.LoadedChunkKeys()) != 0 {
		t.Fatal("write beyond the boundary materialized a chunk")
	}
}

func TestChunkDigest_TracksEdits(t *testing.T) {
	s := NewChunkStore(testGen(1))
	ch := s.Generate(0, 0)
	before := ch.Digest()
	ch.Set(0, 50, 0, s.gen.Stone)
	if ch.Digest() == before {
		t.Fatal("digest unchanged after edit")
	}
	// Writing the same value back is not an edit.
	again := ch.Digest()
	ch.Set(0, 50, 0, s.gen.Stone)
	if ch.Digest() != again {
		t.Fatal("no-op write changed the digest")
	}
}

func TestBiomeAt_StableWithinRegion(t *testing.T) {
	b := biomeAt(7, 0, 0, 64)
	for x := 0; x < 64; x += 13 {
		if got := biomeAt(7, x, 0, 64); got != b {
			t.Fatalf("biome changed within a region: %s vs %s", got, b)
		}
	}
}
