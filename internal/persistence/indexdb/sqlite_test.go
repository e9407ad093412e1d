package indexdb

import (
	"path/filepath"
	"testing"
	"time"
)

// drain blocks until the writer goroutine has applied everything queued so
// far, by closing the index (flushes the channel) and reopening it.
func reopen(t *testing.T, s *SQLiteIndex, path string) *SQLiteIndex {
	t.Helper()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	return s2
}

func TestIndex_RecordAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	s.RecordRun(RunRow{RunID: "r1", Seed: 1337, Started: time.Now()})
	s.RecordChunk(ChunkEventRow{RunID: "r1", Tick: 5, Kind: "LOADED", CX: 0, CZ: 0, Blocks: 4096})
	s.RecordChunk(ChunkEventRow{RunID: "r1", Tick: 9, Kind: "UNLOADED", CX: 0, CZ: 0})
	s.RecordDeath(DeathRow{RunID: "r1", Tick: 12, CreatureID: "C3", CreatureType: "SHEEP", LootJSON: `[{"block":"WOOL","count":2}]`})
	s.RecordCraft(CraftRow{RunID: "r1", Tick: 50, RecipeID: "planks", Quality: "STANDARD"})
	s.RecordStats(StatsRow{RunID: "r1", Tick: 100, LoadedChunks: 49, TotalBlocks: 200000, Creatures: 80})
	s.RecordStats(StatsRow{RunID: "r1", Tick: 100, LoadedChunks: 50, TotalBlocks: 200001, Creatures: 81}) // same tick replaces

	s = reopen(t, s, path)
	defer s.Close()

	count := func(q string, args ...any) int {
		t.Helper()
		var n int
		if err := s.db.QueryRow(q, args...).Scan(&n); err != nil {
			t.Fatalf("query %q: %v", q, err)
		}
		return n
	}

	if n := count(`SELECT COUNT(*) FROM runs WHERE run_id='r1' AND seed=1337`); n != 1 {
		t.Fatalf("runs = %d", n)
	}
	if n := count(`SELECT COUNT(*) FROM chunk_events WHERE run_id='r1'`); n != 2 {
		t.Fatalf("chunk_events = %d", n)
	}
	if n := count(`SELECT COUNT(*) FROM creature_deaths WHERE creature_type='SHEEP'`); n != 1 {
		t.Fatalf("creature_deaths = %d", n)
	}
	if n := count(`SELECT COUNT(*) FROM crafts WHERE quality='STANDARD'`); n != 1 {
		t.Fatalf("crafts = %d", n)
	}
	if n := count(`SELECT loaded_chunks FROM run_stats WHERE run_id='r1' AND tick=100`); n != 50 {
		t.Fatalf("run_stats replace kept loaded_chunks = %d", n)
	}
}

func TestIndex_WritesAfterCloseDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Must not panic on a closed channel, and double close is safe.
	s.RecordCraft(CraftRow{RunID: "r1", RecipeID: "planks", Quality: "POOR"})
	if err := s.Close(); err != nil {
		t.Fatalf("double close: %v", err)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
