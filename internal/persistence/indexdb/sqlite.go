// Package indexdb keeps a small sqlite index of per-run statistics: chunk
// lifecycle counts, spawns, deaths, and craft outcomes. It never stores
// world state; the world is regenerated from its seed.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqRun reqKind = iota + 1
	reqChunkEvent
	reqDeath
	reqCraft
	reqStats
)

type req struct {
	kind reqKind

	run   RunRow
	chunk ChunkEventRow
	death DeathRow
	craft CraftRow
	stats StatsRow
}

type RunRow struct {
	RunID   string
	Seed    int64
	Started time.Time
}

type ChunkEventRow struct {
	RunID  string
	Tick   uint64
	Kind   string // LOADED | UNLOADED
	CX, CZ int
	Blocks int
}

type DeathRow struct {
	RunID        string
	Tick         uint64
	CreatureID   string
	CreatureType string
	LootJSON     string
}

type CraftRow struct {
	RunID    string
	Tick     uint64
	RecipeID string
	Quality  string
}

type StatsRow struct {
	RunID         string
	Tick          uint64
	LoadedChunks  int
	PendingChunks int
	TotalBlocks   int
	Creatures     int
}

func Open(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		// Buffered so a burst of chunk events cannot stall the tick loop.
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-only workload; this is a secondary index, so
	// NORMAL durability is enough.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			started_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chunk_events (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			kind TEXT NOT NULL,
			cx INTEGER NOT NULL,
			cz INTEGER NOT NULL,
			blocks INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunk_events_run ON chunk_events(run_id, tick);`,
		`CREATE TABLE IF NOT EXISTS creature_deaths (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			creature_id TEXT NOT NULL,
			creature_type TEXT NOT NULL,
			loot_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS crafts (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			recipe_id TEXT NOT NULL,
			quality TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_stats (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			loaded_chunks INTEGER NOT NULL,
			pending_chunks INTEGER NOT NULL,
			total_blocks INTEGER NOT NULL,
			creatures INTEGER NOT NULL,
			PRIMARY KEY (run_id, tick)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) loop() {
	for r := range s.ch {
		var err error
		switch r.kind {
		case reqRun:
			_, err = s.db.Exec(`INSERT OR REPLACE INTO runs(run_id, seed, started_at) VALUES(?,?,?)`,
				r.run.RunID, r.run.Seed, r.run.Started.UTC().Format(time.RFC3339))
		case reqChunkEvent:
			_, err = s.db.Exec(`INSERT INTO chunk_events(run_id, tick, kind, cx, cz, blocks) VALUES(?,?,?,?,?,?)`,
				r.chunk.RunID, r.chunk.Tick, r.chunk.Kind, r.chunk.CX, r.chunk.CZ, r.chunk.Blocks)
		case reqDeath:
			_, err = s.db.Exec(`INSERT INTO creature_deaths(run_id, tick, creature_id, creature_type, loot_json) VALUES(?,?,?,?,?)`,
				r.death.RunID, r.death.Tick, r.death.CreatureID, r.death.CreatureType, r.death.LootJSON)
		case reqCraft:
			_, err = s.db.Exec(`INSERT INTO crafts(run_id, tick, recipe_id, quality) VALUES(?,?,?,?)`,
				r.craft.RunID, r.craft.Tick, r.craft.RecipeID, r.craft.Quality)
		case reqStats:
			_, err = s.db.Exec(`INSERT OR REPLACE INTO run_stats(run_id, tick, loaded_chunks, pending_chunks, total_blocks, creatures) VALUES(?,?,?,?,?,?)`,
				r.stats.RunID, r.stats.Tick, r.stats.LoadedChunks, r.stats.PendingChunks, r.stats.TotalBlocks, r.stats.Creatures)
		}
		_ = err // index writes are best-effort
	}
}

func (s *SQLiteIndex) send(r req) {
	if s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		// Drop rather than stall the simulation.
	}
}

func (s *SQLiteIndex) RecordRun(row RunRow)          { s.send(req{kind: reqRun, run: row}) }
func (s *SQLiteIndex) RecordChunk(row ChunkEventRow) { s.send(req{kind: reqChunkEvent, chunk: row}) }
func (s *SQLiteIndex) RecordDeath(row DeathRow)      { s.send(req{kind: reqDeath, death: row}) }
func (s *SQLiteIndex) RecordCraft(row CraftRow)      { s.send(req{kind: reqCraft, craft: row}) }
func (s *SQLiteIndex) RecordStats(row StatsRow)      { s.send(req{kind: reqStats, stats: row}) }

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}
