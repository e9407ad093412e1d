// Command server runs the sandbox simulation: world clock, chunk streaming
// around a scripted walker, creature AI, and a read-only observer websocket.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/google/uuid"

	"terravox/internal/observerproto"
	"terravox/internal/persistence/indexdb"
	persistlog "terravox/internal/persistence/log"
	"terravox/internal/sim/catalogs"
	"terravox/internal/sim/chunks"
	"terravox/internal/sim/crafting"
	"terravox/internal/sim/creatures"
	"terravox/internal/sim/tuning"
	"terravox/internal/sim/world"
	"terravox/internal/transport/observer"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		seed       = flag.Int64("seed", 1337, "world seed")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite run-stats index")
		maxTicks   = flag.Uint64("ticks", 0, "stop after N ticks (0 = run until signal)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tp := *tuningPath
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tun, err := tuning.Load(tp)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}
	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	w, err := world.New(world.Config{
		Seed:                *seed,
		DayTicks:            tun.DayTicks,
		Height:              tun.WorldHeight,
		SeaLevel:            tun.SeaLevel,
		BoundaryR:           tun.BoundaryR,
		WeatherChangeChance: tun.Weather.ChangeChance,
	}, cats)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}

	mgr := chunks.New(w.Chunks(), nil, tun.ChunkRadius)
	defer mgr.Close()
	eng := creatures.NewEngine(w, tun.AI, tun.Spawn, *seed+1)
	resolver := crafting.NewResolver(tun.Quality, *seed+2)

	runID := uuid.NewString()
	runDir := filepath.Join(*dataDir, runID)

	events := persistlog.NewEventLogger(runDir)
	defer events.Close()

	var index *indexdb.SQLiteIndex
	if !*disableDB {
		index, err = indexdb.Open(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("indexdb: %v", err)
		}
		defer index.Close()
		index.RecordRun(indexdb.RunRow{RunID: runID, Seed: *seed, Started: time.Now()})
	}

	var tick uint64

	// Newly loaded chunks get their creature population immediately.
	mgr.On(chunks.EventChunkLoaded, func(p chunks.EventPayload) {
		spawned := eng.SpawnCreatures([]world.ChunkKey{p.Key})
		_ = events.WriteEvent(persistlog.Entry{Tick: tick, Type: "CHUNK_LOADED", Data: map[string]any{
			"cx": p.Key.CX, "cz": p.Key.CZ, "blocks": p.Blocks, "spawned": len(spawned),
		}})
		if index != nil {
			index.RecordChunk(indexdb.ChunkEventRow{RunID: runID, Tick: tick, Kind: "LOADED", CX: p.Key.CX, CZ: p.Key.CZ, Blocks: p.Blocks})
		}
	})
	mgr.On(chunks.EventChunkUnloaded, func(p chunks.EventPayload) {
		_ = events.WriteEvent(persistlog.Entry{Tick: tick, Type: "CHUNK_UNLOADED", Data: map[string]any{
			"cx": p.Key.CX, "cz": p.Key.CZ,
		}})
		if index != nil {
			index.RecordChunk(indexdb.ChunkEventRow{RunID: runID, Tick: tick, Kind: "UNLOADED", CX: p.Key.CX, CZ: p.Key.CZ})
		}
	})
	eng.OnDeath = func(c creatures.Creature, loot []catalogs.BlockCount) {
		lootJSON, _ := json.Marshal(loot)
		_ = events.WriteEvent(persistlog.Entry{Tick: tick, Type: "CREATURE_DIED", Data: map[string]any{
			"id": c.ID, "type": c.Type, "loot": json.RawMessage(lootJSON),
		}})
		if index != nil {
			index.RecordDeath(indexdb.DeathRow{RunID: runID, Tick: tick, CreatureID: c.ID, CreatureType: c.Type, LootJSON: string(lootJSON)})
		}
	}

	obs := observer.NewServer(observerproto.BootstrapResponse{
		ProtocolVersion: observerproto.Version,
		RunID:           runID,
		Seed:            *seed,
		TickRateHz:      tun.TickRateHz,
		WorldHeight:     tun.WorldHeight,
		ChunkRadius:     tun.ChunkRadius,
		BlockPalette:    cats.Blocks.Palette,
	}, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/observer/v1/bootstrap", obs.BootstrapHandler())
	mux.HandleFunc("/observer/v1/ws", obs.WSHandler())
	srv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("ListenAndServe: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(tun.TickRateHz))
	defer ticker.Stop()

	// The walker ambles in a slow circle so chunk streaming has something to
	// chase; each lap crosses a few dozen chunk boundaries.
	walker := func(t uint64) (float64, float64) {
		theta := float64(t) / float64(tun.DayTicks) * 2 * math.Pi
		r := float64(tun.ChunkRadius*world.ChunkSize) * 2.5
		return r * math.Cos(theta), r * math.Sin(theta)
	}

	recipeIDs := append([]string(nil), cats.Recipes.IDs...)
	sort.Strings(recipeIDs)

	logger.Printf("run %s starting (seed %d)", runID, *seed)

loop:
	for {
		select {
		case <-sig:
			logger.Printf("signal received, shutting down")
			break loop
		case <-ticker.C:
		}

		tick++
		px, pz := walker(tick)

		w.IncrementTime()
		mgr.UpdateChunks(px, pz)
		eng.UpdateCreatures()

		// Harvest a little and craft when a recipe becomes affordable, so a
		// long-running server exercises the whole mutation surface.
		if tick%10 == 0 {
			mineSurface(w, px, pz)
		}
		if tick%50 == 0 {
			tryCraft(w, cats, resolver, recipeIDs, func(recipeID string, q crafting.QualityTier) {
				_ = events.WriteEvent(persistlog.Entry{Tick: tick, Type: "CRAFTED", Data: map[string]any{
					"recipe": recipeID, "quality": string(q),
				}})
				if index != nil {
					index.RecordCraft(indexdb.CraftRow{RunID: runID, Tick: tick, RecipeID: recipeID, Quality: string(q)})
				}
			})
		}

		obs.Broadcast(tickMsg(tick, w, mgr, eng))

		if tick%100 == 0 && index != nil {
			st := mgr.LoadingStatus()
			index.RecordStats(indexdb.StatsRow{
				RunID: runID, Tick: tick,
				LoadedChunks: st.LoadedChunks, PendingChunks: st.PendingChunks,
				TotalBlocks: st.TotalBlocks, Creatures: eng.Count(),
			})
		}

		if *maxTicks > 0 && tick >= *maxTicks {
			logger.Printf("reached %d ticks", tick)
			break loop
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Printf("run %s stopped at tick %d", runID, tick)
}

// mineSurface removes the surface block under (x,z), feeding the inventory.
func mineSurface(w *world.World, x, z float64) {
	bx := int(math.Floor(x))
	bz := int(math.Floor(z))
	for y := w.Height() - 1; y >= 1; y-- {
		pos := world.Vec3i{X: bx, Y: y, Z: bz}
		if w.SolidAt(pos) {
			w.RemoveBlock(pos)
			return
		}
	}
}

func tryCraft(w *world.World, cats *catalogs.Catalogs, res *crafting.Resolver, recipeIDs []string, record func(string, crafting.QualityTier)) {
	inv := w.InventorySnapshot()
	for _, id := range recipeIDs {
		rec := cats.Recipes.ByID[id]
		if !crafting.CanCraft(rec, inv) {
			continue
		}
		if !w.CraftRecipe(rec) {
			continue
		}
		q := res.ResultQuality(crafting.Context{
			Skill:           40,
			StationBonus:    stationBonus(rec),
			MaterialBonuses: materialBonuses(rec),
		})
		record(id, q)
		return
	}
}

func stationBonus(r catalogs.RecipeDef) float64 {
	if r.RequiresStation {
		return 0.15
	}
	return 0
}

// materialBonuses grades each ingredient slot by a crude scarcity measure:
// bigger stacks of one material suggest commonness.
func materialBonuses(r catalogs.RecipeDef) []float64 {
	out := make([]float64, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		b := 0.1
		if ing.Count <= 2 {
			b = 0.2
		}
		out = append(out, b)
	}
	return out
}

func tickMsg(tick uint64, w *world.World, mgr *chunks.Manager, eng *creatures.Engine) observerproto.TickMsg {
	st := mgr.LoadingStatus()
	msg := observerproto.TickMsg{
		Type:            "TICK",
		ProtocolVersion: observerproto.Version,
		Tick:            tick,
		TimeOfDay:       w.TimeOfDay(),
		Weather:         string(w.Weather()),
		Loading: observerproto.LoadingStatus{
			LoadedChunks:  st.LoadedChunks,
			PendingChunks: st.PendingChunks,
			TotalBlocks:   st.TotalBlocks,
		},
	}
	for _, c := range eng.Creatures() {
		msg.Creatures = append(msg.Creatures, observerproto.CreatureState{
			ID:        c.ID,
			Type:      c.Type,
			Pos:       [3]float64{c.Pos.X, c.Pos.Y, c.Pos.Z},
			Yaw:       c.Yaw,
			Health:    c.Health,
			MaxHealth: c.MaxHealth,
			State:     string(c.State),
			Mood:      string(c.Mood),
			Hostility: string(c.Hostility),
			FlockID:   c.FlockID,
			Leader:    c.Leader,
		})
	}
	return msg
}
