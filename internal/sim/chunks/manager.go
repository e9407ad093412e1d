// Package chunks decides, from a continuously moving player position, the
// bounded working set of chunks that should be materialized, and broadcasts
// lifecycle events to whoever cares (spawner, telemetry).
package chunks

import (
	"math"
	"sort"

	"terravox/internal/sim/world"
	"terravox/internal/sim/world/logic/mathx"
)

type Event string

const (
	EventChunkLoaded   Event = "CHUNK_LOADED"
	EventChunkUnloaded Event = "CHUNK_UNLOADED"
)

type EventPayload struct {
	Key    world.ChunkKey
	Blocks int // non-air count; zero on unload
}

// Generator produces chunk content. It must be safe to call off the
// simulation goroutine: the manager runs it on a single worker and applies
// results back on the caller's goroutine.
type Generator interface {
	Generate(cx, cz int) *world.Chunk
}

type Status struct {
	LoadedChunks  int
	PendingChunks int
	TotalBlocks   int
}

type Manager struct {
	store  *world.ChunkStore
	gen    Generator
	radius int

	loaded  map[world.ChunkKey]bool
	pending map[world.ChunkKey]bool
	desired map[world.ChunkKey]bool

	reqs chan world.ChunkKey
	done chan *world.Chunk
	stop chan struct{}

	listeners map[Event]map[int]func(EventPayload)
	nextSub   int
	closed    bool
}

// New builds a manager around the given store. gen may be nil, in which
// case the store's own generator is used.
func New(store *world.ChunkStore, gen Generator, radius int) *Manager {
	if gen == nil {
		gen = store
	}
	if radius <= 0 {
		radius = 3
	}
	m := &Manager{
		store:     store,
		gen:       gen,
		radius:    radius,
		loaded:    map[world.ChunkKey]bool{},
		pending:   map[world.ChunkKey]bool{},
		desired:   map[world.ChunkKey]bool{},
		reqs:      make(chan world.ChunkKey, 1024),
		done:      make(chan *world.Chunk, 1024),
		stop:      make(chan struct{}),
		listeners: map[Event]map[int]func(EventPayload){},
	}
	go m.worker()
	return m
}

// worker is the generation side of the message-passing boundary: it owns no
// manager state and only turns coordinates into chunks.
func (m *Manager) worker() {
	for {
		select {
		case <-m.stop:
			return
		case k := <-m.reqs:
			ch := m.gen.Generate(k.CX, k.CZ)
			select {
			case m.done <- ch:
			case <-m.stop:
				return
			}
		}
	}
}

func playerChunk(x, z float64) (int, int) {
	return mathx.FloorDiv(int(math.Floor(x)), world.ChunkSize),
		mathx.FloorDiv(int(math.Floor(z)), world.ChunkSize)
}

// UpdateChunks recomputes the desired set around (x,z), requests missing
// chunks, applies any completed generations, and evicts chunks that fell
// outside the retention radius. A coordinate with an in-flight request is
// never requested twice.
func (m *Manager) UpdateChunks(x, z float64) {
	if m.closed {
		return
	}
	m.applyCompleted()

	pcx, pcz := playerChunk(x, z)
	desired := make(map[world.ChunkKey]bool, (2*m.radius+1)*(2*m.radius+1))
	for dz := -m.radius; dz <= m.radius; dz++ {
		for dx := -m.radius; dx <= m.radius; dx++ {
			desired[world.ChunkKey{CX: pcx + dx, CZ: pcz + dz}] = true
		}
	}
	m.desired = desired

	for k := range desired {
		if m.loaded[k] || m.pending[k] {
			continue
		}
		if m.store.Has(k) {
			// Previously generated and logically unloaded; re-surface it
			// without regenerating.
			m.loaded[k] = true
			m.emit(EventChunkLoaded, EventPayload{Key: k, Blocks: m.store.Chunk(k).NonAir()})
			continue
		}
		select {
		case m.reqs <- k:
			m.pending[k] = true
		default:
			// Queue full; the coordinate stays unrequested and the next
			// update retries.
		}
	}

	for k := range m.loaded {
		if !desired[k] {
			delete(m.loaded, k)
			m.emit(EventChunkUnloaded, EventPayload{Key: k})
		}
	}
}

// applyCompleted drains finished generations. Results for chunks the player
// has since walked away from still merge into the block map (idempotent),
// but do not join the visible set and fire no event.
func (m *Manager) applyCompleted() {
	for {
		select {
		case ch := <-m.done:
			k := world.ChunkKey{CX: ch.CX, CZ: ch.CZ}
			delete(m.pending, k)
			m.store.Apply(ch)
			if m.desired[k] && !m.loaded[k] {
				m.loaded[k] = true
				m.emit(EventChunkLoaded, EventPayload{Key: k, Blocks: m.store.Chunk(k).NonAir()})
			}
		default:
			return
		}
	}
}

// Sync blocks until every in-flight request has been applied. The tick loop
// never calls this; it exists for tests and shutdown.
func (m *Manager) Sync() {
	for len(m.pending) > 0 {
		ch := <-m.done
		k := world.ChunkKey{CX: ch.CX, CZ: ch.CZ}
		delete(m.pending, k)
		m.store.Apply(ch)
		if m.desired[k] && !m.loaded[k] {
			m.loaded[k] = true
			m.emit(EventChunkLoaded, EventPayload{Key: k, Blocks: m.store.Chunk(k).NonAir()})
		}
	}
}

// GetVisibleChunks is a pure read: the currently materialized chunks within
// radius of (x,z), sorted. It never mutates load state.
func (m *Manager) GetVisibleChunks(x, z float64) []world.ChunkKey {
	pcx, pcz := playerChunk(x, z)
	keys := make([]world.ChunkKey, 0, len(m.loaded))
	for k := range m.loaded {
		if mathx.AbsInt(k.CX-pcx) <= m.radius && mathx.AbsInt(k.CZ-pcz) <= m.radius {
			keys = append(keys, k)
		}
	}
	sortKeys(keys)
	return keys
}

// LoadedChunkKeys returns the whole visible set regardless of player
// position, sorted.
func (m *Manager) LoadedChunkKeys() []world.ChunkKey {
	keys := make([]world.ChunkKey, 0, len(m.loaded))
	for k := range m.loaded {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

func sortKeys(keys []world.ChunkKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		return keys[i].CZ < keys[j].CZ
	})
}

func (m *Manager) LoadingStatus() Status {
	return Status{
		LoadedChunks:  len(m.loaded),
		PendingChunks: len(m.pending),
		TotalBlocks:   m.store.TotalBlocks(),
	}
}

// On subscribes to a lifecycle event. The returned unsubscribe is a no-op
// after the manager is closed, or when called twice.
func (m *Manager) On(ev Event, fn func(EventPayload)) func() {
	if m.listeners[ev] == nil {
		m.listeners[ev] = map[int]func(EventPayload){}
	}
	id := m.nextSub
	m.nextSub++
	m.listeners[ev][id] = fn
	return func() {
		subs := m.listeners[ev]
		if subs != nil {
			delete(subs, id)
		}
	}
}

func (m *Manager) emit(ev Event, p EventPayload) {
	for _, fn := range m.listeners[ev] {
		fn(p)
	}
}

// Close stops the generation worker. Pending results are dropped; the block
// map keeps whatever was already applied.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	m.closed = true
	close(m.stop)
}
