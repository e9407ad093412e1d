package world

import "sort"

// ChunkStore is the sparse voxel storage: a map from chunk coordinates to
// materialized 16x16 columns. An absent chunk (or an out-of-range Y) reads
// as AIR. Accessed only from the simulation goroutine; chunk *generation*
// is pure and may run elsewhere (see Generate).
type ChunkStore struct {
	gen    WorldGen
	chunks map[ChunkKey]*Chunk
}

func NewChunkStore(gen WorldGen) *ChunkStore {
	if gen.Height <= 0 {
		gen.Height = 64
	}
	return &ChunkStore{
		gen:    gen,
		chunks: map[ChunkKey]*Chunk{},
	}
}

func (s *ChunkStore) Gen() WorldGen { return s.gen }

func (s *ChunkStore) inBounds(pos Vec3i) bool {
	if pos.Y < 0 || pos.Y >= s.gen.Height {
		return false
	}
	if s.gen.BoundaryR > 0 {
		if pos.X < -s.gen.BoundaryR || pos.X > s.gen.BoundaryR || pos.Z < -s.gen.BoundaryR || pos.Z > s.gen.BoundaryR {
			return false
		}
	}
	return true
}

// Generate materializes the chunk at (cx,cz) without touching the store.
// It is a pure function of the generation parameters, safe to call from a
// worker goroutine.
func (s *ChunkStore) Generate(cx, cz int) *Chunk {
	ch := newChunk(cx, cz, s.gen.Height)
	s.generateChunk(ch)
	return ch
}

// Apply merges a generated chunk into the store. The merge is idempotent:
// if the coordinate is already materialized (possibly carrying player
// edits), the incoming chunk is dropped.
func (s *ChunkStore) Apply(ch *Chunk) bool {
	k := ChunkKey{CX: ch.CX, CZ: ch.CZ}
	if _, ok := s.chunks[k]; ok {
		return false
	}
	s.chunks[k] = ch
	return true
}

func (s *ChunkStore) Has(k ChunkKey) bool {
	_, ok := s.chunks[k]
	return ok
}

func (s *ChunkStore) Chunk(k ChunkKey) *Chunk {
	return s.chunks[k]
}

func (s *ChunkStore) LoadedChunkKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.chunks))
	for k := range s.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}

// GetBlock reads the block at pos. Absent chunks read as AIR; the store
// never generates on read.
func (s *ChunkStore) GetBlock(pos Vec3i) uint16 {
	if !s.inBounds(pos) {
		return s.gen.Air
	}
	cx := floorDiv(pos.X, ChunkSize)
	cz := floorDiv(pos.Z, ChunkSize)
	ch, ok := s.chunks[ChunkKey{CX: cx, CZ: cz}]
	if !ok {
		return s.gen.Air
	}
	return ch.Get(mod(pos.X, ChunkSize), pos.Y, mod(pos.Z, ChunkSize))
}

// SetBlock writes the block at pos, materializing an empty chunk if the
// coordinate has never been generated. Last write wins.
func (s *ChunkStore) SetBlock(pos Vec3i, b uint16) {
	if !s.inBounds(pos) {
		return
	}
	cx := floorDiv(pos.X, ChunkSize)
	cz := floorDiv(pos.Z, ChunkSize)
	k := ChunkKey{CX: cx, CZ: cz}
	ch, ok := s.chunks[k]
	if !ok {
		ch = newChunk(cx, cz, s.gen.Height)
		s.chunks[k] = ch
	}
	ch.Set(mod(pos.X, ChunkSize), pos.Y, mod(pos.Z, ChunkSize), b)
}

// TotalBlocks counts non-air blocks across all materialized chunks.
func (s *ChunkStore) TotalBlocks() int {
	n := 0
	for _, ch := range s.chunks {
		n += ch.NonAir()
	}
	return n
}
