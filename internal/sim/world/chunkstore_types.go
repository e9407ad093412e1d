package world

import (
	"crypto/sha256"
	"encoding/binary"
)

// ChunkSize is the horizontal edge of a chunk in blocks.
const ChunkSize = 16

type ChunkKey struct {
	CX int
	CZ int
}

// Chunk is a 16x16 column of the world, Height blocks tall. It is a
// materialized projection of the global block map: chunks carry no identity
// beyond their coordinates.
type Chunk struct {
	CX, CZ int
	Height int
	Blocks []uint16 // len = 16*16*Height

	dirty bool
	hash  [32]byte
}

func newChunk(cx, cz, height int) *Chunk {
	return &Chunk{
		CX:     cx,
		CZ:     cz,
		Height: height,
		Blocks: make([]uint16, ChunkSize*ChunkSize*height),
	}
}

func (c *Chunk) index(x, y, z int) int {
	// x fastest, then z, then y
	return x + z*ChunkSize + y*ChunkSize*ChunkSize
}

func (c *Chunk) Get(x, y, z int) uint16 {
	return c.Blocks[c.index(x, y, z)]
}

func (c *Chunk) Set(x, y, z int, b uint16) {
	i := c.index(x, y, z)
	if c.Blocks[i] == b {
		return
	}
	c.Blocks[i] = b
	c.dirty = true
}

// NonAir counts materialized blocks; air is palette id 0 by catalog contract.
func (c *Chunk) NonAir() int {
	n := 0
	for _, v := range c.Blocks {
		if v != 0 {
			n++
		}
	}
	return n
}

func (c *Chunk) Digest() [32]byte {
	if c.dirty || c.hash == ([32]byte{}) {
		// Hash the raw uint16 slice deterministically.
		h := sha256.New()
		var tmp [2]byte
		for _, v := range c.Blocks {
			binary.LittleEndian.PutUint16(tmp[:], v)
			h.Write(tmp[:])
		}
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}

// WorldGen holds the deterministic terrain parameters. Chunk content is a
// pure function of (Seed, chunk coordinates).
type WorldGen struct {
	Seed      int64
	Height    int
	SeaLevel  int
	BoundaryR int // blocks, 0 = unbounded

	BiomeRegionSize int
	HeightNoiseCell int
	BaseHeight      int
	HeightRange     int

	// Palette ids for core blocks, resolved from the block catalog.
	Air     uint16
	Grass   uint16
	Dirt    uint16
	Stone   uint16
	Sand    uint16
	Gravel  uint16
	Water   uint16
	Log     uint16
	Leaves  uint16
	CoalOre uint16
	IronOre uint16
}
