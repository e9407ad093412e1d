package creatures

import "terravox/internal/sim/catalogs"

// CreatureLoot rolls the type's loot table. Entries are independent: each is
// its own Bernoulli trial with its own count range, with no mutual
// exclusivity and no cap on the total, so a single death can drop zero, some,
// or all listed items.
func (e *Engine) CreatureLoot(typ string) []catalogs.BlockCount {
	d := e.def(typ)
	var drops []catalogs.BlockCount
	for _, entry := range d.Loot {
		if e.rng.Float64() >= entry.Chance {
			continue
		}
		count := entry.MinCount
		if entry.MaxCount > entry.MinCount {
			count += e.rng.Intn(entry.MaxCount - entry.MinCount + 1)
		}
		if count <= 0 {
			continue
		}
		drops = append(drops, catalogs.BlockCount{Block: entry.Block, Count: count})
	}
	return drops
}
