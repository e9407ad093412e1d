package world

import "terravox/internal/sim/catalogs"

// PlaceBlock writes the block at pos, consuming one unit from the matching
// inventory stack. It fails silently when the inventory is short. Occupancy
// is the caller's problem: the store does not re-validate the target, which
// keeps placement O(1).
func (w *World) PlaceBlock(pos Vec3i, block string) bool {
	id, ok := w.cats.Blocks.Index[block]
	if !ok || block == "AIR" {
		return false
	}
	if !w.RemoveFromInventory(block, 1) {
		return false
	}
	w.chunks.SetBlock(pos, id)
	return true
}

// RemoveBlock clears the block at pos. Collectible types land in the
// inventory in the same call; a removal that does not reach the inventory
// is a defect.
func (w *World) RemoveBlock(pos Vec3i) bool {
	cur := w.chunks.GetBlock(pos)
	if cur == w.chunks.gen.Air {
		return false
	}
	name := w.blockName(cur)
	w.chunks.SetBlock(pos, w.chunks.gen.Air)
	if w.cats.Blocks.Defs[name].Collectible() {
		w.inventory[name]++
	}
	return true
}

// CraftItem consumes every ingredient and credits the output. The
// affordability check is all-or-nothing: a single short ingredient leaves
// the inventory untouched.
func (w *World) CraftItem(output string, count int, ingredients []catalogs.BlockCount) bool {
	if count <= 0 {
		return false
	}
	if _, ok := w.cats.Blocks.Defs[output]; !ok {
		return false
	}
	for _, ing := range ingredients {
		if w.inventory[ing.Block] < ing.Count {
			return false
		}
	}
	for _, ing := range ingredients {
		if !w.RemoveFromInventory(ing.Block, ing.Count) {
			// Unreachable after the check above; kept as a hard stop so a
			// future refactor cannot introduce partial consumption.
			return false
		}
	}
	w.inventory[output] += count
	return true
}

// CraftRecipe is the catalog-driven form of CraftItem.
func (w *World) CraftRecipe(r catalogs.RecipeDef) bool {
	if !r.Unlocked {
		return false
	}
	return w.CraftItem(r.Output.Block, r.Output.Count, r.Ingredients)
}
