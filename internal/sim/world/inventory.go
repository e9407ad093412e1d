package world

// The inventory holds at most one stack per block type. Entries never sit at
// zero: the last unit removed deletes the key.

func (w *World) InventoryCount(block string) int {
	return w.inventory[block]
}

// InventorySnapshot copies the inventory for callers that iterate (HUD,
// tests). Mutations must go through the operations below.
func (w *World) InventorySnapshot() map[string]int {
	out := make(map[string]int, len(w.inventory))
	for k, v := range w.inventory {
		out[k] = v
	}
	return out
}

func (w *World) AddToInventory(block string, count int) {
	if count <= 0 {
		return
	}
	if _, ok := w.cats.Blocks.Defs[block]; !ok {
		return
	}
	w.inventory[block] += count
}

// RemoveFromInventory is all-or-nothing: it fails without mutating when the
// stack is short.
func (w *World) RemoveFromInventory(block string, count int) bool {
	if count <= 0 {
		return false
	}
	have := w.inventory[block]
	if have < count {
		return false
	}
	if have == count {
		delete(w.inventory, block)
	} else {
		w.inventory[block] = have - count
	}
	return true
}

// Select marks the active stack used by placement. Selecting a block the
// inventory does not hold is allowed; placement will no-op until a unit is
// acquired.
func (w *World) Select(block string) {
	w.selected = block
}

func (w *World) Selected() string { return w.selected }
