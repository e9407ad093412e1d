// Package crafting validates recipe affordability and resolves the quality
// tier of a crafted output.
package crafting

import "terravox/internal/sim/catalogs"

// CanCraft reports whether the inventory covers every ingredient. A missing
// entry counts as zero. The check is side-effect-free; consumption happens
// in the world store.
func CanCraft(r catalogs.RecipeDef, inv map[string]int) bool {
	if !r.Unlocked {
		return false
	}
	for _, ing := range r.Ingredients {
		if inv[ing.Block] < ing.Count {
			return false
		}
	}
	return true
}
