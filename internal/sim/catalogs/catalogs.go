package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Blocks    BlockCatalog
	Recipes   RecipeCatalog
	Creatures CreatureCatalog
}

type BlockCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]BlockDef
	PaletteDigest string
	DefsDigest    string
}

type BlockDef struct {
	ID        string `json:"id"`
	Solid     bool   `json:"solid"`
	Liquid    bool   `json:"liquid"`
	Breakable bool   `json:"breakable"`
}

// Collectible blocks return to the inventory when removed from the world.
func (d BlockDef) Collectible() bool {
	return d.Solid && !d.Liquid
}

type RecipeCatalog struct {
	ByID   map[string]RecipeDef
	IDs    []string // sorted
	Digest string
}

type RecipeDef struct {
	RecipeID        string       `json:"recipe_id"`
	Name            string       `json:"name"`
	Category        string       `json:"category"`
	Ingredients     []BlockCount `json:"ingredients"`
	Output          BlockCount   `json:"output"`
	RequiresStation bool         `json:"requires_station"`
	Unlocked        bool         `json:"unlocked"`
}

type BlockCount struct {
	Block string `json:"block"`
	Count int    `json:"count"`
}

type CreatureCatalog struct {
	Defs   map[string]CreatureDef
	IDs    []string // sorted
	Digest string

	// Spawn pools by hostility class, sorted.
	Passive []string
	Neutral []string
	Hostile []string
}

type CreatureDef struct {
	ID           string  `json:"id"`
	Hostility    string  `json:"hostility"` // PASSIVE | NEUTRAL | HOSTILE
	MaxHealth    int     `json:"max_health"`
	BaseMood     string  `json:"base_mood"`
	Speed        float64 `json:"speed"`
	SenseRadius  float64 `json:"sense_radius"`
	Flocking     bool    `json:"flocking"`
	FlockSlots   int     `json:"flock_slots,omitempty"`
	LeaderChance float64 `json:"leader_chance,omitempty"`

	// Per-mood transition chances, rolled once per AI update.
	MoodMatrix map[string]map[string]float64 `json:"mood_matrix,omitempty"`

	Loot []LootEntry `json:"loot,omitempty"`
}

type LootEntry struct {
	Block    string  `json:"block"`
	Chance   float64 `json:"chance"`
	MinCount int     `json:"min_count"`
	MaxCount int     `json:"max_count"`
}

// DefaultCreature is the fallback for spawn requests naming an unknown type:
// a modest passive animal that drops nothing.
func DefaultCreature(id string) CreatureDef {
	return CreatureDef{
		ID:          id,
		Hostility:   "PASSIVE",
		MaxHealth:   10,
		BaseMood:    "CALM",
		Speed:       0.08,
		SenseRadius: 8,
	}
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadBlocks(filepath.Join(configDir, "blocks.json"), &c.Blocks); err != nil {
		return nil, err
	}
	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Recipes); err != nil {
		return nil, err
	}
	if err := loadCreatures(filepath.Join(configDir, "creatures.json"), &c.Creatures); err != nil {
		return nil, err
	}

	// Cross-check references so a bad data drop fails at startup, not mid-tick.
	for _, id := range c.Recipes.IDs {
		r := c.Recipes.ByID[id]
		for _, ing := range r.Ingredients {
			if _, ok := c.Blocks.Defs[ing.Block]; !ok {
				return nil, fmt.Errorf("recipes.json: %s ingredient %q not in blocks.json", id, ing.Block)
			}
		}
		if _, ok := c.Blocks.Defs[r.Output.Block]; !ok {
			return nil, fmt.Errorf("recipes.json: %s output %q not in blocks.json", id, r.Output.Block)
		}
	}
	for _, id := range c.Creatures.IDs {
		for _, l := range c.Creatures.Defs[id].Loot {
			if _, ok := c.Blocks.Defs[l.Block]; !ok {
				return nil, fmt.Errorf("creatures.json: %s loot %q not in blocks.json", id, l.Block)
			}
		}
	}

	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadBlocks(path string, out *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("blocks.json: duplicate id %q", d.ID)
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// AIR must exist and is always palette id 0.
	if _, ok := out.Defs["AIR"]; !ok {
		return fmt.Errorf("blocks.json: missing AIR")
	}
	ids = append([]string{"AIR"}, filterOut(ids, "AIR")...)

	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func loadRecipes(path string, out *RecipeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []RecipeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	out.ByID = map[string]RecipeDef{}
	for _, d := range defs {
		if d.RecipeID == "" {
			return fmt.Errorf("recipes.json: empty recipe_id")
		}
		if len(d.Ingredients) == 0 {
			return fmt.Errorf("recipes.json: %s has no ingredients", d.RecipeID)
		}
		for _, ing := range d.Ingredients {
			if ing.Count <= 0 {
				return fmt.Errorf("recipes.json: %s ingredient %s count must be positive", d.RecipeID, ing.Block)
			}
		}
		if d.Output.Count <= 0 {
			return fmt.Errorf("recipes.json: %s output count must be positive", d.RecipeID)
		}
		out.ByID[d.RecipeID] = d
	}

	out.IDs = make([]string, 0, len(out.ByID))
	for id := range out.ByID {
		out.IDs = append(out.IDs, id)
	}
	sort.Strings(out.IDs)
	return nil
}

func loadCreatures(path string, out *CreatureCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []CreatureDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("creatures.json: %w", err)
	}
	out.Defs = map[string]CreatureDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("creatures.json: empty id")
		}
		switch d.Hostility {
		case "PASSIVE", "NEUTRAL", "HOSTILE":
		default:
			return fmt.Errorf("creatures.json: %s has unknown hostility %q", d.ID, d.Hostility)
		}
		if d.MaxHealth <= 0 {
			return fmt.Errorf("creatures.json: %s max_health must be positive", d.ID)
		}
		for _, l := range d.Loot {
			if l.Chance < 0 || l.Chance > 1 {
				return fmt.Errorf("creatures.json: %s loot %s chance outside [0,1]", d.ID, l.Block)
			}
			if l.MinCount < 0 || l.MaxCount < l.MinCount {
				return fmt.Errorf("creatures.json: %s loot %s bad count range", d.ID, l.Block)
			}
		}
		out.Defs[d.ID] = d
	}

	out.IDs = make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		out.IDs = append(out.IDs, id)
	}
	sort.Strings(out.IDs)

	for _, id := range out.IDs {
		switch out.Defs[id].Hostility {
		case "PASSIVE":
			out.Passive = append(out.Passive, id)
		case "NEUTRAL":
			out.Neutral = append(out.Neutral, id)
		case "HOSTILE":
			out.Hostile = append(out.Hostile, id)
		}
	}
	return nil
}

func filterOut(ids []string, drop string) []string {
	outIDs := ids[:0]
	for _, id := range ids {
		if id != drop {
			outIDs = append(outIDs, id)
		}
	}
	return outIDs
}
