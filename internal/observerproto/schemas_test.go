package observerproto_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"terravox/internal/observerproto"
)

// Messages the server emits (and the one it accepts) must match the schemas
// shipped under schemas/, so external observer tooling can rely on them.
func TestSchemas_ValidateProtocolMessages(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	roundtrip := func(v any) any {
		t.Helper()
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var out any
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return out
	}

	cases := []struct {
		name   string
		schema string
		msg    any
	}{
		{"subscribe", "subscribe.schema.json", observerproto.SubscribeMsg{
			Type:            "SUBSCRIBE",
			ProtocolVersion: observerproto.Version,
		}},
		{"bootstrap", "bootstrap.schema.json", observerproto.BootstrapResponse{
			ProtocolVersion: observerproto.Version,
			RunID:           "run-test",
			Seed:            42,
			TickRateHz:      10,
			WorldHeight:     64,
			ChunkRadius:     3,
			BlockPalette:    []string{"AIR", "STONE"},
		}},
		{"tick", "tick.schema.json", observerproto.TickMsg{
			Type:            "TICK",
			ProtocolVersion: observerproto.Version,
			Tick:            120,
			TimeOfDay:       0.25,
			Weather:         "RAIN",
			Loading:         observerproto.LoadingStatus{LoadedChunks: 49, PendingChunks: 2, TotalBlocks: 49 * 16 * 16 * 64},
			Creatures: []observerproto.CreatureState{{
				ID:        "C1",
				Type:      "SHEEP",
				Pos:       [3]float64{12.5, 11, -3.25},
				Yaw:       1.57,
				Health:    8,
				MaxHealth: 8,
				State:     "WANDERING",
				Mood:      "CALM",
				Hostility: "PASSIVE",
				FlockID:   "SHEEP-1",
				Leader:    true,
			}},
		}},
		{"tick without creatures", "tick.schema.json", observerproto.TickMsg{
			Type:            "TICK",
			ProtocolVersion: observerproto.Version,
			Weather:         "CLEAR",
		}},
	}
	for _, c := range cases {
		s := compile(c.schema)
		if err := s.Validate(roundtrip(c.msg)); err != nil {
			t.Errorf("%s does not satisfy %s: %v", c.name, c.schema, err)
		}
	}
}
