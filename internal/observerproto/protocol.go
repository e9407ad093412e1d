// Package observerproto defines the read-only observer websocket protocol.
// Observers see telemetry; they cannot act on the world.
package observerproto

const Version = "0.1"

// Client -> Server. First message on the observer connection.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// HTTP response for GET /observer/v1/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string   `json:"protocol_version"`
	RunID           string   `json:"run_id"`
	Seed            int64    `json:"seed"`
	TickRateHz      int      `json:"tick_rate_hz"`
	WorldHeight     int      `json:"world_height"`
	ChunkRadius     int      `json:"chunk_radius"`
	BlockPalette    []string `json:"block_palette"`
}

// Server -> Client. Sent every tick.
type TickMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`

	TimeOfDay float64 `json:"time_of_day"`
	Weather   string  `json:"weather"`

	Loading   LoadingStatus   `json:"loading"`
	Creatures []CreatureState `json:"creatures"`
}

type LoadingStatus struct {
	LoadedChunks  int `json:"loaded_chunks"`
	PendingChunks int `json:"pending_chunks"`
	TotalBlocks   int `json:"total_blocks"`
}

type CreatureState struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Pos       [3]float64 `json:"pos"`
	Yaw       float64    `json:"yaw"`
	Health    int        `json:"health"`
	MaxHealth int        `json:"max_health"`
	State     string     `json:"state"`
	Mood      string     `json:"mood"`
	Hostility string     `json:"hostility"`
	FlockID   string     `json:"flock_id,omitempty"`
	Leader    bool       `json:"leader,omitempty"`
}
