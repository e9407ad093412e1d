package creatures

import "terravox/internal/sim/world"

type State string

const (
	StateIdle      State = "IDLE"
	StateWandering State = "WANDERING"
	StateHunting   State = "HUNTING"
	StateAttacking State = "ATTACKING"
	StateFleeing   State = "FLEEING"
	StateGrazing   State = "GRAZING"
	StateSleeping  State = "SLEEPING"
	StateFollowing State = "FOLLOWING"
	StateDefending State = "DEFENDING"
)

type Hostility string

const (
	Passive Hostility = "PASSIVE"
	Neutral Hostility = "NEUTRAL"
	Hostile Hostility = "HOSTILE"
)

type Mood string

const (
	MoodCalm       Mood = "CALM"
	MoodAlert      Mood = "ALERT"
	MoodAggressive Mood = "AGGRESSIVE"
	MoodAfraid     Mood = "AFRAID"
	MoodPlayful    Mood = "PLAYFUL"
	MoodFrenzied   Mood = "FRENZIED"
)

// Memories is the small per-creature recall buffer. Both lists are bounded;
// the oldest entry falls off first.
type Memories struct {
	FavoriteLocations []world.Vec3
	KnownThreats      []string
}

const (
	maxFavoriteLocations = 5
	maxKnownThreats      = 8
)

func (m *Memories) rememberLocation(p world.Vec3) {
	m.FavoriteLocations = append(m.FavoriteLocations, p)
	if len(m.FavoriteLocations) > maxFavoriteLocations {
		m.FavoriteLocations = m.FavoriteLocations[1:]
	}
}

func (m *Memories) rememberThreat(id string) {
	for _, t := range m.KnownThreats {
		if t == id {
			return
		}
	}
	m.KnownThreats = append(m.KnownThreats, id)
	if len(m.KnownThreats) > maxKnownThreats {
		m.KnownThreats = m.KnownThreats[1:]
	}
}

type Creature struct {
	ID   string
	Type string

	Pos world.Vec3
	Yaw float64 // radians, heading of the last chosen target

	Health    int
	MaxHealth int

	State     State
	Hostility Hostility
	Mood      Mood

	Hunger    int // 0..100, rises over time
	Tiredness int // 0..100, rises over time

	FlockID string
	Leader  bool

	Memories Memories

	// Wander bookkeeping.
	target   *world.Vec3
	nextTick uint64
}

// Flock is an explicit group entity owning its member list, so membership
// queries never scan the whole creature table.
type Flock struct {
	ID       string
	Type     string
	LeaderID string
	Members  []string
}

func (f *Flock) remove(id string) {
	for i, m := range f.Members {
		if m == id {
			f.Members = append(f.Members[:i], f.Members[i+1:]...)
			break
		}
	}
	if f.LeaderID == id {
		f.LeaderID = ""
	}
}
