package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz int `yaml:"tick_rate_hz"`
	DayTicks   int `yaml:"day_ticks"`

	WorldHeight int `yaml:"world_height"`
	SeaLevel    int `yaml:"sea_level"`
	BoundaryR   int `yaml:"world_boundary_r"` // blocks, 0 = unbounded

	ChunkRadius int `yaml:"chunk_radius"` // Chebyshev radius of the loaded set

	Weather WeatherTuning `yaml:"weather"`
	Spawn   SpawnTuning   `yaml:"spawn"`
	AI      AITuning      `yaml:"ai"`
	Quality QualityTuning `yaml:"quality"`
}

type WeatherTuning struct {
	// Per-tick chance of re-picking the weather uniformly. The re-pick is
	// memoryless: it ignores the current weather entirely.
	ChangeChance float64 `yaml:"change_chance"`
}

type SpawnTuning struct {
	PassiveMin    int     `yaml:"passive_min"`
	PassiveMax    int     `yaml:"passive_max"`
	HostileChance float64 `yaml:"hostile_chance"`
	HostileMin    int     `yaml:"hostile_min"`
	HostileMax    int     `yaml:"hostile_max"`
	AltitudeBound int     `yaml:"altitude_bound"` // downward column scan starts here
}

type AITuning struct {
	UpdateIntervalTicks int     `yaml:"update_interval_ticks"` // per-creature minimum
	StateRerollChance   float64 `yaml:"state_reroll_chance"`
	WanderRadiusMin     float64 `yaml:"wander_radius_min"`
	WanderRadiusMax     float64 `yaml:"wander_radius_max"`
	ArriveEpsilon       float64 `yaml:"arrive_epsilon"`
	GroundScanWindow    int     `yaml:"ground_scan_window"`
}

type QualityTuning struct {
	SkillWeight   float64 `yaml:"skill_weight"`
	StationWeight float64 `yaml:"station_weight"`
}

// Default returns the tuning the shipped tuning.yaml mirrors. Tests use it
// directly so they do not depend on the data directory.
func Default() Tuning {
	return Tuning{
		TickRateHz:  10,
		DayTicks:    6000,
		WorldHeight: 64,
		SeaLevel:    20,
		BoundaryR:   0,
		ChunkRadius: 3,
		Weather: WeatherTuning{
			ChangeChance: 0.002,
		},
		Spawn: SpawnTuning{
			PassiveMin:    1,
			PassiveMax:    4,
			HostileChance: 0.7,
			HostileMin:    1,
			HostileMax:    3,
			AltitudeBound: 63,
		},
		AI: AITuning{
			UpdateIntervalTicks: 20, // 2s at 10Hz
			StateRerollChance:   0.3,
			WanderRadiusMin:     2,
			WanderRadiusMax:     7,
			ArriveEpsilon:       0.25,
			GroundScanWindow:    8,
		},
		Quality: QualityTuning{
			SkillWeight:   0.5,
			StationWeight: 1.0,
		},
	}
}

func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.validate(); err != nil {
		return t, err
	}
	return t, nil
}

func (t Tuning) validate() error {
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tuning.yaml: tick_rate_hz must be positive")
	}
	if t.DayTicks <= 0 {
		return fmt.Errorf("tuning.yaml: day_ticks must be positive")
	}
	if t.WorldHeight <= 0 || t.WorldHeight > 256 {
		return fmt.Errorf("tuning.yaml: world_height out of range")
	}
	if t.SeaLevel < 0 || t.SeaLevel >= t.WorldHeight {
		return fmt.Errorf("tuning.yaml: sea_level out of range")
	}
	if t.ChunkRadius <= 0 {
		return fmt.Errorf("tuning.yaml: chunk_radius must be positive")
	}
	if t.Spawn.PassiveMax < t.Spawn.PassiveMin || t.Spawn.HostileMax < t.Spawn.HostileMin {
		return fmt.Errorf("tuning.yaml: spawn count ranges inverted")
	}
	if t.AI.WanderRadiusMax < t.AI.WanderRadiusMin {
		return fmt.Errorf("tuning.yaml: wander radius range inverted")
	}
	return nil
}
