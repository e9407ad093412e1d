package crafting

import (
	"math"
	"math/rand"
	"testing"

	"terravox/internal/sim/tuning"
)

func testResolver(seed int64) *Resolver {
	return NewResolver(tuning.Default().Quality, seed)
}

func TestProbabilities_SumToOneAcrossContexts(t *testing.T) {
	r := testResolver(1)
	for skill := 0; skill <= 100; skill += 10 {
		for _, station := range []float64{0, 0.15, 0.3} {
			for _, mats := range [][]float64{nil, {0.1, 0.2}, {0.5, 0.5, 0.5}} {
				p := r.Probabilities(Context{Skill: skill, StationBonus: station, MaterialBonuses: mats})
				var sum float64
				for _, v := range p {
					if v < 0 {
						t.Fatalf("negative probability %v in %v (skill %d)", v, p, skill)
					}
					sum += v
				}
				if math.Abs(sum-1) > 1e-9 {
					t.Fatalf("probabilities sum to %v (skill %d station %v mats %v)", sum, skill, station, mats)
				}
			}
		}
	}
}

func TestProbabilities_QualityShiftsWeight(t *testing.T) {
	r := testResolver(1)
	low := r.Probabilities(Context{Skill: 0})
	high := r.Probabilities(Context{Skill: 100, StationBonus: 0.3, MaterialBonuses: []float64{0.4}})

	if high[0] >= low[0] {
		t.Fatalf("poor chance did not shrink: %v -> %v", low[0], high[0])
	}
	for i := 2; i < 5; i++ {
		if high[i] <= low[i] {
			t.Fatalf("tier %s did not grow: %v -> %v", Tiers[i], low[i], high[i])
		}
	}
}

func TestProbabilities_ExtremeInputsClamped(t *testing.T) {
	r := testResolver(1)
	over := r.Probabilities(Context{Skill: 500, StationBonus: 10, MaterialBonuses: []float64{9}})
	max := r.Probabilities(Context{Skill: 100, StationBonus: 10})
	if over != max {
		t.Fatalf("quality factor not clamped: %v vs %v", over, max)
	}
	under := r.Probabilities(Context{Skill: -50, MaterialBonuses: []float64{-9}})
	floor := r.Probabilities(Context{Skill: 0})
	if under != floor {
		t.Fatalf("negative context not clamped: %v vs %v", under, floor)
	}
}

func TestResultQuality_MatchesDistribution(t *testing.T) {
	r := testResolver(1)
	r.SetRand(rand.New(rand.NewSource(7)))
	ctx := Context{Skill: 40, StationBonus: 0.15, MaterialBonuses: []float64{0.1}}
	want := r.Probabilities(ctx)

	const n = 20000
	counts := map[QualityTier]int{}
	for i := 0; i < n; i++ {
		counts[r.ResultQuality(ctx)]++
	}
	for i, tier := range Tiers {
		got := float64(counts[tier]) / n
		if math.Abs(got-want[i]) > 0.02 {
			t.Fatalf("tier %s frequency %v, want ~%v", tier, got, want[i])
		}
	}
}

func TestResultQuality_SkillMonotonic(t *testing.T) {
	r := testResolver(1)
	r.SetRand(rand.New(rand.NewSource(7)))

	score := func(skill int) float64 {
		const n = 10000
		var total float64
		for i := 0; i < n; i++ {
			q := r.ResultQuality(Context{Skill: skill})
			for rank, tier := range Tiers {
				if q == tier {
					total += float64(rank)
				}
			}
		}
		return total / n
	}
	if novice, master := score(0), score(100); master <= novice {
		t.Fatalf("master average tier %v not above novice %v", master, novice)
	}
}

func TestResultQuality_AlwaysATier(t *testing.T) {
	r := testResolver(1)
	valid := map[QualityTier]bool{}
	for _, tier := range Tiers {
		valid[tier] = true
	}
	for i := 0; i < 1000; i++ {
		if q := r.ResultQuality(Context{Skill: i % 101}); !valid[q] {
			t.Fatalf("unknown tier %q", q)
		}
	}
}
