package crafting

import (
	"math/rand"

	"terravox/internal/sim/tuning"
	"terravox/internal/sim/world/logic/mathx"
)

type QualityTier string

const (
	QualityPoor        QualityTier = "POOR"
	QualityStandard    QualityTier = "STANDARD"
	QualitySuperior    QualityTier = "SUPERIOR"
	QualityExceptional QualityTier = "EXCEPTIONAL"
	QualityMasterwork  QualityTier = "MASTERWORK"
)

// Tiers is the fixed resolution order; the cumulative walk follows it.
var Tiers = []QualityTier{QualityPoor, QualityStandard, QualitySuperior, QualityExceptional, QualityMasterwork}

// Base per-tier probabilities before the context scales them.
var baseProb = [5]float64{0.10, 0.60, 0.20, 0.08, 0.02}

// Upper-tier growth multipliers applied against the quality factor.
var tierScale = [5]float64{0, 0, 1.5, 2.5, 4.0}

// Context carries everything quality-aware crafting knows about the attempt.
type Context struct {
	Skill        int     // 0..100
	StationBonus float64 // 0 when crafting without a station
	// One bonus per occupied crafting slot, from the material's tier.
	MaterialBonuses []float64
}

type Resolver struct {
	cfg tuning.QualityTuning
	rng *rand.Rand
}

func NewResolver(cfg tuning.QualityTuning, seed int64) *Resolver {
	return &Resolver{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// SetRand swaps the random source; tests inject a fixed seed.
func (r *Resolver) SetRand(rng *rand.Rand) {
	if rng != nil {
		r.rng = rng
	}
}

// qualityFactor folds skill, station, and average material bonus into [0,1].
func (r *Resolver) qualityFactor(ctx Context) float64 {
	skill := float64(ctx.Skill)
	if skill < 0 {
		skill = 0
	}
	if skill > 100 {
		skill = 100
	}
	f := skill / 100 * r.cfg.SkillWeight
	f += ctx.StationBonus * r.cfg.StationWeight
	if n := len(ctx.MaterialBonuses); n > 0 {
		var sum float64
		for _, b := range ctx.MaterialBonuses {
			sum += b
		}
		f += sum / float64(n)
	}
	return mathx.Clamp01(f)
}

// Probabilities returns the renormalized tier distribution for the context,
// in Tiers order. The renormalize-before-roll order is load-bearing: without
// it the scaled weights do not sum to 1 and the walk silently favors the
// last tier checked.
func (r *Resolver) Probabilities(ctx Context) [5]float64 {
	qf := r.qualityFactor(ctx)

	var p [5]float64
	// Poor shrinks as quality rises and never goes negative.
	p[0] = baseProb[0] * (1 - qf)
	if p[0] < 0 {
		p[0] = 0
	}
	p[1] = baseProb[1]
	for i := 2; i < 5; i++ {
		p[i] = baseProb[i] * (1 + qf*tierScale[i])
	}

	var sum float64
	for _, v := range p {
		sum += v
	}
	if sum <= 0 {
		// Degenerate input; standard keeps the distribution alive.
		return [5]float64{0, 1, 0, 0, 0}
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}

// ResultQuality draws a single uniform roll and walks the cumulative
// distribution.
func (r *Resolver) ResultQuality(ctx Context) QualityTier {
	p := r.Probabilities(ctx)
	roll := r.rng.Float64()
	var cum float64
	for i, tier := range Tiers {
		cum += p[i]
		if roll < cum {
			return tier
		}
	}
	// Floating-point shortfall at the very top of the range.
	return Tiers[len(Tiers)-1]
}
