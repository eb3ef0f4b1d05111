package tactics

import (
	"strings"

	"github.com/nstehr/vimy/vimy-squads/model"
)

// Unit type constants referenced by behavior special cases.
const (
	Baneling = "baneling"
)

// Ability constants. Names match the host's ability registry.
const (
	AbilityFeedback          = "feedback"
	AbilityBlink             = "blink"
	AbilityHallucinateArchon = "hallucination_archon"
	AbilityPsiStorm          = "psistorm"
	AbilityCorrosiveBile     = "corrosive_bile"
	AbilityKD8Charge         = "kd8_charge"
	AbilityFungalGrowth      = "fungal_growth"
	AbilityEMP               = "emp"
	AbilityAutoTurret        = "auto_turret"
	AbilitySnipe             = "snipe"
	AbilityHeal              = "heal"
	AbilityTransfuse         = "transfuse"
)

// antiMobilityBuffs stop a unit from teleporting out of trouble.
var antiMobilityBuffs = []string{"fungal_growth", "graviton_beam", "neural_parasite", "stasis"}

// fodderValues ranks disposable unit types; lower is more disposable.
// Types absent from the table are never fodder.
var fodderValues = map[string]int{
	"zergling":  1,
	"marine":    1,
	"zealot":    2,
	"baneling":  2,
	"hellion":   2,
	"adept":     2,
	"roach":     3,
	"stalker":   3,
	"marauder":  3,
	"hydralisk": 3,
	"ravager":   4,
	"immortal":  4,
}

// aoeSpell describes an area ability: cast range, effect radius and how
// careful the caster must be about its own army.
type aoeSpell struct {
	ability        string
	castRange      float64
	radius         float64
	minTargets     int
	avoidOwnGround bool
	avoidOwnFlying bool
}

// aoeSpells are tried in order; the first the unit can cast wins.
var aoeSpells = []aoeSpell{
	{ability: AbilityPsiStorm, castRange: 9, radius: 1.5, minTargets: 4, avoidOwnGround: true, avoidOwnFlying: true},
	{ability: AbilityFungalGrowth, castRange: 10, radius: 2.25, minTargets: 4},
	{ability: AbilityEMP, castRange: 10, radius: 1.5, minTargets: 4},
	{ability: AbilityCorrosiveBile, castRange: 9, radius: 0.5, minTargets: 1},
	{ability: AbilityKD8Charge, castRange: 5, radius: 0.5, minTargets: 1, avoidOwnGround: true},
}

func isType(u model.Unit, t string) bool {
	return strings.EqualFold(u.Type, t)
}

func antiMobilityAffected(u model.Unit) bool {
	for _, b := range antiMobilityBuffs {
		if u.HasBuff(b) {
			return true
		}
	}
	return false
}

// FodderUnits returns the ids of the most disposable members. Fodder only
// exists when members span more than one value tier.
func FodderUnits(units []model.Unit) map[int]bool {
	tiers := make(map[int]bool)
	lowest := 0
	for _, u := range units {
		v, ok := fodderValues[strings.ToLower(u.Type)]
		if !ok {
			continue
		}
		if len(tiers) == 0 || v < lowest {
			lowest = v
		}
		tiers[v] = true
	}

	fodder := make(map[int]bool)
	if len(tiers) < 2 {
		return fodder
	}
	for _, u := range units {
		if v, ok := fodderValues[strings.ToLower(u.Type)]; ok && v == lowest {
			fodder[u.ID] = true
		}
	}
	return fodder
}

// pickTarget prefers the enemy closest to dying.
func pickTarget(enemies []model.Unit) (model.Unit, bool) {
	if len(enemies) == 0 {
		return model.Unit{}, false
	}
	best := enemies[0]
	for _, e := range enemies[1:] {
		if e.Health < best.Health {
			best = e
		}
	}
	return best, true
}

func groundUnits(units []model.Unit) []model.Unit {
	var out []model.Unit
	for _, u := range units {
		if !u.Flying {
			out = append(out, u)
		}
	}
	return out
}
