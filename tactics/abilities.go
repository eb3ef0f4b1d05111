package tactics

import (
	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/nstehr/vimy/vimy-squads/model"
)

const (
	feedbackRange     = 10.0
	feedbackMinEnergy = 50.0
	snipeRange        = 10.0
	snipeMinHealth    = 70.0
	turretRange       = 9.0
	turretDrop        = 3.0
	healRange         = 4.0
	healBelow         = 0.9
	transfuseRange    = 7.0
	transfuseBelow    = 0.6
	blinkShieldsBelow = 0.2
	blinkSearch       = 8.0
	safeSearch        = 10.0
)

// keepSafe steps out of an unsafe cell. Nothing is added when the unit is
// already safe or no safe cell is in reach.
func keepSafe(m *ipc.Maneuver, u model.Unit, grid *model.CostGrid) {
	if grid.Safe(u.Position) {
		return
	}
	if spot, ok := grid.ClosestSafe(u.Position, safeSearch); ok {
		m.Add(moveTo(spot))
	}
}

// feedback drains the enemy caster holding the most energy in reach.
func feedback(m *ipc.Maneuver, u model.Unit, enemies []model.Unit, extraRange float64) bool {
	if !u.HasAbility(AbilityFeedback) {
		return false
	}
	var best *model.Unit
	for i, e := range enemies {
		if e.Energy < feedbackMinEnergy {
			continue
		}
		reach := feedbackRange + e.Radius + u.Radius + extraRange
		if u.Position.Distance(e.Position) >= reach {
			continue
		}
		if best == nil || e.Energy > best.Energy {
			best = &enemies[i]
		}
	}
	if best == nil {
		return false
	}
	m.Add(ipc.CastOn(AbilityFeedback, best.ID))
	return true
}

// snipe takes the healthiest non-structure enemy in reach.
func snipe(m *ipc.Maneuver, u model.Unit, enemies []model.Unit) bool {
	if !u.HasAbility(AbilitySnipe) {
		return false
	}
	var best *model.Unit
	for i, e := range enemies {
		if e.Structure || e.Health < snipeMinHealth {
			continue
		}
		if u.Position.Distance(e.Position) > snipeRange+e.Radius+u.Radius {
			continue
		}
		if best == nil || e.Health > best.Health {
			best = &enemies[i]
		}
	}
	if best == nil {
		return false
	}
	m.Add(ipc.CastOn(AbilitySnipe, best.ID))
	return true
}

// aoe casts the first area ability the unit has with an enemy in reach,
// centred on the enemy with the most company inside the effect radius.
func aoe(m *ipc.Maneuver, u model.Unit, enemies, own []model.Unit) bool {
	for _, spell := range aoeSpells {
		if !u.HasAbility(spell.ability) {
			continue
		}
		reachSq := 9.0 + spell.castRange*spell.castRange
		var targets []model.Unit
		for _, e := range enemies {
			if e.Position.DistanceSq(u.Position) <= reachSq {
				targets = append(targets, e)
			}
		}
		if len(targets) == 0 {
			continue
		}
		center, hits := bestAOECenter(spell, targets, own)
		if hits < spell.minTargets {
			return false
		}
		m.Add(ipc.CastAt(spell.ability, center.X, center.Y))
		return true
	}
	return false
}

func bestAOECenter(spell aoeSpell, targets, own []model.Unit) (model.Point, int) {
	var best model.Point
	bestHits := 0
	for _, t := range targets {
		if hitsOwn(spell, t.Position, own) {
			continue
		}
		hits := 0
		for _, o := range targets {
			if t.Position.Distance(o.Position) <= spell.radius+o.Radius {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = t.Position, hits
		}
	}
	return best, bestHits
}

func hitsOwn(spell aoeSpell, center model.Point, own []model.Unit) bool {
	for _, o := range own {
		if (o.Flying && !spell.avoidOwnFlying) || (!o.Flying && !spell.avoidOwnGround) {
			continue
		}
		if center.Distance(o.Position) <= spell.radius+o.Radius {
			return true
		}
	}
	return false
}

// autoTurret drops a turret between the unit and the closest enemy.
func autoTurret(m *ipc.Maneuver, u model.Unit, enemies []model.Unit) bool {
	if !u.HasAbility(AbilityAutoTurret) {
		return false
	}
	closest, ok := model.ClosestTo(u.Position, enemies)
	if !ok || u.Position.Distance(closest.Position) > turretRange {
		return false
	}
	p := u.Position.Towards(closest.Position, turretDrop)
	m.Add(ipc.CastAt(AbilityAutoTurret, p.X, p.Y))
	return true
}

// heal targets the most damaged ground ally in reach.
func heal(m *ipc.Maneuver, u model.Unit, own []model.Unit) bool {
	return castOnWounded(m, u, own, AbilityHeal, healRange, healBelow, true)
}

func transfuse(m *ipc.Maneuver, u model.Unit, own []model.Unit, extraRange float64) bool {
	return castOnWounded(m, u, own, AbilityTransfuse, transfuseRange+extraRange, transfuseBelow, false)
}

func castOnWounded(m *ipc.Maneuver, u model.Unit, own []model.Unit, ability string, reach, below float64, groundOnly bool) bool {
	if !u.HasAbility(ability) {
		return false
	}
	var best *model.Unit
	for i, o := range own {
		if o.ID == u.ID || o.Structure || o.HealthFraction >= below {
			continue
		}
		if groundOnly && o.Flying {
			continue
		}
		if u.Position.Distance(o.Position) > reach+o.Radius+u.Radius {
			continue
		}
		if best == nil || o.HealthFraction < best.HealthFraction {
			best = &own[i]
		}
	}
	if best == nil {
		return false
	}
	m.Add(ipc.CastOn(ability, best.ID))
	return true
}

// useAbilities runs the shared ability chain used while fighting and while
// falling back.
func useAbilities(m *ipc.Maneuver, u model.Unit, enemies []model.Unit, sq model.Squad, grid *model.CostGrid) {
	if grid.Safe(u.Position) {
		snipe(m, u, enemies)
	}
	feedback(m, u, enemies, 4.5)
	aoe(m, u, enemies, sq.Units)
	autoTurret(m, u, enemies)
	heal(m, u, sq.Units)
	transfuse(m, u, sq.Units, 1.5)
}

// blinkOut teleports a unit with failing shields to the nearest safe cell.
func blinkOut(m *ipc.Maneuver, u model.Unit, grid *model.CostGrid) bool {
	if u.ShieldFraction >= blinkShieldsBelow || !u.HasAbility(AbilityBlink) || antiMobilityAffected(u) {
		return false
	}
	spot, ok := grid.ClosestSafe(u.Position, blinkSearch)
	if !ok || spot == u.Position {
		return false
	}
	m.Add(ipc.CastAt(AbilityBlink, spot.X, spot.Y))
	return true
}

// hallucinate summons a decoy archon.
func hallucinate(m *ipc.Maneuver, u model.Unit) bool {
	if !u.HasAbility(AbilityHallucinateArchon) {
		return false
	}
	m.Add(ipc.Cast(AbilityHallucinateArchon))
	return true
}
