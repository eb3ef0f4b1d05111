package tactics

import (
	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/nstehr/vimy/vimy-squads/model"
)

const stutterStep = 2.0

// reachable splits enemies by the weapon that can hit them: ground targets
// need ground range, flying targets need air range.
func reachable(u model.Unit, enemies []model.Unit) []model.Unit {
	var out []model.Unit
	for _, e := range enemies {
		if (e.Flying && u.AirRange > 0) || (!e.Flying && u.GroundRange > 0) {
			out = append(out, e)
		}
	}
	return out
}

func inWeaponRange(u, e model.Unit) bool {
	r := u.GroundRange
	if e.Flying {
		r = u.AirRange
	}
	return u.Position.Distance(e.Position) <= r+u.Radius+e.Radius
}

// shootInRange attacks the weakest enemy already inside weapon range, only
// when the weapon is ready to fire.
func shootInRange(m *ipc.Maneuver, u model.Unit, enemies []model.Unit) bool {
	if !u.WeaponReady {
		return false
	}
	var inRange []model.Unit
	for _, e := range reachable(u, enemies) {
		if inWeaponRange(u, e) {
			inRange = append(inRange, e)
		}
	}
	target, ok := pickTarget(inRange)
	if !ok {
		return false
	}
	m.Add(ipc.AttackUnit(target.ID))
	return true
}

// stutter moves the unit relative to the closest enemy it can shoot while
// the weapon cools down. Forward closes distance for outranged squads.
func stutter(m *ipc.Maneuver, u model.Unit, enemies []model.Unit, grid *model.CostGrid, forward bool) {
	pool := reachable(u, enemies)
	if len(pool) == 0 {
		pool = enemies
	}
	closest, ok := model.ClosestTo(u.Position, pool)
	if !ok {
		return
	}
	if forward {
		m.Add(ipc.AttackUnit(closest.ID))
		return
	}
	if u.WeaponReady && inWeaponRange(u, closest) {
		m.Add(ipc.AttackUnit(closest.ID))
		return
	}
	back := u.Position.Towards(closest.Position, -stutterStep)
	if !grid.Pathable(back) {
		spot, found := grid.ClosestSafe(u.Position, safeSearch)
		if !found {
			m.Add(ipc.AttackUnit(closest.ID))
			return
		}
		back = spot
	}
	m.Add(moveTo(back))
}
