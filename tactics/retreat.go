package tactics

import (
	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/nstehr/vimy/vimy-squads/model"
)

const (
	retreatDistance = 12.5
	retreatSearch   = 15.0
	// Melee units with a ground enemy this close (squared) keep swinging.
	meleePressureDistSq = 10.0
)

// Retreat pulls the squad back behind itself, away from target.
type Retreat struct {
	env *Env
}

func NewRetreat(env *Env, sq model.Squad, target model.Point) Behavior {
	return &Retreat{env: env}
}

// fallback picks where to run. The main squad backs off along the line from
// target; everyone else, and a main squad backed against unpathable ground,
// regroups on the main squad when one exists.
func (b *Retreat) fallback(sq model.Squad, target model.Point, adv Advisories) model.Point {
	rough := sq.Position.Towards(target, -retreatDistance)
	if sq.Main && b.env.Terrain.GroundPathable(rough) {
		if spot, ok := b.env.Terrain.Grids.Ground.ClosestSafe(rough, retreatSearch); ok {
			return spot
		}
		return rough
	}
	if adv.HasMainSquad {
		return adv.MainSquadPos
	}
	return rough
}

func (b *Retreat) Execute(sq model.Squad, enemies []model.Unit, target model.Point, adv Advisories) []ipc.Maneuver {
	to := b.fallback(sq, target, adv)

	ms := make([]*ipc.Maneuver, 0, len(sq.Units))
	for _, u := range sq.Units {
		m := ipc.NewManeuver(u.ID)
		ms = append(ms, m)

		if !u.Flying && u.CanAttack && u.Melee() {
			if pressing := meleePressure(u, enemies); len(pressing) > 0 {
				t, _ := pickTarget(pressing)
				m.Add(ipc.AttackUnit(t.ID))
				continue
			}
		}

		grid := b.env.Terrain.PathingFor(u)
		useAbilities(m, u, enemies, sq, grid)
		if u.CanAttack {
			shootInRange(m, u, enemies)
		}
		keepSafe(m, u, grid)
		m.Add(moveTo(to))
	}
	return collect(ms)
}

func meleePressure(u model.Unit, enemies []model.Unit) []model.Unit {
	var out []model.Unit
	for _, e := range enemies {
		if !e.Flying && u.Position.DistanceSq(e.Position) < meleePressureDistSq {
			out = append(out, e)
		}
	}
	return out
}
