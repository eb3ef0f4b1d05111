package tactics

import (
	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/nstehr/vimy/vimy-squads/model"
)

// Light units this close (squared) to a baneling run.
const baneFleeDistSq = 15.4

// Engagement micro-manages each member through one fight.
type Engagement struct {
	env *Env
}

func NewEngagement(env *Env, sq model.Squad, target model.Point) Behavior {
	return &Engagement{env: env}
}

func (b *Engagement) Execute(sq model.Squad, enemies []model.Unit, target model.Point, adv Advisories) []ipc.Maneuver {
	if len(enemies) == 0 {
		return attackMoveGroup(sq.Units, target)
	}
	if b.meleeMirror(sq.Units, enemies) {
		center, _ := model.Centroid(enemies)
		return attackMoveGroup(sq.Units, center)
	}

	ms := make([]*ipc.Maneuver, 0, len(sq.Units))
	for _, u := range sq.Units {
		m := ipc.NewManeuver(u.ID)
		ms = append(ms, m)

		if bane, ok := adv.Banes[u.ID]; ok {
			m.Add(ipc.AttackUnit(bane.ID))
			continue
		}

		grid := b.env.Terrain.PathingFor(u)
		keepSafe(m, u, b.env.Terrain.AvoidanceFor(u))
		useAbilities(m, u, enemies, sq, grid)
		blinkOut(m, u, grid)

		switch {
		case shouldFleeBane(u, enemies):
			fleeBane(m, u, enemies, grid)
		case (u.Melee() && (u.CanAttack || isType(u, Baneling))) || u.Hallucination:
			m.Add(attackMoveTo(target))
		case hallucinate(m, u):
		case u.CanAttack:
			shootInRange(m, u, enemies)
			stutter(m, u, enemies, grid, adv.StutterForward)
		default:
			m.Add(attackMoveTo(sq.Position))
		}
	}
	return collect(ms)
}

// meleeMirror reports whether an all-melee squad faces mostly melee enemies.
// In that case individual kiting only loses damage.
func (b *Engagement) meleeMirror(own, enemies []model.Unit) bool {
	if b.env.MeleeMirrorFraction <= 0 || len(own) == 0 {
		return false
	}
	for _, u := range own {
		if u.Flying || !u.CanAttack || !u.Melee() {
			return false
		}
	}
	melee := 0
	for _, e := range enemies {
		if !e.Flying && e.CanAttack && e.Melee() {
			melee++
		}
	}
	return float64(melee)/float64(len(enemies)) >= b.env.MeleeMirrorFraction
}

func shouldFleeBane(u model.Unit, enemies []model.Unit) bool {
	if isType(u, Baneling) || !u.Light {
		return false
	}
	_, near := closeBane(u, enemies)
	return near
}

func closeBane(u model.Unit, enemies []model.Unit) (model.Unit, bool) {
	for _, e := range enemies {
		if isType(e, Baneling) && u.Position.DistanceSq(e.Position) < baneFleeDistSq {
			return e, true
		}
	}
	return model.Unit{}, false
}

// fleeBane seeks a safe cell, stepping straight away from the baneling when
// the grid reports no danger.
func fleeBane(m *ipc.Maneuver, u model.Unit, enemies []model.Unit, grid *model.CostGrid) {
	if !grid.Safe(u.Position) {
		keepSafe(m, u, grid)
		return
	}
	if bane, ok := closeBane(u, enemies); ok {
		m.Add(moveTo(u.Position.Towards(bane.Position, -stutterStep*2)))
	}
}
