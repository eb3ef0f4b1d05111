// Package tactics holds the per-phase squad behaviors and the maneuver
// helpers they share. Behaviors never fail: missing targets, enemies or
// pathable slots degrade to plain moves.
package tactics

import (
	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/nstehr/vimy/vimy-squads/model"
)

// Behavior issues maneuver intents for one squad in one phase. A behavior
// may hold state computed at construction and lives until its phase ends.
type Behavior interface {
	Execute(sq model.Squad, enemies []model.Unit, target model.Point, adv Advisories) []ipc.Maneuver
}

// Advisories are per-tick hints computed by the engine for one squad.
type Advisories struct {
	StutterForward bool
	MainSquadPos   model.Point
	HasMainSquad   bool
	// Banes maps an own unit id to the enemy baneling it must kill first.
	Banes map[int]model.Unit
}

// Env is shared by every behavior of one engine. The engine refreshes
// Terrain each tick before any behavior executes.
type Env struct {
	Terrain   Terrain
	Formation FormationAdjuster
	// MeleeMirrorFraction is the share of melee enemies at which an
	// all-melee squad stops micro and fights as one block.
	MeleeMirrorFraction float64
}

// Terrain resolves which host grid applies to a unit.
type Terrain struct {
	Grids model.Grids
}

// PathingFor returns the grid a unit moves on.
func (t Terrain) PathingFor(u model.Unit) *model.CostGrid {
	if u.Flying {
		return t.Grids.Air
	}
	return t.Grids.Ground
}

// AvoidanceFor returns the grid marking area denial for a unit.
func (t Terrain) AvoidanceFor(u model.Unit) *model.CostGrid {
	if u.Flying {
		return t.Grids.AirAvoidance
	}
	return t.Grids.GroundAvoidance
}

// GroundPathable reports whether ground units can stand at p.
func (t Terrain) GroundPathable(p model.Point) bool {
	return t.Grids.Ground.Pathable(p)
}

// UnitSafe checks a member against the grid that matches its movement type.
func (t Terrain) UnitSafe(u model.Unit) bool {
	return t.PathingFor(u).Safe(u.Position)
}

// New is the constructor shape every phase behavior shares.
type New func(env *Env, sq model.Squad, target model.Point) Behavior

// collect drops empty maneuvers so the host only sees real orders.
func collect(ms []*ipc.Maneuver) []ipc.Maneuver {
	out := make([]ipc.Maneuver, 0, len(ms))
	for _, m := range ms {
		if m != nil && !m.Empty() {
			out = append(out, *m)
		}
	}
	return out
}

func moveTo(p model.Point) ipc.Action       { return ipc.MoveTo(p.X, p.Y) }
func attackMoveTo(p model.Point) ipc.Action { return ipc.AttackMoveTo(p.X, p.Y) }

// attackMoveGroup sends every member at the target.
func attackMoveGroup(units []model.Unit, target model.Point) []ipc.Maneuver {
	ms := make([]*ipc.Maneuver, 0, len(units))
	for _, u := range units {
		ms = append(ms, ipc.NewManeuver(u.ID).Add(attackMoveTo(target)))
	}
	return collect(ms)
}
