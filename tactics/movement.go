package tactics

import (
	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/nstehr/vimy/vimy-squads/model"
)

const (
	fodderLead      = 1.9
	fodderTolerance = 0.25
)

// Movement walks the squad to target and lets the formation adjuster push
// fodder to the front.
type Movement struct {
	env *Env
}

func NewMovement(env *Env, sq model.Squad, target model.Point) Behavior {
	return &Movement{env: env}
}

func (b *Movement) Execute(sq model.Squad, enemies []model.Unit, target model.Point, adv Advisories) []ipc.Maneuver {
	fodder := FodderUnits(sq.Units)
	var nudged map[int]model.Point
	if len(fodder) > 0 && b.env.Formation != nil {
		nudged = b.env.Formation.AdjustMovingFormation(sq.Units, target, fodder, fodderLead, fodderTolerance)
	}

	ms := make([]*ipc.Maneuver, 0, len(sq.Units))
	for _, u := range sq.Units {
		if p, ok := nudged[u.ID]; ok {
			ms = append(ms, ipc.NewManeuver(u.ID).Add(moveTo(p)))
			continue
		}
		ms = append(ms, ipc.NewManeuver(u.ID).Add(moveTo(target)))
	}
	return collect(ms)
}
