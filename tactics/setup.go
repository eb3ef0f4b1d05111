package tactics

import (
	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/nstehr/vimy/vimy-squads/model"
)

// Setup forms the squad into two concave lines, fodder in front. Slots are
// computed once at construction. PreEngaging reuses it.
type Setup struct {
	env   *Env
	slots map[int]model.Point
}

func NewSetup(env *Env, sq model.Squad, target model.Point) Behavior {
	fodder := FodderUnits(sq.Units)
	var core, front []model.Unit
	for _, u := range groundUnits(sq.Units) {
		if fodder[u.ID] {
			front = append(front, u)
		} else {
			core = append(core, u)
		}
	}

	s := &Setup{env: env, slots: make(map[int]model.Point, len(sq.Units))}
	for id, p := range concaveSlots(core, sq.Position, target, coreSlotDepth) {
		s.slots[id] = p
	}
	for id, p := range concaveSlots(front, sq.Position, target, fodderSlotDepth) {
		s.slots[id] = p
	}
	return s
}

// Slot returns the formation slot reserved for a unit.
func (s *Setup) Slot(id int) (model.Point, bool) {
	p, ok := s.slots[id]
	return p, ok
}

// Execute moves flyers onto the centroid and ground units into their slots.
// Ground units with no usable slot hold position.
func (s *Setup) Execute(sq model.Squad, enemies []model.Unit, target model.Point, adv Advisories) []ipc.Maneuver {
	ms := make([]*ipc.Maneuver, 0, len(sq.Units))
	for _, u := range sq.Units {
		m := ipc.NewManeuver(u.ID)
		ms = append(ms, m)
		if u.Flying {
			m.Add(moveTo(sq.Position))
			continue
		}
		feedback(m, u, enemies, 0)
		if slot, ok := s.slots[u.ID]; ok && s.env.Terrain.GroundPathable(slot) {
			m.Add(moveTo(slot))
			continue
		}
		m.Add(moveTo(u.Position))
	}
	return collect(ms)
}
