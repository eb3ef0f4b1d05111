package combat

import (
	"strings"

	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/nstehr/vimy/vimy-squads/tactics"
)

// BaneAssigner dedicates one light unit to each enemy baneling so the rest
// of the army can keep its spacing.
type BaneAssigner struct {
	assigned map[int]int // own unit id -> baneling id
}

func NewBaneAssigner() *BaneAssigner {
	return &BaneAssigner{assigned: make(map[int]int)}
}

func isBaneling(u model.Unit) bool {
	return strings.EqualFold(u.Type, tactics.Baneling)
}

// Update drops assignments whose unit or baneling is gone, hands each
// unclaimed baneling to the closest free light unit, and returns the live
// assignments.
func (b *BaneAssigner) Update(own, enemies []model.Unit) map[int]model.Unit {
	ownByID := make(map[int]model.Unit, len(own))
	for _, u := range own {
		ownByID[u.ID] = u
	}
	banes := make(map[int]model.Unit)
	var order []model.Unit
	for _, e := range enemies {
		if isBaneling(e) {
			banes[e.ID] = e
			order = append(order, e)
		}
	}

	claimed := make(map[int]bool, len(b.assigned))
	for unitID, baneID := range b.assigned {
		_, unitAlive := ownByID[unitID]
		_, baneAlive := banes[baneID]
		if !unitAlive || !baneAlive {
			delete(b.assigned, unitID)
			continue
		}
		claimed[baneID] = true
	}

	for _, bane := range order {
		if claimed[bane.ID] {
			continue
		}
		var pick *model.Unit
		for i, u := range own {
			if isBaneling(u) || !u.Light {
				continue
			}
			if _, busy := b.assigned[u.ID]; busy {
				continue
			}
			if pick == nil || u.Position.DistanceSq(bane.Position) < pick.Position.DistanceSq(bane.Position) {
				pick = &own[i]
			}
		}
		if pick == nil {
			break
		}
		b.assigned[pick.ID] = bane.ID
		claimed[bane.ID] = true
	}

	out := make(map[int]model.Unit, len(b.assigned))
	for unitID, baneID := range b.assigned {
		out[unitID] = banes[baneID]
	}
	return out
}
