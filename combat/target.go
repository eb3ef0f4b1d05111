package combat

import "github.com/nstehr/vimy/vimy-squads/model"

// massRadius is the neighbourhood used to find the heart of the enemy army.
const massRadius = 14.0

// AttackTarget picks where the army heads this tick: the host's target when
// given, else the densest enemy unit, else the enemy structure nearest the
// map centre, else the map centre itself.
func AttackTarget(gs model.GameState) model.Point {
	if gs.Target != nil {
		return *gs.Target
	}
	if p, ok := centerOfMass(gs.Enemies, massRadius); ok {
		return p
	}
	if s, ok := model.ClosestTo(gs.MapCenter(), gs.EnemyStructures); ok {
		return s.Position
	}
	return gs.MapCenter()
}

// centerOfMass returns the position of the unit with the most other units
// within radius. Ties keep the earlier unit.
func centerOfMass(units []model.Unit, radius float64) (model.Point, bool) {
	if len(units) == 0 {
		return model.Point{}, false
	}
	r2 := radius * radius
	best, bestCount := 0, -1
	for i, u := range units {
		n := 0
		for j, o := range units {
			if i != j && u.Position.DistanceSq(o.Position) <= r2 {
				n++
			}
		}
		if n > bestCount {
			best, bestCount = i, n
		}
	}
	return units[best].Position, true
}

// stutterForward reports whether the squad's ground units are outranged by
// the enemy ground units around it.
func stutterForward(own, enemy []model.Unit) bool {
	return avgGroundRange(own) < avgGroundRange(enemy)
}

func avgGroundRange(units []model.Unit) float64 {
	var sum float64
	n := 0
	for _, u := range units {
		if u.Flying {
			continue
		}
		sum += u.GroundRange
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
