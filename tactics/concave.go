package tactics

import (
	"github.com/nstehr/vimy/vimy-squads/model"
)

const (
	coreSlotDepth   = 0.5
	fodderSlotDepth = 2.2
	concaveStepIn   = 0.2
	concaveSpread   = 0.35
	concaveBow      = 0.6
)

// Concave lays n slots on a shallow arc facing target. The arc is the
// quadratic through two flank points and a bowed midpoint, sampled at even
// steps of normalized chord length. The bow points away from the side the
// target lies on.
func Concave(n int, anchor, target model.Point) []model.Point {
	if n <= 0 {
		return nil
	}
	from := anchor.Towards(target, concaveStepIn)
	spread := float64(n) * concaveSpread
	depth := spread * concaveBow
	if target.X >= from.X {
		depth = -depth
	}

	ctrl := [3]model.Point{
		{X: from.X, Y: from.Y - spread},
		{X: from.X + depth, Y: from.Y},
		{X: from.X, Y: from.Y + spread},
	}
	d1 := ctrl[0].Distance(ctrl[1])
	total := d1 + ctrl[1].Distance(ctrl[2])
	knots := [3]float64{0, d1 / total, 1}

	slots := make([]model.Point, n)
	for i := range slots {
		var t float64
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		slots[i] = quadratic(knots, ctrl, t)
	}
	return slots
}

// quadratic evaluates the Lagrange polynomial through (knots[i], pts[i]).
func quadratic(knots [3]float64, pts [3]model.Point, t float64) model.Point {
	var out model.Point
	for i := 0; i < 3; i++ {
		w := 1.0
		for j := 0; j < 3; j++ {
			if i == j {
				continue
			}
			w *= (t - knots[j]) / (knots[i] - knots[j])
		}
		out = out.Add(pts[i].Scale(w))
	}
	return out
}

// concaveSlots assigns each unit, in order, a slot on an arc anchored depth
// units from the squad toward target.
func concaveSlots(units []model.Unit, squadPos, target model.Point, depth float64) map[int]model.Point {
	slots := make(map[int]model.Point, len(units))
	if len(units) == 0 {
		return slots
	}
	points := Concave(len(units), squadPos.Towards(target, depth), target)
	for i, u := range units {
		slots[u.ID] = points[i]
	}
	return slots
}
