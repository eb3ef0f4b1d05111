package tactics

import (
	"math"

	"github.com/nstehr/vimy/vimy-squads/model"
)

// FormationAdjuster reshapes a moving group so fodder leads. It returns the
// fodder units that need an explicit move and where to; fodder absent from
// the result simply follows the group.
type FormationAdjuster interface {
	AdjustMovingFormation(units []model.Unit, target model.Point, fodder map[int]bool, fodderDistance, tolerance float64) map[int]model.Point
}

// FrontlineAdjuster keeps fodder fodderDistance ahead of the core's leading
// edge, measured along the line from the core centroid to target.
type FrontlineAdjuster struct{}

func (FrontlineAdjuster) AdjustMovingFormation(units []model.Unit, target model.Point, fodder map[int]bool, fodderDistance, tolerance float64) map[int]model.Point {
	out := make(map[int]model.Point)
	var core []model.Unit
	for _, u := range units {
		if !fodder[u.ID] {
			core = append(core, u)
		}
	}
	center, ok := model.Centroid(core)
	if !ok {
		return out
	}
	dist := center.Distance(target)
	if dist == 0 {
		return out
	}
	dir := target.Sub(center).Scale(1 / dist)
	along := func(p model.Point) float64 {
		d := p.Sub(center)
		return d.X*dir.X + d.Y*dir.Y
	}

	front := math.Inf(-1)
	for _, u := range core {
		front = math.Max(front, along(u.Position))
	}
	want := front + fodderDistance
	for _, u := range units {
		if !fodder[u.ID] {
			continue
		}
		if p := along(u.Position); p < want-tolerance {
			out[u.ID] = u.Position.Add(dir.Scale(want - p))
		}
	}
	return out
}
