package combat

import (
	"strings"

	"github.com/nstehr/vimy/vimy-squads/model"
)

// Threats are the enemy units sampled around one squad for one tick.
type Threats struct {
	Close      []model.Unit
	SuperClose []model.Unit
	Far        []model.Unit
}

// ThreatQuery answers spatial queries over enemy units.
type ThreatQuery interface {
	EnemiesInRange(origin model.Point, radius float64) []model.Unit
}

// EnemyIndex is the in-process ThreatQuery over one tick's visible enemies.
type EnemyIndex []model.Unit

func (idx EnemyIndex) EnemiesInRange(origin model.Point, radius float64) []model.Unit {
	var out []model.Unit
	r2 := radius * radius
	for _, e := range idx {
		if origin.DistanceSq(e.Position) <= r2 {
			out = append(out, e)
		}
	}
	return out
}

// ThreatSampler shapes evaluator input: three radii around the squad, each
// filtered through the ignore list.
type ThreatSampler struct {
	CloseRadius float64
	FarRadius   float64
	Ignore      map[string]bool
}

func NewThreatSampler(closeRadius, farRadius float64, ignore []string) ThreatSampler {
	s := ThreatSampler{CloseRadius: closeRadius, FarRadius: farRadius, Ignore: make(map[string]bool, len(ignore))}
	for _, t := range ignore {
		s.Ignore[strings.ToLower(t)] = true
	}
	return s
}

// Sample recomputes all three sets. The super-close radius grows with the
// longest ground range among close threats so a siege line still counts as
// being on top of us.
func (s ThreatSampler) Sample(q ThreatQuery, origin model.Point) Threats {
	var th Threats
	th.Close = s.filter(q.EnemiesInRange(origin, s.CloseRadius))

	maxRange := 0.0
	for _, e := range th.Close {
		if e.GroundRange > maxRange {
			maxRange = e.GroundRange
		}
	}
	th.SuperClose = s.filter(q.EnemiesInRange(origin, 4.0+maxRange*1.5))
	th.Far = s.filter(q.EnemiesInRange(origin, s.FarRadius))
	return th
}

func (s ThreatSampler) filter(units []model.Unit) []model.Unit {
	out := units[:0:0]
	for _, u := range units {
		if s.Ignore[strings.ToLower(u.Type)] {
			continue
		}
		out = append(out, u)
	}
	return out
}
