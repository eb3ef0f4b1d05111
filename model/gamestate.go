package model

// GameState is one tick of the host simulation as seen by the sidecar.
// Squads are clustered by the host; identity persistence for the same
// physical cluster across ticks is the host's contract.
type GameState struct {
	Tick            int     `json:"tick"`
	Time            float64 `json:"time"` // game seconds, drives every dwell timer
	Squads          []Squad `json:"squads"`
	Enemies         []Unit  `json:"enemies"`
	EnemyStructures []Unit  `json:"enemyStructures"`
	Target          *Point  `json:"target,omitempty"`
	Grids           Grids   `json:"grids"`
	MapWidth        int     `json:"mapWidth"`
	MapHeight       int     `json:"mapHeight"`
}

// Grids are the host's navigation cost grids. They are passed through to the
// behaviors unmodified.
type Grids struct {
	Ground          *CostGrid `json:"ground,omitempty"`
	Air             *CostGrid `json:"air,omitempty"`
	GroundAvoidance *CostGrid `json:"groundAvoidance,omitempty"`
	AirAvoidance    *CostGrid `json:"airAvoidance,omitempty"`
}

// MapCenter is the fallback destination when nothing else is known.
func (gs GameState) MapCenter() Point {
	return Point{X: float64(gs.MapWidth) / 2, Y: float64(gs.MapHeight) / 2}
}

// OwnUnitCount counts every unit across all squads.
func (gs GameState) OwnUnitCount() int {
	n := 0
	for _, sq := range gs.Squads {
		n += len(sq.Units)
	}
	return n
}

// Squad is a spatially coherent cluster of friendly units.
type Squad struct {
	ID       string `json:"id"`
	Units    []Unit `json:"units"`
	Position Point  `json:"position"`
	Main     bool   `json:"main"`
	Tags     []int  `json:"tags,omitempty"`
}

// Size is the number of members in the squad.
func (s Squad) Size() int { return len(s.Units) }

type Unit struct {
	ID             int      `json:"id"`
	Type           string   `json:"type"`
	Position       Point    `json:"position"`
	Radius         float64  `json:"radius"`
	CanAttack      bool     `json:"canAttack"`
	Flying         bool     `json:"flying"`
	Light          bool     `json:"light"`
	Structure      bool     `json:"structure"`
	Hallucination  bool     `json:"hallucination"`
	GroundRange    float64  `json:"groundRange"`
	AirRange       float64  `json:"airRange"`
	Health         float64  `json:"health"`
	HealthFraction float64  `json:"healthFraction"`
	ShieldFraction float64  `json:"shieldFraction"`
	Energy         float64  `json:"energy"`
	DPS            float64  `json:"dps"`
	WeaponReady    bool     `json:"weaponReady"`
	Abilities      []string `json:"abilities,omitempty"`
	Buffs          []string `json:"buffs,omitempty"`
}

// HasAbility reports whether the ability is currently castable by the unit.
func (u Unit) HasAbility(a string) bool {
	for _, have := range u.Abilities {
		if have == a {
			return true
		}
	}
	return false
}

// HasBuff reports whether the unit is affected by the named buff or debuff.
func (u Unit) HasBuff(b string) bool {
	for _, have := range u.Buffs {
		if have == b {
			return true
		}
	}
	return false
}

// Melee reports whether the unit fights at close range on the ground.
func (u Unit) Melee() bool {
	return u.GroundRange < 3.0
}

// Centroid returns the mean position of units, and false when there are none.
func Centroid(units []Unit) (Point, bool) {
	if len(units) == 0 {
		return Point{}, false
	}
	var sx, sy float64
	for _, u := range units {
		sx += u.Position.X
		sy += u.Position.Y
	}
	n := float64(len(units))
	return Point{X: sx / n, Y: sy / n}, true
}

// ClosestTo returns the unit closest to p. ok is false for an empty slice.
func ClosestTo(p Point, units []Unit) (Unit, bool) {
	if len(units) == 0 {
		return Unit{}, false
	}
	best := units[0]
	bestDist := p.DistanceSq(best.Position)
	for _, u := range units[1:] {
		if d := p.DistanceSq(u.Position); d < bestDist {
			best, bestDist = u, d
		}
	}
	return best, true
}
