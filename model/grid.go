package model

import "math"

// Cost values used by the host when it builds a CostGrid. Anything above
// SafeCost carries influence from enemy weapons or area effects.
const (
	Unpathable float32 = 0
	SafeCost   float32 = 1
)

// CostGrid is a row-major navigation cost grid. Each cell covers
// CellW x CellH map units.
type CostGrid struct {
	Cols  int       `json:"cols"`
	Rows  int       `json:"rows"`
	CellW float64   `json:"cellW"`
	CellH float64   `json:"cellH"`
	Cells []float32 `json:"cells"` // row-major: Cells[row*Cols + col]
}

// At returns the cost at grid coordinates (col, row).
// Returns Unpathable for out-of-bounds coordinates.
func (g *CostGrid) At(col, row int) float32 {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows || row*g.Cols+col >= len(g.Cells) {
		return Unpathable
	}
	return g.Cells[row*g.Cols+col]
}

// cell converts a map position into grid coordinates.
func (g *CostGrid) cell(p Point) (int, int) {
	cw, ch := g.CellW, g.CellH
	if cw <= 0 {
		cw = 1
	}
	if ch <= 0 {
		ch = 1
	}
	return int(math.Floor(p.X / cw)), int(math.Floor(p.Y / ch))
}

// AtPos returns the cost of the cell containing p.
func (g *CostGrid) AtPos(p Point) float32 {
	col, row := g.cell(p)
	return g.At(col, row)
}

// CellCenter returns the map position of the center of cell (col, row).
func (g *CostGrid) CellCenter(col, row int) Point {
	cw, ch := g.CellW, g.CellH
	if cw <= 0 {
		cw = 1
	}
	if ch <= 0 {
		ch = 1
	}
	return Point{X: (float64(col) + 0.5) * cw, Y: (float64(row) + 0.5) * ch}
}

// Pathable reports whether units can stand at p. A nil grid means the host
// sent no pathing information, so nothing is ruled out.
func (g *CostGrid) Pathable(p Point) bool {
	if g == nil {
		return true
	}
	return g.AtPos(p) >= SafeCost
}

// Safe reports whether p is pathable and free of enemy influence.
func (g *CostGrid) Safe(p Point) bool {
	if g == nil {
		return true
	}
	return g.AtPos(p) == SafeCost
}

// ClosestSafe searches cells within radius of from and returns the center of
// the nearest safe one. ok is false when nothing within radius is safe.
func (g *CostGrid) ClosestSafe(from Point, radius float64) (Point, bool) {
	if g == nil {
		return from, true
	}
	if g.Safe(from) {
		return from, true
	}
	col, row := g.cell(from)
	cw, ch := g.CellW, g.CellH
	if cw <= 0 {
		cw = 1
	}
	if ch <= 0 {
		ch = 1
	}
	rc := int(math.Ceil(radius / cw))
	rr := int(math.Ceil(radius / ch))
	radiusSq := radius * radius

	var best Point
	bestDist := math.MaxFloat64
	found := false
	for r := row - rr; r <= row+rr; r++ {
		for c := col - rc; c <= col+rc; c++ {
			if g.At(c, r) != SafeCost {
				continue
			}
			center := g.CellCenter(c, r)
			d := from.DistanceSq(center)
			if d > radiusSq || d >= bestDist {
				continue
			}
			best, bestDist, found = center, d, true
		}
	}
	if !found {
		return from, false
	}
	return best, true
}
