package model

import "math"

// Point is a position in map units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(o Point) Point        { return Point{X: p.X + o.X, Y: p.Y + o.Y} }
func (p Point) Sub(o Point) Point        { return Point{X: p.X - o.X, Y: p.Y - o.Y} }
func (p Point) Scale(f float64) Point    { return Point{X: p.X * f, Y: p.Y * f} }
func (p Point) Distance(o Point) float64 { return math.Sqrt(p.DistanceSq(o)) }

func (p Point) DistanceSq(o Point) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return dx*dx + dy*dy
}

// Towards moves distance units from p in the direction of o. A negative
// distance moves away from o. Returns p unchanged when p and o coincide.
func (p Point) Towards(o Point, distance float64) Point {
	d := p.Distance(o)
	if d == 0 {
		return p
	}
	return p.Add(o.Sub(p).Scale(distance / d))
}
