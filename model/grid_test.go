package model

import "testing"

func testGrid() *CostGrid {
	return &CostGrid{
		Cols:  4,
		Rows:  4,
		CellW: 2,
		CellH: 2,
		Cells: []float32{
			1, 1, 0, 0,
			1, 5, 0, 0,
			1, 1, 1, 3,
			0, 1, 1, 1,
		},
	}
}

func TestCostGridAt(t *testing.T) {
	grid := testGrid()

	tests := []struct {
		col, row int
		want     float32
	}{
		{0, 0, 1},
		{2, 0, 0},
		{1, 1, 5},
		{3, 2, 3},
		{0, 3, 0},
	}
	for _, tc := range tests {
		got := grid.At(tc.col, tc.row)
		if got != tc.want {
			t.Errorf("At(%d, %d) = %v, want %v", tc.col, tc.row, got, tc.want)
		}
	}
}

func TestCostGridAtOutOfBounds(t *testing.T) {
	grid := testGrid()

	// Out-of-bounds is never a place to send units.
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if got := grid.At(c[0], c[1]); got != Unpathable {
			t.Errorf("At(%d, %d) = %v, want Unpathable", c[0], c[1], got)
		}
	}
}

func TestCostGridAtPos(t *testing.T) {
	grid := testGrid()

	tests := []struct {
		p    Point
		want float32
	}{
		{Point{0, 0}, 1},
		{Point{1.9, 1.9}, 1}, // col=0, row=0 (just inside)
		{Point{2.5, 2.5}, 5}, // col=1, row=1
		{Point{4.1, 0}, 0},   // col=2, row=0
		{Point{7.5, 5.0}, 3}, // col=3, row=2
	}
	for _, tc := range tests {
		got := grid.AtPos(tc.p)
		if got != tc.want {
			t.Errorf("AtPos(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestCostGridZeroCellSize(t *testing.T) {
	grid := &CostGrid{Cols: 2, Rows: 2, Cells: []float32{1, 0, 0, 1}}
	// Zero cell size falls back to one map unit per cell.
	if got := grid.AtPos(Point{1.5, 1.5}); got != 1 {
		t.Errorf("AtPos with zero cells = %v, want 1", got)
	}
}

func TestCostGridPathableAndSafe(t *testing.T) {
	grid := testGrid()

	if !grid.Pathable(Point{2.5, 2.5}) {
		t.Error("threatened cell should still be pathable")
	}
	if grid.Safe(Point{2.5, 2.5}) {
		t.Error("threatened cell should not be safe")
	}
	if grid.Pathable(Point{5, 1}) {
		t.Error("zero-cost cell should not be pathable")
	}
	if !grid.Safe(Point{1, 1}) {
		t.Error("baseline cell should be safe")
	}

	var missing *CostGrid
	if !missing.Pathable(Point{}) || !missing.Safe(Point{}) {
		t.Error("nil grid should treat every position as pathable and safe")
	}
}

func TestCostGridClosestSafe(t *testing.T) {
	grid := testGrid()

	got, ok := grid.ClosestSafe(Point{2.5, 2.5}, 3)
	if !ok {
		t.Fatal("expected a safe spot within radius")
	}
	if !grid.Safe(got) {
		t.Errorf("ClosestSafe returned unsafe %v", got)
	}
	if d := got.Distance(Point{2.5, 2.5}); d > 2.01 {
		t.Errorf("ClosestSafe returned %v, %.2f away; want an adjacent cell", got, d)
	}

	if _, ok := grid.ClosestSafe(Point{2.5, 2.5}, 0.1); ok {
		t.Error("expected no safe spot within a tiny radius")
	}
}

func TestPointTowards(t *testing.T) {
	p := Point{0, 0}
	got := p.Towards(Point{10, 0}, 2)
	if got != (Point{2, 0}) {
		t.Errorf("Towards = %v, want (2,0)", got)
	}
	got = p.Towards(Point{10, 0}, -3)
	if got != (Point{-3, 0}) {
		t.Errorf("Towards negative = %v, want (-3,0)", got)
	}
	if got := p.Towards(p, 5); got != p {
		t.Errorf("Towards self = %v, want unchanged", got)
	}
}

func TestCentroidAndClosest(t *testing.T) {
	units := []Unit{
		{ID: 1, Position: Point{0, 0}},
		{ID: 2, Position: Point{4, 0}},
		{ID: 3, Position: Point{2, 6}},
	}
	c, ok := Centroid(units)
	if !ok || c != (Point{2, 2}) {
		t.Errorf("Centroid = %v, %v; want (2,2), true", c, ok)
	}
	if _, ok := Centroid(nil); ok {
		t.Error("Centroid of nothing should report false")
	}

	u, ok := ClosestTo(Point{3.5, 0}, units)
	if !ok || u.ID != 2 {
		t.Errorf("ClosestTo = %d, want 2", u.ID)
	}
}
