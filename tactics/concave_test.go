package tactics

import (
	"testing"

	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcaveShape(t *testing.T) {
	anchor := model.Point{X: 50, Y: 50}

	t.Run("single slot sits on a flank", func(t *testing.T) {
		slots := Concave(1, anchor, model.Point{X: 60, Y: 50})
		require.Len(t, slots, 1)
		assert.InDelta(t, 50.2, slots[0].X, 1e-9)
		assert.InDelta(t, 50-0.35, slots[0].Y, 1e-9)
	})

	t.Run("odd count puts the middle slot on the bow", func(t *testing.T) {
		slots := Concave(3, anchor, model.Point{X: 60, Y: 50})
		require.Len(t, slots, 3)
		spread := 3 * 0.35
		assert.InDelta(t, 50.2, slots[0].X, 1e-9)
		assert.InDelta(t, 50-spread, slots[0].Y, 1e-9)
		assert.InDelta(t, 50.2-spread*0.6, slots[1].X, 1e-9)
		assert.InDelta(t, 50, slots[1].Y, 1e-9)
		assert.InDelta(t, 50+spread, slots[2].Y, 1e-9)
	})

	t.Run("bow flips with the target side", func(t *testing.T) {
		slots := Concave(3, anchor, model.Point{X: 40, Y: 50})
		assert.Greater(t, slots[1].X, slots[0].X)

		slots = Concave(3, anchor, model.Point{X: 60, Y: 50})
		assert.Less(t, slots[1].X, slots[0].X)
	})

	t.Run("slots are ordered along the arc", func(t *testing.T) {
		slots := Concave(8, anchor, model.Point{X: 80, Y: 50})
		for i := 1; i < len(slots); i++ {
			assert.Greater(t, slots[i].Y, slots[i-1].Y)
		}
	})

	t.Run("no units", func(t *testing.T) {
		assert.Nil(t, Concave(0, anchor, model.Point{X: 80, Y: 50}))
	})
}

func TestFodderUnits(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  []int
	}{
		{"mixed tiers", []string{"zergling", "roach", "zergling", "roach"}, []int{1, 3}},
		{"single tier", []string{"zergling", "zergling"}, nil},
		{"unknown types ignored", []string{"marine", "thor", "marauder"}, []int{1}},
		{"only unknown", []string{"thor", "battlecruiser"}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			units := make([]model.Unit, len(tc.types))
			for i, typ := range tc.types {
				units[i] = model.Unit{ID: i + 1, Type: typ}
			}
			got := FodderUnits(units)
			assert.Len(t, got, len(tc.want))
			for _, id := range tc.want {
				assert.True(t, got[id], "unit %d should be fodder", id)
			}
		})
	}
}

func TestFrontlineAdjuster(t *testing.T) {
	units := []model.Unit{
		{ID: 1, Position: model.Point{X: 0, Y: 0}},
		{ID: 2, Position: model.Point{X: 0, Y: 2}},
		{ID: 3, Position: model.Point{X: -1, Y: 1}},
		{ID: 4, Position: model.Point{X: 3, Y: 1}},
	}
	fodder := map[int]bool{3: true, 4: true}

	got := FrontlineAdjuster{}.AdjustMovingFormation(units, model.Point{X: 10, Y: 1}, fodder, 1.9, 0.25)

	require.Contains(t, got, 3)
	assert.InDelta(t, 1.9, got[3].X, 1e-9)
	assert.InDelta(t, 1, got[3].Y, 1e-9)
	assert.NotContains(t, got, 4, "fodder already in front stays with the group")
	assert.NotContains(t, got, 1)
}
