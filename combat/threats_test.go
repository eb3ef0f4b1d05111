package combat

import (
	"testing"

	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idsOf(units []model.Unit) []int {
	out := make([]int, len(units))
	for i, u := range units {
		out[i] = u.ID
	}
	return out
}

func TestThreatSampler(t *testing.T) {
	s := NewThreatSampler(14, 18.5, []string{"Observer", "larva"})
	origin := model.Point{X: 0, Y: 0}

	t.Run("radii and ignore list", func(t *testing.T) {
		idx := EnemyIndex{
			{ID: 1, Type: "marine", Position: model.Point{X: 3, Y: 0}, GroundRange: 5},
			{ID: 2, Type: "marine", Position: model.Point{X: 13, Y: 0}, GroundRange: 5},
			{ID: 3, Type: "marine", Position: model.Point{X: 16, Y: 0}, GroundRange: 5},
			{ID: 4, Type: "observer", Position: model.Point{X: 1, Y: 0}},
			{ID: 5, Type: "marine", Position: model.Point{X: 30, Y: 0}},
		}
		th := s.Sample(idx, origin)
		assert.ElementsMatch(t, []int{1, 2}, idsOf(th.Close))
		// 4 + 5*1.5 = 11.5
		assert.ElementsMatch(t, []int{1}, idsOf(th.SuperClose))
		assert.ElementsMatch(t, []int{1, 2, 3}, idsOf(th.Far))
	})

	t.Run("long range stretches super-close", func(t *testing.T) {
		idx := EnemyIndex{
			{ID: 1, Type: "siege_tank", Position: model.Point{X: 12, Y: 0}, GroundRange: 13},
		}
		th := s.Sample(idx, origin)
		require.Len(t, th.SuperClose, 1)
	})

	t.Run("no enemies", func(t *testing.T) {
		th := s.Sample(EnemyIndex{}, origin)
		assert.Empty(t, th.Close)
		assert.Empty(t, th.SuperClose)
		assert.Empty(t, th.Far)
	})
}

func TestAttackTarget(t *testing.T) {
	given := model.Point{X: 1, Y: 2}
	tests := []struct {
		name string
		gs   model.GameState
		want model.Point
	}{
		{"host target wins", model.GameState{Target: &given, Enemies: []model.Unit{{Position: model.Point{X: 9, Y: 9}}}}, given},
		{"densest enemy", model.GameState{Enemies: []model.Unit{
			{ID: 1, Position: model.Point{X: 90, Y: 90}},
			{ID: 2, Position: model.Point{X: 10, Y: 10}},
			{ID: 3, Position: model.Point{X: 12, Y: 10}},
			{ID: 4, Position: model.Point{X: 11, Y: 12}},
		}}, model.Point{X: 10, Y: 10}},
		{"structure nearest centre", model.GameState{MapWidth: 100, MapHeight: 100, EnemyStructures: []model.Unit{
			{Position: model.Point{X: 90, Y: 90}},
			{Position: model.Point{X: 40, Y: 45}},
		}}, model.Point{X: 40, Y: 45}},
		{"map centre", model.GameState{MapWidth: 100, MapHeight: 60}, model.Point{X: 50, Y: 30}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AttackTarget(tc.gs))
		})
	}
}

func TestStutterForward(t *testing.T) {
	short := []model.Unit{{GroundRange: 1}, {GroundRange: 1}, {GroundRange: 20, Flying: true}}
	long := []model.Unit{{GroundRange: 6}}
	assert.True(t, stutterForward(short, long))
	assert.False(t, stutterForward(long, short))
	assert.False(t, stutterForward(long, nil))
}

func TestBaneAssigner(t *testing.T) {
	b := NewBaneAssigner()
	own := []model.Unit{
		{ID: 1, Type: "marine", Light: true, Position: model.Point{X: 0, Y: 0}},
		{ID: 2, Type: "marine", Light: true, Position: model.Point{X: 10, Y: 0}},
		{ID: 3, Type: "marauder", Position: model.Point{X: 11, Y: 0}},
		{ID: 4, Type: "baneling", Light: true, Position: model.Point{X: 12, Y: 0}},
	}
	banes := []model.Unit{
		{ID: 100, Type: "baneling", Position: model.Point{X: 12, Y: 1}},
		{ID: 101, Type: "baneling", Position: model.Point{X: 13, Y: 1}},
		{ID: 102, Type: "baneling", Position: model.Point{X: 14, Y: 1}},
	}

	got := b.Update(own, banes)
	require.Len(t, got, 2, "only two light non-baneling units exist")
	assert.Equal(t, 100, got[2].ID, "closest free unit takes the first bane")
	assert.Equal(t, 101, got[1].ID)

	t.Run("assignments are stable", func(t *testing.T) {
		again := b.Update(own, banes)
		assert.Equal(t, got, again)
	})

	t.Run("dead bane frees its unit", func(t *testing.T) {
		again := b.Update(own, banes[1:])
		assert.Equal(t, 101, again[1].ID)
		assert.Equal(t, 102, again[2].ID)
	})

	t.Run("dead unit drops its assignment", func(t *testing.T) {
		again := b.Update(own[1:], banes[1:])
		assert.NotContains(t, again, 1)
		require.Len(t, again, 1)
		assert.Equal(t, 102, again[2].ID, "unit 2 keeps its own bane")
	})
}
