package agent

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nstehr/vimy/vimy-squads/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ calls, tallies int }

func (s *failingStore) Record(context.Context, history.Round) error {
	s.calls++
	return errors.New("disk full")
}

func (s *failingStore) Tally(context.Context) (map[string]int, error) {
	s.tallies++
	return nil, errors.New("disk full")
}

func TestRoundOutcomes(t *testing.T) {
	tests := []struct {
		name  string
		ticks []roundSnapshot
		want  string
	}{
		{"won", []roundSnapshot{{own: 5, enemies: 4}, {own: 3, enemies: 0}}, OutcomeWon},
		{"lost", []roundSnapshot{{own: 5, enemies: 4}, {own: 0, enemies: 2}}, OutcomeLost},
		{"tie", []roundSnapshot{{own: 5, enemies: 4}, {own: 0, enemies: 0}}, OutcomeTie},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var r rounds
			var got history.Round
			var ended bool
			for _, s := range tc.ticks {
				got, ended = r.observe(context.Background(), s)
			}
			require.True(t, ended)
			assert.Equal(t, tc.want, got.Outcome)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestRoundLifecycle(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	r := rounds{store: store}

	_, ended := r.observe(ctx, roundSnapshot{time: 1, own: 4})
	assert.False(t, ended, "no enemies yet, no round")
	assert.False(t, r.active)

	_, ended = r.observe(ctx, roundSnapshot{time: 2, own: 4, enemies: 3, transitions: 10})
	assert.False(t, ended)
	assert.True(t, r.active)
	first := r.current.ID

	// Reinforcements raise the starting strength.
	r.observe(ctx, roundSnapshot{time: 3, own: 6, enemies: 5, transitions: 12})

	got, ended := r.observe(ctx, roundSnapshot{time: 9, own: 2, enemies: 0, transitions: 15})
	require.True(t, ended)
	assert.Equal(t, first, got.ID)
	assert.Equal(t, 2.0, got.StartedAt)
	assert.Equal(t, 9.0, got.EndedAt)
	assert.Equal(t, 6, got.OwnStart)
	assert.Equal(t, 5, got.EnemyStart)
	assert.Equal(t, 5, got.Transitions)
	require.Len(t, store.rounds, 1)

	t.Run("next round gets a new id", func(t *testing.T) {
		r.observe(ctx, roundSnapshot{time: 20, own: 2, enemies: 1})
		assert.True(t, r.active)
		assert.NotEqual(t, first, r.current.ID)
	})
}

func TestRoundStoreFailureIsLogged(t *testing.T) {
	store := &failingStore{}
	counter := &fakeCounter{}
	r := rounds{store: store, counter: counter}
	r.observe(context.Background(), roundSnapshot{own: 1, enemies: 1})
	_, ended := r.observe(context.Background(), roundSnapshot{own: 0, enemies: 1})
	assert.True(t, ended)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 0, store.tallies, "no score after a failed write")
	assert.Equal(t, []string{OutcomeLost}, counter.outcomes)
}

func TestRoundsKeepScoreInHistory(t *testing.T) {
	ctx := context.Background()
	store, err := history.Open(filepath.Join(t.TempDir(), "rounds.db"))
	require.NoError(t, err)
	defer store.Close()

	r := rounds{store: store}
	for _, end := range []roundSnapshot{{own: 2}, {enemies: 2}, {own: 1}} {
		r.observe(ctx, roundSnapshot{own: 3, enemies: 3})
		_, ended := r.observe(ctx, end)
		require.True(t, ended)
	}

	tally, err := store.Tally(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{OutcomeWon: 2, OutcomeLost: 1}, tally)
}
