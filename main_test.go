package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/nstehr/vimy/vimy-squads/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintRounds(t *testing.T) {
	ctx := context.Background()
	store, err := history.Open(filepath.Join(t.TempDir(), "rounds.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(ctx, history.Round{ID: "r1", Outcome: "won", StartedAt: 10, EndedAt: 42.5, OwnStart: 8, OwnLeft: 5, EnemyStart: 6, Transitions: 4}))
	require.NoError(t, store.Record(ctx, history.Round{ID: "r2", Outcome: "lost", StartedAt: 50, EndedAt: 60, OwnStart: 3, EnemyStart: 9, EnemyLeft: 2}))

	var buf bytes.Buffer
	require.NoError(t, printRounds(ctx, &buf, store, 10))
	out := buf.String()

	assert.Contains(t, out, "ROUND")
	assert.Contains(t, out, "r1")
	assert.Contains(t, out, "32.5s")
	assert.Contains(t, out, "5/8")
	assert.Contains(t, out, "score: won 1, lost 1, tie 0")
}
