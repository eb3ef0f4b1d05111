package agent

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/nstehr/vimy/vimy-squads/combat"
	"github.com/nstehr/vimy/vimy-squads/history"
	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rounds  []history.Round
	tallies int
}

func (s *fakeStore) Record(_ context.Context, r history.Round) error {
	s.rounds = append(s.rounds, r)
	return nil
}

func (s *fakeStore) Tally(context.Context) (map[string]int, error) {
	s.tallies++
	out := make(map[string]int)
	for _, r := range s.rounds {
		out[r.Outcome]++
	}
	return out, nil
}

type fakeCounter struct{ outcomes []string }

func (c *fakeCounter) RoundFinished(outcome string) { c.outcomes = append(c.outcomes, outcome) }

type fakeTicks struct{ n int }

func (f *fakeTicks) ObserveTick(time.Duration) { f.n++ }

func unit(id int, at model.Point) model.Unit {
	return model.Unit{ID: id, Type: "stalker", CanAttack: true, GroundRange: 6, Position: at, Health: 100, DPS: 10, HealthFraction: 1, ShieldFraction: 1}
}

func gameState(tick int, own, enemies int) model.GameState {
	gs := model.GameState{Tick: tick, Time: float64(tick) / 10}
	if own > 0 {
		sq := model.Squad{ID: "s1", Position: model.Point{X: 20, Y: 20}}
		for i := 0; i < own; i++ {
			sq.Units = append(sq.Units, unit(i+1, model.Point{X: 20, Y: 20 + float64(i)}))
		}
		gs.Squads = []model.Squad{sq}
	}
	for i := 0; i < enemies; i++ {
		gs.Enemies = append(gs.Enemies, unit(100+i, model.Point{X: 80, Y: 80}))
	}
	return gs
}

func newAgent(t *testing.T, opts ...Option) *Agent {
	t.Helper()
	oracle := combat.OracleFunc(func(own, enemy []model.Unit) (combat.EngagementResult, error) {
		return combat.Tie, nil
	})
	ctrl, err := combat.NewController(combat.DefaultConfig(), oracle)
	require.NoError(t, err)
	return New(context.Background(), nil, ctrl, opts...)
}

func envelope(t *testing.T, msgType string, data any) ipc.Envelope {
	t.Helper()
	env, err := ipc.NewEnvelope(msgType, data)
	require.NoError(t, err)
	return env
}

func TestHandleHello(t *testing.T) {
	a := newAgent(t)
	resp, err := a.HandleHello(envelope(t, ipc.TypeHello, ipc.HelloMessage{Player: "p1", Role: "army", MapWidth: 128, MapHeight: 96}))
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, ipc.TypeAck, resp.Type)
	assert.Equal(t, "p1", a.Player)
	assert.Equal(t, 128, a.MapWidth)
	assert.Equal(t, 96, a.MapHeight)
}

func TestHandleHelloBadJSON(t *testing.T) {
	a := newAgent(t)
	_, err := a.HandleHello(ipc.Envelope{Type: ipc.TypeHello, Data: json.RawMessage(`"nope"`)})
	assert.ErrorContains(t, err, "unmarshal hello")
}

func TestHandleGameState(t *testing.T) {
	ticks := &fakeTicks{}
	a := newAgent(t, WithTickObserver(ticks))

	resp, err := a.HandleGameState(envelope(t, ipc.TypeGameState, gameState(42, 3, 0)))
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, ipc.TypeIntents, resp.Type)

	var intents ipc.IntentsMessage
	require.NoError(t, json.Unmarshal(resp.Data, &intents))
	assert.Equal(t, 42, intents.Tick)
	assert.NotEmpty(t, intents.Maneuvers)
	assert.Equal(t, 1, ticks.n)
}

func TestHandleGameStateEmpty(t *testing.T) {
	a := newAgent(t)
	resp, err := a.HandleGameState(envelope(t, ipc.TypeGameState, model.GameState{Tick: 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"tick":1,"maneuvers":[]}`, string(resp.Data))
}

func TestHandleGameStateBadJSON(t *testing.T) {
	a := newAgent(t)
	_, err := a.HandleGameState(ipc.Envelope{Type: ipc.TypeGameState, Data: json.RawMessage(`[1,2]`)})
	assert.ErrorContains(t, err, "unmarshal GameState")
}

func TestAgentRecordsRounds(t *testing.T) {
	store := &fakeStore{}
	counter := &fakeCounter{}
	a := newAgent(t, WithRounds(store, counter))

	for i, gs := range []model.GameState{
		gameState(1, 3, 0),
		gameState(2, 3, 2),
		gameState(3, 2, 1),
		gameState(4, 2, 0),
	} {
		_, err := a.HandleGameState(envelope(t, ipc.TypeGameState, gs))
		require.NoError(t, err, "tick %d", i)
	}

	require.Len(t, store.rounds, 1)
	r := store.rounds[0]
	assert.Equal(t, OutcomeWon, r.Outcome)
	assert.Equal(t, 3, r.OwnStart)
	assert.Equal(t, 2, r.OwnLeft)
	assert.Equal(t, []string{OutcomeWon}, counter.outcomes)
	assert.Equal(t, 1, store.tallies, "score is reported after each stored round")
}

func TestSessionOverPipe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, client := net.Pipe()
	conn := ipc.NewConnection(server, nil)
	a := newAgent(t)
	a.Conn = conn
	conn.RegisterHandler(ipc.TypeHello, a.HandleHello)
	conn.RegisterHandler(ipc.TypeGameState, a.HandleGameState)

	done := make(chan error, 1)
	go func() { done <- conn.ReadLoop(ctx) }()

	require.NoError(t, ipc.WriteEnvelope(client, envelope(t, ipc.TypeHello, ipc.HelloMessage{Player: "p1"})))
	ack, err := ipc.ReadEnvelope(client)
	require.NoError(t, err)
	assert.Equal(t, ipc.TypeAck, ack.Type)

	require.NoError(t, ipc.WriteEnvelope(client, envelope(t, ipc.TypeGameState, gameState(7, 2, 0))))
	intents, err := ipc.ReadEnvelope(client)
	require.NoError(t, err)
	assert.Equal(t, ipc.TypeIntents, intents.Type)

	client.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not stop after hangup")
	}
}
