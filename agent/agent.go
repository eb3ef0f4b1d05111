package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nstehr/vimy/vimy-squads/combat"
	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/nstehr/vimy/vimy-squads/model"
)

// TickObserver times decisions. *metrics.Recorder satisfies it.
type TickObserver interface {
	ObserveTick(d time.Duration)
}

// Agent owns the squad decisions for a single host session.
type Agent struct {
	Conn      *ipc.Connection
	Player    string
	Role      string
	MapWidth  int
	MapHeight int

	ctx   context.Context
	mu    sync.Mutex
	ctrl  *combat.Controller
	ticks TickObserver
	round rounds
}

type Option func(*Agent)

// WithRounds stores finished rounds and counts their outcomes. Either may be nil.
func WithRounds(store RoundStore, counter RoundCounter) Option {
	return func(a *Agent) {
		a.round.store = store
		a.round.counter = counter
	}
}

func WithTickObserver(t TickObserver) Option {
	return func(a *Agent) { a.ticks = t }
}

// New binds a controller to a connection. ctx bounds every tick and
// history write of the session.
func New(ctx context.Context, conn *ipc.Connection, ctrl *combat.Controller, opts ...Option) *Agent {
	a := &Agent{Conn: conn, ctx: ctx, ctrl: ctrl}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleHello completes the handshake so the host knows the sidecar is ready.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}

	a.mu.Lock()
	a.Player = hello.Player
	a.Role = hello.Role
	a.MapWidth, a.MapHeight = hello.MapWidth, hello.MapHeight
	a.mu.Unlock()
	if a.Conn != nil {
		a.Conn.Player = hello.Player
	}
	slog.Info("player identified", "player", hello.Player, "role", hello.Role, "mapWidth", hello.MapWidth, "mapHeight", hello.MapHeight)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleGameState runs one tick and answers with the intents it produced.
func (a *Agent) HandleGameState(env ipc.Envelope) (*ipc.Envelope, error) {
	var gs model.GameState
	if err := json.Unmarshal(env.Data, &gs); err != nil {
		return nil, fmt.Errorf("unmarshal GameState: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if gs.MapWidth == 0 && gs.MapHeight == 0 {
		gs.MapWidth, gs.MapHeight = a.MapWidth, a.MapHeight
	}

	start := time.Now()
	maneuvers := a.ctrl.Tick(a.ctx, gs)
	elapsed := time.Since(start)
	if a.ticks != nil {
		a.ticks.ObserveTick(elapsed)
	}

	slog.Debug("game state decided",
		"player", a.Player,
		"tick", gs.Tick,
		"squads", len(gs.Squads),
		"enemies", len(gs.Enemies),
		"maneuvers", len(maneuvers),
		"elapsed", elapsed,
	)

	a.round.observe(a.ctx, snapshotOf(gs, a.ctrl.Transitions()))

	if maneuvers == nil {
		maneuvers = []ipc.Maneuver{}
	}
	out, err := ipc.NewEnvelope(ipc.TypeIntents, ipc.IntentsMessage{Tick: gs.Tick, Maneuvers: maneuvers})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
