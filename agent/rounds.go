package agent

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nstehr/vimy/vimy-squads/history"
	"github.com/nstehr/vimy/vimy-squads/model"
)

const (
	OutcomeWon  = "won"
	OutcomeLost = "lost"
	OutcomeTie  = "tie"
)

// RoundStore persists finished rounds and keeps the running score.
// *history.Store satisfies it.
type RoundStore interface {
	Record(ctx context.Context, r history.Round) error
	Tally(ctx context.Context) (map[string]int, error)
}

// RoundCounter counts finished rounds. *metrics.Recorder satisfies it.
type RoundCounter interface {
	RoundFinished(outcome string)
}

// roundSnapshot is what one tick says about the fight.
type roundSnapshot struct {
	time        float64
	own         int
	enemies     int
	transitions int
}

func snapshotOf(gs model.GameState, transitions int) roundSnapshot {
	return roundSnapshot{
		time:        gs.Time,
		own:         gs.OwnUnitCount(),
		enemies:     len(gs.Enemies),
		transitions: transitions,
	}
}

// rounds diffs consecutive snapshots. A round opens on the first tick where
// both sides have units and closes when either side runs out.
type rounds struct {
	store   RoundStore
	counter RoundCounter

	active      bool
	current     history.Round
	transitions int // controller count when the round opened
}

// observe feeds one tick and returns the round that ended on it, if any.
func (r *rounds) observe(ctx context.Context, s roundSnapshot) (history.Round, bool) {
	fighting := s.own > 0 && s.enemies > 0
	if !r.active {
		if fighting {
			r.active = true
			r.transitions = s.transitions
			r.current = history.Round{
				ID:         uuid.NewString(),
				StartedAt:  s.time,
				OwnStart:   s.own,
				EnemyStart: s.enemies,
			}
			slog.Info("round started", "round", r.current.ID, "own", s.own, "enemies", s.enemies, "time", s.time)
		}
		return history.Round{}, false
	}

	if s.own > r.current.OwnStart {
		r.current.OwnStart = s.own
	}
	if s.enemies > r.current.EnemyStart {
		r.current.EnemyStart = s.enemies
	}
	if fighting {
		return history.Round{}, false
	}

	r.active = false
	done := r.current
	done.EndedAt = s.time
	done.OwnLeft = s.own
	done.EnemyLeft = s.enemies
	done.Transitions = s.transitions - r.transitions
	switch {
	case s.own == 0 && s.enemies == 0:
		done.Outcome = OutcomeTie
	case s.own == 0:
		done.Outcome = OutcomeLost
	default:
		done.Outcome = OutcomeWon
	}

	slog.Info("round finished",
		"round", done.ID,
		"outcome", done.Outcome,
		"duration", done.EndedAt-done.StartedAt,
		"ownLeft", done.OwnLeft,
		"enemyLeft", done.EnemyLeft,
		"transitions", done.Transitions,
	)
	if r.counter != nil {
		r.counter.RoundFinished(done.Outcome)
	}
	if r.store != nil {
		if err := r.store.Record(ctx, done); err != nil {
			slog.Error("failed to store round", "round", done.ID, "error", err)
		} else if tally, err := r.store.Tally(ctx); err != nil {
			slog.Warn("failed to tally rounds", "error", err)
		} else {
			slog.Info("round score",
				"won", tally[OutcomeWon],
				"lost", tally[OutcomeLost],
				"tie", tally[OutcomeTie],
			)
		}
	}
	return done, true
}
