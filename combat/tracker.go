package combat

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"
	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/nstehr/vimy/vimy-squads/tactics"
)

// record is the per-squad memory that survives between ticks.
type record struct {
	id              string
	phase           Phase
	phaseSince      float64
	engaging        bool
	engageFlippedAt float64
	mainFight       bool
	smallEngage     bool
	stutterForward  bool
	behavior        tactics.Behavior
	machine         *fsm.FSM
}

// tracker owns every record and the one live behavior each holds.
type tracker struct {
	env         *tactics.Env
	obs         Observer
	records     map[string]*record
	transitions int
	// leader is the main squad whose fight followers are joining, if any.
	leader string
}

func newTracker(env *tactics.Env, obs Observer) *tracker {
	return &tracker{env: env, obs: obs, records: make(map[string]*record)}
}

// ensure returns the record for sq, creating it in Retreating on first
// sighting.
func (t *tracker) ensure(sq model.Squad, now float64, target model.Point) *record {
	if rec, ok := t.records[sq.ID]; ok {
		return rec
	}
	rec := &record{
		id:         sq.ID,
		phase:      Retreating,
		phaseSince: now,
		machine:    newPhaseFSM(Retreating),
	}
	rec.behavior = behaviors[Retreating](t.env, sq, target)
	t.records[sq.ID] = rec
	slog.Debug("tracking squad", "squad", sq.ID, "size", sq.Size())
	return rec
}

func (t *tracker) get(id string) (*record, bool) {
	rec, ok := t.records[id]
	return rec, ok
}

// transition moves rec into phase to and replaces its behavior, so slots
// computed for one phase never leak into the next. Edges the FSM does not
// declare are refused.
func (t *tracker) transition(ctx context.Context, rec *record, to Phase, sq model.Squad, now float64, target model.Point) bool {
	if err := rec.machine.Event(ctx, enterEvent[to]); err != nil {
		slog.Warn("refused phase transition", "squad", rec.id, "from", rec.phase, "to", to, "error", err)
		return false
	}
	from := rec.phase
	rec.behavior = behaviors[to](t.env, sq, target)
	rec.phase = to
	rec.phaseSince = now
	t.transitions++
	t.obs.PhaseTransition(from, to)
	slog.Info("squad phase changed", "squad", rec.id, "from", from, "to", to, "time", now)
	return true
}

// clearMainFight drops every follower's main-fight signal.
func (t *tracker) clearMainFight() {
	for _, rec := range t.records {
		rec.mainFight = false
	}
	t.leader = ""
}

// sweep forgets squads missing from the current tick. Losing the leading
// main squad ends the fight its followers were joining.
func (t *tracker) sweep(live map[string]bool) []string {
	var gone []string
	for id := range t.records {
		if !live[id] {
			gone = append(gone, id)
			delete(t.records, id)
		}
	}
	if t.leader != "" && !live[t.leader] {
		slog.Info("main fight leader gone", "squad", t.leader)
		t.clearMainFight()
	}
	if len(gone) > 0 {
		slog.Debug("dropped stale squads", "squads", gone)
	}
	return gone
}

// counts tallies tracked squads per phase.
func (t *tracker) counts() map[Phase]int {
	out := make(map[Phase]int, len(Phases))
	for _, rec := range t.records {
		out[rec.phase]++
	}
	return out
}
