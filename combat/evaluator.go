package combat

import (
	"log/slog"
	"strings"

	"github.com/nstehr/vimy/vimy-squads/model"
)

// Evaluator decides whether a squad should be fighting. Decisions are held
// for a commit window so one noisy oracle verdict cannot flip them back.
type Evaluator struct {
	Oracle               Oracle
	Thresholds           Thresholds
	CommitToEngageFor    float64
	CommitToDisengageFor float64
	// A flagged main squad only leads with more members than this.
	MainSquadFloor    int
	BroadcastRadiusSq float64
	// SimIgnore lists types the oracle models badly; they are left out of
	// both sides of a fight estimate.
	SimIgnore map[string]bool

	obs Observer
}

func (e *Evaluator) isMain(sq model.Squad) bool {
	return sq.Main && sq.Size() > e.MainSquadFloor
}

func (e *Evaluator) fighters(units []model.Unit) []model.Unit {
	var out []model.Unit
	for _, u := range units {
		if u.CanAttack && !e.SimIgnore[strings.ToLower(u.Type)] {
			out = append(out, u)
		}
	}
	return out
}

// evaluate runs the engage decision for sq and updates its record. The main
// squad may also rewrite the main-fight signal of other tracked squads, so
// the caller must evaluate the main squad first within a tick.
func (e *Evaluator) evaluate(now float64, sq model.Squad, squads []model.Squad, th Threats, t *tracker) bool {
	rec, ok := t.get(sq.ID)
	if !ok {
		return false
	}
	main := e.isMain(sq)

	if len(th.Far) == 0 && rec.engaging {
		e.flip(rec, now, main, false, t)
		return false
	}

	if rec.engaging && now < rec.engageFlippedAt+e.CommitToEngageFor {
		return true
	}
	if !rec.mainFight && !rec.engaging && now < rec.engageFlippedAt+e.CommitToDisengageFor {
		return false
	}

	if !main && rec.mainFight {
		return true
	}

	result := VictoryEmphatic
	if enemy := e.fighters(th.Far); len(enemy) > 0 {
		result = e.consult(sq, enemy)
	}

	switch {
	case rec.engaging && e.Thresholds.Disengage.Contains(result):
		e.flip(rec, now, main, false, t)
	case !rec.engaging && e.Thresholds.Engage.Contains(result) && len(th.Far) > 0:
		e.flip(rec, now, main, true, t)
	}

	if main && len(th.Far) > 0 {
		e.broadcast(rec, squads, th.Far, t)
	}
	return rec.mainFight || rec.engaging
}

// flip records a new engage decision. A main squad carries its followers:
// engaging raises its own main-fight flag, disengaging clears every flag.
func (e *Evaluator) flip(rec *record, now float64, main, engaging bool, t *tracker) {
	rec.engaging = engaging
	rec.engageFlippedAt = now
	e.obs.EngagementFlip(main, engaging)
	if !main {
		return
	}
	if engaging {
		rec.mainFight = true
		t.leader = rec.id
		slog.Info("main fight engaging", "squad", rec.id, "time", now)
		return
	}
	t.clearMainFight()
	slog.Info("main fight disengaging", "squad", rec.id, "time", now)
}

// broadcast hands the main squad's decision to non-main squads near the
// enemy it is fighting.
func (e *Evaluator) broadcast(mainRec *record, squads []model.Squad, far []model.Unit, t *tracker) {
	center, _ := model.Centroid(far)
	if mainRec.engaging {
		t.leader = mainRec.id
	}
	for _, other := range squads {
		if other.ID == mainRec.id || other.Main {
			continue
		}
		rec, ok := t.get(other.ID)
		if !ok {
			continue
		}
		if other.Position.DistanceSq(center) < e.BroadcastRadiusSq {
			rec.mainFight = mainRec.engaging
		}
	}
}

// consult asks the oracle. A failed or malformed answer counts as a decisive
// loss for this tick only.
func (e *Evaluator) consult(sq model.Squad, enemy []model.Unit) EngagementResult {
	result, err := e.Oracle.CanWinFight(e.fighters(sq.Units), enemy)
	if err == nil && !result.Valid() {
		err = ErrUnknownResult
	}
	if err != nil {
		slog.Warn("combat oracle failed", "squad", sq.ID, "error", err)
		e.obs.OracleError()
		result = LossDecisive
	}
	e.obs.OracleResult(result)
	return result
}

// smallEngagement is the local skirmish check on super-close threats. It is
// not wired to the oracle yet and never asks for a fight.
func (e *Evaluator) smallEngagement(rec *record, superClose []model.Unit) bool {
	rec.smallEngage = false
	return false
}
