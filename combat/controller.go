package combat

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/nstehr/vimy/vimy-squads/model"
	"github.com/nstehr/vimy/vimy-squads/tactics"
)

// Config tunes the engine. Durations are game seconds.
type Config struct {
	SetupFor             float64
	PreEngageFor         float64
	CommitToEngageFor    float64
	CommitToDisengageFor float64
	Thresholds           Thresholds

	CloseRadius       float64
	FarRadius         float64
	MainSquadFloor    int
	BroadcastRadiusSq float64
	Ignore            []string
	SimIgnore         []string

	MeleeMirrorFraction float64
	DiagnosticsEvery    int
}

func DefaultConfig() Config {
	return Config{
		SetupFor:             3.0,
		PreEngageFor:         2.0,
		CommitToEngageFor:    5.0,
		CommitToDisengageFor: 3.0,
		Thresholds:           Thresholds{}.WithDefaults(),
		CloseRadius:          14.0,
		FarRadius:            18.5,
		MainSquadFloor:       7,
		BroadcastRadiusSq:    400.0,
		Ignore:               []string{"egg", "larva", "overseer", "observer"},
		SimIgnore:            []string{"baneling"},
		MeleeMirrorFraction:  0.75,
		DiagnosticsEvery:     100,
	}
}

// Option customizes a Controller.
type Option func(*Controller)

func WithObserver(obs Observer) Option {
	return func(c *Controller) { c.obs = obs }
}

func WithFormation(f tactics.FormationAdjuster) Option {
	return func(c *Controller) { c.env.Formation = f }
}

// Controller runs one tick of squad decisions: sample threats, decide
// engagement, advance phases and collect maneuvers. It is not safe for
// concurrent use; callers serialize ticks.
type Controller struct {
	cfg      Config
	eval     Evaluator
	sampler  ThreatSampler
	env      *tactics.Env
	tracker  *tracker
	banes    *BaneAssigner
	obs      Observer
	lastDiag int
}

func NewController(cfg Config, oracle Oracle, opts ...Option) (*Controller, error) {
	if oracle == nil {
		return nil, fmt.Errorf("combat controller needs an oracle")
	}
	cfg.Thresholds = cfg.Thresholds.WithDefaults()

	c := &Controller{
		cfg:      cfg,
		sampler:  NewThreatSampler(cfg.CloseRadius, cfg.FarRadius, cfg.Ignore),
		env:      &tactics.Env{Formation: tactics.FrontlineAdjuster{}, MeleeMirrorFraction: cfg.MeleeMirrorFraction},
		banes:    NewBaneAssigner(),
		obs:      nopObserver{},
		lastDiag: -cfg.DiagnosticsEvery,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.obs == nil {
		c.obs = nopObserver{}
	}

	simIgnore := make(map[string]bool, len(cfg.SimIgnore))
	for _, t := range cfg.SimIgnore {
		simIgnore[strings.ToLower(t)] = true
	}
	c.eval = Evaluator{
		Oracle:               oracle,
		Thresholds:           cfg.Thresholds,
		CommitToEngageFor:    cfg.CommitToEngageFor,
		CommitToDisengageFor: cfg.CommitToDisengageFor,
		MainSquadFloor:       cfg.MainSquadFloor,
		BroadcastRadiusSq:    cfg.BroadcastRadiusSq,
		SimIgnore:            simIgnore,
		obs:                  c.obs,
	}
	c.tracker = newTracker(c.env, c.obs)
	return c, nil
}

// Tick decides every squad in gs and returns the maneuvers to send back.
func (c *Controller) Tick(ctx context.Context, gs model.GameState) []ipc.Maneuver {
	now := gs.Time
	target := AttackTarget(gs)
	c.env.Terrain = tactics.Terrain{Grids: gs.Grids}

	live := make(map[string]bool, len(gs.Squads))
	for _, sq := range gs.Squads {
		live[sq.ID] = true
		c.tracker.ensure(sq, now, target)
	}
	c.tracker.sweep(live)
	c.obs.TrackedSquads(len(c.tracker.records))
	if !c.hasLeader(gs.Squads) {
		c.tracker.clearMainFight()
	}

	var own []model.Unit
	for _, sq := range gs.Squads {
		own = append(own, sq.Units...)
	}
	adv := tactics.Advisories{Banes: c.banes.Update(own, gs.Enemies)}
	if main, ok := c.mainSquad(gs.Squads); ok {
		adv.MainSquadPos, adv.HasMainSquad = main.Position, true
	}

	index := EnemyIndex(gs.Enemies)
	var out []ipc.Maneuver
	for _, sq := range c.evaluationOrder(gs.Squads) {
		out = append(out, c.step(ctx, now, sq, gs.Squads, index, target, adv)...)
	}

	c.logDiagnostics(gs.Tick)
	return out
}

// step runs one squad through evaluation, the phase table and its behavior.
func (c *Controller) step(ctx context.Context, now float64, sq model.Squad, squads []model.Squad, q ThreatQuery, target model.Point, adv tactics.Advisories) []ipc.Maneuver {
	rec, _ := c.tracker.get(sq.ID)
	th := c.sampler.Sample(q, sq.Position)

	mainEngage := c.eval.evaluate(now, sq, squads, th, c.tracker)
	smallEngage := !mainEngage && c.eval.smallEngagement(rec, th.SuperClose)

	in := phaseInput{
		Phase:        rec.phase,
		Elapsed:      now - rec.phaseSince,
		SetupFor:     c.cfg.SetupFor,
		PreEngageFor: c.cfg.PreEngageFor,
		SuperClose:   len(th.SuperClose) > 0,
		Far:          len(th.Far) > 0,
		MainEngage:   mainEngage,
		SmallEngage:  smallEngage,
		Engaging:     rec.engaging,
		FlaggedMain:  sq.Main,
		Size:         sq.Size(),
		AnyUnsafe:    c.anyUnsafe(sq),
		AllSafe:      c.allSafe(sq),
	}
	if next, changed := nextPhase(in); changed {
		c.tracker.transition(ctx, rec, next, sq, now, target)
	}

	rec.stutterForward = stutterForward(sq.Units, th.Far)
	adv.StutterForward = rec.stutterForward

	moveTo := target
	if !sq.Main && adv.HasMainSquad {
		moveTo = adv.MainSquadPos
	}
	return rec.behavior.Execute(sq, th.Close, moveTo, adv)
}

func (c *Controller) anyUnsafe(sq model.Squad) bool {
	for _, u := range sq.Units {
		if !c.env.Terrain.Grids.Ground.Safe(u.Position) {
			return true
		}
	}
	return false
}

func (c *Controller) allSafe(sq model.Squad) bool {
	for _, u := range sq.Units {
		if !c.env.Terrain.UnitSafe(u) {
			return false
		}
	}
	return true
}

// mainSquad prefers a flagged main squad large enough to lead, falling back
// to any flagged main squad for routing.
func (c *Controller) mainSquad(squads []model.Squad) (model.Squad, bool) {
	var flagged *model.Squad
	for i, sq := range squads {
		if c.eval.isMain(sq) {
			return sq, true
		}
		if sq.Main && flagged == nil {
			flagged = &squads[i]
		}
	}
	if flagged != nil {
		return *flagged, true
	}
	return model.Squad{}, false
}

// hasLeader reports whether any squad this tick is able to lead a main fight.
func (c *Controller) hasLeader(squads []model.Squad) bool {
	for _, sq := range squads {
		if c.eval.isMain(sq) {
			return true
		}
	}
	return false
}

// evaluationOrder puts leading main squads first so their broadcast reaches
// followers in the same pass. Order is otherwise the host's.
func (c *Controller) evaluationOrder(squads []model.Squad) []model.Squad {
	ordered := append([]model.Squad(nil), squads...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return c.eval.isMain(ordered[i]) && !c.eval.isMain(ordered[j])
	})
	return ordered
}

// Phase reports a tracked squad's current phase.
func (c *Controller) Phase(squadID string) (Phase, bool) {
	rec, ok := c.tracker.get(squadID)
	if !ok {
		return "", false
	}
	return rec.phase, true
}

// Tracked is the number of squads with a live record.
func (c *Controller) Tracked() int { return len(c.tracker.records) }

// Transitions counts phase changes since the controller was built.
func (c *Controller) Transitions() int { return c.tracker.transitions }

func (c *Controller) logDiagnostics(tick int) {
	if c.cfg.DiagnosticsEvery <= 0 || tick-c.lastDiag < c.cfg.DiagnosticsEvery {
		return
	}
	c.lastDiag = tick

	counts := c.tracker.counts()
	engaging, mainFight := 0, 0
	for _, rec := range c.tracker.records {
		if rec.engaging {
			engaging++
		}
		if rec.mainFight {
			mainFight++
		}
	}
	slog.Info("squad diagnostics",
		"tick", tick,
		"tracked", len(c.tracker.records),
		"settingUp", counts[SettingUp],
		"moving", counts[Moving],
		"preEngaging", counts[PreEngaging],
		"engaging", counts[Engaging],
		"retreating", counts[Retreating],
		"committedEngaging", engaging,
		"followingMain", mainFight,
	)
}
