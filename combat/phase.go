package combat

import (
	"github.com/looplab/fsm"
	"github.com/nstehr/vimy/vimy-squads/tactics"
)

// Phase is a squad's tactical posture.
type Phase string

const (
	SettingUp   Phase = "setting_up"
	Moving      Phase = "moving"
	PreEngaging Phase = "pre_engaging"
	Engaging    Phase = "engaging"
	Retreating  Phase = "retreating"
)

// Phases lists every posture in cycle order.
var Phases = []Phase{SettingUp, Moving, PreEngaging, Engaging, Retreating}

func (p Phase) String() string { return string(p) }

// Events are named after the phase they enter.
const (
	evSetUp     = "set_up"
	evMove      = "move"
	evPreEngage = "pre_engage"
	evEngage    = "engage"
	evRetreat   = "retreat"
)

var enterEvent = map[Phase]string{
	SettingUp:   evSetUp,
	Moving:      evMove,
	PreEngaging: evPreEngage,
	Engaging:    evEngage,
	Retreating:  evRetreat,
}

// phaseEvents declares every legal edge of the posture cycle.
var phaseEvents = fsm.Events{
	{Name: evMove, Src: []string{string(SettingUp), string(Retreating)}, Dst: string(Moving)},
	{Name: evPreEngage, Src: []string{string(Moving)}, Dst: string(PreEngaging)},
	{Name: evEngage, Src: []string{string(Moving), string(PreEngaging), string(Retreating)}, Dst: string(Engaging)},
	{Name: evRetreat, Src: []string{string(Moving), string(Engaging)}, Dst: string(Retreating)},
	{Name: evSetUp, Src: []string{string(Retreating)}, Dst: string(SettingUp)},
}

func newPhaseFSM(initial Phase) *fsm.FSM {
	return fsm.NewFSM(string(initial), phaseEvents, fsm.Callbacks{})
}

// behaviors selects the behavior built on entering each phase. PreEngaging
// is a timed pause in formation, so it reuses Setup.
var behaviors = map[Phase]tactics.New{
	SettingUp:   tactics.NewSetup,
	Moving:      tactics.NewMovement,
	PreEngaging: tactics.NewSetup,
	Engaging:    tactics.NewEngagement,
	Retreating:  tactics.NewRetreat,
}

// phaseInput is everything the transition table reads for one squad.
type phaseInput struct {
	Phase        Phase
	Elapsed      float64 // seconds since the last phase change
	SetupFor     float64
	PreEngageFor float64

	SuperClose  bool
	Far         bool
	MainEngage  bool
	SmallEngage bool
	Engaging    bool // the squad's own committed decision
	FlaggedMain bool
	Size        int

	// AnyUnsafe checks every member against the ground grid; AllSafe checks
	// each member against its own movement grid.
	AnyUnsafe bool
	AllSafe   bool
}

// nextPhase is the transition table. It is pure so one set of inputs always
// yields the same answer.
func nextPhase(in phaseInput) (Phase, bool) {
	switch in.Phase {
	case SettingUp:
		if in.SuperClose || in.Elapsed > in.SetupFor {
			return Moving, true
		}
	case Moving:
		switch {
		case (in.SmallEngage && in.SuperClose) || (in.MainEngage && !in.Engaging && !in.FlaggedMain):
			return Engaging, true
		case in.MainEngage:
			if in.Far && !in.SuperClose && in.Size > 2 {
				return PreEngaging, true
			}
			return Engaging, true
		case !in.SmallEngage && in.AnyUnsafe:
			return Retreating, true
		}
	case PreEngaging:
		if in.AnyUnsafe || in.Elapsed > in.PreEngageFor {
			return Engaging, true
		}
	case Engaging:
		if !in.MainEngage && !in.SmallEngage {
			return Retreating, true
		}
	case Retreating:
		if in.SuperClose && in.SmallEngage {
			return Engaging, true
		}
		if in.AllSafe {
			if in.Size > 2 {
				return SettingUp, true
			}
			return Moving, true
		}
	}
	return in.Phase, false
}
