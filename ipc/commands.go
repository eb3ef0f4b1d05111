package ipc

// Action kinds. These must stay in sync with the host's intent executor.
const (
	KindMove       = "move"
	KindAttackMove = "attack_move"
	KindAttack     = "attack"
	KindAbility    = "ability"
)

// Action is one unit order. Which fields are meaningful depends on Kind:
// move and attack_move use X/Y, attack uses TargetID, ability uses Ability
// plus whichever of TargetID or X/Y the ability needs.
type Action struct {
	Kind     string  `json:"kind"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	TargetID int     `json:"target_id,omitempty"`
	Ability  string  `json:"ability,omitempty"`
}

func MoveTo(x, y float64) Action       { return Action{Kind: KindMove, X: x, Y: y} }
func AttackMoveTo(x, y float64) Action { return Action{Kind: KindAttackMove, X: x, Y: y} }
func AttackUnit(id int) Action         { return Action{Kind: KindAttack, TargetID: id} }

// Cast uses a self-targeted or untargeted ability.
func Cast(ability string) Action { return Action{Kind: KindAbility, Ability: ability} }

func CastAt(ability string, x, y float64) Action {
	return Action{Kind: KindAbility, Ability: ability, X: x, Y: y}
}

func CastOn(ability string, targetID int) Action {
	return Action{Kind: KindAbility, Ability: ability, TargetID: targetID}
}

// Maneuver is an ordered list of actions for one unit. The host executes the
// first action it can satisfy; later entries are fallbacks.
type Maneuver struct {
	UnitID  int      `json:"unit_id"`
	Actions []Action `json:"actions"`
}

func NewManeuver(unitID int) *Maneuver {
	return &Maneuver{UnitID: unitID}
}

// Add appends a fallback action and returns the maneuver for chaining.
func (m *Maneuver) Add(a Action) *Maneuver {
	m.Actions = append(m.Actions, a)
	return m
}

func (m *Maneuver) Empty() bool { return len(m.Actions) == 0 }
