package combat

import (
	"fmt"
	"math"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/vimy/vimy-squads/model"
)

// Oracle predicts the outcome of own units fighting enemy units.
type Oracle interface {
	CanWinFight(own, enemy []model.Unit) (EngagementResult, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(own, enemy []model.Unit) (EngagementResult, error)

func (f OracleFunc) CanWinFight(own, enemy []model.Unit) (EngagementResult, error) {
	return f(own, enemy)
}

// Army aggregates one side of a fight for oracle expressions.
type Army struct {
	Count    int
	Flying   int
	Health   float64
	DPS      float64
	AvgRange float64
}

func summarizeArmy(units []model.Unit) Army {
	a := Army{Count: len(units)}
	var rangeSum float64
	for _, u := range units {
		if u.Flying {
			a.Flying++
		}
		a.Health += u.Health
		a.DPS += u.DPS
		rangeSum += math.Max(u.GroundRange, u.AirRange)
	}
	if a.Count > 0 {
		a.AvgRange = rangeSum / float64(a.Count)
	}
	return a
}

// OracleEnv is the environment oracle expressions are compiled against.
type OracleEnv struct {
	Own   Army
	Enemy Army
}

// DefaultOracleExpr is a Lanchester-style strength ratio.
const DefaultOracleExpr = `(Own.Health * Own.DPS) / max(Enemy.Health * Enemy.DPS, 1.0)`

// DefaultOracleCuts split the strength ratio into the seven ranks.
var DefaultOracleCuts = []float64{0.5, 0.75, 0.95, 1.05, 1.35, 2.0}

// ExprOracle scores a fight with a compiled expr program and buckets the
// score into ranks. Score below Cuts[0] is LossEmphatic, at or above
// Cuts[5] is VictoryEmphatic.
type ExprOracle struct {
	Src     string
	cuts    []float64
	program *vm.Program
}

// NewExprOracle compiles src once; evaluation never recompiles.
func NewExprOracle(src string, cuts []float64) (*ExprOracle, error) {
	if len(cuts) != int(VictoryEmphatic) {
		return nil, fmt.Errorf("oracle needs %d cut points, got %d", int(VictoryEmphatic), len(cuts))
	}
	if !sort.Float64sAreSorted(cuts) {
		return nil, fmt.Errorf("oracle cut points must be ascending: %v", cuts)
	}
	prog, err := expr.Compile(src, expr.Env(OracleEnv{}), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("compile oracle expression %q: %w", src, err)
	}
	return &ExprOracle{Src: src, cuts: append([]float64(nil), cuts...), program: prog}, nil
}

func (o *ExprOracle) CanWinFight(own, enemy []model.Unit) (EngagementResult, error) {
	env := OracleEnv{Own: summarizeArmy(own), Enemy: summarizeArmy(enemy)}
	out, err := vm.Run(o.program, env)
	if err != nil {
		return LossDecisive, fmt.Errorf("run oracle expression: %w", err)
	}
	score, ok := out.(float64)
	if !ok || math.IsNaN(score) {
		return LossDecisive, fmt.Errorf("oracle expression produced %v", out)
	}
	return o.bucket(score), nil
}

func (o *ExprOracle) bucket(score float64) EngagementResult {
	for i, cut := range o.cuts {
		if score < cut {
			return EngagementResult(i)
		}
	}
	return VictoryEmphatic
}
