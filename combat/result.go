package combat

import (
	"errors"
	"fmt"
	"strings"
)

// EngagementResult is the oracle's ordered verdict for one fight.
type EngagementResult int

const (
	LossEmphatic EngagementResult = iota
	LossDecisive
	LossMarginal
	Tie
	VictoryMarginal
	VictoryDecisive
	VictoryEmphatic
)

var ErrUnknownResult = errors.New("unknown engagement result")

var resultNames = [...]string{
	LossEmphatic:    "loss_emphatic",
	LossDecisive:    "loss_decisive",
	LossMarginal:    "loss_marginal",
	Tie:             "tie",
	VictoryMarginal: "victory_marginal",
	VictoryDecisive: "victory_decisive",
	VictoryEmphatic: "victory_emphatic",
}

func (r EngagementResult) Valid() bool {
	return r >= LossEmphatic && r <= VictoryEmphatic
}

func (r EngagementResult) String() string {
	if !r.Valid() {
		return fmt.Sprintf("EngagementResult(%d)", int(r))
	}
	return resultNames[r]
}

// ParseEngagementResult accepts the snake_case names used in configuration.
func ParseEngagementResult(s string) (EngagementResult, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range resultNames {
		if name == want {
			return EngagementResult(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownResult, s)
}

// ResultSet is a membership set over the result scale. Sets may be
// discontiguous; decisions never compare ranks against a set.
type ResultSet map[EngagementResult]struct{}

func NewResultSet(results ...EngagementResult) ResultSet {
	s := make(ResultSet, len(results))
	for _, r := range results {
		s[r] = struct{}{}
	}
	return s
}

// ParseResultSet builds a set from configuration names.
func ParseResultSet(names []string) (ResultSet, error) {
	s := make(ResultSet, len(names))
	for _, n := range names {
		r, err := ParseEngagementResult(n)
		if err != nil {
			return nil, err
		}
		s[r] = struct{}{}
	}
	return s, nil
}

func (s ResultSet) Contains(r EngagementResult) bool {
	_, ok := s[r]
	return ok
}

func rangeSet(from, to EngagementResult) ResultSet {
	s := make(ResultSet)
	for r := from; r <= to; r++ {
		s[r] = struct{}{}
	}
	return s
}

func TieOrBetter() ResultSet             { return rangeSet(Tie, VictoryEmphatic) }
func LossDecisiveOrWorse() ResultSet     { return rangeSet(LossEmphatic, LossDecisive) }
func VictoryMarginalOrBetter() ResultSet { return rangeSet(VictoryMarginal, VictoryEmphatic) }

// Thresholds holds the three decision sets. Empty sets fall back to the
// defaults in WithDefaults.
type Thresholds struct {
	Engage      ResultSet
	Disengage   ResultSet
	SmallEngage ResultSet
}

func (t Thresholds) WithDefaults() Thresholds {
	if len(t.Engage) == 0 {
		t.Engage = TieOrBetter()
	}
	if len(t.Disengage) == 0 {
		t.Disengage = LossDecisiveOrWorse()
	}
	if len(t.SmallEngage) == 0 {
		t.SmallEngage = VictoryMarginalOrBetter()
	}
	return t
}
