package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementResultOrdering(t *testing.T) {
	ordered := []EngagementResult{
		LossEmphatic, LossDecisive, LossMarginal, Tie,
		VictoryMarginal, VictoryDecisive, VictoryEmphatic,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1], ordered[i])
	}
}

func TestParseEngagementResult(t *testing.T) {
	for r := LossEmphatic; r <= VictoryEmphatic; r++ {
		got, err := ParseEngagementResult(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	got, err := ParseEngagementResult(" TIE ")
	require.NoError(t, err)
	assert.Equal(t, Tie, got)

	_, err = ParseEngagementResult("stalemate")
	assert.ErrorIs(t, err, ErrUnknownResult)
}

func TestDefaultSets(t *testing.T) {
	tests := []struct {
		name string
		set  ResultSet
		in   []EngagementResult
		out  []EngagementResult
	}{
		{"tie or better", TieOrBetter(), []EngagementResult{Tie, VictoryMarginal, VictoryEmphatic}, []EngagementResult{LossMarginal}},
		{"decisive loss or worse", LossDecisiveOrWorse(), []EngagementResult{LossEmphatic, LossDecisive}, []EngagementResult{LossMarginal, Tie}},
		{"marginal victory or better", VictoryMarginalOrBetter(), []EngagementResult{VictoryMarginal, VictoryDecisive}, []EngagementResult{Tie}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, r := range tc.in {
				assert.True(t, tc.set.Contains(r), r.String())
			}
			for _, r := range tc.out {
				assert.False(t, tc.set.Contains(r), r.String())
			}
		})
	}
}

func TestThresholdsWithDefaults(t *testing.T) {
	th := Thresholds{}.WithDefaults()
	assert.Equal(t, TieOrBetter(), th.Engage)
	assert.Equal(t, LossDecisiveOrWorse(), th.Disengage)
	assert.Equal(t, VictoryMarginalOrBetter(), th.SmallEngage)

	// Caller sets survive, including discontiguous ones.
	custom := NewResultSet(LossEmphatic, VictoryEmphatic)
	th = Thresholds{Engage: custom}.WithDefaults()
	assert.Equal(t, custom, th.Engage)
	assert.False(t, th.Engage.Contains(Tie))
}

func TestParseResultSet(t *testing.T) {
	s, err := ParseResultSet([]string{"tie", "victory_emphatic"})
	require.NoError(t, err)
	assert.True(t, s.Contains(Tie))
	assert.True(t, s.Contains(VictoryEmphatic))
	assert.False(t, s.Contains(VictoryMarginal))

	_, err = ParseResultSet([]string{"tie", "nope"})
	assert.ErrorIs(t, err, ErrUnknownResult)
}
