package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLambertWm1_SolvesDefiningEquation(t *testing.T) {
	for _, x := range []float64{-1 / math.E * 0.999999, -0.35, -0.3, -0.25, -0.2, -0.1, -0.01, -1e-5, -1e-12} {
		w := LambertWm1(x)
		assert.LessOrEqual(t, w, -1.0, "x=%g", x)
		assert.InDelta(t, x, w*math.Exp(w), 1e-12*math.Max(1, math.Abs(x)), "x=%g", x)
	}
}

func TestLambertWm1_KnownValues(t *testing.T) {
	assert.Equal(t, -1.0, LambertWm1(-1/math.E))
	// -2·e^-2 lies on the lower branch at exactly -2.
	assert.InDelta(t, -2.0, LambertWm1(-2*math.Exp(-2)), 1e-12)
	assert.InDelta(t, -5.0, LambertWm1(-5*math.Exp(-5)), 1e-12)
}

func TestLambertWm1_OutsideDomain(t *testing.T) {
	for _, x := range []float64{-1, -0.5, 0, 0.1, math.NaN(), math.Inf(-1)} {
		assert.True(t, math.IsNaN(LambertWm1(x)), "x=%g", x)
	}
}

func TestSizing_BudgetMatchesResolution(t *testing.T) {
	tests := []struct {
		checks, candidates int
	}{
		{100, 1000},
		{125, 1000},
		{100, 50},
		{400, 100000},
	}
	for _, tt := range tests {
		rounds, perRound := Sizing(tt.checks, tt.candidates)
		assert.Greater(t, rounds, 0.0)
		assert.Greater(t, perRound, 1.0)

		// perRound probes per round over log_perRound(candidates) rounds
		// spend the whole budget.
		spent := perRound * math.Log(float64(tt.candidates)) / math.Log(perRound)
		assert.InDelta(t, float64(tt.checks), spent, 1e-6*float64(tt.checks), "checks=%d candidates=%d", tt.checks, tt.candidates)
	}
}

func TestSizing_MoreChecksMeansFinerRounds(t *testing.T) {
	_, small := Sizing(100, 1000)
	_, large := Sizing(200, 1000)
	assert.Greater(t, large, small)
}

func TestSizing_Degenerate(t *testing.T) {
	rounds, perRound := Sizing(100, 1)
	assert.Equal(t, 1.0, rounds)
	assert.Equal(t, 1.0, perRound)

	rounds, perRound = Sizing(0, 500)
	assert.Equal(t, 1.0, rounds)
	assert.Equal(t, 500.0, perRound)

	// Budgets too small for the range are clamped at the branch point.
	rounds, perRound = Sizing(3, 100000)
	assert.False(t, math.IsNaN(rounds))
	assert.False(t, math.IsNaN(perRound))
}
