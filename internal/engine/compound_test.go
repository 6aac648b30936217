package engine

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/strippack/internal/model"
)

func twoSquares() model.Parameters {
	return model.NewParameters(model.HeightFixed, 10, false, [2]int{10, 10}, [2]int{10, 10})
}

func TestCompound_SkipsUnsupportedMembers(t *testing.T) {
	freeOnly := newRowSolver("free-only", 0, model.HeightFree)
	a := newRowSolver("a", 3)
	b := newRowSolver("b", 2)
	c := NewCompound(discardLogger(), a, freeOnly, b)

	sol, err := c.Pack(twoSquares())
	require.NoError(t, err)

	assert.Zero(t, freeOnly.calls)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, "b", sol.SolvedBy)
	assert.Equal(t, "b", c.Name())

	attempts := c.Attempts()
	require.Len(t, attempts, 3)
	assert.True(t, attempts[1].Skipped)
	assert.NotNil(t, attempts[0].Solution)
	assert.NotNil(t, attempts[2].Solution)
}

func TestCompound_OptimalResultStopsEvaluation(t *testing.T) {
	first := newRowSolver("perfect", 0)
	second := newRowSolver("second", 1)
	third := newRowSolver("third", 0)
	c := NewCompound(discardLogger()).Add(first).Add(second).Add(third)

	sol, err := c.Pack(twoSquares())
	require.NoError(t, err)

	assert.Equal(t, 1.0, sol.Rate())
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)
	assert.Zero(t, third.calls)
	assert.Len(t, c.Attempts(), 1)
}

func TestCompound_TiesKeepFirst(t *testing.T) {
	c := NewCompound(discardLogger(), newRowSolver("first", 4), newRowSolver("second", 4))

	sol, err := c.Pack(twoSquares())
	require.NoError(t, err)
	assert.Equal(t, "first", sol.SolvedBy)
}

func TestCompound_IsolatesFailures(t *testing.T) {
	panicky := newRowSolver("panicky", 0)
	panicky.pack = func(model.Parameters) (*model.Solution, error) { panic("index out of range") }
	failing := newRowSolver("failing", 0)
	failing.pack = func(model.Parameters) (*model.Solution, error) { return nil, errors.New("broken") }
	good := newRowSolver("good", 1)

	var buf bytes.Buffer
	c := NewCompound(bufferLogger(&buf), panicky, failing, good)

	sol, err := c.Pack(twoSquares())
	require.NoError(t, err)
	assert.Equal(t, "good", sol.SolvedBy)
	assert.Equal(t, 1, good.calls)

	attempts := c.Attempts()
	var se *StrategyError
	require.ErrorAs(t, attempts[0].Err, &se)
	assert.Equal(t, "panicky", se.Solver)
	assert.Error(t, attempts[1].Err)
	assert.Contains(t, buf.String(), "panicky")
	assert.Contains(t, buf.String(), "broken")
}

func TestCompound_DiscardsImpossibleRates(t *testing.T) {
	stacked := newRowSolver("stacked", 0)
	stacked.pack = func(p model.Parameters) (*model.Solution, error) {
		for i := range p.Rectangles {
			p.Rectangles[i].Place(0, 0, false)
		}
		return model.NewSolution(p, "stacked"), nil
	}
	honest := newRowSolver("honest", 5)
	c := NewCompound(discardLogger(), stacked, honest)

	sol, err := c.Pack(twoSquares())
	require.NoError(t, err)
	assert.Equal(t, "honest", sol.SolvedBy)
	assert.Equal(t, 1, honest.calls)
}

func TestCompound_NoCandidate(t *testing.T) {
	failing := newRowSolver("failing", 0)
	failing.pack = func(model.Parameters) (*model.Solution, error) { return nil, ErrNoSolution }
	c := NewCompound(discardLogger(), failing)

	_, err := c.Pack(twoSquares())
	assert.ErrorIs(t, err, ErrNoSolution)
	assert.Equal(t, "compound", c.Name())
}

func TestCompound_RejectsUnsupportedVariant(t *testing.T) {
	c := NewCompound(discardLogger(), newRowSolver("fixed", 0))
	_, err := c.Pack(model.NewParameters(model.HeightFree, 0, false, [2]int{1, 1}))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCompound_MembersGetIndependentCopies(t *testing.T) {
	mutator := newRowSolver("mutator", 0)
	mutator.pack = func(p model.Parameters) (*model.Solution, error) {
		p.Rectangles[0].Width = 1000
		return nil, ErrNoSolution
	}
	check := newRowSolver("check", 1)
	params := twoSquares()
	c := NewCompound(discardLogger(), mutator, check)

	sol, err := c.Pack(params)
	require.NoError(t, err)
	assert.Equal(t, 10, sol.Parameters.Rectangles[0].Width)
	assert.Equal(t, 10, params.Rectangles[0].Width)
}

func TestCompound_HeightSupportIsUnion(t *testing.T) {
	c := NewCompound(nil, newRowSolver("a", 0, model.HeightFixed), newRowSolver("b", 0, model.HeightFree))
	hs := c.HeightSupport()
	assert.True(t, hs.Contains(model.HeightFixed))
	assert.True(t, hs.Contains(model.HeightFree))
	assert.Len(t, c.Solvers(), 2)
}

func TestCompound_NestedAttemptNamesCurrentWinner(t *testing.T) {
	inner := NewCompound(discardLogger(), newRowSolver("a", 3), newRowSolver("b", 2))
	outer := NewCompound(discardLogger(), inner)

	sol, err := outer.Pack(twoSquares())
	require.NoError(t, err)
	assert.Equal(t, "b", sol.SolvedBy)

	attempts := outer.Attempts()
	require.Len(t, attempts, 1)
	assert.Equal(t, "b", attempts[0].Solver)
	assert.Equal(t, "b", outer.Name())
}
