package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/strippack/internal/model"
	"github.com/piwi3910/strippack/internal/verify"
)

func fixedStrategies() []Solver {
	cfg := model.DefaultGeneticConfig()
	cfg.PopulationSize = 10
	cfg.Generations = 8
	return []Solver{NewMaxRects(), NewShelf(), NewGenetic(cfg)}
}

func TestStrategies_SingleSquareAtOrigin(t *testing.T) {
	for _, s := range fixedStrategies() {
		t.Run(s.Name(), func(t *testing.T) {
			sol, err := Solve(discardLogger(), s, model.NewParameters(model.HeightFixed, 10, false, [2]int{10, 10}))
			require.NoError(t, err)

			r := sol.Parameters.Rectangles[0]
			assert.Equal(t, 0, r.X)
			assert.Equal(t, 0, r.Y)
			assert.Equal(t, 1.0, sol.Rate())
		})
	}
}

func TestStrategies_TwoSquaresSideBySide(t *testing.T) {
	for _, s := range fixedStrategies() {
		t.Run(s.Name(), func(t *testing.T) {
			sol, err := Solve(discardLogger(), s, twoSquares())
			require.NoError(t, err)

			assert.Equal(t, 20, sol.Width())
			assert.Equal(t, 10, sol.Height())
			assert.True(t, verify.IsValidSolution(discardLogger(), sol))
		})
	}
}

func TestStrategies_RandomInputsAreValid(t *testing.T) {
	for _, rotation := range []bool{false, true} {
		for seed := int64(1); seed <= 8; seed++ {
			params := randomParameters(seed, 25, 12, model.HeightFixed, 15, rotation)
			for _, s := range fixedStrategies() {
				sol, err := Solve(discardLogger(), s, params)
				require.NoError(t, err, "%s seed=%d rotation=%v", s.Name(), seed, rotation)

				report := verify.Check(sol)
				assert.True(t, report.Valid(), "%s seed=%d rotation=%v: %v", s.Name(), seed, rotation, report.Problems)
				assert.LessOrEqual(t, sol.Height(), 15)
			}
		}
	}
}

func TestStrategies_RotationFitsTallRectangle(t *testing.T) {
	params := model.NewParameters(model.HeightFixed, 5, true, [2]int{12, 4}, [2]int{4, 12}, [2]int{5, 5})
	for _, s := range fixedStrategies() {
		t.Run(s.Name(), func(t *testing.T) {
			sol, err := Solve(discardLogger(), s, params)
			require.NoError(t, err)
			assert.True(t, sol.Parameters.Rectangles[1].Rotated)
			assert.True(t, verify.Check(sol).Valid())
		})
	}
}

func TestStrategies_UnsupportedVariant(t *testing.T) {
	params := model.NewParameters(model.HeightFree, 0, false, [2]int{3, 3})
	for _, s := range []Solver{NewMaxRects(), NewGenetic(model.DefaultGeneticConfig())} {
		_, err := s.Pack(params)
		assert.ErrorIs(t, err, ErrInvalidArgument, s.Name())

		_, err = Solve(nil, s, params)
		assert.ErrorIs(t, err, ErrInvalidArgument, s.Name())
	}
}

func TestMaxRects_PrefersNarrowerRotation(t *testing.T) {
	params := model.NewParameters(model.HeightFixed, 10, true, [2]int{10, 5}, [2]int{10, 5})
	sol, err := NewMaxRects().Pack(params)
	require.NoError(t, err)
	assert.Equal(t, int64(100), sol.Area())
}

func TestShelf_FreeHeight(t *testing.T) {
	params := randomParameters(3, 30, 10, model.HeightFree, 0, true)
	sol, err := Solve(discardLogger(), NewShelf(), params)
	require.NoError(t, err)

	assert.Equal(t, sol.Height(), sol.Parameters.Height)
	assert.GreaterOrEqual(t, sol.Height(), params.MinimumHeight())
	assert.True(t, verify.Check(sol).Valid())
}

func TestShelf_TooTallFails(t *testing.T) {
	params := model.NewParameters(model.HeightFixed, 5, false, [2]int{2, 8})
	_, err := NewShelf().Pack(params)
	assert.ErrorIs(t, err, ErrNoSolution)
}

func TestSolve_CopiesAndTimes(t *testing.T) {
	params := twoSquares()
	sol, err := Solve(discardLogger(), NewMaxRects(), params)
	require.NoError(t, err)

	assert.Positive(t, sol.Elapsed)
	assert.Equal(t, "maxrects", sol.SolvedBy)
	for _, r := range params.Rectangles {
		assert.False(t, r.Placed())
	}
}

func TestNew_BuildsByName(t *testing.T) {
	cfg := model.DefaultConfig()

	s, err := New("free:maxrects", cfg, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "free(maxrects)", s.Name())
	assert.True(t, s.HeightSupport().Contains(model.HeightFree))

	s, err = New(" Shelf ", cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "shelf", s.Name())

	s, err = New("ensemble", cfg, discardLogger())
	require.NoError(t, err)
	c, ok := s.(*Compound)
	require.True(t, ok)
	assert.Len(t, c.Solvers(), len(cfg.Strategies))

	_, err = New("simplex", cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = New("free:free:maxrects", cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	cfg.Strategies = []string{"maxrects", "ensemble"}
	_, err = New("ensemble", cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStrategies_ListOrder(t *testing.T) {
	solvers, err := Strategies([]string{"genetic", "shelf"}, model.DefaultConfig(), nil)
	require.NoError(t, err)
	require.Len(t, solvers, 2)
	assert.Equal(t, "genetic", solvers[0].Name())
	assert.Equal(t, "shelf", solvers[1].Name())

	_, err = Strategies([]string{"shelf", "bogus"}, model.DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestCompare_ReportsEverySolver(t *testing.T) {
	free, err := NewFreeHeight(NewMaxRects(), model.DefaultSearchConfig(), discardLogger())
	require.NoError(t, err)
	broken := newRowSolver("broken", 0)
	broken.pack = func(model.Parameters) (*model.Solution, error) { panic("broken") }

	results := Compare(discardLogger(), []Solver{NewShelf(), free, broken, NewMaxRects()}, twoSquares())
	require.Len(t, results, 4)

	assert.True(t, results[0].Valid)
	assert.Equal(t, int64(200), results[0].Area)
	assert.Equal(t, 1.0, results[0].Rate)

	assert.True(t, results[1].Skipped)
	assert.Nil(t, results[1].Solution)

	var se *StrategyError
	assert.ErrorAs(t, results[2].Err, &se)

	assert.True(t, results[3].Valid)
	assert.Equal(t, 20, results[3].Width)
	assert.Equal(t, 10, results[3].Height)

	best := Best(results)
	require.NotNil(t, best)
	assert.Equal(t, "shelf", best.Solver)
}
