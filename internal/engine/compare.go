package engine

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/strippack/internal/model"
	"github.com/piwi3910/strippack/internal/verify"
)

// ComparisonResult holds the outcome and computed statistics of one
// solver on a benchmark input.
type ComparisonResult struct {
	Solver   string
	Solution *model.Solution
	Rate     float64
	Area     int64
	Width    int
	Height   int
	Elapsed  time.Duration
	Valid    bool
	Problems []verify.Problem
	Skipped  bool
	Err      error
}

// Compare runs every solver on its own copy of params and returns the
// results in solver order. Solvers that do not support the height variant
// are reported as skipped. This enables side-by-side comparison of
// strategies on the same input.
func Compare(logger *log.Logger, solvers []Solver, params model.Parameters) []ComparisonResult {
	if logger == nil {
		logger = log.Default()
	}
	results := make([]ComparisonResult, 0, len(solvers))

	for _, s := range solvers {
		res := ComparisonResult{Solver: s.Name()}
		if !CanSolve(s, params) {
			res.Skipped = true
			logger.Debug("skipping solver", "solver", s.Name(), "variant", params.HeightVariant)
			results = append(results, res)
			continue
		}

		sol, err := solveSafely(logger, s, params)
		if err != nil {
			res.Err = err
			logger.Warn("solver produced no result", "solver", s.Name(), "err", err)
			results = append(results, res)
			continue
		}

		report := verify.Check(sol)
		res.Solution = sol
		res.Rate = sol.Rate()
		res.Area = sol.Area()
		res.Width = sol.Width()
		res.Height = sol.Height()
		res.Elapsed = sol.Elapsed
		res.Valid = report.Valid()
		res.Problems = report.Problems
		if !res.Valid {
			for _, p := range report.Problems {
				logger.Warn(p.Message, "solver", s.Name(), "check", p.Kind)
			}
		}
		results = append(results, res)
	}

	return results
}

// Best returns the valid result with the smallest area, or nil. Ties keep
// the earlier result.
func Best(results []ComparisonResult) *ComparisonResult {
	var best *ComparisonResult
	for i := range results {
		r := &results[i]
		if r.Solution == nil || !r.Valid {
			continue
		}
		if best == nil || r.Area < best.Area {
			best = r
		}
	}
	return best
}

// solveSafely is Solve with panics turned into a StrategyError.
func solveSafely(logger *log.Logger, s Solver, params model.Parameters) (sol *model.Solution, err error) {
	defer func() {
		if r := recover(); r != nil {
			sol = nil
			err = &StrategyError{Solver: s.Name(), Err: panicError(r)}
		}
	}()
	return Solve(logger, s, params)
}
