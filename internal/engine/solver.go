// Package engine holds the packing strategies and the machinery that
// combines them: the solver contract, the free-height search and the
// compound solver.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/strippack/internal/model"
)

// Sentinel errors for solving operations.
var (
	// ErrInvalidArgument is returned when a solver is asked for a height
	// variant it does not support, or is built around an unusable solver.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoSolution is returned when a solver could not place every rectangle.
	ErrNoSolution = errors.New("no solution")
)

// slowSolve is the duration after which a single solve is reported as too slow.
const slowSolve = 30 * time.Second

// Solver is a placement strategy.
type Solver interface {
	// Name identifies the strategy in logs and reports.
	Name() string

	// HeightSupport returns the height variants the solver handles natively.
	HeightSupport() model.HeightSupport

	// Pack performs one packing attempt. The solver owns params and may
	// mutate its rectangles. It returns an error wrapping ErrInvalidArgument
	// when CanSolve is false, and ErrNoSolution when it cannot place everything.
	Pack(params model.Parameters) (*model.Solution, error)
}

// CanSolve reports whether the solver supports the height variant of params.
func CanSolve(s Solver, params model.Parameters) bool {
	return s.HeightSupport().Contains(params.HeightVariant)
}

// unsupported builds the error returned by Pack for an unsupported variant.
func unsupported(s Solver, params model.Parameters) error {
	return fmt.Errorf("%w: %s supports %s, not %s height", ErrInvalidArgument, s.Name(), s.HeightSupport(), params.HeightVariant)
}

// StrategyError wraps a failure raised inside a strategy.
type StrategyError struct {
	Solver string
	Err    error
}

func (e *StrategyError) Error() string { return fmt.Sprintf("%s: %v", e.Solver, e.Err) }

// Unwrap returns the wrapped error.
func (e *StrategyError) Unwrap() error { return e.Err }

// safePack calls s.Pack and converts a panic into a StrategyError.
func safePack(s Solver, params model.Parameters) (sol *model.Solution, err error) {
	defer func() {
		if r := recover(); r != nil {
			sol = nil
			err = &StrategyError{Solver: s.Name(), Err: panicError(r)}
		}
	}()
	sol, err = s.Pack(params)
	if err == nil && sol == nil {
		err = ErrNoSolution
	}
	return sol, err
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}

// Solve is the entry point used by callers outside the engine. It copies
// params, times the call and stamps the elapsed time on the solution.
func Solve(logger *log.Logger, s Solver, params model.Parameters) (*model.Solution, error) {
	if logger == nil {
		logger = log.Default()
	}
	if !CanSolve(s, params) {
		return nil, unsupported(s, params)
	}

	start := time.Now()
	sol, err := s.Pack(params.Copy())
	elapsed := time.Since(start)

	if elapsed > slowSolve {
		logger.Warn("packing exceeded time limit", "solver", s.Name(), "duration", elapsed.Round(time.Millisecond), "limit", slowSolve)
	}
	if err != nil {
		return nil, err
	}
	if sol == nil {
		return nil, ErrNoSolution
	}

	sol.Elapsed = elapsed
	logger.Debug("packed", "solver", sol.SolvedBy, "area", sol.Area(), "rate", sol.Rate(), "duration", elapsed.Round(time.Millisecond))
	return sol, nil
}
