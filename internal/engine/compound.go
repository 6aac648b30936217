package engine

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/strippack/internal/model"
)

// Attempt records what one member of a Compound did during a Pack call.
type Attempt struct {
	Solver   string
	Solution *model.Solution
	Err      error
	Skipped  bool // Member does not support the height variant
	Elapsed  time.Duration
}

// Compound runs several solvers on the same input and keeps the smallest
// packing. A member that fails or panics contributes nothing; the others
// still run. A provably optimal result ends the run early.
type Compound struct {
	solvers  []Solver
	logger   *log.Logger
	attempts []Attempt
	solvedBy string
}

func NewCompound(logger *log.Logger, solvers ...Solver) *Compound {
	if logger == nil {
		logger = log.Default()
	}
	return &Compound{solvers: solvers, logger: logger}
}

// Add appends a solver and returns the compound for chaining.
func (c *Compound) Add(s Solver) *Compound {
	c.solvers = append(c.solvers, s)
	return c
}

// Solvers returns the members in evaluation order.
func (c *Compound) Solvers() []Solver {
	return c.solvers
}

// Name returns the name of the member that produced the last retained
// result, or "compound" before any result. It changes with every Pack call,
// so a Compound nested in another is named after its own latest winner.
func (c *Compound) Name() string {
	if c.solvedBy == "" {
		return "compound"
	}
	return c.solvedBy
}

// HeightSupport is the union of the members' support.
func (c *Compound) HeightSupport() model.HeightSupport {
	var hs model.HeightSupport
	for _, s := range c.solvers {
		hs |= s.HeightSupport()
	}
	return hs
}

// Attempts returns the per-member outcomes of the last Pack call.
func (c *Compound) Attempts() []Attempt {
	return c.attempts
}

// Pack evaluates the members in order and returns the best admissible result.
func (c *Compound) Pack(params model.Parameters) (*model.Solution, error) {
	if !CanSolve(c, params) {
		return nil, unsupported(c, params)
	}
	template := params.Copy()
	c.attempts = make([]Attempt, 0, len(c.solvers))
	c.solvedBy = ""

	var best *model.Solution
	for _, s := range c.solvers {
		a := c.attempt(s, template)
		c.attempts = append(c.attempts, a)
		if a.Skipped || a.Err != nil {
			continue
		}

		sol := a.Solution
		rate := sol.Rate()
		switch {
		case rate < 0:
			c.logger.Warn("discarding result with negative rate", "solver", a.Solver, "rate", rate)
			continue
		case rate < 1:
			c.logger.Warn("discarding impossible result", "solver", a.Solver, "rate", rate)
			continue
		case rate == 1:
			c.logger.Debug("optimal result, skipping remaining solvers", "solver", a.Solver)
			c.solvedBy = sol.SolvedBy
			return sol, nil
		}

		if sol.IsBetter(best) {
			c.logger.Debug("improved", "solver", a.Solver, "area", sol.Area())
			best = sol
		} else {
			c.logger.Debug("not better", "solver", a.Solver, "area", sol.Area())
		}
	}

	if best == nil {
		return nil, ErrNoSolution
	}
	c.solvedBy = best.SolvedBy
	return best, nil
}

// attempt runs a single member on its own copy of the template.
func (c *Compound) attempt(s Solver, template model.Parameters) Attempt {
	a := Attempt{Solver: s.Name()}
	if !CanSolve(s, template) {
		a.Skipped = true
		return a
	}

	start := time.Now()
	sol, err := safePack(s, template.Copy())
	a.Elapsed = time.Since(start)
	// Read the name again: a nested Compound renames itself during Pack.
	a.Solver = s.Name()

	switch {
	case errors.Is(err, ErrNoSolution):
		c.logger.Debug("no solution", "solver", a.Solver)
		a.Err = err
	case err != nil:
		c.logger.Error("solver failed", "solver", a.Solver, "err", err)
		a.Err = err
	default:
		if sol.SolvedBy == "" {
			sol.SolvedBy = a.Solver
		}
		sol.Elapsed = a.Elapsed
		a.Solution = sol
	}
	return a
}
