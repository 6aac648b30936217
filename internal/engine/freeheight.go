package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/strippack/internal/model"
)

// SearchStats describes the most recent free-height search.
type SearchStats struct {
	Passes     int
	Probes     int
	BestHeight int
	Elapsed    time.Duration
}

// FreeHeight turns a fixed-height solver into a free-height one by
// searching for the container height that minimizes the packed area.
//
// Each pass is a multi-resolution line search over [MinimumHeight,
// MaximumHeight]: a round samples the current range at a uniform step,
// recenters on the best sample and narrows the range to one step either
// side, until the step reaches a single unit. Passes repeat with a growing
// probe budget while the time budget allows another one.
type FreeHeight struct {
	sub    Solver
	cfg    model.SearchConfig
	logger *log.Logger
	now    func() time.Time
	stats  SearchStats
}

// NewFreeHeight wraps sub, which must support fixed height.
func NewFreeHeight(sub Solver, cfg model.SearchConfig, logger *log.Logger) (*FreeHeight, error) {
	if sub == nil {
		return nil, fmt.Errorf("%w: nil sub-solver", ErrInvalidArgument)
	}
	if !sub.HeightSupport().Contains(model.HeightFixed) {
		return nil, fmt.Errorf("%w: %s does not support fixed height", ErrInvalidArgument, sub.Name())
	}
	if logger == nil {
		logger = log.Default()
	}
	if cfg.InitialChecks <= 0 {
		cfg.InitialChecks = model.DefaultSearchConfig().InitialChecks
	}
	if cfg.ApproxFactor <= 1 {
		cfg.ApproxFactor = model.DefaultSearchConfig().ApproxFactor
	}
	return &FreeHeight{sub: sub, cfg: cfg, logger: logger, now: time.Now}, nil
}

func (f *FreeHeight) Name() string {
	return "free(" + f.sub.Name() + ")"
}

func (f *FreeHeight) HeightSupport() model.HeightSupport {
	return model.SupportOf(model.HeightFree)
}

// Stats returns statistics of the last Pack call.
func (f *FreeHeight) Stats() SearchStats {
	return f.stats
}

// Pack searches for the best container height. The result reports a free
// height variant with Height set to the achieved height.
func (f *FreeHeight) Pack(params model.Parameters) (*model.Solution, error) {
	if !CanSolve(f, params) {
		return nil, unsupported(f, params)
	}
	if len(params.Rectangles) == 0 {
		return nil, fmt.Errorf("%w: no rectangles", ErrInvalidArgument)
	}
	params.FreeHeightProbe = true
	f.stats = SearchStats{}

	allowed := f.cfg.AllowedTime()
	numChecks := f.cfg.InitialChecks

	begin := f.now()
	best, probes := f.search(params, numChecks)
	last := f.now().Sub(begin)
	total := last
	f.stats.Passes = 1
	f.stats.Probes = probes

	for f.cfg.MaxPasses <= 0 || f.stats.Passes < f.cfg.MaxPasses {
		numChecks += f.cfg.CheckIncrement
		if total+time.Duration(float64(last)*f.cfg.ApproxFactor) >= allowed {
			break
		}

		start := f.now()
		sol, n := f.search(params, numChecks)
		last = f.now().Sub(start)
		total += last
		f.stats.Passes++
		f.stats.Probes += n

		if sol != nil && sol.IsBetter(best) {
			best = sol
		}
	}
	f.stats.Elapsed = total

	if best == nil {
		f.logger.Debug("free-height search found nothing", "solver", f.sub.Name(), "passes", f.stats.Passes, "probes", f.stats.Probes)
		return nil, ErrNoSolution
	}

	f.stats.BestHeight = best.Parameters.Height
	best.Parameters.FreeHeightProbe = false
	best.Parameters.HeightVariant = model.HeightFree
	best.Parameters.Height = best.Height()
	best.SolvedBy = f.Name()

	f.logger.Debug("free-height search done",
		"solver", f.sub.Name(),
		"passes", f.stats.Passes,
		"probes", f.stats.Probes,
		"height", f.stats.BestHeight,
		"area", best.Area(),
		"duration", total.Round(time.Millisecond))
	return best, nil
}

// probe packs a copy of params at the given fixed height. Failed probes
// return nil.
func (f *FreeHeight) probe(params model.Parameters, height int) *model.Solution {
	p := params.Copy()
	p.HeightVariant = model.HeightFixed
	p.Height = height
	sol, err := safePack(f.sub, p)
	if err != nil {
		f.logger.Debug("probe failed", "solver", f.sub.Name(), "height", height, "err", err)
		return nil
	}
	return sol
}

// search runs one pass with a budget of numChecks probes and returns the
// best solution found and the number of probes made.
func (f *FreeHeight) search(params model.Parameters, numChecks int) (*model.Solution, int) {
	lo := params.MinimumHeight()
	hi := max(params.MaximumHeight(), lo)
	candidates := hi - lo

	probes := 0
	var best *model.Solution
	consider := func(h int) bool {
		sol := f.probe(params, h)
		probes++
		if sol == nil || !sol.IsBetter(best) {
			return false
		}
		best = sol
		return true
	}

	if candidates < 2 {
		for h := lo; h <= hi; h++ {
			consider(h)
		}
		return best, probes
	}

	rounds, perRound := Sizing(numChecks, candidates)
	if math.IsNaN(perRound) || perRound < 1 {
		perRound = 1
	}
	f.logger.Debug("search pass", "candidates", candidates, "checks", numChecks, "rounds", rounds, "per_round", perRound)

	center := lo + candidates/2
	consider(center)

	start, stop := lo, hi
	prevStep := candidates
	for {
		step := max(1, int(float64(stop-start)/perRound))
		if step >= prevStep {
			// A small per-round count would stop the range from shrinking.
			step = max(1, prevStep/2)
		}
		prevStep = step
		for h := start + step; h <= stop-step; h += step {
			if consider(h) {
				center = h
			}
		}
		start = max(lo, center-step)
		stop = min(hi, center+step)
		if step <= 1 {
			break
		}
	}
	return best, probes
}
