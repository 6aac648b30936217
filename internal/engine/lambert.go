package engine

import "math"

// branchPoint is -1/e, the left end of the domain of both real Lambert W branches.
var branchPoint = -1 / math.E

// LambertWm1 evaluates the lower real branch W₋₁ of the Lambert W function,
// the solution w ≤ -1 of w·eʷ = x for x in [-1/e, 0). It returns NaN outside
// that domain.
func LambertWm1(x float64) float64 {
	switch {
	case math.IsNaN(x) || x < branchPoint || x >= 0:
		return math.NaN()
	case x == branchPoint:
		return -1
	}

	// Seed with the series around the branch point, or the logarithmic
	// asymptote once x is close to zero.
	var w float64
	if x < -0.25 {
		p := -math.Sqrt(2 * (1 + math.E*x))
		w = -1 + p - p*p/3 + 11*p*p*p/72
	} else {
		l1 := math.Log(-x)
		l2 := math.Log(-l1)
		w = l1 - l2 + l2/l1
	}

	// Halley iteration on f(w) = w·eʷ - x.
	for i := 0; i < 64; i++ {
		ew := math.Exp(w)
		f := w*ew - x
		wp1 := w + 1
		if wp1 == 0 {
			break
		}
		step := f / (ew*wp1 - (w+2)*f/(2*wp1))
		w -= step
		if math.Abs(step) <= 1e-14*(1+math.Abs(w)) {
			break
		}
	}
	return w
}

// Sizing returns the estimated number of refinement rounds and the number
// of probes per round for a search over candidates distinct heights with a
// total budget of numChecks probes. The per-round count is chosen so that
// the range shrinks geometrically to unit resolution while the total number
// of probes stays close to numChecks.
func Sizing(numChecks, candidates int) (rounds, perRound float64) {
	if numChecks <= 0 || candidates < 2 {
		return 1, float64(max(candidates, 1))
	}
	n := float64(numChecks)
	l1 := math.Log(1 / float64(candidates))

	rounds = l1 / LambertWm1(math.Max(2*l1/n, branchPoint))
	perRound = n * LambertWm1(math.Max(l1/n, branchPoint)) / l1
	return rounds, perRound
}
