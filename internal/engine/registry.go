package engine

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/strippack/internal/model"
)

const (
	freePrefix   = "free:"
	ensembleName = "ensemble"
)

// New builds the solver registered under name. "free:<name>" wraps a
// fixed-height solver in a FreeHeight search and "ensemble" builds a
// Compound over cfg.Strategies.
func New(name string, cfg model.Config, logger *log.Logger) (Solver, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	switch {
	case name == string(model.AlgorithmMaxRects):
		return NewMaxRects(), nil
	case name == string(model.AlgorithmShelf):
		return NewShelf(), nil
	case name == string(model.AlgorithmGenetic):
		return NewGenetic(cfg.Genetic), nil
	case strings.HasPrefix(name, freePrefix):
		sub, err := New(strings.TrimPrefix(name, freePrefix), cfg, logger)
		if err != nil {
			return nil, err
		}
		free, err := NewFreeHeight(sub, cfg.Search, logger)
		if err != nil {
			return nil, err
		}
		return free, nil
	case name == ensembleName:
		var members []Solver
		for _, n := range cfg.Strategies {
			if strings.EqualFold(strings.TrimSpace(n), ensembleName) {
				return nil, fmt.Errorf("%w: ensemble cannot contain itself", ErrInvalidArgument)
			}
			s, err := New(n, cfg, logger)
			if err != nil {
				return nil, err
			}
			members = append(members, s)
		}
		return NewCompound(logger, members...), nil
	}
	return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidArgument, name)
}

// Strategies builds a solver for each name, in order.
func Strategies(names []string, cfg model.Config, logger *log.Logger) ([]Solver, error) {
	solvers := make([]Solver, 0, len(names))
	for _, name := range names {
		s, err := New(name, cfg, logger)
		if err != nil {
			return nil, err
		}
		solvers = append(solvers, s)
	}
	return solvers, nil
}
