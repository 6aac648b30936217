package engine

import (
	"testing"

	"github.com/piwi3910/strippack/internal/model"
	"github.com/piwi3910/strippack/internal/verify"
)

func makeTestGeneticConfig() model.GeneticConfig {
	cfg := model.DefaultGeneticConfig()
	cfg.PopulationSize = 12
	cfg.Generations = 10
	return cfg
}

func makeTestParams() model.Parameters {
	return model.NewParameters(model.HeightFixed, 12, false,
		[2]int{4, 3}, [2]int{2, 1}, [2]int{2, 1}, [2]int{5, 4},
		[2]int{3, 6}, [2]int{7, 2}, [2]int{1, 9}, [2]int{6, 6},
	)
}

func TestGeneticPlacesAllRectangles(t *testing.T) {
	sol, err := NewGenetic(makeTestGeneticConfig()).Pack(makeTestParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range sol.Parameters.Rectangles {
		if !r.Placed() {
			t.Errorf("rectangle %s was not placed", r.ID)
		}
	}
	if report := verify.Check(sol); !report.Valid() {
		t.Errorf("expected a valid packing, got %v", report.Problems)
	}
}

func TestGeneticNotWorseThanGreedy(t *testing.T) {
	params := makeTestParams()

	greedy, err := NewMaxRects().Pack(params.Copy())
	if err != nil {
		t.Fatalf("maxrects failed: %v", err)
	}
	genetic, err := NewGenetic(makeTestGeneticConfig()).Pack(params.Copy())
	if err != nil {
		t.Fatalf("genetic failed: %v", err)
	}

	// The greedy order seeds the population and elitism keeps it.
	if genetic.Area() > greedy.Area() {
		t.Errorf("genetic area %d worse than greedy area %d", genetic.Area(), greedy.Area())
	}
}

func TestGeneticIsDeterministicForSeed(t *testing.T) {
	params := makeTestParams()
	first, err := NewGenetic(makeTestGeneticConfig()).Pack(params.Copy())
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewGenetic(makeTestGeneticConfig()).Pack(params.Copy())
	if err != nil {
		t.Fatal(err)
	}
	if first.Area() != second.Area() {
		t.Errorf("same seed gave areas %d and %d", first.Area(), second.Area())
	}
}

func TestGeneticEmptyInput(t *testing.T) {
	_, err := NewGenetic(makeTestGeneticConfig()).Pack(model.Parameters{HeightVariant: model.HeightFixed, Height: 5})
	if err != ErrNoSolution {
		t.Errorf("expected ErrNoSolution, got %v", err)
	}
}

func TestOrderCrossoverKeepsPermutation(t *testing.T) {
	ga := &geneticOptimizer{config: makeTestGeneticConfig(), params: makeTestParams(), rng: newTestRand()}
	pop := ga.initPopulation()

	for i := 0; i < 50; i++ {
		child := ga.orderCrossover(pop[i%len(pop)], pop[(i+1)%len(pop)])
		ga.mutate(&child)

		seen := make(map[int]bool)
		for _, g := range child.genes {
			if seen[g.rectIndex] {
				t.Fatalf("duplicate gene %d in child", g.rectIndex)
			}
			seen[g.rectIndex] = true
		}
		if len(seen) != len(ga.params.Rectangles) {
			t.Fatalf("child has %d genes, want %d", len(seen), len(ga.params.Rectangles))
		}
	}
}

func TestMutateNeverRotatesWhenDisallowed(t *testing.T) {
	cfg := makeTestGeneticConfig()
	cfg.MutationRate = 1
	ga := &geneticOptimizer{config: cfg, params: makeTestParams(), rng: newTestRand()}
	pop := ga.initPopulation()

	for i := range pop {
		ga.mutate(&pop[i])
		for _, g := range pop[i].genes {
			if g.rotated {
				t.Fatalf("gene %d rotated with rotation disabled", g.rectIndex)
			}
		}
	}
}
