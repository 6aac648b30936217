package engine

import (
	"math"
	"math/rand"
	"sort"

	"github.com/piwi3910/strippack/internal/model"
)

// gene represents a single rectangle placement decision in the chromosome.
type gene struct {
	rectIndex int  // Index into the parameters' rectangles
	rotated   bool // Whether this rectangle should be rotated 90 degrees
}

// chromosome represents a candidate solution: an ordering of rectangles with rotation flags.
type chromosome struct {
	genes   []gene
	fitness int64 // Packed area, lower is better
}

// Genetic searches over insertion orders and orientations for the
// maxrects packer on a fixed-height strip.
type Genetic struct {
	config model.GeneticConfig
}

func NewGenetic(config model.GeneticConfig) *Genetic {
	return &Genetic{config: config}
}

func (g *Genetic) Name() string { return string(model.AlgorithmGenetic) }

func (g *Genetic) HeightSupport() model.HeightSupport {
	return model.SupportOf(model.HeightFixed)
}

func (g *Genetic) Pack(params model.Parameters) (*model.Solution, error) {
	if !CanSolve(g, params) {
		return nil, unsupported(g, params)
	}
	if len(params.Rectangles) == 0 {
		return nil, ErrNoSolution
	}

	config := g.config
	// Scale generations for larger problems
	if n := len(params.Rectangles); n > 50 {
		config.Generations += config.Generations / 2
		config.PopulationSize += config.PopulationSize / 2
	}

	ga := &geneticOptimizer{
		config: config,
		params: params,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
	best := ga.optimize()
	if best.fitness == math.MaxInt64 {
		return nil, ErrNoSolution
	}

	p, ok := ga.decode(best)
	if !ok {
		return nil, ErrNoSolution
	}
	return model.NewSolution(p, g.Name()), nil
}

// geneticOptimizer holds the state of one genetic run.
type geneticOptimizer struct {
	config model.GeneticConfig
	params model.Parameters
	rng    *rand.Rand
}

// optimize runs the genetic algorithm and returns the best chromosome.
func (g *geneticOptimizer) optimize() chromosome {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		newPop := make([]chromosome, 0, len(population))

		// Elitism: carry over the best individuals unchanged
		eliteCount := min(g.config.EliteCount, len(population))
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, copyChromosome(population[i]))
		}

		for len(newPop) < len(population) {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sortByFitness(population)
	return population[0]
}

func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness < population[j].fitness
	})
}

// initPopulation creates the initial random population, seeded with the
// greedy largest-area-first order.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.params.Rectangles)
	size := max(g.config.PopulationSize, 1)
	population := make([]chromosome, size)

	for i := range population {
		genes := make([]gene, n)
		perm := g.rng.Perm(n)
		for j := 0; j < n; j++ {
			genes[j] = gene{
				rectIndex: perm[j],
				rotated:   g.params.RotationAllowed && g.rng.Float64() < 0.5,
			}
		}
		population[i] = chromosome{genes: genes}
	}

	greedy := areaDescending(g.params.Rectangles)
	genes := make([]gene, n)
	for i, idx := range greedy {
		genes[i] = gene{rectIndex: idx}
	}
	population[0] = chromosome{genes: genes}

	return population
}

// decode packs a copy of the parameters in the chromosome's order.
func (g *geneticOptimizer) decode(c chromosome) (model.Parameters, bool) {
	p := g.params.Copy()
	p.ResetPlacement()

	order := make([]int, len(c.genes))
	prefer := make([]bool, len(c.genes))
	for i, gn := range c.genes {
		order[i] = gn.rectIndex
		prefer[i] = gn.rotated
	}
	ok := packOrdered(&p, order, prefer, rotAllNormal)
	return p, ok
}

// evaluate returns the packed area of a chromosome, or MaxInt64 if it
// does not decode into a full packing.
func (g *geneticOptimizer) evaluate(c chromosome) int64 {
	p, ok := g.decode(c)
	if !ok {
		return math.MaxInt64
	}
	return model.NewSolution(p, "").Area()
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness < best.fitness {
			best = candidate
		}
	}
	return copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
// It preserves the relative order of genes from both parents.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]gene, n)}

	inSegment := make(map[int]bool)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i].rectIndex] = true
	}

	// Fill remaining positions with genes from parent2 in order
	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg.rectIndex] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap, rotation and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	if g.params.RotationAllowed && g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		c.genes[i].rotated = !c.genes[i].rotated
	}

	// Inversion mutation: reverse a small segment (less frequent)
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

// copyChromosome creates a deep copy of a chromosome.
func copyChromosome(c chromosome) chromosome {
	genes := make([]gene, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
