package model

import "time"

// Algorithm names a built-in placement strategy.
type Algorithm string

const (
	AlgorithmMaxRects Algorithm = "maxrects" // Maximal-rectangles best-area-fit (fast)
	AlgorithmShelf    Algorithm = "shelf"    // Column next-fit decreasing height (fastest, supports free height)
	AlgorithmGenetic  Algorithm = "genetic"  // Genetic ordering over maxrects (slower, often better)
)

// SearchConfig controls the free-height search budget.
type SearchConfig struct {
	// Probe budget of the first pass, raised by CheckIncrement after each pass
	InitialChecks  int `json:"initial_checks" toml:"initial_checks"`
	CheckIncrement int `json:"check_increment" toml:"check_increment"`

	// Wall-clock budget across passes and the safety factor applied to the
	// previous pass duration when deciding whether another pass fits
	AllowedTimeMillis int     `json:"allowed_time_ms" toml:"allowed_time_ms"`
	ApproxFactor      float64 `json:"approx_factor" toml:"approx_factor"`

	MaxPasses int `json:"max_passes,omitempty" toml:"max_passes"` // 0 = limited by time only
}

// AllowedTime returns the wall-clock budget as a duration.
func (c SearchConfig) AllowedTime() time.Duration {
	return time.Duration(c.AllowedTimeMillis) * time.Millisecond
}

// DefaultSearchConfig returns a budget of about seven seconds per free-height solve.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		InitialChecks:     100,
		CheckIncrement:    25,
		AllowedTimeMillis: 7500,
		ApproxFactor:      1.25,
	}
}

// GeneticConfig holds parameters for the genetic strategy.
type GeneticConfig struct {
	PopulationSize int     `json:"population_size" toml:"population_size"`
	Generations    int     `json:"generations" toml:"generations"`
	MutationRate   float64 `json:"mutation_rate" toml:"mutation_rate"`
	TournamentSize int     `json:"tournament_size" toml:"tournament_size"`
	EliteCount     int     `json:"elite_count" toml:"elite_count"`
	Seed           int64   `json:"seed" toml:"seed"`
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 30,
		Generations:    40,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// Config holds harness-wide settings. It is passed explicitly to the
// components that need it rather than read from package state.
type Config struct {
	Search     SearchConfig  `json:"search" toml:"search"`
	Genetic    GeneticConfig `json:"genetic" toml:"genetic"`
	Strategies []string      `json:"strategies" toml:"strategies"` // Members of the default ensemble
	Verbose    bool          `json:"verbose" toml:"verbose"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		Search:  DefaultSearchConfig(),
		Genetic: DefaultGeneticConfig(),
		Strategies: []string{
			string(AlgorithmShelf),
			string(AlgorithmMaxRects),
			"free:" + string(AlgorithmMaxRects),
			string(AlgorithmGenetic),
		},
	}
}

// Normalize replaces zero or invalid values with defaults so a partially
// written config file still yields a usable Config.
func (c *Config) Normalize() {
	ds := DefaultSearchConfig()
	if c.Search.InitialChecks <= 0 {
		c.Search.InitialChecks = ds.InitialChecks
	}
	if c.Search.CheckIncrement <= 0 {
		c.Search.CheckIncrement = ds.CheckIncrement
	}
	if c.Search.AllowedTimeMillis <= 0 {
		c.Search.AllowedTimeMillis = ds.AllowedTimeMillis
	}
	if c.Search.ApproxFactor <= 1 {
		c.Search.ApproxFactor = ds.ApproxFactor
	}
	dg := DefaultGeneticConfig()
	if c.Genetic.PopulationSize <= 0 {
		c.Genetic.PopulationSize = dg.PopulationSize
	}
	if c.Genetic.Generations <= 0 {
		c.Genetic.Generations = dg.Generations
	}
	if c.Genetic.TournamentSize <= 0 {
		c.Genetic.TournamentSize = dg.TournamentSize
	}
	if c.Genetic.EliteCount < 0 {
		c.Genetic.EliteCount = 0
	}
	if len(c.Strategies) == 0 {
		c.Strategies = DefaultConfig().Strategies
	}
}
