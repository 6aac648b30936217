package model

import (
	"testing"
	"time"
)

func TestDefaultSearchConfig(t *testing.T) {
	c := DefaultSearchConfig()
	if c.InitialChecks != 100 {
		t.Errorf("expected InitialChecks=100, got %d", c.InitialChecks)
	}
	if c.AllowedTime() != 7500*time.Millisecond {
		t.Errorf("expected 7.5s budget, got %s", c.AllowedTime())
	}
	if c.ApproxFactor <= 1 {
		t.Errorf("approx factor must exceed 1, got %f", c.ApproxFactor)
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	var c Config
	c.Genetic.EliteCount = -3
	c.Normalize()

	d := DefaultConfig()
	if c.Search != d.Search {
		t.Errorf("expected default search config, got %+v", c.Search)
	}
	if c.Genetic.PopulationSize != d.Genetic.PopulationSize {
		t.Errorf("expected PopulationSize=%d, got %d", d.Genetic.PopulationSize, c.Genetic.PopulationSize)
	}
	if c.Genetic.EliteCount != 0 {
		t.Errorf("negative elite count should clamp to 0, got %d", c.Genetic.EliteCount)
	}
	if len(c.Strategies) != len(d.Strategies) {
		t.Errorf("expected default strategies, got %v", c.Strategies)
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	c := Config{
		Search:     SearchConfig{InitialChecks: 10, CheckIncrement: 5, AllowedTimeMillis: 200, ApproxFactor: 2, MaxPasses: 3},
		Strategies: []string{"shelf"},
	}
	c.Normalize()

	if c.Search.InitialChecks != 10 || c.Search.AllowedTimeMillis != 200 || c.Search.MaxPasses != 3 {
		t.Errorf("explicit search values overwritten: %+v", c.Search)
	}
	if len(c.Strategies) != 1 || c.Strategies[0] != "shelf" {
		t.Errorf("explicit strategies overwritten: %v", c.Strategies)
	}
}
