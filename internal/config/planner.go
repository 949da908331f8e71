package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HardSearchCap is the upper bound on search strings per query. Config
// may lower it but never raise it.
const HardSearchCap = 3

func LoadPlannerConfig() (*PlannerConfig, error) {
	path := os.Getenv("PLANNER_CONFIG_PATH")
	if path == "" {
		path = "configs/planner.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg PlannerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultPlannerConfig is used when no YAML file is present (CLI and
// tests).
func DefaultPlannerConfig() *PlannerConfig {
	cfg := &PlannerConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *PlannerConfig) {
	if cfg.Planner.MaxSearches == 0 {
		cfg.Planner.MaxSearches = HardSearchCap
	}
	if cfg.Planner.MinClauseLength == 0 {
		cfg.Planner.MinClauseLength = 12
	}
	if len(cfg.Planner.Conjunctions) == 0 {
		cfg.Planner.Conjunctions = []string{" and ", " or ", " versus ", " vs ", " compared to "}
	}
}

func (c *PlannerConfig) Validate() error {
	if c.Planner.MaxSearches < 1 || c.Planner.MaxSearches > HardSearchCap {
		return fmt.Errorf("planner.max_searches must be between 1 and %d, got %d", HardSearchCap, c.Planner.MaxSearches)
	}
	if c.Planner.MinClauseLength < 0 {
		return fmt.Errorf("planner.min_clause_length must not be negative, got %d", c.Planner.MinClauseLength)
	}
	return nil
}
