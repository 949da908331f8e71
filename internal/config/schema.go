package config

// PlannerConfig is the root of configs/planner.yaml.
type PlannerConfig struct {
	Planner PlannerPolicy `yaml:"planner"`
}

// PlannerPolicy is the explicit, testable search-planning policy: which
// separators suggest a multi-faceted query and how many search strings
// may be issued for one user query.
type PlannerPolicy struct {
	MaxSearches     int      `yaml:"max_searches"`
	MinClauseLength int      `yaml:"min_clause_length"`
	Conjunctions    []string `yaml:"conjunctions"`
}
