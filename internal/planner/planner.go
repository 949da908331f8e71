package planner

import (
	"errors"
	"strings"

	"github.com/quillsearch/search-agent/internal/config"
	"github.com/quillsearch/search-agent/internal/models"
	"github.com/rs/zerolog"
)

var ErrEmptyQuery = errors.New("query is empty")

// Planner derives the concrete search strings for one user query. It is
// a pure heuristic: the raw query always comes first, extra strings are
// clauses split off multi-faceted queries, and output is capped at the
// configured maximum (never above config.HardSearchCap).
type Planner struct {
	policy config.PlannerPolicy
	logger *zerolog.Logger
}

func NewPlanner(cfg *config.PlannerConfig, logger *zerolog.Logger) *Planner {
	return &Planner{
		policy: cfg.Planner,
		logger: logger,
	}
}

func (p *Planner) Plan(query string, history []models.Turn) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	cap := p.policy.MaxSearches
	if cap < 1 || cap > config.HardSearchCap {
		cap = config.HardSearchCap
	}

	plan := []string{query}

	// Follow-ups referencing the recent exchange get a single search;
	// splitting "tell me more about that" into clauses only adds noise.
	if isFollowUp(query) && len(history) >= 2 {
		p.logger.Debug().Str("query", query).Msg("follow-up detected, single search")
		return plan, nil
	}

	seen := map[string]bool{strings.ToLower(query): true}

	for _, clause := range p.splitClauses(query) {
		if len(plan) >= cap {
			break
		}
		clause = strings.TrimSpace(clause)
		if len(clause) < p.policy.MinClauseLength {
			continue
		}
		key := strings.ToLower(clause)
		if seen[key] {
			continue
		}
		seen[key] = true
		plan = append(plan, clause)
	}

	p.logger.Debug().
		Str("query", query).
		Int("searches", len(plan)).
		Msg("search plan built")

	return plan, nil
}

func isFollowUp(query string) bool {
	lower := strings.ToLower(query)
	for _, prefix := range []string{"it ", "that ", "this ", "these ", "those ", "tell me more", "can you elaborate"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// splitClauses breaks the query on sub-question punctuation first, then
// on coordinating conjunctions. A query with no separators yields no
// extra clauses.
func (p *Planner) splitClauses(query string) []string {
	var clauses []string

	questions := strings.Split(query, "?")
	if len(questions) > 2 {
		for _, q := range questions {
			if strings.TrimSpace(q) != "" {
				clauses = append(clauses, strings.TrimSpace(q)+"?")
			}
		}
		return clauses
	}

	lower := strings.ToLower(query)
	for _, conj := range p.policy.Conjunctions {
		if idx := strings.Index(lower, conj); idx >= 0 {
			clauses = append(clauses, query[:idx], query[idx+len(conj):])
			return clauses
		}
	}

	return nil
}
