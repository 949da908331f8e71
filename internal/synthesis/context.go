package synthesis

import (
	"fmt"
	"strings"

	"github.com/quillsearch/search-agent/internal/models"
)

const (
	// DefaultMaxPriorTurns bounds how many most-recent turns go into the
	// grounding context. Older turns are dropped whole, never truncated
	// mid-sentence.
	DefaultMaxPriorTurns = 3

	// DefaultCharBudget caps the serialized size of the result section.
	DefaultCharBudget = 6000
)

// ContextBuilder assembles the grounding context for answer synthesis.
type ContextBuilder struct {
	MaxPriorTurns int
	CharBudget    int
}

func NewContextBuilder(maxPriorTurns int, charBudget int) *ContextBuilder {
	if maxPriorTurns <= 0 {
		maxPriorTurns = DefaultMaxPriorTurns
	}
	if charBudget <= 0 {
		charBudget = DefaultCharBudget
	}
	return &ContextBuilder{
		MaxPriorTurns: maxPriorTurns,
		CharBudget:    charBudget,
	}
}

// Build selects the most-recent prior turns and as many results as fit
// the character budget, dropping lowest-ranked (latest-appended) results
// first.
func (b *ContextBuilder) Build(query string, history []models.Turn, results []models.SearchResult) models.SynthesisContext {
	prior := history
	if len(prior) > b.MaxPriorTurns {
		prior = prior[len(prior)-b.MaxPriorTurns:]
	}

	var kept []models.SearchResult
	used := 0
	for _, r := range results {
		size := len(r.Title) + len(r.Snippet) + len(r.Domain)
		if used+size > b.CharBudget {
			break
		}
		used += size
		kept = append(kept, r)
	}

	return models.SynthesisContext{
		Query:      query,
		PriorTurns: prior,
		Results:    kept,
	}
}

// Render serializes the context into the synthesis prompt.
func Render(sctx models.SynthesisContext) string {
	var sb strings.Builder

	if len(sctx.PriorTurns) > 0 {
		sb.WriteString("Conversation history:\n")
		for _, turn := range sctx.PriorTurns {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
		}
		sb.WriteString("\n")
	}

	if len(sctx.Results) > 0 {
		sb.WriteString("Search results:\n<context>\n")
		for i, r := range sctx.Results {
			fmt.Fprintf(&sb, "[%d] %s (%s)\n%s\n\n", i+1, r.Title, r.Domain, r.Snippet)
		}
		sb.WriteString("</context>\n\n")
	} else {
		sb.WriteString("No search results were available for this query.\n\n")
	}

	fmt.Fprintf(&sb, `You are a helpful research assistant.

Current question: %s

Answer in plain text using only the information above. Cite facts to the
numbered results where possible. If no results were available, say so and
give your best general-knowledge answer.`, sctx.Query)

	return sb.String()
}
