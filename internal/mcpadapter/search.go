package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/quillsearch/search-agent/internal/models"
	"github.com/quillsearch/search-agent/internal/orchestrator"
)

// SearchInput is the MCP tool input schema (matches HTTP API field names).
type SearchInput struct {
	Query          string `json:"query" jsonschema:"natural-language query to answer"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"existing conversation to continue"`
}

// NewSearchHandler returns a tool handler that uses the given orchestrator.
// Pass the returned function to mcp.AddTool.
func NewSearchHandler(orch *orchestrator.Orchestrator) func(context.Context, *mcp.CallToolRequest, SearchInput) (*mcp.CallToolResult, models.SearchResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, models.SearchResponse, error) {
		return SearchResponse(ctx, orch, req, input)
	}
}

// SearchResponse runs the full search pipeline and returns the result.
func SearchResponse(
	ctx context.Context,
	orch *orchestrator.Orchestrator,
	req *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, models.SearchResponse, error) {
	result, err := orch.HandleSearch(ctx, input.Query, input.ConversationID)
	return nil, result, err
}

// HistoryInput is the MCP tool input schema for history lookups.
type HistoryInput struct {
	ConversationID string `json:"conversation_id" jsonschema:"conversation identifier"`
}

// NewHistoryHandler returns a tool handler for conversation history.
func NewHistoryHandler(orch *orchestrator.Orchestrator) func(context.Context, *mcp.CallToolRequest, HistoryInput) (*mcp.CallToolResult, models.ConversationHistory, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, models.ConversationHistory, error) {
		turns, err := orch.GetHistory(input.ConversationID)
		if err != nil {
			return nil, models.ConversationHistory{}, err
		}
		return nil, models.ConversationHistory{
			ConversationID: input.ConversationID,
			Turns:          turns,
		}, nil
	}
}
