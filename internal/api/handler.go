package api

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/quillsearch/search-agent/internal/api/middleware"
	"github.com/quillsearch/search-agent/internal/conversation"
	"github.com/quillsearch/search-agent/internal/models"
	"github.com/quillsearch/search-agent/internal/orchestrator"
	"github.com/rs/zerolog"
)

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

type Handler struct {
	orchestrator *orchestrator.Orchestrator
	logger       *zerolog.Logger
}

func NewHandler(orch *orchestrator.Orchestrator, logger *zerolog.Logger) *Handler {
	return &Handler{
		orchestrator: orch,
		logger:       logger,
	}
}

// POST /api/v1/search
// Body: SearchRequest
// Returns: SearchResponse
func (h *Handler) Search(req *restful.Request, resp *restful.Response) {
	var searchRequest models.SearchRequest
	if err := req.ReadEntity(&searchRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("query", searchRequest.Query).
		Str("conversation_id", searchRequest.ConversationID).
		Msg("Start search")

	ctx := req.Request.Context()

	result, err := h.orchestrator.HandleSearch(ctx, searchRequest.Query, searchRequest.ConversationID)
	if err != nil {
		if errors.Is(err, orchestrator.ErrInvalidQuery) {
			middleware.HandleError(resp, err, http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Msg("Search failed")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	h.logger.Info().
		Str("conversation_id", result.ConversationID).
		Int("results", len(result.Results)).
		Msg("Search complete")

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// GET /api/v1/conversations/{conversation_id}
func (h *Handler) GetConversation(req *restful.Request, resp *restful.Response) {
	conversationID := req.PathParameter("conversation_id")

	turns, err := h.orchestrator.GetHistory(conversationID)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			middleware.HandleError(resp, err, http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("History lookup failed")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, models.ConversationHistory{
		ConversationID: conversationID,
		Turns:          turns,
	})
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}
