package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/quillsearch/search-agent/internal/api/middleware"
	"github.com/quillsearch/search-agent/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/search").
			To(handler.Search).
			Doc("Answer a query with web search and synthesis").
			Metadata(restfulspec.KeyOpenAPITags, []string{"search"}).
			Reads(models.SearchRequest{}).
			Writes(models.SearchResponse{}).
			Returns(200, "OK", models.SearchResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/conversations/{conversation_id}").
			To(handler.GetConversation).
			Doc("Fetch conversation history").
			Metadata(restfulspec.KeyOpenAPITags, []string{"conversations"}).
			Param(ws.PathParameter("conversation_id", "Conversation identifier").DataType("string")).
			Writes(models.ConversationHistory{}).
			Returns(200, "OK", models.ConversationHistory{}).
			Returns(404, "Conversation Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
