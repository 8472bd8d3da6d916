package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edgard/commerce-agent/internal/chat"
	"github.com/edgard/commerce-agent/internal/database"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Commerce AI Agent API is running!",
		"endpoints": gin.H{
			"chat":        "/api/chat",
			"proxy_image": "/api/proxy-image",
			"health":      "/health",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "Commerce AI Agent"})
}

// chatRequestBody is the wire form of a chat request. Pointers make
// "required" check key presence only, so empty values still reach the
// orchestrator.
type chatRequestBody struct {
	Message *string `json:"message" binding:"required"`
	Type    *string `json:"type"    binding:"required"`
	Image   *string `json:"image"`
}

func (b chatRequestBody) request() chat.Request {
	return chat.Request{
		Message: *b.Message,
		Type:    chat.RequestType(*b.Type),
		Image:   b.Image,
	}
}

func (s *Server) handleChat(c *gin.Context) {
	var body chatRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat request: " + err.Error()})
		return
	}
	req := body.request()

	ctx := c.Request.Context()
	resp := s.deps.Processor.Process(ctx, req)
	s.deps.Recorder.Record(ctx, database.SourceHTTP, req, resp)

	c.JSON(http.StatusOK, resp)
}
