package chatbot

import (
	"github.com/gin-gonic/gin"

	"github.com/sdc-club/backend/pkg/response"
)

// ChatRequest is the body for POST /api/chat.
type ChatRequest struct {
	Text string `json:"text"`
}

// Handler serves the chat responder over HTTP.
type Handler struct {
	matcher *Matcher
}

// NewHandler creates a chat handler backed by matcher.
func NewHandler(matcher *Matcher) *Handler {
	return &Handler{matcher: matcher}
}

// Respond handles POST /api/chat. Unmatched text is answered with a default response, never an error.
func (h *Handler) Respond(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid chat request", err.Error())
		return
	}
	response.OK(c, h.matcher.Respond(req.Text))
}
