package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arb-dashboard/internal/app"
	"arb-dashboard/internal/transport/http/middleware"
	"arb-dashboard/internal/transport/http/response"
	"arb-dashboard/internal/view"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required,max=8000"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	dc := middleware.DashboardFrom(c)
	sessionID, err := h.chatService.EnsureSession(c.Request.Context(), dc, middleware.TokenFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"session_id": sessionID, "message_count": len(dc.Messages)})
}

func (h *ChatHandler) NewSession(c *gin.Context) {
	dc := middleware.DashboardFrom(c)
	sessionID, err := h.chatService.NewSession(c.Request.Context(), dc, middleware.TokenFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"session_id": sessionID})
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	response.OK(c, view.NewConversation(middleware.DashboardFrom(c)))
}

func (h *ChatHandler) ClearMessages(c *gin.Context) {
	dc := middleware.DashboardFrom(c)
	h.chatService.ClearSession(dc)
	response.OK(c, view.NewConversation(dc))
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	dc := middleware.DashboardFrom(c)
	result, err := h.chatService.SendMessage(c.Request.Context(), dc, app.SendMessageInput{
		Token:     middleware.TokenFrom(c),
		UserEmail: middleware.IdentityFrom(c).Email,
		Text:      req.Message,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, gin.H{
		"assistant_key":    result.AssistantKey,
		"session_mismatch": result.SessionMismatch,
		"conversation":     view.NewConversation(dc),
	})
}
