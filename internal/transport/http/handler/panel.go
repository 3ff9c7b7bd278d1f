package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"arb-dashboard/internal/app"
	"arb-dashboard/internal/model"
	"arb-dashboard/internal/transport/http/middleware"
	"arb-dashboard/internal/transport/http/response"
	"arb-dashboard/internal/view"
)

type PanelHandler struct {
	panelService *app.PanelService
	chatService  *app.ChatService
}

type SubmitFeedbackRequest struct {
	MessageKey       string   `json:"message_key" binding:"required"`
	ResponseID       model.ID `json:"response_id"`
	ChatHistoryID    model.ID `json:"chat_history_id"`
	IsHelpful        *bool    `json:"is_helpful"`
	Rating           *int     `json:"rating"`
	FeedbackCategory *string  `json:"feedback_category"`
	FeedbackText     *string  `json:"feedback_text"`
	IsAccurate       *bool    `json:"is_accurate"`
	IsRelevant       *bool    `json:"is_relevant"`
	IsClear          *bool    `json:"is_clear"`
	IsComplete       *bool    `json:"is_complete"`
}

func NewPanelHandler(panelService *app.PanelService, chatService *app.ChatService) *PanelHandler {
	return &PanelHandler{panelService: panelService, chatService: chatService}
}

func (h *PanelHandler) Status(c *gin.Context) {
	state := h.panelService.Status(c.Request.Context(), middleware.TokenFrom(c))
	label := "Offline"
	if state.Online {
		label = "Online"
	}
	response.OK(c, gin.H{"label": label, "state": state})
}

func (h *PanelHandler) FAQ(c *gin.Context) {
	faqs, err := h.panelService.FAQ(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), refreshRequested(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"items": view.NewFAQItems(faqs)})
}

func (h *PanelHandler) MyFeedback(c *gin.Context) {
	history, err := h.panelService.MyFeedback(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), refreshRequested(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{
		"feedback_history": history.FeedbackHistory,
		"recent":           view.NewRecentFeedback(history),
	})
}

func (h *PanelHandler) FeedbackStats(c *gin.Context) {
	stats, err := h.panelService.FeedbackStats(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), refreshRequested(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *PanelHandler) SubmitFeedback(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	sub, err := h.chatService.SubmitFeedback(c.Request.Context(), middleware.DashboardFrom(c), app.FeedbackInput{
		Token:         middleware.TokenFrom(c),
		MessageKey:    req.MessageKey,
		ResponseID:    req.ResponseID,
		ChatHistoryID: req.ChatHistoryID,
		IsHelpful:     req.IsHelpful,
		Rating:        req.Rating,
		Category:      req.FeedbackCategory,
		Text:          req.FeedbackText,
		IsAccurate:    req.IsAccurate,
		IsRelevant:    req.IsRelevant,
		IsClear:       req.IsClear,
		IsComplete:    req.IsComplete,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, gin.H{
		"message_key":     req.MessageKey,
		"use_latest_chat": sub.UseLatestChat,
		"message":         "Feedback submitted! Thank you..!!",
	})
}
