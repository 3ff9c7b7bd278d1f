package app

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"arb-dashboard/internal/dashboard"
	"arb-dashboard/internal/model"
	"arb-dashboard/internal/pkg/logger"
)

type ChatBackend interface {
	Health(ctx context.Context) (model.Opaque, error)
	CreateSession(ctx context.Context, token string) (string, error)
	Chat(ctx context.Context, token string, req model.ChatRequest) (*model.ChatReply, error)
	SubmitFeedback(ctx context.Context, token string, sub model.FeedbackSubmission) error
}

type UsagePublisher interface {
	PublishUsage(ctx context.Context, event model.UsageEvent) error
}

// ChatService reconciles the browser's conversation with the backend's
// session, response and chat-history ids.
type ChatService struct {
	backend   ChatBackend
	usage     UsagePublisher
	preflight bool
	now       func() time.Time
}

type SendMessageInput struct {
	Token     string
	UserEmail string
	Text      string
}

// SendMessageResult describes a completed turn. SessionMismatch is set when
// the backend answered for another session than the one sent.
type SendMessageResult struct {
	SessionID       string
	AssistantKey    string
	SessionMismatch bool
	Reply           *model.ChatReply
}

type FeedbackInput struct {
	Token         string
	MessageKey    string
	ResponseID    model.ID
	ChatHistoryID model.ID

	IsHelpful  *bool
	Rating     *int
	Category   *string
	Text       *string
	IsAccurate *bool
	IsRelevant *bool
	IsClear    *bool
	IsComplete *bool
}

// MaxFeedbackText bounds the free-text comment, in characters.
const MaxFeedbackText = 2000

var feedbackCategories = map[string]struct{}{
	"accuracy":     {},
	"helpfulness":  {},
	"clarity":      {},
	"completeness": {},
	"relevance":    {},
	"other":        {},
}

// NewChatService wires the chat flow. usage may be nil.
func NewChatService(backend ChatBackend, usage UsagePublisher, preflight bool) *ChatService {
	return &ChatService{
		backend:   backend,
		usage:     usage,
		preflight: preflight,
		now:       time.Now,
	}
}

// EnsureSession returns the context's session id, asking the backend for
// one when there is none yet.
func (s *ChatService) EnsureSession(ctx context.Context, dc *dashboard.Context, token string) (string, error) {
	if dc.HasSession() {
		return dc.SessionID, nil
	}
	id, err := s.createSession(ctx, token)
	if err != nil {
		return "", err
	}
	dc.SessionID = id
	return id, nil
}

// NewSession replaces the session and drops the conversation. Nothing
// changes if the backend cannot allocate a new id.
func (s *ChatService) NewSession(ctx context.Context, dc *dashboard.Context, token string) (string, error) {
	id, err := s.createSession(ctx, token)
	if err != nil {
		return "", err
	}
	dc.StartSession(id)
	return id, nil
}

func (s *ChatService) ClearSession(dc *dashboard.Context) {
	dc.ClearConversation()
}

func (s *ChatService) createSession(ctx context.Context, token string) (string, error) {
	id, err := s.backend.CreateSession(ctx, token)
	if err != nil {
		logger.Errorf("backend session creation failed: %v", err)
		return "", fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
	}
	logger.Infof("created backend session %s", id)
	return id, nil
}

// SendMessage runs one chat turn. The user message is kept even when the
// turn fails; the assistant message is only added on success.
func (s *ChatService) SendMessage(ctx context.Context, dc *dashboard.Context, input SendMessageInput) (*SendMessageResult, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrMessageEmpty
	}

	sessionID, err := s.EnsureSession(ctx, dc, input.Token)
	if err != nil {
		return nil, err
	}

	if s.preflight {
		if _, err := s.backend.Health(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBackendOffline, err)
		}
	}

	dc.Append(model.Message{
		Role:      model.RoleUser,
		Text:      text,
		Timestamp: s.now(),
		SessionID: sessionID,
	})

	reply, err := s.backend.Chat(ctx, input.Token, model.ChatRequest{Message: text, SessionID: sessionID})
	if err != nil {
		logger.WithFields(logrus.Fields{"session_id": sessionID}).Warnf("chat turn failed: %v", err)
		return nil, err
	}

	result := &SendMessageResult{SessionID: sessionID, Reply: reply}
	if reply.SessionID != "" && reply.SessionID != sessionID {
		result.SessionMismatch = true
		logger.WithFields(logrus.Fields{"sent": sessionID, "received": reply.SessionID}).
			Warn("session id mismatch on chat turn, keeping local session")
	}

	answer := reply.Answer
	result.AssistantKey = dc.Append(model.Message{
		Role:          model.RoleAssistant,
		Answer:        &answer,
		Timestamp:     s.now(),
		ResponseID:    reply.ResponseID,
		ChatHistoryID: reply.ChatHistoryID,
		SessionID:     sessionID,
	})

	s.publishUsage(ctx, sessionID, input.UserEmail, reply)
	return result, nil
}

func (s *ChatService) publishUsage(ctx context.Context, sessionID, email string, reply *model.ChatReply) {
	if s.usage == nil {
		return
	}
	event := model.UsageEvent{
		SessionID:  sessionID,
		ResponseID: reply.ResponseID,
		UserEmail:  email,
		Usage:      reply.Usage,
		OccurredAt: s.now(),
	}
	if err := s.usage.PublishUsage(ctx, event); err != nil {
		logger.Warnf("publish chat usage failed: %v", err)
	}
}

// SubmitFeedback sends feedback for the message under MessageKey. Each key
// accepts one submission; repeats are rejected without calling the backend.
func (s *ChatService) SubmitFeedback(ctx context.Context, dc *dashboard.Context, input FeedbackInput) (*model.FeedbackSubmission, error) {
	if dc.HasFeedback(input.MessageKey) {
		return nil, ErrFeedbackAlreadyGiven
	}
	msg, _, ok := dc.Message(input.MessageKey)
	if !ok {
		return nil, ErrUnknownMessage
	}
	if msg.Role != model.RoleAssistant {
		return nil, fmt.Errorf("%w: feedback applies to assistant messages only", ErrInvalidInput)
	}
	input.Text = trimOptional(input.Text)
	input.Category = trimOptional(input.Category)
	if err := validateFeedback(input); err != nil {
		return nil, err
	}

	target := dc.ResolveFeedbackTarget(input.MessageKey, input.ResponseID, input.ChatHistoryID)
	sub := model.FeedbackSubmission{
		ResponseID:       target.ResponseID,
		ChatHistoryID:    target.ChatHistoryID,
		UseLatestChat:    target.UseLatestChat,
		SessionID:        dc.SessionID,
		IsHelpful:        input.IsHelpful,
		Rating:           input.Rating,
		FeedbackText:     input.Text,
		FeedbackCategory: input.Category,
		IsAccurate:       input.IsAccurate,
		IsRelevant:       input.IsRelevant,
		IsClear:          input.IsClear,
		IsComplete:       input.IsComplete,
	}

	logger.WithFields(logrus.Fields{
		"response_id":     sub.ResponseID.String(),
		"chat_history_id": sub.ChatHistoryID.String(),
		"use_latest_chat": sub.UseLatestChat,
	}).Debug("submitting feedback")

	if err := s.backend.SubmitFeedback(ctx, input.Token, sub); err != nil {
		return nil, err
	}

	dc.MarkFeedback(input.MessageKey)
	dc.Panels.InvalidateFeedback()
	return &sub, nil
}

func validateFeedback(input FeedbackInput) error {
	if input.IsHelpful == nil && input.Rating == nil {
		return fmt.Errorf("%w: either is_helpful or rating is required", ErrInvalidInput)
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if input.Text != nil && utf8.RuneCountInString(*input.Text) > MaxFeedbackText {
		return fmt.Errorf("%w: feedback text is limited to %d characters", ErrInvalidInput, MaxFeedbackText)
	}
	if input.Category != nil {
		if _, ok := feedbackCategories[*input.Category]; !ok {
			return fmt.Errorf("%w: unknown feedback category %q", ErrInvalidInput, *input.Category)
		}
	}
	return nil
}

// trimOptional trims s and treats a blank value as not given.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
