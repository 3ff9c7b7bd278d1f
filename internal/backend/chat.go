package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"arb-dashboard/internal/model"
)

type chatResponse struct {
	Response         json.RawMessage `json:"response"`
	RequestID        model.ID        `json:"request_id"`
	ResponseID       model.ID        `json:"response_id"`
	ChatHistoryID    model.ID        `json:"chat_history_id"`
	SessionID        model.ID        `json:"session_id"`
	PromptTokens     *int            `json:"prompt_tokens"`
	CompletionTokens *int            `json:"completion_tokens"`
	TotalTokens      *int            `json:"total_tokens"`
	TotalCost        *float64        `json:"total_cost"`
}

// Chat sends one conversational turn. It is never retried.
func (c *Client) Chat(ctx context.Context, token string, req model.ChatRequest) (*model.ChatReply, error) {
	body, err := c.do(ctx, call{
		op:       "chat",
		method:   http.MethodPost,
		path:     "/chat",
		token:    token,
		body:     req,
		timeout:  c.opts.ChatTimeout,
		attempts: 1,
	})
	if err != nil {
		return nil, err
	}
	return decodeChatReply(body)
}

func decodeChatReply(body []byte) (*model.ChatReply, error) {
	var wire chatResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, malformed("chat", err.Error(), err)
	}

	raw := bytes.TrimSpace(wire.Response)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, malformed("chat", "response field missing", errors.New("missing response"))
	}

	var answer model.Answer
	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, malformed("chat", err.Error(), err)
		}
		answer = ParseAnswer(text)
	case '{':
		a, ok := answerFromObject(raw)
		if !ok {
			return nil, malformed("chat", "response object has no answer", errors.New("missing answer"))
		}
		answer = a
	default:
		answer = model.PlainAnswer(string(raw))
	}

	responseID := wire.RequestID
	if responseID.IsZero() {
		responseID = wire.ResponseID
	}

	return &model.ChatReply{
		Answer:        answer,
		ResponseID:    responseID,
		ChatHistoryID: wire.ChatHistoryID,
		SessionID:     wire.SessionID.String(),
		Usage: model.Usage{
			PromptTokens:     wire.PromptTokens,
			CompletionTokens: wire.CompletionTokens,
			TotalTokens:      wire.TotalTokens,
			TotalCost:        wire.TotalCost,
		},
	}, nil
}

// ParseAnswer decodes the JSON-encoded answer the backend nests inside
// "response". Anything that is not an object with an answer field is shown
// as plain text.
func ParseAnswer(raw string) model.Answer {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		if a, ok := answerFromObject([]byte(trimmed)); ok {
			return a
		}
	}
	return model.PlainAnswer(raw)
}

func answerFromObject(data []byte) (model.Answer, bool) {
	var wire struct {
		Answer   *string  `json:"answer"`
		Citation []string `json:"citation"`
		FollowUp []string `json:"follow_up"`
	}
	if err := json.Unmarshal(data, &wire); err != nil || wire.Answer == nil {
		return model.Answer{}, false
	}
	a := model.PlainAnswer(*wire.Answer)
	if wire.Citation != nil {
		a.Citation = wire.Citation
	}
	if wire.FollowUp != nil {
		a.FollowUp = wire.FollowUp
	}
	return a, true
}
