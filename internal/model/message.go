package model

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Answer is the structured body of an assistant turn.
type Answer struct {
	Answer   string   `json:"answer"`
	Citation []string `json:"citation"`
	FollowUp []string `json:"follow_up"`
}

// PlainAnswer wraps free text in an Answer with empty citation and follow-up lists.
func PlainAnswer(text string) Answer {
	return Answer{Answer: text, Citation: []string{}, FollowUp: []string{}}
}

// Message is one entry of the locally held conversation. User turns carry
// Text; assistant turns carry Answer plus the ids feedback is targeted at.
type Message struct {
	Role          Role      `json:"role"`
	Text          string    `json:"text,omitempty"`
	Answer        *Answer   `json:"answer,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	ResponseID    ID        `json:"response_id,omitzero"`
	ChatHistoryID ID        `json:"chat_history_id,omitzero"`
	SessionID     string    `json:"session_id"`
}

func (m Message) HasFeedbackTarget() bool {
	return !m.ResponseID.IsZero() || !m.ChatHistoryID.IsZero()
}

// Usage is the token accounting reported with a chat turn.
type Usage struct {
	PromptTokens     *int     `json:"prompt_tokens,omitempty"`
	CompletionTokens *int     `json:"completion_tokens,omitempty"`
	TotalTokens      *int     `json:"total_tokens,omitempty"`
	TotalCost        *float64 `json:"total_cost,omitempty"`
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatReply is a decoded /chat response.
type ChatReply struct {
	Answer        Answer
	ResponseID    ID
	ChatHistoryID ID
	SessionID     string
	Usage         Usage
}

// UsageEvent is published once per successful chat turn.
type UsageEvent struct {
	SessionID  string    `json:"session_id"`
	ResponseID ID        `json:"response_id,omitzero"`
	UserEmail  string    `json:"user_email"`
	Usage      Usage     `json:"usage"`
	OccurredAt time.Time `json:"occurred_at"`
}
