package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"arb-dashboard/internal/model"
)

// MaxMessages bounds the locally held conversation.
const MaxMessages = 100

const messageKeyPrefix = "msg_"

// Context is everything one browser keeps between requests. It is loaded
// from the Store at the start of a request and saved back at the end; the
// backend stays the owner of all durable state.
type Context struct {
	ID         string    `json:"id"`
	OwnerEmail string    `json:"owner_email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	SessionID     string          `json:"session_id,omitempty"`
	Messages      []model.Message `json:"messages"`
	FeedbackGiven map[string]bool `json:"feedback_given"`

	Auth   *AuthCheck `json:"auth,omitempty"`
	Panels Panels     `json:"panels"`
	Admin  AdminCache `json:"admin"`
}

// AuthCheck remembers the last successful token validation.
type AuthCheck struct {
	TokenHash string    `json:"token_hash"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Panels are the chat-side cached listings.
type Panels struct {
	FAQ           *model.FAQList         `json:"faq,omitempty"`
	MyFeedback    *model.FeedbackHistory `json:"my_feedback,omitempty"`
	FeedbackStats *model.FeedbackStats   `json:"feedback_stats,omitempty"`
}

func (p *Panels) InvalidateFeedback() {
	p.MyFeedback = nil
	p.FeedbackStats = nil
}

func New(id string, now time.Time) *Context {
	return &Context{
		ID:            id,
		CreatedAt:     now,
		UpdatedAt:     now,
		Messages:      []model.Message{},
		FeedbackGiven: map[string]bool{},
	}
}

// Normalize repairs nil collections after decoding.
func (c *Context) Normalize() {
	if c.Messages == nil {
		c.Messages = []model.Message{}
	}
	if c.FeedbackGiven == nil {
		c.FeedbackGiven = map[string]bool{}
	}
}

func (c *Context) HasSession() bool {
	return c.SessionID != ""
}

// StartSession installs a backend-issued session id and drops the
// conversation that belonged to the previous one.
func (c *Context) StartSession(id string) {
	c.SessionID = id
	c.Messages = []model.Message{}
	c.FeedbackGiven = map[string]bool{}
}

// ClearConversation empties the message list but keeps the session id.
func (c *Context) ClearConversation() {
	c.Messages = []model.Message{}
	c.FeedbackGiven = map[string]bool{}
}

// Reset forgets everything tied to the previous owner.
func (c *Context) Reset() {
	c.OwnerEmail = ""
	c.SessionID = ""
	c.Auth = nil
	c.Panels = Panels{}
	c.Admin = AdminCache{}
	c.ClearConversation()
}

// Append adds a message, truncates to MaxMessages and returns the key the
// appended message ends up under.
func (c *Context) Append(m model.Message) string {
	c.Normalize()
	c.Messages = append(c.Messages, m)
	c.truncate()
	return MessageKey(len(c.Messages) - 1)
}

// truncate evicts the oldest messages and rewrites feedback keys so each one
// still names the same message after the shift.
func (c *Context) truncate() {
	evicted := len(c.Messages) - MaxMessages
	if evicted <= 0 {
		return
	}

	kept := make([]model.Message, MaxMessages)
	copy(kept, c.Messages[evicted:])
	c.Messages = kept

	given := make(map[string]bool, len(c.FeedbackGiven))
	for key, v := range c.FeedbackGiven {
		idx, ok := ParseMessageKey(key)
		if !ok || idx < evicted {
			continue
		}
		given[MessageKey(idx-evicted)] = v
	}
	c.FeedbackGiven = given
}

func (c *Context) Message(key string) (model.Message, int, bool) {
	idx, ok := ParseMessageKey(key)
	if !ok || idx >= len(c.Messages) {
		return model.Message{}, 0, false
	}
	return c.Messages[idx], idx, true
}

func (c *Context) HasFeedback(key string) bool {
	return c.FeedbackGiven[key]
}

func (c *Context) MarkFeedback(key string) {
	c.Normalize()
	c.FeedbackGiven[key] = true
}

// FeedbackTarget is where a feedback submission is aimed.
type FeedbackTarget struct {
	ResponseID    model.ID
	ChatHistoryID model.ID
	UseLatestChat bool
}

// ResolveFeedbackTarget picks ids in order: the explicit ones, the keyed
// message's own, the newest assistant message that has any, and finally
// asks the backend to use the latest chat.
func (c *Context) ResolveFeedbackTarget(key string, responseID, chatHistoryID model.ID) FeedbackTarget {
	if !responseID.IsZero() || !chatHistoryID.IsZero() {
		return FeedbackTarget{ResponseID: responseID, ChatHistoryID: chatHistoryID}
	}
	if m, _, ok := c.Message(key); ok && m.HasFeedbackTarget() {
		return FeedbackTarget{ResponseID: m.ResponseID, ChatHistoryID: m.ChatHistoryID}
	}
	for i := len(c.Messages) - 1; i >= 0; i-- {
		m := c.Messages[i]
		if m.Role == model.RoleAssistant && m.HasFeedbackTarget() {
			return FeedbackTarget{ResponseID: m.ResponseID, ChatHistoryID: m.ChatHistoryID}
		}
	}
	return FeedbackTarget{UseLatestChat: true}
}

func MessageKey(index int) string {
	return fmt.Sprintf("%s%d", messageKeyPrefix, index)
}

func ParseMessageKey(key string) (int, bool) {
	raw, ok := strings.CutPrefix(key, messageKeyPrefix)
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
