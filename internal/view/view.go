// Package view turns cached dashboard state into the render-ready shapes the
// browser widgets consume.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"arb-dashboard/internal/dashboard"
	"arb-dashboard/internal/model"
)

const (
	titleWidth    = 45
	sourceWidth   = 20
	errorWidth    = 80
	questionWidth = 45
	commentWidth  = 100
	recentEntries = 2
)

type Citation struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type FollowUp struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

type Message struct {
	Key           string     `json:"key"`
	Role          model.Role `json:"role"`
	Text          string     `json:"text"`
	HTML          string     `json:"html"`
	Citations     []Citation `json:"citations,omitempty"`
	FollowUps     []FollowUp `json:"follow_ups,omitempty"`
	Timestamp     string     `json:"timestamp"`
	ResponseID    model.ID   `json:"response_id,omitzero"`
	ChatHistoryID model.ID   `json:"chat_history_id,omitzero"`
	FeedbackGiven bool       `json:"feedback_given"`
}

type Conversation struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}

func NewConversation(dc *dashboard.Context) Conversation {
	out := Conversation{SessionID: dc.SessionID, Messages: make([]Message, 0, len(dc.Messages))}
	for i, m := range dc.Messages {
		key := dashboard.MessageKey(i)
		out.Messages = append(out.Messages, NewMessage(key, m, dc.HasFeedback(key)))
	}
	return out
}

func NewMessage(key string, m model.Message, feedbackGiven bool) Message {
	v := Message{
		Key:           key,
		Role:          m.Role,
		Text:          m.Text,
		Timestamp:     m.Timestamp.Format("15:04:05"),
		ResponseID:    m.ResponseID,
		ChatHistoryID: m.ChatHistoryID,
		FeedbackGiven: feedbackGiven,
	}
	if m.Answer != nil {
		v.Text = m.Answer.Answer
		for i, c := range m.Answer.Citation {
			v.Citations = append(v.Citations, Citation{Label: fmt.Sprintf("Reference %d", i+1), URL: c})
		}
		for i, f := range m.Answer.FollowUp {
			v.FollowUps = append(v.FollowUps, FollowUp{Number: i + 1, Text: f})
		}
	}
	v.HTML = RenderMarkdown(v.Text)
	return v
}

// RenderMarkdown converts answer markdown to HTML, dropping any raw HTML the
// text carries.
func RenderMarkdown(text string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.HrefTargetBlank})
	return string(markdown.ToHTML([]byte(text), p, r))
}

type DocumentRow struct {
	ID           model.ID             `json:"id"`
	Title        string               `json:"title"`
	Source       string               `json:"source"`
	Status       model.IndexingStatus `json:"indexing_status"`
	Active       bool                 `json:"is_active"`
	ToggleLabel  string               `json:"toggle_label"`
	PageURL      string               `json:"page_url,omitempty"`
	ErrorMessage string               `json:"error_message,omitempty"`
	Updated      string               `json:"updated"`
}

func NewDocumentRows(docs []model.AdminDocument) []DocumentRow {
	rows := make([]DocumentRow, 0, len(docs))
	for _, d := range docs {
		title := d.Title
		if title == "" {
			title = "Untitled"
		}
		source := d.Source
		if source == "" {
			source = "N/A"
		}
		toggle := "Deactivate"
		if !d.Active() {
			toggle = "Activate"
		}
		rows = append(rows, DocumentRow{
			ID:           d.ID,
			Title:        Truncate(title, titleWidth),
			Source:       Truncate(source, sourceWidth),
			Status:       d.IndexingStatus,
			Active:       d.Active(),
			ToggleLabel:  toggle,
			PageURL:      d.PageURL,
			ErrorMessage: Truncate(d.ErrorMessage, errorWidth),
			Updated:      ShortDate(d.LastUpdatedAt),
		})
	}
	return rows
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ShortDate renders an ISO-8601 timestamp as MM/DD. Values that do not parse
// fall back to their first ten characters.
func ShortDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "N/A" {
		return "N/A"
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("01/02")
		}
	}
	return cut(raw, 10)
}

type FAQItem struct {
	Question string `json:"question"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}

func NewFAQItems(faqs model.FAQList) []FAQItem {
	items := make([]FAQItem, 0, len(faqs))
	for _, f := range faqs {
		items = append(items, FAQItem{
			Question: f.Question,
			Label:    Truncate(f.Question, questionWidth),
			Count:    f.Count,
		})
	}
	return items
}

type RecentFeedback struct {
	Date    string `json:"date"`
	Rating  *int   `json:"rating,omitempty"`
	Helpful string `json:"helpful"`
	Comment string `json:"comment,omitempty"`
}

// NewRecentFeedback keeps the two newest entries for the sidebar.
func NewRecentFeedback(history *model.FeedbackHistory) []RecentFeedback {
	out := make([]RecentFeedback, 0, recentEntries)
	if history == nil {
		return out
	}
	for i, f := range history.FeedbackHistory {
		if i == recentEntries {
			break
		}
		helpful := "N/A"
		if f.IsHelpful != nil {
			helpful = "No"
			if *f.IsHelpful {
				helpful = "Yes"
			}
		}
		out = append(out, RecentFeedback{
			Date:    cut(f.Timestamp, 10),
			Rating:  f.Rating,
			Helpful: helpful,
			Comment: Truncate(f.FeedbackText, commentWidth),
		})
	}
	return out
}

// Truncate cuts s to width runes and marks the cut with "...".
func Truncate(s string, width int) string {
	if len([]rune(s)) <= width {
		return s
	}
	return cut(s, width) + "..."
}

func cut(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}
