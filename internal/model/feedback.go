package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FeedbackSubmission is the body of POST /chatbot/feedback. Nil fields are
// omitted so the backend only sees what the user actually provided.
type FeedbackSubmission struct {
	ResponseID       ID      `json:"response_id,omitzero"`
	ChatHistoryID    ID      `json:"chat_history_id,omitzero"`
	SessionID        string  `json:"session_id,omitempty"`
	IsHelpful        *bool   `json:"is_helpful,omitempty"`
	Rating           *int    `json:"rating,omitempty"`
	FeedbackText     *string `json:"feedback_text,omitempty"`
	FeedbackCategory *string `json:"feedback_category,omitempty"`
	IsAccurate       *bool   `json:"is_accurate,omitempty"`
	IsRelevant       *bool   `json:"is_relevant,omitempty"`
	IsClear          *bool   `json:"is_clear,omitempty"`
	IsComplete       *bool   `json:"is_complete,omitempty"`
	UseLatestChat    bool    `json:"use_latest_chat,omitempty"`
}

type FeedbackEntry struct {
	Timestamp    string `json:"timestamp"`
	Rating       *int   `json:"rating,omitempty"`
	IsHelpful    *bool  `json:"is_helpful,omitempty"`
	FeedbackText string `json:"feedback_text,omitempty"`
	Category     string `json:"feedback_category,omitempty"`
}

type FeedbackHistory struct {
	FeedbackHistory []FeedbackEntry `json:"feedback_history"`
}

type FeedbackStats struct {
	TotalFeedback   int      `json:"total_feedback"`
	HelpfulnessRate float64  `json:"helpfulness_rate"`
	AverageRating   *float64 `json:"average_rating,omitempty"`
}

// FAQ is a previously asked question with its ask count.
type FAQ struct {
	Question string `json:"question"`
	Count    int    `json:"count"`
}

// FAQList decodes the backend's {question: count} object keeping the order
// the backend sent, which is its ranking.
type FAQList []FAQ

// MarshalJSON writes the same ordered object form the backend sends.
func (l FAQList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Question)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(f.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l *FAQList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = FAQList{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("faq payload must be an object")
	}

	out := FAQList{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		question, _ := keyTok.(string)
		var count json.Number
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("faq count for %q: %w", question, err)
		}
		n, err := count.Int64()
		if err != nil {
			return fmt.Errorf("faq count for %q: %w", question, err)
		}
		out = append(out, FAQ{Question: question, Count: int(n)})
	}
	*l = out
	return nil
}
