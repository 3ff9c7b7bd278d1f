package backend

import (
	"context"
	"net/http"

	"arb-dashboard/internal/model"
)

func (c *Client) SubmitFeedback(ctx context.Context, token string, sub model.FeedbackSubmission) error {
	_, err := c.do(ctx, c.write("submit_feedback", http.MethodPost, "/chatbot/feedback", token, sub))
	return err
}

func (c *Client) MyFeedback(ctx context.Context, token string) (*model.FeedbackHistory, error) {
	body, err := c.do(ctx, c.read("my_feedback", "/chatbot/feedback/my-feedback", token))
	if err != nil {
		return nil, err
	}
	history, err := decode[model.FeedbackHistory]("my_feedback", body)
	if err != nil {
		return nil, err
	}
	if history.FeedbackHistory == nil {
		history.FeedbackHistory = []model.FeedbackEntry{}
	}
	return &history, nil
}

func (c *Client) FeedbackStats(ctx context.Context, token string) (*model.FeedbackStats, error) {
	body, err := c.do(ctx, c.read("feedback_stats", "/chatbot/feedback/stats", token))
	if err != nil {
		return nil, err
	}
	stats, err := decode[model.FeedbackStats]("feedback_stats", body)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// FAQ returns the most asked questions in backend rank order.
func (c *Client) FAQ(ctx context.Context, token string) (model.FAQList, error) {
	body, err := c.do(ctx, c.read("faq", "/faq", token))
	if err != nil {
		return nil, err
	}
	return decode[model.FAQList]("faq", body)
}
