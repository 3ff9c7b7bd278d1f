package backend

import (
	"context"
	"errors"
	"net/http"

	"arb-dashboard/internal/model"
)

// Health probes GET /health once. The probe is used to decide whether the
// backend is reachable at all, so it does not retry.
func (c *Client) Health(ctx context.Context) (model.Opaque, error) {
	body, err := c.do(ctx, call{
		op:       "health",
		method:   http.MethodGet,
		path:     "/health",
		timeout:  c.opts.ReadTimeout,
		attempts: 1,
	})
	if err != nil {
		return nil, err
	}
	return decodeOpaque("health", body)
}

// CreateSession allocates a new conversation id.
func (c *Client) CreateSession(ctx context.Context, token string) (string, error) {
	cl := c.write("create_session", http.MethodPost, "/sessions", token, nil)
	cl.timeout = c.opts.ReadTimeout
	body, err := c.do(ctx, cl)
	if err != nil {
		return "", err
	}

	out, err := decode[struct {
		SessionID model.ID `json:"session_id"`
	}]("create_session", body)
	if err != nil {
		return "", err
	}
	if out.SessionID.IsZero() {
		return "", malformed("create_session", "response has no session_id", errors.New("missing session_id"))
	}
	return out.SessionID.String(), nil
}

func (c *Client) ValidateToken(ctx context.Context, token string) (*model.TokenInfo, error) {
	body, err := c.do(ctx, c.read("validate_token", "/sso/validate-token", token))
	if err != nil {
		return nil, err
	}
	info, err := decode[model.TokenInfo]("validate_token", body)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) SystemStatus(ctx context.Context, token string) (model.Opaque, error) {
	body, err := c.do(ctx, c.read("system_status", "/chatbot/system/status", token))
	if err != nil {
		return nil, err
	}
	return decodeOpaque("system_status", body)
}
