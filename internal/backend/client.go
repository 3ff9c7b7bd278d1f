package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"arb-dashboard/internal/config"
	"arb-dashboard/internal/pkg/logger"
)

type Options struct {
	BaseURL          string
	UserAgent        string
	ReadTimeout      time.Duration
	ChatTimeout      time.Duration
	WriteTimeout     time.Duration
	ReadRetries      int
	Backoff          time.Duration
	TransportRetries int
	MaxIdleConns     int
	MaxConns         int
}

func OptionsFromConfig(cfg config.BackendConfig) Options {
	return Options{
		BaseURL:          cfg.BaseURL,
		UserAgent:        cfg.UserAgent,
		ReadTimeout:      time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		ChatTimeout:      time.Duration(cfg.ChatTimeoutSeconds) * time.Second,
		WriteTimeout:     time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		ReadRetries:      cfg.ReadRetries,
		Backoff:          time.Duration(cfg.BackoffMillis) * time.Millisecond,
		TransportRetries: cfg.TransportRetries,
		MaxIdleConns:     cfg.MaxIdleConns,
		MaxConns:         cfg.MaxConns,
	}
}

// Client binds the ARB backend REST API. It is safe for concurrent use; the
// connection pool is shared by every caller.
type Client struct {
	rest *resty.Client
	opts Options
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = config.DefaultBaseURL
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 60 * time.Second
	}
	if opts.ChatTimeout <= 0 {
		opts.ChatTimeout = 120 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	if opts.ReadRetries <= 0 {
		opts.ReadRetries = 1
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 10
	}
	if opts.MaxConns <= 0 {
		opts.MaxConns = 20
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        opts.MaxConns,
		MaxIdleConnsPerHost: opts.MaxIdleConns,
		MaxConnsPerHost:     opts.MaxConns,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	rest := resty.NewWithClient(&http.Client{Transport: transport}).
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Connection", "keep-alive").
		SetHeader("User-Agent", opts.UserAgent).
		SetRetryCount(opts.TransportRetries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		AddRetryCondition(retryTransient).
		SetLogger(logger.L())

	return &Client{rest: rest, opts: opts}
}

// retryTransient limits transport-level retries to network failures of
// idempotent reads.
func retryTransient(resp *resty.Response, err error) bool {
	if err == nil || resp == nil || resp.Request == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch resp.Request.Method {
	case http.MethodGet, http.MethodHead:
		return true
	}
	return false
}

type call struct {
	op         string
	method     string
	path       string
	token      string
	query      map[string]string
	pathParams map[string]string
	body       interface{}
	timeout    time.Duration
	attempts   int
}

func (c *Client) read(op, path, token string) call {
	return call{op: op, method: http.MethodGet, path: path, token: token, timeout: c.opts.ReadTimeout, attempts: c.opts.ReadRetries}
}

func (c *Client) write(op, method, path, token string, body interface{}) call {
	return call{op: op, method: method, path: path, token: token, body: body, timeout: c.opts.WriteTimeout, attempts: 1}
}

// do runs a call, retrying network-level failures with linear backoff.
// HTTP error statuses are never retried.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	attempts := cl.attempts
	if attempts < 1 {
		attempts = 1
	}

	started := time.Now()
	defer func() {
		logger.WithFields(logrus.Fields{"op": cl.op, "path": cl.path}).
			Debugf("%s call duration: %.4f seconds", cl.op, time.Since(started).Seconds())
	}()

	var lastErr *Error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.once(ctx, cl)
		if err == nil {
			return body, nil
		}
		if !err.transient() {
			return nil, err
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		logger.WithFields(logrus.Fields{"op": cl.op, "attempt": attempt}).Warnf("backend call failed, retrying: %v", err.Err)
		if waitErr := c.wait(ctx, time.Duration(attempt)*c.opts.Backoff); waitErr != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, cl call) ([]byte, *Error) {
	reqCtx, cancel := context.WithTimeout(ctx, cl.timeout)
	defer cancel()

	req := c.rest.R().SetContext(reqCtx)
	if cl.token != "" {
		req.SetAuthToken(cl.token)
	}
	if len(cl.query) > 0 {
		req.SetQueryParams(cl.query)
	}
	if len(cl.pathParams) > 0 {
		req.SetPathParams(cl.pathParams)
	}
	if cl.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(cl.body)
	}

	resp, err := req.Execute(cl.method, cl.path)
	if err != nil {
		return nil, transportError(cl.op, err, cl.timeout)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusError(cl.op, resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}

func (c *Client) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func decode[T any](op string, body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return out, malformed(op, err.Error(), err)
	}
	return out, nil
}

func decodeOpaque(op string, body []byte) (json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, malformed(op, "response is not valid JSON", errors.New("invalid json"))
	}
	out := make(json.RawMessage, len(body))
	copy(out, body)
	return out, nil
}
