package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

type Kind int

const (
	KindNetwork Kind = iota + 1
	KindTimeout
	KindStatus
	KindRateLimited
	KindBusy
	KindUnauthorized
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindRateLimited:
		return "rate_limited"
	case KindBusy:
		return "busy"
	case KindUnauthorized:
		return "unauthorized"
	case KindMalformed:
		return "malformed"
	}
	return "unknown"
}

// Error is the failure outcome of a backend binding. Error() is the text
// shown to the user.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	Detail     string
	Timeout    time.Duration
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRateLimited:
		return "Rate limit exceeded. Please wait before sending another message."
	case KindBusy:
		return "ARB Chatbot Server busy. Request queued for processing."
	case KindUnauthorized:
		return "Session expired. Please log in again."
	case KindTimeout:
		return fmt.Sprintf("Request timed out after %d seconds. Please re-submit your query.", int(e.Timeout.Seconds()))
	case KindNetwork:
		if e.Err != nil {
			return fmt.Sprintf("Connection error: unable to reach the ARB Chatbot backend (%v)", e.Err)
		}
		return "Connection error: unable to reach the ARB Chatbot backend"
	case KindMalformed:
		return fmt.Sprintf("Malformed response from backend: %s", e.Detail)
	}
	if e.Detail != "" {
		return fmt.Sprintf("Error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("Status: %d", e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// transient reports whether the failure happened below HTTP.
func (e *Error) transient() bool {
	return e.Kind == KindNetwork || e.Kind == KindTimeout
}

// KindOf returns the Kind of a backend error, or 0 for anything else.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func transportError(op string, err error, timeout time.Duration) *Error {
	kind := KindNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Op: op, Kind: kind, Timeout: timeout, Err: err}
}

func statusError(op string, status int, body []byte) *Error {
	kind := KindStatus
	switch status {
	case http.StatusTooManyRequests:
		kind = KindRateLimited
	case http.StatusServiceUnavailable:
		kind = KindBusy
	case http.StatusUnauthorized:
		kind = KindUnauthorized
	}
	return &Error{Op: op, Kind: kind, StatusCode: status, Detail: extractDetail(body)}
}

func malformed(op, detail string, err error) *Error {
	return &Error{Op: op, Kind: KindMalformed, Detail: detail, Err: err}
}

// extractDetail prefers the API's "detail" field over the raw body.
func extractDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 && string(payload.Detail) != "null" {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		return string(payload.Detail)
	}
	return strings.TrimSpace(string(body))
}
