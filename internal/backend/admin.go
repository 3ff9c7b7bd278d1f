package backend

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"arb-dashboard/internal/model"
)

const DefaultAnalyticsDays = 30

func (c *Client) AdminDashboard(ctx context.Context, token string) (model.Opaque, error) {
	return c.opaqueRead(ctx, "admin_dashboard", "/admin/dashboard", token, nil)
}

func (c *Client) AdminUsers(ctx context.Context, token string) (model.Opaque, error) {
	return c.opaqueRead(ctx, "admin_users", "/admin/users", token, nil)
}

// AdminAnalytics fetches usage analytics for the trailing window of days.
func (c *Client) AdminAnalytics(ctx context.Context, token string, days int) (model.Opaque, error) {
	if days <= 0 {
		days = DefaultAnalyticsDays
	}
	return c.opaqueRead(ctx, "admin_analytics", "/admin/analytics", token, map[string]string{"days": strconv.Itoa(days)})
}

func (c *Client) AdminDocuments(ctx context.Context, token string, filter model.DocumentFilter) (*model.DocumentList, error) {
	cl := c.read("admin_documents", "/admin/documents", token)
	query := map[string]string{}
	if filter.Status != "" {
		query["status_filter"] = string(filter.Status)
	}
	if filter.Source != "" {
		query["source_filter"] = filter.Source
	}
	cl.query = query

	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}
	list, err := decode[model.DocumentList]("admin_documents", body)
	if err != nil {
		return nil, err
	}
	if list.Documents == nil {
		list.Documents = []model.AdminDocument{}
	}
	return &list, nil
}

func (c *Client) ToggleDocument(ctx context.Context, token, id string) (*model.ToggleResult, error) {
	cl := c.write("toggle_document", http.MethodPut, "/admin/documents/{id}/toggle-active", token, nil)
	cl.pathParams = map[string]string{"id": id}
	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}
	res, err := decode[model.ToggleResult]("toggle_document", body)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteDocument(ctx context.Context, token, id string) (*model.DeleteResult, error) {
	cl := c.write("delete_document", http.MethodDelete, "/admin/documents/{id}", token, nil)
	cl.pathParams = map[string]string{"id": id}
	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}
	res, err := decode[model.DeleteResult]("delete_document", body)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AddDocument(ctx context.Context, token string, req model.AddDocumentRequest) (model.Opaque, error) {
	body, err := c.do(ctx, c.write("add_document", http.MethodPost, "/admin/documents/add", token, req))
	if err != nil {
		return nil, err
	}
	return decodeOpaque("add_document", body)
}

func (c *Client) SafetyLogs(ctx context.Context, token string, filter model.SafetyLogFilter) (*model.SafetyLogList, error) {
	cl := c.read("safety_logs", "/admin/safety-logs", token)
	query := map[string]string{}
	if filter.EventType != "" {
		query["event_type"] = filter.EventType
	}
	if filter.ContentBlocked != nil {
		query["content_blocked"] = strconv.FormatBool(*filter.ContentBlocked)
	}
	cl.query = query

	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}
	list, err := decode[model.SafetyLogList]("safety_logs", body)
	if err != nil {
		return nil, err
	}
	if list.SafetyLogs == nil {
		list.SafetyLogs = []model.SafetyLogEntry{}
	}
	return &list, nil
}

type processOwnersEnvelope struct {
	ProcessOwners []model.ProcessOwner `json:"process_owners"`
}

// ProcessOwners accepts either a bare array or {"process_owners": [...]}.
func (c *Client) ProcessOwners(ctx context.Context, token string) ([]model.ProcessOwner, error) {
	body, err := c.do(ctx, c.read("process_owners", "/admin/process-owners", token))
	if err != nil {
		return nil, err
	}

	var owners []model.ProcessOwner
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		owners, err = decode[[]model.ProcessOwner]("process_owners", trimmed)
	} else {
		var wrapped processOwnersEnvelope
		wrapped, err = decode[processOwnersEnvelope]("process_owners", body)
		owners = wrapped.ProcessOwners
	}
	if err != nil {
		return nil, err
	}
	if owners == nil {
		owners = []model.ProcessOwner{}
	}
	return owners, nil
}

func (c *Client) CreateProcessOwner(ctx context.Context, token string, owner model.ProcessOwner) (model.Opaque, error) {
	body, err := c.do(ctx, c.write("create_process_owner", http.MethodPost, "/admin/process-owners", token, owner))
	if err != nil {
		return nil, err
	}
	return decodeOpaque("create_process_owner", body)
}

func (c *Client) UpdateProcessOwner(ctx context.Context, token, id string, owner model.ProcessOwner) (model.Opaque, error) {
	cl := c.write("update_process_owner", http.MethodPut, "/admin/process-owners/{id}", token, owner)
	cl.pathParams = map[string]string{"id": id}
	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}
	return decodeOpaque("update_process_owner", body)
}

func (c *Client) DeleteProcessOwner(ctx context.Context, token, id string) (model.Opaque, error) {
	cl := c.write("delete_process_owner", http.MethodDelete, "/admin/process-owners/{id}", token, nil)
	cl.pathParams = map[string]string{"id": id}
	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}
	return decodeOpaque("delete_process_owner", body)
}

func (c *Client) opaqueRead(ctx context.Context, op, path, token string, query map[string]string) (model.Opaque, error) {
	cl := c.read(op, path, token)
	cl.query = query
	body, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}
	return decodeOpaque(op, body)
}
