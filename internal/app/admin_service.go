package app

import (
	"context"
	"fmt"
	"strings"

	"arb-dashboard/internal/dashboard"
	"arb-dashboard/internal/model"
	"arb-dashboard/internal/pkg/logger"
)

type AdminBackend interface {
	AdminDashboard(ctx context.Context, token string) (model.Opaque, error)
	AdminUsers(ctx context.Context, token string) (model.Opaque, error)
	AdminAnalytics(ctx context.Context, token string, days int) (model.Opaque, error)
	AdminDocuments(ctx context.Context, token string, filter model.DocumentFilter) (*model.DocumentList, error)
	ToggleDocument(ctx context.Context, token, id string) (*model.ToggleResult, error)
	DeleteDocument(ctx context.Context, token, id string) (*model.DeleteResult, error)
	AddDocument(ctx context.Context, token string, req model.AddDocumentRequest) (model.Opaque, error)
	SafetyLogs(ctx context.Context, token string, filter model.SafetyLogFilter) (*model.SafetyLogList, error)
	ProcessOwners(ctx context.Context, token string) ([]model.ProcessOwner, error)
	CreateProcessOwner(ctx context.Context, token string, owner model.ProcessOwner) (model.Opaque, error)
	UpdateProcessOwner(ctx context.Context, token, id string, owner model.ProcessOwner) (model.Opaque, error)
	DeleteProcessOwner(ctx context.Context, token, id string) (model.Opaque, error)
}

// AdminService backs the admin console. Listings are cached one slot per
// resource; every successful write empties the affected slot instead of
// patching it, so the next read is a full refetch.
type AdminService struct {
	backend AdminBackend
}

// DocumentQuery is a read of the document table. A nil Active or Page keeps
// what the context had.
type DocumentQuery struct {
	Filter  model.DocumentFilter
	Active  *dashboard.ActiveFilter
	Page    *int
	Refresh bool
}

type DocumentListing struct {
	dashboard.Page
	Summary dashboard.DocumentSummary `json:"summary"`
	Filter  model.DocumentFilter      `json:"filter"`
	Active  dashboard.ActiveFilter    `json:"active"`
}

func NewAdminService(backend AdminBackend) *AdminService {
	return &AdminService{backend: backend}
}

func (s *AdminService) Refresh(dc *dashboard.Context) {
	dc.Admin.InvalidateAll()
}

func (s *AdminService) Dashboard(ctx context.Context, dc *dashboard.Context, token string, refresh bool) (model.Opaque, error) {
	if refresh {
		dc.Admin.Dashboard = nil
	}
	if dc.Admin.Dashboard != nil {
		return dc.Admin.Dashboard, nil
	}
	data, err := s.backend.AdminDashboard(ctx, token)
	if err != nil {
		return nil, err
	}
	dc.Admin.Dashboard = data
	return data, nil
}

func (s *AdminService) Users(ctx context.Context, dc *dashboard.Context, token string, refresh bool) (model.Opaque, error) {
	if refresh {
		dc.Admin.Users = nil
	}
	if dc.Admin.Users != nil {
		return dc.Admin.Users, nil
	}
	data, err := s.backend.AdminUsers(ctx, token)
	if err != nil {
		return nil, err
	}
	dc.Admin.Users = data
	return data, nil
}

func (s *AdminService) Analytics(ctx context.Context, dc *dashboard.Context, token string, days int, refresh bool) (model.Opaque, error) {
	if days <= 0 {
		days = 30
	}
	if slot := dc.Admin.Analytics; !refresh && slot != nil && slot.Days == days {
		return slot.Data, nil
	}
	dc.Admin.Analytics = nil
	data, err := s.backend.AdminAnalytics(ctx, token, days)
	if err != nil {
		return nil, err
	}
	dc.Admin.Analytics = &dashboard.AnalyticsSlot{Days: days, Data: data}
	return data, nil
}

// Documents returns one page of the document table. A changed backend filter
// drops the cached list; the active filter and paging are applied locally.
func (s *AdminService) Documents(ctx context.Context, dc *dashboard.Context, token string, q DocumentQuery) (*DocumentListing, error) {
	if q.Filter.Status != "" && !q.Filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status filter %q", ErrInvalidInput, q.Filter.Status)
	}

	slot := dc.Admin.Documents
	if q.Refresh || (slot != nil && slot.Filter != q.Filter) {
		slot = nil
		dc.Admin.Documents = nil
	}
	if slot == nil {
		list, err := s.backend.AdminDocuments(ctx, token, q.Filter)
		if err != nil {
			return nil, err
		}
		slot = &dashboard.DocumentSlot{Filter: q.Filter, Documents: list.Documents}
		dc.Admin.Documents = slot
	}

	view := &dc.Admin.DocumentView
	if q.Active != nil {
		view.Active = *q.Active
	}
	if view.Active == "" {
		view.Active = dashboard.ActiveAll
	}
	if q.Page != nil {
		view.Page = *q.Page
	}

	filtered := dashboard.FilterActive(slot.Documents, view.Active)
	page := dashboard.Paginate(filtered, view.Page, dashboard.DocumentPageSize)
	view.Page = page.Page

	return &DocumentListing{
		Page:    page,
		Summary: dashboard.Summarize(slot.Documents),
		Filter:  slot.Filter,
		Active:  view.Active,
	}, nil
}

func (s *AdminService) ToggleDocument(ctx context.Context, dc *dashboard.Context, token, id string) (*model.ToggleResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	res, err := s.backend.ToggleDocument(ctx, token, id)
	if err != nil {
		return nil, err
	}
	if res.DatabaseFound != nil && !*res.DatabaseFound {
		logger.Warnf("document %s toggled but not found in the vector database", id)
	}
	dc.Admin.InvalidateDocuments()
	return res, nil
}

func (s *AdminService) DeleteDocument(ctx context.Context, dc *dashboard.Context, token, id string) (*model.DeleteResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	res, err := s.backend.DeleteDocument(ctx, token, id)
	if err != nil {
		return nil, err
	}
	dc.Admin.InvalidateDocuments()
	return res, nil
}

func (s *AdminService) AddDocument(ctx context.Context, dc *dashboard.Context, token string, req model.AddDocumentRequest) (model.Opaque, error) {
	req.DocID = strings.TrimSpace(req.DocID)
	req.PageURL = strings.TrimSpace(req.PageURL)
	if req.DocID == "" || req.PageURL == "" || req.ResourceName == "" {
		return nil, fmt.Errorf("%w: doc id, resource name and page url are required", ErrInvalidInput)
	}
	if !req.ResourceName.Valid() {
		return nil, fmt.Errorf("%w: unknown resource name %q", ErrInvalidInput, req.ResourceName)
	}
	res, err := s.backend.AddDocument(ctx, token, req)
	if err != nil {
		return nil, err
	}
	dc.Admin.InvalidateDocuments()
	return res, nil
}

func (s *AdminService) SafetyLogs(ctx context.Context, dc *dashboard.Context, token string, filter model.SafetyLogFilter, refresh bool) (*model.SafetyLogList, error) {
	slot := dc.Admin.SafetyLogs
	if refresh || (slot != nil && !sameSafetyFilter(slot.Filter, filter)) {
		slot = nil
		dc.Admin.SafetyLogs = nil
	}
	if slot != nil {
		return &slot.List, nil
	}
	list, err := s.backend.SafetyLogs(ctx, token, filter)
	if err != nil {
		return nil, err
	}
	dc.Admin.SafetyLogs = &dashboard.SafetyLogSlot{Filter: filter, List: *list}
	return list, nil
}

func sameSafetyFilter(a, b model.SafetyLogFilter) bool {
	if a.EventType != b.EventType {
		return false
	}
	if a.ContentBlocked == nil || b.ContentBlocked == nil {
		return a.ContentBlocked == nil && b.ContentBlocked == nil
	}
	return *a.ContentBlocked == *b.ContentBlocked
}

func (s *AdminService) ProcessOwners(ctx context.Context, dc *dashboard.Context, token string, refresh bool) ([]model.ProcessOwner, error) {
	if refresh {
		dc.Admin.InvalidateProcessOwners()
	}
	if slot := dc.Admin.ProcessOwners; slot != nil {
		return slot.Owners, nil
	}
	owners, err := s.backend.ProcessOwners(ctx, token)
	if err != nil {
		return nil, err
	}
	dc.Admin.ProcessOwners = &dashboard.ProcessOwnerSlot{Owners: owners}
	return owners, nil
}

func (s *AdminService) CreateProcessOwner(ctx context.Context, dc *dashboard.Context, token string, owner model.ProcessOwner) (model.Opaque, error) {
	owner = trimOwner(owner)
	if owner.Domain == "" || owner.PrimaryProcessOwner == "" {
		return nil, fmt.Errorf("%w: Domain and PrimaryProcessOwner are required", ErrInvalidInput)
	}
	res, err := s.backend.CreateProcessOwner(ctx, token, owner)
	if err != nil {
		return nil, err
	}
	dc.Admin.InvalidateProcessOwners()
	return res, nil
}

func (s *AdminService) UpdateProcessOwner(ctx context.Context, dc *dashboard.Context, token, id string, owner model.ProcessOwner) (model.Opaque, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: process owner id is required", ErrInvalidInput)
	}
	res, err := s.backend.UpdateProcessOwner(ctx, token, id, trimOwner(owner))
	if err != nil {
		return nil, err
	}
	dc.Admin.InvalidateProcessOwners()
	return res, nil
}

func (s *AdminService) DeleteProcessOwner(ctx context.Context, dc *dashboard.Context, token, id string) (model.Opaque, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: process owner id is required", ErrInvalidInput)
	}
	res, err := s.backend.DeleteProcessOwner(ctx, token, id)
	if err != nil {
		return nil, err
	}
	dc.Admin.InvalidateProcessOwners()
	return res, nil
}

func trimOwner(o model.ProcessOwner) model.ProcessOwner {
	o.Domain = strings.TrimSpace(o.Domain)
	o.PrimaryProcessOwner = strings.TrimSpace(o.PrimaryProcessOwner)
	o.SecondaryProcessOwner = strings.TrimSpace(o.SecondaryProcessOwner)
	o.Remark = strings.TrimSpace(o.Remark)
	o.Comments = strings.TrimSpace(o.Comments)
	return o
}
