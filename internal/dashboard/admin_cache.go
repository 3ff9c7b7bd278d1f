package dashboard

import "arb-dashboard/internal/model"

// DocumentPageSize is the fixed client-side page size of the document table.
const DocumentPageSize = 25

// ActiveFilter narrows the cached document list without a refetch.
type ActiveFilter string

const (
	ActiveAll      ActiveFilter = "All"
	ActiveOnly     ActiveFilter = "Active"
	ActiveInactive ActiveFilter = "Inactive"
)

func ParseActiveFilter(raw string) ActiveFilter {
	switch ActiveFilter(raw) {
	case ActiveOnly, ActiveInactive:
		return ActiveFilter(raw)
	}
	return ActiveAll
}

// AdminCache holds one slot per admin listing. A nil slot has not been
// fetched yet, or was invalidated by a write, and is refetched on next read.
type AdminCache struct {
	Dashboard     model.Opaque        `json:"dashboard,omitempty"`
	Users         model.Opaque        `json:"users,omitempty"`
	Analytics     *AnalyticsSlot      `json:"analytics,omitempty"`
	Documents     *DocumentSlot       `json:"documents,omitempty"`
	SafetyLogs    *SafetyLogSlot      `json:"safety_logs,omitempty"`
	ProcessOwners *ProcessOwnerSlot   `json:"process_owners,omitempty"`
	DocumentView  DocumentViewOptions `json:"document_view"`
}

type AnalyticsSlot struct {
	Days int          `json:"days"`
	Data model.Opaque `json:"data"`
}

type DocumentSlot struct {
	Filter    model.DocumentFilter  `json:"filter"`
	Documents []model.AdminDocument `json:"documents"`
}

type SafetyLogSlot struct {
	Filter model.SafetyLogFilter `json:"filter"`
	List   model.SafetyLogList   `json:"list"`
}

type ProcessOwnerSlot struct {
	Owners []model.ProcessOwner `json:"owners"`
}

// DocumentViewOptions is the client-side state of the document table.
type DocumentViewOptions struct {
	Active ActiveFilter `json:"active,omitempty"`
	Page   int          `json:"page,omitempty"`
}

func (a *AdminCache) InvalidateDocuments() {
	a.Documents = nil
	// The dashboard tiles count documents too.
	a.Dashboard = nil
}

func (a *AdminCache) InvalidateProcessOwners() {
	a.ProcessOwners = nil
}

// InvalidateAll empties every slot; the refresh button does this.
func (a *AdminCache) InvalidateAll() {
	view := a.DocumentView
	*a = AdminCache{DocumentView: view}
}

// Page is one page of a filtered document list.
type Page struct {
	Documents  []model.AdminDocument `json:"documents"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
	Total      int                   `json:"total"`
	PageSize   int                   `json:"page_size"`
}

// DocumentSummary counts over the unfiltered cached list.
type DocumentSummary struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Processed int `json:"processed"`
}

func Summarize(docs []model.AdminDocument) DocumentSummary {
	s := DocumentSummary{Total: len(docs)}
	for _, d := range docs {
		if d.Active() {
			s.Active++
		}
		if d.IndexingStatus == model.StatusProcessed {
			s.Processed++
		}
	}
	return s
}

func FilterActive(docs []model.AdminDocument, f ActiveFilter) []model.AdminDocument {
	if f != ActiveOnly && f != ActiveInactive {
		return docs
	}
	out := make([]model.AdminDocument, 0, len(docs))
	for _, d := range docs {
		if d.Active() == (f == ActiveOnly) {
			out = append(out, d)
		}
	}
	return out
}

// TotalPages is never less than one, so an empty table still has page 1.
func TotalPages(total, size int) int {
	if size <= 0 {
		size = DocumentPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ClampPage moves page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func Paginate(docs []model.AdminDocument, page, size int) Page {
	if size <= 0 {
		size = DocumentPageSize
	}
	totalPages := TotalPages(len(docs), size)
	page = ClampPage(page, totalPages)

	start := (page - 1) * size
	end := start + size
	if end > len(docs) {
		end = len(docs)
	}
	items := make([]model.AdminDocument, 0, end-start)
	items = append(items, docs[start:end]...)

	return Page{
		Documents:  items,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(docs),
		PageSize:   size,
	}
}
