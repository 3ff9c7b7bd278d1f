package model

import "encoding/json"

type IndexingStatus string

const (
	StatusProcessed  IndexingStatus = "processed"
	StatusProcessing IndexingStatus = "processing"
	StatusFailed     IndexingStatus = "failed"
	StatusPending    IndexingStatus = "pending"
)

func (s IndexingStatus) Valid() bool {
	switch s {
	case StatusProcessed, StatusProcessing, StatusFailed, StatusPending:
		return true
	}
	return false
}

type AdminDocument struct {
	ID             ID             `json:"id"`
	Title          string         `json:"title"`
	Source         string         `json:"source"`
	IndexingStatus IndexingStatus `json:"indexing_status"`
	IsActive       *bool          `json:"is_active,omitempty"`
	PageURL        string         `json:"page_url,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	LastUpdatedAt  string         `json:"last_updated_at,omitempty"`
}

// Active reports the document's active flag; the backend omits it for
// documents that were never toggled, which are active.
func (d AdminDocument) Active() bool {
	return d.IsActive == nil || *d.IsActive
}

type DocumentList struct {
	Documents []AdminDocument `json:"documents"`
}

// DocumentFilter is the server-side part of a document query.
type DocumentFilter struct {
	Status IndexingStatus `json:"status,omitempty"`
	Source string         `json:"source,omitempty"`
}

type ToggleResult struct {
	IsActive      bool   `json:"is_active"`
	DatabaseFound *bool  `json:"database_found,omitempty"`
	Message       string `json:"message,omitempty"`
}

type DeleteResult struct {
	Message string `json:"message,omitempty"`
}

type ResourceName string

const (
	ResourceConfluence ResourceName = "Confluence"
	ResourceVQD        ResourceName = "VQD"
	ResourceSharepoint ResourceName = "Sharepoint"
	ResourceServiceNow ResourceName = "ServiceNow"
	ResourceOther      ResourceName = "Other"
)

func (r ResourceName) Valid() bool {
	switch r {
	case ResourceConfluence, ResourceVQD, ResourceSharepoint, ResourceServiceNow, ResourceOther:
		return true
	}
	return false
}

type AddDocumentRequest struct {
	DocID        string       `json:"doc_id"`
	ResourceName ResourceName `json:"resource_name"`
	PageURL      string       `json:"page_url"`
}

type SafetyLogEntry struct {
	ID          ID              `json:"id"`
	ChatID      ID              `json:"chat_id"`
	Categories  json.RawMessage `json:"categories,omitempty"`
	Severity    string          `json:"severity"`
	PIIDetails  json.RawMessage `json:"pii_details,omitempty"`
	CreatedDate string          `json:"created_date"`
}

type SafetyLogList struct {
	SafetyLogs []SafetyLogEntry `json:"safety_logs"`
	TotalCount int              `json:"total_count"`
}

type SafetyLogFilter struct {
	EventType      string `json:"event_type,omitempty"`
	ContentBlocked *bool  `json:"content_blocked,omitempty"`
}

// ProcessOwner rows use the capitalised field names the backend expects.
type ProcessOwner struct {
	ID                    ID     `json:"id,omitzero"`
	Domain                string `json:"Domain"`
	PrimaryProcessOwner   string `json:"PrimaryProcessOwner"`
	SecondaryProcessOwner string `json:"SecondaryProcessOwner"`
	Remark                string `json:"Remark"`
	Comments              string `json:"Comments"`
}

// Opaque is a payload forwarded to the renderer without interpretation.
type Opaque = json.RawMessage

type TokenInfo struct {
	Valid *bool  `json:"valid,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}
