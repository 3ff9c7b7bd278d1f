package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"arb-dashboard/internal/app"
	"arb-dashboard/internal/dashboard"
	"arb-dashboard/internal/model"
	"arb-dashboard/internal/transport/http/middleware"
	"arb-dashboard/internal/transport/http/response"
	"arb-dashboard/internal/view"
)

type AdminHandler struct {
	adminService *app.AdminService
}

type AddDocumentRequest struct {
	DocID        string `json:"doc_id" binding:"required"`
	ResourceName string `json:"resource_name" binding:"required"`
	PageURL      string `json:"page_url" binding:"required"`
}

type ProcessOwnerRequest struct {
	Domain                string `json:"Domain"`
	PrimaryProcessOwner   string `json:"PrimaryProcessOwner"`
	SecondaryProcessOwner string `json:"SecondaryProcessOwner"`
	Remark                string `json:"Remark"`
	Comments              string `json:"Comments"`
}

func (r ProcessOwnerRequest) toModel() model.ProcessOwner {
	return model.ProcessOwner{
		Domain:                r.Domain,
		PrimaryProcessOwner:   r.PrimaryProcessOwner,
		SecondaryProcessOwner: r.SecondaryProcessOwner,
		Remark:                r.Remark,
		Comments:              r.Comments,
	}
}

func NewAdminHandler(adminService *app.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Refresh empties every admin slot, the console's refresh button.
func (h *AdminHandler) Refresh(c *gin.Context) {
	h.adminService.Refresh(middleware.DashboardFrom(c))
	response.OK(c, gin.H{"refreshed": true})
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	data, err := h.adminService.Dashboard(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), refreshRequested(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, data)
}

func (h *AdminHandler) Users(c *gin.Context) {
	data, err := h.adminService.Users(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), refreshRequested(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, data)
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	days, err := queryInt(c, "days")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid days")
		return
	}
	n := 0
	if days != nil {
		n = *days
	}
	data, err := h.adminService.Analytics(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), n, refreshRequested(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, data)
}

func (h *AdminHandler) Documents(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid page")
		return
	}
	q := app.DocumentQuery{
		Filter: model.DocumentFilter{
			Status: model.IndexingStatus(strings.TrimSpace(c.Query("status_filter"))),
			Source: strings.TrimSpace(c.Query("source_filter")),
		},
		Page:    page,
		Refresh: refreshRequested(c),
	}
	if raw, ok := c.GetQuery("active"); ok {
		active := dashboard.ParseActiveFilter(raw)
		q.Active = &active
	}

	listing, err := h.adminService.Documents(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{
		"rows":        view.NewDocumentRows(listing.Documents),
		"page":        listing.Page.Page,
		"total_pages": listing.TotalPages,
		"total":       listing.Total,
		"page_size":   listing.PageSize,
		"summary":     listing.Summary,
		"filter":      listing.Filter,
		"active":      listing.Active,
	})
}

func (h *AdminHandler) ToggleDocument(c *gin.Context) {
	res, err := h.adminService.ToggleDocument(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	data := gin.H{"is_active": res.IsActive, "message": res.Message}
	if res.DatabaseFound != nil && !*res.DatabaseFound {
		data["warning"] = "Document status updated but was not found in the vector database."
	}
	response.OK(c, data)
}

func (h *AdminHandler) DeleteDocument(c *gin.Context) {
	res, err := h.adminService.DeleteDocument(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, res)
}

func (h *AdminHandler) AddDocument(c *gin.Context) {
	var req AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "Please fill in all fields.")
		return
	}
	res, err := h.adminService.AddDocument(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), model.AddDocumentRequest{
		DocID:        req.DocID,
		ResourceName: model.ResourceName(req.ResourceName),
		PageURL:      req.PageURL,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, res)
}

func (h *AdminHandler) SafetyLogs(c *gin.Context) {
	filter := model.SafetyLogFilter{
		EventType:      strings.TrimSpace(c.Query("event_type")),
		ContentBlocked: queryBool(c, "content_blocked"),
	}
	list, err := h.adminService.SafetyLogs(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), filter, refreshRequested(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, list)
}

func (h *AdminHandler) ProcessOwners(c *gin.Context) {
	owners, err := h.adminService.ProcessOwners(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), refreshRequested(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"process_owners": owners})
}

func (h *AdminHandler) CreateProcessOwner(c *gin.Context) {
	var req ProcessOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	res, err := h.adminService.CreateProcessOwner(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), req.toModel())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, res)
}

func (h *AdminHandler) UpdateProcessOwner(c *gin.Context) {
	var req ProcessOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	res, err := h.adminService.UpdateProcessOwner(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), c.Param("id"), req.toModel())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, res)
}

func (h *AdminHandler) DeleteProcessOwner(c *gin.Context) {
	res, err := h.adminService.DeleteProcessOwner(c.Request.Context(), middleware.DashboardFrom(c), middleware.TokenFrom(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, res)
}
