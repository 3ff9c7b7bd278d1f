package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arb-dashboard/internal/dashboard"
	"arb-dashboard/internal/model"
)

func makeDocuments(n int) []model.AdminDocument {
	docs := make([]model.AdminDocument, n)
	for i := range docs {
		docs[i] = model.AdminDocument{
			ID:             model.NumericID(int64(i + 1)),
			Title:          fmt.Sprintf("Doc %d", i+1),
			IndexingStatus: model.StatusProcessed,
		}
	}
	return docs
}

func TestDocuments_CachesAndPaginates(t *testing.T) {
	fb := newFakeBackend()
	fb.documents = makeDocuments(57)
	svc := NewAdminService(fb)
	dc := newTestContext()
	ctx := context.Background()

	listing, err := svc.Documents(ctx, dc, "tok", DocumentQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, listing.Page.Page)
	assert.Equal(t, 3, listing.TotalPages)
	assert.Len(t, listing.Documents, dashboard.DocumentPageSize)
	assert.Equal(t, dashboard.ActiveAll, listing.Active)

	page := 9
	listing, err = svc.Documents(ctx, dc, "tok", DocumentQuery{Page: &page})
	require.NoError(t, err)
	assert.Equal(t, 3, listing.Page.Page)
	assert.Len(t, listing.Documents, 7)
	assert.Equal(t, 3, dc.Admin.DocumentView.Page)

	assert.Equal(t, 1, fb.calls["admin_documents"])
}

func TestDocuments_ActiveFilterIsLocal(t *testing.T) {
	fb := newFakeBackend()
	fb.documents = makeDocuments(4)
	fb.documents[1].IsActive = boolPtr(false)
	svc := NewAdminService(fb)
	dc := newTestContext()

	inactive := dashboard.ActiveInactive
	listing, err := svc.Documents(context.Background(), dc, "tok", DocumentQuery{Active: &inactive})
	require.NoError(t, err)
	require.Len(t, listing.Documents, 1)
	assert.Equal(t, "2", listing.Documents[0].ID.String())
	assert.Equal(t, 4, listing.Summary.Total)
	assert.Equal(t, 1, fb.calls["admin_documents"])
}

func TestDocuments_FilterChangeRefetches(t *testing.T) {
	fb := newFakeBackend()
	fb.documents = makeDocuments(3)
	svc := NewAdminService(fb)
	dc := newTestContext()
	ctx := context.Background()

	_, err := svc.Documents(ctx, dc, "tok", DocumentQuery{})
	require.NoError(t, err)
	_, err = svc.Documents(ctx, dc, "tok", DocumentQuery{Filter: model.DocumentFilter{Status: model.StatusFailed}})
	require.NoError(t, err)
	assert.Equal(t, 2, fb.calls["admin_documents"])
	assert.Equal(t, model.StatusFailed, dc.Admin.Documents.Filter.Status)

	_, err = svc.Documents(ctx, dc, "tok", DocumentQuery{Filter: model.DocumentFilter{Status: "bogus"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 2, fb.calls["admin_documents"])
}

func TestToggleDocument_InvalidatesListing(t *testing.T) {
	fb := newFakeBackend()
	fb.documents = makeDocuments(3)
	fb.toggle = &model.ToggleResult{IsActive: false, DatabaseFound: boolPtr(false)}
	svc := NewAdminService(fb)
	dc := newTestContext()
	ctx := context.Background()

	_, err := svc.Documents(ctx, dc, "tok", DocumentQuery{})
	require.NoError(t, err)
	_, err = svc.Dashboard(ctx, dc, "tok", false)
	require.NoError(t, err)

	res, err := svc.ToggleDocument(ctx, dc, "tok", "2")
	require.NoError(t, err)
	assert.False(t, res.IsActive)
	assert.Nil(t, dc.Admin.Documents)
	assert.Nil(t, dc.Admin.Dashboard)

	_, err = svc.Documents(ctx, dc, "tok", DocumentQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, fb.calls["admin_documents"])

	_, err = svc.ToggleDocument(ctx, dc, "tok", " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteAndAddDocument_Invalidate(t *testing.T) {
	fb := newFakeBackend()
	fb.documents = makeDocuments(1)
	svc := NewAdminService(fb)
	dc := newTestContext()
	ctx := context.Background()

	_, err := svc.Documents(ctx, dc, "tok", DocumentQuery{})
	require.NoError(t, err)
	_, err = svc.DeleteDocument(ctx, dc, "tok", "1")
	require.NoError(t, err)
	assert.Nil(t, dc.Admin.Documents)

	_, err = svc.Documents(ctx, dc, "tok", DocumentQuery{})
	require.NoError(t, err)
	_, err = svc.AddDocument(ctx, dc, "tok", model.AddDocumentRequest{DocID: "D-1", ResourceName: model.ResourceConfluence, PageURL: "https://wiki/x"})
	require.NoError(t, err)
	assert.Nil(t, dc.Admin.Documents)
}

func TestAddDocument_Validation(t *testing.T) {
	fb := newFakeBackend()
	svc := NewAdminService(fb)
	dc := newTestContext()

	for _, req := range []model.AddDocumentRequest{
		{DocID: "", ResourceName: model.ResourceVQD, PageURL: "u"},
		{DocID: "d", ResourceName: model.ResourceVQD, PageURL: "  "},
		{DocID: "d", ResourceName: "Wiki", PageURL: "u"},
	} {
		_, err := svc.AddDocument(context.Background(), dc, "tok", req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Zero(t, fb.calls["add_document"])
}

func TestAnalytics_DaysKeySlot(t *testing.T) {
	fb := newFakeBackend()
	svc := NewAdminService(fb)
	dc := newTestContext()
	ctx := context.Background()

	_, err := svc.Analytics(ctx, dc, "tok", 0, false)
	require.NoError(t, err)
	assert.Equal(t, 30, dc.Admin.Analytics.Days)

	_, err = svc.Analytics(ctx, dc, "tok", 30, false)
	require.NoError(t, err)
	assert.Equal(t, 1, fb.calls["admin_analytics"])

	_, err = svc.Analytics(ctx, dc, "tok", 7, false)
	require.NoError(t, err)
	assert.Equal(t, 2, fb.calls["admin_analytics"])
}

func TestSafetyLogs_FilterChangeRefetches(t *testing.T) {
	fb := newFakeBackend()
	svc := NewAdminService(fb)
	dc := newTestContext()
	ctx := context.Background()

	_, err := svc.SafetyLogs(ctx, dc, "tok", model.SafetyLogFilter{}, false)
	require.NoError(t, err)
	_, err = svc.SafetyLogs(ctx, dc, "tok", model.SafetyLogFilter{}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, fb.calls["safety_logs"])

	_, err = svc.SafetyLogs(ctx, dc, "tok", model.SafetyLogFilter{ContentBlocked: boolPtr(true)}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, fb.calls["safety_logs"])

	_, err = svc.SafetyLogs(ctx, dc, "tok", model.SafetyLogFilter{ContentBlocked: boolPtr(true)}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, fb.calls["safety_logs"])
}

func TestProcessOwners_MutationsInvalidate(t *testing.T) {
	fb := newFakeBackend()
	fb.owners = []model.ProcessOwner{{ID: model.NumericID(1), Domain: "Payments", PrimaryProcessOwner: "p@x.com"}}
	svc := NewAdminService(fb)
	dc := newTestContext()
	ctx := context.Background()

	owners, err := svc.ProcessOwners(ctx, dc, "tok", false)
	require.NoError(t, err)
	require.Len(t, owners, 1)

	_, err = svc.CreateProcessOwner(ctx, dc, "tok", model.ProcessOwner{Domain: " Cards ", PrimaryProcessOwner: "c@x.com"})
	require.NoError(t, err)
	assert.Nil(t, dc.Admin.ProcessOwners)

	_, err = svc.ProcessOwners(ctx, dc, "tok", false)
	require.NoError(t, err)
	assert.Equal(t, 2, fb.calls["process_owners"])

	_, err = svc.UpdateProcessOwner(ctx, dc, "tok", "1", model.ProcessOwner{Domain: "Payments"})
	require.NoError(t, err)
	assert.Nil(t, dc.Admin.ProcessOwners)

	_, err = svc.DeleteProcessOwner(ctx, dc, "tok", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, fb.calls["delete_process_owner"])
}

func TestProcessOwners_Validation(t *testing.T) {
	fb := newFakeBackend()
	svc := NewAdminService(fb)
	dc := newTestContext()
	ctx := context.Background()

	_, err := svc.CreateProcessOwner(ctx, dc, "tok", model.ProcessOwner{Domain: "  ", PrimaryProcessOwner: "p@x.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateProcessOwner(ctx, dc, "tok", model.ProcessOwner{Domain: "Cards"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.UpdateProcessOwner(ctx, dc, "tok", "", model.ProcessOwner{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.DeleteProcessOwner(ctx, dc, "tok", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Zero(t, fb.calls["create_process_owner"])
	assert.Zero(t, fb.calls["update_process_owner"])
	assert.Zero(t, fb.calls["delete_process_owner"])
}

func TestRefresh_KeepsDocumentView(t *testing.T) {
	fb := newFakeBackend()
	svc := NewAdminService(fb)
	dc := newTestContext()
	dc.Admin.Users = model.Opaque(`{}`)
	dc.Admin.DocumentView = dashboard.DocumentViewOptions{Active: dashboard.ActiveOnly, Page: 2}

	svc.Refresh(dc)
	assert.Nil(t, dc.Admin.Users)
	assert.Equal(t, 2, dc.Admin.DocumentView.Page)

	_, err := svc.Users(context.Background(), dc, "tok", false)
	require.NoError(t, err)
	assert.Equal(t, 1, fb.calls["admin_users"])
}
