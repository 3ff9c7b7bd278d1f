package dashboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"arb-dashboard/internal/model"
)

func documents(n int) []model.AdminDocument {
	docs := make([]model.AdminDocument, n)
	inactive := false
	for i := range docs {
		docs[i] = model.AdminDocument{ID: model.NumericID(int64(i + 1)), Title: fmt.Sprintf("doc %d", i+1), IndexingStatus: model.StatusProcessed}
		if i%2 == 1 {
			docs[i].IsActive = &inactive
			docs[i].IndexingStatus = model.StatusPending
		}
	}
	return docs
}

func TestPagination(t *testing.T) {
	docs := documents(57)
	assert.Equal(t, 3, TotalPages(len(docs), DocumentPageSize))

	tests := []struct {
		requested int
		page      int
		size      int
	}{
		{requested: 0, page: 1, size: 25},
		{requested: -3, page: 1, size: 25},
		{requested: 2, page: 2, size: 25},
		{requested: 3, page: 3, size: 7},
		{requested: 4, page: 3, size: 7},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.requested), func(t *testing.T) {
			p := Paginate(docs, tt.requested, DocumentPageSize)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, 3, p.TotalPages)
			assert.Equal(t, 57, p.Total)
			assert.Len(t, p.Documents, tt.size)
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(nil, 5, DocumentPageSize)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages)
	assert.Empty(t, p.Documents)
}

func TestFilterActiveAndSummary(t *testing.T) {
	docs := documents(5)

	assert.Len(t, FilterActive(docs, ActiveAll), 5)
	assert.Len(t, FilterActive(docs, ActiveOnly), 3)
	assert.Len(t, FilterActive(docs, ActiveInactive), 2)
	assert.Equal(t, DocumentSummary{Total: 5, Active: 3, Processed: 3}, Summarize(docs))
}

func TestParseActiveFilter(t *testing.T) {
	assert.Equal(t, ActiveOnly, ParseActiveFilter("Active"))
	assert.Equal(t, ActiveInactive, ParseActiveFilter("Inactive"))
	assert.Equal(t, ActiveAll, ParseActiveFilter("whatever"))
}

func TestInvalidateAllKeepsViewOptions(t *testing.T) {
	a := AdminCache{
		Users:        model.Opaque(`{}`),
		Documents:    &DocumentSlot{},
		DocumentView: DocumentViewOptions{Active: ActiveOnly, Page: 2},
	}
	a.InvalidateAll()
	assert.Nil(t, a.Users)
	assert.Nil(t, a.Documents)
	assert.Equal(t, DocumentViewOptions{Active: ActiveOnly, Page: 2}, a.DocumentView)
}
