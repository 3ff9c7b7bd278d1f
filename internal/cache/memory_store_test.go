package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arb-dashboard/internal/dashboard"
	"arb-dashboard/internal/model"
)

func TestMemoryContextStoreRoundTrip(t *testing.T) {
	store := NewMemoryContextStore(time.Minute)
	ctx := context.Background()

	dc := dashboard.New("ctx-1", time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC))
	dc.SessionID = "s-1"
	answer := model.Answer{Answer: "x", Citation: []string{"c"}, FollowUp: []string{}}
	dc.Append(model.Message{Role: model.RoleAssistant, Answer: &answer, ResponseID: model.NumericID(7), SessionID: "s-1"})
	dc.MarkFeedback(dashboard.MessageKey(0))
	faqs := model.FAQList{{Question: "q", Count: 2}}
	dc.Panels.FAQ = &faqs
	dc.Admin.Documents = &dashboard.DocumentSlot{Documents: []model.AdminDocument{{ID: model.StringID("d1"), Title: "T"}}}

	require.NoError(t, store.Save(ctx, dc))

	loaded, err := store.Load(ctx, "ctx-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", loaded.SessionID)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, model.NumericID(7), loaded.Messages[0].ResponseID)
	assert.Equal(t, answer, *loaded.Messages[0].Answer)
	assert.True(t, loaded.HasFeedback(dashboard.MessageKey(0)))
	require.NotNil(t, loaded.Panels.FAQ)
	assert.Equal(t, faqs, *loaded.Panels.FAQ)
	require.NotNil(t, loaded.Admin.Documents)
	assert.Equal(t, "T", loaded.Admin.Documents.Documents[0].Title)
	assert.Nil(t, loaded.Admin.SafetyLogs)
}

func TestMemoryContextStoreIsolatesCopies(t *testing.T) {
	store := NewMemoryContextStore(time.Minute)
	ctx := context.Background()

	dc := dashboard.New("ctx-2", time.Now())
	require.NoError(t, store.Save(ctx, dc))

	dc.SessionID = "changed after save"
	loaded, err := store.Load(ctx, "ctx-2")
	require.NoError(t, err)
	assert.Empty(t, loaded.SessionID)
}

func TestMemoryContextStoreDelete(t *testing.T) {
	store := NewMemoryContextStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, dashboard.New("ctx-3", time.Now())))
	require.NoError(t, store.Delete(ctx, "ctx-3"))

	_, err := store.Load(ctx, "ctx-3")
	assert.ErrorIs(t, err, dashboard.ErrContextNotFound)
}
