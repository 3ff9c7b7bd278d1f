package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisContextStoreKey(t *testing.T) {
	store := NewRedisContextStore(nil, 0)
	assert.Equal(t, "arb:dashboard:ctx:abc", store.key("abc"))
}

func TestDecodeContextRepairsCollections(t *testing.T) {
	dc, err := decodeContext([]byte(`{"id":"ctx-9","session_id":"S1","messages":null}`))
	require.NoError(t, err)
	assert.Equal(t, "S1", dc.SessionID)
	assert.NotNil(t, dc.Messages)
	assert.NotNil(t, dc.FeedbackGiven)

	_, err = decodeContext([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeContextKeepsFAQOrder(t *testing.T) {
	dc, err := decodeContext([]byte(`{"id":"ctx-9","panels":{"faq":{"zeta?":9,"alpha?":3}}}`))
	require.NoError(t, err)
	require.NotNil(t, dc.Panels.FAQ)
	faqs := *dc.Panels.FAQ
	require.Len(t, faqs, 2)
	assert.Equal(t, "zeta?", faqs[0].Question)
	assert.Equal(t, 9, faqs[0].Count)
}
