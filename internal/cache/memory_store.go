package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"arb-dashboard/internal/dashboard"
)

// MemoryContextStore is the single-instance store. Contexts are kept
// serialised so callers never share a live object.
type MemoryContextStore struct {
	cache *gocache.Cache
}

func NewMemoryContextStore(ttl time.Duration) *MemoryContextStore {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &MemoryContextStore{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

func (s *MemoryContextStore) Load(_ context.Context, id string) (*dashboard.Context, error) {
	x, found := s.cache.Get(id)
	if !found {
		return nil, dashboard.ErrContextNotFound
	}
	raw, ok := x.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected cached context type %T", x)
	}
	return decodeContext(raw)
}

func (s *MemoryContextStore) Save(_ context.Context, c *dashboard.Context) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal context failed: %w", err)
	}
	s.cache.Set(c.ID, payload, gocache.DefaultExpiration)
	return nil
}

func (s *MemoryContextStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}
