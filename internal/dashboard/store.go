package dashboard

import (
	"context"
	"errors"
	"sync"
)

var ErrContextNotFound = errors.New("dashboard context not found")

// Store persists contexts between requests of the same browser.
type Store interface {
	Load(ctx context.Context, id string) (*Context, error)
	Save(ctx context.Context, c *Context) error
	Delete(ctx context.Context, id string) error
}

// Locks serialises requests that touch the same context inside this
// process. Each id gets its own mutex for as long as someone holds or waits
// on it, so distinct contexts never wait on each other.
type Locks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Lock blocks until id is free and returns the matching unlock.
func (l *Locks) Lock(id string) func() {
	l.mu.Lock()
	if l.entries == nil {
		l.entries = make(map[string]*lockEntry)
	}
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, id)
		}
		l.mu.Unlock()
	}
}
