package cart

import (
	"context"
	"sync"
	"time"

	"ArtfulStore/internal/storage"
)

const keyPrefix = "artful-cart"

// StorageKey is where a session's cart lives in durable storage.
func StorageKey(sessionID string) string {
	return keyPrefix + ":" + sessionID
}

// Registry owns one Manager per session and runs calls for the same session
// one at a time, in arrival order of the lock. Idle carts are dropped by Sweep
// and reloaded from storage on their next use.
type Registry struct {
	store storage.Store
	opts  []Option
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*cartSession
}

// cartSession is guarded by mu. Once evicted is set the entry is no longer in
// Registry.sessions and callers must look the session up again.
type cartSession struct {
	mu       sync.Mutex
	loaded   bool
	evicted  bool
	lastUsed time.Time
	m        *Manager
}

func NewRegistry(store storage.Store, opts ...Option) *Registry {
	return &Registry{
		store:    store,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*cartSession),
	}
}

// With runs fn against the session's manager, loading it from storage on
// first use. If the stored cart cannot be read, fn is not called and the error
// wraps ErrStorageUnavailable; the next call retries the load. fn must not
// retain the manager.
func (r *Registry) With(ctx context.Context, sessionID string, fn func(*Manager) error) error {
	s := r.acquire(sessionID)
	defer s.mu.Unlock()

	if !s.loaded {
		if _, err := s.m.Load(ctx); err != nil {
			return err
		}
		s.loaded = true
	}
	defer func() { s.lastUsed = r.now() }()
	return fn(s.m)
}

// acquire returns the live session entry with its lock held.
func (r *Registry) acquire(id string) *cartSession {
	for {
		s := r.lookup(id)
		s.mu.Lock()
		if !s.evicted {
			return s
		}
		s.mu.Unlock()
	}
}

func (r *Registry) lookup(id string) *cartSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = &cartSession{
			m:        NewManager(r.store, StorageKey(id), r.opts...),
			lastUsed: r.now(),
		}
		r.sessions[id] = s
	}
	return s
}

// Sweep drops carts unused for longer than idle and returns how many went.
// Sessions with a call in flight are left alone.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for id, s := range r.sessions {
		if !s.mu.TryLock() {
			continue
		}
		if s.lastUsed.Before(cutoff) {
			s.evicted = true
			delete(r.sessions, id)
			n++
		}
		s.mu.Unlock()
	}
	return n
}

// Janitor sweeps every interval until ctx is done.
func (r *Registry) Janitor(ctx context.Context, every, idle time.Duration, onSweep func(evicted int)) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(idle); onSweep != nil {
				onSweep(n)
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
