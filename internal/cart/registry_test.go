package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArtfulStore/internal/storage"
)

func TestRegistry_ScopesBySession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	reg := NewRegistry(store)

	add := func(sid string, q int) {
		err := reg.With(ctx, sid, func(m *Manager) error {
			_, err := m.AddItem(ctx, product("A", "10", 100), q)
			return err
		})
		require.NoError(t, err)
	}
	add("s1", 2)
	add("s2", 5)

	_, ok, err := store.Get(ctx, StorageKey("s1"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_SweepDropsIdleCarts(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	reg := NewRegistry(store)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	touch := func(sid string) {
		require.NoError(t, reg.With(ctx, sid, func(m *Manager) error {
			_, err := m.AddItem(ctx, product("A", "10", 100), 1)
			return err
		}))
	}
	touch("old")
	now = now.Add(20 * time.Minute)
	touch("fresh")
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, reg.Sweep(30*time.Minute))
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 0, reg.Sweep(30*time.Minute))

	var total int
	require.NoError(t, reg.With(ctx, "old", func(m *Manager) error {
		total = m.State().TotalItems()
		return nil
	}))
	assert.Equal(t, 1, total, "swept cart reloads from storage")
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_SweepSkipsBusySession(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(storage.NewMemStore())

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var clock sync.Mutex
	reg.now = func() time.Time {
		clock.Lock()
		defer clock.Unlock()
		return now
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- reg.With(ctx, "s", func(m *Manager) error {
			close(entered)
			<-release
			_, err := m.AddItem(ctx, product("A", "10", 100), 1)
			return err
		})
	}()
	<-entered

	clock.Lock()
	now = now.Add(time.Hour)
	clock.Unlock()
	assert.Equal(t, 0, reg.Sweep(time.Minute))
	assert.Equal(t, 1, reg.Len())

	close(release)
	require.NoError(t, <-done)
}

func TestRegistry_SweptSessionDoesNotLoseWrites(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	reg := NewRegistry(store)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, reg.With(ctx, "s", func(m *Manager) error {
				_, err := m.AddItem(ctx, product("A", "1", 1000), 1)
				return err
			}))
		}()
		go func() {
			defer wg.Done()
			reg.Sweep(0)
		}()
	}
	wg.Wait()

	data, ok, err := store.Get(ctx, StorageKey("s"))
	require.NoError(t, err)
	require.True(t, ok)
	items, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 40, items[0].Quantity)
}

func TestRegistry_ReadErrorDoesNotOverwriteStoredCart(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemStore: storage.NewMemStore()}

	seed := NewManager(store, StorageKey("s"))
	_, err := seed.AddItem(ctx, product("portrait-1", "10", 5), 2)
	require.NoError(t, err)

	store.getFailures = 1
	reg := NewRegistry(store)

	called := false
	err = reg.With(ctx, "s", func(m *Manager) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrStorageUnavailable)
	assert.False(t, called)

	require.NoError(t, reg.With(ctx, "s", func(m *Manager) error {
		_, err := m.AddItem(ctx, product("portrait-2", "20", 5), 1)
		return err
	}))

	data, _, err := store.Get(ctx, StorageKey("s"))
	require.NoError(t, err)
	items, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "portrait-1", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "portrait-2", items[1].ID)
}

func TestRegistry_JanitorStopsWithContext(t *testing.T) {
	reg := NewRegistry(storage.NewMemStore())
	require.NoError(t, reg.With(context.Background(), "s", func(*Manager) error { return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		reg.Janitor(ctx, time.Millisecond, 0, func(n int) {
			select {
			case swept <- n:
			default:
			}
		})
	}()

	assert.Equal(t, 1, <-swept)
	cancel()
	<-done
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_SerializesCalls(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(storage.NewMemStore())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reg.With(ctx, "s", func(m *Manager) error {
				_, err := m.AddItem(ctx, product("A", "1", 1000), 1)
				return err
			})
		}()
	}
	wg.Wait()

	require.NoError(t, reg.With(ctx, "s", func(m *Manager) error {
		assert.Equal(t, 50, m.State().TotalItems())
		return nil
	}))
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "artful-cart:s_123", StorageKey("s_123"))
}
