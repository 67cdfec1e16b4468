package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockedStore() (*MemoryStore, *clock) {
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryStore()
	s.now = clk.now
	return s, clk
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	store, _ := newClockedStore()
	l := New(store, 15*time.Minute, 3)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 3-i, d.Remaining)
		assert.Equal(t, 15*time.Minute, d.ResetAfter)
	}

	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	store, _ := newClockedStore()
	l := New(store, time.Minute, 1)
	ctx := context.Background()

	d, _ := l.Allow(ctx, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "b")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "a")
	assert.False(t, d.Allowed)
}

func TestMemoryStoreWindowResets(t *testing.T) {
	store, clk := newClockedStore()
	l := New(store, time.Minute, 1)
	ctx := context.Background()

	d, _ := l.Allow(ctx, "a")
	assert.True(t, d.Allowed)

	clk.advance(40 * time.Second)
	d, _ = l.Allow(ctx, "a")
	assert.False(t, d.Allowed)
	assert.Equal(t, 20*time.Second, d.ResetAfter)

	clk.advance(20 * time.Second)
	d, _ = l.Allow(ctx, "a")
	assert.True(t, d.Allowed)
}

func TestMemoryStoreSweepsExpiredKeys(t *testing.T) {
	store, clk := newClockedStore()
	ctx := context.Background()

	_, _ = store.Hit(ctx, "a", time.Minute)
	_, _ = store.Hit(ctx, "b", time.Minute)
	require.Equal(t, 2, store.Len())

	clk.advance(2 * time.Minute)
	_, _ = store.Hit(ctx, "c", time.Minute)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreConcurrentHits(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Hit(ctx, "k", time.Minute)
		}()
	}
	wg.Wait()

	w, err := store.Hit(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(51), w.Count)
}

type failingStore struct{ err error }

func (f failingStore) Hit(context.Context, string, time.Duration) (Window, error) {
	return Window{}, f.err
}

func TestLimiterWrapsStoreError(t *testing.T) {
	boom := errors.New("boom")
	l := New(failingStore{err: boom}, time.Minute, 1)

	_, err := l.Allow(context.Background(), "a")
	assert.ErrorIs(t, err, boom)
}

func TestLimiterPolicy(t *testing.T) {
	l := New(NewMemoryStore(), 15*time.Minute, 100)
	assert.Equal(t, "100;w=900", l.Policy())
}
