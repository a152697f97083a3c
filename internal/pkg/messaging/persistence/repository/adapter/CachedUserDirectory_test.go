package adapter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	cacheport "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/cache/port"
	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	setErr error
	sets   int
}

var _ cacheport.Cache = (*memCache)(nil)

func newMemCache() *memCache { return &memCache{data: make(map[string]string)} }

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *memCache) Ping(context.Context) error { return nil }
func (c *memCache) Close() error               { return nil }

type countingDirectory struct {
	profile messaging.Profile
	err     error
	calls   int
}

func (d *countingDirectory) GetProfile(_ context.Context, _ string) (messaging.Profile, error) {
	d.calls++
	if d.err != nil {
		return messaging.Profile{}, d.err
	}
	return d.profile, nil
}

func TestCachedDirectoryMissThenHit(t *testing.T) {
	pic := "alice.png"
	inner := &countingDirectory{profile: messaging.Profile{Username: "alice", ProfilePicture: &pic}}
	cache := newMemCache()
	dir := NewCachedUserDirectory(inner, cache)

	first, err := dir.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, cache.sets)

	second, err := dir.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", second.Username)
	require.NotNil(t, second.ProfilePicture)
	assert.Equal(t, "alice.png", *second.ProfilePicture)
	assert.Equal(t, 1, inner.calls, "second lookup must be served from cache")
}

func TestCachedDirectoryGetErrorFallsThrough(t *testing.T) {
	inner := &countingDirectory{profile: messaging.Profile{Username: "bob"}}
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	dir := NewCachedUserDirectory(inner, cache)

	p, err := dir.GetProfile(context.Background(), "u2")
	require.NoError(t, err, "cache failures are invisible to the caller")
	assert.Equal(t, "bob", p.Username)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedDirectorySetErrorIgnored(t *testing.T) {
	inner := &countingDirectory{profile: messaging.Profile{Username: "bob"}}
	cache := newMemCache()
	cache.setErr = errors.New("redis down")
	dir := NewCachedUserDirectory(inner, cache)

	_, err := dir.GetProfile(context.Background(), "u2")
	require.NoError(t, err)
}

func TestCachedDirectoryCorruptEntryRefetches(t *testing.T) {
	inner := &countingDirectory{profile: messaging.Profile{Username: "bob"}}
	cache := newMemCache()
	cache.data["profile:u3"] = "{not json"
	dir := NewCachedUserDirectory(inner, cache)

	p, err := dir.GetProfile(context.Background(), "u3")
	require.NoError(t, err)
	assert.Equal(t, "bob", p.Username)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedDirectoryInnerErrorPropagates(t *testing.T) {
	inner := &countingDirectory{err: errors.New("users table gone")}
	dir := NewCachedUserDirectory(inner, newMemCache())

	_, err := dir.GetProfile(context.Background(), "u4")
	require.Error(t, err)
}
