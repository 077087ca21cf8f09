package paperwhite

import (
	"sync"
	"time"
)

// PostCache holds TTL-bounded per-locale snapshots of the post list.
// The Library itself is stateless and rescans the tree on every call;
// pages and feeds read through this layer so one render burst does not
// hit the disk repeatedly.
type PostCache struct {
	mu        sync.RWMutex
	snapshots map[string]*localeSnapshot
	ttl       time.Duration
	lib       *Library
	tr        *Transforms
}

type localeSnapshot struct {
	posts   []Post
	fetched time.Time
}

// NewPostCache creates a PostCache backed by the given Library. The
// optional transforms are applied on every reload.
func NewPostCache(lib *Library, ttl time.Duration, tr *Transforms) *PostCache {
	return &PostCache{
		snapshots: make(map[string]*localeSnapshot),
		ttl:       ttl,
		lib:       lib,
		tr:        tr,
	}
}

// Invalidate clears all snapshots so the next read triggers fresh scans.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.snapshots = make(map[string]*localeSnapshot)
	c.mu.Unlock()
}

// ListPosts returns the locale's posts, sorted by descending creation
// date with content loaded. Callers must treat the slice as read-only.
func (c *PostCache) ListPosts(locale string) ([]Post, error) {
	c.mu.RLock()
	if snap, ok := c.snapshots[locale]; ok && time.Since(snap.fetched) < c.ttl {
		posts := snap.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have reloaded while we waited for the lock.
	if snap, ok := c.snapshots[locale]; ok && time.Since(snap.fetched) < c.ttl {
		return snap.posts, nil
	}
	posts, err := c.lib.ListPosts(ListOptions{
		Locale:        locale,
		EnableContent: true,
		EnableSort:    true,
		Transforms:    c.tr,
	})
	if err != nil {
		return nil, err
	}
	c.snapshots[locale] = &localeSnapshot{posts: posts, fetched: time.Now()}
	return posts, nil
}

// GetPost returns a single post by slug from the locale snapshot.
func (c *PostCache) GetPost(slug, locale string) (*Post, error) {
	posts, err := c.ListPosts(locale)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Slug == slug {
			return &posts[i], nil
		}
	}
	return nil, ErrPostNotFound
}
