package paperwhite

import (
	"errors"
	"testing"
	"time"
)

func TestPostCacheServesSnapshot(t *testing.T) {
	lib, root := setupTestLibrary(t)
	cache := NewPostCache(lib, time.Minute, nil)

	posts, err := cache.ListPosts("en")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("got %d posts, want 3", len(posts))
	}

	// A file added after the snapshot is invisible until invalidation.
	writePost(t, root, "en", "late", "---\ntitle: Late\ncreateAt: 2025/01/01\n---\nx\n")
	posts, err = cache.ListPosts("en")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 3 {
		t.Errorf("snapshot should be stable, got %d posts", len(posts))
	}

	cache.Invalidate()
	posts, err = cache.ListPosts("en")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 4 {
		t.Errorf("after Invalidate got %d posts, want 4", len(posts))
	}
	if posts[0].Slug != "late" {
		t.Errorf("newest post should sort first, got %s", posts[0].Slug)
	}
}

func TestPostCacheLocalesAreIndependent(t *testing.T) {
	lib, _ := setupTestLibrary(t)
	cache := NewPostCache(lib, time.Minute, nil)

	en, err := cache.ListPosts("en")
	if err != nil {
		t.Fatalf("ListPosts(en) failed: %v", err)
	}
	zh, err := cache.ListPosts("zh")
	if err != nil {
		t.Fatalf("ListPosts(zh) failed: %v", err)
	}
	if len(en) != 3 || len(zh) != 1 {
		t.Errorf("en=%d zh=%d, want 3 and 1", len(en), len(zh))
	}
}

func TestPostCacheGetPost(t *testing.T) {
	lib, _ := setupTestLibrary(t)
	cache := NewPostCache(lib, time.Minute, nil)

	post, err := cache.GetPost("a", "en")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if post.Title() != "Post A" {
		t.Errorf("Title = %q, want Post A", post.Title())
	}
	if post.MarkdownBody == "" {
		t.Error("cached posts should carry content")
	}

	if _, err := cache.GetPost("missing", "en"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("error = %v, want ErrPostNotFound", err)
	}
}
