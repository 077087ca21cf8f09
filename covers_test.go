package paperwhite

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"
)

func encodeTestPNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &buf
}

func TestScaleCoverDownscalesWide(t *testing.T) {
	src := encodeTestPNG(t, 1280, 1920)
	out, err := ScaleCover(src)
	if err != nil {
		t.Fatalf("ScaleCover failed: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	if img.Bounds().Dx() != coverGridWidth {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), coverGridWidth)
	}
	// 1280x1920 scaled to 320 keeps the 2:3 aspect.
	if img.Bounds().Dy() != 480 {
		t.Errorf("height = %d, want 480", img.Bounds().Dy())
	}
}

func TestScaleCoverKeepsSmallImages(t *testing.T) {
	src := encodeTestPNG(t, 200, 300)
	out, err := ScaleCover(src)
	if err != nil {
		t.Fatalf("ScaleCover failed: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 300 {
		t.Errorf("bounds = %v, want 200x300", img.Bounds())
	}
}

func TestScaleCoverRejectsGarbage(t *testing.T) {
	if _, err := ScaleCover(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected decode error")
	}
}

func TestCoverCache(t *testing.T) {
	cache := newCoverCache()
	if _, ok := cache.get("a"); ok {
		t.Error("empty cache should miss")
	}
	cache.put("a", []byte{1, 2})
	if b, ok := cache.get("a"); !ok || len(b) != 2 {
		t.Errorf("get = %v %v", b, ok)
	}
	cache.clear()
	if _, ok := cache.get("a"); ok {
		t.Error("cleared cache should miss")
	}
}

func TestInvalidateContentClearsBothCaches(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "en", "first", "---\ntitle: First\ncreateAt: 2024/01/01\n---\nbody\n")

	a := &App{
		Cache:  NewPostCache(NewLibrary(root), time.Minute, nil),
		covers: newCoverCache(),
	}
	a.covers.put("cover.png", []byte{1})

	posts, err := a.Cache.ListPosts("en")
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}

	// A new file inside the TTL window stays invisible until invalidation.
	writePost(t, root, "en", "second", "---\ntitle: Second\ncreateAt: 2024/02/01\n---\nbody\n")
	posts, _ = a.Cache.ListPosts("en")
	if len(posts) != 1 {
		t.Fatalf("snapshot should still hold, got %d posts", len(posts))
	}

	a.InvalidateContent()

	if _, ok := a.covers.get("cover.png"); ok {
		t.Error("cover entry survived invalidation")
	}
	posts, err = a.Cache.ListPosts("en")
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 {
		t.Errorf("got %d posts after invalidation, want 2", len(posts))
	}
}
