package paperwhite

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	// coverGridWidth is the width covers are scaled to for the launcher
	// book grid; source images are usually much larger.
	coverGridWidth   = 320
	coverJPEGQuality = 80
)

// ScaleCover decodes an image, downscales it to coverGridWidth when
// wider, and re-encodes it as JPEG.
func ScaleCover(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode cover: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > coverGridWidth {
		newH := h * coverGridWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, coverGridWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: coverJPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode cover: %w", err)
	}
	return buf.Bytes(), nil
}

// coverCache memoizes scaled covers by source path. Covers are
// author-managed files that rarely change, so entries live until
// App.InvalidateContent drops them along with the post snapshots.
type coverCache struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func newCoverCache() *coverCache {
	return &coverCache{data: make(map[string][]byte)}
}

func (c *coverCache) get(path string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.data[path]
	return b, ok
}

func (c *coverCache) put(path string, b []byte) {
	c.mu.Lock()
	c.data[path] = b
	c.mu.Unlock()
}

func (c *coverCache) clear() {
	c.mu.Lock()
	c.data = make(map[string][]byte)
	c.mu.Unlock()
}

// handleCover serves the scaled cover thumbnail for one post. The cover
// path from frontmatter is resolved inside the static dir only.
func (a *App) handleCover(c echo.Context) error {
	locale := c.Param("locale")
	slug := strings.TrimSuffix(c.Param("slug"), ".jpg")

	post, err := a.Cache.GetPost(slug, locale)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	cover := strings.TrimPrefix(post.Frontmatter.Cover, "/")
	if cover == "" || strings.Contains(cover, "..") {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	path := filepath.Join(a.staticDir, filepath.FromSlash(cover))

	if b, ok := a.covers.get(path); ok {
		return c.Blob(http.StatusOK, "image/jpeg", b)
	}

	f, err := os.Open(path)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	defer f.Close()

	b, err := ScaleCover(f)
	if err != nil {
		c.Logger().Warnf("cover %s: %v", path, err)
		return echo.NewHTTPError(http.StatusNotFound)
	}
	a.covers.put(path, b)
	return c.Blob(http.StatusOK, "image/jpeg", b)
}
