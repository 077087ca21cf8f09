package analytics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type limitFunc func(key string) bool

func (f limitFunc) Allow(key string) bool { return f(key) }

func collectContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/collect", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestCollectRejectedByLimiter(t *testing.T) {
	store := setupTestStore(t)
	h := NewHandler(store, limitFunc(func(string) bool { return false }))

	c, rec := collectContext(t, `{"locale":"en","path":"/en/"}`)
	if err := h.Collect(c); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	from := time.Now().UTC().Add(-time.Hour)
	stats, err := store.GetStats(from, from.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalViews != 0 {
		t.Errorf("limited request still recorded a visit, views = %d", stats.TotalViews)
	}
}

func TestCollectSavesVisit(t *testing.T) {
	store := setupTestStore(t)
	h := NewHandler(store, limitFunc(func(string) bool { return true }))

	c, rec := collectContext(t, `{"locale":"en","path":"/en/p/hello/"}`)
	c.Request().Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0")
	if err := h.Collect(c); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	from := time.Now().UTC().Add(-time.Hour)
	stats, err := store.GetStats(from, from.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalViews != 1 {
		t.Errorf("views = %d, want 1", stats.TotalViews)
	}
}

func TestCollectNilLimiterIsUnthrottled(t *testing.T) {
	h := NewHandler(setupTestStore(t), nil)
	c, rec := collectContext(t, `{"locale":"en","path":"/en/"}`)
	c.Request().Header.Set("DNT", "1")
	if err := h.Collect(c); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}
