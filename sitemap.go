package paperwhite

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority"`
}

// staticRoute is one locale-prefixed page that exists regardless of content.
type staticRoute struct {
	path       string
	changeFreq string
	priority   float64
}

var staticRoutes = []staticRoute{
	{"", "weekly", 1.0},
	{"archive", "weekly", 0.8},
	{"settings", "monthly", 0.3},
}

// buildSitemap emits one entry per locale for each static route plus one
// entry per post, with last-modified stamps and priority weights.
func buildSitemap(cfg SiteConfig, postsByLocale map[string][]Post, now time.Time) sitemapURLSet {
	today := now.UTC().Format("2006-01-02")
	var urls []sitemapURL
	for _, locale := range cfg.Locales {
		for _, r := range staticRoutes {
			loc := BuildURL(cfg.URL, locale)
			if r.path != "" {
				loc = BuildURL(cfg.URL, locale, r.path)
			}
			urls = append(urls, sitemapURL{
				Loc:        loc,
				LastMod:    today,
				ChangeFreq: r.changeFreq,
				Priority:   r.priority,
			})
		}
		for _, p := range postsByLocale[locale] {
			lastMod := today
			if t, ok := postTime(&p); ok {
				lastMod = t.UTC().Format("2006-01-02")
			}
			urls = append(urls, sitemapURL{
				Loc:        BuildURL(cfg.URL, locale, PostRoute(&p), p.ID),
				LastMod:    lastMod,
				ChangeFreq: "monthly",
				Priority:   0.6,
			})
		}
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, postsByLocale map[string][]Post) error {
	sitemap := buildSitemap(a.Config, postsByLocale, time.Now())
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
