package paperwhite

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type atomFeed struct {
	XMLName  xml.Name    `xml:"feed"`
	XMLNS    string      `xml:"xmlns,attr"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	Links    []atomLink  `xml:"link"`
	ID       string      `xml:"id"`
	Updated  string      `xml:"updated"`
	Author   *atomPerson `xml:"author,omitempty"`
	Rights   string      `xml:"rights,omitempty"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type atomPerson struct {
	Name  string `xml:"name"`
	Email string `xml:"email,omitempty"`
}

type atomEntry struct {
	Title    string        `xml:"title"`
	Link     atomLink      `xml:"link"`
	ID       string        `xml:"id"`
	Updated  string        `xml:"updated"`
	Summary  string        `xml:"summary"`
	Category *atomCategory `xml:"category,omitempty"`
	Author   *atomPerson   `xml:"author,omitempty"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// buildAtom assembles an Atom feed for one locale under the same
// contract as buildRSS: sorted input, feedItemLimit cap, valid when empty.
func buildAtom(cfg SiteConfig, locale string, posts []Post, now time.Time) atomFeed {
	author := &atomPerson{Name: cfg.AuthorName, Email: cfg.AuthorEmail}
	entries := make([]atomEntry, 0, min(len(posts), feedItemLimit))
	for _, p := range posts {
		if len(entries) == feedItemLimit {
			break
		}
		postURL := BuildURL(cfg.URL, locale, PostRoute(&p), p.ID)
		updated := now
		if t, ok := postTime(&p); ok {
			updated = t
		}
		entry := atomEntry{
			Title:   p.Title(),
			Link:    atomLink{Href: postURL, Rel: "alternate", Type: "text/html"},
			ID:      postURL,
			Updated: updated.UTC().Format(time.RFC3339),
			Summary: postSummary(&p),
			Author:  author,
		}
		if p.Category != "" {
			entry.Category = &atomCategory{Term: p.Category}
		}
		entries = append(entries, entry)
	}
	return atomFeed{
		XMLNS:    "http://www.w3.org/2005/Atom",
		Title:    cfg.Name,
		Subtitle: cfg.Description,
		Links: []atomLink{
			{Href: cfg.URL, Rel: "alternate", Type: "text/html"},
			{Href: cfg.URL + "/feed.xml", Rel: "self", Type: "application/atom+xml"},
		},
		ID:      cfg.URL + "/",
		Updated: now.UTC().Format(time.RFC3339),
		Author:  author,
		Rights:  fmt.Sprintf("All rights reserved %d, %s", now.Year(), cfg.AuthorName),
		Entries: entries,
	}
}

func (a *App) renderAtom(c echo.Context, locale string, posts []Post) error {
	feed := buildAtom(a.Config, locale, posts, time.Now())
	c.Response().Header().Set(echo.HeaderContentType, "application/atom+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
