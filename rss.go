package paperwhite

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/paperwhite/markdown"
)

// feedItemLimit caps feeds at the most recently dated posts.
const feedItemLimit = 50

// summaryExcerptLen bounds the fallback excerpt taken from the body.
const summaryExcerptLen = 200

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Copyright     string    `xml:"copyright"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
	Category    string  `xml:"category,omitempty"`
	Author      string  `xml:"author,omitempty"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink string `xml:"isPermaLink,attr"`
}

// buildRSS assembles an RSS 2.0 feed for one locale. Posts must already
// be sorted by descending creation date; only the newest feedItemLimit
// make it into the feed. A feed with zero posts is still well-formed.
func buildRSS(cfg SiteConfig, locale string, posts []Post, now time.Time) rssXML {
	items := make([]rssItem, 0, min(len(posts), feedItemLimit))
	for _, p := range posts {
		if len(items) == feedItemLimit {
			break
		}
		postURL := BuildURL(cfg.URL, locale, PostRoute(&p), p.ID)
		pubDate := now
		if t, ok := postTime(&p); ok {
			pubDate = t
		}
		items = append(items, rssItem{
			Title:       p.Title(),
			Link:        postURL,
			Description: postSummary(&p),
			PubDate:     pubDate.UTC().Format(time.RFC1123Z),
			GUID:        rssGUID{Value: postURL, IsPermaLink: "true"},
			Category:    p.Category,
			Author:      cfg.AuthorName,
		})
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:         cfg.Name,
			Link:          cfg.URL,
			Description:   cfg.Description,
			Language:      locale,
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
			Copyright:     fmt.Sprintf("All rights reserved %d, %s", now.Year(), cfg.AuthorName),
			Items:         items,
		},
	}
}

// postSummary prefers the explicit summary field and falls back to a
// body excerpt; the consumer escapes it for XML.
func postSummary(p *Post) string {
	if p.Frontmatter.Summary != "" {
		return p.Frontmatter.Summary
	}
	return markdown.Excerpt(p.MarkdownBody, summaryExcerptLen)
}

func (a *App) renderRSS(c echo.Context, locale string, posts []Post) error {
	feed := buildRSS(a.Config, locale, posts, time.Now())
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
