package paperwhite

import (
	"encoding/xml"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/eringen/paperwhite/frontmatter"
)

func testSiteConfig() SiteConfig {
	cfg := SiteConfig{
		Name:        "Test Site",
		URL:         "https://example.com",
		Description: "A test site",
		AuthorName:  "Tester",
		AuthorEmail: "tester@example.com",
	}
	cfg.setDefaults()
	return cfg
}

func datedPost(slug, date string) Post {
	return Post{
		Slug:     slug,
		ID:       slug,
		Locale:   "en",
		Category: DefaultCategory,
		Frontmatter: frontmatter.Meta{
			Title:    "Title " + slug,
			CreateAt: date,
			Summary:  "Summary " + slug,
		},
	}
}

var feedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestBuildRSS(t *testing.T) {
	posts := []Post{datedPost("b", "2024/01/02"), datedPost("a", "2024/01/01")}
	feed := buildRSS(testSiteConfig(), "en", posts, feedNow)

	if feed.Version != "2.0" {
		t.Errorf("Version = %q", feed.Version)
	}
	if len(feed.Channel.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(feed.Channel.Items))
	}
	item := feed.Channel.Items[0]
	if item.Link != "https://example.com/en/p/b/" {
		t.Errorf("Link = %q", item.Link)
	}
	if item.GUID.Value != item.Link || item.GUID.IsPermaLink != "true" {
		t.Errorf("GUID = %+v", item.GUID)
	}
	if item.Description != "Summary b" {
		t.Errorf("Description = %q", item.Description)
	}
	if item.Category != DefaultCategory {
		t.Errorf("Category = %q", item.Category)
	}
	if !strings.Contains(item.PubDate, "2024") {
		t.Errorf("PubDate = %q", item.PubDate)
	}
}

func TestBuildRSSEmptyIsWellFormed(t *testing.T) {
	feed := buildRSS(testSiteConfig(), "en", nil, feedNow)
	out, err := xml.Marshal(feed)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var parsed rssXML
	if err := xml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("empty feed is not well-formed XML: %v", err)
	}
	if len(parsed.Channel.Items) != 0 {
		t.Errorf("expected zero items")
	}
}

func TestBuildRSSCapsAtLimit(t *testing.T) {
	posts := make([]Post, 0, feedItemLimit+10)
	for i := 0; i < feedItemLimit+10; i++ {
		posts = append(posts, datedPost(fmt.Sprintf("p%03d", i), "2024/01/01"))
	}
	feed := buildRSS(testSiteConfig(), "en", posts, feedNow)
	if len(feed.Channel.Items) != feedItemLimit {
		t.Errorf("got %d items, want %d", len(feed.Channel.Items), feedItemLimit)
	}
}

func TestBuildRSSEscapesText(t *testing.T) {
	p := datedPost("esc", "2024/01/01")
	p.Frontmatter.Title = `Ampers& <tag> "quote"`
	feed := buildRSS(testSiteConfig(), "en", []Post{p}, feedNow)
	out, err := xml.Marshal(feed)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "<tag>") {
		t.Errorf("unescaped markup in output: %s", s)
	}
	if !strings.Contains(s, "&amp;") {
		t.Errorf("ampersand not escaped: %s", s)
	}
}

func TestBuildRSSSummaryFallsBackToExcerpt(t *testing.T) {
	p := datedPost("x", "2024/01/01")
	p.Frontmatter.Summary = ""
	p.MarkdownBody = strings.Repeat("words ", 100)
	feed := buildRSS(testSiteConfig(), "en", []Post{p}, feedNow)
	desc := feed.Channel.Items[0].Description
	if desc == "" {
		t.Fatal("expected excerpt fallback")
	}
	if len([]rune(desc)) > summaryExcerptLen {
		t.Errorf("excerpt length = %d, want <= %d", len([]rune(desc)), summaryExcerptLen)
	}
}

func TestBuildAtom(t *testing.T) {
	posts := []Post{datedPost("a", "2024/03/04")}
	feed := buildAtom(testSiteConfig(), "en", posts, feedNow)

	if feed.XMLNS != "http://www.w3.org/2005/Atom" {
		t.Errorf("XMLNS = %q", feed.XMLNS)
	}
	if len(feed.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(feed.Entries))
	}
	e := feed.Entries[0]
	if e.ID != "https://example.com/en/p/a/" {
		t.Errorf("ID = %q", e.ID)
	}
	if !strings.HasPrefix(e.Updated, "2024-03-04T") {
		t.Errorf("Updated = %q", e.Updated)
	}
	if e.Category == nil || e.Category.Term != DefaultCategory {
		t.Errorf("Category = %+v", e.Category)
	}
	if feed.Author == nil || feed.Author.Email != "tester@example.com" {
		t.Errorf("Author = %+v", feed.Author)
	}
}

func TestFeedsLinkBooksToReviewRoute(t *testing.T) {
	book := datedPost("novel", "2024/01/05")
	book.Frontmatter.Type = "book"
	posts := []Post{book, datedPost("essay", "2024/01/01")}
	want := "https://example.com/en/review/novel/"

	rss := buildRSS(testSiteConfig(), "en", posts, feedNow)
	if rss.Channel.Items[0].Link != want {
		t.Errorf("rss Link = %q, want %q", rss.Channel.Items[0].Link, want)
	}
	if rss.Channel.Items[1].Link != "https://example.com/en/p/essay/" {
		t.Errorf("rss article Link = %q", rss.Channel.Items[1].Link)
	}

	atom := buildAtom(testSiteConfig(), "en", posts, feedNow)
	if atom.Entries[0].ID != want {
		t.Errorf("atom ID = %q, want %q", atom.Entries[0].ID, want)
	}

	sm := buildSitemap(testSiteConfig(), map[string][]Post{"en": {book}}, feedNow)
	found := false
	for _, u := range sm.URLs {
		if u.Loc == want {
			found = true
		}
		if strings.Contains(u.Loc, "/p/novel/") {
			t.Errorf("sitemap links book through redirecting route: %q", u.Loc)
		}
	}
	if !found {
		t.Errorf("sitemap missing %q", want)
	}
}

func TestBuildAtomEmptyIsWellFormed(t *testing.T) {
	feed := buildAtom(testSiteConfig(), "zh", nil, feedNow)
	out, err := xml.Marshal(feed)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var parsed atomFeed
	if err := xml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("empty feed is not well-formed XML: %v", err)
	}
}

func TestBuildSitemap(t *testing.T) {
	cfg := testSiteConfig()
	postsByLocale := map[string][]Post{
		"en": {datedPost("a", "2024/02/02")},
	}
	sm := buildSitemap(cfg, postsByLocale, feedNow)

	// Static routes for both default locales plus one post entry.
	wantLen := len(staticRoutes)*len(cfg.Locales) + 1
	if len(sm.URLs) != wantLen {
		t.Fatalf("got %d urls, want %d", len(sm.URLs), wantLen)
	}

	var postEntry *sitemapURL
	for i := range sm.URLs {
		if sm.URLs[i].Loc == "https://example.com/en/p/a/" {
			postEntry = &sm.URLs[i]
		}
	}
	if postEntry == nil {
		t.Fatal("post entry missing from sitemap")
	}
	if postEntry.LastMod != "2024-02-02" {
		t.Errorf("LastMod = %q", postEntry.LastMod)
	}
	if postEntry.ChangeFreq != "monthly" || postEntry.Priority != 0.6 {
		t.Errorf("post entry = %+v", postEntry)
	}

	if sm.URLs[0].Priority != 1.0 || sm.URLs[0].ChangeFreq != "weekly" {
		t.Errorf("home entry = %+v", sm.URLs[0])
	}
}
