package paperwhite

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// VisiblePosts drops posts flagged hidden in their frontmatter.
// Feeds, sitemaps, and listing pages all read through this.
func VisiblePosts(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if !p.Frontmatter.Hidden {
			out = append(out, p)
		}
	}
	return out
}

// PinnedFirst returns posts with pinned entries moved to the front,
// preserving relative order within each group.
func PinnedFirst(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Frontmatter.Pin {
			out = append(out, p)
		}
	}
	for _, p := range posts {
		if !p.Frontmatter.Pin {
			out = append(out, p)
		}
	}
	return out
}

// PostRoute returns the path segment a post is served under: "review"
// for books, "p" for everything else. Feeds, sitemaps, and canonical
// URLs all go through this so book links never bounce off a redirect.
func PostRoute(p *Post) string {
	if p.IsBook() {
		return "review"
	}
	return "p"
}

// PageMetaFor derives head metadata for a post page, honoring the
// frontmatter seo overrides when present.
func PageMetaFor(cfg SiteConfig, p *Post) PageMeta {
	meta := PageMeta{
		Title:       p.Title(),
		Description: p.Frontmatter.Summary,
		URL:         BuildURL(cfg.URL, p.Locale, PostRoute(p), p.ID),
		OGType:      "article",
		Keywords:    p.Frontmatter.Keywords,
	}
	if seo := p.Frontmatter.SEO; seo != nil {
		if seo.Title != "" {
			meta.Title = seo.Title
		}
		if seo.Description != "" {
			meta.Description = seo.Description
		}
		if len(seo.Keywords) > 0 {
			meta.Keywords = seo.Keywords
		}
	}
	return meta
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.AuthorName != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.AuthorName,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org JSON-LD block for a post page.
// Book reviews are emitted as Review, everything else as BlogPosting.
func BlogPostingJsonLD(cfg SiteConfig, p *Post) string {
	postURL := BuildURL(cfg.URL, p.Locale, PostRoute(p), p.ID)
	kind := "BlogPosting"
	if p.IsBook() {
		kind = "Review"
	}
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         kind,
		"headline":      p.Title(),
		"description":   p.Frontmatter.Summary,
		"datePublished": p.Frontmatter.CreatedAt(),
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.AuthorName != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.AuthorName,
		}
	}
	if len(p.Frontmatter.Keywords) > 0 {
		data["keywords"] = strings.Join(p.Frontmatter.Keywords, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
