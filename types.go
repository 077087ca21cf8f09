package paperwhite

import "github.com/eringen/paperwhite/frontmatter"

// Post is one content document loaded from the posts tree. Records are
// rebuilt on every load and are read-only snapshots; nothing in this
// layer mutates or shares them across requests.
type Post struct {
	// Slug is the file name without extension, unique within a locale.
	Slug string
	// ID is the externally visible identifier used in URLs. It defaults
	// to Slug and may be customized through Transforms.
	ID          string
	Frontmatter frontmatter.Meta
	// MarkdownBody is the document body with frontmatter stripped. It is
	// the empty string (never absent) unless content loading was requested.
	MarkdownBody string
	// Category is derived from the tag field and is always populated.
	Category string
	Locale   string
}

// Title returns the display title, falling back to the slug.
func (p *Post) Title() string {
	if p.Frontmatter.Title != "" {
		return p.Frontmatter.Title
	}
	return p.Slug
}

// IsBook reports whether the post is a book review.
func (p *Post) IsBook() bool {
	return p.Frontmatter.Type == "book"
}

// Category is a display label for a cluster of posts, matched against
// each post's derived category by string equality.
type Category struct {
	Slug string
	Name string
}

// SlugRef identifies one content file for static path generation.
type SlugRef struct {
	Slug   string
	Locale string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Keywords    []string
}
