package paperwhite

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/eringen/paperwhite/frontmatter"
)

// ErrPostNotFound is returned when a slug/locale pair has no backing file.
var ErrPostNotFound = errors.New("paperwhite: post not found")

// ContentExt is the file extension of post documents.
const ContentExt = ".mdx"

// DefaultCategory is assigned to posts whose frontmatter carries no tag.
const DefaultCategory = "Uncategorized"

// Library reads post documents from a content root laid out as one
// subdirectory per locale with one file per post. It holds no state
// between calls: every operation re-reads from disk, and any caching
// belongs to the surrounding layer (see PostCache).
type Library struct {
	root   string
	strict bool
	warn   func(path string, err error)
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithStrictParsing makes a malformed content file abort the whole scan
// instead of being skipped with a warning.
func WithStrictParsing() LibraryOption {
	return func(l *Library) { l.strict = true }
}

// WithWarnFunc replaces the default warning sink (standard log) used
// when a file is skipped during a scan.
func WithWarnFunc(fn func(path string, err error)) LibraryOption {
	return func(l *Library) { l.warn = fn }
}

// NewLibrary creates a Library over the given content root.
func NewLibrary(root string, opts ...LibraryOption) *Library {
	l := &Library{
		root: root,
		warn: func(path string, err error) {
			log.Printf("paperwhite: skipping %s: %v", path, err)
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Transforms customizes how loaded documents are shaped. Nil functions
// mean identity.
type Transforms struct {
	// Body rewrites the document body before it is stored on the record.
	Body func(content string) string
	// ID derives the externally visible identifier from the slug.
	ID func(slug string) string
}

// ListOptions selects and shapes the result of ListPosts.
type ListOptions struct {
	// Locale restricts the scan to one locale subdirectory; empty scans all.
	Locale string
	// EnableContent includes the document body on each record. When false
	// the body is the empty string.
	EnableContent bool
	// EnableSort orders results by descending creation date.
	EnableSort bool
	// EnableFlat is a caller hint that the result is consumed as a flat
	// list. It does not change the returned shape.
	EnableFlat bool
	// FilterByType keeps only posts whose type field equals this value.
	FilterByType string
	// ExcludeBooks drops posts whose type field equals "book". Both type
	// filters are independent predicates and may be combined.
	ExcludeBooks bool
	Transforms   *Transforms
}

// ListPosts scans the content tree and returns post records. A missing
// content root or locale directory yields an empty result, not an error.
// Result order is directory enumeration order unless EnableSort is set.
func (l *Library) ListPosts(opts ListOptions) ([]Post, error) {
	files, err := l.contentFiles(opts.Locale)
	if err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(files))
	for _, f := range files {
		raw, err := os.ReadFile(f.path)
		if err != nil {
			if l.strict {
				return nil, fmt.Errorf("read %s: %w", f.path, err)
			}
			l.warn(f.path, err)
			continue
		}
		doc, err := frontmatter.Parse(raw)
		if err != nil {
			if l.strict {
				return nil, fmt.Errorf("parse %s: %w", f.path, err)
			}
			l.warn(f.path, err)
			continue
		}

		slug := strings.TrimSpace(strings.TrimSuffix(filepath.Base(f.path), ContentExt))
		id := slug
		if opts.Transforms != nil && opts.Transforms.ID != nil {
			id = opts.Transforms.ID(slug)
		}

		meta := doc.Meta
		// Normalize the creation date to the canonical display form. The
		// raw text stays usable for sorting either way.
		if created := meta.CreatedAt(); created != "" {
			if t, err := dateparse.ParseAny(created); err == nil {
				meta.CreateAt = t.Format("2006/01/02")
			}
		}

		category := meta.Tag
		if category == "" {
			category = DefaultCategory
		}

		body := ""
		if opts.EnableContent {
			body = doc.Body
			if opts.Transforms != nil && opts.Transforms.Body != nil {
				body = opts.Transforms.Body(body)
			}
		}

		posts = append(posts, Post{
			Slug:         slug,
			ID:           id,
			Frontmatter:  meta,
			MarkdownBody: body,
			Category:     category,
			Locale:       f.locale,
		})
	}

	if opts.FilterByType != "" {
		posts = filterPosts(posts, func(p *Post) bool {
			return p.Frontmatter.Type == opts.FilterByType
		})
	}
	if opts.ExcludeBooks {
		posts = filterPosts(posts, func(p *Post) bool {
			return p.Frontmatter.Type != "book"
		})
	}

	if opts.EnableSort {
		SortByDate(posts)
	}
	return posts, nil
}

// GetPost looks up the single document at {root}/{locale}/{slug}.mdx.
// It returns ErrPostNotFound when the file is absent; it never matches
// partially and never panics for any slug string.
func (l *Library) GetPost(slug, locale string) (*frontmatter.Document, error) {
	// Reject anything that could escape the content tree.
	if slug == "" || slug != filepath.Base(slug) || strings.HasPrefix(slug, ".") {
		return nil, ErrPostNotFound
	}
	path := filepath.Join(l.root, locale, slug+ContentExt)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// ListSlugs enumerates every content file as a {slug, locale} pair.
// Order is directory enumeration order; callers must not rely on it.
func (l *Library) ListSlugs(locale string) ([]SlugRef, error) {
	files, err := l.contentFiles(locale)
	if err != nil {
		return nil, err
	}
	refs := make([]SlugRef, 0, len(files))
	for _, f := range files {
		refs = append(refs, SlugRef{
			Slug:   strings.TrimSuffix(filepath.Base(f.path), ContentExt),
			Locale: f.locale,
		})
	}
	return refs, nil
}

// Locales lists the locale subdirectories present under the content root.
func (l *Library) Locales() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", l.root, err)
	}
	var locales []string
	for _, e := range entries {
		if e.IsDir() {
			locales = append(locales, e.Name())
		}
	}
	return locales, nil
}

type contentFile struct {
	path   string
	locale string
}

// contentFiles enumerates post files, either for one locale or across
// every locale subdirectory. os.ReadDir returns entries sorted by name,
// so enumeration order is deterministic for a fixed tree.
func (l *Library) contentFiles(locale string) ([]contentFile, error) {
	locales := []string{locale}
	if locale == "" {
		var err error
		locales, err = l.Locales()
		if err != nil {
			return nil, err
		}
	}

	var files []contentFile
	for _, loc := range locales {
		dir := filepath.Join(l.root, loc)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ContentExt) {
				continue
			}
			files = append(files, contentFile{
				path:   filepath.Join(dir, e.Name()),
				locale: loc,
			})
		}
	}
	return files, nil
}

func filterPosts(posts []Post, keep func(*Post) bool) []Post {
	out := posts[:0]
	for i := range posts {
		if keep(&posts[i]) {
			out = append(out, posts[i])
		}
	}
	return out
}

// SortByDate orders posts by descending creation date, in place. The
// sort is stable, so posts with equal dates keep their enumeration
// order; posts without a parseable date sort after all dated ones.
func SortByDate(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti, iok := postTime(&posts[i])
		tj, jok := postTime(&posts[j])
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}
		return ti.After(tj)
	})
}

// postTime re-parses the record's creation date text to a timestamp.
func postTime(p *Post) (time.Time, bool) {
	created := p.Frontmatter.CreatedAt()
	if created == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(created)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// GroupByYear buckets posts by creation year for the archive page.
// Undated posts fall into year zero. Years returns descending keys.
func GroupByYear(posts []Post) map[int][]Post {
	groups := make(map[int][]Post)
	for _, p := range posts {
		year := 0
		if t, ok := postTime(&p); ok {
			year = t.Year()
		}
		groups[year] = append(groups[year], p)
	}
	return groups
}

// Years returns the keys of a GroupByYear result in descending order.
func Years(groups map[int][]Post) []int {
	years := make([]int, 0, len(groups))
	for y := range groups {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// PostsInCategory keeps posts whose derived category equals the label.
func PostsInCategory(posts []Post, category string) []Post {
	var out []Post
	for _, p := range posts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
