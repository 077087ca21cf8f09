// Package frontmatter splits the YAML metadata block from the top of a
// markdown content file and maps it onto a typed schema.
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta is the recognized metadata schema. Every field is optional; keys
// outside the schema are kept in Extra so documents authored against a
// newer schema still round-trip.
type Meta struct {
	Title     string
	CreateAt  string
	Date      string // legacy name for CreateAt, kept for unmigrated files
	UpdatedAt string
	Tag       string
	Summary   string
	Pin       bool
	Type      string
	Cover     string
	Keywords  []string
	SEO       *SEO
	Hidden    bool
	Extra     map[string]any
}

// SEO overrides title/description/keywords for metadata generation.
type SEO struct {
	Title       string
	Description string
	Keywords    []string
}

// CreatedAt returns the creation date text, falling back from createAt
// to the legacy date field. Empty when the document carries neither.
func (m *Meta) CreatedAt() string {
	if m.CreateAt != "" {
		return m.CreateAt
	}
	return m.Date
}

// Document is one parsed content file: metadata plus the body with the
// metadata block stripped.
type Document struct {
	Meta Meta
	// Fields holds the raw decoded metadata mapping, including keys that
	// were mapped onto Meta. Migration tooling rewrites this form.
	Fields map[string]any
	Body   string
}

const fence = "---"

// Parse splits content into frontmatter and body. A document without a
// metadata block yields an empty Meta and the full content as body.
func Parse(content []byte) (*Document, error) {
	str := string(content)
	if !strings.HasPrefix(str, fence+"\n") && !strings.HasPrefix(str, fence+"\r\n") {
		return &Document{Body: str}, nil
	}
	rest := str[len(fence):]
	idx := strings.Index(rest, "\n"+fence)
	if idx < 0 {
		return nil, fmt.Errorf("frontmatter: unterminated metadata block")
	}
	header := rest[:idx]
	body := rest[idx+len("\n"+fence):]
	// Drop the remainder of the closing fence line.
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}

	fields := map[string]any{}
	if err := yaml.Unmarshal([]byte(header), &fields); err != nil {
		return nil, fmt.Errorf("frontmatter: decode metadata: %w", err)
	}
	return &Document{
		Meta:   metaFromFields(fields),
		Fields: fields,
		Body:   body,
	}, nil
}

// Stringify re-emits a document as frontmatter plus body. Mapping keys
// are written in sorted order, so repeated rewrites are stable.
func Stringify(fields map[string]any, body string) ([]byte, error) {
	var b strings.Builder
	if len(fields) > 0 {
		header, err := yaml.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("frontmatter: encode metadata: %w", err)
		}
		b.WriteString(fence + "\n")
		b.Write(header)
		b.WriteString(fence + "\n")
	}
	b.WriteString(body)
	return []byte(b.String()), nil
}

// metaFromFields picks the recognized keys out of the raw mapping and
// collects the rest into Extra.
func metaFromFields(fields map[string]any) Meta {
	m := Meta{}
	for key, val := range fields {
		switch key {
		case "title":
			m.Title = asString(val)
		case "createAt":
			m.CreateAt = asString(val)
		case "date":
			m.Date = asString(val)
		case "updatedAt":
			m.UpdatedAt = asString(val)
		case "tag":
			m.Tag = asString(val)
		case "summary":
			m.Summary = asString(val)
		case "pin":
			m.Pin = asBool(val)
		case "type":
			m.Type = asString(val)
		case "cover":
			m.Cover = asString(val)
		case "keywords":
			m.Keywords = asStrings(val)
		case "seo":
			m.SEO = asSEO(val)
		case "hidden":
			m.Hidden = asBool(val)
		default:
			if m.Extra == nil {
				m.Extra = map[string]any{}
			}
			m.Extra[key] = val
		}
	}
	return m
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asStrings accepts both a YAML list and a single scalar, since authors
// write keywords either way.
func asStrings(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(asString(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	}
	return nil
}

func asSEO(v any) *SEO {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &SEO{
		Title:       asString(m["title"]),
		Description: asString(m["description"]),
		Keywords:    asStrings(m["keywords"]),
	}
}
