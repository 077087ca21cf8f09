// Package markdown renders post bodies to HTML with goldmark and
// extracts the heading structure used by the reader catalog.
package markdown

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Linkify,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithXHTML(),
	),
)

// Render converts markdown text to HTML. A document that fails to
// convert falls back to its escaped source rather than an error page.
func Render(md string) string {
	text := strings.TrimSpace(md)
	if text == "" {
		return ""
	}
	var out bytes.Buffer
	if err := engine.Convert([]byte(text), &out); err != nil {
		return template.HTMLEscapeString(text)
	}
	return out.String()
}

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, Render(md))
		return err
	})
}

// Heading is one entry of a document's catalog.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// ExtractHeadings parses ATX-style headings from markdown text. Lines
// inside fenced code blocks are ignored.
func ExtractHeadings(md string) []Heading {
	var headings []Heading
	inCode := false
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			continue
		}
		if inCode || !strings.HasPrefix(line, "#") {
			continue
		}
		level := 0
		for _, r := range line {
			if r == '#' {
				level++
			} else {
				break
			}
		}
		if level < 1 || level > 6 || level >= len(line) || line[level] != ' ' {
			continue
		}
		text := strings.TrimSpace(line[level:])
		if text == "" {
			continue
		}
		headings = append(headings, Heading{
			Level: level,
			Text:  text,
			ID:    anchorID(text),
		})
	}
	return headings
}

// anchorID converts heading text to a URL-friendly anchor.
func anchorID(text string) string {
	s := strings.ToLower(text)
	s = strings.ReplaceAll(s, " ", "-")
	var sb strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			sb.WriteRune(r)
		}
	}
	out := strings.Trim(sb.String(), "-")
	if out == "" {
		out = "heading"
	}
	return out
}

// Excerpt returns the first n runes of the plain text, for feed
// summaries when a post has no explicit summary field.
func Excerpt(md string, n int) string {
	text := strings.TrimSpace(md)
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
