package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasic(t *testing.T) {
	got := Render("# Title\n\nSome **bold** text.")
	if !strings.Contains(got, "<h1") {
		t.Errorf("missing h1 in %q", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("missing strong in %q", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render("   \n"); got != "" {
		t.Errorf("Render(blank) = %q, want empty", got)
	}
}

func TestRenderTable(t *testing.T) {
	md := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	got := Render(md)
	if !strings.Contains(got, "<table") {
		t.Errorf("GFM table not rendered: %q", got)
	}
}

func TestExtractHeadings(t *testing.T) {
	md := "# One\n\ntext\n\n## Two Words\n\n```\n# not a heading\n```\n\n### Three\n"
	got := ExtractHeadings(md)
	if len(got) != 3 {
		t.Fatalf("got %d headings, want 3: %v", len(got), got)
	}
	if got[0].Level != 1 || got[0].Text != "One" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].ID != "two-words" {
		t.Errorf("ID = %q, want two-words", got[1].ID)
	}
	if got[2].Level != 3 {
		t.Errorf("third level = %d, want 3", got[2].Level)
	}
}

func TestExtractHeadingsIgnoresNonHeadings(t *testing.T) {
	md := "#nospace\n####### seven\n#\n"
	if got := ExtractHeadings(md); len(got) != 0 {
		t.Errorf("got %v, want none", got)
	}
}

func TestAnchorID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Go 1.24!", "go-124"},
		{"---", "heading"},
	}
	for _, tt := range tests {
		if got := anchorID(tt.in); got != tt.want {
			t.Errorf("anchorID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("short", 200); got != "short" {
		t.Errorf("Excerpt = %q", got)
	}
	long := strings.Repeat("日", 300)
	if got := Excerpt(long, 200); len([]rune(got)) != 200 {
		t.Errorf("Excerpt length = %d runes, want 200", len([]rune(got)))
	}
}
