// Package views provides the default e-ink device templates. Every
// component is a plain templ.ComponentFunc writing HTML, so a site can
// start with these and swap individual pages out through ViewFuncs.
package views

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/paperwhite"
	"github.com/eringen/paperwhite/markdown"
)

// Default returns the full set of built-in device-frame views.
func Default() paperwhite.ViewFuncs {
	return paperwhite.ViewFuncs{
		Home:        Home,
		Post:        Post,
		Review:      Review,
		Archive:     Archive,
		Settings:    Settings,
		Browser:     Browser,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

func component(render func(buf *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		render(&buf)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// shell wraps page content in the device frame: status bar on top,
// content in the e-ink screen area, nav bar at the bottom.
func shell(buf *bytes.Buffer, title, locale string, state paperwhite.DeviceState, cfg paperwhite.SiteConfig, body func(*bytes.Buffer)) {
	buf.WriteString("<!DOCTYPE html><html lang=\"")
	buf.WriteString(html.EscapeString(locale))
	buf.WriteString("\"><head><meta charset=\"utf-8\"/>")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
	buf.WriteString("<title>")
	buf.WriteString(html.EscapeString(title))
	buf.WriteString("</title>")
	buf.WriteString("<link rel=\"stylesheet\" href=\"/public/device.css\"/>")
	buf.WriteString("<script type=\"application/ld+json\">")
	buf.WriteString(paperwhite.WebsiteJsonLD(cfg))
	buf.WriteString("</script>")
	buf.WriteString("</head><body class=\"device\"><div class=\"device-frame\">")
	statusBar(buf, state.Wireless)
	buf.WriteString("<main class=\"screen\" style=\"")
	buf.WriteString(readerStyle(state.Reader))
	buf.WriteString("\">")
	body(buf)
	buf.WriteString("</main>")
	navBar(buf, locale)
	buf.WriteString("</div></body></html>")
}

// statusBar renders the fake device chrome: radios on the left, battery
// on the right.
func statusBar(buf *bytes.Buffer, w paperwhite.WirelessSettings) {
	buf.WriteString("<header class=\"status-bar\"><span class=\"radios\">")
	if w.AirplaneMode {
		buf.WriteString("<span class=\"airplane\" title=\"Airplane mode\">&#9992;</span>")
	}
	if w.WifiEnabled {
		fmt.Fprintf(buf, "<span class=\"wifi\" title=\"%s\">&#9676;%d</span>",
			html.EscapeString(w.WifiNetwork), w.WifiSignal)
	}
	if w.BluetoothEnabled {
		buf.WriteString("<span class=\"bluetooth\">BT</span>")
	}
	buf.WriteString("</span><span class=\"battery\">100%</span></header>")
}

func navBar(buf *bytes.Buffer, locale string) {
	buf.WriteString("<nav class=\"nav-bar\">")
	links := []struct{ href, label string }{
		{"/" + locale + "/", "Library"},
		{"/" + locale + "/archive/", "Archive"},
		{"/" + locale + "/browser/", "Browser"},
		{"/" + locale + "/settings/", "Settings"},
	}
	for _, l := range links {
		fmt.Fprintf(buf, "<a href=\"%s\">%s</a>", l.href, l.label)
	}
	buf.WriteString("</nav>")
}

// Home renders the library screen: pinned posts first, books as a cover
// grid, articles as a list.
func Home(posts []paperwhite.Post, locale string, state paperwhite.DeviceState, cfg paperwhite.SiteConfig) templ.Component {
	return component(func(buf *bytes.Buffer) {
		shell(buf, cfg.Name, locale, state, cfg, func(buf *bytes.Buffer) {
			var books, articles []paperwhite.Post
			for _, p := range posts {
				if p.IsBook() {
					books = append(books, p)
				} else {
					articles = append(articles, p)
				}
			}

			if len(books) > 0 {
				buf.WriteString("<section class=\"book-grid\"><h2>Reading</h2><ul>")
				for _, b := range books {
					fmt.Fprintf(buf, "<li><a href=\"/%s/review/%s/\">", locale, b.Slug)
					if b.Frontmatter.Cover != "" {
						fmt.Fprintf(buf, "<img src=\"/covers/%s/%s.jpg\" alt=\"%s\" loading=\"lazy\"/>",
							locale, b.Slug, html.EscapeString(b.Title()))
					}
					buf.WriteString(html.EscapeString(b.Title()))
					buf.WriteString("</a></li>")
				}
				buf.WriteString("</ul></section>")
			}

			buf.WriteString("<section class=\"post-list\"><ul>")
			for _, p := range articles {
				fmt.Fprintf(buf, "<li><a href=\"/%s/p/%s/\">%s</a>", locale, p.ID, html.EscapeString(p.Title()))
				if created := p.Frontmatter.CreatedAt(); created != "" {
					fmt.Fprintf(buf, "<time>%s</time>", html.EscapeString(created))
				}
				if p.Frontmatter.Pin {
					buf.WriteString("<span class=\"pin\">&#9733;</span>")
				}
				fmt.Fprintf(buf, "<span class=\"category\">%s</span></li>", html.EscapeString(p.Category))
			}
			buf.WriteString("</ul></section>")
		})
	})
}

// Post renders one article in the reading surface with its table of contents.
func Post(post paperwhite.Post, headings []markdown.Heading, state paperwhite.DeviceState, cfg paperwhite.SiteConfig) templ.Component {
	return article(post, headings, state, cfg, "article")
}

// Review renders one book review. Same reading surface as Post, plus
// the cover beside the title.
func Review(post paperwhite.Post, headings []markdown.Heading, state paperwhite.DeviceState, cfg paperwhite.SiteConfig) templ.Component {
	return article(post, headings, state, cfg, "review")
}

func article(post paperwhite.Post, headings []markdown.Heading, state paperwhite.DeviceState, cfg paperwhite.SiteConfig, kind string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		meta := paperwhite.PageMetaFor(cfg, &post)
		shell(buf, meta.Title, post.Locale, state, cfg, func(buf *bytes.Buffer) {
			fmt.Fprintf(buf, "<article class=\"%s\">", kind)
			buf.WriteString("<script type=\"application/ld+json\">")
			buf.WriteString(paperwhite.BlogPostingJsonLD(cfg, &post))
			buf.WriteString("</script>")

			buf.WriteString("<h1>")
			buf.WriteString(html.EscapeString(post.Title()))
			buf.WriteString("</h1>")
			if kind == "review" && post.Frontmatter.Cover != "" {
				fmt.Fprintf(buf, "<img class=\"cover\" src=\"/covers/%s/%s.jpg\" alt=\"%s\"/>",
					post.Locale, post.Slug, html.EscapeString(post.Title()))
			}
			if created := post.Frontmatter.CreatedAt(); created != "" {
				fmt.Fprintf(buf, "<time>%s</time>", html.EscapeString(created))
			}

			if len(headings) > 1 {
				buf.WriteString("<nav class=\"toc\"><ul>")
				for _, h := range headings {
					fmt.Fprintf(buf, "<li class=\"toc-%d\"><a href=\"#%s\">%s</a></li>",
						h.Level, h.ID, html.EscapeString(h.Text))
				}
				buf.WriteString("</ul></nav>")
			}

			buf.WriteString("<div class=\"body\">")
			buf.WriteString(markdown.Render(post.MarkdownBody))
			buf.WriteString("</div></article>")
		})
	})
}

// Archive renders posts grouped by year, newest year first.
func Archive(years []int, groups map[int][]paperwhite.Post, locale string, state paperwhite.DeviceState, cfg paperwhite.SiteConfig) templ.Component {
	return component(func(buf *bytes.Buffer) {
		shell(buf, "Archive", locale, state, cfg, func(buf *bytes.Buffer) {
			buf.WriteString("<section class=\"archive\">")
			for _, year := range years {
				label := fmt.Sprintf("%d", year)
				if year == 0 {
					label = "Undated"
				}
				fmt.Fprintf(buf, "<h2>%s</h2><ul>", label)
				for _, p := range groups[year] {
					fmt.Fprintf(buf, "<li><a href=\"/%s/%s/%s/\">%s</a></li>",
						locale, paperwhite.PostRoute(&p), p.ID, html.EscapeString(p.Title()))
				}
				buf.WriteString("</ul>")
			}
			buf.WriteString("</section>")
		})
	})
}

// Settings renders the device settings screen: reader presets, the
// typography sliders, and the wireless toggles.
func Settings(state paperwhite.DeviceState, locale string, csrfToken string, cfg paperwhite.SiteConfig) templ.Component {
	return component(func(buf *bytes.Buffer) {
		shell(buf, "Settings", locale, state, cfg, func(buf *bytes.Buffer) {
			action := "/" + locale + "/settings/"

			buf.WriteString("<section class=\"settings\"><h2>Reading</h2>")
			for _, preset := range []string{"compact", "comfortable", "spacious"} {
				active := ""
				if state.Reader.Theme == preset {
					active = " active"
				}
				fmt.Fprintf(buf, "<form method=\"post\" action=\"%s\">", action)
				csrfField(buf, csrfToken)
				fmt.Fprintf(buf, "<button class=\"preset%s\" name=\"preset\" value=\"%s\">%s</button></form>",
					active, preset, preset)
			}

			fmt.Fprintf(buf, "<form method=\"post\" action=\"%s\">", action)
			csrfField(buf, csrfToken)
			fmt.Fprintf(buf, "<label>Font size <input type=\"number\" name=\"fontSize\" min=\"14\" max=\"28\" value=\"%d\"/></label>", state.Reader.FontSize)
			buf.WriteString("<label>Font <select name=\"fontFamily\">")
			for _, font := range []string{"bookerly", "amazon-ember", "noto-serif", "system"} {
				selected := ""
				if state.Reader.FontFamily == font {
					selected = " selected"
				}
				fmt.Fprintf(buf, "<option value=\"%s\"%s>%s</option>", font, selected, font)
			}
			buf.WriteString("</select></label>")
			fmt.Fprintf(buf, "<label>Margins <input type=\"number\" name=\"marginHorizontal\" min=\"0\" max=\"48\" value=\"%d\"/></label>", state.Reader.MarginHorizontal)
			fmt.Fprintf(buf, "<label>Line height <input type=\"number\" name=\"lineHeight\" step=\"0.1\" min=\"1.2\" max=\"2.0\" value=\"%.1f\"/></label>", state.Reader.LineHeight)
			buf.WriteString("<button>Save</button></form>")

			buf.WriteString("<h2>Wireless</h2>")
			toggle := func(name, label string, on bool) {
				fmt.Fprintf(buf, "<form method=\"post\" action=\"%s\">", action)
				csrfField(buf, csrfToken)
				value := "on"
				stateLabel := "Off"
				if on {
					value = "off"
					stateLabel = "On"
				}
				fmt.Fprintf(buf, "<button name=\"%s\" value=\"%s\">%s: %s</button></form>", name, value, label, stateLabel)
			}
			toggle("airplaneMode", "Airplane mode", state.Wireless.AirplaneMode)
			toggle("wifiEnabled", "Wi-Fi", state.Wireless.WifiEnabled)
			toggle("bluetoothEnabled", "Bluetooth", state.Wireless.BluetoothEnabled)
			buf.WriteString("</section>")
		})
	})
}

// Browser renders the in-page browser chrome: back/forward buttons, the
// address bar, and the current page inside an iframe.
func Browser(view paperwhite.BrowserView, locale string, csrfToken string, cfg paperwhite.SiteConfig) templ.Component {
	return component(func(buf *bytes.Buffer) {
		// The browser screen keeps default typography; device state does
		// not affect the embedded page.
		shell(buf, "Browser", locale, paperwhite.DefaultDeviceState(), cfg, func(buf *bytes.Buffer) {
			action := "/" + locale + "/browser/"
			buf.WriteString("<section class=\"browser\"><div class=\"browser-chrome\">")

			navButton := func(dir string, enabled bool, label string) {
				fmt.Fprintf(buf, "<form method=\"post\" action=\"%s\">", action)
				csrfField(buf, csrfToken)
				disabled := ""
				if !enabled {
					disabled = " disabled"
				}
				fmt.Fprintf(buf, "<button name=\"action\" value=\"%s\"%s>%s</button></form>", dir, disabled, label)
			}
			navButton("back", view.CanBack, "&#8592;")
			navButton("forward", view.CanForward, "&#8594;")

			fmt.Fprintf(buf, "<form method=\"post\" action=\"%s\" class=\"address\">", action)
			csrfField(buf, csrfToken)
			buf.WriteString("<input type=\"hidden\" name=\"action\" value=\"go\"/>")
			fmt.Fprintf(buf, "<input type=\"url\" name=\"url\" placeholder=\"https://\" value=\"%s\"/>",
				html.EscapeString(view.CurrentURL))
			buf.WriteString("<button>Go</button></form></div>")

			if view.CurrentURL != "" {
				fmt.Fprintf(buf, "<iframe src=\"%s\" sandbox=\"allow-scripts\" referrerpolicy=\"no-referrer\"></iframe>",
					html.EscapeString(view.CurrentURL))
			} else {
				buf.WriteString("<p class=\"empty\">Enter an address to start browsing.</p>")
			}
			buf.WriteString("</section>")
		})
	})
}

func csrfField(buf *bytes.Buffer, token string) {
	fmt.Fprintf(buf, "<input type=\"hidden\" name=\"_csrf\" value=\"%s\"/>", html.EscapeString(token))
}

// NotFound is the 404 screen.
func NotFound() templ.Component {
	return errorPage("404", "Page not found.")
}

// ServerError is the 500 screen.
func ServerError() templ.Component {
	return errorPage("500", "Something went wrong.")
}

func errorPage(code, message string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		buf.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"/><title>")
		buf.WriteString(code)
		buf.WriteString("</title><link rel=\"stylesheet\" href=\"/public/device.css\"/></head>")
		buf.WriteString("<body class=\"device\"><main class=\"screen error\"><h1>")
		buf.WriteString(code)
		buf.WriteString("</h1><p>")
		buf.WriteString(html.EscapeString(message))
		buf.WriteString("</p><a href=\"/\">Back to the library</a></main></body></html>")
	})
}

// readerStyle converts reader settings to the inline style of the
// reading surface.
func readerStyle(r paperwhite.ReaderSettings) string {
	family := map[string]string{
		"bookerly":     "'Bookerly', Georgia, serif",
		"amazon-ember": "'Amazon Ember', Helvetica, sans-serif",
		"noto-serif":   "'Noto Serif', Georgia, serif",
		"system":       "system-ui, sans-serif",
	}[r.FontFamily]
	if family == "" {
		family = "Georgia, serif"
	}
	return fmt.Sprintf("font-size:%dpx;font-family:%s;padding:0 %dpx;line-height:%s",
		r.FontSize, family, r.MarginHorizontal, trimFloat(r.LineHeight))
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
