package paperwhite

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/paperwhite/markdown"
)

func (a *App) handleRootRedirect(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/"+a.Config.DefaultLocale+"/")
}

// requireLocale validates the :locale path param against the configured
// locale list. Unknown locales are a plain 404, not a redirect, so typo
// URLs never get indexed.
func (a *App) requireLocale(c echo.Context) (string, error) {
	locale := c.Param("locale")
	if !a.Config.hasLocale(locale) {
		return "", echo.NewHTTPError(http.StatusNotFound)
	}
	return locale, nil
}

func (a *App) handleHome(c echo.Context) error {
	locale, err := a.requireLocale(c)
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts(locale)
	if err != nil {
		return err
	}
	visible := VisiblePosts(posts)
	if category := c.QueryParam("category"); category != "" {
		visible = PostsInCategory(visible, category)
	}
	visible = PinnedFirst(visible)
	return Render(c, a.Views.Home(visible, locale, loadDeviceState(c), a.Config))
}

func (a *App) handlePost(c echo.Context) error {
	locale, err := a.requireLocale(c)
	if err != nil {
		return err
	}
	post, err := a.Cache.GetPost(c.Param("slug"), locale)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	if post.IsBook() {
		return c.Redirect(http.StatusMovedPermanently, "/"+locale+"/review/"+post.Slug+"/")
	}
	headings := markdown.ExtractHeadings(post.MarkdownBody)
	return Render(c, a.Views.Post(*post, headings, loadDeviceState(c), a.Config))
}

func (a *App) handleReview(c echo.Context) error {
	locale, err := a.requireLocale(c)
	if err != nil {
		return err
	}
	post, err := a.Cache.GetPost(c.Param("slug"), locale)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	if !post.IsBook() {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	headings := markdown.ExtractHeadings(post.MarkdownBody)
	return Render(c, a.Views.Review(*post, headings, loadDeviceState(c), a.Config))
}

func (a *App) handleArchive(c echo.Context) error {
	locale, err := a.requireLocale(c)
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts(locale)
	if err != nil {
		return err
	}
	groups := GroupByYear(VisiblePosts(posts))
	return Render(c, a.Views.Archive(Years(groups), groups, locale, loadDeviceState(c), a.Config))
}

func (a *App) handleSettings(c echo.Context) error {
	locale, err := a.requireLocale(c)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Settings(loadDeviceState(c), locale, CsrfToken(c), a.Config))
}

// handleSettingsSave applies one settings form post to the session
// state. A preset wins over individual typography fields; wireless
// toggles go through the coupling setters so airplane mode stays
// consistent with the radios.
func (a *App) handleSettingsSave(c echo.Context) error {
	locale, err := a.requireLocale(c)
	if err != nil {
		return err
	}
	if !a.limiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests)
	}

	state := loadDeviceState(c)

	if preset := c.FormValue("preset"); preset != "" {
		state.Reader.ApplyPreset(preset)
	} else {
		if v := c.FormValue("fontSize"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				state.Reader.FontSize = n
			}
		}
		if v := c.FormValue("fontFamily"); v != "" {
			state.Reader.FontFamily = v
		}
		if v := c.FormValue("marginHorizontal"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				state.Reader.MarginHorizontal = n
			}
		}
		if v := c.FormValue("lineHeight"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				state.Reader.LineHeight = f
			}
		}
	}

	if v := c.FormValue("airplaneMode"); v != "" {
		state.Wireless.SetAirplaneMode(formBool(v))
	}
	if v := c.FormValue("wifiEnabled"); v != "" {
		state.Wireless.SetWifi(formBool(v))
	}
	if v := c.FormValue("bluetoothEnabled"); v != "" {
		state.Wireless.SetBluetooth(formBool(v))
	}

	state.Reader.Clamp()
	if err := saveDeviceState(c, state); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/"+locale+"/settings/")
}

func formBool(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1":
		return true
	}
	return false
}

func (a *App) handleBrowser(c echo.Context) error {
	locale, err := a.requireLocale(c)
	if err != nil {
		return err
	}
	hist := loadHistory(c)
	current, _ := hist.Current()
	view := BrowserView{
		CurrentURL: current,
		CanBack:    hist.CanBack(),
		CanForward: hist.CanForward(),
		Entries:    hist.Len(),
	}
	return Render(c, a.Views.Browser(view, locale, CsrfToken(c), a.Config))
}

// handleBrowserNavigate mutates the session history: "go" pushes a
// validated URL, "back" and "forward" move the cursor. Anything else,
// including a rejected URL, leaves the history untouched.
func (a *App) handleBrowserNavigate(c echo.Context) error {
	locale, err := a.requireLocale(c)
	if err != nil {
		return err
	}
	if !a.limiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests)
	}

	hist := loadHistory(c)
	switch c.FormValue("action") {
	case "go":
		if target := SafeBrowseURL(c.FormValue("url")); target != "" {
			hist.Visit(target)
		}
	case "back":
		hist.Back()
	case "forward":
		hist.Forward()
	}
	if err := saveHistory(c, hist); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/"+locale+"/browser/")
}

const historyKey = "browser_history"

func loadHistory(c echo.Context) *History {
	hist := NewHistory()
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return hist
	}
	raw, ok := sess.Values[historyKey].(string)
	if !ok {
		return hist
	}
	if err := json.Unmarshal([]byte(raw), hist); err != nil {
		return NewHistory()
	}
	return hist
}

func saveHistory(c echo.Context, hist *History) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(hist)
	if err != nil {
		return err
	}
	sess.Values[historyKey] = string(raw)
	return sess.Save(c.Request(), c.Response())
}

// feedLocale resolves the feed's locale query param, falling back to the
// site default. An unknown locale is a 404.
func (a *App) feedLocale(c echo.Context) (string, error) {
	locale := c.QueryParam("locale")
	if locale == "" {
		locale = a.Config.DefaultLocale
	}
	if !a.Config.hasLocale(locale) {
		return "", echo.NewHTTPError(http.StatusNotFound)
	}
	return locale, nil
}

func (a *App) handleRSS(c echo.Context) error {
	locale, err := a.feedLocale(c)
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts(locale)
	if err != nil {
		return err
	}
	return a.renderRSS(c, locale, VisiblePosts(posts))
}

func (a *App) handleAtom(c echo.Context) error {
	locale, err := a.feedLocale(c)
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts(locale)
	if err != nil {
		return err
	}
	return a.renderAtom(c, locale, VisiblePosts(posts))
}

func (a *App) handleSitemap(c echo.Context) error {
	postsByLocale := make(map[string][]Post, len(a.Config.Locales))
	for _, locale := range a.Config.Locales {
		posts, err := a.Cache.ListPosts(locale)
		if err != nil {
			return err
		}
		postsByLocale[locale] = VisiblePosts(posts)
	}
	return a.renderSitemap(c, postsByLocale)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n",
		strings.TrimRight(a.Config.URL, "/"))
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
