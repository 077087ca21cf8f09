// Package paperwhite is a markdown-file blog engine styled as an e-ink
// reading device, built with Go, Echo, and templ. It loads localized
// posts from a content tree and serves pages, RSS/Atom feeds, a sitemap,
// scaled book covers, and per-visitor device settings out of the box.
//
// Users provide their own templ templates via the ViewFuncs struct,
// and paperwhite handles the content loading, handlers, and middleware.
package paperwhite

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/paperwhite/analytics"
	"github.com/eringen/paperwhite/markdown"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home        func(posts []Post, locale string, state DeviceState, cfg SiteConfig) templ.Component
	Post        func(post Post, headings []markdown.Heading, state DeviceState, cfg SiteConfig) templ.Component
	Review      func(post Post, headings []markdown.Heading, state DeviceState, cfg SiteConfig) templ.Component
	Archive     func(years []int, groups map[int][]Post, locale string, state DeviceState, cfg SiteConfig) templ.Component
	Settings    func(state DeviceState, locale string, csrfToken string, cfg SiteConfig) templ.Component
	Browser     func(view BrowserView, locale string, csrfToken string, cfg SiteConfig) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// BrowserView is everything the in-page browser template needs to draw
// its chrome: the address bar content and which nav buttons are live.
type BrowserView struct {
	CurrentURL string
	CanBack    bool
	CanForward bool
	Entries    int
}

// App is the central paperwhite application. It wires together the post
// library, cache, handlers, middleware, and user-provided templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Library *Library
	Cache   *PostCache
	Views   ViewFuncs

	covers         *coverCache
	limiter        *RateLimiter
	analyticsStore *analytics.Store
	transforms     *Transforms
	customRoutes   []func(*App)
	staticDir      string
}

// New creates a new paperwhite App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the library, cache, middleware, and routes, then
// starts the server. It blocks until the server stops.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("paperwhite: SessionSecret is required")
	}

	var libOpts []LibraryOption
	if a.Config.StrictContent {
		libOpts = append(libOpts, WithStrictParsing())
	}
	a.Library = NewLibrary(a.Config.PostsDir, libOpts...)
	a.Cache = NewPostCache(a.Library, a.Config.PostCacheTTL, a.transforms)
	a.covers = newCoverCache()
	a.limiter = NewRateLimiter(30, time.Minute)

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("paperwhite: init analytics: %w", err)
		}
		a.analyticsStore = store
		if err := analytics.InitSalt(store); err != nil {
			return fmt.Errorf("paperwhite: init analytics salt: %w", err)
		}
		stopCleanup := store.StartCleanupScheduler(365, 24*time.Hour)
		defer stopCleanup()
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Site-wide XML surfaces (locale comes in as a query param)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/rss.xml", a.handleRSS)
	e.GET("/feed.xml", a.handleAtom)

	// Scaled cover thumbnails for the book grid
	e.GET("/covers/:locale/:slug", a.handleCover)

	// Locale-prefixed pages
	e.GET("/", a.handleRootRedirect)
	e.GET("/:locale/", a.handleHome)
	e.GET("/:locale/p/:slug/", a.handlePost)
	e.GET("/:locale/review/:slug/", a.handleReview)
	e.GET("/:locale/archive/", a.handleArchive)
	e.GET("/:locale/settings/", a.handleSettings)
	e.POST("/:locale/settings/", a.handleSettingsSave)
	e.GET("/:locale/browser/", a.handleBrowser)
	e.POST("/:locale/browser/", a.handleBrowserNavigate)

	// Analytics ingest + read API. The collect endpoint gets its own
	// limiter instance with a looser budget than the form endpoints.
	if a.Config.AnalyticsEnabled && a.analyticsStore != nil {
		handler := analytics.NewHandler(a.analyticsStore, NewRateLimiter(60, time.Minute))
		handler.RegisterRoutes(e)
	}
}

// InvalidateContent drops the post snapshots and the scaled cover
// bytes together, so redeployed content and images reload on the next
// request. Custom routes that accept content updates should call this.
func (a *App) InvalidateContent() {
	if a.Cache != nil {
		a.Cache.Invalidate()
	}
	if a.covers != nil {
		a.covers.clear()
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.analyticsStore != nil {
		return a.analyticsStore.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("paperwhite: required environment variable %s is not set", key)
	}
	return v
}
