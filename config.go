package paperwhite

import "time"

// SiteConfig holds all configuration for a paperwhite site.
type SiteConfig struct {
	Name        string // Site name (default "Paperwhite")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for feeds and meta tags
	AuthorName  string // Author name for feeds and JSON-LD
	AuthorEmail string // Author email for the Atom feed

	Addr     string // Listen address (default ":3000")
	PostsDir string // Content root, one subdirectory per locale (default "posts")

	Locales       []string // Supported locales (default ["en", "zh"])
	DefaultLocale string   // Used when a request names no locale (default "zh")

	// Categories maps category slugs to display names for listing pages.
	// Posts are matched against a category by string equality on the name.
	Categories []Category

	SessionSecret string // Required: settings-cookie encryption secret
	CookieSecure  bool   // Set true for HTTPS

	// StrictContent aborts a scan when one content file fails to parse.
	// Off by default: bad files are skipped with a warning.
	StrictContent bool

	AnalyticsEnabled      bool   // Enable page-view analytics
	AnalyticsDatabasePath string // Analytics SQLite path (default "data/analytics.db")

	PostCacheTTL time.Duration // Post cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Paperwhite"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostsDir == "" {
		c.PostsDir = "posts"
	}
	if len(c.Locales) == 0 {
		c.Locales = []string{"en", "zh"}
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = "zh"
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// hasLocale reports whether the locale is one the site serves.
func (c *SiteConfig) hasLocale(locale string) bool {
	for _, l := range c.Locales {
		if l == locale {
			return true
		}
	}
	return false
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithTransforms sets the document transforms the App applies on load.
func WithTransforms(tr *Transforms) Option {
	return func(a *App) {
		a.transforms = tr
	}
}
