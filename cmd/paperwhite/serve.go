package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/eringen/paperwhite"
	"github.com/eringen/paperwhite/views"
)

func runServe() error {
	cfg := paperwhite.SiteConfig{
		Name:          paperwhite.EnvOr("SITE_NAME", "Paperwhite"),
		URL:           paperwhite.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:   paperwhite.EnvOr("SITE_DESCRIPTION", ""),
		AuthorName:    paperwhite.EnvOr("SITE_AUTHOR", ""),
		AuthorEmail:   paperwhite.EnvOr("SITE_AUTHOR_EMAIL", ""),
		Addr:          paperwhite.EnvOr("ADDR", ":3000"),
		PostsDir:      paperwhite.EnvOr("POSTS_DIR", "posts"),
		DefaultLocale: paperwhite.EnvOr("DEFAULT_LOCALE", ""),
		SessionSecret: paperwhite.MustEnv("SESSION_SECRET"),
		CookieSecure:  paperwhite.EnvOr("COOKIE_SECURE", "") == "true",
	}
	if locales := paperwhite.EnvOr("LOCALES", ""); locales != "" {
		cfg.Locales = splitList(locales)
	}
	if paperwhite.EnvOr("ANALYTICS_ENABLED", "") == "true" {
		cfg.AnalyticsEnabled = true
		cfg.AnalyticsDatabasePath = paperwhite.EnvOr("ANALYTICS_DB", "")
	}

	app := paperwhite.New(cfg, views.Default())
	defer app.Close()
	return app.Start()
}

func runMigrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dir := fs.String("dir", "posts", "content root directory")
	locales := fs.String("locales", "en,zh", "comma-separated locale list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats := paperwhite.MigrateDateField(*dir, splitList(*locales), nil)
	fmt.Printf("migrated %d, skipped %d, failed %d\n", stats.Migrated, stats.Skipped, stats.Failed)
	if stats.Failed > 0 {
		return fmt.Errorf("%d files failed", stats.Failed)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
