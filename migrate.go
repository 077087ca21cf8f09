package paperwhite

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/eringen/paperwhite/frontmatter"
)

// MigrateStats summarizes one migration run.
type MigrateStats struct {
	Migrated int
	Skipped  int
	Failed   int
}

// MigrateDateField renames the legacy frontmatter field date to
// createAt in every content file under root, one locale directory at a
// time. Files that already use createAt, or carry neither field, are
// skipped, so running it twice is a no-op the second time. A file that
// fails to parse is counted and reported but does not stop the run.
func MigrateDateField(root string, locales []string, logf func(format string, args ...any)) MigrateStats {
	if logf == nil {
		logf = log.Printf
	}
	var stats MigrateStats
	for _, locale := range locales {
		dir := filepath.Join(root, locale)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				logf("migrate: directory not found: %s", dir)
				continue
			}
			logf("migrate: read %s: %v", dir, err)
			stats.Failed++
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !(strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ContentExt)) {
				continue
			}
			path := filepath.Join(dir, name)
			switch err := migrateFile(path); {
			case err == nil:
				logf("migrate: %s", path)
				stats.Migrated++
			case err == errMigrateSkip:
				stats.Skipped++
			default:
				logf("migrate: %s: %v", path, err)
				stats.Failed++
			}
		}
	}
	return stats
}

// errMigrateSkip marks a file that needs no rewrite.
var errMigrateSkip = fmt.Errorf("migrate: nothing to do")

func migrateFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return err
	}
	date, hasDate := doc.Fields["date"]
	_, hasCreateAt := doc.Fields["createAt"]
	if !hasDate || hasCreateAt {
		return errMigrateSkip
	}

	doc.Fields["createAt"] = date
	delete(doc.Fields, "date")

	out, err := frontmatter.Stringify(doc.Fields, doc.Body)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
