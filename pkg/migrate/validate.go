package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var migrationFilePattern = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks that every SQL migration in dir is well formed: a
// timestamped filename, a unique version, and both goose Up/Down sections.
func ValidateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	seen := map[string]string{}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return fmt.Errorf("no SQL migrations found in %s", dir)
	}

	for _, name := range names {
		match := migrationFilePattern.FindStringSubmatch(name)
		if match == nil {
			return fmt.Errorf("migration %s does not match NNNNNNNNNNNNNN_name.sql", name)
		}
		version := match[1]
		if prev, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s (%s and %s)", version, prev, name)
		}
		seen[version] = name

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		text := string(content)
		if !strings.Contains(text, "-- +goose Up") {
			return fmt.Errorf("migration %s is missing the goose Up section", name)
		}
		if !strings.Contains(text, "-- +goose Down") {
			return fmt.Errorf("migration %s is missing the goose Down section", name)
		}
	}
	return nil
}
