package indexer

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Walk discovers every Markdown specification file under specsPath,
// recursively, returning paths in stable sorted order so indexing runs are
// reproducible.
func Walk(specsPath string) ([]string, error) {
	pattern := filepath.ToSlash(filepath.Join(specsPath, "**/*.md"))
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}
