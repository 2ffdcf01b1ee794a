package sources

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultPattern is the glob applied when a category does not set one.
const DefaultPattern = "*.csv"

// RequiredCategories lists the categories a sources.yaml must define.
var RequiredCategories = []string{"biometric", "demographic", "enrolment"}

// Get returns the configuration for a category and whether it was found.
func (c *SourcesConfig) Get(category string) (CategoryConfig, bool) {
	for _, cat := range c.Categories {
		if cat.Category == category {
			return cat, true
		}
	}
	return CategoryConfig{}, false
}

// ResolveParent returns the directory to read a category from.
// Absolute parents are used as-is, "~/" expands to the home directory,
// and relative parents are resolved against dataDir.
func ResolveParent(dataDir, parent string) string {
	if strings.HasPrefix(parent, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, parent[2:])
		}
	}
	if filepath.IsAbs(parent) {
		return parent
	}
	return filepath.Join(dataDir, parent)
}
