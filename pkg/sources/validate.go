package sources

import (
	"fmt"
	"slices"
	"strings"
)

// Validate checks the configuration for errors and applies defaults.
func (c *SourcesConfig) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("no categories specified in configuration")
	}

	seen := make(map[string]bool)

	// Validate each category
	for i := range c.Categories {
		warnings, err := c.Categories[i].Validate(i + 1)
		if err != nil {
			return fmt.Errorf("category %d: %w", i+1, err)
		}
		c.Warnings = append(c.Warnings, warnings...)

		name := c.Categories[i].Category
		if seen[name] {
			return fmt.Errorf("category '%s' is defined more than once", name)
		}
		seen[name] = true
	}

	// All three categories are required
	for _, req := range RequiredCategories {
		if !seen[req] {
			return fmt.Errorf("required category '%s' is missing", req)
		}
	}

	return nil
}

// Validate checks a single category configuration for data structure
// validity. File system validation (directory existence) is deferred to
// runtime (I/O layer). Returns a slice of warnings (non-fatal issues) and
// an error (fatal issues).
func (c *CategoryConfig) Validate(index int) ([]ValidationWarning, error) {
	var warnings []ValidationWarning

	c.Category = strings.ToLower(strings.TrimSpace(c.Category))

	// Category name is required
	if c.Category == "" {
		return nil, fmt.Errorf("category name is required")
	}

	// Unknown categories are tolerated but never read by the pipeline
	if !slices.Contains(RequiredCategories, c.Category) {
		warnings = append(warnings, ValidationWarning{
			Category:   c.Category,
			Field:      "category",
			Message:    fmt.Sprintf("unknown category '%s' is ignored by the pipeline", c.Category),
			Suggestion: "Use one of: " + strings.Join(RequiredCategories, ", "),
		})
	}

	// Parent is required
	if strings.TrimSpace(c.Parent) == "" {
		return nil, fmt.Errorf("parent directory is required")
	}

	// Apply pattern default
	if c.Pattern == "" {
		c.Pattern = DefaultPattern
	}

	return warnings, nil
}
