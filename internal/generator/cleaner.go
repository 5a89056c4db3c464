package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	suffix string
}

// NewCleaner creates a cleaner that removes files with the given generated
// suffix. An empty suffix falls back to the default.
func NewCleaner(suffix string) *Cleaner {
	if suffix == "" {
		suffix = "_dispatch.gen.go"
	}
	return &Cleaner{suffix: suffix}
}

// Clean removes all generated files from the specified directories and
// returns the paths it removed.
func (c *Cleaner) Clean(directories []string) ([]string, error) {
	var removed []string

	for _, dir := range directories {
		if err := c.cleanDirectory(dir, &removed); err != nil {
			return removed, fmt.Errorf("failed to clean directory %s: %w", dir, err)
		}
	}

	return removed, nil
}

// cleanDirectory cleans a single directory, handling Go-style "./..." patterns
func (c *Cleaner) cleanDirectory(dir string, removed *[]string) error {
	if strings.HasSuffix(dir, "/...") {
		baseDir := strings.TrimSuffix(dir, "/...")
		if baseDir == "" {
			baseDir = "."
		}
		return c.cleanRecursively(baseDir, removed)
	}
	return c.cleanSingleDirectory(dir, removed)
}

// cleanRecursively cleans directories recursively
func (c *Cleaner) cleanRecursively(baseDir string, removed *[]string) error {
	return filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Skip directories that don't exist or can't be accessed
			return nil
		}
		if info.IsDir() {
			// Errors in individual directories don't stop the walk
			_ = c.cleanSingleDirectory(path, removed)
		}
		return nil
	})
}

// cleanSingleDirectory removes generated files directly inside one directory
func (c *Cleaner) cleanSingleDirectory(dir string, removed *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), c.suffix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		*removed = append(*removed, path)
	}

	return nil
}
