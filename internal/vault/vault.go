// Package vault locates the markdown files of a vault directory.
package vault

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Files walks root and returns every markdown file, sorted. Hidden
// directories (dotfiles) are skipped.
func Files(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.EqualFold(filepath.Ext(path), ".md") {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault %s: %w", root, err)
	}

	sort.Strings(files)

	return files, nil
}
