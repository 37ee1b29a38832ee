package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the file suffixes collected from directories.
var DefaultExtensions = []string{".pseudo", ".pseudocode", ".pcode", ".algo"}

// ListFiles expands root into a sorted file list. A file root is returned
// as is regardless of its extension; directories are walked recursively,
// skipping hidden directories.
func ListFiles(root string, exts []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return files, nil
}
