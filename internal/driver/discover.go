package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"airtight/internal/config"
)

var lintableExts = []string{".ts", ".tsx", ".mts", ".cts"}

// IsLintable reports whether path is a TypeScript source the driver lints.
// Declaration files are skipped.
func IsLintable(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range []string{".d.ts", ".d.mts", ".d.cts"} {
		if strings.HasSuffix(base, suffix) {
			return false
		}
	}
	return slices.Contains(lintableExts, filepath.Ext(base))
}

// Discover expands targets into a sorted list of files without duplicates.
// Directories are walked recursively; directories whose name matches
// cfg.Ignore are skipped. Files named explicitly are always kept.
func Discover(cfg *config.Config, targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", target, err)
		}
		if !info.IsDir() {
			add(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != target && cfg != nil && cfg.Ignored(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if IsLintable(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", target, err)
		}
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
