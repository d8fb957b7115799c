package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Discover walks inputDir, collects files with a .wav extension
// (case-insensitive), prunes the archive directory when it lives inside the
// tree, and returns the paths sorted lexicographically for deterministic
// job order.
func Discover(inputDir, archiveDir string) ([]string, error) {
	archiveAbs := ""
	if archiveDir != "" {
		if abs, err := filepath.Abs(archiveDir); err == nil {
			archiveAbs = abs
		}
	}

	var files []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if archiveAbs != "" {
				if abs, err := filepath.Abs(path); err == nil && abs == archiveAbs {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".wav") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
