package workflows

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/PolarWolf314/jasyptor/internal/document"
	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
)

// target is one file to process. err is set when the file is known up front
// to be unprocessable (an explicit path with an unsupported extension).
type target struct {
	path string
	err  error
}

// skippedDirs are never descended into when walking a directory.
var skippedDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// resolveTargets expands files, directories and doublestar globs into the
// files to process, in input order and without duplicates.
func resolveTargets(patterns []string) ([]target, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	var targets []target
	seen := make(map[string]bool)
	add := func(t target) {
		t.path = filepath.Clean(t.path)
		if seen[t.path] {
			return
		}
		seen[t.path] = true
		targets = append(targets, t)
	}

	for _, pattern := range patterns {
		found, err := resolvePattern(pattern)
		if err != nil {
			return nil, err
		}
		for _, t := range found {
			add(t)
		}
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNoFilesFound, strings.Join(patterns, ", "))
	}
	return targets, nil
}

func resolvePattern(pattern string) ([]target, error) {
	info, err := os.Stat(pattern)
	if err == nil && info.IsDir() {
		return findFilesInDir(pattern)
	}
	if err == nil {
		if _, kindErr := document.KindOf(pattern); kindErr != nil {
			return []target{{path: pattern, err: kindErr}}, nil
		}
		return []target{{path: pattern}}, nil
	}

	if strings.ContainsAny(pattern, "*?[{") {
		return expandGlob(pattern)
	}
	return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, pattern)
}

func expandGlob(pattern string) ([]target, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	var targets []target
	for _, m := range matches {
		if document.Supported(m) {
			targets = append(targets, target{path: m})
		}
	}
	return targets, nil
}

func findFilesInDir(dir string) ([]target, error) {
	var targets []target

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if document.Supported(path) {
			targets = append(targets, target{path: path})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	return targets, nil
}
