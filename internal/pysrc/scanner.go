package pysrc

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"modelcheck/internal/core/errors"
)

// Scanner walks source roots collecting Python files, with glob-based
// directory and file excludes.
type Scanner struct {
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

func NewScanner(excludeDirs, excludeFiles []string) (*Scanner, error) {
	s := &Scanner{}

	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "compile dir exclude "+pattern)
		}
		s.excludeDirs = append(s.excludeDirs, g)
	}
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "compile file exclude "+pattern)
		}
		s.excludeFiles = append(s.excludeFiles, g)
	}
	return s, nil
}

// Scan returns all candidate .py files under root in deterministic
// walk order.
func (s *Scanner) Scan(root string) ([]string, error) {
	var out []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := d.Name()

		if d.IsDir() {
			if path != root && (strings.HasPrefix(base, ".") || s.matchAny(s.excludeDirs, base)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(base, ".py") {
			return nil
		}
		if s.matchAny(s.excludeFiles, base) || s.matchAny(s.excludeFiles, path) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "walk "+root)
	}
	return out, nil
}

func (s *Scanner) matchAny(globs []glob.Glob, value string) bool {
	for _, g := range globs {
		if g.Match(value) {
			return true
		}
	}
	return false
}
