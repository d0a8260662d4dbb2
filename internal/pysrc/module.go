package pysrc

import (
	"os"
	"path/filepath"
	"strings"
)

// ModuleName derives the dotted module name of a Python file relative
// to the project root, skipping leading directories that are not
// packages (no __init__.py) and collapsing __init__.py onto its
// package.
func ModuleName(projectRoot, filePath string) string {
	rel, err := filepath.Rel(projectRoot, filePath)
	if err != nil {
		return ""
	}

	parts := strings.Split(rel, string(os.PathSeparator))

	packageStart := 0
	for i := 0; i < len(parts)-1; i++ {
		checkPath := filepath.Join(projectRoot, filepath.Join(parts[:i+1]...), "__init__.py")
		if _, err := os.Stat(checkPath); os.IsNotExist(err) {
			packageStart = i + 1
		} else {
			break
		}
	}

	parts = parts[packageStart:]
	parts[len(parts)-1] = strings.TrimSuffix(parts[len(parts)-1], ".py")
	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}

	return strings.Join(parts, ".")
}
