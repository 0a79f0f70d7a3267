package codegen

import (
	"path/filepath"
	"strings"
)

var moduleExtensions = []string{".d.ts", ".d.mts", ".d.cts", ".ts", ".mts", ".cts"}

// TrimExtension removes the TypeScript extension of path.
func TrimExtension(path string) string {
	for _, ext := range moduleExtensions {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}

// Specifier returns the relative module specifier from the directory fromDir
// to target. Specifiers that do not climb out of fromDir start with "./".
func Specifier(fromDir, target string) (string, error) {
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return rel, nil
	}
	return "./" + rel, nil
}
