package mdx

import (
	"path/filepath"
	"strings"
)

// OutputExtension is the extension of generated component files.
const OutputExtension = ".jsx"

// ResolveOutputPath determines the final output path from the input
// source path, unless the caller overrides it explicitly.
func ResolveOutputPath(srcPath, override string) string {
	if override == "" {
		return strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + OutputExtension
	}

	srcDir := filepath.Dir(srcPath)
	return filepath.Join(srcDir, override)
}

func MustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}
