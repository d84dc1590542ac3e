package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/matchgen/internal/errors"
)

// ScanRoot is a directory named by a package pattern
type ScanRoot struct {
	Dir       string
	Recursive bool // the pattern ended in /...
}

// DirectoryScanner turns directory-style package patterns into roots
type DirectoryScanner struct {
	baseDir string
}

// NewDirectoryScanner creates a scanner resolving relative patterns
// against baseDir; empty means the current directory.
func NewDirectoryScanner(baseDir string) *DirectoryScanner {
	return &DirectoryScanner{baseDir: baseDir}
}

// ScanRoots resolves each pattern to an absolute directory. Both "./..."
// and "..." style recursive patterns are accepted. Import path patterns
// are not; they must be spelled as directories.
func (s *DirectoryScanner) ScanRoots(patterns []string) ([]ScanRoot, error) {
	roots := make([]ScanRoot, 0, len(patterns))
	for _, pattern := range patterns {
		root := ScanRoot{Dir: filepath.FromSlash(pattern)}

		if pattern == "..." || strings.HasSuffix(pattern, "/...") {
			root.Recursive = true
			root.Dir = filepath.FromSlash(strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/"))
		}
		if root.Dir == "" {
			root.Dir = "."
		}
		if !filepath.IsAbs(root.Dir) && s.baseDir != "" {
			root.Dir = filepath.Join(s.baseDir, root.Dir)
		}

		abs, err := filepath.Abs(root.Dir)
		if err != nil {
			return nil, errors.WrapWithOperation("resolve", pattern, err)
		}
		root.Dir = abs

		info, err := os.Stat(abs)
		if err != nil {
			return nil, errors.WrapFileSystemError("stat", abs, err).
				WithSuggestions("Directory does not exist; package patterns must name directories")
		}
		if !info.IsDir() {
			return nil, errors.ConfigurationError("patterns", abs+" is not a directory")
		}

		roots = append(roots, root)
	}
	return roots, nil
}
