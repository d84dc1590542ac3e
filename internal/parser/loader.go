package parser

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/toyz/matchgen/internal/errors"
)

// LoadMode is the go/packages mode used for discovery and resolution
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedModule

// Compilation groups every loaded build variant of one import path. It is
// the unit a generation pass runs over and produces at most one file for.
type Compilation struct {
	PackagePath string
	PackageName string
	Dir         string
	Packages    []*packages.Package // base variant first
}

// Loader wraps packages.Load
type Loader struct {
	Dir   string   // working directory for the build system; empty means current
	Tests bool     // also load test variants
	Env   []string // nil means the current environment
}

// NewLoader creates a loader rooted at dir
func NewLoader(dir string, tests bool) *Loader {
	return &Loader{Dir: dir, Tests: tests}
}

// Load loads the packages matching patterns and groups their variants.
// Packages that fail to list or parse abort the load. Type errors are
// returned separately: resolution proceeds on the partial type information,
// which keeps a stale generated file from blocking its own regeneration.
func (l *Loader) Load(ctx context.Context, patterns ...string) ([]*Compilation, []error, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     l.Dir,
		Env:     l.Env,
		Tests:   l.Tests,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, nil, errors.WrapLoadError(patterns, err)
	}

	fatal := errors.NewMultipleErrors()
	var typeErrors []error
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			if pkgErr.Kind == packages.TypeError {
				typeErrors = append(typeErrors, pkgErr)
				continue
			}
			fatal.Add(errors.WrapLoadError([]string{pkg.PkgPath}, pkgErr))
		}
	}
	if err := fatal.ErrorOrNil(); err != nil {
		return nil, nil, err
	}

	return Group(pkgs), typeErrors, nil
}

// Group collects packages into compilations keyed by import path. Test
// executables and external test packages are dropped; they cannot declare
// anything a generated file in the package directory could see.
func Group(pkgs []*packages.Package) []*Compilation {
	sorted := make([]*packages.Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		if isTestOnly(pkg) || len(pkg.GoFiles) == 0 {
			continue
		}
		sorted = append(sorted, pkg)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PkgPath != sorted[j].PkgPath {
			return sorted[i].PkgPath < sorted[j].PkgPath
		}
		return sorted[i].ID < sorted[j].ID
	})

	var compilations []*Compilation
	byPath := make(map[string]*Compilation)
	for _, pkg := range sorted {
		c, ok := byPath[pkg.PkgPath]
		if !ok {
			c = &Compilation{
				PackagePath: pkg.PkgPath,
				PackageName: pkg.Name,
				Dir:         packageDir(pkg),
			}
			byPath[pkg.PkgPath] = c
			compilations = append(compilations, c)
		}
		c.Packages = append(c.Packages, pkg)
	}

	return compilations
}

func isTestOnly(pkg *packages.Package) bool {
	return strings.HasSuffix(pkg.PkgPath, ".test") || strings.HasSuffix(pkg.PkgPath, "_test")
}

func packageDir(pkg *packages.Package) string {
	for _, file := range pkg.GoFiles {
		if !strings.HasSuffix(file, "_test.go") {
			return filepath.Dir(file)
		}
	}
	return filepath.Dir(pkg.GoFiles[0])
}
