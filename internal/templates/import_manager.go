package templates

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// ImportManager collects the imports of a generated file
type ImportManager struct {
	imports map[string]string // path -> local name; empty means the package name
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		imports: make(map[string]string),
	}
}

// AddImport adds an import referred to by its package name
func (im *ImportManager) AddImport(importPath string) {
	if importPath != "" {
		if _, exists := im.imports[importPath]; !exists {
			im.imports[importPath] = ""
		}
	}
}

// AddNamedImport adds an import under a local name. A name equal to the last
// path element is written without the alias.
func (im *ImportManager) AddNamedImport(name, importPath string) {
	if importPath == "" {
		return
	}
	if name == path.Base(importPath) {
		name = ""
	}
	im.imports[importPath] = name
}

// IsEmpty reports whether no import was added
func (im *ImportManager) IsEmpty() bool {
	return len(im.imports) == 0
}

// Specs returns the import specs sorted by path, in source form
func (im *ImportManager) Specs() []string {
	paths := make([]string, 0, len(im.imports))
	for p := range im.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	specs := make([]string, 0, len(paths))
	for _, p := range paths {
		if name := im.imports[p]; name != "" {
			specs = append(specs, fmt.Sprintf("%s %q", name, p))
		} else {
			specs = append(specs, fmt.Sprintf("%q", p))
		}
	}
	return specs
}

// Write renders the import declaration into doc. A single import is written
// without parentheses.
func (im *ImportManager) Write(doc *Document) {
	specs := im.Specs()
	switch len(specs) {
	case 0:
		return
	case 1:
		doc.Line("import " + specs[0])
	default:
		doc.Block("import (", ")", func() {
			for _, spec := range specs {
				doc.Line(spec)
			}
		})
	}
}

// GenerateImports returns the import declaration as a string
func (im *ImportManager) GenerateImports() string {
	doc := NewDocument()
	im.Write(doc)
	return strings.TrimSuffix(doc.String(), "\n")
}
