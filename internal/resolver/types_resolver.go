package resolver

import (
	"go/types"
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/matchgen/internal/annotations"
	"github.com/toyz/matchgen/internal/parser"
)

// TypesResolver implements SymbolResolver over go/types information loaded
// by go/packages. Imports are file scoped in Go, so a type is reachable from
// a candidate when it is declared in the candidate's package or in a package
// imported by the candidate's file.
type TypesResolver struct{}

// NewTypesResolver creates a go/types backed symbol resolver
func NewTypesResolver() *TypesResolver {
	return &TypesResolver{}
}

type fileImport struct {
	name string // local name the file refers to the package by; "." for dot imports
	pkg  *types.Package
}

func (r *TypesResolver) imports(c *parser.Candidate) []fileImport {
	if c.Package == nil || c.File == nil {
		return nil
	}

	var result []fileImport
	for _, spec := range c.File.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imported, ok := c.Package.Imports[importPath]
		if !ok || imported.Types == nil {
			continue
		}

		name := imported.Types.Name()
		if spec.Name != nil && spec.Name.Name != "_" {
			name = spec.Name.Name
		}
		result = append(result, fileImport{name: name, pkg: imported.Types})
	}
	return result
}

// LookupType reports whether qualifiedName is declared in the candidate's
// package or in one of the packages its file imports.
func (r *TypesResolver) LookupType(c *parser.Candidate, qualifiedName string) bool {
	pkgPath, name, ok := splitQualified(qualifiedName)
	if !ok {
		return false
	}

	if own := ownPackage(c); own != nil && own.Path() == pkgPath {
		return lookupTypeName(own, name, false) != nil
	}
	for _, imp := range r.imports(c) {
		if imp.pkg.Path() == pkgPath {
			return lookupTypeName(imp.pkg, name, true) != nil
		}
	}
	return false
}

// ResolveAnnotation resolves a qualified reference through the file's
// imports and a bare reference through the package scope, then through dot
// imports.
func (r *TypesResolver) ResolveAnnotation(c *parser.Candidate, ref annotations.Reference) (string, bool) {
	imports := r.imports(c)

	if ref.IsQualified() {
		for _, imp := range imports {
			if imp.name != ref.Qualifier {
				continue
			}
			if obj := lookupTypeName(imp.pkg, ref.Name, true); obj != nil {
				return qualify(obj), true
			}
		}
		return "", false
	}

	if own := ownPackage(c); own != nil {
		if obj := lookupTypeName(own, ref.Name, false); obj != nil {
			return qualify(obj), true
		}
	}
	for _, imp := range imports {
		if imp.name != "." {
			continue
		}
		if obj := lookupTypeName(imp.pkg, ref.Name, true); obj != nil {
			return qualify(obj), true
		}
	}
	return "", false
}

// DeclaredSymbol returns the named type declared by the candidate together
// with the package-level constants and variables of exactly that type.
func (r *TypesResolver) DeclaredSymbol(c *parser.Candidate) (*Symbol, bool) {
	own := ownPackage(c)
	if own == nil {
		return nil, false
	}

	obj := lookupTypeName(own, c.Name(), false)
	if obj == nil || obj.Pos() != c.Spec.Name.Pos() {
		return nil, false
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, false
	}

	symbol := &Symbol{
		Name:          obj.Name(),
		QualifiedName: qualify(obj),
		PackagePath:   own.Path(),
		Exported:      obj.Exported(),
		Enumeration:   isEnumeration(named),
	}
	if !symbol.Enumeration {
		return symbol, true
	}

	type positioned struct {
		member Member
		obj    types.Object
	}
	var members []positioned

	scope := own.Scope()
	for _, name := range scope.Names() {
		member := scope.Lookup(name)
		if !types.Identical(member.Type(), named) {
			continue
		}
		switch member.(type) {
		case *types.Const:
			members = append(members, positioned{Member{Name: name, Constant: true}, member})
		case *types.Var:
			members = append(members, positioned{Member{Name: name, Constant: false}, member})
		}
	}

	// token.Pos order across files depends on parse order, so compare
	// file names first.
	fset := c.Package.Fset
	sort.SliceStable(members, func(i, j int) bool {
		a, b := fset.Position(members[i].obj.Pos()), fset.Position(members[j].obj.Pos())
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Offset < b.Offset
	})
	for _, m := range members {
		symbol.Members = append(symbol.Members, m.member)
	}

	return symbol, true
}

func isEnumeration(named *types.Named) bool {
	if named.TypeParams().Len() > 0 {
		return false
	}
	basic, ok := named.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsConstType != 0
}

func ownPackage(c *parser.Candidate) *types.Package {
	if c.Package == nil {
		return nil
	}
	return c.Package.Types
}

func lookupTypeName(pkg *types.Package, name string, exportedOnly bool) *types.TypeName {
	if pkg == nil || pkg.Scope() == nil {
		return nil
	}
	obj, ok := pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok || (exportedOnly && !obj.Exported()) {
		return nil
	}
	return obj
}

func qualify(obj types.Object) string {
	return obj.Pkg().Path() + "." + obj.Name()
}

func splitQualified(qualifiedName string) (string, string, bool) {
	i := strings.LastIndex(qualifiedName, ".")
	if i <= 0 || i == len(qualifiedName)-1 {
		return "", "", false
	}
	return qualifiedName[:i], qualifiedName[i+1:], true
}

var _ SymbolResolver = (*TypesResolver)(nil)
