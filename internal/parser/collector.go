package parser

import (
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Collect returns every candidate declared in the non-test, non-generated
// files of pkgs. The same declaration is reported once per package variant
// it appears in; use Dedupe to collapse them.
func Collect(pkgs []*packages.Package) []*Candidate {
	var candidates []*Candidate
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			candidates = append(candidates, CollectFile(pkg, pkg.Fset, file)...)
		}
	}
	return candidates
}

// CollectFile returns the candidates declared in a single file
func CollectFile(pkg *packages.Package, fset *token.FileSet, file *ast.File) []*Candidate {
	filename := fset.Position(file.Package).Filename
	if strings.HasSuffix(filename, "_test.go") || ast.IsGenerated(file) {
		return nil
	}

	var candidates []*Candidate
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || !IsCandidate(genDecl, typeSpec) {
				continue
			}

			candidates = append(candidates, &Candidate{
				Package:     pkg,
				File:        file,
				Decl:        genDecl,
				Spec:        typeSpec,
				Annotations: Annotations(genDecl, typeSpec),
				Position:    fset.Position(typeSpec.Name.Pos()),
			})
		}
	}

	return candidates
}
