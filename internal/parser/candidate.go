package parser

import (
	"fmt"
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/packages"

	"github.com/toyz/matchgen/internal/annotations"
	"github.com/toyz/matchgen/internal/errors"
)

// Candidate is an annotated enumeration-shaped type declaration found during
// discovery. It lives only for the duration of one pass.
type Candidate struct {
	Package     *packages.Package // semantic context; nil for purely syntactic use
	File        *ast.File
	Decl        *ast.GenDecl
	Spec        *ast.TypeSpec
	Annotations []annotations.Annotation
	Position    token.Position // position of the type name
}

// Name returns the declared type name
func (c *Candidate) Name() string {
	return c.Spec.Name.Name
}

// Key identifies the declaration independently of the package variant it was
// loaded through.
func (c *Candidate) Key() string {
	return fmt.Sprintf("%s:%d:%s", c.Position.Filename, c.Position.Offset, c.Name())
}

// Location converts the candidate position for error reporting
func (c *Candidate) Location() errors.SourceLocation {
	return errors.SourceLocation{
		File:   c.Position.Filename,
		Line:   c.Position.Line,
		Column: c.Position.Column,
	}
}

// IsEnumShape reports whether spec has the syntactic shape of an enumeration:
// a non-generic defined type whose type expression is a plain type name.
func IsEnumShape(decl *ast.GenDecl, spec *ast.TypeSpec) bool {
	if decl == nil || spec == nil || decl.Tok != token.TYPE {
		return false
	}
	if spec.Assign.IsValid() || spec.TypeParams != nil {
		return false
	}

	switch typ := spec.Type.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := typ.X.(*ast.Ident)
		return ok
	default:
		return false
	}
}

// DocComment returns the doc comment attached to spec. An ungrouped
// declaration carries its doc on the GenDecl.
func DocComment(decl *ast.GenDecl, spec *ast.TypeSpec) *ast.CommentGroup {
	if spec.Doc != nil {
		return spec.Doc
	}
	if !decl.Lparen.IsValid() && len(decl.Specs) == 1 {
		return decl.Doc
	}
	return nil
}

// Annotations returns the syntactic annotations on spec
func Annotations(decl *ast.GenDecl, spec *ast.TypeSpec) []annotations.Annotation {
	return annotations.FromCommentGroup(DocComment(decl, spec))
}

// IsCandidate is the cheap syntactic pre-filter: an enumeration-shaped type
// declaration with at least one annotation. No type information is used.
func IsCandidate(decl *ast.GenDecl, spec *ast.TypeSpec) bool {
	return IsEnumShape(decl, spec) && len(Annotations(decl, spec)) > 0
}
