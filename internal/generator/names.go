package generator

import (
	"fmt"
	"path/filepath"

	"github.com/toyz/matchgen/internal/errors"
	"github.com/toyz/matchgen/internal/models"
	"github.com/toyz/matchgen/internal/parser"
)

// claimHelperNames keeps the descriptors whose helper identifiers are free.
// An identifier is taken when the package already declares it outside the
// generated file, or when an earlier descriptor emits it.
func (p *Pipeline) claimHelperNames(compilation *parser.Compilation, descriptors []models.Descriptor) ([]models.Descriptor, []error) {
	claimed := make(map[string]string)
	kept := make([]models.Descriptor, 0, len(descriptors))
	var diagnostics []error

	for _, d := range descriptors {
		names := HelperNames(d)
		var collision error
		for _, name := range names {
			if owner, ok := claimed[name]; ok {
				collision = errors.NewHelperCollisionError(d.ShortName(), name,
					fmt.Sprintf("the helpers of enumeration '%s'", owner), p.locate(compilation, d))
				break
			}
			if pos, ok := p.declaredOutsideOutput(compilation, name); ok {
				collision = errors.NewHelperCollisionError(d.ShortName(), name,
					"the declaration at "+pos, p.locate(compilation, d))
				break
			}
		}
		if collision != nil {
			diagnostics = append(diagnostics, collision)
			continue
		}

		for _, name := range names {
			claimed[name] = d.ShortName()
		}
		kept = append(kept, d)
	}

	return kept, diagnostics
}

// declaredOutsideOutput reports where the package declares name, ignoring
// declarations in the file the generator is about to replace.
func (p *Pipeline) declaredOutsideOutput(compilation *parser.Compilation, name string) (string, bool) {
	for _, pkg := range compilation.Packages {
		if pkg.Types == nil || pkg.Fset == nil {
			continue
		}
		obj := pkg.Types.Scope().Lookup(name)
		if obj == nil {
			continue
		}
		position := pkg.Fset.Position(obj.Pos())
		if filepath.Base(position.Filename) == p.options.FileName {
			continue
		}
		return position.String(), true
	}
	return "", false
}

func (p *Pipeline) locate(compilation *parser.Compilation, d models.Descriptor) errors.SourceLocation {
	for _, pkg := range compilation.Packages {
		if pkg.Types == nil || pkg.Fset == nil {
			continue
		}
		if obj := pkg.Types.Scope().Lookup(d.ShortName()); obj != nil {
			position := pkg.Fset.Position(obj.Pos())
			return errors.SourceLocation{File: position.Filename, Line: position.Line, Column: position.Column}
		}
	}
	return errors.SourceLocation{}
}
