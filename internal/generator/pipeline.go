package generator

import (
	"context"

	"github.com/toyz/matchgen/internal/errors"
	"github.com/toyz/matchgen/internal/models"
	"github.com/toyz/matchgen/internal/parser"
	"github.com/toyz/matchgen/internal/resolver"
	"github.com/toyz/matchgen/internal/utils"
	"github.com/toyz/matchgen/pkg/match"
)

// DefaultFileName is the base name of generated files
const DefaultFileName = "match_gen.go"

// Options configures a pipeline
type Options struct {
	FileName      string // base name of the generated file
	RuntimeImport string // import path of the runtime error helpers
	RuntimeAlias  string // preferred local name of the runtime import
	ToolName      string
}

// DefaultOptions returns the options matching the match runtime package
func DefaultOptions() Options {
	return Options{
		FileName:      DefaultFileName,
		RuntimeImport: match.ImportPath,
		ToolName:      DefaultToolName,
	}
}

// Pipeline runs filter, dedupe, resolve and emit for one compilation at a time
type Pipeline struct {
	resolver *resolver.Resolver
	emitter  CodeEmitter
	cache    *Cache
	options  Options
}

// NewPipeline creates a pipeline with its own emission cache
func NewPipeline(r *resolver.Resolver, options Options) *Pipeline {
	if options.FileName == "" {
		options.FileName = DefaultFileName
	}
	if options.RuntimeImport == "" {
		options.RuntimeImport = match.ImportPath
	}
	return &Pipeline{
		resolver: r,
		emitter:  NewEmitter(),
		cache:    NewCache(),
		options:  options,
	}
}

// Cache returns the pipeline's emission cache
func (p *Pipeline) Cache() *Cache {
	return p.cache
}

// Generate produces the generated unit of one compilation. It returns a nil
// unit when no enumeration qualifies. Diagnostics for skipped declarations
// are returned alongside.
func (p *Pipeline) Generate(ctx context.Context, compilation *parser.Compilation) (*models.GeneratedUnit, []error, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	candidates := parser.Dedupe(parser.Collect(compilation.Packages))
	if len(candidates) == 0 {
		return nil, nil, nil
	}

	descriptors, diagnostics, err := p.resolver.ResolveAll(ctx, candidates)
	if err != nil {
		return nil, nil, err
	}
	descriptors, collisions := p.claimHelperNames(compilation, descriptors)
	diagnostics = append(diagnostics, collisions...)
	if len(descriptors) == 0 {
		return nil, diagnostics, nil
	}

	unit := p.unitSpec(compilation, descriptors)
	key := CacheKey(unit, descriptors)

	content, cached := p.cache.Lookup(key)
	if !cached {
		formatted, err := utils.FormatGoCode([]byte(p.emitter.Emit(unit, descriptors)))
		if err != nil {
			return nil, diagnostics, errors.WrapFormatError(compilation.PackagePath, err)
		}
		content = string(formatted)
		p.cache.Store(key, content)
	}

	return &models.GeneratedUnit{
		PackagePath: compilation.PackagePath,
		PackageName: compilation.PackageName,
		Dir:         compilation.Dir,
		FileName:    p.options.FileName,
		Content:     content,
		Key:         key,
		Cached:      cached,
		Descriptors: descriptors,
	}, diagnostics, nil
}

// unitSpec picks a runtime import name that no package-level declaration
// already uses.
func (p *Pipeline) unitSpec(compilation *parser.Compilation, descriptors []models.Descriptor) UnitSpec {
	unit := UnitSpec{
		PackageName:   compilation.PackageName,
		PackagePath:   compilation.PackagePath,
		RuntimeImport: p.options.RuntimeImport,
		RuntimeAlias:  p.options.RuntimeAlias,
		ToolName:      p.options.ToolName,
	}

	alias := ChooseRuntimeAlias(unit.runtimeName(), func(name string) bool {
		return declaresDiscriminant(descriptors, name) || declaredInPackage(compilation, name)
	})
	if alias != unit.runtimeName() {
		unit.RuntimeAlias = alias
	}
	return unit
}

func declaredInPackage(compilation *parser.Compilation, name string) bool {
	for _, pkg := range compilation.Packages {
		if pkg.Types != nil && pkg.Types.Scope().Lookup(name) != nil {
			return true
		}
	}
	return false
}

// Result is the outcome of one compilation in a GenerateAll run
type Result struct {
	Compilation *parser.Compilation
	Unit        *models.GeneratedUnit // nil when nothing qualified
	Diagnostics []error
}

// GenerateAll runs Generate over every compilation in order, checking for
// cancellation between packages.
func (p *Pipeline) GenerateAll(ctx context.Context, compilations []*parser.Compilation) ([]Result, error) {
	results := make([]Result, 0, len(compilations))
	for _, compilation := range compilations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		unit, diagnostics, err := p.Generate(ctx, compilation)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{
			Compilation: compilation,
			Unit:        unit,
			Diagnostics: diagnostics,
		})
	}
	return results, nil
}
