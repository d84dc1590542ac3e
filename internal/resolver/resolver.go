// Package resolver turns syntactic candidates into enumeration descriptors.
package resolver

import (
	"context"
	"path"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/toyz/matchgen/internal/annotations"
	"github.com/toyz/matchgen/internal/errors"
	"github.com/toyz/matchgen/internal/models"
	"github.com/toyz/matchgen/internal/parser"
	"github.com/toyz/matchgen/pkg/match"
)

// Member is a package-level value declared with the symbol's type
type Member struct {
	Name     string
	Constant bool
}

// Symbol is the semantic view of a candidate's declared type
type Symbol struct {
	Name          string
	QualifiedName string
	PackagePath   string
	Exported      bool
	Enumeration   bool     // underlying type is a basic constant type
	Members       []Member // in declaration order
}

// SymbolResolver supplies semantic information about candidates
type SymbolResolver interface {
	// LookupType reports whether the type with the given qualified name is
	// reachable from the candidate's declaration.
	LookupType(c *parser.Candidate, qualifiedName string) bool

	// ResolveAnnotation resolves an annotation reference to the qualified
	// name of the type it denotes.
	ResolveAnnotation(c *parser.Candidate, ref annotations.Reference) (string, bool)

	// DeclaredSymbol returns the type the candidate declares
	DeclaredSymbol(c *parser.Candidate) (*Symbol, bool)
}

// Marker identifies the annotation type that opts an enumeration in
type Marker struct {
	Path string // import path of the declaring package
	Name string // type name
}

// DefaultMarker returns the match.Enum marker
func DefaultMarker() Marker {
	return Marker{Path: match.ImportPath, Name: match.MarkerName}
}

// Qualified returns the marker's qualified identity
func (m Marker) Qualified() string {
	return m.Path + "." + m.Name
}

// PackageName returns the conventional package name of the marker's package
func (m Marker) PackageName() string {
	return path.Base(m.Path)
}

// names reports whether ref spells the marker the conventional way
func (m Marker) names(ref annotations.Reference) bool {
	return ref.Qualifier == m.PackageName() && ref.Name == m.Name
}

// Resolver confirms the marker annotation on candidates and extracts descriptors
type Resolver struct {
	symbols     SymbolResolver
	marker      Marker
	concurrency int
}

// NewResolver creates a resolver. A concurrency below one means GOMAXPROCS.
func NewResolver(symbols SymbolResolver, marker Marker, concurrency int) *Resolver {
	if concurrency < 1 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &Resolver{
		symbols:     symbols,
		marker:      marker,
		concurrency: concurrency,
	}
}

// Marker returns the marker the resolver matches against
func (r *Resolver) Marker() Marker {
	return r.marker
}

// Resolve returns the descriptor of a qualifying candidate. A candidate that
// does not qualify yields (nil, nil); one that carries the marker but cannot
// be generated yields a *errors.ResolutionError.
func (r *Resolver) Resolve(c *parser.Candidate) (*models.Descriptor, error) {
	qualified := false
	namesMarker := false

	for _, ann := range c.Annotations {
		name, ok := r.symbols.ResolveAnnotation(c, ann.Ref)
		if !ok {
			namesMarker = namesMarker || r.marker.names(ann.Ref)
			continue
		}
		if name == r.marker.Qualified() {
			qualified = true
			break
		}
	}

	if !qualified {
		if namesMarker && !r.symbols.LookupType(c, r.marker.Qualified()) {
			return nil, errors.NewMarkerUnresolvedError(c.Name(), r.marker.Qualified(), r.marker.Path, c.Location())
		}
		return nil, nil
	}

	symbol, ok := r.symbols.DeclaredSymbol(c)
	if !ok || !symbol.Enumeration {
		return nil, nil
	}

	visibility, ok := VisibilityOf(symbol)
	if !ok {
		return nil, errors.NewNoVisibilityError(symbol.Name, c.Location())
	}

	discriminants, err := discriminantsOf(symbol, c)
	if err != nil {
		return nil, err
	}

	descriptor := models.NewDescriptor(visibility, symbol.QualifiedName, discriminants)
	return &descriptor, nil
}

func discriminantsOf(symbol *Symbol, c *parser.Candidate) ([]string, error) {
	reserved := map[string]string{
		symbol.Name + "Value":               "collides with the generated value parameter",
		"_" + symbol.Name + "_discriminants": "collides with the generated discriminant table",
		"panic":                              "shadows a builtin the generated helpers call",
		"nil":                                "shadows a builtin the generated helpers call",
	}

	seen := make(map[string]bool, len(symbol.Members))
	discriminants := make([]string, 0, len(symbol.Members))

	for _, member := range symbol.Members {
		if !member.Constant {
			continue
		}
		if reason, ok := reserved[member.Name]; ok {
			return nil, errors.NewDiscriminantCollisionError(symbol.Name, member.Name, reason, c.Location())
		}
		if seen[member.Name] {
			return nil, errors.NewDiscriminantCollisionError(symbol.Name, member.Name, "is declared more than once", c.Location())
		}
		seen[member.Name] = true
		discriminants = append(discriminants, member.Name)
	}

	return discriminants, nil
}

// ResolveAll resolves candidates in parallel and returns the descriptors and
// diagnostics in candidate order. Cancellation is checked before each
// candidate and returned as the error.
func (r *Resolver) ResolveAll(ctx context.Context, candidates []*parser.Candidate) ([]models.Descriptor, []error, error) {
	type result struct {
		descriptor *models.Descriptor
		err        error
	}
	results := make([]result, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			descriptor, err := r.Resolve(c)
			results[i] = result{descriptor: descriptor, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var descriptors []models.Descriptor
	var diagnostics []error
	for _, res := range results {
		if res.err != nil {
			diagnostics = append(diagnostics, res.err)
			continue
		}
		if res.descriptor != nil {
			descriptors = append(descriptors, *res.descriptor)
		}
	}

	return descriptors, diagnostics, nil
}
