package resolver

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/matchgen/internal/errors"
	"github.com/toyz/matchgen/internal/models"
	"github.com/toyz/matchgen/internal/parser"
	"github.com/toyz/matchgen/internal/testutil"
)

var fixtureFiles = map[string]string{
	"colors/colors.go": `package colors

import _ "example.com/demo/match"

// Color is resolved through a blank import.
//
// @match.Enum
type Color int

const (
	Red Color = iota
	Green
	Blue
)

var Default = Red

const Untyped = 5
`,
	"colors/sizes.go": `package colors

import m "example.com/demo/match"

var _ m.Enum

// @m.Enum
type Size string

const (
	Small Size = "s"
	Large Size = "l"
)
`,
	"colors/shades.go": `package colors

import . "example.com/demo/match"

var _ Enum

// @Enum
type Shade float64

const Dark Shade = 0.1
`,
	"colors/modes.go": `package colors

// @match.Enum
type Mode int

const Fast Mode = 1
`,
	"colors/wrong.go": `package colors

import _ "example.com/demo/other/match"

// @match.Enum
type Shape int

const Circle Shape = 0
`,
	"colors/level.go": `package colors

import _ "example.com/demo/match"

// @match.Enum
type level int

const low level = 0

// @match.Enum
type Point struct{}

// @match.Enum
type Bits []byte
`,
	"internal/levels/levels.go": `package levels

import _ "example.com/demo/match"

// @match.Enum
type Level int

const (
	Debug Level = iota
	Info
)
`,
	"other/match/match.go": `package match

type Enum struct{}
`,
}

type fixtureResult struct {
	descriptors map[string]models.Descriptor
	diagnostics map[string]*errors.ResolutionError
	candidates  []string
}

func resolveFixture(t *testing.T) fixtureResult {
	t.Helper()
	dir := testutil.WriteModule(t, fixtureFiles)

	loader := parser.NewLoader(dir, false)
	loader.Env = testutil.Env()
	compilations, typeErrors, err := loader.Load(context.Background(), "./...")
	require.NoError(t, err)
	require.Empty(t, typeErrors)

	r := NewResolver(NewTypesResolver(), Marker{Path: testutil.MarkerPath, Name: "Enum"}, 2)
	result := fixtureResult{
		descriptors: map[string]models.Descriptor{},
		diagnostics: map[string]*errors.ResolutionError{},
	}

	for _, c := range compilations {
		candidates := parser.Dedupe(parser.Collect(c.Packages))
		for _, candidate := range candidates {
			result.candidates = append(result.candidates, candidate.Name())
		}

		descriptors, diagnostics, err := r.ResolveAll(context.Background(), candidates)
		require.NoError(t, err)
		for _, d := range descriptors {
			result.descriptors[d.ShortName()] = d
		}
		for _, diag := range diagnostics {
			var resErr *errors.ResolutionError
			require.True(t, stderrors.As(diag, &resErr))
			result.diagnostics[resErr.TypeName] = resErr
		}
	}

	return result
}

func TestTypesResolver_Fixture(t *testing.T) {
	result := resolveFixture(t)

	assert.NotContains(t, result.candidates, "Point", "struct types are filtered syntactically")
	assert.NotContains(t, result.candidates, "Bits")

	t.Run("blank import", func(t *testing.T) {
		d, ok := result.descriptors["Color"]
		require.True(t, ok)
		assert.Equal(t, "example.com/demo/colors.Color", d.QualifiedName)
		assert.Equal(t, models.VisibilityPublic, d.Visibility)
		assert.Equal(t, []string{"Red", "Green", "Blue"}, d.Discriminants)
	})

	t.Run("named import", func(t *testing.T) {
		d, ok := result.descriptors["Size"]
		require.True(t, ok)
		assert.Equal(t, []string{"Small", "Large"}, d.Discriminants)
	})

	t.Run("dot import", func(t *testing.T) {
		d, ok := result.descriptors["Shade"]
		require.True(t, ok)
		assert.Equal(t, []string{"Dark"}, d.Discriminants)
	})

	t.Run("marker not imported", func(t *testing.T) {
		assert.NotContains(t, result.descriptors, "Mode")
		diag, ok := result.diagnostics["Mode"]
		require.True(t, ok)
		assert.Equal(t, errors.MarkerUnresolvedErrorCode, diag.ErrorCode())
		assert.Contains(t, diag.Location().File, "modes.go")
	})

	t.Run("same-named marker from another package", func(t *testing.T) {
		assert.Contains(t, result.candidates, "Shape")
		assert.NotContains(t, result.descriptors, "Shape")
		assert.NotContains(t, result.diagnostics, "Shape")
	})

	t.Run("unexported", func(t *testing.T) {
		assert.NotContains(t, result.descriptors, "level")
		diag, ok := result.diagnostics["level"]
		require.True(t, ok)
		assert.Equal(t, errors.NoVisibilityErrorCode, diag.ErrorCode())
	})

	t.Run("internal package", func(t *testing.T) {
		d, ok := result.descriptors["Level"]
		require.True(t, ok)
		assert.Equal(t, models.VisibilityInternal, d.Visibility)
		assert.Equal(t, "example.com/demo/internal/levels.Level", d.QualifiedName)
	})
}

func TestTypesResolver_DeclaredSymbolMembers(t *testing.T) {
	dir := testutil.WriteModule(t, fixtureFiles)

	loader := parser.NewLoader(dir, false)
	loader.Env = testutil.Env()
	compilations, _, err := loader.Load(context.Background(), "./colors")
	require.NoError(t, err)
	require.Len(t, compilations, 1)

	var color *parser.Candidate
	for _, c := range parser.Collect(compilations[0].Packages) {
		if c.Name() == "Color" {
			color = c
		}
	}
	require.NotNil(t, color)

	symbol, ok := NewTypesResolver().DeclaredSymbol(color)
	require.True(t, ok)
	assert.True(t, symbol.Enumeration)
	assert.True(t, symbol.Exported)
	assert.Equal(t, "example.com/demo/colors", symbol.PackagePath)
	assert.Equal(t, []Member{
		{Name: "Red", Constant: true},
		{Name: "Green", Constant: true},
		{Name: "Blue", Constant: true},
		{Name: "Default", Constant: false},
	}, symbol.Members)

	resolver := NewTypesResolver()
	assert.True(t, resolver.LookupType(color, testutil.MarkerPath+".Enum"))
	assert.True(t, resolver.LookupType(color, "example.com/demo/colors.Color"))
	assert.False(t, resolver.LookupType(color, "example.com/demo/other/match.Enum"))
	assert.False(t, resolver.LookupType(color, "nonsense"))
}
