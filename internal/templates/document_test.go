package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Nesting(t *testing.T) {
	doc := NewDocument()
	doc.Line("package demo")
	doc.Blank()
	doc.Braces("func f(x int)", func() {
		doc.Switch("switch x", func() {
			doc.Case("case 1", func() {
				doc.Line("return")
			})
			doc.Case("default", func() {
				doc.Line("panic(x)")
			})
		})
	})

	expected := "package demo\n" +
		"\n" +
		"func f(x int) {\n" +
		"\tswitch x {\n" +
		"\tcase 1:\n" +
		"\t\treturn\n" +
		"\tdefault:\n" +
		"\t\tpanic(x)\n" +
		"\t}\n" +
		"}\n"
	assert.Equal(t, expected, doc.String())
	assert.Zero(t, doc.Depth())
}

func TestDocument_TrailingBlankLines(t *testing.T) {
	doc := NewDocument()
	doc.Line("a").Blank().Blank()
	assert.Equal(t, "a\n", doc.String())

	assert.Equal(t, "", NewDocument().Blank().String())
}

func TestDocument_LineFormatting(t *testing.T) {
	doc := NewDocument()
	doc.Line("100%")
	doc.Linef("%s=%d", "x", 1)
	doc.Indent(func() {
		doc.Line("")
	})
	assert.Equal(t, "100%\nx=1\n", doc.String(), "empty lines carry no indentation")
}

func TestDocument_IndentRestoredAfterPanic(t *testing.T) {
	doc := NewDocument()
	assert.Panics(t, func() {
		doc.Indent(func() {
			panic("boom")
		})
	})
	assert.Zero(t, doc.Depth())
}

func TestImportManager(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(im *ImportManager)
		expected string
	}{
		{
			name:     "empty",
			setup:    func(im *ImportManager) {},
			expected: "",
		},
		{
			name: "single import",
			setup: func(im *ImportManager) {
				im.AddImport("github.com/toyz/matchgen/pkg/match")
			},
			expected: `import "github.com/toyz/matchgen/pkg/match"`,
		},
		{
			name: "alias equal to package name is dropped",
			setup: func(im *ImportManager) {
				im.AddNamedImport("match", "github.com/toyz/matchgen/pkg/match")
			},
			expected: `import "github.com/toyz/matchgen/pkg/match"`,
		},
		{
			name: "aliased import",
			setup: func(im *ImportManager) {
				im.AddNamedImport("_match", "github.com/toyz/matchgen/pkg/match")
			},
			expected: `import _match "github.com/toyz/matchgen/pkg/match"`,
		},
		{
			name: "multiple imports sorted by path",
			setup: func(im *ImportManager) {
				im.AddImport("fmt")
				im.AddImport("context")
				im.AddImport("fmt")
			},
			expected: "import (\n\t\"context\"\n\t\"fmt\"\n)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := NewImportManager()
			tt.setup(im)
			assert.Equal(t, tt.expected, im.GenerateImports())
			assert.Equal(t, tt.expected == "", im.IsEmpty())
		})
	}
}
