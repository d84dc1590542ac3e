package generator

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/toyz/matchgen/internal/models"
	"github.com/toyz/matchgen/internal/templates"
)

// DefaultToolName is the tool named in the generated file header
const DefaultToolName = "matchgen"

// UnitSpec describes the file a set of descriptors is rendered into
type UnitSpec struct {
	PackageName   string // package clause of the generated file
	PackagePath   string // import path of the package
	RuntimeImport string // import path of the runtime error helpers
	RuntimeAlias  string // local name of the runtime import; empty means its package name
	ToolName      string // generator named in the header
}

func (u UnitSpec) toolName() string {
	if u.ToolName == "" {
		return DefaultToolName
	}
	return u.ToolName
}

func (u UnitSpec) runtimeName() string {
	if u.RuntimeAlias != "" {
		return u.RuntimeAlias
	}
	return path.Base(u.RuntimeImport)
}

// Emitter renders the match helpers of each descriptor
type Emitter struct{}

// NewEmitter creates an emitter
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit renders one generated file. The output is gofmt-canonical and the
// same input always renders the same bytes.
func (e *Emitter) Emit(unit UnitSpec, descriptors []models.Descriptor) string {
	runtime := ChooseRuntimeAlias(unit.runtimeName(), func(name string) bool {
		return declaresDiscriminant(descriptors, name)
	})

	doc := templates.NewDocument()
	doc.Linef("// Code generated by %s. DO NOT EDIT.", unit.toolName())
	doc.Blank()
	doc.Line("package " + unit.PackageName)

	if len(descriptors) > 0 {
		doc.Blank()
		imports := templates.NewImportManager()
		imports.AddNamedImport(runtime, unit.RuntimeImport)
		imports.Write(doc)
	}

	for _, descriptor := range descriptors {
		doc.Blank()
		newEnumWriter(doc, descriptor, runtime).write()
	}

	return doc.String()
}

// ChooseRuntimeAlias returns base, prefixed with underscores until taken
// reports it free.
func ChooseRuntimeAlias(base string, taken func(string) bool) string {
	alias := base
	for taken(alias) {
		alias = "_" + alias
	}
	return alias
}

func declaresDiscriminant(descriptors []models.Descriptor, name string) bool {
	for _, d := range descriptors {
		for _, discriminant := range d.Discriminants {
			if discriminant == name {
				return true
			}
		}
	}
	return false
}

// enumWriter renders the table and the three helper forms of one descriptor
type enumWriter struct {
	doc       *templates.Document
	d         models.Descriptor
	name      string // enumeration type name
	value     string // name of the value parameter
	table     string // name of the discriminant table
	prefix    string // Match or match
	typeParam string
	runtime   string
	qualified string // quoted qualified name
}

// HelperNames returns the package-level identifiers emitted for d: the
// discriminant table and the three helper functions.
func HelperNames(d models.Descriptor) []string {
	prefix := helperPrefix(d)
	return []string{tableName(d), prefix, prefix + "Func", prefix + "Value"}
}

func helperPrefix(d models.Descriptor) string {
	if d.Visibility.Exported() {
		return "Match" + upperFirst(d.ShortName())
	}
	return "match" + upperFirst(d.ShortName())
}

func tableName(d models.Descriptor) string {
	return "_" + d.ShortName() + "_discriminants"
}

func newEnumWriter(doc *templates.Document, d models.Descriptor, runtime string) *enumWriter {
	name := d.ShortName()
	return &enumWriter{
		doc:       doc,
		d:         d,
		name:      name,
		value:     name + "Value",
		table:     tableName(d),
		prefix:    helperPrefix(d),
		typeParam: typeParamName(name, d.Discriminants),
		runtime:   runtime,
		qualified: strconv.Quote(d.QualifiedName),
	}
}

func (w *enumWriter) write() {
	w.writeTable()
	w.doc.Blank()
	w.writeSideEffect()
	w.doc.Blank()
	w.writeDeferred()
	w.doc.Blank()
	w.writeDirect()
}

func (w *enumWriter) writeTable() {
	w.doc.Linef("var %s = [...]%s{%s}", w.table, w.name, strings.Join(w.d.Discriminants, ", "))
}

func (w *enumWriter) params(paramType string) string {
	params := []string{w.value + " " + w.name}
	for _, discriminant := range w.d.Discriminants {
		params = append(params, discriminant+" "+paramType)
	}
	return strings.Join(params, ", ")
}

func (w *enumWriter) writeNilChecks() {
	if len(w.d.Discriminants) == 0 {
		return
	}
	for _, discriminant := range w.d.Discriminants {
		w.doc.Braces(fmt.Sprintf("if %s == nil", discriminant), func() {
			w.doc.Linef("panic(%s.ArgumentIsNull(%q))", w.runtime, discriminant)
		})
	}
	w.doc.Blank()
}

func (w *enumWriter) writeSwitch(body func(discriminant string) string) {
	w.doc.Switch("switch "+w.value, func() {
		for i, discriminant := range w.d.Discriminants {
			w.doc.Case(fmt.Sprintf("case %s[%d]", w.table, i), func() {
				w.doc.Line(body(discriminant))
			})
		}
		w.doc.Case("default", func() {
			w.doc.Linef("panic(%s.UnexpectedDiscriminant(%s, %s))", w.runtime, w.qualified, w.value)
		})
	})
}

func (w *enumWriter) writeSideEffect() {
	name := w.prefix
	w.doc.Linef("// %s calls the callback matching %s.", name, w.value)
	w.doc.Braces(fmt.Sprintf("func %s(%s)", name, w.params("func()")), func() {
		w.writeNilChecks()
		w.writeSwitch(func(discriminant string) string {
			return discriminant + "()"
		})
	})
}

func (w *enumWriter) writeDeferred() {
	name := w.prefix + "Func"
	t := w.typeParam
	w.doc.Linef("// %s returns the result of the callback matching %s.", name, w.value)
	w.doc.Braces(fmt.Sprintf("func %s[%s any](%s) %s", name, t, w.params("func() "+t), t), func() {
		w.writeNilChecks()
		w.writeSwitch(func(discriminant string) string {
			return "return " + discriminant + "()"
		})
	})
}

func (w *enumWriter) writeDirect() {
	name := w.prefix + "Value"
	t := w.typeParam
	w.doc.Linef("// %s returns the argument matching %s.", name, w.value)
	w.doc.Braces(fmt.Sprintf("func %s[%s any](%s) %s", name, t, w.params(t), t), func() {
		w.writeSwitch(func(discriminant string) string {
			return "return " + discriminant
		})
	})
}

// typeParamName returns T, or the first free of T1, T2, ... when T is taken
// by a discriminant or the enumeration itself.
func typeParamName(enum string, discriminants []string) string {
	taken := map[string]bool{enum: true}
	for _, d := range discriminants {
		taken[d] = true
	}
	if !taken["T"] {
		return "T"
	}
	for i := 1; ; i++ {
		candidate := "T" + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate
		}
	}
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
