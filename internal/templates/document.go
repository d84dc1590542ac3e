package templates

import (
	"fmt"
	"strings"
)

// Document builds Go source line by line while tracking indentation.
// Nested scopes are opened with Block or Indent and closed when the body
// function returns, so indentation can never be left unbalanced.
type Document struct {
	builder strings.Builder
	depth   int
	indent  string
}

// NewDocument creates a document indented with tabs
func NewDocument() *Document {
	return &Document{indent: "\t"}
}

// Line writes one line at the current depth
func (d *Document) Line(text string) *Document {
	if text == "" {
		return d.Blank()
	}
	d.builder.WriteString(strings.Repeat(d.indent, d.depth))
	d.builder.WriteString(text)
	d.builder.WriteByte('\n')
	return d
}

// Linef writes one formatted line at the current depth
func (d *Document) Linef(format string, args ...any) *Document {
	return d.Line(fmt.Sprintf(format, args...))
}

// Blank writes an empty line
func (d *Document) Blank() *Document {
	d.builder.WriteByte('\n')
	return d
}

// Indent runs body one level deeper
func (d *Document) Indent(body func()) *Document {
	d.depth++
	defer func() { d.depth-- }()
	body()
	return d
}

// Block writes open, runs body one level deeper and writes close
func (d *Document) Block(open, close string, body func()) *Document {
	d.Line(open)
	d.Indent(body)
	return d.Line(close)
}

// Braces writes a brace-delimited block headed by header
func (d *Document) Braces(header string, body func()) *Document {
	return d.Block(header+" {", "}", body)
}

// Switch writes a switch statement headed by header. Case labels written
// by body stay at the depth of the switch keyword, as gofmt lays them out.
func (d *Document) Switch(header string, body func()) *Document {
	d.Line(header + " {")
	body()
	return d.Line("}")
}

// Case writes a case label and runs body one level deeper
func (d *Document) Case(label string, body func()) *Document {
	d.Line(label + ":")
	return d.Indent(body)
}

// Depth returns the current indentation depth
func (d *Document) Depth() int {
	return d.depth
}

// String returns the document with trailing blank lines removed, ending in
// exactly one newline. An empty document yields "".
func (d *Document) String() string {
	text := strings.TrimRight(d.builder.String(), "\n")
	if text == "" {
		return ""
	}
	return text + "\n"
}
