package annotations

import (
	"go/token"
	"strings"
)

// Reference is the type an annotation names, as written in source
type Reference struct {
	Qualifier string // package name or import alias; empty for a bare reference
	Name      string // type name
}

// String returns the reference in source form
func (r Reference) String() string {
	if r.Qualifier == "" {
		return r.Name
	}
	return r.Qualifier + "." + r.Name
}

// IsQualified reports whether the reference names a package
func (r Reference) IsQualified() bool {
	return r.Qualifier != ""
}

// Annotation is one `@Ref` line found in a doc comment
type Annotation struct {
	Ref  Reference
	Args []string  // raw tokens between the parentheses, if any
	Pos  token.Pos // position of the comment line
	Raw  string    // comment text without the comment marker
}

// HasArgs reports whether the annotation was written with arguments
func (a Annotation) HasArgs() bool {
	return len(a.Args) > 0
}

// commentText strips the comment marker and surrounding whitespace from a
// single comment. Block comments are not annotation carriers.
func commentText(text string) (string, bool) {
	if !strings.HasPrefix(text, "//") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(text, "//")), true
}
