package annotations

import (
	"fmt"
	"go/ast"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// annotationGrammar is the participle grammar of a single annotation line:
//
//	@Name
//	@pkg.Name
//	@pkg.Name(arg, ...)
type annotationGrammar struct {
	Head     string   `parser:"'@' @Ident"`
	Selector string   `parser:"( '.' @Ident )?"`
	Args     []string `parser:"( '(' (@~')')* ')' )?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[@.()]`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `[^\s@.()a-zA-Z_0-9"]`},
	{Name: "Quote", Pattern: `"`},
})

// ParticipleParser parses annotation lines using alecthomas/participle
type ParticipleParser struct {
	parser *participle.Parser[annotationGrammar]
}

// NewParticipleParser creates a new annotation parser
func NewParticipleParser() *ParticipleParser {
	return &ParticipleParser{
		parser: participle.MustBuild[annotationGrammar](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.UseLookahead(2),
		),
	}
}

var defaultParser = NewParticipleParser()

// ParseLine parses the text of a comment line with the comment marker already
// removed. Text after the annotation is ignored, so `@match.Enum marks ...`
// is a valid annotation.
func (p *ParticipleParser) ParseLine(text string) (*Annotation, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "@") {
		return nil, fmt.Errorf("annotation must start with '@'")
	}

	parsed, err := p.parser.ParseString("", text, participle.AllowTrailing(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse annotation %q: %w", text, err)
	}

	ref := Reference{Name: parsed.Head}
	if parsed.Selector != "" {
		ref = Reference{Qualifier: parsed.Head, Name: parsed.Selector}
	}

	return &Annotation{
		Ref:  ref,
		Args: parsed.Args,
		Raw:  text,
	}, nil
}

// FromCommentGroup returns every annotation in a doc comment, in source order.
// Lines that are not annotations, or that fail to parse, are skipped.
func (p *ParticipleParser) FromCommentGroup(group *ast.CommentGroup) []Annotation {
	if group == nil {
		return nil
	}

	var result []Annotation
	for _, comment := range group.List {
		text, ok := commentText(comment.Text)
		if !ok || !strings.HasPrefix(text, "@") {
			continue
		}

		annotation, err := p.ParseLine(text)
		if err != nil {
			continue
		}
		annotation.Pos = comment.Slash
		result = append(result, *annotation)
	}

	return result
}

// ParseLine parses a single annotation with the package-level parser
func ParseLine(text string) (*Annotation, error) {
	return defaultParser.ParseLine(text)
}

// FromCommentGroup extracts annotations with the package-level parser
func FromCommentGroup(group *ast.CommentGroup) []Annotation {
	return defaultParser.FromCommentGroup(group)
}
