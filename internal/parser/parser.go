// Package parser turns dispatch source text into raw, loosely structured
// declarations. It recognizes exactly two top-level blocks, in order: a
// contract block and a union block. Method declarations are captured with
// their receiver position left uninterpreted; classifying the receiver is the
// classifier's job, not the parser's.
package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	dgerr "github.com/variantgo/dispatchgen/internal/errors"
)

// File is the root of a parsed dispatch file
type File struct {
	Contract *ContractBlock `parser:"@@"`
	Union    *UnionBlock    `parser:"@@"`
}

// ContractBlock represents the contract declaration
type ContractBlock struct {
	Pos     lexer.Position
	Markers Markers      `parser:"@@*"`
	Name    string       `parser:"'contract' @Ident"`
	Bounds  []*Bound     `parser:"( ':' @@ ( '+' @@ )* )?"`
	Methods []*RawMethod `parser:"'{' @@* '}'"`
}

// Bound is one supertrait bound or a lifetime bound
type Bound struct {
	Path     string `parser:"@Ident ( @'.' @Ident )*"`
	Lifetime string `parser:"| @Lifetime"`
}

// String returns the source spelling of the bound
func (b *Bound) String() string {
	if b.Lifetime != "" {
		return b.Lifetime
	}
	return b.Path
}

// RawMethod is one method declaration with its receiver position unclassified
type RawMethod struct {
	Pos     lexer.Position
	Markers Markers     `parser:"@@*"`
	Async   bool        `parser:"@'async'?"`
	Name    string      `parser:"'fn' @Ident"`
	Params  []*RawParam `parser:"'(' ( @@ ( ',' @@ )* ','? )? ')'"`
	Return  *TypeRef    `parser:"( Arrow @@ )?"`
	Body    *RawBody    `parser:"( @@ | ';' )"`
}

// RawParam is one entry of a method's parameter list, receiver included.
// A receiver occupies the first position and carries no type clause.
type RawParam struct {
	Pos  lexer.Position
	Amp  bool     `parser:"@'&'?"`
	Mut  bool     `parser:"@'mut'?"`
	Name string   `parser:"@( 'self' | Ident )"`
	Type *TypeRef `parser:"( ':' @@ )?"`
}

// TypeRef is a type in argument, return or payload position
type TypeRef struct {
	Pos  lexer.Position
	Amp  bool   `parser:"@'&'?"`
	Mut  bool   `parser:"@'mut'?"`
	Impl bool   `parser:"@'impl'?"`
	Name string `parser:"@Ident ( @'.' @Ident )*"`
}

// RawBody is a default method body. Its tokens are consumed for parsing only
// and never reproduced in generated output.
type RawBody struct {
	Fragments []*BodyFragment `parser:"'{' @@* '}'"`
}

// BodyFragment is one token or nested brace group inside a default body
type BodyFragment struct {
	Nested *RawBody `parser:"@@"`
	Token  string   `parser:"| @~('{' | '}')"`
}

// Marker is one element of a declaration's leading trivia: a doc comment or
// an attribute. The two forms may be interleaved freely.
type Marker struct {
	Pos  lexer.Position
	Doc  string     `parser:"@DocComment"`
	Attr *Attribute `parser:"| @@"`
}

// Markers is the leading trivia of a declaration, in source order
type Markers []*Marker

// Docs returns the doc comments of the trivia, in source order
func (ms Markers) Docs() []string {
	var docs []string
	for _, m := range ms {
		if m.Attr == nil {
			docs = append(docs, m.Doc)
		}
	}
	return docs
}

// Attrs returns the attributes of the trivia, in source order
func (ms Markers) Attrs() []*Attribute {
	var attrs []*Attribute
	for _, m := range ms {
		if m.Attr != nil {
			attrs = append(attrs, m.Attr)
		}
	}
	return attrs
}

// Attribute is one #[...] marker. Only conditional-inclusion and
// lint-suppression forms are recognized.
type Attribute struct {
	Pos   lexer.Position
	Cfg   *CfgAttr   `parser:"'#' '[' ( @@"`
	Allow *AllowAttr `parser:"| @@ ) ']'"`
}

// CfgAttr is a conditional-inclusion marker: #[cfg(feature = "name")]
type CfgAttr struct {
	Feature string `parser:"'cfg' '(' 'feature' '=' @String ')'"`
}

// AllowAttr is a lint-suppression marker: #[allow(lint, ...)]
type AllowAttr struct {
	Lints []string `parser:"'allow' '(' @Ident ( ',' @Ident )* ')'"`
}

// UnionBlock represents the union declaration
type UnionBlock struct {
	Pos      lexer.Position
	Markers  Markers       `parser:"@@*"`
	Name     string        `parser:"'union' @Ident"`
	Variants []*RawVariant `parser:"'{' ( @@ ( ',' @@ )* ','? )? '}'"`
}

// RawVariant is one variant entry of the union block
type RawVariant struct {
	Pos     lexer.Position
	Markers Markers  `parser:"@@*"`
	Name    string   `parser:"@Ident"`
	Payload *TypeRef `parser:"'(' @@ ')'"`
}

// dispatchLexer tokenizes dispatch source. Doc comments are kept as tokens;
// plain comments and whitespace are elided.
var dispatchLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "DocComment", Pattern: `///[^\r\n]*`},
	{Name: "Comment", Pattern: `//[^\r\n]*`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Lifetime", Pattern: `'[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "Punct", Pattern: `[#\[\]&{}(),:;+=.*<>!/%|-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var fileParser = participle.MustBuild[File](
	participle.Lexer(dispatchLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Parse parses dispatch source text into its raw two-block form. Any grammar
// violation is reported as a structural error pinpointing the mismatch; no
// partial result is returned.
func Parse(filename, source string) (*File, error) {
	file, err := fileParser.ParseString(filename, source)
	if err != nil {
		return nil, structuralError(filename, err)
	}
	if len(file.Union.Variants) == 0 {
		return nil, dgerr.Newf(dgerr.StructuralErrorCode,
			"union `%s` must declare at least one variant", file.Union.Name).
			WithLocation(location(filename, file.Union.Pos)).
			WithSuggestion("add at least one `Variant(PayloadType)` entry")
	}
	for _, v := range file.Union.Variants {
		if v.Payload.Name == file.Union.Name {
			return nil, dgerr.Newf(dgerr.StructuralErrorCode,
				"variant `%s` uses the union type `%s` as its own payload", v.Name, file.Union.Name).
				WithLocation(location(filename, v.Pos)).
				WithSuggestion("payload types must be concrete nominal types")
		}
		if v.Payload.Amp || v.Payload.Impl {
			return nil, dgerr.Newf(dgerr.StructuralErrorCode,
				"variant `%s` payload must be a concrete nominal type", v.Name).
				WithLocation(location(filename, v.Pos))
		}
	}
	return file, nil
}

// DocText strips the leading /// marker from a doc comment token
func DocText(doc string) string {
	text := strings.TrimPrefix(doc, "///")
	return strings.TrimPrefix(text, " ")
}

// structuralError converts a participle parse error into a structural
// diagnostic with the mismatch position attached
func structuralError(filename string, err error) error {
	if perr, ok := err.(participle.Error); ok {
		pos := perr.Position()
		return dgerr.Newf(dgerr.StructuralErrorCode, "%s", perr.Message()).
			WithLocation(dgerr.SourceLocation{File: filename, Line: pos.Line, Column: pos.Column}).
			WithSuggestion("expected a `contract { ... }` block followed by a `union { ... }` block").
			WithCause(err)
	}
	return dgerr.Wrap(dgerr.StructuralErrorCode, "malformed dispatch source", err)
}

func location(filename string, pos lexer.Position) dgerr.SourceLocation {
	return dgerr.SourceLocation{File: filename, Line: pos.Line, Column: pos.Column}
}
