package dsl

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// File is the parse tree of one declaration file.
type File struct {
	Pos      lexer.Position
	Requires *Requirement  `@@?`
	Records  []*RecordDecl `@@*`
}

// Requirement is the optional language version constraint at the top of a file.
type Requirement struct {
	Pos        lexer.Position
	Constraint string `"requires" @String`
}

// RecordDecl declares one record type.
type RecordDecl struct {
	Pos        lexer.Position
	Name       string       `"record" @Ident`
	Attributes []*Attribute `@@*`
	Fields     []*FieldDecl `"{" @@* "}"`
}

// FieldDecl declares one field of a record.
type FieldDecl struct {
	Pos        lexer.Position
	Name       string       `@Ident`
	Type       string       `@Ident`
	Attributes []*Attribute `@@*`
}

// Attribute is an @name or @name(args...) annotation.
type Attribute struct {
	Pos  lexer.Position
	Name string      `"@" @Ident`
	Args []*Argument `( "(" ( @@ ( "," @@ )* )? ")" )?`
}

// Argument is a string literal or a dotted reference.
type Argument struct {
	Pos    lexer.Position
	String *string  `  @String`
	Path   []string `| @Ident ( "." @Ident )*`
}

// Text returns the argument as written, without quotes.
func (a *Argument) Text() string {
	if a.String != nil {
		return *a.String
	}
	return strings.Join(a.Path, ".")
}
