package ast

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
)

var parser = participle.MustBuild[Source](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(8),
)

// Parse parses comprehension source text from r.
func Parse(filename string, r io.Reader) (*Source, error) {
	return parser.Parse(filename, r)
}

// ParseString parses comprehension source text from a string.
func ParseString(filename, src string) (*Source, error) {
	return Parse(filename, strings.NewReader(src))
}

// Grammar returns the EBNF of the accepted syntax.
func Grammar() string {
	return parser.String()
}
