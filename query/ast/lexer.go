package ast

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes comprehension source text. Indentation and newlines carry
// no meaning and are elided with the rest of the whitespace.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `\b(def|return|for|in|if|and|or|not|None|True|False)\b`},
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"""(?s:.*?)"""|'''(?s:.*?)'''|"(?:\\.|[^"\\\n])*"|'(?:\\.|[^'\\\n])*'`},
	{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Operator", Pattern: `==|!=|<=|>=|<|>`},
	{Name: "Punct", Pattern: `[()\[\].,:=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})
