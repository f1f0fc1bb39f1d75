// Package ast parses comprehension source text: one or more function
// definitions whose body returns a generator expression, or a bare
// generator expression.
//
//	def enrolled():
//	    return ((s.name, c.title)
//	            for s in students
//	            for c in courses
//	            if s.student_id == c.student_id)
//
// The grammar is deliberately wider than what compiles so that
// unsupported forms reach the compiler and get a precise error.
package ast

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Source is a parsed source text.
type Source struct {
	Pos   lexer.Position
	Funcs []*FunctionDef `  @@+`
	Expr  *Operand       `| @@`
}

// Func returns the function named name, or nil.
func (s *Source) Func(name string) *FunctionDef {
	for _, fn := range s.Funcs {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// FuncNames lists the defined functions in source order.
func (s *Source) FuncNames() []string {
	names := make([]string, len(s.Funcs))
	for i, fn := range s.Funcs {
		names[i] = fn.Name
	}
	return names
}

// FunctionDef is a def block. Annotations are parsed and ignored.
type FunctionDef struct {
	Pos     lexer.Position
	Name    string       `"def" @Ident`
	Params  []*Param     `"(" ( @@ ( "," @@ )* ","? )? ")"`
	Returns *Reference   `( "->" @@ )? ":"`
	Body    []*Statement `@@+`
}

// ParamNames lists the parameter names in order.
func (f *FunctionDef) ParamNames() []string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name
	}
	return names
}

// Param is a function parameter with an optional type annotation.
type Param struct {
	Pos        lexer.Position
	Name       string     `@Ident`
	Annotation *Reference `( ":" @@ )?`
}

// Statement is one statement of a function body.
type Statement struct {
	Pos    lexer.Position
	Return *ReturnStmt `  @@`
	Assign *AssignStmt `| @@`
	Expr   *Operand    `| @@`
}

// IsDocstring reports whether the statement is a bare string literal.
func (s *Statement) IsDocstring() bool {
	return s.Expr != nil && s.Expr.Literal != nil && s.Expr.Literal.Str != nil
}

// ReturnStmt is a return statement with an optional value.
type ReturnStmt struct {
	Pos   lexer.Position
	Value *Operand `"return" @@?`
}

// AssignStmt is name = value.
type AssignStmt struct {
	Pos   lexer.Position
	Name  string   `@Ident "="`
	Value *Operand `@@`
}

// Operand is a literal, a parenthesized group, or a reference.
type Operand struct {
	Pos     lexer.Position
	Literal *Literal   `  @@`
	Group   *Group     `| @@`
	Ref     *Reference `| @@`
}

// String renders the operand in source form.
func (o *Operand) String() string {
	switch {
	case o == nil:
		return ""
	case o.Literal != nil:
		return o.Literal.String()
	case o.Group != nil:
		return o.Group.String()
	case o.Ref != nil:
		return o.Ref.String()
	default:
		return ""
	}
}

// Reference is a name with optional attribute accesses and call arguments.
type Reference struct {
	Pos   lexer.Position
	Name  string     `@Ident`
	Attrs []string   `( "." @Ident )*`
	Call  *Arguments `@@?`
}

// IsName reports whether the reference is a bare name.
func (r *Reference) IsName() bool {
	return len(r.Attrs) == 0 && r.Call == nil
}

// String renders the reference in source form.
func (r *Reference) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	for _, a := range r.Attrs {
		b.WriteString(".")
		b.WriteString(a)
	}
	if r.Call != nil {
		b.WriteString("(")
		for i, arg := range r.Call.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.String())
		}
		b.WriteString(")")
	}
	return b.String()
}

// Arguments is a call argument list.
type Arguments struct {
	Pos  lexer.Position
	Args []*Operand `"(" ( @@ ( "," @@ )* )? ")"`
}

// Group is a parenthesized expression, tuple, or generator expression.
type Group struct {
	Pos  lexer.Position
	Head *Operand   `"(" @@`
	Rest *GroupRest `@@? ")"`
}

// GroupRest is what follows the first element of a group: generator
// clauses, further tuple items with an optional trailing comma, the lone
// comma of a one-element tuple, or comparison operators.
type GroupRest struct {
	Pos     lexer.Position
	Clauses []*Clause      `  @@+`
	Items   []*Operand     `| ( "," @@ )+`
	Comma   bool           `  @","?`
	Single  bool           `| @","`
	Compare []*CompareTail `| @@+`
}

// IsGenerator reports whether the group is a generator expression.
func (g *Group) IsGenerator() bool {
	return g.Rest != nil && len(g.Rest.Clauses) > 0
}

// IsTuple reports whether the group is a tuple, including (x,).
func (g *Group) IsTuple() bool {
	return g.Rest != nil && (len(g.Rest.Items) > 0 || g.Rest.Single)
}

// IsComparison reports whether the group is a parenthesized comparison.
func (g *Group) IsComparison() bool {
	return g.Rest != nil && len(g.Rest.Compare) > 0
}

// IsParen reports whether the group only wraps its head in parentheses.
func (g *Group) IsParen() bool {
	return g.Rest == nil
}

// Elements returns the tuple elements, or the single parenthesized element.
func (g *Group) Elements() []*Operand {
	elems := []*Operand{g.Head}
	if g.Rest != nil {
		elems = append(elems, g.Rest.Items...)
	}
	return elems
}

// String renders the group in source form.
func (g *Group) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(g.Head.String())
	if g.Rest != nil {
		for _, item := range g.Rest.Items {
			b.WriteString(", ")
			b.WriteString(item.String())
		}
		if g.Rest.Single || g.Rest.Comma {
			b.WriteString(",")
		}
		for _, op := range g.Rest.Compare {
			b.WriteString(" ")
			b.WriteString(op.Op)
			b.WriteString(" ")
			b.WriteString(op.Right.String())
		}
		for _, c := range g.Rest.Clauses {
			b.WriteString(" ")
			b.WriteString(c.String())
		}
	}
	b.WriteString(")")
	return b.String()
}

// Clause is a for or if clause of a generator expression.
type Clause struct {
	Pos lexer.Position
	For *ForClause `  @@`
	If  *IfClause  `| @@`
}

// String renders the clause in source form.
func (c *Clause) String() string {
	if c.For != nil {
		return "for " + c.For.Target.String() + " in " + c.For.Iter.String()
	}
	var b strings.Builder
	b.WriteString("if ")
	b.WriteString(c.If.First.String())
	for _, t := range c.If.More {
		b.WriteString(" ")
		b.WriteString(t.Op)
		b.WriteString(" ")
		b.WriteString(t.Right.String())
	}
	return b.String()
}

// ForClause binds a loop target to each element of an iterable.
type ForClause struct {
	Pos    lexer.Position
	Target *Operand `"for" @@`
	Iter   *Operand `"in" @@`
}

// IfClause filters a generator by a boolean expression.
type IfClause struct {
	Pos   lexer.Position
	First *Comparison `"if" @@`
	More  []*BoolTail `@@*`
}

// BoolTail is one "and"/"or" continuation of a condition.
type BoolTail struct {
	Pos   lexer.Position
	Op    string      `@( "and" | "or" )`
	Right *Comparison `@@`
}

// Comparison is an optionally negated operand followed by comparison operators.
type Comparison struct {
	Pos     lexer.Position
	Negated bool           `@"not"?`
	Left    *Operand       `@@`
	Ops     []*CompareTail `@@*`
}

// String renders the comparison in source form.
func (c *Comparison) String() string {
	var b strings.Builder
	if c.Negated {
		b.WriteString("not ")
	}
	b.WriteString(c.Left.String())
	for _, op := range c.Ops {
		b.WriteString(" ")
		b.WriteString(op.Op)
		b.WriteString(" ")
		b.WriteString(op.Right.String())
	}
	return b.String()
}

// CompareTail is one operator and right operand of a comparison.
type CompareTail struct {
	Pos   lexer.Position
	Op    string   `@Operator`
	Right *Operand `@@`
}

// Literal is a number, string or constant literal, kept as written.
type Literal struct {
	Pos      lexer.Position
	Number   *string `  @Number`
	Str      *string `| @String`
	Constant *string `| @( "None" | "True" | "False" )`
}

// String returns the literal as written.
func (l *Literal) String() string {
	switch {
	case l.Number != nil:
		return *l.Number
	case l.Str != nil:
		return *l.Str
	case l.Constant != nil:
		return *l.Constant
	}
	return ""
}
