package compiler

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/frm-go/query/ast"
)

// AttrRef is a var.attr access.
type AttrRef struct {
	Pos  lexer.Position
	Var  string
	Attr string
}

func (a AttrRef) String() string {
	return a.Var + "." + a.Attr
}

// Generator binds Var to the rows of Collection.
type Generator struct {
	Pos           lexer.Position
	Var           string
	Collection    string
	CollectionPos lexer.Position
}

// Condition is Left == Right.
type Condition struct {
	Pos   lexer.Position
	Left  AttrRef
	Right AttrRef
}

func (c Condition) String() string {
	return c.Left.String() + " == " + c.Right.String()
}

// Descriptor is the syntactic content of a comprehension: what it iterates,
// what it projects and how it filters. Names are not yet resolved.
type Descriptor struct {
	Func       string // empty for a bare expression
	Generators []Generator
	Projection []AttrRef
	Tuple      bool // projection was written as a tuple
	Conditions []Condition
}

// Generator returns the generator binding v.
func (d *Descriptor) Generator(v string) (Generator, bool) {
	for _, g := range d.Generators {
		if g.Var == v {
			return g, true
		}
	}
	return Generator{}, false
}

func (d *Descriptor) String() string {
	var parts []string
	for _, g := range d.Generators {
		parts = append(parts, fmt.Sprintf("%s<-%s", g.Var, g.Collection))
	}
	proj := make([]string, len(d.Projection))
	for i, p := range d.Projection {
		proj[i] = p.String()
	}
	conds := make([]string, len(d.Conditions))
	for i, c := range d.Conditions {
		conds[i] = c.String()
	}
	return fmt.Sprintf("select=[%s] from=[%s] where=[%s]",
		strings.Join(proj, ", "), strings.Join(parts, ", "), strings.Join(conds, " AND "))
}

// Extract parses src and returns the descriptor of its single function or
// bare generator expression.
func Extract(filename, src string) (*Descriptor, error) {
	return ExtractFunc(filename, src, "")
}

// ExtractFunc is like Extract but selects the function called name.
// An empty name accepts a source with exactly one function.
func ExtractFunc(filename, src, name string) (*Descriptor, error) {
	tree, err := ast.ParseString(filename, src)
	if err != nil {
		return nil, parseError(err)
	}

	if tree.Expr != nil {
		if name != "" {
			return nil, &CompileError{Pos: tree.Pos, Msg: fmt.Sprintf("function %q not found: source is a bare expression", name), Err: ErrNoFunction}
		}
		return describeExpr(tree.Expr)
	}

	var fn *ast.FunctionDef
	switch {
	case name != "":
		fn = tree.Func(name)
		if fn == nil {
			return nil, &CompileError{Pos: tree.Pos, Msg: fmt.Sprintf("function %q not found; defined: %s", name, strings.Join(tree.FuncNames(), ", ")), Err: ErrNoFunction}
		}
	case len(tree.Funcs) == 1:
		fn = tree.Funcs[0]
	default:
		return nil, &CompileError{Pos: tree.Pos, Msg: fmt.Sprintf("source defines %d functions (%s); select one by name", len(tree.Funcs), strings.Join(tree.FuncNames(), ", ")), Err: ErrAmbiguousSource}
	}

	d, err := describeFunc(fn)
	if err != nil {
		return nil, err
	}
	d.Func = fn.Name
	return d, nil
}

func describeFunc(fn *ast.FunctionDef) (*Descriptor, error) {
	body := fn.Body
	for len(body) > 0 && body[0].IsDocstring() {
		body = body[1:]
	}
	if len(body) == 0 {
		return nil, errorf(fn.Pos, "function %s has no return statement", fn.Name)
	}
	if len(body) > 1 {
		return nil, errorf(body[1].Pos, "function %s must consist of a single return statement", fn.Name)
	}
	ret := body[0].Return
	if ret == nil {
		return nil, errorf(body[0].Pos, "function %s must consist of a single return statement", fn.Name)
	}
	if ret.Value == nil {
		return nil, errorf(ret.Pos, "function %s returns nothing; return a generator expression", fn.Name)
	}
	return describeExpr(ret.Value)
}

func describeExpr(op *ast.Operand) (*Descriptor, error) {
	if op.Group == nil || !op.Group.IsGenerator() {
		return nil, errorf(op.Pos, "expected a generator expression, got %s", op)
	}
	gen := op.Group

	d := &Descriptor{}
	clauses := gen.Rest.Clauses
	if clauses[0].For == nil {
		return nil, errorf(clauses[0].Pos, "generator must start with a for clause")
	}

	for _, clause := range clauses {
		if clause.For != nil {
			g, err := describeFor(clause.For)
			if err != nil {
				return nil, err
			}
			if _, dup := d.Generator(g.Var); dup {
				return nil, errorf(clause.Pos, "variable %q is bound by more than one for clause", g.Var)
			}
			d.Generators = append(d.Generators, g)
			continue
		}
		cond, err := describeIf(clause.If)
		if err != nil {
			return nil, err
		}
		d.Conditions = append(d.Conditions, cond)
	}

	if err := describeProjection(d, gen.Head); err != nil {
		return nil, err
	}

	// Bindings are order independent: a condition may refer to a variable
	// bound by a later for clause.
	for _, ref := range d.refs() {
		if _, ok := d.Generator(ref.Var); !ok {
			return nil, errorf(ref.Pos, "variable %q is not bound by any for clause", ref.Var)
		}
	}
	return d, nil
}

func (d *Descriptor) refs() []AttrRef {
	refs := append([]AttrRef(nil), d.Projection...)
	for _, c := range d.Conditions {
		refs = append(refs, c.Left, c.Right)
	}
	return refs
}

func describeFor(fc *ast.ForClause) (Generator, error) {
	target := fc.Target
	if target.Ref == nil || !target.Ref.IsName() {
		return Generator{}, errorf(target.Pos, "loop target must be a single variable, got %s", target)
	}

	iter := fc.Iter
	switch {
	case iter.Ref == nil:
		if iter.Group != nil && iter.Group.IsGenerator() {
			return Generator{}, errorf(iter.Pos, "nested generator expressions are not supported")
		}
		return Generator{}, errorf(iter.Pos, "iterable must be a collection name, got %s", iter)
	case iter.Ref.Call != nil:
		return Generator{}, errorf(iter.Pos, "iterable must be a collection name, not a call: %s", iter)
	case len(iter.Ref.Attrs) > 0:
		return Generator{}, errorf(iter.Pos, "iterable must be a collection name, not an attribute: %s", iter)
	}

	return Generator{Pos: fc.Pos, Var: target.Ref.Name, Collection: iter.Ref.Name, CollectionPos: iter.Pos}, nil
}

func describeIf(ic *ast.IfClause) (Condition, error) {
	if len(ic.More) > 0 {
		return Condition{}, errorf(ic.More[0].Pos, "%q is not supported; write one if clause per condition", ic.More[0].Op)
	}
	cmp := unwrapComparison(ic.First)
	if cmp.Negated {
		return Condition{}, errorf(cmp.Pos, "negated conditions are not supported")
	}
	switch len(cmp.Ops) {
	case 0:
		return Condition{}, errorf(cmp.Pos, "condition must compare two attributes with ==, got %s", cmp)
	case 1:
	default:
		return Condition{}, errorf(cmp.Ops[1].Pos, "chained comparisons are not supported")
	}
	if op := cmp.Ops[0].Op; op != "==" {
		return Condition{}, errorf(cmp.Ops[0].Pos, "only == conditions are supported, got %s", op)
	}

	left, err := attrRef(cmp.Left, "condition")
	if err != nil {
		return Condition{}, err
	}
	right, err := attrRef(cmp.Ops[0].Right, "condition")
	if err != nil {
		return Condition{}, err
	}
	return Condition{Pos: cmp.Pos, Left: left, Right: right}, nil
}

// unwrapComparison strips parentheses around a condition, so (a == b) and
// ((a == b)) read the same as a == b.
func unwrapComparison(cmp *ast.Comparison) *ast.Comparison {
	for len(cmp.Ops) == 0 && cmp.Left.Group != nil {
		g := cmp.Left.Group
		switch {
		case g.IsParen():
			cmp = &ast.Comparison{Pos: cmp.Pos, Negated: cmp.Negated, Left: g.Head}
		case g.IsComparison():
			cmp = &ast.Comparison{Pos: cmp.Pos, Negated: cmp.Negated, Left: g.Head, Ops: g.Rest.Compare}
		default:
			return cmp
		}
	}
	return cmp
}

func describeProjection(d *Descriptor, head *ast.Operand) error {
	// Unwrap redundant parentheses around a single element.
	for head.Group != nil && head.Group.IsParen() {
		head = head.Group.Head
	}

	if head.Group != nil && head.Group.IsTuple() {
		d.Tuple = true
		for _, elem := range head.Group.Elements() {
			ref, err := attrRef(elem, "projection")
			if err != nil {
				return err
			}
			d.Projection = append(d.Projection, ref)
		}
		return nil
	}

	ref, err := attrRef(head, "projection")
	if err != nil {
		return err
	}
	d.Projection = []AttrRef{ref}
	return nil
}

func attrRef(op *ast.Operand, role string) (AttrRef, error) {
	for op.Group != nil && op.Group.IsParen() {
		op = op.Group.Head
	}
	switch {
	case op.Literal != nil:
		return AttrRef{}, errorf(op.Pos, "literal values are not supported in a %s: %s", role, op)
	case op.Group != nil && op.Group.IsGenerator():
		return AttrRef{}, errorf(op.Pos, "nested generator expressions are not supported")
	case op.Group != nil:
		return AttrRef{}, errorf(op.Pos, "%s must be variable.attribute, got %s", role, op)
	}

	ref := op.Ref
	switch {
	case ref.Call != nil:
		return AttrRef{}, errorf(op.Pos, "calls are not supported in a %s: %s", role, op)
	case len(ref.Attrs) == 0:
		return AttrRef{}, errorf(op.Pos, "%s must be variable.attribute, got bare variable %s", role, ref.Name)
	case len(ref.Attrs) > 1:
		return AttrRef{}, errorf(op.Pos, "%s must be variable.attribute, got %s", role, op)
	}
	return AttrRef{Pos: op.Pos, Var: ref.Name, Attr: ref.Attrs[0]}, nil
}
