package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/frm-go/query/ast"
)

const enrolled = `
def get_student_courses():
    """Students with the courses they take."""
    return ((s.name, c.title)
            for s in students   # every student
            for c in courses
            if s.student_id == c.student_id)
`

func TestParseFunction(t *testing.T) {
	src, err := ast.ParseString("enrolled.py", enrolled)
	require.NoError(t, err)

	require.Len(t, src.Funcs, 1)
	fn := src.Func("get_student_courses")
	require.NotNil(t, fn)
	assert.Empty(t, fn.Params)
	require.Len(t, fn.Body, 2)
	assert.True(t, fn.Body[0].IsDocstring())

	ret := fn.Body[1].Return
	require.NotNil(t, ret)
	gen := ret.Value.Group
	require.NotNil(t, gen)
	assert.True(t, gen.IsGenerator())

	head := gen.Head.Group
	require.NotNil(t, head)
	assert.True(t, head.IsTuple())
	require.Len(t, head.Elements(), 2)
	assert.Equal(t, "s.name", head.Elements()[0].String())

	require.Len(t, gen.Rest.Clauses, 3)
	assert.Equal(t, "for s in students", gen.Rest.Clauses[0].String())
	assert.Equal(t, "for c in courses", gen.Rest.Clauses[1].String())
	assert.Equal(t, "if s.student_id == c.student_id", gen.Rest.Clauses[2].String())
	assert.Equal(t, 7, gen.Rest.Clauses[2].Pos.Line)
}

func TestParseBareExpression(t *testing.T) {
	src, err := ast.ParseString("", "(s.name for s in students)")
	require.NoError(t, err)

	require.Empty(t, src.Funcs)
	require.NotNil(t, src.Expr)
	assert.Equal(t, "(s.name for s in students)", src.Expr.String())
}

func TestParseSeveralFunctions(t *testing.T) {
	src, err := ast.ParseString("q.py", `
def names(): return (s.name for s in students)
def titles(limit):
    x = 1
    return (c.title for c in courses)
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"names", "titles"}, src.FuncNames())
	assert.Equal(t, []string{"limit"}, src.Func("titles").ParamNames())
	assert.NotNil(t, src.Func("titles").Body[0].Assign)
	assert.Nil(t, src.Func("missing"))
}

func TestParseAnnotatedFunction(t *testing.T) {
	src, err := ast.ParseString("q.py", `
def names(session: Session, limit: int = 10) -> Query:
    return (s.name for s in students)
`)
	require.Error(t, err, "default values are not part of the grammar")

	src, err = ast.ParseString("q.py", `
def names(session: db.Session, limit,) -> Query:
    return (s.name for s in students)
`)
	require.NoError(t, err)
	fn := src.Func("names")
	require.NotNil(t, fn)
	assert.Equal(t, []string{"session", "limit"}, fn.ParamNames())
	require.NotNil(t, fn.Params[0].Annotation)
	assert.Equal(t, "db.Session", fn.Params[0].Annotation.String())
	assert.Nil(t, fn.Params[1].Annotation)
	require.NotNil(t, fn.Returns)
	assert.Equal(t, "Query", fn.Returns.String())
}

func TestParseGroupForms(t *testing.T) {
	tests := []struct {
		src   string
		check func(t *testing.T, g *ast.Group)
	}{
		{"(s.name,)", func(t *testing.T, g *ast.Group) {
			assert.True(t, g.IsTuple())
			assert.Len(t, g.Elements(), 1)
		}},
		{"(s.name, c.title,)", func(t *testing.T, g *ast.Group) {
			assert.True(t, g.IsTuple())
			assert.Len(t, g.Elements(), 2)
		}},
		{"(s.a == c.a)", func(t *testing.T, g *ast.Group) {
			assert.True(t, g.IsComparison())
			assert.False(t, g.IsTuple())
			assert.Equal(t, "(s.a == c.a)", g.String())
		}},
		{"(s.a)", func(t *testing.T, g *ast.Group) {
			assert.True(t, g.IsParen())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			src, err := ast.ParseString("", tt.src)
			require.NoError(t, err)
			require.NotNil(t, src.Expr)
			require.NotNil(t, src.Expr.Group)
			tt.check(t, src.Expr.Group)
		})
	}
}

func TestParseConstants(t *testing.T) {
	src, err := ast.ParseString("", "(s.name for s in students if s.name == None)")
	require.NoError(t, err)
	cond := src.Expr.Group.Rest.Clauses[1].If.First
	require.Len(t, cond.Ops, 1)
	lit := cond.Ops[0].Right.Literal
	require.NotNil(t, lit)
	require.NotNil(t, lit.Constant)
	assert.Equal(t, "None", lit.String())
}

func TestParseUnsupportedFormsStillParse(t *testing.T) {
	// These are rejected by the compiler, not the parser.
	for _, src := range []string{
		"(s.name for s in students if s.age > 21)",
		"(s.name for s in students if s.name == 'Bob')",
		"(s.name for s in students if not s.a == s.b)",
		"(s.name for s in students if s.a == s.b and s.c == s.d)",
		"(s.name for s in students if s.a == s.b == s.c)",
		"(s.name for s in db.students())",
		"(x for (a, b) in pairs)",
		"((c for c in courses) for s in students)",
	} {
		_, err := ast.ParseString("", src)
		assert.NoError(t, err, src)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"def f(:",
		"(s.name for s in)",
		"[s.name for s in students]",
		"(s.name for s in students",
	} {
		_, err := ast.ParseString("", src)
		assert.Error(t, err, src)
	}
}

func TestGrammar(t *testing.T) {
	assert.Contains(t, ast.Grammar(), "Source")
}
