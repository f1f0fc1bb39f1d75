package compiler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/frm-go/query"
	"github.com/satishbabariya/frm-go/query/cache"
	"github.com/satishbabariya/frm-go/query/compiler"
	"github.com/satishbabariya/frm-go/schema"
)

func newRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()
	records := []schema.Record{
		{Name: "Student", Fields: []schema.Field{
			{Name: "student_id", Type: schema.Integer, PrimaryKey: true},
			{Name: "name", Type: schema.Text},
		}},
		{Name: "Course", Fields: []schema.Field{
			{Name: "course_id", Type: schema.Integer, PrimaryKey: true},
			{Name: "title", Type: schema.Text},
			{Name: "student_id", Type: schema.Integer, ForeignKey: &schema.ForeignKey{Table: "students", Column: "student_id"}},
			{Name: "teacher_id", Type: schema.Integer, ForeignKey: &schema.ForeignKey{Table: "teachers", Column: "teacher_id"}},
		}},
		{Name: "Teacher", Fields: []schema.Field{
			{Name: "teacher_id", Type: schema.Integer, PrimaryKey: true},
			{Name: "name", Type: schema.Text},
		}},
	}
	for _, rec := range records {
		_, err := reg.Register(rec)
		require.NoError(t, err)
	}
	return reg
}

func columnNames(q *query.Query) []string {
	var names []string
	for _, c := range q.Columns() {
		names = append(names, c.String())
	}
	return names
}

func filterNames(q *query.Query) []string {
	var names []string
	for _, f := range q.Filters() {
		names = append(names, f.String())
	}
	return names
}

func sourceNames(q *query.Query) []string {
	var names []string
	for _, s := range q.Sources() {
		names = append(names, s.String())
	}
	return names
}

const studentCourses = `
def get_student_courses():
    return ((s.name, c.title)
            for s in students
            for c in courses
            if s.student_id == c.student_id)
`

func TestCompile_StudentCourses(t *testing.T) {
	c := compiler.New(newRegistry(t))

	q, err := c.Compile(studentCourses, query.Detached{})
	require.NoError(t, err)

	assert.Equal(t, []string{"students.name", "courses.title"}, columnNames(q))
	assert.Equal(t, []string{"students.student_id = courses.student_id"}, filterNames(q))
	assert.Equal(t, []string{"students AS s", "courses AS c"}, sourceNames(q))
}

func TestCompile_NilSessionIsDetached(t *testing.T) {
	c := compiler.New(newRegistry(t))
	q, err := c.Compile(studentCourses, nil)
	require.NoError(t, err)

	_, err = q.All(context.Background())
	assert.ErrorIs(t, err, query.ErrDetached)
}

func TestCompile_SingleProjection(t *testing.T) {
	c := compiler.New(newRegistry(t))

	for _, src := range []string{
		"(s.name for s in students)",
		"((s.name) for s in students)",
		"((s.name,) for s in students)",
		"def names():\n    return (s.name for s in students)",
		"def names(session: Session) -> Query:\n    return (s.name for s in students)",
	} {
		q, err := c.Compile(src, nil)
		require.NoError(t, err, src)
		assert.Equal(t, []string{"students.name"}, columnNames(q), src)
		assert.Empty(t, q.Filters(), src)
	}
}

func TestCompile_SingletonTupleIsTuple(t *testing.T) {
	d, err := compiler.Extract("", "((s.name,) for s in students)")
	require.NoError(t, err)
	assert.True(t, d.Tuple)
	require.Len(t, d.Projection, 1)
	assert.Equal(t, "s.name", d.Projection[0].String())
}

func TestCompile_ParenthesizedCondition(t *testing.T) {
	c := compiler.New(newRegistry(t))

	for _, src := range []string{
		"((s.name, c.title) for s in students for c in courses if (s.student_id == c.student_id))",
		"((s.name, c.title) for s in students for c in courses if ((s.student_id == c.student_id)))",
		"((s.name, c.title) for s in students for c in courses if (s.student_id) == (c.student_id))",
		"((s.name, c.title,) for s in students for c in courses if (s.student_id == c.student_id))",
	} {
		q, err := c.Compile(src, nil)
		require.NoError(t, err, src)
		assert.Equal(t, []string{"students.name", "courses.title"}, columnNames(q), src)
		assert.Equal(t, []string{"students.student_id = courses.student_id"}, filterNames(q), src)
	}
}

func TestCompile_DocstringIgnored(t *testing.T) {
	c := compiler.New(newRegistry(t))
	q, err := c.Compile(`
def names():
    """All student names."""
    return (s.name for s in students)
`, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"students.name"}, columnNames(q))
}

func TestCompile_RecordNameResolves(t *testing.T) {
	c := compiler.New(newRegistry(t))
	q, err := c.Compile("(s.name for s in Student)", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"students.name"}, columnNames(q))
}

func TestCompile_MultiHopJoin(t *testing.T) {
	c := compiler.New(newRegistry(t))
	q, err := c.Compile(`
def roster():
    return ((s.name, c.title, t.name)
            for s in students
            for c in courses
            for t in teachers
            if s.student_id == c.student_id
            if c.teacher_id == t.teacher_id)
`, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"students.name", "courses.title", "teachers.name"}, columnNames(q))
	assert.Equal(t, []string{
		"students.student_id = courses.student_id",
		"courses.teacher_id = teachers.teacher_id",
	}, filterNames(q))
	assert.Equal(t, []string{"students AS s", "courses AS c", "teachers AS t"}, sourceNames(q))
}

func TestCompile_SelfJoin(t *testing.T) {
	c := compiler.New(newRegistry(t))
	q, err := c.Compile("((a.name, b.name) for a in students for b in students if a.student_id == b.student_id)", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"students AS a", "students AS b"}, sourceNames(q))
	cols := q.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "a.name", cols[0].Qualified())
	assert.Equal(t, "b.name", cols[1].Qualified())
}

func TestCompile_ConditionBeforeBinding(t *testing.T) {
	c := compiler.New(newRegistry(t))
	q, err := c.Compile("(s.name for s in students if s.student_id == c.student_id for c in courses)", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"students.student_id = courses.student_id"}, filterNames(q))
}

func TestCompile_UnregisteredCollection(t *testing.T) {
	c := compiler.New(newRegistry(t))
	_, err := c.Compile("(x.name for x in teachers_archive)", nil)

	var notFound *schema.NotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Equal(t, "teachers_archive", notFound.Name)

	var compileErr *compiler.CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, 1, compileErr.Pos.Line)
	assert.Equal(t, 18, compileErr.Pos.Column)
	assert.Contains(t, compileErr.Error(), `collection "teachers_archive" is not registered`)
}

func TestCompile_UnknownAttribute(t *testing.T) {
	c := compiler.New(newRegistry(t))
	_, err := c.Compile("(s.age for s in students)", nil)

	var compileErr *compiler.CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.ErrorIs(t, err, schema.ErrColumnNotFound)
	assert.Contains(t, err.Error(), `no attribute "age"`)
}

func TestCompile_Rejections(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"inequality", "(s.name for s in students for c in courses if s.student_id != c.student_id)", "only == conditions"},
		{"less than", "(s.name for s in students for c in courses if s.student_id < c.student_id)", "only == conditions"},
		{"literal right", "(s.name for s in students if s.name == 'Bob')", "literal values are not supported"},
		{"literal left", "(s.name for s in students if 3 == s.student_id)", "literal values are not supported"},
		{"none right", "(s.name for s in students if s.name == None)", "literal values are not supported in a condition: None"},
		{"true left", "(s.name for s in students if True == s.name)", "literal values are not supported in a condition: True"},
		{"false in parens", "(s.name for s in students if (s.name == False))", "literal values are not supported in a condition: False"},
		{"not parenthesized", "(s.name for s in students for c in courses if not (s.student_id == c.student_id))", "negated"},
		{"parenthesized inequality", "(s.name for s in students for c in courses if (s.student_id != c.student_id))", "only == conditions"},
		{"comparison projection", "((s.name == s.name) for s in students)", "projection must be variable.attribute"},
		{"and", "(s.name for s in students for c in courses if s.student_id == c.student_id and s.name == c.title)", `"and" is not supported`},
		{"or", "(s.name for s in students for c in courses if s.student_id == c.student_id or s.name == c.title)", `"or" is not supported`},
		{"not", "(s.name for s in students for c in courses if not s.student_id == c.student_id)", "negated"},
		{"chained", "(s.name for s in students for c in courses if s.student_id == c.student_id == s.student_id)", "chained"},
		{"bare condition", "(s.name for s in students if s.name)", "must compare two attributes"},
		{"unbound projection", "(x.name for s in students)", `variable "x" is not bound`},
		{"unbound condition", "(s.name for s in students if s.student_id == c.student_id)", `variable "c" is not bound`},
		{"duplicate variable", "(s.name for s in students for s in courses)", "bound by more than one"},
		{"destructured target", "(a.name for (a, b) in students)", "single variable"},
		{"attribute target", "(a.name for a.b in students)", "single variable"},
		{"call iterable", "(s.name for s in db.students())", "not a call"},
		{"attribute iterable", "(s.name for s in db.students)", "not an attribute"},
		{"literal iterable", "(s.name for s in 'students')", "must be a collection name"},
		{"nested generator", "((c.title for c in courses) for s in students)", "nested generator"},
		{"nested iterable", "(s.name for s in (x for x in students))", "nested generator"},
		{"whole record", "(s for s in students)", "bare variable"},
		{"deep attribute", "(s.name.first for s in students)", "must be variable.attribute"},
		{"call projection", "(s.name() for s in students)", "calls are not supported"},
		{"literal projection", "(1 for s in students)", "literal values are not supported"},
		{"if first", "(s.name if s.a == s.b for s in students)", ""},
		{"not a generator", "(s.name, s.title)", "expected a generator expression"},
		{"no return", "def f():\n    x = 1", "single return statement"},
		{"empty return", "def f():\n    return", "returns nothing"},
		{"two statements", "def f():\n    x = 1\n    return (s.name for s in students)", "single return statement"},
		{"syntax", "(s.name for s in)", ""},
	}

	c := compiler.New(newRegistry(t), compiler.WithFilename("query.py"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Compile(tt.src, nil)
			require.Error(t, err)

			var compileErr *compiler.CompileError
			require.True(t, errors.As(err, &compileErr), "got %T: %v", err, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, "query.py", compileErr.Position().Filename)
		})
	}
}

func TestCompileFunc(t *testing.T) {
	src := `
def names():
    return (s.name for s in students)

def titles():
    return (c.title for c in courses)
`
	c := compiler.New(newRegistry(t))

	q, err := c.CompileFunc(src, "titles", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"courses.title"}, columnNames(q))

	_, err = c.CompileFunc(src, "missing", nil)
	assert.ErrorIs(t, err, compiler.ErrNoFunction)

	_, err = c.Compile(src, nil)
	assert.ErrorIs(t, err, compiler.ErrAmbiguousSource)

	_, err = c.CompileFunc("(s.name for s in students)", "names", nil)
	assert.ErrorIs(t, err, compiler.ErrNoFunction)
}

func TestExtract(t *testing.T) {
	d, err := compiler.Extract("q.py", studentCourses)
	require.NoError(t, err)

	assert.Equal(t, "get_student_courses", d.Func)
	assert.True(t, d.Tuple)
	require.Len(t, d.Generators, 2)
	assert.Equal(t, "s", d.Generators[0].Var)
	assert.Equal(t, "students", d.Generators[0].Collection)
	assert.Equal(t, "c", d.Generators[1].Var)
	assert.Equal(t, "courses", d.Generators[1].Collection)
	assert.Equal(t, []string{"s.name", "c.title"}, []string{d.Projection[0].String(), d.Projection[1].String()})
	require.Len(t, d.Conditions, 1)
	assert.Equal(t, "s.student_id == c.student_id", d.Conditions[0].String())
	assert.Equal(t, 6, d.Conditions[0].Pos.Line)

	assert.Equal(t, "select=[s.name, c.title] from=[s<-students, c<-courses] where=[s.student_id == c.student_id]", d.String())
}

func TestCompileWithCache(t *testing.T) {
	descriptors := cache.NewLRU[*compiler.Descriptor](4)
	c := compiler.New(newRegistry(t), compiler.WithCache(descriptors))

	first, err := c.Compile(studentCourses, nil)
	require.NoError(t, err)
	second, err := c.Compile(studentCourses, nil)
	require.NoError(t, err)
	assert.Equal(t, first.String(), second.String())

	_, err = c.Compile("(s.name for s in students if s.id != 1)", nil)
	require.Error(t, err)

	stats := descriptors.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}
