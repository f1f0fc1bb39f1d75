package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/frm-go/query"
	"github.com/satishbabariya/frm-go/schema"
)

func entries(t *testing.T) (students, courses *schema.Entry) {
	t.Helper()
	var err error
	students, err = schema.Derive(schema.Record{
		Name: "Student",
		Fields: []schema.Field{
			{Name: "student_id", Type: schema.Integer, PrimaryKey: true},
			{Name: "name", Type: schema.Text},
		},
	})
	require.NoError(t, err)
	courses, err = schema.Derive(schema.Record{
		Name: "Course",
		Fields: []schema.Field{
			{Name: "course_id", Type: schema.Integer, PrimaryKey: true},
			{Name: "title", Type: schema.Text},
			{Name: "student_id", Type: schema.Integer},
		},
	})
	require.NoError(t, err)
	return students, courses
}

type recordingExecutor struct {
	got *query.Query
}

func (e *recordingExecutor) Execute(_ context.Context, q *query.Query) ([]query.Row, error) {
	e.got = q
	return []query.Row{{"Alice", "Mathematics"}}, nil
}

func TestSourceCol(t *testing.T) {
	students, _ := entries(t)
	s := query.As(students, "s")

	col, err := s.Col("name")
	require.NoError(t, err)
	assert.Equal(t, "students.name", col.String())
	assert.Equal(t, "s.name", col.Qualified())
	assert.Equal(t, schema.Text, col.Type)

	_, err = s.Col("age")
	assert.True(t, errors.Is(err, schema.ErrColumnNotFound))
	assert.Panics(t, func() { s.MustCol("age") })
}

func TestSourceNaming(t *testing.T) {
	students, _ := entries(t)

	assert.Equal(t, "students", query.Table(students).Name())
	assert.Equal(t, "students", query.Table(students).String())
	assert.Equal(t, "s", query.As(students, "s").Name())
	assert.Equal(t, "students AS s", query.As(students, "s").String())
}

func TestQueryChainingDoesNotMutate(t *testing.T) {
	students, courses := entries(t)
	s, c := query.As(students, "s"), query.As(courses, "c")

	base := query.New(nil, s.MustCol("name"), c.MustCol("title"))
	joined := base.From(s, c).Filter(s.MustCol("student_id").Eq(c.MustCol("student_id")))

	assert.Empty(t, base.Filters())
	require.Len(t, joined.Filters(), 1)
	assert.Equal(t, "students.student_id = courses.student_id", joined.Filters()[0].String())
	assert.Len(t, joined.Columns(), 2)
}

func TestQuerySources(t *testing.T) {
	students, courses := entries(t)
	s, c := query.As(students, "s"), query.As(courses, "c")

	// Explicit sources come first, in the order given.
	q := query.New(nil, s.MustCol("name")).From(c, c)
	srcs := q.Sources()
	require.Len(t, srcs, 2)
	assert.Equal(t, "c", srcs[0].Name())
	assert.Equal(t, "s", srcs[1].Name())

	// Sources implied by filters are included.
	q = query.New(nil, s.MustCol("name")).Filter(s.MustCol("student_id").Eq(c.MustCol("student_id")))
	srcs = q.Sources()
	require.Len(t, srcs, 2)
	assert.Equal(t, "s", srcs[0].Name())
	assert.Equal(t, "c", srcs[1].Name())
}

func TestQueryString(t *testing.T) {
	students, courses := entries(t)
	s, c := query.As(students, "s"), query.As(courses, "c")

	q := query.New(nil, s.MustCol("name"), c.MustCol("title")).
		From(s, c).
		Filter(s.MustCol("student_id").Eq(c.MustCol("student_id")))

	assert.Equal(t,
		"SELECT s.name, c.title FROM students AS s, courses AS c WHERE s.student_id = c.student_id",
		q.String())
}

func TestQueryAll(t *testing.T) {
	students, _ := entries(t)
	s := query.Table(students)

	_, err := query.Detached{}.Query(s.MustCol("name")).All(context.Background())
	assert.ErrorIs(t, err, query.ErrDetached)

	exec := &recordingExecutor{}
	q := query.Detached{}.Query(s.MustCol("name")).Attach(exec)
	rows, err := q.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []query.Row{{"Alice", "Mathematics"}}, rows)
	assert.Same(t, q, exec.got)
}
