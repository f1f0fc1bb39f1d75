// Package query holds the relational query object produced by the compiler
// and the builder: a projection over one or more aliased tables filtered by
// column equalities.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrDetached is returned when a query without an executor is run.
var ErrDetached = errors.New("query is not attached to a session")

// Row is one result tuple, ordered like the projection.
type Row []any

// Executor runs queries against a store.
type Executor interface {
	Execute(ctx context.Context, q *Query) ([]Row, error)
}

// Query selects columns from aliased tables joined by equality filters.
// Query values are immutable: From, Filter and Attach return new queries.
type Query struct {
	exec    Executor
	columns []Column
	sources []Source
	filters []Equal
}

// New creates a query projecting cols. exec may be nil.
func New(exec Executor, cols ...Column) *Query {
	return &Query{
		exec:    exec,
		columns: append([]Column(nil), cols...),
	}
}

func (q *Query) clone() *Query {
	return &Query{
		exec:    q.exec,
		columns: q.columns,
		sources: append([]Source(nil), q.sources...),
		filters: append([]Equal(nil), q.filters...),
	}
}

// From adds explicit sources. Sources already present are ignored.
func (q *Query) From(srcs ...Source) *Query {
	out := q.clone()
	for _, src := range srcs {
		if !containsSource(out.sources, src) {
			out.sources = append(out.sources, src)
		}
	}
	return out
}

// Filter adds equality conditions, combined with AND.
func (q *Query) Filter(eqs ...Equal) *Query {
	out := q.clone()
	out.filters = append(out.filters, eqs...)
	return out
}

// Attach returns a copy of the query bound to exec.
func (q *Query) Attach(exec Executor) *Query {
	out := q.clone()
	out.exec = exec
	return out
}

// Columns returns the projection.
func (q *Query) Columns() []Column {
	return append([]Column(nil), q.columns...)
}

// Filters returns the equality conditions.
func (q *Query) Filters() []Equal {
	return append([]Equal(nil), q.filters...)
}

// Sources returns the explicit sources in the order they were added,
// followed by any source referenced only by a column or filter.
func (q *Query) Sources() []Source {
	out := append([]Source(nil), q.sources...)
	add := func(src Source) {
		if !containsSource(out, src) {
			out = append(out, src)
		}
	}
	for _, c := range q.columns {
		add(c.Source)
	}
	for _, eq := range q.filters {
		add(eq.Left.Source)
		add(eq.Right.Source)
	}
	return out
}

// All executes the query and returns every row.
func (q *Query) All(ctx context.Context) ([]Row, error) {
	if q.exec == nil {
		return nil, ErrDetached
	}
	return q.exec.Execute(ctx, q)
}

// String renders the query for logs and diagnostics.
func (q *Query) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	for i, c := range q.columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.Qualified())
	}
	b.WriteString(" FROM ")
	for i, src := range q.Sources() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(src.String())
	}
	for i, eq := range q.filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "%s = %s", eq.Left.Qualified(), eq.Right.Qualified())
	}
	return b.String()
}

func containsSource(srcs []Source, src Source) bool {
	for _, s := range srcs {
		if s.Name() == src.Name() {
			return true
		}
	}
	return false
}

// Detached builds queries with no executor. It satisfies the compiler's
// session interface for offline compilation.
type Detached struct{}

// Query creates a detached query.
func (Detached) Query(cols ...Column) *Query {
	return New(nil, cols...)
}
