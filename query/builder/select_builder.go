// Package builder composes queries explicitly from columns, sources and
// join conditions, as an alternative to compiling comprehension text.
package builder

import (
	"errors"

	"github.com/satishbabariya/frm-go/query"
)

// ErrEmptyProjection is returned when a query selects no columns.
var ErrEmptyProjection = errors.New("query selects no columns")

// Session creates queries for a projection.
type Session interface {
	Query(cols ...query.Column) *query.Query
}

// SelectBuilder accumulates a projection, its sources and join conditions.
type SelectBuilder struct {
	columns []query.Column
	sources []query.Source
	joins   []query.Equal
}

// Select starts a query projecting cols.
func Select(cols ...query.Column) *SelectBuilder {
	return &SelectBuilder{columns: append([]query.Column(nil), cols...)}
}

// Column adds columns to the projection.
func (b *SelectBuilder) Column(cols ...query.Column) *SelectBuilder {
	b.columns = append(b.columns, cols...)
	return b
}

// From lists sources in join order. Sources referenced only by columns are
// added after these.
func (b *SelectBuilder) From(srcs ...query.Source) *SelectBuilder {
	b.sources = append(b.sources, srcs...)
	return b
}

// JoinOn adds equality conditions between columns.
func (b *SelectBuilder) JoinOn(eqs ...query.Equal) *SelectBuilder {
	b.joins = append(b.joins, eqs...)
	return b
}

// HasColumns reports whether any column is selected.
func (b *SelectBuilder) HasColumns() bool {
	return len(b.columns) > 0
}

// Build creates the query through sess. A nil sess yields a detached query.
func (b *SelectBuilder) Build(sess Session) (*query.Query, error) {
	if !b.HasColumns() {
		return nil, ErrEmptyProjection
	}
	if sess == nil {
		sess = query.Detached{}
	}

	q := sess.Query(b.columns...)
	if len(b.sources) > 0 {
		q = q.From(b.sources...)
	}
	if len(b.joins) > 0 {
		q = q.Filter(b.joins...)
	}
	return q, nil
}
