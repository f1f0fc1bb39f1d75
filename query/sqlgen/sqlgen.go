// Package sqlgen generates SQL for the supported database providers.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/frm-go/query"
)

// Query is a SQL statement with its bind arguments.
type Query struct {
	SQL  string
	Args []any
}

// Generator generates SQL in one dialect.
type Generator struct {
	dialect Dialect
}

// NewGenerator creates a generator for provider.
func NewGenerator(provider string) (*Generator, error) {
	d, err := DialectFor(provider)
	if err != nil {
		return nil, err
	}
	return &Generator{dialect: d}, nil
}

// ForDialect creates a generator for d.
func ForDialect(d Dialect) *Generator {
	return &Generator{dialect: d}
}

// Dialect returns the generator's dialect.
func (g *Generator) Dialect() Dialect {
	return g.dialect
}

// GenerateSelect renders q as a SELECT over the cross product of its sources,
// filtered by its equality conditions. Rows are ordered by the primary key
// columns of each source in source order, so results follow the join order.
func (g *Generator) GenerateSelect(q *query.Query) *Query {
	var parts []string

	cols := q.Columns()
	selected := make([]string, len(cols))
	for i, c := range cols {
		selected[i] = g.column(c)
	}
	parts = append(parts, "SELECT "+strings.Join(selected, ", "))

	sources := q.Sources()
	from := make([]string, len(sources))
	for i, src := range sources {
		from[i] = g.source(src)
	}
	parts = append(parts, "FROM "+strings.Join(from, ", "))

	if filters := q.Filters(); len(filters) > 0 {
		conds := make([]string, len(filters))
		for i, eq := range filters {
			conds[i] = fmt.Sprintf("%s = %s", g.column(eq.Left), g.column(eq.Right))
		}
		parts = append(parts, "WHERE "+strings.Join(conds, " AND "))
	}

	var order []string
	for _, src := range sources {
		for _, pk := range src.Entry.PrimaryKey() {
			order = append(order, g.dialect.Quote(src.Name())+"."+g.dialect.Quote(pk.Name))
		}
	}
	if len(order) > 0 {
		parts = append(parts, "ORDER BY "+strings.Join(order, ", "))
	}

	return &Query{SQL: strings.Join(parts, " ")}
}

// GenerateInsert renders a single-row INSERT.
func (g *Generator) GenerateInsert(table string, columns []string, values []any) *Query {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = g.dialect.Quote(col)
	}
	placeholders := make([]string, len(values))
	for i := range values {
		placeholders[i] = g.dialect.Placeholder(i + 1)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		g.dialect.Quote(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	return &Query{SQL: sql, Args: append([]any(nil), values...)}
}

func (g *Generator) column(c query.Column) string {
	return g.dialect.Quote(c.Source.Name()) + "." + g.dialect.Quote(c.Name)
}

func (g *Generator) source(src query.Source) string {
	table := g.dialect.Quote(src.Entry.Table())
	if src.Alias == "" || src.Alias == src.Entry.Table() {
		return table
	}
	return table + " AS " + g.dialect.Quote(src.Alias)
}
