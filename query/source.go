package query

import (
	"fmt"

	"github.com/satishbabariya/frm-go/schema"
)

// Source is a table bound under an alias.
type Source struct {
	Entry *schema.Entry
	Alias string
}

// Table binds entry under its own table name.
func Table(entry *schema.Entry) Source {
	return Source{Entry: entry}
}

// As binds entry under alias.
func As(entry *schema.Entry, alias string) Source {
	return Source{Entry: entry, Alias: alias}
}

// Name returns the alias, or the table name when there is none.
func (s Source) Name() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Entry.Table()
}

// String renders the source as it appears in a FROM list.
func (s Source) String() string {
	if s.Alias == "" || s.Alias == s.Entry.Table() {
		return s.Entry.Table()
	}
	return s.Entry.Table() + " AS " + s.Alias
}

// Col resolves a column of the source's table.
func (s Source) Col(name string) (Column, error) {
	col, ok := s.Entry.Column(name)
	if !ok {
		return Column{}, fmt.Errorf("%s.%s: %w", s.Entry.Table(), name, schema.ErrColumnNotFound)
	}
	return Column{Source: s, Column: col}, nil
}

// MustCol is like Col but panics if the column does not exist.
func (s Source) MustCol(name string) Column {
	col, err := s.Col(name)
	if err != nil {
		panic(err)
	}
	return col
}

// Column is a table column reached through a source.
type Column struct {
	Source Source
	schema.Column
}

// String returns table.column.
func (c Column) String() string {
	return c.Source.Entry.Table() + "." + c.Name
}

// Qualified returns the column prefixed by its source name.
func (c Column) Qualified() string {
	return c.Source.Name() + "." + c.Name
}

// Eq builds the condition c = other.
func (c Column) Eq(other Column) Equal {
	return Equal{Left: c, Right: other}
}

// Equal is an equality condition between two columns.
type Equal struct {
	Left  Column
	Right Column
}

// String returns the condition as table.column = table.column.
func (e Equal) String() string {
	return e.Left.String() + " = " + e.Right.String()
}
