// Package sqlgen generates the DDL that materializes schema entries as tables.
package sqlgen

import (
	"fmt"
	"strings"

	qsqlgen "github.com/satishbabariya/frm-go/query/sqlgen"
	"github.com/satishbabariya/frm-go/schema"
)

// Generator renders CREATE TABLE statements in one dialect.
type Generator struct {
	dialect qsqlgen.Dialect
}

// NewGenerator creates a DDL generator for provider.
func NewGenerator(provider string) (*Generator, error) {
	d, err := qsqlgen.DialectFor(provider)
	if err != nil {
		return nil, err
	}
	return &Generator{dialect: d}, nil
}

// ForDialect creates a DDL generator for d.
func ForDialect(d qsqlgen.Dialect) *Generator {
	return &Generator{dialect: d}
}

// Dialect returns the generator's dialect.
func (g *Generator) Dialect() qsqlgen.Dialect {
	return g.dialect
}

// CreateTable renders the CREATE TABLE statement of entry. Primary key
// columns are NOT NULL; foreign keys reference their target by name only.
func (g *Generator) CreateTable(entry *schema.Entry) string {
	q := g.dialect.Quote

	var lines []string
	for _, col := range entry.Columns() {
		line := fmt.Sprintf("  %s %s", q(col.Name), g.dialect.ColumnType(col.Storage))
		if col.PrimaryKey {
			line += " NOT NULL"
		}
		lines = append(lines, line)
	}

	if pk := entry.PrimaryKey(); len(pk) > 0 {
		names := make([]string, len(pk))
		for i, col := range pk {
			names[i] = q(col.Name)
		}
		lines = append(lines, fmt.Sprintf("  PRIMARY KEY (%s)", strings.Join(names, ", ")))
	}

	for _, col := range entry.References() {
		lines = append(lines, fmt.Sprintf("  FOREIGN KEY (%s) REFERENCES %s (%s)",
			q(col.Name), q(col.References.Table), q(col.References.Column)))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);", q(entry.Table()), strings.Join(lines, ",\n"))
}

// DropTable renders a DROP TABLE statement for entry.
func (g *Generator) DropTable(entry *schema.Entry) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", g.dialect.Quote(entry.Table()))
}
