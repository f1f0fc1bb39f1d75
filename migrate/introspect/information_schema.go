package introspect

import (
	"context"
	"database/sql"
	"fmt"

	qsqlgen "github.com/satishbabariya/frm-go/query/sqlgen"
)

// InformationSchemaIntrospector reads information_schema, which PostgreSQL,
// MySQL and DuckDB all provide.
type InformationSchemaIntrospector struct {
	db         *sql.DB
	dialect    qsqlgen.Dialect
	schemaExpr string
}

// TableNames lists the base tables of the current schema.
func (i *InformationSchemaIntrospector) TableNames(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = %s
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, i.schemaExpr)

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	return scanNames(rows)
}

// Columns lists the columns of table in ordinal order. Primary key
// membership is read from key_column_usage.
func (i *InformationSchemaIntrospector) Columns(ctx context.Context, table string) ([]Column, error) {
	query := fmt.Sprintf(`
		SELECT c.column_name, c.data_type, c.is_nullable,
		       EXISTS (
		         SELECT 1
		         FROM information_schema.table_constraints tc
		         JOIN information_schema.key_column_usage k
		           ON k.constraint_name = tc.constraint_name
		          AND k.table_schema = tc.table_schema
		          AND k.table_name = tc.table_name
		         WHERE tc.constraint_type = 'PRIMARY KEY'
		           AND tc.table_schema = c.table_schema
		           AND tc.table_name = c.table_name
		           AND k.column_name = c.column_name
		       ) AS is_pk
		FROM information_schema.columns c
		WHERE c.table_schema = %s
		  AND c.table_name = %s
		ORDER BY c.ordinal_position
	`, i.schemaExpr, i.dialect.Placeholder(1))

	rows, err := i.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			col      Column
			nullable string
		)
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.PrimaryKey); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}
	return columns, rows.Err()
}
