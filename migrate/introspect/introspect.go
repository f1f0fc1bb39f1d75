// Package introspect reads table metadata back from a database.
package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	qsqlgen "github.com/satishbabariya/frm-go/query/sqlgen"
)

// ErrUnsupportedProvider is returned for dialects without an introspector.
var ErrUnsupportedProvider = errors.New("unsupported database provider")

// Introspector lists tables and their columns.
type Introspector interface {
	TableNames(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]Column, error)
}

// Column is a column as reported by the database.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

// NewIntrospector creates an introspector for db in dialect d.
func NewIntrospector(db *sql.DB, d qsqlgen.Dialect) (Introspector, error) {
	switch d.Name() {
	case "sqlite":
		return &SQLiteIntrospector{db: db}, nil
	case "postgres":
		return &InformationSchemaIntrospector{db: db, dialect: d, schemaExpr: "current_schema()"}, nil
	case "mysql":
		return &InformationSchemaIntrospector{db: db, dialect: d, schemaExpr: "DATABASE()"}, nil
	case "duckdb":
		return &InformationSchemaIntrospector{db: db, dialect: d, schemaExpr: "current_schema()"}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, d.Name())
	}
}

// TableNames lists the user tables of db sorted by name.
func TableNames(ctx context.Context, db *sql.DB, d qsqlgen.Dialect) ([]string, error) {
	i, err := NewIntrospector(db, d)
	if err != nil {
		return nil, err
	}
	return i.TableNames(ctx)
}

func scanNames(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
