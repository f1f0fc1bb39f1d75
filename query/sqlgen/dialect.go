package sqlgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/frm-go/schema"
)

// ErrUnknownProvider is returned for providers without a dialect.
var ErrUnknownProvider = errors.New("unknown database provider")

// Dialect captures the SQL differences between providers.
type Dialect interface {
	// Name is the canonical provider name.
	Name() string
	// Driver is the database/sql driver name.
	Driver() string
	// Quote quotes an identifier.
	Quote(ident string) string
	// Placeholder returns the n-th (1-based) bind parameter.
	Placeholder(n int) string
	// ColumnType returns the column type for a storage type.
	ColumnType(t schema.StorageType) string
}

// Providers lists the supported provider names.
func Providers() []string {
	return []string{"sqlite", "postgres", "mysql", "duckdb"}
}

// DialectFor returns the dialect of provider.
func DialectFor(provider string) (Dialect, error) {
	switch strings.ToLower(provider) {
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	case "postgres", "postgresql":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	case "duckdb":
		return DuckDB{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

func quoteDouble(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// SQLite is the dialect of github.com/mattn/go-sqlite3.
type SQLite struct{}

func (SQLite) Name() string              { return "sqlite" }
func (SQLite) Driver() string            { return "sqlite3" }
func (SQLite) Quote(ident string) string { return quoteDouble(ident) }
func (SQLite) Placeholder(int) string    { return "?" }
func (SQLite) ColumnType(t schema.StorageType) string {
	return string(t)
}

// Postgres is the dialect of github.com/lib/pq.
type Postgres struct{}

func (Postgres) Name() string              { return "postgres" }
func (Postgres) Driver() string            { return "postgres" }
func (Postgres) Quote(ident string) string { return quoteDouble(ident) }
func (Postgres) Placeholder(n int) string  { return fmt.Sprintf("$%d", n) }
func (Postgres) ColumnType(t schema.StorageType) string {
	return string(t)
}

// MySQL is the dialect of github.com/go-sql-driver/mysql.
type MySQL struct{}

func (MySQL) Name() string   { return "mysql" }
func (MySQL) Driver() string { return "mysql" }
func (MySQL) Quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}
func (MySQL) Placeholder(int) string { return "?" }
func (MySQL) ColumnType(t schema.StorageType) string {
	switch t {
	case schema.StorageInteger:
		return "INT"
	case schema.StorageText:
		// TEXT columns cannot be primary or foreign keys without a prefix length.
		return "VARCHAR(255)"
	default:
		return string(t)
	}
}

// DuckDB is the dialect of github.com/marcboeker/go-duckdb.
type DuckDB struct{}

func (DuckDB) Name() string              { return "duckdb" }
func (DuckDB) Driver() string            { return "duckdb" }
func (DuckDB) Quote(ident string) string { return quoteDouble(ident) }
func (DuckDB) Placeholder(int) string    { return "?" }
func (DuckDB) ColumnType(t schema.StorageType) string {
	if t == schema.StorageText {
		return "VARCHAR"
	}
	return string(t)
}
