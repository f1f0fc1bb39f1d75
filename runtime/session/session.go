// Package session connects compiled queries to a database.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	_ "github.com/go-sql-driver/mysql"  // MySQL driver
	_ "github.com/lib/pq"               // PostgreSQL driver
	_ "github.com/marcboeker/go-duckdb" // DuckDB driver
	_ "github.com/mattn/go-sqlite3"     // SQLite driver

	"github.com/satishbabariya/frm-go/internal/debug"
	"github.com/satishbabariya/frm-go/migrate"
	"github.com/satishbabariya/frm-go/query"
	"github.com/satishbabariya/frm-go/query/sqlgen"
	"github.com/satishbabariya/frm-go/schema"
)

// Session creates queries bound to a database and executes them.
// A Session is safe for concurrent use once configured; register
// middleware before sharing it.
type Session struct {
	id          uuid.UUID
	db          *sql.DB
	ownsDB      bool
	gen         *sqlgen.Generator
	middlewares []Middleware
}

// Open opens and pings a database of provider at dsn.
func Open(ctx context.Context, provider, dsn string) (*Session, error) {
	d, err := sqlgen.DialectFor(provider)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.Driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", d.Name(), err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", d.Name(), err)
	}

	s := newSession(db, d)
	s.ownsDB = true
	return s, nil
}

// New wraps an open database. Close does not close db.
func New(db *sql.DB, provider string) (*Session, error) {
	d, err := sqlgen.DialectFor(provider)
	if err != nil {
		return nil, err
	}
	return newSession(db, d), nil
}

func newSession(db *sql.DB, d sqlgen.Dialect) *Session {
	s := &Session{
		id:  uuid.New(),
		db:  db,
		gen: sqlgen.ForDialect(d),
	}
	debug.Debug("session opened", "session", s.id, "dialect", d.Name())
	return s
}

// ID identifies the session in logs and query events.
func (s *Session) ID() uuid.UUID { return s.id }

// DB returns the underlying database.
func (s *Session) DB() *sql.DB { return s.db }

// Dialect returns the session's SQL dialect.
func (s *Session) Dialect() sqlgen.Dialect { return s.gen.Dialect() }

// Close closes the database if the session opened it.
func (s *Session) Close() error {
	debug.Debug("session closed", "session", s.id)
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// Query creates a query over cols bound to this session.
func (s *Session) Query(cols ...query.Column) *query.Query {
	return query.New(s, cols...)
}

// SQL renders q in the session's dialect.
func (s *Session) SQL(q *query.Query) *sqlgen.Query {
	return s.gen.GenerateSelect(q)
}

// Execute runs q and scans every row. Integer columns scan to int64, text
// columns to string, and NULL to nil.
func (s *Session) Execute(ctx context.Context, q *query.Query) ([]query.Row, error) {
	stmt := s.gen.GenerateSelect(q)
	cols := q.Columns()

	var out []query.Row
	err := s.run(ctx, stmt, func() error {
		rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			row, err := scanRow(rows, cols)
			if err != nil {
				return err
			}
			out = append(out, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return out, nil
}

func scanRow(rows *sql.Rows, cols []query.Column) (query.Row, error) {
	dest := make([]any, len(cols))
	for i, c := range cols {
		switch c.Type {
		case schema.Integer:
			dest[i] = new(sql.NullInt64)
		default:
			dest[i] = new(sql.NullString)
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	row := make(query.Row, len(cols))
	for i, d := range dest {
		switch v := d.(type) {
		case *sql.NullInt64:
			if v.Valid {
				row[i] = v.Int64
			}
		case *sql.NullString:
			if v.Valid {
				row[i] = v.String
			}
		}
	}
	return row, nil
}

// Insert adds one row to entry's table. values are given in column order.
func (s *Session) Insert(ctx context.Context, entry *schema.Entry, values ...any) error {
	return s.insert(ctx, s.db, entry, values)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Session) insert(ctx context.Context, db execer, entry *schema.Entry, values []any) error {
	cols := entry.Columns()
	if len(values) != len(cols) {
		return fmt.Errorf("insert into %s: got %d values for %d columns", entry.Table(), len(values), len(cols))
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}

	stmt := s.gen.GenerateInsert(entry.Table(), names, values)
	err := s.run(ctx, stmt, func() error {
		_, err := db.ExecContext(ctx, stmt.SQL, stmt.Args...)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert into %s: %w", entry.Table(), err)
	}
	return nil
}

// Migrate creates the tables of entries that do not exist yet.
func (s *Session) Migrate(ctx context.Context, entries []*schema.Entry) error {
	return migrate.CreateAll(ctx, s.db, s.Dialect(), entries)
}
