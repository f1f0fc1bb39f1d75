// Package migrate materializes schema entries as database tables.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/satishbabariya/frm-go/internal/debug"
	"github.com/satishbabariya/frm-go/migrate/sqlgen"
	qsqlgen "github.com/satishbabariya/frm-go/query/sqlgen"
	"github.com/satishbabariya/frm-go/schema"
)

// ErrCycle is returned when foreign keys form a cycle between tables.
var ErrCycle = errors.New("foreign keys form a cycle")

// Engine creates tables through a database connection.
type Engine struct {
	db  *sql.DB
	gen *sqlgen.Generator
}

// NewEngine creates an engine for db in dialect d.
func NewEngine(db *sql.DB, d qsqlgen.Dialect) *Engine {
	return &Engine{db: db, gen: sqlgen.ForDialect(d)}
}

// Plan returns the CREATE TABLE statements for entries in dependency order.
func (e *Engine) Plan(entries []*schema.Entry) ([]string, error) {
	return Plan(e.gen, entries)
}

// Apply creates every table of entries that does not exist yet.
func (e *Engine) Apply(ctx context.Context, entries []*schema.Entry) error {
	stmts, err := e.Plan(entries)
	if err != nil {
		return err
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range stmts {
		debug.Debug("executing DDL", "dialect", e.gen.Dialect().Name(), "sql", stmt)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	debug.Info("tables created", "count", len(stmts))
	return nil
}

// CreateAll creates the tables of entries in db.
func CreateAll(ctx context.Context, db *sql.DB, d qsqlgen.Dialect, entries []*schema.Entry) error {
	return NewEngine(db, d).Apply(ctx, entries)
}

// Plan returns the CREATE TABLE statements of entries in dependency order.
func Plan(gen *sqlgen.Generator, entries []*schema.Entry) ([]string, error) {
	ordered, err := SortByDependency(entries)
	if err != nil {
		return nil, err
	}
	stmts := make([]string, len(ordered))
	for i, entry := range ordered {
		stmts[i] = gen.CreateTable(entry)
	}
	return stmts, nil
}

// SortByDependency orders entries so that every table comes after the
// tables its foreign keys reference. References to tables outside entries
// and self references are ignored. Independent tables keep their input order.
func SortByDependency(entries []*schema.Entry) ([]*schema.Entry, error) {
	byTable := make(map[string]int, len(entries))
	for i, entry := range entries {
		byTable[entry.Table()] = i
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(entries))
	ordered := make([]*schema.Entry, 0, len(entries))

	var visit func(i int, path []string) error
	visit = func(i int, path []string) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrCycle, strings.Join(append(path[:len(path):len(path)], entries[i].Table()), " -> "))
		}
		state[i] = visiting
		path = append(path[:len(path):len(path)], entries[i].Table())

		deps := make([]int, 0)
		for _, col := range entries[i].References() {
			j, ok := byTable[col.References.Table]
			if ok && j != i {
				deps = append(deps, j)
			}
		}
		sort.Ints(deps)
		for _, j := range deps {
			if err := visit(j, path); err != nil {
				return err
			}
		}

		state[i] = done
		ordered = append(ordered, entries[i])
		return nil
	}

	for i := range entries {
		if err := visit(i, nil); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
