package introspect_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/frm-go/migrate/introspect"
	qsqlgen "github.com/satishbabariya/frm-go/query/sqlgen"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteIntrospector(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	_, err := db.ExecContext(ctx, `CREATE TABLE "students" ("student_id" INTEGER NOT NULL, "name" TEXT, PRIMARY KEY ("student_id"))`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TABLE "courses" ("course_id" INTEGER NOT NULL, PRIMARY KEY ("course_id"))`)
	require.NoError(t, err)

	i, err := introspect.NewIntrospector(db, qsqlgen.SQLite{})
	require.NoError(t, err)

	names, err := i.TableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"courses", "students"}, names)

	cols, err := i.Columns(ctx, "students")
	require.NoError(t, err)
	assert.Equal(t, []introspect.Column{
		{Name: "student_id", Type: "INTEGER", PrimaryKey: true},
		{Name: "name", Type: "TEXT", Nullable: true},
	}, cols)
}

func TestTableNames_Empty(t *testing.T) {
	names, err := introspect.TableNames(context.Background(), openSQLite(t), qsqlgen.SQLite{})
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestNewIntrospector_AllDialects(t *testing.T) {
	for _, p := range qsqlgen.Providers() {
		d, err := qsqlgen.DialectFor(p)
		require.NoError(t, err)
		_, err = introspect.NewIntrospector(nil, d)
		assert.NoError(t, err, p)
	}
}
