package schema_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/frm-go/schema"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := schema.NewRegistry()

	entry, err := reg.Register(student())
	require.NoError(t, err)

	byTable, err := reg.Lookup("students")
	require.NoError(t, err)
	byRecord, err := reg.Lookup("Student")
	require.NoError(t, err)

	assert.Same(t, entry, byTable)
	assert.Same(t, entry, byRecord)
	assert.Equal(t, []string{"Student", "students"}, reg.Names())
}

func TestRegistry_LookupMissing(t *testing.T) {
	reg := schema.NewRegistry()

	_, err := reg.Lookup("teachers")
	var notFound *schema.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "teachers", notFound.Name)

	assert.Panics(t, func() { reg.MustLookup("teachers") })
}

func TestRegistry_DuplicateFailsFast(t *testing.T) {
	reg := schema.NewRegistry()
	_, err := reg.Register(student())
	require.NoError(t, err)

	// Same table name from a different record.
	_, err = reg.Register(schema.Record{
		Name:   "Pupil",
		Fields: []schema.Field{{Name: "id", Type: schema.Integer}},
	}, schema.WithTable("students"))
	var dup *schema.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "students", dup.Name)

	// Nothing from the failed registration is visible.
	_, err = reg.Lookup("Pupil")
	assert.Error(t, err)
	assert.Len(t, reg.Entries(), 1)
}

func TestRegistry_AddAllIsAtomic(t *testing.T) {
	students, err := schema.Derive(student())
	require.NoError(t, err)
	learners, err := schema.Derive(student(), schema.WithTable("learners"))
	require.NoError(t, err)

	reg := schema.NewRegistry()
	err = reg.AddAll(students, learners)
	var dup *schema.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "Student", dup.Name)
	assert.Equal(t, "students", dup.Existing)
	assert.Same(t, learners, dup.Entry)
	assert.Empty(t, reg.Entries())

	require.NoError(t, reg.AddAll(students))
	assert.Equal(t, []string{"Student", "students"}, reg.Names())
}

func TestRegistry_DuplicateRecordName(t *testing.T) {
	reg := schema.NewRegistry()
	_, err := reg.Register(student())
	require.NoError(t, err)

	_, err = reg.Register(student(), schema.WithTable("learners"))
	var dup *schema.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "Student", dup.Name)

	_, err = reg.Lookup("learners")
	assert.Error(t, err)
}

func TestRegistry_FailedDeriveRegistersNothing(t *testing.T) {
	reg := schema.NewRegistry()
	rec := student()
	rec.Fields[1].Type = 0

	_, err := reg.Register(rec)
	var typeErr *schema.TypeError
	require.True(t, errors.As(err, &typeErr))

	assert.Empty(t, reg.Entries())
	assert.Empty(t, reg.Names())
}

func TestRegistry_EntriesInRegistrationOrder(t *testing.T) {
	reg := schema.NewRegistry()
	_, err := reg.Register(course())
	require.NoError(t, err)
	_, err = reg.Register(student())
	require.NoError(t, err)

	entries := reg.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "courses", entries[0].Table())
	assert.Equal(t, "students", entries[1].Table())
}

func TestRegistry_TableEqualToRecordName(t *testing.T) {
	reg := schema.NewRegistry()
	_, err := reg.Register(student(), schema.WithTable("Student"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Student"}, reg.Names())
}

func TestRegistry_ConcurrentLookups(t *testing.T) {
	reg := schema.NewRegistry()
	_, err := reg.Register(student())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Lookup("students")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
