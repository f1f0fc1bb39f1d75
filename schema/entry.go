package schema

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Column is the derived storage shape of one field.
type Column struct {
	Name       string
	Type       PrimitiveType
	Storage    StorageType
	PrimaryKey bool
	References ForeignKey // zero when the field has no foreign key
}

// Entry is the derived storage schema of a record type.
// Entries are immutable once derived.
type Entry struct {
	record  string
	table   string
	columns []Column
	index   map[string]int
}

// Record returns the name of the record type the entry was derived from.
func (e *Entry) Record() string { return e.record }

// Table returns the storage table name.
func (e *Entry) Table() string { return e.table }

// Columns returns the columns in field declaration order.
func (e *Entry) Columns() []Column {
	out := make([]Column, len(e.columns))
	copy(out, e.columns)
	return out
}

// Column looks up a column by name.
func (e *Entry) Column(name string) (Column, bool) {
	i, ok := e.index[name]
	if !ok {
		return Column{}, false
	}
	return e.columns[i], true
}

// PrimaryKey returns the primary-key columns in declaration order.
func (e *Entry) PrimaryKey() []Column {
	var pk []Column
	for _, c := range e.columns {
		if c.PrimaryKey {
			pk = append(pk, c)
		}
	}
	return pk
}

// References returns the foreign-key columns in declaration order.
func (e *Entry) References() []Column {
	var refs []Column
	for _, c := range e.columns {
		if !c.References.IsZero() {
			refs = append(refs, c)
		}
	}
	return refs
}

// Option configures derivation.
type Option func(*options)

type options struct {
	table string
}

// WithTable sets an explicit table name instead of the derived one.
func WithTable(name string) Option {
	return func(o *options) {
		o.table = name
	}
}

// TableName returns the default table name of a record: the lower-cased
// record name with a plural "s" appended.
func TableName(record string) string {
	return cases.Lower(language.Und).String(record) + "s"
}

// Derive converts a record declaration into a schema entry.
func Derive(rec Record, opts ...Option) (*Entry, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if rec.Name == "" {
		return nil, &DeclarationError{Reason: "record name is empty"}
	}
	if len(rec.Fields) == 0 {
		return nil, &DeclarationError{Record: rec.Name, Reason: "record has no fields"}
	}

	table := o.table
	if table == "" {
		table = TableName(rec.Name)
	}

	entry := &Entry{
		record:  rec.Name,
		table:   table,
		columns: make([]Column, 0, len(rec.Fields)),
		index:   make(map[string]int, len(rec.Fields)),
	}

	for _, f := range rec.Fields {
		if f.Name == "" {
			return nil, &DeclarationError{Record: rec.Name, Reason: fmt.Sprintf("field %d has no name", len(entry.columns)+1)}
		}
		if _, dup := entry.index[f.Name]; dup {
			return nil, &DeclarationError{Record: rec.Name, Field: f.Name, Reason: "field declared twice"}
		}

		storage, err := f.Type.Storage()
		if err != nil {
			return nil, &TypeError{Record: rec.Name, Field: f.Name, Type: f.Type.String()}
		}

		col := Column{
			Name:       f.Name,
			Type:       f.Type,
			Storage:    storage,
			PrimaryKey: f.PrimaryKey,
		}
		if f.ForeignKey != nil {
			if f.ForeignKey.Table == "" || f.ForeignKey.Column == "" {
				return nil, &DeclarationError{Record: rec.Name, Field: f.Name, Reason: "foreign key needs both table and column"}
			}
			col.References = *f.ForeignKey
		}

		entry.index[f.Name] = len(entry.columns)
		entry.columns = append(entry.columns, col)
	}

	return entry, nil
}
