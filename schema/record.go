// Package schema derives storage schemas from record declarations and keeps
// them in a registry that the query compiler resolves collection names against.
package schema

import (
	"fmt"
	"strings"
)

// PrimitiveType is the declared type of a record field.
type PrimitiveType int

const (
	// Integer is a whole number field.
	Integer PrimitiveType = iota + 1
	// Text is a string field.
	Text
)

// String returns the declaration spelling of the type.
func (t PrimitiveType) String() string {
	switch t {
	case Integer:
		return "int"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("PrimitiveType(%d)", int(t))
	}
}

// Storage maps the primitive type to its storage type.
func (t PrimitiveType) Storage() (StorageType, error) {
	switch t {
	case Integer:
		return StorageInteger, nil
	case Text:
		return StorageText, nil
	default:
		return "", &TypeError{Type: t.String()}
	}
}

// ParsePrimitive resolves a type name as written in a declaration file.
func ParsePrimitive(name string) (PrimitiveType, error) {
	switch strings.ToLower(name) {
	case "int", "integer":
		return Integer, nil
	case "text", "str", "string":
		return Text, nil
	default:
		return 0, &TypeError{Type: name}
	}
}

// StorageType is the column type used by the storage engine.
type StorageType string

const (
	// StorageInteger stores integers.
	StorageInteger StorageType = "INTEGER"
	// StorageText stores strings.
	StorageText StorageType = "TEXT"
)

// ForeignKey references a column of another table by name.
// It is not validated against the registry.
type ForeignKey struct {
	Table  string
	Column string
}

// IsZero reports whether the reference is unset.
func (fk ForeignKey) IsZero() bool {
	return fk.Table == "" && fk.Column == ""
}

// String returns the reference as table.column.
func (fk ForeignKey) String() string {
	return fk.Table + "." + fk.Column
}

// ParseForeignKey parses a table.column reference.
func ParseForeignKey(ref string) (ForeignKey, error) {
	table, column, ok := strings.Cut(ref, ".")
	if !ok || table == "" || column == "" || strings.Contains(column, ".") {
		return ForeignKey{}, fmt.Errorf("invalid foreign key reference %q: want table.column", ref)
	}
	return ForeignKey{Table: table, Column: column}, nil
}

// Field is one attribute of a record type.
type Field struct {
	Name       string
	Type       PrimitiveType
	PrimaryKey bool
	ForeignKey *ForeignKey
}

// Record is a named, ordered list of fields.
type Record struct {
	Name   string
	Fields []Field
}
