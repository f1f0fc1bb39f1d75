package schema

import (
	"errors"
	"fmt"
)

// ErrColumnNotFound is returned when an attribute is not a column of an entry.
var ErrColumnNotFound = errors.New("column not found")

// TypeError is returned when a field type has no storage mapping.
type TypeError struct {
	Record string
	Field  string
	Type   string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	if e.Record != "" && e.Field != "" {
		return fmt.Sprintf("unsupported type %q for field %s.%s", e.Type, e.Record, e.Field)
	}
	return fmt.Sprintf("unsupported type %q", e.Type)
}

// NotFoundError is returned by lookups of names that were never registered.
type NotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schema %q is not registered", e.Name)
}

// DuplicateError is returned when a name is registered twice.
type DuplicateError struct {
	Name     string
	Existing string // table of the entry already holding the name
	Entry    *Entry // entry that was rejected
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("schema name %q is already registered for table %q", e.Name, e.Existing)
}

// DeclarationError is returned for malformed record declarations.
type DeclarationError struct {
	Record string
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *DeclarationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid declaration of %s.%s: %s", e.Record, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid declaration of %s: %s", e.Record, e.Reason)
}
