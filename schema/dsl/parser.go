// Package dsl parses record declaration files:
//
//	requires ">= 0.1"
//
//	record Student {
//	  student_id int @pk
//	  name       text
//	}
//
//	record Course @table("courses") {
//	  course_id  int @pk
//	  title      text
//	  student_id int @fk(students.student_id)
//	}
package dsl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/hashicorp/go-version"

	"github.com/satishbabariya/frm-go/internal/debug"
	"github.com/satishbabariya/frm-go/schema"
)

// LanguageVersion is the declaration language version checked against
// a file's requires constraint.
const LanguageVersion = "0.1.0"

var parser = participle.MustBuild[File](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Newline", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(4),
)

// Parse parses a declaration file from r.
func Parse(filename string, r io.Reader) (*File, error) {
	file, err := parser.Parse(filename, r)
	if err != nil {
		return nil, convertError(err)
	}
	if err := file.checkRequires(); err != nil {
		return nil, err
	}
	return file, nil
}

// ParseString parses a declaration file from a string.
func ParseString(filename, src string) (*File, error) {
	return Parse(filename, strings.NewReader(src))
}

func convertError(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &Error{Pos: perr.Position(), Message: perr.Message(), Err: err}
	}
	return err
}

func (f *File) checkRequires() error {
	if f.Requires == nil {
		return nil
	}
	constraints, err := version.NewConstraint(f.Requires.Constraint)
	if err != nil {
		return &Error{Pos: f.Requires.Pos, Message: fmt.Sprintf("invalid version constraint %q", f.Requires.Constraint), Err: err}
	}
	current := version.Must(version.NewVersion(LanguageVersion))
	if !constraints.Check(current) {
		return errorf(f.Requires.Pos, "file requires language version %s, have %s", f.Requires.Constraint, LanguageVersion)
	}
	return nil
}

// Declaration is a record declaration ready for registration.
type Declaration struct {
	Pos    lexer.Position
	Record schema.Record
	Table  string // empty when the default table name applies
}

// Options returns the derivation options of the declaration.
func (d Declaration) Options() []schema.Option {
	if d.Table == "" {
		return nil
	}
	return []schema.Option{schema.WithTable(d.Table)}
}

// Declarations converts the parse tree into record declarations.
func (f *File) Declarations() ([]Declaration, error) {
	decls := make([]Declaration, 0, len(f.Records))
	for _, rd := range f.Records {
		decl, err := rd.declaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func (rd *RecordDecl) declaration() (Declaration, error) {
	decl := Declaration{
		Pos:    rd.Pos,
		Record: schema.Record{Name: rd.Name},
	}

	for _, attr := range rd.Attributes {
		switch attr.Name {
		case "table":
			if len(attr.Args) != 1 {
				return Declaration{}, errorf(attr.Pos, "@table takes exactly one argument")
			}
			decl.Table = attr.Args[0].Text()
		default:
			return Declaration{}, errorf(attr.Pos, "unknown record attribute @%s", attr.Name)
		}
	}

	for _, fd := range rd.Fields {
		field, err := fd.field(rd.Name)
		if err != nil {
			return Declaration{}, err
		}
		decl.Record.Fields = append(decl.Record.Fields, field)
	}
	return decl, nil
}

func (fd *FieldDecl) field(record string) (schema.Field, error) {
	typ, err := schema.ParsePrimitive(fd.Type)
	if err != nil {
		var typeErr *schema.TypeError
		if errors.As(err, &typeErr) {
			typeErr.Record = record
			typeErr.Field = fd.Name
		}
		return schema.Field{}, &Error{Pos: fd.Pos, Err: err}
	}

	field := schema.Field{Name: fd.Name, Type: typ}
	for _, attr := range fd.Attributes {
		switch attr.Name {
		case "pk":
			if len(attr.Args) != 0 {
				return schema.Field{}, errorf(attr.Pos, "@pk takes no arguments")
			}
			field.PrimaryKey = true
		case "fk":
			if len(attr.Args) != 1 {
				return schema.Field{}, errorf(attr.Pos, "@fk takes exactly one table.column argument")
			}
			fk, err := schema.ParseForeignKey(attr.Args[0].Text())
			if err != nil {
				return schema.Field{}, &Error{Pos: attr.Args[0].Pos, Err: err}
			}
			field.ForeignKey = &fk
		default:
			return schema.Field{}, errorf(attr.Pos, "unknown field attribute @%s", attr.Name)
		}
	}
	return field, nil
}

// Load parses src and registers every declared record in reg.
// Registration is all or nothing: a malformed declaration or a name that
// is already taken, in reg or earlier in the file, leaves reg untouched.
func Load(reg *schema.Registry, filename, src string) ([]*schema.Entry, error) {
	file, err := ParseString(filename, src)
	if err != nil {
		return nil, err
	}
	decls, err := file.Declarations()
	if err != nil {
		return nil, err
	}

	entries := make([]*schema.Entry, 0, len(decls))
	for _, decl := range decls {
		entry, err := schema.Derive(decl.Record, decl.Options()...)
		if err != nil {
			return nil, &Error{Pos: decl.Pos, Err: err}
		}
		entries = append(entries, entry)
	}

	if err := reg.AddAll(entries...); err != nil {
		pos := file.Pos
		var dup *schema.DuplicateError
		if errors.As(err, &dup) {
			for i, entry := range entries {
				if entry == dup.Entry {
					pos = decls[i].Pos
				}
			}
		}
		return nil, &Error{Pos: pos, Err: err}
	}

	debug.Debug("loaded declarations", "file", filename, "records", len(entries))
	return entries, nil
}
