package schema

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// TagName is the struct tag read by RecordOf.
const TagName = "frm"

// RecordOf builds a record declaration from a Go struct value or pointer.
//
// Exported fields become record fields in declaration order. The frm tag
// sets the column name and options:
//
//	type Course struct {
//		CourseID  int    `frm:"course_id,pk"`
//		Title     string
//		StudentID int    `frm:",fk=students.student_id"`
//		Cache     []byte `frm:"-"`
//	}
//
// Untagged names are converted to snake_case. Integer kinds map to Integer
// and string to Text; any other Go type fails with *TypeError.
func RecordOf(v any) (Record, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return Record{}, &DeclarationError{Record: fmt.Sprintf("%T", v), Reason: "not a struct"}
	}

	rec := Record{Name: t.Name()}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get(TagName)
		if tag == "-" {
			continue
		}

		field, err := parseFieldTag(rec.Name, sf, tag)
		if err != nil {
			return Record{}, err
		}
		rec.Fields = append(rec.Fields, field)
	}

	return rec, nil
}

func parseFieldTag(record string, sf reflect.StructField, tag string) (Field, error) {
	name, rest, _ := strings.Cut(tag, ",")
	if name == "" {
		name = SnakeCase(sf.Name)
	}

	field := Field{Name: name}
	switch sf.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		field.Type = Integer
	case reflect.String:
		field.Type = Text
	default:
		return Field{}, &TypeError{Record: record, Field: name, Type: sf.Type.String()}
	}

	if rest == "" {
		return field, nil
	}
	for _, opt := range strings.Split(rest, ",") {
		key, val, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "pk":
			field.PrimaryKey = true
		case "fk":
			fk, err := ParseForeignKey(val)
			if err != nil {
				return Field{}, &DeclarationError{Record: record, Field: name, Reason: err.Error()}
			}
			field.ForeignKey = &fk
		default:
			return Field{}, &DeclarationError{Record: record, Field: name, Reason: fmt.Sprintf("unknown tag option %q", key)}
		}
	}
	return field, nil
}

// SnakeCase converts a Go identifier such as StudentID to student_id.
func SnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
