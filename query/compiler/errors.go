package compiler

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// ErrNoFunction is returned when a named function is not defined.
	ErrNoFunction = errors.New("function not defined")
	// ErrAmbiguousSource is returned when a source defines several
	// functions and none was selected.
	ErrAmbiguousSource = errors.New("source defines several functions")
)

// CompileError reports source text that cannot be compiled into a query.
type CompileError struct {
	Pos lexer.Position
	Msg string
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Unwrap returns the underlying error, if any.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Position returns where in the source the error occurred.
func (e *CompileError) Position() lexer.Position {
	return e.Pos
}

func errorf(pos lexer.Position, format string, args ...any) *CompileError {
	return &CompileError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func parseError(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &CompileError{Pos: perr.Position(), Msg: perr.Message(), Err: err}
	}
	return &CompileError{Msg: err.Error(), Err: err}
}
