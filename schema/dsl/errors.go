package dsl

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Error is a positioned error in a declaration file.
type Error struct {
	Pos     lexer.Position
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Pos, msg)
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Position returns where the error occurred.
func (e *Error) Position() lexer.Position {
	return e.Pos
}

func errorf(pos lexer.Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
