// Package diagnostics renders positioned errors with the offending source line.
package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"
)

// Positioned is an error that knows where in a source text it occurred.
type Positioned interface {
	error
	Position() lexer.Position
}

// Colorer colors the title and the highlighted source text.
type Colorer interface {
	Title() string
	PrimaryColor(text string) string
}

// ErrorColorer colors errors red.
type ErrorColorer struct{}

func (ErrorColorer) Title() string { return "error" }

func (ErrorColorer) PrimaryColor(text string) string {
	return color.New(color.FgRed, color.Bold).Sprint(text)
}

// WarningColorer colors warnings yellow.
type WarningColorer struct{}

func (WarningColorer) Title() string { return "warning" }

func (WarningColorer) PrimaryColor(text string) string {
	return color.New(color.FgYellow, color.Bold).Sprint(text)
}

// Report writes err to w. Positioned errors are printed with the source
// excerpt they point at; other errors are printed on one line.
func Report(w io.Writer, src string, err error) {
	var p Positioned
	if errors.As(err, &p) && p.Position().Line > 0 {
		PrettyPrint(w, src, p.Position(), message(p), ErrorColorer{})
		return
	}
	color.New(color.Bold).Fprintf(w, "error: ")
	fmt.Fprintln(w, err)
}

// message strips the leading position that positioned errors carry in Error().
func message(p Positioned) string {
	msg := p.Error()
	prefix := p.Position().String() + ": "
	return strings.TrimPrefix(msg, prefix)
}

// PrettyPrint prints description followed by the source line at pos, with
// the token starting at pos highlighted.
func PrettyPrint(w io.Writer, src string, pos lexer.Position, description string, colorer Colorer) {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	lines := strings.Split(src, "\n")
	lineIdx := pos.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		lineIdx = len(lines) - 1
	}
	line := strings.TrimRight(lines[lineIdx], "\r")

	start := pos.Column - 1
	if start < 0 {
		start = 0
	}
	if start > len(line) {
		start = len(line)
	}
	end := start
	for end < len(line) && isWordByte(line[end]) {
		end++
	}
	if end == start && end < len(line) {
		end++
	}

	titleColor := color.New(color.Bold)
	arrowColor := color.New(color.FgCyan, color.Bold)
	filePathColor := color.New(color.Underline)
	lineNumColor := color.New(color.FgCyan, color.Bold)

	titleColor.Fprintf(w, "%s: %s\n", colorer.Title(), description)

	filename := pos.Filename
	if filename == "" {
		filename = "<source>"
	}
	arrowColor.Fprint(w, "  --> ")
	filePathColor.Fprintf(w, "%s:%d:%d\n", filename, lineIdx+1, start+1)

	lineNumColor.Fprint(w, "   |\n")
	if lineIdx > 0 {
		lineNumColor.Fprintf(w, "%2d | ", lineIdx)
		fmt.Fprintln(w, strings.TrimRight(lines[lineIdx-1], "\r"))
	}

	lineNumColor.Fprintf(w, "%2d | ", lineIdx+1)
	fmt.Fprintf(w, "%s%s%s\n", line[:start], colorer.PrimaryColor(line[start:end]), line[end:])

	lineNumColor.Fprint(w, "   | ")
	fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", start), colorer.PrimaryColor(strings.Repeat("^", max(end-start, 1))))
}

func isWordByte(b byte) bool {
	return b == '_' || b == '.' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}
