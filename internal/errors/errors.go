// Package errors formats parse failures with source context: a line/column
// header and a caret pointing at the offending token, in the spirit of the
// diagnostics the parser's host tooling is expected to render.
package errors

import (
	"fmt"
	"strings"

	"github.com/briarscript/briar/pkg/token"
)

// SourceError is a single parse failure with a source span and a message:
// token position information, optionally resolved back to a byte span.
type SourceError struct {
	Message string
	Source  string
	Span    token.Span
	Pos     token.Position
}

// New builds a SourceError for the given span and message.
func New(source string, span token.Span, pos token.Position, message string) *SourceError {
	return &SourceError{Message: message, Source: source, Span: span, Pos: pos}
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return e.Format(false)
}

// Format renders the error with a source line and a caret. If color is
// true, ANSI escapes highlight the caret for terminal output.
func (e *SourceError) Format(color bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "error at %d:%d\n", e.Pos.Line, e.Pos.Column)

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(prefix)+max(e.Pos.Column-1, 0)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *SourceError) sourceLine(line int) string {
	if e.Source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
