package errors_test

import (
	"strings"
	"testing"

	briarerrors "github.com/briarscript/briar/internal/errors"
	"github.com/briarscript/briar/pkg/token"
	"github.com/stretchr/testify/assert"
)

func TestSourceErrorFormatPlain(t *testing.T) {
	src := "var x = @\nvar y = 1"
	pos := token.Position{Line: 1, Column: 9, Offset: 8}
	span := token.Span{Start: 8, End: 9}
	err := briarerrors.New(src, span, pos, "unrecognized token")

	got := err.Format(false)
	lines := strings.Split(got, "\n")
	assert.Equal(t, "error at 1:9", lines[0])
	assert.Equal(t, "   1 | var x = @", lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "^"))
	assert.NotContains(t, got, "\033[")
	assert.Contains(t, got, "unrecognized token")
}

func TestSourceErrorFormatColor(t *testing.T) {
	pos := token.Position{Line: 1, Column: 1, Offset: 0}
	err := briarerrors.New("x", token.Span{Start: 0, End: 1}, pos, "boom")

	got := err.Format(true)
	assert.Contains(t, got, "\033[1;31m")
	assert.Contains(t, got, "\033[1m")
}

func TestSourceErrorImplementsError(t *testing.T) {
	pos := token.Position{Line: 2, Column: 3, Offset: 5}
	err := briarerrors.New("a\nbcd", token.Span{Start: 5, End: 6}, pos, "bad thing")

	var asErr error = err
	assert.Equal(t, err.Format(false), asErr.Error())
}

func TestSourceErrorOmitsSourceLineWhenUnavailable(t *testing.T) {
	pos := token.Position{Line: 5, Column: 1, Offset: 0}
	err := briarerrors.New("", token.Span{}, pos, "no source available")

	got := err.Format(false)
	assert.Equal(t, "error at 5:1\nno source available", got)
}
