package briar_test

import (
	"testing"

	"github.com/briarscript/briar/internal/errors"
	"github.com/briarscript/briar/pkg/briar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuccess(t *testing.T) {
	script, err := briar.Parse("var x = 1")
	require.NoError(t, err)
	require.NotNil(t, script)
	assert.Len(t, script.Units, 1)
}

// A lexer BadToken failure resolves to a SourceError pointing at the
// offending byte, not a bare presult.Error.
func TestParseBadTokenResolvesToSourceError(t *testing.T) {
	_, err := briar.Parse("var x = @")
	require.Error(t, err)

	var se *errors.SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Pos.Line)
	assert.Equal(t, 9, se.Pos.Column)
	assert.Contains(t, se.Error(), "^")
}

// Leftover tokens after a structurally complete parse (UnreachedEOF)
// resolve against the first leftover token, not the end of source.
func TestParseUnreachedEOFResolvesToSourceError(t *testing.T) {
	_, err := briar.Parse("var x = 1 )")
	require.Error(t, err)

	var se *errors.SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Pos.Line)
	assert.Equal(t, 11, se.Pos.Column)
}

// A script that never forms a valid unit at all (no lexer error, no
// partial structure to leave unconsumed) still resolves to a SourceError.
func TestParseFinishedOnFailResolvesToSourceError(t *testing.T) {
	_, err := briar.Parse(")")
	require.Error(t, err)

	var se *errors.SourceError
	require.ErrorAs(t, err, &se)
}

func TestWithTraceIsCalledForBothLexerAndParser(t *testing.T) {
	var lines []string
	_, err := briar.Parse("var x = 1", briar.WithTrace(func(format string, args ...any) {
		lines = append(lines, format)
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, lines)
}
