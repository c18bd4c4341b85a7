package briar_test

import (
	"testing"

	"github.com/briarscript/briar/internal/lexer"
	"github.com/briarscript/briar/internal/parser"
	"github.com/briarscript/briar/pkg/briar"
	"github.com/stretchr/testify/require"
)

func TestScriptManifest(t *testing.T) {
	cases, err := briar.LoadScriptManifest("testdata/scripts/manifest.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, cases)

	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			tokens, err := lexer.Lex(c.Source)
			require.NoError(t, err)
			require.Len(t, tokens, c.Tokens, "token count for %q", c.Source)

			script, err := briar.Parse(c.Source)
			require.NoError(t, err)
			require.NotNil(t, script)
		})
	}
}

// The binary-tree benchmark script parses as a Script whose full token
// stream is consumed at position 219 — a from-scratch reconstruction of the
// Wren "binary_tree" sample's token-count property, the original fixture
// text being unavailable (see manifest.yaml).
func TestScriptManifestBinaryTreeReachesPos219(t *testing.T) {
	cases, err := briar.LoadScriptManifest("testdata/scripts/manifest.yaml")
	require.NoError(t, err)

	var source string
	found := false
	for _, c := range cases {
		if c.Name == "binary_tree" {
			source = c.Source
			found = true
			break
		}
	}
	require.True(t, found, "manifest must contain a binary_tree entry")

	tokens, err := lexer.Lex(source)
	require.NoError(t, err)
	require.Len(t, tokens, 219)

	p := parser.New(tokens)
	script, err := p.ParseScript()
	require.NoError(t, err)
	require.NotNil(t, script)
	require.Len(t, script.Units, 12, "the class def plus every top-level var/expr/while/for statement is its own FileUnit")
}
