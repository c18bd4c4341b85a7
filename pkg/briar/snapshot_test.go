package briar_test

import (
	"fmt"
	"testing"

	"github.com/briarscript/briar/pkg/briar"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

// TestParseSnapshots pins the shape of the returned AST for a handful of
// representative scripts: class definition, module import, bare function,
// statement, and a top-level block (which file_unit reaches through its
// statement alternative, so it is recorded as a StatementUnit wrapping a
// Block).
func TestParseSnapshots(t *testing.T) {
	cases := map[string]string{
		"import_with_vars": `import "./math" for Vector, Matrix`,
		"class_with_parent_and_constructor": `
class Shape {
  construct new(kind) {
    var kind = kind
  }

  area() { 0 }
}

class Circle is Shape {
  foreign static pi() { 3 }
}
`,
		"file_function":     `square(x) { return x * x }`,
		"control_flow_stmt": `if (x > 0) { return x } else { return 0 - x }`,
		"top_level_block":   `{ var total = 0 }`,
	}

	names := make([]string, 0, len(cases))
	for name := range cases {
		names = append(names, name)
	}

	for _, name := range names {
		source := cases[name]
		t.Run(name, func(t *testing.T) {
			script, err := briar.Parse(source)
			require.NoError(t, err)
			snaps.MatchSnapshot(t, fmt.Sprintf("%+v", script))
		})
	}
}
