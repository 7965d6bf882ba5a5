package tacstats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raymyers/ralph-tac/pkg/tacgen"
	"github.com/raymyers/ralph-tac/pkg/treefile"
)

const tree = `
decls:
  - {kind: var, name: g, type: int}
  - kind: fn
    name: main
    formals: [{name: a, type: int}]
    body:
      - kind: if
        cond: {kind: binary, op: "<", left: {kind: id, name: a}, right: {kind: int, value: 0}}
        body:
          - {kind: report, expr: {kind: str, value: neg}}
      - {kind: inc, dst: {kind: id, name: g}}
`

func TestCollect(t *testing.T) {
	root, err := treefile.Load([]byte(tree))
	require.NoError(t, err)
	prog, err := tacgen.LowerProgram(root)
	require.NoError(t, err)

	// GETARG; t0 = LT64 a 0; IFZ; REPORT; L0: NOP; g = ADD64 g 1; leave_main: NOP
	s := Collect(prog)
	assert.Equal(t, uint64(1), s.counter("tac_procs_total"))
	assert.Equal(t, uint64(1), s.counter("tac_globals_total"))
	assert.Equal(t, uint64(1), s.counter("tac_strings_total"))
	assert.Equal(t, uint64(2), s.counter(`tac_quads_total{proc="main",kind="binop"}`))
	assert.Equal(t, uint64(2), s.counter(`tac_quads_total{proc="main",kind="nop"}`))
	assert.Equal(t, uint64(1), s.counter(`tac_temps_total{proc="main"}`))
	assert.Equal(t, uint64(2), s.counter(`tac_labels_total{proc="main"}`))
	assert.Equal(t, uint64(0), s.counter(`tac_quads_total{proc="main",kind="call"}`))

	var buf bytes.Buffer
	Write(&buf, prog)
	out := buf.String()
	for _, want := range []string{
		"tac_procs_total 1\n",
		`tac_quads_total{proc="main",kind="ifz"} 1`,
		`tac_quads_total{proc="main",kind="getarg"} 1`,
	} {
		assert.Contains(t, out, want)
	}
}
