package tacgen

import (
	"os"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/raymyers/ralph-tac/pkg/tac"
	"github.com/raymyers/ralph-tac/pkg/treefile"
)

// LowerSpec is one golden case from lower.yaml
type LowerSpec struct {
	Name    string              `yaml:"name"`
	Tree    treefile.File       `yaml:"tree"`
	Globals []string            `yaml:"globals,omitempty"`
	Strings []string            `yaml:"strings,omitempty"`
	Procs   map[string][]string `yaml:"procs"`
}

// LowerFile represents the lower.yaml file structure
type LowerFile struct {
	Tests []LowerSpec `yaml:"tests"`
}

func TestLowerYAML(t *testing.T) {
	data, err := os.ReadFile("../../testdata/lower.yaml")
	if err != nil {
		t.Fatalf("failed to read lower.yaml: %v", err)
	}

	var file LowerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		t.Fatalf("failed to parse lower.yaml: %v", err)
	}
	if len(file.Tests) == 0 {
		t.Fatal("lower.yaml has no tests")
	}

	for _, tc := range file.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			tree, err := treefile.Resolve(&tc.Tree)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			prog, err := LowerProgram(tree)
			if err != nil {
				t.Fatalf("LowerProgram: %v", err)
			}

			if len(prog.Procs) != len(tc.Procs) {
				t.Errorf("got %d procedures, want %d", len(prog.Procs), len(tc.Procs))
			}
			for name, want := range tc.Procs {
				proc, ok := prog.Proc(name)
				if !ok {
					t.Errorf("missing procedure %s", name)
					continue
				}
				verifyLines(t, name, tac.Lines(proc), want)
			}

			if tc.Globals != nil {
				var got []string
				for _, g := range prog.Globals {
					got = append(got, g.String())
				}
				verifyLines(t, "globals", got, tc.Globals)
			}
			if tc.Strings != nil {
				var got []string
				for _, s := range prog.Strings {
					got = append(got, s.Content)
				}
				verifyLines(t, "strings", got, tc.Strings)
			}
		})
	}
}

func verifyLines(t *testing.T, what string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s: got %d lines, want %d\ngot:  %q\nwant: %q", what, len(got), len(want), got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s line %d = %q, want %q", what, i, got[i], want[i])
		}
	}
}
