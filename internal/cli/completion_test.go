package cli

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// complete runs the hidden completion command and returns the candidate
// names without their descriptions.
func complete(t *testing.T, args ...string) []string {
	t.Helper()
	isolateConfig(t)

	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs(append([]string{cobra.ShellCompRequestCmd}, args...))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("complete %q: %v", args, err)
	}

	var names []string
	for _, line := range strings.Split(out.String(), "\n") {
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		name, _, _ := strings.Cut(line, "\t")
		names = append(names, name)
	}
	return names
}

func TestCompletions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"export formats", []string{"export", "--type", ""}, []string{"js", "md", "json", "dot", "svg", "raw"}},
		{"export format prefix", []string{"export", "-t", "s"}, []string{"svg"}},
		{"export ignore", []string{"export", "--ignore", ""}, []string{"viewof_*", "initial_*", "mutable_*", "__CELL_*__"}},
		{"cells ignore prefix", []string{"cells", "-i", "view"}, []string{"viewof_*"}},
		{"shells", []string{"completion", ""}, []string{"bash", "zsh", "fish", "powershell"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := complete(t, tt.args...); !slices.Equal(got, tt.want) {
				t.Errorf("candidates = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompleteCacheSubcommands(t *testing.T) {
	got := complete(t, "cache", "")
	for _, want := range []string{"clear", "path"} {
		if !slices.Contains(got, want) {
			t.Errorf("candidates %q missing %q", got, want)
		}
	}
	if got := complete(t, "cache", "path", ""); len(got) != 0 {
		t.Errorf("cache path takes no arguments, got candidates %q", got)
	}
}

func TestCompletionScript(t *testing.T) {
	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			out, err := runCLI(t, "http://127.0.0.1:1", "completion", shell)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "obsexport") {
				t.Errorf("%s script does not mention obsexport", shell)
			}
		})
	}
	if _, err := runCLI(t, "http://127.0.0.1:1", "completion", "tcsh"); err == nil {
		t.Error("expected error for an unknown shell")
	}
}
