package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/obsexport/pkg/render"
)

var shells = []string{"bash", "zsh", "fish", "powershell"}

// formatHelp describes each output format in completion candidates.
var formatHelp = map[render.Format]string{
	render.FormatJS:       "standalone ES module",
	render.FormatMarkdown: "Markdown document",
	render.FormatJSON:     "cells as JSON",
	render.FormatDOT:      "cell graph in Graphviz DOT",
	render.FormatSVG:      "cell graph as SVG",
	render.FormatRaw:      "export as downloaded",
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell.

Besides commands and flags, the scripts complete the output formats of
--type and the generated cell names (viewof_*, mutable_*, initial_* and
unnamed __CELL_*__ cells) that --ignore usually leaves out.

  bash:        source <(obsexport completion bash)
  zsh:         obsexport completion zsh > "${fpath[1]}/_obsexport"
  fish:        obsexport completion fish | source
  powershell:  obsexport completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}

// registerNotebookCompletions wires the completions shared by commands that
// read a notebook: --ignore patterns, export files for --file, and no file
// completion for the notebook argument.
func registerNotebookCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = cobra.NoFileCompletions
	_ = cmd.RegisterFlagCompletionFunc("ignore", completeIgnore)
	_ = cmd.MarkFlagFilename("file", "js", "ojs")
}

// completeFormats offers the output formats for --type.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, f := range render.Formats {
		if strings.HasPrefix(string(f), toComplete) {
			out = append(out, string(f)+"\t"+formatHelp[f])
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeIgnore offers globs matching the cells a notebook generates for
// views, mutables and unnamed cells.
func completeIgnore(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	patterns := make([]string, 0, len(render.ViewStatePrefixes)+1)
	for _, p := range render.ViewStatePrefixes {
		patterns = append(patterns, p+"*")
	}
	patterns = append(patterns, "__CELL_*__")

	var out []string
	for _, p := range patterns {
		if strings.HasPrefix(p, toComplete) {
			out = append(out, p)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
