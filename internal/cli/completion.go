package cli

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/color"
	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for orgchart.

Bash:
  $ source <(orgchart completion bash)
  # permanently (Linux):
  $ orgchart completion bash > /etc/bash_completion.d/orgchart

Zsh:
  # once, if completion is not enabled yet:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ orgchart completion zsh > "${fpath[1]}/_orgchart"

Fish:
  $ orgchart completion fish > ~/.config/fish/completions/orgchart.fish

PowerShell:
  PS> orgchart completion powershell | Out-String | Invoke-Expression

Completions include the values of --color, --type, --format and
--input-format.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// fixedCompletion completes a flag from a fixed list of values.
func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// colorModeNames lists the color modes as accepted by --color.
func colorModeNames() []string {
	names := make([]string, len(color.Modes))
	for i, m := range color.Modes {
		names[i] = m.String()
	}
	return names
}

// formatNames lists the output formats in a stable order.
func formatNames() []string {
	names := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// registerViewCompletions adds value completion to the view flags of cmd.
func registerViewCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("color", fixedCompletion(colorModeNames()...))
	_ = cmd.RegisterFlagCompletionFunc("input-format", fixedCompletion("auto", "json", "yaml"))
}

// registerRenderCompletions adds value completion to the render flags of cmd.
func registerRenderCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(formatNames()...))
	_ = cmd.RegisterFlagCompletionFunc("type", fixedCompletion(graph.VizTypeTree, graph.VizTypeNodelink))
}
