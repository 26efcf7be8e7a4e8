package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pageview/pkg/view"
)

// completionCommand prints shell completion scripts. Document arguments
// complete to JSON files and --mode to the known presentation modes.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for pageview.

  $ source <(pageview completion bash)
  $ pageview completion zsh > "${fpath[1]}/_pageview"
  $ pageview completion fish > ~/.config/fish/completions/pageview.fish
  PS> pageview completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

// completeDocument offers JSON files for the document argument.
func completeDocument(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeMode offers the presentation modes for --mode.
func completeMode(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		view.ModeDocument.String() + "\tstack all pages",
		view.ModeSlide.String() + "\tone page at a time",
	}, cobra.ShellCompDirectiveNoFileComp
}
