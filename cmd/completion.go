package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [shell]",
	Short: "Generate shell completion code for the specified shell (bash, zsh, fish)",
	Long: `To load completions:

Bash:

  $ source <(wake completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ wake completion bash > /etc/bash_completion.d/wake
  # macOS:
  $ wake completion bash > $(brew --prefix)/etc/bash_completion.d/wake`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		default:
			return fmt.Errorf("unsupported shell %q", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
