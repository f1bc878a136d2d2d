package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion code for the specified shell",
	Long: `To load completions:

Bash:

  $ source <(kiln completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ kiln completion bash > /etc/bash_completion.d/kiln
  # macOS:
  $ kiln completion bash > $(brew --prefix)/etc/bash_completion.d/kiln

Zsh:

  $ source <(kiln completion zsh)

Fish:

  $ kiln completion fish | source`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		default:
			err := fmt.Errorf("completion was provided invalid shell argument '%s' (options: bash, zsh, fish)", args[0])
			cmdLogger.Error("Failed to run the completion command", err)
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
