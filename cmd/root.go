package cmd

import (
	"os"

	"github.com/kilnworks/kiln/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootCmd is the root CLI command, which all other commands attach to.
var rootCmd = &cobra.Command{
	Use:   "kiln",
	Short: "A Go source-to-module compilation service",
	Long: "kiln compiles Go source text into binary modules (plugins, executables, archives, or WebAssembly) " +
		"against a fixed set of module references, optionally embedding named resources into the result",
}

// cmdLogger is the logger that will be used for the cmd package
var cmdLogger = logging.NewLogger(zerolog.InfoLevel)

func init() {
	// Setup the logger within the cmd package
	cmdLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, true)
}

// Execute provides an exportable function to invoke the CLI.
func Execute() error {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	return rootCmd.Execute()
}
