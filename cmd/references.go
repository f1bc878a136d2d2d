package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kilnworks/kiln/compilation"
	"github.com/kilnworks/kiln/logging/colors"
	"github.com/kilnworks/kiln/packaging"
	"github.com/kilnworks/kiln/packaging/config"
	"github.com/spf13/cobra"
)

// referencesCmd represents the command provider for listing the module references a compilation
// service would resolve for the current project configuration
var referencesCmd = &cobra.Command{
	Use:           "references",
	Short:         "Lists the module references compilations are performed against",
	Long:          `Lists the module references compilations are performed against`,
	Args:          cobra.NoArgs,
	RunE:          cmdRunReferences,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add the config flag, the only flag the references command accepts
	referencesCmd.Flags().String("config", "", ConfigFlagDescription)

	// Add the references command and its associated flags to the root command
	rootCmd.AddCommand(referencesCmd)
}

// cmdRunReferences executes the CLI references command. The project configuration is discovered the
// same way the build command discovers it, the reference set is resolved, and each pinned module is
// printed.
func cmdRunReferences(cmd *cobra.Command, args []string) error {
	var projectConfig *config.ProjectConfig

	// Check to see if --config flag was used and store the value of --config flag
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		cmdLogger.Error("Failed to run the references command", err)
		return err
	}

	// If --config was not used, look for `kiln.json` in the current work directory
	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			cmdLogger.Error("Failed to run the references command", err)
			return err
		}
		configPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	// Check to see if the file exists at configPath
	_, existenceError := os.Stat(configPath)

	// Possibility #1: File was found
	if existenceError == nil {
		cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		projectConfig, err = config.ReadProjectConfigFromFile(configPath)
		if err != nil {
			cmdLogger.Error("Failed to run the references command", err)
			return err
		}
	}

	// Possibility #2: If the --config flag was used, and we couldn't find the file, we'll throw an error
	if configFlagUsed && existenceError != nil {
		cmdLogger.Error("Failed to run the references command", existenceError)
		return existenceError
	}

	// Possibility #3: --config flag was not used and kiln.json was not found, so use the default project config
	if !configFlagUsed && existenceError != nil {
		projectConfig, err = config.GetDefaultProjectConfig(DefaultCompilationBackend)
		if err != nil {
			cmdLogger.Error("Failed to run the references command", err)
			return err
		}
	}

	// A configuration file may omit the compilation section entirely, so attach the default backend
	// before constructing the service.
	if projectConfig.Compilation == nil {
		projectConfig.Compilation, err = compilation.NewCompilationConfig(DefaultCompilationBackend)
		if err != nil {
			cmdLogger.Error("Failed to run the references command", err)
			return err
		}
	}

	// Construct the compilation service, which resolves the reference set exactly once
	compiler, err := packaging.NewCompiler(*projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the references command", err)
		return err
	}

	// Print the runtime version followed by every reference in the set, marking replacements
	references := compiler.References()
	cmdLogger.Info("Resolved ", colors.Bold, references.Count(), colors.Reset, " references against Go ", colors.Bold, references.GoVersion(), colors.Reset)
	for _, reference := range references.References() {
		line := fmt.Sprintf("%s %s", reference.Path, reference.Version)
		if reference.IsReplaced() {
			line = fmt.Sprintf("%s => %s %s", line, reference.ReplacePath, reference.ReplaceVersion)
		}
		cmdLogger.Info(line)
	}
	return nil
}
