package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kilnworks/kiln/cmd/exitcodes"
	"github.com/kilnworks/kiln/compilation"
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/kilnworks/kiln/logging/colors"
	"github.com/kilnworks/kiln/logging/formatters"
	"github.com/kilnworks/kiln/packaging"
	"github.com/kilnworks/kiln/packaging/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// packageCmd represents the command provider for compiling a source file into a named package
// module carrying its descriptor
var packageCmd = &cobra.Command{
	Use:               "package [source file]",
	Short:             "Compiles a Go source file into a named module embedding a package descriptor",
	Long:              `Compiles a Go source file into a named module embedding a package descriptor`,
	Args:              cmdValidatePackageArgs,
	ValidArgsFunction: cmdValidPackageArgs,
	RunE:              cmdRunPackage,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the package command
	err := addPackageFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the package command", err)
	}

	// Add the package command and its associated flags to the root command
	rootCmd.AddCommand(packageCmd)
}

// cmdValidPackageArgs will return which flags and sub-commands are valid for dynamic completion for the package command
func cmdValidPackageArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Gather a list of flags that are available to be used in the current command but have not been used yet
	var unusedFlags []string

	// Examine all the flags, and add any flags that have not been set in the current command line
	// to a list of unused flags
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			// When adding a flag to a command, include the "--" prefix to indicate that it is a flag
			// and not a positional argument.
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})

	// While the source file argument has not been provided, keep default file completion enabled alongside
	// the flag suggestions so the user can complete the path of the file to compile.
	if len(args) == 0 {
		return unusedFlags, cobra.ShellCompDirectiveDefault
	}

	// Provide a list of flags that can be used in the current command (but have not been used yet)
	// for autocompletion suggestions
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// cmdValidatePackageArgs makes sure that a single source file argument was provided to the package command
func cmdValidatePackageArgs(cmd *cobra.Command, args []string) error {
	// Make sure we have exactly one positional arg, the path of the source file to compile
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		err = fmt.Errorf("package accepts exactly one positional argument, the path of the Go source file to compile")
		cmdLogger.Error("Failed to validate args to the package command", err)
		return err
	}
	return nil
}

// cmdRunPackage executes the CLI package command. Project configuration discovery follows the same
// possibilities as the build command: a custom config file (via --config), the default (kiln.json),
// or the default project configuration when neither exists.
func cmdRunPackage(cmd *cobra.Command, args []string) error {
	var projectConfig *config.ProjectConfig

	// The package name and descriptor file are both required to assemble a package module
	packageName, err := cmd.Flags().GetString("name")
	if err != nil {
		cmdLogger.Error("Failed to run the package command", err)
		return err
	}
	descriptorPath, err := cmd.Flags().GetString("descriptor")
	if err != nil {
		cmdLogger.Error("Failed to run the package command", err)
		return err
	}
	if packageName == "" || descriptorPath == "" {
		err = fmt.Errorf("package requires both the --name and --descriptor flags")
		cmdLogger.Error("Failed to run the package command", err)
		return err
	}

	// Check to see if --config flag was used and store the value of --config flag
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		cmdLogger.Error("Failed to run the package command", err)
		return err
	}

	// If --config was not used, look for `kiln.json` in the current work directory
	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			cmdLogger.Error("Failed to run the package command", err)
			return err
		}
		configPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	// Check to see if the file exists at configPath
	_, existenceError := os.Stat(configPath)

	// Possibility #1: File was found
	if existenceError == nil {
		// Try to read the configuration file and throw an error if something goes wrong
		cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		projectConfig, err = config.ReadProjectConfigFromFile(configPath)
		if err != nil {
			cmdLogger.Error("Failed to run the package command", err)
			return err
		}
	}

	// Possibility #2: If the --config flag was used, and we couldn't find the file, we'll throw an error
	if configFlagUsed && existenceError != nil {
		cmdLogger.Error("Failed to run the package command", existenceError)
		return existenceError
	}

	// Possibility #3: --config flag was not used and kiln.json was not found, so use the default project config
	if !configFlagUsed && existenceError != nil {
		cmdLogger.Warn(fmt.Sprintf("Unable to find the config file at %v, will use the default project configuration for the "+
			"%v compilation backend instead", configPath, DefaultCompilationBackend))

		projectConfig, err = config.GetDefaultProjectConfig(DefaultCompilationBackend)
		if err != nil {
			cmdLogger.Error("Failed to run the package command", err)
			return err
		}
	}

	// A configuration file may omit the compilation section entirely, so attach the default backend
	// before overlaying flags that reach into it.
	if projectConfig.Compilation == nil {
		projectConfig.Compilation, err = compilation.NewCompilationConfig(DefaultCompilationBackend)
		if err != nil {
			cmdLogger.Error("Failed to run the package command", err)
			return err
		}
	}

	// Update the project configuration given whatever flags were set using the CLI
	err = updateProjectConfigWithPackageFlags(cmd, projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the package command", err)
		return err
	}

	// Read the source file to compile
	sourcePath := args[0]
	sourceCode, err := os.ReadFile(sourcePath)
	if err != nil {
		cmdLogger.Error("Failed to run the package command", err)
		return err
	}

	// Resolve the output path. Unless --out was provided, the module is written beside the source
	// file and named for the package.
	outputPath, err := cmd.Flags().GetString("out")
	if err != nil {
		cmdLogger.Error("Failed to run the package command", err)
		return err
	}
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(sourcePath), packageName+moduleFileExtension(projectConfig.Packaging.BuildMode))
	}

	// Create our compilation service. This resolves the module references all compilations will be
	// performed against, exactly once.
	compiler, err := packaging.NewCompiler(*projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the package command", err)
		return err
	}

	// If a timeout was requested, bound the compilation with it
	ctx := context.Background()
	timeout, err := cmd.Flags().GetInt("timeout")
	if err != nil {
		cmdLogger.Error("Failed to run the package command", err)
		return err
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	// Open the descriptor file, whose contents are embedded into the emitted module
	descriptorFile, err := os.Open(descriptorPath)
	if err != nil {
		cmdLogger.Error("Failed to run the package command", err)
		return err
	}
	defer descriptorFile.Close()

	// Compile the package module
	artifact, err := compiler.CompilePackage(ctx, packageName, descriptorFile, string(sourceCode))
	if err != nil {
		// If the compiler rejected the source, render its diagnostics and exit with a dedicated code.
		// The wrapped error is nil as the rejection was already reported here.
		var compilationErr *types.CompilationError
		if errors.As(err, &compilationErr) {
			cmdLogger.Error("Failed to compile the source file, the compiler reported the following diagnostics:\n",
				formatters.DiagnosticsFormatter(compilationErr.Diagnostics), "\n",
				formatters.DiagnosticsSummaryFormatter(compilationErr.Diagnostics))
			return exitcodes.NewErrorWithExitCode(nil, exitcodes.ExitCodeCompilationFailed)
		}
		cmdLogger.Error("Failed to run the package command", err)
		return err
	}

	// Write the emitted module to the output path
	err = artifact.WriteToFile(outputPath)
	if err != nil {
		cmdLogger.Error("Failed to run the package command", err)
		return err
	}

	// Print a success message
	if absoluteOutputPath, err := filepath.Abs(outputPath); err == nil {
		outputPath = absoluteOutputPath
	}
	cmdLogger.Info("Package module successfully output to: ", colors.Bold, outputPath, colors.Reset)
	return nil
}
