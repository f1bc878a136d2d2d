package cmd

import (
	"fmt"
	"strings"

	"github.com/kilnworks/kiln/compilation"
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/kilnworks/kiln/packaging/config"
	"github.com/spf13/cobra"
)

// addBuildFlags adds the various flags for the build command
func addBuildFlags() error {
	// Get the default project config and throw an error if we cant
	defaultConfig, err := config.GetDefaultProjectConfig(DefaultCompilationBackend)
	if err != nil {
		return err
	}

	// Prevent alphabetical sorting of usage message
	buildCmd.Flags().SortFlags = false

	// Config file
	buildCmd.Flags().String("config", "", ConfigFlagDescription)

	// Output path
	buildCmd.Flags().String("out", "",
		"output path for the compiled module (unless provided, the module is written beside the source file)")

	// Compilation backend
	buildCmd.Flags().String("backend", "",
		fmt.Sprintf("compilation backend to use (options: %s. unless a config file is provided, default is %q)",
			strings.Join(compilation.GetSupportedCompilationBackends(), ", "), DefaultCompilationBackend))

	// Toolchain binary
	buildCmd.Flags().String("toolchain", "",
		"name or path of the compiler binary the backend invokes (unless a config file is provided, default is the backend's)")

	// Build mode
	buildCmd.Flags().String("build-mode", "",
		fmt.Sprintf("kind of binary module to emit (unless a config file is provided, default is %q)", defaultConfig.Packaging.BuildMode))

	// Optimization level
	buildCmd.Flags().String("optimization", "",
		fmt.Sprintf("optimization level to compile with (unless a config file is provided, default is %q)", defaultConfig.Packaging.Optimization))

	// Language version
	buildCmd.Flags().String("lang", "",
		"language version the source is compiled as (unless a config file is provided, default is the newest version the toolchain supports)")

	// Timeout
	buildCmd.Flags().Int("timeout", 0,
		"number of seconds to allow the compilation to run for. 0 means that timeout is not enforced")

	// No color
	buildCmd.Flags().Bool("no-color", false, "disables colored console output")
	return nil
}

// updateProjectConfigWithBuildFlags will update the given projectConfig with any CLI arguments that were provided to the build command
func updateProjectConfigWithBuildFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// If --backend was used, replace the compilation configuration with the backend's defaults
	if cmd.Flags().Changed("backend") {
		newBackend, err := cmd.Flags().GetString("backend")
		if err != nil {
			return err
		}

		projectConfig.Compilation, err = compilation.NewCompilationConfig(newBackend)
		if err != nil {
			return err
		}
	}

	// Update the toolchain if necessary
	err = updateCompilationToolchain(cmd, projectConfig)
	if err != nil {
		return err
	}

	// Update the build mode
	if cmd.Flags().Changed("build-mode") {
		newBuildMode, err := cmd.Flags().GetString("build-mode")
		if err != nil {
			return err
		}
		projectConfig.Packaging.BuildMode = types.BuildMode(newBuildMode)
	}

	// Update the optimization level
	if cmd.Flags().Changed("optimization") {
		newOptimization, err := cmd.Flags().GetString("optimization")
		if err != nil {
			return err
		}
		projectConfig.Packaging.Optimization = types.OptimizationLevel(newOptimization)
	}

	// Update the language version
	if cmd.Flags().Changed("lang") {
		projectConfig.Packaging.LanguageVersion, err = cmd.Flags().GetString("lang")
		if err != nil {
			return err
		}
	}

	// Update color mode
	if cmd.Flags().Changed("no-color") {
		projectConfig.Logging.NoColor, err = cmd.Flags().GetBool("no-color")
		if err != nil {
			return err
		}
	}

	return nil
}
