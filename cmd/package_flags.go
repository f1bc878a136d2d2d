package cmd

import (
	"fmt"

	"github.com/kilnworks/kiln/compilation/types"
	"github.com/kilnworks/kiln/packaging/config"
	"github.com/spf13/cobra"
)

// addPackageFlags adds the various flags for the package command
func addPackageFlags() error {
	// Get the default project config and throw an error if we cant
	defaultConfig, err := config.GetDefaultProjectConfig(DefaultCompilationBackend)
	if err != nil {
		return err
	}

	// Prevent alphabetical sorting of usage message
	packageCmd.Flags().SortFlags = false

	// Package name
	packageCmd.Flags().String("name", "", "name of the package, used as the emitted module's name")

	// Descriptor file
	packageCmd.Flags().String("descriptor", "", "path to the package descriptor file embedded into the emitted module")

	// Config file
	packageCmd.Flags().String("config", "", ConfigFlagDescription)

	// Output path
	packageCmd.Flags().String("out", "",
		"output path for the compiled module (unless provided, the module is written beside the source file, named for the package)")

	// Build mode
	packageCmd.Flags().String("build-mode", "",
		fmt.Sprintf("kind of binary module to emit (unless a config file is provided, default is %q)", defaultConfig.Packaging.BuildMode))

	// Timeout
	packageCmd.Flags().Int("timeout", 0,
		"number of seconds to allow the compilation to run for. 0 means that timeout is not enforced")

	// No color
	packageCmd.Flags().Bool("no-color", false, "disables colored console output")
	return nil
}

// updateProjectConfigWithPackageFlags will update the given projectConfig with any CLI arguments that were provided to the package command
func updateProjectConfigWithPackageFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update the build mode
	if cmd.Flags().Changed("build-mode") {
		newBuildMode, err := cmd.Flags().GetString("build-mode")
		if err != nil {
			return err
		}
		projectConfig.Packaging.BuildMode = types.BuildMode(newBuildMode)
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
