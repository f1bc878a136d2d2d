package cmd

import (
	"fmt"

	"github.com/kilnworks/kiln/compilation/types"
	"github.com/kilnworks/kiln/packaging/config"
	"github.com/spf13/cobra"
)

// addInitFlags adds the various flags for the init command
func addInitFlags() error {
	// Output path for configuration
	initCmd.Flags().String("out", "", "output path for the new project configuration file")

	// Build mode recorded in the new configuration
	initCmd.Flags().String("build-mode", "",
		fmt.Sprintf("kind of binary module the new configuration emits (default is %q)", types.BuildModePlugin))

	return nil
}

// updateProjectConfigWithInitFlags will update the given projectConfig with any CLI arguments that were provided to the init command
func updateProjectConfigWithInitFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	// Update the build mode if necessary
	if cmd.Flags().Changed("build-mode") {
		newBuildMode, err := cmd.Flags().GetString("build-mode")
		if err != nil {
			return err
		}
		projectConfig.Packaging.BuildMode = types.BuildMode(newBuildMode)
	}

	return nil
}
