package cmd

import (
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/kilnworks/kiln/packaging/config"
	"github.com/kilnworks/kiln/utils"
	"github.com/spf13/cobra"
)

// updateCompilationToolchain will update the compilation toolchain in the projectConfig if the --toolchain flag is
// used in the command
func updateCompilationToolchain(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	// If --toolchain was used
	if cmd.Flags().Changed("toolchain") {
		// Get the new toolchain
		newToolchain, err := cmd.Flags().GetString("toolchain")
		if err != nil {
			return err
		}

		// Get the backend configuration for the projectConfig
		backendConfig, err := projectConfig.Compilation.GetBackendConfig()
		if err != nil {
			return err
		}

		// Update the toolchain
		backendConfig.SetToolchain(newToolchain)

		// Update the compilation config
		err = projectConfig.Compilation.SetBackendConfig(backendConfig)
		if err != nil {
			return err
		}
	}
	return nil
}

// moduleFileExtension returns the conventional file extension for a binary module emitted with the
// provided build mode, used when deriving an output path from a source file path.
func moduleFileExtension(buildMode types.BuildMode) string {
	switch buildMode {
	case types.BuildModePlugin:
		return ".so"
	case types.BuildModeArchive:
		return ".a"
	case types.BuildModeWASM:
		return ".wasm"
	default:
		// Executables only carry an extension on Windows.
		if utils.IsWindowsEnvironment() {
			return ".exe"
		}
		return ""
	}
}
