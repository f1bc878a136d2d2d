package cmd

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = "kiln.json"

// DefaultCompilationBackend describes the default compilation backend to use if one is not provided
const DefaultCompilationBackend = "gotoolchain"

// ConfigFlagDescription describes the usage of the --config flag, shared by the commands that read a
// project configuration file.
const ConfigFlagDescription = "path to the project configuration file"
