package logging

// These constants are used to identify the various services that may do some logging. Each service creates its own
// sub-logger keyed on the "module" field so logs remain grep-able per package.
const (
	// COMPILATION_SERVICE is the constant used to identify the compilation package
	COMPILATION_SERVICE = "compilation"
	// PACKAGING_SERVICE is the constant used to identify the packaging package
	PACKAGING_SERVICE = "packaging"
	// CLI_SERVICE is the constant used to identify the cmd package
	CLI_SERVICE = "cli"
)
