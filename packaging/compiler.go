package packaging

import (
	"context"
	"go/parser"
	"go/scanner"
	"go/token"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/kilnworks/kiln/compilation"
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/kilnworks/kiln/logging"
	"github.com/kilnworks/kiln/logging/colors"
	"github.com/kilnworks/kiln/packaging/config"
	"github.com/kilnworks/kiln/utils"
	"github.com/pkg/errors"
)

// GeneratedModuleName describes the module identity used when compiling raw source text
// which carries no caller-provided name.
const GeneratedModuleName = "generatedassembly"

// Compiler describes a compilation service. Its reference set is gathered once at
// construction and its emission options are fixed there as well, so every compilation the
// service performs is reproducible against the same inputs.
type Compiler struct {
	// config describes the project configuration the service was constructed from.
	config config.ProjectConfig

	// references describes the immutable reference set every compilation resolves imports
	// against.
	references *types.ReferenceSet

	// options describes the emission options fixed at construction.
	options types.CompilationOptions

	// logger describes the compiler's log object that can be used to log events
	logger *logging.Logger
}

// NewCompiler returns an instance of a new compilation service, constructed from the
// provided project configuration. Reference resolution happens here and never again for
// the lifetime of the service.
func NewCompiler(projectConfig config.ProjectConfig) (*Compiler, error) {
	// Disable colored output if requested.
	if projectConfig.Logging.NoColor {
		colors.DisableColor()
	}

	// Validate our provided config
	err := projectConfig.Validate()
	if err != nil {
		return nil, err
	}

	// Update the log level of the global logger now
	logging.GlobalLogger.SetLevel(projectConfig.Logging.Level)

	// Add stdout as an unstructured output stream for the global logger
	logging.GlobalLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, !projectConfig.Logging.NoColor)

	// If the log directory is a non-empty string, create a file for unstructured, non-colorized file logging
	if projectConfig.Logging.LogDirectory != "" {
		filename := "kiln-" + strconv.FormatInt(time.Now().Unix(), 10) + ".log"
		file, err := utils.CreateFile(projectConfig.Logging.LogDirectory, filename)
		if err != nil {
			return nil, err
		}
		logging.GlobalLogger.AddWriter(file, logging.UNSTRUCTURED, false)
	}

	// Gather the reference set the service will compile against. This happens exactly once;
	// compilations never re-resolve references.
	references, err := compilation.ResolveReferences(projectConfig.Packaging.References)
	if err != nil {
		return nil, err
	}

	// Create and return our compiler instance.
	compiler := &Compiler{
		config:     projectConfig,
		references: references,
		options:    projectConfig.Packaging.Options(),
		logger:     logging.GlobalLogger.NewSubLogger("module", logging.PACKAGING_SERVICE),
	}
	compiler.logger.Debug("Resolved ", colors.Bold, references.Count(), colors.Reset, " compilation references against toolchain version ", references.GoVersion())
	return compiler, nil
}

// References returns the reference set gathered when the service was constructed.
func (c *Compiler) References() *types.ReferenceSet {
	return c.references
}

// Options returns the emission options fixed when the service was constructed.
func (c *Compiler) Options() types.CompilationOptions {
	return c.options
}

// Compile compiles the provided source text into a binary module using the service's fixed
// references and options. Returns the emitted artifact, or an error. Compiler rejections
// are reported as a *types.CompilationError whose message joins every diagnostic the
// compiler produced.
func (c *Compiler) Compile(ctx context.Context, sourceCode string) (*types.Artifact, error) {
	return c.compile(ctx, GeneratedModuleName, sourceCode, nil)
}

// CompilePackage compiles the provided source text into a binary module which embeds the
// provided package descriptor as a public resource, so hosts loading the module can read
// its packaging information back out. The module takes the package's name as its identity.
// Returns the emitted artifact, or an error.
func (c *Compiler) CompilePackage(ctx context.Context, packageName string, descriptor io.Reader, sourceCode string) (*types.Artifact, error) {
	if err := types.ValidateModuleName(packageName); err != nil {
		return nil, err
	}

	// The descriptor is embedded verbatim, so it is read fully up front.
	descriptorData, err := io.ReadAll(descriptor)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resources := []types.EmbeddedResource{
		{
			Name:   types.PackageDescriptorName(packageName),
			Data:   descriptorData,
			Public: true,
		},
	}
	return c.compile(ctx, packageName, sourceCode, resources)
}

// CompileToFile compiles the source file at the provided path into a binary module and
// writes the emitted module to the provided output path. The module takes its name from
// the source file's base name. Returns the emitted artifact, or an error.
func (c *Compiler) CompileToFile(ctx context.Context, sourcePath string, outputPath string) (*types.Artifact, error) {
	sourceCode, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	artifact, err := c.compile(ctx, utils.GetFileNameWithoutExtension(sourcePath), string(sourceCode), nil)
	if err != nil {
		return nil, err
	}

	err = artifact.WriteToFile(outputPath)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Wrote ", colors.Bold, artifact.ModuleName, colors.Reset, " to ", outputPath)
	return artifact, nil
}

// compile performs a single compilation of the provided source text under the provided
// module name, embedding the provided resources.
func (c *Compiler) compile(ctx context.Context, moduleName string, sourceCode string, resources []types.EmbeddedResource) (*types.Artifact, error) {
	// Check if the context was cancelled before doing any work on the caller's behalf.
	if utils.CheckContextDone(ctx) {
		return nil, ctx.Err()
	}

	unit, err := c.createCompilationUnit(moduleName, sourceCode, resources)
	if err != nil {
		return nil, err
	}

	// Tag every log event from this compilation with a unique request id.
	requestLogger := c.logger.NewSubLogger("request", uuid.New().String())
	requestLogger.Debug("Compiling ", colors.Bold, moduleName, colors.Reset, " with backend '", c.config.Compilation.Backend, "'")

	artifact, rawOutput, err := c.config.Compilation.Compile(ctx, unit)
	if rawOutput != "" {
		requestLogger.Trace("Toolchain output:\n", rawOutput)
	}
	if err != nil {
		var compilationErr *types.CompilationError
		if errors.As(err, &compilationErr) {
			requestLogger.Debug("Compilation rejected with ", colors.Bold, compilationErr.ErrorCount(), colors.Reset, " error(s)")
		}
		return nil, err
	}

	digest, err := artifact.Digest()
	if err != nil {
		return nil, err
	}
	requestLogger.Info("Compiled ", colors.Bold, moduleName, colors.Reset, " (", artifact.Size(), " bytes, digest ", digest, ")")
	return artifact, nil
}

// createCompilationUnit assembles the compilation unit for a single compilation, validating
// the module name and parsing the source text so malformed input is rejected with
// structured diagnostics before any backend toolchain is invoked. The package clause parsed
// out of the source names the package the generated resources file is declared in.
func (c *Compiler) createCompilationUnit(moduleName string, sourceCode string, resources []types.EmbeddedResource) (*types.CompilationUnit, error) {
	if err := types.ValidateModuleName(moduleName); err != nil {
		return nil, err
	}

	unit := &types.CompilationUnit{
		ModuleName: moduleName,
		Source:     sourceCode,
		Resources:  resources,
		References: c.references,
		Options:    c.options,
	}

	fileSet := token.NewFileSet()
	astFile, err := parser.ParseFile(fileSet, unit.SourceFileName(), sourceCode, parser.AllErrors)
	if err != nil {
		var errorList scanner.ErrorList
		if errors.As(err, &errorList) {
			diagnostics := utils.SliceSelect(errorList, func(e *scanner.Error) types.Diagnostic {
				return types.Diagnostic{
					Severity: types.SeverityError,
					Message:  e.Msg,
					File:     e.Pos.Filename,
					Line:     e.Pos.Line,
					Column:   e.Pos.Column,
				}
			})
			return nil, types.NewCompilationError(diagnostics)
		}
		return nil, types.NewCompilationError([]types.Diagnostic{
			{Severity: types.SeverityError, Message: err.Error()},
		})
	}
	unit.PackageName = astFile.Name.Name
	return unit, nil
}
