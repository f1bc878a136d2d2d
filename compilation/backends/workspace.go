package backends

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kilnworks/kiln/compilation/types"
	"github.com/kilnworks/kiln/utils"
	"golang.org/x/exp/slices"
)

// companionFileName describes the name of the generated source file which declares the
// embedded resources of a compilation unit within its scratch workspace.
const companionFileName = "kiln_resources.go"

// createWorkspace creates a uniquely named scratch directory for a single compilation and
// returns its path. Workspaces are independent per compilation, so concurrent compilations
// never share any on-disk state. If buildDirectory is empty, the system temporary directory
// is used as the parent.
func createWorkspace(buildDirectory string) (string, error) {
	if buildDirectory == "" {
		buildDirectory = os.TempDir()
	}

	// Make the parent directory, if it does not exist already.
	err := utils.MakeDirectory(buildDirectory)
	if err != nil {
		return "", err
	}

	// Create the workspace itself under a unique name.
	workspace := filepath.Join(buildDirectory, "kiln-"+uuid.New().String())
	err = os.Mkdir(workspace, 0700)
	if err != nil {
		return "", fmt.Errorf("could not create a scratch workspace: %v", err)
	}
	return workspace, nil
}

// writeUnitInputs writes everything a toolchain needs to build the provided compilation unit
// into the workspace: the unit's source text, its embedded resources, a generated source
// file declaring the resource embeds, and a synthesized module definition pinning the unit's
// references. The metadata, when provided, is embedded as an additional internal resource.
func writeUnitInputs(workspace string, unit *types.CompilationUnit, languageVersion string, metadata *types.ArtifactMetadata) error {
	// Write the unit's source text under its canonical file name.
	if strings.EqualFold(unit.SourceFileName(), companionFileName) {
		return fmt.Errorf("module name '%s' collides with the generated resources file", unit.ModuleName)
	}
	err := os.WriteFile(filepath.Join(workspace, unit.SourceFileName()), []byte(unit.Source), 0644)
	if err != nil {
		return fmt.Errorf("could not write the unit source file: %v", err)
	}

	// Collect the resources to embed, appending the build metadata as an internal resource.
	resources := slices.Clone(unit.Resources)
	if metadata != nil {
		encoded, err := types.EncodeArtifactMetadata(*metadata)
		if err != nil {
			return fmt.Errorf("could not encode artifact metadata: %v", err)
		}
		resources = append(resources, types.EmbeddedResource{
			Name:   types.MetadataResourceName,
			Data:   encoded,
			Public: false,
		})
	}

	// Write each resource into the workspace so the embed directives can pick it up. Resource
	// names must not collide with the files the backend writes itself, or with each other, as
	// either collision would silently replace a build input on disk.
	seenNames := make(map[string]struct{}, len(resources))
	for _, resource := range resources {
		if err := resource.Validate(); err != nil {
			return err
		}
		switch strings.ToLower(resource.Name) {
		case strings.ToLower(unit.SourceFileName()), companionFileName, "go.mod", "go.sum":
			return fmt.Errorf("embedded resource name '%s' collides with a build input", resource.Name)
		}
		if _, nameUsed := seenNames[resource.Name]; nameUsed {
			return fmt.Errorf("embedded resource name '%s' is used more than once", resource.Name)
		}
		seenNames[resource.Name] = struct{}{}

		err = os.WriteFile(filepath.Join(workspace, resource.Name), resource.Data, 0644)
		if err != nil {
			return fmt.Errorf("could not write embedded resource '%s': %v", resource.Name, err)
		}
	}

	// Generate the companion source file declaring the embeds, when there are any.
	if len(resources) > 0 {
		if unit.PackageName == "" {
			return fmt.Errorf("cannot embed resources: the compilation unit carries no package name")
		}
		companion := renderResourceEmbeds(unit.PackageName, resources)
		err = os.WriteFile(filepath.Join(workspace, companionFileName), []byte(companion), 0644)
		if err != nil {
			return fmt.Errorf("could not write the generated resources file: %v", err)
		}
	}

	// Synthesize the module definition the unit is built within.
	err = os.WriteFile(filepath.Join(workspace, "go.mod"), []byte(renderGoMod(unit, languageVersion)), 0644)
	if err != nil {
		return fmt.Errorf("could not write the synthesized module definition: %v", err)
	}
	return nil
}

// renderGoMod synthesizes the go.mod contents for a compilation unit: the unit's module
// identity, the language version its source is compiled as, and a requirement for every
// reference it may resolve imports against.
func renderGoMod(unit *types.CompilationUnit, languageVersion string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "module %s\n\n", unit.ModuleName)
	fmt.Fprintf(&builder, "go %s\n", languageVersion)

	// Pin the unit's references. Versions the host build could not attribute, such as
	// unversioned development builds, cannot be required from a scratch module.
	var references []types.Reference
	if unit.References != nil {
		references = unit.References.References()
	}
	requirable := utils.SliceWhere(references, func(reference types.Reference) bool {
		return reference.Version != "" && reference.Version != "(devel)"
	})
	if len(requirable) > 0 {
		builder.WriteString("\nrequire (\n")
		for _, reference := range requirable {
			fmt.Fprintf(&builder, "\t%s %s\n", reference.Path, reference.Version)
		}
		builder.WriteString(")\n")
	}

	// Exact identity carries the host's replacement directives, so the unit links the exact
	// module bodies the host resolved. Local directory replacements are unreachable from a
	// scratch workspace and are skipped.
	if unit.Options.IdentityPolicy == types.IdentityExact {
		replaced := utils.SliceWhere(requirable, func(reference types.Reference) bool {
			return reference.IsReplaced() && reference.ReplaceVersion != ""
		})
		if len(replaced) > 0 {
			builder.WriteString("\nreplace (\n")
			for _, reference := range replaced {
				fmt.Fprintf(&builder, "\t%s => %s %s\n", reference.Path, reference.ReplacePath, reference.ReplaceVersion)
			}
			builder.WriteString(")\n")
		}
	}
	return builder.String()
}

// renderResourceEmbeds generates the companion source file declaring the unit's embedded
// resources. Public resources are exposed through the exported KilnResources filesystem so
// hosts loading the module can read them; the remainder stay internal. A generated init
// reads every resource once, keeping the embedded data reachable so it survives linker
// dead-code elimination in every build mode.
func renderResourceEmbeds(packageName string, resources []types.EmbeddedResource) string {
	// Partition the resource names by visibility.
	var publicNames, internalNames, allNames []string
	for _, resource := range resources {
		if resource.Public {
			publicNames = append(publicNames, resource.Name)
		} else {
			internalNames = append(internalNames, resource.Name)
		}
		allNames = append(allNames, resource.Name)
	}

	var builder strings.Builder
	builder.WriteString("// Code generated by kiln. DO NOT EDIT.\n\n")
	fmt.Fprintf(&builder, "package %s\n\n", packageName)
	builder.WriteString("import \"embed\"\n\n")

	if len(publicNames) > 0 {
		fmt.Fprintf(&builder, "//go:embed %s\n", quotedPatterns(publicNames))
		builder.WriteString("// KilnResources exposes the public resources embedded in this module.\n")
		builder.WriteString("var KilnResources embed.FS\n\n")
	}
	if len(internalNames) > 0 {
		fmt.Fprintf(&builder, "//go:embed %s\n", quotedPatterns(internalNames))
		builder.WriteString("var kilnInternalResources embed.FS\n\n")
	}

	// List every embedded resource name.
	builder.WriteString("// KilnResourceNames lists the resources embedded in this module.\n")
	builder.WriteString("var KilnResourceNames = []string{")
	for i, name := range allNames {
		if i > 0 {
			builder.WriteString(", ")
		}
		fmt.Fprintf(&builder, "%q", name)
	}
	builder.WriteString("}\n\n")

	// Emit the accessor over whichever filesystems were declared.
	builder.WriteString("// KilnResource returns the contents of an embedded resource by name.\n")
	builder.WriteString("func KilnResource(name string) ([]byte, error) {\n")
	switch {
	case len(publicNames) > 0 && len(internalNames) > 0:
		builder.WriteString("\tif data, err := KilnResources.ReadFile(name); err == nil {\n\t\treturn data, nil\n\t}\n")
		builder.WriteString("\treturn kilnInternalResources.ReadFile(name)\n")
	case len(publicNames) > 0:
		builder.WriteString("\treturn KilnResources.ReadFile(name)\n")
	default:
		builder.WriteString("\treturn kilnInternalResources.ReadFile(name)\n")
	}
	builder.WriteString("}\n\n")

	// The generated init reads each resource once, keeping the embedded data reachable so
	// the linker retains it in every build mode.
	builder.WriteString("// The resources are read once during initialization to keep their data linked\n")
	builder.WriteString("// into the final binary.\n")
	builder.WriteString("func init() {\n")
	builder.WriteString("\tfor _, name := range KilnResourceNames {\n")
	builder.WriteString("\t\tif _, err := KilnResource(name); err != nil {\n")
	builder.WriteString("\t\t\tpanic(\"missing embedded resource: \" + name)\n")
	builder.WriteString("\t\t}\n")
	builder.WriteString("\t}\n")
	builder.WriteString("}\n")
	return builder.String()
}

// quotedPatterns renders resource names as quoted go:embed patterns.
func quotedPatterns(names []string) string {
	quoted := utils.SliceSelect(names, func(name string) string {
		return fmt.Sprintf("%q", name)
	})
	return strings.Join(quoted, " ")
}

// outputFileName returns the file name a unit's emitted binary is written under within its
// scratch workspace, keyed on the kind of module being emitted.
func outputFileName(unit *types.CompilationUnit) string {
	switch unit.Options.BuildMode {
	case types.BuildModePlugin:
		return "module.so"
	case types.BuildModeArchive:
		return "module.a"
	case types.BuildModeWASM:
		return "module.wasm"
	default:
		if utils.IsWindowsEnvironment() {
			return "module.exe"
		}
		return "module"
	}
}

// resolveLanguageVersion returns the language version a unit's source is compiled as: the
// version fixed in the unit's options when set, otherwise the provided latest version the
// backend toolchain supports.
func resolveLanguageVersion(unit *types.CompilationUnit, latest string) string {
	if unit.Options.LanguageVersion != "" {
		return unit.Options.LanguageVersion
	}
	return latest
}
