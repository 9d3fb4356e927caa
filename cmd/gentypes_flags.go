package cmd

import (
	"os"
	"path/filepath"

	"github.com/Icontee/wake/bindgen"
	"github.com/spf13/cobra"
)

// addGentypesFlags adds the various flags for the gentypes command
func addGentypesFlags() {
	// Prevent alphabetical sorting of usage message
	gentypesCmd.Flags().SortFlags = false

	// Config file
	gentypesCmd.Flags().String("config", "", "path to config file")

	// Compiled build document
	gentypesCmd.Flags().String("build", "", "path to the compiled build document (default is "+DefaultBuildFilename+" in the working directory)")

	// Output directory
	gentypesCmd.Flags().String("out", "", "directory the generated bindings are written to (overrides the config file)")

	// Generated package import prefix
	gentypesCmd.Flags().String("package-prefix", "", "import path prefix of the generated packages (overrides the config file)")

	// Runtime library import path
	gentypesCmd.Flags().String("runtime-package", "", "import path of the runtime library the bindings call into (overrides the config file)")

	// Transaction-handle deploy variants
	gentypesCmd.Flags().Bool("no-tx", false, "do not emit the transaction-handle deploy variants")
}

// updateGenerationConfigWithFlags will update the generation config with any CLI flags that were used, and
// resolve the compiled build document path. Returns the build path, or an error if one occurs.
func updateGenerationConfigWithFlags(cmd *cobra.Command, generationConfig *bindgen.GenerationConfig) (string, error) {
	// If --out was used
	if cmd.Flags().Changed("out") {
		outputDirectory, err := cmd.Flags().GetString("out")
		if err != nil {
			return "", err
		}
		generationConfig.OutputDirectory = outputDirectory
	}

	// If --package-prefix was used
	if cmd.Flags().Changed("package-prefix") {
		packagePrefix, err := cmd.Flags().GetString("package-prefix")
		if err != nil {
			return "", err
		}
		generationConfig.PackagePrefix = packagePrefix
	}

	// If --runtime-package was used
	if cmd.Flags().Changed("runtime-package") {
		runtimePackage, err := cmd.Flags().GetString("runtime-package")
		if err != nil {
			return "", err
		}
		generationConfig.RuntimePackage = runtimePackage
	}

	// If --no-tx was used
	if cmd.Flags().Changed("no-tx") {
		noTx, err := cmd.Flags().GetBool("no-tx")
		if err != nil {
			return "", err
		}
		generationConfig.ReturnTransaction = !noTx
	}

	// Resolve the build document path, defaulting next to the working directory
	buildPath, err := cmd.Flags().GetString("build")
	if err != nil {
		return "", err
	}
	if buildPath == "" {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return "", err
		}
		buildPath = filepath.Join(workingDirectory, DefaultBuildFilename)
	}
	return buildPath, nil
}
