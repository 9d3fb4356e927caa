package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Icontee/wake/bindgen"
	"github.com/Icontee/wake/cmd/exitcodes"
	"github.com/Icontee/wake/compilation"
	"github.com/Icontee/wake/logging"
	"github.com/Icontee/wake/logging/colors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// gentypesCmd represents the command provider for binding generation
var gentypesCmd = &cobra.Command{
	Use:               "gentypes",
	Short:             "Generates typed bindings from a compiled build",
	Long:              `Generates typed bindings from a compiled build`,
	Args:              cmdValidateGentypesArgs,
	ValidArgsFunction: cmdValidGentypesArgs,
	RunE:              cmdRunGentypes,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the gentypes command
	addGentypesFlags()

	// Add the gentypes command and its associated flags to the root command
	rootCmd.AddCommand(gentypesCmd)
}

// cmdValidGentypesArgs will return which flags and sub-commands are valid for dynamic completion for the
// gentypes command
func cmdValidGentypesArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Gather a list of flags that are available to be used in the current command but have not been used yet
	var unusedFlags []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// cmdValidateGentypesArgs makes sure that there are no positional arguments provided to the gentypes command
func cmdValidateGentypesArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		err = fmt.Errorf("gentypes does not accept any positional arguments, only flags and their associated values")
		cmdLogger.Error("Failed to validate args to the gentypes command", err)
		return err
	}
	return nil
}

// cmdRunGentypes executes the CLI gentypes command and navigates through the following possibilities:
// #1: We will search for either a custom config file (via --config) or the default (wake.json).
// If we find it, read it. If we can't read it, throw an error.
// #2: If a custom file was provided (--config was used), and we can't find the file, throw an error.
// #3: If wake.json can't be found, use the default generation configuration.
func cmdRunGentypes(cmd *cobra.Command, args []string) error {
	var generationConfig *bindgen.GenerationConfig

	// Check to see if --config flag was used and store the value of --config flag
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		cmdLogger.Error("Failed to run the gentypes command", err)
		return err
	}

	// If --config was not used, look for `wake.json` in the current work directory
	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			cmdLogger.Error("Failed to run the gentypes command", err)
			return err
		}
		configPath = filepath.Join(workingDirectory, DefaultGenerationConfigFilename)
	}

	// Check to see if the file exists at configPath
	_, existenceError := os.Stat(configPath)

	// Possibility #1: File was found
	if existenceError == nil {
		cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		generationConfig, err = bindgen.ReadGenerationConfig(configPath)
		if err != nil {
			cmdLogger.Error("Failed to run the gentypes command", err)
			return err
		}
	}

	// Possibility #2: If the --config flag was used, and we couldn't find the file, we'll throw an error
	if configFlagUsed && existenceError != nil {
		cmdLogger.Error("Failed to run the gentypes command", existenceError)
		return existenceError
	}

	// Possibility #3: --config flag was not used and wake.json was not found, so use the default config
	if !configFlagUsed && existenceError != nil {
		generationConfig, err = bindgen.DefaultGenerationConfig()
		if err != nil {
			cmdLogger.Error("Failed to run the gentypes command", err)
			return err
		}
	}

	// Update the configuration with any flags the user provided
	buildPath, err := updateGenerationConfigWithFlags(cmd, generationConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the gentypes command", err)
		return err
	}

	// Enable console logging for the run
	logging.GlobalLogger = logging.NewLogger(zerolog.InfoLevel, true)
	logging.GlobalLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED)

	build, err := compilation.LoadBuild(buildPath)
	if err != nil {
		cmdLogger.Error("Failed to load the compiled build", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	generator, err := bindgen.NewGenerator(generationConfig)
	if err != nil {
		cmdLogger.Error("Failed to create the binding generator", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	if err = generator.Generate(build); err != nil {
		cmdLogger.Error("Binding generation failed", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeGenerationError)
	}
	return nil
}
