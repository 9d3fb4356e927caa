package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Icontee/wake/bindgen"
	"github.com/Icontee/wake/logging/colors"
	"github.com/spf13/cobra"
)

// initCmd represents the command provider for init
var initCmd = &cobra.Command{
	Use:           "init",
	Short:         "Initializes a generation configuration",
	Long:          `Initializes a generation configuration`,
	Args:          cmdValidateInitArgs,
	RunE:          cmdRunInit,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Output path for the config file
	initCmd.Flags().String("out", "", "output path for the new generation configuration file")

	// Add the init command and its associated flags to the root command
	rootCmd.AddCommand(initCmd)
}

// cmdValidateInitArgs validates CLI arguments
func cmdValidateInitArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		err = fmt.Errorf("init does not accept any positional arguments, only flags and their associated values")
		cmdLogger.Error("Failed to validate args to the init command", err)
		return err
	}
	return nil
}

// cmdRunInit executes the init CLI command and writes a default generation configuration, either at the path
// provided with --out or as wake.json in the working directory.
func cmdRunInit(cmd *cobra.Command, args []string) error {
	outputPath, err := cmd.Flags().GetString("out")
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}
	if outputPath == "" {
		workingDirectory, err := os.Getwd()
		if err != nil {
			cmdLogger.Error("Failed to run the init command", err)
			return err
		}
		outputPath = filepath.Join(workingDirectory, DefaultGenerationConfigFilename)
	}

	generationConfig, err := bindgen.DefaultGenerationConfig()
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}
	if err = generationConfig.WriteToFile(outputPath); err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}

	cmdLogger.Info("Project configuration successfully output to: ", colors.Bold, outputPath, colors.Reset)
	return nil
}
