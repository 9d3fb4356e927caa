package bindgen

import (
	"encoding/json"
	"os"

	"github.com/Icontee/wake/logging"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GenerationConfig describes the configuration of one binding generation run.
type GenerationConfig struct {
	// OutputDirectory describes the project-root-relative directory the generated bindings are written to. The
	// directory is deleted and recreated wholesale at the start of every run.
	OutputDirectory string `json:"outputDirectory"`

	// ReturnTransaction describes whether state-changing calls in generated bindings default to returning a live
	// transaction handle rather than a decoded result value.
	ReturnTransaction bool `json:"returnTransaction"`

	// RuntimePackage describes the import path of the runtime library the generated bindings call into.
	RuntimePackage string `json:"runtimePackage"`

	// PackagePrefix describes the import path prefix under which the generated packages will be reachable, used
	// when one generated unit imports another.
	PackagePrefix string `json:"packagePrefix"`
}

// DefaultGenerationConfig obtains a default generation configuration.
func DefaultGenerationConfig() (*GenerationConfig, error) {
	config := &GenerationConfig{
		OutputDirectory:   "bindings",
		ReturnTransaction: true,
		RuntimePackage:    "github.com/Icontee/wake/runtime",
		PackagePrefix:     "bindings",
	}
	return config, nil
}

// ReadGenerationConfig reads a JSON-serialized generation configuration from the provided file path.
// Returns the parsed configuration, or an error if one occurs.
func ReadGenerationConfig(path string) (*GenerationConfig, error) {
	logger := logging.NewLogger(zerolog.Disabled, false)
	logger.Info("Reading the generation configuration at path: ", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read the generation configuration")
	}

	config, err := DefaultGenerationConfig()
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "could not parse the generation configuration")
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// WriteToFile writes the generation configuration as indented JSON to the provided file path.
func (c *GenerationConfig) WriteToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}
	if err = os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "could not write the generation configuration")
	}
	return nil
}

// Validate checks the configuration is complete enough to run a generation.
func (c *GenerationConfig) Validate() error {
	if c.OutputDirectory == "" {
		return errors.New("generation configuration must specify an output directory")
	}
	if c.RuntimePackage == "" {
		return errors.New("generation configuration must specify the runtime package import path")
	}
	if c.PackagePrefix == "" {
		return errors.New("generation configuration must specify the generated package import path prefix")
	}
	return nil
}
