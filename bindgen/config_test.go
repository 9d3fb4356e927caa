package bindgen

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDefaultGenerationConfigValidates ensures the default configuration passes its own validation.
func TestDefaultGenerationConfigValidates(t *testing.T) {
	t.Parallel()

	config, err := DefaultGenerationConfig()
	assert.NoError(t, err)
	assert.NoError(t, config.Validate())
}

// TestGenerationConfigRoundTrip ensures a configuration written to disk reads back identically, with defaults
// filling unspecified fields.
func TestGenerationConfigRoundTrip(t *testing.T) {
	t.Parallel()

	config, err := DefaultGenerationConfig()
	assert.NoError(t, err)
	config.OutputDirectory = "generated"
	config.ReturnTransaction = false

	path := filepath.Join(t.TempDir(), "wake.json")
	assert.NoError(t, config.WriteToFile(path))

	read, err := ReadGenerationConfig(path)
	assert.NoError(t, err)
	assert.EqualValues(t, config, read)
}

// TestGenerationConfigValidation ensures incomplete configurations are rejected.
func TestGenerationConfigValidation(t *testing.T) {
	t.Parallel()

	config, err := DefaultGenerationConfig()
	assert.NoError(t, err)

	config.OutputDirectory = ""
	assert.Error(t, config.Validate())

	config, err = DefaultGenerationConfig()
	assert.NoError(t, err)
	config.RuntimePackage = ""
	assert.Error(t, config.Validate())

	config, err = DefaultGenerationConfig()
	assert.NoError(t, err)
	config.PackagePrefix = ""
	assert.Error(t, config.Validate())
}
