package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMakePathAlphanumeric verifies unit name normalization: special characters are dropped and digit-leading
// segments are escaped.
func TestMakePathAlphanumeric(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "contracts/Token", MakePathAlphanumeric("contracts/Token"))
	assert.Equal(t, "contracts/_0xToken", MakePathAlphanumeric("contracts/0x-Token"))
	assert.Equal(t, "openzeppelin/token/ERC20", MakePathAlphanumeric("@openzeppelin/token/ERC20"))
	assert.Equal(t, "a/_1/_2b", MakePathAlphanumeric("a/1/2b"))
}

// TestGetFilePathWithoutExtension ensures the extension is stripped while preceding directories are retained.
func TestGetFilePathWithoutExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "contracts/Token", GetFilePathWithoutExtension("contracts/Token.sol"))
	assert.Equal(t, "Token", GetFileNameWithoutExtension("contracts/Token.sol"))
}
