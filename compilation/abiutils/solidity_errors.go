// Package abiutils provides ABI definitions for the revert errors built into the Solidity language itself. These
// exist in every compilation regardless of source content, so the generated error indices must account for them even
// when no contract declares a custom error.
// Reference: https://docs.soliditylang.org/en/latest/control-structures.html#panic-via-assert-and-error-via-require
package abiutils

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// BuiltinError returns the ABI definition of the language-level `Error(string)` revert, raised by `require` and
// `revert` with a reason string. Its selector is 0x08c379a0.
func BuiltinError() abi.Error {
	stringType, _ := abi.NewType("string", "", nil)
	return abi.NewError("Error", abi.Arguments{
		{Name: "", Type: stringType, Indexed: false},
	})
}

// BuiltinPanic returns the ABI definition of the language-level `Panic(uint256)` revert, raised by failed
// assertions and checked arithmetic. Its selector is 0x4e487b71.
func BuiltinPanic() abi.Error {
	uintType, _ := abi.NewType("uint256", "", nil)
	return abi.NewError("Panic", abi.Arguments{
		{Name: "", Type: uintType, Indexed: false},
	})
}

// BuiltinErrorSelector returns the 4-byte selector of `Error(string)`.
func BuiltinErrorSelector() []byte {
	id := BuiltinError().ID
	return id.Bytes()[:4]
}

// BuiltinPanicSelector returns the 4-byte selector of `Panic(uint256)`.
func BuiltinPanicSelector() []byte {
	id := BuiltinPanic().ID
	return id.Bytes()[:4]
}

// BuiltinErrorABIEntry returns the raw JSON ABI entry of `Error(string)`, in the same shape compiler output uses.
func BuiltinErrorABIEntry() json.RawMessage {
	return json.RawMessage(`{"type":"error","name":"Error","inputs":[{"name":"","type":"string","internalType":"string"}]}`)
}

// BuiltinPanicABIEntry returns the raw JSON ABI entry of `Panic(uint256)`, in the same shape compiler output uses.
func BuiltinPanicABIEntry() json.RawMessage {
	return json.RawMessage(`{"type":"error","name":"Panic","inputs":[{"name":"","type":"uint256","internalType":"uint256"}]}`)
}
