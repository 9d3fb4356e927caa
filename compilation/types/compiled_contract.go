package types

import (
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// CompiledContract represents a single contract unit from a smart contract compilation.
type CompiledContract struct {
	// RawAbi holds the individual ABI entries as unparsed JSON, in compiler output order. A parsed abi.ABI loses
	// information the binding generator needs verbatim, e.g. original parameter names and internal type strings,
	// so the raw entries are what the generator consumes; parsing is a load-time validation only.
	RawAbi []json.RawMessage

	// InitBytecode describes the hex-encoded bytecode used to deploy a contract. It may contain library
	// placeholders if the contract references unlinked libraries.
	InitBytecode string

	// RuntimeBytecode represents the hex-encoded bytecode to be expected once the contract has been successfully
	// deployed. This may differ at runtime based on constructor arguments, immutables, linked libraries, etc.
	RuntimeBytecode string

	// Opcodes is the compiler's space-separated disassembly of RuntimeBytecode.
	Opcodes string

	// SrcMapsRuntime describes the source mappings to associate source file and bytecode segments in
	// RuntimeBytecode.
	SrcMapsRuntime string
}

// ParseABIFromInterface parses a generic object into an abi.ABI and returns it, or an error if one occurs.
func ParseABIFromInterface(i any) (*abi.ABI, error) {
	var (
		result abi.ABI
		err    error
	)

	// If it's a string, just parse it. Otherwise, we assume it's an interface and serialize it into a string.
	if s, ok := i.(string); ok {
		result, err = abi.JSON(strings.NewReader(s))
		if err != nil {
			return nil, err
		}
	} else {
		var b []byte
		b, err = json.Marshal(i)
		if err != nil {
			return nil, err
		}
		result, err = abi.JSON(strings.NewReader(string(b)))
		if err != nil {
			return nil, err
		}
	}
	return &result, nil
}

// RuntimeSegments splits the contract's runtime bytecode around its library placeholders. See
// SplitBytecodeSegments.
func (c *CompiledContract) RuntimeSegments() (*BytecodeSegments, error) {
	return SplitBytecodeSegments(strings.TrimPrefix(c.RuntimeBytecode, "0x"))
}

// MetadataTail returns the trailing compiler metadata of the runtime bytecode, or nil if the bytecode is absent,
// too short, or carries no valid metadata. Library placeholders never occur within the metadata tail, so the final
// bytecode segment is inspected directly.
func (c *CompiledContract) MetadataTail() ([]byte, error) {
	if len(c.RuntimeBytecode) == 0 {
		return nil, nil
	}
	segments, err := c.RuntimeSegments()
	if err != nil {
		return nil, errors.Wrap(err, "could not split runtime bytecode")
	}
	lastSegment := segments.Segments[len(segments.Segments)-1]
	return ExtractMetadataTail(lastSegment), nil
}
