package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildMetadataTail constructs a 53-byte metadata trailer in the layout solc emits by default: a two-entry CBOR map
// holding an ipfs hash and a solc version, followed by the two-byte payload length.
func buildMetadataTail(ipfsByte byte) []byte {
	tail := []byte{0xa2}
	// text(4) "ipfs", bytes(34)
	tail = append(tail, 0x64, 'i', 'p', 'f', 's', 0x58, 0x22)
	ipfsHash := make([]byte, 34)
	for i := range ipfsHash {
		ipfsHash[i] = ipfsByte
	}
	tail = append(tail, ipfsHash...)
	// text(4) "solc", bytes(3)
	tail = append(tail, 0x64, 's', 'o', 'l', 'c', 0x43, 0x00, 0x08, 0x14)
	// big-endian payload length
	return append(tail, 0x00, 0x33)
}

// TestExtractMetadataTail verifies that a valid trailing metadata section is recognized and returned whole.
func TestExtractMetadataTail(t *testing.T) {
	t.Parallel()

	tail := buildMetadataTail(0xab)
	bytecode := append([]byte{0x60, 0x80, 0x60, 0x40, 0x52}, tail...)

	extracted := ExtractMetadataTail(bytecode)
	assert.EqualValues(t, tail, extracted)
	assert.EqualValues(t, MetadataTailLength, len(extracted))
}

// TestExtractMetadataTailInvalid verifies that short bytecode and bytecode without a valid trailer yield nil.
func TestExtractMetadataTailInvalid(t *testing.T) {
	t.Parallel()

	// Too short to hold a trailer at all.
	assert.Nil(t, ExtractMetadataTail([]byte{0x60, 0x80}))

	// Long enough, but the tail is plain code rather than metadata.
	bytecode := make([]byte, 100)
	for i := range bytecode {
		bytecode[i] = 0x5b
	}
	assert.Nil(t, ExtractMetadataTail(bytecode))
}

// TestExtractContractMetadata verifies that CBOR metadata embedded at the end of bytecode is located and that its
// bytecode hash can be extracted.
func TestExtractContractMetadata(t *testing.T) {
	t.Parallel()

	// The CBOR map alone, without the trailing length suffix.
	payload := buildMetadataTail(0xcd)[:MetadataTailLength-2]
	bytecode := append([]byte{0x60, 0x80, 0x60, 0x40, 0x52}, payload...)

	metadata := ExtractContractMetadata(bytecode)
	assert.NotNil(t, metadata)

	hash := metadata.ExtractBytecodeHash()
	assert.EqualValues(t, 34, len(hash))
	assert.EqualValues(t, 0xcd, hash[0])
}
