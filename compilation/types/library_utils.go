package types

import (
	"encoding/hex"
	"regexp"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// libraryPlaceholderPattern matches the link-time placeholders the compiler leaves in unlinked bytecode where a
// library address will later be substituted. The inner 34 hex characters identify the library.
// Reference: https://docs.soliditylang.org/en/latest/using-the-compiler.html#library-linking
var libraryPlaceholderPattern = regexp.MustCompile(`__\$[0-9a-fA-F]{34}\$__`)

// GenerateLibraryPlaceholder creates a library placeholder identifier based on the keccak256 hash of the fully
// qualified library name, according to the compiler's linking algorithm. The returned value is the bare 34-character
// identifier, without the surrounding "__$"/"$__" markers.
func GenerateLibraryPlaceholder(fullyQualifiedName string) string {
	hash := crypto.Keccak256Hash([]byte(fullyQualifiedName))
	return hex.EncodeToString(hash.Bytes())[:34]
}

// BytecodeSegments describes unlinked bytecode split around its library placeholders: Segments holds the raw byte
// runs between placeholders (an empty run where two placeholders are adjacent, or where one sits at either end),
// and Placeholders holds the 34-character library identifiers in order of appearance. A fully linked bytecode yields
// a single segment and no placeholders.
type BytecodeSegments struct {
	Segments     [][]byte
	Placeholders []string
}

// SplitBytecodeSegments splits a hex-encoded bytecode string around library placeholders, decoding each intervening
// run into raw bytes. Returns an error if any run is not valid hex.
func SplitBytecodeSegments(bytecodeHex string) (*BytecodeSegments, error) {
	matches := libraryPlaceholderPattern.FindAllStringIndex(bytecodeHex, -1)

	result := &BytecodeSegments{
		Segments:     make([][]byte, 0, len(matches)+1),
		Placeholders: make([]string, 0, len(matches)),
	}

	previousEnd := 0
	for _, match := range matches {
		segment, err := hex.DecodeString(bytecodeHex[previousEnd:match[0]])
		if err != nil {
			return nil, errors.Wrap(err, "could not decode bytecode segment")
		}
		result.Segments = append(result.Segments, segment)

		// Strip the "__$" and "$__" markers, keeping the identifier alone.
		result.Placeholders = append(result.Placeholders, bytecodeHex[match[0]+3:match[1]-3])
		previousEnd = match[1]
	}

	segment, err := hex.DecodeString(bytecodeHex[previousEnd:])
	if err != nil {
		return nil, errors.Wrap(err, "could not decode bytecode segment")
	}
	result.Segments = append(result.Segments, segment)

	return result, nil
}

// SegmentFingerprints computes a blake2b-256 digest of each bytecode segment, hex-encoded. Paired with the
// placeholder list, the fingerprints identify a contract's unlinked bytecode without fixing library addresses.
func (s *BytecodeSegments) SegmentFingerprints() []string {
	fingerprints := make([]string, len(s.Segments))
	for i, segment := range s.Segments {
		digest := blake2b.Sum256(segment)
		fingerprints[i] = hex.EncodeToString(digest[:])
	}
	return fingerprints
}
