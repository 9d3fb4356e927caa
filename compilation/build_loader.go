// Package compilation loads exported compiler builds into the typed model the binding generator consumes. The
// compiler front end serializes each build as a single JSON document with declarations cross-referenced by node
// identifier; loading resolves every reference into direct pointers and validates the producing compiler version.
package compilation

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	"github.com/Icontee/wake/compilation/types"
	"github.com/Icontee/wake/logging"
	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

// MinimumCompilerVersion is the oldest compiler release whose artifact layout (custom errors, disassembly listings,
// immutable references) the generator understands.
const MinimumCompilerVersion = "0.6.2"

// buildFile is the top-level wire layout of an exported build.
type buildFile struct {
	CompilerVersion string                    `json:"compilerVersion"`
	Units           []*unitFile               `json:"units"`
	Intervals       map[string][]intervalFile `json:"intervals"`
}

type unitFile struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	FileID  int             `json:"fileId"`
	Imports []string        `json:"imports"`

	Contracts []*contractFile `json:"contracts"`
	Structs   []*structFile   `json:"structs"`
	Enums     []*enumFile     `json:"enums"`
	Errors    []*errorFile    `json:"errors"`
}

type contractFile struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Kind     string       `json:"kind"`
	Abstract bool         `json:"abstract"`

	BaseContracts           []int64 `json:"baseContracts"`
	LinearizedBaseContracts []int64 `json:"linearizedBaseContracts"`

	Functions []*functionFile `json:"functions"`
	Variables []*variableFile `json:"variables"`
	Structs   []*structFile   `json:"structs"`
	Enums     []*enumFile     `json:"enums"`
	Events    []*eventFile    `json:"events"`
	Errors    []*errorFile    `json:"errors"`

	UsedErrors []int64       `json:"usedErrors"`
	Artifact   *artifactFile `json:"artifact"`
}

type functionFile struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Parameters       *parametersFile `json:"parameters"`
	ReturnParameters *parametersFile `json:"returnParameters"`
	Visibility       string          `json:"visibility"`
	StateMutability  string          `json:"stateMutability"`
	Implemented      bool            `json:"implemented"`
	Selector         hexBytes        `json:"selector"`
}

type parametersFile struct {
	ID         int64           `json:"id"`
	Parameters []*variableFile `json:"parameters"`
}

type variableFile struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Type       *typeFile `json:"type"`
	TypeString string    `json:"typeString"`
	Visibility string    `json:"visibility"`
	Indexed    bool      `json:"indexed"`
	Selector   hexBytes  `json:"selector"`
}

type typeFile struct {
	Tag        string    `json:"tag"`
	Bits       int       `json:"bits,omitempty"`
	ByteCount  int       `json:"byteCount,omitempty"`
	Length     int       `json:"length,omitempty"`
	Elem       *typeFile `json:"elem,omitempty"`
	Key        *typeFile `json:"key,omitempty"`
	Ref        int64     `json:"ref,omitempty"`
	TypeString string    `json:"typeString,omitempty"`
}

type structFile struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Members []*variableFile `json:"members"`
}

type enumFile struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Values []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"values"`
}

type eventFile struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Parameters *parametersFile `json:"parameters"`
	Selector   hexBytes        `json:"selector"`
}

type errorFile struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Parameters *parametersFile `json:"parameters"`
	Selector   hexBytes        `json:"selector"`
	UsedIn     []int64         `json:"usedIn"`
}

type artifactFile struct {
	Abi             []json.RawMessage `json:"abi"`
	InitBytecode    string            `json:"initBytecode"`
	RuntimeBytecode string            `json:"runtimeBytecode"`
	Opcodes         string            `json:"opcodes"`
	SrcMapRuntime   string            `json:"srcMapRuntime"`
}

type intervalFile struct {
	Start        int    `json:"start"`
	End          int    `json:"end"`
	SubtreeDepth int    `json:"subtreeDepth"`
	Kind         string `json:"kind"`
	NodeID       int64  `json:"nodeId"`
	ParentID     int64  `json:"parentId,omitempty"`
	CalledError  int64  `json:"calledError,omitempty"`
}

// hexBytes decodes a JSON hex string (with or without a 0x prefix) into raw bytes.
type hexBytes []byte

func (h *hexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = nil
		return nil
	}
	decoded, err := decodeHexString(s)
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}

// decodeHexString decodes a hex string, tolerating a 0x prefix.
func decodeHexString(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode hex string %q", s)
	}
	return decoded, nil
}

// LoadBuild reads an exported build document from the given path, resolves all node references, and returns the
// linked build. The compiler version recorded in the document must parse as a semantic version and meet
// MinimumCompilerVersion.
func LoadBuild(path string) (*types.Build, error) {
	logger := logging.GlobalLogger.NewSubLogger("module", logging.COMPILATION_SERVICE)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read build file")
	}

	var file buildFile
	if err = json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "could not parse build file")
	}

	if err = validateCompilerVersion(file.CompilerVersion); err != nil {
		return nil, err
	}

	linker := newBuildLinker()
	build, err := linker.link(&file)
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded build compiled with solc ", file.CompilerVersion, " containing ", len(build.Units), " units")
	return build, nil
}

// validateCompilerVersion checks the recorded compiler version parses and is new enough to generate bindings for.
func validateCompilerVersion(versionStr string) error {
	if versionStr == "" {
		return errors.New("build file records no compiler version")
	}
	version, err := semver.NewVersion(versionStr)
	if err != nil {
		return errors.Wrapf(err, "build file records invalid compiler version %q", versionStr)
	}
	constraint, err := semver.NewConstraint(">= " + MinimumCompilerVersion)
	if err != nil {
		return errors.WithStack(err)
	}
	if !constraint.Check(version) {
		return errors.Errorf("compiler version %s is older than the minimum supported %s", versionStr, MinimumCompilerVersion)
	}
	return nil
}
