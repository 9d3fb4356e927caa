package compilation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Icontee/wake/compilation/types"
	"github.com/stretchr/testify/assert"
)

// testBuildDocument is a minimal exported build: one unit holding a token contract with a base contract in the same
// unit, a state variable, a custom error, and a revert call site in the interval index.
const testBuildDocument = `{
	"compilerVersion": "0.8.19",
	"units": [
		{
			"id": 1,
			"name": "contracts/Token.sol",
			"fileId": 0,
			"imports": [],
			"contracts": [
				{
					"id": 10,
					"name": "Base",
					"kind": "contract",
					"abstract": true,
					"linearizedBaseContracts": [10],
					"functions": [
						{
							"id": 11,
							"name": "owner",
							"parameters": {"id": 12},
							"returnParameters": {"id": 13, "parameters": [
								{"id": 14, "name": "", "type": {"tag": "address", "typeString": "address"}}
							]},
							"visibility": "public",
							"stateMutability": "view",
							"implemented": true,
							"selector": "8da5cb5b"
						}
					]
				},
				{
					"id": 20,
					"name": "Token",
					"kind": "contract",
					"baseContracts": [10],
					"linearizedBaseContracts": [20, 10],
					"variables": [
						{
							"id": 21,
							"name": "balances",
							"type": {
								"tag": "mapping",
								"key": {"tag": "address"},
								"elem": {"tag": "uint", "bits": 256},
								"typeString": "mapping(address => uint256)"
							},
							"typeString": "mapping(address => uint256)",
							"visibility": "public",
							"selector": "27e235e3"
						}
					],
					"errors": [
						{
							"id": 22,
							"name": "InsufficientBalance",
							"parameters": {"id": 23, "parameters": [
								{"id": 24, "name": "needed", "type": {"tag": "uint", "bits": 256}}
							]},
							"selector": "cf479181"
						}
					],
					"usedErrors": [22],
					"artifact": {
						"abi": [{"type": "error", "name": "InsufficientBalance", "inputs": [{"name": "needed", "type": "uint256"}]}],
						"initBytecode": "6080",
						"runtimeBytecode": "6080",
						"opcodes": "PUSH1 0x80",
						"srcMapRuntime": "0:2:0"
					}
				}
			]
		}
	],
	"intervals": {
		"0": [
			{"start": 0, "end": 500, "subtreeDepth": 8, "kind": "sourceUnit", "nodeId": 1},
			{"start": 100, "end": 130, "subtreeDepth": 1, "kind": "revertCall", "nodeId": 30, "parentId": 31, "calledError": 22}
		]
	}
}`

func writeBuildFixture(t *testing.T, document string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.json")
	assert.NoError(t, os.WriteFile(path, []byte(document), 0644))
	return path
}

// TestLoadBuildLinksReferences verifies declarations, inheritance links, type descriptors, artifacts, and interval
// entries all resolve from a build document.
func TestLoadBuildLinksReferences(t *testing.T) {
	t.Parallel()

	build, err := LoadBuild(writeBuildFixture(t, testBuildDocument))
	assert.NoError(t, err)
	assert.EqualValues(t, "0.8.19", build.CompilerVersion)
	assert.EqualValues(t, 1, len(build.Units))

	unit := build.UnitByName("contracts/Token.sol")
	assert.NotNil(t, unit)
	assert.Same(t, unit, build.UnitByFileID(0))
	assert.EqualValues(t, 2, len(unit.Contracts))

	base := unit.Contracts[0]
	token := unit.Contracts[1]
	assert.EqualValues(t, "contracts/Token.sol:Token", token.FullyQualifiedName())

	// Inheritance links resolve both directions.
	assert.EqualValues(t, []*types.ContractDefinition{base}, token.BaseContracts)
	assert.EqualValues(t, []*types.ContractDefinition{token}, base.ChildContracts)
	assert.EqualValues(t, []*types.ContractDefinition{token, base}, token.LinearizedBaseContracts)

	// The state variable's mapping type links key and value descriptors.
	balances := token.Variables[0]
	assert.EqualValues(t, types.TypeTagMapping, balances.Type.Tag)
	assert.EqualValues(t, types.TypeTagAddress, balances.Type.Key.Tag)
	assert.EqualValues(t, types.TypeTagUInt, balances.Type.Elem.Tag)
	assert.EqualValues(t, 256, balances.Type.Elem.Bits)

	// Used errors link both directions.
	insufficientBalance := token.Errors[0]
	assert.EqualValues(t, []*types.ErrorDefinition{insufficientBalance}, token.UsedErrors)
	assert.EqualValues(t, []*types.ContractDefinition{token}, insufficientBalance.UsedIn)
	assert.EqualValues(t, []byte{0xcf, 0x47, 0x91, 0x81}, insufficientBalance.Selector)

	// The artifact's raw ABI entries load verbatim.
	assert.EqualValues(t, 1, len(token.Artifact.RawAbi))
	assert.Contains(t, string(token.Artifact.RawAbi[0]), "InsufficientBalance")

	// The revert call site resolves to the error through its interval entry.
	index := build.Intervals[0]
	assert.NotNil(t, index)
	match := index.MostSpecific(110, 120)
	assert.NotNil(t, match)
	call, ok := match.Node.(*types.FunctionCall)
	assert.True(t, ok)
	assert.Same(t, types.Declaration(insufficientBalance), call.Called)
	_, underRevert := call.Parent.(*types.RevertStatement)
	assert.True(t, underRevert)
}

// TestLoadBuildCompilerVersionGate verifies unparseable and too-old compiler versions are rejected.
func TestLoadBuildCompilerVersionGate(t *testing.T) {
	t.Parallel()

	_, err := LoadBuild(writeBuildFixture(t, `{"compilerVersion": "not-a-version", "units": []}`))
	assert.Error(t, err)

	_, err = LoadBuild(writeBuildFixture(t, `{"compilerVersion": "0.4.26", "units": []}`))
	assert.Error(t, err)

	_, err = LoadBuild(writeBuildFixture(t, `{"units": []}`))
	assert.Error(t, err)
}

// TestLoadBuildUnknownReference verifies a dangling node reference is reported rather than silently dropped.
func TestLoadBuildUnknownReference(t *testing.T) {
	t.Parallel()

	document := `{
		"compilerVersion": "0.8.19",
		"units": [{"id": 1, "name": "a.sol", "fileId": 0, "contracts": [
			{"id": 2, "name": "A", "kind": "contract", "baseContracts": [99]}
		]}]
	}`
	_, err := LoadBuild(writeBuildFixture(t, document))
	assert.Error(t, err)
}
