package bindgen

import (
	"testing"

	"github.com/Icontee/wake/compilation/types"
	"github.com/stretchr/testify/assert"
)

// newTestMapper returns a type mapper wired against a fresh sanitizer and import registry, emitting for the given
// unit.
func newTestMapper(t *testing.T, unit *types.SourceUnit) *typeMapper {
	config, err := DefaultGenerationConfig()
	assert.NoError(t, err)
	return &typeMapper{
		config:      config,
		sanitizer:   NewSanitizer(),
		imports:     NewImportRegistry(),
		currentUnit: unit,
	}
}

// TestMapTypeAddressContexts ensures addresses map to the addressable handle in parameter position and the raw
// address type in return position.
func TestMapTypeAddressContexts(t *testing.T) {
	t.Parallel()

	mapper := newTestMapper(t, newTestUnit("contracts/A.sol"))
	descriptor := &types.TypeDescriptor{Tag: types.TypeTagAddress}

	asParameter, err := mapper.mapType(descriptor, ContextParameter)
	assert.NoError(t, err)
	assert.EqualValues(t, "runtime.Addressable", asParameter.Expr)

	asReturn, err := mapper.mapType(descriptor, ContextReturn)
	assert.NoError(t, err)
	assert.EqualValues(t, "common.Address", asReturn.Expr)
}

// TestMapTypeIntegers ensures power-of-two widths up to 64 bits map to native integer types and every other width
// maps to big.Int.
func TestMapTypeIntegers(t *testing.T) {
	t.Parallel()

	mapper := newTestMapper(t, newTestUnit("contracts/A.sol"))

	native, err := mapper.mapType(&types.TypeDescriptor{Tag: types.TypeTagUInt, Bits: 64}, ContextReturn)
	assert.NoError(t, err)
	assert.EqualValues(t, "uint64", native.Expr)

	signed, err := mapper.mapType(&types.TypeDescriptor{Tag: types.TypeTagInt, Bits: 8}, ContextReturn)
	assert.NoError(t, err)
	assert.EqualValues(t, "int8", signed.Expr)

	wide, err := mapper.mapType(&types.TypeDescriptor{Tag: types.TypeTagUInt, Bits: 256}, ContextReturn)
	assert.NoError(t, err)
	assert.EqualValues(t, "*big.Int", wide.Expr)

	odd, err := mapper.mapType(&types.TypeDescriptor{Tag: types.TypeTagInt, Bits: 24}, ContextReturn)
	assert.NoError(t, err)
	assert.EqualValues(t, "*big.Int", odd.Expr)
}

// TestMapTypeArrays ensures dynamic arrays map to slices, short bounded arrays to Go arrays, and long bounded
// arrays to slices carrying their length constraint.
func TestMapTypeArrays(t *testing.T) {
	t.Parallel()

	mapper := newTestMapper(t, newTestUnit("contracts/A.sol"))
	uint256 := &types.TypeDescriptor{Tag: types.TypeTagUInt, Bits: 256}

	dynamic, err := mapper.mapType(&types.TypeDescriptor{Tag: types.TypeTagArray, Elem: uint256}, ContextReturn)
	assert.NoError(t, err)
	assert.EqualValues(t, "[]*big.Int", dynamic.Expr)
	assert.EqualValues(t, 0, dynamic.Length)

	short, err := mapper.mapType(&types.TypeDescriptor{
		Tag:    types.TypeTagArray,
		Length: 5,
		Elem:   &types.TypeDescriptor{Tag: types.TypeTagBool},
	}, ContextReturn)
	assert.NoError(t, err)
	assert.EqualValues(t, "[5]bool", short.Expr)
	assert.EqualValues(t, 0, short.Length)

	long, err := mapper.mapType(&types.TypeDescriptor{Tag: types.TypeTagArray, Length: 40, Elem: uint256}, ContextReturn)
	assert.NoError(t, err)
	assert.EqualValues(t, "[]*big.Int", long.Expr)
	assert.EqualValues(t, 40, long.Length)
}

// TestMapTypeMappingKeysUseReturnContext ensures map key types are mapped in return context even when the mapping
// itself is mapped for a parameter position, since interface handles cannot key a Go map.
func TestMapTypeMappingKeysUseReturnContext(t *testing.T) {
	t.Parallel()

	mapper := newTestMapper(t, newTestUnit("contracts/A.sol"))
	descriptor := &types.TypeDescriptor{
		Tag:  types.TypeTagMapping,
		Key:  &types.TypeDescriptor{Tag: types.TypeTagAddress},
		Elem: &types.TypeDescriptor{Tag: types.TypeTagUInt, Bits: 256},
	}

	mapped, err := mapper.mapType(descriptor, ContextParameter)
	assert.NoError(t, err)
	assert.EqualValues(t, "map[common.Address]*big.Int", mapped.Expr)
}

// TestMapTypeUserDefinedValueUnwraps ensures user defined value types are transparent to mapping.
func TestMapTypeUserDefinedValueUnwraps(t *testing.T) {
	t.Parallel()

	mapper := newTestMapper(t, newTestUnit("contracts/A.sol"))
	descriptor := &types.TypeDescriptor{
		Tag:  types.TypeTagUserDefinedValue,
		Elem: &types.TypeDescriptor{Tag: types.TypeTagFixedBytes, ByteCount: 32},
	}

	mapped, err := mapper.mapType(descriptor, ContextReturn)
	assert.NoError(t, err)
	assert.EqualValues(t, "[32]byte", mapped.Expr)
}

// TestMapTypeNestedAndForeignReferences ensures contract-nested declarations flatten to Container_Name and
// declarations of other units are qualified by the declaring unit's alias with its import registered.
func TestMapTypeNestedAndForeignReferences(t *testing.T) {
	t.Parallel()

	current := newTestUnit("contracts/A.sol")
	foreign := &types.SourceUnit{NodeID: 2, Name: "lib/Shared.sol"}
	container := &types.ContractDefinition{NodeID: 10, Name: "Vault", Parent: current}
	nested := &types.StructDefinition{NodeID: 11, Name: "Position", Parent: container}
	foreignEnum := &types.EnumDefinition{NodeID: 20, Name: "Phase", Parent: foreign}

	mapper := newTestMapper(t, current)

	nestedType, err := mapper.mapType(&types.TypeDescriptor{Tag: types.TypeTagStruct, Struct: nested}, ContextReturn)
	assert.NoError(t, err)
	assert.EqualValues(t, "Vault_Position", nestedType.Expr)

	foreignType, err := mapper.mapType(&types.TypeDescriptor{Tag: types.TypeTagEnum, Enum: foreignEnum}, ContextReturn)
	assert.NoError(t, err)
	assert.EqualValues(t, UnitAlias("lib/Shared.sol")+".Phase", foreignType.Expr)

	rendered := mapper.imports.Render()
	assert.Contains(t, rendered, UnitAlias("lib/Shared.sol")+" \"bindings/lib\"")
}

// TestMapTypeSameUnitNestedReferenceAddsNoImport ensures a declaration nested inside a contract of the current
// unit never registers the unit's own generated package, which would render as a self-import.
func TestMapTypeSameUnitNestedReferenceAddsNoImport(t *testing.T) {
	t.Parallel()

	current := newTestUnit("contracts/A.sol")
	container := &types.ContractDefinition{NodeID: 10, Name: "Token", Parent: current}
	nested := &types.StructDefinition{NodeID: 11, Name: "Checkpoint", Parent: container}

	mapper := newTestMapper(t, current)

	mapped, err := mapper.mapType(&types.TypeDescriptor{Tag: types.TypeTagStruct, Struct: nested}, ContextReturn)
	assert.NoError(t, err)
	assert.EqualValues(t, "Token_Checkpoint", mapped.Expr)
	assert.Empty(t, mapper.imports.Render())
}

// TestMapTypeUnknownTagFails ensures an unrecognized descriptor tag surfaces an internal fault.
func TestMapTypeUnknownTagFails(t *testing.T) {
	t.Parallel()

	mapper := newTestMapper(t, newTestUnit("contracts/A.sol"))
	_, err := mapper.mapType(&types.TypeDescriptor{Tag: "slice"}, ContextReturn)
	assert.Error(t, err)
}
