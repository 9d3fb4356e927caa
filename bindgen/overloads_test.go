package bindgen

import (
	"testing"

	"github.com/Icontee/wake/compilation/types"
	"github.com/stretchr/testify/assert"
)

// overloadFunction builds a public, implemented, selector-bearing function for overload tests.
func overloadFunction(id types.NodeID, name string, parent *types.ContractDefinition) *types.FunctionDefinition {
	function := &types.FunctionDefinition{
		NodeID:           id,
		Name:             name,
		Parent:           parent,
		Parameters:       &types.ParameterList{NodeID: id*100 + 1},
		ReturnParameters: &types.ParameterList{NodeID: id*100 + 2},
		Visibility:       types.VisibilityPublic,
		Implemented:      true,
		Selector:         []byte{byte(id), 0, 0, 0},
	}
	function.Parameters.Owner = function
	function.ReturnParameters.Owner = function
	return function
}

// TestResolveOverloadsWithinContract ensures two same-named functions in one contract are both marked.
func TestResolveOverloadsWithinContract(t *testing.T) {
	t.Parallel()

	unit := newTestUnit("contracts/A.sol")
	contract := &types.ContractDefinition{NodeID: 10, Name: "Token", Parent: unit, Kind: types.ContractKindContract}
	first := overloadFunction(11, "transfer", contract)
	second := overloadFunction(12, "transfer", contract)
	other := overloadFunction(13, "approve", contract)
	contract.Functions = []*types.FunctionDefinition{first, second, other}
	unit.Contracts = []*types.ContractDefinition{contract}

	set := ResolveOverloads(&types.Build{Units: []*types.SourceUnit{unit}})
	assert.True(t, set.Contains(contract, first))
	assert.True(t, set.Contains(contract, second))
	assert.False(t, set.Contains(contract, other))
}

// TestResolveOverloadsAcrossInheritance ensures a name match against a base contract marks both the derived and
// the base function under their own declaring contracts.
func TestResolveOverloadsAcrossInheritance(t *testing.T) {
	t.Parallel()

	unit := newTestUnit("contracts/A.sol")
	base := &types.ContractDefinition{NodeID: 10, Name: "Base", Parent: unit, Kind: types.ContractKindContract}
	derived := &types.ContractDefinition{NodeID: 20, Name: "Derived", Parent: unit, Kind: types.ContractKindContract}
	base.ChildContracts = []*types.ContractDefinition{derived}
	derived.BaseContracts = []*types.ContractDefinition{base}

	baseFn := overloadFunction(11, "mint", base)
	derivedFn := overloadFunction(21, "mint", derived)
	base.Functions = []*types.FunctionDefinition{baseFn}
	derived.Functions = []*types.FunctionDefinition{derivedFn}
	unit.Contracts = []*types.ContractDefinition{base, derived}

	set := ResolveOverloads(&types.Build{Units: []*types.SourceUnit{unit}})
	assert.True(t, set.Contains(base, baseFn))
	assert.True(t, set.Contains(derived, derivedFn))
}

// TestResolveOverloadsSkipsInterfaceAncestors ensures interface ancestry does not propagate overload marking.
func TestResolveOverloadsSkipsInterfaceAncestors(t *testing.T) {
	t.Parallel()

	unit := newTestUnit("contracts/A.sol")
	iface := &types.ContractDefinition{NodeID: 10, Name: "IToken", Parent: unit, Kind: types.ContractKindInterface}
	impl := &types.ContractDefinition{NodeID: 20, Name: "Token", Parent: unit, Kind: types.ContractKindContract}
	impl.BaseContracts = []*types.ContractDefinition{iface}

	ifaceFn := overloadFunction(11, "transfer", iface)
	ifaceFn.Implemented = false
	implFn := overloadFunction(21, "transfer", impl)
	iface.Functions = []*types.FunctionDefinition{ifaceFn}
	impl.Functions = []*types.FunctionDefinition{implFn}
	unit.Contracts = []*types.ContractDefinition{iface, impl}

	set := ResolveOverloads(&types.Build{Units: []*types.SourceUnit{unit}})
	assert.False(t, set.Contains(impl, implFn))
	assert.False(t, set.Contains(iface, ifaceFn))
}

// TestOverloadSuffixShapes ensures the parameter-type suffix renders the documented shapes, including the bare
// trailing underscore for parameterless members of a set.
func TestOverloadSuffixShapes(t *testing.T) {
	t.Parallel()

	unit := newTestUnit("contracts/A.sol")
	contract := &types.ContractDefinition{NodeID: 10, Name: "Token", Parent: unit}
	function := overloadFunction(11, "mint", contract)
	assert.EqualValues(t, "_", overloadSuffix(function))

	function.Parameters.Parameters = []*types.VariableDeclaration{
		{NodeID: 30, Name: "to", Type: &types.TypeDescriptor{Tag: types.TypeTagAddress}},
		{NodeID: 31, Name: "amount", Type: &types.TypeDescriptor{Tag: types.TypeTagUInt, Bits: 256}},
	}
	assert.EqualValues(t, "_address_uint256", overloadSuffix(function))

	function.Parameters.Parameters = []*types.VariableDeclaration{
		{NodeID: 32, Name: "ids", Type: &types.TypeDescriptor{
			Tag:  types.TypeTagArray,
			Elem: &types.TypeDescriptor{Tag: types.TypeTagUInt, Bits: 8},
		}},
	}
	assert.EqualValues(t, "_uint8_arr", overloadSuffix(function))
}
