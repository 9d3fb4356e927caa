package bindgen

import (
	"testing"

	"github.com/Icontee/wake/compilation/types"
	"github.com/stretchr/testify/assert"
)

// newTestUnit returns a minimal source unit to parent test declarations under.
func newTestUnit(name string) *types.SourceUnit {
	return &types.SourceUnit{NodeID: 1, Name: name}
}

// TestSanitizeIdempotent ensures repeated sanitization of the same declaration yields the same identifier.
func TestSanitizeIdempotent(t *testing.T) {
	t.Parallel()

	unit := newTestUnit("contracts/A.sol")
	contract := &types.ContractDefinition{NodeID: 10, Name: "Token", Parent: unit, Kind: types.ContractKindContract}

	sanitizer := NewSanitizer()
	first, err := sanitizer.Sanitize(contract)
	assert.NoError(t, err)
	second, err := sanitizer.Sanitize(contract)
	assert.NoError(t, err)
	assert.EqualValues(t, first, second)
	assert.EqualValues(t, "Token", first)
}

// TestSanitizeKeywordsAndReservedNames ensures keywords, predeclared identifiers, and per-scope reserved names are
// probed past with trailing underscores, with reserved-table matching folding case.
func TestSanitizeKeywordsAndReservedNames(t *testing.T) {
	t.Parallel()

	unit := newTestUnit("contracts/A.sol")
	sanitizer := NewSanitizer()

	// A contract named after a keyword gains a trailing underscore.
	typeContract := &types.ContractDefinition{NodeID: 10, Name: "type", Parent: unit}
	name, err := sanitizer.Sanitize(typeContract)
	assert.NoError(t, err)
	assert.EqualValues(t, "type_", name)

	// A struct member colliding case-insensitively with a reserved struct-scope name is renamed too.
	owner := &types.StructDefinition{NodeID: 20, Name: "Holder", Parent: unit}
	listMember := &types.VariableDeclaration{NodeID: 21, Name: "List", Parent: owner}
	name, err = sanitizer.Sanitize(listMember)
	assert.NoError(t, err)
	assert.EqualValues(t, "List_", name)
}

// TestSanitizeScopeUniqueness ensures two declarations probing onto the same identifier within one scope end up
// distinct.
func TestSanitizeScopeUniqueness(t *testing.T) {
	t.Parallel()

	unit := newTestUnit("contracts/A.sol")
	sanitizer := NewSanitizer()

	first := &types.ContractDefinition{NodeID: 10, Name: "map", Parent: unit}
	second := &types.ContractDefinition{NodeID: 11, Name: "map_", Parent: unit}

	firstName, err := sanitizer.Sanitize(first)
	assert.NoError(t, err)
	secondName, err := sanitizer.Sanitize(second)
	assert.NoError(t, err)
	assert.EqualValues(t, "map_", firstName)
	assert.EqualValues(t, "map__", secondName)
}

// TestSanitizeReservesWrapperDerivatives ensures a chosen member name claims its per-mode wrapper derivatives, so a
// sibling literally named like a wrapper is probed past, and vice versa.
func TestSanitizeReservesWrapperDerivatives(t *testing.T) {
	t.Parallel()

	unit := newTestUnit("contracts/A.sol")
	contract := &types.ContractDefinition{NodeID: 10, Name: "Vault", Parent: unit}
	sanitizer := NewSanitizer()

	// The function registers first, claiming transfer_call through transfer_send for its wrappers.
	function := &types.FunctionDefinition{NodeID: 20, Name: "transfer", Parent: contract}
	name, err := sanitizer.Sanitize(function)
	assert.NoError(t, err)
	assert.EqualValues(t, "transfer", name)

	variable := &types.VariableDeclaration{NodeID: 21, Name: "transfer_call", Parent: contract}
	name, err = sanitizer.Sanitize(variable)
	assert.NoError(t, err)
	assert.EqualValues(t, "transfer_call_", name)

	// In the opposite order the member keeps its literal name and the function probes past it.
	other := &types.ContractDefinition{NodeID: 30, Name: "Ledger", Parent: unit}
	literal := &types.VariableDeclaration{NodeID: 40, Name: "sweep_send", Parent: other}
	name, err = sanitizer.Sanitize(literal)
	assert.NoError(t, err)
	assert.EqualValues(t, "sweep_send", name)

	sweep := &types.FunctionDefinition{NodeID: 41, Name: "sweep", Parent: other}
	name, err = sanitizer.Sanitize(sweep)
	assert.NoError(t, err)
	assert.EqualValues(t, "sweep_", name)
}

// TestSanitizeGlobalBlocksMemberScopes ensures a unit-scope name blocks contract members, while function
// parameters are allowed to shadow it.
func TestSanitizeGlobalBlocksMemberScopes(t *testing.T) {
	t.Parallel()

	unit := newTestUnit("contracts/A.sol")
	sanitizer := NewSanitizer()

	contract := &types.ContractDefinition{NodeID: 10, Name: "Token", Parent: unit}
	_, err := sanitizer.Sanitize(contract)
	assert.NoError(t, err)

	// A state variable sharing the contract's name is renamed.
	variable := &types.VariableDeclaration{NodeID: 20, Name: "Token", Parent: contract}
	name, err := sanitizer.Sanitize(variable)
	assert.NoError(t, err)
	assert.EqualValues(t, "Token_", name)

	// A function parameter sharing the contract's name shadows it untouched.
	function := &types.FunctionDefinition{NodeID: 30, Name: "transfer", Parent: contract}
	parameters := &types.ParameterList{NodeID: 31, Owner: function}
	parameter := &types.VariableDeclaration{NodeID: 32, Name: "Token", Parent: parameters}
	name, err = sanitizer.Sanitize(parameter)
	assert.NoError(t, err)
	assert.EqualValues(t, "Token", name)
}

// TestSanitizeDunderNames ensures dunder-style member names are treated as claimed by generated internals unless
// the source itself used the dunder form.
func TestSanitizeDunderNames(t *testing.T) {
	t.Parallel()

	unit := newTestUnit("contracts/A.sol")
	sanitizer := NewSanitizer()

	contract := &types.ContractDefinition{NodeID: 10, Name: "Token", Parent: unit}

	// A source-level dunder name is kept as written.
	dunder := &types.VariableDeclaration{NodeID: 20, Name: "__state__", Parent: contract}
	name, err := sanitizer.Sanitize(dunder)
	assert.NoError(t, err)
	assert.EqualValues(t, "__state__", name)
}

// TestSanitizeGlobalScopeReset ensures resetting the global scope forgets unit-scope renames while member-scope
// tables persist.
func TestSanitizeGlobalScopeReset(t *testing.T) {
	t.Parallel()

	unit := newTestUnit("contracts/A.sol")
	sanitizer := NewSanitizer()

	first := &types.ContractDefinition{NodeID: 10, Name: "Token", Parent: unit}
	second := &types.ContractDefinition{NodeID: 11, Name: "Token", Parent: unit}

	firstName, err := sanitizer.Sanitize(first)
	assert.NoError(t, err)
	secondName, err := sanitizer.Sanitize(second)
	assert.NoError(t, err)
	assert.NotEqualValues(t, firstName, secondName)

	// After a reset the colliding declaration can claim the bare name again.
	sanitizer.ResetGlobalScope()
	name, err := sanitizer.Sanitize(second)
	assert.NoError(t, err)
	assert.EqualValues(t, "Token", name)
}

// TestSanitizeUnknownParentFails ensures a declaration parented outside the known scope set surfaces an error
// instead of being silently dropped.
func TestSanitizeUnknownParentFails(t *testing.T) {
	t.Parallel()

	enum := &types.EnumDefinition{NodeID: 10, Name: "Kind"}
	value := &types.EnumValue{NodeID: 11, Name: "None", Parent: enum}

	// Enum values sanitize in their enum's scope.
	sanitizer := NewSanitizer()
	name, err := sanitizer.Sanitize(value)
	assert.NoError(t, err)
	assert.EqualValues(t, "None", name)

	// A variable with no parent at all is an internal fault.
	orphan := &types.VariableDeclaration{NodeID: 20, Name: "x"}
	_, err = sanitizer.Sanitize(orphan)
	assert.Error(t, err)
}
