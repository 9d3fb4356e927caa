package bindgen

import (
	"github.com/Icontee/wake/compilation/types"
)

// OverloadSet records functions which must be emitted as overload sets, keyed by the declaring contract's fully
// qualified name plus the function name.
type OverloadSet map[string]struct{}

// Contains reports whether the function, declared in the given contract, requires overload-set emission.
func (s OverloadSet) Contains(contract *types.ContractDefinition, function *types.FunctionDefinition) bool {
	_, marked := s[overloadKey(contract, function.Name)]
	return marked
}

func overloadKey(contract *types.ContractDefinition, functionName string) string {
	return contract.FullyQualifiedName() + "." + functionName
}

// ResolveOverloads walks every contract's inheritance lattice and marks functions sharing a name with another
// function, so they can be emitted as overload sets rather than single signatures. The match is by name alone,
// regardless of parameter shape: any same-named pair anywhere in the lattice makes a plain rendition unsafe under
// the host dispatch model.
func ResolveOverloads(build *types.Build) OverloadSet {
	set := make(OverloadSet)
	for _, unit := range build.Units {
		for _, contract := range unit.Contracts {
			for _, function := range contract.Functions {
				if !overloadCandidate(function) {
					continue
				}
				visited := make(map[types.NodeID]struct{})
				markOverloads(set, contract, function, contract, visited)
			}
		}
	}
	return set
}

// overloadCandidate reports whether a function participates in overload resolution: it must be implemented,
// selector-bearing, and publicly visible.
func overloadCandidate(function *types.FunctionDefinition) bool {
	if !function.Implemented || len(function.Selector) == 0 {
		return false
	}
	return function.Visibility == types.VisibilityPublic || function.Visibility == types.VisibilityExternal
}

// markOverloads checks the given contract for functions sharing the subject function's name and recurses through
// ancestors and descendants. A rename introduced anywhere in the lattice must not silently shadow a
// differently-shaped sibling, so both sides of every name match are marked under their own declaring contract.
func markOverloads(set OverloadSet, declaring *types.ContractDefinition, function *types.FunctionDefinition, contract *types.ContractDefinition, visited map[types.NodeID]struct{}) {
	if _, seen := visited[contract.ID()]; seen {
		return
	}
	visited[contract.ID()] = struct{}{}

	for _, other := range contract.Functions {
		if other.ID() == function.ID() || other.Name != function.Name {
			continue
		}
		if !overloadCandidate(other) {
			continue
		}
		set[overloadKey(declaring, function.Name)] = struct{}{}
		set[overloadKey(contract, other.Name)] = struct{}{}
	}

	// Interfaces declare no implementation, so ancestor propagation skips them.
	for _, base := range contract.BaseContracts {
		if base.Kind != types.ContractKindInterface {
			markOverloads(set, declaring, function, base, visited)
		}
	}
	for _, child := range contract.ChildContracts {
		markOverloads(set, declaring, function, child, visited)
	}
}
