package bindgen

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Icontee/wake/compilation/types"
	"github.com/Icontee/wake/utils"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// emitContract emits one contract's bindings: nested type declarations, the contract type, its ABI and deployment
// artifacts, function and getter wrapper sets, and deploy helpers. Base contracts declared in the same unit are
// emitted first so the generated file reads base-first; the generated guard deduplicates that recursion, and a
// fully-qualified name arriving twice from distinct units is a fatal front-end contract violation.
func (g *Generator) emitContract(emitter *unitEmitter, contract *types.ContractDefinition) error {
	fqn := contract.FullyQualifiedName()
	if emittedIn, done := g.generated[fqn]; done {
		if emittedIn == g.currentUnit.Name {
			return nil
		}
		return errors.Errorf("contract %q was already emitted for unit %q", fqn, emittedIn)
	}
	g.generated[fqn] = g.currentUnit.Name

	for _, base := range contract.BaseContracts {
		if base.Parent == g.currentUnit {
			if err := g.emitContract(emitter, base); err != nil {
				return err
			}
		}
	}

	name, err := g.sanitizer.Sanitize(contract)
	if err != nil {
		return err
	}

	for _, structDef := range contract.Structs {
		if err = g.emitStruct(emitter, structDef); err != nil {
			return err
		}
	}
	for _, enumDef := range contract.Enums {
		if err = g.emitEnum(emitter, enumDef); err != nil {
			return err
		}
	}
	for _, errorDef := range contract.Errors {
		if err = g.emitError(emitter, errorDef); err != nil {
			return err
		}
	}
	for _, eventDef := range contract.Events {
		if err = g.emitEvent(emitter, eventDef); err != nil {
			return err
		}
	}

	g.imports.AddHost(g.config.RuntimePackage)
	emitter.line("// %s binds the Solidity %s `%s`.", name, contract.Kind, fqn)
	emitter.line("type %s struct {", name)
	emitter.push()
	emitter.line("runtime.Contract")
	emitter.pop()
	emitter.line("}")
	emitter.blank()

	if err = g.emitContractArtifacts(emitter, contract, name); err != nil {
		return err
	}

	for _, function := range contract.Functions {
		if !visibleFunction(function) {
			continue
		}
		// Library code runs via delegatecall; only its view and pure functions are directly callable.
		if contract.Kind == types.ContractKindLibrary && !function.IsViewOrPure() {
			continue
		}
		if err = g.emitFunction(emitter, contract, name, function); err != nil {
			return err
		}
	}
	for _, variable := range contract.Variables {
		if !publicVariable(variable) {
			continue
		}
		if err = g.emitGetter(emitter, name, variable); err != nil {
			return err
		}
	}

	if err = g.emitDeployHelpers(emitter, contract, name); err != nil {
		return err
	}

	if err = g.scanRevertSites(contract); err != nil {
		return err
	}

	g.indexes.addContract(fqn, modulePathOf(g.currentUnit), name)
	bases := utils.SliceWhere(contract.LinearizedBaseContracts, func(base *types.ContractDefinition) bool {
		return base != contract
	})
	g.indexes.addInheritance(fqn, utils.SliceSelect(bases, func(base *types.ContractDefinition) string {
		return base.FullyQualifiedName()
	}))
	return nil
}

// emitContractArtifacts emits the contract's ABI grouped by selector, its deployment bytecode, and, for libraries,
// the 17-byte link-reference identifier. Deployment-code segments are fingerprinted and their placeholders resolved
// for the manifest while the bytecode string is emitted verbatim.
func (g *Generator) emitContractArtifacts(emitter *unitEmitter, contract *types.ContractDefinition, name string) error {
	artifact := contract.Artifact
	if artifact == nil {
		return nil
	}
	fqn := contract.FullyQualifiedName()

	groups, err := groupABIBySelector(artifact.RawAbi, contract.Kind == types.ContractKindLibrary)
	if err != nil {
		return errors.Wrapf(err, "could not group ABI of contract %s", fqn)
	}
	if len(groups) > 0 {
		emitter.line("// %s_abi holds the contract's raw ABI entries grouped by selector.", name)
		emitter.line("var %s_abi = map[string]string{", name)
		emitter.push()
		keys := make([]string, 0, len(groups))
		for key := range groups {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			emitter.line("%q: `%s`,", key, groups[key])
		}
		emitter.pop()
		emitter.line("}")
		emitter.blank()
	}

	if artifact.InitBytecode != "" {
		emitter.line("// %s_deploymentHex is the contract's unlinked deployment bytecode.", name)
		emitter.line("var %s_deploymentHex = %q", name, strings.TrimPrefix(artifact.InitBytecode, "0x"))
		emitter.blank()
	}

	if contract.Kind == types.ContractKindLibrary {
		libraryID := crypto.Keccak256([]byte(fqn))[:17]
		emitter.line("// %s_libraryID identifies the library in link references, derived from its fully qualified name.", name)
		emitter.line("var %s_libraryID = %s", name, byteArrayLiteral(libraryID))
		emitter.blank()
	}

	if artifact.InitBytecode != "" {
		segments, err := types.SplitBytecodeSegments(strings.TrimPrefix(artifact.InitBytecode, "0x"))
		if err != nil {
			return errors.Wrapf(err, "could not split deployment bytecode of contract %s", fqn)
		}
		libraries := make([]string, len(segments.Placeholders))
		for i, placeholder := range segments.Placeholders {
			library, err := g.resolveLibrary(placeholder)
			if err != nil {
				return errors.Wrapf(err, "in deployment bytecode of contract %s", fqn)
			}
			libraries[i] = library.FullyQualifiedName()
		}
		g.indexes.addSegments(fqn, segments.SegmentFingerprints(), libraries)
	}

	if tail, err := artifact.MetadataTail(); err != nil {
		return errors.Wrapf(err, "could not extract metadata of contract %s", fqn)
	} else if tail != nil {
		bytecodeHash := ""
		if metadata := types.ExtractContractMetadata(tail); metadata != nil {
			if hash := metadata.ExtractBytecodeHash(); hash != nil {
				bytecodeHash = hex.EncodeToString(hash)
			}
		}
		g.indexes.addMetadata(hex.EncodeToString(tail), fqn, bytecodeHash)
	}

	return nil
}

// resolveLibrary finds the library declaration matching a bytecode placeholder identifier by breadth-first search
// over the current unit's import graph. An unresolvable placeholder is an internal fault: the compiler cannot
// reference a library the unit does not transitively import.
func (g *Generator) resolveLibrary(placeholder string) (*types.ContractDefinition, error) {
	visited := make(map[string]struct{})
	queue := []string{g.currentUnit.Name}

	for len(queue) > 0 {
		unitName := queue[0]
		queue = queue[1:]
		if _, seen := visited[unitName]; seen {
			continue
		}
		visited[unitName] = struct{}{}

		unit := g.build.UnitByName(unitName)
		if unit == nil {
			continue
		}
		for _, candidate := range unit.Contracts {
			if candidate.Kind != types.ContractKindLibrary {
				continue
			}
			if types.GenerateLibraryPlaceholder(candidate.FullyQualifiedName()) == placeholder {
				return candidate, nil
			}
		}
		queue = append(queue, unit.Imports...)
	}
	return nil, errors.Errorf("library placeholder %s has no resolvable library declaration", placeholder)
}

// scanRevertSites walks the contract's deployed-bytecode disassembly and records the program counters of REVERT
// instructions attributable to a custom error raise. Sites with no source attribution are skipped; they are normal
// compiler-inserted checks.
func (g *Generator) scanRevertSites(contract *types.ContractDefinition) error {
	artifact := contract.Artifact
	if artifact == nil || artifact.Opcodes == "" {
		return nil
	}

	instructions, err := types.ParseOpcodes(artifact.Opcodes)
	if err != nil {
		return errors.Wrapf(err, "could not decode disassembly of contract %s", contract.FullyQualifiedName())
	}
	sourceMap, err := types.ParseSourceMap(artifact.SrcMapsRuntime)
	if err != nil {
		return errors.Wrapf(err, "could not decode source map of contract %s", contract.FullyQualifiedName())
	}
	lookup := sourceMap.GetProgramCounterLookup(instructions)

	for _, instruction := range instructions {
		if instruction.Op != vm.REVERT {
			continue
		}
		element, mapped := lookup[instruction.PC]
		if !mapped || element.FileID < 0 {
			continue
		}
		// Compiler utility sources carry file identifiers with no backing unit.
		if g.build.UnitByFileID(element.FileID) == nil {
			continue
		}
		intervals := g.build.Intervals[element.FileID]
		if intervals == nil {
			continue
		}
		match := intervals.MostSpecific(element.Offset, element.End())
		if match == nil {
			continue
		}
		call, isCall := match.Node.(*types.FunctionCall)
		if !isCall {
			continue
		}
		if _, underRevert := call.Parent.(*types.RevertStatement); !underRevert {
			continue
		}
		if _, targetsError := call.Called.(*types.ErrorDefinition); !targetsError {
			continue
		}
		g.indexes.addRevertSite(contract.FullyQualifiedName(), instruction.PC)
	}
	return nil
}

// groupABIBySelector groups raw ABI entries under their 4-byte function selector, with the selector-less
// constructor, fallback, and receive entries keyed by their kind. Library function selectors hash against internal
// types, matching solc's library dispatch.
func groupABIBySelector(rawAbi []json.RawMessage, library bool) (map[string]string, error) {
	groups := make(map[string]string)
	for _, rawEntry := range rawAbi {
		var head struct {
			Type   string          `json:"type"`
			Name   string          `json:"name"`
			Inputs json.RawMessage `json:"inputs"`
		}
		if err := json.Unmarshal(rawEntry, &head); err != nil {
			return nil, errors.WithStack(err)
		}

		switch head.Type {
		case "constructor", "fallback", "receive":
			groups[head.Type] = string(rawEntry)
		case "function":
			signature, err := canonicalSignature(head.Name, head.Inputs, library)
			if err != nil {
				return nil, err
			}
			selector := crypto.Keccak256([]byte(signature))[:4]
			groups[hex.EncodeToString(selector)] = string(rawEntry)
		default:
			// Errors and events are indexed through their declarations, not the per-contract ABI group.
		}
	}
	return groups, nil
}

// canonicalSignature renders the canonical "name(type,...)" signature of an ABI entry, expanding tuple components
// recursively. With internalTypes set, each top-level parameter of struct, enum, or contract internal type renders
// as that internal type name instead of its external representation.
func canonicalSignature(name string, rawInputs json.RawMessage, internalTypes bool) (string, error) {
	var inputs []abiParameter
	if len(rawInputs) > 0 {
		if err := json.Unmarshal(rawInputs, &inputs); err != nil {
			return "", errors.WithStack(err)
		}
	}
	parts := make([]string, len(inputs))
	for i, input := range inputs {
		if internalTypes {
			if internal, ok := internalTypeName(input.InternalType); ok {
				parts[i] = internal
				continue
			}
		}
		parts[i] = canonicalType(input)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ",")), nil
}

// internalTypeName strips the declaration-kind prefix from a struct, enum, or contract internal type, returning
// false for value types whose internal and external representations agree.
func internalTypeName(internalType string) (string, bool) {
	for _, prefix := range []string{"contract ", "struct ", "enum "} {
		if strings.HasPrefix(internalType, prefix) {
			return strings.TrimPrefix(internalType, prefix), true
		}
	}
	return "", false
}

type abiParameter struct {
	Type         string         `json:"type"`
	InternalType string         `json:"internalType"`
	Components   []abiParameter `json:"components"`
}

// canonicalType renders one ABI parameter type canonically: tuples expand to their parenthesized component list,
// retaining any array suffix.
func canonicalType(parameter abiParameter) string {
	if !strings.HasPrefix(parameter.Type, "tuple") {
		return parameter.Type
	}
	parts := make([]string, len(parameter.Components))
	for i, component := range parameter.Components {
		parts[i] = canonicalType(component)
	}
	return "(" + strings.Join(parts, ",") + ")" + strings.TrimPrefix(parameter.Type, "tuple")
}
