package compilation

import (
	"encoding/json"
	"strconv"

	"github.com/Icontee/wake/compilation/types"
	"github.com/pkg/errors"
)

// buildLinker resolves the node-identifier cross-references of a build document into direct pointers. Linking runs
// in two passes: the first constructs every declaration and records it by identifier, the second resolves
// references, which may point forward or across units.
type buildLinker struct {
	nodes     map[int64]types.Node
	contracts map[int64]*types.ContractDefinition
	structs   map[int64]*types.StructDefinition
	enums     map[int64]*types.EnumDefinition
	errs      map[int64]*types.ErrorDefinition

	// varTypes keeps each variable's wire type until the second pass can link it.
	varTypes map[int64]*typeFile
}

func newBuildLinker() *buildLinker {
	return &buildLinker{
		nodes:     make(map[int64]types.Node),
		contracts: make(map[int64]*types.ContractDefinition),
		structs:   make(map[int64]*types.StructDefinition),
		enums:     make(map[int64]*types.EnumDefinition),
		errs:      make(map[int64]*types.ErrorDefinition),
		varTypes:  make(map[int64]*typeFile),
	}
}

func (l *buildLinker) link(file *buildFile) (*types.Build, error) {
	build := &types.Build{
		CompilerVersion: file.CompilerVersion,
		Intervals:       make(map[int]*types.IntervalIndex),
	}

	// First pass: construct all declarations and register them by identifier.
	for _, unitFile := range file.Units {
		unit, err := l.constructUnit(unitFile)
		if err != nil {
			return nil, err
		}
		build.Units = append(build.Units, unit)
	}

	// Second pass: resolve cross-references now that every declaration is registered.
	for i, unitFile := range file.Units {
		if err := l.resolveUnit(build.Units[i], unitFile); err != nil {
			return nil, err
		}
	}

	// Interval indices reference arbitrary declarations, so they link last.
	for fileIDStr, entries := range file.Intervals {
		fileID, err := strconv.Atoi(fileIDStr)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid interval file identifier %q", fileIDStr)
		}
		index, err := l.linkIntervals(entries)
		if err != nil {
			return nil, err
		}
		build.Intervals[fileID] = index
	}

	return build, nil
}

// constructUnit builds a source unit and its declarations, registering every node by identifier. References are not
// resolved yet.
func (l *buildLinker) constructUnit(file *unitFile) (*types.SourceUnit, error) {
	unit := &types.SourceUnit{
		NodeID:  types.NodeID(file.ID),
		Name:    file.Name,
		FileID:  file.FileID,
		Imports: file.Imports,
	}
	l.nodes[file.ID] = unit

	for _, structF := range file.Structs {
		unit.Structs = append(unit.Structs, l.constructStruct(structF, unit))
	}
	for _, enumF := range file.Enums {
		unit.Enums = append(unit.Enums, l.constructEnum(enumF, unit))
	}
	for _, errorF := range file.Errors {
		unit.Errors = append(unit.Errors, l.constructError(errorF, unit))
	}

	for _, contractF := range file.Contracts {
		contract := &types.ContractDefinition{
			NodeID:   types.NodeID(contractF.ID),
			Name:     contractF.Name,
			Kind:     types.ContractKind(contractF.Kind),
			Abstract: contractF.Abstract,
			Parent:   unit,
		}
		l.nodes[contractF.ID] = contract
		l.contracts[contractF.ID] = contract

		for _, structF := range contractF.Structs {
			contract.Structs = append(contract.Structs, l.constructStruct(structF, contract))
		}
		for _, enumF := range contractF.Enums {
			contract.Enums = append(contract.Enums, l.constructEnum(enumF, contract))
		}
		for _, errorF := range contractF.Errors {
			contract.Errors = append(contract.Errors, l.constructError(errorF, contract))
		}
		for _, eventF := range contractF.Events {
			event := &types.EventDefinition{
				NodeID:   types.NodeID(eventF.ID),
				Name:     eventF.Name,
				Parent:   contract,
				Selector: eventF.Selector,
			}
			event.Parameters = l.constructParameters(eventF.Parameters, event)
			l.nodes[eventF.ID] = event
			contract.Events = append(contract.Events, event)
		}
		for _, functionF := range contractF.Functions {
			function := &types.FunctionDefinition{
				NodeID:          types.NodeID(functionF.ID),
				Name:            functionF.Name,
				Parent:          contract,
				Visibility:      types.Visibility(functionF.Visibility),
				StateMutability: types.StateMutability(functionF.StateMutability),
				Implemented:     functionF.Implemented,
				Selector:        functionF.Selector,
			}
			function.Parameters = l.constructParameters(functionF.Parameters, function)
			function.ReturnParameters = l.constructParameters(functionF.ReturnParameters, function)
			l.nodes[functionF.ID] = function
			contract.Functions = append(contract.Functions, function)
		}
		for _, variableF := range contractF.Variables {
			contract.Variables = append(contract.Variables, l.constructVariable(variableF, contract))
		}

		if contractF.Artifact != nil {
			artifact, err := l.constructArtifact(contractF.Artifact)
			if err != nil {
				return nil, errors.Wrapf(err, "could not load artifact for contract %s", contract.FullyQualifiedName())
			}
			contract.Artifact = artifact
		}

		unit.Contracts = append(unit.Contracts, contract)
	}

	return unit, nil
}

func (l *buildLinker) constructStruct(file *structFile, parent types.Node) *types.StructDefinition {
	structDef := &types.StructDefinition{
		NodeID: types.NodeID(file.ID),
		Name:   file.Name,
		Parent: parent,
	}
	l.nodes[file.ID] = structDef
	l.structs[file.ID] = structDef
	for _, memberF := range file.Members {
		structDef.Members = append(structDef.Members, l.constructVariable(memberF, structDef))
	}
	return structDef
}

func (l *buildLinker) constructEnum(file *enumFile, parent types.Node) *types.EnumDefinition {
	enumDef := &types.EnumDefinition{
		NodeID: types.NodeID(file.ID),
		Name:   file.Name,
		Parent: parent,
	}
	l.nodes[file.ID] = enumDef
	l.enums[file.ID] = enumDef
	for _, valueF := range file.Values {
		value := &types.EnumValue{
			NodeID: types.NodeID(valueF.ID),
			Name:   valueF.Name,
			Parent: enumDef,
		}
		l.nodes[valueF.ID] = value
		enumDef.Values = append(enumDef.Values, value)
	}
	return enumDef
}

func (l *buildLinker) constructError(file *errorFile, parent types.Node) *types.ErrorDefinition {
	errorDef := &types.ErrorDefinition{
		NodeID:   types.NodeID(file.ID),
		Name:     file.Name,
		Parent:   parent,
		Selector: file.Selector,
	}
	errorDef.Parameters = l.constructParameters(file.Parameters, errorDef)
	l.nodes[file.ID] = errorDef
	l.errs[file.ID] = errorDef
	return errorDef
}

func (l *buildLinker) constructParameters(file *parametersFile, owner types.Node) *types.ParameterList {
	if file == nil {
		return &types.ParameterList{Owner: owner}
	}
	list := &types.ParameterList{
		NodeID: types.NodeID(file.ID),
		Owner:  owner,
	}
	l.nodes[file.ID] = list
	for _, parameterF := range file.Parameters {
		list.Parameters = append(list.Parameters, l.constructVariable(parameterF, list))
	}
	return list
}

func (l *buildLinker) constructVariable(file *variableFile, parent types.Node) *types.VariableDeclaration {
	variable := &types.VariableDeclaration{
		NodeID:     types.NodeID(file.ID),
		Name:       file.Name,
		Parent:     parent,
		TypeString: file.TypeString,
		Visibility: types.Visibility(file.Visibility),
		Indexed:    file.Indexed,
		Selector:   file.Selector,
	}
	l.nodes[file.ID] = variable
	if file.Type != nil {
		l.varTypes[file.ID] = file.Type
	}
	return variable
}

func (l *buildLinker) constructArtifact(file *artifactFile) (*types.CompiledContract, error) {
	artifact := &types.CompiledContract{
		RawAbi:          file.Abi,
		InitBytecode:    file.InitBytecode,
		RuntimeBytecode: file.RuntimeBytecode,
		Opcodes:         file.Opcodes,
		SrcMapsRuntime:  file.SrcMapRuntime,
	}
	// Parsing validates the ABI shape at load time; the generator itself consumes the raw entries.
	if len(file.Abi) > 0 {
		raw, err := json.Marshal(file.Abi)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if _, err = types.ParseABIFromInterface(string(raw)); err != nil {
			return nil, errors.Wrap(err, "could not parse contract ABI")
		}
	}
	return artifact, nil
}

// resolveUnit links the identifier references of a unit's declarations, now that every declaration of the build is
// registered. Variable types are also resolved here since type descriptors may reference declarations in any unit.
func (l *buildLinker) resolveUnit(unit *types.SourceUnit, file *unitFile) error {
	for _, structDef := range unit.Structs {
		if err := l.resolveVariables(structDef.Members); err != nil {
			return err
		}
	}

	for i, contractF := range file.Contracts {
		contract := unit.Contracts[i]

		for _, baseID := range contractF.BaseContracts {
			base, ok := l.contracts[baseID]
			if !ok {
				return errors.Errorf("contract %s references unknown base contract node %d", contract.FullyQualifiedName(), baseID)
			}
			contract.BaseContracts = append(contract.BaseContracts, base)
			base.ChildContracts = append(base.ChildContracts, contract)
		}
		for _, linearizedID := range contractF.LinearizedBaseContracts {
			linearized, ok := l.contracts[linearizedID]
			if !ok {
				return errors.Errorf("contract %s references unknown linearized base node %d", contract.FullyQualifiedName(), linearizedID)
			}
			contract.LinearizedBaseContracts = append(contract.LinearizedBaseContracts, linearized)
		}
		for _, usedErrorID := range contractF.UsedErrors {
			usedError, ok := l.errs[usedErrorID]
			if !ok {
				return errors.Errorf("contract %s references unknown error node %d", contract.FullyQualifiedName(), usedErrorID)
			}
			contract.UsedErrors = append(contract.UsedErrors, usedError)
			usedError.UsedIn = append(usedError.UsedIn, contract)
		}

		for _, structDef := range contract.Structs {
			if err := l.resolveVariables(structDef.Members); err != nil {
				return err
			}
		}
		for _, event := range contract.Events {
			if err := l.resolveVariables(event.Parameters.Parameters); err != nil {
				return err
			}
		}
		for _, function := range contract.Functions {
			if err := l.resolveVariables(function.Parameters.Parameters); err != nil {
				return err
			}
			if err := l.resolveVariables(function.ReturnParameters.Parameters); err != nil {
				return err
			}
		}
		if err := l.resolveVariables(contract.Variables); err != nil {
			return err
		}
	}

	for _, errorDef := range unit.Errors {
		if err := l.resolveVariables(errorDef.Parameters.Parameters); err != nil {
			return err
		}
	}

	return nil
}

// resolveVariables links each variable's type descriptor from its wire form.
func (l *buildLinker) resolveVariables(variables []*types.VariableDeclaration) error {
	for _, variable := range variables {
		typeF := l.varTypes[int64(variable.NodeID)]
		if typeF == nil {
			continue
		}
		descriptor, err := l.linkType(typeF)
		if err != nil {
			return errors.Wrapf(err, "could not resolve type of declaration %q", variable.Name)
		}
		variable.Type = descriptor
	}
	return nil
}

// linkType converts a wire type into a linked TypeDescriptor, resolving declaration references by identifier.
func (l *buildLinker) linkType(file *typeFile) (*types.TypeDescriptor, error) {
	descriptor := &types.TypeDescriptor{
		Tag:        types.TypeTag(file.Tag),
		Bits:       file.Bits,
		ByteCount:  file.ByteCount,
		Length:     file.Length,
		TypeString: file.TypeString,
	}

	var err error
	if file.Elem != nil {
		if descriptor.Elem, err = l.linkType(file.Elem); err != nil {
			return nil, err
		}
	}
	if file.Key != nil {
		if descriptor.Key, err = l.linkType(file.Key); err != nil {
			return nil, err
		}
	}

	switch descriptor.Tag {
	case types.TypeTagStruct:
		structDef, ok := l.structs[file.Ref]
		if !ok {
			return nil, errors.Errorf("type references unknown struct node %d", file.Ref)
		}
		descriptor.Struct = structDef
	case types.TypeTagEnum:
		enumDef, ok := l.enums[file.Ref]
		if !ok {
			return nil, errors.Errorf("type references unknown enum node %d", file.Ref)
		}
		descriptor.Enum = enumDef
	case types.TypeTagContract:
		contract, ok := l.contracts[file.Ref]
		if !ok {
			return nil, errors.Errorf("type references unknown contract node %d", file.Ref)
		}
		descriptor.Contract = contract
	}

	return descriptor, nil
}

// linkIntervals converts one file's interval entries into an IntervalIndex. Revert call sites are synthesized as
// call expressions under a revert statement targeting the referenced error; other entries resolve to their
// registered declaration and are skipped if the generator does not model the node kind.
func (l *buildLinker) linkIntervals(entries []intervalFile) (*types.IntervalIndex, error) {
	index := types.NewIntervalIndex()
	for _, entry := range entries {
		var node types.Node
		if entry.Kind == "revertCall" {
			calledError, ok := l.errs[entry.CalledError]
			if !ok {
				return nil, errors.Errorf("revert call site references unknown error node %d", entry.CalledError)
			}
			node = &types.FunctionCall{
				NodeID: types.NodeID(entry.NodeID),
				Parent: &types.RevertStatement{NodeID: types.NodeID(entry.ParentID)},
				Called: calledError,
			}
		} else {
			registered, ok := l.nodes[entry.NodeID]
			if !ok {
				continue
			}
			node = registered
		}
		index.Add(types.IntervalNode{
			Start:        entry.Start,
			End:          entry.End,
			SubtreeDepth: entry.SubtreeDepth,
			Node:         node,
		})
	}
	return index, nil
}
