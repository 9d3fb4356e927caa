package bindgen

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Icontee/wake/compilation/types"
	"github.com/pkg/errors"
)

// generatedTypeName returns the flattened top-level name a declaration of the current unit is emitted under:
// its sanitized name, prefixed by its container contract's sanitized name when nested.
func (g *Generator) generatedTypeName(declaration types.Declaration) (string, error) {
	name, err := g.sanitizer.Sanitize(declaration)
	if err != nil {
		return "", err
	}
	if container, nested := declaration.ParentNode().(*types.ContractDefinition); nested {
		containerName, err := g.sanitizer.Sanitize(container)
		if err != nil {
			return "", err
		}
		return containerName + "_" + name, nil
	}
	return name, nil
}

// byteArrayLiteral renders raw bytes as a Go fixed-array literal.
func byteArrayLiteral(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("0x%02x", b)
	}
	return fmt.Sprintf("[%d]byte{%s}", len(data), strings.Join(parts, ", "))
}

// abiTag renders the original-name side channel carried when a member's sanitized name differs from its source
// name; wire encoding follows the tag, display follows the field.
func abiTag(sanitized string, original string) string {
	if sanitized == original {
		return ""
	}
	return fmt.Sprintf(" `abi:%q`", original)
}

// lengthNote annotates slice-rendered bounded arrays with their length constraint.
func lengthNote(hostType HostType) string {
	if hostType.Length == 0 {
		return ""
	}
	return fmt.Sprintf(" // length: %d", hostType.Length)
}

// emitStruct emits one record type for a struct declaration, fields sanitized in the struct's scope and typed in
// return context.
func (g *Generator) emitStruct(emitter *unitEmitter, structDef *types.StructDefinition) error {
	name, err := g.generatedTypeName(structDef)
	if err != nil {
		return err
	}

	emitter.line("// %s mirrors the Solidity struct `%s`.", name, structDef.Name)
	emitter.line("type %s struct {", name)
	emitter.push()
	for _, member := range structDef.Members {
		fieldName, err := g.sanitizer.Sanitize(member)
		if err != nil {
			return err
		}
		hostType, err := g.mapper.mapType(member.Type, ContextReturn)
		if err != nil {
			return err
		}
		emitter.line("%s %s%s%s", fieldName, hostType.Expr, abiTag(fieldName, member.Name), lengthNote(hostType))
	}
	emitter.pop()
	emitter.line("}")
	emitter.blank()
	return nil
}

// emitEnum emits an integer-backed variant set in declaration order.
func (g *Generator) emitEnum(emitter *unitEmitter, enumDef *types.EnumDefinition) error {
	name, err := g.generatedTypeName(enumDef)
	if err != nil {
		return err
	}

	emitter.line("// %s mirrors the Solidity enum `%s`.", name, enumDef.Name)
	emitter.line("type %s uint8", name)
	emitter.blank()
	emitter.line("const (")
	emitter.push()
	for i, value := range enumDef.Values {
		valueName, err := g.sanitizer.Sanitize(value)
		if err != nil {
			return err
		}
		if i == 0 {
			emitter.line("%s_%s %s = iota", name, valueName, name)
		} else {
			emitter.line("%s_%s", name, valueName)
		}
	}
	emitter.pop()
	emitter.line(")")
	emitter.blank()
	return nil
}

// emitError emits one record type per error declaration, with its selector and raw ABI entry attached for runtime
// decoding. Errors with no use site have no ABI entry anywhere and are skipped. The error is recorded in the
// selector index once per using contract.
func (g *Generator) emitError(emitter *unitEmitter, errorDef *types.ErrorDefinition) error {
	if len(errorDef.UsedIn) == 0 {
		return nil
	}
	name, err := g.generatedTypeName(errorDef)
	if err != nil {
		return err
	}
	abiEntry, err := findErrorABIEntry(errorDef)
	if err != nil {
		return err
	}

	emitter.line("// %s mirrors the Solidity error `%s`. Selector 0x%s.", name, errorDef.Name, hex.EncodeToString(errorDef.Selector))
	emitter.line("type %s struct {", name)
	emitter.push()
	for i, parameter := range errorDef.Parameters.Parameters {
		fieldName, err := g.parameterName(parameter, i, "param")
		if err != nil {
			return err
		}
		hostType, err := g.mapper.mapType(parameter.Type, ContextReturn)
		if err != nil {
			return err
		}
		emitter.line("%s %s%s%s", fieldName, hostType.Expr, abiTag(fieldName, parameter.Name), lengthNote(hostType))
	}
	emitter.pop()
	emitter.line("}")
	emitter.blank()
	emitter.line("// Selector returns the 4-byte selector of %s.", errorDef.Name)
	emitter.line("func (%s) Selector() [4]byte { return %s }", name, byteArrayLiteral(errorDef.Selector))
	emitter.blank()
	emitter.line("// ABIEntry returns the raw ABI entry of %s for runtime decoding.", errorDef.Name)
	emitter.line("func (%s) ABIEntry() string { return `%s` }", name, string(abiEntry))
	emitter.blank()

	for _, user := range errorDef.UsedIn {
		g.indexes.addError(errorDef.Selector, user.FullyQualifiedName(), modulePathOf(g.currentUnit), name)
	}
	return nil
}

// emitEvent emits one record type per event declaration. Indexed parameters of dynamic or compound type only
// travel as their topic hash, so they are renamed with a _hash suffix and typed as the raw 32-byte topic.
func (g *Generator) emitEvent(emitter *unitEmitter, eventDef *types.EventDefinition) error {
	name, err := g.generatedTypeName(eventDef)
	if err != nil {
		return err
	}

	emitter.line("// %s mirrors the Solidity event `%s`. Topic 0x%s.", name, eventDef.Name, hex.EncodeToString(eventDef.Selector))
	emitter.line("type %s struct {", name)
	emitter.push()
	for i, parameter := range eventDef.Parameters.Parameters {
		fieldName, err := g.parameterName(parameter, i, "param")
		if err != nil {
			return err
		}
		if parameter.Indexed && onlyTopicHashAvailable(parameter.Type) {
			emitter.line("%s_hash [32]byte%s // indexed; topic hash of %s", fieldName, abiTag(fieldName+"_hash", parameter.Name), parameter.TypeString)
			continue
		}
		hostType, err := g.mapper.mapType(parameter.Type, ContextReturn)
		if err != nil {
			return err
		}
		indexedNote := ""
		if parameter.Indexed {
			indexedNote = " // indexed"
		}
		emitter.line("%s %s%s%s%s", fieldName, hostType.Expr, abiTag(fieldName, parameter.Name), lengthNote(hostType), indexedNote)
	}
	emitter.pop()
	emitter.line("}")
	emitter.blank()
	emitter.line("// Selector returns the 32-byte topic of %s.", eventDef.Name)
	emitter.line("func (%s) Selector() [32]byte { return %s }", name, byteArrayLiteral(eventDef.Selector))
	emitter.blank()

	// Derived contracts carry inherited events in their ABI, so the topic resolves under every descendant's
	// fully qualified name as the emitting context.
	module := modulePathOf(g.currentUnit)
	visited := make(map[types.NodeID]struct{})
	pending := []*types.ContractDefinition{eventDef.Parent}
	for len(pending) > 0 {
		carrier := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, seen := visited[carrier.NodeID]; seen {
			continue
		}
		visited[carrier.NodeID] = struct{}{}
		g.indexes.addEvent(eventDef.Selector, carrier.FullyQualifiedName(), module, name)
		pending = append(pending, carrier.ChildContracts...)
	}
	return nil
}

// parameterName sanitizes a parameter's name, synthesizing a positional one when the source leaves it unnamed.
func (g *Generator) parameterName(parameter *types.VariableDeclaration, position int, prefix string) (string, error) {
	if parameter.Name == "" {
		return g.positionalName(parameter, position, prefix)
	}
	return g.sanitizer.Sanitize(parameter)
}

// positionalName chooses a positional identifier (e.g. param1, arg2) for an unnamed parameter, probing against its
// named siblings through the regular scope tables.
func (g *Generator) positionalName(parameter *types.VariableDeclaration, position int, prefix string) (string, error) {
	return g.sanitizer.Sanitize(&namedDeclaration{
		Declaration: parameter,
		name:        fmt.Sprintf("%s%d", prefix, position+1),
	})
}

// namedDeclaration overrides a declaration's source name, keeping its identity and structural parent. Used to feed
// synthesized positional names through the sanitizer's collision probing.
type namedDeclaration struct {
	types.Declaration
	name string
}

func (n *namedDeclaration) DeclarationName() string { return n.name }

// onlyTopicHashAvailable reports whether an indexed event parameter of this type is only recoverable as its topic
// hash: dynamic types and compound types are hashed into the topic rather than encoded.
func onlyTopicHashAvailable(descriptor *types.TypeDescriptor) bool {
	switch descriptor.Tag {
	case types.TypeTagString, types.TypeTagBytes, types.TypeTagArray, types.TypeTagStruct:
		return true
	default:
		return false
	}
}

// findErrorABIEntry locates an error declaration's raw ABI entry in the artifacts of the contracts using it. A
// used error with no resolvable entry is an internal fault.
func findErrorABIEntry(errorDef *types.ErrorDefinition) (json.RawMessage, error) {
	for _, user := range errorDef.UsedIn {
		if user.Artifact == nil {
			continue
		}
		for _, rawEntry := range user.Artifact.RawAbi {
			var head struct {
				Type string `json:"type"`
				Name string `json:"name"`
			}
			if err := json.Unmarshal(rawEntry, &head); err != nil {
				continue
			}
			if head.Type == "error" && head.Name == errorDef.Name {
				return rawEntry, nil
			}
		}
	}
	return nil, errors.Errorf("error declaration %q has no resolvable ABI entry in any using contract", errorDef.Name)
}
