package bindgen

import (
	"strings"

	"github.com/Icontee/wake/compilation/types"
	"github.com/pkg/errors"
)

// NameScope identifies the lexical scope a declaration's output identifier is chosen in. Each scope owns its own
// rename table and reserved-identifier table.
type NameScope int

const (
	// ScopeGlobal holds unit-scope declarations: contracts, free structs, enums and errors. Its rename table is
	// reset for every compilation unit.
	ScopeGlobal NameScope = iota
	// ScopeContract holds a contract's member declarations.
	ScopeContract
	// ScopeFunction holds a function's parameters and return parameters.
	ScopeFunction
	// ScopeStruct holds a struct's members.
	ScopeStruct
	// ScopeEvent holds an event's parameters.
	ScopeEvent
	// ScopeError holds an error's parameters.
	ScopeError
	// ScopeEnum holds an enum's values.
	ScopeEnum
)

// goKeywords blocks the language's reserved words in every scope.
var goKeywords = map[string]struct{}{
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {}, "default": {}, "defer": {}, "else": {},
	"fallthrough": {}, "for": {}, "func": {}, "go": {}, "goto": {}, "if": {}, "import": {}, "interface": {},
	"map": {}, "package": {}, "range": {}, "return": {}, "select": {}, "struct": {}, "switch": {}, "type": {},
	"var": {},
}

// goPredeclared blocks the predeclared identifiers in every scope; shadowing them in generated code compiles but
// breaks any later use of the builtin within the same file.
var goPredeclared = map[string]struct{}{
	"any": {}, "append": {}, "bool": {}, "byte": {}, "cap": {}, "clear": {}, "close": {}, "comparable": {},
	"complex": {}, "complex64": {}, "complex128": {}, "copy": {}, "delete": {}, "error": {}, "false": {},
	"float32": {}, "float64": {}, "imag": {}, "int": {}, "int8": {}, "int16": {}, "int32": {}, "int64": {},
	"iota": {}, "len": {}, "make": {}, "max": {}, "min": {}, "new": {}, "nil": {}, "panic": {}, "print": {},
	"println": {}, "real": {}, "recover": {}, "rune": {}, "string": {}, "true": {}, "uint": {}, "uint8": {},
	"uint16": {}, "uint32": {}, "uint64": {}, "uintptr": {},
}

// scopeReserved holds the fixed per-scope reserved-identifier tables: names the generated code itself introduces
// into that scope. Matching is case folded, since a clash in either casing either shadows the generated surface or
// flips a member's export status onto a colliding exported name.
var scopeReserved = map[NameScope][]string{
	ScopeGlobal:   {"runtime", "big", "common", "json", "abi", "hexutil", "manifest"},
	ScopeContract: {"address", "abi", "deploy", "deploymentCode", "contract", "selector", "chain", "list"},
	ScopeFunction: {"opts", "ctx", "args", "result"},
	ScopeStruct:   {"list", "selector", "original"},
	ScopeEvent:    {"topics", "selector", "original"},
	ScopeError:    {"selector", "abiEntry", "original"},
	ScopeEnum:     {},
}

// derivedSuffixes lists the identifiers emission derives from a chosen name by suffixing: the per-mode wrappers of
// contract members and the deploy helper and artifact family of global contract names. Choosing a name claims its
// derivatives too, and a name whose derivative is already taken probes on.
var derivedSuffixes = map[NameScope][]string{
	ScopeGlobal:   {"_deploy", "_deploy_tx", "_deploymentCode", "_deploymentHex", "_abi", "_libraryID"},
	ScopeContract: {"_call", "_estimate", "_accessList", "_send"},
}

// scopeKey identifies one rename table: the scope kind plus the owning declaration. Global tables use a zero owner
// since there is exactly one global scope per unit.
type scopeKey struct {
	scope NameScope
	owner types.NodeID
}

// renameTable records the identifiers already chosen within one scope.
type renameTable struct {
	// byDeclaration maps a declaration to its chosen identifier, making sanitization idempotent per declaration.
	byDeclaration map[types.NodeID]string

	// byName maps a chosen identifier back to the declaration holding it.
	byName map[string]types.NodeID
}

func newRenameTable() *renameTable {
	return &renameTable{
		byDeclaration: make(map[types.NodeID]string),
		byName:        make(map[string]types.NodeID),
	}
}

// Sanitizer chooses collision-free output identifiers for declarations, scope by scope. Identifiers are probed by
// appending trailing underscores until no reserved word, reserved table entry, or previously chosen name collides.
type Sanitizer struct {
	tables map[scopeKey]*renameTable
}

// NewSanitizer returns a sanitizer with empty rename tables.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		tables: make(map[scopeKey]*renameTable),
	}
}

// ResetGlobalScope clears the global rename table. It is invoked at the start of every compilation unit so that
// unit-scope declarations are re-sanitized fresh, while scoped tables persist for the process lifetime.
func (s *Sanitizer) ResetGlobalScope() {
	delete(s.tables, scopeKey{scope: ScopeGlobal})
}

// Sanitize returns the output identifier for the given declaration, choosing and caching one on first use. A
// declaration whose structural parent falls outside the known scope set is an internal fault.
func (s *Sanitizer) Sanitize(declaration types.Declaration) (string, error) {
	key, err := scopeOf(declaration)
	if err != nil {
		return "", err
	}

	table := s.tables[key]
	if table == nil {
		table = newRenameTable()
		s.tables[key] = table
	}
	if chosen, exists := table.byDeclaration[declaration.ID()]; exists {
		return chosen, nil
	}

	original := declaration.DeclarationName()
	candidate := original
	for s.collides(key, table, candidate, original) {
		candidate += "_"
	}

	table.byDeclaration[declaration.ID()] = candidate
	table.byName[candidate] = declaration.ID()
	for _, suffix := range derivedSuffixes[key.scope] {
		table.byName[candidate+suffix] = declaration.ID()
	}
	return candidate, nil
}

// collides reports whether the candidate identifier clashes within the given scope.
func (s *Sanitizer) collides(key scopeKey, table *renameTable, candidate string, original string) bool {
	if _, reserved := goKeywords[candidate]; reserved {
		return true
	}
	if _, reserved := goPredeclared[candidate]; reserved {
		return true
	}

	folded := strings.ToLower(candidate)
	for _, reserved := range scopeReserved[key.scope] {
		if strings.ToLower(reserved) == folded {
			return true
		}
	}

	// Names already chosen in this scope by another declaration, including the derivatives emission will append.
	if _, taken := table.byName[candidate]; taken {
		return true
	}
	for _, suffix := range derivedSuffixes[key.scope] {
		if _, taken := table.byName[candidate+suffix]; taken {
			return true
		}
	}

	// Global names are visible everywhere, so they block every scope except function parameters, which may
	// shadow them.
	if key.scope != ScopeGlobal && key.scope != ScopeFunction {
		if global := s.tables[scopeKey{scope: ScopeGlobal}]; global != nil {
			if _, taken := global.byName[candidate]; taken {
				return true
			}
		}
	}

	// Dunder-style names are claimed by generated internals in non-global scopes, unless the source itself used
	// the dunder form.
	if key.scope != ScopeGlobal && isDunder(candidate) && !isDunder(original) {
		return true
	}

	return false
}

func isDunder(name string) bool {
	return len(name) >= 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// scopeOf determines the scope a declaration's identifier is chosen in from its structural parent.
func scopeOf(declaration types.Declaration) (scopeKey, error) {
	switch parent := declaration.ParentNode().(type) {
	case *types.SourceUnit:
		return scopeKey{scope: ScopeGlobal}, nil
	case *types.ContractDefinition:
		return scopeKey{scope: ScopeContract, owner: parent.ID()}, nil
	case *types.StructDefinition:
		return scopeKey{scope: ScopeStruct, owner: parent.ID()}, nil
	case *types.EnumDefinition:
		return scopeKey{scope: ScopeEnum, owner: parent.ID()}, nil
	case *types.ParameterList:
		switch owner := parent.Owner.(type) {
		case *types.FunctionDefinition:
			return scopeKey{scope: ScopeFunction, owner: owner.ID()}, nil
		case *types.EventDefinition:
			return scopeKey{scope: ScopeEvent, owner: owner.ID()}, nil
		case *types.ErrorDefinition:
			return scopeKey{scope: ScopeError, owner: owner.ID()}, nil
		default:
			return scopeKey{}, errors.Errorf("declaration %q belongs to a parameter list with an unknown owner", declaration.DeclarationName())
		}
	default:
		return scopeKey{}, errors.Errorf("declaration %q has a structural parent outside the known scope set", declaration.DeclarationName())
	}
}
