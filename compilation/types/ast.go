package types

// NodeID is a stable surrogate key for an AST node. It is assigned by the compiler front end and corresponds to the
// node's position within its owning AST, so it can be used to key rename tables and cross-reference lookups without
// relying on object identity.
type NodeID int64

// Node is implemented by every AST entity which can parent a declaration or be resolved from a byte-range lookup.
type Node interface {
	// ID returns the node's stable surrogate key.
	ID() NodeID
}

// Declaration is implemented by AST declarations which carry a user-facing name. The binding generator derives a
// sanitized output identifier from each declaration it emits.
type Declaration interface {
	Node

	// DeclarationName returns the name of the declaration as written in the source.
	DeclarationName() string

	// ParentNode returns the structural parent of the declaration. The parent determines which lexical scope the
	// declaration's output identifier is sanitized in.
	ParentNode() Node
}

// ContractKind represents the kind of contract definition represented by an AST node
type ContractKind string

const (
	// ContractKindContract represents a contract node
	ContractKindContract ContractKind = "contract"
	// ContractKindLibrary represents a library node
	ContractKindLibrary ContractKind = "library"
	// ContractKindInterface represents an interface node
	ContractKindInterface ContractKind = "interface"
)

// Visibility describes the visibility of a function or state variable.
type Visibility string

const (
	// VisibilityPublic describes a publicly accessible declaration.
	VisibilityPublic Visibility = "public"
	// VisibilityExternal describes an externally accessible declaration.
	VisibilityExternal Visibility = "external"
	// VisibilityInternal describes a declaration accessible only within the contract and its derivations.
	VisibilityInternal Visibility = "internal"
	// VisibilityPrivate describes a declaration accessible only within the declaring contract.
	VisibilityPrivate Visibility = "private"
)

// StateMutability describes the state mutability of a function.
type StateMutability string

const (
	// StateMutabilityPure describes a function which reads no chain state.
	StateMutabilityPure StateMutability = "pure"
	// StateMutabilityView describes a function which reads but does not write chain state.
	StateMutabilityView StateMutability = "view"
	// StateMutabilityNonPayable describes a state-changing function which rejects value transfers.
	StateMutabilityNonPayable StateMutability = "nonpayable"
	// StateMutabilityPayable describes a state-changing function which accepts value transfers.
	StateMutabilityPayable StateMutability = "payable"
)

// SourceUnit describes one source file's worth of AST: an ordered sequence of top-level declarations, a stable unit
// name, and the ordered names of the units it imports. Source units are read-only inputs produced by the compiler
// front end.
type SourceUnit struct {
	// NodeID is the stable surrogate key for this source unit.
	NodeID NodeID

	// Name is the stable compilation unit name, e.g. "contracts/Token.sol".
	Name string

	// FileID is the numeric file identifier referenced by source maps.
	FileID int

	// Imports lists the names of the source units this unit imports, in declaration order.
	Imports []string

	// Contracts lists the contract-like declarations in this unit, in declaration order.
	Contracts []*ContractDefinition

	// Structs lists the unit-scope struct declarations.
	Structs []*StructDefinition

	// Enums lists the unit-scope enum declarations.
	Enums []*EnumDefinition

	// Errors lists the unit-scope error declarations.
	Errors []*ErrorDefinition
}

// ID returns the node's stable surrogate key.
func (s *SourceUnit) ID() NodeID { return s.NodeID }

// ContractDefinition describes a contract, library, or interface declaration together with its compiled artifacts.
type ContractDefinition struct {
	// NodeID is the stable surrogate key for this contract definition.
	NodeID NodeID

	// Name is the contract name as written in the source.
	Name string

	// Kind is a ContractKind that represents what type of contract definition this is.
	Kind ContractKind

	// Abstract indicates the contract is declared abstract and cannot be deployed.
	Abstract bool

	// Parent is the source unit which declares this contract.
	Parent *SourceUnit

	// BaseContracts lists direct base contracts in declaration order.
	BaseContracts []*ContractDefinition

	// LinearizedBaseContracts lists the C3-linearized inheritance chain, most-derived first. It includes the
	// contract itself as its first element.
	LinearizedBaseContracts []*ContractDefinition

	// ChildContracts lists contracts which directly derive from this contract.
	ChildContracts []*ContractDefinition

	// Functions lists the contract's function declarations, in declaration order. The constructor, if any, is
	// included under the name "constructor".
	Functions []*FunctionDefinition

	// Variables lists the contract's state variable declarations, in declaration order.
	Variables []*VariableDeclaration

	// Structs, Enums, Events and Errors list the contract-scope type declarations.
	Structs []*StructDefinition
	Enums   []*EnumDefinition
	Events  []*EventDefinition
	Errors  []*ErrorDefinition

	// UsedErrors lists every error declaration which may be raised by this contract, including errors declared
	// elsewhere and raised through library or base contract code.
	UsedErrors []*ErrorDefinition

	// Artifact holds the compiled artifacts for this contract.
	Artifact *CompiledContract
}

// ID returns the node's stable surrogate key.
func (c *ContractDefinition) ID() NodeID { return c.NodeID }

// DeclarationName returns the contract's source name.
func (c *ContractDefinition) DeclarationName() string { return c.Name }

// ParentNode returns the declaring source unit.
func (c *ContractDefinition) ParentNode() Node { return c.Parent }

// FullyQualifiedName returns the globally unique "unit-name:contract-name" identifier for this contract.
func (c *ContractDefinition) FullyQualifiedName() string {
	return c.Parent.Name + ":" + c.Name
}

// Constructor returns the contract's constructor definition, or nil if the contract declares none.
func (c *ContractDefinition) Constructor() *FunctionDefinition {
	for _, fn := range c.Functions {
		if fn.Name == "constructor" {
			return fn
		}
	}
	return nil
}

// FunctionDefinition describes a function declaration (including constructors, which use the name "constructor").
type FunctionDefinition struct {
	// NodeID is the stable surrogate key for this function definition.
	NodeID NodeID

	// Name is the function name as written in the source.
	Name string

	// Parent is the declaring contract or source unit (free functions).
	Parent Node

	// Parameters and ReturnParameters describe the function signature.
	Parameters       *ParameterList
	ReturnParameters *ParameterList

	// Visibility and StateMutability mirror the source declaration.
	Visibility      Visibility
	StateMutability StateMutability

	// Implemented indicates the function has a body (false for unimplemented virtual functions and interface
	// members).
	Implemented bool

	// Selector is the 4-byte function selector, or nil for functions which have none (internal/private functions
	// and constructors).
	Selector []byte
}

// ID returns the node's stable surrogate key.
func (f *FunctionDefinition) ID() NodeID { return f.NodeID }

// DeclarationName returns the function's source name.
func (f *FunctionDefinition) DeclarationName() string { return f.Name }

// ParentNode returns the declaring contract or source unit.
func (f *FunctionDefinition) ParentNode() Node { return f.Parent }

// CanonicalName returns the contract-qualified name used by the overload resolver, e.g. "Token.transfer". For free
// functions the bare name is returned.
func (f *FunctionDefinition) CanonicalName() string {
	if contract, ok := f.Parent.(*ContractDefinition); ok {
		return contract.Name + "." + f.Name
	}
	return f.Name
}

// IsViewOrPure indicates whether the function can be serviced by a read-only call.
func (f *FunctionDefinition) IsViewOrPure() bool {
	return f.StateMutability == StateMutabilityView || f.StateMutability == StateMutabilityPure
}

// ParameterList groups the parameters of a function, event, or error declaration. A parameter's structural parent is
// its parameter list; the list's owner determines the sanitization scope.
type ParameterList struct {
	// NodeID is the stable surrogate key for this parameter list.
	NodeID NodeID

	// Owner is the function, event, or error declaration this list belongs to.
	Owner Node

	// Parameters lists the declared parameters in order. Unnamed parameters have an empty name.
	Parameters []*VariableDeclaration
}

// ID returns the node's stable surrogate key.
func (p *ParameterList) ID() NodeID { return p.NodeID }

// VariableDeclaration describes a state variable, struct member, or parameter declaration.
type VariableDeclaration struct {
	// NodeID is the stable surrogate key for this variable declaration.
	NodeID NodeID

	// Name is the variable name as written in the source. Unnamed parameters have an empty name.
	Name string

	// Parent is the declaring contract, struct, or parameter list.
	Parent Node

	// Type describes the declared type, including any array and mapping layers.
	Type *TypeDescriptor

	// TypeString is the original source type string, preserved for generated documentation.
	TypeString string

	// Visibility applies to state variables only.
	Visibility Visibility

	// Indexed applies to event parameters only.
	Indexed bool

	// Selector is the 4-byte selector of the auto-generated getter, for public/external state variables only.
	Selector []byte
}

// ID returns the node's stable surrogate key.
func (v *VariableDeclaration) ID() NodeID { return v.NodeID }

// DeclarationName returns the variable's source name.
func (v *VariableDeclaration) DeclarationName() string { return v.Name }

// ParentNode returns the declaring contract, struct, or parameter list.
func (v *VariableDeclaration) ParentNode() Node { return v.Parent }

// StructDefinition describes a struct declaration at unit or contract scope.
type StructDefinition struct {
	// NodeID is the stable surrogate key for this struct definition.
	NodeID NodeID

	// Name is the struct name as written in the source.
	Name string

	// Parent is the declaring contract or source unit.
	Parent Node

	// Members lists the struct members in declaration order.
	Members []*VariableDeclaration
}

// ID returns the node's stable surrogate key.
func (s *StructDefinition) ID() NodeID { return s.NodeID }

// DeclarationName returns the struct's source name.
func (s *StructDefinition) DeclarationName() string { return s.Name }

// ParentNode returns the declaring contract or source unit.
func (s *StructDefinition) ParentNode() Node { return s.Parent }

// EnumDefinition describes an enum declaration at unit or contract scope.
type EnumDefinition struct {
	// NodeID is the stable surrogate key for this enum definition.
	NodeID NodeID

	// Name is the enum name as written in the source.
	Name string

	// Parent is the declaring contract or source unit.
	Parent Node

	// Values lists the enum members in declaration order.
	Values []*EnumValue
}

// ID returns the node's stable surrogate key.
func (e *EnumDefinition) ID() NodeID { return e.NodeID }

// DeclarationName returns the enum's source name.
func (e *EnumDefinition) DeclarationName() string { return e.Name }

// ParentNode returns the declaring contract or source unit.
func (e *EnumDefinition) ParentNode() Node { return e.Parent }

// EnumValue describes a single member of an enum declaration.
type EnumValue struct {
	// NodeID is the stable surrogate key for this enum value.
	NodeID NodeID

	// Name is the member name as written in the source.
	Name string

	// Parent is the declaring enum.
	Parent *EnumDefinition
}

// ID returns the node's stable surrogate key.
func (e *EnumValue) ID() NodeID { return e.NodeID }

// DeclarationName returns the member's source name.
func (e *EnumValue) DeclarationName() string { return e.Name }

// ParentNode returns the declaring enum.
func (e *EnumValue) ParentNode() Node { return e.Parent }

// EventDefinition describes an event declaration within a contract.
type EventDefinition struct {
	// NodeID is the stable surrogate key for this event definition.
	NodeID NodeID

	// Name is the event name as written in the source.
	Name string

	// Parent is the declaring contract.
	Parent *ContractDefinition

	// Parameters describe the event's parameters in order.
	Parameters *ParameterList

	// Selector is the 32-byte event topic.
	Selector []byte
}

// ID returns the node's stable surrogate key.
func (e *EventDefinition) ID() NodeID { return e.NodeID }

// DeclarationName returns the event's source name.
func (e *EventDefinition) DeclarationName() string { return e.Name }

// ParentNode returns the declaring contract.
func (e *EventDefinition) ParentNode() Node { return e.Parent }

// ErrorDefinition describes a custom error declaration at unit or contract scope.
type ErrorDefinition struct {
	// NodeID is the stable surrogate key for this error definition.
	NodeID NodeID

	// Name is the error name as written in the source.
	Name string

	// Parent is the declaring contract or source unit.
	Parent Node

	// Parameters describe the error's parameters in order.
	Parameters *ParameterList

	// Selector is the 4-byte error selector.
	Selector []byte

	// UsedIn lists contracts which may raise this error. Errors with no use site have no ABI entry anywhere and
	// are skipped during generation.
	UsedIn []*ContractDefinition
}

// ID returns the node's stable surrogate key.
func (e *ErrorDefinition) ID() NodeID { return e.NodeID }

// DeclarationName returns the error's source name.
func (e *ErrorDefinition) DeclarationName() string { return e.Name }

// ParentNode returns the declaring contract or source unit.
func (e *ErrorDefinition) ParentNode() Node { return e.Parent }

// RevertStatement marks a `revert CustomError(...)` statement site. It exists in the interval index so that REVERT
// program counters can be attributed to custom error raises.
type RevertStatement struct {
	// NodeID is the stable surrogate key for this statement.
	NodeID NodeID
}

// ID returns the node's stable surrogate key.
func (r *RevertStatement) ID() NodeID { return r.NodeID }

// FunctionCall describes a call expression. Within this model it only appears as the argument expression of a revert
// statement, where its call target identifies the raised error declaration.
type FunctionCall struct {
	// NodeID is the stable surrogate key for this expression.
	NodeID NodeID

	// Parent is the enclosing statement.
	Parent Node

	// Called is the resolved call target.
	Called Declaration
}

// ID returns the node's stable surrogate key.
func (f *FunctionCall) ID() NodeID { return f.NodeID }
