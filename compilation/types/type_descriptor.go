package types

// TypeTag identifies the variant of a TypeDescriptor. The tag set is closed: descriptors are produced by a trusted
// compiler front end and an unrecognized tag is an internal-consistency fault, not a recoverable condition.
type TypeTag string

const (
	// TypeTagAddress is a 20-byte account address.
	TypeTagAddress TypeTag = "address"
	// TypeTagBool is a boolean.
	TypeTagBool TypeTag = "bool"
	// TypeTagString is a dynamic UTF-8 string.
	TypeTagString TypeTag = "string"
	// TypeTagBytes is a dynamic byte array.
	TypeTagBytes TypeTag = "bytes"
	// TypeTagFixedBytes is a fixed-width byte array of 1..32 bytes.
	TypeTagFixedBytes TypeTag = "fixedBytes"
	// TypeTagInt is a signed integer of 8..256 bits.
	TypeTagInt TypeTag = "int"
	// TypeTagUInt is an unsigned integer of 8..256 bits.
	TypeTagUInt TypeTag = "uint"
	// TypeTagArray is a dynamically or statically sized array.
	TypeTagArray TypeTag = "array"
	// TypeTagMapping is a storage mapping. Mappings never cross the wire by value; they only contribute key
	// parameters to synthesized state variable getters.
	TypeTagMapping TypeTag = "mapping"
	// TypeTagStruct references a struct definition.
	TypeTagStruct TypeTag = "struct"
	// TypeTagEnum references an enum definition.
	TypeTagEnum TypeTag = "enum"
	// TypeTagContract references a contract definition.
	TypeTagContract TypeTag = "contract"
	// TypeTagUserDefinedValue is a user defined value type wrapping a primitive. It is transparent to generated
	// bindings: mapping always recurses into the underlying type.
	TypeTagUserDefinedValue TypeTag = "userDefinedValueType"
	// TypeTagFunction is an external function reference.
	TypeTagFunction TypeTag = "function"
)

// TypeDescriptor is an immutable tagged variant describing a source type. Only the fields relevant to the given Tag
// are populated.
type TypeDescriptor struct {
	// Tag selects the variant.
	Tag TypeTag

	// Bits is the width of int/uint variants.
	Bits int

	// ByteCount is the width of fixedBytes variants.
	ByteCount int

	// Length is the static length of array variants; zero means dynamically sized.
	Length int

	// Elem is the array element type, the mapping value type, or the underlying type of a user defined value type.
	Elem *TypeDescriptor

	// Key is the mapping key type.
	Key *TypeDescriptor

	// Struct, Enum and Contract reference the declaration for the respective variants.
	Struct   *StructDefinition
	Enum     *EnumDefinition
	Contract *ContractDefinition

	// TypeString is the original source type string, preserved for generated documentation.
	TypeString string
}

// IsCompound indicates whether the descriptor is an array or mapping layer. Compound layers contribute index/key
// parameters to synthesized state variable getters.
func (t *TypeDescriptor) IsCompound() bool {
	return t.Tag == TypeTagArray || t.Tag == TypeTagMapping
}
