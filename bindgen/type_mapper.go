package bindgen

import (
	"fmt"
	"path"

	"github.com/Icontee/wake/compilation/types"
	"github.com/Icontee/wake/utils"
	"github.com/pkg/errors"
)

// TypeContext selects the position a type expression is mapped for. Some source types map differently by position:
// an address parameter accepts anything addressable, while an address return value is always the raw address type.
type TypeContext int

const (
	// ContextParameter maps a type for a parameter position.
	ContextParameter TypeContext = iota
	// ContextReturn maps a type for a return position.
	ContextReturn
)

// HostType is a mapped Go type expression. Length carries the length constraint of bounded arrays too long to
// render as a Go array type; it is zero otherwise.
type HostType struct {
	Expr   string
	Length int
}

// fixedArrayMaxLength bounds the array lengths rendered as Go array types. Longer bounded arrays render as slices
// carrying an explicit length constraint, which the runtime enforces when packing.
const fixedArrayMaxLength = 32

// typeMapper converts type descriptors into Go type expressions, registering imports into the active unit's import
// registry as a side effect.
type typeMapper struct {
	config    *GenerationConfig
	sanitizer *Sanitizer
	imports   *ImportRegistry

	// currentUnit is the unit being emitted; references to declarations of other units import their generated
	// packages.
	currentUnit *types.SourceUnit
}

// mapType maps a type descriptor to its Go type expression in the given context. The descriptor tag set is closed;
// an unrecognized tag is an internal fault.
func (m *typeMapper) mapType(descriptor *types.TypeDescriptor, context TypeContext) (HostType, error) {
	switch descriptor.Tag {
	case types.TypeTagAddress:
		if context == ContextParameter {
			m.imports.AddHost(m.config.RuntimePackage)
			return HostType{Expr: "runtime.Addressable"}, nil
		}
		m.imports.AddHost("github.com/ethereum/go-ethereum/common")
		return HostType{Expr: "common.Address"}, nil

	case types.TypeTagBool:
		return HostType{Expr: "bool"}, nil

	case types.TypeTagString:
		return HostType{Expr: "string"}, nil

	case types.TypeTagBytes:
		return HostType{Expr: "[]byte"}, nil

	case types.TypeTagFunction:
		// External function references travel as a 24-byte address/selector pair.
		return HostType{Expr: "[24]byte"}, nil

	case types.TypeTagFixedBytes:
		return HostType{Expr: fmt.Sprintf("[%d]byte", descriptor.ByteCount)}, nil

	case types.TypeTagInt:
		return m.mapInteger("int", descriptor.Bits), nil

	case types.TypeTagUInt:
		return m.mapInteger("uint", descriptor.Bits), nil

	case types.TypeTagArray:
		element, err := m.mapType(descriptor.Elem, context)
		if err != nil {
			return HostType{}, err
		}
		if descriptor.Length == 0 {
			return HostType{Expr: "[]" + element.Expr}, nil
		}
		if descriptor.Length <= fixedArrayMaxLength {
			return HostType{Expr: fmt.Sprintf("[%d]%s", descriptor.Length, element.Expr)}, nil
		}
		return HostType{Expr: "[]" + element.Expr, Length: descriptor.Length}, nil

	case types.TypeTagMapping:
		// Map keys always use the return-context mapping: parameter-context handle types are interfaces and
		// cannot key a Go map.
		key, err := m.mapType(descriptor.Key, ContextReturn)
		if err != nil {
			return HostType{}, err
		}
		value, err := m.mapType(descriptor.Elem, context)
		if err != nil {
			return HostType{}, err
		}
		return HostType{Expr: fmt.Sprintf("map[%s]%s", key.Expr, value.Expr)}, nil

	case types.TypeTagUserDefinedValue:
		// User defined value types unwrap transparently into their underlying primitive.
		return m.mapType(descriptor.Elem, context)

	case types.TypeTagStruct:
		expr, err := m.referenceName(descriptor.Struct, func(unitName, pkgPath string) {
			m.imports.AddStruct(unitName, pkgPath)
		})
		if err != nil {
			return HostType{}, err
		}
		return HostType{Expr: expr}, nil

	case types.TypeTagEnum:
		expr, err := m.referenceName(descriptor.Enum, func(unitName, pkgPath string) {
			m.imports.AddEnum(unitName, pkgPath)
		})
		if err != nil {
			return HostType{}, err
		}
		return HostType{Expr: expr}, nil

	case types.TypeTagContract:
		expr, err := m.referenceName(descriptor.Contract, func(unitName, pkgPath string) {
			m.imports.AddContract(unitName, pkgPath)
		})
		if err != nil {
			return HostType{}, err
		}
		return HostType{Expr: "*" + expr}, nil

	default:
		return HostType{}, errors.Errorf("unrecognized type descriptor tag %q (type %q)", descriptor.Tag, descriptor.TypeString)
	}
}

// mapInteger maps an integer width onto the native Go type when one exists, falling back to big.Int otherwise.
func (m *typeMapper) mapInteger(base string, bits int) HostType {
	switch bits {
	case 8, 16, 32, 64:
		return HostType{Expr: fmt.Sprintf("%s%d", base, bits)}
	default:
		m.imports.AddHost("math/big")
		return HostType{Expr: "*big.Int"}
	}
}

// referenceName returns the generated type name for a struct, enum, or contract declaration, qualified by its
// container contract when nested and by its unit's package alias when foreign. register is invoked with the
// declaring unit when an import of its generated package is required.
func (m *typeMapper) referenceName(declaration types.Declaration, register func(unitName string, pkgPath string)) (string, error) {
	name, err := m.sanitizer.Sanitize(declaration)
	if err != nil {
		return "", err
	}

	// Contract-nested declarations flatten to Container_Name; the container contributes a contract import.
	declaringUnit := ""
	if container, nested := declaration.ParentNode().(*types.ContractDefinition); nested {
		containerName, err := m.sanitizer.Sanitize(container)
		if err != nil {
			return "", err
		}
		name = containerName + "_" + name
		declaringUnit = container.Parent.Name
		// The container's import only exists for foreign units; a unit never imports its own generated package.
		if declaringUnit != m.currentUnit.Name {
			m.imports.AddContract(declaringUnit, generatedPackagePath(m.config, declaringUnit))
		}
	} else if unit, topLevel := declaration.ParentNode().(*types.SourceUnit); topLevel {
		declaringUnit = unit.Name
	} else {
		return "", errors.Errorf("declaration %q is neither unit-scope nor contract-nested", declaration.DeclarationName())
	}

	if declaringUnit == m.currentUnit.Name {
		return name, nil
	}
	register(declaringUnit, generatedPackagePath(m.config, declaringUnit))
	return UnitAlias(declaringUnit) + "." + name, nil
}

// generatedPackagePath returns the import path of a unit's generated package.
func generatedPackagePath(config *GenerationConfig, unitName string) string {
	dir := path.Dir(utils.MakePathAlphanumeric(utils.GetFilePathWithoutExtension(unitName)))
	if dir == "." || dir == "" {
		return config.PackagePrefix
	}
	return config.PackagePrefix + "/" + dir
}
